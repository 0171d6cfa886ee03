package inventory

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/mantenimiento-api/internal/domain/entity"
)

// EvaluateLowStock decide si el nuevo stock requiere alerta de stock mínimo y con qué nivel.
// CRITICO cuando el stock llega a cero; ADVERTENCIA cuando 0 < stock <= umbral.
func EvaluateLowStock(newStock, threshold decimal.Decimal) (entity.AlertLevel, bool) {
	if newStock.GreaterThan(threshold) || newStock.IsNegative() {
		return "", false
	}
	if newStock.IsZero() {
		return entity.AlertLevelCritico, true
	}
	return entity.AlertLevelAdvertencia, true
}

// LowStockMessage texto de la alerta para el componente.
func LowStockMessage(label string, level entity.AlertLevel, newStock, threshold decimal.Decimal) string {
	if level == entity.AlertLevelCritico {
		return fmt.Sprintf("Componente %s sin stock (mínimo %s)", label, threshold.String())
	}
	return fmt.Sprintf("Componente %s con stock bajo: %s unidades (mínimo %s)", label, newStock.String(), threshold.String())
}
