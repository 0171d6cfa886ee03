package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/mantenimiento-api/internal/domain/entity"
	"github.com/jhoicas/mantenimiento-api/internal/domain/inventory"
	"github.com/jhoicas/mantenimiento-api/internal/domain/repository"
)

// AlertGenerator crea alertas STOCK_MINIMO sin duplicar las abiertas. Nunca resuelve alertas.
type AlertGenerator struct {
	alertRepo repository.AlertRepository
}

// NewAlertGenerator construye el generador sobre el repositorio de la transacción en curso.
func NewAlertGenerator(alertRepo repository.AlertRepository) *AlertGenerator {
	return &AlertGenerator{alertRepo: alertRepo}
}

// EnsureLowStockAlert no hace nada si newStock > threshold. En caso contrario crea una alerta
// CRITICO (newStock == 0) o ADVERTENCIA, salvo que ya exista una abierta para el componente.
// Devuelve la alerta creada o nil.
func (g *AlertGenerator) EnsureLowStockAlert(
	ctx context.Context,
	componentID string,
	newStock, threshold decimal.Decimal,
) (*entity.Alert, error) {
	level, ok := inventory.EvaluateLowStock(newStock, threshold)
	if !ok {
		return nil, nil
	}

	open, err := g.alertRepo.FindOpen(ctx, componentID, entity.AlertTypeStockMinimo)
	if err != nil {
		return nil, err
	}
	if open != nil {
		return nil, nil
	}

	alert := &entity.Alert{
		ID:          uuid.New().String(),
		Type:        entity.AlertTypeStockMinimo,
		Level:       level,
		ComponentID: componentID,
		Message:     inventory.LowStockMessage(componentID, level, newStock, threshold),
		Status:      entity.AlertStatusPendiente,
		GeneratedAt: time.Now(),
	}
	created, err := g.alertRepo.CreateIfNoneOpen(ctx, alert)
	if err != nil {
		return nil, err
	}
	if !created {
		return nil, nil
	}
	return alert, nil
}
