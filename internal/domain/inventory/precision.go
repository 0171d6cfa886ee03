package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/mantenimiento-api/internal/domain"
)

// Escala y rango de las columnas NUMERIC(14,4) de cantidades y NUMERIC(14,2) de costos.
const (
	QuantityScale = 4
	CostScale     = costPrecision
)

// Topes exclusivos: 10 dígitos enteros en cantidades, 12 en costos.
var (
	maxQuantity = decimal.New(1, 10)
	maxCost     = decimal.New(1, 12)
)

// checkQuantity rechaza cantidades que la base redondearía o no podría guardar.
func checkQuantity(field string, q decimal.Decimal) error {
	if !q.Equal(q.Truncate(QuantityScale)) {
		return domain.Invalid(field, "admite como máximo 4 decimales")
	}
	if q.Abs().GreaterThanOrEqual(maxQuantity) {
		return domain.Invalid(field, "excede el máximo permitido")
	}
	return nil
}

func checkCost(field string, c decimal.Decimal) error {
	if !c.Equal(c.Truncate(CostScale)) {
		return domain.Invalid(field, "admite como máximo 2 decimales")
	}
	if c.Abs().GreaterThanOrEqual(maxCost) {
		return domain.Invalid(field, "excede el máximo permitido")
	}
	return nil
}
