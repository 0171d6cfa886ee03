package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Component representa un repuesto o componente del catálogo de mantenimiento.
// StockActual es la proyección materializada del ledger; solo el motor de movimientos la modifica.
// Cost (precio_compra) es el costo promedio ponderado vigente.
type Component struct {
	ID              string
	Code            string
	Name            string
	StockActual     decimal.Decimal
	StockMinimo     decimal.Decimal
	Cost            decimal.Decimal
	IsInventoriable bool
	Active          bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// AcceptsMovements indica si el componente puede recibir movimientos de inventario.
func (c *Component) AcceptsMovements() bool {
	return c.Active && c.IsInventoriable
}

// AtOrBelowMinimum indica si el stock actual alcanzó el umbral de reorden.
func (c *Component) AtOrBelowMinimum() bool {
	return c.StockActual.LessThanOrEqual(c.StockMinimo)
}
