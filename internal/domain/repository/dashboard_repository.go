package repository

import (
	"context"

	"github.com/shopspring/decimal"
)

// StockTotals agregados de solo lectura sobre el catálogo de componentes.
type StockTotals struct {
	ActiveComponents   int
	AtOrBelowMinimum   int
	OutOfStock         int
	InventoryValuation decimal.Decimal // Σ stock_actual * precio_compra
}

// DashboardRepository consultas agregadas para el dashboard (lecturas con aislamiento relajado).
type DashboardRepository interface {
	GetStockTotals(ctx context.Context) (StockTotals, error)
}
