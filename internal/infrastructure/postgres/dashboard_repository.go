package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/mantenimiento-api/internal/domain/repository"
)

var _ repository.DashboardRepository = (*DashboardRepo)(nil)

// DashboardRepo consultas agregadas de solo lectura para el tablero.
type DashboardRepo struct {
	q Querier
}

// NewDashboardRepository construye el adaptador.
func NewDashboardRepository(q Querier) *DashboardRepo {
	return &DashboardRepo{q: q}
}

// GetStockTotals conteos del catálogo y valorización Σ stock_actual × precio_compra.
func (r *DashboardRepo) GetStockTotals(ctx context.Context) (repository.StockTotals, error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE activo),
			COUNT(*) FILTER (WHERE activo AND es_inventariable AND stock_actual <= stock_minimo),
			COUNT(*) FILTER (WHERE activo AND es_inventariable AND stock_actual = 0),
			COALESCE(SUM(stock_actual * precio_compra) FILTER (WHERE activo AND es_inventariable), 0)
		FROM componentes`
	var t repository.StockTotals
	err := r.q.QueryRow(ctx, query).Scan(&t.ActiveComponents, &t.AtOrBelowMinimum, &t.OutOfStock, &t.InventoryValuation)
	if err != nil {
		return repository.StockTotals{}, fmt.Errorf("get stock totals: %w", err)
	}
	return t, nil
}
