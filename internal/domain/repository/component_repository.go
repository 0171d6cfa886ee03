package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/mantenimiento-api/internal/domain/entity"
)

// ComponentRepository puerto hacia el catálogo de componentes (colaborador externo).
// El ledger solo lee y actualiza stock_actual / precio_compra; el CRUD del catálogo vive fuera.
type ComponentRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Component, error)
	// GetForUpdate lee el componente y bloquea su fila hasta el fin de la transacción (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.Component, error)
	UpdateStock(ctx context.Context, id string, stock decimal.Decimal) error
	UpdateStockAndCost(ctx context.Context, id string, stock, cost decimal.Decimal) error
	// ListAtOrBelowMinimum componentes activos e inventariables con stock_actual <= stock_minimo.
	ListAtOrBelowMinimum(ctx context.Context) ([]*entity.Component, error)
}
