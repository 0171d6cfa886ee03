package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/mantenimiento-api/internal/domain/entity"
	"github.com/jhoicas/mantenimiento-api/internal/domain/repository"
)

var _ repository.ComponentRepository = (*ComponentRepo)(nil)

const componentColumns = `id, codigo, nombre, stock_actual, stock_minimo, precio_compra,
		es_inventariable, activo, created_at, updated_at`

// ComponentRepo implementación de ComponentRepository sobre PostgreSQL (usable con pool o tx).
type ComponentRepo struct {
	q Querier
}

// NewComponentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewComponentRepository(q Querier) *ComponentRepo {
	return &ComponentRepo{q: q}
}

// GetByID obtiene un componente por ID. Devuelve nil, nil si no existe.
func (r *ComponentRepo) GetByID(ctx context.Context, id string) (*entity.Component, error) {
	query := `SELECT ` + componentColumns + ` FROM componentes WHERE id = $1`
	c, err := scanComponent(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get component: %w", err)
	}
	return c, nil
}

// GetForUpdate obtiene el componente y bloquea la fila para update (SELECT FOR UPDATE).
// Solo tiene efecto dentro de una transacción.
func (r *ComponentRepo) GetForUpdate(ctx context.Context, id string) (*entity.Component, error) {
	query := `SELECT ` + componentColumns + ` FROM componentes WHERE id = $1 FOR UPDATE`
	c, err := scanComponent(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get component for update: %w", err)
	}
	return c, nil
}

// UpdateStock fija stock_actual.
func (r *ComponentRepo) UpdateStock(ctx context.Context, id string, stock decimal.Decimal) error {
	query := `UPDATE componentes SET stock_actual = $2, updated_at = now() WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, id, stock)
	if err != nil {
		return fmt.Errorf("update component stock: %w", err)
	}
	if tag.RowsAffected() != 1 {
		return fmt.Errorf("update component stock: %d filas afectadas", tag.RowsAffected())
	}
	return nil
}

// UpdateStockAndCost fija stock_actual y precio_compra en una sola sentencia.
func (r *ComponentRepo) UpdateStockAndCost(ctx context.Context, id string, stock, cost decimal.Decimal) error {
	query := `UPDATE componentes SET stock_actual = $2, precio_compra = $3, updated_at = now() WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, id, stock, cost)
	if err != nil {
		return fmt.Errorf("update component stock and cost: %w", err)
	}
	if tag.RowsAffected() != 1 {
		return fmt.Errorf("update component stock and cost: %d filas afectadas", tag.RowsAffected())
	}
	return nil
}

// ListAtOrBelowMinimum componentes activos e inventariables con stock_actual <= stock_minimo,
// ordenados por déficit descendente (mayor quiebre primero).
func (r *ComponentRepo) ListAtOrBelowMinimum(ctx context.Context) ([]*entity.Component, error) {
	query := `
		SELECT ` + componentColumns + `
		FROM componentes
		WHERE activo AND es_inventariable
		  AND stock_actual <= stock_minimo
		ORDER BY (stock_minimo - stock_actual) DESC, codigo`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list components at or below minimum: %w", err)
	}
	defer rows.Close()
	var list []*entity.Component
	for rows.Next() {
		c, err := scanComponent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan component: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

func scanComponent(row pgx.Row) (*entity.Component, error) {
	var c entity.Component
	err := row.Scan(
		&c.ID, &c.Code, &c.Name, &c.StockActual, &c.StockMinimo, &c.Cost,
		&c.IsInventoriable, &c.Active, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
