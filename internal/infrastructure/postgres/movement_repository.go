package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/mantenimiento-api/internal/domain/entity"
	"github.com/jhoicas/mantenimiento-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

const movementColumns = `m.id, m.secuencia, m.tipo_movimiento, m.origen_movimiento, m.componente_id,
		m.cantidad, m.costo_unitario, m.stock_anterior, m.saldo, m.fecha_movimiento, m.realizado_por,
		COALESCE(m.aprobado_por, ''), COALESCE(m.justificacion, ''), COALESCE(m.observaciones, ''),
		COALESCE(m.orden_servicio_id, ''), COALESCE(m.orden_compra_id, ''), COALESCE(m.envio_id, ''),
		COALESCE(m.ubicacion_origen, ''), COALESCE(m.ubicacion_destino, ''), m.cantidad_transferida,
		m.created_at`

// MovementRepo implementación sobre PostgreSQL (usable con pool o tx). Append-only: no hay
// Update ni Delete.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Create persiste un movimiento y asigna movement.Sequence.
func (r *MovementRepo) Create(ctx context.Context, movement *entity.Movement) error {
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	query := `
		INSERT INTO movimientos_inventario (
			id, tipo_movimiento, origen_movimiento, componente_id, cantidad, costo_unitario,
			stock_anterior, saldo, fecha_movimiento, realizado_por, aprobado_por, justificacion,
			observaciones, orden_servicio_id, orden_compra_id, envio_id,
			ubicacion_origen, ubicacion_destino, cantidad_transferida, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NULLIF($11, ''), NULLIF($12, ''),
			NULLIF($13, ''), NULLIF($14, ''), NULLIF($15, ''), NULLIF($16, ''),
			NULLIF($17, ''), NULLIF($18, ''), $19, $20)
		RETURNING secuencia`
	err := r.q.QueryRow(ctx, query,
		movement.ID, string(movement.Type), string(movement.Origin), movement.ComponentID,
		movement.Quantity, movement.UnitCost, movement.StockBefore, movement.Balance,
		movement.Date, movement.PerformedBy, movement.ApprovedBy, movement.Justification,
		movement.Notes, movement.ServiceOrderID, movement.PurchaseOrderID, movement.ShipmentID,
		movement.FromLocation, movement.ToLocation, movement.TransferredQty, movement.CreatedAt,
	).Scan(&movement.Sequence)
	if err != nil {
		return fmt.Errorf("create inventory movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID.
func (r *MovementRepo) GetByID(ctx context.Context, id string) (*entity.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM movimientos_inventario m WHERE m.id = $1`
	var m entity.Movement
	if err := scanMovement(r.q.QueryRow(ctx, query, id), &m); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return &m, nil
}

// ListKardex página de movimientos del componente, del más reciente al más antiguo (por secuencia),
// con nombre del usuario y números de orden/compra/envío. El total respeta el rango de fechas.
func (r *MovementRepo) ListKardex(
	ctx context.Context,
	componentID string,
	filter repository.KardexFilter,
) ([]*entity.KardexEntry, int, error) {
	where, args := kardexWhere(componentID, filter)
	pos := len(args) + 1

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM movimientos_inventario m`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count kardex: %w", err)
	}

	query := `
		SELECT ` + movementColumns + `,
			COALESCE(u.nombre, ''), COALESCE(os.numero, ''), COALESCE(oc.numero, ''), COALESCE(e.numero, '')
		FROM movimientos_inventario m
		LEFT JOIN usuarios u          ON u.id  = m.realizado_por
		LEFT JOIN ordenes_servicio os ON os.id = m.orden_servicio_id
		LEFT JOIN ordenes_compra oc   ON oc.id = m.orden_compra_id
		LEFT JOIN envios e            ON e.id  = m.envio_id` + where +
		fmt.Sprintf(" ORDER BY m.secuencia DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	var limit any // LIMIT NULL = sin límite
	if filter.Limit > 0 {
		limit = filter.Limit
	}
	args = append(args, limit, filter.Offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list kardex: %w", err)
	}
	defer rows.Close()
	var list []*entity.KardexEntry
	for rows.Next() {
		var e entity.KardexEntry
		if err := scanMovement(rows, &e.Movement,
			&e.ActorName, &e.ServiceOrderNumber, &e.PurchaseOrderNumber, &e.ShipmentNumber,
		); err != nil {
			return nil, 0, fmt.Errorf("scan kardex entry: %w", err)
		}
		list = append(list, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list kardex: %w", err)
	}
	return list, total, nil
}

// SumKardex Σentrada y Σsalida del componente en el rango de fechas.
func (r *MovementRepo) SumKardex(
	ctx context.Context,
	componentID string,
	filter repository.KardexFilter,
) (repository.KardexTotals, error) {
	where, args := kardexWhere(componentID, filter)
	query := `
		SELECT
			COALESCE(SUM(m.cantidad) FILTER (WHERE m.cantidad > 0), 0),
			COALESCE(-SUM(m.cantidad) FILTER (WHERE m.cantidad < 0), 0)
		FROM movimientos_inventario m` + where
	var t repository.KardexTotals
	if err := r.q.QueryRow(ctx, query, args...).Scan(&t.In, &t.Out); err != nil {
		return repository.KardexTotals{}, fmt.Errorf("sum kardex: %w", err)
	}
	return t, nil
}

// kardexWhere condición del kardex de un componente con el rango de fechas opcional.
func kardexWhere(componentID string, filter repository.KardexFilter) (string, []any) {
	where := ` WHERE m.componente_id = $1`
	args := []any{componentID}
	if filter.From != nil {
		args = append(args, *filter.From)
		where += fmt.Sprintf(" AND m.fecha_movimiento >= $%d", len(args))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		where += fmt.Sprintf(" AND m.fecha_movimiento <= $%d", len(args))
	}
	return where, args
}

// ListDeltas historial completo (id, cantidad) del componente, del más reciente al más antiguo.
func (r *MovementRepo) ListDeltas(ctx context.Context, componentID string) ([]repository.MovementDelta, error) {
	query := `
		SELECT id, cantidad FROM movimientos_inventario
		WHERE componente_id = $1
		ORDER BY secuencia DESC`
	rows, err := r.q.Query(ctx, query, componentID)
	if err != nil {
		return nil, fmt.Errorf("list movement deltas: %w", err)
	}
	defer rows.Close()
	var list []repository.MovementDelta
	for rows.Next() {
		var d repository.MovementDelta
		if err := rows.Scan(&d.ID, &d.Delta); err != nil {
			return nil, fmt.Errorf("scan movement delta: %w", err)
		}
		list = append(list, d)
	}
	return list, rows.Err()
}

// CountByTypeSince cantidad de movimientos por tipo con fecha_movimiento >= since.
func (r *MovementRepo) CountByTypeSince(ctx context.Context, since time.Time) (map[entity.MovementType]int, error) {
	query := `
		SELECT tipo_movimiento, COUNT(*)
		FROM movimientos_inventario
		WHERE fecha_movimiento >= $1
		GROUP BY tipo_movimiento`
	rows, err := r.q.Query(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("count movements by type: %w", err)
	}
	defer rows.Close()
	out := make(map[entity.MovementType]int)
	for rows.Next() {
		var t string
		var n int
		if err := rows.Scan(&t, &n); err != nil {
			return nil, fmt.Errorf("scan movement count: %w", err)
		}
		out[entity.MovementType(t)] = n
	}
	return out, rows.Err()
}

// scanMovement escanea movementColumns en m; extra recibe las columnas adicionales de la consulta.
func scanMovement(row pgx.Row, m *entity.Movement, extra ...any) error {
	var (
		tipo, origen                    string
		unitCost, before, balance, qtyT decimal.NullDecimal
	)
	dest := []any{
		&m.ID, &m.Sequence, &tipo, &origen, &m.ComponentID,
		&m.Quantity, &unitCost, &before, &balance, &m.Date, &m.PerformedBy,
		&m.ApprovedBy, &m.Justification, &m.Notes,
		&m.ServiceOrderID, &m.PurchaseOrderID, &m.ShipmentID,
		&m.FromLocation, &m.ToLocation, &qtyT,
		&m.CreatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return err
	}
	m.Type = entity.MovementType(tipo)
	m.Origin = entity.MovementOrigin(origen)
	m.UnitCost = nullDecimal(unitCost)
	m.StockBefore = nullDecimal(before)
	m.Balance = nullDecimal(balance)
	m.TransferredQty = nullDecimal(qtyT)
	return nil
}
