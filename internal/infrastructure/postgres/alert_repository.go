package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/mantenimiento-api/internal/domain/entity"
	"github.com/jhoicas/mantenimiento-api/internal/domain/repository"
)

var _ repository.AlertRepository = (*AlertRepo)(nil)

const alertColumns = `id, tipo_alerta, nivel, componente_id, mensaje, estado,
		fecha_generacion, fecha_resolucion, COALESCE(resuelto_por, '')`

// AlertRepo implementación de AlertRepository sobre PostgreSQL (usable con pool o tx).
type AlertRepo struct {
	q Querier
}

// NewAlertRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAlertRepository(q Querier) *AlertRepo {
	return &AlertRepo{q: q}
}

func openStatuses() []string {
	out := make([]string, 0, len(entity.OpenAlertStatuses))
	for _, s := range entity.OpenAlertStatuses {
		out = append(out, string(s))
	}
	return out
}

// CreateIfNoneOpen inserta la alerta salvo que ya exista una abierta del mismo tipo para el
// componente (índice único parcial uq_alertas_stock_minimo_abierta). Devuelve false si no insertó.
func (r *AlertRepo) CreateIfNoneOpen(ctx context.Context, alert *entity.Alert) (bool, error) {
	if alert.ID == "" {
		alert.ID = uuid.New().String()
	}
	query := `
		INSERT INTO alertas (id, tipo_alerta, nivel, componente_id, mensaje, estado, fecha_generacion)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (componente_id)
			WHERE tipo_alerta = 'STOCK_MINIMO' AND estado IN ('PENDIENTE', 'VISTA', 'EN_PROCESO')
		DO NOTHING`
	tag, err := r.q.Exec(ctx, query,
		alert.ID, string(alert.Type), string(alert.Level), alert.ComponentID,
		alert.Message, string(alert.Status), alert.GeneratedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return false, nil
		}
		return false, fmt.Errorf("create alert: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// FindOpen alerta abierta (PENDIENTE, VISTA, EN_PROCESO) del tipo para el componente, o nil.
func (r *AlertRepo) FindOpen(ctx context.Context, componentID string, alertType entity.AlertType) (*entity.Alert, error) {
	query := `SELECT ` + alertColumns + `
		FROM alertas
		WHERE componente_id = $1 AND tipo_alerta = $2 AND estado = ANY($3)
		ORDER BY fecha_generacion DESC
		LIMIT 1`
	a, err := scanAlert(r.q.QueryRow(ctx, query, componentID, string(alertType), openStatuses()))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find open alert: %w", err)
	}
	return a, nil
}

// ListOpen alertas STOCK_MINIMO abiertas, las críticas primero. level vacío = todos los niveles.
func (r *AlertRepo) ListOpen(ctx context.Context, level entity.AlertLevel) ([]*entity.Alert, error) {
	query := `SELECT ` + alertColumns + `
		FROM alertas
		WHERE tipo_alerta = 'STOCK_MINIMO' AND estado = ANY($1)
		  AND ($2::text = '' OR nivel = $2::text)
		ORDER BY (nivel = 'CRITICO') DESC, fecha_generacion DESC`
	rows, err := r.q.Query(ctx, query, openStatuses(), string(level))
	if err != nil {
		return nil, fmt.Errorf("list open alerts: %w", err)
	}
	defer rows.Close()
	var list []*entity.Alert
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, fmt.Errorf("scan alert: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

// CountOpenByLevel cantidad de alertas STOCK_MINIMO abiertas por nivel.
func (r *AlertRepo) CountOpenByLevel(ctx context.Context) (map[entity.AlertLevel]int, error) {
	query := `
		SELECT nivel, COUNT(*)
		FROM alertas
		WHERE tipo_alerta = 'STOCK_MINIMO' AND estado = ANY($1)
		GROUP BY nivel`
	rows, err := r.q.Query(ctx, query, openStatuses())
	if err != nil {
		return nil, fmt.Errorf("count open alerts: %w", err)
	}
	defer rows.Close()
	out := make(map[entity.AlertLevel]int)
	for rows.Next() {
		var level string
		var n int
		if err := rows.Scan(&level, &n); err != nil {
			return nil, fmt.Errorf("scan alert count: %w", err)
		}
		out[entity.AlertLevel(level)] = n
	}
	return out, rows.Err()
}

func scanAlert(row pgx.Row) (*entity.Alert, error) {
	var (
		a                   entity.Alert
		tipo, nivel, estado string
	)
	err := row.Scan(
		&a.ID, &tipo, &nivel, &a.ComponentID, &a.Message, &estado,
		&a.GeneratedAt, &a.ResolvedAt, &a.ResolvedBy,
	)
	if err != nil {
		return nil, err
	}
	a.Type = entity.AlertType(tipo)
	a.Level = entity.AlertLevel(nivel)
	a.Status = entity.AlertStatus(estado)
	return &a, nil
}
