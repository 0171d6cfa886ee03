package repository

import (
	"context"

	"github.com/jhoicas/mantenimiento-api/internal/domain/entity"
)

// AlertRepository puerto de persistencia de alertas.
type AlertRepository interface {
	// CreateIfNoneOpen inserta la alerta salvo que ya exista una abierta del mismo tipo para el
	// componente; devuelve false en ese caso. Respaldado por un índice único parcial.
	CreateIfNoneOpen(ctx context.Context, alert *entity.Alert) (bool, error)
	// FindOpen alerta abierta (PENDIENTE, VISTA, EN_PROCESO) del tipo dado para el componente, o nil.
	FindOpen(ctx context.Context, componentID string, alertType entity.AlertType) (*entity.Alert, error)
	// ListOpen alertas abiertas; level vacío = todos los niveles.
	ListOpen(ctx context.Context, level entity.AlertLevel) ([]*entity.Alert, error)
	// CountOpenByLevel conteo de alertas abiertas por nivel (dashboard).
	CountOpenByLevel(ctx context.Context) (map[entity.AlertLevel]int, error)
}
