package inventory

import (
	"context"

	"github.com/jhoicas/mantenimiento-api/internal/domain/entity"
	"github.com/jhoicas/mantenimiento-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza atomicidad para el motor de inventario: si fn devuelve error se hace Rollback de todo.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.MovementRepository,
		componentRepo repository.ComponentRepository,
		alertRepo repository.AlertRepository,
	) error) error

	// RunSnapshot abre una transacción de solo lectura con una vista consistente (REPEATABLE READ).
	// La usa el kardex cuando debe recorrer el historial completo.
	RunSnapshot(ctx context.Context, fn func(
		movRepo repository.MovementRepository,
		componentRepo repository.ComponentRepository,
	) error) error
}

// MovementRecorder recibe las métricas del motor. nil desactiva el registro.
type MovementRecorder interface {
	MovementRegistered(tipo entity.MovementType, seconds float64)
	MovementRejected(reason string)
	AlertCreated(nivel entity.AlertLevel)
}

type noopRecorder struct{}

func (noopRecorder) MovementRegistered(entity.MovementType, float64) {}
func (noopRecorder) MovementRejected(string)                         {}
func (noopRecorder) AlertCreated(entity.AlertLevel)                  {}
