package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/mantenimiento-api/internal/domain"
	"github.com/jhoicas/mantenimiento-api/internal/domain/entity"
	"github.com/jhoicas/mantenimiento-api/internal/domain/inventory"
	"github.com/jhoicas/mantenimiento-api/internal/domain/repository"
)

// RegisterMovementUseCase registra movimientos de inventario de forma transaccional
// (ENTRADA, SALIDA, AJUSTE, TRANSFERENCIA) con bloqueo de fila (SELECT FOR UPDATE) y Commit/Rollback.
type RegisterMovementUseCase struct {
	txRunner TxRunner
	metrics  MovementRecorder
	log      zerolog.Logger
}

// NewRegisterMovementUseCase construye el caso de uso. metrics puede ser nil.
func NewRegisterMovementUseCase(txRunner TxRunner, metrics MovementRecorder, log zerolog.Logger) *RegisterMovementUseCase {
	if metrics == nil {
		metrics = noopRecorder{}
	}
	return &RegisterMovementUseCase{
		txRunner: txRunner,
		metrics:  metrics,
		log:      log,
	}
}

// MovementResult resultado de un movimiento confirmado.
type MovementResult struct {
	MovementID    string
	Sequence      int64
	ComponentID   string
	Type          entity.MovementType
	PreviousStock decimal.Decimal
	NewStock      decimal.Decimal
	Delta         decimal.Decimal
	Cost          decimal.Decimal // precio_compra vigente tras el movimiento
	CostUpdated   bool
	AlertID       string // vacío si no se creó alerta
	AlertLevel    entity.AlertLevel
	Date          time.Time
}

// RegisterMovement inicia una transacción, bloquea la fila del componente (SELECT FOR UPDATE),
// aplica la regla del tipo, guarda el movimiento, actualiza stock (y costo en ENTRADA con costo > 0),
// evalúa la alerta de stock mínimo y hace Commit. Cualquier error deshace todo.
func (uc *RegisterMovementUseCase) RegisterMovement(ctx context.Context, req inventory.MovementRequest) (*MovementResult, error) {
	if req == nil || !req.Type().IsValid() {
		uc.reject(nil, domain.ErrInvalidMovementType)
		return nil, domain.ErrInvalidMovementType
	}
	started := time.Now()
	header := req.Header()

	var result *MovementResult
	err := uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		componentRepo repository.ComponentRepository,
		alertRepo repository.AlertRepository,
	) error {
		// Bloquea la fila del componente durante todo el read-modify-write
		component, err := componentRepo.GetForUpdate(ctx, header.ComponentID)
		if err != nil {
			return err
		}
		if component == nil {
			return &domain.NotFoundError{ComponentID: header.ComponentID}
		}
		if !component.AcceptsMovements() {
			return domain.Invalid("componente_id", "el componente está inactivo o no es inventariable")
		}

		change, err := inventory.ApplyMovement(req, component.StockActual)
		if err != nil {
			return err
		}

		now := time.Now()
		mov := newMovementRecord(req, change, now)
		if err := movRepo.Create(ctx, mov); err != nil {
			return err
		}

		cost := component.Cost
		costUpdated := false
		if in, ok := req.(inventory.Entrada); ok && in.UnitCost != nil && in.UnitCost.IsPositive() {
			cost = inventory.WeightedAverageCost(change.Previous, component.Cost, in.Quantity, *in.UnitCost)
			if err := componentRepo.UpdateStockAndCost(ctx, component.ID, change.New, cost); err != nil {
				return err
			}
			costUpdated = true
		} else if err := componentRepo.UpdateStock(ctx, component.ID, change.New); err != nil {
			return err
		}

		alert, err := NewAlertGenerator(alertRepo).EnsureLowStockAlert(ctx, component.ID, change.New, component.StockMinimo)
		if err != nil {
			return err
		}

		result = &MovementResult{
			MovementID:    mov.ID,
			Sequence:      mov.Sequence,
			ComponentID:   component.ID,
			Type:          req.Type(),
			PreviousStock: change.Previous,
			NewStock:      change.New,
			Delta:         change.Delta,
			Cost:          cost,
			CostUpdated:   costUpdated,
			Date:          now,
		}
		if alert != nil {
			result.AlertID = alert.ID
			result.AlertLevel = alert.Level
		}
		return nil
	})
	if err != nil {
		uc.reject(req, err)
		return nil, err
	}

	// Solo tras el commit: una alerta revertida no se reporta
	if result.AlertID != "" {
		uc.metrics.AlertCreated(result.AlertLevel)
		uc.log.Info().
			Str("componente_id", result.ComponentID).
			Str("alerta_id", result.AlertID).
			Str("nivel", string(result.AlertLevel)).
			Msg("alerta de stock mínimo generada")
	}

	uc.metrics.MovementRegistered(result.Type, time.Since(started).Seconds())
	uc.log.Info().
		Str("movimiento_id", result.MovementID).
		Str("componente_id", result.ComponentID).
		Str("tipo", string(result.Type)).
		Str("delta", result.Delta.String()).
		Str("stock_anterior", result.PreviousStock.String()).
		Str("stock_nuevo", result.NewStock.String()).
		Msg("movimiento de inventario registrado")
	return result, nil
}

// newMovementRecord arma el registro append-only con el delta firmado y el saldo resultante.
func newMovementRecord(req inventory.MovementRequest, change inventory.StockChange, now time.Time) *entity.Movement {
	h := req.Header()
	before := change.Previous
	balance := change.New
	mov := &entity.Movement{
		ID:              uuid.New().String(),
		Type:            req.Type(),
		Origin:          h.Origin,
		ComponentID:     h.ComponentID,
		Quantity:        change.Delta,
		StockBefore:     &before,
		Balance:         &balance,
		Date:            now,
		PerformedBy:     h.ActorID,
		ApprovedBy:      h.ApprovedBy,
		Justification:   h.Justification,
		Notes:           h.Notes,
		ServiceOrderID:  h.ServiceOrderID,
		PurchaseOrderID: h.PurchaseOrderID,
		ShipmentID:      h.ShipmentID,
		CreatedAt:       now,
	}
	switch r := req.(type) {
	case inventory.Entrada:
		if r.UnitCost != nil {
			c := *r.UnitCost
			mov.UnitCost = &c
		}
	case inventory.Transferencia:
		q := r.Quantity
		mov.TransferredQty = &q
		mov.FromLocation = r.FromLocation
		mov.ToLocation = r.ToLocation
	}
	return mov
}

// reject registra la métrica y el log del rechazo. Las reglas de negocio van a warn; el resto a error.
func (uc *RegisterMovementUseCase) reject(req inventory.MovementRequest, err error) {
	reason := RejectionReason(err)
	uc.metrics.MovementRejected(reason)

	ev := uc.log.Warn()
	if reason == "internal" {
		ev = uc.log.Error()
	}
	if req != nil {
		ev = ev.Str("componente_id", req.Header().ComponentID).Str("tipo", string(req.Type()))
	}
	ev.Err(err).Str("motivo", reason).Msg("movimiento de inventario rechazado")
}

// RejectionReason clasifica el error para métricas y logs.
func RejectionReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, domain.ErrInvalidAdjustment):
		return "invalid_adjustment"
	case errors.Is(err, domain.ErrInvalidMovementType):
		return "invalid_movement_type"
	case errors.Is(err, domain.ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, domain.ErrConflict):
		return "conflict"
	default:
		return "internal"
	}
}
