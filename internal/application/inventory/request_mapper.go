package inventory

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/mantenimiento-api/internal/application/dto"
	"github.com/jhoicas/mantenimiento-api/internal/domain"
	"github.com/jhoicas/mantenimiento-api/internal/domain/entity"
	"github.com/jhoicas/mantenimiento-api/internal/domain/inventory"
)

// BuildMovementRequest adapta el body HTTP a la variante de MovementRequest según tipo_movimiento.
// actorID viene del token y se guarda como realizado_por. En AJUSTE, cantidad es el stock objetivo.
func BuildMovementRequest(actorID string, in dto.RegisterMovementRequest) (inventory.MovementRequest, error) {
	header := inventory.MovementHeader{
		ComponentID:     strings.TrimSpace(in.ComponentID),
		Origin:          entity.MovementOrigin(strings.ToUpper(strings.TrimSpace(in.Origin))),
		ActorID:         actorID,
		ApprovedBy:      in.ApprovedBy,
		Justification:   in.Justification,
		Notes:           in.Notes,
		ServiceOrderID:  in.ServiceOrderID,
		PurchaseOrderID: in.PurchaseOrderID,
		ShipmentID:      in.ShipmentID,
	}

	typ := entity.MovementType(strings.ToUpper(strings.TrimSpace(in.Type)))
	if !typ.IsValid() {
		return nil, domain.ErrInvalidMovementType
	}
	// Sin cantidad un AJUSTE llevaría el stock a cero; solo TRANSFERENCIA la tiene opcional.
	if in.Quantity == nil && typ != entity.MovementTypeTransferencia {
		return nil, domain.Invalid("cantidad", "es requerido")
	}
	var qty decimal.Decimal
	if in.Quantity != nil {
		qty = *in.Quantity
	}

	switch typ {
	case entity.MovementTypeEntrada:
		return inventory.NewEntrada(header, qty, in.UnitCost)
	case entity.MovementTypeSalida:
		return inventory.NewSalida(header, qty)
	case entity.MovementTypeAjuste:
		return inventory.NewAjuste(header, qty)
	}
	return inventory.NewTransferencia(header, qty, in.FromLocationID, in.ToLocationID)
}

// ToMovementResultResponse convierte el resultado del motor al DTO de respuesta.
func ToMovementResultResponse(r *MovementResult) dto.MovementResultResponse {
	return dto.MovementResultResponse{
		MovementID:    r.MovementID,
		ComponentID:   r.ComponentID,
		Type:          string(r.Type),
		PreviousStock: r.PreviousStock,
		NewStock:      r.NewStock,
		Delta:         r.Delta,
		Cost:          r.Cost,
		CostUpdated:   r.CostUpdated,
		AlertID:       r.AlertID,
		Date:          r.Date,
	}
}
