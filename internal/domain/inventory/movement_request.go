package inventory

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/mantenimiento-api/internal/domain"
	"github.com/jhoicas/mantenimiento-api/internal/domain/entity"
)

// MovementRequest es una solicitud de movimiento ya validada. Las variantes son
// Entrada, Salida, Ajuste y Transferencia; solo se construyen con NewEntrada, NewSalida,
// NewAjuste y NewTransferencia.
type MovementRequest interface {
	Type() entity.MovementType
	Header() MovementHeader
	isMovementRequest()
}

// MovementHeader campos comunes a todas las variantes. Los IDs de enlace (orden de servicio,
// orden de compra, envío) son opacos y se guardan tal cual.
type MovementHeader struct {
	ComponentID     string
	Origin          entity.MovementOrigin
	ActorID         string
	ApprovedBy      string
	Justification   string
	Notes           string
	ServiceOrderID  string
	PurchaseOrderID string
	ShipmentID      string
}

func (h MovementHeader) validate() error {
	if strings.TrimSpace(h.ComponentID) == "" {
		return domain.Invalid("componente_id", "es requerido")
	}
	if strings.TrimSpace(h.ActorID) == "" {
		return domain.Invalid("realizado_por", "es requerido")
	}
	if !h.Origin.IsValid() {
		return domain.Invalid("origen_movimiento", "valor no soportado: "+string(h.Origin))
	}
	return nil
}

// Entrada ingreso de Quantity unidades; UnitCost > 0 recalcula el costo promedio.
type Entrada struct {
	MovementHeader
	Quantity decimal.Decimal
	UnitCost *decimal.Decimal
}

// Salida consumo o despacho de Quantity unidades.
type Salida struct {
	MovementHeader
	Quantity decimal.Decimal
}

// Ajuste fija el stock al valor absoluto Target (conteo físico, corrección).
// Un Target negativo es representable: el motor lo rechaza con ErrInvalidAdjustment
// informando el stock actual.
type Ajuste struct {
	MovementHeader
	Target decimal.Decimal
}

// Transferencia registra un cambio de ubicación. No altera el stock agregado;
// Quantity se guarda en cantidad_transferida y el movimiento lleva cantidad 0.
type Transferencia struct {
	MovementHeader
	Quantity     decimal.Decimal
	FromLocation string
	ToLocation   string
}

func (Entrada) Type() entity.MovementType       { return entity.MovementTypeEntrada }
func (Salida) Type() entity.MovementType        { return entity.MovementTypeSalida }
func (Ajuste) Type() entity.MovementType        { return entity.MovementTypeAjuste }
func (Transferencia) Type() entity.MovementType { return entity.MovementTypeTransferencia }

func (r Entrada) Header() MovementHeader       { return r.MovementHeader }
func (r Salida) Header() MovementHeader        { return r.MovementHeader }
func (r Ajuste) Header() MovementHeader        { return r.MovementHeader }
func (r Transferencia) Header() MovementHeader { return r.MovementHeader }

func (Entrada) isMovementRequest()       {}
func (Salida) isMovementRequest()        {}
func (Ajuste) isMovementRequest()        {}
func (Transferencia) isMovementRequest() {}

// NewEntrada valida y construye una ENTRADA. quantity debe ser positiva; unitCost, si viene, no negativo.
func NewEntrada(h MovementHeader, quantity decimal.Decimal, unitCost *decimal.Decimal) (Entrada, error) {
	if err := h.validate(); err != nil {
		return Entrada{}, err
	}
	if !quantity.IsPositive() {
		return Entrada{}, domain.Invalid("cantidad", "debe ser mayor que cero")
	}
	if err := checkQuantity("cantidad", quantity); err != nil {
		return Entrada{}, err
	}
	if unitCost != nil {
		if unitCost.IsNegative() {
			return Entrada{}, domain.Invalid("costo_unitario", "no puede ser negativo")
		}
		if err := checkCost("costo_unitario", *unitCost); err != nil {
			return Entrada{}, err
		}
	}
	var cost *decimal.Decimal
	if unitCost != nil {
		c := *unitCost
		cost = &c
	}
	return Entrada{MovementHeader: h, Quantity: quantity, UnitCost: cost}, nil
}

// NewSalida valida y construye una SALIDA. quantity debe ser positiva.
func NewSalida(h MovementHeader, quantity decimal.Decimal) (Salida, error) {
	if err := h.validate(); err != nil {
		return Salida{}, err
	}
	if !quantity.IsPositive() {
		return Salida{}, domain.Invalid("cantidad", "debe ser mayor que cero")
	}
	if err := checkQuantity("cantidad", quantity); err != nil {
		return Salida{}, err
	}
	return Salida{MovementHeader: h, Quantity: quantity}, nil
}

// NewAjuste valida y construye un AJUSTE hacia el stock objetivo target.
func NewAjuste(h MovementHeader, target decimal.Decimal) (Ajuste, error) {
	if err := h.validate(); err != nil {
		return Ajuste{}, err
	}
	if err := checkQuantity("cantidad", target); err != nil {
		return Ajuste{}, err
	}
	return Ajuste{MovementHeader: h, Target: target}, nil
}

// NewTransferencia valida y construye una TRANSFERENCIA entre dos ubicaciones distintas.
func NewTransferencia(h MovementHeader, quantity decimal.Decimal, from, to string) (Transferencia, error) {
	if err := h.validate(); err != nil {
		return Transferencia{}, err
	}
	from, to = strings.TrimSpace(from), strings.TrimSpace(to)
	if from == "" || to == "" {
		return Transferencia{}, domain.Invalid("ubicacion", "origen y destino son requeridos")
	}
	if from == to {
		return Transferencia{}, domain.Invalid("ubicacion", "origen y destino deben ser distintos")
	}
	if quantity.IsNegative() {
		return Transferencia{}, domain.Invalid("cantidad", "no puede ser negativa")
	}
	if err := checkQuantity("cantidad", quantity); err != nil {
		return Transferencia{}, err
	}
	return Transferencia{MovementHeader: h, Quantity: quantity, FromLocation: from, ToLocation: to}, nil
}
