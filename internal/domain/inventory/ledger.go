package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/mantenimiento-api/internal/domain"
)

// StockChange resultado de aplicar un movimiento al stock actual.
type StockChange struct {
	Previous decimal.Decimal
	Delta    decimal.Decimal
	New      decimal.Decimal
}

// ApplyMovement calcula el delta con signo y el nuevo stock para la solicitud dada.
// No tiene efectos: el motor persiste el resultado.
//
//	ENTRADA       delta = +cantidad
//	SALIDA        delta = -cantidad, exige stock >= cantidad
//	AJUSTE        delta = objetivo - stock, exige objetivo >= 0
//	TRANSFERENCIA delta = 0
func ApplyMovement(req MovementRequest, current decimal.Decimal) (StockChange, error) {
	componentID := req.Header().ComponentID
	switch r := req.(type) {
	case Entrada:
		delta := r.Quantity.Abs()
		if current.Add(delta).GreaterThanOrEqual(maxQuantity) {
			return StockChange{}, domain.Invalid("cantidad", "el stock resultante excede el máximo permitido")
		}
		return StockChange{Previous: current, Delta: delta, New: current.Add(delta)}, nil
	case Salida:
		qty := r.Quantity.Abs()
		if current.LessThan(qty) {
			return StockChange{}, &domain.StockError{ComponentID: componentID, Requested: qty, Available: current}
		}
		return StockChange{Previous: current, Delta: qty.Neg(), New: current.Sub(qty)}, nil
	case Ajuste:
		if r.Target.IsNegative() {
			return StockChange{}, &domain.AdjustmentError{ComponentID: componentID, Target: r.Target, Current: current}
		}
		return StockChange{Previous: current, Delta: r.Target.Sub(current), New: r.Target}, nil
	case Transferencia:
		return StockChange{Previous: current, Delta: decimal.Zero, New: current}, nil
	}
	return StockChange{}, domain.ErrInvalidMovementType
}
