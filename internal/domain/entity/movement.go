package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementType tipo de movimiento de inventario.
type MovementType string

// Tipos de movimiento.
const (
	MovementTypeEntrada       MovementType = "ENTRADA"       // ingreso de unidades
	MovementTypeSalida        MovementType = "SALIDA"        // consumo o despacho
	MovementTypeAjuste        MovementType = "AJUSTE"        // fija el stock a un valor absoluto
	MovementTypeTransferencia MovementType = "TRANSFERENCIA" // cambio de ubicación, sin efecto en el stock agregado
)

// IsValid valida el tipo de movimiento.
func (t MovementType) IsValid() bool {
	switch t {
	case MovementTypeEntrada, MovementTypeSalida, MovementTypeAjuste, MovementTypeTransferencia:
		return true
	}
	return false
}

// MovementOrigin clasifica el motivo de negocio del movimiento.
type MovementOrigin string

const (
	OriginCompra               MovementOrigin = "COMPRA"
	OriginConsumoOrdenServicio MovementOrigin = "CONSUMO_ORDEN_SERVICIO"
	OriginEnvio                MovementOrigin = "ENVIO"
	OriginDevolucion           MovementOrigin = "DEVOLUCION"
	OriginConteoFisico         MovementOrigin = "CONTEO_FISICO"
	OriginMerma                MovementOrigin = "MERMA"
	OriginCorreccionError      MovementOrigin = "CORRECCION_ERROR"
	OriginStockInicial         MovementOrigin = "STOCK_INICIAL"
)

// IsValid valida el origen del movimiento.
func (o MovementOrigin) IsValid() bool {
	switch o {
	case OriginCompra, OriginConsumoOrdenServicio, OriginEnvio, OriginDevolucion,
		OriginConteoFisico, OriginMerma, OriginCorreccionError, OriginStockInicial:
		return true
	}
	return false
}

// Movement es una fila del ledger (movimientos_inventario). Append-only: nunca se actualiza ni se borra.
// Quantity es el delta con signo efectivamente aplicado, no la magnitud solicitada.
// StockBefore/Balance son el saldo antes y después del movimiento, persistidos en la misma transacción.
// Balance es nil en filas heredadas que no traen saldo. Date es el momento del registro.
type Movement struct {
	ID              string
	Sequence        int64 // orden de aplicación, monótono por ledger
	Type            MovementType
	Origin          MovementOrigin
	ComponentID     string
	Quantity        decimal.Decimal
	UnitCost        *decimal.Decimal
	StockBefore     *decimal.Decimal
	Balance         *decimal.Decimal
	Date            time.Time
	PerformedBy     string
	ApprovedBy      string
	Justification   string
	Notes           string
	ServiceOrderID  string
	PurchaseOrderID string
	ShipmentID      string
	FromLocation    string
	ToLocation      string
	TransferredQty  *decimal.Decimal // magnitud informada en TRANSFERENCIA; Quantity queda en 0
	CreatedAt       time.Time
}

// In magnitud de entrada (delta positivo), si no 0.
func (m *Movement) In() decimal.Decimal {
	if m.Quantity.IsPositive() {
		return m.Quantity
	}
	return decimal.Zero
}

// Out magnitud de salida (valor absoluto del delta negativo), si no 0.
func (m *Movement) Out() decimal.Decimal {
	if m.Quantity.IsNegative() {
		return m.Quantity.Neg()
	}
	return decimal.Zero
}

// KardexEntry fila del ledger enriquecida con datos de colaboradores externos para el kardex.
type KardexEntry struct {
	Movement
	ActorName           string
	ServiceOrderNumber  string
	PurchaseOrderNumber string
	ShipmentNumber      string
}
