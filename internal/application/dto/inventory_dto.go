package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegisterMovementRequest body para POST /api/inventory/movements.
// cantidad es la magnitud para ENTRADA/SALIDA, el stock objetivo para AJUSTE y un dato informativo
// para TRANSFERENCIA; es obligatoria salvo en TRANSFERENCIA. costo_unitario solo aplica a ENTRADA.
type RegisterMovementRequest struct {
	ComponentID     string           `json:"componente_id" validate:"required,max=64"`
	Type            string           `json:"tipo_movimiento" validate:"required"`
	Origin          string           `json:"origen_movimiento" validate:"required"`
	Quantity        *decimal.Decimal `json:"cantidad"`
	UnitCost        *decimal.Decimal `json:"costo_unitario,omitempty"`
	ApprovedBy      string           `json:"aprobado_por,omitempty" validate:"max=64"`
	Justification   string           `json:"justificacion,omitempty" validate:"max=1000"`
	Notes           string           `json:"observaciones,omitempty" validate:"max=2000"`
	ServiceOrderID  string           `json:"orden_servicio_id,omitempty" validate:"max=64"`
	PurchaseOrderID string           `json:"orden_compra_id,omitempty" validate:"max=64"`
	ShipmentID      string           `json:"envio_id,omitempty" validate:"max=64"`
	FromLocationID  string           `json:"ubicacion_origen,omitempty" validate:"max=64"`
	ToLocationID    string           `json:"ubicacion_destino,omitempty" validate:"max=64"`
}

// MovementResultResponse respuesta de un movimiento registrado.
type MovementResultResponse struct {
	MovementID    string          `json:"movimiento_id"`
	ComponentID   string          `json:"componente_id"`
	Type          string          `json:"tipo_movimiento"`
	PreviousStock decimal.Decimal `json:"stock_anterior"`
	NewStock      decimal.Decimal `json:"stock_nuevo"`
	Delta         decimal.Decimal `json:"cantidad"`
	Cost          decimal.Decimal `json:"precio_compra"`
	CostUpdated   bool            `json:"costo_actualizado"`
	AlertID       string          `json:"alerta_id,omitempty"`
	Date          time.Time       `json:"fecha_movimiento"`
}

// ComponentStockResponse estado de inventario de un componente (GET /api/components/:id/stock).
type ComponentStockResponse struct {
	ID              string          `json:"id"`
	Code            string          `json:"codigo"`
	Name            string          `json:"nombre"`
	StockActual     decimal.Decimal `json:"stock_actual"`
	StockMinimo     decimal.Decimal `json:"stock_minimo"`
	Cost            decimal.Decimal `json:"precio_compra"`
	IsInventoriable bool            `json:"es_inventariable"`
	Active          bool            `json:"activo"`
	OpenAlert       *AlertResponse  `json:"alerta_abierta,omitempty"`
}

// AlertResponse alerta de stock.
type AlertResponse struct {
	ID          string     `json:"id"`
	Type        string     `json:"tipo_alerta"`
	Level       string     `json:"nivel"`
	ComponentID string     `json:"componente_id"`
	Message     string     `json:"mensaje"`
	Status      string     `json:"estado"`
	GeneratedAt time.Time  `json:"fecha_generacion"`
	ResolvedAt  *time.Time `json:"fecha_resolucion,omitempty"`
	ResolvedBy  string     `json:"resuelto_por,omitempty"`
}

// ReplenishmentSuggestionDTO sugerencia de reposición para un componente en o bajo su stock mínimo.
type ReplenishmentSuggestionDTO struct {
	ComponentID        string          `json:"componente_id"`
	Code               string          `json:"codigo"`
	Name               string          `json:"nombre"`
	CurrentStock       decimal.Decimal `json:"stock_actual"`
	StockMinimo        decimal.Decimal `json:"stock_minimo"`
	IdealStock         decimal.Decimal `json:"stock_ideal"`       // StockMinimo * 1.5
	SuggestedOrderQty  decimal.Decimal `json:"cantidad_sugerida"` // IdealStock - CurrentStock, redondeado hacia arriba
	UnitCost           decimal.Decimal `json:"precio_compra"`     // costo promedio ponderado
	EstimatedOrderCost decimal.Decimal `json:"costo_estimado"`    // SuggestedOrderQty * UnitCost
	Priority           int             `json:"prioridad"`         // 1 = más urgente
}
