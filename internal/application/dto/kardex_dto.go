package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// KardexQuery parámetros del kardex. Page empieza en 1.
type KardexQuery struct {
	Page  int
	Limit int
	From  *time.Time
	To    *time.Time
}

// Normalize aplica valores por defecto y topes de paginación.
func (q *KardexQuery) Normalize() {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit <= 0 {
		q.Limit = 20
	}
	if q.Limit > 100 {
		q.Limit = 100
	}
}

// Offset desplazamiento correspondiente a Page y Limit.
func (q KardexQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

// KardexRowDTO fila del kardex: saldo es el stock inmediatamente después del movimiento.
type KardexRowDTO struct {
	MovementID string           `json:"movimiento_id"`
	Date       time.Time        `json:"fecha"`
	Type       string           `json:"tipo_movimiento"`
	Origin     string           `json:"origen_movimiento"`
	In         decimal.Decimal  `json:"entrada"`
	Out        decimal.Decimal  `json:"salida"`
	Balance    decimal.Decimal  `json:"saldo"`
	UnitCost   *decimal.Decimal `json:"costo_unitario,omitempty"`
	Reference  string           `json:"referencia"`
	Actor      string           `json:"usuario"`
}

// KardexComponentDTO encabezado del kardex.
type KardexComponentDTO struct {
	ID          string          `json:"id"`
	Code        string          `json:"codigo"`
	Name        string          `json:"nombre"`
	StockActual decimal.Decimal `json:"stock_actual"`
	Cost        decimal.Decimal `json:"precio_compra"`
}

// KardexPageResponse página del kardex, del movimiento más reciente al más antiguo.
// TotalIn y TotalOut cubren todo el rango filtrado, no solo la página.
type KardexPageResponse struct {
	Component KardexComponentDTO `json:"componente"`
	Items     []KardexRowDTO     `json:"items"`
	Page      int                `json:"page"`
	Limit     int                `json:"limit"`
	Total     int                `json:"total"`
	TotalIn   decimal.Decimal    `json:"total_entradas"`
	TotalOut  decimal.Decimal    `json:"total_salidas"`
}
