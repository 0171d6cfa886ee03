package dto

import "github.com/shopspring/decimal"

// DashboardSummaryDTO respuesta de GET /api/dashboard/summary.
type DashboardSummaryDTO struct {
	// Catálogo
	ActiveComponents   int             `json:"componentes_activos"`
	AtOrBelowMinimum   int             `json:"componentes_bajo_minimo"`
	OutOfStock         int             `json:"componentes_sin_stock"`
	InventoryValuation decimal.Decimal `json:"valor_inventario"` // Σ stock_actual × precio_compra

	// Alertas abiertas por nivel
	OpenAlerts         int `json:"alertas_abiertas"`
	OpenCriticalAlerts int `json:"alertas_criticas"`
	OpenWarningAlerts  int `json:"alertas_advertencia"`

	// Movimientos de hoy por tipo (ENTRADA, SALIDA, AJUSTE, TRANSFERENCIA)
	TodayMovements map[string]int `json:"movimientos_hoy"`

	DateLabel string `json:"date_label"` // ej: "14 de Octubre 2026"
}
