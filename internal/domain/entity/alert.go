package entity

import "time"

// AlertType tipo de alerta. El ledger solo genera STOCK_MINIMO.
type AlertType string

const AlertTypeStockMinimo AlertType = "STOCK_MINIMO"

// AlertLevel severidad de la alerta.
type AlertLevel string

const (
	AlertLevelAdvertencia AlertLevel = "ADVERTENCIA"
	AlertLevelCritico     AlertLevel = "CRITICO"
)

// AlertStatus estado del ciclo de vida de la alerta.
type AlertStatus string

const (
	AlertStatusPendiente AlertStatus = "PENDIENTE"
	AlertStatusVista     AlertStatus = "VISTA"
	AlertStatusEnProceso AlertStatus = "EN_PROCESO"
	AlertStatusResuelta  AlertStatus = "RESUELTA"
)

// OpenAlertStatuses estados que cuentan como alerta abierta para la deduplicación.
var OpenAlertStatuses = []AlertStatus{AlertStatusPendiente, AlertStatusVista, AlertStatusEnProceso}

// IsOpen indica si el estado corresponde a una alerta no resuelta.
func (s AlertStatus) IsOpen() bool {
	return s == AlertStatusPendiente || s == AlertStatusVista || s == AlertStatusEnProceso
}

// Alert alerta de stock asociada a un componente.
// La resolución (RESUELTA, ResolvedAt, ResolvedBy) la hace un módulo externo.
type Alert struct {
	ID          string
	Type        AlertType
	Level       AlertLevel
	ComponentID string
	Message     string
	Status      AlertStatus
	GeneratedAt time.Time
	ResolvedAt  *time.Time
	ResolvedBy  string
}
