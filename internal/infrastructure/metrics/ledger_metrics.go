// Package metrics expone las métricas Prometheus del ledger de inventario.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/mantenimiento-api/internal/application/inventory"
	"github.com/jhoicas/mantenimiento-api/internal/domain/entity"
)

var _ inventory.MovementRecorder = (*LedgerMetrics)(nil)

// LedgerMetrics contadores e histograma del motor de movimientos, con registro propio.
type LedgerMetrics struct {
	registry *prometheus.Registry

	MovementsTotal     *prometheus.CounterVec
	RejectionsTotal    *prometheus.CounterVec
	AlertsCreatedTotal *prometheus.CounterVec
	RegisterDuration   *prometheus.HistogramVec
}

// New crea y registra las métricas junto con los collectors estándar de Go y del proceso.
func New() *LedgerMetrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &LedgerMetrics{registry: registry}

	m.MovementsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledger_movements_total",
			Help: "Movimientos de inventario confirmados",
		},
		[]string{"tipo"},
	)

	m.RejectionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledger_movement_rejections_total",
			Help: "Movimientos rechazados por motivo",
		},
		[]string{"reason"},
	)

	m.AlertsCreatedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledger_alerts_created_total",
			Help: "Alertas de stock mínimo generadas",
		},
		[]string{"nivel"},
	)

	m.RegisterDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ledger_register_duration_seconds",
			Help:    "Duración de RegisterMovement en segundos",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"tipo"},
	)

	registry.MustRegister(m.MovementsTotal, m.RejectionsTotal, m.AlertsCreatedTotal, m.RegisterDuration)
	return m
}

// MovementRegistered cuenta un movimiento confirmado y su duración.
func (m *LedgerMetrics) MovementRegistered(tipo entity.MovementType, seconds float64) {
	m.MovementsTotal.WithLabelValues(string(tipo)).Inc()
	m.RegisterDuration.WithLabelValues(string(tipo)).Observe(seconds)
}

// MovementRejected cuenta un rechazo.
func (m *LedgerMetrics) MovementRejected(reason string) {
	m.RejectionsTotal.WithLabelValues(reason).Inc()
}

// AlertCreated cuenta una alerta nueva.
func (m *LedgerMetrics) AlertCreated(nivel entity.AlertLevel) {
	m.AlertsCreatedTotal.WithLabelValues(string(nivel)).Inc()
}

// Registry devuelve el registro para tests o exportadores adicionales.
func (m *LedgerMetrics) Registry() *prometheus.Registry { return m.registry }

// Handler handler HTTP para el endpoint /metrics.
func (m *LedgerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}
