package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/mantenimiento-api/internal/application/analytics"
)

// DashboardHandler maneja los endpoints del módulo de Dashboard.
type DashboardHandler struct {
	uc *appanalytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetSummary devuelve el resumen del inventario.
// GET /api/dashboard/summary
//
// Respuesta: DashboardSummaryDTO (componentes_activos, componentes_bajo_minimo,
// componentes_sin_stock, valor_inventario, alertas por nivel, movimientos_hoy, date_label).
// No requiere parámetros; el día se calcula en el servidor.
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	summary, err := h.uc.GetSummary(c.Context())
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(summary)
}
