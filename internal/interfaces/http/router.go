package http

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/jhoicas/mantenimiento-api/internal/application/analytics"
	"github.com/jhoicas/mantenimiento-api/internal/application/inventory"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	RegisterMovement *inventory.RegisterMovementUseCase
	Kardex           *inventory.KardexUseCase
	ComponentQueries *inventory.ComponentQueryUseCase
	Replenishment    *inventory.ReplenishmentUseCase
	Dashboard        *analytics.DashboardUseCase
	MetricsHandler   http.Handler // nil = sin /metrics
	JWTSecret        string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	// Público
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	if deps.MetricsHandler != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.MetricsHandler))
	}

	// Rutas protegidas (requieren Bearer Token)
	protected := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	// Inventory (protegido)
	invGroup := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.RegisterMovement, deps.Kardex, deps.ComponentQueries, deps.Replenishment)
	invGroup.Post("/movements", inventoryHandler.RegisterMovement)
	invGroup.Get("/components/:id/kardex", inventoryHandler.GetKardex)
	invGroup.Get("/alerts", inventoryHandler.ListAlerts)
	invGroup.Get("/replenishment-list", inventoryHandler.GetReplenishmentList)

	// Components (protegido, solo lectura)
	components := protected.Group("/components")
	componentHandler := NewComponentHandler(deps.ComponentQueries)
	components.Get("/:id/stock", componentHandler.GetStock)

	// Dashboard (protegido)
	dashboard := protected.Group("/dashboard")
	dashboardHandler := NewDashboardHandler(deps.Dashboard)
	dashboard.Get("/summary", dashboardHandler.GetSummary)
}
