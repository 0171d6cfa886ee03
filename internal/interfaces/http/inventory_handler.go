package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/mantenimiento-api/internal/application/dto"
	"github.com/jhoicas/mantenimiento-api/internal/application/inventory"
	"github.com/jhoicas/mantenimiento-api/internal/domain"
)

// InventoryHandler maneja las peticiones HTTP de movimientos, kardex, alertas y reposición (protegido).
type InventoryHandler struct {
	uc            *inventory.RegisterMovementUseCase
	kardex        *inventory.KardexUseCase
	queries       *inventory.ComponentQueryUseCase
	replenishment *inventory.ReplenishmentUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(
	uc *inventory.RegisterMovementUseCase,
	kardex *inventory.KardexUseCase,
	queries *inventory.ComponentQueryUseCase,
	replenishment *inventory.ReplenishmentUseCase,
) *InventoryHandler {
	return &InventoryHandler{uc: uc, kardex: kardex, queries: queries, replenishment: replenishment}
}

// RegisterMovement godoc
// @Summary      Registrar movimiento de inventario
// @Description  ENTRADA suma, SALIDA resta (falla si no hay stock), AJUSTE fija el stock a cantidad. TRANSFERENCIA solo registra el cambio de ubicación.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterMovementRequest  true  "componente_id, tipo_movimiento, origen_movimiento, cantidad, costo_unitario (ENTRADA)"
// @Success      201   {object}  dto.MovementResultResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [post]
func (h *InventoryHandler) RegisterMovement(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return writeError(c, domain.ErrUnauthorized)
	}
	var in dto.RegisterMovementRequest
	if ok, err := bindAndValidate(c, &in); !ok {
		return err
	}
	req, err := inventory.BuildMovementRequest(userID, in)
	if err != nil {
		return writeError(c, err)
	}
	result, err := h.uc.RegisterMovement(c.Context(), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(inventory.ToMovementResultResponse(result))
}

// GetKardex godoc
// @Summary      Kardex de un componente
// @Description  Movimientos del más reciente al más antiguo con el saldo posterior a cada uno.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id     path   string  true   "ID del componente"
// @Param        page   query  int     false  "Página"  default(1)
// @Param        limit  query  int     false  "Límite"  default(20)
// @Param        desde  query  string  false  "Fecha inicial (RFC3339 o YYYY-MM-DD)"
// @Param        hasta  query  string  false  "Fecha final (RFC3339 o YYYY-MM-DD, inclusive)"
// @Success      200  {object}  dto.KardexPageResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/components/{id}/kardex [get]
func (h *InventoryHandler) GetKardex(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	q := dto.KardexQuery{
		Page:  c.QueryInt("page", 1),
		Limit: c.QueryInt("limit", 20),
	}
	var err error
	if q.From, err = parseDateParam(c.Query("desde"), false); err != nil {
		return writeError(c, domain.Invalid("desde", "fecha inválida"))
	}
	if q.To, err = parseDateParam(c.Query("hasta"), true); err != nil {
		return writeError(c, domain.Invalid("hasta", "fecha inválida"))
	}

	out, err := h.kardex.BuildKardex(c.Context(), id, q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ListAlerts godoc
// @Summary      Alertas de stock mínimo abiertas
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        nivel  query  string  false  "ADVERTENCIA | CRITICO"
// @Success      200  {array}   dto.AlertResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/alerts [get]
func (h *InventoryHandler) ListAlerts(c *fiber.Ctx) error {
	list, err := h.queries.ListOpenAlerts(c.Context(), c.Query("nivel"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{
		"total":   len(list),
		"alertas": list,
	})
}

// GetReplenishmentList godoc
// @Summary      Lista de reposición
// @Description  Componentes en o bajo su stock mínimo con la cantidad sugerida de pedido, ordenados por déficit.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.ReplenishmentSuggestionDTO
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/inventory/replenishment-list [get]
func (h *InventoryHandler) GetReplenishmentList(c *fiber.Ctx) error {
	list, err := h.replenishment.GenerateReplenishmentList(c.Context())
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(fiber.Map{
		"total":          len(list),
		"replenishments": list,
	})
}

// parseDateParam acepta RFC3339 o YYYY-MM-DD. Con endOfDay, una fecha sin hora cubre el día completo.
func parseDateParam(raw string, endOfDay bool) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.ParseInLocation("2006-01-02", raw, time.Local)
	if err != nil {
		return nil, err
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}
