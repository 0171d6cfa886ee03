package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/mantenimiento-api/internal/application/dto"
	"github.com/jhoicas/mantenimiento-api/internal/application/inventory"
)

// ComponentHandler consultas de stock por componente. El CRUD del catálogo vive en otro módulo.
type ComponentHandler struct {
	uc *inventory.ComponentQueryUseCase
}

// NewComponentHandler construye el handler.
func NewComponentHandler(uc *inventory.ComponentQueryUseCase) *ComponentHandler {
	return &ComponentHandler{uc: uc}
}

// GetStock godoc
// @Summary      Stock de un componente
// @Tags         components
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del componente"
// @Success      200  {object}  dto.ComponentStockResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/components/{id}/stock [get]
func (h *ComponentHandler) GetStock(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	out, err := h.uc.GetStock(c.Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
