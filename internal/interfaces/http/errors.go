package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/mantenimiento-api/internal/application/dto"
	"github.com/jhoicas/mantenimiento-api/internal/domain"
)

// writeError traduce un error de dominio a status HTTP y dto.ErrorResponse con su contexto.
func writeError(c *fiber.Ctx, err error) error {
	var (
		stockErr    *domain.StockError
		adjErr      *domain.AdjustmentError
		notFoundErr *domain.NotFoundError
		validErr    *domain.ValidationError
	)
	switch {
	case errors.As(err, &stockErr):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code:    "INSUFFICIENT_STOCK",
			Message: "stock insuficiente",
			Details: map[string]string{
				"componente_id": stockErr.ComponentID,
				"solicitado":    stockErr.Requested.String(),
				"disponible":    stockErr.Available.String(),
			},
		})
	case errors.As(err, &adjErr):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{
			Code:    "INVALID_ADJUSTMENT",
			Message: "el stock objetivo no puede ser negativo",
			Details: map[string]string{
				"componente_id": adjErr.ComponentID,
				"objetivo":      adjErr.Target.String(),
				"actual":        adjErr.Current.String(),
			},
		})
	case errors.As(err, &notFoundErr):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Code:    "NOT_FOUND",
			Message: "componente no encontrado",
			Details: map[string]string{"componente_id": notFoundErr.ComponentID},
		})
	case errors.As(err, &validErr):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code:    "VALIDATION",
			Message: validErr.Error(),
			Details: map[string]string{validErr.Field: validErr.Reason},
		})
	case errors.Is(err, domain.ErrInvalidMovementType):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_MOVEMENT_TYPE", Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: domain.ErrConflict.Error()})
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
}
