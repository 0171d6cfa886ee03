package inventory

import (
	"context"

	"github.com/jhoicas/mantenimiento-api/internal/application/dto"
	"github.com/jhoicas/mantenimiento-api/internal/domain"
	"github.com/jhoicas/mantenimiento-api/internal/domain/entity"
	"github.com/jhoicas/mantenimiento-api/internal/domain/repository"
)

// ComponentQueryUseCase consultas de solo lectura sobre stock y alertas.
type ComponentQueryUseCase struct {
	componentRepo repository.ComponentRepository
	alertRepo     repository.AlertRepository
}

// NewComponentQueryUseCase construye el caso de uso.
func NewComponentQueryUseCase(componentRepo repository.ComponentRepository, alertRepo repository.AlertRepository) *ComponentQueryUseCase {
	return &ComponentQueryUseCase{componentRepo: componentRepo, alertRepo: alertRepo}
}

// GetStock devuelve el estado de inventario del componente con su alerta abierta, si existe.
func (uc *ComponentQueryUseCase) GetStock(ctx context.Context, componentID string) (*dto.ComponentStockResponse, error) {
	c, err := uc.componentRepo.GetByID(ctx, componentID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, &domain.NotFoundError{ComponentID: componentID}
	}
	out := &dto.ComponentStockResponse{
		ID:              c.ID,
		Code:            c.Code,
		Name:            c.Name,
		StockActual:     c.StockActual,
		StockMinimo:     c.StockMinimo,
		Cost:            c.Cost,
		IsInventoriable: c.IsInventoriable,
		Active:          c.Active,
	}
	open, err := uc.alertRepo.FindOpen(ctx, c.ID, entity.AlertTypeStockMinimo)
	if err != nil {
		return nil, err
	}
	if open != nil {
		a := ToAlertResponse(open)
		out.OpenAlert = &a
	}
	return out, nil
}

// ListOpenAlerts alertas STOCK_MINIMO abiertas; level vacío = todos los niveles.
func (uc *ComponentQueryUseCase) ListOpenAlerts(ctx context.Context, level string) ([]dto.AlertResponse, error) {
	lvl := entity.AlertLevel(level)
	if lvl != "" && lvl != entity.AlertLevelAdvertencia && lvl != entity.AlertLevelCritico {
		return nil, domain.Invalid("nivel", "valor no soportado: "+level)
	}
	alerts, err := uc.alertRepo.ListOpen(ctx, lvl)
	if err != nil {
		return nil, err
	}
	out := make([]dto.AlertResponse, 0, len(alerts))
	for _, a := range alerts {
		out = append(out, ToAlertResponse(a))
	}
	return out, nil
}

// ToAlertResponse convierte la entidad al DTO.
func ToAlertResponse(a *entity.Alert) dto.AlertResponse {
	return dto.AlertResponse{
		ID:          a.ID,
		Type:        string(a.Type),
		Level:       string(a.Level),
		ComponentID: a.ComponentID,
		Message:     a.Message,
		Status:      string(a.Status),
		GeneratedAt: a.GeneratedAt,
		ResolvedAt:  a.ResolvedAt,
		ResolvedBy:  a.ResolvedBy,
	}
}
