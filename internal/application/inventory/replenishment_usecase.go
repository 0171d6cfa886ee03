package inventory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/mantenimiento-api/internal/application/dto"
	"github.com/jhoicas/mantenimiento-api/internal/domain/repository"
)

// ReplenishmentUseCase genera la lista de reposición de componentes en o bajo su stock mínimo.
type ReplenishmentUseCase struct {
	componentRepo repository.ComponentRepository
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase(componentRepo repository.ComponentRepository) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{componentRepo: componentRepo}
}

// GenerateReplenishmentList devuelve los componentes activos e inventariables con
// stock_actual <= stock_minimo, la cantidad sugerida para llegar a 1.5 × mínimo y un ranking
// por déficit.
func (uc *ReplenishmentUseCase) GenerateReplenishmentList(ctx context.Context) ([]dto.ReplenishmentSuggestionDTO, error) {
	// 1. Componentes en o bajo el mínimo
	rawItems, err := uc.componentRepo.ListAtOrBelowMinimum(ctx)
	if err != nil {
		return nil, err
	}
	if len(rawItems) == 0 {
		return []dto.ReplenishmentSuggestionDTO{}, nil
	}

	// 2. Construir los DTOs
	factor := decimal.RequireFromString("1.5")
	suggestions := make([]dto.ReplenishmentSuggestionDTO, 0, len(rawItems))
	for _, item := range rawItems {
		if !item.AcceptsMovements() {
			continue
		}
		idealStock := item.StockMinimo.Mul(factor)
		suggestedQty := idealStock.Sub(item.StockActual).Ceil()
		if suggestedQty.IsNegative() {
			suggestedQty = decimal.Zero
		}

		suggestions = append(suggestions, dto.ReplenishmentSuggestionDTO{
			ComponentID:        item.ID,
			Code:               item.Code,
			Name:               item.Name,
			CurrentStock:       item.StockActual,
			StockMinimo:        item.StockMinimo,
			IdealStock:         idealStock,
			SuggestedOrderQty:  suggestedQty,
			UnitCost:           item.Cost,
			EstimatedOrderCost: suggestedQty.Mul(item.Cost).Round(2),
		})
	}

	// 3. Ordenar: mayor déficit bajo el mínimo, luego sin stock primero, luego código
	sort.SliceStable(suggestions, func(i, j int) bool {
		a, b := suggestions[i], suggestions[j]
		defA := a.StockMinimo.Sub(a.CurrentStock)
		defB := b.StockMinimo.Sub(b.CurrentStock)
		if !defA.Equal(defB) {
			return defA.GreaterThan(defB)
		}
		if a.CurrentStock.IsZero() != b.CurrentStock.IsZero() {
			return a.CurrentStock.IsZero()
		}
		return a.Code < b.Code
	})

	// 4. Asignar prioridad (1 = más urgente)
	for i := range suggestions {
		suggestions[i].Priority = i + 1
	}

	return suggestions, nil
}
