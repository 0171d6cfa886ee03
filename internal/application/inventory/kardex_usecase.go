package inventory

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/mantenimiento-api/internal/application/dto"
	"github.com/jhoicas/mantenimiento-api/internal/domain"
	"github.com/jhoicas/mantenimiento-api/internal/domain/entity"
	"github.com/jhoicas/mantenimiento-api/internal/domain/inventory"
	"github.com/jhoicas/mantenimiento-api/internal/domain/repository"
)

// KardexUseCase reconstruye el kardex de un componente: movimientos del más reciente al más
// antiguo con el saldo inmediatamente posterior a cada uno. Solo lectura.
type KardexUseCase struct {
	txRunner      TxRunner
	componentRepo repository.ComponentRepository
	movRepo       repository.MovementRepository
}

// NewKardexUseCase construye el caso de uso.
func NewKardexUseCase(
	txRunner TxRunner,
	componentRepo repository.ComponentRepository,
	movRepo repository.MovementRepository,
) *KardexUseCase {
	return &KardexUseCase{
		txRunner:      txRunner,
		componentRepo: componentRepo,
		movRepo:       movRepo,
	}
}

// BuildKardex devuelve una página del kardex. Usa el saldo persistido en cada fila; si alguna fila
// de la página no lo tiene, recorre el historial completo desde stock_actual dentro de una misma
// instantánea y pagina sobre ese recorrido.
func (uc *KardexUseCase) BuildKardex(ctx context.Context, componentID string, q dto.KardexQuery) (*dto.KardexPageResponse, error) {
	q.Normalize()
	if q.From != nil && q.To != nil && q.From.After(*q.To) {
		return nil, domain.Invalid("desde", "no puede ser posterior a hasta")
	}
	filter := repository.KardexFilter{From: q.From, To: q.To, Limit: q.Limit, Offset: q.Offset()}

	component, err := uc.componentRepo.GetByID(ctx, componentID)
	if err != nil {
		return nil, err
	}
	if component == nil {
		return nil, &domain.NotFoundError{ComponentID: componentID}
	}

	entries, total, err := uc.movRepo.ListKardex(ctx, componentID, filter)
	if err != nil {
		return nil, err
	}

	if missingBalance(entries) {
		component, entries, total, err = uc.replay(ctx, componentID, filter)
		if err != nil {
			return nil, err
		}
	}

	totals, err := uc.movRepo.SumKardex(ctx, componentID, filter)
	if err != nil {
		return nil, err
	}

	items := make([]dto.KardexRowDTO, 0, len(entries))
	for _, e := range entries {
		items = append(items, toKardexRow(e))
	}
	return &dto.KardexPageResponse{
		Component: dto.KardexComponentDTO{
			ID:          component.ID,
			Code:        component.Code,
			Name:        component.Name,
			StockActual: component.StockActual,
			Cost:        component.Cost,
		},
		Items:    items,
		Page:     q.Page,
		Limit:    q.Limit,
		Total:    total,
		TotalIn:  totals.In,
		TotalOut: totals.Out,
	}, nil
}

// replay recalcula los saldos desde el stock vivo hacia atrás sobre todo el historial.
func (uc *KardexUseCase) replay(
	ctx context.Context,
	componentID string,
	filter repository.KardexFilter,
) (*entity.Component, []*entity.KardexEntry, int, error) {
	var (
		component *entity.Component
		entries   []*entity.KardexEntry
		total     int
	)
	err := uc.txRunner.RunSnapshot(ctx, func(
		movRepo repository.MovementRepository,
		componentRepo repository.ComponentRepository,
	) error {
		var err error
		component, err = componentRepo.GetByID(ctx, componentID)
		if err != nil {
			return err
		}
		if component == nil {
			return &domain.NotFoundError{ComponentID: componentID}
		}

		history, err := movRepo.ListDeltas(ctx, componentID)
		if err != nil {
			return err
		}
		deltas := make([]decimal.Decimal, len(history))
		for i, h := range history {
			deltas[i] = h.Delta
		}
		balances := inventory.ReplayBalances(component.StockActual, deltas)
		byID := make(map[string]decimal.Decimal, len(history))
		for i, h := range history {
			byID[h.ID] = balances[i]
		}

		entries, total, err = movRepo.ListKardex(ctx, componentID, filter)
		if err != nil {
			return err
		}
		for _, e := range entries {
			if b, ok := byID[e.ID]; ok {
				balance := b
				e.Balance = &balance
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, 0, err
	}
	return component, entries, total, nil
}

func missingBalance(entries []*entity.KardexEntry) bool {
	for _, e := range entries {
		if e.Balance == nil {
			return true
		}
	}
	return false
}

func toKardexRow(e *entity.KardexEntry) dto.KardexRowDTO {
	var balance decimal.Decimal
	if e.Balance != nil {
		balance = *e.Balance
	}
	actor := e.ActorName
	if actor == "" {
		actor = e.PerformedBy
	}
	return dto.KardexRowDTO{
		MovementID: e.ID,
		Date:       e.Date,
		Type:       string(e.Type),
		Origin:     string(e.Origin),
		In:         e.In(),
		Out:        e.Out(),
		Balance:    balance,
		UnitCost:   e.UnitCost,
		Reference:  reference(e),
		Actor:      actor,
	}
}

// reference número legible de la orden, compra o envío vinculado; si no hay, la justificación.
func reference(e *entity.KardexEntry) string {
	switch {
	case e.ServiceOrderNumber != "":
		return e.ServiceOrderNumber
	case e.PurchaseOrderNumber != "":
		return e.PurchaseOrderNumber
	case e.ShipmentNumber != "":
		return e.ShipmentNumber
	}
	return e.Justification
}
