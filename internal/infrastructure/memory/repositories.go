package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/mantenimiento-api/internal/domain/entity"
	"github.com/jhoicas/mantenimiento-api/internal/domain/repository"
)

var (
	_ repository.ComponentRepository = (*ComponentRepo)(nil)
	_ repository.MovementRepository  = (*MovementRepo)(nil)
	_ repository.AlertRepository     = (*AlertRepo)(nil)
	_ repository.DashboardRepository = (*DashboardRepo)(nil)
)

// ComponentRepo catálogo de componentes en memoria.
type ComponentRepo struct{ v view }

func (r *ComponentRepo) GetByID(_ context.Context, id string) (*entity.Component, error) {
	var out *entity.Component
	r.v.read(func(st *state) {
		if c, ok := st.components[id]; ok {
			out = &c
		}
	})
	return out, nil
}

// GetForUpdate equivale a GetByID: la transacción ya tiene el store en exclusiva.
func (r *ComponentRepo) GetForUpdate(ctx context.Context, id string) (*entity.Component, error) {
	return r.GetByID(ctx, id)
}

func (r *ComponentRepo) UpdateStock(_ context.Context, id string, stock decimal.Decimal) error {
	return r.v.write(OpUpdateStock, func(st *state) error {
		c, ok := st.components[id]
		if !ok {
			return fmt.Errorf("update component stock: componente %s no existe", id)
		}
		if stock.IsNegative() {
			return fmt.Errorf("update component stock: stock_actual negativo")
		}
		c.StockActual = stock
		c.UpdatedAt = time.Now()
		st.components[id] = c
		return nil
	})
}

func (r *ComponentRepo) UpdateStockAndCost(_ context.Context, id string, stock, cost decimal.Decimal) error {
	return r.v.write(OpUpdateStock, func(st *state) error {
		c, ok := st.components[id]
		if !ok {
			return fmt.Errorf("update component stock and cost: componente %s no existe", id)
		}
		if stock.IsNegative() {
			return fmt.Errorf("update component stock and cost: stock_actual negativo")
		}
		c.StockActual = stock
		c.Cost = cost
		c.UpdatedAt = time.Now()
		st.components[id] = c
		return nil
	})
}

func (r *ComponentRepo) ListAtOrBelowMinimum(_ context.Context) ([]*entity.Component, error) {
	var list []*entity.Component
	r.v.read(func(st *state) {
		for _, c := range st.components {
			if c.AcceptsMovements() && c.AtOrBelowMinimum() {
				c := c
				list = append(list, &c)
			}
		}
	})
	sort.Slice(list, func(i, j int) bool {
		di := list[i].StockMinimo.Sub(list[i].StockActual)
		dj := list[j].StockMinimo.Sub(list[j].StockActual)
		if !di.Equal(dj) {
			return di.GreaterThan(dj)
		}
		return list[i].Code < list[j].Code
	})
	return list, nil
}

// MovementRepo ledger append-only en memoria.
type MovementRepo struct{ v view }

func (r *MovementRepo) Create(_ context.Context, movement *entity.Movement) error {
	return r.v.write(OpCreateMovement, func(st *state) error {
		if movement.ID == "" {
			movement.ID = uuid.New().String()
		}
		st.seq++
		movement.Sequence = st.seq
		m := *movement
		m.UnitCost = copyDecimal(movement.UnitCost)
		m.StockBefore = copyDecimal(movement.StockBefore)
		m.Balance = copyDecimal(movement.Balance)
		m.TransferredQty = copyDecimal(movement.TransferredQty)
		st.movements = append(st.movements, m)
		return nil
	})
}

func (r *MovementRepo) GetByID(_ context.Context, id string) (*entity.Movement, error) {
	var out *entity.Movement
	r.v.read(func(st *state) {
		for i := range st.movements {
			if st.movements[i].ID == id {
				m := st.movements[i]
				out = &m
				return
			}
		}
	})
	return out, nil
}

func (r *MovementRepo) ListKardex(
	_ context.Context,
	componentID string,
	filter repository.KardexFilter,
) ([]*entity.KardexEntry, int, error) {
	var (
		list  []*entity.KardexEntry
		total int
	)
	r.v.read(func(st *state) {
		for i := len(st.movements) - 1; i >= 0; i-- {
			m := st.movements[i]
			if m.ComponentID != componentID {
				continue
			}
			if filter.From != nil && m.Date.Before(*filter.From) {
				continue
			}
			if filter.To != nil && m.Date.After(*filter.To) {
				continue
			}
			total++
			if total <= filter.Offset || (filter.Limit > 0 && len(list) >= filter.Limit) {
				continue
			}
			m.Balance = copyDecimal(m.Balance)
			list = append(list, &entity.KardexEntry{
				Movement:            m,
				ActorName:           st.users[m.PerformedBy],
				ServiceOrderNumber:  st.serviceOrders[m.ServiceOrderID],
				PurchaseOrderNumber: st.purchaseOrders[m.PurchaseOrderID],
				ShipmentNumber:      st.shipments[m.ShipmentID],
			})
		}
	})
	return list, total, nil
}

func (r *MovementRepo) SumKardex(
	_ context.Context,
	componentID string,
	filter repository.KardexFilter,
) (repository.KardexTotals, error) {
	totals := repository.KardexTotals{In: decimal.Zero, Out: decimal.Zero}
	r.v.read(func(st *state) {
		for _, m := range st.movements {
			if m.ComponentID != componentID {
				continue
			}
			if filter.From != nil && m.Date.Before(*filter.From) {
				continue
			}
			if filter.To != nil && m.Date.After(*filter.To) {
				continue
			}
			totals.In = totals.In.Add(m.In())
			totals.Out = totals.Out.Add(m.Out())
		}
	})
	return totals, nil
}

func (r *MovementRepo) ListDeltas(_ context.Context, componentID string) ([]repository.MovementDelta, error) {
	var list []repository.MovementDelta
	r.v.read(func(st *state) {
		for i := len(st.movements) - 1; i >= 0; i-- {
			if m := st.movements[i]; m.ComponentID == componentID {
				list = append(list, repository.MovementDelta{ID: m.ID, Delta: m.Quantity})
			}
		}
	})
	return list, nil
}

func (r *MovementRepo) CountByTypeSince(_ context.Context, since time.Time) (map[entity.MovementType]int, error) {
	out := make(map[entity.MovementType]int)
	r.v.read(func(st *state) {
		for _, m := range st.movements {
			if !m.Date.Before(since) {
				out[m.Type]++
			}
		}
	})
	return out, nil
}

// AlertRepo alertas en memoria con la misma regla de unicidad que el índice parcial de PostgreSQL.
type AlertRepo struct{ v view }

func (r *AlertRepo) CreateIfNoneOpen(_ context.Context, alert *entity.Alert) (bool, error) {
	created := false
	err := r.v.write(OpCreateAlert, func(st *state) error {
		for _, a := range st.alerts {
			if a.ComponentID == alert.ComponentID && a.Type == alert.Type && a.Status.IsOpen() {
				return nil
			}
		}
		if alert.ID == "" {
			alert.ID = uuid.New().String()
		}
		st.alerts = append(st.alerts, *alert)
		created = true
		return nil
	})
	return created, err
}

func (r *AlertRepo) FindOpen(_ context.Context, componentID string, alertType entity.AlertType) (*entity.Alert, error) {
	var out *entity.Alert
	r.v.read(func(st *state) {
		for i := len(st.alerts) - 1; i >= 0; i-- {
			a := st.alerts[i]
			if a.ComponentID == componentID && a.Type == alertType && a.Status.IsOpen() {
				out = &a
				return
			}
		}
	})
	return out, nil
}

func (r *AlertRepo) ListOpen(_ context.Context, level entity.AlertLevel) ([]*entity.Alert, error) {
	var list []*entity.Alert
	r.v.read(func(st *state) {
		for i := len(st.alerts) - 1; i >= 0; i-- {
			a := st.alerts[i]
			if a.Type != entity.AlertTypeStockMinimo || !a.Status.IsOpen() {
				continue
			}
			if level != "" && a.Level != level {
				continue
			}
			list = append(list, &a)
		}
	})
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Level == entity.AlertLevelCritico && list[j].Level != entity.AlertLevelCritico
	})
	return list, nil
}

func (r *AlertRepo) CountOpenByLevel(_ context.Context) (map[entity.AlertLevel]int, error) {
	out := make(map[entity.AlertLevel]int)
	r.v.read(func(st *state) {
		for _, a := range st.alerts {
			if a.Type == entity.AlertTypeStockMinimo && a.Status.IsOpen() {
				out[a.Level]++
			}
		}
	})
	return out, nil
}

// DashboardRepo agregados del catálogo en memoria.
type DashboardRepo struct{ v view }

func (r *DashboardRepo) GetStockTotals(_ context.Context) (repository.StockTotals, error) {
	var t repository.StockTotals
	r.v.read(func(st *state) {
		for _, c := range st.components {
			if !c.Active {
				continue
			}
			t.ActiveComponents++
			if !c.IsInventoriable {
				continue
			}
			if c.AtOrBelowMinimum() {
				t.AtOrBelowMinimum++
			}
			if c.StockActual.IsZero() {
				t.OutOfStock++
			}
			t.InventoryValuation = t.InventoryValuation.Add(c.StockActual.Mul(c.Cost))
		}
	})
	return t, nil
}
