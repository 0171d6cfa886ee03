package inventory_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appinventory "github.com/jhoicas/mantenimiento-api/internal/application/inventory"
	"github.com/jhoicas/mantenimiento-api/internal/domain"
	"github.com/jhoicas/mantenimiento-api/internal/domain/entity"
	"github.com/jhoicas/mantenimiento-api/internal/domain/inventory"
	"github.com/jhoicas/mantenimiento-api/internal/infrastructure/memory"
	"github.com/jhoicas/mantenimiento-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testComponentID = "cmp-1"
	testActorID     = "user-1"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func dp(s string) *decimal.Decimal {
	v := d(s)
	return &v
}

type fakeRecorder struct {
	mu         sync.Mutex
	registered map[entity.MovementType]int
	rejected   map[string]int
	alerts     map[entity.AlertLevel]int
}

func newFakeRecorder() *fakeRecorder {
	return &fakeRecorder{
		registered: make(map[entity.MovementType]int),
		rejected:   make(map[string]int),
		alerts:     make(map[entity.AlertLevel]int),
	}
}

func (f *fakeRecorder) MovementRegistered(tipo entity.MovementType, _ float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.registered[tipo]++
}

func (f *fakeRecorder) MovementRejected(reason string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rejected[reason]++
}

func (f *fakeRecorder) AlertCreated(nivel entity.AlertLevel) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.alerts[nivel]++
}

type fixture struct {
	store    *memory.Store
	uc       *appinventory.RegisterMovementUseCase
	recorder *fakeRecorder
}

// newFixture crea un store con un componente de stock y mínimo dados y costo 100.00.
func newFixture(t *testing.T, stock, minimo string) *fixture {
	t.Helper()
	store := memory.NewStore()
	store.AddComponent(entity.Component{
		ID:              testComponentID,
		Code:            "FIL-001",
		Name:            "Filtro de aceite",
		StockActual:     d(stock),
		StockMinimo:     d(minimo),
		Cost:            d("100.00"),
		IsInventoriable: true,
		Active:          true,
	})
	rec := newFakeRecorder()
	return &fixture{
		store:    store,
		uc:       appinventory.NewRegisterMovementUseCase(store, rec, logger.Nop().Zerolog()),
		recorder: rec,
	}
}

func hdr(origin entity.MovementOrigin) inventory.MovementHeader {
	return inventory.MovementHeader{ComponentID: testComponentID, ActorID: testActorID, Origin: origin}
}

func entrada(t *testing.T, qty string, cost *decimal.Decimal) inventory.MovementRequest {
	t.Helper()
	req, err := inventory.NewEntrada(hdr(entity.OriginCompra), d(qty), cost)
	require.NoError(t, err)
	return req
}

func salida(t *testing.T, qty string) inventory.MovementRequest {
	t.Helper()
	req, err := inventory.NewSalida(hdr(entity.OriginConsumoOrdenServicio), d(qty))
	require.NoError(t, err)
	return req
}

func ajuste(t *testing.T, target string) inventory.MovementRequest {
	t.Helper()
	req, err := inventory.NewAjuste(hdr(entity.OriginConteoFisico), d(target))
	require.NoError(t, err)
	return req
}

func (f *fixture) component(t *testing.T) *entity.Component {
	t.Helper()
	c, err := f.store.Components().GetByID(context.Background(), testComponentID)
	require.NoError(t, err)
	require.NotNil(t, c)
	return c
}

func (f *fixture) movementCount(t *testing.T) int {
	t.Helper()
	deltas, err := f.store.Movements().ListDeltas(context.Background(), testComponentID)
	require.NoError(t, err)
	return len(deltas)
}

func (f *fixture) openAlerts(t *testing.T) []*entity.Alert {
	t.Helper()
	list, err := f.store.Alerts().ListOpen(context.Background(), "")
	require.NoError(t, err)
	return list
}

// ──────────────────────────────────────────────────────────────────────────────
// Escenario base: mínimo 5, stock 10
// ──────────────────────────────────────────────────────────────────────────────

func TestRegisterMovement_SalidaBajoMinimoGeneraAdvertencia(t *testing.T) {
	f := newFixture(t, "10", "5")
	ctx := context.Background()

	res, err := f.uc.RegisterMovement(ctx, salida(t, "6"))
	require.NoError(t, err)
	assert.True(t, res.PreviousStock.Equal(d("10")))
	assert.True(t, res.NewStock.Equal(d("4")))
	assert.True(t, res.Delta.Equal(d("-6")))
	assert.NotEmpty(t, res.MovementID)
	assert.NotEmpty(t, res.AlertID, "stock 4 <= mínimo 5 debe generar alerta")

	assert.True(t, f.component(t).StockActual.Equal(d("4")))
	alerts := f.openAlerts(t)
	require.Len(t, alerts, 1)
	assert.Equal(t, entity.AlertLevelAdvertencia, alerts[0].Level)
	assert.Equal(t, entity.AlertStatusPendiente, alerts[0].Status)
	assert.Equal(t, res.AlertID, alerts[0].ID)

	// Segunda SALIDA mayor al stock: falla sin tocar nada
	_, err = f.uc.RegisterMovement(ctx, salida(t, "10"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))

	var stockErr *domain.StockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, testComponentID, stockErr.ComponentID)
	assert.True(t, stockErr.Requested.Equal(d("10")))
	assert.True(t, stockErr.Available.Equal(d("4")))

	assert.True(t, f.component(t).StockActual.Equal(d("4")), "el stock no debe cambiar")
	assert.Equal(t, 1, f.movementCount(t), "no debe quedar fila del movimiento rechazado")
	assert.Len(t, f.openAlerts(t), 1)
	assert.Equal(t, 1, f.recorder.rejected["insufficient_stock"])
}

func TestRegisterMovement_SalidaSobreMinimoSinAlerta(t *testing.T) {
	f := newFixture(t, "10", "5")

	res, err := f.uc.RegisterMovement(context.Background(), salida(t, "4"))
	require.NoError(t, err)
	assert.True(t, res.NewStock.Equal(d("6")))
	assert.Empty(t, res.AlertID)
	assert.Empty(t, f.openAlerts(t))
}

// ──────────────────────────────────────────────────────────────────────────────
// Costo promedio ponderado
// ──────────────────────────────────────────────────────────────────────────────

func TestRegisterMovement_EntradaRecalculaCostoPromedio(t *testing.T) {
	f := newFixture(t, "10", "0")

	res, err := f.uc.RegisterMovement(context.Background(), entrada(t, "10", dp("200.00")))
	require.NoError(t, err)
	assert.True(t, res.NewStock.Equal(d("20")))
	assert.True(t, res.CostUpdated)
	assert.True(t, res.Cost.Equal(d("150.00")))

	c := f.component(t)
	assert.True(t, c.StockActual.Equal(d("20")))
	assert.True(t, c.Cost.Equal(d("150.00")))
}

func TestRegisterMovement_EntradaArranqueEnFrio(t *testing.T) {
	f := newFixture(t, "0", "0")
	c := *f.component(t)
	c.Cost = decimal.Zero
	f.store.AddComponent(c)

	res, err := f.uc.RegisterMovement(context.Background(), entrada(t, "5", dp("80.00")))
	require.NoError(t, err)
	assert.True(t, res.NewStock.Equal(d("5")))
	assert.True(t, f.component(t).Cost.Equal(d("80.00")))
}

func TestRegisterMovement_EntradaSinCostoNoTocaPrecio(t *testing.T) {
	f := newFixture(t, "10", "0")

	res, err := f.uc.RegisterMovement(context.Background(), entrada(t, "5", nil))
	require.NoError(t, err)
	assert.False(t, res.CostUpdated)
	assert.True(t, f.component(t).Cost.Equal(d("100.00")))
	assert.True(t, f.component(t).StockActual.Equal(d("15")))
}

func TestRegisterMovement_EntradaCostoCeroNoTocaPrecio(t *testing.T) {
	f := newFixture(t, "10", "0")

	res, err := f.uc.RegisterMovement(context.Background(), entrada(t, "5", dp("0")))
	require.NoError(t, err)
	assert.False(t, res.CostUpdated)
	assert.True(t, f.component(t).Cost.Equal(d("100.00")))
}

func TestRegisterMovement_EntradaGuardaCostoUnitario(t *testing.T) {
	f := newFixture(t, "10", "0")

	res, err := f.uc.RegisterMovement(context.Background(), entrada(t, "2", dp("90.50")))
	require.NoError(t, err)

	m, err := f.store.Movements().GetByID(context.Background(), res.MovementID)
	require.NoError(t, err)
	require.NotNil(t, m)
	require.NotNil(t, m.UnitCost)
	assert.True(t, m.UnitCost.Equal(d("90.50")))
	assert.True(t, m.Quantity.Equal(d("2")))
	require.NotNil(t, m.StockBefore)
	require.NotNil(t, m.Balance)
	assert.True(t, m.StockBefore.Equal(d("10")))
	assert.True(t, m.Balance.Equal(d("12")))
	assert.Equal(t, testActorID, m.PerformedBy)
}

// ──────────────────────────────────────────────────────────────────────────────
// AJUSTE y TRANSFERENCIA
// ──────────────────────────────────────────────────────────────────────────────

func TestRegisterMovement_AjusteNegativoRechazado(t *testing.T) {
	f := newFixture(t, "10", "5")

	_, err := f.uc.RegisterMovement(context.Background(), ajuste(t, "-1"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidAdjustment))

	var adjErr *domain.AdjustmentError
	require.True(t, errors.As(err, &adjErr))
	assert.True(t, adjErr.Target.Equal(d("-1")))
	assert.True(t, adjErr.Current.Equal(d("10")))

	assert.True(t, f.component(t).StockActual.Equal(d("10")))
	assert.Equal(t, 0, f.movementCount(t))
}

func TestRegisterMovement_AjusteACeroGeneraCritico(t *testing.T) {
	f := newFixture(t, "10", "5")

	res, err := f.uc.RegisterMovement(context.Background(), ajuste(t, "0"))
	require.NoError(t, err)
	assert.True(t, res.Delta.Equal(d("-10")))
	assert.True(t, res.NewStock.IsZero())

	alerts := f.openAlerts(t)
	require.Len(t, alerts, 1)
	assert.Equal(t, entity.AlertLevelCritico, alerts[0].Level)
	assert.Equal(t, 1, f.recorder.alerts[entity.AlertLevelCritico])
}

func TestRegisterMovement_AjusteAlMismoValorRegistraDeltaCero(t *testing.T) {
	f := newFixture(t, "10", "5")

	res, err := f.uc.RegisterMovement(context.Background(), ajuste(t, "10"))
	require.NoError(t, err)
	assert.True(t, res.Delta.IsZero())
	assert.Equal(t, 1, f.movementCount(t))
}

func TestRegisterMovement_TransferenciaNoCambiaStock(t *testing.T) {
	f := newFixture(t, "10", "5")
	req, err := inventory.NewTransferencia(hdr(entity.OriginEnvio), d("3"), "BOD-A", "BOD-B")
	require.NoError(t, err)

	res, err := f.uc.RegisterMovement(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, res.Delta.IsZero())
	assert.True(t, res.NewStock.Equal(d("10")))

	m, err := f.store.Movements().GetByID(context.Background(), res.MovementID)
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, entity.MovementTypeTransferencia, m.Type)
	assert.True(t, m.Quantity.IsZero(), "cantidad se registra en 0")
	require.NotNil(t, m.TransferredQty)
	assert.True(t, m.TransferredQty.Equal(d("3")))
	assert.Equal(t, "BOD-A", m.FromLocation)
	assert.Equal(t, "BOD-B", m.ToLocation)
}

// ──────────────────────────────────────────────────────────────────────────────
// Deduplicación de alertas
// ──────────────────────────────────────────────────────────────────────────────

func TestRegisterMovement_AlertaNoSeDuplica(t *testing.T) {
	f := newFixture(t, "10", "5")
	ctx := context.Background()

	first, err := f.uc.RegisterMovement(ctx, salida(t, "6"))
	require.NoError(t, err)
	require.NotEmpty(t, first.AlertID)

	// Baja a 0: seguiría siendo CRITICO, pero ya hay una abierta
	second, err := f.uc.RegisterMovement(ctx, salida(t, "4"))
	require.NoError(t, err)
	assert.Empty(t, second.AlertID)

	alerts := f.openAlerts(t)
	require.Len(t, alerts, 1)
	assert.Equal(t, entity.AlertLevelAdvertencia, alerts[0].Level, "la alerta existente no se modifica")
}

func TestRegisterMovement_AlertaVistaTambienBloquea(t *testing.T) {
	f := newFixture(t, "10", "5")
	f.store.AddAlert(entity.Alert{
		ID: "alert-prev", Type: entity.AlertTypeStockMinimo, Level: entity.AlertLevelAdvertencia,
		ComponentID: testComponentID, Status: entity.AlertStatusVista,
	})

	res, err := f.uc.RegisterMovement(context.Background(), salida(t, "8"))
	require.NoError(t, err)
	assert.Empty(t, res.AlertID)
	assert.Len(t, f.openAlerts(t), 1)
}

func TestRegisterMovement_AlertaResueltaNoBloquea(t *testing.T) {
	f := newFixture(t, "10", "5")
	f.store.AddAlert(entity.Alert{
		ID: "alert-prev", Type: entity.AlertTypeStockMinimo, Level: entity.AlertLevelAdvertencia,
		ComponentID: testComponentID, Status: entity.AlertStatusResuelta,
	})

	res, err := f.uc.RegisterMovement(context.Background(), salida(t, "8"))
	require.NoError(t, err)
	assert.NotEmpty(t, res.AlertID)
	assert.Len(t, f.openAlerts(t), 1)
}

// ──────────────────────────────────────────────────────────────────────────────
// Precondiciones y atomicidad
// ──────────────────────────────────────────────────────────────────────────────

func TestRegisterMovement_ComponenteInexistente(t *testing.T) {
	f := newFixture(t, "10", "5")
	req, err := inventory.NewSalida(inventory.MovementHeader{
		ComponentID: "no-existe", ActorID: testActorID, Origin: entity.OriginMerma,
	}, d("1"))
	require.NoError(t, err)

	_, err = f.uc.RegisterMovement(context.Background(), req)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	var nf *domain.NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "no-existe", nf.ComponentID)
}

func TestRegisterMovement_ComponenteInactivoRechazado(t *testing.T) {
	f := newFixture(t, "10", "5")
	c := *f.component(t)
	c.Active = false
	f.store.AddComponent(c)

	_, err := f.uc.RegisterMovement(context.Background(), entrada(t, "1", nil))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	assert.Equal(t, 0, f.movementCount(t))
}

func TestRegisterMovement_NoInventariableRechazado(t *testing.T) {
	f := newFixture(t, "10", "5")
	c := *f.component(t)
	c.IsInventoriable = false
	f.store.AddComponent(c)

	_, err := f.uc.RegisterMovement(context.Background(), salida(t, "1"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestRegisterMovement_RequestNilEsTipoInvalido(t *testing.T) {
	f := newFixture(t, "10", "5")

	_, err := f.uc.RegisterMovement(context.Background(), nil)
	assert.True(t, errors.Is(err, domain.ErrInvalidMovementType))
	assert.Equal(t, 1, f.recorder.rejected["invalid_movement_type"])
}

func TestRegisterMovement_FalloEnAlertaDeshaceTodo(t *testing.T) {
	f := newFixture(t, "10", "5")
	f.store.SetFault(memory.OpCreateAlert, errors.New("disco lleno"))

	_, err := f.uc.RegisterMovement(context.Background(), salida(t, "6"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disco lleno")

	assert.True(t, f.component(t).StockActual.Equal(d("10")), "el stock vuelve al valor previo")
	assert.Equal(t, 0, f.movementCount(t), "el movimiento no queda persistido")
	assert.Empty(t, f.openAlerts(t))
	assert.Equal(t, 1, f.recorder.rejected["internal"])

	// Limpio el fallo: la misma operación ahora pasa
	f.store.SetFault(memory.OpCreateAlert, nil)
	_, err = f.uc.RegisterMovement(context.Background(), salida(t, "6"))
	require.NoError(t, err)
}

func TestRegisterMovement_CommitFallidoNoReportaAlerta(t *testing.T) {
	f := newFixture(t, "10", "5")
	f.store.SetFault(memory.OpCommit, errors.New("conexión perdida"))

	_, err := f.uc.RegisterMovement(context.Background(), salida(t, "6"))
	require.Error(t, err)

	assert.Empty(t, f.openAlerts(t))
	assert.Empty(t, f.recorder.alerts, "la alerta revertida no se cuenta")
	assert.Empty(t, f.recorder.registered)
	assert.True(t, f.component(t).StockActual.Equal(d("10")))

	f.store.SetFault(memory.OpCommit, nil)
	res, err := f.uc.RegisterMovement(context.Background(), salida(t, "6"))
	require.NoError(t, err)
	assert.Equal(t, entity.AlertLevelAdvertencia, res.AlertLevel)
	assert.Equal(t, 1, f.recorder.alerts[entity.AlertLevelAdvertencia])
}

func TestRegisterMovement_FalloAlActualizarStockDeshaceMovimiento(t *testing.T) {
	f := newFixture(t, "10", "5")
	f.store.SetFault(memory.OpUpdateStock, errors.New("timeout"))

	_, err := f.uc.RegisterMovement(context.Background(), entrada(t, "5", dp("120")))
	require.Error(t, err)
	assert.Equal(t, 0, f.movementCount(t))
	c := f.component(t)
	assert.True(t, c.StockActual.Equal(d("10")))
	assert.True(t, c.Cost.Equal(d("100.00")))
}

// ──────────────────────────────────────────────────────────────────────────────
// Consistencia del ledger y concurrencia
// ──────────────────────────────────────────────────────────────────────────────

func TestRegisterMovement_LedgerConsistente(t *testing.T) {
	f := newFixture(t, "0", "2")
	ctx := context.Background()

	reqs := []inventory.MovementRequest{
		entrada(t, "10", dp("50")),
		salida(t, "3"),
		ajuste(t, "12"),
		salida(t, "12"),
		entrada(t, "4", nil),
	}
	for _, r := range reqs {
		_, err := f.uc.RegisterMovement(ctx, r)
		require.NoError(t, err)
	}

	deltas, err := f.store.Movements().ListDeltas(ctx, testComponentID)
	require.NoError(t, err)
	sum := decimal.Zero
	for _, dl := range deltas {
		sum = sum.Add(dl.Delta)
	}
	assert.True(t, sum.Equal(f.component(t).StockActual), "la suma de deltas debe igualar el stock")
	assert.True(t, f.component(t).StockActual.Equal(d("4")))
	assert.Equal(t, 2, f.recorder.registered[entity.MovementTypeEntrada])
	assert.Equal(t, 2, f.recorder.registered[entity.MovementTypeSalida])
	assert.Equal(t, 1, f.recorder.registered[entity.MovementTypeAjuste])
}

func TestRegisterMovement_SalidasConcurrentesNuncaDejanStockNegativo(t *testing.T) {
	f := newFixture(t, "10", "0")
	ctx := context.Background()

	const workers = 25
	req := salida(t, "1")
	var (
		wg           sync.WaitGroup
		mu           sync.Mutex
		ok, rejected int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.uc.RegisterMovement(ctx, req)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				ok++
				return
			}
			if errors.Is(err, domain.ErrInsufficientStock) {
				rejected++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, ok)
	assert.Equal(t, workers-10, rejected)
	assert.True(t, f.component(t).StockActual.IsZero())
	assert.Equal(t, 10, f.movementCount(t))
}
