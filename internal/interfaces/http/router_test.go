package http_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/mantenimiento-api/internal/application/analytics"
	"github.com/jhoicas/mantenimiento-api/internal/application/dto"
	"github.com/jhoicas/mantenimiento-api/internal/application/inventory"
	"github.com/jhoicas/mantenimiento-api/internal/domain/entity"
	"github.com/jhoicas/mantenimiento-api/internal/infrastructure/memory"
	"github.com/jhoicas/mantenimiento-api/internal/infrastructure/metrics"
	apphttp "github.com/jhoicas/mantenimiento-api/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// buildAPI arma el router completo sobre un store en memoria con un componente
// FIL-001 (stock 10, mínimo 5, costo 100).
func buildAPI(t *testing.T) (*fiber.App, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	store.AddComponent(entity.Component{
		ID: "cmp-1", Code: "FIL-001", Name: "Filtro de aceite",
		StockActual: d("10"), StockMinimo: d("5"), Cost: d("100"),
		IsInventoriable: true, Active: true,
	})
	log := zerolog.Nop()
	m := metrics.New()

	app := fiber.New()
	app.Use(apphttp.RequestLogger(log))
	apphttp.Router(app, apphttp.RouterDeps{
		RegisterMovement: inventory.NewRegisterMovementUseCase(store, m, log),
		Kardex:           inventory.NewKardexUseCase(store, store.Components(), store.Movements()),
		ComponentQueries: inventory.NewComponentQueryUseCase(store.Components(), store.Alerts()),
		Replenishment:    inventory.NewReplenishmentUseCase(store.Components()),
		Dashboard:        analytics.NewDashboardUseCase(store.Dashboard(), store.Alerts(), store.Movements(), nil, log),
		MetricsHandler:   m.Handler(),
		JWTSecret:        testJWTSecret,
	})
	return app, store
}

func call(t *testing.T, app *fiber.App, method, path string, body interface{}) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", bearer(t, "tecnico"))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

// ──────────────────────────────────────────────────────────────────────────────
// POST /api/inventory/movements
// ──────────────────────────────────────────────────────────────────────────────

func TestRegisterMovement_Handler_Salida201(t *testing.T) {
	app, store := buildAPI(t)

	resp := call(t, app, http.MethodPost, "/api/inventory/movements", fiber.Map{
		"componente_id":     "cmp-1",
		"tipo_movimiento":   "SALIDA",
		"origen_movimiento": "CONSUMO_ORDEN_SERVICIO",
		"cantidad":          "6",
		"orden_servicio_id": "os-1",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var out dto.MovementResultResponse
	decode(t, resp, &out)
	assert.True(t, out.PreviousStock.Equal(d("10")))
	assert.True(t, out.NewStock.Equal(d("4")))
	assert.True(t, out.Delta.Equal(d("-6")))
	assert.NotEmpty(t, out.AlertID)

	m, err := store.Movements().GetByID(t.Context(), out.MovementID)
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, testUserID, m.PerformedBy, "realizado_por sale del token")
	assert.Equal(t, "os-1", m.ServiceOrderID)
}

func TestRegisterMovement_Handler_CantidadNumerica(t *testing.T) {
	app, _ := buildAPI(t)

	resp := call(t, app, http.MethodPost, "/api/inventory/movements", fiber.Map{
		"componente_id":     "cmp-1",
		"tipo_movimiento":   "ENTRADA",
		"origen_movimiento": "COMPRA",
		"cantidad":          10,
		"costo_unitario":    200,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var out dto.MovementResultResponse
	decode(t, resp, &out)
	assert.True(t, out.CostUpdated)
	assert.True(t, out.Cost.Equal(d("150")))
}

func TestRegisterMovement_Handler_AjusteSinCantidadNoTocaElStock(t *testing.T) {
	app, store := buildAPI(t)

	resp := call(t, app, http.MethodPost, "/api/inventory/movements", fiber.Map{
		"componente_id":     "cmp-1",
		"tipo_movimiento":   "AJUSTE",
		"origen_movimiento": "CONTEO_FISICO",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var out dto.ErrorResponse
	decode(t, resp, &out)
	assert.Equal(t, "VALIDATION", out.Code)
	assert.Contains(t, out.Details, "cantidad")

	c, err := store.Components().GetByID(t.Context(), "cmp-1")
	require.NoError(t, err)
	assert.True(t, c.StockActual.Equal(d("10")), "el stock no cambia")
}

func TestRegisterMovement_Handler_MapeoDeErrores(t *testing.T) {
	tests := []struct {
		name   string
		body   fiber.Map
		status int
		code   string
	}{
		{
			name:   "stock insuficiente",
			body:   fiber.Map{"componente_id": "cmp-1", "tipo_movimiento": "SALIDA", "origen_movimiento": "MERMA", "cantidad": "11"},
			status: http.StatusConflict,
			code:   "INSUFFICIENT_STOCK",
		},
		{
			name:   "ajuste negativo",
			body:   fiber.Map{"componente_id": "cmp-1", "tipo_movimiento": "AJUSTE", "origen_movimiento": "CONTEO_FISICO", "cantidad": "-2"},
			status: http.StatusUnprocessableEntity,
			code:   "INVALID_ADJUSTMENT",
		},
		{
			name:   "componente inexistente",
			body:   fiber.Map{"componente_id": "nope", "tipo_movimiento": "ENTRADA", "origen_movimiento": "COMPRA", "cantidad": "1"},
			status: http.StatusNotFound,
			code:   "NOT_FOUND",
		},
		{
			name:   "tipo desconocido",
			body:   fiber.Map{"componente_id": "cmp-1", "tipo_movimiento": "PRESTAMO", "origen_movimiento": "COMPRA", "cantidad": "1"},
			status: http.StatusBadRequest,
			code:   "INVALID_MOVEMENT_TYPE",
		},
		{
			name:   "faltan campos requeridos",
			body:   fiber.Map{"cantidad": "1"},
			status: http.StatusBadRequest,
			code:   "VALIDATION",
		},
		{
			name:   "cantidad cero",
			body:   fiber.Map{"componente_id": "cmp-1", "tipo_movimiento": "SALIDA", "origen_movimiento": "MERMA", "cantidad": "0"},
			status: http.StatusBadRequest,
			code:   "VALIDATION",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, store := buildAPI(t)

			resp := call(t, app, http.MethodPost, "/api/inventory/movements", tt.body)
			assert.Equal(t, tt.status, resp.StatusCode)
			var out dto.ErrorResponse
			decode(t, resp, &out)
			assert.Equal(t, tt.code, out.Code)

			c, err := store.Components().GetByID(t.Context(), "cmp-1")
			require.NoError(t, err)
			assert.True(t, c.StockActual.Equal(d("10")), "un rechazo no modifica el stock")
		})
	}
}

func TestRegisterMovement_Handler_DetalleStockInsuficiente(t *testing.T) {
	app, _ := buildAPI(t)

	resp := call(t, app, http.MethodPost, "/api/inventory/movements", fiber.Map{
		"componente_id": "cmp-1", "tipo_movimiento": "SALIDA", "origen_movimiento": "MERMA", "cantidad": "12.5",
	})
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	var out dto.ErrorResponse
	decode(t, resp, &out)
	assert.Equal(t, "cmp-1", out.Details["componente_id"])
	assert.Equal(t, "12.5", out.Details["solicitado"])
	assert.Equal(t, "10", out.Details["disponible"])
}

func TestRegisterMovement_Handler_BodyInvalido(t *testing.T) {
	app, _ := buildAPI(t)

	req := httptest.NewRequest(http.MethodPost, "/api/inventory/movements", bytes.NewBufferString("{no es json"))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", bearer(t, ""))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var out dto.ErrorResponse
	decode(t, resp, &out)
	assert.Equal(t, "INVALID_BODY", out.Code)
}

func TestRouter_RutasProtegidasSinToken(t *testing.T) {
	app, _ := buildAPI(t)

	req := httptest.NewRequest(http.MethodGet, "/api/components/cmp-1/stock", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Consultas
// ──────────────────────────────────────────────────────────────────────────────

func TestGetKardex_Handler(t *testing.T) {
	app, _ := buildAPI(t)
	for _, qty := range []string{"1", "2", "3"} {
		resp := call(t, app, http.MethodPost, "/api/inventory/movements", fiber.Map{
			"componente_id": "cmp-1", "tipo_movimiento": "SALIDA", "origen_movimiento": "MERMA", "cantidad": qty,
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	resp := call(t, app, http.MethodGet, "/api/inventory/components/cmp-1/kardex?page=1&limit=2", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var page dto.KardexPageResponse
	decode(t, resp, &page)
	assert.Equal(t, 3, page.Total)
	require.Len(t, page.Items, 2)
	assert.True(t, page.Items[0].Balance.Equal(d("4")))
	assert.True(t, page.Items[0].Out.Equal(d("3")))
	assert.True(t, page.Items[1].Balance.Equal(d("7")))
	assert.Equal(t, testUserID, page.Items[0].Actor)
	assert.Equal(t, "FIL-001", page.Component.Code)
}

func TestGetKardex_Handler_FechaInvalida(t *testing.T) {
	app, _ := buildAPI(t)

	resp := call(t, app, http.MethodGet, "/api/inventory/components/cmp-1/kardex?desde=ayer", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var out dto.ErrorResponse
	decode(t, resp, &out)
	assert.Equal(t, "VALIDATION", out.Code)
	assert.Contains(t, out.Details, "desde")
}

func TestGetKardex_Handler_ComponenteInexistente(t *testing.T) {
	app, _ := buildAPI(t)

	resp := call(t, app, http.MethodGet, "/api/inventory/components/nope/kardex", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGetStock_Handler(t *testing.T) {
	app, _ := buildAPI(t)

	resp := call(t, app, http.MethodGet, "/api/components/cmp-1/stock", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out dto.ComponentStockResponse
	decode(t, resp, &out)
	assert.True(t, out.StockActual.Equal(d("10")))
	assert.Nil(t, out.OpenAlert)
}

func TestAlertsYReposicion_Handler(t *testing.T) {
	app, _ := buildAPI(t)
	resp := call(t, app, http.MethodPost, "/api/inventory/movements", fiber.Map{
		"componente_id": "cmp-1", "tipo_movimiento": "SALIDA", "origen_movimiento": "MERMA", "cantidad": "10",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = call(t, app, http.MethodGet, "/api/inventory/alerts?nivel=CRITICO", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var alerts struct {
		Total   int                 `json:"total"`
		Alertas []dto.AlertResponse `json:"alertas"`
	}
	decode(t, resp, &alerts)
	assert.Equal(t, 1, alerts.Total)
	require.Len(t, alerts.Alertas, 1)
	assert.Equal(t, "cmp-1", alerts.Alertas[0].ComponentID)

	resp = call(t, app, http.MethodGet, "/api/inventory/replenishment-list", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var repl struct {
		Total          int                              `json:"total"`
		Replenishments []dto.ReplenishmentSuggestionDTO `json:"replenishments"`
	}
	decode(t, resp, &repl)
	require.Equal(t, 1, repl.Total)
	assert.True(t, repl.Replenishments[0].SuggestedOrderQty.Equal(d("8")))
	assert.Equal(t, 1, repl.Replenishments[0].Priority)

	resp = call(t, app, http.MethodGet, "/api/inventory/alerts?nivel=URGENTE", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDashboardYMetricas_Handler(t *testing.T) {
	app, _ := buildAPI(t)
	resp := call(t, app, http.MethodPost, "/api/inventory/movements", fiber.Map{
		"componente_id": "cmp-1", "tipo_movimiento": "ENTRADA", "origen_movimiento": "COMPRA", "cantidad": "1",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = call(t, app, http.MethodGet, "/api/dashboard/summary", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var s dto.DashboardSummaryDTO
	decode(t, resp, &s)
	assert.Equal(t, 1, s.ActiveComponents)
	assert.Equal(t, 1, s.TodayMovements["ENTRADA"])

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	mresp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer mresp.Body.Close()
	assert.Equal(t, http.StatusOK, mresp.StatusCode)
	var buf bytes.Buffer
	_, err = buf.ReadFrom(mresp.Body)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "movements_total")
}

func TestHealth(t *testing.T) {
	app, _ := buildAPI(t)
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
