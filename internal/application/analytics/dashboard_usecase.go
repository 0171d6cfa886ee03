// Package analytics contiene los casos de uso de solo lectura para el tablero de inventario.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/mantenimiento-api/internal/application/dto"
	"github.com/jhoicas/mantenimiento-api/internal/domain/entity"
	"github.com/jhoicas/mantenimiento-api/internal/domain/repository"
)

// SummaryCache almacena el resumen ya calculado. Los errores del caché nunca fallan la petición.
type SummaryCache interface {
	Get(ctx context.Context) (*dto.DashboardSummaryDTO, bool, error)
	Set(ctx context.Context, summary *dto.DashboardSummaryDTO) error
}

// DashboardUseCase genera el resumen del inventario: catálogo, alertas abiertas y movimientos del día.
//
// Fuente de datos: repositorios de solo lectura, sin bloqueos.
type DashboardUseCase struct {
	dashboardRepo repository.DashboardRepository
	alertRepo     repository.AlertRepository
	movRepo       repository.MovementRepository
	cache         SummaryCache
	log           zerolog.Logger
}

// NewDashboardUseCase construye el caso de uso. cache puede ser nil.
func NewDashboardUseCase(
	dashboardRepo repository.DashboardRepository,
	alertRepo repository.AlertRepository,
	movRepo repository.MovementRepository,
	cache SummaryCache,
	log zerolog.Logger,
) *DashboardUseCase {
	return &DashboardUseCase{
		dashboardRepo: dashboardRepo,
		alertRepo:     alertRepo,
		movRepo:       movRepo,
		cache:         cache,
		log:           log,
	}
}

// GetSummary construye el DashboardSummaryDTO.
//
// Tres llamadas en paralelo:
//  1. GetStockTotals           → componentes activos, bajo mínimo, sin stock, valorización
//  2. CountOpenByLevel         → alertas abiertas por nivel
//  3. CountByTypeSince(hoy)    → movimientos de hoy por tipo
func (uc *DashboardUseCase) GetSummary(ctx context.Context) (*dto.DashboardSummaryDTO, error) {
	if uc.cache != nil {
		cached, ok, err := uc.cache.Get(ctx)
		if err != nil {
			uc.log.Warn().Err(err).Msg("dashboard: lectura de caché fallida")
		} else if ok {
			return cached, nil
		}
	}

	now := time.Now()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	// ── Goroutines para paralelizar las 3 consultas DB ────────────────────────
	type totalsResult struct {
		totals repository.StockTotals
		err    error
	}
	type alertsResult struct {
		byLevel map[entity.AlertLevel]int
		err     error
	}
	type movementsResult struct {
		byType map[entity.MovementType]int
		err    error
	}

	totalsCh := make(chan totalsResult, 1)
	alertsCh := make(chan alertsResult, 1)
	movsCh := make(chan movementsResult, 1)

	go func() {
		t, err := uc.dashboardRepo.GetStockTotals(ctx)
		totalsCh <- totalsResult{t, err}
	}()
	go func() {
		m, err := uc.alertRepo.CountOpenByLevel(ctx)
		alertsCh <- alertsResult{m, err}
	}()
	go func() {
		m, err := uc.movRepo.CountByTypeSince(ctx, todayStart)
		movsCh <- movementsResult{m, err}
	}()

	totals := <-totalsCh
	alerts := <-alertsCh
	movs := <-movsCh

	if totals.err != nil {
		return nil, fmt.Errorf("dashboard: totales de stock: %w", totals.err)
	}
	if alerts.err != nil {
		return nil, fmt.Errorf("dashboard: alertas abiertas: %w", alerts.err)
	}
	if movs.err != nil {
		return nil, fmt.Errorf("dashboard: movimientos de hoy: %w", movs.err)
	}

	// ── Construir DTO ──────────────────────────────────────────────────────────
	today := map[string]int{
		string(entity.MovementTypeEntrada):       0,
		string(entity.MovementTypeSalida):        0,
		string(entity.MovementTypeAjuste):        0,
		string(entity.MovementTypeTransferencia): 0,
	}
	for t, n := range movs.byType {
		today[string(t)] = n
	}
	critical := alerts.byLevel[entity.AlertLevelCritico]
	warning := alerts.byLevel[entity.AlertLevelAdvertencia]

	summary := &dto.DashboardSummaryDTO{
		ActiveComponents:   totals.totals.ActiveComponents,
		AtOrBelowMinimum:   totals.totals.AtOrBelowMinimum,
		OutOfStock:         totals.totals.OutOfStock,
		InventoryValuation: totals.totals.InventoryValuation.Round(2),
		OpenAlerts:         critical + warning,
		OpenCriticalAlerts: critical,
		OpenWarningAlerts:  warning,
		TodayMovements:     today,
		DateLabel:          dayLabel(now),
	}

	if uc.cache != nil {
		if err := uc.cache.Set(ctx, summary); err != nil {
			uc.log.Warn().Err(err).Msg("dashboard: escritura de caché fallida")
		}
	}
	return summary, nil
}

// dayLabel devuelve una etiqueta legible del día, ej: "14 de Octubre 2026".
func dayLabel(t time.Time) string {
	months := [...]string{
		"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
		"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
	}
	return fmt.Sprintf("%d de %s %d", t.Day(), months[t.Month()-1], t.Year())
}
