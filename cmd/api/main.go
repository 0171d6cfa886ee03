package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	appanalytics "github.com/jhoicas/mantenimiento-api/internal/application/analytics"
	"github.com/jhoicas/mantenimiento-api/internal/application/inventory"
	"github.com/jhoicas/mantenimiento-api/internal/infrastructure/cache"
	"github.com/jhoicas/mantenimiento-api/internal/infrastructure/metrics"
	"github.com/jhoicas/mantenimiento-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/mantenimiento-api/internal/interfaces/http"
	"github.com/jhoicas/mantenimiento-api/pkg/config"
	"github.com/jhoicas/mantenimiento-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET es requerido")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	componentRepo := postgres.NewComponentRepository(pool)
	movementRepo := postgres.NewMovementRepository(pool)
	alertRepo := postgres.NewAlertRepository(pool)
	dashboardRepo := postgres.NewDashboardRepository(pool)
	txRunner := postgres.NewTxRunner(pool, cfg.DB.LockTimeout())

	var recorder inventory.MovementRecorder
	var ledgerMetrics *metrics.LedgerMetrics
	if cfg.App.MetricsEnabled {
		ledgerMetrics = metrics.New()
		recorder = ledgerMetrics
	}

	// Caché del dashboard: opcional, si Redis no responde se sigue sin caché.
	var summaryCache appanalytics.SummaryCache
	if cfg.Redis.URL != "" {
		rdb, err := cache.NewRedis(ctx, cfg.Redis.URL)
		if err != nil {
			log.Warn().Err(err).Msg("redis no disponible, dashboard sin caché")
		} else {
			defer rdb.Close()
			summaryCache = cache.NewDashboardCache(rdb, cfg.Dashboard.CacheTTL())
		}
	}

	zl := log.Zerolog()
	registerMovementUC := inventory.NewRegisterMovementUseCase(txRunner, recorder, zl)
	kardexUC := inventory.NewKardexUseCase(txRunner, componentRepo, movementRepo)
	componentQueriesUC := inventory.NewComponentQueryUseCase(componentRepo, alertRepo)
	replenishmentUC := inventory.NewReplenishmentUseCase(componentRepo)
	dashboardUC := appanalytics.NewDashboardUseCase(dashboardRepo, alertRepo, movementRepo, summaryCache, zl)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(zl))

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat("./docs/swagger.json"); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: "./docs/swagger.json",
			Path:     "docs",
			Title:    "Mantenimiento API - Inventario",
		}))
	}

	deps := httpRouter.RouterDeps{
		RegisterMovement: registerMovementUC,
		Kardex:           kardexUC,
		ComponentQueries: componentQueriesUC,
		Replenishment:    replenishmentUC,
		Dashboard:        dashboardUC,
		JWTSecret:        cfg.JWT.Secret,
	}
	if ledgerMetrics != nil {
		deps.MetricsHandler = ledgerMetrics.Handler()
	}
	httpRouter.Router(app, deps)

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
