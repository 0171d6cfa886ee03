// Package cache contiene el caché Redis del resumen del tablero.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/mantenimiento-api/internal/application/analytics"
	"github.com/jhoicas/mantenimiento-api/internal/application/dto"
)

const dashboardSummaryKey = "mantenimiento:dashboard:summary"

var _ analytics.SummaryCache = (*DashboardCache)(nil)

// NewRedis crea el cliente go-redis y valida la conexión.
func NewRedis(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return rdb, nil
}

// DashboardCache guarda el DashboardSummaryDTO serializado en JSON con TTL.
type DashboardCache struct {
	rdb redis.Cmdable
	ttl time.Duration
}

// NewDashboardCache construye el caché. ttl <= 0 usa 30 segundos.
func NewDashboardCache(rdb redis.Cmdable, ttl time.Duration) *DashboardCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &DashboardCache{rdb: rdb, ttl: ttl}
}

// Get devuelve el resumen guardado; ok=false si no hay entrada.
func (c *DashboardCache) Get(ctx context.Context) (*dto.DashboardSummaryDTO, bool, error) {
	raw, err := c.rdb.Get(ctx, dashboardSummaryKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("redis get: %w", err)
	}
	var summary dto.DashboardSummaryDTO
	if err := json.Unmarshal(raw, &summary); err != nil {
		return nil, false, fmt.Errorf("decode dashboard summary: %w", err)
	}
	return &summary, true, nil
}

// Set guarda el resumen con el TTL configurado.
func (c *DashboardCache) Set(ctx context.Context, summary *dto.DashboardSummaryDTO) error {
	raw, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("encode dashboard summary: %w", err)
	}
	if err := c.rdb.Set(ctx, dashboardSummaryKey, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}
