// AngelaMos | 2026
// handler.go

package admin

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"runtime"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/carterperez-dev/linkbio/internal/core"
)

const resourceName = "stats"

// Counter is satisfied by every repository or service that can size its
// table.
type Counter interface {
	Count(ctx context.Context) (int, error)
}

// LinkTotals reports link count and summed click counters together.
type LinkTotals interface {
	Totals(ctx context.Context) (int, int64, error)
}

type Handler struct {
	users      Counter
	links      LinkTotals
	bioPages   Counter
	events     Counter
	dbStats    func() sql.DBStats
	redisStats func() *redis.PoolStats
	redisPing  func(ctx context.Context) error
	dbPing     func(ctx context.Context) error
}

type HandlerConfig struct {
	Users      Counter
	Links      LinkTotals
	BioPages   Counter
	Events     Counter
	DBStats    func() sql.DBStats
	RedisStats func() *redis.PoolStats
	RedisPing  func(ctx context.Context) error
	DBPing     func(ctx context.Context) error
}

func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{
		users:      cfg.Users,
		links:      cfg.Links,
		bioPages:   cfg.BioPages,
		events:     cfg.Events,
		dbStats:    cfg.DBStats,
		redisStats: cfg.RedisStats,
		redisPing:  cfg.RedisPing,
		dbPing:     cfg.DBPing,
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, adminOnly func(http.Handler) http.Handler,
) {
	r.Route("/admin/stats", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(adminOnly)

		r.Get("/", h.GetPlatformStats)
		r.Get("/system", h.GetSystemStats)
	})
}

func (h *Handler) GetPlatformStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.platformStats(r.Context())
	if err != nil {
		core.Error(w, err, resourceName)
		return
	}

	core.OK(w, stats)
}

func (h *Handler) platformStats(ctx context.Context) (*PlatformStatsResponse, error) {
	users, err := h.users.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}

	links, clicks, err := h.links.Totals(ctx)
	if err != nil {
		return nil, fmt.Errorf("link totals: %w", err)
	}

	pages, err := h.bioPages.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count bio pages: %w", err)
	}

	events, err := h.events.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count events: %w", err)
	}

	return &PlatformStatsResponse{
		TotalUsers:    users,
		TotalLinks:    links,
		TotalClicks:   clicks,
		TotalBioPages: pages,
		TotalEvents:   events,
	}, nil
}

func (h *Handler) GetSystemStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	dbHealthy := true
	if h.dbPing != nil {
		if err := h.dbPing(ctx); err != nil {
			dbHealthy = false
		}
	}

	redisHealthy := true
	if h.redisPing != nil {
		if err := h.redisPing(ctx); err != nil {
			redisHealthy = false
		}
	}

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	core.OK(w, SystemStatsResponse{
		Database: DatabaseStatus{
			Healthy: dbHealthy,
			Stats:   h.getDBStats(),
		},
		Redis: RedisStatus{
			Healthy: redisHealthy,
			Stats:   h.getRedisStats(),
		},
		Runtime: RuntimeStats{
			GoVersion:    runtime.Version(),
			NumGoroutine: runtime.NumGoroutine(),
			NumCPU:       runtime.NumCPU(),
			MemAlloc:     memStats.Alloc,
			MemSys:       memStats.Sys,
			NumGC:        memStats.NumGC,
		},
	})
}

func (h *Handler) getDBStats() *DBPoolStats {
	if h.dbStats == nil {
		return nil
	}

	stats := h.dbStats()
	return &DBPoolStats{
		MaxOpenConnections: stats.MaxOpenConnections,
		OpenConnections:    stats.OpenConnections,
		InUse:              stats.InUse,
		Idle:               stats.Idle,
		WaitCount:          stats.WaitCount,
		WaitDuration:       stats.WaitDuration.String(),
	}
}

func (h *Handler) getRedisStats() *RedisPoolStats {
	if h.redisStats == nil {
		return nil
	}

	stats := h.redisStats()
	return &RedisPoolStats{
		Hits:       stats.Hits,
		Misses:     stats.Misses,
		Timeouts:   stats.Timeouts,
		TotalConns: stats.TotalConns,
		IdleConns:  stats.IdleConns,
	}
}
