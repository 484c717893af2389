// AngelaMos | 2026
// handler.go

package admin

import (
	"context"
	"database/sql"
	"net/http"
	"runtime"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/librisys/backend/internal/core"
)

type Handler struct {
	stats      *StatsService
	dbStats    func() sql.DBStats
	redisStats func() *redis.PoolStats
	redisPing  func(ctx context.Context) error
	dbPing     func(ctx context.Context) error
}

type HandlerConfig struct {
	Stats      *StatsService
	DBStats    func() sql.DBStats
	RedisStats func() *redis.PoolStats
	RedisPing  func(ctx context.Context) error
	DBPing     func(ctx context.Context) error
}

func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{
		stats:      cfg.Stats,
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
	r.Route("/admin", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(adminOnly)

		r.Get("/stats", h.GetLibraryStats)
		r.Get("/system", h.GetSystemStats)
		r.Get("/system/db", h.GetDatabaseStats)
		r.Get("/system/redis", h.GetRedisStats)
		r.Get("/system/runtime", h.GetRuntimeStats)
	})
}

func (h *Handler) GetLibraryStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.stats.Library(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, stats)
}

// GetSystemStats pings the store and redis concurrently. A failed ping is
// reported as unhealthy rather than failing the request.
func (h *Handler) GetSystemStats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), probeTimeout)
	defer cancel()

	var (
		g           errgroup.Group
		dbProbe     probe
		redisStatus *RedisStatus
	)

	g.Go(func() error {
		dbProbe = runProbe(ctx, h.dbPing)
		return nil
	})

	if h.redisPing != nil {
		g.Go(func() error {
			p := runProbe(ctx, h.redisPing)
			redisStatus = &RedisStatus{
				Healthy: p.healthy,
				Latency: p.latency,
				Stats:   h.getRedisStats(),
			}
			return nil
		})
	}

	_ = g.Wait() //nolint:errcheck // probes never return errors

	core.OK(w, SystemStatsResponse{
		Database: DatabaseStatus{
			Healthy: dbProbe.healthy,
			Latency: dbProbe.latency,
			Stats:   h.getDBStats(),
		},
		Redis:   redisStatus,
		Runtime: readRuntimeStats(),
	})
}

const probeTimeout = 3 * time.Second

type probe struct {
	healthy bool
	latency string
}

func runProbe(ctx context.Context, ping func(context.Context) error) probe {
	if ping == nil {
		return probe{healthy: true}
	}

	start := time.Now()
	err := ping(ctx)
	return probe{
		healthy: err == nil,
		latency: time.Since(start).Round(time.Microsecond).String(),
	}
}

func (h *Handler) GetDatabaseStats(w http.ResponseWriter, r *http.Request) {
	core.OK(w, h.getDBStats())
}

func (h *Handler) GetRedisStats(w http.ResponseWriter, r *http.Request) {
	stats := h.getRedisStats()
	if stats == nil {
		core.NotFound(w, "redis")
		return
	}
	core.OK(w, stats)
}

func (h *Handler) GetRuntimeStats(w http.ResponseWriter, r *http.Request) {
	core.OK(w, readRuntimeStats())
}

func readRuntimeStats() RuntimeStats {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	return RuntimeStats{
		GoVersion:    runtime.Version(),
		NumGoroutine: runtime.NumGoroutine(),
		NumCPU:       runtime.NumCPU(),
		MemAlloc:     memStats.Alloc,
		MemSys:       memStats.Sys,
		NumGC:        memStats.NumGC,
	}
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
		MaxIdleClosed:      stats.MaxIdleClosed,
		MaxIdleTimeClosed:  stats.MaxIdleTimeClosed,
		MaxLifetimeClosed:  stats.MaxLifetimeClosed,
	}
}

func (h *Handler) getRedisStats() *RedisPoolStats {
	if h.redisStats == nil {
		return nil
	}

	stats := h.redisStats()
	if stats == nil {
		return nil
	}
	return &RedisPoolStats{
		Hits:       stats.Hits,
		Misses:     stats.Misses,
		Timeouts:   stats.Timeouts,
		TotalConns: stats.TotalConns,
		IdleConns:  stats.IdleConns,
		StaleConns: stats.StaleConns,
	}
}

type SystemStatsResponse struct {
	Database DatabaseStatus `json:"database"`
	Redis    *RedisStatus   `json:"redis,omitempty"`
	Runtime  RuntimeStats   `json:"runtime"`
}

type DatabaseStatus struct {
	Healthy bool         `json:"healthy"`
	Latency string       `json:"latency,omitempty"`
	Stats   *DBPoolStats `json:"stats,omitempty"`
}

type RedisStatus struct {
	Healthy bool            `json:"healthy"`
	Latency string          `json:"latency,omitempty"`
	Stats   *RedisPoolStats `json:"stats,omitempty"`
}

type DBPoolStats struct {
	MaxOpenConnections int    `json:"max_open_connections"`
	OpenConnections    int    `json:"open_connections"`
	InUse              int    `json:"in_use"`
	Idle               int    `json:"idle"`
	WaitCount          int64  `json:"wait_count"`
	WaitDuration       string `json:"wait_duration"`
	MaxIdleClosed      int64  `json:"max_idle_closed"`
	MaxIdleTimeClosed  int64  `json:"max_idle_time_closed"`
	MaxLifetimeClosed  int64  `json:"max_lifetime_closed"`
}

type RedisPoolStats struct {
	Hits       uint32 `json:"hits"`
	Misses     uint32 `json:"misses"`
	Timeouts   uint32 `json:"timeouts"`
	TotalConns uint32 `json:"total_conns"`
	IdleConns  uint32 `json:"idle_conns"`
	StaleConns uint32 `json:"stale_conns"`
}

type RuntimeStats struct {
	GoVersion    string `json:"go_version"`
	NumGoroutine int    `json:"num_goroutine"`
	NumCPU       int    `json:"num_cpu"`
	MemAlloc     uint64 `json:"mem_alloc_bytes"`
	MemSys       uint64 `json:"mem_sys_bytes"`
	NumGC        uint32 `json:"num_gc"`
}
