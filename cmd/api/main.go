// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"

	"github.com/librisys/backend/internal/admin"
	"github.com/librisys/backend/internal/auth"
	"github.com/librisys/backend/internal/borrow"
	"github.com/librisys/backend/internal/catalog"
	"github.com/librisys/backend/internal/config"
	"github.com/librisys/backend/internal/core"
	"github.com/librisys/backend/internal/health"
	"github.com/librisys/backend/internal/middleware"
	"github.com/librisys/backend/internal/server"
	"github.com/librisys/backend/internal/user"
)

const (
	drainDelay = 5 * time.Second
)

func main() {
	configPath := flag.String("config", "", "path to an optional YAML config file")
	genKeys := flag.Bool("genkeys", false, "write a new ES256 key pair to the configured paths and exit")
	flag.Parse()

	if err := run(*configPath, *genKeys); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

//nolint:funlen // bootstrap code is inherently verbose
func run(configPath string, genKeys bool) error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Log)
	slog.SetDefault(logger)

	if genKeys {
		if err := auth.GenerateKeyPair(
			cfg.JWT.PrivateKeyPath,
			cfg.JWT.PublicKeyPath,
		); err != nil {
			return err
		}
		logger.Info("key pair written",
			"private_key", cfg.JWT.PrivateKeyPath,
			"public_key", cfg.JWT.PublicKeyPath,
		)
		return nil
	}

	logger.Info("starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	core.SetExposeStoreErrors(!cfg.IsProduction())

	var telemetry *core.Telemetry
	tracer := otel.Tracer(cfg.Otel.ServiceName)
	tel, telErr := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
	if telErr != nil {
		logger.Warn("failed to initialize telemetry", "error", telErr)
	} else {
		telemetry = tel
		tracer = tel.Tracer
		if cfg.Otel.Enabled {
			logger.Info("OpenTelemetry tracer initialized",
				"endpoint", cfg.Otel.Endpoint,
			)
		}
	}

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	logger.Info("database connected",
		"driver", cfg.Database.Driver,
		"max_open_conns", cfg.Database.MaxOpenConns,
		"max_idle_conns", cfg.Database.MaxIdleConns,
	)

	if cfg.Database.AutoMigrate {
		if err := db.Migrate(logger); err != nil {
			return err
		}
	}

	redis, err := core.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	if redis != nil {
		logger.Info("redis connected", "pool_size", cfg.Redis.PoolSize)
	} else {
		logger.Info("redis not configured, using in-process rate limiting")
	}

	jwtManager, err := auth.NewJWTManager(cfg.JWT)
	if err != nil {
		return err
	}
	logger.Info("JWT manager initialized",
		"algorithm", "ES256",
		"key_id", jwtManager.GetKeyID(),
	)

	userRepo := user.NewRepository(db.DB)
	userSvc := user.NewService(userRepo)

	authSvc := auth.NewService(jwtManager, userSvc)
	authHandler := auth.NewHandler(authSvc)

	bookRepo := catalog.NewRepository(db.DB)
	bookSvc := catalog.NewService(bookRepo)
	bookHandler := catalog.NewHandler(bookSvc)

	borrowSvc := borrow.NewService(db.DB, db,
		func(q core.DBTX) borrow.BookAvailability {
			return catalog.NewRepository(q)
		},
	)
	borrowHandler := borrow.NewHandler(borrowSvc)

	var redisChecker health.Checker
	adminCfg := admin.HandlerConfig{
		Stats:   admin.NewStatsService(bookSvc, userSvc, borrowSvc),
		DBStats: db.Stats,
		DBPing:  db.Ping,
	}
	if redis != nil {
		redisChecker = redis
		adminCfg.RedisStats = redis.PoolStats
		adminCfg.RedisPing = redis.Ping
	}

	healthHandler := health.NewHandler(db, redisChecker)
	adminHandler := admin.NewHandler(adminCfg)

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	router := srv.Router()

	router.Use(middleware.RequestID)
	router.Use(middleware.Tracing(tracer))
	router.Use(middleware.Logger(logger))
	if cfg.RateLimit.Enabled {
		router.Use(
			middleware.NewRateLimiter(redis.ClientOrNil(), middleware.RateLimitConfig{
				Limit: middleware.PerWindow(
					cfg.RateLimit.Requests,
					cfg.RateLimit.Burst,
					cfg.RateLimit.Window,
				),
				FailOpen:   true,
				BypassFunc: isProbe,
			}).Handler,
		)
	}
	router.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	router.Use(middleware.CORS(cfg.CORS))

	healthHandler.RegisterRoutes(router)

	router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		core.Message(w, cfg.App.Name+" is running...")
	})
	router.Get("/.well-known/jwks.json", jwtManager.GetJWKSHandler())

	authenticator := middleware.Authenticator(jwtManager, userSvc)
	studentOnly := middleware.RequireRole(string(user.RoleStudent))
	staffOnly := middleware.RequireRole(
		string(user.RoleLibrarian),
		string(user.RoleAdmin),
	)
	adminOnly := middleware.RequireRole(string(user.RoleAdmin))

	router.Route("/api", func(r chi.Router) {
		authHandler.RegisterRoutes(r, authenticator)
		bookHandler.RegisterRoutes(r, authenticator, staffOnly)
		borrowHandler.RegisterRoutes(r, authenticator, studentOnly, staffOnly)
		adminHandler.RegisterRoutes(r, authenticator, adminOnly)
	})

	healthHandler.SetReady(true)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.Server.ShutdownTimeout+drainDelay+5*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx, drainDelay); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown error", "error", err)
		}
	}

	if err := redis.Close(); err != nil {
		logger.Error("redis close error", "error", err)
	}

	if err := db.Close(); err != nil {
		logger.Error("database close error", "error", err)
	}

	logger.Info("application stopped")
	return nil
}

func isProbe(r *http.Request) bool {
	switch r.URL.Path {
	case "/healthz", "/livez", "/readyz":
		return true
	}
	return false
}

func setupLogger(cfg config.LogConfig) *slog.Logger {
	var handler slog.Handler

	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
