package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/memorycare/memorycare/internal/config"
	"github.com/memorycare/memorycare/internal/domain/behavior"
	"github.com/memorycare/memorycare/internal/domain/contact"
	"github.com/memorycare/memorycare/internal/domain/identity"
	"github.com/memorycare/memorycare/internal/domain/journal"
	"github.com/memorycare/memorycare/internal/domain/medication"
	"github.com/memorycare/memorycare/internal/domain/routine"
	"github.com/memorycare/memorycare/internal/platform/auth"
	"github.com/memorycare/memorycare/internal/platform/db"
	"github.com/memorycare/memorycare/internal/platform/errs"
	"github.com/memorycare/memorycare/internal/platform/middleware"
	"github.com/memorycare/memorycare/internal/platform/objectstore"
	"github.com/memorycare/memorycare/internal/platform/sandbox"
)

const version = "0.1.0"

func newLogger(cfg *config.Config) zerolog.Logger {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if cfg.IsDev() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || cfg.LogLevel == "" {
		level = zerolog.InfoLevel
	}
	return logger.Level(level)
}

// app holds the storage handles and services shared by serve and seed.
type app struct {
	cfg      *config.Config
	logger   zerolog.Logger
	pool     *pgxpool.Pool
	redis    *redis.Client
	sessions *auth.SessionManager
	objects  *objectstore.Service

	identity   *identity.Service
	journal    *journal.Service
	routine    *routine.Service
	medication *medication.Service
	behavior   *behavior.Service
	contacts   *contact.Service
}

func newApp(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*app, error) {
	a := &app{cfg: cfg, logger: logger}

	objects, err := newObjectStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	a.objects = objects

	switch cfg.StorageDriver {
	case config.StoragePostgres:
		pool, err := db.NewPool(ctx, cfg.Pool())
		if err != nil {
			return nil, err
		}
		a.pool = pool
		logger.Info().Msg("connected to database")

		a.identity = identity.NewService(identity.NewUserRepoPG(pool), identity.NewCaregiverLinkRepoPG(pool))
		a.journal = journal.NewService(journal.NewMemoryRepoPG(pool), journal.NewFamiliarFaceRepoPG(pool), objects)
		a.routine = routine.NewService(routine.NewTaskRepoPG(pool))
		a.medication = medication.NewService(medication.NewMedicationRepoPG(pool), medication.NewLogRepoPG(pool))
		a.behavior = behavior.NewService(behavior.NewLogRepoPG(pool))
		a.contacts = contact.NewService(contact.NewRepoPG(pool), objects)
	default:
		logger.Warn().Msg("using in-memory storage; data is lost on restart")

		users := identity.NewUserRepoMem()
		a.identity = identity.NewService(users, identity.NewCaregiverLinkRepoMem(users))
		a.journal = journal.NewService(journal.NewMemoryRepoMem(), journal.NewFamiliarFaceRepoMem(), objects)
		a.routine = routine.NewService(routine.NewTaskRepoMem())
		a.medication = medication.NewService(medication.NewMedicationRepoMem(), medication.NewLogRepoMem())
		a.behavior = behavior.NewService(behavior.NewLogRepoMem())
		a.contacts = contact.NewService(contact.NewRepoMem(), objects)
	}

	var revoked auth.RevocationStore
	if cfg.RedisURL != "" {
		client, err := auth.NewRedisClient(cfg.RedisURL)
		if err != nil {
			a.Close()
			return nil, err
		}
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			client.Close()
			a.Close()
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		a.redis = client
		revoked = auth.NewRedisRevocationStore(client)
		logger.Info().Msg("session revocation backed by redis")
	}

	a.sessions = auth.NewSessionManager(auth.SessionConfig{
		Secret:       []byte(cfg.SessionSecret),
		TTL:          cfg.SessionTTL,
		CookieSecure: cfg.CookieSecure,
	}, revoked)

	return a, nil
}

func newObjectStore(ctx context.Context, cfg *config.Config) (*objectstore.Service, error) {
	var backend objectstore.Backend
	switch cfg.ObjectStore {
	case config.ObjectStoreS3:
		s3Backend, err := objectstore.NewS3Backend(ctx, objectstore.S3Config{
			Bucket:   cfg.S3Bucket,
			Region:   cfg.S3Region,
			Endpoint: cfg.S3Endpoint,
		})
		if err != nil {
			return nil, err
		}
		backend = s3Backend
	default:
		baseURL := cfg.PublicBaseURL
		if baseURL == "" {
			baseURL = "http://localhost:" + cfg.Port
		}
		backend = objectstore.NewMemoryBackend([]byte(cfg.SessionSecret), baseURL)
	}
	return objectstore.NewService(backend, cfg.UploadURLTTL), nil
}

func (a *app) services() sandbox.Services {
	return sandbox.Services{
		Identity:    a.identity,
		Journal:     a.journal,
		Routine:     a.routine,
		Medications: a.medication,
		Contacts:    a.contacts,
	}
}

func (a *app) Close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warn().Err(err).Msg("closing redis client")
		}
	}
	if a.pool != nil {
		a.pool.Close()
	}
}

// newServer builds the echo instance with every route mounted.
func (a *app) newServer() *echo.Echo {
	cfg, logger := a.cfg, a.logger

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = errs.HTTPErrorHandler(logger)

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.SecurityHeaders())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
	}))
	e.Use(middleware.BodyLimit(cfg.BodyLimit))
	e.Use(middleware.RequestTimeout(cfg.RequestTimeout))

	rateLimitCfg := middleware.DefaultRateLimitConfig()
	if cfg.RateLimitRPS > 0 {
		rateLimitCfg.RequestsPerSecond = cfg.RateLimitRPS
		rateLimitCfg.BurstSize = cfg.RateLimitBurst
	}
	rateLimit := middleware.RateLimit(rateLimitCfg)
	requireSession := auth.RequireSession(a.sessions)

	public := e.Group("/api", rateLimit)
	api := e.Group("/api", rateLimit, requireSession, middleware.Audit(logger))
	objects := e.Group("/objects", requireSession, middleware.Audit(logger))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": version,
		})
	})
	if a.pool != nil {
		e.GET("/health/db", db.HealthHandler(a.pool))
	}

	identityHandler := identity.NewHandler(a.identity, a.sessions, logger)
	identityHandler.RegisterPublicRoutes(public)
	identityHandler.RegisterRoutes(api)

	journal.NewHandler(a.journal).RegisterRoutes(api)
	routine.NewHandler(a.routine).RegisterRoutes(api)
	medication.NewHandler(a.medication).RegisterRoutes(api)
	behavior.NewHandler(a.behavior).RegisterRoutes(api)
	contact.NewHandler(a.contacts).RegisterRoutes(api)

	objectHandler := objectstore.NewHandler(a.objects, logger)
	objectHandler.RegisterRoutes(api, objects)
	objectHandler.RegisterUploadTarget(e, middleware.ObjectBodyLimit(objectstore.MaxObjectSize))

	return e
}

func runServer() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := newLogger(cfg)
	if err := cfg.Validate(); err != nil {
		logger.Error().Err(err).Msg("invalid configuration")
		return err
	}

	ctx := context.Background()
	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		logger.Error().Err(err).Msg("failed to initialise storage")
		return err
	}
	defer a.Close()

	if cfg.SeedDemoData {
		if _, err := sandbox.NewSeeder(a.services(), logger).Seed(ctx); err != nil {
			return fmt.Errorf("seed demo data: %w", err)
		}
	}

	e := a.newServer()

	// Graceful shutdown
	serverErr := make(chan error, 1)
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Str("storage", cfg.StorageDriver).Str("objects", cfg.ObjectStore).Msg("starting server")
		var err error
		if cfg.TLSEnabled {
			err = e.StartTLS(addr, cfg.TLSCertFile, cfg.TLSKeyFile)
		} else {
			err = e.Start(addr)
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err, ok := <-serverErr:
		if ok {
			logger.Error().Err(err).Msg("server error")
			return err
		}
	}

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	logger.Info().Msg("server stopped")
	return nil
}
