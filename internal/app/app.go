package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/redis/go-redis/v9"

	"gate-tutor-backend/internal/config"
	"gate-tutor-backend/internal/database"
	"gate-tutor-backend/internal/handlers"
	"gate-tutor-backend/internal/logger"
	"gate-tutor-backend/internal/repository"
	"gate-tutor-backend/internal/router"
	"gate-tutor-backend/internal/services"
	"gate-tutor-backend/web"
)

// App owns every long-lived handle the request handlers need. It is built
// once at startup and closed on shutdown.
type App struct {
	Config *config.Config
	Log    *logger.Logger

	Store  repository.StudyPlanStore
	Tutor  *services.TutorService
	Plans  *services.StudyPlanService
	gemini *services.GeminiClient
	redis  *redis.Client

	handler         http.Handler
	shutdownTimeout time.Duration
}

type options struct {
	store     repository.StudyPlanStore
	generator services.ContentGenerator
}

type Option func(*options)

// WithStudyPlanStore skips store construction from config.
func WithStudyPlanStore(s repository.StudyPlanStore) Option {
	return func(o *options) { o.store = s }
}

// WithContentGenerator skips Gemini client construction.
func WithContentGenerator(g services.ContentGenerator) Option {
	return func(o *options) { o.generator = g }
}

// New wires the application. Missing or unreachable backends are logged and
// replaced by stand-ins that fail per request, so New only errors on
// programming mistakes.
func New(ctx context.Context, cfg *config.Config, log *logger.Logger, opts ...Option) (*App, error) {
	if cfg == nil || log == nil {
		return nil, fmt.Errorf("app: config and logger are required")
	}
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	a := &App{Config: cfg, Log: log, shutdownTimeout: 30 * time.Second}

	for _, key := range cfg.MissingSettings() {
		log.Error("required setting is not defined", "setting", key)
	}

	// ──── Record Store ────
	store := o.store
	if store == nil {
		store = a.openStore(ctx)
	}
	if cfg.RedisURL != "" && cfg.ScheduleCacheTTL > 0 {
		client, err := database.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Warn("Redis unavailable, schedule cache disabled", "redis_url", cfg.RedisURL, "error", err)
		} else {
			a.redis = client
			store = repository.NewCachedStudyPlanRepo(store, repository.NewRedisListCache(client, cfg.ScheduleCacheTTL), log)
			log.Info("Schedule cache enabled", "ttl", cfg.ScheduleCacheTTL)
		}
	}
	a.Store = store

	// ──── AI Relay ────
	gen := o.generator
	if gen == nil {
		client, err := services.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.GeminiEndpoint)
		if err != nil {
			log.Error("Gemini client unavailable, chat will answer with the fallback", "error", err)
			gen = services.NewUnavailableGenerator(err)
		} else {
			a.gemini = client
			gen = client
			log.Info("Gemini client initialized", "model", cfg.GeminiModel)
		}
	}
	a.Tutor = services.NewTutorService(gen, log.With("component", "tutor"))
	a.Plans = services.NewStudyPlanService(a.Store)

	// ──── HTTP ────
	a.handler = router.New(
		handlers.NewChatHandler(a.Tutor, log),
		handlers.NewScheduleHandler(a.Plans, log),
		web.Handler(),
		cfg.AllowedOrigins,
		log,
	)

	return a, nil
}

func (a *App) Handler() http.Handler {
	return a.handler
}

// Serve accepts connections on ln until ctx is done, then drains in-flight
// requests and closes the app. It returns once everything is released.
func (a *App) Serve(ctx context.Context, ln net.Listener) error {
	server := &http.Server{
		Handler:     a.handler,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.Serve(ln)
	}()

	var result *multierror.Error

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			result = multierror.Append(result, fmt.Errorf("server error: %w", err))
		}
	case <-ctx.Done():
		a.Log.Info("Shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			result = multierror.Append(result, fmt.Errorf("server forced to shutdown: %w", err))
		}
		<-serveErr
	}

	closeCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
	defer cancel()
	if err := a.Close(closeCtx); err != nil {
		result = multierror.Append(result, err)
	}

	return result.ErrorOrNil()
}

func (a *App) openStore(ctx context.Context) repository.StudyPlanStore {
	cfg, log := a.Config, a.Log

	switch cfg.StoreDriver {
	case config.StoreMemory:
		log.Warn("Using in-memory study plan store; records are lost on restart")
		return repository.NewMemoryStudyPlanRepo()

	case config.StorePostgres:
		pool, err := database.NewPostgresPool(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Error("PostgreSQL connection failed", "database_url", cfg.DatabaseURL, "error", err)
			return &repository.UnavailableStudyPlanRepo{Err: err}
		}
		if err := database.RunMigrations(ctx, pool, database.Migrations()); err != nil {
			pool.Close()
			log.Error("Database migration failed", "error", err)
			return &repository.UnavailableStudyPlanRepo{Err: err}
		}
		log.Info("PostgreSQL connected", "database_url", cfg.DatabaseURL)
		return repository.NewPostgresStudyPlanRepo(pool)

	default:
		client, err := database.NewMongoClient(ctx, cfg.MongoURI)
		if err != nil {
			log.Error("MongoDB client could not be created", "error", err)
			logMongoHints(log)
			return &repository.UnavailableStudyPlanRepo{Err: err}
		}
		log.Info("Attempting to connect to MongoDB", "uri", cfg.MongoURI)

		repo := repository.NewMongoStudyPlanRepo(client, cfg.MongoDatabase)
		go func() {
			pingCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := repo.Ping(pingCtx); err != nil {
				log.Error("MongoDB connection error", "error", err)
				logMongoHints(log)
				return
			}
			log.Info("Connected to MongoDB", "database", cfg.MongoDatabase)
		}()
		return repo
	}
}

func logMongoHints(log *logger.Logger) {
	log.Info("MongoDB troubleshooting",
		"check_env", "MONGODB_URI is set in the environment or .env",
		"check_whitespace", "no trailing spaces or stray characters in the URI",
		"check_password", "the <db_password> placeholder and its brackets were replaced",
		"check_scheme", "the URI starts with mongodb:// or mongodb+srv://",
	)
}

// Close releases every handle, collecting all errors.
func (a *App) Close(ctx context.Context) error {
	var result *multierror.Error

	if a.Store != nil {
		if err := a.Store.Close(ctx); err != nil {
			result = multierror.Append(result, fmt.Errorf("closing study plan store: %w", err))
		}
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			result = multierror.Append(result, fmt.Errorf("closing redis: %w", err))
		}
	}
	if a.gemini != nil {
		if err := a.gemini.Close(); err != nil {
			result = multierror.Append(result, fmt.Errorf("closing gemini client: %w", err))
		}
	}

	return result.ErrorOrNil()
}
