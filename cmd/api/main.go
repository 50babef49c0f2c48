// Package main is the entrypoint for the Bloghub API server.
package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/bloghub/bloghub/internal/auth"
	"github.com/bloghub/bloghub/internal/cache"
	"github.com/bloghub/bloghub/internal/config"
	"github.com/bloghub/bloghub/internal/handler"
	"github.com/bloghub/bloghub/internal/middleware"
	"github.com/bloghub/bloghub/internal/repository"
	"github.com/bloghub/bloghub/internal/server"
	"github.com/bloghub/bloghub/internal/service"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := initLogger(cfg)

	repo, err := repository.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error(
			"failed to connect to database",
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			slog.String("database_url", redactURL(cfg.DatabaseURL)),
		)
		os.Exit(1)
	}
	defer repo.Close()
	logger.Info("connected to database")

	cacheClient, err := cache.New(ctx, cfg.RedisURL)
	if err != nil {
		logger.Error(
			"failed to connect to Redis",
			slog.String("error", sanitizeError(err, cfg.RedisURL)),
			slog.String("redis_url", redactURL(cfg.RedisURL)),
		)
		os.Exit(1)
	}
	defer cacheClient.Close()
	logger.Info("connected to Redis")

	// Services
	tokens := auth.NewTokenManager(cfg.TokenSecret, cfg.TokenTTL)
	blogService := service.NewBlogService(repo, repo, logger)
	userService := service.NewUserService(repo, logger)
	loginService := service.NewLoginService(repo, tokens, logger)

	// Handlers
	h := handler.New()
	healthHandler := handler.NewHealthHandler(repo, cacheClient)
	blogHandler := handler.NewBlogHandler(blogService, logger)
	userHandler := handler.NewUserHandler(userService, logger)
	loginHandler := handler.NewLoginHandler(loginService, logger)
	statsHandler := handler.NewStatsHandler(blogService, logger)
	adminHandler := handler.NewAdminHandler(blogService, logger)

	r := setupRouter(routerDeps{
		base:   h,
		health: healthHandler,
		blogs:  blogHandler,
		users:  userHandler,
		login:  loginHandler,
		stats:  statsHandler,
		admin:  adminHandler,
		repo:   repo,
		cache:  cacheClient,
		tokens: tokens,
		cfg:    cfg,
		logger: logger,
	})

	srv := server.New(
		r,
		cfg.AppPort,
		cfg.ReadTimeout,
		cfg.WriteTimeout,
		cfg.ShutdownTimeout,
		logger,
	)

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
	)

	if err := srv.Run(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type routerDeps struct {
	base   *handler.Handler
	health *handler.HealthHandler
	blogs  *handler.BlogHandler
	users  *handler.UserHandler
	login  *handler.LoginHandler
	stats  *handler.StatsHandler
	admin  *handler.AdminHandler
	repo   *repository.Repository
	cache  *cache.Cache
	tokens *auth.TokenManager
	cfg    *config.Config
	logger *slog.Logger
}

// setupRouter configures the chi router with all routes and middleware.
func setupRouter(deps routerDeps) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(deps.logger))
	r.Use(middleware.Recoverer(deps.logger))
	r.Use(middleware.Security(middleware.SecurityConfig{
		IsDevelopment: deps.cfg.IsDevelopment(),
	}))
	r.Use(middleware.MaxBodySize(deps.cfg.MaxRequestBodySize))

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = deps.cfg.GetCORSAllowedOrigins()
	r.Use(middleware.CORS(corsCfg))

	// Health endpoints
	r.Get("/healthz", deps.health.Healthz)
	r.Get("/readyz", deps.health.Readyz)

	// Root info endpoint
	r.Get("/", deps.base.Hello)

	authn := middleware.Auth(middleware.AuthConfig{
		Logger: deps.logger,
		Tokens: deps.tokens,
		Users:  deps.repo,
		Cache:  deps.cache,
	})

	// Blog routes. Reads, updates, and comments are open; creating
	// requires a resolved identity and deleting is owner-only.
	r.Route("/api/blogs", func(r chi.Router) {
		r.Get("/", deps.blogs.List)
		r.Get("/{id}", deps.blogs.Get)
		r.With(authn).Post("/", deps.blogs.Create)
		r.Put("/{id}", deps.blogs.Update)
		r.Post("/{id}/comments", deps.blogs.AddComment)
		r.With(authn).Delete("/{id}", deps.blogs.Delete)
	})

	// User routes
	r.Route("/api/users", func(r chi.Router) {
		r.Get("/", deps.users.List)
		r.Post("/", deps.users.Create)
	})

	// Login
	r.Post("/api/login", deps.login.Login)

	// Aggregate statistics
	r.Get("/api/stats", deps.stats.Get)

	// Maintenance
	r.With(authn).Post("/api/admin/reconcile", deps.admin.Reconcile)

	// 404 and 405 handlers
	r.NotFound(deps.base.NotFound)
	r.MethodNotAllowed(deps.base.MethodNotAllowed)

	return r
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s]+`)

func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
