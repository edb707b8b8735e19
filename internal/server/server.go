package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"catalog-api/internal/config"
	"catalog-api/internal/database"
	"catalog-api/internal/dto"
	custommiddleware "catalog-api/internal/middleware"
	"catalog-api/internal/repository"
	"catalog-api/internal/service"
	"catalog-api/internal/transport"

	_ "catalog-api/docs"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	db     *database.DB
	redis  *redis.Client
}

// Deps are the collaborators the router is built from
type Deps struct {
	Config *config.Config
	Logger *zap.Logger
	DB     *database.DB
	Store  service.Store
	// Limiter backs rate limiting; nil disables it
	Limiter redis.Cmdable
}

// NewRouter wires middleware, handlers and the auxiliary endpoints
func NewRouter(deps Deps) http.Handler {
	return otelhttp.NewHandler(newMux(deps), "http.server",
		otelhttp.WithFilter(func(r *http.Request) bool { return r.URL.Path != "/health" }),
	)
}

func newMux(deps Deps) *chi.Mux {
	cfg := deps.Config
	logger := deps.Logger

	router := chi.NewRouter()

	for _, mw := range custommiddleware.DefaultMiddlewareStack() {
		router.Use(mw)
	}
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.CORSMiddleware(cfg.CORS.AllowedOrigins, cfg.Server.IsDevelopment()))
	router.Use(routeSpanName)

	if deps.Limiter != nil {
		router.Use(custommiddleware.RateLimitMiddleware(deps.Limiter, custommiddleware.RateLimitConfig{
			RequestsPerWindow: cfg.RateLimit.Requests,
			Window:            cfg.RateLimit.Window,
			KeyPrefix:         "catalog:ratelimit",
		}, logger))
	}

	router.Get("/health", healthHandler(deps.DB))

	if cfg.Swagger.Enabled {
		router.Get("/swagger/*", httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
		))
	}

	paging := dto.Paging{DefaultSize: cfg.Paging.DefaultSize, MaxSize: cfg.Paging.MaxSize}
	opts := service.Options{JoinFetch: cfg.Items.JoinFetchEnabled}
	validator := service.NewValidator()

	categoryService := service.NewCategoryService(deps.Store, validator, opts, logger)
	itemService := service.NewItemService(deps.Store, validator, opts, logger)

	transport.NewCategoryHandler(categoryService, paging, logger).RegisterRoutes(router)
	transport.NewItemHandler(itemService, paging, logger).RegisterRoutes(router)

	return router
}

// routeSpanName renames the request span after the matched route pattern once routing is done
func routeSpanName(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r)

		rctx := chi.RouteContext(r.Context())
		if rctx == nil {
			return
		}
		if pattern := rctx.RoutePattern(); pattern != "" {
			trace.SpanFromContext(r.Context()).SetName(r.Method + " " + pattern)
		}
	})
}

func healthHandler(db *database.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		health := db.Health(r.Context())

		status := http.StatusOK
		overall := "ok"
		if health["status"] != "up" {
			status = http.StatusServiceUnavailable
			overall = "unavailable"
		}

		custommiddleware.RespondWithJSON(w, status, map[string]interface{}{
			"status":   overall,
			"database": health,
		})
	}
}

func NewServer(cfg *config.Config, logger *zap.Logger, db *database.DB) (*Server, error) {
	s := &Server{
		config: cfg,
		logger: logger,
		db:     db,
	}

	deps := Deps{
		Config: cfg,
		Logger: logger,
		DB:     db,
		Store:  repository.NewStore(db),
	}

	if cfg.RateLimit.Enabled {
		s.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.redis.Ping(ctx).Err(); err != nil {
			_ = s.redis.Close()
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		deps.Limiter = s.redis
	}

	s.Server = &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      NewRouter(deps),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return s, nil
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Error("Failed to close redis client", zap.Error(err))
		}
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
		}
	}

	_ = s.logger.Sync()
	return nil
}
