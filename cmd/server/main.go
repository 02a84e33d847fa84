package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/chefchat/chefchat/internal/config"
	"github.com/chefchat/chefchat/internal/conversation"
	"github.com/chefchat/chefchat/internal/handlers"
	"github.com/chefchat/chefchat/internal/logger"
	"github.com/chefchat/chefchat/internal/middleware"
	"github.com/chefchat/chefchat/internal/preferences"
	"github.com/chefchat/chefchat/internal/recipes"
	"github.com/chefchat/chefchat/internal/services/ai"
	"github.com/chefchat/chefchat/internal/shopping"
	"github.com/chefchat/chefchat/internal/store"
	"github.com/chefchat/chefchat/internal/telemetry"
	"github.com/chefchat/chefchat/internal/weekplan"
	"github.com/gorilla/mux"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.uber.org/zap"
)

func main() {
	debugFlag := flag.Bool("debug", false, "Enable debug mode for LLM API logging")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	debugMode := cfg.ServerDebugMode || *debugFlag

	zapLogger, err := logger.NewProductionLogger(debugMode)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() {
		if syncErr := zapLogger.Sync(); syncErr != nil {
			_ = syncErr
		}
	}()

	zapLogger.Info("starting_server",
		zap.Bool("debug_mode", debugMode),
		zap.String("server_port", cfg.ServerPort),
		zap.String("frontend_url", cfg.FrontendURL),
		zap.String("store_backend", cfg.StoreBackend),
		zap.String("ai_model", cfg.AIModel),
		zap.Bool("otel_enabled", cfg.OTELEnabled),
	)

	// Initialize OpenTelemetry if enabled
	var tracerProvider interface{ Shutdown(context.Context) error }
	if cfg.OTELEnabled {
		if cfg.OTELEndpoint == "" {
			zapLogger.Warn("otel_enabled_but_endpoint_not_configured")
		} else {
			tp, err := telemetry.InitTracer(context.Background(), "chefchat-api", cfg.OTELEndpoint)
			if err != nil {
				zapLogger.Warn("failed_to_initialize_otel_tracer", zap.Error(err))
			} else {
				tracerProvider = tp
				zapLogger.Info("otel_tracer_initialized",
					zap.String("endpoint", cfg.OTELEndpoint),
				)
				defer func() {
					shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer shutdownCancel()
					if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
						zapLogger.Error("failed_to_shutdown_otel_tracer", zap.Error(err))
					}
				}()
			}
		}
	}

	// Connect the blob store
	kv, err := openStore(cfg)
	if err != nil {
		zapLogger.Fatal("failed_to_open_store", zap.Error(err))
	}
	defer func() {
		if err := kv.Close(); err != nil {
			zapLogger.Warn("failed_to_close_store", zap.Error(err))
		}
	}()
	zapLogger.Info("connected_to_store", zap.String("backend", cfg.StoreBackend))

	// Initialize repositories
	prefsRepo := preferences.NewRepository(kv, zapLogger)
	shoppingRepo := shopping.NewRepository(kv, zapLogger, shopping.StrategyFromConfig(cfg.MergeStrategy))
	planRepo := weekplan.NewRepository(kv, zapLogger)
	recipeRepo := recipes.NewRepository(kv, planRepo, zapLogger)

	// Initialize the AI provider and the chat service on top of it
	aiProvider := ai.NewOpenAIProviderWithLogger(
		cfg.OpenAIKey,
		cfg.AIBaseURL,
		cfg.AIModel,
		time.Duration(cfg.AITimeoutSecs)*time.Second,
		zapLogger,
		debugMode,
	)
	chatService := conversation.NewService(
		aiProvider,
		prefsRepo,
		shoppingRepo,
		planRepo,
		recipeRepo,
		zapLogger,
		time.Duration(cfg.AITimeoutSecs)*time.Second,
	)

	healthChecker := handlers.NewHealthChecker(kv)

	// Setup router
	r := mux.NewRouter()

	zapLogger.Info("setting_up_middleware")

	if cfg.OTELEnabled && tracerProvider != nil {
		r.Use(otelmux.Middleware("chefchat-api"))
		zapLogger.Info("otel_middleware_enabled")
	}
	r.Use(middleware.SecurityHeaders(cfg.EnableHSTS))
	r.Use(middleware.CORS([]string{cfg.FrontendURL}))
	r.Use(middleware.MaxRequestSize(middleware.DefaultMaxRequestSize))
	r.Use(middleware.ContentType)
	r.Use(middleware.Timeout(middleware.DefaultRequestTimeout))
	r.Use(middleware.ErrorHandler(zapLogger))
	r.Use(middleware.Logging(zapLogger))

	rateLimitMW, err := buildRateLimit(cfg, kv)
	if err != nil {
		zapLogger.Fatal("failed_to_build_rate_limiter", zap.Error(err))
	}

	// Public routes (no rate limiting for health checks)
	r.HandleFunc("/health", healthChecker.HealthCheck).Methods("GET")

	// OpenAPI spec (public)
	openAPIPath := filepath.Join("api", "openapi.yaml")
	openAPIHandler := handlers.NewOpenAPIHandler(openAPIPath)
	openAPIHandler.RegisterRoutes(r)

	// API v1 routes
	apiRouter := r.PathPrefix("/api/v1").Subrouter()
	apiRouter.Use(rateLimitMW)

	chatRouter := apiRouter.PathPrefix("/chat").Subrouter()
	handlers.NewChatHandler(chatService).RegisterRoutes(chatRouter)

	shoppingRouter := apiRouter.PathPrefix("/shopping-lists").Subrouter()
	handlers.NewShoppingHandler(shoppingRepo).RegisterRoutes(shoppingRouter)

	planRouter := apiRouter.PathPrefix("/week-plans").Subrouter()
	handlers.NewWeekPlanHandler(planRepo).RegisterRoutes(planRouter)

	prefsRouter := apiRouter.PathPrefix("/preferences").Subrouter()
	handlers.NewPreferencesHandler(prefsRepo).RegisterRoutes(prefsRouter)

	recipesRouter := apiRouter.PathPrefix("/recipes").Subrouter()
	handlers.NewRecipesHandler(recipeRepo).RegisterRoutes(recipesRouter)

	// Catch-all OPTIONS handler for preflight requests
	r.Methods("OPTIONS").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	srv := &http.Server{
		Addr:           ":" + cfg.ServerPort,
		Handler:        r,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   15 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		zapLogger.Info("server_starting",
			zap.String("port", cfg.ServerPort),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("server_failed_to_start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("server_shutting_down")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Fatal("server_forced_to_shutdown", zap.Error(err))
	}

	zapLogger.Info("server_exited")
}

// openStore builds the configured blob store backend.
func openStore(cfg *config.Config) (store.Store, error) {
	switch cfg.StoreBackend {
	case config.StoreBackendPostgres:
		return store.NewPostgresStore(cfg.DatabaseURL)
	case config.StoreBackendMemory:
		return store.NewMemoryStore(), nil
	default:
		return store.NewRedisStore(cfg.RedisURL)
	}
}

// buildRateLimit uses the Redis-backed limiter when the store runs on Redis,
// sharing its connection, and falls back to an in-process limiter otherwise.
func buildRateLimit(cfg *config.Config, kv store.Store) (func(http.Handler) http.Handler, error) {
	if rs, ok := kv.(*store.RedisStore); ok {
		return middleware.RateLimit(rs.Client(), cfg.RateLimit)
	}
	return middleware.MemoryRateLimit(cfg.RateLimit)
}
