package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/stemsi/mockview-backend/internal/config"
	"github.com/stemsi/mockview-backend/internal/database"
	"github.com/stemsi/mockview-backend/internal/evaluator"
	"github.com/stemsi/mockview-backend/internal/handler"
	"github.com/stemsi/mockview-backend/internal/logger"
	"github.com/stemsi/mockview-backend/internal/metrics"
	"github.com/stemsi/mockview-backend/internal/middleware"
	"github.com/stemsi/mockview-backend/internal/repository"
	"github.com/stemsi/mockview-backend/internal/router"
	"github.com/stemsi/mockview-backend/internal/service"
	"github.com/stemsi/mockview-backend/internal/validator"
)

// evaluationLockMargin keeps the per-question lock alive a little past the
// evaluator timeout so a slow fallback still runs under it.
const evaluationLockMargin = 5 * time.Second

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Bool("external_evaluator", cfg.EvaluatorEnabled()).
		Msg("Starting Mockview Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Metrics ───────────────────────────────────────────────────────
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	// ─── Initialize Repositories ───────────────────────────────────────
	catalog, err := repository.DefaultCatalog()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load question catalog")
	}
	questionRepo := repository.NewQuestionRepository(catalog)
	userRepo := repository.NewUserRepository()
	log.Info().Int("questions", len(catalog)).Msg("Question catalog loaded")

	// ─── Initialize Services ──────────────────────────────────────────
	authService := service.NewAuthService(cfg)
	userService := service.NewUserService(userRepo, authService)
	questionService := service.NewQuestionService(questionRepo, cfg.DefaultQuestionCount)
	eventBus := service.NewRedisEventBus(rdb, log)

	var primary evaluator.Evaluator
	if cfg.EvaluatorEnabled() {
		primary = evaluator.NewRemote(cfg.EvaluatorURL, cfg.EvaluatorAPIKey, cfg.EvaluatorTimeout)
	}

	interviewService := service.NewInterviewService(questionService, service.ControllerDeps{
		Evaluator: evaluator.WithFallback(primary, m, log),
		Guard:     evaluator.NewRedisGuard(rdb, cfg.EvaluatorTimeout+evaluationLockMargin),
		History:   userService,
		Events:    eventBus,
		Metrics:   m,
		Log:       log,
	})

	submitLimiter := middleware.NewRateLimiter(cfg.SubmitRatePerMinute, time.Minute, middleware.ByUser)
	defer submitLimiter.Close()

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:      handler.NewAuthHandler(userService),
		Catalog:   handler.NewCatalogHandler(questionService),
		Interview: handler.NewInterviewHandler(interviewService, log),
		Events:    handler.NewEventHandler(eventBus, log),
		WS:        handler.NewWSHandler(interviewService, log, cfg.AllowedOrigins, submitLimiter),
		System:    handler.NewSystemHandler(rdb, log),
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(router.Deps{
		AuthService:   authService,
		Metrics:       m,
		SubmitLimiter: submitLimiter,
		Log:           log,
	}, handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// Stop accepting new HTTP requests. In-flight evaluations get the
	// evaluator timeout to finish.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.EvaluatorTimeout+evaluationLockMargin)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
