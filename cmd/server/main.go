package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/vocabquiz/backend/internal/api"
	"github.com/vocabquiz/backend/internal/auth"
	"github.com/vocabquiz/backend/internal/forwarder"
	"github.com/vocabquiz/backend/internal/infrastructure/config"
	"github.com/vocabquiz/backend/internal/service"
	"github.com/vocabquiz/backend/internal/store"

	_ "github.com/vocabquiz/backend/docs" // swagger docs
)

// @title           Vocab Quiz API
// @version         1.0
// @description     Vocabulary quizzes with a per-student mistake ledger that drives review sessions.

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization

func main() {
	cfg := config.Load()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// ── Dependencies ────────────────────────────────────────────────
	startCtx, cancelStart := context.WithTimeout(context.Background(), 30*time.Second)
	db, err := store.Open(startCtx, store.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		cancelStart()
		logger.Error("failed to open database", "error", err, "driver", cfg.DBDriver)
		os.Exit(1)
	}
	defer db.Close()

	ledgerSvc, err := service.NewLedgerService(startCtx, db, cfg.LedgerNamespace, logger)
	cancelStart()
	if err != nil {
		logger.Error("failed to load ledger", "error", err)
		os.Exit(1)
	}

	var fwd forwarder.Forwarder = forwarder.Noop{}
	if cfg.ForwardURL != "" {
		fwd = forwarder.NewHTTPForwarder(cfg.ForwardURL, cfg.ForwardTimeout, forwarder.WithRetry(3, 500*time.Millisecond))
		logger.Info("result forwarding enabled", "url", cfg.ForwardURL, "workers", cfg.ForwardWorkers)
	}
	forwarding := service.NewForwardingService(fwd, cfg.ForwardWorkers, logger)

	quizSvc := service.NewQuizService(db, ledgerSvc, forwarding, logger)
	dashboardSvc := service.NewDashboardService(db, ledgerSvc)
	authSvc := auth.NewService(cfg.TeacherPasswordHash, cfg.JWTSecret, cfg.JWTTTL)
	if !authSvc.Enabled() {
		logger.Warn("TEACHER_PASSWORD_HASH not set, teacher routes are open")
	}

	handler := api.NewHandler(db, quizSvc, ledgerSvc, dashboardSvc, authSvc, logger)

	// ── Routes ──────────────────────────────────────────────────────
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "ok"}`))
	})

	api.RegisterRoutes(mux, handler)

	// Swagger UI served at /swagger/
	mux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	// ── Middleware chain: Logging → Recover → CORS → mux ────────────
	chain := api.Logging(logger)(api.Recover(logger)(api.CORS(cfg.CORSOrigins)(mux)))

	// ── Server ──────────────────────────────────────────────────────
	server := &http.Server{
		Addr:              cfg.ServerAddress,
		Handler:           chain,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		logger.Info("shutting down server")
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("server forced to shutdown", "error", err)
		}
	}()

	logger.Info("starting server", "address", cfg.ServerAddress, "driver", cfg.DBDriver)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server failed to start", "error", err)
		os.Exit(1)
	}

	<-stopped
	forwarding.Close()
	logger.Info("server stopped")
}
