package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dvloznov/sales-dashboard/internal/api/handlers"
	"github.com/dvloznov/sales-dashboard/internal/api/middleware"
	"github.com/dvloznov/sales-dashboard/internal/config"
	"github.com/dvloznov/sales-dashboard/internal/dashboard"
	"github.com/dvloznov/sales-dashboard/internal/dataset"
	"github.com/dvloznov/sales-dashboard/internal/gcs"
	infraBQ "github.com/dvloznov/sales-dashboard/internal/infra/bigquery"
	"github.com/dvloznov/sales-dashboard/internal/logger"
)

func main() {
	flags := config.RegisterFlags(flag.CommandLine)
	flag.Parse()

	cfg, err := flags.Load()
	if err != nil {
		bootLog := logger.New("info")
		bootLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(cfg.LogLevel)

	// Load the dataset once; the server does not start without it
	opts := cfg.ClientOptions()
	loader := dataset.NewLoader(
		dataset.WithHTTPClient(&http.Client{Timeout: cfg.FetchTimeout}),
		dataset.WithStorage(gcs.NewService(opts...)),
		dataset.WithWarehouse(infraBQ.TableSource{BillingProject: cfg.GCPProject, Options: opts}),
		dataset.WithLogger(log),
	)

	loadCtx, cancelLoad := context.WithTimeout(context.Background(), cfg.FetchTimeout)
	table, err := loader.Load(loadCtx, cfg.SourceURL)
	cancelLoad()
	if err != nil {
		log.Fatal().Err(err).Str("source", cfg.SourceURL).Msg("Failed to load dataset")
	}

	bounds := table.Bounds()
	log.Info().
		Int("rows", table.Len()).
		Time("first_invoice", bounds.Start).
		Time("last_invoice", bounds.End).
		Msg("Dataset ready")

	// Initialize handlers
	service := dashboard.NewService(table, log)
	dashboardHandler := handlers.NewDashboardHandler(service, log)
	healthHandler := handlers.NewHealthHandler(table.Len())

	// Create router
	mux := http.NewServeMux()

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			dashboardHandler.Page(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/layout", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			dashboardHandler.Layout(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/dashboard", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			dashboardHandler.Refresh(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/health", healthHandler.Health)

	handler := middleware.Chain(mux,
		middleware.Recovery(log),
		middleware.Logger(log),
		middleware.RequestID(log),
		middleware.CORS,
	)

	server := &http.Server{
		Addr:         cfg.Address,
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("address", cfg.Address).Msg("Starting dashboard server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
