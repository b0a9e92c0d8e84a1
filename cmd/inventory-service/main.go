package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"github.com/pharmtrack/pharmtrack-backend/internal/ai"
	"github.com/pharmtrack/pharmtrack-backend/internal/barcode"
	"github.com/pharmtrack/pharmtrack-backend/internal/inventory/events"
	"github.com/pharmtrack/pharmtrack-backend/internal/inventory/handler"
	"github.com/pharmtrack/pharmtrack-backend/internal/inventory/repository"
	"github.com/pharmtrack/pharmtrack-backend/internal/inventory/service"
	"github.com/pharmtrack/pharmtrack-backend/pkg/config"
	"github.com/pharmtrack/pharmtrack-backend/pkg/database"
	"github.com/pharmtrack/pharmtrack-backend/pkg/httputil"
	"github.com/pharmtrack/pharmtrack-backend/pkg/logger"
	"github.com/pharmtrack/pharmtrack-backend/pkg/messaging"
)

func main() {
	// Local development convenience; missing .env is fine
	_ = godotenv.Load()

	// Load configuration with validation (fails fast in production if required config is missing)
	cfg, err := config.LoadWithValidation("inventory-service")
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New("inventory-service", cfg.Server.Environment)
	log.Info().Msg("starting PharmTrack inventory service")

	// Connect to database and apply migrations
	db, err := database.New(&cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("failed to apply database migrations")
	}

	// Connect to RabbitMQ when configured; events are optional
	var publisher events.Publisher
	var rmq *messaging.RabbitMQ
	if cfg.RabbitMQ.Enabled() {
		rmq, err = messaging.New(&cfg.RabbitMQ, log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to RabbitMQ")
		}
		defer rmq.Close()

		p, err := messaging.NewPublisher(rmq, messaging.ExchangeInventoryEvents, "inventory-service", log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create event publisher")
		}
		publisher = p
	} else {
		log.Info().Msg("RabbitMQ not configured, event publication disabled")
	}
	eventEmitter := events.New(publisher, log)

	// Initialize the completion model client
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var completer ai.Completer
	if cfg.AI.APIKey != "" {
		gemini, err := ai.NewGeminiCompleter(ctx, cfg.AI.APIKey, cfg.AI.Model)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create completion client")
		}
		defer gemini.Close()
		completer = gemini
	} else {
		log.Warn().Msg("no AI API key configured, AI features will fail")
		completer = unavailableCompleter{}
	}

	// Initialize repositories and services
	medicineRepo := repository.NewMedicineRepository(db)
	inventoryService := service.NewInventoryService(medicineRepo, eventEmitter, log)
	insightService := ai.NewInsightService(completer, log)

	productClient := barcode.NewProductClient(&cfg.Barcode, log)
	resolver := barcode.NewResolver(productClient, completer, log)
	scanSessions := barcode.NewSessionHistories()

	// Initialize handlers
	medicineHandler := handler.NewMedicineHandler(inventoryService, log)
	dashboardHandler := handler.NewDashboardHandler(inventoryService, log)
	scanHandler := handler.NewScanHandler(resolver, scanSessions, log)
	aiHandler := handler.NewAIHandler(insightService, inventoryService, log)

	// Create router
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RealIP)
	r.Use(httputil.RequestID)
	r.Use(httputil.SessionID)
	r.Use(httputil.Logger(log))
	r.Use(httputil.Recoverer(log))
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000", "http://localhost:5173"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID", "X-Session-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		health := map[string]interface{}{
			"status":   "healthy",
			"service":  "inventory-service",
			"database": db.Health(r.Context()),
		}
		if rmq != nil {
			health["rabbitmq"] = rmq.Health()
		}
		httputil.JSON(w, http.StatusOK, health)
	})

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/medicines", func(r chi.Router) {
			r.Get("/", medicineHandler.List)
			r.Post("/", medicineHandler.Create)
			r.Get("/low-stock", medicineHandler.LowStock)
			r.Get("/expiring", medicineHandler.Expiring)
			r.Get("/search", medicineHandler.Search)
			r.Get("/{id}", medicineHandler.Get)
			r.Put("/{id}", medicineHandler.Update)
			r.Delete("/{id}", medicineHandler.Delete)
			r.Post("/{id}/stock", medicineHandler.UpdateStock)
			r.Get("/{id}/history", medicineHandler.History)
			r.Get("/{id}/reorder-suggestion", medicineHandler.ReorderSuggestion)
		})

		r.Get("/history", medicineHandler.AllHistory)

		r.Route("/dashboard", func(r chi.Router) {
			r.Get("/stats", dashboardHandler.Stats)
			r.Get("/criticality", dashboardHandler.Criticality)
		})

		r.Route("/scan", func(r chi.Router) {
			r.Post("/", scanHandler.Scan)
			r.Get("/recent", scanHandler.Recent)
		})

		r.Route("/ai", func(r chi.Router) {
			r.Post("/medicine-info", aiHandler.MedicineInfo)
			r.Post("/interactions", aiHandler.Interactions)
			r.Post("/recommendations", aiHandler.Recommendations)
			r.Post("/trends", aiHandler.Trends)
			r.Post("/alternatives", aiHandler.Alternatives)
		})
	})

	// Create server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server
	go func() {
		log.Info().Str("addr", addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	cancel()

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

// unavailableCompleter stands in when no API key is configured so the rest
// of the service still runs
type unavailableCompleter struct{}

func (unavailableCompleter) Complete(context.Context, string, string) (string, error) {
	return "", fmt.Errorf("no AI API key configured")
}
