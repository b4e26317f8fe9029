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
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/redis/go-redis/v9"

	"github.com/bsumme/odds-price-alert/internal/config"
	"github.com/bsumme/odds-price-alert/internal/engine"
	"github.com/bsumme/odds-price-alert/internal/gateway"
	"github.com/bsumme/odds-price-alert/internal/handlers"
	"github.com/bsumme/odds-price-alert/internal/notify"
	"github.com/bsumme/odds-price-alert/internal/stream"
)

func main() {
	fmt.Println("=== Odds Price Alert Service ===")

	cfg := config.LoadServerConfig()

	// Assemble the odds provider
	provider, err := buildProvider(cfg)
	if err != nil {
		fmt.Printf("❌ %v\n", err)
		os.Exit(1)
	}

	aggregator := engine.NewAggregator(provider, engine.DefaultParlayPolicy())

	// The hub context also bounds WebSocket pump lifetimes.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := stream.NewHub()
	go hub.Run(ctx)

	sms := notify.NewTextbeltNotifier(cfg.TextbeltAPIKey, cfg.AlertPhone)
	if cfg.TextbeltAPIKey != "" {
		fmt.Println("✓ SMS alerts enabled: textbelt")
	}

	// Initialize handlers
	handler := handlers.NewHandler(provider, aggregator)
	creditsHandler := handlers.NewCreditsHandler(provider)
	alertsHandler := handlers.NewAlertsHandler(sms, hub)
	streamHandler := handlers.NewStreamHandler(hub, ctx)

	// Setup router
	r := chi.NewRouter()

	// Middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(30 * time.Second))

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Routes
	r.Get("/health", handler.HealthCheck)

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Plays
		r.Post("/value-plays", handler.GetValuePlays)
		r.Post("/best-value-plays", handler.GetBestValuePlays)

		// Odds
		r.Post("/odds", handler.GetOdds)
		r.Get("/books", handler.GetBooks)
		r.Get("/credits", creditsHandler.GetCredits)

		// Alerts
		r.Post("/alerts/sms", alertsHandler.SendSMSAlert)
		r.Get("/test-arbitrage-alert", alertsHandler.TestArbitrageAlert)
		r.Get("/stream/metrics", streamHandler.HandleStreamMetrics)
	})

	// WebSocket alert feed (pumps outlive the upgrade request)
	r.Get("/ws/alerts", streamHandler.HandleWebSocket)

	// Start server
	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	serverErrors := make(chan error, 1)
	go func() {
		fmt.Printf("✓ Odds price alert service listening on %s\n", cfg.Addr)
		fmt.Println("  Endpoints:")
		fmt.Println("    GET  /health")
		fmt.Println("    POST /api/v1/value-plays")
		fmt.Println("    POST /api/v1/best-value-plays")
		fmt.Println("    POST /api/v1/odds")
		fmt.Println("    GET  /api/v1/books")
		fmt.Println("    GET  /api/v1/credits")
		fmt.Println("    POST /api/v1/alerts/sms")
		fmt.Println("    GET  /api/v1/test-arbitrage-alert")
		fmt.Println("    GET  /api/v1/stream/metrics")
		fmt.Println("    GET  /ws/alerts")

		serverErrors <- srv.ListenAndServe()
	}()

	// Wait for interrupt signal
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		fmt.Printf("❌ Server error: %v\n", err)
		os.Exit(1)

	case sig := <-shutdown:
		fmt.Printf("\n⚠️  Received signal: %v\n", sig)

		// Give outstanding requests a deadline for completion
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			fmt.Printf("⚠️  Graceful shutdown failed: %v\n", err)
			if err := srv.Close(); err != nil {
				fmt.Printf("❌ Could not stop server: %v\n", err)
			}
		}

		// Stop the hub and disconnect stream clients
		cancel()
	}

	fmt.Println("✓ Shutdown complete")
}

// buildProvider wires the odds gateway: dummy generator, or the live client
// with a cache (Redis when configured, in-memory otherwise) and the replay
// capture log.
func buildProvider(cfg *config.ServerConfig) (*gateway.Gateway, error) {
	if cfg.UseDummyData {
		fmt.Println("⚠️  Using dummy odds data (USE_DUMMY_DATA=true)")
		return gateway.New(nil, nil, nil, true), nil
	}

	if cfg.OddsAPIKey == "" {
		return nil, fmt.Errorf("ODDS_API_KEY is required (or set USE_DUMMY_DATA=true)")
	}

	client := gateway.NewClient(cfg.OddsAPIKey)
	if cfg.OddsBaseURL != "" {
		client.BaseURL = cfg.OddsBaseURL
	}

	var cache gateway.Cache
	if cfg.RedisURL != "" {
		redisOpts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
		}
		if cfg.RedisPassword != "" {
			redisOpts.Password = cfg.RedisPassword
		}

		redisClient := redis.NewClient(redisOpts)
		pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer pingCancel()
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}

		cache = gateway.NewRedisCache(redisClient, cfg.CacheTTL)
		fmt.Println("✓ Connected to Redis snapshot cache")
	} else {
		cache = gateway.NewMemoryCache(cfg.CacheTTL, cfg.CacheMaxEntries)
	}

	var replay *gateway.ReplayLog
	if cfg.ReplayLogPath != "" {
		replay = gateway.NewReplayLog(cfg.ReplayLogPath)
		fmt.Printf("✓ Recording provider responses to %s\n", cfg.ReplayLogPath)
	}

	return gateway.New(client, cache, replay, false), nil
}
