package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bsumme/odds-price-alert/internal/config"
	"github.com/bsumme/odds-price-alert/internal/engine"
	"github.com/bsumme/odds-price-alert/internal/gateway"
	"github.com/bsumme/odds-price-alert/internal/handlers"
	"github.com/bsumme/odds-price-alert/internal/notify"
	"github.com/bsumme/odds-price-alert/internal/stream"
	"github.com/bsumme/odds-price-alert/internal/watch"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML watcher config (optional)")
	targetBook := flag.String("target-book", "draftkings", "sportsbook to monitor for your primary bets")
	compareBook := flag.String("compare-book", "novig", "exchange to compare against for the hedge side")
	sports := flag.String("sports", "basketball_nba,americanfootball_nfl", "comma-separated sport keys to include")
	markets := flag.String("markets", "h2h", "comma-separated markets to include")
	interval := flag.Int("interval", 300, "poll interval in seconds")
	maxResults := flag.Int("max-results", 15, "maximum plays to print each cycle")
	minMargin := flag.Float64("min-margin", 0.0, "only surface plays with arbitrage margin at or above this percent")
	useDummy := flag.Bool("use-dummy-data", false, "use built-in dummy odds instead of hitting the real API")
	streamAddr := flag.String("stream-addr", "", "serve the WebSocket alert feed on this address (e.g. :8001, empty disables)")
	flag.Parse()

	fmt.Println("=== Hedge Watcher ===")

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("❌ %v\n", err)
		os.Exit(1)
	}

	// Only flags the caller actually passed override the config file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "target-book":
			cfg.TargetBook = *targetBook
		case "compare-book":
			cfg.CompareBook = *compareBook
		case "sports":
			cfg.Sports = splitList(*sports)
		case "markets":
			cfg.Markets = splitList(*markets)
		case "interval":
			cfg.IntervalSeconds = *interval
		case "max-results":
			cfg.MaxResults = *maxResults
		case "min-margin":
			cfg.MinMarginPercent = *minMargin
		case "use-dummy-data":
			cfg.UseDummyData = *useDummy
		}
	})

	if err := cfg.Validate(); err != nil {
		fmt.Printf("❌ Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	env := config.LoadServerConfig()

	provider, err := buildProvider(env, cfg.UseDummyData)
	if err != nil {
		fmt.Printf("❌ %v\n", err)
		os.Exit(1)
	}

	aggregator := engine.NewAggregator(provider, engine.DefaultParlayPolicy())
	notifier := buildNotifier(env, cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Optional WebSocket feed next to the loop, so dashboards can subscribe
	// to watcher hits without the full HTTP service.
	var publisher watch.Publisher
	var streamSrv *http.Server
	if *streamAddr != "" {
		hub := stream.NewHub()
		go hub.Run(ctx)
		streamSrv = startStreamServer(ctx, *streamAddr, hub)
		publisher = hub
	}

	watch.New(cfg, aggregator, notifier, publisher).Run(ctx)

	if streamSrv != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		streamSrv.Shutdown(shutdownCtx)
	}
}

// startStreamServer serves the alert feed beside the watcher loop.
func startStreamServer(ctx context.Context, addr string, hub *stream.Hub) *http.Server {
	streamHandler := handlers.NewStreamHandler(hub, ctx)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws/alerts", streamHandler.HandleWebSocket)
	mux.HandleFunc("/metrics", streamHandler.HandleStreamMetrics)

	server := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	go func() {
		fmt.Printf("✓ Alert stream listening on ws://%s/ws/alerts\n", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fmt.Printf("❌ Alert stream server error: %v\n", err)
		}
	}()

	return server
}

func loadConfig(path string) (*config.WatcherConfig, error) {
	if path == "" {
		return config.DefaultWatcherConfig(), nil
	}
	return config.LoadWatcherConfig(path)
}

// buildProvider wires the odds gateway the same way the HTTP service does,
// so the watcher shares its Redis snapshot cache when one is configured.
func buildProvider(env *config.ServerConfig, useDummy bool) (*gateway.Gateway, error) {
	if useDummy {
		fmt.Println("⚠️  Using dummy odds data")
		return gateway.New(nil, nil, nil, true), nil
	}

	if env.OddsAPIKey == "" {
		return nil, fmt.Errorf("ODDS_API_KEY is required (or pass -use-dummy-data)")
	}

	client := gateway.NewClient(env.OddsAPIKey)
	if env.OddsBaseURL != "" {
		client.BaseURL = env.OddsBaseURL
	}

	var cache gateway.Cache
	if env.RedisURL != "" {
		redisOpts, err := redis.ParseURL(env.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
		}
		if env.RedisPassword != "" {
			redisOpts.Password = env.RedisPassword
		}

		redisClient := redis.NewClient(redisOpts)
		pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer pingCancel()
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}

		cache = gateway.NewRedisCache(redisClient, env.CacheTTL)
		fmt.Println("✓ Connected to Redis snapshot cache")
	} else {
		cache = gateway.NewMemoryCache(env.CacheTTL, env.CacheMaxEntries)
	}

	var replay *gateway.ReplayLog
	if env.ReplayLogPath != "" {
		replay = gateway.NewReplayLog(env.ReplayLogPath)
	}

	return gateway.New(client, cache, replay, false), nil
}

// buildNotifier assembles the alert fan-out from whatever channels are
// configured. Destinations may come from the watcher config or from the
// environment; credentials only ever come from the environment.
func buildNotifier(env *config.ServerConfig, cfg *config.WatcherConfig) notify.Notifier {
	var channels []notify.Notifier

	phone := cfg.AlertPhone
	if phone == "" {
		phone = env.AlertPhone
	}
	if env.TextbeltAPIKey != "" && phone != "" {
		channels = append(channels, notify.NewTextbeltNotifier(env.TextbeltAPIKey, phone))
		fmt.Println("✓ SMS alerts enabled: textbelt")
	}

	chatID := cfg.TelegramChatID
	if chatID == 0 {
		chatID = env.TelegramChatID
	}
	if env.TelegramBotToken != "" && chatID != 0 {
		telegram, err := notify.NewTelegramNotifier(env.TelegramBotToken, chatID)
		if err != nil {
			fmt.Printf("⚠️  Telegram alerts unavailable: %v\n", err)
		} else {
			channels = append(channels, telegram)
		}
	}

	if len(channels) == 0 {
		fmt.Println("⚠️  No alert channels configured, printing alerts to stdout")
		return notify.LogNotifier{}
	}

	return notify.NewMultiNotifier(channels...)
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
