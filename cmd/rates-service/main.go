package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/LavaJover/shvark-rates-service/internal/app/background"
	"github.com/LavaJover/shvark-rates-service/internal/app/setup"
	"github.com/LavaJover/shvark-rates-service/internal/config"
	"github.com/LavaJover/shvark-rates-service/internal/delivery/http/handlers"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("failed to load .env")
	}
	// Reading config
	cfg := config.MustLoad()
	setupLogger(&cfg.LogConfig)

	// Init database, rate sources, kafka and metrics
	deps, err := setup.InitializeDependencies(context.Background(), cfg)
	if err != nil {
		log.Fatalf("failed to init dependencies: %v", err)
	}

	// Консьюмер внешних курсов + прогрев нативного курса
	tasks := background.NewBackgroundTasks(
		deps.RatesUsecase,
		deps.Subscriber,
		cfg.KafkaService.ExternalRatesTopic,
		cfg.KafkaService.GroupID,
		cfg.RateResolver.NativeInstrument,
		time.Duration(cfg.RateResolver.WarmupIntervalMs)*time.Millisecond,
	)
	tasks.StartAll(context.Background())

	mux := http.NewServeMux()
	ratesHandler := handlers.NewRatesHandler(deps.RatesUsecase)
	ratesHandler.RegisterRoutes(mux)
	mux.Handle("GET /metrics", promhttp.Handler())

	addr := fmt.Sprintf("%s:%s", cfg.HTTPServer.Host, cfg.HTTPServer.Port)
	log.Printf("HTTP server started on %s\n", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("failed to serve: %v\n", err)
	}
}

func setupLogger(cfg *config.LogConfig) {
	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	output := os.Stdout
	if cfg.LogOutput == "stderr" {
		output = os.Stderr
	}

	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(output, &slog.HandlerOptions{Level: level})
	} else {
		handler = slog.NewTextHandler(output, &slog.HandlerOptions{Level: level})
	}

	slog.SetDefault(slog.New(handler))
}
