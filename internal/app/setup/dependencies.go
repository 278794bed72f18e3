package setup

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/LavaJover/shvark-rates-service/internal/config"
	"github.com/LavaJover/shvark-rates-service/internal/domain"
	"github.com/LavaJover/shvark-rates-service/internal/infrastructure/indexer"
	"github.com/LavaJover/shvark-rates-service/internal/infrastructure/kafka"
	"github.com/LavaJover/shvark-rates-service/internal/infrastructure/logger"
	"github.com/LavaJover/shvark-rates-service/internal/infrastructure/metrics"
	"github.com/LavaJover/shvark-rates-service/internal/infrastructure/migrate"
	"github.com/LavaJover/shvark-rates-service/internal/infrastructure/postgres"
	"github.com/LavaJover/shvark-rates-service/internal/infrastructure/postgres/repository"
	"github.com/LavaJover/shvark-rates-service/internal/infrastructure/validator"
	"github.com/LavaJover/shvark-rates-service/internal/usecase"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Dependencies struct {
	Config          *config.RatesConfig
	DB              *gorm.DB
	Sources         []domain.RateSourceAdapter
	ValidatorSource *validator.ValidatorSource
	OverrideRepo    domain.OverrideStore
	Publisher       *kafka.RatesPublisher
	Subscriber      domain.SubscriberPort
	Metrics         *metrics.RatesMetrics
	RatesUsecase    usecase.RatesUsecase
}

func InitializeDependencies(ctx context.Context, cfg *config.RatesConfig) (*Dependencies, error) {
	db := postgres.MustInitDB(cfg)

	if cfg.RatesDB.MigrationsPath != "" {
		if err := migrate.RunMigrations(db, cfg.RatesDB.MigrationsPath); err != nil {
			return nil, fmt.Errorf("migrations: %w", err)
		}
	}

	overrideRepo := repository.NewDefaultRateOverrideRepository(db)

	fallbackRates, minimumRates, err := buildRateTables(cfg, overrideRepo)
	if err != nil {
		return nil, fmt.Errorf("rate tables: %w", err)
	}

	validatorSource, sources, err := buildSources(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("rate sources: %w", err)
	}

	brokers := []string{fmt.Sprintf("%s:%s", cfg.KafkaService.Host, cfg.KafkaService.Port)}
	ratesPublisher := kafka.NewRatesPublisher(brokers, cfg.KafkaService.DegradationTopic)
	subscriber := kafka.NewDefaultKafkaSubscriber(brokers)

	ratesMetrics := metrics.NewRatesMetrics()

	ratesUsecase := usecase.NewDefaultRatesUsecase(
		sources,
		time.Duration(cfg.RateResolver.CacheTTLMs)*time.Millisecond,
		fallbackRates,
		minimumRates,
		!cfg.RateResolver.DisableSafeguards,
	)
	ratesUsecase.Overrides = overrideRepo
	ratesUsecase.Publisher = ratesPublisher
	ratesUsecase.EventLogger = logger.NewPGRateEventLogger(db)
	ratesUsecase.Metrics = ratesMetrics

	return &Dependencies{
		Config:          cfg,
		DB:              db,
		Sources:         sources,
		ValidatorSource: validatorSource,
		OverrideRepo:    overrideRepo,
		Publisher:       ratesPublisher,
		Subscriber:      subscriber,
		Metrics:         ratesMetrics,
		RatesUsecase:    ratesUsecase,
	}, nil
}

func buildRateTables(cfg *config.RatesConfig, store domain.OverrideStore) (map[string]decimal.Decimal, map[string]decimal.Decimal, error) {
	fallbackRates, err := parseRateTable(cfg.RateResolver.FallbackRates)
	if err != nil {
		return nil, nil, fmt.Errorf("fallback_rates: %w", err)
	}

	minimumRates, err := parseRateTable(cfg.RateResolver.MinimumRates)
	if err != nil {
		return nil, nil, fmt.Errorf("minimum_rates: %w", err)
	}

	// Сохранённые оверрайды ложатся поверх значений из конфига
	storedFallback, err := store.LoadFallbackRates()
	if err != nil {
		slog.Warn("failed to load stored fallback rates", "error", err.Error())
	} else {
		fallbackRates = mergeStored(fallbackRates, storedFallback)
	}

	storedMinimum, err := store.LoadMinimumRates()
	if err != nil {
		slog.Warn("failed to load stored minimum rates", "error", err.Error())
	} else {
		minimumRates = mergeStored(minimumRates, storedMinimum)
	}

	return fallbackRates, minimumRates, nil
}

// parseRateTable оставляет пустую таблицу nil, чтобы резолвер подставил значения по умолчанию
func parseRateTable(raw map[string]string) (map[string]decimal.Decimal, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	rates := make(map[string]decimal.Decimal, len(raw))
	for instrumentID, value := range raw {
		rate, err := decimal.NewFromString(value)
		if err != nil {
			return nil, fmt.Errorf("invalid rate %q for %s: %w", value, instrumentID, err)
		}
		rates[instrumentID] = rate
	}

	return rates, nil
}

func mergeStored(configRates, storedRates map[string]decimal.Decimal) map[string]decimal.Decimal {
	if len(storedRates) == 0 {
		return configRates
	}
	if configRates == nil {
		configRates = make(map[string]decimal.Decimal, len(storedRates))
	}
	for instrumentID, rate := range storedRates {
		configRates[instrumentID] = rate
	}
	return configRates
}

func buildSources(ctx context.Context, cfg *config.RatesConfig) (*validator.ValidatorSource, []domain.RateSourceAdapter, error) {
	var sources []domain.RateSourceAdapter

	// Регистрируем индексатор только при наличии API-ключа
	if cfg.IndexerAPI.ApiKey != "" {
		indexerSource := indexer.NewIndexerSource(
			cfg.IndexerAPI.BaseUrl,
			cfg.IndexerAPI.ApiKey,
			cfg.RateResolver.NativeInstrument,
			time.Duration(cfg.IndexerAPI.TimeoutMs)*time.Millisecond,
		)
		sources = append(sources, indexerSource)
		slog.Info("indexer rate source registered", "base_url", cfg.IndexerAPI.BaseUrl)
	} else {
		slog.Info("indexer api key not configured, indexer rate source disabled")
	}

	validatorSource, err := validator.NewValidatorSource(
		ctx,
		cfg.ValidatorNode.RpcUrl,
		time.Duration(cfg.ValidatorNode.TimeoutMs)*time.Millisecond,
		cfg.RateResolver.NativeInstrument,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("validator source: %w", err)
	}
	sources = append(sources, validatorSource)

	return validatorSource, sources, nil
}
