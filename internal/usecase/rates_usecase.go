// internal/usecase/rates_usecase.go
package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/LavaJover/shvark-rates-service/internal/domain"
	"github.com/LavaJover/shvark-rates-service/internal/infrastructure/kafka"
	"github.com/LavaJover/shvark-rates-service/internal/infrastructure/logger"
	"github.com/LavaJover/shvark-rates-service/internal/infrastructure/metrics"
	"github.com/jaevor/go-nanoid"
	"github.com/shopspring/decimal"
)

const (
	defaultCacheTTL   = 3000 * time.Millisecond
	defaultNativeRate = "0.10"
)

type RatesUsecase interface {
	Resolve(ctx context.Context, instrumentID string, useCache bool) (decimal.Decimal, error)
	SubmitExternalRate(ctx context.Context, instrumentID string, rate decimal.Decimal, source string, useCache bool) (decimal.Decimal, error)

	UsdToInstrument(ctx context.Context, usdAmount decimal.Decimal, instrumentID string) (decimal.Decimal, error)
	InstrumentToUsd(ctx context.Context, amount decimal.Decimal, instrumentID string) (decimal.Decimal, error)

	GetFallbackInfo(instrumentID string) (domain.FallbackRateInfo, bool)
	UpdateFallbackRates(rates map[string]decimal.Decimal) error
	UpdateMinimumRates(minimums map[string]decimal.Decimal) error
	SetSafeguardsEnabled(enabled bool)

	ClearCache()
	CacheSnapshot() []domain.CacheSnapshotEntry
	AvailableSources() []string
	HealthCheck(ctx context.Context) map[string]bool
}

type DefaultRatesUsecase struct {
	Sources     []domain.RateSourceAdapter
	Cache       *RateCache
	Fallback    *FallbackTable
	Safeguards  *RateSafeguards
	Overrides   domain.OverrideStore
	Publisher   *kafka.RatesPublisher
	EventLogger logger.RateEventLogger
	Metrics     *metrics.RatesMetrics

	clock func() time.Time
}

// NewDefaultRatesUsecase собирает резолвер. Нулевой TTL заменяется на
// значение по умолчанию, nil-таблицы получают курс нативного инструмента.
func NewDefaultRatesUsecase(
	sources []domain.RateSourceAdapter,
	cacheTTL time.Duration,
	fallbackRates map[string]decimal.Decimal,
	minimumRates map[string]decimal.Decimal,
	safeguardsEnabled bool) *DefaultRatesUsecase {

	if cacheTTL <= 0 {
		cacheTTL = defaultCacheTTL
	}
	if fallbackRates == nil {
		fallbackRates = map[string]decimal.Decimal{
			domain.NativeInstrument: decimal.RequireFromString(defaultNativeRate),
		}
	}
	if minimumRates == nil {
		minimumRates = map[string]decimal.Decimal{
			domain.NativeInstrument: decimal.RequireFromString(defaultNativeRate),
		}
	}

	return &DefaultRatesUsecase{
		Sources:    sources,
		Cache:      NewRateCache(cacheTTL, time.Now),
		Fallback:   NewFallbackTable(fallbackRates),
		Safeguards: NewRateSafeguards(minimumRates, safeguardsEnabled),
		clock:      time.Now,
	}
}

func (uc *DefaultRatesUsecase) WithClock(now func() time.Time) *DefaultRatesUsecase {
	uc.clock = now
	uc.Cache.now = now
	return uc
}

func (uc *DefaultRatesUsecase) Resolve(ctx context.Context, instrumentID string, useCache bool) (decimal.Decimal, error) {
	if err := domain.ValidateInstrumentID(instrumentID); err != nil {
		return decimal.Decimal{}, err
	}

	// Проверяем кеш
	if useCache {
		if cached, ok := uc.Cache.Get(instrumentID); ok {
			uc.recordCacheLookup(true)
			return uc.enforce(ctx, instrumentID, cached.rate), nil
		}
		uc.recordCacheLookup(false)
	}

	rate, source, ok, failures := uc.tryLiveSources(ctx, instrumentID)
	if ok {
		// Сохраняем в кеш сырой курс, минимум применяется на выдаче
		uc.Cache.Set(instrumentID, rate, source)
		return uc.enforce(ctx, instrumentID, rate), nil
	}

	// Живые источники не ответили, пробуем статический fallback.
	// Fallback-курс в кеш не пишется, чтобы не маскировать живые источники.
	info, found := uc.Fallback.Lookup(instrumentID)
	if found {
		enforced := uc.enforce(ctx, instrumentID, info.Rate)
		slog.Warn("live rate sources exhausted, serving fallback rate",
			"instrument_id", instrumentID,
			"failed_sources", summarizeFailures(failures),
			"match", string(info.Match),
			"matched_key", info.SourceKey,
			"rate", enforced.String())
		uc.recordFallbackServed(instrumentID, info)
		uc.reportDegradation(ctx, instrumentID, enforced, info, failures)
		return enforced, nil
	}

	return decimal.Decimal{}, fmt.Errorf("%w for %q: all live sources failed and no fallback rate is configured, add a fallback entry to serve this instrument", domain.ErrNoRateAvailable, instrumentID)
}

func (uc *DefaultRatesUsecase) SubmitExternalRate(ctx context.Context, instrumentID string, rate decimal.Decimal, source string, useCache bool) (decimal.Decimal, error) {
	if err := domain.ValidateInstrumentID(instrumentID); err != nil {
		return decimal.Decimal{}, err
	}
	if rate.IsNegative() {
		return decimal.Decimal{}, fmt.Errorf("%w: external rate must not be negative", domain.ErrInvalidRate)
	}
	if source == "" {
		source = string(domain.RateSourceExternal)
	}

	// Свежая запись в кеше имеет приоритет над внешним курсом
	if useCache {
		if cached, ok := uc.Cache.Get(instrumentID); ok {
			return uc.enforce(ctx, instrumentID, cached.rate), nil
		}
	}

	uc.Cache.Set(instrumentID, rate, domain.RateSource(source))
	uc.recordExternalSubmission(source)

	return uc.enforce(ctx, instrumentID, rate), nil
}

func (uc *DefaultRatesUsecase) UsdToInstrument(ctx context.Context, usdAmount decimal.Decimal, instrumentID string) (decimal.Decimal, error) {
	rate, err := uc.resolveForConversion(ctx, instrumentID, usdAmount)
	if err != nil {
		return decimal.Decimal{}, err
	}
	if rate.IsZero() {
		return decimal.Decimal{}, fmt.Errorf("%w: rate for %q is zero", domain.ErrZeroRate, instrumentID)
	}
	return usdAmount.Div(rate), nil
}

func (uc *DefaultRatesUsecase) InstrumentToUsd(ctx context.Context, amount decimal.Decimal, instrumentID string) (decimal.Decimal, error) {
	rate, err := uc.resolveForConversion(ctx, instrumentID, amount)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return amount.Mul(rate), nil
}

// resolveForConversion валидирует вход до обращения к источникам
func (uc *DefaultRatesUsecase) resolveForConversion(ctx context.Context, instrumentID string, amount decimal.Decimal) (decimal.Decimal, error) {
	if err := domain.ValidateInstrumentID(instrumentID); err != nil {
		return decimal.Decimal{}, err
	}
	if amount.IsNegative() {
		return decimal.Decimal{}, fmt.Errorf("%w: amount must not be negative", domain.ErrInvalidAmount)
	}
	return uc.Resolve(ctx, instrumentID, true)
}

func (uc *DefaultRatesUsecase) GetFallbackInfo(instrumentID string) (domain.FallbackRateInfo, bool) {
	return uc.Fallback.Lookup(instrumentID)
}

func (uc *DefaultRatesUsecase) UpdateFallbackRates(rates map[string]decimal.Decimal) error {
	uc.Fallback.Merge(rates)
	if uc.Overrides == nil {
		return nil
	}
	if err := uc.Overrides.SaveFallbackRates(rates); err != nil {
		return fmt.Errorf("failed to persist fallback rates: %w", err)
	}
	return nil
}

func (uc *DefaultRatesUsecase) UpdateMinimumRates(minimums map[string]decimal.Decimal) error {
	uc.Safeguards.Merge(minimums)
	if uc.Overrides == nil {
		return nil
	}
	if err := uc.Overrides.SaveMinimumRates(minimums); err != nil {
		return fmt.Errorf("failed to persist minimum rates: %w", err)
	}
	return nil
}

func (uc *DefaultRatesUsecase) SetSafeguardsEnabled(enabled bool) {
	uc.Safeguards.SetEnabled(enabled)
}

func (uc *DefaultRatesUsecase) ClearCache() {
	uc.Cache.Clear()
}

func (uc *DefaultRatesUsecase) CacheSnapshot() []domain.CacheSnapshotEntry {
	return uc.Cache.Snapshot()
}

func (uc *DefaultRatesUsecase) AvailableSources() []string {
	names := make([]string, 0, len(uc.Sources))
	for _, source := range uc.Sources {
		names = append(names, source.GetName())
	}
	return names
}

func (uc *DefaultRatesUsecase) HealthCheck(ctx context.Context) map[string]bool {
	health := make(map[string]bool)
	for _, source := range uc.Sources {
		health[source.GetName()] = source.IsHealthy(ctx)
	}
	return health
}

type sourceFailure struct {
	name string
	err  error
}

// tryLiveSources опрашивает адаптеры по порядку и останавливается на первом успехе
func (uc *DefaultRatesUsecase) tryLiveSources(ctx context.Context, instrumentID string) (decimal.Decimal, domain.RateSource, bool, []sourceFailure) {
	var failures []sourceFailure

	for _, source := range uc.Sources {
		start := time.Now()
		rate, err := source.TryResolve(ctx, instrumentID)
		if err != nil {
			slog.Warn("rate source failed",
				"source", source.GetName(),
				"instrument_id", instrumentID,
				"error", err.Error())
			uc.recordSourceError(source.GetName())
			failures = append(failures, sourceFailure{name: source.GetName(), err: err})
			continue
		}

		uc.recordResolution(instrumentID, source.GetName(), time.Since(start).Seconds())
		return rate, domain.RateSource(source.GetName()), true, failures
	}

	return decimal.Decimal{}, "", false, failures
}

// enforce применяет минимальный курс к каждому выдаваемому значению
func (uc *DefaultRatesUsecase) enforce(ctx context.Context, instrumentID string, rate decimal.Decimal) decimal.Decimal {
	enforced, clamped := uc.Safeguards.Enforce(instrumentID, rate)
	if !clamped {
		return enforced
	}

	slog.Warn("rate below safeguard minimum, floor applied",
		"instrument_id", instrumentID,
		"rate", rate.String(),
		"minimum", enforced.String())
	uc.recordSafeguardClamp(instrumentID)

	if uc.EventLogger != nil {
		if err := uc.EventLogger.LogRateClamped(ctx, logger.RateClampedEvent{
			InstrumentID: instrumentID,
			Rate:         rate,
			Minimum:      enforced,
			Timestamp:    uc.clock(),
		}); err != nil {
			slog.Error("failed to log rate clamp event", "instrument_id", instrumentID, "error", err.Error())
		}
	}

	return enforced
}

func (uc *DefaultRatesUsecase) reportDegradation(ctx context.Context, instrumentID string, rate decimal.Decimal, info domain.FallbackRateInfo, failures []sourceFailure) {
	failed := failureSources(failures)

	if uc.EventLogger != nil {
		if err := uc.EventLogger.LogRateDegraded(ctx, logger.RateDegradedEvent{
			InstrumentID:  instrumentID,
			Rate:          rate,
			Match:         string(info.Match),
			SourceKey:     info.SourceKey,
			FailedSources: strings.Join(failed, ","),
			Timestamp:     uc.clock(),
		}); err != nil {
			slog.Error("failed to log rate degradation event", "instrument_id", instrumentID, "error", err.Error())
		}
	}

	if uc.Publisher == nil {
		return
	}

	idGenerator, err := nanoid.Standard(15)
	if err != nil {
		slog.Error("failed to create event id generator", "error", err.Error())
		return
	}

	go func(event kafka.RateDegradationEvent) {
		if err := uc.Publisher.PublishDegradation(event); err != nil {
			slog.Error("failed to publish kafka degradation event", "instrument_id", event.InstrumentID, "error", err.Error())
		}
	}(kafka.RateDegradationEvent{
		EventID:       idGenerator(),
		InstrumentID:  instrumentID,
		Rate:          rate,
		Match:         string(info.Match),
		SourceKey:     info.SourceKey,
		FailedSources: failed,
		OccurredAt:    uc.clock(),
	})
}

func summarizeFailures(failures []sourceFailure) string {
	if len(failures) == 0 {
		return "none"
	}
	parts := make([]string, 0, len(failures))
	for _, failure := range failures {
		parts = append(parts, fmt.Sprintf("%s: %v", failure.name, failure.err))
	}
	return strings.Join(parts, "; ")
}

func failureSources(failures []sourceFailure) []string {
	names := make([]string, 0, len(failures))
	for _, failure := range failures {
		names = append(names, failure.name)
	}
	return names
}
