package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// RatesMetrics содержит все метрики резолвера курсов
type RatesMetrics struct {
	// Успешные ответы живых источников
	RateResolutionsTotal prometheus.CounterVec

	// Отказы источников
	RateSourceErrorsTotal prometheus.CounterVec

	// Выдачи fallback-курса
	RateFallbackServedTotal prometheus.CounterVec

	// Поднятия курса до минимума
	RateSafeguardClampedTotal prometheus.CounterVec

	// Обращения к кешу
	RateCacheLookupsTotal prometheus.CounterVec

	// Принятые внешние курсы
	RateExternalSubmissionsTotal prometheus.CounterVec

	// Время ответа источников
	RateResolutionDuration prometheus.HistogramVec
}

// NewRatesMetrics создает новый экземпляр метрик
func NewRatesMetrics() *RatesMetrics {
	return &RatesMetrics{
		RateResolutionsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rate_resolutions_total",
				Help: "Общее количество курсов, полученных от живых источников",
			},
			[]string{"instrument_id", "source"},
		),

		RateSourceErrorsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rate_source_errors_total",
				Help: "Общее количество отказов источников курсов",
			},
			[]string{"source"},
		),

		RateFallbackServedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rate_fallback_served_total",
				Help: "Общее количество выдач fallback-курса",
			},
			[]string{"instrument_id", "match"},
		),

		RateSafeguardClampedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rate_safeguard_clamped_total",
				Help: "Общее количество поднятий курса до минимального значения",
			},
			[]string{"instrument_id"},
		),

		RateCacheLookupsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rate_cache_lookups_total",
				Help: "Общее количество обращений к кешу курсов",
			},
			[]string{"result"},
		),

		RateExternalSubmissionsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rate_external_submissions_total",
				Help: "Общее количество принятых внешних курсов",
			},
			[]string{"source"},
		),

		RateResolutionDuration: *promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "rate_resolution_duration_seconds",
				Help:    "Время ответа источника курса в секундах",
				Buckets: prometheus.ExponentialBuckets(0.01, 2, 10), // 10ms, 20ms, 40ms...
			},
			[]string{"source"},
		),
	}
}

// RecordResolution записывает успешный ответ источника
func (m *RatesMetrics) RecordResolution(instrumentID, source string, durationSeconds float64) {
	m.RateResolutionsTotal.WithLabelValues(instrumentID, source).Inc()
	m.RateResolutionDuration.WithLabelValues(source).Observe(durationSeconds)
}

// RecordSourceError записывает отказ источника
func (m *RatesMetrics) RecordSourceError(source string) {
	m.RateSourceErrorsTotal.WithLabelValues(source).Inc()
}

// RecordFallbackServed записывает выдачу fallback-курса
func (m *RatesMetrics) RecordFallbackServed(instrumentID, match string) {
	m.RateFallbackServedTotal.WithLabelValues(instrumentID, match).Inc()
}

// RecordSafeguardClamp записывает поднятие курса до минимума
func (m *RatesMetrics) RecordSafeguardClamp(instrumentID string) {
	m.RateSafeguardClampedTotal.WithLabelValues(instrumentID).Inc()
}

// RecordCacheLookup записывает обращение к кешу
func (m *RatesMetrics) RecordCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.RateCacheLookupsTotal.WithLabelValues(result).Inc()
}

// RecordExternalSubmission записывает принятый внешний курс
func (m *RatesMetrics) RecordExternalSubmission(source string) {
	m.RateExternalSubmissionsTotal.WithLabelValues(source).Inc()
}
