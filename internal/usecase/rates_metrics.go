// internal/usecase/rates_metrics.go
package usecase

import (
	"github.com/LavaJover/shvark-rates-service/internal/domain"
)

// recordCacheLookup - вызывается при каждом обращении к кешу
func (uc *DefaultRatesUsecase) recordCacheLookup(hit bool) {
	if uc.Metrics == nil {
		return
	}

	uc.Metrics.RecordCacheLookup(hit)
}

// recordResolution - вызывается при успешном ответе живого источника
func (uc *DefaultRatesUsecase) recordResolution(instrumentID, source string, seconds float64) {
	if uc.Metrics == nil {
		return
	}

	uc.Metrics.RecordResolution(instrumentID, source, seconds)
}

// recordSourceError - вызывается при отказе источника
func (uc *DefaultRatesUsecase) recordSourceError(source string) {
	if uc.Metrics == nil {
		return
	}

	uc.Metrics.RecordSourceError(source)
}

// recordFallbackServed - вызывается при выдаче fallback-курса
func (uc *DefaultRatesUsecase) recordFallbackServed(instrumentID string, info domain.FallbackRateInfo) {
	if uc.Metrics == nil {
		return
	}

	uc.Metrics.RecordFallbackServed(instrumentID, string(info.Match))
}

// recordSafeguardClamp - вызывается при поднятии курса до минимума
func (uc *DefaultRatesUsecase) recordSafeguardClamp(instrumentID string) {
	if uc.Metrics == nil {
		return
	}

	uc.Metrics.RecordSafeguardClamp(instrumentID)
}

// recordExternalSubmission - вызывается при приёме внешнего курса
func (uc *DefaultRatesUsecase) recordExternalSubmission(source string) {
	if uc.Metrics == nil {
		return
	}

	uc.Metrics.RecordExternalSubmission(source)
}
