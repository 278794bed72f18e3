package repository

import (
	"errors"

	"github.com/LavaJover/shvark-rates-service/internal/infrastructure/postgres/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type DefaultRateOverrideRepository struct {
	DB *gorm.DB
}

func NewDefaultRateOverrideRepository(db *gorm.DB) *DefaultRateOverrideRepository {
	return &DefaultRateOverrideRepository{DB: db}
}

func (r *DefaultRateOverrideRepository) LoadFallbackRates() (map[string]decimal.Decimal, error) {
	return r.loadKind(models.OverrideKindFallback)
}

func (r *DefaultRateOverrideRepository) LoadMinimumRates() (map[string]decimal.Decimal, error) {
	return r.loadKind(models.OverrideKindMinimum)
}

func (r *DefaultRateOverrideRepository) SaveFallbackRates(rates map[string]decimal.Decimal) error {
	return r.saveKind(models.OverrideKindFallback, rates)
}

func (r *DefaultRateOverrideRepository) SaveMinimumRates(rates map[string]decimal.Decimal) error {
	return r.saveKind(models.OverrideKindMinimum, rates)
}

func (r *DefaultRateOverrideRepository) loadKind(kind string) (map[string]decimal.Decimal, error) {
	var overrideModels []models.RateOverrideModel
	if err := r.DB.Where("kind = ?", kind).Find(&overrideModels).Error; err != nil {
		return nil, err
	}

	rates := make(map[string]decimal.Decimal, len(overrideModels))
	for _, overrideModel := range overrideModels {
		rates[overrideModel.InstrumentID] = overrideModel.Rate
	}

	return rates, nil
}

func (r *DefaultRateOverrideRepository) saveKind(kind string, rates map[string]decimal.Decimal) error {
	for instrumentID, rate := range rates {
		var overrideModel models.RateOverrideModel
		err := r.DB.Where("instrument_id = ? AND kind = ?", instrumentID, kind).First(&overrideModel).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			overrideModel = models.RateOverrideModel{
				ID:           uuid.New().String(),
				InstrumentID: instrumentID,
				Kind:         kind,
				Rate:         rate,
			}
			if err := r.DB.Create(&overrideModel).Error; err != nil {
				return err
			}
			continue
		}
		if err != nil {
			return err
		}

		if err := r.DB.Model(&models.RateOverrideModel{}).
			Where("id = ?", overrideModel.ID).
			Update("rate", rate).Error; err != nil {
			return err
		}
	}

	return nil
}
