package logger

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type RateDegradedEvent struct {
	ID            uint `gorm:"primaryKey"`
	InstrumentID  string
	Rate          decimal.Decimal `gorm:"type:decimal(32,18)"`
	Match         string
	SourceKey     string
	FailedSources string
	Timestamp     time.Time
}

type RateClampedEvent struct {
	ID           uint `gorm:"primaryKey"`
	InstrumentID string
	Rate         decimal.Decimal `gorm:"type:decimal(32,18)"`
	Minimum      decimal.Decimal `gorm:"type:decimal(32,18)"`
	Timestamp    time.Time
}

type RateEventLogger interface {
	LogRateDegraded(ctx context.Context, event RateDegradedEvent) error
	LogRateClamped(ctx context.Context, event RateClampedEvent) error
}

type PGRateEventLogger struct {
	db *gorm.DB
}

func NewPGRateEventLogger(db *gorm.DB) *PGRateEventLogger {
	return &PGRateEventLogger{db: db}
}

func (l *PGRateEventLogger) LogRateDegraded(ctx context.Context, event RateDegradedEvent) error {
	return l.db.WithContext(ctx).Create(&event).Error
}

func (l *PGRateEventLogger) LogRateClamped(ctx context.Context, event RateClampedEvent) error {
	return l.db.WithContext(ctx).Create(&event).Error
}
