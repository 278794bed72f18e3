package postgres

import (
	"log"

	"github.com/LavaJover/shvark-rates-service/internal/config"
	"github.com/LavaJover/shvark-rates-service/internal/infrastructure/logger"
	"github.com/LavaJover/shvark-rates-service/internal/infrastructure/postgres/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func MustInitDB(cfg *config.RatesConfig) *gorm.DB {
	dsn := cfg.RatesDB.Dsn
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to init db: %v\n", err.Error())
	}

	db.AutoMigrate(&models.RateOverrideModel{}, &logger.RateDegradedEvent{}, &logger.RateClampedEvent{})

	return db
}
