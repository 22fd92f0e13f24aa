package dbhelper

import (
	"fmt"
	"time"

	"outfitapi/config"
	"outfitapi/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenDB connects and migrates every model the service owns.
func OpenDB(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("database handle: %w", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Minute * 5)

	for _, model := range []interface{}{
		&models.UserAccount{},
		&models.UserPushToken{},
		&models.Clothing{},
		&models.Outfit{},
		&models.OutfitItem{},
	} {
		if err := Migrate(db, model); err != nil {
			return nil, err
		}
	}
	return db, nil
}

func SetupDB(cfg config.Config) *gorm.DB {
	db, err := OpenDB(cfg.DatabaseURL())
	if err != nil {
		panic(err)
	}
	return db
}

// SetupTestDB connects to the local test database. Callers skip when it errors.
func SetupTestDB() (*gorm.DB, error) {
	cfg := config.Config{
		DBUsername: "outfit",
		DBPassword: "outfit",
		DBHost:     "localhost",
		DBPort:     "5432",
		DBName:     "outfit_test",
	}
	return OpenDB(cfg.DatabaseURL())
}
