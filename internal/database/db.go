package database

import (
	"market-backend/internal/config"
	"market-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Open: Postgres bağlantısını açar ve şema migrasyonunu çalıştırır.
// Global DB değişkeni yok; handle çağırana döner, bağımlılıklar main'de
// açıkça kurulur.
func Open(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate: tüm model tablolarını oluşturur/günceller. Testler de aynı
// migrasyonu in-memory SQLite üzerinde çalıştırır.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Branch{},
		&models.User{},
		&models.Product{},
		&models.BranchStock{},
		&models.TransferRequest{},
		&models.TransferItem{},
		&models.Alert{},
	)
}
