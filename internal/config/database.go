package config

import (
	"errors"
	"fmt"
	"strings"

	"sairaklin-backend/internal/models"
	"sairaklin-backend/pkg/utils"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ConnectDB membuka koneksi gorm sesuai DB_DRIVER.
// TranslateError wajib nyala: pelanggaran unique index dibaca sebagai gorm.ErrDuplicatedKey.
func ConnectDB(cfg *Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case "mysql":
		dialector = mysql.Open(cfg.DBDSN)
	case "sqlite":
		dialector = sqlite.Open(cfg.DBDSN)
	default:
		return nil, fmt.Errorf("DB_DRIVER tidak dikenal: %q", cfg.DBDriver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("gagal konek database: %w", err)
	}

	utils.InfoLogger.WithField("driver", cfg.DBDriver).Info("Database connected")
	return db, nil
}

// Migrate membuat/menyesuaikan semua tabel.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Order{},
		&models.Review{},
		&models.Session{},
	)
}

// SeedAdmin memastikan akun admin ada. Dilewati kalau ADMIN_PASSWORD kosong.
func SeedAdmin(db *gorm.DB, cfg *Config) error {
	if cfg.AdminPassword == "" {
		utils.InfoLogger.Info("ADMIN_PASSWORD kosong, seed admin dilewati")
		return nil
	}

	// login selalu lowercase, username admin disimpan dengan aturan yang sama
	username := strings.ToLower(strings.TrimSpace(cfg.AdminUsername))

	var existing models.User
	err := db.Where("username = ?", username).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("cek admin: %w", err)
	}

	hash, err := utils.HashPassword(cfg.AdminPassword)
	if err != nil {
		return fmt.Errorf("hash password admin: %w", err)
	}

	admin := models.User{
		Name:         "Administrator",
		Username:     username,
		Email:        strings.ToLower(cfg.AdminEmail),
		PasswordHash: hash,
		Role:         models.RoleAdmin,
		Bio:          "Administrator Account",
	}
	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}

	utils.InfoLogger.WithField("username", admin.Username).Info("Admin account seeded")
	return nil
}
