package services

import (
	"fmt"
	"testing"
	"time"

	"sairaklin-backend/internal/config"
	"sairaklin-backend/internal/models"
	"sairaklin-backend/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testSecret = []byte("rahasia-test")

func init() {
	utils.SilenceLoggers()
}

// newTestDB database SQLite in-memory baru untuk tiap test.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, config.Migrate(db))
	return db
}

func newAuthService(db *gorm.DB) *AuthService {
	return NewAuthService(db, AuthOptions{
		Secret:              testSecret,
		TokenTTL:            time.Hour,
		AllowedEmailDomains: []string{"gmail.com"},
	})
}

// seedUser langsung insert user ke DB (tanpa validasi register).
func seedUser(t *testing.T, db *gorm.DB, username, role string) *Session {
	t.Helper()

	hash, err := utils.HashPassword("rahasia!")
	require.NoError(t, err)

	user := models.User{
		Name:         "User " + username,
		Username:     username,
		Email:        username + "@gmail.com",
		PasswordHash: hash,
		Role:         role,
	}
	require.NoError(t, db.Create(&user).Error)
	return &Session{User: &user, TokenID: uuid.NewString()}
}

func validOrderInput() models.CreateOrderInput {
	return models.CreateOrderInput{
		ServiceType: "room",
		Date:        "2025-12-01",
		Time:        "10:00",
		Address:     "Jl. X",
	}
}

// seedOrder membuat order lewat service lalu (opsional) memaksa statusnya.
func seedOrder(t *testing.T, db *gorm.DB, owner *Session, status string) *models.Order {
	t.Helper()

	order, err := NewOrderService(db, OrderOptions{}).CreateOrder(t.Context(), owner.User.ID, validOrderInput())
	require.NoError(t, err)

	if status != "" && status != order.Status {
		require.NoError(t, db.Model(order).Update("status", status).Error)
		order.Status = status
	}
	return order
}

func fieldsOf(t *testing.T, err error) map[string]string {
	t.Helper()
	appErr, ok := AsError(err)
	require.True(t, ok, "expected *services.Error, got %v", err)
	return appErr.Fields
}
