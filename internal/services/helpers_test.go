package services

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/goaltrackhq/goaltrack-backend/internal/config"
	"github.com/goaltrackhq/goaltrack-backend/internal/dto"
	"github.com/goaltrackhq/goaltrack-backend/internal/models"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	// A single connection keeps every query on the same in-memory database.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&models.User{}, &models.Goal{}, &models.CompletedGoal{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newTestConfig() *config.Config {
	return &config.Config{
		JWTSecret:       "test-secret",
		JWTAccessExpiry: time.Hour,
	}
}

func registerTestUser(t *testing.T, auth *AuthService, email string) *models.User {
	t.Helper()

	resp, err := auth.Register(&dto.RegisterRequest{
		Name:     "Test User",
		Email:    email,
		Password: "correct-horse",
	})
	if err != nil {
		t.Fatalf("register %s: %v", email, err)
	}
	return &resp.User
}

func float64Ptr(v float64) *float64 { return &v }
