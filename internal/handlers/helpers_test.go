package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/goaltrackhq/goaltrack-backend/internal/config"
	"github.com/goaltrackhq/goaltrack-backend/internal/database"
	"github.com/goaltrackhq/goaltrack-backend/internal/handlers"
	"github.com/goaltrackhq/goaltrack-backend/internal/models"
	"github.com/goaltrackhq/goaltrack-backend/internal/routes"
	"github.com/goaltrackhq/goaltrack-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestApp(t *testing.T) (*fiber.App, *config.Config) {
	app, cfg, _ := newTestAppWithDB(t)
	return app, cfg
}

func newTestAppWithDB(t *testing.T) (*fiber.App, *config.Config, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&models.User{}, &models.Goal{}, &models.CompletedGoal{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	database.DB = db

	cfg := &config.Config{
		JWTSecret:       "handler-test-secret",
		JWTAccessExpiry: time.Hour,
	}

	authService := services.NewAuthService(db, cfg)
	userService := services.NewUserService(db)
	goalService := services.NewGoalService(db)

	app := fiber.New()
	routes.Setup(app, cfg,
		handlers.NewAuthHandler(authService),
		handlers.NewGoalHandler(goalService),
		handlers.NewPointsHandler(userService),
		handlers.NewHealthHandler(),
	)
	return app, cfg, db
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	}

	request := httptest.NewRequest(method, path, reader)
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}

	response, err := app.Test(request, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return response
}

func decodeJSON(t *testing.T, response *http.Response, out interface{}) {
	t.Helper()
	defer response.Body.Close()

	raw, err := io.ReadAll(response.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		t.Fatalf("decode body %q: %v", string(raw), err)
	}
}

func requireStatus(t *testing.T, response *http.Response, want int) {
	t.Helper()
	if response.StatusCode != want {
		raw, _ := io.ReadAll(response.Body)
		t.Fatalf("expected status %d, got %d: %s", want, response.StatusCode, string(raw))
	}
}

// registerUser registers through the public endpoint and returns the issued
// token and the user id.
func registerUser(t *testing.T, app *fiber.App, name, email, password string) (string, string) {
	t.Helper()

	response := doJSON(t, app, http.MethodPost, "/api/register", "", fiber.Map{
		"name":     name,
		"email":    email,
		"password": password,
	})
	requireStatus(t, response, http.StatusCreated)

	var body struct {
		Token string `json:"token"`
		User  struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	decodeJSON(t, response, &body)
	if body.Token == "" || body.User.ID == "" {
		t.Fatalf("registration response incomplete: %+v", body)
	}
	return body.Token, body.User.ID
}

func createGoal(t *testing.T, app *fiber.App, token string, repeatable bool) string {
	t.Helper()

	response := doJSON(t, app, http.MethodPost, "/api/goals", token, fiber.Map{
		"description": "Run 5k",
		"points":      10,
		"mulct":       2,
		"deadline":    "2025-01-01",
		"repeatable":  repeatable,
	})
	requireStatus(t, response, http.StatusCreated)

	var goal struct {
		ID string `json:"id"`
	}
	decodeJSON(t, response, &goal)
	if goal.ID == "" {
		t.Fatal("goal response missing id")
	}
	return goal.ID
}
