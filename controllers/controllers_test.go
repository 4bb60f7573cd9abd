package controllers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"trainhub/config"
	"trainhub/models"
	"trainhub/routes"
	"trainhub/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type nopMailer struct{}

func (nopMailer) Send(string, string, string) error { return nil }

type testEnv struct {
	app        *fiber.App
	db         *gorm.DB
	cfg        *config.Config
	adminToken string
	userToken  string
	admin      models.User
	user       models.User
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, utils.Migrate(db))

	cfg := &config.Config{
		JWTSecret:      "test-secret",
		StorageBaseURL: "http://files.test",
		StorageSecret:  "sign-secret",
		StorageRoot:    t.TempDir(),
	}

	app := fiber.New()
	routes.SetupRoutes(app, db, cfg, nopMailer{}, log.New(io.Discard, "", 0))

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	require.NoError(t, err)

	admin := models.User{Username: "admin", Email: "admin@example.com", PasswordHash: string(hash), Role: "admin"}
	require.NoError(t, db.Create(&admin).Error)

	user := models.User{Username: "learner", Email: "learner@example.com", PasswordHash: string(hash), Role: "user"}
	require.NoError(t, db.Create(&user).Error)

	adminToken, err := utils.GenerateJWTToken(admin.ID, cfg)
	require.NoError(t, err)
	userToken, err := utils.GenerateJWTToken(user.ID, cfg)
	require.NoError(t, err)

	return &testEnv{
		app:        app,
		db:         db,
		cfg:        cfg,
		adminToken: adminToken,
		userToken:  userToken,
		admin:      admin,
		user:       user,
	}
}

func (e *testEnv) request(t *testing.T, method, path, token string, body interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewBuffer(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", token)
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()

	var result map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	return result
}
