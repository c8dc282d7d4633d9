package integration

import (
	"encoding/json"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"support-agent-be/internal/bootstrap"
	"support-agent-be/internal/config"
	"support-agent-be/internal/constant"
	"support-agent-be/internal/dto"
	"support-agent-be/internal/model"
	"support-agent-be/internal/server"
	"support-agent-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
)

func TestAgentAPIRoleGating(t *testing.T) {
	// Load .env from root (2 levels up) because tests run in package dir
	if err := godotenv.Load("../../.env"); err != nil {
		t.Logf("Warning: Could not load ../../.env: %v", err)
	}
	if os.Getenv("DB_CONNECTION_STRING") == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}
	cfg := config.Load()

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	container := bootstrap.NewContainer(db, cfg)
	srv := server.New(cfg, container)
	app := srv.GetApp()

	// Seed one user per role
	pass := "secret12345"
	hash, _ := bcrypt.GenerateFromPassword([]byte(pass), bcrypt.DefaultCost)
	hashStr := string(hash)

	customerId := uuid.New()
	customer := model.User{
		Id:           customerId,
		Email:        "test-customer-" + uuid.New().String() + "@example.com",
		Name:         "Test Customer",
		PasswordHash: &hashStr,
		Role:         constant.RoleUser,
	}

	adminId := uuid.New()
	admin := model.User{
		Id:           adminId,
		Email:        "test-admin-" + uuid.New().String() + "@example.com",
		Name:         "Test Admin",
		PasswordHash: &hashStr,
		Role:         constant.RoleAdmin,
	}

	db.Create(&customer)
	db.Create(&admin)

	defer func() {
		db.Unscoped().Delete(&model.User{}, customerId)
		db.Unscoped().Delete(&model.User{}, adminId)
	}()

	login := func(t *testing.T, email string) string {
		reqBody := dto.LoginRequest{Email: email, Password: pass}
		body, _ := json.Marshal(reqBody)

		req := httptest.NewRequest("POST", "/api/auth/v1/login", strings.NewReader(string(body)))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req, -1)
		assert.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)

		var result struct {
			Data dto.LoginResponse `json:"data"`
		}
		json.NewDecoder(resp.Body).Decode(&result)
		assert.NotEmpty(t, result.Data.Token)
		return result.Data.Token
	}

	t.Run("Invalid Password", func(t *testing.T) {
		reqBody := dto.LoginRequest{Email: customer.Email, Password: "wrongpassword"}
		body, _ := json.Marshal(reqBody)

		req := httptest.NewRequest("POST", "/api/auth/v1/login", strings.NewReader(string(body)))
		req.Header.Set("Content-Type", "application/json")

		resp, _ := app.Test(req, -1)
		assert.Equal(t, 401, resp.StatusCode)
	})

	t.Run("Customer sees no staff tools", func(t *testing.T) {
		token := login(t, customer.Email)

		req := httptest.NewRequest("GET", "/api/agent/v1/tools", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		resp, _ := app.Test(req, -1)
		assert.Equal(t, 200, resp.StatusCode)

		var result struct {
			Data []dto.ListToolsResponse `json:"data"`
		}
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Empty(t, result.Data)
	})

	t.Run("Admin sees ticket tools", func(t *testing.T) {
		token := login(t, admin.Email)

		req := httptest.NewRequest("GET", "/api/agent/v1/tools", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		resp, _ := app.Test(req, -1)
		assert.Equal(t, 200, resp.StatusCode)

		var result struct {
			Data []dto.ListToolsResponse `json:"data"`
		}
		json.NewDecoder(resp.Body).Decode(&result)

		names := make([]string, 0, len(result.Data))
		for _, tl := range result.Data {
			names = append(names, tl.Name)
		}
		assert.Contains(t, names, "close_ticket")
		assert.Contains(t, names, "assign_ticket")
		assert.NotContains(t, names, "escalate_ticket")
	})

	t.Run("Customer cannot create KB articles", func(t *testing.T) {
		token := login(t, customer.Email)

		reqBody := map[string]string{
			"title":    "Should not exist",
			"content":  "Customers cannot author knowledge base articles.",
			"category": "account",
		}
		body, _ := json.Marshal(reqBody)

		req := httptest.NewRequest("POST", "/api/kb/v1", strings.NewReader(string(body)))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)

		resp, _ := app.Test(req, -1)
		assert.Equal(t, 403, resp.StatusCode)
	})

	t.Run("Customer cannot read pipeline metrics", func(t *testing.T) {
		token := login(t, customer.Email)

		req := httptest.NewRequest("GET", "/api/agent/v1/metrics/"+uuid.New().String(), nil)
		req.Header.Set("Authorization", "Bearer "+token)

		resp, _ := app.Test(req, -1)
		assert.Equal(t, 403, resp.StatusCode)
	})

	t.Run("Tools endpoint rejects missing token", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/agent/v1/tools", nil)
		resp, _ := app.Test(req, -1)
		assert.Equal(t, 401, resp.StatusCode)
	})
}
