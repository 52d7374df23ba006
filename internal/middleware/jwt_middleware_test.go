package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"recipebox/internal/database"
	"recipebox/internal/middleware"
	"recipebox/internal/models"
	"recipebox/internal/repositories"
	"recipebox/internal/services"
)

func setup(t *testing.T) (*fiber.App, *services.AuthService, repositories.UserRepository) {
	t.Helper()
	db, err := database.OpenInMemory(uuid.NewString())
	require.NoError(t, err)

	users := repositories.NewGORMUserRepository(db)
	auth := services.NewAuthService(users, "secret", time.Hour)

	app := fiber.New()
	app.Get("/me", middleware.AuthRequired(auth, zap.NewNop().Sugar()), func(c *fiber.Ctx) error {
		return c.SendString(middleware.CurrentUser(c).Email)
	})
	return app, auth, users
}

func TestAuthRequired(t *testing.T) {
	app, auth, users := setup(t)
	ctx := context.Background()

	hash, _ := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.MinCost)
	user := &models.User{Email: "user@example.com", Password: string(hash), Name: "User"}
	require.NoError(t, users.Create(ctx, user))
	token, err := auth.LoginUser(ctx, "user@example.com", "password")
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Token " + token, http.StatusUnauthorized},
		{"garbage token", "Bearer abc.def.ghi", http.StatusUnauthorized},
		{"valid token", "Bearer " + token, http.StatusOK},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tc.status, resp.StatusCode)
		})
	}

	// Token of a deleted user is rejected
	require.NoError(t, users.Delete(ctx, user.ID))
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
