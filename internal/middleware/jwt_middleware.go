package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"recipebox/internal/apperr"
	"recipebox/internal/models"
	"recipebox/internal/services"
)

// UserKey is the Locals key holding the authenticated *models.User.
const UserKey = "user"

// AuthRequired is a Fiber middleware to check for a valid JWT token and load
// the user it was issued to.
func AuthRequired(authService *services.AuthService, log *zap.SugaredLogger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return unauthorized(c, "Authorization header is required")
		}

		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer" && parts[1] != "") {
			return unauthorized(c, "Authorization header format must be 'Bearer <token>'")
		}

		user, err := authService.Authenticate(c.UserContext(), parts[1])
		if err != nil {
			appErr := apperr.From(err)
			if appErr.Code != apperr.CodeUnauthorized {
				log.Errorw("failed to authenticate request", "path", c.Path(), "error", err)
				return c.Status(appErr.Status()).JSON(apperr.ErrInternal)
			}
			log.Debugw("JWT validation failed", "error", err)
			return unauthorized(c, "Invalid or expired token")
		}

		c.Locals(UserKey, user)
		return c.Next()
	}
}

// CurrentUser returns the user stored by AuthRequired.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(UserKey).(*models.User)
	return user
}

func unauthorized(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(&apperr.Error{
		Code:    apperr.CodeUnauthorized,
		Message: msg,
	})
}
