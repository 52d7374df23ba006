package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"recipebox/internal/middleware"
	"recipebox/internal/models"
	"recipebox/internal/services"
)

// UserHandler handles registration, token issue and the authenticated
// user's own profile.
type UserHandler struct {
	authService *services.AuthService
	validate    *validator.Validate
	log         *zap.SugaredLogger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(authService *services.AuthService, log *zap.SugaredLogger) *UserHandler {
	return &UserHandler{
		authService: authService,
		validate:    newValidator(),
		log:         log,
	}
}

// RegisterRoutes registers the user routes. create and token are public,
// me requires auth.
func (h *UserHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	userRoutes := router.Group("/user")
	userRoutes.Post("/create", h.HandleCreate)
	userRoutes.Post("/token", h.HandleToken)
	userRoutes.Get("/me", auth, h.HandleMe)
	userRoutes.Put("/me", auth, h.HandleUpdateMe(false))
	userRoutes.Patch("/me", auth, h.HandleUpdateMe(true))
	userRoutes.Delete("/me", auth, h.HandleDeleteMe)
}

// HandleCreate registers a new user.
func (h *UserHandler) HandleCreate(c *fiber.Ctx) error {
	var req models.UserCreateRequest
	if err := bind(c, h.validate, &req); err != nil {
		return respondError(c, h.log, err)
	}

	user, err := h.authService.RegisterUser(c.UserContext(), req)
	if err != nil {
		return respondError(c, h.log, err)
	}
	h.log.Infow("user registered", "user_id", user.ID)
	return c.Status(fiber.StatusCreated).JSON(models.NewUserResponse(user))
}

// HandleToken issues a JWT for valid credentials.
func (h *UserHandler) HandleToken(c *fiber.Ctx) error {
	var req models.TokenRequest
	if err := bind(c, h.validate, &req); err != nil {
		return respondError(c, h.log, err)
	}

	token, err := h.authService.LoginUser(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(models.TokenResponse{Token: token})
}

// HandleMe returns the authenticated user.
func (h *UserHandler) HandleMe(c *fiber.Ctx) error {
	return c.JSON(models.NewUserResponse(middleware.CurrentUser(c)))
}

// HandleUpdateMe updates the authenticated user; partial selects PATCH semantics.
func (h *UserHandler) HandleUpdateMe(partial bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.UserUpdateRequest
		if err := bind(c, h.validate, &req); err != nil {
			return respondError(c, h.log, err)
		}

		user, err := h.authService.UpdateUser(c.UserContext(), middleware.CurrentUser(c), req, partial)
		if err != nil {
			return respondError(c, h.log, err)
		}
		return c.JSON(models.NewUserResponse(user))
	}
}

// HandleDeleteMe deletes the authenticated user and everything they own.
func (h *UserHandler) HandleDeleteMe(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if err := h.authService.DeleteUser(c.UserContext(), user); err != nil {
		return respondError(c, h.log, err)
	}
	h.log.Infow("user deleted", "user_id", user.ID)
	return c.SendStatus(fiber.StatusNoContent)
}
