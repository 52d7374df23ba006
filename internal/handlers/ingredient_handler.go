package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"recipebox/internal/middleware"
	"recipebox/internal/models"
	"recipebox/internal/query"
	"recipebox/internal/services"
)

// IngredientHandler handles HTTP requests for the authenticated user's ingredients.
type IngredientHandler struct {
	ingredientService *services.IngredientService
	validate          *validator.Validate
	log               *zap.SugaredLogger
}

// NewIngredientHandler creates a new IngredientHandler.
func NewIngredientHandler(ingredientService *services.IngredientService, log *zap.SugaredLogger) *IngredientHandler {
	return &IngredientHandler{
		ingredientService: ingredientService,
		validate:          newValidator(),
		log:               log,
	}
}

// RegisterRoutes registers the ingredient routes with the Fiber app.
func (h *IngredientHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	ingredientRoutes := router.Group("/ingredients", auth)
	ingredientRoutes.Get("/", h.HandleList)
	ingredientRoutes.Post("/", h.HandleCreate)
	ingredientRoutes.Get("/:id", h.HandleGet)
	ingredientRoutes.Put("/:id", h.HandleUpdate(false))
	ingredientRoutes.Patch("/:id", h.HandleUpdate(true))
	ingredientRoutes.Delete("/:id", h.HandleDelete)
}

// HandleList lists ingredients filtered by the id and name query parameters.
func (h *IngredientHandler) HandleList(c *fiber.Ctx) error {
	filter, err := query.Parse(c.Queries(), query.IngredientParams)
	if err != nil {
		return respondError(c, h.log, err)
	}

	ingredients, err := h.ingredientService.ListIngredients(c.UserContext(), middleware.CurrentUser(c), filter)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(models.NewIngredientResponses(ingredients))
}

func (h *IngredientHandler) HandleGet(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, h.log, err)
	}

	ingredient, err := h.ingredientService.GetIngredient(c.UserContext(), middleware.CurrentUser(c), id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(models.NewIngredientResponse(ingredient))
}

func (h *IngredientHandler) HandleCreate(c *fiber.Ctx) error {
	var req models.IngredientRequest
	if err := bind(c, h.validate, &req); err != nil {
		return respondError(c, h.log, err)
	}

	ingredient, err := h.ingredientService.CreateIngredient(c.UserContext(), middleware.CurrentUser(c), req)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(models.NewIngredientResponse(ingredient))
}

// HandleUpdate serves PUT (partial=false) and PATCH (partial=true).
func (h *IngredientHandler) HandleUpdate(partial bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := pathID(c)
		if err != nil {
			return respondError(c, h.log, err)
		}
		var req models.IngredientRequest
		if err := bind(c, h.validate, &req); err != nil {
			return respondError(c, h.log, err)
		}

		ingredient, err := h.ingredientService.UpdateIngredient(c.UserContext(), middleware.CurrentUser(c), id, req, partial)
		if err != nil {
			return respondError(c, h.log, err)
		}
		return c.JSON(models.NewIngredientResponse(ingredient))
	}
}

func (h *IngredientHandler) HandleDelete(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, h.log, err)
	}

	if err := h.ingredientService.DeleteIngredient(c.UserContext(), middleware.CurrentUser(c), id); err != nil {
		return respondError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
