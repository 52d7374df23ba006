package handlers

import (
	"fmt"
	"io"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"recipebox/internal/apperr"
	"recipebox/internal/middleware"
	"recipebox/internal/models"
	"recipebox/internal/query"
	"recipebox/internal/services"
)

// RecipeHandler handles HTTP requests for the authenticated user's recipes.
// Lists render summaries; every other response renders the detail shape.
type RecipeHandler struct {
	recipeService *services.RecipeService
	validate      *validator.Validate
	mediaURL      string
	log           *zap.SugaredLogger
}

// NewRecipeHandler creates a new RecipeHandler. mediaURL prefixes stored
// image paths in responses.
func NewRecipeHandler(recipeService *services.RecipeService, mediaURL string, log *zap.SugaredLogger) *RecipeHandler {
	return &RecipeHandler{
		recipeService: recipeService,
		validate:      newValidator(),
		mediaURL:      mediaURL,
		log:           log,
	}
}

// RegisterRoutes registers the recipe routes with the Fiber app.
func (h *RecipeHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	recipeRoutes := router.Group("/recipes", auth)
	recipeRoutes.Get("/", h.HandleList)
	recipeRoutes.Post("/", h.HandleCreate)
	recipeRoutes.Get("/:id", h.HandleGet)
	recipeRoutes.Put("/:id", h.HandleUpdate(false))
	recipeRoutes.Patch("/:id", h.HandleUpdate(true))
	recipeRoutes.Delete("/:id", h.HandleDelete)
	recipeRoutes.Post("/:id/upload-image", h.HandleUploadImage)
}

// HandleList lists recipes filtered by id, title, tags and ingredients.
func (h *RecipeHandler) HandleList(c *fiber.Ctx) error {
	filter, err := query.Parse(c.Queries(), query.RecipeParams)
	if err != nil {
		return respondError(c, h.log, err)
	}

	recipes, err := h.recipeService.ListRecipes(c.UserContext(), middleware.CurrentUser(c), filter)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(models.NewRecipeSummaries(recipes))
}

func (h *RecipeHandler) HandleGet(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, h.log, err)
	}

	recipe, err := h.recipeService.GetRecipe(c.UserContext(), middleware.CurrentUser(c), id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(models.NewRecipeDetail(recipe, h.mediaURL))
}

// HandleCreate creates a recipe together with its nested tags and ingredients.
func (h *RecipeHandler) HandleCreate(c *fiber.Ctx) error {
	var req models.RecipeRequest
	if err := bind(c, h.validate, &req); err != nil {
		return respondError(c, h.log, err)
	}

	recipe, err := h.recipeService.CreateRecipe(c.UserContext(), middleware.CurrentUser(c), req)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(models.NewRecipeDetail(recipe, h.mediaURL))
}

// HandleUpdate serves PUT (partial=false) and PATCH (partial=true).
func (h *RecipeHandler) HandleUpdate(partial bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := pathID(c)
		if err != nil {
			return respondError(c, h.log, err)
		}
		var req models.RecipeRequest
		if err := bind(c, h.validate, &req); err != nil {
			return respondError(c, h.log, err)
		}

		recipe, err := h.recipeService.UpdateRecipe(c.UserContext(), middleware.CurrentUser(c), id, req, partial)
		if err != nil {
			return respondError(c, h.log, err)
		}
		return c.JSON(models.NewRecipeDetail(recipe, h.mediaURL))
	}
}

func (h *RecipeHandler) HandleDelete(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, h.log, err)
	}

	if err := h.recipeService.DeleteRecipe(c.UserContext(), middleware.CurrentUser(c), id); err != nil {
		return respondError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleUploadImage attaches the multipart "image" file to the recipe.
func (h *RecipeHandler) HandleUploadImage(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, h.log, err)
	}

	fh, err := c.FormFile("image")
	if err != nil {
		return respondError(c, h.log, apperr.FieldError("image", "No file was submitted."))
	}
	f, err := fh.Open()
	if err != nil {
		return respondError(c, h.log, fmt.Errorf("open upload: %w", err))
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return respondError(c, h.log, fmt.Errorf("read upload: %w", err))
	}

	recipe, err := h.recipeService.UploadImage(c.UserContext(), middleware.CurrentUser(c), id, fh.Filename, data)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(models.NewRecipeImageResponse(recipe, h.mediaURL))
}
