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

// TagHandler handles HTTP requests for the authenticated user's tags.
type TagHandler struct {
	tagService *services.TagService
	validate   *validator.Validate
	log        *zap.SugaredLogger
}

// NewTagHandler creates a new TagHandler.
func NewTagHandler(tagService *services.TagService, log *zap.SugaredLogger) *TagHandler {
	return &TagHandler{
		tagService: tagService,
		validate:   newValidator(),
		log:        log,
	}
}

// RegisterRoutes registers the tag routes with the Fiber app.
func (h *TagHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	tagRoutes := router.Group("/tags", auth)
	tagRoutes.Get("/", h.HandleList)
	tagRoutes.Post("/", h.HandleCreate)
	tagRoutes.Get("/:id", h.HandleGet)
	tagRoutes.Put("/:id", h.HandleUpdate(false))
	tagRoutes.Patch("/:id", h.HandleUpdate(true))
	tagRoutes.Delete("/:id", h.HandleDelete)
}

// HandleList lists tags filtered by the id and name query parameters.
func (h *TagHandler) HandleList(c *fiber.Ctx) error {
	filter, err := query.Parse(c.Queries(), query.TagParams)
	if err != nil {
		return respondError(c, h.log, err)
	}

	tags, err := h.tagService.ListTags(c.UserContext(), middleware.CurrentUser(c), filter)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(models.NewTagResponses(tags))
}

func (h *TagHandler) HandleGet(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, h.log, err)
	}

	tag, err := h.tagService.GetTag(c.UserContext(), middleware.CurrentUser(c), id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(models.NewTagResponse(tag))
}

func (h *TagHandler) HandleCreate(c *fiber.Ctx) error {
	var req models.TagRequest
	if err := bind(c, h.validate, &req); err != nil {
		return respondError(c, h.log, err)
	}

	tag, err := h.tagService.CreateTag(c.UserContext(), middleware.CurrentUser(c), req)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(models.NewTagResponse(tag))
}

// HandleUpdate serves PUT (partial=false) and PATCH (partial=true).
func (h *TagHandler) HandleUpdate(partial bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := pathID(c)
		if err != nil {
			return respondError(c, h.log, err)
		}
		var req models.TagRequest
		if err := bind(c, h.validate, &req); err != nil {
			return respondError(c, h.log, err)
		}

		tag, err := h.tagService.UpdateTag(c.UserContext(), middleware.CurrentUser(c), id, req, partial)
		if err != nil {
			return respondError(c, h.log, err)
		}
		return c.JSON(models.NewTagResponse(tag))
	}
}

func (h *TagHandler) HandleDelete(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, h.log, err)
	}

	if err := h.tagService.DeleteTag(c.UserContext(), middleware.CurrentUser(c), id); err != nil {
		return respondError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
