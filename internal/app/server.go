package app

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"recipebox/internal/apperr"
	"recipebox/internal/config"
	"recipebox/internal/handlers"
	"recipebox/internal/middleware"
	"recipebox/internal/services"
)

// Handlers groups the HTTP handlers mounted under /api/v1.
type Handlers struct {
	fx.In

	Users       *handlers.UserHandler
	Tags        *handlers.TagHandler
	Ingredients *handlers.IngredientHandler
	Recipes     *handlers.RecipeHandler
}

// NewFiberApp creates the Fiber app with the JSON codec, body limit, error
// handler and common middleware.
func NewFiberApp(cfg *config.Config, log *zap.SugaredLogger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "recipebox",
		BodyLimit:             cfg.MaxUploadBytes,
		JSONEncoder:           json.Marshal,
		JSONDecoder:           json.Unmarshal,
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler(log),
	})

	app.Use(recover.New())
	app.Use(cors.New())
	if !cfg.IsProduction() {
		app.Use(fiberlogger.New())
	}
	return app
}

// RegisterRoutes mounts the API, the health check and the media files.
func RegisterRoutes(app *fiber.App, cfg *config.Config, h Handlers, authService *services.AuthService, log *zap.SugaredLogger) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})
	app.Static(mediaPrefix(cfg.MediaURL), cfg.MediaRoot, fiber.Static{Browse: false})

	auth := middleware.AuthRequired(authService, log)
	apiV1 := app.Group("/api/v1")

	// /user/create and /user/token are public; /user/me carries its own auth.
	h.Users.RegisterRoutes(apiV1, auth)

	// Auth is mounted per resource prefix so unknown paths still 404.
	h.Tags.RegisterRoutes(apiV1, auth)
	h.Ingredients.RegisterRoutes(apiV1, auth)
	h.Recipes.RegisterRoutes(apiV1, auth)
}

// NewServer builds the HTTP server and ties it to the fx lifecycle.
func NewServer(lc fx.Lifecycle, cfg *config.Config, h Handlers, authService *services.AuthService, log *zap.SugaredLogger) *fiber.App {
	app := NewFiberApp(cfg, log)
	RegisterRoutes(app, cfg, h, authService, log)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Infow("starting HTTP server", "addr", cfg.Addr())
				if err := app.Listen(cfg.Addr()); err != nil {
					log.Errorw("HTTP server stopped", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Stopping HTTP server.")
			return app.ShutdownWithContext(ctx)
		},
	})

	return app
}

// errorHandler renders errors that escape handlers, such as unknown routes
// or oversized bodies, in the API error shape.
func errorHandler(log *zap.SugaredLogger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code := apperr.CodeValidation
			switch {
			case fe.Code == fiber.StatusNotFound:
				code = apperr.CodeNotFound
			case fe.Code >= fiber.StatusInternalServerError:
				code = apperr.CodeInternal
			}
			return c.Status(fe.Code).JSON(&apperr.Error{Code: code, Message: fe.Message})
		}
		log.Errorw("unhandled error", "method", c.Method(), "path", c.Path(), "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(apperr.ErrInternal)
	}
}

// mediaPrefix is the local mount point for MEDIA_URL, which may be a path
// or an absolute URL.
func mediaPrefix(mediaURL string) string {
	path := mediaURL
	if u, err := url.Parse(mediaURL); err == nil {
		path = u.Path
	}
	return "/" + strings.Trim(path, "/")
}
