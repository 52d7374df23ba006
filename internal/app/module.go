// Package app assembles the service with fx: configuration, logging, the
// database, repositories, services, HTTP handlers and the event broker.
package app

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"recipebox/internal/config"
	"recipebox/internal/database"
	"recipebox/internal/handlers"
	"recipebox/internal/logger"
	"recipebox/internal/media"
	"recipebox/internal/repositories"
	"recipebox/internal/services"
	"recipebox/pkg/rabbitmq"
)

var Module = fx.Options(
	fx.Provide(
		config.NewConfig,
		logger.New,
		NewDB,
		NewMediaStorage,
		NewRabbitClient,
		NewEventPublisher,
		services.NewNotifier,

		fx.Annotate(repositories.NewGORMUserRepository, fx.As(new(repositories.UserRepository))),
		fx.Annotate(repositories.NewGORMTagRepository, fx.As(new(repositories.TagRepository))),
		fx.Annotate(repositories.NewGORMIngredientRepository, fx.As(new(repositories.IngredientRepository))),
		fx.Annotate(repositories.NewGORMRecipeRepository, fx.As(new(repositories.RecipeRepository))),

		NewAuthService,
		services.NewTagService,
		services.NewIngredientService,
		services.NewRecipeService,

		handlers.NewUserHandler,
		handlers.NewTagHandler,
		handlers.NewIngredientHandler,
		NewRecipeHandler,

		NewServer,
	),
	fx.WithLogger(func(log *zap.SugaredLogger) fxevent.Logger {
		return &fxevent.ZapLogger{Logger: log.Desugar().Named("fx")}
	}),
	fx.Invoke(func(*fiber.App) {}),
	fx.Invoke(StartConsumer),
	fx.Invoke(syncLogger),
)

// NewDB opens the configured database and closes it on stop.
func NewDB(lc fx.Lifecycle, cfg *config.Config, log *zap.SugaredLogger) (*gorm.DB, error) {
	db, err := database.NewGormClient(cfg, logger.Gorm(log, cfg))
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			log.Info("Closing database connection.")
			return sqlDB.Close()
		},
	})
	return db, nil
}

func NewMediaStorage(cfg *config.Config) (*media.Storage, error) {
	return media.NewStorage(cfg.MediaRoot, cfg.MediaMaxWidth)
}

// NewRabbitClient connects to the broker, or returns nil when RABBITMQ_URL
// is empty.
func NewRabbitClient(lc fx.Lifecycle, cfg *config.Config, log *zap.SugaredLogger) (*rabbitmq.Client, error) {
	if cfg.RabbitMQURL == "" {
		log.Info("RabbitMQ disabled, events will not be published")
		return nil, nil
	}

	client, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL, Queue: cfg.RabbitMQQueue}, log)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})
	return client, nil
}

// NewEventPublisher exposes the broker client to the services. A disabled
// broker yields a nil interface rather than a typed nil.
func NewEventPublisher(client *rabbitmq.Client) services.EventPublisher {
	if client == nil {
		return nil
	}
	return client
}

// NewAuthService builds the auth service and warns when tokens are signed
// with the public development secret.
func NewAuthService(repo repositories.UserRepository, cfg *config.Config, log *zap.SugaredLogger) *services.AuthService {
	if cfg.UsesDevJWTSecret() {
		log.Warnw("JWT_SECRET is not set, signing tokens with the development secret; set RECIPEBOX_JWT_SECRET outside local development",
			"app_env", cfg.AppEnv)
	}
	return services.NewAuthService(repo, cfg.JWTSecret, cfg.TokenTTL)
}

func NewRecipeHandler(recipeService *services.RecipeService, cfg *config.Config, log *zap.SugaredLogger) *handlers.RecipeHandler {
	return handlers.NewRecipeHandler(recipeService, cfg.MediaURL, log)
}

// StartConsumer logs queued events when EVENTS_CONSUME is set.
func StartConsumer(lc fx.Lifecycle, cfg *config.Config, client *rabbitmq.Client, log *zap.SugaredLogger) {
	if client == nil || !cfg.EventsConsume {
		return
	}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return client.Consume(rabbitmq.LogEvent(log.Named("events")))
		},
	})
}

func syncLogger(lc fx.Lifecycle, log *zap.SugaredLogger) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			_ = log.Sync()
			return nil
		},
	})
}
