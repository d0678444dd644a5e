package routes

import (
	"context"
	"fmt"
	"os"

	"cart-shop/config"
	"cart-shop/libs"
	"cart-shop/messaging"
	"cart-shop/repositories"
	"cart-shop/services"
	"cart-shop/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// App owns the router and every connection opened to build it.
type App struct {
	Router  *gin.Engine
	closers []func()
}

func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

func NewApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	app := &App{}

	if err := utils.RegisterValidations(); err != nil {
		return nil, fmt.Errorf("failed to register validations: %w", err)
	}
	if err := os.MkdirAll(cfg.UploadDir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	store, err := openStore(ctx, cfg, logger, app)
	if err != nil {
		app.Close()
		return nil, err
	}

	redisClient := config.ConnectRedis(ctx, cfg, logger)
	if redisClient != nil {
		app.closers = append(app.closers, func() { redisClient.Close() })
	}

	var events services.EventPublisher = messaging.NoopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		producer := messaging.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
		app.closers = append(app.closers, func() { producer.Close() })
		events = producer
		logger.Info("kafka events enabled", zap.Strings("brokers", cfg.KafkaBrokers), zap.String("topic", cfg.KafkaTopic))
	}

	var notifier services.Notifier
	if cfg.SMTPConfigured() {
		mailer, err := libs.NewMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom)
		if err != nil {
			logger.Warn("order confirmations disabled", zap.Error(err))
		} else {
			notifier = mailer
		}
	}

	var avatars services.AvatarStorage = &libs.LocalStorage{Dir: cfg.UploadDir, SubDir: "avatars", URLPrefix: "/uploads"}
	if cfg.CloudinaryConfigured() {
		cld, err := libs.NewCloudinaryStorage(cfg.CloudinaryURL, cfg.CloudinaryName, cfg.CloudinaryKey, cfg.CloudinarySec, "profiles", logger)
		if err != nil {
			logger.Warn("cloudinary unavailable, storing avatars locally", zap.Error(err))
		} else {
			avatars = cld
		}
	}

	app.Router = NewRouter(Dependencies{
		Store:         store,
		Cache:         services.NewProductCache(redisClient, cfg.CacheTTL, logger),
		Events:        events,
		Notifier:      notifier,
		Avatars:       avatars,
		Tokens:        utils.NewTokenManager(cfg.JWTSecret, cfg.JWTExpiry),
		Logger:        logger,
		OriginURL:     cfg.OriginURL,
		UploadDir:     cfg.UploadDir,
		MaxUploadSize: cfg.MaxUploadSize,
	})
	return app, nil
}

func openStore(ctx context.Context, cfg *config.Config, logger *zap.Logger, app *App) (repositories.Store, error) {
	switch cfg.StoreDriver {
	case "memory":
		logger.Warn("using in-memory store, data is lost on restart")
		return repositories.NewMemoryStore(), nil
	case "postgres", "":
		pool, err := config.ConnectDB(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		app.closers = append(app.closers, pool.Close)

		if err := config.RunMigrations(cfg.DSN(), cfg.MigrationsPath, logger); err != nil {
			return nil, err
		}
		return repositories.NewPostgresStore(pool), nil
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}
}
