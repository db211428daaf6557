// Package app wires configuration, storage, messaging and HTTP handlers into
// a runnable storefront service.
package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"printshop/internal/catalog"
	"printshop/internal/config"
	"printshop/internal/handlers"
	"printshop/internal/middleware"
	"printshop/internal/repositories"
	"printshop/internal/services"
	"printshop/pkg/rabbitmq"
	"printshop/pkg/storage"
)

// App is the assembled service.
type App struct {
	Fiber    *fiber.App
	Auth     *services.AuthService
	Sessions *services.SessionService

	cfg *config.Config
	log *zap.Logger
	db  *gorm.DB
	mq  *rabbitmq.Client
}

// New connects to the database, the message broker and object storage, and
// builds the HTTP application. The broker and object storage are optional:
// when they are unreachable or unconfigured the service runs without them.
func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (*App, error) {
	db, err := repositories.OpenDatabase(cfg.DatabaseDriver, cfg.DatabaseDSN, cfg.IsTest())
	if err != nil {
		return nil, err
	}
	if err := repositories.Migrate(db); err != nil {
		_ = closeDatabase(db)
		return nil, err
	}

	categories := catalog.Categories()
	for _, warning := range catalog.Validate(categories) {
		log.Warn("catalog warning", zap.String("warning", warning))
	}

	a := &App{cfg: cfg, log: log, db: db}

	var events services.EventPublisher
	if cfg.RabbitMQURL != "" {
		mq, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL}, log.Named("rabbitmq"))
		if err != nil {
			log.Warn("RabbitMQ unavailable, events will not be published", zap.Error(err))
		} else {
			a.mq = mq
			events = mq
		}
	}

	var images services.ImageStore
	if cfg.ImageUploadsEnabled() {
		store, err := storage.NewS3Store(ctx, storage.S3Config{
			Region:          cfg.AWSRegion,
			Bucket:          cfg.AWSS3Bucket,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretAccessKey,
		})
		if err != nil {
			log.Warn("S3 unavailable, image uploads disabled", zap.Error(err))
		} else {
			images = store
		}
	}

	// --- Repositories ---
	userRepo := repositories.NewGORMUserRepository(db)
	adminRepo := repositories.NewGORMAdminUserRepository(db)
	productRepo := repositories.NewGORMProductRepository(db)
	orderRepo := repositories.NewGORMOrderRepository(db)
	stockRepo := repositories.NewGORMStockRepository(db)
	stockOrderRepo := repositories.NewGORMStockOrderRepository(db)
	clientRepo := repositories.NewGORMClientRepository(db)

	// --- Services ---
	a.Auth = services.NewAuthService(userRepo, adminRepo, services.AuthConfig{
		JWTSecret:     cfg.JWTSecret,
		TokenTTL:      cfg.TokenTTL,
		AdminEmail:    cfg.AdminEmail,
		AdminPassword: cfg.AdminPassword,
	}, log.Named("auth"))
	adminService := services.NewAdminService(adminRepo, log.Named("admin"))
	productService := services.NewProductService(productRepo, images, log.Named("products"))
	orderService := services.NewOrderService(orderRepo, events, log.Named("orders"))
	inventoryService := services.NewInventoryService(stockRepo, stockOrderRepo, clientRepo, events, log.Named("inventory"))
	a.Sessions = services.NewSessionService(orderService, cfg.SessionTTL, log.Named("sessions"))

	if err := a.Auth.EnsureAdmin(); err != nil {
		a.release()
		return nil, err
	}
	if _, err := productService.Seed(categories); err != nil {
		a.release()
		return nil, err
	}

	// --- Fiber ---
	a.Fiber = fiber.New(fiber.Config{
		AppName:      "printshop",
		ErrorHandler: errorHandler(log),
	})
	a.Fiber.Use(recover.New())
	a.Fiber.Use(fiberlogger.New(fiberlogger.Config{
		Next: func(*fiber.Ctx) bool { return cfg.IsTest() },
	}))
	a.Fiber.Use(cors.New(cors.Config{
		ExposeHeaders: middleware.SessionHeader,
	}))

	authRequired := middleware.AuthRequired(a.Auth, log)
	adminRequired := middleware.AdminRequired(a.Auth)

	a.Fiber.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"name":     "printshop",
			"services": "/api/v1/services",
		})
	})
	a.Fiber.Get("/health", a.handleHealth)

	apiV1 := a.Fiber.Group("/api/v1")

	handlers.NewAuthHandler(a.Auth, log).RegisterRoutes(apiV1, authRequired)
	handlers.NewCatalogHandler(productService, log).RegisterRoutes(apiV1)

	// Cart and checkout belong to the visitor's session; signing in is optional.
	session := middleware.Session(cfg.SessionTTL, cfg.IsProduction())
	optionalAuth := middleware.OptionalAuth(a.Auth, log)
	handlers.NewCartHandler(a.Sessions, productService, log).RegisterRoutes(apiV1, session, optionalAuth)
	handlers.NewCheckoutHandler(a.Sessions, log).RegisterRoutes(apiV1, session, optionalAuth)

	orderHandler := handlers.NewOrderHandler(orderService, log)
	orderHandler.RegisterConfirmationRoutes(apiV1)
	orderHandler.RegisterCustomerRoutes(apiV1, authRequired)

	admin := apiV1.Group("/admin", authRequired, adminRequired)
	orderHandler.RegisterAdminRoutes(admin)
	handlers.NewInventoryHandler(inventoryService, productService, log).RegisterRoutes(admin)
	handlers.NewAdminUserHandler(adminService, log).RegisterRoutes(admin)

	a.Fiber.Use(notFound)

	return a, nil
}

// Start launches the background work: the idle-session sweeper and, when a
// broker is connected, the event consumers. It returns once they are
// started; they stop when ctx is done or the broker connection closes.
func (a *App) Start(ctx context.Context) {
	go a.Sessions.Run(ctx)

	if a.mq == nil {
		return
	}
	handler := services.EventLogger(a.log.Named("events"))
	if err := a.mq.ConsumeOrderEvents(handler); err != nil {
		a.log.Warn("failed to start order event consumer", zap.Error(err))
	}
	if err := a.mq.ConsumeStockEvents(handler); err != nil {
		a.log.Warn("failed to start stock event consumer", zap.Error(err))
	}
}

// Listen serves HTTP on the configured port until Shutdown.
func (a *App) Listen() error {
	a.log.Info("starting server", zap.String("port", a.cfg.AppPort))
	return a.Fiber.Listen(a.cfg.AppPort)
}

// Shutdown stops the HTTP server and releases the broker and database.
func (a *App) Shutdown(ctx context.Context) error {
	var errs []error
	if err := a.Fiber.ShutdownWithContext(ctx); err != nil {
		errs = append(errs, fmt.Errorf("fiber shutdown: %w", err))
	}
	if err := a.closeBroker(); err != nil {
		errs = append(errs, err)
	}
	if err := closeDatabase(a.db); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// release frees the broker and database when New fails part way.
func (a *App) release() {
	if err := a.closeBroker(); err != nil {
		a.log.Warn("failed to close RabbitMQ", zap.Error(err))
	}
	if err := closeDatabase(a.db); err != nil {
		a.log.Warn("failed to close database", zap.Error(err))
	}
}

func closeDatabase(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("database handle: %w", err)
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}

func (a *App) closeBroker() error {
	if a.mq == nil {
		return nil
	}
	err := a.mq.Close()
	a.mq = nil
	return err
}

func (a *App) handleHealth(c *fiber.Ctx) error {
	status := fiber.StatusOK
	database := "connected"
	if sqlDB, err := a.db.DB(); err != nil || sqlDB.PingContext(c.UserContext()) != nil {
		status = fiber.StatusServiceUnavailable
		database = "unreachable"
	}
	broker := "disabled"
	if a.mq != nil {
		broker = "connected"
	}

	health := "healthy"
	if status != fiber.StatusOK {
		health = "degraded"
	}
	return c.Status(status).JSON(fiber.Map{
		"status":   health,
		"time":     time.Now().Format(time.RFC3339),
		"database": database,
		"rabbitmq": broker,
		"sessions": a.Sessions.Len(),
	})
}

// notFound answers unknown API paths with 404 JSON and sends every other
// unknown path back to the index.
func notFound(c *fiber.Ctx) error {
	if strings.HasPrefix(c.Path(), "/api/") {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Not found",
			"path":    c.Path(),
		})
	}
	return c.Redirect("/", fiber.StatusFound)
}

// errorHandler is the last line of defence: errors returned by handlers and
// panics caught by the recover middleware end up here.
func errorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) && fiberErr.Code < fiber.StatusInternalServerError {
			return c.Status(fiberErr.Code).JSON(fiber.Map{"message": fiberErr.Message})
		}

		log.Error("unhandled error", zap.String("method", c.Method()), zap.String("path", c.Path()), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message":  "Something went wrong",
			"recovery": "reload",
		})
	}
}
