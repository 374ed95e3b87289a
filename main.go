package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/spf13/viper"
	"gorm.io/gorm"

	"productapi/internal/config"
	"productapi/internal/database"
	"productapi/internal/handlers"
	"productapi/internal/repositories"
	"productapi/internal/services"
	"productapi/pkg/rabbitmq"
)

// App is the HTTP server together with the resources it owns.
type App struct {
	Fiber *fiber.App
	db    *gorm.DB         // nil with the in-memory store
	mq    *rabbitmq.Client // nil when no broker is configured
}

func main() {
	// --- Configuration ---
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	app, err := NewApp(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize app: %v", err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Printf("Error releasing resources: %v", err)
		}
	}()

	// --- Start RabbitMQ Consumer ---
	if app.mq != nil {
		if err := app.mq.ConsumeProductEvents(rabbitmq.LogProductEvent); err != nil {
			log.Printf("Failed to start RabbitMQ consumer: %v", err)
		}
	}

	// --- Start HTTP Server ---
	log.Printf("Starting server on port %s", cfg.AppPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Fiber.Listen(cfg.AppPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := app.Fiber.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}
	log.Println("Server gracefully stopped")
}

// NewApp builds the store, the optional event publisher and the Fiber app
// for cfg.
func NewApp(cfg config.Config) (*App, error) {
	a := &App{}

	// --- Initialize Repository ---
	var productRepo repositories.ProductRepository
	if cfg.DatabaseDSN == database.MemoryDSN {
		log.Println("Using in-memory product store")
		productRepo = repositories.NewMemoryProductRepository()
	} else {
		db, err := database.Open(cfg.DatabaseDSN, cfg.Debug)
		if err != nil {
			return nil, err
		}
		a.db = db
		productRepo = repositories.NewGORMProductRepository(db)
	}

	// --- Initialize RabbitMQ Client ---
	// Events are best-effort, so a broker that is down does not stop the API.
	var publisher services.EventPublisher
	if cfg.RabbitMQURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL, Queue: cfg.RabbitMQQueue})
		if err != nil {
			log.Printf("Warning: product events disabled: %v", err)
		} else {
			a.mq = mqClient
			publisher = mqClient
		}
	}

	productService := services.NewProductService(productRepo, publisher)
	productHandler := handlers.NewProductHandler(productService)

	// --- Initialize Fiber App ---
	app := fiber.New(fiber.Config{
		AppName:           "productapi",
		EnablePrintRoutes: cfg.Debug,
		ErrorHandler:      jsonErrorHandler,
	})

	// --- Middleware ---
	app.Use(recover.New(recover.Config{EnableStackTrace: cfg.Debug}))
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
	}))

	// --- API Routes ---
	apiV1 := app.Group("/api/v1.0")
	productHandler.RegisterRoutes(apiV1)

	// --- Health Check Endpoint ---
	app.Get("/health", a.handleHealth)

	a.Fiber = app
	return a, nil
}

func (a *App) handleHealth(c *fiber.Ctx) error {
	status, dbState := fiber.StatusOK, "ok"
	if a.db != nil {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := database.Ping(ctx, a.db); err != nil {
			log.Printf("Health check database ping failed: %v", err)
			status, dbState = fiber.StatusServiceUnavailable, "unavailable"
		}
	}
	healthStatus := "healthy"
	if status != fiber.StatusOK {
		healthStatus = "unhealthy"
	}
	return c.Status(status).JSON(fiber.Map{
		"status":   healthStatus,
		"time":     time.Now().Format(time.RFC3339),
		"database": dbState,
	})
}

// Close releases the broker connection and the database pool.
func (a *App) Close() error {
	var errs []error
	if a.mq != nil {
		errs = append(errs, a.mq.Close())
	}
	if a.db != nil {
		errs = append(errs, database.Close(a.db))
	}
	return errors.Join(errs...)
}

// jsonErrorHandler renders errors that escape handlers, such as unmatched
// routes, in the same shape as handler errors.
func jsonErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	} else {
		log.Printf("Unhandled error on %s %s: %v", c.Method(), c.Path(), err)
	}
	return c.Status(code).JSON(fiber.Map{
		"message": message,
	})
}
