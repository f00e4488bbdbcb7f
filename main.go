package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/spf13/viper"
	"github.com/streadway/amqp"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"bbshop/internal/handlers"
	"bbshop/internal/middleware"
	"bbshop/internal/models"
	"bbshop/internal/repositories"
	"bbshop/internal/services"
	"bbshop/pkg/rabbitmq"
	"bbshop/pkg/storage"
)

func main() {
	// --- Configuration ---
	viper.SetDefault("APP_PORT", ":8080")
	viper.SetDefault("DB_DRIVER", "sqlite")
	viper.SetDefault("DB_DSN", "bbshop.db")
	viper.SetDefault("JWT_SECRET", "dev_secret_change_me")
	viper.SetDefault("RABBITMQ_URL", "")
	viper.SetDefault("UPLOAD_DIR", "./uploads")
	viper.SetDefault("UPLOAD_BASE_URL", "http://localhost:8080/uploads")
	viper.AutomaticEnv()

	appPort := viper.GetString("APP_PORT")
	jwtSecret := viper.GetString("JWT_SECRET")
	rabbitMQURL := viper.GetString("RABBITMQ_URL")
	uploadDir := viper.GetString("UPLOAD_DIR")

	// --- Initialize Repositories ---
	userRepo, storeRepo, productRepo, orderRepo := buildRepositories()

	// --- Initialize RabbitMQ Client (optional) ---
	// Without a broker URL the app runs fine; order events are skipped.
	var mqClient *rabbitmq.Client
	if rabbitMQURL != "" {
		var err error
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: rabbitMQURL})
		if err != nil {
			log.Fatalf("Failed to initialize RabbitMQ client: %v", err)
		}
		defer mqClient.Close()
	} else {
		log.Println("RABBITMQ_URL not set; order events will not be published.")
	}

	// --- File storage for logos and product images ---
	files := storage.NewLocalStorage(uploadDir, viper.GetString("UPLOAD_BASE_URL"))

	// --- Initialize Services ---
	authService := services.NewAuthService(userRepo, jwtSecret)
	userService := services.NewUserService(userRepo)
	storeService := services.NewStoreService(storeRepo, userRepo, files)
	productService := services.NewProductService(productRepo, storeRepo, files)
	var publisher services.EventPublisher
	if mqClient != nil {
		publisher = mqClient
	}
	orderService := services.NewOrderService(orderRepo, productRepo, storeRepo, publisher)

	// --- Initialize Handlers ---
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	storeHandler := handlers.NewStoreHandler(storeService)
	productHandler := handlers.NewProductHandler(productService)
	orderHandler := handlers.NewOrderHandler(orderService)

	// --- Initialize Fiber App ---
	app := fiber.New()

	// --- Middleware ---
	app.Use(recover.New()) // Panics become plain 500s
	app.Use(logger.New())  // Request logger

	// Serve uploaded files.
	app.Static("/uploads", uploadDir)

	// --- API Routes ---
	// Public routes first. Group middleware applies to everything on the
	// prefix registered after it, so the auth-gated group must only be
	// created once all token-free routes are in place.
	api := app.Group("/api")
	authHandler.RegisterRoutes(api)
	userHandler.RegisterPublicRoutes(api)
	storeHandler.RegisterPublicRoutes(api)
	productHandler.RegisterPublicRoutes(api)

	protected := app.Group("/api", middleware.AuthRequired(authService))
	userHandler.RegisterProtectedRoutes(protected)
	storeHandler.RegisterProtectedRoutes(protected)
	productHandler.RegisterProtectedRoutes(protected)
	orderHandler.RegisterRoutes(protected)

	// --- Health Check Endpoint ---
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// --- Start RabbitMQ Consumer in a Goroutine ---
	if mqClient != nil {
		go func() {
			log.Println("Starting RabbitMQ consumer for order events...")
			messageHandler := func(msg amqp.Delivery) error {
				log.Printf("Received %s event (tag: %d): %s", msg.Type, msg.DeliveryTag, string(msg.Body))
				return nil
			}
			if consumerErr := mqClient.ConsumeOrderEvents(messageHandler); consumerErr != nil {
				log.Printf("Failed to start RabbitMQ consumer: %v", consumerErr)
			}
		}()
	}

	// --- Start HTTP Server ---
	log.Printf("Starting server on port %s", appPort)

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(appPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}

	log.Println("Server gracefully stopped")
}

// buildRepositories wires the persistence layer according to DB_DRIVER:
// "sqlite" (default) and "postgres" back onto GORM, "memory" uses the
// in-memory repositories for running without a database.
func buildRepositories() (repositories.UserRepository, repositories.StoreRepository, repositories.ProductRepository, repositories.OrderRepository) {
	driver := viper.GetString("DB_DRIVER")
	dsn := viper.GetString("DB_DSN")

	if driver == "memory" {
		log.Println("Using in-memory repositories; data will not survive restarts.")
		productRepo := repositories.NewMockProductRepository()
		return repositories.NewMockUserRepository(),
			repositories.NewMockStoreRepository(),
			productRepo,
			repositories.NewMockOrderRepository(productRepo)
	}

	var dialector gorm.Dialector
	switch driver {
	case "postgres":
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		log.Fatalf("Unknown DB_DRIVER %q (expected sqlite, postgres, or memory)", driver)
	}

	// TranslateError turns driver-specific unique violations into
	// gorm.ErrDuplicatedKey, which the repositories map to ErrConflict.
	db, err := gorm.Open(dialector, &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Store{},
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
		&models.ShoppingCart{},
		&models.CartItem{},
	)
	if err != nil {
		log.Fatalf("Failed to auto-migrate database: %v", err)
	}

	return repositories.NewGORMUserRepository(db),
		repositories.NewGORMStoreRepository(db),
		repositories.NewGORMProductRepository(db),
		repositories.NewGORMOrderRepository(db)
}
