package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	swagger "github.com/gofiber/swagger"
	"github.com/joho/godotenv"

	"github.com/briefworks/rfpdb/internal/config"
	"github.com/briefworks/rfpdb/internal/database"
	"github.com/briefworks/rfpdb/internal/gateway"
	"github.com/briefworks/rfpdb/internal/handlers"
	"github.com/briefworks/rfpdb/internal/locks"
	"github.com/briefworks/rfpdb/internal/middleware"
	"github.com/briefworks/rfpdb/internal/oracle"
	"github.com/briefworks/rfpdb/internal/services"
	"github.com/briefworks/rfpdb/internal/types"

	_ "github.com/briefworks/rfpdb/docs/api" // Swagger docs
)

// @title RFPdb API
// @version 1.0.0
// @description RFP document analysis service: extracts project, space and item requirements from uploaded documents
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url https://github.com/briefworks/rfpdb

// @host localhost:3000
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	// .env is optional; real deployments use the environment directly
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Oracle client shared by the extraction, evaluation and addition agents
	oracleClient, err := oracle.NewClient(oracle.Config{
		BaseURL: cfg.OracleBaseURL,
		Model:   cfg.OracleModel,
		APIKey:  cfg.OracleAPIKey,
		Timeout: cfg.OracleTimeout,
	})
	if err != nil {
		log.Fatalf("Failed to create oracle client: %v", err)
	}

	// Services
	projectLocks := locks.NewProjectLocks()
	reconciler := services.NewReconciler(db, gateway.NewFileParser(), oracle.NewExtractor(oracleClient), oracle.NewEvaluator(oracleClient), projectLocks)
	merger := services.NewMerger(db, oracle.NewAdditionProposer(oracleClient), projectLocks)
	projectService := services.NewProjectService(db, cfg, reconciler, merger)
	authService := services.NewAuthService(cfg)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler:          customErrorHandler,
		DisableStartupMessage: false,
		BodyLimit:             32 * 1024 * 1024,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(compress.New())

	// Prometheus metrics
	prometheus := fiberprometheus.New("rfpdb")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API routes under /api
	api := app.Group("/api")

	// Version middleware
	api.Use(middleware.VersionMiddleware())

	// Create handlers
	authHandler := &handlers.AuthHandler{Auth: authService}
	documentHandler := &handlers.DocumentHandler{Service: projectService}
	projectHandler := &handlers.ProjectHandler{Service: projectService}
	requirementHandler := &handlers.RequirementHandler{Service: projectService}
	healthHandler := &handlers.HealthHandler{Cfg: cfg, DB: db}

	authed := middleware.Auth(authService)

	// Public routes
	api.Post("/login", authHandler.Login)
	api.Get("/health", healthHandler.Check)
	api.Get("/documents", documentHandler.List)

	// Document routes
	api.Post("/upload", authed, documentHandler.Upload)
	api.Post("/documents/:id/analyze", authed, documentHandler.Analyze)

	// Project routes
	api.Get("/projects/:id", authed, projectHandler.Get)
	api.Get("/projects/:id/analysis", authed, projectHandler.GetAnalysis)
	api.Post("/projects/:id/spaces", authed, projectHandler.AddSpace)
	api.Post("/projects/:id/prompt-add", authed, projectHandler.PromptAdd)
	api.Get("/projects/:id/export", authed, projectHandler.Export)

	// Requirement routes
	api.Patch("/projects/:id/requirements/:reqId", authed, requirementHandler.Update)
	api.Post("/spaces/:spaceId/items", authed, requirementHandler.AddItem)

	// 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"status":    fiber.StatusNotFound,
			"message":   "[404] Resource Not Found",
			"ok":        false,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"url":       c.OriginalURL(),
		})
	})

	// Graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Println("Gracefully shutting down...")
		_ = app.Shutdown()
	}()

	// Start server
	port := cfg.Port
	log.Printf("Starting server on port %s", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}

	log.Println("Server stopped")
}

// customErrorHandler handles errors globally
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := err.Error()
	errorType := "unknown"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	if e, ok := err.(*types.CustomError); ok {
		code = e.Code
		message = e.Message
		errorType = e.Type
	}

	return c.Status(code).JSON(fiber.Map{
		"status":    code,
		"message":   message,
		"ok":        false,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"url":       c.OriginalURL(),
		"type":      errorType,
	})
}
