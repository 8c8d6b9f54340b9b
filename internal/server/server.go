package server

import (
	"log"
	"os"

	"spark-journal-be/internal/bootstrap"
	"spark-journal-be/internal/config"
	"spark-journal-be/internal/pkg/serverutils"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

type Server struct {
	app       *fiber.App
	cfg       *config.Config
	container *bootstrap.Container
}

func New(cfg *config.Config, container *bootstrap.Container) *Server {
	app := fiber.New(fiber.Config{
		BodyLimit: 10 * 1024 * 1024, // 10MB
	})

	// Middleware
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.App.CorsAllowedOrigins,
		AllowCredentials: true,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		ExposeHeaders:    "Content-Length, Content-Type, Authorization",
	}))

	// OpenTelemetry tracing middleware (traces all HTTP requests)
	if os.Getenv("OTEL_ENABLED") == "true" {
		app.Use(otelfiber.Middleware())
	}

	app.Use(serverutils.ErrorHandlerMiddleware())

	// Routes
	registerRoutes(app, container)

	return &Server{
		app:       app,
		cfg:       cfg,
		container: container,
	}
}

func (s *Server) GetApp() *fiber.App {
	return s.app
}

func (s *Server) Run() error {
	log.Printf("✅ Server is running on http://localhost:%s", s.cfg.App.Port)
	return s.app.Listen(":" + s.cfg.App.Port)
}

func registerRoutes(app *fiber.App, c *bootstrap.Container) {
	api := app.Group("/api")

	c.AuthController.RegisterRoutes(api)
	c.OAuthController.RegisterRoutes(api)
	c.UserController.RegisterRoutes(api)

	c.JournalController.RegisterRoutes(api)
	c.MemoryController.RegisterRoutes(api)
	c.SparkController.RegisterRoutes(api)
	c.TuningController.RegisterRoutes(api)

	c.WsHandler.RegisterRoutes(api)
}
