package server

import (
	"log"

	"concierge-be/internal/bootstrap"
	"concierge-be/internal/config"
	"concierge-be/internal/pkg/serverutils"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberws "github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

type Server struct {
	app       *fiber.App
	cfg       *config.Config
	container *bootstrap.Container
}

func New(cfg *config.Config, container *bootstrap.Container) *Server {
	// Initialize Fiber App
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
	app.Use(otelfiber.Middleware())

	app.Use(serverutils.ErrorHandlerMiddleware())

	// Routes
	registerRoutes(app, cfg, container)

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

func registerRoutes(app *fiber.App, cfg *config.Config, c *bootstrap.Container) {
	api := app.Group("/api")

	api.Get("/health", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{"status": "ok"})
	})
	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{"service": "concierge-backend", "env": cfg.App.Environment})
	})

	c.UserController.RegisterRoutes(api)
	c.ThreadController.RegisterRoutes(api)
	c.ModelController.RegisterRoutes(api)
	c.VoiceController.RegisterRoutes(api)

	registerWebSocket(app, cfg, c)
}

// registerWebSocket guards the upgrade with token validation. Browser
// WebSocket clients cannot set headers, so the JWT arrives as a query
// parameter and is checked before the connection is upgraded.
func registerWebSocket(app *fiber.App, cfg *config.Config, c *bootstrap.Container) {
	app.Use("/ws", func(ctx *fiber.Ctx) error {
		if !fiberws.IsWebSocketUpgrade(ctx) {
			return fiber.ErrUpgradeRequired
		}

		token := ctx.Query("token")
		if token == "" {
			return fiber.ErrUnauthorized
		}

		userId, claims, err := serverutils.ParseUserToken(token, cfg.App.JWTIssuer, cfg.App.JWTAudience)
		if err != nil {
			return fiber.ErrUnauthorized
		}

		ctx.Locals("user_id", userId)
		ctx.Locals("user_email", serverutils.EmailFromClaims(claims))
		return ctx.Next()
	})

	app.Get("/ws", fiberws.New(func(conn *fiberws.Conn) {
		userId := conn.Locals("user_id").(uuid.UUID)
		email, _ := conn.Locals("user_email").(string)
		c.ChatHandler.ServeWs(conn, userId, email)
	}))
}
