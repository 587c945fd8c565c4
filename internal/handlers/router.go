package handlers

import (
	"jobfair/internal/app"
	"jobfair/internal/handlers/middleware"
	"jobfair/internal/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

type Handler struct {
	middleware middleware.Middleware
	log        logger.Logger
	router     fiber.Router
}

func Router(router fiber.Router, app *app.App) (err error) {
	setupWebSocketRoute(router, app)

	NewFormHandler(*app, router).Register()
	NewQRHandler(*app, router).Register()
	NewAdminHandler(*app, router).Register()

	api := router.Group("/api")
	HealthHandler(api, *app)
	NewRegistrationHandler(*app, api).Register()
	NewQRHandler(*app, api).RegisterAPI()
	NewAdminHandler(*app, api).RegisterAPI()

	return nil
}

func setupWebSocketRoute(router fiber.Router, app *app.App) {
	router.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			c.Locals("allowed", true)
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	router.Get("/ws/admin", websocket.New(func(c *websocket.Conn) {
		app.Websocket.HandleWebSocket(c)
	}))
}
