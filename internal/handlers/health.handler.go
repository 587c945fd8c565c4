package handlers

import (
	"jobfair/internal/app"

	"github.com/gofiber/fiber/v2"
)

func HealthHandler(router fiber.Router, app app.App) {
	router.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message":            "ok",
			"variant":            app.Variant.Name,
			"dispatchConfigured": app.Dispatcher.Configured(),
			"diagnostics":        app.DispatchOutcomeRepo != nil,
		})
	})
}
