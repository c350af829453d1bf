package routes

import (
	"Backend-Brokerflow/src/controllers"

	"github.com/gofiber/fiber/v2"
)

// Webhooks authenticate with a shared token header, not a JWT.
func webhookRoutes(app *fiber.App) {
	hooks := app.Group("/webhooks")

	hooks.Post("/esign", controllers.ESignWebhook)
}
