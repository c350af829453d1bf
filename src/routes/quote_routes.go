package routes

import (
	"Backend-Brokerflow/src/controllers"
	"Backend-Brokerflow/src/middleware"
	"Backend-Brokerflow/src/models"

	"github.com/gofiber/fiber/v2"
)

func quoteRoutes(app *fiber.App) {
	quoteGroup := app.Group("/quotes")
	quoteGroup.Use(middleware.AuthJWT)

	quoteGroup.Get("/:id", controllers.GetQuoteState)

	quoteGroup.Post("/", middleware.RequireRole(models.RoleAdmin), controllers.CreateQuote)
	quoteGroup.Post("/:id/decline", middleware.RequireRole(models.RoleAdmin), controllers.DeclineQuote)
	quoteGroup.Post("/:id/tax/refresh", middleware.RequireRole(models.RoleAdmin), controllers.RefreshTax)
	quoteGroup.Put("/:id/tax", middleware.RequireRole(models.RoleAdmin), controllers.SetManualTax)
	quoteGroup.Post("/:id/approve-bind", middleware.RequireRole(models.RoleAdmin), controllers.ApproveBind)

	quoteGroup.Post("/:id/approve", middleware.RequireRole(models.RoleAgency), controllers.ApproveQuote)
	quoteGroup.Put("/:id/broker-fee", middleware.RequireRole(models.RoleAgency), controllers.UpdateBrokerFee)
	quoteGroup.Post("/:id/documents", middleware.RequireRole(models.RoleAgency), controllers.GenerateDocuments)
	quoteGroup.Post("/:id/send-for-signature", middleware.RequireRole(models.RoleAgency), controllers.SendForSignature)
	quoteGroup.Post("/:id/request-bind", middleware.RequireRole(models.RoleAgency), controllers.RequestBind)
}
