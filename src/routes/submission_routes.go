package routes

import (
	"Backend-Brokerflow/src/controllers"
	"Backend-Brokerflow/src/middleware"
	"Backend-Brokerflow/src/models"

	"github.com/gofiber/fiber/v2"
)

func submissionRoutes(app *fiber.App) {
	subGroup := app.Group("/submissions")
	subGroup.Use(middleware.AuthJWT)

	subGroup.Post("/", controllers.CreateSubmission)
	subGroup.Get("/", controllers.GetAllSubmissions)
	subGroup.Get("/:id", controllers.GetSubmission)
	subGroup.Get("/:id/timeline", controllers.GetSubmissionTimeline)

	subGroup.Post("/:id/route", middleware.RequireRole(models.RoleAdmin), controllers.RouteSubmission)
	subGroup.Post("/:id/decline", middleware.RequireRole(models.RoleAdmin), controllers.DeclineSubmission)
	subGroup.Post("/:id/final-documents/:slot", middleware.RequireRole(models.RoleAdmin), controllers.UploadFinalDocument)

	subGroup.Post("/:id/complete-signature", middleware.RequireRole(models.RoleAgency), controllers.CompleteSignature)
	subGroup.Post("/:id/pay", middleware.RequireRole(models.RoleAgency), controllers.PaySubmission)
}
