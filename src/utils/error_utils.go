// error_utils.go
package utils

import (
	"Backend-Brokerflow/src/models"

	"github.com/gofiber/fiber/v2"
)

func HandleError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(models.ErrorResponse{
		Status:  status,
		Message: message,
	})
}

// RespondError writes an AppError (or any error) as a JSON error body.
func RespondError(c *fiber.Ctx, err error) error {
	status := StatusOf(err)
	body := models.ErrorResponse{
		Status:  status,
		Message: err.Error(),
	}
	if appErr := AsAppError(err); appErr != nil {
		body.Unmet = appErr.Unmet
	}
	return c.Status(status).JSON(body)
}
