package controllers

import (
	"github.com/gofiber/fiber/v2"

	"Backend-Brokerflow/src/services/payments"
	"Backend-Brokerflow/src/utils"
)

// PaySubmission godoc
// @Summary      Collect payment for a signed submission
// @Description  Amount must match the approved quote's final amount exactly
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        id path string true "Submission ID"
// @Param        body body payments.PayInput true "Amount and method"
// @Success      200  {object}  models.Submission
// @Failure      400  {object}  models.ErrorResponse
// @Failure      409  {object}  models.ErrorResponse
// @Failure      422  {object}  models.ErrorResponse
// @Failure      502  {object}  models.ErrorResponse
// @Router       /submissions/{id}/pay [post]
func PaySubmission(c *fiber.Ctx) error {
	id, err := parseObjectID(c, "id")
	if err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid submission ID")
	}

	var in payments.PayInput
	if err := c.BodyParser(&in); err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid input: "+err.Error())
	}

	sub, err := payments.Pay(c.Context(), actorFromCtx(c), id, in)
	if err != nil {
		return utils.RespondError(c, err)
	}
	return c.JSON(sub)
}
