package controllers

import (
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"Backend-Brokerflow/src/models"
	"Backend-Brokerflow/src/services/esign"
	"Backend-Brokerflow/src/utils"
)

// SendForSignature godoc
// @Summary      Send the quote's documents out for e-signature
// @Description  Generates any missing documents, creates the envelope, then marks documents SENT
// @Tags         esign
// @Produce      json
// @Param        id path string true "Quote ID"
// @Success      200  {object}  esign.SendResult
// @Failure      409  {object}  models.ErrorResponse
// @Failure      422  {object}  models.ErrorResponse
// @Failure      502  {object}  models.ErrorResponse
// @Router       /quotes/{id}/send-for-signature [post]
func SendForSignature(c *fiber.Ctx) error {
	id, err := parseObjectID(c, "id")
	if err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid quote ID")
	}

	result, err := esign.SendForSignature(c.Context(), actorFromCtx(c), id)
	if err != nil {
		return utils.RespondError(c, err)
	}
	return c.JSON(result)
}

// CompleteSignature godoc
// @Summary      Mark the submission's sent documents as signed
// @Description  Idempotent; repeated completion for the same submission is a no-op
// @Tags         esign
// @Produce      json
// @Param        id path string true "Submission ID"
// @Success      200  {object}  models.Submission
// @Failure      422  {object}  models.ErrorResponse
// @Router       /submissions/{id}/complete-signature [post]
func CompleteSignature(c *fiber.Ctx) error {
	id, err := parseObjectID(c, "id")
	if err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid submission ID")
	}

	sub, err := esign.CompleteSignature(c.Context(), actorFromCtx(c), id)
	if err != nil {
		return utils.RespondError(c, err)
	}
	return c.JSON(sub)
}

type esignWebhookIn struct {
	SubmissionID string `json:"submissionId"`
	Event        string `json:"event"`
}

// ESignWebhook godoc
// @Summary      Callback endpoint for the e-sign provider
// @Description  Accepts envelope.completed events; other events are acknowledged and ignored
// @Tags         esign
// @Accept       json
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  models.ErrorResponse
// @Router       /webhooks/esign [post]
func ESignWebhook(c *fiber.Ctx) error {
	if token := os.Getenv("ESIGN_WEBHOOK_TOKEN"); token != "" {
		if c.Get("X-Webhook-Token") != token {
			return utils.HandleError(c, fiber.StatusUnauthorized, "Invalid webhook token")
		}
	}

	var in esignWebhookIn
	if err := c.BodyParser(&in); err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid payload: "+err.Error())
	}

	if in.Event != "envelope.completed" {
		return c.JSON(fiber.Map{"received": true})
	}

	subID, err := primitive.ObjectIDFromHex(in.SubmissionID)
	if err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid submission ID")
	}

	actor := models.ActorRef{Name: "e-sign service", Role: "system"}
	if _, err := esign.CompleteSignature(c.Context(), actor, subID); err != nil {
		// The provider retries on non-2xx. Precondition failures here mean an
		// out-of-order callback, so log and acknowledge instead of retrying.
		log.Println("⚠️ e-sign webhook not applied:", err)
	}
	return c.JSON(fiber.Map{"received": true})
}
