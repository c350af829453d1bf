package controllers

import (
	"github.com/gofiber/fiber/v2"

	"Backend-Brokerflow/src/models"
	"Backend-Brokerflow/src/services/quotes"
	"Backend-Brokerflow/src/utils"
)

// CreateQuote godoc
// @Summary      Enter carrier terms as a new quote
// @Description  Creates a POSTED quote, advances the submission to QUOTED, renders the binder
// @Tags         quotes
// @Accept       json
// @Produce      json
// @Param        body body quotes.CreateInput true "Quote fields"
// @Success      201  {object}  models.Quote
// @Failure      400  {object}  models.ErrorResponse
// @Failure      409  {object}  models.ErrorResponse
// @Router       /quotes [post]
func CreateQuote(c *fiber.Ctx) error {
	var in quotes.CreateInput
	if err := c.BodyParser(&in); err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid input: "+err.Error())
	}

	quote, err := quotes.Create(c.Context(), actorFromCtx(c), in)
	if err != nil {
		return utils.RespondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(quote)
}

// GetQuoteState godoc
// @Summary      Get a quote with its submission, documents and workflow gates
// @Tags         quotes
// @Produce      json
// @Param        id path string true "Quote ID"
// @Success      200  {object}  quotes.State
// @Failure      404  {object}  models.ErrorResponse
// @Router       /quotes/{id} [get]
func GetQuoteState(c *fiber.Ctx) error {
	id, err := parseObjectID(c, "id")
	if err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid quote ID")
	}

	state, err := quotes.GetState(c.Context(), id)
	if err != nil {
		return utils.RespondError(c, err)
	}
	return c.JSON(state)
}

// ApproveQuote godoc
// @Summary      Approve a posted quote
// @Description  POSTED -> APPROVED; unlocks document generation
// @Tags         quotes
// @Produce      json
// @Param        id path string true "Quote ID"
// @Success      200  {object}  models.Quote
// @Failure      409  {object}  models.ErrorResponse
// @Router       /quotes/{id}/approve [post]
func ApproveQuote(c *fiber.Ctx) error {
	id, err := parseObjectID(c, "id")
	if err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid quote ID")
	}

	quote, err := quotes.Approve(c.Context(), actorFromCtx(c), id)
	if err != nil {
		return utils.RespondError(c, err)
	}
	return c.JSON(quote)
}

// DeclineQuote godoc
// @Summary      Decline a quote
// @Tags         quotes
// @Accept       json
// @Produce      json
// @Param        id path string true "Quote ID"
// @Param        body body declineIn false "Decline reason"
// @Success      200  {object}  models.Quote
// @Failure      409  {object}  models.ErrorResponse
// @Router       /quotes/{id}/decline [post]
func DeclineQuote(c *fiber.Ctx) error {
	id, err := parseObjectID(c, "id")
	if err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid quote ID")
	}

	var in declineIn
	_ = c.BodyParser(&in)

	quote, err := quotes.Decline(c.Context(), actorFromCtx(c), id, in.Reason)
	if err != nil {
		return utils.RespondError(c, err)
	}
	return c.JSON(quote)
}

type brokerFeeIn struct {
	BrokerFee *models.Money `json:"brokerFee"`
}

// UpdateBrokerFee godoc
// @Summary      Edit the broker fee on a posted quote
// @Tags         quotes
// @Accept       json
// @Produce      json
// @Param        id path string true "Quote ID"
// @Param        body body brokerFeeIn true "New broker fee"
// @Success      200  {object}  models.Quote
// @Failure      400  {object}  models.ErrorResponse
// @Failure      409  {object}  models.ErrorResponse
// @Router       /quotes/{id}/broker-fee [put]
func UpdateBrokerFee(c *fiber.Ctx) error {
	id, err := parseObjectID(c, "id")
	if err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid quote ID")
	}

	var in brokerFeeIn
	if err := c.BodyParser(&in); err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid broker fee: "+err.Error())
	}
	if in.BrokerFee == nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "brokerFee is required")
	}

	quote, err := quotes.UpdateBrokerFee(c.Context(), actorFromCtx(c), id, *in.BrokerFee)
	if err != nil {
		return utils.RespondError(c, err)
	}
	return c.JSON(quote)
}

type manualTaxIn struct {
	PremiumTaxPercent *models.Money `json:"premiumTaxPercent"`
}

// SetManualTax godoc
// @Summary      Enter the premium tax percent manually
// @Description  Re-derives the tax amount locally; no rate-service call
// @Tags         quotes
// @Accept       json
// @Produce      json
// @Param        id path string true "Quote ID"
// @Param        body body manualTaxIn true "Tax percent"
// @Success      200  {object}  models.Quote
// @Failure      400  {object}  models.ErrorResponse
// @Router       /quotes/{id}/tax [put]
func SetManualTax(c *fiber.Ctx) error {
	id, err := parseObjectID(c, "id")
	if err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid quote ID")
	}

	var in manualTaxIn
	if err := c.BodyParser(&in); err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid tax percent: "+err.Error())
	}
	if in.PremiumTaxPercent == nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "premiumTaxPercent is required")
	}

	quote, err := quotes.SetManualTax(c.Context(), actorFromCtx(c), id, *in.PremiumTaxPercent)
	if err != nil {
		return utils.RespondError(c, err)
	}
	return c.JSON(quote)
}

// RefreshTax godoc
// @Summary      Re-query the external rate service for a quote
// @Tags         quotes
// @Produce      json
// @Param        id path string true "Quote ID"
// @Success      200  {object}  models.Quote
// @Failure      502  {object}  models.ErrorResponse
// @Router       /quotes/{id}/tax/refresh [post]
func RefreshTax(c *fiber.Ctx) error {
	id, err := parseObjectID(c, "id")
	if err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid quote ID")
	}

	quote, err := quotes.RefreshTax(c.Context(), actorFromCtx(c), id)
	if err != nil {
		return utils.RespondError(c, err)
	}
	return c.JSON(quote)
}

// GenerateDocuments godoc
// @Summary      Generate the required documents for an approved quote
// @Description  Idempotent per document type; existing documents are reused
// @Tags         quotes
// @Produce      json
// @Param        id path string true "Quote ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      422  {object}  models.ErrorResponse
// @Router       /quotes/{id}/documents [post]
func GenerateDocuments(c *fiber.Ctx) error {
	id, err := parseObjectID(c, "id")
	if err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid quote ID")
	}

	docs, err := quotes.GenerateDocuments(c.Context(), actorFromCtx(c), id)
	if err != nil {
		return utils.RespondError(c, err)
	}
	return c.JSON(fiber.Map{"documents": docs})
}

// RequestBind godoc
// @Summary      Request bind for a paid, signed submission
// @Tags         quotes
// @Produce      json
// @Param        id path string true "Quote ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      409  {object}  models.ErrorResponse
// @Failure      422  {object}  models.ErrorResponse
// @Router       /quotes/{id}/request-bind [post]
func RequestBind(c *fiber.Ctx) error {
	id, err := parseObjectID(c, "id")
	if err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid quote ID")
	}

	quote, sub, err := quotes.RequestBind(c.Context(), actorFromCtx(c), id)
	if err != nil {
		return utils.RespondError(c, err)
	}
	return c.JSON(fiber.Map{"quote": quote, "submission": sub})
}

// ApproveBind godoc
// @Summary      Approve an outstanding bind request
// @Description  Quote and submission both advance to BOUND
// @Tags         quotes
// @Produce      json
// @Param        id path string true "Quote ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      409  {object}  models.ErrorResponse
// @Router       /quotes/{id}/approve-bind [post]
func ApproveBind(c *fiber.Ctx) error {
	id, err := parseObjectID(c, "id")
	if err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid quote ID")
	}

	quote, sub, err := quotes.ApproveBind(c.Context(), actorFromCtx(c), id)
	if err != nil {
		return utils.RespondError(c, err)
	}
	return c.JSON(fiber.Map{"quote": quote, "submission": sub})
}
