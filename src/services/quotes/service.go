// Package quotes owns the quote lifecycle and the coordinated transitions
// that keep Quote.status and Submission.status from diverging. Every
// mutation is a conditional write keyed on the expected current state; a
// lost race surfaces as a conflict, never a silent overwrite.
package quotes

import (
	DB "Backend-Brokerflow/src/database"
	"Backend-Brokerflow/src/jobs"
	"Backend-Brokerflow/src/models"
	"Backend-Brokerflow/src/services/activitylog"
	"Backend-Brokerflow/src/services/documents"
	"Backend-Brokerflow/src/services/premium"
	"Backend-Brokerflow/src/services/submissions"
	"Backend-Brokerflow/src/services/tax"
	"Backend-Brokerflow/src/utils"
	"context"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var validate = validator.New()

type CreateInput struct {
	SubmissionID string `json:"submissionId" validate:"required"`
	CarrierID    string `json:"carrierId" validate:"required"`

	CarrierQuote      *models.Money `json:"carrierQuote" validate:"required"`
	PremiumTaxPercent *models.Money `json:"premiumTaxPercent,omitempty"`
	PremiumTaxAmount  *models.Money `json:"premiumTaxAmount,omitempty"`
	PolicyFee         *models.Money `json:"policyFee,omitempty"`
	BrokerFee         *models.Money `json:"brokerFee,omitempty"`

	Limits           string     `json:"limits,omitempty"`
	Endorsements     []string   `json:"endorsements,omitempty"`
	EffectiveDate    *time.Time `json:"effectiveDate,omitempty"`
	ExpirationDate   *time.Time `json:"expirationDate,omitempty"`
	PolicyNumber     string     `json:"policyNumber,omitempty"`
	CarrierReference string     `json:"carrierReference,omitempty"`
	SpecialNotes     string     `json:"specialNotes,omitempty"`
	AdminNotes       string     `json:"adminNotes,omitempty"`
	HasFinancePlan   bool       `json:"hasFinancePlan,omitempty"`
}

// Create enters carrier terms as a new POSTED quote and advances the
// submission to QUOTED in the same logical operation. Binder rendering and
// the agency notification run after the insert commits; their failures are
// logged and never roll the quote back.
func Create(ctx context.Context, actor models.ActorRef, in CreateInput) (*models.Quote, error) {
	if err := validate.Struct(in); err != nil {
		return nil, utils.Validation("invalid quote: " + err.Error())
	}

	submissionID, err := primitive.ObjectIDFromHex(in.SubmissionID)
	if err != nil {
		return nil, utils.Validation("invalid submissionId")
	}
	carrierID, err := primitive.ObjectIDFromHex(in.CarrierID)
	if err != nil {
		return nil, utils.Validation("invalid carrierId")
	}

	sub, err := submissions.GetByID(ctx, submissionID)
	if err != nil {
		return nil, err
	}
	switch sub.Status {
	case models.SubmissionDeclined:
		return nil, utils.Conflict("submission has been declined")
	case models.SubmissionBindRequested, models.SubmissionBound:
		return nil, utils.Conflict("submission is past quoting")
	}

	var carrier models.Carrier
	if err := DB.CarrierCollection.FindOne(ctx, bson.M{"_id": carrierID}).Decode(&carrier); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, utils.NotFound("carrier not found")
		}
		return nil, err
	}

	now := time.Now()
	quote := models.Quote{
		ID:           primitive.NewObjectID(),
		SubmissionID: submissionID,
		CarrierID:    carrierID,
		Status:       models.QuotePosted,
		CarrierQuote: *in.CarrierQuote,
		PolicyFee:    in.PolicyFee,

		Limits:           in.Limits,
		Endorsements:     in.Endorsements,
		EffectiveDate:    in.EffectiveDate,
		ExpirationDate:   in.ExpirationDate,
		PolicyNumber:     in.PolicyNumber,
		CarrierReference: in.CarrierReference,
		SpecialNotes:     in.SpecialNotes,
		AdminNotes:       in.AdminNotes,
		HasFinancePlan:   in.HasFinancePlan,

		EnteredAt: now,
		PostedAt:  now,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if in.BrokerFee != nil {
		quote.BrokerFee = *in.BrokerFee
	}

	applyTaxInput(&quote, in)
	if quote.PremiumTaxPercent == nil && quote.PremiumTaxAmount == nil {
		autoLookupTax(&quote, sub.InsuredState)
	}

	if err := premium.Recompute(&quote); err != nil {
		return nil, err
	}

	if _, err := DB.QuoteCollection.InsertOne(ctx, quote); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, utils.Conflict("a quote for this carrier already exists on the submission")
		}
		return nil, err
	}

	// Coordinated advance: a submission that already reached QUOTED (a
	// second carrier's quote) stays where it is.
	_, err = DB.SubmissionCollection.UpdateOne(ctx,
		bson.M{"_id": submissionID, "status": bson.M{"$in": bson.A{models.SubmissionSubmitted, models.SubmissionRouted}}},
		bson.M{"$set": bson.M{"status": models.SubmissionQuoted, "updatedAt": now}},
	)
	if err != nil {
		log.Println("❌ [quotes] failed to advance submission status:", err)
	}

	quoteID := quote.ID
	activitylog.Append(ctx, models.ActivityQuoteCreated,
		"Quote entered for carrier "+carrier.Name,
		map[string]string{"carrier": carrier.Name, "finalAmount": quote.FinalAmount.String()},
		actor, submissionID, &quoteID)

	// Post-commit effects: binder render + agency notification. The quote
	// record is the source of truth; both are regenerable later.
	var agency models.Agency
	if err := DB.AgencyCollection.FindOne(ctx, bson.M{"_id": sub.AgencyID}).Decode(&agency); err != nil {
		log.Println("⚠️ [quotes] agency not found for binder render:", err)
	} else {
		if url, berr := documents.GenerateBinder(ctx, quote, *sub, agency, carrier); berr != nil {
			log.Println("⚠️ [quotes] binder generation failed (quote kept):", berr)
		} else {
			quote.BinderPdfURL = url
			activitylog.Append(ctx, models.ActivityDocumentGenerated,
				"Binder document generated",
				map[string]string{"documentType": "BINDER", "url": url},
				actor, submissionID, &quoteID)
		}
	}

	jobs.EnqueueAgencyNotification(jobs.NotifyAgencyPayload{
		Event:        "QUOTE_CREATED",
		SubmissionID: submissionID.Hex(),
		QuoteID:      quote.ID.Hex(),
		Amount:       quote.FinalAmount.String(),
	})

	return &quote, nil
}

// applyTaxInput resolves the tax fields at entry: explicit values win,
// otherwise the rate service is tried; its failure just leaves the fields
// open for manual entry.
func applyTaxInput(q *models.Quote, in CreateInput) {
	if in.PremiumTaxPercent != nil || in.PremiumTaxAmount != nil {
		q.PremiumTaxPercent = in.PremiumTaxPercent
		q.PremiumTaxAmount = in.PremiumTaxAmount
		if q.PremiumTaxAmount == nil && q.PremiumTaxPercent != nil {
			derived := tax.DeriveAmount(q.CarrierQuote, *q.PremiumTaxPercent)
			q.PremiumTaxAmount = &derived
		}
		q.TaxAutoCalculated = false
		return
	}
	// Jurisdiction comes from the submission; fetched by the caller.
}

// autoLookupTax fills the tax fields from the rate service, best-effort.
func autoLookupTax(q *models.Quote, state string) {
	result, err := tax.Lookup(state, q.CarrierQuote)
	if err != nil {
		log.Printf("⚠️ [quotes] tax lookup failed for state=%s, leaving manual: %v", state, err)
		return
	}
	q.PremiumTaxPercent = &result.Percent
	q.PremiumTaxAmount = &result.Amount
	q.TaxAutoCalculated = true
}

// GetByID retrieves a quote.
func GetByID(ctx context.Context, id primitive.ObjectID) (*models.Quote, error) {
	var quote models.Quote
	err := DB.QuoteCollection.FindOne(ctx, bson.M{"_id": id}).Decode(&quote)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, utils.NotFound("quote not found")
		}
		return nil, err
	}
	return &quote, nil
}

// ListBySubmission returns all quotes for a submission, newest first.
func ListBySubmission(ctx context.Context, submissionID primitive.ObjectID) ([]models.Quote, error) {
	cursor, err := DB.QuoteCollection.Find(ctx, bson.M{"submissionId": submissionID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var quotes []models.Quote
	if err := cursor.All(ctx, &quotes); err != nil {
		return nil, err
	}
	return quotes, nil
}

// FindApprovedForSubmission returns the APPROVED quote payment and bind
// operate on, or a precondition error if there is none.
func FindApprovedForSubmission(ctx context.Context, submissionID primitive.ObjectID) (*models.Quote, error) {
	var quote models.Quote
	err := DB.QuoteCollection.FindOne(ctx, bson.M{
		"submissionId": submissionID,
		"status":       models.QuoteApproved,
	}).Decode(&quote)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, utils.Precondition("no approved quote on submission", "quote is not approved")
		}
		return nil, err
	}
	return &quote, nil
}

// Approve moves a quote POSTED -> APPROVED. Approving twice is a conflict,
// not a no-op: the second caller must learn the state already changed.
func Approve(ctx context.Context, actor models.ActorRef, id primitive.ObjectID) (*models.Quote, error) {
	now := time.Now()
	res, err := DB.QuoteCollection.UpdateOne(ctx,
		bson.M{"_id": id, "status": models.QuotePosted},
		bson.M{"$set": bson.M{"status": models.QuoteApproved, "approvedAt": now, "updatedAt": now}},
	)
	if err != nil {
		return nil, err
	}
	if res.ModifiedCount == 0 {
		quote, gerr := GetByID(ctx, id)
		if gerr != nil {
			return nil, gerr
		}
		if quote.Status == models.QuoteApproved {
			return nil, utils.Conflict("quote is already approved")
		}
		return nil, utils.Conflict("quote cannot be approved from status " + string(quote.Status))
	}

	quote, err := GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	activitylog.Append(ctx, models.ActivityQuoteApproved,
		"Quote approved by agency", nil, actor, quote.SubmissionID, &quote.ID)

	return quote, nil
}

// Decline marks a quote DECLINED, following the allowed-transition table.
func Decline(ctx context.Context, actor models.ActorRef, id primitive.ObjectID, reason string) (*models.Quote, error) {
	quote, err := GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !models.CanAdvanceQuote(quote.Status, models.QuoteDeclined) {
		return nil, utils.Conflict("quote cannot be declined from status " + string(quote.Status))
	}

	res, err := DB.QuoteCollection.UpdateOne(ctx,
		bson.M{"_id": id, "status": quote.Status},
		bson.M{"$set": bson.M{"status": models.QuoteDeclined, "updatedAt": time.Now()}},
	)
	if err != nil {
		return nil, err
	}
	if res.ModifiedCount == 0 {
		return nil, utils.Conflict("quote state changed concurrently, decline not applied")
	}

	details := map[string]string{}
	if reason != "" {
		details["reason"] = reason
	}
	activitylog.Append(ctx, models.ActivityQuoteDeclined,
		"Quote declined", details, actor, quote.SubmissionID, &quote.ID)

	return GetByID(ctx, id)
}
