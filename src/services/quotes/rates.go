package quotes

import (
	DB "Backend-Brokerflow/src/database"
	"Backend-Brokerflow/src/models"
	"Backend-Brokerflow/src/services/activitylog"
	"Backend-Brokerflow/src/services/premium"
	"Backend-Brokerflow/src/services/submissions"
	"Backend-Brokerflow/src/services/tax"
	"Backend-Brokerflow/src/utils"
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UpdateBrokerFee edits the agency's fee on a POSTED quote and recomputes
// the final amount in the same write. Approved quotes are locked.
func UpdateBrokerFee(ctx context.Context, actor models.ActorRef, id primitive.ObjectID, fee models.Money) (*models.Quote, error) {
	if fee.IsNegative() {
		return nil, utils.Validation("brokerFee must not be negative")
	}

	quote, err := GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if quote.Status != models.QuotePosted {
		return nil, utils.Conflict("broker fee can only be edited while the quote is posted")
	}

	oldFee := quote.BrokerFee
	quote.BrokerFee = fee
	if err := premium.Recompute(quote); err != nil {
		return nil, err
	}

	res, err := DB.QuoteCollection.UpdateOne(ctx,
		bson.M{"_id": id, "status": models.QuotePosted},
		bson.M{"$set": bson.M{
			"brokerFee":   fee,
			"finalAmount": quote.FinalAmount,
			"updatedAt":   time.Now(),
		}},
	)
	if err != nil {
		return nil, err
	}
	if res.ModifiedCount == 0 {
		return nil, utils.Conflict("quote is no longer posted, broker fee not updated")
	}

	activitylog.Append(ctx, models.ActivityBrokerFeeUpdated,
		"Broker fee updated",
		map[string]string{"from": oldFee.String(), "to": fee.String(), "finalAmount": quote.FinalAmount.String()},
		actor, quote.SubmissionID, &quote.ID)

	return GetByID(ctx, id)
}

// SetManualTax records a manually entered tax percent, re-deriving the
// amount locally — no call to the rate service.
func SetManualTax(ctx context.Context, actor models.ActorRef, id primitive.ObjectID, percent models.Money) (*models.Quote, error) {
	if percent.IsNegative() {
		return nil, utils.Validation("premiumTaxPercent must not be negative")
	}

	quote, err := GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if quote.Status != models.QuotePosted {
		return nil, utils.Conflict("tax can only be edited while the quote is posted")
	}

	amount := tax.DeriveAmount(quote.CarrierQuote, percent)
	quote.PremiumTaxPercent = &percent
	quote.PremiumTaxAmount = &amount
	if err := premium.Recompute(quote); err != nil {
		return nil, err
	}

	res, err := DB.QuoteCollection.UpdateOne(ctx,
		bson.M{"_id": id, "status": models.QuotePosted},
		bson.M{"$set": bson.M{
			"premiumTaxPercent": percent,
			"premiumTaxAmount":  amount,
			"taxAutoCalculated": false,
			"finalAmount":       quote.FinalAmount,
			"updatedAt":         time.Now(),
		}},
	)
	if err != nil {
		return nil, err
	}
	if res.ModifiedCount == 0 {
		return nil, utils.Conflict("quote is no longer posted, tax not updated")
	}

	activitylog.Append(ctx, models.ActivityTaxUpdated,
		"Premium tax entered manually",
		map[string]string{"percent": percent.String(), "amount": amount.String()},
		actor, quote.SubmissionID, &quote.ID)

	return GetByID(ctx, id)
}

// RefreshTax re-queries the rate service for a POSTED quote. On lookup
// failure the stored values stay untouched and the error is returned so
// the admin can fall back to manual entry.
func RefreshTax(ctx context.Context, actor models.ActorRef, id primitive.ObjectID) (*models.Quote, error) {
	quote, err := GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if quote.Status != models.QuotePosted {
		return nil, utils.Conflict("tax can only be recalculated while the quote is posted")
	}

	sub, err := submissions.GetByID(ctx, quote.SubmissionID)
	if err != nil {
		return nil, err
	}

	result, err := tax.Lookup(sub.InsuredState, quote.CarrierQuote)
	if err != nil {
		return nil, utils.Collaborator("tax lookup failed: " + err.Error())
	}

	quote.PremiumTaxPercent = &result.Percent
	quote.PremiumTaxAmount = &result.Amount
	quote.TaxAutoCalculated = true
	if err := premium.Recompute(quote); err != nil {
		return nil, err
	}

	res, err := DB.QuoteCollection.UpdateOne(ctx,
		bson.M{"_id": id, "status": models.QuotePosted},
		bson.M{"$set": bson.M{
			"premiumTaxPercent": result.Percent,
			"premiumTaxAmount":  result.Amount,
			"taxAutoCalculated": true,
			"finalAmount":       quote.FinalAmount,
			"updatedAt":         time.Now(),
		}},
	)
	if err != nil {
		return nil, err
	}
	if res.ModifiedCount == 0 {
		return nil, utils.Conflict("quote is no longer posted, tax not updated")
	}

	activitylog.Append(ctx, models.ActivityTaxUpdated,
		"Premium tax auto-calculated",
		map[string]string{"percent": result.Percent.String(), "amount": result.Amount.String()},
		actor, quote.SubmissionID, &quote.ID)

	return GetByID(ctx, id)
}
