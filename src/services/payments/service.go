// Package payments records premium payment against a submission. Payment
// is critical: a processor failure fails the operation outright and leaves
// the submission untouched. Retry is the caller's decision.
package payments

import (
	DB "Backend-Brokerflow/src/database"
	"Backend-Brokerflow/src/jobs"
	"Backend-Brokerflow/src/models"
	"Backend-Brokerflow/src/services/activitylog"
	"Backend-Brokerflow/src/services/quotes"
	"Backend-Brokerflow/src/services/submissions"
	"Backend-Brokerflow/src/services/workflow"
	"Backend-Brokerflow/src/utils"
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PayInput struct {
	Amount *models.Money `json:"amount" validate:"required"`
	Method string        `json:"method" validate:"required"`
}

const chargeLockTTL = 30 * time.Second

// acquireChargeLock takes a short redis lock per submission around the
// processor call and the PAID write.
func acquireChargeLock(ctx context.Context, submissionID primitive.ObjectID) (release func(), ok bool) {
	if DB.RedisClient == nil {
		return func() {}, true
	}
	key := "payment:" + submissionID.Hex()
	acquired, err := DB.RedisClient.SetNX(ctx, key, "1", chargeLockTTL).Result()
	if err != nil {
		log.Println("⚠️ [payments] lock error, proceeding without lock:", err)
		return func() {}, true
	}
	if !acquired {
		return func() {}, false
	}
	return func() { DB.RedisClient.Del(ctx, key) }, true
}

// Pay charges the agreed amount for a submission's approved quote. The
// amount must match the quote's final amount exactly; the PAID flip is a
// conditional write so a duplicate payment attempt conflicts instead of
// double-recording.
func Pay(ctx context.Context, actor models.ActorRef, submissionID primitive.ObjectID, in PayInput) (*models.Submission, error) {
	if in.Amount == nil {
		return nil, utils.Validation("amount is required")
	}
	if in.Method == "" {
		return nil, utils.Validation("method is required")
	}

	sub, err := submissions.GetByID(ctx, submissionID)
	if err != nil {
		return nil, err
	}

	quote, err := quotes.FindApprovedForSubmission(ctx, submissionID)
	if err != nil {
		return nil, err
	}

	snapshot := workflow.Snapshot{Quote: *quote, Submission: *sub}
	if unmet := workflow.UnmetForPayment(snapshot); unmet != "" {
		return nil, utils.Precondition("payment not allowed", unmet)
	}

	if !in.Amount.Equal(quote.FinalAmount) {
		return nil, utils.Validation("payment amount does not match the quote final amount of " + quote.FinalAmount.String())
	}

	// Serialize concurrent payment attempts so only one charge reaches the
	// processor. The conditional PAID write below still rejects a duplicate
	// that slips past (no redis); the submission id doubles as the
	// processor-side idempotency reference.
	release, ok := acquireChargeLock(ctx, submissionID)
	if !ok {
		return nil, utils.Conflict("a payment for this submission is already in progress")
	}
	defer release()

	if err := callProcessor(submissionID.Hex(), *in.Amount, in.Method); err != nil {
		return nil, utils.Collaborator("payment failed: " + err.Error())
	}

	now := time.Now()
	res, err := DB.SubmissionCollection.UpdateOne(ctx,
		bson.M{"_id": submissionID, "paymentStatus": models.PaymentPending, "esignCompleted": true},
		bson.M{"$set": bson.M{
			"paymentStatus": models.PaymentPaid,
			"paymentDate":   now,
			"paymentAmount": *in.Amount,
			"paymentMethod": in.Method,
			"updatedAt":     now,
		}},
	)
	if err != nil {
		return nil, err
	}
	if res.ModifiedCount == 0 {
		return nil, utils.Conflict("payment has already been recorded")
	}

	activitylog.Append(ctx, models.ActivityPaymentCompleted,
		"Payment received",
		map[string]string{"amount": in.Amount.String(), "method": in.Method},
		actor, submissionID, &quote.ID)

	jobs.EnqueueAgencyNotification(jobs.NotifyAgencyPayload{
		Event:        "PAYMENT_COMPLETED",
		SubmissionID: submissionID.Hex(),
		QuoteID:      quote.ID.Hex(),
		Amount:       in.Amount.String(),
	})

	return submissions.GetByID(ctx, submissionID)
}
