package quotes

import (
	DB "Backend-Brokerflow/src/database"
	"Backend-Brokerflow/src/jobs"
	"Backend-Brokerflow/src/models"
	"Backend-Brokerflow/src/services/activitylog"
	"Backend-Brokerflow/src/services/submissions"
	"Backend-Brokerflow/src/services/workflow"
	"Backend-Brokerflow/src/utils"
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RequestBind flips the submission's bindRequested flag and advances both
// records to BIND_REQUESTED. The flag flip is the serialization point: the
// conditional write includes bindRequested=false, so a duplicate request
// loses at the store and comes back as a conflict with the original
// timestamp intact.
func RequestBind(ctx context.Context, actor models.ActorRef, quoteID primitive.ObjectID) (*models.Quote, *models.Submission, error) {
	quote, err := GetByID(ctx, quoteID)
	if err != nil {
		return nil, nil, err
	}
	sub, err := submissions.GetByID(ctx, quote.SubmissionID)
	if err != nil {
		return nil, nil, err
	}

	snapshot := workflow.Snapshot{Quote: *quote, Submission: *sub}
	if unmet := workflow.UnmetForBindRequest(snapshot); unmet != "" {
		if unmet == "bind has already been requested" {
			return nil, nil, utils.Conflict("bind has already been requested")
		}
		return nil, nil, utils.Precondition("bind cannot be requested", unmet)
	}
	if quote.Status != models.QuoteApproved {
		return nil, nil, utils.Precondition("bind cannot be requested", "quote is not approved")
	}

	now := time.Now()
	res, err := DB.SubmissionCollection.UpdateOne(ctx,
		bson.M{
			"_id":            sub.ID,
			"esignCompleted": true,
			"paymentStatus":  models.PaymentPaid,
			"bindRequested":  false,
		},
		bson.M{"$set": bson.M{
			"bindRequested":   true,
			"bindRequestedAt": now,
			"status":          models.SubmissionBindRequested,
			"updatedAt":       now,
		}},
	)
	if err != nil {
		return nil, nil, err
	}
	if res.ModifiedCount == 0 {
		return nil, nil, utils.Conflict("bind has already been requested")
	}

	res, err = DB.QuoteCollection.UpdateOne(ctx,
		bson.M{"_id": quoteID, "status": models.QuoteApproved},
		bson.M{"$set": bson.M{"status": models.QuoteBindRequested, "updatedAt": now}},
	)
	if err != nil {
		return nil, nil, err
	}
	if res.ModifiedCount == 0 {
		log.Printf("❌ [quotes] submission %s bind-requested but quote %s was not approved",
			sub.ID.Hex(), quoteID.Hex())
	}

	activitylog.Append(ctx, models.ActivityBindRequested,
		"Bind requested by agency", nil, actor, sub.ID, &quoteID)

	jobs.EnqueueAgencyNotification(jobs.NotifyAgencyPayload{
		Event:        "BIND_REQUESTED",
		SubmissionID: sub.ID.Hex(),
		QuoteID:      quoteID.Hex(),
	})

	quote, err = GetByID(ctx, quoteID)
	if err != nil {
		return nil, nil, err
	}
	sub, err = submissions.GetByID(ctx, quote.SubmissionID)
	if err != nil {
		return nil, nil, err
	}
	return quote, sub, nil
}

// ApproveBind finalizes coverage: quote -> BOUND, submission -> BOUND,
// bindApproved set. Admin-only; requires an outstanding bind request.
func ApproveBind(ctx context.Context, actor models.ActorRef, quoteID primitive.ObjectID) (*models.Quote, *models.Submission, error) {
	quote, err := GetByID(ctx, quoteID)
	if err != nil {
		return nil, nil, err
	}
	if quote.Status != models.QuoteBindRequested {
		return nil, nil, utils.Conflict("quote has no outstanding bind request")
	}

	now := time.Now()
	res, err := DB.SubmissionCollection.UpdateOne(ctx,
		bson.M{"_id": quote.SubmissionID, "bindRequested": true, "bindApproved": false},
		bson.M{"$set": bson.M{
			"bindApproved":   true,
			"bindApprovedAt": now,
			"status":         models.SubmissionBound,
			"updatedAt":      now,
		}},
	)
	if err != nil {
		return nil, nil, err
	}
	if res.ModifiedCount == 0 {
		return nil, nil, utils.Conflict("bind has already been approved or was never requested")
	}

	_, err = DB.QuoteCollection.UpdateOne(ctx,
		bson.M{"_id": quoteID, "status": models.QuoteBindRequested},
		bson.M{"$set": bson.M{"status": models.QuoteBound, "updatedAt": now}},
	)
	if err != nil {
		return nil, nil, err
	}

	activitylog.Append(ctx, models.ActivityBindApproved,
		"Bind approved, policy bound", nil, actor, quote.SubmissionID, &quoteID)

	jobs.EnqueueAgencyNotification(jobs.NotifyAgencyPayload{
		Event:        "BIND_APPROVED",
		SubmissionID: quote.SubmissionID.Hex(),
		QuoteID:      quoteID.Hex(),
	})

	quote, err = GetByID(ctx, quoteID)
	if err != nil {
		return nil, nil, err
	}
	sub, err := submissions.GetByID(ctx, quote.SubmissionID)
	if err != nil {
		return nil, nil, err
	}
	return quote, sub, nil
}
