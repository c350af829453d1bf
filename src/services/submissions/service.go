package submissions

import (
	DB "Backend-Brokerflow/src/database"
	"Backend-Brokerflow/src/jobs"
	"Backend-Brokerflow/src/models"
	"Backend-Brokerflow/src/services/activitylog"
	"Backend-Brokerflow/src/utils"
	"context"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var validate = validator.New()

type CreateInput struct {
	AgencyID     string `json:"agencyId" validate:"required"`
	TemplateID   string `json:"templateId,omitempty"`
	InsuredName  string `json:"insuredName" validate:"required"`
	InsuredState string `json:"insuredState" validate:"required"`
}

// Create registers a new submission at intake, status SUBMITTED.
func Create(ctx context.Context, actor models.ActorRef, in CreateInput) (*models.Submission, error) {
	if err := validate.Struct(in); err != nil {
		return nil, utils.Validation("invalid submission: " + err.Error())
	}

	agencyID, err := primitive.ObjectIDFromHex(in.AgencyID)
	if err != nil {
		return nil, utils.Validation("invalid agencyId")
	}

	if err := DB.AgencyCollection.FindOne(ctx, bson.M{"_id": agencyID}).Err(); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, utils.NotFound("agency not found")
		}
		return nil, err
	}

	now := time.Now()
	sub := models.Submission{
		ID:            primitive.NewObjectID(),
		AgencyID:      agencyID,
		InsuredName:   in.InsuredName,
		InsuredState:  in.InsuredState,
		Status:        models.SubmissionSubmitted,
		PaymentStatus: models.PaymentPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if in.TemplateID != "" {
		if templateID, terr := primitive.ObjectIDFromHex(in.TemplateID); terr == nil {
			sub.TemplateID = templateID
		}
	}

	if _, err := DB.SubmissionCollection.InsertOne(ctx, sub); err != nil {
		return nil, err
	}

	activitylog.Append(ctx, models.ActivitySubmissionCreated,
		"Submission created for "+in.InsuredName, nil, actor, sub.ID, nil)

	log.Printf("[submissions] created id=%s agency=%s", sub.ID.Hex(), agencyID.Hex())
	return &sub, nil
}

// GetByID retrieves a submission by its ID.
func GetByID(ctx context.Context, id primitive.ObjectID) (*models.Submission, error) {
	var sub models.Submission
	err := DB.SubmissionCollection.FindOne(ctx, bson.M{"_id": id}).Decode(&sub)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, utils.NotFound("submission not found")
		}
		return nil, err
	}
	return &sub, nil
}

// List returns submissions, optionally scoped to one agency, newest first.
func List(ctx context.Context, agencyID *primitive.ObjectID, params models.PaginationParams) ([]models.Submission, int64, error) {
	filter := bson.M{}
	if agencyID != nil {
		filter["agencyId"] = *agencyID
	}

	total, err := DB.SubmissionCollection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	findOpts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(params.GetSkip()).
		SetLimit(int64(params.Limit))

	cursor, err := DB.SubmissionCollection.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var subs []models.Submission
	if err := cursor.All(ctx, &subs); err != nil {
		return nil, 0, err
	}
	return subs, total, nil
}

// Route advances SUBMITTED -> ROUTED (admin has selected carriers).
// The write is conditional on the current status, so a concurrent route
// or decline loses cleanly.
func Route(ctx context.Context, actor models.ActorRef, id primitive.ObjectID) (*models.Submission, error) {
	res, err := DB.SubmissionCollection.UpdateOne(ctx,
		bson.M{"_id": id, "status": models.SubmissionSubmitted},
		bson.M{"$set": bson.M{"status": models.SubmissionRouted, "updatedAt": time.Now()}},
	)
	if err != nil {
		return nil, err
	}
	if res.ModifiedCount == 0 {
		sub, gerr := GetByID(ctx, id)
		if gerr != nil {
			return nil, gerr
		}
		return nil, utils.Conflict("submission cannot be routed from status " + string(sub.Status))
	}

	activitylog.Append(ctx, models.ActivitySubmissionRouted,
		"Submission routed to carriers", nil, actor, id, nil)

	return GetByID(ctx, id)
}

// Decline marks a submission DECLINED. Terminal; allowed from any state
// except BOUND or an earlier decline.
func Decline(ctx context.Context, actor models.ActorRef, id primitive.ObjectID, reason string) (*models.Submission, error) {
	res, err := DB.SubmissionCollection.UpdateOne(ctx,
		bson.M{"_id": id, "status": bson.M{"$nin": bson.A{models.SubmissionDeclined, models.SubmissionBound}}},
		bson.M{"$set": bson.M{"status": models.SubmissionDeclined, "updatedAt": time.Now()}},
	)
	if err != nil {
		return nil, err
	}
	if res.ModifiedCount == 0 {
		sub, gerr := GetByID(ctx, id)
		if gerr != nil {
			return nil, gerr
		}
		return nil, utils.Conflict("submission cannot be declined from status " + string(sub.Status))
	}

	details := map[string]string{}
	if reason != "" {
		details["reason"] = reason
	}
	activitylog.Append(ctx, models.ActivitySubmissionDeclined,
		"Submission declined", details, actor, id, nil)

	return GetByID(ctx, id)
}

// final-document slot names accepted by RecordFinalDocument
var finalDocSlots = map[string]string{
	"binder":      "finalPolicyDocuments.binder",
	"policy":      "finalPolicyDocuments.policy",
	"certificate": "finalPolicyDocuments.certificate",
}

// RecordFinalDocument stores the URL of an uploaded post-bind document.
// Each slot is independently overwritable; the submission stays BOUND.
func RecordFinalDocument(ctx context.Context, actor models.ActorRef, id primitive.ObjectID, slot, url string) (*models.Submission, error) {
	field, ok := finalDocSlots[slot]
	if !ok {
		return nil, utils.Validation("unknown final document slot: " + slot)
	}

	sub, err := GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sub.Status != models.SubmissionBound {
		return nil, utils.Precondition("final documents can only be uploaded after bind", "submission is not bound")
	}

	now := time.Now()
	_, err = DB.SubmissionCollection.UpdateOne(ctx,
		bson.M{"_id": id, "status": models.SubmissionBound},
		bson.M{"$set": bson.M{
			field:       models.FinalPolicyFile{URL: url, UploadedAt: now},
			"updatedAt": now,
		}},
	)
	if err != nil {
		return nil, err
	}

	activitylog.Append(ctx, models.ActivityFinalDocumentUploaded,
		"Final "+slot+" uploaded", map[string]string{"slot": slot, "url": url}, actor, id, nil)

	jobs.EnqueueAgencyNotification(jobs.NotifyAgencyPayload{
		Event:        "FINAL_DOCUMENT_UPLOADED",
		SubmissionID: id.Hex(),
	})

	return GetByID(ctx, id)
}
