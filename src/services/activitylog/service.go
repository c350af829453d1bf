// Package activitylog appends audit entries for every successful state
// transition. Entries are never updated or deleted. A failed append is
// logged and swallowed — the transition it mirrors has already committed.
package activitylog

import (
	DB "Backend-Brokerflow/src/database"
	"Backend-Brokerflow/src/models"
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Append writes one entry. quoteID may be nil for submission-level actions.
func Append(ctx context.Context, activityType, description string, details map[string]string,
	actor models.ActorRef, submissionID primitive.ObjectID, quoteID *primitive.ObjectID) {

	entry := models.ActivityLog{
		ID:           primitive.NewObjectID(),
		ActivityType: activityType,
		Description:  description,
		Details:      details,
		PerformedBy:  actor,
		SubmissionID: submissionID,
		QuoteID:      quoteID,
		CreatedAt:    time.Now(),
	}

	if _, err := DB.ActivityLogCollection.InsertOne(ctx, entry); err != nil {
		log.Printf("❌ [activitylog] failed to append %s for submission %s: %v",
			activityType, submissionID.Hex(), err)
	}
}

// ListBySubmission returns the timeline for a submission, newest first.
func ListBySubmission(ctx context.Context, submissionID primitive.ObjectID, params models.PaginationParams) ([]models.ActivityLog, int64, error) {
	filter := bson.M{"submissionId": submissionID}

	total, err := DB.ActivityLogCollection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	findOpts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(params.GetSkip()).
		SetLimit(int64(params.Limit))

	cursor, err := DB.ActivityLogCollection.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var entries []models.ActivityLog
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}
