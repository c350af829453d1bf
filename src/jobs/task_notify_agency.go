package jobs

import (
	"context"
	"encoding/json"
	"log"

	"Backend-Brokerflow/src/database"
	"Backend-Brokerflow/src/models"
	"Backend-Brokerflow/src/services/email"

	"github.com/hibiken/asynq"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// HandleNotifyAgencyTask sends one agency email for a workflow event.
// A missing record means the notification is stale; the task is dropped,
// not retried.
func HandleNotifyAgencyTask(ctx context.Context, t *asynq.Task) error {
	var payload NotifyAgencyPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		log.Println("❌ [notify] Payload decode error:", err)
		return err
	}

	submissionID, err := primitive.ObjectIDFromHex(payload.SubmissionID)
	if err != nil {
		log.Println("❌ [notify] Invalid submission id:", payload.SubmissionID)
		return nil
	}

	var sub models.Submission
	err = database.SubmissionCollection.FindOne(ctx, bson.M{"_id": submissionID}).Decode(&sub)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			log.Println("⚠️ [notify] Submission not found. Skipping:", payload.SubmissionID)
			return nil
		}
		return err
	}

	var agency models.Agency
	err = database.AgencyCollection.FindOne(ctx, bson.M{"_id": sub.AgencyID}).Decode(&agency)
	if err != nil {
		log.Println("⚠️ [notify] Agency not found for submission:", payload.SubmissionID)
		return nil
	}

	data := email.NotificationData{
		AgencyName:  agency.Name,
		InsuredName: sub.InsuredName,
		FinalAmount: payload.Amount,
	}

	if payload.QuoteID != "" {
		if quoteID, qerr := primitive.ObjectIDFromHex(payload.QuoteID); qerr == nil {
			var quote models.Quote
			if database.QuoteCollection.FindOne(ctx, bson.M{"_id": quoteID}).Decode(&quote) == nil {
				if data.FinalAmount == "" {
					data.FinalAmount = quote.FinalAmount.String()
				}
			}
		}
	}

	subject, html, err := email.RenderNotification(payload.Event, data)
	if err != nil {
		log.Println("❌ [notify] Template error:", err)
		return nil
	}

	sender, err := email.NewSMTPSenderFromEnv()
	if err != nil {
		log.Println("⚠️ [notify] SMTP not configured, dropping notification:", err)
		return nil
	}

	if err := sender.Send(agency.ContactEmail, subject, html); err != nil {
		log.Println("❌ [notify] Send failed:", err)
		return err // let asynq retry
	}

	log.Printf("✅ [notify] Sent %s to %s", payload.Event, agency.ContactEmail)
	return nil
}
