// Package esign sequences the signature ceremony: documents go out only
// when the full required set exists, and the submission's esignCompleted
// flag — the single gate for payment — flips exactly once, on confirmed
// completion.
package esign

import (
	DB "Backend-Brokerflow/src/database"
	"Backend-Brokerflow/src/jobs"
	"Backend-Brokerflow/src/models"
	"Backend-Brokerflow/src/qrcode"
	"Backend-Brokerflow/src/services/activitylog"
	"Backend-Brokerflow/src/services/documents"
	"Backend-Brokerflow/src/services/quotes"
	"Backend-Brokerflow/src/services/submissions"
	"Backend-Brokerflow/src/services/workflow"
	"Backend-Brokerflow/src/utils"
	"context"
	"log"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const sendLockTTL = 30 * time.Second

// acquireSendLock takes a short redis lock per submission around the
// envelope hand-off. Without redis the ModifiedCount check on the SENT
// write still rejects the duplicate, at the cost of a wasted envelope.
func acquireSendLock(ctx context.Context, submissionID primitive.ObjectID) (release func(), ok bool) {
	if DB.RedisClient == nil {
		return func() {}, true
	}
	key := "esign:send:" + submissionID.Hex()
	acquired, err := DB.RedisClient.SetNX(ctx, key, "1", sendLockTTL).Result()
	if err != nil {
		log.Println("⚠️ [esign] lock error, proceeding without lock:", err)
		return func() {}, true
	}
	if !acquired {
		return func() {}, false
	}
	return func() { DB.RedisClient.Del(ctx, key) }, true
}

// SendResult is returned to the caller so the agency can be redirected to
// the signing ceremony.
type SendResult struct {
	SigningURL string                 `json:"signingUrl"`
	QRCodeURL  string                 `json:"qrCodeUrl,omitempty"`
	Documents  []models.QuoteDocument `json:"documents"`
}

// SendForSignature ensures the required document set exists (generating
// any missing type), hands it to the e-sign collaborator, and only then
// marks the documents SENT. A collaborator failure leaves every record
// untouched; re-issuing the call is safe.
func SendForSignature(ctx context.Context, actor models.ActorRef, quoteID primitive.ObjectID) (*SendResult, error) {
	snapshot, err := quotes.Snapshot(ctx, quoteID)
	if err != nil {
		return nil, err
	}
	quote, sub := snapshot.Quote, snapshot.Submission

	if sub.EsignCompleted {
		return nil, utils.Precondition("documents cannot be sent", "e-signature already completed")
	}
	if unmet := workflow.UnmetForDocumentGeneration(*snapshot); unmet != "" {
		return nil, utils.Precondition("documents cannot be sent", unmet)
	}
	for _, doc := range snapshot.Documents {
		if doc.SignatureStatus == models.SignatureSent {
			return nil, utils.Conflict("documents have already been sent for signature")
		}
	}

	agency, carrier, err := quotes.LoadRefs(ctx, quote, sub)
	if err != nil {
		return nil, err
	}

	docs, created, err := documents.EnsureAll(ctx, quote, sub, agency, carrier)
	if err != nil {
		return nil, err
	}
	for _, doc := range created {
		activitylog.Append(ctx, models.ActivityDocumentGenerated,
			"Document generated: "+string(doc.DocumentType),
			map[string]string{"documentType": string(doc.DocumentType), "url": doc.DocumentURL},
			actor, sub.ID, &quoteID)
	}

	urls := make([]string, 0, len(docs))
	for _, doc := range docs {
		urls = append(urls, doc.DocumentURL)
	}

	// Serialize concurrent sends for the same submission so only one
	// envelope is ever created at the collaborator.
	release, ok := acquireSendLock(ctx, sub.ID)
	if !ok {
		return nil, utils.Conflict("documents are already being sent for signature")
	}
	defer release()

	signingURL, err := createEnvelope(urls, agency.ContactName, agency.ContactEmail, sub.ID.Hex())
	if err != nil {
		return nil, utils.Collaborator("e-sign send failed: " + err.Error())
	}

	// The collaborator accepted the envelope; now advance the documents.
	// The write is the authority on duplicates: a concurrent send that got
	// here first already moved every document past GENERATED, so advancing
	// zero documents means this call lost and must not report success.
	now := time.Now()
	res, err := DB.QuoteDocumentCollection.UpdateMany(ctx,
		bson.M{"quoteId": quoteID, "signatureStatus": models.SignatureGenerated},
		bson.M{"$set": bson.M{
			"signatureStatus":    models.SignatureSent,
			"sentForSignatureAt": now,
		}},
	)
	if err != nil {
		return nil, err
	}
	if res.ModifiedCount == 0 {
		return nil, utils.Conflict("documents have already been sent for signature")
	}

	activitylog.Append(ctx, models.ActivitySentForSignature,
		"Documents sent for signature",
		map[string]string{"documentCount": strconv.Itoa(len(docs))},
		actor, sub.ID, &quoteID)

	// QR code for the signing link, for printed paperwork. Best effort.
	qrURL, err := qrcode.SigningLinkPNG(signingURL, sub.ID.Hex())
	if err != nil {
		log.Println("⚠️ Failed to render signing QR code:", err)
		qrURL = ""
	}

	docs, err = documents.ListByQuote(ctx, quoteID)
	if err != nil {
		return nil, err
	}
	return &SendResult{SigningURL: signingURL, QRCodeURL: qrURL, Documents: docs}, nil
}

// CompleteSignature records confirmed signature completion for a
// submission: every document becomes SIGNED and esignCompleted is set.
// Idempotent — a second confirmation is a no-op success. A confirmation
// for a submission whose documents were never sent is rejected; an
// envelope we never issued cannot complete.
func CompleteSignature(ctx context.Context, actor models.ActorRef, submissionID primitive.ObjectID) (*models.Submission, error) {
	sub, err := submissions.GetByID(ctx, submissionID)
	if err != nil {
		return nil, err
	}
	if sub.EsignCompleted {
		return sub, nil // already recorded
	}

	sentCount, err := DB.QuoteDocumentCollection.CountDocuments(ctx, bson.M{
		"submissionId":    submissionID,
		"signatureStatus": models.SignatureSent,
	})
	if err != nil {
		return nil, err
	}
	if sentCount == 0 {
		return nil, utils.Precondition("signature completion rejected", "documents were never sent for signature")
	}

	now := time.Now()
	_, err = DB.QuoteDocumentCollection.UpdateMany(ctx,
		bson.M{"submissionId": submissionID, "signatureStatus": bson.M{"$ne": models.SignatureSigned}},
		bson.M{"$set": bson.M{
			"signatureStatus": models.SignatureSigned,
			"signedAt":        now,
		}},
	)
	if err != nil {
		return nil, err
	}

	// Denormalize the signed set onto the submission for display.
	cursor, err := DB.QuoteDocumentCollection.Find(ctx, bson.M{"submissionId": submissionID})
	if err != nil {
		return nil, err
	}
	var signedDocs []models.QuoteDocument
	if err := cursor.All(ctx, &signedDocs); err != nil {
		return nil, err
	}

	res, err := DB.SubmissionCollection.UpdateOne(ctx,
		bson.M{"_id": submissionID, "esignCompleted": false},
		bson.M{"$set": bson.M{
			"esignCompleted":   true,
			"esignCompletedAt": now,
			"signedDocuments":  signedDocs,
			"updatedAt":        now,
		}},
	)
	if err != nil {
		return nil, err
	}
	if res.ModifiedCount == 0 {
		// A concurrent confirmation won; same outcome.
		return submissions.GetByID(ctx, submissionID)
	}

	activitylog.Append(ctx, models.ActivityEsignCompleted,
		"E-signature completed", nil, actor, submissionID, nil)

	jobs.EnqueueAgencyNotification(jobs.NotifyAgencyPayload{
		Event:        "ESIGN_COMPLETED",
		SubmissionID: submissionID.Hex(),
	})

	return submissions.GetByID(ctx, submissionID)
}
