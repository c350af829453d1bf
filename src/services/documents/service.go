// Package documents tracks per-quote generated documents. Generation is
// idempotent per (quote, documentType): an existing record short-circuits
// with its stored URL, a unique index blocks duplicates at write time, and
// a short redis lock serializes concurrent requests for the same type.
package documents

import (
	DB "Backend-Brokerflow/src/database"
	"Backend-Brokerflow/src/models"
	"Backend-Brokerflow/src/utils"
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const generationLockTTL = 30 * time.Second

// ListByQuote returns every generated document for a quote.
func ListByQuote(ctx context.Context, quoteID primitive.ObjectID) ([]models.QuoteDocument, error) {
	cursor, err := DB.QuoteDocumentCollection.Find(ctx, bson.M{"quoteId": quoteID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []models.QuoteDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// FindByType returns the document of one type for a quote, or nil.
func FindByType(ctx context.Context, quoteID primitive.ObjectID, docType models.DocumentType) (*models.QuoteDocument, error) {
	var doc models.QuoteDocument
	err := DB.QuoteDocumentCollection.FindOne(ctx, bson.M{
		"quoteId":      quoteID,
		"documentType": docType,
	}).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &doc, nil
}

// buildRenderFields assembles the structured input for the renderer from
// the quote, submission, agency and carrier records.
func buildRenderFields(q models.Quote, sub models.Submission, agency models.Agency, carrier models.Carrier) RenderFields {
	fields := RenderFields{
		"insuredName":  sub.InsuredName,
		"insuredState": sub.InsuredState,
		"agencyName":   agency.Name,
		"carrierName":  carrier.Name,
		"carrierQuote": q.CarrierQuote.String(),
		"brokerFee":    q.BrokerFee.String(),
		"finalAmount":  q.FinalAmount.String(),
		"limits":       q.Limits,
		"policyNumber": q.PolicyNumber,
	}
	if q.PremiumTaxAmount != nil {
		fields["premiumTaxAmount"] = q.PremiumTaxAmount.String()
	}
	if q.PolicyFee != nil {
		fields["policyFee"] = q.PolicyFee.String()
	}
	if q.EffectiveDate != nil {
		fields["effectiveDate"] = q.EffectiveDate.Format("2006-01-02")
	}
	if q.ExpirationDate != nil {
		fields["expirationDate"] = q.ExpirationDate.Format("2006-01-02")
	}
	return fields
}

// acquireGenerationLock takes a short redis lock for (quote, type) so a
// second in-flight request waits out the first and then reuses its result.
// Without redis the unique index still prevents duplicates.
func acquireGenerationLock(ctx context.Context, quoteID primitive.ObjectID, docType models.DocumentType) (release func(), ok bool) {
	if DB.RedisClient == nil {
		return func() {}, true
	}
	key := fmt.Sprintf("docgen:%s:%s", quoteID.Hex(), docType)
	acquired, err := DB.RedisClient.SetNX(ctx, key, "1", generationLockTTL).Result()
	if err != nil {
		log.Println("⚠️ [documents] lock error, proceeding without lock:", err)
		return func() {}, true
	}
	if !acquired {
		return func() {}, false
	}
	return func() { DB.RedisClient.Del(ctx, key) }, true
}

// Generate produces one document of the given type for the quote. If a
// document of that type already exists its URL is reused and no render
// happens. A render failure creates no record at all.
// The returned bool is true when an existing document was reused.
func Generate(ctx context.Context, q models.Quote, sub models.Submission, agency models.Agency,
	carrier models.Carrier, docType models.DocumentType) (*models.QuoteDocument, bool, error) {

	if existing, err := FindByType(ctx, q.ID, docType); err != nil {
		return nil, false, err
	} else if existing != nil {
		return existing, true, nil
	}

	release, ok := acquireGenerationLock(ctx, q.ID, docType)
	if !ok {
		// Another request holds the lock; it either has written the
		// document or failed. Re-check instead of rendering twice.
		if existing, err := FindByType(ctx, q.ID, docType); err != nil {
			return nil, false, err
		} else if existing != nil {
			return existing, true, nil
		}
		return nil, false, utils.Conflict("document generation already in progress for " + string(docType))
	}
	defer release()

	// Re-check inside the lock.
	if existing, err := FindByType(ctx, q.ID, docType); err != nil {
		return nil, false, err
	} else if existing != nil {
		return existing, true, nil
	}

	url, err := callRenderer(string(docType), buildRenderFields(q, sub, agency, carrier))
	if err != nil {
		log.Printf("❌ [documents] render failed for quote=%s type=%s: %v", q.ID.Hex(), docType, err)
		return nil, false, utils.Collaborator("document rendering failed: " + err.Error())
	}

	doc := models.QuoteDocument{
		ID:              primitive.NewObjectID(),
		QuoteID:         q.ID,
		SubmissionID:    q.SubmissionID,
		DocumentType:    docType,
		DocumentURL:     url,
		SignatureStatus: models.SignatureGenerated,
		GeneratedAt:     time.Now(),
	}

	if _, err := DB.QuoteDocumentCollection.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			// Lost a race despite the lock. The winner's record is
			// authoritative; reuse it.
			if existing, ferr := FindByType(ctx, q.ID, docType); ferr == nil && existing != nil {
				return existing, true, nil
			}
		}
		return nil, false, err
	}

	log.Printf("✅ [documents] generated %s for quote=%s", docType, q.ID.Hex())
	return &doc, false, nil
}

// EnsureAll generates any missing required document for the quote and
// returns the full set. Already-existing documents are left untouched.
func EnsureAll(ctx context.Context, q models.Quote, sub models.Submission, agency models.Agency, carrier models.Carrier) ([]models.QuoteDocument, []models.QuoteDocument, error) {
	var created []models.QuoteDocument
	for _, docType := range models.RequiredDocumentTypes(q) {
		doc, reused, err := Generate(ctx, q, sub, agency, carrier, docType)
		if err != nil {
			return nil, nil, err
		}
		if !reused {
			created = append(created, *doc)
		}
	}
	all, err := ListByQuote(ctx, q.ID)
	if err != nil {
		return nil, nil, err
	}
	return all, created, nil
}

// GenerateBinder renders the binder issued at quote entry. The binder is
// not part of the signature document set; its URL lives on the quote.
func GenerateBinder(ctx context.Context, q models.Quote, sub models.Submission, agency models.Agency, carrier models.Carrier) (string, error) {
	if q.BinderPdfURL != "" {
		return q.BinderPdfURL, nil
	}

	url, err := callRenderer("BINDER", buildRenderFields(q, sub, agency, carrier))
	if err != nil {
		return "", utils.Collaborator("binder rendering failed: " + err.Error())
	}

	_, err = DB.QuoteCollection.UpdateOne(ctx,
		bson.M{"_id": q.ID},
		bson.M{"$set": bson.M{"binderPdfUrl": url, "updatedAt": time.Now()}},
	)
	if err != nil {
		return "", err
	}
	return url, nil
}
