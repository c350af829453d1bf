package quotes

import (
	DB "Backend-Brokerflow/src/database"
	"Backend-Brokerflow/src/models"
	"Backend-Brokerflow/src/services/activitylog"
	"Backend-Brokerflow/src/services/documents"
	"Backend-Brokerflow/src/services/workflow"
	"Backend-Brokerflow/src/utils"
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// LoadRefs fetches the agency and carrier a quote renders documents from.
func LoadRefs(ctx context.Context, quote models.Quote, sub models.Submission) (models.Agency, models.Carrier, error) {
	var agency models.Agency
	if err := DB.AgencyCollection.FindOne(ctx, bson.M{"_id": sub.AgencyID}).Decode(&agency); err != nil {
		if err == mongo.ErrNoDocuments {
			return agency, models.Carrier{}, utils.NotFound("agency not found")
		}
		return agency, models.Carrier{}, err
	}
	var carrier models.Carrier
	if err := DB.CarrierCollection.FindOne(ctx, bson.M{"_id": quote.CarrierID}).Decode(&carrier); err != nil {
		if err == mongo.ErrNoDocuments {
			return agency, carrier, utils.NotFound("carrier not found")
		}
		return agency, carrier, err
	}
	return agency, carrier, nil
}

// GenerateDocuments produces every required document for an approved quote
// that is still missing, behind the document-generation gate. Each newly
// generated document gets one activity entry; reused ones do not.
func GenerateDocuments(ctx context.Context, actor models.ActorRef, quoteID primitive.ObjectID) ([]models.QuoteDocument, error) {
	snapshot, err := Snapshot(ctx, quoteID)
	if err != nil {
		return nil, err
	}

	if unmet := workflow.UnmetForDocumentGeneration(*snapshot); unmet != "" {
		return nil, utils.Precondition("documents cannot be generated", unmet)
	}

	agency, carrier, err := LoadRefs(ctx, snapshot.Quote, snapshot.Submission)
	if err != nil {
		return nil, err
	}

	all, created, err := documents.EnsureAll(ctx, snapshot.Quote, snapshot.Submission, agency, carrier)
	if err != nil {
		return nil, err
	}

	for _, doc := range created {
		activitylog.Append(ctx, models.ActivityDocumentGenerated,
			"Document generated: "+string(doc.DocumentType),
			map[string]string{"documentType": string(doc.DocumentType), "url": doc.DocumentURL},
			actor, snapshot.Submission.ID, &quoteID)
	}

	return all, nil
}
