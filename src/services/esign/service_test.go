package esign

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	DB "Backend-Brokerflow/src/database"
	"Backend-Brokerflow/src/models"
	"Backend-Brokerflow/src/utils"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func toBsonD(t *testing.T, v interface{}) bson.D {
	t.Helper()
	raw, err := bson.Marshal(v)
	assert.NoError(t, err)
	var d bson.D
	assert.NoError(t, bson.Unmarshal(raw, &d))
	return d
}

// A concurrent send that read the same all-GENERATED snapshot must lose at
// the store: when the SENT write advances zero documents, the call reports
// a conflict instead of a second success.
func TestSendForSignatureDuplicateLosesAtTheStore(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("ZeroDocumentsAdvanced", func(mt *mtest.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]string{"signingUrl": "https://sign.example.com/s/abc"})
		}))
		defer srv.Close()
		mt.Setenv("ESIGN_API_BASE", srv.URL)

		DB.QuoteCollection = mt.DB.Collection("quotes")
		DB.SubmissionCollection = mt.DB.Collection("submissions")
		DB.QuoteDocumentCollection = mt.DB.Collection("quoteDocuments")
		DB.AgencyCollection = mt.DB.Collection("agencies")
		DB.CarrierCollection = mt.DB.Collection("carriers")
		DB.RedisClient = nil

		quoteID := primitive.NewObjectID()
		subID := primitive.NewObjectID()
		agencyID := primitive.NewObjectID()
		carrierID := primitive.NewObjectID()

		quote := models.Quote{ID: quoteID, SubmissionID: subID, CarrierID: carrierID, Status: models.QuoteApproved}
		sub := models.Submission{ID: subID, AgencyID: agencyID, Status: models.SubmissionQuoted, PaymentStatus: models.PaymentPending}
		agency := models.Agency{ID: agencyID, Name: "Acme Insurance Agency", ContactName: "Jordan Reyes", ContactEmail: "jordan@acme-agency.example.com"}
		carrier := models.Carrier{ID: carrierID, Name: "Lexington Insurance Company"}

		proposal := models.QuoteDocument{
			ID: primitive.NewObjectID(), QuoteID: quoteID, SubmissionID: subID,
			DocumentType: models.DocProposal, DocumentURL: "/files/proposal.pdf",
			SignatureStatus: models.SignatureGenerated,
		}
		carrierForm := models.QuoteDocument{
			ID: primitive.NewObjectID(), QuoteID: quoteID, SubmissionID: subID,
			DocumentType: models.DocCarrierForm, DocumentURL: "/files/carrier-form.pdf",
			SignatureStatus: models.SignatureGenerated,
		}

		docsNS := "BrokerflowDB.quoteDocuments"
		mt.AddMockResponses(
			// snapshot: quote, submission, document set
			mtest.CreateCursorResponse(0, "BrokerflowDB.quotes", mtest.FirstBatch, toBsonD(mt.T, quote)),
			mtest.CreateCursorResponse(0, "BrokerflowDB.submissions", mtest.FirstBatch, toBsonD(mt.T, sub)),
			mtest.CreateCursorResponse(0, docsNS, mtest.FirstBatch, toBsonD(mt.T, proposal), toBsonD(mt.T, carrierForm)),
			// agency and carrier for the render fields
			mtest.CreateCursorResponse(0, "BrokerflowDB.agencies", mtest.FirstBatch, toBsonD(mt.T, agency)),
			mtest.CreateCursorResponse(0, "BrokerflowDB.carriers", mtest.FirstBatch, toBsonD(mt.T, carrier)),
			// EnsureAll finds both required documents already generated
			mtest.CreateCursorResponse(0, docsNS, mtest.FirstBatch, toBsonD(mt.T, proposal)),
			mtest.CreateCursorResponse(0, docsNS, mtest.FirstBatch, toBsonD(mt.T, carrierForm)),
			mtest.CreateCursorResponse(0, docsNS, mtest.FirstBatch, toBsonD(mt.T, proposal), toBsonD(mt.T, carrierForm)),
			// the SENT write: a concurrent send already advanced everything
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}),
		)

		_, err := SendForSignature(context.Background(), models.ActorRef{Role: "agency"}, quoteID)
		assert.Error(mt.T, err)

		appErr := utils.AsAppError(err)
		assert.NotNil(mt.T, appErr)
		assert.Equal(mt.T, utils.KindConflict, appErr.Kind)
		assert.Equal(mt.T, "documents have already been sent for signature", appErr.Message)
	})
}
