package documents

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	DB "Backend-Brokerflow/src/database"
	"Backend-Brokerflow/src/models"

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

func TestGenerateIsIdempotentPerType(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("SecondCallReusesTheFirstDocument", func(mt *mtest.T) {
		var renders int64
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt64(&renders, 1)
			json.NewEncoder(w).Encode(map[string]string{"documentUrl": "/files/proposal.pdf"})
		}))
		defer srv.Close()
		mt.Setenv("RENDERER_API_BASE", srv.URL)

		DB.QuoteDocumentCollection = mt.DB.Collection("quoteDocuments")
		DB.RedisClient = nil

		quote := models.Quote{ID: primitive.NewObjectID(), SubmissionID: primitive.NewObjectID()}
		sub := models.Submission{ID: quote.SubmissionID}

		// first call: no existing record, renders and inserts
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "BrokerflowDB.quoteDocuments", mtest.FirstBatch),
			mtest.CreateCursorResponse(0, "BrokerflowDB.quoteDocuments", mtest.FirstBatch),
			mtest.CreateSuccessResponse(),
		)
		first, reused, err := Generate(context.Background(), quote, sub, models.Agency{}, models.Carrier{}, models.DocProposal)
		assert.NoError(mt.T, err)
		assert.False(mt.T, reused)
		assert.Equal(mt.T, "/files/proposal.pdf", first.DocumentURL)

		// second call: the stored record short-circuits, no render
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "BrokerflowDB.quoteDocuments", mtest.FirstBatch, toBsonD(mt.T, first)),
		)
		second, reused, err := Generate(context.Background(), quote, sub, models.Agency{}, models.Carrier{}, models.DocProposal)
		assert.NoError(mt.T, err)
		assert.True(mt.T, reused)
		assert.Equal(mt.T, first.DocumentURL, second.DocumentURL)
		assert.EqualValues(mt.T, 1, atomic.LoadInt64(&renders))
	})

	mt.Run("LostInsertRaceReusesTheWinner", func(mt *mtest.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]string{"documentUrl": "/files/mine.pdf"})
		}))
		defer srv.Close()
		mt.Setenv("RENDERER_API_BASE", srv.URL)

		DB.QuoteDocumentCollection = mt.DB.Collection("quoteDocuments")
		DB.RedisClient = nil

		quote := models.Quote{ID: primitive.NewObjectID(), SubmissionID: primitive.NewObjectID()}
		winner := models.QuoteDocument{
			ID:              primitive.NewObjectID(),
			QuoteID:         quote.ID,
			SubmissionID:    quote.SubmissionID,
			DocumentType:    models.DocProposal,
			DocumentURL:     "/files/theirs.pdf",
			SignatureStatus: models.SignatureGenerated,
		}

		// both pre-checks empty, insert hits the unique index, the winner's
		// record is fetched and reused
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "BrokerflowDB.quoteDocuments", mtest.FirstBatch),
			mtest.CreateCursorResponse(0, "BrokerflowDB.quoteDocuments", mtest.FirstBatch),
			mtest.CreateWriteErrorsResponse(mtest.WriteError{Index: 0, Code: 11000, Message: "E11000 duplicate key"}),
			mtest.CreateCursorResponse(0, "BrokerflowDB.quoteDocuments", mtest.FirstBatch, toBsonD(mt.T, winner)),
		)
		doc, reused, err := Generate(context.Background(), quote, models.Submission{}, models.Agency{}, models.Carrier{}, models.DocProposal)
		assert.NoError(mt.T, err)
		assert.True(mt.T, reused)
		assert.Equal(mt.T, "/files/theirs.pdf", doc.DocumentURL)
	})
}
