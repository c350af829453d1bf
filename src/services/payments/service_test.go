package payments

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
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

// Two racing Pay calls can both pass the PENDING read; the conditional
// PAID write is the authority, so the loser must come back as a conflict
// rather than a second recorded payment.
func TestPayDuplicateLosesAtTheStore(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("ZeroModifiedBecomesConflict", func(mt *mtest.T) {
		var charges int64
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt64(&charges, 1)
			json.NewEncoder(w).Encode(map[string]string{"paymentStatus": "PAID"})
		}))
		defer srv.Close()
		mt.Setenv("PAYMENT_API_BASE", srv.URL)

		DB.SubmissionCollection = mt.DB.Collection("submissions")
		DB.QuoteCollection = mt.DB.Collection("quotes")
		DB.RedisClient = nil

		subID := primitive.NewObjectID()
		quoteID := primitive.NewObjectID()
		final := models.MoneyFromInt(1540)

		sub := models.Submission{
			ID: subID, Status: models.SubmissionQuoted,
			EsignCompleted: true, PaymentStatus: models.PaymentPending,
		}
		quote := models.Quote{
			ID: quoteID, SubmissionID: subID,
			Status: models.QuoteApproved, FinalAmount: final,
		}

		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "BrokerflowDB.submissions", mtest.FirstBatch, toBsonD(mt.T, sub)),
			mtest.CreateCursorResponse(0, "BrokerflowDB.quotes", mtest.FirstBatch, toBsonD(mt.T, quote)),
			// the PAID flip: a concurrent payment already moved PENDING on
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}),
		)

		_, err := Pay(context.Background(), models.ActorRef{Role: "agency"}, subID, PayInput{
			Amount: &final,
			Method: "ACH",
		})
		assert.Error(mt.T, err)

		appErr := utils.AsAppError(err)
		assert.NotNil(mt.T, appErr)
		assert.Equal(mt.T, utils.KindConflict, appErr.Kind)
		assert.Equal(mt.T, "payment has already been recorded", appErr.Message)
		assert.EqualValues(mt.T, 1, atomic.LoadInt64(&charges))
	})
}
