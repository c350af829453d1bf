package quotes

import (
	"context"
	"testing"
	"time"

	DB "Backend-Brokerflow/src/database"
	"Backend-Brokerflow/src/models"
	"Backend-Brokerflow/src/utils"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestRequestBindDuplicate(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("SecondRequestIsRejectedBeforeAnyWrite", func(mt *mtest.T) {
		DB.QuoteCollection = mt.DB.Collection("quotes")
		DB.SubmissionCollection = mt.DB.Collection("submissions")

		quoteID := primitive.NewObjectID()
		subID := primitive.NewObjectID()
		requestedAt := time.Now().Add(-time.Hour)
		quote := models.Quote{ID: quoteID, SubmissionID: subID, Status: models.QuoteApproved}
		sub := models.Submission{
			ID:              subID,
			Status:          models.SubmissionBindRequested,
			EsignCompleted:  true,
			PaymentStatus:   models.PaymentPaid,
			BindRequested:   true,
			BindRequestedAt: &requestedAt,
		}

		// only the two reads are answered: the duplicate is rejected before
		// any update command, so bindRequestedAt cannot be overwritten
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "BrokerflowDB.quotes", mtest.FirstBatch, toBsonD(mt.T, quote)),
			mtest.CreateCursorResponse(0, "BrokerflowDB.submissions", mtest.FirstBatch, toBsonD(mt.T, sub)),
		)

		_, _, err := RequestBind(context.Background(), models.ActorRef{Role: "agency"}, quoteID)
		assert.Error(mt.T, err)

		appErr := utils.AsAppError(err)
		assert.NotNil(mt.T, appErr)
		assert.Equal(mt.T, utils.KindConflict, appErr.Kind)
	})

	mt.Run("LostRaceAtTheStore", func(mt *mtest.T) {
		DB.QuoteCollection = mt.DB.Collection("quotes")
		DB.SubmissionCollection = mt.DB.Collection("submissions")

		quoteID := primitive.NewObjectID()
		subID := primitive.NewObjectID()
		quote := models.Quote{ID: quoteID, SubmissionID: subID, Status: models.QuoteApproved}
		sub := models.Submission{
			ID:             subID,
			Status:         models.SubmissionQuoted,
			EsignCompleted: true,
			PaymentStatus:  models.PaymentPaid,
		}

		// the snapshot looks clear, but a concurrent request flipped
		// bindRequested first: the conditional write matches nothing
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "BrokerflowDB.quotes", mtest.FirstBatch, toBsonD(mt.T, quote)),
			mtest.CreateCursorResponse(0, "BrokerflowDB.submissions", mtest.FirstBatch, toBsonD(mt.T, sub)),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}),
		)

		_, _, err := RequestBind(context.Background(), models.ActorRef{Role: "agency"}, quoteID)
		assert.Error(mt.T, err)

		appErr := utils.AsAppError(err)
		assert.NotNil(mt.T, appErr)
		assert.Equal(mt.T, utils.KindConflict, appErr.Kind)
		assert.Equal(mt.T, "bind has already been requested", appErr.Message)
	})
}
