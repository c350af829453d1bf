package workflow

import (
	"testing"

	"Backend-Brokerflow/src/models"

	"github.com/stretchr/testify/assert"
)

func docs(n int) []models.QuoteDocument {
	out := make([]models.QuoteDocument, n)
	return out
}

func TestRequiredDocumentCount(t *testing.T) {
	assert.Equal(t, 2, RequiredDocumentCount(models.Quote{}))
	assert.Equal(t, 3, RequiredDocumentCount(models.Quote{HasFinancePlan: true}))
}

func TestDocumentGenerationGate(t *testing.T) {
	t.Run("OpenOnceApproved", func(t *testing.T) {
		s := Snapshot{Quote: models.Quote{Status: models.QuoteApproved}}
		assert.True(t, CanGenerateDocuments(s))
		assert.Empty(t, UnmetForDocumentGeneration(s))
	})

	t.Run("ClosedBeforeApproval", func(t *testing.T) {
		s := Snapshot{Quote: models.Quote{Status: models.QuotePosted}}
		assert.False(t, CanGenerateDocuments(s))
		assert.Equal(t, "quote is not approved", UnmetForDocumentGeneration(s))
	})

	t.Run("ClosedAfterSigning", func(t *testing.T) {
		s := Snapshot{
			Quote:      models.Quote{Status: models.QuoteApproved},
			Submission: models.Submission{EsignCompleted: true},
		}
		assert.False(t, CanGenerateDocuments(s))
		assert.Equal(t, "e-signature already completed", UnmetForDocumentGeneration(s))
	})
}

func TestSendForSignatureGate(t *testing.T) {
	approved := models.Quote{Status: models.QuoteApproved}

	t.Run("NeedsAllDocuments", func(t *testing.T) {
		s := Snapshot{Quote: approved, Documents: docs(1)}
		assert.False(t, CanSendForSignature(s))
		assert.Equal(t, "required documents have not all been generated", UnmetForSendForSignature(s))

		s.Documents = docs(2)
		assert.True(t, CanSendForSignature(s))
	})

	t.Run("FinancePlanRaisesTheBar", func(t *testing.T) {
		financed := models.Quote{Status: models.QuoteApproved, HasFinancePlan: true}
		s := Snapshot{Quote: financed, Documents: docs(2)}
		assert.False(t, CanSendForSignature(s))

		s.Documents = docs(3)
		assert.True(t, CanSendForSignature(s))
	})

	t.Run("ClosedAfterSigning", func(t *testing.T) {
		s := Snapshot{
			Quote:      approved,
			Submission: models.Submission{EsignCompleted: true},
			Documents:  docs(2),
		}
		assert.False(t, CanSendForSignature(s))
	})
}

func TestPaymentGate(t *testing.T) {
	t.Run("NeedsSignatureFirst", func(t *testing.T) {
		s := Snapshot{Submission: models.Submission{PaymentStatus: models.PaymentPending}}
		assert.False(t, CanPay(s))
		assert.Equal(t, "e-signature has not been completed", UnmetForPayment(s))
	})

	t.Run("OpenAfterSignature", func(t *testing.T) {
		s := Snapshot{Submission: models.Submission{
			EsignCompleted: true,
			PaymentStatus:  models.PaymentPending,
		}}
		assert.True(t, CanPay(s))
	})

	t.Run("ClosedOncePaid", func(t *testing.T) {
		s := Snapshot{Submission: models.Submission{
			EsignCompleted: true,
			PaymentStatus:  models.PaymentPaid,
		}}
		assert.False(t, CanPay(s))
		assert.Equal(t, "payment has already been made", UnmetForPayment(s))
	})
}

func TestBindRequestGate(t *testing.T) {
	t.Run("NeedsSignatureAndPayment", func(t *testing.T) {
		s := Snapshot{Submission: models.Submission{PaymentStatus: models.PaymentPending}}
		assert.Equal(t, "e-signature has not been completed", UnmetForBindRequest(s))

		s.Submission.EsignCompleted = true
		assert.Equal(t, "payment has not been made", UnmetForBindRequest(s))

		s.Submission.PaymentStatus = models.PaymentPaid
		assert.True(t, CanRequestBind(s))
	})

	t.Run("SingleBindRequest", func(t *testing.T) {
		s := Snapshot{Submission: models.Submission{
			EsignCompleted: true,
			PaymentStatus:  models.PaymentPaid,
			BindRequested:  true,
		}}
		assert.False(t, CanRequestBind(s))
		assert.Equal(t, "bind has already been requested", UnmetForBindRequest(s))
	})
}

// The gates must enforce the fixed ordering: approve, generate, sign, pay, bind.
func TestWorkflowSequence(t *testing.T) {
	s := Snapshot{
		Quote:      models.Quote{Status: models.QuotePosted},
		Submission: models.Submission{Status: models.SubmissionQuoted, PaymentStatus: models.PaymentPending},
	}

	g := Evaluate(s)
	assert.False(t, g.CanGenerateDocuments)
	assert.False(t, g.CanSendForSignature)
	assert.False(t, g.CanPay)
	assert.False(t, g.CanRequestBind)

	s.Quote.Status = models.QuoteApproved
	g = Evaluate(s)
	assert.True(t, g.CanGenerateDocuments)
	assert.False(t, g.CanSendForSignature) // no documents yet
	assert.False(t, g.CanPay)

	s.Documents = docs(2)
	g = Evaluate(s)
	assert.True(t, g.HasAllDocuments)
	assert.True(t, g.CanSendForSignature)
	assert.False(t, g.CanPay) // payment waits on signature

	s.Submission.EsignCompleted = true
	g = Evaluate(s)
	assert.False(t, g.CanGenerateDocuments) // generation window is closed
	assert.False(t, g.CanSendForSignature)
	assert.True(t, g.CanPay)
	assert.False(t, g.CanRequestBind) // bind waits on payment

	s.Submission.PaymentStatus = models.PaymentPaid
	g = Evaluate(s)
	assert.False(t, g.CanPay)
	assert.True(t, g.CanRequestBind)

	s.Submission.BindRequested = true
	g = Evaluate(s)
	assert.False(t, g.CanRequestBind)
}
