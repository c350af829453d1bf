// Package workflow holds the gate predicates that authorize each workflow
// action. They are pure functions of an immutable snapshot — no I/O, no
// caching — so they can be evaluated fresh on every request. The services
// re-check the same conditions at write time; these predicates are advisory
// until then.
package workflow

import (
	"Backend-Brokerflow/src/models"
)

// Snapshot is the state a gate is evaluated against: one quote, its
// submission, and the documents generated for the quote so far.
type Snapshot struct {
	Quote      models.Quote
	Submission models.Submission
	Documents  []models.QuoteDocument
}

// RequiredDocumentCount - 2 (PROPOSAL + CARRIER_FORM), +1 with a finance plan.
func RequiredDocumentCount(q models.Quote) int {
	return len(models.RequiredDocumentTypes(q))
}

func HasAllDocuments(s Snapshot) bool {
	return len(s.Documents) >= RequiredDocumentCount(s.Quote)
}

// UnmetForDocumentGeneration returns "" when document generation is allowed,
// otherwise the specific condition that blocks it.
func UnmetForDocumentGeneration(s Snapshot) string {
	if s.Quote.Status != models.QuoteApproved {
		return "quote is not approved"
	}
	if s.Submission.EsignCompleted {
		return "e-signature already completed"
	}
	return ""
}

func CanGenerateDocuments(s Snapshot) bool {
	return UnmetForDocumentGeneration(s) == ""
}

func UnmetForSendForSignature(s Snapshot) string {
	if !HasAllDocuments(s) {
		return "required documents have not all been generated"
	}
	if s.Submission.EsignCompleted {
		return "e-signature already completed"
	}
	return ""
}

func CanSendForSignature(s Snapshot) bool {
	return UnmetForSendForSignature(s) == ""
}

func UnmetForPayment(s Snapshot) string {
	if !s.Submission.EsignCompleted {
		return "e-signature has not been completed"
	}
	if s.Submission.PaymentStatus == models.PaymentPaid {
		return "payment has already been made"
	}
	return ""
}

func CanPay(s Snapshot) bool {
	return UnmetForPayment(s) == ""
}

func UnmetForBindRequest(s Snapshot) string {
	if !s.Submission.EsignCompleted {
		return "e-signature has not been completed"
	}
	if s.Submission.PaymentStatus != models.PaymentPaid {
		return "payment has not been made"
	}
	if s.Submission.BindRequested {
		return "bind has already been requested"
	}
	return ""
}

func CanRequestBind(s Snapshot) bool {
	return UnmetForBindRequest(s) == ""
}

// Gates bundles every predicate for one snapshot, for UI rendering.
type Gates struct {
	CanGenerateDocuments bool `json:"canGenerateDocuments"`
	HasAllDocuments      bool `json:"hasAllDocuments"`
	CanSendForSignature  bool `json:"canSendForSignature"`
	CanPay               bool `json:"canPay"`
	CanRequestBind       bool `json:"canRequestBind"`
}

func Evaluate(s Snapshot) Gates {
	return Gates{
		CanGenerateDocuments: CanGenerateDocuments(s),
		HasAllDocuments:      HasAllDocuments(s),
		CanSendForSignature:  CanSendForSignature(s),
		CanPay:               CanPay(s),
		CanRequestBind:       CanRequestBind(s),
	}
}
