package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type DocumentType string

const (
	DocProposal         DocumentType = "PROPOSAL"
	DocFinanceAgreement DocumentType = "FINANCE_AGREEMENT"
	DocCarrierForm      DocumentType = "CARRIER_FORM"
)

type SignatureStatus string

const (
	SignatureGenerated SignatureStatus = "GENERATED"
	SignatureSent      SignatureStatus = "SENT"
	SignatureSigned    SignatureStatus = "SIGNED"
	SignatureFailed    SignatureStatus = "FAILED"
)

// QuoteDocument - one generated document per (quote, documentType).
// A record only exists once rendering succeeded; there are no placeholders.
type QuoteDocument struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	QuoteID      primitive.ObjectID `bson:"quoteId" json:"quoteId"`
	SubmissionID primitive.ObjectID `bson:"submissionId" json:"submissionId"`

	DocumentType    DocumentType    `bson:"documentType" json:"documentType"`
	DocumentURL     string          `bson:"documentUrl" json:"documentUrl"`
	SignatureStatus SignatureStatus `bson:"signatureStatus" json:"signatureStatus"`

	GeneratedAt        time.Time  `bson:"generatedAt" json:"generatedAt"`
	SentForSignatureAt *time.Time `bson:"sentForSignatureAt,omitempty" json:"sentForSignatureAt,omitempty"`
	SignedAt           *time.Time `bson:"signedAt,omitempty" json:"signedAt,omitempty"`
}

// RequiredDocumentTypes - PROPOSAL + CARRIER_FORM, plus FINANCE_AGREEMENT
// when the quote carries a finance plan.
func RequiredDocumentTypes(q Quote) []DocumentType {
	types := []DocumentType{DocProposal, DocCarrierForm}
	if q.HasFinancePlan {
		types = append(types, DocFinanceAgreement)
	}
	return types
}
