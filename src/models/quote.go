package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// QuoteStatus - lifecycle of a single carrier quote
type QuoteStatus string

const (
	QuoteEntered       QuoteStatus = "ENTERED"
	QuotePosted        QuoteStatus = "POSTED"
	QuoteApproved      QuoteStatus = "APPROVED"
	QuoteBindRequested QuoteStatus = "BIND_REQUESTED"
	QuoteBound         QuoteStatus = "BOUND"
	QuoteDeclined      QuoteStatus = "DECLINED"
)

// quoteTransitions lists the allowed forward moves per state.
var quoteTransitions = map[QuoteStatus][]QuoteStatus{
	QuoteEntered:       {QuotePosted, QuoteDeclined},
	QuotePosted:        {QuoteApproved, QuoteDeclined},
	QuoteApproved:      {QuoteBindRequested, QuoteDeclined},
	QuoteBindRequested: {QuoteBound, QuoteDeclined},
	QuoteBound:         {},
	QuoteDeclined:      {},
}

// CanAdvanceQuote reports whether a quote may move from -> to.
func CanAdvanceQuote(from, to QuoteStatus) bool {
	for _, next := range quoteTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type Quote struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SubmissionID primitive.ObjectID `bson:"submissionId" json:"submissionId"`
	CarrierID    primitive.ObjectID `bson:"carrierId" json:"carrierId"`

	Status QuoteStatus `bson:"status" json:"status"`

	// Rate components. FinalAmount is derived from the other four and is
	// recomputed on every component edit, never patched on its own.
	CarrierQuote      Money  `bson:"carrierQuote" json:"carrierQuote"`
	PremiumTaxPercent *Money `bson:"premiumTaxPercent,omitempty" json:"premiumTaxPercent,omitempty"`
	PremiumTaxAmount  *Money `bson:"premiumTaxAmount,omitempty" json:"premiumTaxAmount,omitempty"`
	TaxAutoCalculated bool   `bson:"taxAutoCalculated" json:"taxAutoCalculated"`
	PolicyFee         *Money `bson:"policyFee,omitempty" json:"policyFee,omitempty"`
	BrokerFee         Money  `bson:"brokerFee" json:"brokerFee"`
	FinalAmount       Money  `bson:"finalAmount" json:"finalAmount"`

	Limits           string     `bson:"limits,omitempty" json:"limits,omitempty"`
	Endorsements     []string   `bson:"endorsements,omitempty" json:"endorsements,omitempty"`
	EffectiveDate    *time.Time `bson:"effectiveDate,omitempty" json:"effectiveDate,omitempty"`
	ExpirationDate   *time.Time `bson:"expirationDate,omitempty" json:"expirationDate,omitempty"`
	PolicyNumber     string     `bson:"policyNumber,omitempty" json:"policyNumber,omitempty"`
	CarrierReference string     `bson:"carrierReference,omitempty" json:"carrierReference,omitempty"`
	SpecialNotes     string     `bson:"specialNotes,omitempty" json:"specialNotes,omitempty"`
	AdminNotes       string     `bson:"adminNotes,omitempty" json:"adminNotes,omitempty"`

	// HasFinancePlan adds FINANCE_AGREEMENT to the required document set.
	HasFinancePlan bool `bson:"hasFinancePlan" json:"hasFinancePlan"`

	BinderPdfURL string `bson:"binderPdfUrl,omitempty" json:"binderPdfUrl,omitempty"`

	EnteredAt  time.Time  `bson:"enteredAt" json:"enteredAt"`
	PostedAt   time.Time  `bson:"postedAt" json:"postedAt"`
	ApprovedAt *time.Time `bson:"approvedAt,omitempty" json:"approvedAt,omitempty"`
	CreatedAt  time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time  `bson:"updatedAt" json:"updatedAt"`
}
