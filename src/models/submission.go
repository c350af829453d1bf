package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SubmissionStatus - top-level lifecycle of a submission
type SubmissionStatus string

const (
	SubmissionSubmitted     SubmissionStatus = "SUBMITTED"
	SubmissionRouted        SubmissionStatus = "ROUTED"
	SubmissionQuoted        SubmissionStatus = "QUOTED"
	SubmissionBindRequested SubmissionStatus = "BIND_REQUESTED"
	SubmissionBound         SubmissionStatus = "BOUND"
	SubmissionDeclined      SubmissionStatus = "DECLINED"
)

// submissionStatusRank orders the forward path. DECLINED sits outside the
// ranking because it is reachable from any non-terminal state.
var submissionStatusRank = map[SubmissionStatus]int{
	SubmissionSubmitted:     0,
	SubmissionRouted:        1,
	SubmissionQuoted:        2,
	SubmissionBindRequested: 3,
	SubmissionBound:         4,
}

// CanAdvanceSubmission reports whether a submission may move from -> to.
// Forward-only; DECLINED is terminal and reachable from any other state.
func CanAdvanceSubmission(from, to SubmissionStatus) bool {
	if from == SubmissionDeclined {
		return false
	}
	if to == SubmissionDeclined {
		return from != SubmissionBound
	}
	fromRank, ok1 := submissionStatusRank[from]
	toRank, ok2 := submissionStatusRank[to]
	if !ok1 || !ok2 {
		return false
	}
	return toRank > fromRank
}

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "PENDING"
	PaymentPaid    PaymentStatus = "PAID"
)

// FinalPolicyFile - one post-bind document slot (binder / policy / certificate)
type FinalPolicyFile struct {
	URL        string    `bson:"url" json:"url"`
	UploadedAt time.Time `bson:"uploadedAt" json:"uploadedAt"`
}

type FinalPolicyDocuments struct {
	Binder      *FinalPolicyFile `bson:"binder,omitempty" json:"binder,omitempty"`
	Policy      *FinalPolicyFile `bson:"policy,omitempty" json:"policy,omitempty"`
	Certificate *FinalPolicyFile `bson:"certificate,omitempty" json:"certificate,omitempty"`
}

type Submission struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	AgencyID   primitive.ObjectID `bson:"agencyId" json:"agencyId"`
	TemplateID primitive.ObjectID `bson:"templateId,omitempty" json:"templateId,omitempty"`

	InsuredName  string `bson:"insuredName" json:"insuredName"`
	InsuredState string `bson:"insuredState" json:"insuredState"` // jurisdiction for tax lookup

	Status SubmissionStatus `bson:"status" json:"status"`

	EsignCompleted   bool       `bson:"esignCompleted" json:"esignCompleted"`
	EsignCompletedAt *time.Time `bson:"esignCompletedAt,omitempty" json:"esignCompletedAt,omitempty"`

	PaymentStatus PaymentStatus `bson:"paymentStatus" json:"paymentStatus"`
	PaymentDate   *time.Time    `bson:"paymentDate,omitempty" json:"paymentDate,omitempty"`
	PaymentAmount *Money        `bson:"paymentAmount,omitempty" json:"paymentAmount,omitempty"`
	PaymentMethod string        `bson:"paymentMethod,omitempty" json:"paymentMethod,omitempty"`

	BindRequested   bool       `bson:"bindRequested" json:"bindRequested"`
	BindRequestedAt *time.Time `bson:"bindRequestedAt,omitempty" json:"bindRequestedAt,omitempty"`
	BindApproved    bool       `bson:"bindApproved" json:"bindApproved"`
	BindApprovedAt  *time.Time `bson:"bindApprovedAt,omitempty" json:"bindApprovedAt,omitempty"`

	// SignedDocuments is denormalized from quoteDocuments for display.
	SignedDocuments []QuoteDocument `bson:"signedDocuments,omitempty" json:"signedDocuments,omitempty"`

	FinalPolicyDocuments FinalPolicyDocuments `bson:"finalPolicyDocuments,omitempty" json:"finalPolicyDocuments"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
