package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ActivityType values written by the workflow. One entry per successful
// transition; failed attempts are never logged here.
const (
	ActivityQuoteCreated          = "QUOTE_CREATED"
	ActivityQuoteApproved         = "QUOTE_APPROVED"
	ActivityQuoteDeclined         = "QUOTE_DECLINED"
	ActivityBrokerFeeUpdated      = "BROKER_FEE_UPDATED"
	ActivityTaxUpdated            = "TAX_UPDATED"
	ActivityDocumentGenerated     = "DOCUMENT_GENERATED"
	ActivitySentForSignature      = "SENT_FOR_SIGNATURE"
	ActivityEsignCompleted        = "ESIGN_COMPLETED"
	ActivityPaymentCompleted      = "PAYMENT_COMPLETED"
	ActivityBindRequested         = "BIND_REQUESTED"
	ActivityBindApproved          = "BIND_APPROVED"
	ActivitySubmissionCreated     = "SUBMISSION_CREATED"
	ActivitySubmissionRouted      = "SUBMISSION_ROUTED"
	ActivitySubmissionDeclined    = "SUBMISSION_DECLINED"
	ActivityFinalDocumentUploaded = "FINAL_DOCUMENT_UPLOADED"
)

// ActorRef - who performed an action, denormalized from the JWT claims.
type ActorRef struct {
	ID   primitive.ObjectID `bson:"id,omitempty" json:"id"`
	Name string             `bson:"name" json:"name"`
	Role string             `bson:"role" json:"role"`
}

// ActivityLog - append-only audit record. Never updated, never deleted.
type ActivityLog struct {
	ID           primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	ActivityType string              `bson:"activityType" json:"activityType"`
	Description  string              `bson:"description" json:"description"`
	Details      map[string]string   `bson:"details,omitempty" json:"details,omitempty"`
	PerformedBy  ActorRef            `bson:"performedBy" json:"performedBy"`
	SubmissionID primitive.ObjectID  `bson:"submissionId" json:"submissionId"`
	QuoteID      *primitive.ObjectID `bson:"quoteId,omitempty" json:"quoteId,omitempty"`
	CreatedAt    time.Time           `bson:"createdAt" json:"createdAt"`
}
