package quotes

import (
	"Backend-Brokerflow/src/models"
	"Backend-Brokerflow/src/services/documents"
	"Backend-Brokerflow/src/services/submissions"
	"Backend-Brokerflow/src/services/workflow"
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// State is the full view a client renders a quote from: the records plus
// the gate predicates evaluated against them. Gates are computed fresh
// here on every call, never stored.
type State struct {
	Quote      models.Quote           `json:"quote"`
	Submission models.Submission      `json:"submission"`
	Documents  []models.QuoteDocument `json:"documents"`
	Gates      workflow.Gates         `json:"gates"`
}

// GetState loads the quote, its submission and documents, and evaluates
// the workflow gates over that snapshot.
func GetState(ctx context.Context, quoteID primitive.ObjectID) (*State, error) {
	quote, err := GetByID(ctx, quoteID)
	if err != nil {
		return nil, err
	}
	sub, err := submissions.GetByID(ctx, quote.SubmissionID)
	if err != nil {
		return nil, err
	}
	docs, err := documents.ListByQuote(ctx, quoteID)
	if err != nil {
		return nil, err
	}

	snapshot := workflow.Snapshot{Quote: *quote, Submission: *sub, Documents: docs}
	return &State{
		Quote:      *quote,
		Submission: *sub,
		Documents:  docs,
		Gates:      workflow.Evaluate(snapshot),
	}, nil
}

// Snapshot loads the gate-evaluation snapshot for a quote.
func Snapshot(ctx context.Context, quoteID primitive.ObjectID) (*workflow.Snapshot, error) {
	state, err := GetState(ctx, quoteID)
	if err != nil {
		return nil, err
	}
	return &workflow.Snapshot{
		Quote:      state.Quote,
		Submission: state.Submission,
		Documents:  state.Documents,
	}, nil
}
