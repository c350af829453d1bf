package jobs

import (
	"encoding/json"
	"log"

	"Backend-Brokerflow/src/database"

	"github.com/hibiken/asynq"
)

const TypeNotifyAgency = "notify:agency"

// NotifyAgencyPayload identifies the workflow event and the records the
// handler re-reads when composing the email.
type NotifyAgencyPayload struct {
	Event        string `json:"event"`
	SubmissionID string `json:"submission_id"`
	QuoteID      string `json:"quote_id,omitempty"`
	Amount       string `json:"amount,omitempty"`
}

func NewNotifyAgencyTask(payload NotifyAgencyPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeNotifyAgency, data), nil
}

// EnqueueAgencyNotification queues an agency notification after a workflow
// transition has committed. Fire-and-forget: a queue failure is logged and
// never propagated to the committing operation.
func EnqueueAgencyNotification(payload NotifyAgencyPayload) {
	if database.AsynqClient == nil {
		log.Println("⚠️ [jobs] Asynq not available, skipping notification:", payload.Event)
		return
	}

	task, err := NewNotifyAgencyTask(payload)
	if err != nil {
		log.Println("❌ [jobs] Failed to build notification task:", err)
		return
	}

	if _, err := database.AsynqClient.Enqueue(task); err != nil {
		log.Println("❌ [jobs] Failed to enqueue notification:", err)
	}
}
