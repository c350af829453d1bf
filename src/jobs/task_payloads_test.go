package jobs

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewNotifyAgencyTask(t *testing.T) {
	task, err := NewNotifyAgencyTask(NotifyAgencyPayload{
		Event:        "BIND_APPROVED",
		SubmissionID: "64b0c8f2a1d2e3f4a5b6c7d8",
		QuoteID:      "64b0c8f2a1d2e3f4a5b6c7d9",
	})
	assert.NoError(t, err)
	assert.Equal(t, TypeNotifyAgency, task.Type())

	var payload NotifyAgencyPayload
	assert.NoError(t, json.Unmarshal(task.Payload(), &payload))
	assert.Equal(t, "BIND_APPROVED", payload.Event)
	assert.Equal(t, "64b0c8f2a1d2e3f4a5b6c7d8", payload.SubmissionID)
}
