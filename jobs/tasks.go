package jobs

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskLedgerIntegrity is the task type for the ledger integrity sweep.
	TaskLedgerIntegrity = "ledger:integrity"
)

// LedgerIntegrityPayload carries the trigger context of an integrity sweep.
type LedgerIntegrityPayload struct {
	TransactionID string    `json:"transaction_id,omitempty"`
	RequestedAt   time.Time `json:"requested_at"`
}

// NewLedgerIntegrityTask constructs an Asynq task for an integrity sweep.
func NewLedgerIntegrityTask(payload LedgerIntegrityPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskLedgerIntegrity, data), nil
}
