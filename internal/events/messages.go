package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	ActionCreated = "created"
	ActionDeleted = "deleted"
)

// TransactionEvent is the lightweight message published when a transaction is
// created or deleted. It carries only the id; consumers fetch the full record
// from the store when they need it.
type TransactionEvent struct {
	EventID   string    `json:"event_id"`
	Action    string    `json:"action"`
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

func NewTransactionEvent(action string, id int64) *TransactionEvent {
	return &TransactionEvent{
		EventID:   uuid.NewString(),
		Action:    action,
		ID:        id,
		Timestamp: time.Now().UTC(),
	}
}

func (e *TransactionEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

func TransactionEventFromJSON(data []byte) (*TransactionEvent, error) {
	var ev TransactionEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, err
	}
	return &ev, nil
}
