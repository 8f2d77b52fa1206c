package amqp

import (
	"encoding/json"
	"time"
)

const (
	EntityRecord  = "record"
	EntityExpense = "expense"
	EntityForeign = "foreign_donation"

	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// LedgerChangeMessage notifies consumers that a ledger entry changed.
// It carries only the identity; consumers fetch current state from the
// store so stale messages are harmless.
type LedgerChangeMessage struct {
	Entity    string    `json:"entity"`
	Action    string    `json:"action"`
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

// ExportRequestMessage asks the export worker to write a report file
// for the given period. Path is optional; the worker falls back to its
// configured export directory and the default file name.
type ExportRequestMessage struct {
	From      time.Time `json:"from"`
	To        time.Time `json:"to"`
	Path      string    `json:"path,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func NewLedgerChangeMessage(entity, action, id string) *LedgerChangeMessage {
	return &LedgerChangeMessage{
		Entity:    entity,
		Action:    action,
		ID:        id,
		Timestamp: time.Now(),
	}
}

func NewExportRequestMessage(from, to time.Time, path string) *ExportRequestMessage {
	return &ExportRequestMessage{
		From:      from,
		To:        to,
		Path:      path,
		Timestamp: time.Now(),
	}
}

func (m *LedgerChangeMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func (m *ExportRequestMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func LedgerChangeMessageFromJSON(data []byte) (*LedgerChangeMessage, error) {
	var msg LedgerChangeMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

func ExportRequestMessageFromJSON(data []byte) (*ExportRequestMessage, error) {
	var msg ExportRequestMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
