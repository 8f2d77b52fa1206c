package amqp

import (
	"testing"
	"time"
)

func TestNewLedgerChangeMessage(t *testing.T) {
	msg := NewLedgerChangeMessage(EntityRecord, ActionCreated, "rec-1")

	if msg.Entity != EntityRecord {
		t.Errorf("Entity = %v, want %v", msg.Entity, EntityRecord)
	}
	if msg.Action != ActionCreated {
		t.Errorf("Action = %v, want %v", msg.Action, ActionCreated)
	}
	if msg.ID != "rec-1" {
		t.Errorf("ID = %v, want rec-1", msg.ID)
	}
	if msg.Timestamp.IsZero() {
		t.Error("Timestamp should not be zero")
	}
	if time.Since(msg.Timestamp) > time.Second {
		t.Error("Timestamp should be recent")
	}
}

func TestLedgerChangeMessage_JSON(t *testing.T) {
	timestamp := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	msg := &LedgerChangeMessage{
		Entity:    EntityExpense,
		Action:    ActionDeleted,
		ID:        "exp-2",
		Timestamp: timestamp,
	}

	jsonBytes, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}

	parsed, err := LedgerChangeMessageFromJSON(jsonBytes)
	if err != nil {
		t.Fatalf("LedgerChangeMessageFromJSON() error = %v", err)
	}

	if parsed.Entity != msg.Entity || parsed.Action != msg.Action || parsed.ID != msg.ID {
		t.Errorf("Parsed = %+v, want %+v", parsed, msg)
	}
	if !parsed.Timestamp.Equal(msg.Timestamp) {
		t.Errorf("Parsed Timestamp = %v, want %v", parsed.Timestamp, msg.Timestamp)
	}
}

func TestExportRequestMessage_JSON(t *testing.T) {
	from := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)
	msg := NewExportRequestMessage(from, to, "/tmp/relatorio.xlsx")

	jsonBytes, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}

	parsed, err := ExportRequestMessageFromJSON(jsonBytes)
	if err != nil {
		t.Fatalf("ExportRequestMessageFromJSON() error = %v", err)
	}

	if !parsed.From.Equal(from) || !parsed.To.Equal(to) {
		t.Errorf("Parsed range = [%v, %v], want [%v, %v]", parsed.From, parsed.To, from, to)
	}
	if parsed.Path != "/tmp/relatorio.xlsx" {
		t.Errorf("Parsed Path = %q", parsed.Path)
	}
}

func TestExportRequestMessage_InvalidJSON(t *testing.T) {
	if _, err := ExportRequestMessageFromJSON([]byte(`{"from": 42}`)); err == nil {
		t.Error("ExportRequestMessageFromJSON() should fail with invalid JSON")
	}
}
