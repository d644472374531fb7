package amqp

import (
	"encoding/json"
	"time"
)

// Ledger change actions carried in notification messages.
const (
	ActionEventAdded     = "event_added"
	ActionEventUpdated   = "event_updated"
	ActionEventDeleted   = "event_deleted"
	ActionAccountDeleted = "account_deleted"
)

// LedgerChangeMessage notifies external consumers that an account's ledger
// changed. It carries identifiers only; consumers fetch whatever detail
// they need themselves.
type LedgerChangeMessage struct {
	Email     string    `json:"email"`
	EventID   string    `json:"event_id,omitempty"`
	Action    string    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
}

// NewLedgerChangeMessage creates a change message stamped with the current time.
func NewLedgerChangeMessage(email, eventID, action string) *LedgerChangeMessage {
	return &LedgerChangeMessage{
		Email:     email,
		EventID:   eventID,
		Action:    action,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *LedgerChangeMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// LedgerChangeMessageFromJSON creates a message from JSON bytes
func LedgerChangeMessageFromJSON(data []byte) (*LedgerChangeMessage, error) {
	var msg LedgerChangeMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
