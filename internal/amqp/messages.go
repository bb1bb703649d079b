package amqp

import (
	"encoding/json"
	"time"

	"budgettracker/internal/core"
	"budgettracker/internal/store"
)

// ChangeMessage announces one store mutation. Consumers re-read state from
// their own source; the message carries only what routing needs.
type ChangeMessage struct {
	Type     string `json:"type"`
	ID       string `json:"id,omitempty"`
	Revision uint64 `json:"revision"`
	// Month is the YYYY-MM a transaction change affects; empty when the
	// change can affect any month (categories, recurring payments, reloads).
	Month string `json:"month,omitempty"`
	// PreviousMonth is set when an update moved a transaction out of
	// another month, which then needs refreshing too.
	PreviousMonth string    `json:"previousMonth,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

// NewChangeMessage builds the message for a store event.
func NewChangeMessage(ev store.Event) *ChangeMessage {
	msg := &ChangeMessage{
		Type:      string(ev.Type),
		ID:        ev.ID,
		Revision:  ev.Revision,
		Timestamp: ev.Timestamp,
	}
	msg.Month = transactionMonth(ev.Data)
	if prev := transactionMonth(ev.Previous); prev != msg.Month {
		msg.PreviousMonth = prev
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now()
	}
	return msg
}

func transactionMonth(v any) string {
	if tx, ok := v.(core.Transaction); ok && !tx.Date.IsZero() {
		return tx.Date.Format("2006-01")
	}
	return ""
}

// ToJSON converts the message to JSON bytes
func (m *ChangeMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ChangeMessageFromJSON creates a message from JSON bytes
func ChangeMessageFromJSON(data []byte) (*ChangeMessage, error) {
	var msg ChangeMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
