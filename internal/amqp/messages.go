package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	ChangeAdded   ChangeKind = "added"
	ChangeDeleted ChangeKind = "deleted"
)

type ChangeKind string

// LedgerChangedMessage announces that the stored dataset changed. It carries
// no records: consumers reload the dataset from the store.
type LedgerChangedMessage struct {
	ID        string     `json:"id"`
	Kind      ChangeKind `json:"kind"`
	Count     int        `json:"count"` // records added or deleted
	Total     int        `json:"total"` // dataset size after the change
	Timestamp time.Time  `json:"timestamp"`
}

func NewLedgerChangedMessage(kind ChangeKind, count, total int) *LedgerChangedMessage {
	return &LedgerChangedMessage{
		ID:        uuid.NewString(),
		Kind:      kind,
		Count:     count,
		Total:     total,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *LedgerChangedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// LedgerChangedMessageFromJSON decodes and checks a message body.
func LedgerChangedMessageFromJSON(data []byte) (*LedgerChangedMessage, error) {
	var msg LedgerChangedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	switch msg.Kind {
	case ChangeAdded, ChangeDeleted:
	default:
		return nil, fmt.Errorf("unknown change kind %q", msg.Kind)
	}
	return &msg, nil
}
