package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"katha/internal/ledger"
)

// MutationMessage announces that the ledger changed. It carries identifiers
// only; consumers reload the snapshot from the shared store.
//
// Timestamp is taken when the message is built, after the change was
// persisted, so an export that read the store later already contains it.
type MutationMessage struct {
	Kind       string    `json:"kind"`
	Revision   int64     `json:"revision"`
	KathaID    string    `json:"kathaId,omitempty"`
	EntryID    string    `json:"entryId,omitempty"`
	OccurredAt time.Time `json:"occurredAt,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

func NewMutationMessage(ev ledger.Event) *MutationMessage {
	return &MutationMessage{
		Kind:       string(ev.Kind),
		Revision:   ev.Revision,
		KathaID:    ev.KathaID,
		EntryID:    ev.EntryID,
		OccurredAt: ev.At.UTC(),
		Timestamp:  time.Now().UTC(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *MutationMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// MutationMessageFromJSON decodes a message and checks that it names a known event.
func MutationMessageFromJSON(data []byte) (*MutationMessage, error) {
	var msg MutationMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	switch ledger.EventKind(msg.Kind) {
	case ledger.KathaCreated, ledger.EntryRecorded, ledger.EntryDeleted:
	default:
		return nil, fmt.Errorf("unknown event kind %q", msg.Kind)
	}
	if msg.Revision < 1 {
		return nil, fmt.Errorf("invalid revision %d", msg.Revision)
	}
	return &msg, nil
}
