package amqp

import (
	"encoding/json"
	"time"

	"financepro/internal/core"
)

// LedgerEventMessage announces one changing ledger command. Transaction and
// Transfer carry the affected record when the command touched one.
type LedgerEventMessage struct {
	Kind        string                 `json:"kind"`
	Revision    uint64                 `json:"revision"`
	Transaction *core.Transaction      `json:"transaction,omitempty"`
	Transfer    *core.InternalTransfer `json:"transfer,omitempty"`
	Timestamp   time.Time              `json:"timestamp"`
}

func NewLedgerEventMessage(kind string, revision uint64, tx *core.Transaction, tr *core.InternalTransfer) *LedgerEventMessage {
	return &LedgerEventMessage{
		Kind:        kind,
		Revision:    revision,
		Transaction: tx,
		Transfer:    tr,
		Timestamp:   time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *LedgerEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// LedgerEventMessageFromJSON decodes a message body.
func LedgerEventMessageFromJSON(data []byte) (*LedgerEventMessage, error) {
	var msg LedgerEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
