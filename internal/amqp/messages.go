package amqp

import (
	"encoding/json"
	"time"
)

// Event kinds carried on the ledger events queue.
const (
	EventExpenseCreated = "expense.created"
	EventExpenseUpdated = "expense.updated"
	EventExpenseDeleted = "expense.deleted"
)

// ExpenseEventMessage is the wire form of a ledger mutation. It carries only
// identifiers; consumers that need the full record fetch it from the database.
type ExpenseEventMessage struct {
	Kind      string    `json:"kind"`
	ExpenseID int64     `json:"expense_id"`
	OwnerID   int64     `json:"owner_id"`
	Timestamp time.Time `json:"timestamp"`
}

func NewExpenseEventMessage(kind string, expenseID, ownerID int64) *ExpenseEventMessage {
	return &ExpenseEventMessage{
		Kind:      kind,
		ExpenseID: expenseID,
		OwnerID:   ownerID,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *ExpenseEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ExpenseEventMessageFromJSON creates a message from JSON bytes
func ExpenseEventMessageFromJSON(data []byte) (*ExpenseEventMessage, error) {
	var msg ExpenseEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
