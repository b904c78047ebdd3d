package amqp

import (
	"encoding/json"
	"fmt"
	"time"
)

// Event types carried on the expense event queue.
const (
	EventExpenseCreated = "expense.created"
	EventExpenseDeleted = "expense.deleted"
)

// ExpenseEventMessage announces a change to an expense. It carries only
// the ids; consumers fetch the full record from storage when they need
// it, so a stale message never overwrites newer data.
type ExpenseEventMessage struct {
	Type      string    `json:"type"`
	ID        int64     `json:"id"`
	UserID    string    `json:"userId"`
	Timestamp time.Time `json:"timestamp"`
}

func NewExpenseEventMessage(eventType string, id int64, userID string) *ExpenseEventMessage {
	return &ExpenseEventMessage{
		Type:      eventType,
		ID:        id,
		UserID:    userID,
		Timestamp: time.Now(),
	}
}

func (m *ExpenseEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ExpenseEventMessageFromJSON(data []byte) (*ExpenseEventMessage, error) {
	var msg ExpenseEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.Type != EventExpenseCreated && msg.Type != EventExpenseDeleted {
		return nil, fmt.Errorf("unknown event type %q", msg.Type)
	}
	return &msg, nil
}
