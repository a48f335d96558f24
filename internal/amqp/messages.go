package amqp

import (
	"encoding/json"
	"errors"
	"time"
)

// BusinessUpdatedMessage announces that a business changed. It carries only
// the id; consumers reload the business from storage.
type BusinessUpdatedMessage struct {
	BusinessID string    `json:"business_id"`
	Operation  string    `json:"operation"`
	Timestamp  time.Time `json:"timestamp"`
}

func NewBusinessUpdatedMessage(businessID, operation string) *BusinessUpdatedMessage {
	return &BusinessUpdatedMessage{
		BusinessID: businessID,
		Operation:  operation,
		Timestamp:  time.Now(),
	}
}

func (m *BusinessUpdatedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// BusinessUpdatedMessageFromJSON decodes a message and rejects one without a business id.
func BusinessUpdatedMessageFromJSON(data []byte) (*BusinessUpdatedMessage, error) {
	var msg BusinessUpdatedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.BusinessID == "" {
		return nil, errors.New("message without business_id")
	}
	return &msg, nil
}
