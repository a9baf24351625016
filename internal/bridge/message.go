package bridge

import (
	"encoding/json"
	"fmt"
)

// Message is the envelope exchanged between the scripting side and the UI
// layer. Data stays raw JSON so payloads remain opaque to every transport.
type Message struct {
	Action string          `json:"action"`
	Data   json.RawMessage `json:"data,omitempty"`
}

// NewMessage wraps an arbitrary payload into a Message envelope.
func NewMessage(action string, data any) (Message, error) {
	if action == "" {
		return Message{}, fmt.Errorf("message action must not be empty")
	}
	if data == nil {
		return Message{Action: action}, nil
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return Message{}, fmt.Errorf("failed to encode payload for action %q: %w", action, err)
	}
	return Message{Action: action, Data: raw}, nil
}
