package models

import "fmt"

// Role identifies the author of a message.
type Role string

// Role values recognized by the messages API.
const (
	RoleUser   Role = "user"
	RoleModel  Role = "model"
	RoleSystem Role = "system"
)

// Valid reports whether r is one of the recognized roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleModel, RoleSystem:
		return true
	}
	return false
}

// Message represents a single turn within a chat.
//
// Once persisted a message is immutable; content only changes while the
// assistant turn is still streaming into a provisional transcript entry.
type Message struct {
	ID      string `json:"id,omitempty"`
	Content string `json:"content"`
	Role    Role   `json:"role"`
	Chat    string `json:"chat"`
}

// NewMessage creates an unpersisted message for the given chat.
func NewMessage(content string, role Role, chatID string) Message {
	return Message{Content: content, Role: role, Chat: chatID}
}

// MessageFromJSON decodes a single message record.
// Returns ErrMalformedRecord if data is not a JSON object.
func MessageFromJSON(data []byte) (Message, error) {
	var msg Message
	if err := decodeObject(data, &msg); err != nil {
		return Message{}, fmt.Errorf("message: %w", err)
	}
	return msg, nil
}

// MessagesFromJSON decodes an array of message records.
func MessagesFromJSON(data []byte) ([]Message, error) {
	raw, err := decodeArray(data)
	if err != nil {
		return nil, fmt.Errorf("messages: %w", err)
	}
	msgs := make([]Message, 0, len(raw))
	for _, item := range raw {
		msg, err := MessageFromJSON(item)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, msg)
	}
	return msgs, nil
}
