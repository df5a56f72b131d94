// Package models defines the wire-level records for the Auto Linked API.
package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMalformedRecord indicates a response payload that is not a JSON object
// where a record was expected.
var ErrMalformedRecord = errors.New("malformed record")

// Chat represents one conversation between a user and the model.
// The ID is assigned by the API on creation; the client never invents it.
type Chat struct {
	ID       string    `json:"id,omitempty"`
	UserID   string    `json:"userId"`
	Name     string    `json:"name"`
	Messages []Message `json:"messages,omitempty"`
}

// NewChat creates an unpersisted chat owned by userID.
// The name defaults to the first user message of the conversation.
func NewChat(userID, name string) Chat {
	return Chat{UserID: userID, Name: name}
}

// ChatFromJSON decodes a single chat record.
// Returns ErrMalformedRecord if data is not a JSON object.
func ChatFromJSON(data []byte) (Chat, error) {
	var chat Chat
	if err := decodeObject(data, &chat); err != nil {
		return Chat{}, fmt.Errorf("chat: %w", err)
	}
	return chat, nil
}

// ChatsFromJSON decodes an array of chat records.
func ChatsFromJSON(data []byte) ([]Chat, error) {
	raw, err := decodeArray(data)
	if err != nil {
		return nil, fmt.Errorf("chats: %w", err)
	}
	chats := make([]Chat, 0, len(raw))
	for _, item := range raw {
		chat, err := ChatFromJSON(item)
		if err != nil {
			return nil, err
		}
		chats = append(chats, chat)
	}
	return chats, nil
}

// decodeObject unmarshals data into v, rejecting payloads that are not
// JSON objects. An unchecked cast of an array or scalar into a record
// silently zeroes every field, so the shape is validated first.
func decodeObject(data []byte, v any) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return ErrMalformedRecord
	}
	if err := json.Unmarshal(trimmed, v); err != nil {
		return fmt.Errorf("%w: %s", ErrMalformedRecord, err)
	}
	return nil
}

// decodeArray splits a JSON array payload into its raw elements.
func decodeArray(data []byte) ([]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, ErrMalformedRecord
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformedRecord, err)
	}
	return raw, nil
}
