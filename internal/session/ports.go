// Package session implements the chat session lifecycle: resuming a
// conversation from persisted history, driving the streaming model call and
// persisting completed turns, plus the sidebar-style session list.
package session

import (
	"context"

	"github.com/SartoDev/auto-linked/internal/llm"
	"github.com/SartoDev/auto-linked/internal/models"
)

// Gateway is the subset of the persistence API the controllers depend on.
type Gateway interface {
	CreateChat(ctx context.Context, chat models.Chat) (models.Chat, error)
	CreateMessage(ctx context.Context, msg models.Message) (models.Message, error)
	ListMessagesByChat(ctx context.Context, chatID string) ([]models.Message, error)
	ListChatsByUser(ctx context.Context, userID string) ([]models.Chat, error)
	RenameChat(ctx context.Context, id string, chat models.Chat) (string, error)
	DeleteChat(ctx context.Context, id string) (string, error)
}

// ReplyStream is one generative session bound to a chat's history.
type ReplyStream interface {
	StreamReply(ctx context.Context, userText string, onFragment func(fragment string) error) (string, error)
}

// Streamer creates generative sessions, optionally seeded with prior turns.
type Streamer interface {
	StartSession(prior []llm.Turn) ReplyStream
}

// Notifier surfaces user-visible notifications. Controllers report terminal
// failures through it instead of distinguishing error kinds for the user.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

type noopNotifier struct{}

func (noopNotifier) Success(string) {}
func (noopNotifier) Error(string)   {}

// modelStreamer adapts *llm.Model to the Streamer port.
type modelStreamer struct {
	model *llm.Model
}

func (s modelStreamer) StartSession(prior []llm.Turn) ReplyStream {
	return s.model.StartSession(prior)
}

// NewStreamer wraps a configured model as a Streamer.
func NewStreamer(model *llm.Model) Streamer {
	return modelStreamer{model: model}
}
