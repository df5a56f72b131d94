package session_test

import (
	"context"
	"fmt"
	"strconv"

	"github.com/SartoDev/auto-linked/internal/llm"
	"github.com/SartoDev/auto-linked/internal/models"
	"github.com/SartoDev/auto-linked/internal/session"
)

// fakeGateway is an in-memory stand-in for the remote chats/messages API.
// Errors can be injected per operation; every call is recorded in order.
type fakeGateway struct {
	calls []string

	chats    []models.Chat
	messages []models.Message
	nextID   int

	createChatErr    error
	createMessageErr error
	listMessagesErr  error
	listChatsErr     error
	renameErr        error
	deleteErr        error
}

func (g *fakeGateway) id(prefix string) string {
	g.nextID++
	return prefix + "-" + strconv.Itoa(g.nextID)
}

func (g *fakeGateway) CreateChat(ctx context.Context, chat models.Chat) (models.Chat, error) {
	g.calls = append(g.calls, "CreateChat")
	if g.createChatErr != nil {
		return models.Chat{}, g.createChatErr
	}
	chat.ID = g.id("chat")
	g.chats = append(g.chats, chat)
	return chat, nil
}

func (g *fakeGateway) CreateMessage(ctx context.Context, msg models.Message) (models.Message, error) {
	g.calls = append(g.calls, "CreateMessage:"+string(msg.Role))
	if g.createMessageErr != nil {
		return models.Message{}, g.createMessageErr
	}
	msg.ID = g.id("msg")
	g.messages = append(g.messages, msg)
	return msg, nil
}

func (g *fakeGateway) ListMessagesByChat(ctx context.Context, chatID string) ([]models.Message, error) {
	g.calls = append(g.calls, "ListMessagesByChat")
	if g.listMessagesErr != nil {
		return nil, g.listMessagesErr
	}
	var out []models.Message
	for _, msg := range g.messages {
		if msg.Chat == chatID {
			out = append(out, msg)
		}
	}
	return out, nil
}

func (g *fakeGateway) ListChatsByUser(ctx context.Context, userID string) ([]models.Chat, error) {
	g.calls = append(g.calls, "ListChatsByUser")
	if g.listChatsErr != nil {
		return nil, g.listChatsErr
	}
	var out []models.Chat
	for _, chat := range g.chats {
		if chat.UserID == userID {
			out = append(out, chat)
		}
	}
	return out, nil
}

func (g *fakeGateway) RenameChat(ctx context.Context, id string, chat models.Chat) (string, error) {
	g.calls = append(g.calls, "RenameChat")
	if g.renameErr != nil {
		return "", g.renameErr
	}
	for i := range g.chats {
		if g.chats[i].ID == id {
			g.chats[i].Name = chat.Name
			return "chat updated", nil
		}
	}
	return "", fmt.Errorf("chat not found: %s", id)
}

func (g *fakeGateway) DeleteChat(ctx context.Context, id string) (string, error) {
	g.calls = append(g.calls, "DeleteChat")
	if g.deleteErr != nil {
		return "", g.deleteErr
	}
	for i := range g.chats {
		if g.chats[i].ID == id {
			g.chats = append(g.chats[:i], g.chats[i+1:]...)
			// Cascade, as the server would.
			kept := g.messages[:0]
			for _, msg := range g.messages {
				if msg.Chat != id {
					kept = append(kept, msg)
				}
			}
			g.messages = kept
			return "chat deleted", nil
		}
	}
	return "", fmt.Errorf("chat not found: %s", id)
}

// fakeStream yields the configured fragments; midStream runs after the first
// fragment to simulate events arriving while a turn is open.
type fakeStream struct {
	fragments []string
	err       error
	midStream func()
	calls     int
}

func (s *fakeStream) StreamReply(ctx context.Context, userText string, onFragment func(string) error) (string, error) {
	s.calls++
	var full string
	for i, fragment := range s.fragments {
		if err := onFragment(fragment); err != nil {
			return "", err
		}
		full += fragment
		if i == 0 && s.midStream != nil {
			s.midStream()
		}
	}
	if s.err != nil {
		return "", s.err
	}
	return full, nil
}

// fakeStreamer records the seeding turns of every started session.
type fakeStreamer struct {
	stream *fakeStream
	seeded [][]llm.Turn
}

func (s *fakeStreamer) StartSession(prior []llm.Turn) session.ReplyStream {
	s.seeded = append(s.seeded, prior)
	return s.stream
}

// recordingNotifier captures notifications for assertions.
type recordingNotifier struct {
	successes []string
	errors    []string
}

func (n *recordingNotifier) Success(msg string) { n.successes = append(n.successes, msg) }
func (n *recordingNotifier) Error(msg string)   { n.errors = append(n.errors, msg) }
