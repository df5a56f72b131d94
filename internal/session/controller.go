package session

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/SartoDev/auto-linked/internal/llm"
	"github.com/SartoDev/auto-linked/internal/models"
)

// State is the controller's position in the turn lifecycle.
type State int

const (
	StateIdle State = iota
	StatePersistingUserTurn
	StateStreamingAssistantTurn
	StatePersistingAssistantTurn
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePersistingUserTurn:
		return "persisting-user-turn"
	case StateStreamingAssistantTurn:
		return "streaming-assistant-turn"
	case StatePersistingAssistantTurn:
		return "persisting-assistant-turn"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Controller owns one conversation view: its transcript, its generative
// session handle and the submission lifecycle. A fresh controller is
// constructed per loaded conversation; the handle is never reused across
// conversations.
//
// Submit and Load run on their caller's goroutine while the UI reads
// ChatID, State, Busy and Entries from its own; mu covers that shared
// state, and Entries returns a snapshot.
type Controller struct {
	gw       Gateway
	streamer Streamer
	logger   *slog.Logger
	notify   Notifier

	userID  string
	session ReplyStream

	mu         sync.Mutex
	chatID     string
	transcript transcript
	state      State

	// Navigate is invoked with the chat id after a turn that implicitly
	// created the conversation, success or failure, so the address always
	// reflects the conversation. Render is invoked whenever the transcript
	// changes, including once per streamed fragment.
	Navigate func(chatID string)
	Render   func()
}

// NewController creates a controller for the given conversation.
// An empty chatID is the landing view: the chat is created implicitly on the
// first submission.
func NewController(gw Gateway, streamer Streamer, userID, chatID string, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		gw:       gw,
		streamer: streamer,
		logger:   logger,
		notify:   noopNotifier{},
		userID:   userID,
		chatID:   chatID,
		state:    StateIdle,
	}
}

// SetNotifier routes user-visible notifications to n.
func (c *Controller) SetNotifier(n Notifier) {
	if n != nil {
		c.notify = n
	}
}

// ChatID returns the conversation identity, empty until the first submission
// on a landing view resolves one.
func (c *Controller) ChatID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.chatID
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Busy reports whether a turn is mid-flight. The UI disables submission
// while Busy.
func (c *Controller) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busyLocked()
}

func (c *Controller) busyLocked() bool {
	switch c.state {
	case StatePersistingUserTurn, StateStreamingAssistantTurn, StatePersistingAssistantTurn:
		return true
	}
	return false
}

// Entries returns a snapshot of the transcript in append order. Later
// streamed fragments do not show through it.
func (c *Controller) Entries() []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	entries := make([]Entry, len(c.transcript.entries))
	copy(entries, c.transcript.entries)
	return entries
}

// Load replays the conversation's persisted messages into the transcript
// and, if any exist, seeds a new generative session with that history.
// No session is created for an empty or new conversation until the first
// submission.
func (c *Controller) Load(ctx context.Context) error {
	chatID := c.ChatID()
	if chatID == "" {
		return nil
	}

	msgs, err := c.gw.ListMessagesByChat(ctx, chatID)
	if err != nil {
		return fmt.Errorf("load conversation: %w", err)
	}

	prior := make([]llm.Turn, 0, len(msgs))
	c.mu.Lock()
	for _, msg := range msgs {
		c.transcript.append(Entry{ID: PersistedID(msg.ID), Role: msg.Role, Content: msg.Content})
		prior = append(prior, llm.Turn{Role: msg.Role, Text: msg.Content})
	}
	c.mu.Unlock()
	if len(prior) > 0 {
		c.session = c.streamer.StartSession(prior)
	}

	c.logger.Debug("conversation loaded", "chat_id", chatID, "messages", len(msgs))
	c.render()
	return nil
}

// Submit runs one full turn: persist the user message, stream the assistant
// reply into the transcript, persist the completed reply.
//
// Empty input or a turn already in flight is a no-op. A user-turn
// persistence failure rolls back the optimistic entry and never starts
// generation, so no assistant turn is ever produced for an unpersisted user
// turn. Stream and final-persistence failures surface as one notification;
// the streamed transcript content is kept as rendered.
func (c *Controller) Submit(ctx context.Context, input string) error {
	if strings.TrimSpace(input) == "" {
		return nil
	}

	// Optimistic user entry, rendered before any round-trip.
	userEntry := ProvisionalID()
	c.mu.Lock()
	if c.busyLocked() {
		c.mu.Unlock()
		return nil
	}
	c.transcript.append(Entry{ID: userEntry, Role: models.RoleUser, Content: input})
	c.state = StatePersistingUserTurn
	chatID := c.chatID
	c.mu.Unlock()
	c.render()

	freshChat := false
	defer func() {
		if freshChat && c.Navigate != nil {
			c.Navigate(c.ChatID())
		}
	}()

	// Conversation identity is deferred until first send on the landing
	// view: create the chat now, named after the submitted text.
	if chatID == "" {
		chat, err := c.gw.CreateChat(ctx, models.NewChat(c.userID, input))
		if err != nil {
			c.failUserTurn(userEntry, err)
			return fmt.Errorf("create chat: %w", err)
		}
		chatID = chat.ID
		c.mu.Lock()
		c.chatID = chatID
		c.mu.Unlock()
		freshChat = true
	}
	if c.session == nil {
		c.session = c.streamer.StartSession(nil)
	}

	persisted, err := c.gw.CreateMessage(ctx, models.NewMessage(input, models.RoleUser, chatID))
	if err != nil {
		c.failUserTurn(userEntry, err)
		return fmt.Errorf("persist user turn: %w", err)
	}

	// Provisional assistant entry that the stream fills in.
	assistantEntry := ProvisionalID()
	c.mu.Lock()
	c.transcript.reconcile(userEntry, PersistedID(persisted.ID))
	c.transcript.append(Entry{ID: assistantEntry, Role: models.RoleModel, Content: ""})
	c.state = StateStreamingAssistantTurn
	c.mu.Unlock()
	c.render()

	var buf strings.Builder
	full, err := c.session.StreamReply(ctx, input, func(fragment string) error {
		buf.WriteString(fragment)
		c.mu.Lock()
		c.transcript.setContent(assistantEntry, buf.String())
		c.mu.Unlock()
		c.render()
		return nil
	})
	if err != nil {
		c.failAssistantTurn(err)
		return fmt.Errorf("stream assistant turn: %w", err)
	}

	c.mu.Lock()
	c.state = StatePersistingAssistantTurn
	c.mu.Unlock()

	final, err := c.gw.CreateMessage(ctx, models.NewMessage(full, models.RoleModel, chatID))
	if err != nil {
		// The rendered transcript is not rolled back: it may show content
		// that outlives the failed write.
		c.failAssistantTurn(err)
		return fmt.Errorf("persist assistant turn: %w", err)
	}

	c.mu.Lock()
	c.transcript.reconcile(assistantEntry, PersistedID(final.ID))
	c.state = StateIdle
	c.mu.Unlock()
	c.render()
	return nil
}

// failUserTurn rolls back the optimistic user entry and re-enables input
// without starting generation.
func (c *Controller) failUserTurn(entry EntryID, err error) {
	c.logger.Error("user turn persistence failed", "chat_id", c.ChatID(), "error", err)
	c.mu.Lock()
	c.transcript.remove(entry)
	c.state = StateFailed
	c.mu.Unlock()
	c.notify.Error("Failed to save your message. Please try again.")
	c.render()
}

// failAssistantTurn reports a stream or final-persistence failure as a
// single notification, without distinguishing the two.
func (c *Controller) failAssistantTurn(err error) {
	c.logger.Error("assistant turn failed", "chat_id", c.ChatID(), "state", c.State().String(), "error", err)
	c.mu.Lock()
	c.state = StateFailed
	c.mu.Unlock()
	c.notify.Error("Failed to get AI response. Please try again.")
	c.render()
}

func (c *Controller) render() {
	if c.Render != nil {
		c.Render()
	}
}
