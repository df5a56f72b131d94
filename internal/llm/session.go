package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/SartoDev/auto-linked/internal/models"
	"github.com/tmc/langchaingo/llms"
)

// Turn is one prior exchange used to seed a session.
type Turn struct {
	Role models.Role
	Text string
}

// Session is an in-memory handle bound to one chat's history. It is not
// persisted; callers create a fresh handle per loaded conversation and
// discard it on navigation away.
//
// A session is single-consumer: callers must not start a new StreamReply
// while a previous one is still open. The UI guard enforces this, not the
// session itself.
type Session struct {
	model   *Model
	history []llms.MessageContent
}

// StartSession creates a session, optionally seeded with prior turns so
// subsequent generation has full conversational context.
func (m *Model) StartSession(prior []Turn) *Session {
	history := make([]llms.MessageContent, 0, len(prior))
	for _, turn := range prior {
		history = append(history, llms.TextParts(messageType(turn.Role), turn.Text))
	}
	return &Session{model: m, history: history}
}

// StreamReply sends one user utterance and streams the reply.
// onFragment is invoked for every text increment in arrival order; fragments
// concatenate onto a running buffer, never re-order. Any error, whether from
// the provider or from onFragment, aborts the whole turn; individual
// fragments are never retried. Returns the complete reply text.
//
// Cancellation is honored between fragments via ctx, and the model's
// configured maximum turn duration bounds the call when set.
func (s *Session) StreamReply(ctx context.Context, userText string, onFragment func(fragment string) error) (string, error) {
	if s.model.maxTurn > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.model.maxTurn)
		defer cancel()
	}

	messages := make([]llms.MessageContent, 0, len(s.history)+2)
	if s.model.systemInstruction != "" {
		messages = append(messages, llms.TextParts(llms.ChatMessageTypeSystem, s.model.systemInstruction))
	}
	messages = append(messages, s.history...)
	messages = append(messages, llms.TextParts(llms.ChatMessageTypeHuman, userText))

	var buf strings.Builder
	resp, err := s.model.llm.GenerateContent(ctx, messages,
		llms.WithStreamingFunc(func(ctx context.Context, chunk []byte) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			buf.Write(chunk)
			return onFragment(string(chunk))
		}),
	)
	if err != nil {
		return "", fmt.Errorf("stream reply: %w", err)
	}

	full := buf.String()
	if full == "" {
		// Provider did not stream; fall back to the final choice.
		if len(resp.Choices) == 0 {
			return "", fmt.Errorf("stream reply: no response choices")
		}
		full = resp.Choices[0].Content
		if err := onFragment(full); err != nil {
			return "", fmt.Errorf("stream reply: %w", err)
		}
	}

	// Keep the handle seeded so the next turn carries this exchange.
	s.history = append(s.history,
		llms.TextParts(llms.ChatMessageTypeHuman, userText),
		llms.TextParts(llms.ChatMessageTypeAI, full),
	)

	return full, nil
}

// HistoryLen reports the number of seeded turns, including exchanges
// appended by completed replies.
func (s *Session) HistoryLen() int {
	return len(s.history)
}

func messageType(role models.Role) llms.ChatMessageType {
	switch role {
	case models.RoleModel:
		return llms.ChatMessageTypeAI
	case models.RoleSystem:
		return llms.ChatMessageTypeSystem
	default:
		return llms.ChatMessageTypeHuman
	}
}
