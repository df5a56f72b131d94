package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/SartoDev/auto-linked/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
)

// fakeLLM streams the configured chunks through the caller's streaming func
// and records the messages it was given.
type fakeLLM struct {
	chunks   []string
	err      error
	messages []llms.MessageContent
}

func (f *fakeLLM) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	f.messages = messages

	opts := llms.CallOptions{}
	for _, opt := range options {
		opt(&opts)
	}

	var full string
	for _, chunk := range f.chunks {
		if opts.StreamingFunc != nil {
			if err := opts.StreamingFunc(ctx, []byte(chunk)); err != nil {
				return nil, err
			}
		}
		full += chunk
	}
	if f.err != nil {
		return nil, f.err
	}

	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: full}},
	}, nil
}

func (f *fakeLLM) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return "", errors.New("not implemented")
}

func testModel(fake *fakeLLM) *Model {
	return &Model{llm: fake, modelName: "fake", systemInstruction: "persona"}
}

func TestStartSessionSeedsHistory(t *testing.T) {
	fake := &fakeLLM{chunks: []string{"ok"}}
	model := testModel(fake)

	prior := []Turn{
		{Role: models.RoleUser, Text: "first question"},
		{Role: models.RoleModel, Text: "first answer"},
	}
	session := model.StartSession(prior)
	require.Equal(t, 2, session.HistoryLen())

	_, err := session.StreamReply(context.Background(), "second question", func(string) error { return nil })
	require.NoError(t, err)

	// system instruction + exactly the seeded turns + new utterance:
	// no duplication, no omission.
	require.Len(t, fake.messages, 4)
	assert.Equal(t, llms.ChatMessageTypeSystem, fake.messages[0].Role)
	assert.Equal(t, llms.ChatMessageTypeHuman, fake.messages[1].Role)
	assert.Equal(t, llms.ChatMessageTypeAI, fake.messages[2].Role)
	assert.Equal(t, llms.ChatMessageTypeHuman, fake.messages[3].Role)
}

func TestStreamReplyConcatenatesFragmentsInOrder(t *testing.T) {
	fake := &fakeLLM{chunks: []string{"Hel", "lo ", "there"}}
	session := testModel(fake).StartSession(nil)

	var seen []string
	full, err := session.StreamReply(context.Background(), "hi", func(fragment string) error {
		seen = append(seen, fragment)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Hel", "lo ", "there"}, seen)
	assert.Equal(t, "Hello there", full)
}

func TestStreamReplyAppendsExchangeToHistory(t *testing.T) {
	fake := &fakeLLM{chunks: []string{"answer"}}
	session := testModel(fake).StartSession(nil)

	_, err := session.StreamReply(context.Background(), "question", func(string) error { return nil })
	require.NoError(t, err)
	assert.Equal(t, 2, session.HistoryLen())
}

func TestStreamReplyProviderErrorAbortsTurn(t *testing.T) {
	fake := &fakeLLM{chunks: []string{"par"}, err: errors.New("provider down")}
	session := testModel(fake).StartSession(nil)

	_, err := session.StreamReply(context.Background(), "hi", func(string) error { return nil })
	require.Error(t, err)
	// A failed turn must not leak into the seeded history.
	assert.Equal(t, 0, session.HistoryLen())
}

func TestStreamReplyFragmentCallbackErrorAborts(t *testing.T) {
	fake := &fakeLLM{chunks: []string{"a", "b", "c"}}
	session := testModel(fake).StartSession(nil)

	calls := 0
	_, err := session.StreamReply(context.Background(), "hi", func(string) error {
		calls++
		if calls == 2 {
			return errors.New("consumer gave up")
		}
		return nil
	})
	require.Error(t, err)
	assert.Equal(t, 2, calls, "no fragments after the failing one")
}

// silentLLM never invokes the streaming func and only returns a final choice.
type silentLLM struct {
	content string
}

func (s *silentLLM) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: s.content}}}, nil
}

func (s *silentLLM) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return "", errors.New("not implemented")
}

func TestStreamReplyNonStreamingFallback(t *testing.T) {
	// A provider that ignores the streaming func still yields one fragment
	// equal to the final choice.
	model := &Model{llm: &silentLLM{content: "whole reply"}, modelName: "fake"}
	session := model.StartSession(nil)

	var seen []string
	full, err := session.StreamReply(context.Background(), "hi", func(fragment string) error {
		seen = append(seen, fragment)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "whole reply", full)
	assert.Equal(t, []string{"whole reply"}, seen)
}

func TestStreamReplyWithoutSystemInstruction(t *testing.T) {
	fake := &fakeLLM{chunks: []string{"ok"}}
	model := &Model{llm: fake, modelName: "fake"}
	session := model.StartSession(nil)

	_, err := session.StreamReply(context.Background(), "hi", func(string) error { return nil })
	require.NoError(t, err)
	require.Len(t, fake.messages, 1)
	assert.Equal(t, llms.ChatMessageTypeHuman, fake.messages[0].Role)
}
