// Package gateway provides the HTTP client for the chats and messages resources.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/SartoDev/auto-linked/internal/models"
)

// Client talks to the remote chat/message API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a new API client.
// If baseURL is empty, uses the AUTOLINKED_API_URL env var or defaults to
// localhost:3000. Timeout can be configured via AUTOLINKED_API_TIMEOUT.
func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = os.Getenv("AUTOLINKED_API_URL")
	}
	if baseURL == "" {
		baseURL = "http://localhost:3000"
	}

	timeout := 30 * time.Second
	if t := os.Getenv("AUTOLINKED_API_TIMEOUT"); t != "" {
		if d, err := time.ParseDuration(t); err == nil {
			timeout = d
		}
	}

	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// do executes one request against the API and returns the raw body.
// Non-2xx responses become a *RequestError carrying the status text.
func (c *Client) do(ctx context.Context, method, path string, body any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newRequestError(resp)
	}

	return data, nil
}

// CreateChat persists a new chat and returns the record with its
// gateway-assigned id.
func (c *Client) CreateChat(ctx context.Context, chat models.Chat) (models.Chat, error) {
	data, err := c.do(ctx, http.MethodPost, "/chats", chat)
	if err != nil {
		return models.Chat{}, fmt.Errorf("create chat: %w", err)
	}
	return models.ChatFromJSON(data)
}

// ListChats returns every chat known to the API.
func (c *Client) ListChats(ctx context.Context) ([]models.Chat, error) {
	data, err := c.do(ctx, http.MethodGet, "/chats", nil)
	if err != nil {
		return nil, fmt.Errorf("list chats: %w", err)
	}
	return models.ChatsFromJSON(data)
}

// ListChatsByUser returns the chats owned by userID, in the order the
// remote returns them.
func (c *Client) ListChatsByUser(ctx context.Context, userID string) ([]models.Chat, error) {
	data, err := c.do(ctx, http.MethodGet, "/chats?user-id="+url.QueryEscape(userID), nil)
	if err != nil {
		return nil, fmt.Errorf("list chats by user: %w", err)
	}
	return models.ChatsFromJSON(data)
}

// RenameChat replaces the chat record under id and returns the API's
// confirmation text.
func (c *Client) RenameChat(ctx context.Context, id string, chat models.Chat) (string, error) {
	data, err := c.do(ctx, http.MethodPut, "/chats/"+url.PathEscape(id), chat)
	if err != nil {
		return "", fmt.Errorf("rename chat: %w", err)
	}
	return string(data), nil
}

// DeleteChat deletes the chat under id, cascading to its messages on the
// server side, and returns the API's confirmation text.
func (c *Client) DeleteChat(ctx context.Context, id string) (string, error) {
	data, err := c.do(ctx, http.MethodDelete, "/chats/"+url.PathEscape(id), nil)
	if err != nil {
		return "", fmt.Errorf("delete chat: %w", err)
	}
	return string(data), nil
}

// CreateMessage persists a message and returns the record with its
// gateway-assigned id.
func (c *Client) CreateMessage(ctx context.Context, msg models.Message) (models.Message, error) {
	data, err := c.do(ctx, http.MethodPost, "/messages", msg)
	if err != nil {
		return models.Message{}, fmt.Errorf("create message: %w", err)
	}
	return models.MessageFromJSON(data)
}

// ListMessages returns every message known to the API.
func (c *Client) ListMessages(ctx context.Context) ([]models.Message, error) {
	data, err := c.do(ctx, http.MethodGet, "/messages", nil)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return models.MessagesFromJSON(data)
}

// ListMessagesByChat returns the messages of one chat in insertion order.
func (c *Client) ListMessagesByChat(ctx context.Context, chatID string) ([]models.Message, error) {
	data, err := c.do(ctx, http.MethodGet, "/messages?chat-id="+url.QueryEscape(chatID), nil)
	if err != nil {
		return nil, fmt.Errorf("list messages by chat: %w", err)
	}
	return models.MessagesFromJSON(data)
}
