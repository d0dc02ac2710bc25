package api_service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"audience-sync-service/major"
	"audience-sync-service/models"
	"audience-sync-service/tool"
)

const (
	activityHistoryPath = "/v1/activity/history"
	threadsPath         = "/v1/chat/threads"
	messagesPath        = "/v1/chat/messages"
)

// TokenProvider resolves the current bearer token, empty means signed out.
type TokenProvider func(ctx context.Context) (string, error)

// Config holds the marketplace REST API settings.
type Config struct {
	BaseURL string `yaml:"base_url" json:"base_url"`
	Timeout int    `yaml:"timeout" json:"timeout"` // seconds, default 30
}

// Client is the marketplace REST API client.
// It is the history source for notifications, threads and chat messages,
// and the fallback path for sending messages while the socket is down.
type Client struct {
	config     *Config
	getToken   TokenProvider
	httpClient *http.Client
}

// SendMessageReq is the request body for sending a chat message over REST.
type SendMessageReq struct {
	ConversationID string `json:"conversationId"`
	Content        string `json:"content"`
	ImageData      string `json:"imageData,omitempty"`
}

// NewClient creates a new REST API client.
func NewClient(config *Config, getToken TokenProvider) *Client {
	if config.Timeout == 0 {
		config.Timeout = 30
	}

	httpClient := major.GetHttpClient()
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: time.Duration(config.Timeout) * time.Second,
		}
	}

	return &Client{
		config:     config,
		getToken:   getToken,
		httpClient: httpClient,
	}
}

// GetActivityHistory fetches the persisted activity records, newest first.
func (c *Client) GetActivityHistory(ctx context.Context) ([]models.ActivityRecord, error) {
	var records []models.ActivityRecord
	if err := c.doJSON(ctx, http.MethodGet, activityHistoryPath, nil, nil, &records); err != nil {
		return nil, fmt.Errorf("get activity history: %w", err)
	}
	return records, nil
}

// GetThreads fetches the conversation thread list.
func (c *Client) GetThreads(ctx context.Context) ([]models.Thread, error) {
	var threads []models.Thread
	if err := c.doJSON(ctx, http.MethodGet, threadsPath, nil, nil, &threads); err != nil {
		return nil, fmt.Errorf("get threads: %w", err)
	}
	return threads, nil
}

// GetConversationMessages fetches the full message history of one
// conversation in server order.
func (c *Client) GetConversationMessages(ctx context.Context, conversationID string) ([]models.ChatMessage, error) {
	query := url.Values{"conversationId": {conversationID}}
	var messages []models.ChatMessage
	if err := c.doJSON(ctx, http.MethodGet, messagesPath, query, nil, &messages); err != nil {
		return nil, fmt.Errorf("get conversation messages: %w", err)
	}
	return messages, nil
}

// SendMessage posts a chat message over REST and returns the persisted copy.
func (c *Client) SendMessage(ctx context.Context, req *SendMessageReq) (*models.ChatMessage, error) {
	var message models.ChatMessage
	if err := c.doJSON(ctx, http.MethodPost, messagesPath, nil, req, &message); err != nil {
		return nil, fmt.Errorf("send message: %w", err)
	}
	return &message, nil
}

// doJSON performs one authenticated JSON round trip against the API.
// Gzip-encoded response bodies are decoded transparently.
func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, body interface{}, out interface{}) error {
	endpoint := strings.TrimRight(c.config.BaseURL, "/") + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Encoding", "gzip")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	token, err := c.getToken(ctx)
	if err != nil {
		return fmt.Errorf("resolve token: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	if resp.Header.Get("Content-Encoding") == "gzip" {
		decoded, err := tool.GzipToStr(raw)
		if err != nil {
			return fmt.Errorf("decode gzip response body: %w", err)
		}
		raw = []byte(decoded)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(raw))
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}
