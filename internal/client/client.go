// Package client is a typed HTTP client for the main portal backend. The
// backend owns the data; this client only shapes requests and responses for
// the session and shell packages.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	app_errors "github.com/swissMack/simportal/internal/errors"
	"github.com/swissMack/simportal/internal/model"
)

// ConversationStore is the subset of the backend API that the chat session
// engine depends on.
type ConversationStore interface {
	ListConversations(ctx context.Context) ([]model.Conversation, error)
	CreateConversation(ctx context.Context, title string) (*model.Conversation, error)
	DeleteConversation(ctx context.Context, conversationID string) error
	ListMessages(ctx context.Context, conversationID string) ([]model.Message, error)
	SendMessage(ctx context.Context, conversationID, content string) (*model.Message, error)
}

// Client talks JSON over HTTP to the main portal backend.
type Client struct {
	http    *http.Client
	baseURL string
}

func New(baseURL string) *Client {
	return &Client{
		http:    &http.Client{Timeout: 30 * time.Second},
		baseURL: baseURL,
	}
}

// --- Conversations ---

func (c *Client) ListConversations(ctx context.Context) ([]model.Conversation, error) {
	var conversations []model.Conversation
	if err := c.do(ctx, http.MethodGet, "/api/v1/conversations", nil, &conversations); err != nil {
		return nil, err
	}
	return conversations, nil
}

func (c *Client) CreateConversation(ctx context.Context, title string) (*model.Conversation, error) {
	body := map[string]string{"title": title}
	var conversation model.Conversation
	if err := c.do(ctx, http.MethodPost, "/api/v1/conversations", body, &conversation); err != nil {
		return nil, err
	}
	return &conversation, nil
}

func (c *Client) DeleteConversation(ctx context.Context, conversationID string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/conversations/"+conversationID, nil, nil)
}

// --- Messages ---

func (c *Client) ListMessages(ctx context.Context, conversationID string) ([]model.Message, error) {
	var messages []model.Message
	if err := c.do(ctx, http.MethodGet, "/api/v1/conversations/"+conversationID+"/messages", nil, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// SendMessage posts the user's message and returns the assistant's reply.
// The backend persists both sides of the exchange.
func (c *Client) SendMessage(ctx context.Context, conversationID, content string) (*model.Message, error) {
	body := map[string]string{"content": content}
	var reply model.Message
	if err := c.do(ctx, http.MethodPost, "/api/v1/conversations/"+conversationID+"/messages", body, &reply); err != nil {
		return nil, err
	}
	return &reply, nil
}

// --- Feature page reads ---

func (c *Client) ListDevices(ctx context.Context) ([]model.Device, error) {
	var devices []model.Device
	if err := c.do(ctx, http.MethodGet, "/api/v1/devices", nil, &devices); err != nil {
		return nil, err
	}
	return devices, nil
}

func (c *Client) ListSims(ctx context.Context) ([]model.SimCard, error) {
	var sims []model.SimCard
	if err := c.do(ctx, http.MethodGet, "/api/v1/sims", nil, &sims); err != nil {
		return nil, err
	}
	return sims, nil
}

func (c *Client) ListAssets(ctx context.Context) ([]model.Asset, error) {
	var assets []model.Asset
	if err := c.do(ctx, http.MethodGet, "/api/v1/assets", nil, &assets); err != nil {
		return nil, err
	}
	return assets, nil
}

func (c *Client) ListGeozones(ctx context.Context) ([]model.Geozone, error) {
	var geozones []model.Geozone
	if err := c.do(ctx, http.MethodGet, "/api/v1/geozones", nil, &geozones); err != nil {
		return nil, err
	}
	return geozones, nil
}

func (c *Client) ListAlerts(ctx context.Context) ([]model.Alert, error) {
	var alerts []model.Alert
	if err := c.do(ctx, http.MethodGet, "/api/v1/alerts", nil, &alerts); err != nil {
		return nil, err
	}
	return alerts, nil
}

// --- Notifications & settings ---

// UnreadCount returns the number of unread notifications for the operator.
func (c *Client) UnreadCount(ctx context.Context) (int, error) {
	var resp struct {
		Count int `json:"count"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/notifications/unread-count", nil, &resp); err != nil {
		return 0, err
	}
	return resp.Count, nil
}

func (c *Client) GetFlags(ctx context.Context) (*model.FeatureFlags, error) {
	var flags model.FeatureFlags
	if err := c.do(ctx, http.MethodGet, "/api/v1/settings/flags", nil, &flags); err != nil {
		return nil, err
	}
	return &flags, nil
}

func (c *Client) SaveFlags(ctx context.Context, flags *model.FeatureFlags) error {
	return c.do(ctx, http.MethodPost, "/api/v1/settings/flags", flags, nil)
}

// do performs one request/response round trip. A nil out skips decoding.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var reqBody io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("could not marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("could not create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return statusError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("could not decode response: %w", err)
	}
	return nil
}

// statusError maps backend status codes onto the application's sentinel
// errors so callers can use errors.Is without knowing about HTTP.
func statusError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	switch resp.StatusCode {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", app_errors.ErrNotFound, string(body))
	case http.StatusBadRequest:
		return fmt.Errorf("%w: %s", app_errors.ErrValidation, string(body))
	case http.StatusConflict:
		return fmt.Errorf("%w: %s", app_errors.ErrConflict, string(body))
	default:
		return fmt.Errorf("backend returned status %d: %s", resp.StatusCode, string(body))
	}
}
