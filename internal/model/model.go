package model

import (
	"encoding/json"
	"time"
)

// Conversation stores metadata about a chat thread between the operator
// and the assistant. The title is derived from the first message.
type Conversation struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Message stores a single message in a conversation.
type Message struct {
	ID             string            `json:"id"`
	ConversationID string            `json:"conversation_id"`
	Role           string            `json:"role"` // "user" or "assistant"
	Content        string            `json:"content"`
	Metadata       map[string]string `json:"metadata,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
}

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// SimCard is a provisioned IoT SIM.
type SimCard struct {
	ID        string    `json:"id"`
	ICCID     string    `json:"iccid"`
	IMSI      string    `json:"imsi"`
	MSISDN    string    `json:"msisdn,omitempty"`
	Status    string    `json:"status"`
	Plan      string    `json:"plan,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SIM lifecycle states accepted by the provisioning API.
const (
	SimStatusActive    = "active"
	SimStatusInactive  = "inactive"
	SimStatusSuspended = "suspended"
)

// UsageSample is a single data-usage reading reported for a SIM.
type UsageSample struct {
	ID         string    `json:"id"`
	SimID      string    `json:"sim_id"`
	BytesUp    int64     `json:"bytes_up"`
	BytesDown  int64     `json:"bytes_down"`
	RecordedAt time.Time `json:"recorded_at"`
}

// UsageTotals aggregates usage samples for a SIM over a time window.
type UsageTotals struct {
	SimID     string    `json:"sim_id"`
	BytesUp   int64     `json:"bytes_up"`
	BytesDown int64     `json:"bytes_down"`
	Samples   int64     `json:"samples"`
	From      time.Time `json:"from"`
	To        time.Time `json:"to"`
}

// WebhookEvent is a raw event received from the broker's rules engine.
type WebhookEvent struct {
	ID         string          `json:"id"`
	Source     string          `json:"source"` // "mqtt" or "alert"
	Topic      string          `json:"topic,omitempty"`
	Payload    json.RawMessage `json:"payload"`
	ReceivedAt time.Time       `json:"received_at"`
}

// Webhook event sources.
const (
	WebhookSourceMQTT  = "mqtt"
	WebhookSourceAlert = "alert"
)

// Alert is raised when an alert webhook carries a recognized severity.
type Alert struct {
	ID        string    `json:"id"`
	SimID     string    `json:"sim_id,omitempty"`
	Severity  string    `json:"severity"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// Device is a field device as exposed by the main backend.
type Device struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	SimID    string `json:"sim_id,omitempty"`
	Status   string `json:"status"`
	LastSeen string `json:"last_seen,omitempty"`
}

// Asset is a tracked asset as exposed by the main backend.
type Asset struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	DeviceID string `json:"device_id,omitempty"`
}

// Geozone is a named geographic fence as exposed by the main backend.
type Geozone struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Lat    float64 `json:"lat"`
	Lon    float64 `json:"lon"`
	Radius float64 `json:"radius_m"`
}

// FeatureFlags are the portal-level settings stored by the main backend.
type FeatureFlags struct {
	LLMEnabled bool `json:"llm_enabled"`
}
