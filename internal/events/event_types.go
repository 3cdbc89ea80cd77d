package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventContactMessageReceived EventType = "contact_message_received"
	EventUserRegistered         EventType = "user_registered"
	EventPasswordChanged        EventType = "password_changed"
	EventAssetReleased          EventType = "asset_released"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// ContactMessageReceivedPayload payload.
type ContactMessageReceivedPayload struct {
	MessageID    string `json:"message_id"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	EmailAddress string `json:"email_address"`
	Preview      string `json:"preview"`
}

// UserRegisteredPayload payload.
type UserRegisteredPayload struct {
	UserID       string `json:"user_id"`
	EmailAddress string `json:"email_address"`
}

// PasswordChangedPayload payload.
type PasswordChangedPayload struct {
	UserID       string `json:"user_id"`
	EmailAddress string `json:"email_address"`
}

// AssetReleasedPayload payload.
type AssetReleasedPayload struct {
	Resource string `json:"resource"`
	Key      string `json:"key"`
}
