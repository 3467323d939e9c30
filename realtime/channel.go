package realtime

import (
	"encoding/json"

	"matchai-service/model"
)

// Channel is one open client connection, whatever the transport.
// Send must be safe to call from several goroutines.
type Channel interface {
	ID() string
	Send(event string, payload any) error
	Close() error
}

// Inbound event types.
const (
	EventAuth        = "auth"
	EventMessage     = "message"
	EventVideoSignal = "video_signal"
)

// Outbound event types.
const (
	EventNewMessage   = "new_message"
	EventMessageSent  = "message_sent"
	EventMatchCreated = "match_created"
	EventMatchUpdated = "match_updated"
)

var InboundEvents = []string{EventAuth, EventMessage, EventVideoSignal}

type AuthEvent struct {
	UserID uint `json:"userId"`
}

type MessageEvent struct {
	MatchID  uint   `json:"matchId"`
	SenderID *uint  `json:"senderId,omitempty"`
	Content  string `json:"content"`
}

type VideoSignalEvent struct {
	TargetUserID uint            `json:"targetUserId"`
	Signal       json.RawMessage `json:"signal"`
}

type MessageFrame struct {
	Type    string         `json:"type"`
	Message *model.Message `json:"message"`
}

type SignalFrame struct {
	Type       string          `json:"type"`
	FromUserID uint            `json:"fromUserId"`
	Signal     json.RawMessage `json:"signal"`
}

type MatchFrame struct {
	Type  string       `json:"type"`
	Match *model.Match `json:"match"`
}
