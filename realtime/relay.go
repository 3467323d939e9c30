package realtime

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"matchai-service/metrics"
	"matchai-service/model"

	"golang.org/x/time/rate"
)

type MatchLookup interface {
	Lookup(ctx context.Context, matchID uint) (*model.Match, error)
}

// MessageRecorder validates and persists a chat message sent by a
// participant of match.
type MessageRecorder interface {
	Record(ctx context.Context, match *model.Match, senderID uint, content string) (*model.Message, error)
}

type Config struct {
	// RequireToken only accepts auth claims matching the user resolved from
	// the handshake token.
	RequireToken    bool
	EventsPerSecond float64
	EventsBurst     int
}

// Relay routes chat messages and video signals between registered channels.
type Relay struct {
	registry *Registry
	matches  MatchLookup
	messages MessageRecorder
	metrics  metrics.Recorder
	cfg      Config
	log      *slog.Logger
}

func NewRelay(registry *Registry, matches MatchLookup, messages MessageRecorder, rec metrics.Recorder, cfg Config) *Relay {
	if rec == nil {
		rec = metrics.Nop{}
	}
	return &Relay{
		registry: registry,
		matches:  matches,
		messages: messages,
		metrics:  rec,
		cfg:      cfg,
		log:      slog.Default().With("component", "relay"),
	}
}

func (r *Relay) Registry() *Registry {
	return r.registry
}

// Notify pushes a server initiated event. It reports whether the user had a
// live channel that accepted the frame.
func (r *Relay) Notify(userID uint, event string, payload any) bool {
	ch, ok := r.registry.Lookup(userID)
	if !ok {
		r.metrics.RecordDelivery(event, false)
		return false
	}
	if err := ch.Send(event, payload); err != nil {
		r.log.Warn("push failed", "event", event, "userId", userID, "error", err)
		r.metrics.RecordDelivery(event, false)
		return false
	}
	r.metrics.RecordDelivery(event, true)
	return true
}

// Session is the relay state of one open channel.
type Session struct {
	relay    *Relay
	channel  Channel
	verified uint
	limiter  *rate.Limiter

	mu     sync.Mutex
	userID uint
}

// Open starts a session for ch. verifiedUserID is the user resolved from
// the handshake token, 0 when there was none.
func (r *Relay) Open(ch Channel, verifiedUserID uint) *Session {
	return &Session{
		relay:    r,
		channel:  ch,
		verified: verifiedUserID,
		limiter:  newLimiter(r.cfg.EventsPerSecond, r.cfg.EventsBurst),
	}
}

func (s *Session) UserID() uint {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.userID
}

// Dispatch decodes one inbound frame. Bad frames are logged and dropped,
// the channel stays open.
func (s *Session) Dispatch(ctx context.Context, eventType string, raw []byte) {
	log := s.relay.log.With("channel", s.channel.ID(), "event", eventType)

	if !allow(s.limiter) {
		s.drop(log, "rate_limited")
		return
	}

	switch eventType {
	case EventAuth:
		var ev AuthEvent
		if err := json.Unmarshal(raw, &ev); err != nil || ev.UserID == 0 {
			s.drop(log, "malformed")
			return
		}
		s.Auth(ev)
	case EventMessage:
		var ev MessageEvent
		if err := json.Unmarshal(raw, &ev); err != nil || ev.MatchID == 0 {
			s.drop(log, "malformed")
			return
		}
		s.Message(ctx, ev)
	case EventVideoSignal:
		var ev VideoSignalEvent
		if err := json.Unmarshal(raw, &ev); err != nil || ev.TargetUserID == 0 || !hasSignal(ev.Signal) {
			s.drop(log, "malformed")
			return
		}
		s.VideoSignal(ev)
	default:
		s.drop(log, "unknown_type")
	}
}

func hasSignal(raw json.RawMessage) bool {
	return len(raw) > 0 && string(raw) != "null"
}

func (s *Session) drop(log *slog.Logger, reason string) {
	log.Warn("frame dropped", "reason", reason)
	s.relay.metrics.RecordDroppedFrame(reason)
}

// Auth binds the channel to the claimed user.
func (s *Session) Auth(ev AuthEvent) {
	r := s.relay
	log := r.log.With("channel", s.channel.ID())

	if r.cfg.RequireToken && (s.verified == 0 || s.verified != ev.UserID) {
		log.Warn("auth claim rejected", "claimed", ev.UserID, "verified", s.verified)
		r.metrics.RecordDroppedFrame("auth_rejected")
		return
	}

	s.mu.Lock()
	previous := s.userID
	s.userID = ev.UserID
	s.mu.Unlock()

	if previous != 0 && previous != ev.UserID {
		r.registry.Release(previous, s.channel)
	}
	r.registry.Register(ev.UserID, s.channel)
	r.metrics.SetConnections(r.registry.Len())
	log.Info("user connected", "userId", ev.UserID)
}

// Message persists a chat message and pushes it to the other participant.
func (s *Session) Message(ctx context.Context, ev MessageEvent) {
	r := s.relay
	log := r.log.With("channel", s.channel.ID(), "matchId", ev.MatchID)

	sender := s.UserID()
	if sender == 0 {
		log.Warn("message before auth")
		r.metrics.RecordDroppedFrame("unauthenticated")
		return
	}
	if ev.SenderID != nil && *ev.SenderID != sender {
		log.Warn("sender mismatch", "userId", sender, "senderId", *ev.SenderID)
		r.metrics.RecordDroppedFrame("sender_mismatch")
		return
	}

	match, err := r.matches.Lookup(ctx, ev.MatchID)
	if err != nil {
		log.Error("match lookup failed", "error", err)
		return
	}
	if match == nil || !match.HasParticipant(sender) {
		log.Warn("message for foreign match", "userId", sender)
		r.metrics.RecordDroppedFrame("not_participant")
		return
	}

	message, err := r.messages.Record(ctx, match, sender, ev.Content)
	if err != nil {
		if model.IsKind(err, model.KindValidation) {
			s.drop(log, "invalid_content")
			return
		}
		log.Error("message not persisted", "userId", sender, "error", err)
		return
	}
	r.metrics.RecordRelayedMessage()

	recipient := match.OtherParticipant(sender)
	r.Notify(recipient, EventNewMessage, MessageFrame{Type: EventNewMessage, Message: message})

	if err := s.channel.Send(EventMessageSent, MessageFrame{Type: EventMessageSent, Message: message}); err != nil {
		log.Warn("confirmation failed", "userId", sender, "error", err)
	}
}

// VideoSignal forwards an opaque signaling payload. Nothing is stored or
// retried: an absent target drops the signal.
func (s *Session) VideoSignal(ev VideoSignalEvent) {
	r := s.relay

	from := s.UserID()
	if from == 0 {
		r.log.Warn("video signal before auth", "channel", s.channel.ID())
		r.metrics.RecordDroppedFrame("unauthenticated")
		return
	}

	r.Notify(ev.TargetUserID, EventVideoSignal, SignalFrame{
		Type:       EventVideoSignal,
		FromUserID: from,
		Signal:     ev.Signal,
	})
}

// Close releases the registry entry of the bound user.
func (s *Session) Close() {
	s.mu.Lock()
	userID := s.userID
	s.userID = 0
	s.mu.Unlock()

	if userID == 0 {
		return
	}
	if s.relay.registry.Release(userID, s.channel) {
		s.relay.log.Info("user disconnected", "userId", userID)
	}
	s.relay.metrics.SetConnections(s.relay.registry.Len())
}
