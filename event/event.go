package event

import (
	"context"
	"encoding/json"
	"fmt"
)

// Domain actions.
const (
	MatchCreated     = "match.created"
	MatchUpdated     = "match.updated"
	MessageCreated   = "message.created"
	VideoCallCreated = "video_call.created"
	VideoCallUpdated = "video_call.updated"
)

type EventChannelData struct {
	Action string
	Data   []byte
}

// Publisher emits domain events after state changes.
type Publisher interface {
	Emit(ctx context.Context, action string, payload any) error
}

func encode(action string, payload any) (EventChannelData, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return EventChannelData{}, fmt.Errorf("encode %s event: %w", action, err)
	}
	return EventChannelData{Action: action, Data: data}, nil
}

// Local dispatches events to an in-process listener channel.
type Local struct {
	out chan<- EventChannelData
}

func NewLocal(out chan<- EventChannelData) *Local {
	return &Local{out: out}
}

func (l *Local) Emit(ctx context.Context, action string, payload any) error {
	ev, err := encode(action, payload)
	if err != nil {
		return err
	}
	select {
	case l.out <- ev:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Nop drops every event.
type Nop struct{}

func (Nop) Emit(context.Context, string, any) error { return nil }
