package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"matchai-service/model"
)

type sentFrame struct {
	Event   string
	Payload any
}

type fakeChannel struct {
	id string

	mu     sync.Mutex
	sent   []sentFrame
	closed bool
}

func newFakeChannel(id string) *fakeChannel {
	return &fakeChannel{id: id}
}

func (c *fakeChannel) ID() string { return c.id }

func (c *fakeChannel) Send(event string, payload any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return errors.New("channel closed")
	}
	c.sent = append(c.sent, sentFrame{Event: event, Payload: payload})
	return nil
}

func (c *fakeChannel) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	return nil
}

func (c *fakeChannel) Frames() []sentFrame {
	c.mu.Lock()
	defer c.mu.Unlock()

	return append([]sentFrame(nil), c.sent...)
}

func (c *fakeChannel) IsClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.closed
}

type fakeMatches struct {
	matches map[uint]*model.Match
	err     error
}

func (f *fakeMatches) Lookup(_ context.Context, id uint) (*model.Match, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.matches[id], nil
}

type fakeMessages struct {
	mu     sync.Mutex
	stored []model.Message
}

func (f *fakeMessages) Record(_ context.Context, match *model.Match, senderID uint, content string) (*model.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, model.NewValidationError("content is required", nil)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	msg := model.Message{
		ID:        uint(len(f.stored) + 1),
		MatchID:   match.ID,
		SenderID:  senderID,
		Content:   content,
		Timestamp: time.Now().UTC(),
	}
	f.stored = append(f.stored, msg)
	return &msg, nil
}

func (f *fakeMessages) Stored() []model.Message {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]model.Message(nil), f.stored...)
}

func frame(v any) []byte {
	raw, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return raw
}
