package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"matchai-service/database"
	"matchai-service/event"
	"matchai-service/model"
)

const MaxMessageLength = 2000

type MessageService struct {
	store   database.MessageStore
	matches *MatchService
	events  event.Publisher
}

func NewMessageService(store database.MessageStore, matches *MatchService, events event.Publisher) *MessageService {
	return &MessageService{store: store, matches: matches, events: events}
}

// List returns the messages of a match in send order.
func (s *MessageService) List(ctx context.Context, callerID, matchID uint) ([]model.Message, error) {
	if _, err := s.matches.Get(ctx, callerID, matchID); err != nil {
		return nil, err
	}
	messages, err := s.store.ListMessagesByMatch(ctx, matchID)
	if err != nil {
		return nil, internal(err)
	}
	if messages == nil {
		messages = []model.Message{}
	}
	return messages, nil
}

func (s *MessageService) Post(ctx context.Context, callerID, matchID uint, content string) (*model.Message, error) {
	match, err := s.matches.Get(ctx, callerID, matchID)
	if err != nil {
		return nil, err
	}
	return s.Record(ctx, match, callerID, content)
}

// Record persists one message from senderID. The content is stored as sent,
// only surrounding whitespace is trimmed.
func (s *MessageService) Record(ctx context.Context, match *model.Match, senderID uint, content string) (*model.Message, error) {
	if !match.HasParticipant(senderID) {
		return nil, model.NewUnauthorizedError("Not authorized to send messages in this match")
	}

	clean := strings.TrimSpace(content)
	if clean == "" {
		return nil, model.NewValidationError("Invalid message data", map[string]string{"content": "is required"})
	}
	if utf8.RuneCountInString(clean) > MaxMessageLength {
		return nil, model.NewValidationError("Invalid message data", map[string]string{"content": "is too long"})
	}

	message := &model.Message{
		MatchID:   match.ID,
		SenderID:  senderID,
		Content:   clean,
		Timestamp: now(),
	}
	if err := s.store.CreateMessage(ctx, message); err != nil {
		return nil, internal(err)
	}

	publish(ctx, s.events, event.MessageCreated, message)
	return message, nil
}
