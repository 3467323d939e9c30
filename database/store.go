package database

import (
	"context"
	"errors"
	"time"

	"matchai-service/model"

	"gorm.io/gorm"
)

// Lookups return (nil, nil) when the record does not exist.

type UserStore interface {
	GetUser(ctx context.Context, id uint) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	CreateUser(ctx context.Context, user *model.User) error
	UpdateUser(ctx context.Context, id uint, fields map[string]any) (*model.User, error)
}

type MatchStore interface {
	GetMatch(ctx context.Context, id uint) (*model.Match, error)
	FindMatchBetween(ctx context.Context, a, b uint) (*model.Match, error)
	ListMatchesByUser(ctx context.Context, userID uint) ([]model.Match, error)
	ListPotentialMatches(ctx context.Context, userID uint) ([]model.User, error)
	CreateMatch(ctx context.Context, match *model.Match) error
	UpdateMatchStatus(ctx context.Context, id uint, status model.MatchStatus) (*model.Match, error)
}

type MessageStore interface {
	ListMessagesByMatch(ctx context.Context, matchID uint) ([]model.Message, error)
	CreateMessage(ctx context.Context, message *model.Message) error
}

type VideoCallStore interface {
	GetVideoCall(ctx context.Context, id uint) (*model.VideoCall, error)
	ListVideoCallsByMatch(ctx context.Context, matchID uint) ([]model.VideoCall, error)
	CreateVideoCall(ctx context.Context, call *model.VideoCall) error
	UpdateVideoCall(ctx context.Context, id uint, status model.VideoCallStatus, duration *int) (*model.VideoCall, error)
}

type SuggestionStore interface {
	GetAiSuggestion(ctx context.Context, id uint) (*model.AiSuggestion, error)
	ListAiSuggestionsByUser(ctx context.Context, userID uint, kind model.SuggestionType) ([]model.AiSuggestion, error)
	CreateAiSuggestions(ctx context.Context, suggestions []model.AiSuggestion) error
	MarkAiSuggestionUsed(ctx context.Context, id uint) (*model.AiSuggestion, error)
}

type Store interface {
	UserStore
	MatchStore
	MessageStore
	VideoCallStore
	SuggestionStore
}

type GormStore struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func first[T any](tx *gorm.DB, conds ...any) (*T, error) {
	out := new(T)
	if err := tx.First(out, conds...).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return out, nil
}

func (s *GormStore) GetUser(ctx context.Context, id uint) (*model.User, error) {
	return first[model.User](s.db.WithContext(ctx), id)
}

func (s *GormStore) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	return first[model.User](s.db.WithContext(ctx).Where("username = ?", username))
}

func (s *GormStore) CreateUser(ctx context.Context, user *model.User) error {
	return s.db.WithContext(ctx).Create(user).Error
}

func (s *GormStore) UpdateUser(ctx context.Context, id uint, fields map[string]any) (*model.User, error) {
	if len(fields) > 0 {
		err := s.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Updates(fields).Error
		if err != nil {
			return nil, err
		}
	}
	return s.GetUser(ctx, id)
}

func (s *GormStore) GetMatch(ctx context.Context, id uint) (*model.Match, error) {
	return first[model.Match](s.db.WithContext(ctx), id)
}

func (s *GormStore) FindMatchBetween(ctx context.Context, a, b uint) (*model.Match, error) {
	return first[model.Match](s.db.WithContext(ctx).
		Where("(user_id1 = ? AND user_id2 = ?) OR (user_id1 = ? AND user_id2 = ?)", a, b, b, a).
		Order("id asc"))
}

func (s *GormStore) ListMatchesByUser(ctx context.Context, userID uint) ([]model.Match, error) {
	var matches []model.Match
	err := s.db.WithContext(ctx).
		Where("user_id1 = ? OR user_id2 = ?", userID, userID).
		Order("timestamp desc, id desc").
		Find(&matches).Error
	return matches, err
}

// ListPotentialMatches returns every user other than userID that shares no match record with it.
func (s *GormStore) ListPotentialMatches(ctx context.Context, userID uint) ([]model.User, error) {
	db := s.db.WithContext(ctx)
	initiated := db.Model(&model.Match{}).Select("user_id2").Where("user_id1 = ?", userID)
	received := db.Model(&model.Match{}).Select("user_id1").Where("user_id2 = ?", userID)

	var users []model.User
	err := db.
		Where("id <> ?", userID).
		Where("id NOT IN (?)", initiated).
		Where("id NOT IN (?)", received).
		Order("id asc").
		Find(&users).Error
	return users, err
}

func (s *GormStore) CreateMatch(ctx context.Context, match *model.Match) error {
	if match.Timestamp.IsZero() {
		match.Timestamp = time.Now().UTC()
	}
	return s.db.WithContext(ctx).Create(match).Error
}

func (s *GormStore) UpdateMatchStatus(ctx context.Context, id uint, status model.MatchStatus) (*model.Match, error) {
	res := s.db.WithContext(ctx).Model(&model.Match{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return nil, res.Error
	}
	return s.GetMatch(ctx, id)
}

func (s *GormStore) ListMessagesByMatch(ctx context.Context, matchID uint) ([]model.Message, error) {
	var messages []model.Message
	err := s.db.WithContext(ctx).
		Where("match_id = ?", matchID).
		Order("timestamp asc, id asc").
		Find(&messages).Error
	return messages, err
}

func (s *GormStore) CreateMessage(ctx context.Context, message *model.Message) error {
	if message.Timestamp.IsZero() {
		message.Timestamp = time.Now().UTC()
	}
	return s.db.WithContext(ctx).Create(message).Error
}

func (s *GormStore) GetVideoCall(ctx context.Context, id uint) (*model.VideoCall, error) {
	return first[model.VideoCall](s.db.WithContext(ctx), id)
}

func (s *GormStore) ListVideoCallsByMatch(ctx context.Context, matchID uint) ([]model.VideoCall, error) {
	var calls []model.VideoCall
	err := s.db.WithContext(ctx).Where("match_id = ?", matchID).Order("id asc").Find(&calls).Error
	return calls, err
}

func (s *GormStore) CreateVideoCall(ctx context.Context, call *model.VideoCall) error {
	return s.db.WithContext(ctx).Create(call).Error
}

func (s *GormStore) UpdateVideoCall(ctx context.Context, id uint, status model.VideoCallStatus, duration *int) (*model.VideoCall, error) {
	fields := map[string]any{"status": status}
	if duration != nil {
		fields["duration"] = *duration
	}
	if err := s.db.WithContext(ctx).Model(&model.VideoCall{}).Where("id = ?", id).Updates(fields).Error; err != nil {
		return nil, err
	}
	return s.GetVideoCall(ctx, id)
}

func (s *GormStore) GetAiSuggestion(ctx context.Context, id uint) (*model.AiSuggestion, error) {
	return first[model.AiSuggestion](s.db.WithContext(ctx), id)
}

// ListAiSuggestionsByUser filters by kind unless it is empty.
func (s *GormStore) ListAiSuggestionsByUser(ctx context.Context, userID uint, kind model.SuggestionType) ([]model.AiSuggestion, error) {
	tx := s.db.WithContext(ctx).Where("user_id = ?", userID)
	if kind != "" {
		tx = tx.Where("suggestion_type = ?", kind)
	}
	var suggestions []model.AiSuggestion
	err := tx.Order("id asc").Find(&suggestions).Error
	return suggestions, err
}

func (s *GormStore) CreateAiSuggestions(ctx context.Context, suggestions []model.AiSuggestion) error {
	if len(suggestions) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Create(&suggestions).Error
}

func (s *GormStore) MarkAiSuggestionUsed(ctx context.Context, id uint) (*model.AiSuggestion, error) {
	if err := s.db.WithContext(ctx).Model(&model.AiSuggestion{}).Where("id = ?", id).Update("is_used", true).Error; err != nil {
		return nil, err
	}
	return s.GetAiSuggestion(ctx, id)
}
