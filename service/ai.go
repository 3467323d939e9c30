package service

import (
	"context"
	"log/slog"

	"matchai-service/database"
	"matchai-service/llm"
	"matchai-service/model"
)

type AIService struct {
	store   database.Store
	matches *MatchService
	advisor llm.Advisor
}

func NewAIService(store database.Store, matches *MatchService, advisor llm.Advisor) *AIService {
	return &AIService{store: store, matches: matches, advisor: advisor}
}

func (s *AIService) GenerateProfile(ctx context.Context, in llm.ProfileInput) (*llm.ProfileSuggestion, error) {
	out, err := s.advisor.GenerateProfile(ctx, in)
	if err != nil || out == nil {
		return llm.DefaultProfileSuggestion(), nil
	}
	return out, nil
}

// ConversationStarters suggests openers for callerID towards the other
// participant of the match and keeps them as suggestions of the caller.
func (s *AIService) ConversationStarters(ctx context.Context, callerID, matchID uint) (*llm.ConversationStarters, error) {
	me, other, err := s.pair(ctx, callerID, matchID)
	if err != nil {
		return nil, err
	}

	out, err := s.advisor.GenerateConversationStarters(ctx, me.Interests, other.Interests, other.ProfileName)
	if err != nil || out == nil {
		out = llm.DefaultConversationStarters()
	}
	s.record(ctx, callerID, model.SuggestionConversationStarter, out.Starters)
	return out, nil
}

func (s *AIService) VideoDateTips(ctx context.Context, callerID, matchID uint) (*llm.VideoDateTips, error) {
	me, other, err := s.pair(ctx, callerID, matchID)
	if err != nil {
		return nil, err
	}

	out, err := s.advisor.GenerateVideoDateTips(ctx, me, other)
	if err != nil || out == nil {
		out = llm.DefaultVideoDateTips()
	}
	s.record(ctx, callerID, model.SuggestionVideoDateTip, out.Tips)
	return out, nil
}

func (s *AIService) OptimalTimes(ctx context.Context) (*llm.OptimalTimes, error) {
	out, err := s.advisor.SuggestOptimalTimes(ctx)
	if err != nil || out == nil {
		return llm.DefaultOptimalTimes(), nil
	}
	return out, nil
}

// Suggestions lists the caller's suggestions, optionally of one type.
func (s *AIService) Suggestions(ctx context.Context, userID uint, kind model.SuggestionType) ([]model.AiSuggestion, error) {
	if kind != "" && !kind.Valid() {
		return nil, model.NewValidationError("Invalid suggestion type", map[string]string{
			"type": "must be one of conversation_starter, video_date_tip, profile_tip",
		})
	}
	out, err := s.store.ListAiSuggestionsByUser(ctx, userID, kind)
	if err != nil {
		return nil, internal(err)
	}
	if out == nil {
		out = []model.AiSuggestion{}
	}
	return out, nil
}

func (s *AIService) MarkSuggestionUsed(ctx context.Context, callerID, id uint) (*model.AiSuggestion, error) {
	suggestion, err := s.store.GetAiSuggestion(ctx, id)
	if err != nil {
		return nil, internal(err)
	}
	if suggestion == nil {
		return nil, model.NewNotFoundError("Suggestion")
	}
	if suggestion.UserID != callerID {
		return nil, model.NewUnauthorizedError("Not authorized to update this suggestion")
	}
	if suggestion.IsUsed {
		return suggestion, nil
	}

	updated, err := s.store.MarkAiSuggestionUsed(ctx, id)
	if err != nil {
		return nil, internal(err)
	}
	return updated, nil
}

// pair resolves the caller and the other participant of a match.
func (s *AIService) pair(ctx context.Context, callerID, matchID uint) (*model.User, *model.User, error) {
	match, err := s.matches.Get(ctx, callerID, matchID)
	if err != nil {
		return nil, nil, err
	}

	me, err := s.store.GetUser(ctx, callerID)
	if err != nil {
		return nil, nil, internal(err)
	}
	other, err := s.store.GetUser(ctx, match.OtherParticipant(callerID))
	if err != nil {
		return nil, nil, internal(err)
	}
	if me == nil || other == nil {
		return nil, nil, model.NewNotFoundError("One or both users")
	}
	return me, other, nil
}

func (s *AIService) record(ctx context.Context, userID uint, kind model.SuggestionType, contents []string) {
	if len(contents) == 0 {
		return
	}
	suggestions := make([]model.AiSuggestion, 0, len(contents))
	for _, c := range contents {
		suggestions = append(suggestions, model.AiSuggestion{
			UserID:         userID,
			SuggestionType: kind,
			Content:        c,
		})
	}
	if err := s.store.CreateAiSuggestions(ctx, suggestions); err != nil {
		slog.Warn("suggestions not recorded", "userId", userID, "type", kind, "error", err)
	}
}
