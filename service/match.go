package service

import (
	"context"
	"log/slog"

	"matchai-service/database"
	"matchai-service/event"
	"matchai-service/llm"
	"matchai-service/model"
)

type TransitionPolicy string

const (
	// PolicyPermissive lets either participant set any status.
	PolicyPermissive TransitionPolicy = "permissive"
	// PolicyReciprocal only lets the target of a match accept it.
	PolicyReciprocal TransitionPolicy = "reciprocal"
)

type MatchOptions struct {
	Policy      TransitionPolicy
	UniquePairs bool
}

type MatchService struct {
	store   database.Store
	advisor llm.Advisor
	events  event.Publisher
	opts    MatchOptions
}

func NewMatchService(store database.Store, advisor llm.Advisor, events event.Publisher, opts MatchOptions) *MatchService {
	if opts.Policy == "" {
		opts.Policy = PolicyPermissive
	}
	return &MatchService{store: store, advisor: advisor, events: events, opts: opts}
}

// Create records a match between userID1 (initiator) and userID2 and scores
// the pair. Scoring never makes Create fail.
func (s *MatchService) Create(ctx context.Context, callerID, userID1, userID2 uint, status model.MatchStatus) (*model.Match, error) {
	fields := map[string]string{}
	if userID1 == 0 {
		fields["userId1"] = "is required"
	}
	if userID2 == 0 {
		fields["userId2"] = "is required"
	}
	if !status.Valid() {
		fields["status"] = "must be one of pending, matched, rejected"
	}
	if len(fields) > 0 {
		return nil, model.NewValidationError("Invalid match data", fields)
	}
	if userID1 == userID2 {
		return nil, model.NewValidationError("Invalid match data", map[string]string{
			"userId2": "must differ from userId1",
		})
	}
	if callerID != userID1 && callerID != userID2 {
		return nil, model.NewValidationError("Invalid match data", map[string]string{
			"userId1": "the caller must be one of the matched users",
		})
	}

	user1, err := s.store.GetUser(ctx, userID1)
	if err != nil {
		return nil, internal(err)
	}
	user2, err := s.store.GetUser(ctx, userID2)
	if err != nil {
		return nil, internal(err)
	}
	if user1 == nil || user2 == nil {
		return nil, model.NewNotFoundError("User")
	}

	if s.opts.UniquePairs {
		existing, err := s.store.FindMatchBetween(ctx, userID1, userID2)
		if err != nil {
			return nil, internal(err)
		}
		if existing != nil {
			return nil, model.NewValidationError("Match already exists", nil)
		}
	}

	compat, err := s.advisor.ScoreCompatibility(ctx, user1, user2)
	if err != nil || compat == nil {
		compat = llm.DefaultCompatibility()
	}
	score := llm.ClampScore(float64(compat.Score))

	match := &model.Match{
		UserID1:            userID1,
		UserID2:            userID2,
		Status:             status,
		Timestamp:          now(),
		CompatibilityScore: &score,
	}
	if err := s.store.CreateMatch(ctx, match); err != nil {
		return nil, internal(err)
	}
	match.CompatibilityReasons = compat.Reasons

	slog.Info("match created", "matchId", match.ID, "userId1", userID1, "userId2", userID2, "score", score)
	// reasons go back to the creator only, the event reaches the other side
	created := *match
	created.CompatibilityReasons = nil
	publish(ctx, s.events, event.MatchCreated, &created)
	return match, nil
}

// Transition moves a match to status. Setting the current status again is a
// no-op and emits nothing.
func (s *MatchService) Transition(ctx context.Context, callerID, matchID uint, status model.MatchStatus) (*model.Match, error) {
	match, err := s.store.GetMatch(ctx, matchID)
	if err != nil {
		return nil, internal(err)
	}
	if match == nil {
		return nil, model.NewNotFoundError("Match")
	}
	if !match.HasParticipant(callerID) {
		return nil, model.NewUnauthorizedError("Not authorized to update this match")
	}
	if !status.Valid() {
		return nil, model.NewValidationError("Invalid status", map[string]string{
			"status": "must be one of pending, matched, rejected",
		})
	}
	if s.opts.Policy == PolicyReciprocal && status == model.MatchMatched && callerID != match.UserID2 {
		return nil, model.NewUnauthorizedError("Only the invited user can accept this match")
	}

	if match.Status == status {
		return match, nil
	}

	updated, err := s.store.UpdateMatchStatus(ctx, matchID, status)
	if err != nil {
		return nil, internal(err)
	}
	if updated == nil {
		return nil, model.NewNotFoundError("Match")
	}

	slog.Info("match updated", "matchId", matchID, "from", match.Status, "to", status, "by", callerID)
	publish(ctx, s.events, event.MatchUpdated, updated)
	return updated, nil
}

// ListForUser returns every match of userID with the other participant's
// public profile.
func (s *MatchService) ListForUser(ctx context.Context, userID uint) ([]model.MatchWithUser, error) {
	matches, err := s.store.ListMatchesByUser(ctx, userID)
	if err != nil {
		return nil, internal(err)
	}

	profiles := make(map[uint]*model.PublicUser)
	out := make([]model.MatchWithUser, 0, len(matches))
	for _, m := range matches {
		otherID := m.OtherParticipant(userID)
		other, seen := profiles[otherID]
		if !seen {
			u, err := s.store.GetUser(ctx, otherID)
			if err != nil {
				return nil, internal(err)
			}
			if u != nil {
				p := u.Public()
				other = &p
			}
			profiles[otherID] = other
		}
		out = append(out, model.MatchWithUser{Match: m, OtherUser: other})
	}
	return out, nil
}

// ListPotential returns the users userID has no match record with.
func (s *MatchService) ListPotential(ctx context.Context, userID uint) ([]model.PublicUser, error) {
	caller, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, internal(err)
	}
	if caller == nil {
		return []model.PublicUser{}, nil
	}

	users, err := s.store.ListPotentialMatches(ctx, userID)
	if err != nil {
		return nil, internal(err)
	}
	return model.PublicUsers(users), nil
}

// Get returns the match if callerID takes part in it.
func (s *MatchService) Get(ctx context.Context, callerID, matchID uint) (*model.Match, error) {
	match, err := s.Lookup(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if match == nil {
		return nil, model.NewNotFoundError("Match")
	}
	if !match.HasParticipant(callerID) {
		return nil, model.NewUnauthorizedError("Not authorized to access this match")
	}
	return match, nil
}

// Lookup is the ungated lookup used by the realtime relay; nil when absent.
func (s *MatchService) Lookup(ctx context.Context, matchID uint) (*model.Match, error) {
	match, err := s.store.GetMatch(ctx, matchID)
	if err != nil {
		return nil, internal(err)
	}
	return match, nil
}
