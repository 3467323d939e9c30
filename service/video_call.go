package service

import (
	"context"
	"time"

	"matchai-service/database"
	"matchai-service/event"
	"matchai-service/model"
)

type VideoCallService struct {
	store   database.VideoCallStore
	matches *MatchService
	events  event.Publisher
}

func NewVideoCallService(store database.VideoCallStore, matches *MatchService, events event.Publisher) *VideoCallService {
	return &VideoCallService{store: store, matches: matches, events: events}
}

func (s *VideoCallService) List(ctx context.Context, callerID, matchID uint) ([]model.VideoCall, error) {
	if _, err := s.matches.Get(ctx, callerID, matchID); err != nil {
		return nil, err
	}
	calls, err := s.store.ListVideoCallsByMatch(ctx, matchID)
	if err != nil {
		return nil, internal(err)
	}
	if calls == nil {
		calls = []model.VideoCall{}
	}
	return calls, nil
}

// Schedule always creates the call in the scheduled state.
func (s *VideoCallService) Schedule(ctx context.Context, callerID, matchID uint, at *time.Time) (*model.VideoCall, error) {
	if _, err := s.matches.Get(ctx, callerID, matchID); err != nil {
		return nil, err
	}

	call := &model.VideoCall{
		MatchID:       matchID,
		ScheduledTime: at,
		Status:        model.VideoCallScheduled,
	}
	if err := s.store.CreateVideoCall(ctx, call); err != nil {
		return nil, internal(err)
	}

	publish(ctx, s.events, event.VideoCallCreated, call)
	return call, nil
}

// Update changes the status of a call. duration is only kept when the call
// completes.
func (s *VideoCallService) Update(ctx context.Context, callerID, callID uint, status model.VideoCallStatus, duration *int) (*model.VideoCall, error) {
	call, err := s.store.GetVideoCall(ctx, callID)
	if err != nil {
		return nil, internal(err)
	}
	if call == nil {
		return nil, model.NewNotFoundError("Video call")
	}
	if _, err := s.matches.Get(ctx, callerID, call.MatchID); err != nil {
		if model.IsKind(err, model.KindUnauthorized) {
			return nil, model.NewUnauthorizedError("Not authorized to update this video call")
		}
		return nil, err
	}
	if !status.Valid() {
		return nil, model.NewValidationError("Invalid status", map[string]string{
			"status": "must be one of scheduled, completed, cancelled",
		})
	}
	if status != model.VideoCallCompleted {
		duration = nil
	} else if duration != nil && *duration < 0 {
		return nil, model.NewValidationError("Invalid duration", map[string]string{
			"duration": "must not be negative",
		})
	}

	updated, err := s.store.UpdateVideoCall(ctx, callID, status, duration)
	if err != nil {
		return nil, internal(err)
	}

	publish(ctx, s.events, event.VideoCallUpdated, updated)
	return updated, nil
}
