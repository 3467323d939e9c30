package listener

import (
	"encoding/json"
	"log/slog"

	"matchai-service/event"
	"matchai-service/model"
	"matchai-service/realtime"
)

// Notifier pushes a server event to a user's live channel.
type Notifier interface {
	Notify(userID uint, event string, payload any) bool
}

// Notifications turns domain events into realtime pushes until in is closed.
func Notifications(in <-chan event.EventChannelData, n Notifier) {
	for ev := range in {
		Handle(ev, n)
	}
}

func Handle(ev event.EventChannelData, n Notifier) {
	switch ev.Action {
	case event.MatchCreated:
		match, ok := decodeMatch(ev)
		if !ok {
			return
		}
		n.Notify(match.UserID2, realtime.EventMatchCreated, realtime.MatchFrame{
			Type:  realtime.EventMatchCreated,
			Match: match,
		})
	case event.MatchUpdated:
		match, ok := decodeMatch(ev)
		if !ok {
			return
		}
		frame := realtime.MatchFrame{Type: realtime.EventMatchUpdated, Match: match}
		n.Notify(match.UserID1, realtime.EventMatchUpdated, frame)
		n.Notify(match.UserID2, realtime.EventMatchUpdated, frame)
	default:
		slog.Debug("event ignored", "action", ev.Action)
	}
}

func decodeMatch(ev event.EventChannelData) (*model.Match, bool) {
	match := new(model.Match)
	if err := json.Unmarshal(ev.Data, match); err != nil || match.ID == 0 {
		slog.Warn("malformed match event", "action", ev.Action, "error", err)
		return nil, false
	}
	return match, true
}
