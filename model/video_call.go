package model

import "time"

type VideoCallStatus string

const (
	VideoCallScheduled VideoCallStatus = "scheduled"
	VideoCallCompleted VideoCallStatus = "completed"
	VideoCallCancelled VideoCallStatus = "cancelled"
)

func (s VideoCallStatus) Valid() bool {
	switch s {
	case VideoCallScheduled, VideoCallCompleted, VideoCallCancelled:
		return true
	}
	return false
}

type VideoCall struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	MatchID       uint            `gorm:"not null;index" json:"matchId"`
	ScheduledTime *time.Time      `json:"scheduledTime"`
	Status        VideoCallStatus `gorm:"not null" json:"status"`
	// Duration in seconds, set when the call completes.
	Duration *int `json:"duration"`
}
