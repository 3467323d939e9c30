package model

import "time"

type MatchStatus string

const (
	MatchPending  MatchStatus = "pending"
	MatchMatched  MatchStatus = "matched"
	MatchRejected MatchStatus = "rejected"
)

func (s MatchStatus) Valid() bool {
	switch s {
	case MatchPending, MatchMatched, MatchRejected:
		return true
	}
	return false
}

// Match links an initiator (UserID1) to a target (UserID2).
type Match struct {
	ID                 uint        `gorm:"primaryKey" json:"id"`
	UserID1            uint        `gorm:"column:user_id1;not null;index" json:"userId1"`
	UserID2            uint        `gorm:"column:user_id2;not null;index" json:"userId2"`
	Status             MatchStatus `gorm:"not null" json:"status"`
	Timestamp          time.Time   `gorm:"not null" json:"timestamp"`
	CompatibilityScore *int        `json:"compatibilityScore"`

	// CompatibilityReasons is returned once by create and never stored.
	CompatibilityReasons []string `gorm:"-" json:"compatibilityReasons,omitempty"`
}

func (m *Match) HasParticipant(userID uint) bool {
	return userID != 0 && (m.UserID1 == userID || m.UserID2 == userID)
}

// OtherParticipant returns the counterpart of userID, or 0 if userID is not a participant.
func (m *Match) OtherParticipant(userID uint) uint {
	switch userID {
	case m.UserID1:
		return m.UserID2
	case m.UserID2:
		return m.UserID1
	}
	return 0
}

// MatchWithUser is a match as seen by one participant.
type MatchWithUser struct {
	Match
	OtherUser *PublicUser `json:"otherUser"`
}
