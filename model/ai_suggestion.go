package model

type SuggestionType string

const (
	SuggestionConversationStarter SuggestionType = "conversation_starter"
	SuggestionVideoDateTip        SuggestionType = "video_date_tip"
	SuggestionProfileTip          SuggestionType = "profile_tip"
)

func (t SuggestionType) Valid() bool {
	switch t {
	case SuggestionConversationStarter, SuggestionVideoDateTip, SuggestionProfileTip:
		return true
	}
	return false
}

type AiSuggestion struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	UserID         uint           `gorm:"not null;index" json:"userId"`
	SuggestionType SuggestionType `gorm:"not null" json:"suggestionType"`
	Content        string         `gorm:"type:text;not null" json:"content"`
	IsUsed         bool           `gorm:"not null;default:false" json:"isUsed"`
}
