package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"matchai-service/model"
	"matchai-service/utils"
)

type ProfileInput struct {
	Interests  []string `json:"interests"`
	Age        int      `json:"age"`
	Gender     string   `json:"gender"`
	Location   string   `json:"location"`
	Occupation string   `json:"occupation"`
	Education  string   `json:"education"`
	LookingFor string   `json:"lookingFor"`
}

type ProfileSuggestion struct {
	Bio       string   `json:"bio"`
	Interests []string `json:"interests"`
}

type ConversationStarters struct {
	Starters []string `json:"starters"`
}

type VideoDateTips struct {
	Tips []string `json:"tips"`
}

type OptimalTime struct {
	Day        string  `json:"day"`
	Time       string  `json:"time"`
	Confidence float64 `json:"confidence"`
}

type OptimalTimes struct {
	Times []OptimalTime `json:"times"`
}

type Compatibility struct {
	Score   int      `json:"score"`
	Reasons []string `json:"reasons"`
}

// Advisor is every LLM backed capability of the service.
type Advisor interface {
	GenerateProfile(ctx context.Context, in ProfileInput) (*ProfileSuggestion, error)
	GenerateConversationStarters(ctx context.Context, mine, theirs []string, theirName string) (*ConversationStarters, error)
	GenerateVideoDateTips(ctx context.Context, a, b *model.User) (*VideoDateTips, error)
	SuggestOptimalTimes(ctx context.Context) (*OptimalTimes, error)
	ScoreCompatibility(ctx context.Context, a, b *model.User) (*Compatibility, error)
}

// Completer sends one prompt to a model and returns its raw text answer.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

var ErrEmptyAnswer = errors.New("llm: answer is missing required fields")

type promptAdvisor struct {
	completer Completer
}

// NewAdvisor turns a Completer into an Advisor that builds the prompts and
// parses the JSON answers.
func NewAdvisor(c Completer) Advisor {
	return &promptAdvisor{completer: c}
}

func ask[T any](ctx context.Context, c Completer, prompt string) (*T, error) {
	text, err := c.Complete(ctx, prompt)
	if err != nil {
		return nil, err
	}
	raw, err := extractJSON(text)
	if err != nil {
		return nil, err
	}
	out := new(T)
	if err := json.Unmarshal(raw, out); err != nil {
		return nil, fmt.Errorf("llm: decode answer: %w", err)
	}
	return out, nil
}

func (a *promptAdvisor) GenerateProfile(ctx context.Context, in ProfileInput) (*ProfileSuggestion, error) {
	out, err := ask[ProfileSuggestion](ctx, a.completer, profilePrompt(in))
	if err != nil {
		return nil, err
	}
	out.Bio = utils.StripMarkup(out.Bio)
	if out.Bio == "" {
		return nil, ErrEmptyAnswer
	}
	out.Interests = utils.StripMarkupAll(out.Interests)
	return out, nil
}

func (a *promptAdvisor) GenerateConversationStarters(ctx context.Context, mine, theirs []string, theirName string) (*ConversationStarters, error) {
	out, err := ask[ConversationStarters](ctx, a.completer, startersPrompt(mine, theirs, theirName))
	if err != nil {
		return nil, err
	}
	out.Starters = utils.StripMarkupAll(out.Starters)
	if len(out.Starters) == 0 {
		return nil, ErrEmptyAnswer
	}
	return out, nil
}

func (a *promptAdvisor) GenerateVideoDateTips(ctx context.Context, u1, u2 *model.User) (*VideoDateTips, error) {
	out, err := ask[VideoDateTips](ctx, a.completer, videoDateTipsPrompt(u1, u2))
	if err != nil {
		return nil, err
	}
	out.Tips = utils.StripMarkupAll(out.Tips)
	if len(out.Tips) == 0 {
		return nil, ErrEmptyAnswer
	}
	return out, nil
}

func (a *promptAdvisor) SuggestOptimalTimes(ctx context.Context) (*OptimalTimes, error) {
	out, err := ask[OptimalTimes](ctx, a.completer, optimalTimesPrompt)
	if err != nil {
		return nil, err
	}
	if len(out.Times) == 0 {
		return nil, ErrEmptyAnswer
	}
	return out, nil
}

func (a *promptAdvisor) ScoreCompatibility(ctx context.Context, u1, u2 *model.User) (*Compatibility, error) {
	answer, err := ask[struct {
		Score   *float64 `json:"score"`
		Reasons []string `json:"reasons"`
	}](ctx, a.completer, compatibilityPrompt(u1, u2))
	if err != nil {
		return nil, err
	}
	if answer.Score == nil {
		return nil, ErrEmptyAnswer
	}
	return &Compatibility{Score: ClampScore(*answer.Score), Reasons: utils.StripMarkupAll(answer.Reasons)}, nil
}

// ClampScore rounds a model score into 0..100.
func ClampScore(score float64) int {
	if math.IsNaN(score) {
		return 0
	}
	return int(math.Max(0, math.Min(100, math.Round(score))))
}
