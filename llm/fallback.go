package llm

import (
	"context"
	"log/slog"
	"time"

	"matchai-service/metrics"
	"matchai-service/model"
)

const (
	CapabilityProfile      = "profile"
	CapabilityStarters     = "conversation_starters"
	CapabilityVideoTips    = "video_date_tips"
	CapabilityOptimalTimes = "optimal_times"
	CapabilityCompat       = "compatibility"
)

func DefaultProfileSuggestion() *ProfileSuggestion {
	return &ProfileSuggestion{
		Bio:       "Enjoys meeting new people and having meaningful conversations.",
		Interests: []string{"Dating", "Conversation", "Meeting new people"},
	}
}

func DefaultConversationStarters() *ConversationStarters {
	return &ConversationStarters{Starters: []string{
		"Hi there! What's been the highlight of your day so far?",
		"I'd love to know more about your interests. What are you passionate about?",
		"If you could travel anywhere right now, where would you go?",
	}}
}

func DefaultVideoDateTips() *VideoDateTips {
	return &VideoDateTips{Tips: []string{
		"Find a quiet space with good lighting for your video call",
		"Prepare a few topics based on your shared interests",
		"Be yourself and enjoy getting to know each other",
	}}
}

func DefaultOptimalTimes() *OptimalTimes {
	return &OptimalTimes{Times: []OptimalTime{
		{Day: "Saturday", Time: "6:00 PM", Confidence: 0.9},
		{Day: "Sunday", Time: "3:00 PM", Confidence: 0.8},
		{Day: "Friday", Time: "7:30 PM", Confidence: 0.7},
	}}
}

func DefaultCompatibility() *Compatibility {
	return &Compatibility{
		Score:   50,
		Reasons: []string{"Unable to calculate detailed compatibility at this time"},
	}
}

// Fallback bounds every call of the wrapped advisor by a timeout and answers
// with a fixed payload when it fails. Its methods never return an error.
type Fallback struct {
	next    Advisor
	timeout time.Duration
	metrics metrics.Recorder
	log     *slog.Logger
}

func WithFallback(next Advisor, timeout time.Duration, rec metrics.Recorder) *Fallback {
	if rec == nil {
		rec = metrics.Nop{}
	}
	return &Fallback{
		next:    next,
		timeout: timeout,
		metrics: rec,
		log:     slog.Default().With("component", "llm"),
	}
}

// bounded runs fn until it returns or the timeout expires, whichever comes
// first. A provider that ignores ctx keeps running in the background but its
// answer is discarded.
func bounded[T any](ctx context.Context, timeout time.Duration, fn func(context.Context) (*T, error)) (*T, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	type result struct {
		value *T
		err   error
	}
	done := make(chan result, 1)
	go func() {
		v, err := fn(ctx)
		done <- result{v, err}
	}()

	select {
	case r := <-done:
		return r.value, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func guard[T any](f *Fallback, ctx context.Context, capability string, fallback func() *T, fn func(context.Context) (*T, error)) (*T, error) {
	start := time.Now()
	out, err := bounded(ctx, f.timeout, fn)
	if err != nil || out == nil {
		f.log.Warn("llm call failed, using fallback",
			"capability", capability,
			"error", model.NewUpstreamError(err),
			"elapsed", time.Since(start),
		)
		f.metrics.RecordLLMFallback(capability)
		return fallback(), nil
	}
	return out, nil
}

func (f *Fallback) GenerateProfile(ctx context.Context, in ProfileInput) (*ProfileSuggestion, error) {
	return guard(f, ctx, CapabilityProfile, DefaultProfileSuggestion, func(ctx context.Context) (*ProfileSuggestion, error) {
		return f.next.GenerateProfile(ctx, in)
	})
}

func (f *Fallback) GenerateConversationStarters(ctx context.Context, mine, theirs []string, theirName string) (*ConversationStarters, error) {
	return guard(f, ctx, CapabilityStarters, DefaultConversationStarters, func(ctx context.Context) (*ConversationStarters, error) {
		return f.next.GenerateConversationStarters(ctx, mine, theirs, theirName)
	})
}

func (f *Fallback) GenerateVideoDateTips(ctx context.Context, a, b *model.User) (*VideoDateTips, error) {
	return guard(f, ctx, CapabilityVideoTips, DefaultVideoDateTips, func(ctx context.Context) (*VideoDateTips, error) {
		return f.next.GenerateVideoDateTips(ctx, a, b)
	})
}

func (f *Fallback) SuggestOptimalTimes(ctx context.Context) (*OptimalTimes, error) {
	return guard(f, ctx, CapabilityOptimalTimes, DefaultOptimalTimes, func(ctx context.Context) (*OptimalTimes, error) {
		return f.next.SuggestOptimalTimes(ctx)
	})
}

func (f *Fallback) ScoreCompatibility(ctx context.Context, a, b *model.User) (*Compatibility, error) {
	return guard(f, ctx, CapabilityCompat, DefaultCompatibility, func(ctx context.Context) (*Compatibility, error) {
		return f.next.ScoreCompatibility(ctx, a, b)
	})
}
