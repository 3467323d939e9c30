package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"matchai-service/database"
	"matchai-service/llm"
	"matchai-service/model"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var stores atomic.Int64

func newStore(t *testing.T) *database.GormStore {
	t.Helper()
	dsn := fmt.Sprintf("file:svc_%d?mode=memory&cache=shared", stores.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return database.NewStore(db)
}

func seedUser(t *testing.T, s database.UserStore, username string, interests ...string) *model.User {
	t.Helper()
	u := &model.User{
		Username:    username,
		Password:    "hash",
		ProfileName: username,
		Age:         30,
		Gender:      "male",
		Location:    "Porto",
		LookingFor:  "relationship",
		Interests:   interests,
		Role:        model.RoleUser,
	}
	require.NoError(t, s.CreateUser(context.Background(), u))
	return u
}

type fakeAdvisor struct {
	err   error
	score int
	calls int
}

func (f *fakeAdvisor) GenerateProfile(context.Context, llm.ProfileInput) (*llm.ProfileSuggestion, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &llm.ProfileSuggestion{Bio: "Loves the sea.", Interests: []string{"sailing"}}, nil
}

func (f *fakeAdvisor) GenerateConversationStarters(_ context.Context, _, _ []string, name string) (*llm.ConversationStarters, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &llm.ConversationStarters{Starters: []string{"Hi " + name, "Seen any good films?"}}, nil
}

func (f *fakeAdvisor) GenerateVideoDateTips(context.Context, *model.User, *model.User) (*llm.VideoDateTips, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &llm.VideoDateTips{Tips: []string{"Smile"}}, nil
}

func (f *fakeAdvisor) SuggestOptimalTimes(context.Context) (*llm.OptimalTimes, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &llm.OptimalTimes{Times: []llm.OptimalTime{{Day: "Monday", Time: "8:00 PM", Confidence: 0.6}}}, nil
}

func (f *fakeAdvisor) ScoreCompatibility(context.Context, *model.User, *model.User) (*llm.Compatibility, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &llm.Compatibility{Score: f.score, Reasons: []string{"shared interests", "same city"}}, nil
}

var errUpstream = errors.New("upstream down")

type recordingPublisher struct {
	mu       sync.Mutex
	actions  []string
	payloads []any
}

func (p *recordingPublisher) Emit(_ context.Context, action string, payload any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.actions = append(p.actions, action)
	p.payloads = append(p.payloads, payload)
	return nil
}

// last returns the payload of the most recent event with action.
func (p *recordingPublisher) last(action string) any {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i := len(p.actions) - 1; i >= 0; i-- {
		if p.actions[i] == action {
			return p.payloads[i]
		}
	}
	return nil
}

func (p *recordingPublisher) count(action string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, a := range p.actions {
		if a == action {
			n++
		}
	}
	return n
}

type memTokens struct {
	mu     sync.Mutex
	tokens map[string]string
}

func newMemTokens() *memTokens {
	return &memTokens{tokens: map[string]string{}}
}

func (m *memTokens) SaveRefresh(_ context.Context, userID, token string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[userID] = token
	return nil
}

func (m *memTokens) Refresh(_ context.Context, userID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tokens[userID], nil
}

func (m *memTokens) RevokeRefresh(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tokens, userID)
	return nil
}

var _ database.TokenStore = (*memTokens)(nil)
