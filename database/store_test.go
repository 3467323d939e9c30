package database

import (
	"context"
	"fmt"
	"testing"
	"time"

	"matchai-service/model"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestStore(t *testing.T) *GormStore {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	return NewStore(db)
}

func seedUser(t *testing.T, s *GormStore, username string) *model.User {
	t.Helper()
	u := &model.User{
		Username:    username,
		Password:    "hash",
		ProfileName: username,
		Age:         29,
		Gender:      "female",
		Location:    "Lisbon",
		LookingFor:  "relationship",
		Interests:   []string{"hiking", "jazz"},
		Role:        model.RoleUser,
	}
	require.NoError(t, s.CreateUser(context.Background(), u))
	return u
}

func TestUsers(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := seedUser(t, s, "ana")

	got, err := s.GetUserByUsername(ctx, "ana")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, []string{"hiking", "jazz"}, []string(got.Interests))

	missing, err := s.GetUser(ctx, 999)
	require.NoError(t, err)
	assert.Nil(t, missing)

	bio := "Coffee first."
	updated, err := s.UpdateUser(ctx, u.ID, map[string]any{"bio": bio, "age": 30})
	require.NoError(t, err)
	assert.Equal(t, 30, updated.Age)
	require.NotNil(t, updated.Bio)
	assert.Equal(t, bio, *updated.Bio)
}

func TestListPotentialMatches_ExcludesSelfAndLinkedUsers(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	a := seedUser(t, s, "a")
	b := seedUser(t, s, "b")
	c := seedUser(t, s, "c")
	d := seedUser(t, s, "d")

	require.NoError(t, s.CreateMatch(ctx, &model.Match{UserID1: a.ID, UserID2: b.ID, Status: model.MatchPending}))
	require.NoError(t, s.CreateMatch(ctx, &model.Match{UserID1: c.ID, UserID2: a.ID, Status: model.MatchRejected}))

	users, err := s.ListPotentialMatches(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, d.ID, users[0].ID)

	users, err = s.ListPotentialMatches(ctx, d.ID)
	require.NoError(t, err)
	assert.Len(t, users, 3)
}

func TestMatches(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	a := seedUser(t, s, "a")
	b := seedUser(t, s, "b")
	c := seedUser(t, s, "c")

	m := &model.Match{UserID1: a.ID, UserID2: b.ID, Status: model.MatchPending}
	require.NoError(t, s.CreateMatch(ctx, m))
	assert.NotZero(t, m.ID)
	assert.False(t, m.Timestamp.IsZero())

	between, err := s.FindMatchBetween(ctx, b.ID, a.ID)
	require.NoError(t, err)
	require.NotNil(t, between)
	assert.Equal(t, m.ID, between.ID)

	none, err := s.FindMatchBetween(ctx, a.ID, c.ID)
	require.NoError(t, err)
	assert.Nil(t, none)

	updated, err := s.UpdateMatchStatus(ctx, m.ID, model.MatchMatched)
	require.NoError(t, err)
	assert.Equal(t, model.MatchMatched, updated.Status)

	forB, err := s.ListMatchesByUser(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, forB, 1)
	assert.Empty(t, mustList(t, s, c.ID))
}

func mustList(t *testing.T, s *GormStore, userID uint) []model.Match {
	t.Helper()
	matches, err := s.ListMatchesByUser(context.Background(), userID)
	require.NoError(t, err)
	return matches
}

func TestMessages_OrderedByTimestamp(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, s.CreateMessage(ctx, &model.Message{MatchID: 1, SenderID: 1, Content: "second", Timestamp: base.Add(time.Minute)}))
	require.NoError(t, s.CreateMessage(ctx, &model.Message{MatchID: 1, SenderID: 2, Content: "first", Timestamp: base}))
	require.NoError(t, s.CreateMessage(ctx, &model.Message{MatchID: 2, SenderID: 3, Content: "elsewhere", Timestamp: base}))

	messages, err := s.ListMessagesByMatch(ctx, 1)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "first", messages[0].Content)
	assert.Equal(t, "second", messages[1].Content)
}

func TestVideoCalls(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	call := &model.VideoCall{MatchID: 1, Status: model.VideoCallScheduled}
	require.NoError(t, s.CreateVideoCall(ctx, call))

	updated, err := s.UpdateVideoCall(ctx, call.ID, model.VideoCallCancelled, nil)
	require.NoError(t, err)
	assert.Equal(t, model.VideoCallCancelled, updated.Status)
	assert.Nil(t, updated.Duration)

	duration := 1260
	updated, err = s.UpdateVideoCall(ctx, call.ID, model.VideoCallCompleted, &duration)
	require.NoError(t, err)
	require.NotNil(t, updated.Duration)
	assert.Equal(t, 1260, *updated.Duration)

	calls, err := s.ListVideoCallsByMatch(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, calls, 1)
}

func TestAiSuggestions(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateAiSuggestions(ctx, []model.AiSuggestion{
		{UserID: 1, SuggestionType: model.SuggestionConversationStarter, Content: "Ask about jazz"},
		{UserID: 1, SuggestionType: model.SuggestionVideoDateTip, Content: "Check your lighting"},
		{UserID: 2, SuggestionType: model.SuggestionVideoDateTip, Content: "Smile"},
	}))

	all, err := s.ListAiSuggestionsByUser(ctx, 1, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	tips, err := s.ListAiSuggestionsByUser(ctx, 1, model.SuggestionVideoDateTip)
	require.NoError(t, err)
	require.Len(t, tips, 1)

	used, err := s.MarkAiSuggestionUsed(ctx, tips[0].ID)
	require.NoError(t, err)
	assert.True(t, used.IsUsed)
}

func TestCasbin_InMemoryPolicies(t *testing.T) {
	e, err := Casbin(nil)
	require.NoError(t, err)

	_, err = e.AddGroupingPolicy("1", model.RoleUser)
	require.NoError(t, err)
	_, err = e.AddGroupingPolicy("2", model.RoleAdmin)
	require.NoError(t, err)

	allowed := func(sub, obj, act string) bool {
		ok, err := e.Enforce(sub, obj, act)
		require.NoError(t, err)
		return ok
	}

	assert.True(t, allowed("1", "/api/matches", "POST"))
	assert.True(t, allowed("1", "/api/matches/4/messages", "GET"))
	assert.False(t, allowed("1", "/api/admin/connections", "GET"))
	assert.True(t, allowed("2", "/api/admin/connections", "GET"))
	assert.True(t, allowed("2", "/api/matches", "GET"))
	assert.False(t, allowed("3", "/api/matches", "GET"))
}
