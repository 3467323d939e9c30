package service

import (
	"context"
	"encoding/json"
	"testing"

	"matchai-service/event"
	"matchai-service/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type matchFixture struct {
	svc     *MatchService
	advisor *fakeAdvisor
	events  *recordingPublisher
	a, b, c *model.User
}

func newMatchFixture(t *testing.T, opts MatchOptions) *matchFixture {
	store := newStore(t)
	f := &matchFixture{
		advisor: &fakeAdvisor{score: 82},
		events:  &recordingPublisher{},
	}
	f.svc = NewMatchService(store, f.advisor, f.events, opts)
	f.a = seedUser(t, store, "alex", "jazz")
	f.b = seedUser(t, store, "bea", "jazz", "chess")
	f.c = seedUser(t, store, "caio")
	return f
}

func TestMatchCreate(t *testing.T) {
	f := newMatchFixture(t, MatchOptions{})
	ctx := context.Background()

	for _, status := range []model.MatchStatus{model.MatchPending, model.MatchRejected} {
		m, err := f.svc.Create(ctx, f.a.ID, f.a.ID, f.b.ID, status)
		require.NoError(t, err)
		require.NotNil(t, m.CompatibilityScore)
		assert.Equal(t, 82, *m.CompatibilityScore)
		assert.Len(t, m.CompatibilityReasons, 2)
		assert.Equal(t, status, m.Status)
		assert.False(t, m.Timestamp.IsZero())
	}
	assert.Equal(t, 2, f.events.count(event.MatchCreated))
}

func TestMatchCreateScorerFailure(t *testing.T) {
	f := newMatchFixture(t, MatchOptions{})
	f.advisor.err = errUpstream

	m, err := f.svc.Create(context.Background(), f.b.ID, f.a.ID, f.b.ID, model.MatchPending)
	require.NoError(t, err)
	require.NotNil(t, m.CompatibilityScore)
	assert.Equal(t, 50, *m.CompatibilityScore)
	assert.Len(t, m.CompatibilityReasons, 1)
}

func TestMatchCreateClampsScore(t *testing.T) {
	f := newMatchFixture(t, MatchOptions{})
	f.advisor.score = 140

	m, err := f.svc.Create(context.Background(), f.a.ID, f.a.ID, f.b.ID, model.MatchPending)
	require.NoError(t, err)
	assert.Equal(t, 100, *m.CompatibilityScore)
}

func TestMatchCreateValidation(t *testing.T) {
	f := newMatchFixture(t, MatchOptions{})
	ctx := context.Background()

	_, err := f.svc.Create(ctx, f.a.ID, f.a.ID, f.b.ID, "liked")
	assert.True(t, model.IsKind(err, model.KindValidation))

	_, err = f.svc.Create(ctx, f.a.ID, f.a.ID, f.a.ID, model.MatchPending)
	assert.True(t, model.IsKind(err, model.KindValidation))

	_, err = f.svc.Create(ctx, f.c.ID, f.a.ID, f.b.ID, model.MatchPending)
	assert.True(t, model.IsKind(err, model.KindValidation))

	_, err = f.svc.Create(ctx, f.a.ID, f.a.ID, 999, model.MatchPending)
	assert.True(t, model.IsKind(err, model.KindNotFound))

	assert.Zero(t, f.events.count(event.MatchCreated))
	assert.Zero(t, f.advisor.calls)
}

func TestMatchCreateUniquePairs(t *testing.T) {
	ctx := context.Background()

	f := newMatchFixture(t, MatchOptions{})
	_, err := f.svc.Create(ctx, f.a.ID, f.a.ID, f.b.ID, model.MatchPending)
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, f.b.ID, f.b.ID, f.a.ID, model.MatchPending)
	assert.NoError(t, err, "duplicates are allowed unless unique pairs are enforced")

	u := newMatchFixture(t, MatchOptions{UniquePairs: true})
	_, err = u.svc.Create(ctx, u.a.ID, u.a.ID, u.b.ID, model.MatchPending)
	require.NoError(t, err)
	_, err = u.svc.Create(ctx, u.b.ID, u.b.ID, u.a.ID, model.MatchPending)
	assert.True(t, model.IsKind(err, model.KindValidation))
}

func TestMatchListForUser(t *testing.T) {
	f := newMatchFixture(t, MatchOptions{})
	ctx := context.Background()

	m, err := f.svc.Create(ctx, f.a.ID, f.a.ID, f.b.ID, model.MatchPending)
	require.NoError(t, err)

	for _, tc := range []struct {
		caller, other *model.User
	}{{f.a, f.b}, {f.b, f.a}} {
		list, err := f.svc.ListForUser(ctx, tc.caller.ID)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, m.ID, list[0].ID)
		require.NotNil(t, list[0].OtherUser)
		assert.Equal(t, tc.other.ID, list[0].OtherUser.ID)
		assert.Equal(t, tc.other.ProfileName, list[0].OtherUser.ProfileName)
	}

	empty, err := f.svc.ListForUser(ctx, f.c.ID)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestMatchTransition(t *testing.T) {
	f := newMatchFixture(t, MatchOptions{})
	ctx := context.Background()
	m, err := f.svc.Create(ctx, f.a.ID, f.a.ID, f.b.ID, model.MatchPending)
	require.NoError(t, err)

	first, err := f.svc.Transition(ctx, f.b.ID, m.ID, model.MatchMatched)
	require.NoError(t, err)
	second, err := f.svc.Transition(ctx, f.b.ID, m.ID, model.MatchMatched)
	require.NoError(t, err)

	assert.Equal(t, model.MatchMatched, first.Status)
	assert.Equal(t, first.Status, second.Status)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, f.events.count(event.MatchUpdated))

	// permissive: the initiator may move it back
	back, err := f.svc.Transition(ctx, f.a.ID, m.ID, model.MatchRejected)
	require.NoError(t, err)
	assert.Equal(t, model.MatchRejected, back.Status)
}

func TestMatchTransitionErrors(t *testing.T) {
	f := newMatchFixture(t, MatchOptions{})
	ctx := context.Background()
	m, err := f.svc.Create(ctx, f.a.ID, f.a.ID, f.b.ID, model.MatchPending)
	require.NoError(t, err)

	_, err = f.svc.Transition(ctx, f.a.ID, 999, model.MatchMatched)
	assert.True(t, model.IsKind(err, model.KindNotFound))

	_, err = f.svc.Transition(ctx, f.c.ID, m.ID, model.MatchMatched)
	assert.True(t, model.IsKind(err, model.KindUnauthorized))

	_, err = f.svc.Transition(ctx, f.a.ID, m.ID, "blocked")
	assert.True(t, model.IsKind(err, model.KindValidation))
}

func TestMatchTransitionReciprocal(t *testing.T) {
	f := newMatchFixture(t, MatchOptions{Policy: PolicyReciprocal})
	ctx := context.Background()
	m, err := f.svc.Create(ctx, f.a.ID, f.a.ID, f.b.ID, model.MatchPending)
	require.NoError(t, err)

	_, err = f.svc.Transition(ctx, f.a.ID, m.ID, model.MatchMatched)
	assert.True(t, model.IsKind(err, model.KindUnauthorized))

	_, err = f.svc.Transition(ctx, f.a.ID, m.ID, model.MatchRejected)
	assert.NoError(t, err)

	got, err := f.svc.Transition(ctx, f.b.ID, m.ID, model.MatchMatched)
	require.NoError(t, err)
	assert.Equal(t, model.MatchMatched, got.Status)
}

func TestMatchCreateEventOmitsReasons(t *testing.T) {
	f := newMatchFixture(t, MatchOptions{})

	m, err := f.svc.Create(context.Background(), f.a.ID, f.a.ID, f.b.ID, model.MatchPending)
	require.NoError(t, err)
	assert.Len(t, m.CompatibilityReasons, 2)

	published, ok := f.events.last(event.MatchCreated).(*model.Match)
	require.True(t, ok)
	assert.Nil(t, published.CompatibilityReasons)
	assert.Equal(t, m.ID, published.ID)
	assert.Equal(t, m.CompatibilityScore, published.CompatibilityScore)

	raw, err := json.Marshal(published)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "compatibilityReasons")
}

func TestMatchListPotential(t *testing.T) {
	f := newMatchFixture(t, MatchOptions{})
	ctx := context.Background()

	_, err := f.svc.Create(ctx, f.b.ID, f.b.ID, f.a.ID, model.MatchRejected)
	require.NoError(t, err)

	got, err := f.svc.ListPotential(ctx, f.a.ID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, f.c.ID, got[0].ID)

	// b started the match with a, so a is gone from b's feed as well
	got, err = f.svc.ListPotential(ctx, f.b.ID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, f.c.ID, got[0].ID)

	_, err = f.svc.Create(ctx, f.a.ID, f.a.ID, f.c.ID, model.MatchPending)
	require.NoError(t, err)

	got, err = f.svc.ListPotential(ctx, f.a.ID)
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = f.svc.ListPotential(ctx, f.c.ID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, f.b.ID, got[0].ID)

	none, err := f.svc.ListPotential(ctx, 999)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestMatchGet(t *testing.T) {
	f := newMatchFixture(t, MatchOptions{})
	ctx := context.Background()
	m, err := f.svc.Create(ctx, f.a.ID, f.a.ID, f.b.ID, model.MatchPending)
	require.NoError(t, err)

	got, err := f.svc.Get(ctx, f.b.ID, m.ID)
	require.NoError(t, err)
	assert.Equal(t, m.ID, got.ID)

	_, err = f.svc.Get(ctx, f.c.ID, m.ID)
	assert.True(t, model.IsKind(err, model.KindUnauthorized))

	missing, err := f.svc.Lookup(ctx, 999)
	require.NoError(t, err)
	assert.Nil(t, missing)
}
