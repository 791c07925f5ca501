package match

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gdugdh24/fitmatch-backend/internal/domain"
	"github.com/gdugdh24/fitmatch-backend/internal/infrastructure/kv"
	"github.com/gdugdh24/fitmatch-backend/internal/infrastructure/mirror"
	"github.com/gdugdh24/fitmatch-backend/internal/infrastructure/replication"
	"github.com/gdugdh24/fitmatch-backend/internal/repository"
	"github.com/gdugdh24/fitmatch-backend/internal/repository/kvstore"
)

type fixture struct {
	uc         *MatchUseCase
	users      repository.UserRepository
	matches    repository.MatchRepository
	mirror     *mirror.MemoryMirror
	replicator *replication.Replicator
}

func newFixture(t *testing.T, m mirror.Mirror) *fixture {
	t.Helper()
	ctx := context.Background()
	log, _ := test.NewNullLogger()
	store := kv.NewMemoryStore()
	users := kvstore.NewUserRepository(store)
	matches := kvstore.NewMatchRepository(store)
	r := replication.New(replication.Config{}, log)

	for _, name := range []string{"alice", "bob", "carol"} {
		u := domain.NewUser(name, name+"@fit.io", "")
		u.Name = name
		require.NoError(t, users.Create(ctx, u))
	}

	f := &fixture{
		uc:         NewMatchUseCase(matches, users, m, r, log),
		users:      users,
		matches:    matches,
		replicator: r,
	}
	if mm, ok := m.(*mirror.MemoryMirror); ok {
		f.mirror = mm
	}
	return f
}

func TestSendRequest_BothSidesSeeIt(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, mirror.NewNoop())

	match, err := f.uc.SendRequest(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.Equal(t, domain.MatchPending, match.Status)
	assert.Equal(t, domain.PairKey("alice", "bob"), match.PairKey)
	require.NotNil(t, match.Buddy)
	assert.Equal(t, "bob", match.Buddy.ID)

	aliceView, err := f.uc.GetMatches(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, aliceView, 1)
	assert.Equal(t, "bob", aliceView[0].Buddy.ID)

	bobView, err := f.uc.GetMatches(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, bobView, 1)
	assert.Equal(t, "alice", bobView[0].Buddy.ID)
	assert.Equal(t, match.ID, bobView[0].ID)

	count, err := f.uc.PendingIncomingCount(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	count, err = f.uc.PendingIncomingCount(ctx, "alice")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestSendRequest_Guards(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, mirror.NewNoop())

	_, err := f.uc.SendRequest(ctx, "alice", "alice")
	assert.ErrorIs(t, err, domain.ErrCannotRequestSelf)

	_, err = f.uc.SendRequest(ctx, "alice", "ghost")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	first, err := f.uc.SendRequest(ctx, "alice", "bob")
	require.NoError(t, err)
	again, err := f.uc.SendRequest(ctx, "bob", "alice")
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)
	assert.Equal(t, "alice", again.SenderID)

	matches, err := f.uc.GetMatches(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}

func TestRespond_AcceptSharedByBoth(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, mirror.NewNoop())

	match, err := f.uc.SendRequest(ctx, "alice", "bob")
	require.NoError(t, err)

	_, err = f.uc.RespondToRequest(ctx, "alice", match.ID, domain.ActionAccept)
	assert.ErrorIs(t, err, domain.ErrNotRequestReceiver)

	accepted, err := f.uc.RespondToRequest(ctx, "bob", match.ID, domain.ActionAccept)
	require.NoError(t, err)
	assert.Equal(t, domain.MatchAccepted, accepted.Status)
	assert.Equal(t, "alice", accepted.Buddy.ID)

	for _, user := range []string{"alice", "bob"} {
		view, err := f.uc.GetMatches(ctx, user)
		require.NoError(t, err)
		require.Len(t, view, 1)
		assert.Equal(t, domain.MatchAccepted, view[0].Status)
	}

	withBob, err := f.uc.MatchWith(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.Equal(t, domain.MatchAccepted, withBob.Status)
}

func TestRespond_DeclineRemovesOnlyThatPair(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, mirror.NewNoop())

	ab, err := f.uc.SendRequest(ctx, "alice", "bob")
	require.NoError(t, err)
	cb, err := f.uc.SendRequest(ctx, "carol", "bob")
	require.NoError(t, err)

	declined, err := f.uc.RespondToRequest(ctx, "bob", ab.ID, domain.ActionDecline)
	require.NoError(t, err)
	assert.Equal(t, domain.MatchDeclined, declined.Status)

	alice, err := f.uc.GetMatches(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, alice)

	bob, err := f.uc.GetMatches(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, bob, 1)
	assert.Equal(t, cb.ID, bob[0].ID)

	_, err = f.uc.MatchWith(ctx, "alice", "bob")
	assert.ErrorIs(t, err, domain.ErrMatchNotFound)
}

func TestRespond_SenderMayDecline(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, mirror.NewNoop())

	ab, err := f.uc.SendRequest(ctx, "alice", "bob")
	require.NoError(t, err)
	_, err = f.uc.RespondToRequest(ctx, "alice", ab.ID, domain.ActionDecline)
	require.NoError(t, err)

	bob, err := f.uc.GetMatches(ctx, "bob")
	require.NoError(t, err)
	assert.Empty(t, bob)
}

func TestRespond_Errors(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, mirror.NewNoop())

	ab, err := f.uc.SendRequest(ctx, "alice", "bob")
	require.NoError(t, err)

	_, err = f.uc.RespondToRequest(ctx, "bob", "missing", domain.ActionAccept)
	assert.ErrorIs(t, err, domain.ErrMatchNotFound)

	_, err = f.uc.RespondToRequest(ctx, "carol", ab.ID, domain.ActionDecline)
	assert.ErrorIs(t, err, domain.ErrMatchNotFound)

	_, err = f.uc.RespondToRequest(ctx, "bob", ab.ID, "maybe")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSendRequest_FetchesRemoteReceiver(t *testing.T) {
	ctx := context.Background()
	m := mirror.NewMemory()
	f := newFixture(t, m)

	remote := domain.NewUser("dana", "dana@fit.io", "")
	remote.Name = "Dana"
	require.NoError(t, m.SyncUser(ctx, remote))

	match, err := f.uc.SendRequest(ctx, "alice", "dana")
	require.NoError(t, err)
	assert.Equal(t, "Dana", match.Buddy.Name)

	cached, err := f.users.GetByID(ctx, "dana")
	require.NoError(t, err)
	assert.Equal(t, "Dana", cached.Name)

	require.NoError(t, f.replicator.Flush(ctx))
	var mirrored []domain.Match
	m.ListenToMatches(ctx, "dana", func(ms []domain.Match) { mirrored = ms })()
	require.Len(t, mirrored, 1)
	assert.Equal(t, match.ID, mirrored[0].ID)
}

func TestRespond_MirrorsStatus(t *testing.T) {
	ctx := context.Background()
	m := mirror.NewMemory()
	f := newFixture(t, m)

	ab, err := f.uc.SendRequest(ctx, "alice", "bob")
	require.NoError(t, err)
	require.NoError(t, f.replicator.Flush(ctx))

	_, err = f.uc.RespondToRequest(ctx, "bob", ab.ID, domain.ActionAccept)
	require.NoError(t, err)
	require.NoError(t, f.replicator.Flush(ctx))

	var remote []domain.Match
	m.ListenToMatches(ctx, "alice", func(ms []domain.Match) { remote = ms })()
	require.Len(t, remote, 1)
	assert.Equal(t, domain.MatchAccepted, remote[0].Status)

	_, err = f.uc.RespondToRequest(ctx, "alice", ab.ID, domain.ActionDecline)
	require.NoError(t, err)
	require.NoError(t, f.replicator.Flush(ctx))
	m.ListenToMatches(ctx, "alice", func(ms []domain.Match) { remote = ms })()
	assert.Empty(t, remote)
}

func TestWatchMatches_AdoptsRemoteRecords(t *testing.T) {
	ctx := context.Background()
	m := mirror.NewMemory()
	f := newFixture(t, m)

	var views [][]domain.Match
	unsub := f.uc.WatchMatches(ctx, "bob", func(ms []domain.Match) { views = append(views, ms) })
	defer unsub()
	require.NotEmpty(t, views)
	assert.Empty(t, views[len(views)-1])

	// another process writes a request straight to the mirror
	require.NoError(t, m.SendMatchRequest(ctx, domain.Match{
		ID:         "remote-1",
		PairKey:    domain.PairKey("carol", "bob"),
		SenderID:   "carol",
		ReceiverID: "bob",
		Status:     domain.MatchPending,
		Timestamp:  1,
	}))

	last := views[len(views)-1]
	require.Len(t, last, 1)
	assert.Equal(t, "remote-1", last[0].ID)
	assert.Equal(t, "carol", last[0].Buddy.ID)

	require.NoError(t, m.UpdateMatchStatus(ctx, domain.PairKey("bob", "carol"), domain.MatchAccepted))
	last = views[len(views)-1]
	require.Len(t, last, 1)
	assert.Equal(t, domain.MatchAccepted, last[0].Status)

	local, err := f.matches.GetByPairKey(ctx, domain.PairKey("bob", "carol"))
	require.NoError(t, err)
	assert.Equal(t, domain.MatchAccepted, local.Status)
}

func TestWatchMatches_DeclinedPairNotReadopted(t *testing.T) {
	ctx := context.Background()
	m := mirror.NewMemory()
	f := newFixture(t, m)
	log, _ := test.NewNullLogger()
	f.replicator = replication.New(replication.Config{Workers: 1}, log)
	f.uc.replicator = f.replicator

	ab, err := f.uc.SendRequest(ctx, "alice", "bob")
	require.NoError(t, err)
	require.NoError(t, f.replicator.Flush(ctx))

	// hold the only worker so the remote delete stays queued
	started := make(chan struct{})
	release := make(chan struct{})
	f.replicator.Submit("", "block", func(context.Context) error {
		close(started)
		<-release
		return nil
	})
	<-started

	_, err = f.uc.RespondToRequest(ctx, "bob", ab.ID, domain.ActionDecline)
	require.NoError(t, err)

	var last []domain.Match
	unsub := f.uc.WatchMatches(ctx, "bob", func(ms []domain.Match) { last = ms })
	assert.Empty(t, last)
	unsub()

	_, err = f.matches.GetByPairKey(ctx, domain.PairKey("alice", "bob"))
	assert.ErrorIs(t, err, domain.ErrMatchNotFound)

	close(release)
	require.NoError(t, f.replicator.Flush(ctx))
}
