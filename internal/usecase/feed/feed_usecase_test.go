package feed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gdugdh24/fitmatch-backend/internal/domain"
	"github.com/gdugdh24/fitmatch-backend/internal/infrastructure/kv"
	"github.com/gdugdh24/fitmatch-backend/internal/repository/kvstore"
)

type stubReasons struct {
	me, buddy *domain.User
}

func (s *stubReasons) MatchingReason(_ context.Context, me, buddy *domain.User) string {
	s.me, s.buddy = me, buddy
	return "Same park, same pace."
}

func seedUsers(t *testing.T) *FeedUseCase {
	t.Helper()
	ctx := context.Background()
	users := kvstore.NewUserRepository(kv.NewMemoryStore())

	add := func(id string, lat float64, complete bool, activities ...domain.Activity) {
		u := domain.NewUser(id, id+"@fit.io", "hash-"+id)
		u.Location = domain.Location{Lat: lat, Lng: -73.97}
		u.IsProfileComplete = complete
		u.Activities = activities
		require.NoError(t, users.Create(ctx, u))
	}
	add("me", 40.78, true, domain.ActivityRunning)
	add("far", 41.78, true, domain.ActivityRunning)
	add("near", 40.79, true, domain.ActivityYoga)
	add("mid", 40.88, true, domain.ActivityRunning, domain.ActivityYoga)
	add("draft", 40.78, false, domain.ActivityRunning)

	return NewFeedUseCase(users, &stubReasons{})
}

func ids(users []domain.User) []string {
	out := make([]string, 0, len(users))
	for _, u := range users {
		out = append(out, u.ID)
	}
	return out
}

func TestDiscover_SortedByDistance(t *testing.T) {
	uc := seedUsers(t)

	users, err := uc.Discover(context.Background(), "me", Filter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"near", "mid", "far"}, ids(users))
	assert.InDelta(t, 1.11, users[0].Distance, 0.01)
	for _, u := range users {
		assert.Empty(t, u.PasswordHash)
	}
}

func TestDiscover_Filters(t *testing.T) {
	ctx := context.Background()
	uc := seedUsers(t)

	users, err := uc.Discover(ctx, "me", Filter{Activity: domain.ActivityYoga})
	require.NoError(t, err)
	assert.Equal(t, []string{"near", "mid"}, ids(users))

	users, err = uc.Discover(ctx, "me", Filter{MaxDistanceKm: 20})
	require.NoError(t, err)
	assert.Equal(t, []string{"near", "mid"}, ids(users))

	users, err = uc.Discover(ctx, "me", Filter{Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"near"}, ids(users))

	_, err = uc.Discover(ctx, "me", Filter{Activity: "Curling"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Discover(ctx, "ghost", Filter{})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestReason(t *testing.T) {
	uc := seedUsers(t)

	resp, err := uc.Reason(context.Background(), "me", "near")
	require.NoError(t, err)
	assert.Equal(t, "near", resp.UserID)
	assert.Equal(t, "Same park, same pace.", resp.Reason)

	stub := uc.reasons.(*stubReasons)
	assert.Equal(t, "me", stub.me.ID)
	assert.InDelta(t, 1.11, stub.buddy.Distance, 0.01)

	_, err = uc.Reason(context.Background(), "me", "ghost")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
