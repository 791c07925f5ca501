package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserAvailabilitySplit(t *testing.T) {
	u := &User{Availability: []string{"Mon", "Morning", "Sat", "Night"}}
	assert.Equal(t, []string{"Mon", "Sat"}, u.Days())
	assert.Equal(t, []string{"Morning", "Night"}, u.TimeWindows())
}

func TestPublicDropsHash(t *testing.T) {
	u := NewUser("u1", "a@b.c", "hash")
	p := u.Public()
	assert.Empty(t, p.PasswordHash)
	assert.Equal(t, "hash", u.PasswordHash)
	assert.Nil(t, (*User)(nil).Public())
}

func TestPairKey(t *testing.T) {
	assert.Equal(t, "1_a_b", PairKey("b", "a"))
	assert.Equal(t, "10_demo_sarah_demo_tom", PairKey("demo_tom", "demo_sarah"))
	assert.Equal(t, PairKey("x", "y"), PairKey("y", "x"))
	assert.NotEqual(t, PairKey("a_b", "c"), PairKey("a", "b_c"))
	assert.NotEqual(t, PairKey("a", "_b"), PairKey("a_", "b"))

	m := Match{SenderID: "a", ReceiverID: "b"}
	other, ok := m.GetOtherUserID("b")
	assert.True(t, ok)
	assert.Equal(t, "a", other)
	_, ok = m.GetOtherUserID("c")
	assert.False(t, ok)
}
