// Package mirror replicates locally authoritative state to an optional
// realtime key-value tree and delivers remote changes to subscribers.
//
// Paths:
//
//	users/<id>
//	matches/<pairKey>
//	chats/<pairKey>/<pushId>
//
// Listeners always receive the full current value of the node they watch,
// never deltas. Matches and chats deliver an empty slice when the node is
// absent; the users listener stays silent until the node has data.
package mirror

import (
	"context"

	"github.com/gdugdh24/fitmatch-backend/internal/domain"
)

// Unsubscribe stops a listener. Calling it more than once is safe.
type Unsubscribe func()

type Mirror interface {
	Enabled() bool

	SyncUser(ctx context.Context, user *domain.User) error
	// GetUser returns nil without error when the user is not mirrored.
	GetUser(ctx context.Context, userID string) (*domain.User, error)
	ListenToUsers(ctx context.Context, fn func([]domain.User)) Unsubscribe

	SendMatchRequest(ctx context.Context, match domain.Match) error
	ListenToMatches(ctx context.Context, userID string, fn func([]domain.Match)) Unsubscribe
	// UpdateMatchStatus removes the record when status is declined.
	UpdateMatchStatus(ctx context.Context, pairKey string, status domain.MatchStatus) error

	ListenToChat(ctx context.Context, chatID string, fn func([]domain.ChatMessage)) Unsubscribe
	SendMessage(ctx context.Context, chatID string, message domain.ChatMessage) error

	// Clear removes the users, matches and chats nodes. Listeners are not notified.
	Clear(ctx context.Context) error
}

func usersPath(id string) string      { return "users/" + id }
func matchPath(pairKey string) string { return "matches/" + pairKey }
func chatPath(chatID string) string   { return "chats/" + chatID }

var (
	_ Mirror = noopMirror{}
	_ Mirror = (*MemoryMirror)(nil)
	_ Mirror = (*FirebaseMirror)(nil)
)
