package mirror

import (
	"context"

	"github.com/gdugdh24/fitmatch-backend/internal/domain"
)

type noopMirror struct{}

// NewNoop returns the mirror used when no remote backend is configured.
func NewNoop() Mirror {
	return noopMirror{}
}

func (noopMirror) Enabled() bool { return false }

func (noopMirror) SyncUser(context.Context, *domain.User) error { return nil }

func (noopMirror) GetUser(context.Context, string) (*domain.User, error) { return nil, nil }

func (noopMirror) ListenToUsers(context.Context, func([]domain.User)) Unsubscribe {
	return func() {}
}

func (noopMirror) SendMatchRequest(context.Context, domain.Match) error { return nil }

func (noopMirror) ListenToMatches(context.Context, string, func([]domain.Match)) Unsubscribe {
	return func() {}
}

func (noopMirror) UpdateMatchStatus(context.Context, string, domain.MatchStatus) error { return nil }

func (noopMirror) ListenToChat(context.Context, string, func([]domain.ChatMessage)) Unsubscribe {
	return func() {}
}

func (noopMirror) SendMessage(context.Context, string, domain.ChatMessage) error { return nil }

func (noopMirror) Clear(context.Context) error { return nil }
