package repository

import (
	"context"

	"github.com/gdugdh24/fitmatch-backend/internal/domain"
)

// MatchRepository keeps one record per pair key plus, for every user, the
// ordered list of pair keys they take part in.
type MatchRepository interface {
	Create(ctx context.Context, match *domain.Match) error
	GetByPairKey(ctx context.Context, pairKey string) (*domain.Match, error)
	// GetUserMatches resolves the user's index in insertion order and skips
	// entries whose record no longer exists.
	GetUserMatches(ctx context.Context, userID string) ([]domain.Match, error)
	UpdateStatus(ctx context.Context, pairKey string, status domain.MatchStatus) (*domain.Match, error)
	Delete(ctx context.Context, pairKey string) error
}
