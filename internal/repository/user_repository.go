package repository

import (
	"context"

	"github.com/gdugdh24/fitmatch-backend/internal/domain"
)

type UserRepository interface {
	List(ctx context.Context) ([]domain.User, error)
	// Create fails with domain.ErrDuplicateEmail on an exact email match.
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	// GetByEmail matches case-insensitively.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	// Update replaces the record with the same id, keeping the stored password
	// hash. It reports false when no such record exists.
	Update(ctx context.Context, user *domain.User) (bool, error)
	// Merge upserts users coming from the mirror, keeping local hashes.
	Merge(ctx context.Context, users []domain.User) error
	ReplaceAll(ctx context.Context, users []domain.User) error
}
