package kvstore

import (
	"context"
	"fmt"

	"github.com/gdugdh24/fitmatch-backend/internal/domain"
	"github.com/gdugdh24/fitmatch-backend/internal/infrastructure/kv"
	"github.com/gdugdh24/fitmatch-backend/internal/repository"
)

type sessionRepository struct {
	store kv.Store
}

func NewSessionRepository(store kv.Store) repository.SessionRepository {
	return &sessionRepository{store: store}
}

func (r *sessionRepository) Create(ctx context.Context, session *domain.Session) error {
	return writeJSON(ctx, r.store, sessionKey(session.ID), session)
}

func (r *sessionRepository) Get(ctx context.Context, id string) (*domain.Session, error) {
	var session domain.Session
	found, err := readJSON(ctx, r.store, sessionKey(id), &session)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, domain.ErrSessionNotFound
	}
	return &session, nil
}

func (r *sessionRepository) Delete(ctx context.Context, id string) error {
	if err := r.store.Delete(ctx, sessionKey(id)); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
