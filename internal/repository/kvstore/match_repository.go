package kvstore

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/gdugdh24/fitmatch-backend/internal/domain"
	"github.com/gdugdh24/fitmatch-backend/internal/infrastructure/kv"
	"github.com/gdugdh24/fitmatch-backend/internal/repository"
)

type matchRepository struct {
	store kv.Store
	mu    sync.Mutex
}

func NewMatchRepository(store kv.Store) repository.MatchRepository {
	return &matchRepository{store: store}
}

func (r *matchRepository) index(ctx context.Context, userID string) ([]string, error) {
	keys := []string{}
	if _, err := readJSON(ctx, r.store, userIndexKey(userID), &keys); err != nil {
		return nil, err
	}
	return keys, nil
}

func (r *matchRepository) record(ctx context.Context, pairKey string) (*domain.Match, error) {
	var match domain.Match
	found, err := readJSON(ctx, r.store, matchKey(pairKey), &match)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, domain.ErrMatchNotFound
	}
	return &match, nil
}

func (r *matchRepository) Create(ctx context.Context, match *domain.Match) error {
	if match.PairKey == "" {
		match.PairKey = domain.PairKey(match.SenderID, match.ReceiverID)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := writeJSON(ctx, r.store, matchKey(match.PairKey), match.Stored()); err != nil {
		return err
	}
	for _, userID := range []string{match.SenderID, match.ReceiverID} {
		keys, err := r.index(ctx, userID)
		if err != nil {
			return err
		}
		if slices.Contains(keys, match.PairKey) {
			continue
		}
		if err := writeJSON(ctx, r.store, userIndexKey(userID), append(keys, match.PairKey)); err != nil {
			return err
		}
	}
	return nil
}

func (r *matchRepository) GetByPairKey(ctx context.Context, pairKey string) (*domain.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.record(ctx, pairKey)
}

func (r *matchRepository) GetUserMatches(ctx context.Context, userID string) ([]domain.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	keys, err := r.index(ctx, userID)
	if err != nil {
		return nil, err
	}
	matches := make([]domain.Match, 0, len(keys))
	for _, key := range keys {
		match, err := r.record(ctx, key)
		if err != nil {
			if errors.Is(err, domain.ErrMatchNotFound) {
				continue
			}
			return nil, err
		}
		matches = append(matches, *match)
	}
	return matches, nil
}

func (r *matchRepository) UpdateStatus(ctx context.Context, pairKey string, status domain.MatchStatus) (*domain.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	match, err := r.record(ctx, pairKey)
	if err != nil {
		return nil, err
	}
	match.Status = status
	if err := writeJSON(ctx, r.store, matchKey(pairKey), match); err != nil {
		return nil, err
	}
	return match, nil
}

// Delete drops the record and removes the pair key from both indexes.
func (r *matchRepository) Delete(ctx context.Context, pairKey string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	match, err := r.record(ctx, pairKey)
	if err != nil {
		return err
	}
	if err := r.store.Delete(ctx, matchKey(pairKey)); err != nil {
		return fmt.Errorf("delete match: %w", err)
	}
	for _, userID := range []string{match.SenderID, match.ReceiverID} {
		keys, err := r.index(ctx, userID)
		if err != nil {
			return err
		}
		keys = slices.DeleteFunc(keys, func(k string) bool { return k == pairKey })
		if err := writeJSON(ctx, r.store, userIndexKey(userID), keys); err != nil {
			return err
		}
	}
	return nil
}
