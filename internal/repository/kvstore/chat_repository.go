package kvstore

import (
	"context"
	"sort"
	"sync"

	"github.com/gdugdh24/fitmatch-backend/internal/domain"
	"github.com/gdugdh24/fitmatch-backend/internal/infrastructure/kv"
	"github.com/gdugdh24/fitmatch-backend/internal/repository"
)

type chatRepository struct {
	store kv.Store
	mu    sync.Mutex
}

func NewChatRepository(store kv.Store) repository.ChatRepository {
	return &chatRepository{store: store}
}

func (r *chatRepository) load(ctx context.Context, pairKey string) ([]domain.ChatMessage, error) {
	messages := []domain.ChatMessage{}
	if _, err := readJSON(ctx, r.store, chatKey(pairKey), &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

func (r *chatRepository) List(ctx context.Context, pairKey string) ([]domain.ChatMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load(ctx, pairKey)
}

func (r *chatRepository) Append(ctx context.Context, pairKey string, message domain.ChatMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	messages, err := r.load(ctx, pairKey)
	if err != nil {
		return err
	}
	return writeJSON(ctx, r.store, chatKey(pairKey), append(messages, message))
}

func (r *chatRepository) Merge(ctx context.Context, pairKey string, messages []domain.ChatMessage) ([]domain.ChatMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	local, err := r.load(ctx, pairKey)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(local))
	for _, m := range local {
		seen[m.ID] = struct{}{}
	}
	added := 0
	for _, m := range messages {
		if _, ok := seen[m.ID]; ok {
			continue
		}
		seen[m.ID] = struct{}{}
		local = append(local, m)
		added++
	}
	if added == 0 {
		return local, nil
	}

	sort.SliceStable(local, func(i, j int) bool {
		return local[i].Timestamp.Before(local[j].Timestamp)
	})
	if err := writeJSON(ctx, r.store, chatKey(pairKey), local); err != nil {
		return nil, err
	}
	return local, nil
}
