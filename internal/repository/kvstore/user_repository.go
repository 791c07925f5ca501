package kvstore

import (
	"context"
	"strings"
	"sync"

	"github.com/gdugdh24/fitmatch-backend/internal/domain"
	"github.com/gdugdh24/fitmatch-backend/internal/infrastructure/kv"
	"github.com/gdugdh24/fitmatch-backend/internal/repository"
)

type userRepository struct {
	store kv.Store
	mu    sync.Mutex
}

func NewUserRepository(store kv.Store) repository.UserRepository {
	return &userRepository{store: store}
}

func (r *userRepository) load(ctx context.Context) ([]domain.User, error) {
	users := []domain.User{}
	if _, err := readJSON(ctx, r.store, usersKey, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) List(ctx context.Context) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load(ctx)
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.load(ctx)
	if err != nil {
		return err
	}
	for _, u := range users {
		if u.Email == user.Email {
			return domain.ErrDuplicateEmail
		}
	}
	users = append(users, *user)
	return writeJSON(ctx, r.store, usersKey, users)
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	users, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].ID == id {
			return &users[i], nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	users, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if strings.EqualFold(users[i].Email, email) {
			return &users[i], nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.load(ctx)
	if err != nil {
		return false, err
	}
	for i := range users {
		if users[i].ID != user.ID {
			continue
		}
		updated := *user
		updated.PasswordHash = users[i].PasswordHash
		users[i] = updated
		return true, writeJSON(ctx, r.store, usersKey, users)
	}
	return false, nil
}

func (r *userRepository) Merge(ctx context.Context, remote []domain.User) error {
	if len(remote) == 0 {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.load(ctx)
	if err != nil {
		return err
	}
	index := make(map[string]int, len(users))
	for i, u := range users {
		index[u.ID] = i
	}
	for _, u := range remote {
		if u.ID == "" {
			continue
		}
		if i, ok := index[u.ID]; ok {
			u.PasswordHash = users[i].PasswordHash
			users[i] = u
			continue
		}
		u.PasswordHash = ""
		index[u.ID] = len(users)
		users = append(users, u)
	}
	return writeJSON(ctx, r.store, usersKey, users)
}

func (r *userRepository) ReplaceAll(ctx context.Context, users []domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if users == nil {
		users = []domain.User{}
	}
	return writeJSON(ctx, r.store, usersKey, users)
}
