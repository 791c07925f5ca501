package seed

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/gdugdh24/fitmatch-backend/internal/infrastructure/kv"
	"github.com/gdugdh24/fitmatch-backend/internal/infrastructure/mirror"
	"github.com/gdugdh24/fitmatch-backend/internal/repository"
)

// DemoPassword logs in every seeded demo user.
const DemoPassword = "fitmatch-demo"

var demoPasswordHash = sync.OnceValues(func() ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
})

type SeedUseCase struct {
	store    kv.Store
	userRepo repository.UserRepository
	mirror   mirror.Mirror
	log      logrus.FieldLogger
}

func NewSeedUseCase(store kv.Store, userRepo repository.UserRepository, m mirror.Mirror, log logrus.FieldLogger) *SeedUseCase {
	return &SeedUseCase{store: store, userRepo: userRepo, mirror: m, log: log}
}

// Seed writes the demo users when the user list is empty
func (uc *SeedUseCase) Seed(ctx context.Context) error {
	users, err := uc.userRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list users: %w", err)
	}
	if len(users) > 0 {
		return nil
	}

	hash, err := demoPasswordHash()
	if err != nil {
		return fmt.Errorf("failed to hash demo password: %w", err)
	}
	demo := DemoUsers()
	for i := range demo {
		demo[i].PasswordHash = string(hash)
	}
	if err := uc.userRepo.ReplaceAll(ctx, demo); err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}
	uc.log.WithField("count", len(demo)).Info("demo users seeded")
	return nil
}

// ClearAll wipes the mirror and every local key, sessions included, and
// seeds again. The mirror goes first so remote listeners cannot refill the
// local store.
func (uc *SeedUseCase) ClearAll(ctx context.Context) error {
	if uc.mirror.Enabled() {
		if err := uc.mirror.Clear(ctx); err != nil {
			return fmt.Errorf("failed to clear mirror: %w", err)
		}
		uc.log.Warn("mirror cleared")
	}
	if err := uc.store.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear store: %w", err)
	}
	uc.log.Warn("local store cleared")
	return uc.Seed(ctx)
}
