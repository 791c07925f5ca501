package feed

import (
	"context"
	"fmt"
	"sort"

	"github.com/gdugdh24/fitmatch-backend/internal/domain"
	"github.com/gdugdh24/fitmatch-backend/internal/repository"
)

const DefaultLimit = 50

// ReasonGenerator explains why two users fit together. It never fails.
type ReasonGenerator interface {
	MatchingReason(ctx context.Context, me, buddy *domain.User) string
}

type FeedUseCase struct {
	userRepo repository.UserRepository
	reasons  ReasonGenerator
}

func NewFeedUseCase(userRepo repository.UserRepository, reasons ReasonGenerator) *FeedUseCase {
	return &FeedUseCase{
		userRepo: userRepo,
		reasons:  reasons,
	}
}

// Filter narrows the discovery list
type Filter struct {
	Activity      domain.Activity `form:"activity"`
	MaxDistanceKm float64         `form:"max_distance_km"`
	Limit         int             `form:"limit"`
}

// ReasonResponse represents a generated matching rationale
type ReasonResponse struct {
	UserID string `json:"user_id"`
	Reason string `json:"reason"`
}

// Discover lists the other users with a complete profile, nearest first
func (uc *FeedUseCase) Discover(ctx context.Context, currentUserID string, filter Filter) ([]domain.User, error) {
	if filter.Activity != "" && !domain.IsActivity(string(filter.Activity)) {
		return nil, fmt.Errorf("%w: unknown activity %q", domain.ErrInvalidInput, filter.Activity)
	}
	if filter.MaxDistanceKm < 0 || filter.Limit < 0 {
		return nil, domain.ErrInvalidInput
	}

	me, err := uc.userRepo.GetByID(ctx, currentUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}

	users, err := uc.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	result := make([]domain.User, 0, len(users))
	for i := range users {
		candidate := users[i]
		if candidate.ID == me.ID || !candidate.IsProfileComplete {
			continue
		}
		if filter.Activity != "" && !candidate.HasActivity(filter.Activity) {
			continue
		}
		candidate.Distance = domain.DistanceKm(me.Location, candidate.Location)
		if filter.MaxDistanceKm > 0 && candidate.Distance > filter.MaxDistanceKm {
			continue
		}
		candidate.PasswordHash = ""
		result = append(result, candidate)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Distance < result[j].Distance
	})

	limit := filter.Limit
	if limit == 0 {
		limit = DefaultLimit
	}
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// Reason explains why the current user and buddyID should train together
func (uc *FeedUseCase) Reason(ctx context.Context, currentUserID, buddyID string) (*ReasonResponse, error) {
	me, err := uc.userRepo.GetByID(ctx, currentUserID)
	if err != nil {
		return nil, err
	}
	buddy, err := uc.userRepo.GetByID(ctx, buddyID)
	if err != nil {
		return nil, err
	}
	buddy.Distance = domain.DistanceKm(me.Location, buddy.Location)

	return &ReasonResponse{
		UserID: buddy.ID,
		Reason: uc.reasons.MatchingReason(ctx, me, buddy),
	}, nil
}
