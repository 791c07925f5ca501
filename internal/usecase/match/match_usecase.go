package match

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/gdugdh24/fitmatch-backend/internal/domain"
	"github.com/gdugdh24/fitmatch-backend/internal/infrastructure/mirror"
	"github.com/gdugdh24/fitmatch-backend/internal/infrastructure/replication"
	"github.com/gdugdh24/fitmatch-backend/internal/repository"
)

type MatchUseCase struct {
	matchRepo  repository.MatchRepository
	userRepo   repository.UserRepository
	mirror     mirror.Mirror
	replicator *replication.Replicator
	log        logrus.FieldLogger
	now        func() time.Time

	// pair keys declined by this process, never re-adopted from the mirror
	mu       sync.Mutex
	declined map[string]struct{}
}

func NewMatchUseCase(
	matchRepo repository.MatchRepository,
	userRepo repository.UserRepository,
	m mirror.Mirror,
	replicator *replication.Replicator,
	log logrus.FieldLogger,
) *MatchUseCase {
	return &MatchUseCase{
		matchRepo:  matchRepo,
		userRepo:   userRepo,
		mirror:     m,
		replicator: replicator,
		log:        log,
		now:        time.Now,
		declined:   make(map[string]struct{}),
	}
}

// RespondRequest represents an answer to a pending request
type RespondRequest struct {
	Action domain.RequestAction `json:"action" binding:"required"`
}

// PendingCountResponse represents the number of incoming pending requests
type PendingCountResponse struct {
	Count int `json:"count"`
}

// SendRequest creates a pending request from senderID to receiverID. If the
// pair already has a record, that record is returned unchanged.
func (uc *MatchUseCase) SendRequest(ctx context.Context, senderID, receiverID string) (*domain.Match, error) {
	if senderID == receiverID {
		return nil, domain.ErrCannotRequestSelf
	}

	receiver, err := uc.resolveUser(ctx, receiverID)
	if err != nil {
		return nil, err
	}

	pairKey := domain.PairKey(senderID, receiverID)
	existing, err := uc.matchRepo.GetByPairKey(ctx, pairKey)
	if err == nil {
		existing.Buddy = receiver.Public()
		return existing, nil
	}
	if !errors.Is(err, domain.ErrMatchNotFound) {
		return nil, fmt.Errorf("failed to check existing match: %w", err)
	}

	match := &domain.Match{
		ID:         uuid.NewString(),
		PairKey:    pairKey,
		SenderID:   senderID,
		ReceiverID: receiverID,
		Status:     domain.MatchPending,
		Timestamp:  uc.now().UnixMilli(),
	}
	if err := uc.matchRepo.Create(ctx, match); err != nil {
		return nil, fmt.Errorf("failed to create match: %w", err)
	}
	uc.mu.Lock()
	delete(uc.declined, pairKey)
	uc.mu.Unlock()

	uc.log.WithFields(logrus.Fields{"pair": pairKey, "sender": senderID}).Info("match request sent")

	if uc.mirror.Enabled() {
		stored := match.Stored()
		uc.replicator.Submit("match:"+pairKey, "send match "+pairKey, func(ctx context.Context) error {
			return uc.mirror.SendMatchRequest(ctx, stored)
		})
	}

	match.Buddy = receiver.Public()
	return match, nil
}

// resolveUser looks the user up locally and falls back to the mirror,
// caching what it finds.
func (uc *MatchUseCase) resolveUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) || !uc.mirror.Enabled() {
		return nil, err
	}

	remote, err := uc.mirror.GetUser(ctx, userID)
	if err != nil {
		uc.log.WithError(err).WithField("user_id", userID).Warn("remote user lookup failed")
		return nil, domain.ErrUserNotFound
	}
	if remote == nil {
		return nil, domain.ErrUserNotFound
	}
	if err := uc.userRepo.Merge(ctx, []domain.User{*remote}); err != nil {
		return nil, fmt.Errorf("failed to cache remote user: %w", err)
	}
	return remote, nil
}

// RespondToRequest accepts or declines the request with the given id. Only
// the receiver may accept; either participant may decline, which removes the
// record for both.
func (uc *MatchUseCase) RespondToRequest(ctx context.Context, userID, requestID string, action domain.RequestAction) (*domain.Match, error) {
	if action != domain.ActionAccept && action != domain.ActionDecline {
		return nil, fmt.Errorf("%w: unknown action %q", domain.ErrInvalidInput, action)
	}

	matches, err := uc.matchRepo.GetUserMatches(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get matches: %w", err)
	}
	var match *domain.Match
	for i := range matches {
		if matches[i].ID == requestID {
			match = &matches[i]
			break
		}
	}
	if match == nil {
		return nil, domain.ErrMatchNotFound
	}

	var status domain.MatchStatus
	switch action {
	case domain.ActionAccept:
		if match.ReceiverID != userID {
			return nil, domain.ErrNotRequestReceiver
		}
		status = domain.MatchAccepted
		match, err = uc.matchRepo.UpdateStatus(ctx, match.PairKey, status)
		if err != nil {
			return nil, fmt.Errorf("failed to accept match: %w", err)
		}
	case domain.ActionDecline:
		status = domain.MatchDeclined
		if err := uc.matchRepo.Delete(ctx, match.PairKey); err != nil {
			return nil, fmt.Errorf("failed to decline match: %w", err)
		}
		match.Status = status
		uc.mu.Lock()
		uc.declined[match.PairKey] = struct{}{}
		uc.mu.Unlock()
	}

	uc.log.WithFields(logrus.Fields{"pair": match.PairKey, "status": status}).Info("match request answered")

	if uc.mirror.Enabled() {
		pairKey := match.PairKey
		uc.replicator.Submit("match:"+pairKey, "update match "+pairKey, func(ctx context.Context) error {
			return uc.mirror.UpdateMatchStatus(ctx, pairKey, status)
		})
	}

	if otherID, ok := match.GetOtherUserID(userID); ok {
		if buddy, err := uc.userRepo.GetByID(ctx, otherID); err == nil {
			match.Buddy = buddy.Public()
		}
	}
	return match, nil
}

// GetMatches returns the user's matches in request order with the
// counterpart embedded as Buddy.
func (uc *MatchUseCase) GetMatches(ctx context.Context, userID string) ([]domain.Match, error) {
	matches, err := uc.matchRepo.GetUserMatches(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get matches: %w", err)
	}
	if len(matches) == 0 {
		return matches, nil
	}

	users, err := uc.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	byID := make(map[string]*domain.User, len(users))
	for i := range users {
		byID[users[i].ID] = &users[i]
	}

	for i := range matches {
		otherID, ok := matches[i].GetOtherUserID(userID)
		if !ok {
			continue
		}
		if buddy, ok := byID[otherID]; ok {
			matches[i].Buddy = buddy.Public()
		}
	}
	return matches, nil
}

// PendingIncomingCount counts pending requests the user has received
func (uc *MatchUseCase) PendingIncomingCount(ctx context.Context, userID string) (int, error) {
	matches, err := uc.matchRepo.GetUserMatches(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to get matches: %w", err)
	}
	count := 0
	for _, m := range matches {
		if m.ReceiverID == userID && m.Status == domain.MatchPending {
			count++
		}
	}
	return count, nil
}

// MatchWith returns the record shared by userID and buddyID
func (uc *MatchUseCase) MatchWith(ctx context.Context, userID, buddyID string) (*domain.Match, error) {
	match, err := uc.matchRepo.GetByPairKey(ctx, domain.PairKey(userID, buddyID))
	if err != nil {
		return nil, err
	}
	if buddy, err := uc.userRepo.GetByID(ctx, buddyID); err == nil {
		match.Buddy = buddy.Public()
	}
	return match, nil
}

// WatchMatches delivers the user's match view now and again after every
// remote change. Remote records missing locally are adopted and a remote
// accept is applied; a status never moves back from accepted to pending.
func (uc *MatchUseCase) WatchMatches(ctx context.Context, userID string, fn func([]domain.Match)) mirror.Unsubscribe {
	deliver := func() {
		matches, err := uc.GetMatches(ctx, userID)
		if err != nil {
			uc.log.WithError(err).WithField("user_id", userID).Warn("failed to load matches")
			return
		}
		fn(matches)
	}

	deliver()
	if !uc.mirror.Enabled() {
		return func() {}
	}

	return uc.mirror.ListenToMatches(ctx, userID, func(remote []domain.Match) {
		uc.reconcile(ctx, remote)
		deliver()
	})
}

func (uc *MatchUseCase) reconcile(ctx context.Context, remote []domain.Match) {
	for i := range remote {
		rm := remote[i]
		if rm.PairKey == "" {
			rm.PairKey = domain.PairKey(rm.SenderID, rm.ReceiverID)
		}
		local, err := uc.matchRepo.GetByPairKey(ctx, rm.PairKey)
		switch {
		case errors.Is(err, domain.ErrMatchNotFound):
			if uc.wasDeclined(rm.PairKey) {
				continue
			}
			if err := uc.matchRepo.Create(ctx, &rm); err != nil {
				uc.log.WithError(err).WithField("pair", rm.PairKey).Warn("failed to adopt remote match")
			}
		case err != nil:
			uc.log.WithError(err).WithField("pair", rm.PairKey).Warn("failed to read local match")
		case local.Status == domain.MatchPending && rm.Status == domain.MatchAccepted:
			if _, err := uc.matchRepo.UpdateStatus(ctx, rm.PairKey, domain.MatchAccepted); err != nil {
				uc.log.WithError(err).WithField("pair", rm.PairKey).Warn("failed to apply remote accept")
			}
		}
	}
}

func (uc *MatchUseCase) wasDeclined(pairKey string) bool {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	_, ok := uc.declined[pairKey]
	return ok
}
