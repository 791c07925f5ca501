package chat

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/gdugdh24/fitmatch-backend/internal/domain"
	"github.com/gdugdh24/fitmatch-backend/internal/infrastructure/mirror"
	"github.com/gdugdh24/fitmatch-backend/internal/infrastructure/replication"
	"github.com/gdugdh24/fitmatch-backend/internal/repository"
)

const MaxMessageLength = 2000

type ChatUseCase struct {
	chatRepo   repository.ChatRepository
	userRepo   repository.UserRepository
	mirror     mirror.Mirror
	replicator *replication.Replicator
	log        logrus.FieldLogger
	now        func() time.Time
}

func NewChatUseCase(
	chatRepo repository.ChatRepository,
	userRepo repository.UserRepository,
	m mirror.Mirror,
	replicator *replication.Replicator,
	log logrus.FieldLogger,
) *ChatUseCase {
	return &ChatUseCase{
		chatRepo:   chatRepo,
		userRepo:   userRepo,
		mirror:     m,
		replicator: replicator,
		log:        log,
		now:        time.Now,
	}
}

// SendMessageRequest represents a new chat message
type SendMessageRequest struct {
	Text string `json:"text" binding:"required"`
}

// GetChats returns the conversation between userID and buddyID, oldest first
func (uc *ChatUseCase) GetChats(ctx context.Context, userID, buddyID string) ([]domain.ChatMessage, error) {
	messages, err := uc.chatRepo.List(ctx, domain.PairKey(userID, buddyID))
	if err != nil {
		return nil, fmt.Errorf("failed to get chats: %w", err)
	}
	return messages, nil
}

// SaveChat appends message to the pair's log and mirrors it
func (uc *ChatUseCase) SaveChat(ctx context.Context, userID, buddyID string, message domain.ChatMessage) error {
	pairKey := domain.PairKey(userID, buddyID)
	if err := uc.chatRepo.Append(ctx, pairKey, message); err != nil {
		return fmt.Errorf("failed to save chat: %w", err)
	}

	if uc.mirror.Enabled() {
		uc.replicator.Submit("chat:"+pairKey, "send message "+pairKey, func(ctx context.Context) error {
			return uc.mirror.SendMessage(ctx, pairKey, message)
		})
	}
	return nil
}

// Send builds a message from userID to buddyID and saves it
func (uc *ChatUseCase) Send(ctx context.Context, userID, buddyID, text string) (*domain.ChatMessage, error) {
	if strings.TrimSpace(text) == "" || len(text) > MaxMessageLength || userID == buddyID {
		return nil, domain.ErrInvalidInput
	}
	if _, err := uc.userRepo.GetByID(ctx, buddyID); err != nil {
		return nil, err
	}

	now := uc.now()
	message := domain.ChatMessage{
		ID:        strconv.FormatInt(now.UnixMilli(), 10),
		SenderID:  userID,
		Text:      text,
		Timestamp: now,
	}
	if err := uc.SaveChat(ctx, userID, buddyID, message); err != nil {
		return nil, err
	}

	uc.log.WithFields(logrus.Fields{"sender": userID, "buddy": buddyID}).Debug("message sent")
	return &message, nil
}

// WatchChat delivers the local log once and then the log merged with every
// remote snapshot. Messages only known locally are kept.
func (uc *ChatUseCase) WatchChat(ctx context.Context, userID, buddyID string, fn func([]domain.ChatMessage)) mirror.Unsubscribe {
	pairKey := domain.PairKey(userID, buddyID)

	local, err := uc.chatRepo.List(ctx, pairKey)
	if err != nil {
		uc.log.WithError(err).WithField("pair", pairKey).Warn("failed to load chat")
	} else {
		fn(local)
	}

	if !uc.mirror.Enabled() {
		return func() {}
	}

	return uc.mirror.ListenToChat(ctx, pairKey, func(remote []domain.ChatMessage) {
		merged, err := uc.chatRepo.Merge(ctx, pairKey, remote)
		if err != nil {
			uc.log.WithError(err).WithField("pair", pairKey).Warn("failed to store remote chat")
			return
		}
		fn(merged)
	})
}
