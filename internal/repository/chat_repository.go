package repository

import (
	"context"

	"github.com/gdugdh24/fitmatch-backend/internal/domain"
)

type ChatRepository interface {
	// List returns the log of the pair, oldest first. Absent logs are empty.
	List(ctx context.Context, pairKey string) ([]domain.ChatMessage, error)
	Append(ctx context.Context, pairKey string, message domain.ChatMessage) error
	// Merge adds the messages whose id is not in the log yet, keeps the log
	// ordered by timestamp and returns the merged log.
	Merge(ctx context.Context, pairKey string, messages []domain.ChatMessage) ([]domain.ChatMessage, error)
}
