package chats

import (
	"context"

	"github.com/dmitrijs2005/krishisahayak/internal/server/models"
)

// Repository is the chat ledger: one row per exchange, grouped by thread id.
type Repository interface {
	Append(ctx context.Context, entry *models.ChatEntry) error
	ListThreads(ctx context.Context, userID int64) ([]models.ThreadSummary, error)
	ThreadEntries(ctx context.Context, userID int64, threadID string) ([]models.ChatEntry, error)
	DeleteThread(ctx context.Context, userID int64, threadID string) (int64, error)
}
