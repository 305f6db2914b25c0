package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/krishisahayak/internal/common"
	"github.com/dmitrijs2005/krishisahayak/internal/logging"
	"github.com/dmitrijs2005/krishisahayak/internal/server/models"
	"github.com/dmitrijs2005/krishisahayak/internal/server/repositories/repomanager"
	"github.com/jmoiron/sqlx"
)

// ThreadService reads and deletes chat threads. Every query is scoped to the
// calling user, so a thread id shared by two users never crosses over.
type ThreadService struct {
	db          *sqlx.DB
	repomanager repomanager.RepositoryManager
	log         logging.Logger
}

func NewThreadService(db *sqlx.DB, m repomanager.RepositoryManager, log logging.Logger) *ThreadService {
	return &ThreadService{db: db, repomanager: m, log: log.With("module", "threads")}
}

// List returns the user's threads, newest first, each titled by its first message.
func (s *ThreadService) List(ctx context.Context, userID int64) ([]models.ThreadSummary, error) {
	if userID <= 0 {
		return nil, common.ErrInvalidUserID
	}

	threads, err := s.repomanager.Chats(s.db).ListThreads(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrPersistence, err)
	}
	return threads, nil
}

// Get returns the thread's messages in chronological order. An unknown thread
// is not an error and comes back with no messages.
func (s *ThreadService) Get(ctx context.Context, userID int64, threadID string) (*models.Thread, error) {
	if threadID == "" {
		return nil, common.NewValidationError("threadId", "Thread ID required.")
	}
	if userID <= 0 {
		return nil, common.ErrInvalidUserID
	}

	entries, err := s.repomanager.Chats(s.db).ThreadEntries(ctx, userID, threadID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrPersistence, err)
	}

	return &models.Thread{ID: threadID, Messages: models.Expand(entries)}, nil
}

// Delete removes the whole thread. Nothing to remove yields common.ErrorNotFound.
func (s *ThreadService) Delete(ctx context.Context, userID int64, threadID string) (int64, error) {
	if userID <= 0 {
		return 0, common.ErrInvalidUserID
	}
	if threadID == "" {
		return 0, common.NewValidationError("threadId", "Thread ID required for deletion.")
	}

	n, err := s.repomanager.Chats(s.db).DeleteThread(ctx, userID, threadID)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", common.ErrPersistence, err)
	}
	if n == 0 {
		return 0, common.ErrorNotFound
	}

	s.log.Info(ctx, "thread deleted", "user_id", userID, "thread_id", threadID, "rows", n)
	return n, nil
}
