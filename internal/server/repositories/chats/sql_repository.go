package chats

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/krishisahayak/internal/dbx"
	"github.com/dmitrijs2005/krishisahayak/internal/server/models"
)

type SQLRepository struct {
	db dbx.DBTX
}

func NewSQLRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: db}
}

func (r *SQLRepository) Append(ctx context.Context, entry *models.ChatEntry) error {
	query := r.db.Rebind(
		`INSERT INTO chat_history (user_id, thread_id, message, response, created_at)
         VALUES (?, ?, ?, ?, ?)`)

	_, err := r.db.ExecContext(ctx, query,
		entry.UserID, entry.ThreadID, entry.Message, entry.Response, entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

// ListThreads returns one row per thread of the user, titled with the
// thread's earliest message, most recently started thread first. Entries
// with equal timestamps are ordered by id.
func (r *SQLRepository) ListThreads(ctx context.Context, userID int64) ([]models.ThreadSummary, error) {
	query := r.db.Rebind(
		`SELECT thread_id, title FROM (
			SELECT thread_id, message AS title, created_at, id,
			       ROW_NUMBER() OVER (PARTITION BY thread_id ORDER BY created_at ASC, id ASC) AS rn
			FROM chat_history
			WHERE user_id = ?
		 ) first_entries
		 WHERE rn = 1
		 ORDER BY created_at DESC, id DESC`)

	threads := []models.ThreadSummary{}
	if err := r.db.SelectContext(ctx, &threads, query, userID); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return threads, nil
}

func (r *SQLRepository) ThreadEntries(ctx context.Context, userID int64, threadID string) ([]models.ChatEntry, error) {
	query := r.db.Rebind(
		`SELECT message, response FROM chat_history
		 WHERE user_id = ? AND thread_id = ?
		 ORDER BY created_at ASC, id ASC`)

	entries := []models.ChatEntry{}
	if err := r.db.SelectContext(ctx, &entries, query, userID, threadID); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return entries, nil
}

// DeleteThread removes every entry of the thread and reports how many rows went.
func (r *SQLRepository) DeleteThread(ctx context.Context, userID int64, threadID string) (int64, error) {
	query := r.db.Rebind(`DELETE FROM chat_history WHERE user_id = ? AND thread_id = ?`)

	res, err := r.db.ExecContext(ctx, query, userID, threadID)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	return n, nil
}
