package services

import (
	"context"
	"database/sql"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/krishisahayak/internal/dbx"
	"github.com/dmitrijs2005/krishisahayak/internal/server/models"
	"github.com/dmitrijs2005/krishisahayak/internal/server/repositories/chats"
	"github.com/dmitrijs2005/krishisahayak/internal/server/repositories/users"
	"github.com/jmoiron/sqlx"
)

// --- helpers ---

func newSQLMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return sqlx.NewDb(db, "pgx"), mock
}

type fakeUsersRepo struct {
	existsOut bool
	existsErr error

	createID  int64
	createErr error
	created   *models.User

	getOut *models.User
	getErr error
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	u.ID = f.createID
	f.created = u
	return u, nil
}

func (f *fakeUsersRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

func (f *fakeUsersRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return f.existsOut, f.existsErr
}

type fakeChatsRepo struct {
	mu       sync.Mutex
	appended []models.ChatEntry
	ctxErr   error // ctx.Err() observed at Append

	appendErr error

	listOut []models.ThreadSummary
	listErr error

	entriesOut []models.ChatEntry
	entriesErr error

	deleteOut int64
	deleteErr error
	deleted   []string
}

func (f *fakeChatsRepo) Append(ctx context.Context, e *models.ChatEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ctxErr = ctx.Err()
	if f.appendErr != nil {
		return f.appendErr
	}
	f.appended = append(f.appended, *e)
	return nil
}

func (f *fakeChatsRepo) ListThreads(ctx context.Context, userID int64) ([]models.ThreadSummary, error) {
	return f.listOut, f.listErr
}

func (f *fakeChatsRepo) ThreadEntries(ctx context.Context, userID int64, threadID string) ([]models.ChatEntry, error) {
	return f.entriesOut, f.entriesErr
}

func (f *fakeChatsRepo) DeleteThread(ctx context.Context, userID int64, threadID string) (int64, error) {
	f.deleted = append(f.deleted, threadID)
	return f.deleteOut, f.deleteErr
}

type fakeRepoManager struct {
	u *fakeUsersRepo
	c *fakeChatsRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) users.Repository           { return m.u }
func (m *fakeRepoManager) Chats(db dbx.DBTX) chats.Repository           { return m.c }

type fakeGenerator struct {
	reply string
	err   error

	gotPrompt string
	gotMime   string
	gotImage  []byte
	calls     int
}

func (g *fakeGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	g.calls++
	g.gotPrompt = prompt
	return g.reply, g.err
}

func (g *fakeGenerator) GenerateFromImage(ctx context.Context, image []byte, mimeType, prompt string) (string, error) {
	g.calls++
	g.gotPrompt, g.gotMime, g.gotImage = prompt, mimeType, image
	return g.reply, g.err
}
