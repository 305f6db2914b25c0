// Package repomanager provides the RepositoryManager for SQL backends,
// wiring together repository constructors and goose migrations.
package repomanager

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"

	"github.com/dmitrijs2005/krishisahayak/internal/dbx"
	"github.com/dmitrijs2005/krishisahayak/internal/server/migrations"
	"github.com/dmitrijs2005/krishisahayak/internal/server/repositories/chats"
	"github.com/dmitrijs2005/krishisahayak/internal/server/repositories/users"
	"github.com/dmitrijs2005/krishisahayak/internal/server/storage"
	"github.com/pressly/goose/v3"
)

// SQLRepositoryManager vends SQL-backed repositories and runs the migrations
// matching its driver.
type SQLRepositoryManager struct {
	dialect string
}

func (m *SQLRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewSQLRepository(db)
}

func (m *SQLRepositoryManager) Chats(db dbx.DBTX) chats.Repository {
	return chats.NewSQLRepository(db)
}

// gooseUp is a seam for testing the goose provider run.
var gooseUp = func(ctx context.Context, dialect goose.Dialect, db *sql.DB, fsys fs.FS) error {
	p, err := goose.NewProvider(dialect, db, fsys)
	if err != nil {
		return err
	}
	_, err = p.Up(ctx)
	return err
}

// RunMigrations applies all pending embedded migrations for the manager's dialect.
func (m *SQLRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	fsys, err := migrations.FS(m.dialect)
	if err != nil {
		return err
	}

	dialect := goose.DialectPostgres
	if m.dialect == "sqlite" {
		dialect = goose.DialectSQLite3
	}

	if err := gooseUp(ctx, dialect, db, fsys); err != nil {
		return fmt.Errorf("migrate %s: %w", m.dialect, err)
	}
	return nil
}

// NewSQLRepositoryManager constructs a RepositoryManager for driver
// ("pgx" or "sqlite").
func NewSQLRepositoryManager(driver string) (RepositoryManager, error) {
	dialect, err := storage.Dialect(driver)
	if err != nil {
		return nil, err
	}
	return &SQLRepositoryManager{dialect: dialect}, nil
}
