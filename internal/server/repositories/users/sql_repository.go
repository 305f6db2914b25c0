package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/krishisahayak/internal/common"
	"github.com/dmitrijs2005/krishisahayak/internal/dbx"
	"github.com/dmitrijs2005/krishisahayak/internal/server/models"
)

// SQLRepository stores users in the users table. Queries use '?' placeholders
// and are rebound for the underlying driver.
type SQLRepository struct {
	db dbx.DBTX
}

func NewSQLRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: db}
}

func (r *SQLRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query := r.db.Rebind(
		`INSERT INTO users (name, email, password_hash)
         VALUES (?, ?, ?)
		 RETURNING id`)

	err := r.db.QueryRowxContext(ctx, query, user.Name, user.Email, user.PasswordHash).Scan(&user.ID)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *SQLRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := r.db.Rebind(
		`SELECT id, name, email, password_hash FROM users
		 WHERE email = ?`)

	user := &models.User{}
	err := r.db.GetContext(ctx, user, query, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *SQLRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	query := r.db.Rebind(`SELECT COUNT(*) FROM users WHERE email = ?`)

	var n int
	if err := r.db.GetContext(ctx, &n, query, email); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	return n > 0, nil
}
