package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/krishisahayak/internal/dbx"
	"github.com/dmitrijs2005/krishisahayak/internal/server/repositories/chats"
	"github.com/dmitrijs2005/krishisahayak/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Chats(db dbx.DBTX) chats.Repository
}
