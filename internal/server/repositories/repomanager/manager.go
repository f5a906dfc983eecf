package repomanager

import (
	"context"
	"database/sql"

	"github.com/janegov/notesapi/internal/dbx"
	"github.com/janegov/notesapi/internal/server/repositories/notes"
	"github.com/janegov/notesapi/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Notes(db dbx.DBTX) notes.Repository
}
