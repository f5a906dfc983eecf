package notes

import (
	"context"

	"github.com/janegov/notesapi/internal/server/models"
)

// Repository is the note store. Every read and write is scoped by the owner
// id; a note is invisible to any other owner.
type Repository interface {
	Create(ctx context.Context, note *models.Note) (*models.Note, error)
	GetByOwner(ctx context.Context, id int64, ownerID string) (*models.Note, error)
	ListByOwner(ctx context.Context, ownerID string, filter models.NoteFilter) ([]*models.Note, error)
	Update(ctx context.Context, note *models.Note) error
	Delete(ctx context.Context, id int64, ownerID string) error
}
