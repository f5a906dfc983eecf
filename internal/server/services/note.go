package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/janegov/notesapi/internal/common"
	"github.com/janegov/notesapi/internal/dbx"
	"github.com/janegov/notesapi/internal/server/models"
	"github.com/janegov/notesapi/internal/server/repositories/repomanager"
)

// maxTitleLength caps note titles, counted in characters, not bytes.
const maxTitleLength = 100

// NoteService implements owner-scoped note CRUD. Every method takes the
// acting user's id (extracted from the verified token) as its first argument;
// that id is the only ownership key ever consulted — ids or owner fields in
// client payloads are ignored.
type NoteService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

// NewNoteService constructs a NoteService using the given repositories.
func NewNoteService(db *sql.DB, m repomanager.RepositoryManager) *NoteService {
	return &NoteService{
		db:          db,
		repomanager: m,
	}
}

// List returns the owner's notes, newest first, optionally narrowed by the
// filter. Notes of other users never appear, whatever the filter.
func (s *NoteService) List(ctx context.Context, ownerID string, filter models.NoteFilter) ([]*models.Note, error) {
	repo := s.repomanager.Notes(s.db)
	result, err := repo.ListByOwner(ctx, ownerID, filter)
	if err != nil {
		return nil, fmt.Errorf("error listing notes: %w", err)
	}
	if result == nil {
		result = []*models.Note{}
	}
	return result, nil
}

// Get returns the note with the given id if the owner owns it. True absence
// and foreign ownership are both common.ErrorNotFound.
func (s *NoteService) Get(ctx context.Context, ownerID string, id int64) (*models.Note, error) {
	repo := s.repomanager.Notes(s.db)
	note, err := repo.GetByOwner(ctx, id, ownerID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error getting note: %w", err)
	}
	return note, nil
}

// Create validates the input and persists a new note owned by ownerID. The
// creation timestamp and id are assigned by the store, never by the client.
func (s *NoteService) Create(ctx context.Context, ownerID string, title, description string) (*models.Note, error) {
	if err := validateNote(title, description); err != nil {
		return nil, err
	}

	note := &models.Note{
		UserID:      ownerID,
		Title:       title,
		Description: description,
	}

	repo := s.repomanager.Notes(s.db)
	n, err := repo.Create(ctx, note)
	if err != nil {
		return nil, fmt.Errorf("error creating note: %w", err)
	}
	return n, nil
}

// Update rewrites title and description of the owner's note. Read and write
// run in one transaction: the read yields the dual-condition NotFound, the
// write is conditioned on the version it read. If a concurrent writer got in
// between, the write changes nothing: the record is re-checked and the outcome
// is common.ErrorNotFound when it vanished, common.ErrVersionConflict
// otherwise. The caller is expected to re-fetch and retry; nothing is
// overwritten silently.
func (s *NoteService) Update(ctx context.Context, ownerID string, id int64, title, description string) error {
	if err := validateNote(title, description); err != nil {
		return err
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Notes(tx)

		note, err := repo.GetByOwner(ctx, id, ownerID)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrorNotFound
			}
			return fmt.Errorf("error getting note: %w", err)
		}

		note.Title = title
		note.Description = description

		err = repo.Update(ctx, note)
		if err != nil {
			if errors.Is(err, common.ErrVersionConflict) {
				if _, getErr := repo.GetByOwner(ctx, id, ownerID); errors.Is(getErr, common.ErrorNotFound) {
					return common.ErrorNotFound
				}
				return common.ErrVersionConflict
			}
			return fmt.Errorf("error updating note: %w", err)
		}
		return nil
	})
}

// Delete removes the owner's note. A second delete of the same id reports
// common.ErrorNotFound, exactly like deleting a note that never existed.
func (s *NoteService) Delete(ctx context.Context, ownerID string, id int64) error {
	repo := s.repomanager.Notes(s.db)
	err := repo.Delete(ctx, id, ownerID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("error deleting note: %w", err)
	}
	return nil
}

func validateNote(title, description string) error {
	ve := &common.ValidationError{}

	if title == "" {
		ve.Add("title", "Title is required")
	} else if utf8.RuneCountInString(title) > maxTitleLength {
		ve.Add("title", "Title cannot be longer than 100 characters")
	}

	if description == "" {
		ve.Add("description", "Description is required")
	}

	if ve.HasErrors() {
		return ve
	}
	return nil
}
