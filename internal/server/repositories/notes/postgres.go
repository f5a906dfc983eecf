// Package notes provides the PostgreSQL-backed, owner-scoped note store.
package notes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/janegov/notesapi/internal/common"
	"github.com/janegov/notesapi/internal/dbx"
	"github.com/janegov/notesapi/internal/server/models"
)

// PostgresRepository implements note storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// likeEscaper neutralizes LIKE metacharacters in search input so the term
// only ever matches literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Create inserts a note and returns it with the store-assigned id, creation
// timestamp, and initial version. UserID must already be set by the caller.
func (r *PostgresRepository) Create(ctx context.Context, note *models.Note) (*models.Note, error) {

	query :=
		`INSERT INTO notes (user_id, title, description)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at, version
		 `

	err := r.db.QueryRowContext(ctx, query,
		note.UserID, note.Title, note.Description).Scan(&note.ID, &note.CreatedAt, &note.Version)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return note, nil
}

// GetByOwner returns the note with the given id if it belongs to ownerID.
// A missing note and a note owned by someone else are both reported as
// common.ErrorNotFound, indistinguishably.
func (r *PostgresRepository) GetByOwner(ctx context.Context, id int64, ownerID string) (*models.Note, error) {
	query :=
		`SELECT id, user_id, title, description, created_at, version FROM notes
		 WHERE id = $1 AND user_id = $2
		 `

	note := &models.Note{}
	err := r.db.QueryRowContext(ctx, query, id, ownerID).Scan(
		&note.ID, &note.UserID, &note.Title, &note.Description, &note.CreatedAt, &note.Version)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return note, nil
}

// ListByOwner returns ownerID's notes, newest first. The ordering is fixed;
// clients cannot change it. The filter narrows by case-insensitive substring
// match on the title (ILIKE) and by inclusive creation-date bounds.
func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID string, filter models.NoteFilter) ([]*models.Note, error) {

	conds := []string{"user_id = $1"}
	args := []any{ownerID}

	if filter.Search != "" {
		args = append(args, likeEscaper.Replace(filter.Search))
		conds = append(conds, `title ILIKE '%' || $`+strconv.Itoa(len(args))+` || '%' ESCAPE '\'`)
	}
	if filter.FromDate != nil {
		args = append(args, *filter.FromDate)
		conds = append(conds, "created_at >= $"+strconv.Itoa(len(args)))
	}
	if filter.ToDate != nil {
		args = append(args, *filter.ToDate)
		conds = append(conds, "created_at <= $"+strconv.Itoa(len(args)))
	}

	query := `SELECT id, user_id, title, description, created_at, version FROM notes
		 WHERE ` + strings.Join(conds, " AND ") + `
		 ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Note
	for rows.Next() {
		var item models.Note
		if err := rows.Scan(
			&item.ID, &item.UserID, &item.Title, &item.Description, &item.CreatedAt, &item.Version,
		); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Update rewrites title and description of the note identified by id, owner,
// and version. If no row matches (the note vanished, changed hands, or was
// concurrently modified) nothing is written and common.ErrVersionConflict is
// returned; the caller disambiguates by re-reading.
func (r *PostgresRepository) Update(ctx context.Context, note *models.Note) error {
	query := `
		UPDATE notes
		SET title = $1, description = $2, version = version + 1
		WHERE id = $3 AND user_id = $4 AND version = $5
	`
	res, err := r.db.ExecContext(ctx, query,
		note.Title, note.Description, note.ID, note.UserID, note.Version)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	switch n {
	case 1:
		return nil
	case 0:
		return common.ErrVersionConflict
	default:
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
}

// Delete removes the note if it belongs to ownerID. Deleting a note that is
// absent or owned by someone else yields common.ErrorNotFound, so a repeated
// delete is reported the same way as a delete of a foreign note.
func (r *PostgresRepository) Delete(ctx context.Context, id int64, ownerID string) error {
	query := `DELETE FROM notes WHERE id = $1 AND user_id = $2`

	res, err := r.db.ExecContext(ctx, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
