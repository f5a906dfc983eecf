package users

import (
	"context"

	"github.com/janegov/notesapi/internal/server/models"
)

// Repository is the credential store: identity records keyed by id, with
// case-insensitively unique emails.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}
