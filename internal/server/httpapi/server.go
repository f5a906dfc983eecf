// Package httpapi is the HTTP boundary of the notes API. It wires verified
// identity into note operations and shapes success and error responses; all
// business rules live in the services layer.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/janegov/notesapi/internal/logging"
	"github.com/janegov/notesapi/internal/server/models"
)

// userService is the slice of UserService the HTTP layer needs.
type userService interface {
	Register(ctx context.Context, email, password, confirmPassword string) (string, error)
	Login(ctx context.Context, email, password string) (string, error)
	VerifyToken(token string) (string, error)
}

// noteService is the slice of NoteService the HTTP layer needs. The ownerID
// argument always comes from the verified token, never from the request body.
type noteService interface {
	List(ctx context.Context, ownerID string, filter models.NoteFilter) ([]*models.Note, error)
	Get(ctx context.Context, ownerID string, id int64) (*models.Note, error)
	Create(ctx context.Context, ownerID string, title, description string) (*models.Note, error)
	Update(ctx context.Context, ownerID string, id int64, title, description string) error
	Delete(ctx context.Context, ownerID string, id int64) error
}

// Server serves the public HTTP API.
type Server struct {
	address string
	logger  logging.Logger
	users   userService
	notes   noteService
}

// NewServer constructs a Server listening on address once Run is called.
func NewServer(address string, l logging.Logger, us userService, ns noteService) (*Server, error) {
	return &Server{
		address: address,
		logger:  l.With("module", "http_server"),
		users:   us,
		notes:   ns,
	}, nil
}

// Routes builds the request multiplexer. Exposed separately so tests can
// drive the full routing table through httptest without a listener.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /ping", s.handlePing)
	mux.HandleFunc("POST /auth/register", s.handleRegister)
	mux.HandleFunc("POST /auth/login", s.handleLogin)

	mux.Handle("GET /notes", s.requireAuth(s.handleListNotes))
	mux.Handle("POST /notes", s.requireAuth(s.handleCreateNote))
	mux.Handle("GET /notes/{id}", s.requireAuth(s.handleGetNote))
	mux.Handle("PUT /notes/{id}", s.requireAuth(s.handleUpdateNote))
	mux.Handle("DELETE /notes/{id}", s.requireAuth(s.handleDeleteNote))

	return s.logRequests(mux)
}

// Run starts the HTTP server and blocks until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
