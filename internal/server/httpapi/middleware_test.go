package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/janegov/notesapi/internal/common"
	"github.com/janegov/notesapi/internal/logging"
	"github.com/janegov/notesapi/internal/server/models"
)

// ---- test doubles ----

type nopLogger struct{}

func (nopLogger) Debug(ctx context.Context, msg string, args ...any) {}
func (nopLogger) Info(ctx context.Context, msg string, args ...any)  {}
func (nopLogger) Warn(ctx context.Context, msg string, args ...any)  {}
func (nopLogger) Error(ctx context.Context, msg string, args ...any) {}
func (l nopLogger) With(args ...any) logging.Logger                  { return l }

func newTestServer(t *testing.T, us userService, ns noteService) *Server {
	t.Helper()
	srv, err := NewServer(":0", nopLogger{}, us, ns)
	if err != nil {
		t.Fatalf("NewServer error: %v", err)
	}
	return srv
}

type fakeUserService struct {
	registerToken string
	registerErr   error

	loginToken string
	loginErr   error

	verifyUserID string
	verifyErr    error
	verifiedTok  string // captures the token passed to VerifyToken
}

func (f *fakeUserService) Register(ctx context.Context, email, password, confirm string) (string, error) {
	if f.registerErr != nil {
		return "", f.registerErr
	}
	return f.registerToken, nil
}

func (f *fakeUserService) Login(ctx context.Context, email, password string) (string, error) {
	if f.loginErr != nil {
		return "", f.loginErr
	}
	return f.loginToken, nil
}

func (f *fakeUserService) VerifyToken(token string) (string, error) {
	f.verifiedTok = token
	if f.verifyErr != nil {
		return "", f.verifyErr
	}
	return f.verifyUserID, nil
}

type fakeNoteService struct {
	listOut    []*models.Note
	listErr    error
	listOwner  string // captures the owner passed to List
	listFilter models.NoteFilter

	getOut   *models.Note
	getErr   error
	getOwner string
	getID    int64

	createOut *models.Note
	createErr error

	updateErr error
	deleteErr error
}

func (f *fakeNoteService) List(ctx context.Context, ownerID string, filter models.NoteFilter) ([]*models.Note, error) {
	f.listOwner = ownerID
	f.listFilter = filter
	if f.listErr != nil {
		return nil, f.listErr
	}
	if f.listOut == nil {
		return []*models.Note{}, nil
	}
	return f.listOut, nil
}

func (f *fakeNoteService) Get(ctx context.Context, ownerID string, id int64) (*models.Note, error) {
	f.getOwner = ownerID
	f.getID = id
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

func (f *fakeNoteService) Create(ctx context.Context, ownerID string, title, description string) (*models.Note, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.createOut, nil
}

func (f *fakeNoteService) Update(ctx context.Context, ownerID string, id int64, title, description string) error {
	return f.updateErr
}

func (f *fakeNoteService) Delete(ctx context.Context, ownerID string, id int64) error {
	return f.deleteErr
}

// ---- middleware tests ----

func TestRequireAuth_MissingHeader(t *testing.T) {
	srv := newTestServer(t, &fakeUserService{}, &fakeNoteService{})

	req := httptest.NewRequest(http.MethodGet, "/notes", nil)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Fatalf("401 must be bare, got body %q", rec.Body.String())
	}
}

func TestRequireAuth_NonBearerScheme(t *testing.T) {
	srv := newTestServer(t, &fakeUserService{}, &fakeNoteService{})

	req := httptest.NewRequest(http.MethodGet, "/notes", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwdw==")
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestRequireAuth_InvalidToken(t *testing.T) {
	us := &fakeUserService{verifyErr: common.ErrInvalidToken}
	srv := newTestServer(t, us, &fakeNoteService{})

	req := httptest.NewRequest(http.MethodGet, "/notes", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if us.verifiedTok != "garbage" {
		t.Fatalf("middleware must pass the raw token to the verifier, got %q", us.verifiedTok)
	}
}

func TestRequireAuth_ExpiredToken(t *testing.T) {
	us := &fakeUserService{verifyErr: common.ErrTokenExpired}
	srv := newTestServer(t, us, &fakeNoteService{})

	req := httptest.NewRequest(http.MethodGet, "/notes", nil)
	req.Header.Set("Authorization", "Bearer expired-token")
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestRequireAuth_InjectsSubjectAsOwner(t *testing.T) {
	us := &fakeUserService{verifyUserID: "u-9"}
	ns := &fakeNoteService{}
	srv := newTestServer(t, us, ns)

	req := httptest.NewRequest(http.MethodGet, "/notes", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ns.listOwner != "u-9" {
		t.Fatalf("owner must be the token subject, got %q", ns.listOwner)
	}
}
