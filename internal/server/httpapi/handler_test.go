package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/janegov/notesapi/internal/common"
	"github.com/janegov/notesapi/internal/server/models"
)

func doRequest(t *testing.T, srv *Server, method, target, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)
	return rec
}

func decodeErrorBody(t *testing.T, rec *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("error body is not valid JSON: %v (%q)", err, rec.Body.String())
	}
	return body
}

func TestPing(t *testing.T) {
	srv := newTestServer(t, &fakeUserService{}, &fakeNoteService{})

	rec := doRequest(t, srv, http.MethodGet, "/ping", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

// --- register / login ---

func TestRegister_ReturnsToken(t *testing.T) {
	srv := newTestServer(t, &fakeUserService{registerToken: "tok-1"}, &fakeNoteService{})

	rec := doRequest(t, srv, http.MethodPost, "/auth/register",
		`{"email":"a@x.com","password":"secret1","confirmPassword":"secret1"}`, "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp tokenResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil || resp.Token != "tok-1" {
		t.Fatalf("body = %q, want token tok-1 (err %v)", rec.Body.String(), err)
	}
}

func TestRegister_ValidationBodyShape(t *testing.T) {
	ve := &common.ValidationError{}
	ve.Add("password", "Password must be at least 6 characters long")
	srv := newTestServer(t, &fakeUserService{registerErr: ve}, &fakeNoteService{})

	rec := doRequest(t, srv, http.MethodPost, "/auth/register",
		`{"email":"a@x.com","password":"12345","confirmPassword":"12345"}`, "")

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	body := decodeErrorBody(t, rec)
	if body.Message != "Validation failed" {
		t.Fatalf("message = %q", body.Message)
	}
	if len(body.Errors) != 1 || body.Errors[0].Field != "password" {
		t.Fatalf("unexpected field errors: %+v", body.Errors)
	}
	if body.Errors[0].Message != "Password must be at least 6 characters long" {
		t.Fatalf("unexpected field message: %q", body.Errors[0].Message)
	}
}

func TestRegister_MalformedJSON(t *testing.T) {
	srv := newTestServer(t, &fakeUserService{}, &fakeNoteService{})

	rec := doRequest(t, srv, http.MethodPost, "/auth/register", `{not json`, "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestLogin_BadCredentialsAreBare401(t *testing.T) {
	srv := newTestServer(t, &fakeUserService{loginErr: common.ErrorUnauthorized}, &fakeNoteService{})

	rec := doRequest(t, srv, http.MethodPost, "/auth/login",
		`{"email":"a@x.com","password":"wrong"}`, "")

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Fatalf("401 must carry no body, got %q", rec.Body.String())
	}
}

func TestLogin_ReturnsToken(t *testing.T) {
	srv := newTestServer(t, &fakeUserService{loginToken: "tok-2"}, &fakeNoteService{})

	rec := doRequest(t, srv, http.MethodPost, "/auth/login",
		`{"email":"a@x.com","password":"secret1"}`, "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp tokenResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil || resp.Token != "tok-2" {
		t.Fatalf("body = %q (err %v)", rec.Body.String(), err)
	}
}

// --- notes ---

func authed(verifyID string) *fakeUserService {
	return &fakeUserService{verifyUserID: verifyID}
}

func TestListNotes_ReturnsArray(t *testing.T) {
	ns := &fakeNoteService{listOut: []*models.Note{
		{ID: 2, UserID: "u-1", Title: "b", Description: "d2", CreatedAt: time.Now().UTC(), Version: 1},
		{ID: 1, UserID: "u-1", Title: "a", Description: "d1", CreatedAt: time.Now().UTC(), Version: 1},
	}}
	srv := newTestServer(t, authed("u-1"), ns)

	rec := doRequest(t, srv, http.MethodGet, "/notes", "", "tok")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp []noteResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("body is not a JSON array: %v (%q)", err, rec.Body.String())
	}
	if len(resp) != 2 || resp[0].ID != 2 || resp[0].UserID != "u-1" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestListNotes_EmptyIsJSONArray(t *testing.T) {
	srv := newTestServer(t, authed("u-1"), &fakeNoteService{})

	rec := doRequest(t, srv, http.MethodGet, "/notes", "", "tok")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != "[]" {
		t.Fatalf("empty result must serialize as [], got %q", got)
	}
}

func TestListNotes_FilterParsing(t *testing.T) {
	ns := &fakeNoteService{}
	srv := newTestServer(t, authed("u-1"), ns)

	rec := doRequest(t, srv, http.MethodGet,
		"/notes?search=groc&fromDate=2025-01-01&toDate=2025-01-31", "", "tok")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	f := ns.listFilter
	if f.Search != "groc" {
		t.Fatalf("search = %q", f.Search)
	}
	if f.FromDate == nil || !f.FromDate.Equal(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("fromDate = %v", f.FromDate)
	}
	// a bare toDate covers the whole named day
	wantTo := time.Date(2025, 1, 31, 23, 59, 59, int(time.Second-time.Nanosecond), time.UTC)
	if f.ToDate == nil || !f.ToDate.Equal(wantTo) {
		t.Fatalf("toDate = %v, want %v", f.ToDate, wantTo)
	}
}

func TestListNotes_InvalidDate(t *testing.T) {
	srv := newTestServer(t, authed("u-1"), &fakeNoteService{})

	rec := doRequest(t, srv, http.MethodGet, "/notes?fromDate=not-a-date", "", "tok")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	body := decodeErrorBody(t, rec)
	if len(body.Errors) != 1 || body.Errors[0].Field != "fromDate" {
		t.Fatalf("unexpected field errors: %+v", body.Errors)
	}
}

func TestGetNote_Found(t *testing.T) {
	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	ns := &fakeNoteService{getOut: &models.Note{
		ID: 7, UserID: "u-1", Title: "Groceries", Description: "Milk", CreatedAt: created, Version: 1,
	}}
	srv := newTestServer(t, authed("u-1"), ns)

	rec := doRequest(t, srv, http.MethodGet, "/notes/7", "", "tok")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ns.getID != 7 || ns.getOwner != "u-1" {
		t.Fatalf("service called with id=%d owner=%q", ns.getID, ns.getOwner)
	}

	var resp noteResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid body: %v", err)
	}
	if resp.ID != 7 || resp.Title != "Groceries" || resp.UserID != "u-1" || !resp.CreatedAt.Equal(created) {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestGetNote_MissingOrForeignIsBare404(t *testing.T) {
	srv := newTestServer(t, authed("u-2"), &fakeNoteService{getErr: common.ErrorNotFound})

	rec := doRequest(t, srv, http.MethodGet, "/notes/7", "", "tok")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Fatalf("404 must carry no body, got %q", rec.Body.String())
	}
}

func TestGetNote_NonNumericIDIs404(t *testing.T) {
	srv := newTestServer(t, authed("u-1"), &fakeNoteService{})

	rec := doRequest(t, srv, http.MethodGet, "/notes/abc", "", "tok")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestCreateNote_201WithLocation(t *testing.T) {
	ns := &fakeNoteService{createOut: &models.Note{
		ID: 42, UserID: "u-1", Title: "t", Description: "d", CreatedAt: time.Now().UTC(), Version: 1,
	}}
	srv := newTestServer(t, authed("u-1"), ns)

	rec := doRequest(t, srv, http.MethodPost, "/notes",
		`{"title":"t","description":"d"}`, "tok")

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/notes/42" {
		t.Fatalf("Location = %q, want /notes/42", loc)
	}
	var resp noteResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil || resp.ID != 42 {
		t.Fatalf("body = %q (err %v)", rec.Body.String(), err)
	}
}

func TestCreateNote_Validation400(t *testing.T) {
	ve := &common.ValidationError{}
	ve.Add("title", "Title is required")
	srv := newTestServer(t, authed("u-1"), &fakeNoteService{createErr: ve})

	rec := doRequest(t, srv, http.MethodPost, "/notes",
		`{"title":"","description":"d"}`, "tok")

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	body := decodeErrorBody(t, rec)
	if len(body.Errors) != 1 || body.Errors[0].Message != "Title is required" {
		t.Fatalf("unexpected field errors: %+v", body.Errors)
	}
}

func TestUpdateNote_NoContent(t *testing.T) {
	srv := newTestServer(t, authed("u-1"), &fakeNoteService{})

	rec := doRequest(t, srv, http.MethodPut, "/notes/7",
		`{"title":"t2","description":"d2"}`, "tok")

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
}

func TestUpdateNote_MatchingBodyIDAccepted(t *testing.T) {
	srv := newTestServer(t, authed("u-1"), &fakeNoteService{})

	rec := doRequest(t, srv, http.MethodPut, "/notes/7",
		`{"id":7,"title":"t2","description":"d2"}`, "tok")

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
}

func TestUpdateNote_BodyIDMismatchIs400(t *testing.T) {
	srv := newTestServer(t, authed("u-1"), &fakeNoteService{})

	rec := doRequest(t, srv, http.MethodPut, "/notes/7",
		`{"id":8,"title":"t2","description":"d2"}`, "tok")

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestUpdateNote_ConflictIs409(t *testing.T) {
	srv := newTestServer(t, authed("u-1"), &fakeNoteService{updateErr: common.ErrVersionConflict})

	rec := doRequest(t, srv, http.MethodPut, "/notes/7",
		`{"title":"t2","description":"d2"}`, "tok")

	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
	body := decodeErrorBody(t, rec)
	if body.Message == "" {
		t.Fatal("conflict response must carry a message")
	}
}

func TestDeleteNote_NoContent(t *testing.T) {
	srv := newTestServer(t, authed("u-1"), &fakeNoteService{})

	rec := doRequest(t, srv, http.MethodDelete, "/notes/7", "", "tok")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
}

func TestDeleteNote_MissingIs404(t *testing.T) {
	srv := newTestServer(t, authed("u-1"), &fakeNoteService{deleteErr: common.ErrorNotFound})

	rec := doRequest(t, srv, http.MethodDelete, "/notes/7", "", "tok")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestUnexpectedErrorIsGeneric500(t *testing.T) {
	srv := newTestServer(t, authed("u-1"), &fakeNoteService{listErr: errors.New("pq: connection reset")})

	rec := doRequest(t, srv, http.MethodGet, "/notes", "", "tok")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	body := decodeErrorBody(t, rec)
	if body.Message != "An error occurred while processing your request." {
		t.Fatalf("message = %q", body.Message)
	}
	if strings.Contains(rec.Body.String(), "connection reset") {
		t.Fatal("internal error details must not leak to the client")
	}
}
