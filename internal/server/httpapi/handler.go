package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/janegov/notesapi/internal/server/models"
)

type registerRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

type noteRequest struct {
	ID          int64  `json:"id,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type noteResponse struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UserID      string    `json:"userId"`
}

func toNoteResponse(n *models.Note) noteResponse {
	return noteResponse{
		ID:          n.ID,
		Title:       n.Title,
		Description: n.Description,
		CreatedAt:   n.CreatedAt,
		UserID:      n.UserID,
	}
}

func (s *Server) handlePing(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "OK"})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorBody{Message: "Invalid request body"})
		return
	}

	token, err := s.users.Register(r.Context(), req.Email, req.Password, req.ConfirmPassword)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.logger.Info(r.Context(), "user registered", "email", req.Email)
	s.writeJSON(w, http.StatusOK, tokenResponse{Token: token})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorBody{Message: "Invalid request body"})
		return
	}

	token, err := s.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, tokenResponse{Token: token})
}

func (s *Server) handleListNotes(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := userIDFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	filter, err := parseNoteFilter(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.notes.List(r.Context(), ownerID, filter)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := make([]noteResponse, 0, len(result))
	for _, n := range result {
		resp = append(resp, toNoteResponse(n))
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetNote(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := userIDFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	id, ok := notePathID(r)
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	note, err := s.notes.Get(r.Context(), ownerID, id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, toNoteResponse(note))
}

func (s *Server) handleCreateNote(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := userIDFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	var req noteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorBody{Message: "Invalid request body"})
		return
	}

	// owner and timestamp are server-assigned; any id or owner in the body is ignored
	note, err := s.notes.Create(r.Context(), ownerID, req.Title, req.Description)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/notes/%d", note.ID))
	s.writeJSON(w, http.StatusCreated, toNoteResponse(note))
}

func (s *Server) handleUpdateNote(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := userIDFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	id, ok := notePathID(r)
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	var req noteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorBody{Message: "Invalid request body"})
		return
	}

	if req.ID != 0 && req.ID != id {
		s.writeJSON(w, http.StatusBadRequest, errorBody{Message: "Note id in body does not match the path"})
		return
	}

	if err := s.notes.Update(r.Context(), ownerID, id, req.Title, req.Description); err != nil {
		s.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteNote(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := userIDFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	id, ok := notePathID(r)
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	if err := s.notes.Delete(r.Context(), ownerID, id); err != nil {
		s.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// notePathID parses the {id} path segment. A non-numeric id cannot name any
// note, so it is treated as absence.
func notePathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
