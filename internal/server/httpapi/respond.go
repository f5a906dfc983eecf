package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/janegov/notesapi/internal/common"
)

// errorBody is the wire shape of validation and generic failures:
// { "message": "...", "errors": [{"field": "...", "message": "..."}] }.
type errorBody struct {
	Message string              `json:"message"`
	Errors  []common.FieldError `json:"errors,omitempty"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error(context.Background(), "encode response", "error", err)
	}
}

// writeError translates service errors into HTTP responses. Validation
// failures keep their field detail; auth failures are a bare 401; absence and
// cross-owner access are a bare 404; anything unexpected is logged and
// surfaced as a generic 500 without internals.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *common.ValidationError
	switch {
	case errors.As(err, &ve):
		s.writeJSON(w, http.StatusBadRequest, errorBody{Message: "Validation failed", Errors: ve.Fields})
	case errors.Is(err, common.ErrorUnauthorized):
		w.WriteHeader(http.StatusUnauthorized)
	case errors.Is(err, common.ErrorNotFound):
		w.WriteHeader(http.StatusNotFound)
	case errors.Is(err, common.ErrVersionConflict):
		s.writeJSON(w, http.StatusConflict, errorBody{Message: "The note was modified concurrently. Refresh and retry."})
	default:
		s.logger.Error(r.Context(), "request failed", "error", err)
		s.writeJSON(w, http.StatusInternalServerError, errorBody{Message: "An error occurred while processing your request."})
	}
}
