package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/abhisek/fgstudy/internal/quiz"
	"github.com/abhisek/fgstudy/internal/validate"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("failed to encode response", zap.Error(err))
	}
}

// writeError maps domain errors onto HTTP status codes. Anything that is
// not an input or state problem came from the LLM side and is a 502.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var verr *validate.Error
	switch {
	case errors.As(err, &verr):
		s.writeJSON(w, http.StatusBadRequest, errorBody{Error: verr.Message, Field: verr.Field})
	case errors.Is(err, quiz.ErrInvalidState):
		s.writeJSON(w, http.StatusConflict, errorBody{Error: err.Error()})
	case errors.Is(err, quiz.ErrDiscarded), errors.Is(err, errSessionNotFound):
		s.writeJSON(w, http.StatusNotFound, errorBody{Error: errSessionNotFound.Error()})
	case errors.Is(err, errBadRequest):
		s.writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
	default:
		s.logger.Error("upstream failure", zap.Error(err))
		s.writeJSON(w, http.StatusBadGateway, errorBody{Error: "the study assistant is unavailable, please try again"})
	}
}

var (
	errSessionNotFound = errors.New("quiz session not found")
	errBadRequest      = errors.New("bad request")
)
