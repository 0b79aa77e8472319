package server

import (
	"errors"
	"net/http"

	"github.com/abhisek/vitals/internal/assessment"
	"github.com/abhisek/vitals/internal/coach"
	"github.com/abhisek/vitals/internal/sessions"
)

// httpStatus maps domain errors to status codes.
func httpStatus(err error) int {
	switch {
	case errors.Is(err, sessions.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, assessment.ErrInvalidOption):
		return http.StatusUnprocessableEntity
	case errors.Is(err, assessment.ErrWrongQuestion),
		errors.Is(err, assessment.ErrUnanswered),
		errors.Is(err, assessment.ErrAtStart),
		errors.Is(err, assessment.ErrComplete),
		errors.Is(err, assessment.ErrIncompatibleRecord):
		return http.StatusConflict
	case errors.Is(err, coach.ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// fail writes err with its mapped status. Internal errors are logged and
// replaced with a generic message.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := httpStatus(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		s.errorResponse(w, status, "internal error")
		return
	}
	s.errorResponse(w, status, err.Error())
}
