package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/abhisek/vitals/internal/catalog"
	"github.com/abhisek/vitals/internal/coach"
	"github.com/abhisek/vitals/internal/scoring"
	"github.com/abhisek/vitals/internal/sessions"
	"github.com/abhisek/vitals/internal/store"
)

const (
	defaultResultsLimit = 20
	maxResultsLimit     = 200
	maxBodyBytes        = 1 << 16
)

type answerRequest struct {
	QuestionID string `json:"question_id" validate:"required"`
	Value      string `json:"value" validate:"required"`
}

type categoryInfo struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

type catalogResponse struct {
	Title      string             `json:"title"`
	Version    string             `json:"version"`
	MaxScore   int                `json:"max_score"`
	Categories []categoryInfo     `json:"categories"`
	Questions  []catalog.Question `json:"questions"`
}

type resultResponse struct {
	scoring.Result
	TierDescription string `json:"tier_description"`
	Complete        bool   `json:"complete"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCatalog(w http.ResponseWriter, _ *http.Request) {
	c := s.sessions.Catalog()
	resp := catalogResponse{
		Title:     c.Title(),
		Version:   c.Version(),
		MaxScore:  c.MaxScore(),
		Questions: c.Questions(),
	}
	seen := make(map[string]bool)
	for _, q := range resp.Questions {
		if seen[q.Category] {
			continue
		}
		seen[q.Category] = true
		resp.Categories = append(resp.Categories, categoryInfo{Key: q.Category, Label: c.CategoryLabel(q.Category)})
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	v, err := s.sessions.Start(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Location", "/v1/assessments/"+v.ID)
	s.jsonResponse(w, http.StatusCreated, v)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	s.viewResponse(w, r)(s.sessions.Get(r.Context(), mux.Vars(r)["id"]))
}

func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}
	if err := s.validate.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}
	s.viewResponse(w, r)(s.sessions.Submit(r.Context(), mux.Vars(r)["id"], req.QuestionID, req.Value))
}

func (s *Server) handleNext(w http.ResponseWriter, r *http.Request) {
	s.viewResponse(w, r)(s.sessions.Next(r.Context(), mux.Vars(r)["id"]))
}

func (s *Server) handlePrevious(w http.ResponseWriter, r *http.Request) {
	s.viewResponse(w, r)(s.sessions.Previous(r.Context(), mux.Vars(r)["id"]))
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.viewResponse(w, r)(s.sessions.Reset(r.Context(), mux.Vars(r)["id"]))
}

func (s *Server) handleDiscard(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Discard(r.Context(), mux.Vars(r)["id"]); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleResult(w http.ResponseWriter, r *http.Request) {
	snap, err := s.sessions.Snapshot(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.fail(w, r, err)
		return
	}
	res := scoring.Compute(snap)
	s.jsonResponse(w, http.StatusOK, resultResponse{
		Result:          res,
		TierDescription: res.Tier.Description(),
		Complete:        snap.Complete(),
	})
}

func (s *Server) handleCoach(w http.ResponseWriter, r *http.Request) {
	if !s.coach.Available() {
		s.fail(w, r, coach.ErrUnavailable)
		return
	}
	snap, err := s.sessions.Snapshot(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.fail(w, r, err)
		return
	}
	insight, err := s.coach.Generate(r.Context(), coach.InputFrom(snap, scoring.Compute(snap)))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, insight)
}

func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	if s.events == nil {
		s.jsonResponse(w, http.StatusOK, []store.ResultEventRecord{})
		return
	}

	limit := defaultResultsLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxResultsLimit {
			s.errorResponse(w, http.StatusBadRequest, fmt.Sprintf("limit must be between 1 and %d", maxResultsLimit))
			return
		}
		limit = n
	}

	results, err := s.events.QueryResults(r.Context(), store.QueryOpts{Limit: limit})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if results == nil {
		results = []store.ResultEventRecord{}
	}
	s.jsonResponse(w, http.StatusOK, results)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if s.events == nil {
		s.jsonResponse(w, http.StatusOK, store.ResultStats{ByTier: map[string]int{}})
		return
	}
	stats, err := s.events.ResultStats(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, stats)
}

// viewResponse adapts a Manager call returning (View, error) to a response.
func (s *Server) viewResponse(w http.ResponseWriter, r *http.Request) func(sessions.View, error) {
	return func(v sessions.View, err error) {
		if err != nil {
			s.fail(w, r, err)
			return
		}
		s.jsonResponse(w, http.StatusOK, v)
	}
}
