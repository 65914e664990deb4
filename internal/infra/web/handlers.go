package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"

	"reddit-repost-assistant/internal/domain"
	"reddit-repost-assistant/internal/domain/model"
)

// Boundary DTOs. Constraints live here, at the edge, so the core never sees a
// malformed candidate.

type candidateRequest struct {
	Title string `json:"title"`
	URL   string `json:"url,omitempty"`
	Notes string `json:"notes,omitempty"`
}

type startCheckRequest struct {
	Candidate          candidateRequest `json:"candidate"`
	Subreddits         []string         `json:"subreddits"`
	LookbackDays       *int             `json:"lookback_days,omitempty"`
	MinTitleSimilarity *float64         `json:"min_title_similarity,omitempty"`
}

type startCheckResponse struct {
	JobID string `json:"job_id"`
}

type jobStatusResponse struct {
	JobID              string     `json:"job_id"`
	Status             string     `json:"status"`
	Subreddits         []string   `json:"subreddits"`
	LookbackDays       int        `json:"lookback_days"`
	MinTitleSimilarity float64    `json:"min_title_similarity"`
	StartedAt          time.Time  `json:"started_at"`
	FinishedAt         *time.Time `json:"finished_at"`
	CandidatePath      string     `json:"candidate_path"`
	ResultPath         string     `json:"result_path"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (r *startCheckRequest) validate() error {
	title := strings.TrimSpace(r.Candidate.Title)
	if n := utf8.RuneCountInString(title); n < 3 || n > 300 {
		return errors.New("candidate.title must be 3-300 characters")
	}
	if utf8.RuneCountInString(r.Candidate.Notes) > 2000 {
		return errors.New("candidate.notes must be at most 2000 characters")
	}
	if r.LookbackDays != nil && (*r.LookbackDays < 1 || *r.LookbackDays > 3650) {
		return errors.New("lookback_days must be in [1, 3650]")
	}
	if r.MinTitleSimilarity != nil && (*r.MinTitleSimilarity < 0.0 || *r.MinTitleSimilarity > 1.0) {
		return errors.New("min_title_similarity must be in [0.0, 1.0]")
	}
	return nil
}

func (s *Server) handleStartCheck(w http.ResponseWriter, r *http.Request) {
	var req startCheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	jobID, err := s.checkUC.StartCheck(r.Context(), model.Candidate{
		Title: req.Candidate.Title,
		URL:   req.Candidate.URL,
		Notes: req.Candidate.Notes,
	}, req.Subreddits, req.LookbackDays, req.MinTitleSimilarity)
	if err != nil {
		if errors.Is(err, domain.ErrTooManyActiveJobs) || errors.Is(err, domain.ErrInvalidArgument) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.log.Error().Err(err).Msg("start check failed")
		writeError(w, http.StatusInternalServerError, "could not start check")
		return
	}
	writeJSON(w, http.StatusOK, startCheckResponse{JobID: jobID})
}

func (s *Server) handleListChecks(w http.ResponseWriter, r *http.Request) {
	jobs, err := s.checkUC.ListJobs(r.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("list checks failed")
		writeError(w, http.StatusInternalServerError, "could not list checks")
		return
	}
	out := make([]jobStatusResponse, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, toJobStatus(j))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetCheck(w http.ResponseWriter, r *http.Request) {
	job, err := s.checkUC.GetJob(r.Context(), chi.URLParam(r, "jobID"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "job not found")
			return
		}
		s.log.Error().Err(err).Msg("get check failed")
		writeError(w, http.StatusInternalServerError, "could not get check")
		return
	}
	writeJSON(w, http.StatusOK, toJobStatus(job))
}

func (s *Server) handleGetResults(w http.ResponseWriter, r *http.Request) {
	doc, err := s.checkUC.ReadResults(r.Context(), chi.URLParam(r, "jobID"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "job not found")
			return
		}
		s.log.Error().Err(err).Msg("read results failed")
		writeError(w, http.StatusBadRequest, "could not read results")
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func toJobStatus(j *model.CheckJob) jobStatusResponse {
	return jobStatusResponse{
		JobID:              j.JobID,
		Status:             string(j.Status),
		Subreddits:         j.Subreddits,
		LookbackDays:       j.LookbackDays,
		MinTitleSimilarity: j.MinTitleSimilarity,
		StartedAt:          j.StartedAt,
		FinishedAt:         j.FinishedAt,
		CandidatePath:      j.CandidatePath,
		ResultPath:         j.ResultPath,
	}
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, errorResponse{Error: msg})
}
