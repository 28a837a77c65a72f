package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"tunematch/internal/features"
	"tunematch/internal/logger"
	"tunematch/internal/models"
)

const (
	songNotFoundMessage  = "Sorry, the song is not found!"
	noValidSongsMessage  = "No valid song found in the list."
	maxBatchRequestBytes = 1 << 20
)

type errorResponse struct {
	Error string `json:"error"`
}

type healthResponse struct {
	Status  string `json:"status"`
	Songs   int    `json:"songs"`
	Version string `json:"version"`
}

type recommendationsResponse struct {
	Query           string                  `json:"query"`
	Recommendations []models.Recommendation `json:"recommendations"`
	Error           string                  `json:"error,omitempty"`
}

type batchRequest struct {
	Names []string `json:"names"`
	N     *int     `json:"n,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("failed to encode response", logger.ErrorField(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// count validates a requested result count. Absent means the default and
// anything above the maximum is capped.
func (s *Server) count(n *int) (int, bool) {
	if n == nil {
		return s.opts.DefaultRecommendations, true
	}
	if *n < 1 {
		return 0, false
	}
	return min(*n, s.opts.MaxRecommendations), true
}

func (s *Server) countParam(r *http.Request) (int, bool) {
	raw := strings.TrimSpace(r.URL.Query().Get("n"))
	if raw == "" {
		return s.count(nil)
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return s.count(&n)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	c := s.engine.Catalog()
	writeJSON(w, http.StatusOK, healthResponse{
		Status:  "ok",
		Songs:   c.Len(),
		Version: c.Version(),
	})
}

func (s *Server) handleSong(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if strings.TrimSpace(name) == "" {
		writeError(w, http.StatusBadRequest, "query parameter 'name' is required")
		return
	}

	details, ok := s.engine.SongDetails(name)
	if !ok {
		writeError(w, http.StatusNotFound, songNotFoundMessage)
		return
	}
	writeJSON(w, http.StatusOK, details)
}

func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if strings.TrimSpace(name) == "" {
		writeError(w, http.StatusBadRequest, "query parameter 'name' is required")
		return
	}
	n, ok := s.countParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "query parameter 'n' must be a positive integer")
		return
	}

	recs, err := s.engine.Recommend(r.Context(), name, n)
	switch {
	case errors.Is(err, features.ErrEmptyInput):
		writeJSON(w, http.StatusNotFound, recommendationsResponse{
			Query:           name,
			Recommendations: []models.Recommendation{},
			Error:           songNotFoundMessage,
		})
	case err != nil:
		logger.Error("recommendation failed", logger.String("query", name), logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
	default:
		writeJSON(w, http.StatusOK, recommendationsResponse{Query: name, Recommendations: recs})
	}
}

// handleBatch streams one "processing" event per name, then a "complete"
// event carrying recommendations for the centroid of the resolved names, or
// an "error" event when none resolved.
func (s *Server) handleBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBatchRequestBytes))
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if len(req.Names) == 0 {
		writeError(w, http.StatusBadRequest, "'names' must not be empty")
		return
	}
	if len(req.Names) > s.opts.MaxBatchNames {
		writeError(w, http.StatusBadRequest, "too many names in one batch")
		return
	}
	n, ok := s.count(req.N)
	if !ok {
		writeError(w, http.StatusBadRequest, "'n' must be a positive integer")
		return
	}

	flusher, err := setupSSE(w)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	send := func(v any) { sendEvent(w, flusher, v) }

	ctx := r.Context()
	snap := s.engine.Snapshot()
	total := len(req.Names)

	for i, name := range req.Names {
		select {
		case <-ctx.Done():
			logger.Info("client disconnected during batch", logger.Int("index", i), logger.Int("total", total))
			return
		default:
		}

		m := snap.Lookup(name)
		found := m.Found()
		ev := models.BatchEvent{
			Status: "processing",
			Index:  i + 1,
			Total:  total,
			Query:  name,
			Found:  &found,
		}
		if found {
			details := m.Song.Details()
			ev.Song = &details
		}
		send(ev)
	}

	recs, err := snap.RecommendFromSongs(ctx, req.Names, n)
	switch {
	case errors.Is(err, features.ErrEmptyInput):
		send(models.BatchEvent{Status: "error", Message: noValidSongsMessage, Total: total})
	case err != nil:
		logger.Warn("batch recommendation aborted", logger.ErrorField(err))
		send(models.BatchEvent{Status: "error", Message: "Recommendation failed.", Total: total})
	default:
		send(models.BatchEvent{Status: "complete", Total: total, Recommendations: recs})
	}
}
