package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/qsolog/internal/metrics"
	"github.com/shrimpsizemoose/qsolog/internal/models"
	"github.com/shrimpsizemoose/qsolog/internal/store"
)

// StandingsHandler serves the club archive read-only.
type StandingsHandler struct {
	archive store.ArchiveStore
}

func NewStandingsHandler(archive store.ArchiveStore) *StandingsHandler {
	return &StandingsHandler{
		archive: archive,
	}
}

// Register mounts the handler's routes on mux.
func (h *StandingsHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/{class}/standings", h.HandleStandings)
	mux.HandleFunc("GET /api/v1/submissions/{id}/qsos", h.HandleSubmissionQSOs)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func observe(w http.ResponseWriter, r *http.Request) (*statusRecorder, func()) {
	start := time.Now()
	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	return rec, func() {
		metrics.APIRequestDuration.WithLabelValues(
			r.Pattern,
			r.Method,
			strconv.Itoa(rec.status),
		).Observe(time.Since(start).Seconds())
	}
}

func writeJSON(w http.ResponseWriter, body any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Debug.Printf("Error encoding response: %v", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

func (h *StandingsHandler) HandleStandings(w http.ResponseWriter, r *http.Request) {
	rec, done := observe(w, r)
	defer done()

	class, err := models.LookupClass(r.PathValue("class"))
	if err != nil {
		logger.Error.Printf("Bad class in path %s: %v", r.URL.Path, err)
		http.Error(rec, "Invalid class", http.StatusBadRequest)
		return
	}

	standings, err := h.archive.ListStandings(class.Code)
	if err != nil {
		logger.Error.Printf("ERROR: %v", err)
		http.Error(rec, "Failed to fetch standings", http.StatusInternalServerError)
		return
	}
	if standings == nil {
		standings = []models.Submission{}
	}

	writeJSON(rec, map[string]interface{}{
		"class":       class.Code,
		"description": class.Description,
		"rows":        standings,
	})
}

func (h *StandingsHandler) HandleSubmissionQSOs(w http.ResponseWriter, r *http.Request) {
	rec, done := observe(w, r)
	defer done()

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(rec, "Invalid submission id", http.StatusBadRequest)
		return
	}

	qsos, err := h.archive.ListArchivedQSOs(id)
	if err != nil {
		logger.Error.Printf("ERROR: %v", err)
		http.Error(rec, "Failed to fetch QSOs", http.StatusInternalServerError)
		return
	}
	if len(qsos) == 0 {
		http.Error(rec, "Submission not found", http.StatusNotFound)
		return
	}

	writeJSON(rec, map[string]interface{}{
		"rows": qsos,
	})
}
