package api

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/phrazzld/medtrack-api/internal/api/middleware"
	"github.com/phrazzld/medtrack-api/internal/service/suggestion"
	"github.com/phrazzld/medtrack-api/internal/service/tracker"
)

// StatsHandler serves the derived adherence statistics.
type StatsHandler struct {
	tracker tracker.Service
}

// NewStatsHandler creates a new StatsHandler with the given dependencies.
func NewStatsHandler(trackerService tracker.Service) *StatsHandler {
	return &StatsHandler{tracker: trackerService}
}

// Get handles GET /stats.
func (h *StatsHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	stats, err := h.tracker.GetStats(r.Context(), userID)
	if err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, stats)
}

// SuggestionHandler serves the static disease-to-medicine reference table.
type SuggestionHandler struct{}

// NewSuggestionHandler creates a new SuggestionHandler.
func NewSuggestionHandler() *SuggestionHandler {
	return &SuggestionHandler{}
}

// List handles GET /suggestions.
func (h *SuggestionHandler) List(w http.ResponseWriter, r *http.Request) {
	RespondWithJSON(w, r, http.StatusOK, suggestion.List())
}

// Get handles GET /suggestions/{disease}.
func (h *SuggestionHandler) Get(w http.ResponseWriter, r *http.Request) {
	disease := chi.URLParam(r, "disease")
	// chi hands back the raw path segment; disease names may contain spaces.
	if unescaped, err := url.PathUnescape(disease); err == nil {
		disease = unescaped
	}

	s, ok := suggestion.ForDisease(disease)
	if !ok {
		RespondWithError(w, r, http.StatusNotFound, "No suggestion for that disease")
		return
	}

	RespondWithJSON(w, r, http.StatusOK, s)
}
