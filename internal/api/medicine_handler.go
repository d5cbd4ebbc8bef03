package api

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/phrazzld/medtrack-api/internal/api/middleware"
	"github.com/phrazzld/medtrack-api/internal/domain"
	"github.com/phrazzld/medtrack-api/internal/service/tracker"
)

// MedicineHandler handles the medicine schedule API requests.
type MedicineHandler struct {
	tracker   tracker.Service
	validator *validator.Validate
}

// NewMedicineHandler creates a new MedicineHandler with the given dependencies.
func NewMedicineHandler(trackerService tracker.Service) *MedicineHandler {
	return &MedicineHandler{
		tracker:   trackerService,
		validator: validator.New(),
	}
}

// List handles GET /medicines.
func (h *MedicineHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	entries, err := h.tracker.ListMedicines(r.Context(), userID)
	if err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, entries)
}

// Create handles POST /medicines.
func (h *MedicineHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req CreateMedicineRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	at, err := domain.ParseTimeOfDay(req.Time)
	if err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	entry, err := h.tracker.AddMedicine(r.Context(), userID, req.Name, at, req.Dose, req.Kind)
	if err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	slog.Debug("medicine created", "user_id", userID, "entry_id", entry.ID)
	RespondWithJSON(w, r, http.StatusCreated, entry)
}

// Update handles PUT /medicines/{id}.
func (h *MedicineHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	entryID, err := getPathUUID(r, "id")
	if err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	var req UpdateMedicineRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	fields := tracker.EditFields{
		Name: req.Name,
		Dose: req.Dose,
		Kind: req.Kind,
	}
	if req.Time != nil {
		at, err := domain.ParseTimeOfDay(*req.Time)
		if err != nil {
			RespondWithMappedError(w, r, err)
			return
		}
		fields.ScheduledTime = &at
	}

	entry, err := h.tracker.EditMedicine(r.Context(), userID, entryID, fields)
	if err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, entry)
}

// SetTaken handles POST /medicines/{id}/taken.
func (h *MedicineHandler) SetTaken(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	entryID, err := getPathUUID(r, "id")
	if err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	var req SetTakenRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	entry, err := h.tracker.SetTaken(r.Context(), userID, entryID, *req.Taken)
	if err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, entry)
}

// Delete handles DELETE /medicines/{id}.
func (h *MedicineHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	entryID, err := getPathUUID(r, "id")
	if err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	if err := h.tracker.RemoveMedicine(r.Context(), userID, entryID); err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusNoContent, nil)
}

// MarkAllTaken handles POST /medicines/mark-all-taken.
func (h *MedicineHandler) MarkAllTaken(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	updated, err := h.tracker.MarkAllTaken(r.Context(), userID)
	if err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, MarkAllTakenResponse{Updated: updated})
}

// Reset handles POST /medicines/reset.
func (h *MedicineHandler) Reset(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	removed, err := h.tracker.ResetSchedule(r.Context(), userID)
	if err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, ResetScheduleResponse{Removed: removed})
}
