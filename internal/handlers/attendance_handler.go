package handlers

import (
	"encoding/json"
	"net/http"

	"camara-formacion/internal/service"
)

// AttendanceHandler records and lists training sessions
type AttendanceHandler struct {
	attendance *service.AttendanceService
}

// NewAttendanceHandler creates a new attendance handler
func NewAttendanceHandler(attendance *service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendance: attendance}
}

// Mark logs a training session for a participant
// @Summary Mark attendance
// @Description Record a training session for a participant (staff only). Hours are rounded to one decimal.
// @Tags Attendance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Participant ID"
// @Param request body service.MarkInput true "Session data"
// @Success 201 {object} models.AttendanceRecord "Recorded session"
// @Failure 403 {object} map[string]string "Forbidden - staff only"
// @Failure 404 {object} map[string]string "Participant not found"
// @Failure 422 {object} map[string]string "Hours out of range"
// @Router /participants/{id}/attendance [post]
func (h *AttendanceHandler) Mark(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var in service.MarkInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrMsgInvalidRequestBody)
		return
	}

	record, err := h.attendance.Mark(actor, r.PathValue("id"), in)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, record)
}

// List returns the participant's attendance records
// @Summary List attendance
// @Description Get the recorded training sessions of a participant
// @Tags Attendance
// @Produce json
// @Security BearerAuth
// @Param id path string true "Participant ID"
// @Success 200 {array} models.AttendanceRecord "Sessions"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Participant not found"
// @Router /participants/{id}/attendance [get]
func (h *AttendanceHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	records, err := h.attendance.List(actor, r.PathValue("id"))
	if err != nil {
		writeEngineError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, records)
}
