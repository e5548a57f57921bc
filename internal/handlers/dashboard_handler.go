package handlers

import (
	"net/http"

	"camara-formacion/internal/service"
)

// DashboardHandler serves the role-specific dashboards
type DashboardHandler struct {
	dashboards *service.DashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboards *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboards: dashboards}
}

// Admin returns the administrator dashboard
// @Summary Administrator dashboard
// @Description Program-wide totals, per-phase counts, participant cards and recent attendance
// @Tags Dashboards
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.AdminDashboard "Dashboard"
// @Failure 403 {object} map[string]string "Forbidden - admin only"
// @Router /dashboards/admin [get]
func (h *DashboardHandler) Admin(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	dashboard, err := h.dashboards.Admin(actor)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, dashboard)
}

// Instructor returns the instructor dashboard
// @Summary Instructor dashboard
// @Description Assigned participants and pending signature counts for the authenticated instructor
// @Tags Dashboards
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.InstructorDashboard "Dashboard"
// @Failure 403 {object} map[string]string "Forbidden - instructor only"
// @Router /dashboards/instructor [get]
func (h *DashboardHandler) Instructor(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	dashboard, err := h.dashboards.Instructor(actor)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, dashboard)
}

// Participant returns the participant dashboard
// @Summary Participant dashboard
// @Description The authenticated participant's own profile with pending and signed annex counts
// @Tags Dashboards
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.ParticipantDashboard "Dashboard"
// @Failure 404 {object} map[string]string "No participant profile for this user"
// @Router /dashboards/participant [get]
func (h *DashboardHandler) Participant(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	dashboard, err := h.dashboards.Participant(actor)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, dashboard)
}
