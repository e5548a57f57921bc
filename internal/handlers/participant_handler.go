package handlers

import (
	"encoding/json"
	"net/http"

	"camara-formacion/internal/service"
)

// ParticipantHandler manages participant profiles, their phase
// itineraries and instructor assignments
type ParticipantHandler struct {
	participants *service.ParticipantService
	phases       *service.PhaseService
}

// NewParticipantHandler creates a new participant handler
func NewParticipantHandler(participants *service.ParticipantService, phases *service.PhaseService) *ParticipantHandler {
	return &ParticipantHandler{
		participants: participants,
		phases:       phases,
	}
}

// List returns the participants visible to the actor
// @Summary List participants
// @Description Administrators see everyone, instructors their assigned participants, participants themselves only
// @Tags Participants
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.ParticipantView "Participants"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /participants [get]
func (h *ParticipantHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	participants, err := h.participants.List(actor)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, participants)
}

// Create enrolls a new participant
// @Summary Create a participant
// @Description Enroll a participant in a course, optionally creating a login account (admin only)
// @Tags Participants
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.CreateParticipantInput true "Participant data"
// @Success 201 {object} models.ParticipantView "Created participant"
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 403 {object} map[string]string "Forbidden - admin only"
// @Failure 409 {object} map[string]string "Duplicate participant"
// @Failure 422 {object} map[string]string "Validation failure"
// @Router /participants [post]
func (h *ParticipantHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var in service.CreateParticipantInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrMsgInvalidRequestBody)
		return
	}

	view, err := h.participants.Create(actor, in)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, view)
}

// Me returns the participant profile behind the authenticated account
// @Summary Get own participant profile
// @Description Get the participant profile linked to the authenticated login account
// @Tags Participants
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.ParticipantView "Participant"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "No participant profile for this user"
// @Router /participants/me [get]
func (h *ParticipantHandler) Me(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	view, err := h.participants.GetByUser(actor, actor.UserID)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, view)
}

// Get returns one participant profile
// @Summary Get a participant
// @Description Get a participant profile with phases, annexes and attendance resolved
// @Tags Participants
// @Produce json
// @Security BearerAuth
// @Param id path string true "Participant ID"
// @Success 200 {object} models.ParticipantView "Participant"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Not assigned to this participant"
// @Failure 404 {object} map[string]string "Participant not found"
// @Router /participants/{id} [get]
func (h *ParticipantHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	view, err := h.participants.Get(actor, r.PathValue("id"))
	if err != nil {
		writeEngineError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, view)
}

// Update changes participant profile fields
// @Summary Update a participant
// @Description Update profile fields of a participant (admin only). Omitted fields are left untouched.
// @Tags Participants
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Participant ID"
// @Param request body service.UpdateParticipantInput true "Fields to change"
// @Success 200 {object} models.ParticipantView "Updated participant"
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 403 {object} map[string]string "Forbidden - admin only"
// @Failure 404 {object} map[string]string "Participant not found"
// @Router /participants/{id} [put]
func (h *ParticipantHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var in service.UpdateParticipantInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrMsgInvalidRequestBody)
		return
	}

	view, err := h.participants.Update(actor, r.PathValue("id"), in)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, view)
}

// Phases returns the participant's three-phase itinerary
// @Summary List participant phases
// @Description Get the diagnostic, training and completion phases in itinerary order
// @Tags Participants
// @Produce json
// @Security BearerAuth
// @Param id path string true "Participant ID"
// @Success 200 {array} models.PhaseSummary "Phases"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Participant not found"
// @Router /participants/{id}/phases [get]
func (h *ParticipantHandler) Phases(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	phases, err := h.participants.GetPhases(actor, r.PathValue("id"))
	if err != nil {
		writeEngineError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, phases)
}

// ProgressPhase advances the participant to the next phase
// @Summary Progress to the next phase
// @Description Complete the current phase and start the next one. Requires the phase document to be fully signed unless override is set.
// @Tags Participants
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Participant ID"
// @Param request body object{override=bool} false "Override flag"
// @Success 200 {object} service.ProgressResult "Itinerary state after progression"
// @Failure 403 {object} map[string]string "Forbidden - staff only"
// @Failure 404 {object} map[string]string "Participant not found"
// @Failure 422 {object} map[string]string "Phase document not fully signed"
// @Router /participants/{id}/progress [post]
func (h *ParticipantHandler) ProgressPhase(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var in struct {
		Override bool `json:"override"`
	}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			respondWithError(w, http.StatusBadRequest, ErrMsgInvalidRequestBody)
			return
		}
	}

	result, err := h.phases.Progress(actor, r.PathValue("id"), in.Override)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}

// AssignInstructor links an instructor to a participant
// @Summary Assign an instructor
// @Description Assign an instructor to a participant (admin only)
// @Tags Participants
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Participant ID"
// @Param request body object{instructor_id=string} true "Instructor"
// @Success 201 {object} map[string]string "Assignment created"
// @Failure 403 {object} map[string]string "Forbidden - admin only"
// @Failure 404 {object} map[string]string "Participant or instructor not found"
// @Failure 409 {object} map[string]string "Already assigned"
// @Router /participants/{id}/instructors [post]
func (h *ParticipantHandler) AssignInstructor(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var in struct {
		InstructorID string `json:"instructor_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrMsgInvalidRequestBody)
		return
	}

	if err := h.participants.AssignInstructor(actor, r.PathValue("id"), in.InstructorID); err != nil {
		writeEngineError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, map[string]string{
		"message": "Instructor assigned",
	})
}
