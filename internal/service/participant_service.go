package service

import (
	"strings"
	"time"

	"camara-formacion/internal/apperrors"
	"camara-formacion/internal/auth"
	"camara-formacion/internal/models"
)

// ParticipantService manages participant profiles and their itineraries
type ParticipantService struct {
	core  *core
	auth  *auth.Service
	audit *AuditService
}

// CreateParticipantInput is the payload for enrolling a participant
type CreateParticipantInput struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	IDNumber    string `json:"id_number"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	CourseID    string `json:"course_id"`
	CreateLogin *bool  `json:"create_login,omitempty"`
	Password    string `json:"password,omitempty"`
}

// UpdateParticipantInput carries the fields an update may change.
// Nil fields are left untouched.
type UpdateParticipantInput struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	IDNumber  *string `json:"id_number,omitempty"`
	Email     *string `json:"email,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	CourseID  *string `json:"course_id,omitempty"`
}

// List returns the participants the actor may see: administrators see
// everyone, instructors their assigned participants, participants
// themselves only.
func (s *ParticipantService) List(actor models.Actor) ([]models.ParticipantView, error) {
	participants, err := s.core.store.ListParticipants()
	if err != nil {
		return nil, err
	}

	var visible []models.Participant
	switch actor.Role {
	case models.RoleAdministrator:
		visible = participants
	case models.RoleInstructor:
		assigned, err := assignedParticipantIDs(s.core.store, actor.UserID)
		if err != nil {
			return nil, err
		}
		for _, participant := range participants {
			if assigned[participant.ID] {
				visible = append(visible, participant)
			}
		}
	case models.RoleParticipant:
		for _, participant := range participants {
			if participant.UserID == actor.UserID {
				visible = append(visible, participant)
			}
		}
	default:
		return nil, apperrors.AccessDenied("unknown role")
	}

	views := make([]models.ParticipantView, 0, len(visible))
	for i := range visible {
		view, err := s.buildView(actor, &visible[i])
		if err != nil {
			return nil, err
		}
		views = append(views, *view)
	}
	return views, nil
}

// Get returns the full view of one participant
func (s *ParticipantService) Get(actor models.Actor, participantID string) (*models.ParticipantView, error) {
	participant, err := s.core.getParticipant(participantID)
	if err != nil {
		return nil, err
	}
	if err := s.core.assertParticipantAccess(actor, participant); err != nil {
		return nil, err
	}
	return s.buildView(actor, participant)
}

// GetByUser returns the participant profile behind a login account
func (s *ParticipantService) GetByUser(actor models.Actor, userID string) (*models.ParticipantView, error) {
	participant, err := s.core.store.GetParticipantByUserID(userID)
	if err != nil {
		return nil, err
	}
	if participant == nil {
		return nil, apperrors.NotFound("participant not found")
	}
	if err := s.core.assertParticipantAccess(actor, participant); err != nil {
		return nil, err
	}
	return s.buildView(actor, participant)
}

// Create enrolls a new participant. Administrators only. Unless
// create_login is false, a participant login account is created (or an
// existing account with the same email is reused).
func (s *ParticipantService) Create(actor models.Actor, in CreateParticipantInput) (*models.ParticipantView, error) {
	if actor.Role != models.RoleAdministrator {
		return nil, apperrors.AccessDenied("only administrators may create participants")
	}

	firstName := strings.TrimSpace(in.FirstName)
	lastName := strings.TrimSpace(in.LastName)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if firstName == "" || lastName == "" {
		return nil, apperrors.RuleViolation("first and last name are required")
	}
	if email == "" || !strings.Contains(email, "@") {
		return nil, apperrors.RuleViolation("a valid email is required")
	}

	course, err := s.core.store.GetCourse(in.CourseID)
	if err != nil {
		return nil, err
	}
	if course == nil {
		return nil, apperrors.NotFound("course not found")
	}

	createLogin := true
	if in.CreateLogin != nil {
		createLogin = *in.CreateLogin
	}

	var userID string
	if createLogin {
		existing, err := s.core.store.GetUserByEmail(email)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			userID = existing.ID
		} else {
			if len(in.Password) < 8 {
				return nil, apperrors.RuleViolation("a password of at least 8 characters is required to create a login")
			}
			hash, err := s.auth.HashPassword(in.Password)
			if err != nil {
				return nil, apperrors.Internal("failed to hash password", err)
			}
			user := &models.User{
				ID:           newID("user"),
				Email:        email,
				Name:         firstName + " " + lastName,
				Role:         models.RoleParticipant,
				PasswordHash: hash,
				CreatedAt:    s.core.now(),
			}
			if err := s.core.store.CreateUser(user); err != nil {
				return nil, err
			}
			userID = user.ID
		}
	}

	now := s.core.now()
	participant := &models.Participant{
		ID:           newID("participant"),
		UserID:       userID,
		CourseID:     course.ID,
		FirstName:    firstName,
		LastName:     lastName,
		IDNumber:     strings.TrimSpace(in.IDNumber),
		Email:        email,
		Phone:        strings.TrimSpace(in.Phone),
		CurrentPhase: models.PhaseDiagnostic,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	phases := newPhaseRows(participant.ID, now)
	if err := s.core.store.CreateParticipant(participant, phases); err != nil {
		return nil, err
	}

	s.audit.Log(actor.UserID, "participant_created", "participant", participant.ID, map[string]any{
		"course_id":    course.ID,
		"create_login": createLogin,
	})
	return s.buildView(actor, participant)
}

// Update changes profile fields of a participant. Administrators only.
func (s *ParticipantService) Update(actor models.Actor, participantID string, in UpdateParticipantInput) (*models.ParticipantView, error) {
	if actor.Role != models.RoleAdministrator {
		return nil, apperrors.AccessDenied("only administrators may update participants")
	}

	unlock := s.core.locks.lock(participantID)
	defer unlock()

	participant, err := s.core.getParticipant(participantID)
	if err != nil {
		return nil, err
	}

	changed := map[string]any{}
	if in.FirstName != nil {
		participant.FirstName = strings.TrimSpace(*in.FirstName)
		changed["first_name"] = participant.FirstName
	}
	if in.LastName != nil {
		participant.LastName = strings.TrimSpace(*in.LastName)
		changed["last_name"] = participant.LastName
	}
	if in.IDNumber != nil {
		participant.IDNumber = strings.TrimSpace(*in.IDNumber)
		changed["id_number"] = participant.IDNumber
	}
	if in.Email != nil {
		participant.Email = strings.ToLower(strings.TrimSpace(*in.Email))
		changed["email"] = participant.Email
	}
	if in.Phone != nil {
		participant.Phone = strings.TrimSpace(*in.Phone)
		changed["phone"] = participant.Phone
	}
	if in.CourseID != nil {
		course, err := s.core.store.GetCourse(*in.CourseID)
		if err != nil {
			return nil, err
		}
		if course == nil {
			return nil, apperrors.NotFound("course not found")
		}
		participant.CourseID = course.ID
		changed["course_id"] = participant.CourseID
	}

	participant.UpdatedAt = s.core.now()
	if err := s.core.store.UpdateParticipant(participant); err != nil {
		return nil, err
	}

	s.audit.Log(actor.UserID, "participant_updated", "participant", participant.ID, changed)
	return s.buildView(actor, participant)
}

// GetPhases returns the participant's itinerary in fixed phase order
func (s *ParticipantService) GetPhases(actor models.Actor, participantID string) ([]models.PhaseSummary, error) {
	participant, err := s.core.getParticipant(participantID)
	if err != nil {
		return nil, err
	}
	if err := s.core.assertParticipantAccess(actor, participant); err != nil {
		return nil, err
	}

	phases, err := s.core.store.ListPhases(participantID)
	if err != nil {
		return nil, err
	}
	summaries := make([]models.PhaseSummary, 0, len(phases))
	for _, phase := range phases {
		summaries = append(summaries, phaseSummary(&phase))
	}
	return summaries, nil
}

// AssignInstructor links an instructor to a participant. Administrators only.
func (s *ParticipantService) AssignInstructor(actor models.Actor, participantID, instructorID string) error {
	if actor.Role != models.RoleAdministrator {
		return apperrors.AccessDenied("only administrators may assign instructors")
	}

	participant, err := s.core.getParticipant(participantID)
	if err != nil {
		return err
	}
	instructor, err := s.core.store.GetUserByID(instructorID)
	if err != nil {
		return err
	}
	if instructor == nil || instructor.Role != models.RoleInstructor {
		return apperrors.RuleViolation("instructor not found")
	}

	existing, err := s.core.store.ListAssignmentsByParticipant(participant.ID)
	if err != nil {
		return err
	}
	for _, assignment := range existing {
		if assignment.InstructorID == instructorID {
			return apperrors.Conflict("instructor is already assigned")
		}
	}

	return s.core.store.CreateAssignment(&models.InstructorAssignment{
		ID:            newID("assignment"),
		InstructorID:  instructorID,
		ParticipantID: participant.ID,
		CreatedAt:     s.core.now(),
	})
}

// newPhaseRows builds the three itinerary rows for a new participant,
// with the diagnostic phase already started
func newPhaseRows(participantID string, now time.Time) []models.Phase {
	phases := make([]models.Phase, 0, len(models.PhaseOrder))
	for _, phaseType := range models.PhaseOrder {
		phase := models.Phase{
			ID:            newID("phase"),
			ParticipantID: participantID,
			PhaseType:     phaseType,
			Status:        models.PhaseNotStarted,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if phaseType == models.PhaseDiagnostic {
			phase.Status = models.PhaseInProgress
			startedAt := now
			phase.StartedAt = &startedAt
		}
		phases = append(phases, phase)
	}
	return phases
}

func phaseSummary(phase *models.Phase) models.PhaseSummary {
	return models.PhaseSummary{
		ID:          phase.ID,
		PhaseType:   phase.PhaseType,
		Status:      phase.Status,
		StartedAt:   phase.StartedAt,
		CompletedAt: phase.CompletedAt,
	}
}
