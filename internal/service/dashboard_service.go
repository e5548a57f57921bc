package service

import (
	"sort"

	"camara-formacion/internal/apperrors"
	"camara-formacion/internal/models"
)

// DashboardService builds the role-specific overview payloads
type DashboardService struct {
	core         *core
	participants *ParticipantService
}

// ParticipantCard is the compact participant row shown on staff dashboards
type ParticipantCard struct {
	ID           string           `json:"id"`
	FullName     string           `json:"full_name"`
	Email        string           `json:"email"`
	CourseID     string           `json:"course_id"`
	CurrentPhase models.PhaseType `json:"current_phase"`
	AnnexCount   int              `json:"annex_count"`
	SignedCount  int              `json:"signed_count"`
}

// AdminDashboard is the administrator overview
type AdminDashboard struct {
	Totals struct {
		Participants      int `json:"participants"`
		Annexes           int `json:"annexes"`
		SignedAnnexes     int `json:"signed_annexes"`
		AttendanceRecords int `json:"attendance_records"`
	} `json:"totals"`
	PhaseCounts      map[models.PhaseType]int   `json:"phase_counts"`
	Participants     []ParticipantCard          `json:"participants"`
	RecentAttendance []models.AttendanceSummary `json:"recent_attendance"`
}

// InstructorDashboard is the instructor overview, scoped to assignments
type InstructorDashboard struct {
	Instructor struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
	} `json:"instructor"`
	Totals struct {
		Participants      int `json:"participants"`
		Annexes           int `json:"annexes"`
		PendingSignatures int `json:"pending_signatures"`
	} `json:"totals"`
	Participants []ParticipantCard `json:"participants"`
}

// ParticipantDashboard is a participant's own overview
type ParticipantDashboard struct {
	Participant    models.ParticipantView `json:"participant"`
	PendingAnnexes []models.AnnexSummary  `json:"pending_annexes"`
	SignedAnnexes  []models.AnnexSummary  `json:"signed_annexes"`
}

// Admin builds the administrator dashboard. Administrators only.
func (s *DashboardService) Admin(actor models.Actor) (*AdminDashboard, error) {
	if actor.Role != models.RoleAdministrator {
		return nil, apperrors.AccessDenied("only administrators may view this dashboard")
	}

	participants, err := s.core.store.ListParticipants()
	if err != nil {
		return nil, err
	}
	annexes, err := s.core.store.ListAllAnnexes()
	if err != nil {
		return nil, err
	}
	attendance, err := s.core.store.ListAllAttendance()
	if err != nil {
		return nil, err
	}

	dashboard := &AdminDashboard{
		PhaseCounts: map[models.PhaseType]int{
			models.PhaseDiagnostic: 0,
			models.PhaseTraining:   0,
			models.PhaseCompletion: 0,
		},
	}
	dashboard.Totals.Participants = len(participants)
	dashboard.Totals.Annexes = len(annexes)
	dashboard.Totals.AttendanceRecords = len(attendance)

	signedByParticipant := map[string]int{}
	annexesByParticipant := map[string]int{}
	for _, annex := range annexes {
		annexesByParticipant[annex.ParticipantID]++
		if annex.Status == models.AnnexSigned {
			dashboard.Totals.SignedAnnexes++
			signedByParticipant[annex.ParticipantID]++
		}
	}

	for _, participant := range participants {
		dashboard.PhaseCounts[participant.CurrentPhase]++
		dashboard.Participants = append(dashboard.Participants, ParticipantCard{
			ID:           participant.ID,
			FullName:     participant.FullName(),
			Email:        participant.Email,
			CourseID:     participant.CourseID,
			CurrentPhase: participant.CurrentPhase,
			AnnexCount:   annexesByParticipant[participant.ID],
			SignedCount:  signedByParticipant[participant.ID],
		})
	}

	recent, err := s.recentAttendance(attendance, 10)
	if err != nil {
		return nil, err
	}
	dashboard.RecentAttendance = recent
	return dashboard, nil
}

// Instructor builds an instructor's dashboard over their assigned
// participants. Instructors only.
func (s *DashboardService) Instructor(actor models.Actor) (*InstructorDashboard, error) {
	if actor.Role != models.RoleInstructor {
		return nil, apperrors.AccessDenied("only instructors may view this dashboard")
	}

	instructor, err := s.core.store.GetUserByID(actor.UserID)
	if err != nil {
		return nil, err
	}
	if instructor == nil {
		return nil, apperrors.NotFound("user not found")
	}

	assigned, err := assignedParticipantIDs(s.core.store, actor.UserID)
	if err != nil {
		return nil, err
	}
	participants, err := s.core.store.ListParticipants()
	if err != nil {
		return nil, err
	}

	dashboard := &InstructorDashboard{}
	dashboard.Instructor.ID = instructor.ID
	dashboard.Instructor.Name = instructor.Name
	dashboard.Instructor.Email = instructor.Email

	for _, participant := range participants {
		if !assigned[participant.ID] {
			continue
		}
		annexes, err := s.core.store.ListAnnexes(participant.ID)
		if err != nil {
			return nil, err
		}

		card := ParticipantCard{
			ID:           participant.ID,
			FullName:     participant.FullName(),
			Email:        participant.Email,
			CourseID:     participant.CourseID,
			CurrentPhase: participant.CurrentPhase,
			AnnexCount:   len(annexes),
		}
		for _, annex := range annexes {
			if annex.Status == models.AnnexSigned {
				card.SignedCount++
				continue
			}
			pending, err := s.instructorSignaturePending(&annex)
			if err != nil {
				return nil, err
			}
			if pending {
				dashboard.Totals.PendingSignatures++
			}
		}
		dashboard.Totals.Participants++
		dashboard.Totals.Annexes += len(annexes)
		dashboard.Participants = append(dashboard.Participants, card)
	}
	return dashboard, nil
}

// Participant builds a participant's own dashboard
func (s *DashboardService) Participant(actor models.Actor) (*ParticipantDashboard, error) {
	if actor.Role != models.RoleParticipant {
		return nil, apperrors.AccessDenied("only participants may view this dashboard")
	}

	participant, err := s.core.store.GetParticipantByUserID(actor.UserID)
	if err != nil {
		return nil, err
	}
	if participant == nil {
		return nil, apperrors.NotFound("participant not found")
	}

	view, err := s.participants.buildView(actor, participant)
	if err != nil {
		return nil, err
	}

	dashboard := &ParticipantDashboard{
		Participant:    *view,
		PendingAnnexes: []models.AnnexSummary{},
		SignedAnnexes:  []models.AnnexSummary{},
	}
	for _, annex := range view.Annexes {
		if annex.Status == models.AnnexSigned {
			dashboard.SignedAnnexes = append(dashboard.SignedAnnexes, annex)
		} else {
			dashboard.PendingAnnexes = append(dashboard.PendingAnnexes, annex)
		}
	}
	return dashboard, nil
}

// instructorSignaturePending reports whether an annex still needs the
// instructor's signature
func (s *DashboardService) instructorSignaturePending(annex *models.Annex) (bool, error) {
	required := false
	for _, role := range models.RequiredSignatures[annex.AnnexType] {
		if role == models.RoleInstructor {
			required = true
			break
		}
	}
	if !required {
		return false, nil
	}
	signatures, err := s.core.store.ListSignatures(annex.ID)
	if err != nil {
		return false, err
	}
	for _, signature := range signatures {
		if signature.ActorRole == models.RoleInstructor {
			return false, nil
		}
	}
	return true, nil
}

// recentAttendance returns the newest attendance rows with instructor
// names resolved
func (s *DashboardService) recentAttendance(records []models.AttendanceRecord, limit int) ([]models.AttendanceSummary, error) {
	sorted := make([]models.AttendanceRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].SessionDate != sorted[j].SessionDate {
			return sorted[i].SessionDate > sorted[j].SessionDate
		}
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}

	names := map[string]string{}
	out := make([]models.AttendanceSummary, 0, len(sorted))
	for _, record := range sorted {
		name, ok := names[record.InstructorID]
		if !ok {
			instructor, err := s.core.store.GetUserByID(record.InstructorID)
			if err != nil {
				return nil, err
			}
			if instructor != nil {
				name = instructor.Name
			}
			names[record.InstructorID] = name
		}
		out = append(out, models.AttendanceSummary{
			ID:             record.ID,
			ParticipantID:  record.ParticipantID,
			InstructorID:   record.InstructorID,
			InstructorName: name,
			SessionDate:    record.SessionDate,
			Hours:          record.Hours,
			Notes:          record.Notes,
			CreatedAt:      record.CreatedAt,
		})
	}
	return out, nil
}
