package service

import (
	"camara-formacion/internal/models"
)

// buildView assembles the full participant view: profile, itinerary,
// annexes, attendance with instructor names, and assignments.
func (s *ParticipantService) buildView(actor models.Actor, participant *models.Participant) (*models.ParticipantView, error) {
	course, err := s.core.store.GetCourse(participant.CourseID)
	if err != nil {
		return nil, err
	}
	courseName := ""
	if course != nil {
		courseName = course.Name
	}

	phases, err := s.core.store.ListPhases(participant.ID)
	if err != nil {
		return nil, err
	}
	phaseSummaries := make([]models.PhaseSummary, 0, len(phases))
	for i := range phases {
		phaseSummaries = append(phaseSummaries, phaseSummary(&phases[i]))
	}

	annexes, err := s.core.store.ListAnnexes(participant.ID)
	if err != nil {
		return nil, err
	}
	annexSummaries := make([]models.AnnexSummary, 0, len(annexes))
	for i := range annexes {
		summary := annexSummary(&annexes[i])
		summary.DownloadPath = "/api/v1/annexes/" + summary.ID + "/download"
		annexSummaries = append(annexSummaries, summary)
	}

	attendance, err := s.core.store.ListAttendance(participant.ID)
	if err != nil {
		return nil, err
	}
	attendanceSummaries := make([]models.AttendanceSummary, 0, len(attendance))
	for _, record := range attendance {
		summary := models.AttendanceSummary{
			ID:            record.ID,
			ParticipantID: record.ParticipantID,
			InstructorID:  record.InstructorID,
			SessionDate:   record.SessionDate,
			Hours:         record.Hours,
			Notes:         record.Notes,
			CreatedAt:     record.CreatedAt,
		}
		instructor, err := s.core.store.GetUserByID(record.InstructorID)
		if err != nil {
			return nil, err
		}
		if instructor != nil {
			summary.InstructorName = instructor.Name
		}
		attendanceSummaries = append(attendanceSummaries, summary)
	}

	assignments, err := s.core.store.ListAssignmentsByParticipant(participant.ID)
	if err != nil {
		return nil, err
	}
	instructorIDs := make([]string, 0, len(assignments))
	for _, assignment := range assignments {
		instructorIDs = append(instructorIDs, assignment.InstructorID)
	}

	return &models.ParticipantView{
		ID:                    participant.ID,
		UserID:                participant.UserID,
		FirstName:             participant.FirstName,
		LastName:              participant.LastName,
		FullName:              participant.FullName(),
		IDNumber:              participant.IDNumber,
		Email:                 participant.Email,
		Phone:                 participant.Phone,
		CourseID:              participant.CourseID,
		CourseName:            courseName,
		CurrentPhase:          participant.CurrentPhase,
		Phases:                phaseSummaries,
		Annexes:               annexSummaries,
		Attendance:            attendanceSummaries,
		AssignedInstructorIDs: instructorIDs,
		CreatedAt:             participant.CreatedAt,
		UpdatedAt:             participant.UpdatedAt,
		CanEdit:               actor.Role == models.RoleAdministrator,
	}, nil
}
