package service

import (
	"math"
	"strings"

	"camara-formacion/internal/apperrors"
	"camara-formacion/internal/models"
	"camara-formacion/internal/policy"
)

// maxSessionHours bounds a single attendance entry
const maxSessionHours = 12

// AttendanceService records training sessions
type AttendanceService struct {
	core  *core
	audit *AuditService
}

// MarkInput is the payload for logging a session
type MarkInput struct {
	SessionDate string  `json:"session_date"`
	Hours       float64 `json:"hours"`
	Notes       string  `json:"notes,omitempty"`
}

// Mark logs a session for a participant. Staff only. Hours are rounded
// to one decimal.
func (s *AttendanceService) Mark(actor models.Actor, participantID string, in MarkInput) (*models.AttendanceRecord, error) {
	if !policy.CanManageDocuments(actor) {
		return nil, apperrors.AccessDenied("only staff may record attendance")
	}

	participant, err := s.core.getParticipant(participantID)
	if err != nil {
		return nil, err
	}
	if err := s.core.assertParticipantAccess(actor, participant); err != nil {
		return nil, err
	}

	sessionDate := strings.TrimSpace(in.SessionDate)
	if sessionDate == "" {
		sessionDate = formatDate(s.core.now())
	}
	if in.Hours <= 0 || in.Hours > maxSessionHours {
		return nil, apperrors.RuleViolation("hours must be positive and plausible for a single session")
	}

	record := &models.AttendanceRecord{
		ID:            newID("attendance"),
		ParticipantID: participant.ID,
		InstructorID:  actor.UserID,
		SessionDate:   sessionDate,
		Hours:         math.Round(in.Hours*10) / 10,
		Notes:         strings.TrimSpace(in.Notes),
		CreatedAt:     s.core.now(),
	}
	if err := s.core.store.CreateAttendance(record); err != nil {
		return nil, err
	}

	s.audit.Log(actor.UserID, "attendance_marked", "participant", participant.ID, map[string]any{
		"session_date": record.SessionDate,
		"hours":        record.Hours,
	})
	return record, nil
}

// List returns a participant's attendance rows ordered by session date
func (s *AttendanceService) List(actor models.Actor, participantID string) ([]models.AttendanceRecord, error) {
	participant, err := s.core.getParticipant(participantID)
	if err != nil {
		return nil, err
	}
	if err := s.core.assertParticipantAccess(actor, participant); err != nil {
		return nil, err
	}

	records, err := s.core.store.ListAttendance(participantID)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []models.AttendanceRecord{}
	}
	return records, nil
}
