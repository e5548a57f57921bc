// Package store defines the persistence contract the lifecycle engine
// is written against. Implementations must preserve the uniqueness
// constraints (user email, (participant, annex type), (annex, role));
// all business invariants beyond those live in the service layer.
package store

import (
	"camara-formacion/internal/models"
)

// Store is the injected persistence dependency of the engine.
// Lookup methods return (nil, nil) when the record does not exist;
// create methods return apperrors.Conflict on a unique violation.
type Store interface {
	// Users
	CreateUser(user *models.User) error
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)

	// Courses
	CreateCourse(course *models.Course) error
	GetCourse(id string) (*models.Course, error)
	ListCourses() ([]models.Course, error)

	// Participants. CreateParticipant persists the participant together
	// with its three phase rows.
	CreateParticipant(participant *models.Participant, phases []models.Phase) error
	GetParticipant(id string) (*models.Participant, error)
	GetParticipantByUserID(userID string) (*models.Participant, error)
	ListParticipants() ([]models.Participant, error)
	UpdateParticipant(participant *models.Participant) error

	// Instructor assignments
	CreateAssignment(assignment *models.InstructorAssignment) error
	ListAssignmentsByInstructor(instructorID string) ([]models.InstructorAssignment, error)
	ListAssignmentsByParticipant(participantID string) ([]models.InstructorAssignment, error)

	// Phases. ListPhases returns rows in fixed phase order.
	GetPhase(participantID string, phaseType models.PhaseType) (*models.Phase, error)
	ListPhases(participantID string) ([]models.Phase, error)
	UpdatePhase(phase *models.Phase) error

	// Annexes
	CreateAnnex(annex *models.Annex) error
	UpdateAnnex(annex *models.Annex) error
	GetAnnex(id string) (*models.Annex, error)
	FindAnnex(participantID string, annexType models.AnnexType) (*models.Annex, error)
	ListAnnexes(participantID string) ([]models.Annex, error)
	ListAllAnnexes() ([]models.Annex, error)

	// Signatures. ListSignatures returns rows ordered by signing time.
	CreateSignature(signature *models.Signature) error
	ListSignatures(annexID string) ([]models.Signature, error)

	// Attendance. ListAttendance returns rows ordered by session date.
	CreateAttendance(record *models.AttendanceRecord) error
	ListAttendance(participantID string) ([]models.AttendanceRecord, error)
	ListAllAttendance() ([]models.AttendanceRecord, error)

	// Audit trail
	CreateAuditLog(entry *models.AuditLogEntry) error
	ListAuditLogs(limit, offset int) ([]models.AuditLogEntry, int, error)

	// Lifecycle
	Reset() error
	Close() error
}
