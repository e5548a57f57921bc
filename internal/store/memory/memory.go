// Package memory provides the in-memory Store implementation. It is the
// reference implementation for engine semantics and the backing store
// for unit tests and demo deployments.
package memory

import (
	"sort"
	"strings"
	"sync"

	"camara-formacion/internal/apperrors"
	"camara-formacion/internal/models"
)

// Store keeps all records in process memory behind a single RW mutex.
// Returned records are copies, so callers can never mutate stored state
// without going through an update method.
type Store struct {
	mu sync.RWMutex

	users        []models.User
	courses      []models.Course
	participants []models.Participant
	assignments  []models.InstructorAssignment
	phases       []models.Phase
	annexes      []models.Annex
	signatures   []models.Signature
	attendance   []models.AttendanceRecord
	auditLogs    []models.AuditLogEntry
}

// New creates an empty in-memory store
func New() *Store {
	return &Store{}
}

func (s *Store) CreateUser(user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if strings.EqualFold(existing.Email, user.Email) {
			return apperrors.Conflict("email is already registered")
		}
	}
	s.users = append(s.users, *user)
	return nil
}

func (s *Store) GetUserByEmail(email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if strings.EqualFold(user.Email, strings.TrimSpace(email)) {
			u := user
			return &u, nil
		}
	}
	return nil, nil
}

func (s *Store) GetUserByID(id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if user.ID == id {
			u := user
			return &u, nil
		}
	}
	return nil, nil
}

func (s *Store) CreateCourse(course *models.Course) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.courses = append(s.courses, *course)
	return nil
}

func (s *Store) GetCourse(id string) (*models.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, course := range s.courses {
		if course.ID == id {
			c := course
			return &c, nil
		}
	}
	return nil, nil
}

func (s *Store) ListCourses() ([]models.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Course, len(s.courses))
	copy(out, s.courses)
	return out, nil
}

func (s *Store) CreateParticipant(participant *models.Participant, phases []models.Phase) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.participants = append(s.participants, *participant)
	s.phases = append(s.phases, phases...)
	return nil
}

func (s *Store) GetParticipant(id string) (*models.Participant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, participant := range s.participants {
		if participant.ID == id {
			p := participant
			return &p, nil
		}
	}
	return nil, nil
}

func (s *Store) GetParticipantByUserID(userID string) (*models.Participant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, participant := range s.participants {
		if participant.UserID == userID {
			p := participant
			return &p, nil
		}
	}
	return nil, nil
}

func (s *Store) ListParticipants() ([]models.Participant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Participant, len(s.participants))
	copy(out, s.participants)
	return out, nil
}

func (s *Store) UpdateParticipant(participant *models.Participant) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.participants {
		if s.participants[i].ID == participant.ID {
			s.participants[i] = *participant
			return nil
		}
	}
	return apperrors.NotFound("participant not found")
}

func (s *Store) CreateAssignment(assignment *models.InstructorAssignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.assignments = append(s.assignments, *assignment)
	return nil
}

func (s *Store) ListAssignmentsByInstructor(instructorID string) ([]models.InstructorAssignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.InstructorAssignment
	for _, assignment := range s.assignments {
		if assignment.InstructorID == instructorID {
			out = append(out, assignment)
		}
	}
	return out, nil
}

func (s *Store) ListAssignmentsByParticipant(participantID string) ([]models.InstructorAssignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.InstructorAssignment
	for _, assignment := range s.assignments {
		if assignment.ParticipantID == participantID {
			out = append(out, assignment)
		}
	}
	return out, nil
}

func (s *Store) GetPhase(participantID string, phaseType models.PhaseType) (*models.Phase, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, phase := range s.phases {
		if phase.ParticipantID == participantID && phase.PhaseType == phaseType {
			p := phase
			return &p, nil
		}
	}
	return nil, nil
}

func (s *Store) ListPhases(participantID string) ([]models.Phase, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Phase
	for _, phaseType := range models.PhaseOrder {
		for _, phase := range s.phases {
			if phase.ParticipantID == participantID && phase.PhaseType == phaseType {
				out = append(out, phase)
			}
		}
	}
	return out, nil
}

func (s *Store) UpdatePhase(phase *models.Phase) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.phases {
		if s.phases[i].ID == phase.ID {
			s.phases[i] = *phase
			return nil
		}
	}
	return apperrors.NotFound("phase not found")
}

func (s *Store) CreateAnnex(annex *models.Annex) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.annexes {
		if existing.ParticipantID == annex.ParticipantID && existing.AnnexType == annex.AnnexType {
			return apperrors.Conflict("annex already exists for this participant and type")
		}
	}
	s.annexes = append(s.annexes, *cloneAnnex(annex))
	return nil
}

func (s *Store) UpdateAnnex(annex *models.Annex) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.annexes {
		if s.annexes[i].ID == annex.ID {
			s.annexes[i] = *cloneAnnex(annex)
			return nil
		}
	}
	return apperrors.NotFound("annex not found")
}

func (s *Store) GetAnnex(id string) (*models.Annex, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, annex := range s.annexes {
		if annex.ID == id {
			return cloneAnnex(&annex), nil
		}
	}
	return nil, nil
}

func (s *Store) FindAnnex(participantID string, annexType models.AnnexType) (*models.Annex, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, annex := range s.annexes {
		if annex.ParticipantID == participantID && annex.AnnexType == annexType {
			return cloneAnnex(&annex), nil
		}
	}
	return nil, nil
}

func (s *Store) ListAnnexes(participantID string) ([]models.Annex, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Annex
	for i := range s.annexes {
		if s.annexes[i].ParticipantID == participantID {
			out = append(out, *cloneAnnex(&s.annexes[i]))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].GeneratedAt.Before(out[j].GeneratedAt)
	})
	return out, nil
}

func (s *Store) ListAllAnnexes() ([]models.Annex, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Annex, 0, len(s.annexes))
	for i := range s.annexes {
		out = append(out, *cloneAnnex(&s.annexes[i]))
	}
	return out, nil
}

func (s *Store) CreateSignature(signature *models.Signature) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.signatures {
		if existing.AnnexID == signature.AnnexID && existing.ActorRole == signature.ActorRole {
			return apperrors.Conflict("a signature from this role already exists and is immutable")
		}
	}
	s.signatures = append(s.signatures, *signature)
	return nil
}

func (s *Store) ListSignatures(annexID string) ([]models.Signature, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Signature
	for _, signature := range s.signatures {
		if signature.AnnexID == annexID {
			out = append(out, signature)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SignedAt.Before(out[j].SignedAt)
	})
	return out, nil
}

func (s *Store) CreateAttendance(record *models.AttendanceRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.attendance = append(s.attendance, *record)
	return nil
}

func (s *Store) ListAttendance(participantID string) ([]models.AttendanceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.AttendanceRecord
	for _, record := range s.attendance {
		if record.ParticipantID == participantID {
			out = append(out, record)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SessionDate < out[j].SessionDate
	})
	return out, nil
}

func (s *Store) ListAllAttendance() ([]models.AttendanceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.AttendanceRecord, len(s.attendance))
	copy(out, s.attendance)
	return out, nil
}

func (s *Store) CreateAuditLog(entry *models.AuditLogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.auditLogs = append(s.auditLogs, *entry)
	return nil
}

func (s *Store) ListAuditLogs(limit, offset int) ([]models.AuditLogEntry, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := len(s.auditLogs)

	// newest first
	reversed := make([]models.AuditLogEntry, total)
	for i, entry := range s.auditLogs {
		reversed[total-1-i] = entry
	}

	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if limit <= 0 || end > total {
		end = total
	}
	out := make([]models.AuditLogEntry, end-offset)
	copy(out, reversed[offset:end])
	return out, total, nil
}

func (s *Store) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.users = nil
	s.courses = nil
	s.participants = nil
	s.assignments = nil
	s.phases = nil
	s.annexes = nil
	s.signatures = nil
	s.attendance = nil
	s.auditLogs = nil
	return nil
}

func (s *Store) Close() error {
	return nil
}

// cloneAnnex deep-copies the PDF byte slice so stored bytes can never be
// aliased by callers
func cloneAnnex(annex *models.Annex) *models.Annex {
	clone := *annex
	if annex.PDFBytes != nil {
		clone.PDFBytes = make([]byte, len(annex.PDFBytes))
		copy(clone.PDFBytes, annex.PDFBytes)
	}
	return &clone
}
