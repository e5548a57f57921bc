// Package postgres implements the Store interface over PostgreSQL.
package postgres

import (
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"camara-formacion/internal/apperrors"
	"camara-formacion/internal/models"
)

// uniqueViolation is the PostgreSQL error code for unique constraint violations
const uniqueViolation = "23505"

// Store is the PostgreSQL-backed persistence layer
type Store struct {
	db *sql.DB
}

// New creates a Store over an open database connection
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// conflictOn maps unique violations to the engine's Conflict error,
// passing other errors through
func conflictOn(err error, message string) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok && string(pqErr.Code) == uniqueViolation {
		return apperrors.Conflict(message)
	}
	return fmt.Errorf("database error: %w", err)
}

func (s *Store) CreateUser(user *models.User) error {
	query := `
		INSERT INTO users (id, email, name, role, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := s.db.Exec(query, user.ID, user.Email, user.Name, user.Role, user.PasswordHash, user.CreatedAt)
	return conflictOn(err, "email is already registered")
}

func (s *Store) GetUserByEmail(email string) (*models.User, error) {
	query := `
		SELECT id, email, name, role, password_hash, created_at
		FROM users WHERE LOWER(email) = LOWER(TRIM($1))`
	return s.scanUser(s.db.QueryRow(query, email))
}

func (s *Store) GetUserByID(id string) (*models.User, error) {
	query := `
		SELECT id, email, name, role, password_hash, created_at
		FROM users WHERE id = $1`
	return s.scanUser(s.db.QueryRow(query, id))
}

func (s *Store) scanUser(row *sql.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(&user.ID, &user.Email, &user.Name, &user.Role, &user.PasswordHash, &user.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	return &user, nil
}

func (s *Store) CreateCourse(course *models.Course) error {
	query := `
		INSERT INTO courses (id, name, description, duration_hours, start_date, end_date)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := s.db.Exec(query, course.ID, course.Name, course.Description,
		course.DurationHours, course.StartDate, course.EndDate)
	return conflictOn(err, "course already exists")
}

func (s *Store) GetCourse(id string) (*models.Course, error) {
	query := `
		SELECT id, name, description, duration_hours, start_date, end_date
		FROM courses WHERE id = $1`
	var course models.Course
	err := s.db.QueryRow(query, id).Scan(&course.ID, &course.Name, &course.Description,
		&course.DurationHours, &course.StartDate, &course.EndDate)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan course: %w", err)
	}
	return &course, nil
}

func (s *Store) ListCourses() ([]models.Course, error) {
	query := `
		SELECT id, name, description, duration_hours, start_date, end_date
		FROM courses ORDER BY name`
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	defer rows.Close()

	var courses []models.Course
	for rows.Next() {
		var course models.Course
		if err := rows.Scan(&course.ID, &course.Name, &course.Description,
			&course.DurationHours, &course.StartDate, &course.EndDate); err != nil {
			return nil, fmt.Errorf("failed to scan course: %w", err)
		}
		courses = append(courses, course)
	}
	return courses, rows.Err()
}

func (s *Store) CreateParticipant(participant *models.Participant, phases []models.Phase) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO participants (id, user_id, course_id, first_name, last_name,
			id_number, email, phone, current_phase, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	if _, err := tx.Exec(query, participant.ID, participant.UserID, participant.CourseID,
		participant.FirstName, participant.LastName, participant.IDNumber,
		participant.Email, participant.Phone, participant.CurrentPhase,
		participant.CreatedAt, participant.UpdatedAt); err != nil {
		return conflictOn(err, "participant already exists")
	}

	phaseQuery := `
		INSERT INTO phases (id, participant_id, phase_type, status, started_at,
			completed_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	for _, phase := range phases {
		if _, err := tx.Exec(phaseQuery, phase.ID, phase.ParticipantID, phase.PhaseType,
			phase.Status, phase.StartedAt, phase.CompletedAt,
			phase.CreatedAt, phase.UpdatedAt); err != nil {
			return conflictOn(err, "phase already exists for this participant")
		}
	}
	return tx.Commit()
}

const participantColumns = `id, user_id, course_id, first_name, last_name,
	id_number, email, phone, current_phase, created_at, updated_at`

func scanParticipant(scanner interface{ Scan(...any) error }) (*models.Participant, error) {
	var p models.Participant
	err := scanner.Scan(&p.ID, &p.UserID, &p.CourseID, &p.FirstName, &p.LastName,
		&p.IDNumber, &p.Email, &p.Phone, &p.CurrentPhase, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan participant: %w", err)
	}
	return &p, nil
}

func (s *Store) GetParticipant(id string) (*models.Participant, error) {
	query := `SELECT ` + participantColumns + ` FROM participants WHERE id = $1`
	return scanParticipant(s.db.QueryRow(query, id))
}

func (s *Store) GetParticipantByUserID(userID string) (*models.Participant, error) {
	query := `SELECT ` + participantColumns + ` FROM participants WHERE user_id = $1`
	return scanParticipant(s.db.QueryRow(query, userID))
}

func (s *Store) ListParticipants() ([]models.Participant, error) {
	query := `SELECT ` + participantColumns + ` FROM participants ORDER BY created_at, id`
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	defer rows.Close()

	var participants []models.Participant
	for rows.Next() {
		p, err := scanParticipant(rows)
		if err != nil {
			return nil, err
		}
		participants = append(participants, *p)
	}
	return participants, rows.Err()
}

func (s *Store) UpdateParticipant(participant *models.Participant) error {
	query := `
		UPDATE participants
		SET user_id = $2, course_id = $3, first_name = $4, last_name = $5,
			id_number = $6, email = $7, phone = $8, current_phase = $9, updated_at = $10
		WHERE id = $1`
	result, err := s.db.Exec(query, participant.ID, participant.UserID, participant.CourseID,
		participant.FirstName, participant.LastName, participant.IDNumber,
		participant.Email, participant.Phone, participant.CurrentPhase, participant.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update participant: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return apperrors.NotFound("participant not found")
	}
	return nil
}

func (s *Store) CreateAssignment(assignment *models.InstructorAssignment) error {
	query := `
		INSERT INTO instructor_assignments (id, instructor_id, participant_id, created_at)
		VALUES ($1, $2, $3, $4)`
	_, err := s.db.Exec(query, assignment.ID, assignment.InstructorID,
		assignment.ParticipantID, assignment.CreatedAt)
	return conflictOn(err, "instructor is already assigned")
}

func (s *Store) listAssignments(column, value string) ([]models.InstructorAssignment, error) {
	query := `
		SELECT id, instructor_id, participant_id, created_at
		FROM instructor_assignments WHERE ` + column + ` = $1`
	rows, err := s.db.Query(query, value)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	defer rows.Close()

	var assignments []models.InstructorAssignment
	for rows.Next() {
		var a models.InstructorAssignment
		if err := rows.Scan(&a.ID, &a.InstructorID, &a.ParticipantID, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		assignments = append(assignments, a)
	}
	return assignments, rows.Err()
}

func (s *Store) ListAssignmentsByInstructor(instructorID string) ([]models.InstructorAssignment, error) {
	return s.listAssignments("instructor_id", instructorID)
}

func (s *Store) ListAssignmentsByParticipant(participantID string) ([]models.InstructorAssignment, error) {
	return s.listAssignments("participant_id", participantID)
}

const phaseColumns = `id, participant_id, phase_type, status, started_at, completed_at, created_at, updated_at`

func scanPhase(scanner interface{ Scan(...any) error }) (*models.Phase, error) {
	var p models.Phase
	err := scanner.Scan(&p.ID, &p.ParticipantID, &p.PhaseType, &p.Status,
		&p.StartedAt, &p.CompletedAt, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan phase: %w", err)
	}
	return &p, nil
}

func (s *Store) GetPhase(participantID string, phaseType models.PhaseType) (*models.Phase, error) {
	query := `SELECT ` + phaseColumns + ` FROM phases WHERE participant_id = $1 AND phase_type = $2`
	return scanPhase(s.db.QueryRow(query, participantID, phaseType))
}

func (s *Store) ListPhases(participantID string) ([]models.Phase, error) {
	query := `SELECT ` + phaseColumns + ` FROM phases
		WHERE participant_id = $1
		ORDER BY CASE phase_type
			WHEN 'diagnostic' THEN 1
			WHEN 'training' THEN 2
			WHEN 'completion' THEN 3
		END`
	rows, err := s.db.Query(query, participantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list phases: %w", err)
	}
	defer rows.Close()

	var phases []models.Phase
	for rows.Next() {
		p, err := scanPhase(rows)
		if err != nil {
			return nil, err
		}
		phases = append(phases, *p)
	}
	return phases, rows.Err()
}

func (s *Store) UpdatePhase(phase *models.Phase) error {
	query := `
		UPDATE phases
		SET status = $2, started_at = $3, completed_at = $4, updated_at = $5
		WHERE id = $1`
	result, err := s.db.Exec(query, phase.ID, phase.Status, phase.StartedAt,
		phase.CompletedAt, phase.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update phase: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return apperrors.NotFound("phase not found")
	}
	return nil
}

const annexColumns = `id, participant_id, phase_id, annex_type, status, template_version,
	file_name, storage_path, content_hash, generated_at, updated_at, pdf_bytes`

func scanAnnex(scanner interface{ Scan(...any) error }) (*models.Annex, error) {
	var a models.Annex
	err := scanner.Scan(&a.ID, &a.ParticipantID, &a.PhaseID, &a.AnnexType, &a.Status,
		&a.TemplateVersion, &a.FileName, &a.StoragePath, &a.ContentHash,
		&a.GeneratedAt, &a.UpdatedAt, &a.PDFBytes)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan annex: %w", err)
	}
	return &a, nil
}

func (s *Store) CreateAnnex(annex *models.Annex) error {
	query := `
		INSERT INTO annexes (id, participant_id, phase_id, annex_type, status,
			template_version, file_name, storage_path, content_hash,
			generated_at, updated_at, pdf_bytes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := s.db.Exec(query, annex.ID, annex.ParticipantID, annex.PhaseID,
		annex.AnnexType, annex.Status, annex.TemplateVersion, annex.FileName,
		annex.StoragePath, annex.ContentHash, annex.GeneratedAt, annex.UpdatedAt,
		annex.PDFBytes)
	return conflictOn(err, "annex already exists for this participant and type")
}

func (s *Store) UpdateAnnex(annex *models.Annex) error {
	query := `
		UPDATE annexes
		SET status = $2, file_name = $3, storage_path = $4, content_hash = $5,
			updated_at = $6, pdf_bytes = $7
		WHERE id = $1`
	result, err := s.db.Exec(query, annex.ID, annex.Status, annex.FileName,
		annex.StoragePath, annex.ContentHash, annex.UpdatedAt, annex.PDFBytes)
	if err != nil {
		return fmt.Errorf("failed to update annex: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return apperrors.NotFound("annex not found")
	}
	return nil
}

func (s *Store) GetAnnex(id string) (*models.Annex, error) {
	query := `SELECT ` + annexColumns + ` FROM annexes WHERE id = $1`
	return scanAnnex(s.db.QueryRow(query, id))
}

func (s *Store) FindAnnex(participantID string, annexType models.AnnexType) (*models.Annex, error) {
	query := `SELECT ` + annexColumns + ` FROM annexes WHERE participant_id = $1 AND annex_type = $2`
	return scanAnnex(s.db.QueryRow(query, participantID, annexType))
}

func (s *Store) listAnnexes(query string, args ...any) ([]models.Annex, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list annexes: %w", err)
	}
	defer rows.Close()

	var annexes []models.Annex
	for rows.Next() {
		a, err := scanAnnex(rows)
		if err != nil {
			return nil, err
		}
		annexes = append(annexes, *a)
	}
	return annexes, rows.Err()
}

func (s *Store) ListAnnexes(participantID string) ([]models.Annex, error) {
	query := `SELECT ` + annexColumns + ` FROM annexes WHERE participant_id = $1 ORDER BY generated_at, id`
	return s.listAnnexes(query, participantID)
}

func (s *Store) ListAllAnnexes() ([]models.Annex, error) {
	query := `SELECT ` + annexColumns + ` FROM annexes ORDER BY generated_at, id`
	return s.listAnnexes(query)
}

func (s *Store) CreateSignature(signature *models.Signature) error {
	query := `
		INSERT INTO signatures (id, annex_id, participant_id, signer_user_id,
			actor_role, typed_name, signature_data_url, signed_at, phase_snapshot)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := s.db.Exec(query, signature.ID, signature.AnnexID, signature.ParticipantID,
		signature.SignerUserID, signature.ActorRole, signature.TypedName,
		signature.SignatureDataURL, signature.SignedAt, signature.PhaseSnapshot)
	return conflictOn(err, "a signature from this role already exists and is immutable")
}

func (s *Store) ListSignatures(annexID string) ([]models.Signature, error) {
	query := `
		SELECT id, annex_id, participant_id, signer_user_id, actor_role,
			typed_name, signature_data_url, signed_at, phase_snapshot
		FROM signatures WHERE annex_id = $1 ORDER BY signed_at, id`
	rows, err := s.db.Query(query, annexID)
	if err != nil {
		return nil, fmt.Errorf("failed to list signatures: %w", err)
	}
	defer rows.Close()

	var signatures []models.Signature
	for rows.Next() {
		var sig models.Signature
		if err := rows.Scan(&sig.ID, &sig.AnnexID, &sig.ParticipantID, &sig.SignerUserID,
			&sig.ActorRole, &sig.TypedName, &sig.SignatureDataURL, &sig.SignedAt,
			&sig.PhaseSnapshot); err != nil {
			return nil, fmt.Errorf("failed to scan signature: %w", err)
		}
		signatures = append(signatures, sig)
	}
	return signatures, rows.Err()
}

func (s *Store) CreateAttendance(record *models.AttendanceRecord) error {
	query := `
		INSERT INTO attendance_records (id, participant_id, instructor_id,
			session_date, hours, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := s.db.Exec(query, record.ID, record.ParticipantID, record.InstructorID,
		record.SessionDate, record.Hours, record.Notes, record.CreatedAt)
	return conflictOn(err, "attendance record already exists")
}

func (s *Store) listAttendance(query string, args ...any) ([]models.AttendanceRecord, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	defer rows.Close()

	var records []models.AttendanceRecord
	for rows.Next() {
		var r models.AttendanceRecord
		if err := rows.Scan(&r.ID, &r.ParticipantID, &r.InstructorID, &r.SessionDate,
			&r.Hours, &r.Notes, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan attendance record: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func (s *Store) ListAttendance(participantID string) ([]models.AttendanceRecord, error) {
	query := `
		SELECT id, participant_id, instructor_id, session_date, hours, notes, created_at
		FROM attendance_records WHERE participant_id = $1 ORDER BY session_date, id`
	return s.listAttendance(query, participantID)
}

func (s *Store) ListAllAttendance() ([]models.AttendanceRecord, error) {
	query := `
		SELECT id, participant_id, instructor_id, session_date, hours, notes, created_at
		FROM attendance_records ORDER BY session_date, id`
	return s.listAttendance(query)
}

func (s *Store) CreateAuditLog(entry *models.AuditLogEntry) error {
	query := `
		INSERT INTO audit_logs (id, actor_user_id, action, resource_type,
			resource_id, context, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := s.db.Exec(query, entry.ID, entry.ActorUserID, entry.Action,
		entry.ResourceType, entry.ResourceID, entry.Context, entry.CreatedAt)
	return conflictOn(err, "audit log entry already exists")
}

func (s *Store) ListAuditLogs(limit, offset int) ([]models.AuditLogEntry, int, error) {
	var total int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM audit_logs`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count audit logs: %w", err)
	}

	query := `
		SELECT id, actor_user_id, action, resource_type, resource_id, context, created_at
		FROM audit_logs ORDER BY created_at DESC, id DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT $1 OFFSET $2`
		args = append(args, limit, offset)
	} else if offset > 0 {
		query += ` OFFSET $1`
		args = append(args, offset)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list audit logs: %w", err)
	}
	defer rows.Close()

	var entries []models.AuditLogEntry
	for rows.Next() {
		var entry models.AuditLogEntry
		if err := rows.Scan(&entry.ID, &entry.ActorUserID, &entry.Action,
			&entry.ResourceType, &entry.ResourceID, &entry.Context, &entry.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan audit log entry: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, total, rows.Err()
}

// Reset truncates all tables. Test use only.
func (s *Store) Reset() error {
	_, err := s.db.Exec(`
		TRUNCATE audit_logs, attendance_records, signatures, annexes, phases,
			instructor_assignments, participants, courses, users CASCADE`)
	if err != nil {
		return fmt.Errorf("failed to reset store: %w", err)
	}
	return nil
}

// Close closes the underlying connection
func (s *Store) Close() error {
	return s.db.Close()
}
