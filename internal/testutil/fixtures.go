package testutil

import (
	"database/sql"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"camara-formacion/internal/models"
)

// Fixtures holds a baseline data set: one course, one admin, one
// instructor, and one participant assigned to the instructor.
type Fixtures struct {
	DB          *sql.DB
	Admin       *models.User
	Instructor  *models.User
	Course      *models.Course
	Participant *models.Participant
}

// SetupFixtures creates the baseline data set directly in the database
func SetupFixtures(t *testing.T, db *sql.DB) *Fixtures {
	t.Helper()

	f := &Fixtures{DB: db}
	now := time.Date(2025, 2, 6, 10, 0, 0, 0, time.UTC)

	f.Admin = createUser(t, db, "user-admin-test", "admin@test.com", "Admin User", models.RoleAdministrator, now)
	f.Instructor = createUser(t, db, "user-instructor-test", "instructor@test.com", "Instructor User", models.RoleInstructor, now)

	f.Course = &models.Course{
		ID:            "course-test",
		Name:          "Programa de Prueba",
		DurationHours: 40,
		StartDate:     "2025-01-15",
		EndDate:       "2025-04-30",
	}
	mustExec(t, db, `
		INSERT INTO courses (id, name, description, duration_hours, start_date, end_date)
		VALUES ($1, $2, '', $3, $4, $5)`,
		f.Course.ID, f.Course.Name, f.Course.DurationHours, f.Course.StartDate, f.Course.EndDate)

	participantUser := createUser(t, db, "user-participant-test", "participant@test.com", "Maria Prueba", models.RoleParticipant, now)
	f.Participant = &models.Participant{
		ID:           "participant-test",
		UserID:       participantUser.ID,
		CourseID:     f.Course.ID,
		FirstName:    "Maria",
		LastName:     "Prueba",
		IDNumber:     "00000000T",
		Email:        participantUser.Email,
		CurrentPhase: models.PhaseDiagnostic,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	mustExec(t, db, `
		INSERT INTO participants (id, user_id, course_id, first_name, last_name,
			id_number, email, phone, current_phase, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, '', $8, $9, $9)`,
		f.Participant.ID, f.Participant.UserID, f.Participant.CourseID,
		f.Participant.FirstName, f.Participant.LastName, f.Participant.IDNumber,
		f.Participant.Email, f.Participant.CurrentPhase, now)

	for i, phaseType := range models.PhaseOrder {
		status := models.PhaseNotStarted
		var startedAt *time.Time
		if phaseType == models.PhaseDiagnostic {
			status = models.PhaseInProgress
			startedAt = &now
		}
		mustExec(t, db, `
			INSERT INTO phases (id, participant_id, phase_type, status, started_at,
				completed_at, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, NULL, $6, $6)`,
			"phase-test-"+string(rune('1'+i)), f.Participant.ID, phaseType, status, startedAt, now)
	}

	mustExec(t, db, `
		INSERT INTO instructor_assignments (id, instructor_id, participant_id, created_at)
		VALUES ($1, $2, $3, $4)`,
		"assignment-test", f.Instructor.ID, f.Participant.ID, now)

	return f
}

func createUser(t *testing.T, db *sql.DB, id, email, name string, role models.Role, now time.Time) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	user := &models.User{
		ID:           id,
		Email:        email,
		Name:         name,
		Role:         role,
		PasswordHash: string(hash),
		CreatedAt:    now,
	}
	mustExec(t, db, `
		INSERT INTO users (id, email, name, role, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		user.ID, user.Email, user.Name, user.Role, user.PasswordHash, user.CreatedAt)
	return user
}

func mustExec(t *testing.T, db *sql.DB, query string, args ...any) {
	t.Helper()
	if _, err := db.Exec(query, args...); err != nil {
		t.Fatalf("Failed to execute fixture statement: %v", err)
	}
}
