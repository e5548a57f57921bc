package models

import (
	"time"
)

// Role identifies what an authenticated user is allowed to do
type Role string

const (
	RoleAdministrator Role = "administrator"
	RoleInstructor    Role = "instructor"
	RoleParticipant   Role = "participant"
)

// PhaseType is one of the three fixed itinerary phases
type PhaseType string

const (
	PhaseDiagnostic PhaseType = "diagnostic"
	PhaseTraining   PhaseType = "training"
	PhaseCompletion PhaseType = "completion"
)

// AnnexType identifies a document template, each bound to exactly one phase
type AnnexType string

const (
	AnnexType2 AnnexType = "annex_2"
	AnnexType3 AnnexType = "annex_3"
	AnnexType5 AnnexType = "annex_5"
)

// PhaseStatus values for Phase.Status
const (
	PhaseNotStarted = "not_started"
	PhaseInProgress = "in_progress"
	PhaseCompleted  = "completed"
)

// AnnexStatus values for Annex.Status
const (
	AnnexGenerated = "generated"
	AnnexSigned    = "signed"
)

// Actor is the authenticated identity handed to every engine operation
type Actor struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   Role   `json:"role"`
	Name   string `json:"name"`
}

// User represents a login account
type User struct {
	ID           string    `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	Name         string    `json:"name" db:"name"`
	Role         Role      `json:"role" db:"role"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// Course represents a training program
type Course struct {
	ID            string `json:"id" db:"id"`
	Name          string `json:"name" db:"name"`
	Description   string `json:"description" db:"description"`
	DurationHours int    `json:"duration_hours" db:"duration_hours"`
	StartDate     string `json:"start_date" db:"start_date"`
	EndDate       string `json:"end_date" db:"end_date"`
}

// Participant represents a person enrolled in a course. Three Phase rows
// are created together with the participant, one per phase type.
type Participant struct {
	ID           string    `json:"id" db:"id"`
	UserID       string    `json:"user_id" db:"user_id"`
	CourseID     string    `json:"course_id" db:"course_id"`
	FirstName    string    `json:"first_name" db:"first_name"`
	LastName     string    `json:"last_name" db:"last_name"`
	IDNumber     string    `json:"id_number" db:"id_number"`
	Email        string    `json:"email" db:"email"`
	Phone        string    `json:"phone" db:"phone"`
	CurrentPhase PhaseType `json:"current_phase" db:"current_phase"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// FullName returns the display name used in documents and file names
func (p *Participant) FullName() string {
	return p.FirstName + " " + p.LastName
}

// InstructorAssignment links an instructor user to a participant
type InstructorAssignment struct {
	ID            string    `json:"id" db:"id"`
	InstructorID  string    `json:"instructor_id" db:"instructor_id"`
	ParticipantID string    `json:"participant_id" db:"participant_id"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

// Phase represents one step of a participant's itinerary
type Phase struct {
	ID            string     `json:"id" db:"id"`
	ParticipantID string     `json:"participant_id" db:"participant_id"`
	PhaseType     PhaseType  `json:"phase_type" db:"phase_type"`
	Status        string     `json:"status" db:"status"` // not_started, in_progress, completed
	StartedAt     *time.Time `json:"started_at,omitempty" db:"started_at"`
	CompletedAt   *time.Time `json:"completed_at,omitempty" db:"completed_at"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`
}

// Annex is a generated legal document. At most one exists per
// (participant, annex type); regeneration rewrites the same record.
type Annex struct {
	ID              string    `json:"id" db:"id"`
	ParticipantID   string    `json:"participant_id" db:"participant_id"`
	PhaseID         string    `json:"phase_id" db:"phase_id"`
	AnnexType       AnnexType `json:"annex_type" db:"annex_type"`
	Status          string    `json:"status" db:"status"` // generated, signed
	TemplateVersion string    `json:"template_version" db:"template_version"`
	FileName        string    `json:"file_name" db:"file_name"`
	StoragePath     string    `json:"storage_path" db:"storage_path"`
	ContentHash     string    `json:"content_hash" db:"content_hash"`
	GeneratedAt     time.Time `json:"generated_at" db:"generated_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
	PDFBytes        []byte    `json:"-" db:"pdf_bytes"`
}

// Signature records one role's signature on an annex. Immutable once
// created; at most one exists per (annex, actor role).
type Signature struct {
	ID               string    `json:"id" db:"id"`
	AnnexID          string    `json:"annex_id" db:"annex_id"`
	ParticipantID    string    `json:"participant_id" db:"participant_id"`
	SignerUserID     string    `json:"signer_user_id" db:"signer_user_id"`
	ActorRole        Role      `json:"actor_role" db:"actor_role"`
	TypedName        string    `json:"typed_name,omitempty" db:"typed_name"`
	SignatureDataURL string    `json:"-" db:"signature_data_url"`
	SignedAt         time.Time `json:"signed_at" db:"signed_at"`
	PhaseSnapshot    PhaseType `json:"phase_snapshot" db:"phase_snapshot"`
}

// AttendanceRecord logs one training session for a participant
type AttendanceRecord struct {
	ID            string    `json:"id" db:"id"`
	ParticipantID string    `json:"participant_id" db:"participant_id"`
	InstructorID  string    `json:"instructor_id" db:"instructor_id"`
	SessionDate   string    `json:"session_date" db:"session_date"`
	Hours         float64   `json:"hours" db:"hours"`
	Notes         string    `json:"notes,omitempty" db:"notes"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

// AuditLogEntry is an append-only trace of a state-changing action
type AuditLogEntry struct {
	ID           string    `json:"id" db:"id"`
	ActorUserID  *string   `json:"actor_user_id,omitempty" db:"actor_user_id"`
	Action       string    `json:"action" db:"action"`
	ResourceType string    `json:"resource_type" db:"resource_type"`
	ResourceID   *string   `json:"resource_id,omitempty" db:"resource_id"`
	Context      string    `json:"context,omitempty" db:"context"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// PhaseSummary is the phase shape returned by participant views
type PhaseSummary struct {
	ID          string     `json:"id"`
	PhaseType   PhaseType  `json:"phase_type"`
	Status      string     `json:"status"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// AnnexSummary is the annex shape returned by engine operations
// (never includes the PDF bytes themselves)
type AnnexSummary struct {
	ID              string    `json:"id"`
	ParticipantID   string    `json:"participant_id"`
	PhaseID         string    `json:"phase_id"`
	PhaseType       PhaseType `json:"phase_type"`
	AnnexType       AnnexType `json:"annex_type"`
	Title           string    `json:"title"`
	Status          string    `json:"status"`
	TemplateVersion string    `json:"template_version"`
	GeneratedAt     time.Time `json:"generated_at"`
	FileName        string    `json:"file_name"`
	ContentHash     string    `json:"content_hash"`
	DownloadPath    string    `json:"download_path,omitempty"`
}

// SignatureSummary is the signature shape returned by engine operations
type SignatureSummary struct {
	ID            string    `json:"id"`
	AnnexID       string    `json:"annex_id"`
	ParticipantID string    `json:"participant_id"`
	SignerUserID  string    `json:"signer_user_id"`
	ActorRole     Role      `json:"actor_role"`
	TypedName     string    `json:"typed_name,omitempty"`
	SignedAt      time.Time `json:"signed_at"`
	PhaseSnapshot PhaseType `json:"phase_snapshot"`
}

// AttendanceSummary is an attendance row enriched with the instructor name
type AttendanceSummary struct {
	ID             string    `json:"id"`
	ParticipantID  string    `json:"participant_id"`
	InstructorID   string    `json:"instructor_id"`
	InstructorName string    `json:"instructor_name"`
	SessionDate    string    `json:"session_date"`
	Hours          float64   `json:"hours"`
	Notes          string    `json:"notes,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// ParticipantView is the full participant profile with phases, annexes,
// attendance and instructor assignments resolved
type ParticipantView struct {
	ID                    string              `json:"id"`
	UserID                string              `json:"user_id"`
	FirstName             string              `json:"first_name"`
	LastName              string              `json:"last_name"`
	FullName              string              `json:"full_name"`
	IDNumber              string              `json:"id_number"`
	Email                 string              `json:"email"`
	Phone                 string              `json:"phone"`
	CourseID              string              `json:"course_id"`
	CourseName            string              `json:"course_name"`
	CurrentPhase          PhaseType           `json:"current_phase"`
	Phases                []PhaseSummary      `json:"phases"`
	Annexes               []AnnexSummary      `json:"annexes"`
	Attendance            []AttendanceSummary `json:"attendance"`
	AssignedInstructorIDs []string            `json:"assigned_instructor_ids"`
	CreatedAt             time.Time           `json:"created_at"`
	UpdatedAt             time.Time           `json:"updated_at"`
	CanEdit               bool                `json:"can_edit"`
}
