package service

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"camara-formacion/internal/apperrors"
	"camara-formacion/internal/models"
	"camara-formacion/internal/policy"
	"camara-formacion/internal/render"
	"camara-formacion/internal/store"
)

// newID returns a prefixed opaque identifier, e.g. "participant-<uuid>"
func newID(prefix string) string {
	return prefix + "-" + uuid.NewString()
}

// formatDate renders a timestamp as the date-only form used in documents
func formatDate(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// participantLocks serializes mutations per participant aggregate.
// Rendering stays pure, so concurrent reads and renders of different
// participants proceed freely; only writes on the same participant queue.
type participantLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newParticipantLocks() *participantLocks {
	return &participantLocks{locks: make(map[string]*sync.Mutex)}
}

func (p *participantLocks) lock(participantID string) func() {
	p.mu.Lock()
	l, ok := p.locks[participantID]
	if !ok {
		l = &sync.Mutex{}
		p.locks[participantID] = l
	}
	p.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// getParticipant loads a participant or fails with NotFound
func (c *core) getParticipant(id string) (*models.Participant, error) {
	participant, err := c.store.GetParticipant(id)
	if err != nil {
		return nil, err
	}
	if participant == nil {
		return nil, apperrors.NotFound("participant not found")
	}
	return participant, nil
}

// getAnnex loads an annex or fails with NotFound
func (c *core) getAnnex(id string) (*models.Annex, error) {
	annex, err := c.store.GetAnnex(id)
	if err != nil {
		return nil, err
	}
	if annex == nil {
		return nil, apperrors.NotFound("annex not found")
	}
	return annex, nil
}

// getPhase loads a phase row or fails with NotFound
func (c *core) getPhase(participantID string, phaseType models.PhaseType) (*models.Phase, error) {
	phase, err := c.store.GetPhase(participantID, phaseType)
	if err != nil {
		return nil, err
	}
	if phase == nil {
		return nil, apperrors.NotFound("phase not found")
	}
	return phase, nil
}

// assertParticipantAccess enforces the access policy for an operation
// targeting a participant. Must run before any mutation or state read.
func (c *core) assertParticipantAccess(actor models.Actor, participant *models.Participant) error {
	assignments, err := c.store.ListAssignmentsByInstructor(actor.UserID)
	if err != nil {
		return err
	}
	if !policy.CanAccessParticipant(actor, participant, assignments) {
		return apperrors.AccessDenied("no access to this participant")
	}
	return nil
}

// assignedParticipantIDs returns the set of participant ids an
// instructor is assigned to
func assignedParticipantIDs(st store.Store, instructorID string) (map[string]bool, error) {
	assignments, err := st.ListAssignmentsByInstructor(instructorID)
	if err != nil {
		return nil, err
	}
	ids := make(map[string]bool, len(assignments))
	for _, assignment := range assignments {
		ids[assignment.ParticipantID] = true
	}
	return ids, nil
}

// attendanceSummaryText folds attendance rows into the one-line summary
// printed on annex_3 documents
func attendanceSummaryText(records []models.AttendanceRecord) string {
	if len(records) == 0 {
		return "Sin sesiones registradas"
	}
	var total float64
	for _, record := range records {
		total += record.Hours
	}
	return fmt.Sprintf("%d sesiones - %.1f horas", len(records), total)
}

// latestInstructorNote returns the note from the most recent session
// that carries one, or "" if none do
func latestInstructorNote(records []models.AttendanceRecord) string {
	latest := ""
	latestDate := ""
	for _, record := range records {
		if record.Notes == "" {
			continue
		}
		if record.SessionDate >= latestDate {
			latestDate = record.SessionDate
			latest = record.Notes
		}
	}
	return latest
}

// renderAnnex produces the document bytes and fingerprint for an annex
// from current store state plus any not-yet-persisted signatures. It is
// called before the mutation is persisted, so a render failure leaves
// no partial state behind.
func (c *core) renderAnnex(annex *models.Annex, pendingSignatures ...models.Signature) (render.Result, error) {
	participant, err := c.getParticipant(annex.ParticipantID)
	if err != nil {
		return render.Result{}, err
	}

	course, err := c.store.GetCourse(participant.CourseID)
	if err != nil {
		return render.Result{}, err
	}
	if course == nil {
		return render.Result{}, apperrors.NotFound("course not found")
	}

	stored, err := c.store.ListSignatures(annex.ID)
	if err != nil {
		return render.Result{}, err
	}
	signatures := append(stored, pendingSignatures...)

	lines := make([]render.SignatureLine, 0, len(signatures))
	for _, signature := range signatures {
		name := signature.TypedName
		if name == "" {
			user, err := c.store.GetUserByID(signature.SignerUserID)
			if err != nil {
				return render.Result{}, err
			}
			if user != nil {
				name = user.Name
			}
		}
		lines = append(lines, render.SignatureLine{
			Role:     signature.ActorRole,
			Name:     name,
			SignedAt: formatDate(signature.SignedAt),
		})
	}

	attendance, err := c.store.ListAttendance(participant.ID)
	if err != nil {
		return render.Result{}, err
	}

	input := render.Input{
		AnnexType: annex.AnnexType,
		Participant: render.ParticipantInfo{
			FullName: participant.FullName(),
			IDNumber: participant.IDNumber,
			Email:    participant.Email,
			Phone:    participant.Phone,
		},
		Course: render.CourseInfo{
			Name:          course.Name,
			DurationHours: course.DurationHours,
			StartDate:     course.StartDate,
			EndDate:       course.EndDate,
		},
		PhaseLabel:        models.PhaseLabel(models.AnnexTypeToPhase(annex.AnnexType)),
		GeneratedAt:       formatDate(annex.GeneratedAt),
		AttendanceSummary: attendanceSummaryText(attendance),
		InstructorNotes:   latestInstructorNote(attendance),
		Signatures:        lines,
	}

	return render.Annex(input), nil
}

// annexSummary maps an annex record to its external shape
func annexSummary(annex *models.Annex) models.AnnexSummary {
	return models.AnnexSummary{
		ID:              annex.ID,
		ParticipantID:   annex.ParticipantID,
		PhaseID:         annex.PhaseID,
		PhaseType:       models.AnnexTypeToPhase(annex.AnnexType),
		AnnexType:       annex.AnnexType,
		Title:           models.AnnexTitle(annex.AnnexType),
		Status:          annex.Status,
		TemplateVersion: annex.TemplateVersion,
		GeneratedAt:     annex.GeneratedAt,
		FileName:        annex.FileName,
		ContentHash:     annex.ContentHash,
	}
}

// signatureSummary maps a signature record to its external shape
func signatureSummary(signature *models.Signature) models.SignatureSummary {
	return models.SignatureSummary{
		ID:            signature.ID,
		AnnexID:       signature.AnnexID,
		ParticipantID: signature.ParticipantID,
		SignerUserID:  signature.SignerUserID,
		ActorRole:     signature.ActorRole,
		TypedName:     signature.TypedName,
		SignedAt:      signature.SignedAt,
		PhaseSnapshot: signature.PhaseSnapshot,
	}
}
