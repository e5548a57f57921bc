// Package service implements the document lifecycle engine: participant
// and phase state, annex generation and signing, attendance, batch
// export, dashboards, and the audit trail. All business invariants are
// enforced here; the store only guarantees uniqueness constraints.
package service

import (
	"time"

	"camara-formacion/internal/auth"
	"camara-formacion/internal/store"
)

// SignatureCipher encrypts uploaded signature image blobs at rest.
// A nil cipher stores blobs as given.
type SignatureCipher interface {
	Encrypt(plaintext []byte) (string, error)
	Decrypt(ciphertext string) ([]byte, error)
}

// core is the dependency bundle shared by every service: the injected
// store, the per-participant mutation locks, and a swappable clock so
// tests and seeding can use fixed timestamps.
type core struct {
	store  store.Store
	locks  *participantLocks
	cipher SignatureCipher
	now    func() time.Time
}

// Services bundles the engine's services for wiring
type Services struct {
	Auth         *AuthService
	Courses      *CourseService
	Participants *ParticipantService
	Phases       *PhaseService
	Annexes      *AnnexService
	Signatures   *SignatureService
	Attendance   *AttendanceService
	Export       *ExportService
	Dashboards   *DashboardService
	Audit        *AuditService

	core *core
}

// New wires all engine services over the given store. cipher may be nil.
func New(st store.Store, authService *auth.Service, cipher SignatureCipher) *Services {
	c := &core{
		store:  st,
		locks:  newParticipantLocks(),
		cipher: cipher,
		now:    time.Now,
	}

	audit := &AuditService{core: c}
	participants := &ParticipantService{core: c, auth: authService, audit: audit}

	return &Services{
		Auth:         &AuthService{core: c, auth: authService, audit: audit},
		Courses:      &CourseService{core: c},
		Participants: participants,
		Phases:       &PhaseService{core: c, audit: audit},
		Annexes:      &AnnexService{core: c, audit: audit},
		Signatures:   &SignatureService{core: c, audit: audit},
		Attendance:   &AttendanceService{core: c, audit: audit},
		Export:       &ExportService{core: c, audit: audit},
		Dashboards:   &DashboardService{core: c, participants: participants},
		Audit:        audit,
		core:         c,
	}
}

// SetClock replaces the time source for every service. Used by tests
// and by the demo seeder to produce reproducible timestamps.
func (s *Services) SetClock(now func() time.Time) {
	s.core.now = now
}
