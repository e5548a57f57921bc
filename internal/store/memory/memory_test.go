package memory

import (
	"testing"
	"time"

	"camara-formacion/internal/apperrors"
	"camara-formacion/internal/models"
)

func TestUserEmailUniqueness(t *testing.T) {
	s := New()

	if err := s.CreateUser(&models.User{ID: "u1", Email: "ana@example.com"}); err != nil {
		t.Fatalf("first create: %v", err)
	}
	err := s.CreateUser(&models.User{ID: "u2", Email: "ANA@example.com"})
	if apperrors.KindOf(err) != apperrors.KindConflict {
		t.Fatalf("duplicate email should conflict, got %v", err)
	}

	user, err := s.GetUserByEmail("  ana@example.com")
	if err != nil || user == nil || user.ID != "u1" {
		t.Fatalf("GetUserByEmail = %v, %v", user, err)
	}
}

func TestAnnexUniquenessPerParticipantAndType(t *testing.T) {
	s := New()

	annex := &models.Annex{ID: "a1", ParticipantID: "p1", AnnexType: models.AnnexType2}
	if err := s.CreateAnnex(annex); err != nil {
		t.Fatalf("create: %v", err)
	}

	dup := &models.Annex{ID: "a2", ParticipantID: "p1", AnnexType: models.AnnexType2}
	if err := s.CreateAnnex(dup); apperrors.KindOf(err) != apperrors.KindConflict {
		t.Fatalf("duplicate (participant, type) should conflict, got %v", err)
	}

	other := &models.Annex{ID: "a3", ParticipantID: "p1", AnnexType: models.AnnexType3}
	if err := s.CreateAnnex(other); err != nil {
		t.Fatalf("different type must be allowed: %v", err)
	}
}

func TestSignatureUniquenessPerRole(t *testing.T) {
	s := New()

	sig := &models.Signature{ID: "s1", AnnexID: "a1", ActorRole: models.RoleParticipant}
	if err := s.CreateSignature(sig); err != nil {
		t.Fatalf("create: %v", err)
	}
	dup := &models.Signature{ID: "s2", AnnexID: "a1", ActorRole: models.RoleParticipant}
	if err := s.CreateSignature(dup); apperrors.KindOf(err) != apperrors.KindConflict {
		t.Fatalf("duplicate role should conflict, got %v", err)
	}
	other := &models.Signature{ID: "s3", AnnexID: "a1", ActorRole: models.RoleInstructor}
	if err := s.CreateSignature(other); err != nil {
		t.Fatalf("different role must be allowed: %v", err)
	}
}

func TestListSignaturesOrderedBySignedAt(t *testing.T) {
	s := New()
	base := time.Date(2025, 2, 6, 10, 0, 0, 0, time.UTC)

	s.CreateSignature(&models.Signature{ID: "s-late", AnnexID: "a1", ActorRole: models.RoleInstructor, SignedAt: base.Add(time.Hour)})
	s.CreateSignature(&models.Signature{ID: "s-early", AnnexID: "a1", ActorRole: models.RoleParticipant, SignedAt: base})

	sigs, err := s.ListSignatures("a1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(sigs) != 2 || sigs[0].ID != "s-early" || sigs[1].ID != "s-late" {
		t.Fatalf("signatures not ordered by signing time: %+v", sigs)
	}
}

func TestListPhasesFollowsPhaseOrder(t *testing.T) {
	s := New()
	participant := &models.Participant{ID: "p1", UserID: "u1"}
	phases := []models.Phase{
		{ID: "ph-c", ParticipantID: "p1", PhaseType: models.PhaseCompletion},
		{ID: "ph-d", ParticipantID: "p1", PhaseType: models.PhaseDiagnostic},
		{ID: "ph-t", ParticipantID: "p1", PhaseType: models.PhaseTraining},
	}
	if err := s.CreateParticipant(participant, phases); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := s.ListPhases("p1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []string{"ph-d", "ph-t", "ph-c"}
	for i, id := range want {
		if got[i].ID != id {
			t.Errorf("phase %d = %s, want %s", i, got[i].ID, id)
		}
	}
}

func TestAnnexBytesAreNotAliased(t *testing.T) {
	s := New()

	annex := &models.Annex{ID: "a1", ParticipantID: "p1", AnnexType: models.AnnexType2, PDFBytes: []byte("original")}
	if err := s.CreateAnnex(annex); err != nil {
		t.Fatalf("create: %v", err)
	}

	// mutating the caller's slice must not touch stored state
	annex.PDFBytes[0] = 'X'

	stored, err := s.GetAnnex("a1")
	if err != nil || stored == nil {
		t.Fatalf("get: %v, %v", stored, err)
	}
	if string(stored.PDFBytes) != "original" {
		t.Fatalf("stored bytes were aliased: %q", stored.PDFBytes)
	}

	// mutating a returned copy must not touch stored state either
	stored.PDFBytes[0] = 'Y'
	again, _ := s.GetAnnex("a1")
	if string(again.PDFBytes) != "original" {
		t.Fatalf("returned bytes were aliased: %q", again.PDFBytes)
	}
}

func TestMissingLookupsReturnNil(t *testing.T) {
	s := New()

	if p, err := s.GetParticipant("ghost"); p != nil || err != nil {
		t.Errorf("GetParticipant(ghost) = %v, %v", p, err)
	}
	if a, err := s.FindAnnex("ghost", models.AnnexType2); a != nil || err != nil {
		t.Errorf("FindAnnex(ghost) = %v, %v", a, err)
	}
	if err := s.UpdatePhase(&models.Phase{ID: "ghost"}); apperrors.KindOf(err) != apperrors.KindNotFound {
		t.Errorf("UpdatePhase(ghost) = %v", err)
	}
}

func TestAuditLogPagination(t *testing.T) {
	s := New()
	for i := 0; i < 5; i++ {
		s.CreateAuditLog(&models.AuditLogEntry{ID: string(rune('a' + i)), Action: "test"})
	}

	page, total, err := s.ListAuditLogs(2, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 5 || len(page) != 2 {
		t.Fatalf("total=%d len=%d", total, len(page))
	}
	// newest first
	if page[0].ID != "e" || page[1].ID != "d" {
		t.Errorf("unexpected page order: %s, %s", page[0].ID, page[1].ID)
	}

	tail, _, _ := s.ListAuditLogs(10, 4)
	if len(tail) != 1 || tail[0].ID != "a" {
		t.Errorf("unexpected tail: %+v", tail)
	}

	empty, _, _ := s.ListAuditLogs(10, 99)
	if len(empty) != 0 {
		t.Errorf("offset past end should be empty")
	}
}

func TestReset(t *testing.T) {
	s := New()
	s.CreateUser(&models.User{ID: "u1", Email: "x@y.z"})
	s.CreateCourse(&models.Course{ID: "c1"})

	if err := s.Reset(); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if u, _ := s.GetUserByID("u1"); u != nil {
		t.Error("users survived reset")
	}
	courses, _ := s.ListCourses()
	if len(courses) != 0 {
		t.Error("courses survived reset")
	}
}
