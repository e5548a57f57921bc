package postgres

import (
	"testing"
	"time"

	"camara-formacion/internal/apperrors"
	"camara-formacion/internal/models"
	"camara-formacion/internal/testutil"
)

func TestPostgresStore(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container-backed test in short mode")
	}

	tc := testutil.SetupPostgres(t)
	defer tc.Cleanup(t)

	store := New(tc.DB)
	fixtures := testutil.SetupFixtures(t, tc.DB)
	now := time.Date(2025, 2, 6, 12, 0, 0, 0, time.UTC)

	t.Run("user email uniqueness is case-insensitive", func(t *testing.T) {
		err := store.CreateUser(&models.User{
			ID:        "user-dup",
			Email:     "ADMIN@test.com",
			Name:      "Dup",
			Role:      models.RoleParticipant,
			CreatedAt: now,
		})
		if apperrors.KindOf(err) != apperrors.KindConflict {
			t.Fatalf("duplicate email = %v, want conflict", err)
		}

		user, err := store.GetUserByEmail("  admin@test.com ")
		if err != nil || user == nil || user.ID != fixtures.Admin.ID {
			t.Fatalf("GetUserByEmail = %v, %v", user, err)
		}
	})

	t.Run("missing lookups return nil", func(t *testing.T) {
		if p, err := store.GetParticipant("ghost"); p != nil || err != nil {
			t.Errorf("GetParticipant(ghost) = %v, %v", p, err)
		}
		if a, err := store.FindAnnex("ghost", models.AnnexType2); a != nil || err != nil {
			t.Errorf("FindAnnex(ghost) = %v, %v", a, err)
		}
	})

	t.Run("phases come back in itinerary order", func(t *testing.T) {
		phases, err := store.ListPhases(fixtures.Participant.ID)
		if err != nil {
			t.Fatalf("list phases: %v", err)
		}
		if len(phases) != 3 {
			t.Fatalf("phases = %d, want 3", len(phases))
		}
		for i, phaseType := range models.PhaseOrder {
			if phases[i].PhaseType != phaseType {
				t.Errorf("phase %d = %s, want %s", i, phases[i].PhaseType, phaseType)
			}
		}
		if phases[0].Status != models.PhaseInProgress || phases[0].StartedAt == nil {
			t.Errorf("diagnostic phase: %+v", phases[0])
		}
	})

	t.Run("annex round-trip with pdf bytes and uniqueness", func(t *testing.T) {
		phases, _ := store.ListPhases(fixtures.Participant.ID)
		annex := &models.Annex{
			ID:              "annex-test-1",
			ParticipantID:   fixtures.Participant.ID,
			PhaseID:         phases[0].ID,
			AnnexType:       models.AnnexType2,
			Status:          models.AnnexGenerated,
			TemplateVersion: "camara-template-v1",
			FileName:        "Anexo-2-Maria-Prueba.pdf",
			ContentHash:     "abc123",
			GeneratedAt:     now,
			UpdatedAt:       now,
			PDFBytes:        []byte("%PDF-1.4\ntest"),
		}
		if err := store.CreateAnnex(annex); err != nil {
			t.Fatalf("create annex: %v", err)
		}

		dup := *annex
		dup.ID = "annex-test-dup"
		if err := store.CreateAnnex(&dup); apperrors.KindOf(err) != apperrors.KindConflict {
			t.Fatalf("duplicate (participant, type) = %v, want conflict", err)
		}

		got, err := store.GetAnnex(annex.ID)
		if err != nil || got == nil {
			t.Fatalf("get annex: %v, %v", got, err)
		}
		if string(got.PDFBytes) != "%PDF-1.4\ntest" {
			t.Errorf("pdf bytes = %q", got.PDFBytes)
		}

		got.Status = models.AnnexSigned
		got.UpdatedAt = now.Add(time.Minute)
		if err := store.UpdateAnnex(got); err != nil {
			t.Fatalf("update annex: %v", err)
		}
		again, _ := store.FindAnnex(fixtures.Participant.ID, models.AnnexType2)
		if again.Status != models.AnnexSigned {
			t.Errorf("status after update = %s", again.Status)
		}
	})

	t.Run("signature uniqueness per role", func(t *testing.T) {
		sig := &models.Signature{
			ID:            "sig-test-1",
			AnnexID:       "annex-test-1",
			ParticipantID: fixtures.Participant.ID,
			SignerUserID:  fixtures.Instructor.ID,
			ActorRole:     models.RoleInstructor,
			TypedName:     "Instructor User",
			SignedAt:      now,
			PhaseSnapshot: models.PhaseDiagnostic,
		}
		if err := store.CreateSignature(sig); err != nil {
			t.Fatalf("create signature: %v", err)
		}

		dup := *sig
		dup.ID = "sig-test-dup"
		if err := store.CreateSignature(&dup); apperrors.KindOf(err) != apperrors.KindConflict {
			t.Fatalf("duplicate role = %v, want conflict", err)
		}

		sigs, err := store.ListSignatures("annex-test-1")
		if err != nil || len(sigs) != 1 {
			t.Fatalf("list signatures = %d, %v", len(sigs), err)
		}
	})

	t.Run("audit log pagination newest first", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			entry := &models.AuditLogEntry{
				ID:           "audit-test-" + string(rune('a'+i)),
				Action:       "test_action",
				ResourceType: "test",
				CreatedAt:    now.Add(time.Duration(i) * time.Minute),
			}
			if err := store.CreateAuditLog(entry); err != nil {
				t.Fatalf("create audit log: %v", err)
			}
		}

		entries, total, err := store.ListAuditLogs(2, 0)
		if err != nil {
			t.Fatalf("list audit logs: %v", err)
		}
		if total != 3 || len(entries) != 2 {
			t.Fatalf("total=%d len=%d", total, len(entries))
		}
		if entries[0].ID != "audit-test-c" {
			t.Errorf("first entry = %s, want audit-test-c", entries[0].ID)
		}
	})

	t.Run("assignments by both sides", func(t *testing.T) {
		byInstructor, err := store.ListAssignmentsByInstructor(fixtures.Instructor.ID)
		if err != nil || len(byInstructor) != 1 {
			t.Fatalf("by instructor = %d, %v", len(byInstructor), err)
		}
		byParticipant, err := store.ListAssignmentsByParticipant(fixtures.Participant.ID)
		if err != nil || len(byParticipant) != 1 {
			t.Fatalf("by participant = %d, %v", len(byParticipant), err)
		}
	})
}
