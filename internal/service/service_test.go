package service

import (
	"archive/zip"
	"bytes"
	"strings"
	"testing"
	"time"

	"camara-formacion/internal/apperrors"
	"camara-formacion/internal/auth"
	"camara-formacion/internal/models"
	"camara-formacion/internal/store/memory"
)

type testEngine struct {
	services *Services
	store    *memory.Store

	admin      models.Actor
	carlos     models.Actor
	isabel     models.Actor
	lauraActor models.Actor

	course  *models.Course
	lauraID string
	davidID string
}

// newTestEngine builds an engine over the in-memory store with a
// ticking fake clock: one admin, two instructors, and two participants
// (Laura assigned to Carlos, David to Isabel).
func newTestEngine(t *testing.T) *testEngine {
	t.Helper()

	st := memory.New()
	authSvc, err := auth.NewService("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("auth service: %v", err)
	}
	services := New(st, authSvc, nil)

	clock := time.Date(2025, 2, 6, 10, 0, 0, 0, time.UTC)
	services.SetClock(func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	})

	users := []models.User{
		{ID: "user-admin", Email: "admin@example.com", Name: "Ana Garcia", Role: models.RoleAdministrator},
		{ID: "user-carlos", Email: "carlos@example.com", Name: "Carlos Martinez", Role: models.RoleInstructor},
		{ID: "user-isabel", Email: "isabel@example.com", Name: "Isabel Fernandez", Role: models.RoleInstructor},
	}
	for i := range users {
		if err := st.CreateUser(&users[i]); err != nil {
			t.Fatalf("create user: %v", err)
		}
	}

	e := &testEngine{
		services: services,
		store:    st,
		admin:    models.Actor{UserID: "user-admin", Email: "admin@example.com", Role: models.RoleAdministrator, Name: "Ana Garcia"},
		carlos:   models.Actor{UserID: "user-carlos", Email: "carlos@example.com", Role: models.RoleInstructor, Name: "Carlos Martinez"},
		isabel:   models.Actor{UserID: "user-isabel", Email: "isabel@example.com", Role: models.RoleInstructor, Name: "Isabel Fernandez"},
	}

	e.course = &models.Course{
		ID:            "course-1",
		Name:          "Programa de Emprendimiento Digital 2025",
		DurationHours: 120,
		StartDate:     "2025-01-15",
		EndDate:       "2025-04-30",
	}
	if err := st.CreateCourse(e.course); err != nil {
		t.Fatalf("create course: %v", err)
	}

	laura, err := services.Participants.Create(e.admin, CreateParticipantInput{
		FirstName: "Laura",
		LastName:  "Rodriguez Mora",
		IDNumber:  "54123456W",
		Email:     "laura@example.com",
		Phone:     "+34 622 222 222",
		CourseID:  e.course.ID,
		Password:  "LauraPass2025",
	})
	if err != nil {
		t.Fatalf("create laura: %v", err)
	}
	e.lauraID = laura.ID
	e.lauraActor = models.Actor{UserID: laura.UserID, Email: laura.Email, Role: models.RoleParticipant, Name: laura.FullName}

	david, err := services.Participants.Create(e.admin, CreateParticipantInput{
		FirstName: "David",
		LastName:  "Hernandez Cruz",
		IDNumber:  "55111222J",
		Email:     "david@example.com",
		Phone:     "+34 633 333 333",
		CourseID:  e.course.ID,
		Password:  "DavidPass2025",
	})
	if err != nil {
		t.Fatalf("create david: %v", err)
	}
	e.davidID = david.ID

	if err := services.Participants.AssignInstructor(e.admin, e.lauraID, "user-carlos"); err != nil {
		t.Fatalf("assign carlos: %v", err)
	}
	if err := services.Participants.AssignInstructor(e.admin, e.davidID, "user-isabel"); err != nil {
		t.Fatalf("assign isabel: %v", err)
	}
	return e
}

func TestCreateParticipantStartsDiagnostic(t *testing.T) {
	e := newTestEngine(t)

	view, err := e.services.Participants.Get(e.admin, e.lauraID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if view.CurrentPhase != models.PhaseDiagnostic {
		t.Errorf("current phase = %s, want diagnostic", view.CurrentPhase)
	}
	if len(view.Phases) != 3 {
		t.Fatalf("phases = %d, want 3", len(view.Phases))
	}
	if view.Phases[0].Status != models.PhaseInProgress || view.Phases[0].StartedAt == nil {
		t.Errorf("diagnostic phase should be in progress with a start time: %+v", view.Phases[0])
	}
	if view.Phases[1].Status != models.PhaseNotStarted || view.Phases[2].Status != models.PhaseNotStarted {
		t.Errorf("later phases should not be started")
	}
	if !view.CanEdit {
		t.Error("admin view should be editable")
	}
}

func TestCreateParticipantRequiresAdmin(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.services.Participants.Create(e.carlos, CreateParticipantInput{
		FirstName: "X", LastName: "Y", Email: "x@example.com", CourseID: e.course.ID, Password: "password123",
	})
	if apperrors.KindOf(err) != apperrors.KindAccessDenied {
		t.Fatalf("instructor create = %v, want access denied", err)
	}
}

func TestGenerateAnnexIsIdempotent(t *testing.T) {
	e := newTestEngine(t)

	first, err := e.services.Annexes.Generate(e.carlos, e.lauraID, models.AnnexType2, false)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	second, err := e.services.Annexes.Generate(e.carlos, e.lauraID, models.AnnexType2, false)
	if err != nil {
		t.Fatalf("regenerate: %v", err)
	}
	if first.ID != second.ID {
		t.Errorf("regeneration created a new annex: %s vs %s", first.ID, second.ID)
	}
	if !second.GeneratedAt.After(first.GeneratedAt) {
		t.Errorf("regeneration kept the emission date: first=%v second=%v",
			first.GeneratedAt, second.GeneratedAt)
	}

	annexes, err := e.services.Annexes.List(e.carlos, e.lauraID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(annexes) != 1 {
		t.Fatalf("annexes = %d, want 1", len(annexes))
	}
	if annexes[0].FileName != "Anexo-2-Laura-Rodriguez-Mora.pdf" {
		t.Errorf("file name = %s", annexes[0].FileName)
	}
	if len(annexes[0].ContentHash) != 64 {
		t.Errorf("content hash = %q", annexes[0].ContentHash)
	}
}

func TestGenerateAnnexDefaultsToActivePhase(t *testing.T) {
	e := newTestEngine(t)

	annex, err := e.services.Annexes.Generate(e.carlos, e.lauraID, "", false)
	if err != nil {
		t.Fatalf("generate without a type: %v", err)
	}
	if annex.AnnexType != models.AnnexType2 {
		t.Errorf("annex type = %s, want %s", annex.AnnexType, models.AnnexType2)
	}

	_, err = e.services.Annexes.Generate(e.carlos, e.lauraID, "annex_9", false)
	if apperrors.KindOf(err) != apperrors.KindRuleViolation {
		t.Errorf("unknown annex type = %v, want rule violation", err)
	}
}

func TestGenerateAnnexOutsideActivePhase(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.services.Annexes.Generate(e.carlos, e.lauraID, models.AnnexType5, false)
	if apperrors.KindOf(err) != apperrors.KindRuleViolation {
		t.Fatalf("generate annex_5 during diagnostic = %v, want rule violation", err)
	}

	// override lets staff prepare documents ahead of the itinerary
	annex, err := e.services.Annexes.Generate(e.carlos, e.lauraID, models.AnnexType5, true)
	if err != nil {
		t.Fatalf("override generate: %v", err)
	}
	if annex.Status != models.AnnexGenerated {
		t.Errorf("status = %s", annex.Status)
	}
}

func TestGenerateAnnexDeniedForParticipants(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.services.Annexes.Generate(e.lauraActor, e.lauraID, models.AnnexType2, false)
	if apperrors.KindOf(err) != apperrors.KindAccessDenied {
		t.Fatalf("participant generate = %v, want access denied", err)
	}
}

func TestSignatureRoleNotRequired(t *testing.T) {
	e := newTestEngine(t)

	annex, err := e.services.Annexes.Generate(e.carlos, e.lauraID, models.AnnexType3, true)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	// annex_3 only requires the instructor
	_, err = e.services.Signatures.Add(e.admin, annex.ID, SignInput{})
	if apperrors.KindOf(err) != apperrors.KindRuleViolation {
		t.Fatalf("admin signing annex_3 = %v, want rule violation", err)
	}
}

func TestSignatureImmutablePerRole(t *testing.T) {
	e := newTestEngine(t)

	annex, err := e.services.Annexes.Generate(e.carlos, e.lauraID, models.AnnexType2, false)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := e.services.Signatures.Add(e.carlos, annex.ID, SignInput{}); err != nil {
		t.Fatalf("first signature: %v", err)
	}
	_, err = e.services.Signatures.Add(e.carlos, annex.ID, SignInput{TypedName: "Again"})
	if apperrors.KindOf(err) != apperrors.KindConflict {
		t.Fatalf("duplicate role signature = %v, want conflict", err)
	}

	sigs, err := e.services.Signatures.List(e.carlos, annex.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(sigs) != 1 {
		t.Fatalf("signatures = %d, want 1", len(sigs))
	}
}

func TestSigningRerendersDocument(t *testing.T) {
	e := newTestEngine(t)

	annex, err := e.services.Annexes.Generate(e.carlos, e.lauraID, models.AnnexType2, false)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	hashBefore := annex.ContentHash

	if _, err := e.services.Signatures.Add(e.carlos, annex.ID, SignInput{}); err != nil {
		t.Fatalf("sign: %v", err)
	}

	after, err := e.services.Annexes.Get(e.carlos, annex.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if after.ContentHash == hashBefore {
		t.Error("content hash should change after signing")
	}

	name, data, err := e.services.Annexes.Download(e.carlos, annex.ID)
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	if name != annex.FileName {
		t.Errorf("download name = %s", name)
	}
	if !bytes.Contains(data, []byte("FIRMAS REGISTRADAS")) {
		t.Error("document should contain the signature block")
	}
	if !bytes.Contains(data, []byte("INSTRUCTOR: Carlos Martinez")) {
		t.Error("document should list the instructor signature")
	}
}

func TestFullySignedAnnexAdvancesPhase(t *testing.T) {
	e := newTestEngine(t)

	annex, err := e.services.Annexes.Generate(e.carlos, e.lauraID, models.AnnexType2, false)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := e.services.Signatures.Add(e.lauraActor, annex.ID, SignInput{}); err != nil {
		t.Fatalf("participant sign: %v", err)
	}

	// one of two required roles signed: nothing advances yet
	view, _ := e.services.Participants.Get(e.admin, e.lauraID)
	if view.CurrentPhase != models.PhaseDiagnostic {
		t.Fatalf("phase advanced early: %s", view.CurrentPhase)
	}

	if _, err := e.services.Signatures.Add(e.carlos, annex.ID, SignInput{}); err != nil {
		t.Fatalf("instructor sign: %v", err)
	}

	view, err = e.services.Participants.Get(e.admin, e.lauraID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if view.CurrentPhase != models.PhaseTraining {
		t.Errorf("current phase = %s, want training", view.CurrentPhase)
	}
	if view.Phases[0].Status != models.PhaseCompleted || view.Phases[0].CompletedAt == nil {
		t.Errorf("diagnostic should be completed: %+v", view.Phases[0])
	}
	if view.Phases[1].Status != models.PhaseInProgress {
		t.Errorf("training should be in progress: %+v", view.Phases[1])
	}
	if view.Annexes[0].Status != models.AnnexSigned {
		t.Errorf("annex status = %s, want signed", view.Annexes[0].Status)
	}
}

func TestProgressPhaseGating(t *testing.T) {
	e := newTestEngine(t)

	// participants may never progress phases
	_, err := e.services.Phases.Progress(e.lauraActor, e.lauraID, false)
	if apperrors.KindOf(err) != apperrors.KindAccessDenied {
		t.Fatalf("participant progress = %v, want access denied", err)
	}

	annex, err := e.services.Annexes.Generate(e.carlos, e.lauraID, models.AnnexType2, false)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	// unsigned annex blocks progression
	_, err = e.services.Phases.Progress(e.carlos, e.lauraID, false)
	if apperrors.KindOf(err) != apperrors.KindRuleViolation {
		t.Fatalf("progress with unsigned annex = %v, want rule violation", err)
	}

	// complete the signature set, then progress succeeds
	if _, err := e.services.Signatures.Add(e.lauraActor, annex.ID, SignInput{}); err != nil {
		t.Fatalf("participant sign: %v", err)
	}
	if _, err := e.services.Signatures.Add(e.carlos, annex.ID, SignInput{}); err != nil {
		t.Fatalf("instructor sign: %v", err)
	}

	// signing already advanced to training; progressing training now
	// fails on its unsigned annex, but override pushes through
	result, err := e.services.Phases.Progress(e.carlos, e.lauraID, true)
	if err != nil {
		t.Fatalf("override progress: %v", err)
	}
	if result.CurrentPhase != models.PhaseCompletion {
		t.Errorf("current phase = %s, want completion", result.CurrentPhase)
	}
	if len(result.Phases) != 3 {
		t.Fatalf("progress returned %d phases, want 3", len(result.Phases))
	}
	if result.Phases[1].Status != models.PhaseCompleted {
		t.Errorf("training status = %s, want completed", result.Phases[1].Status)
	}
	if result.Phases[2].Status != models.PhaseInProgress {
		t.Errorf("completion status = %s, want in_progress", result.Phases[2].Status)
	}
}

func TestProgressCompletedPhaseFails(t *testing.T) {
	e := newTestEngine(t)

	// walk laura to the terminal phase with overrides
	if _, err := e.services.Phases.Progress(e.admin, e.lauraID, true); err != nil {
		t.Fatalf("progress 1: %v", err)
	}
	if _, err := e.services.Phases.Progress(e.admin, e.lauraID, true); err != nil {
		t.Fatalf("progress 2: %v", err)
	}
	if _, err := e.services.Phases.Progress(e.admin, e.lauraID, true); err != nil {
		t.Fatalf("progress 3: %v", err)
	}

	_, err := e.services.Phases.Progress(e.admin, e.lauraID, true)
	if apperrors.KindOf(err) != apperrors.KindRuleViolation {
		t.Fatalf("progress after terminal = %v, want rule violation", err)
	}
}

func TestInstructorScoping(t *testing.T) {
	e := newTestEngine(t)

	views, err := e.services.Participants.List(e.carlos)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(views) != 1 || views[0].ID != e.lauraID {
		t.Fatalf("carlos should see exactly laura, got %d", len(views))
	}

	// carlos may not touch david
	if _, err := e.services.Participants.Get(e.carlos, e.davidID); apperrors.KindOf(err) != apperrors.KindAccessDenied {
		t.Errorf("get unassigned = %v, want access denied", err)
	}
	if _, err := e.services.Annexes.Generate(e.carlos, e.davidID, models.AnnexType2, false); apperrors.KindOf(err) != apperrors.KindAccessDenied {
		t.Errorf("generate for unassigned = %v, want access denied", err)
	}

	all, err := e.services.Participants.List(e.admin)
	if err != nil {
		t.Fatalf("admin list: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("admin should see everyone, got %d", len(all))
	}

	mine, err := e.services.Participants.List(e.lauraActor)
	if err != nil {
		t.Fatalf("participant list: %v", err)
	}
	if len(mine) != 1 || mine[0].ID != e.lauraID {
		t.Errorf("laura should see only herself")
	}
}

func TestAttendanceMarkAndSummary(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.services.Attendance.Mark(e.lauraActor, e.lauraID, MarkInput{SessionDate: "2025-01-22", Hours: 4})
	if apperrors.KindOf(err) != apperrors.KindAccessDenied {
		t.Fatalf("participant mark = %v, want access denied", err)
	}

	_, err = e.services.Attendance.Mark(e.carlos, e.lauraID, MarkInput{SessionDate: "2025-01-22", Hours: -1})
	if apperrors.KindOf(err) != apperrors.KindRuleViolation {
		t.Fatalf("negative hours = %v, want rule violation", err)
	}

	record, err := e.services.Attendance.Mark(e.carlos, e.lauraID, MarkInput{SessionDate: "2025-01-22", Hours: 3.97, Notes: "Buen progreso"})
	if err != nil {
		t.Fatalf("mark: %v", err)
	}
	if record.Hours != 4.0 {
		t.Errorf("hours = %v, want 4.0 after rounding", record.Hours)
	}

	records, err := e.services.Attendance.List(e.carlos, e.lauraID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 1 || records[0].InstructorID != "user-carlos" {
		t.Fatalf("unexpected records: %+v", records)
	}
}

func TestBatchExport(t *testing.T) {
	e := newTestEngine(t)

	// nothing generated yet
	_, err := e.services.Export.Batch(e.admin, BatchInput{})
	if apperrors.KindOf(err) != apperrors.KindNotFound {
		t.Fatalf("empty export = %v, want not found", err)
	}

	lauraAnnex, err := e.services.Annexes.Generate(e.carlos, e.lauraID, models.AnnexType2, false)
	if err != nil {
		t.Fatalf("generate laura: %v", err)
	}
	if _, err := e.services.Annexes.Generate(e.isabel, e.davidID, models.AnnexType2, false); err != nil {
		t.Fatalf("generate david: %v", err)
	}

	// sign laura's annex completely
	if _, err := e.services.Signatures.Add(e.lauraActor, lauraAnnex.ID, SignInput{}); err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := e.services.Signatures.Add(e.carlos, lauraAnnex.ID, SignInput{}); err != nil {
		t.Fatalf("sign: %v", err)
	}

	all, err := e.services.Export.Batch(e.admin, BatchInput{})
	if err != nil {
		t.Fatalf("admin export: %v", err)
	}
	if all.Count != 2 {
		t.Errorf("admin export count = %d, want 2", all.Count)
	}
	if !strings.HasPrefix(all.FileName, "anexos-export-") || !strings.HasSuffix(all.FileName, ".zip") {
		t.Errorf("file name = %s", all.FileName)
	}

	reader, err := zip.NewReader(bytes.NewReader(all.Data), int64(len(all.Data)))
	if err != nil {
		t.Fatalf("archive not readable: %v", err)
	}
	if len(reader.File) != 2 {
		t.Errorf("archive entries = %d", len(reader.File))
	}

	// signedOnly keeps just laura's annex
	signed, err := e.services.Export.Batch(e.admin, BatchInput{SignedOnly: true})
	if err != nil {
		t.Fatalf("signed export: %v", err)
	}
	if signed.Count != 1 {
		t.Errorf("signed export count = %d, want 1", signed.Count)
	}

	// instructors export within their assignments only
	carlosExport, err := e.services.Export.Batch(e.carlos, BatchInput{})
	if err != nil {
		t.Fatalf("carlos export: %v", err)
	}
	if carlosExport.Count != 1 {
		t.Errorf("carlos export count = %d, want 1", carlosExport.Count)
	}

	// filtering to an unassigned participant yields nothing
	_, err = e.services.Export.Batch(e.carlos, BatchInput{ParticipantIDs: []string{e.davidID}})
	if apperrors.KindOf(err) != apperrors.KindNotFound {
		t.Errorf("out-of-scope export = %v, want not found", err)
	}
}

func TestDashboards(t *testing.T) {
	e := newTestEngine(t)

	annex, err := e.services.Annexes.Generate(e.carlos, e.lauraID, models.AnnexType2, false)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := e.services.Attendance.Mark(e.carlos, e.lauraID, MarkInput{SessionDate: "2025-01-22", Hours: 4, Notes: "Excelente"}); err != nil {
		t.Fatalf("mark: %v", err)
	}

	adminDash, err := e.services.Dashboards.Admin(e.admin)
	if err != nil {
		t.Fatalf("admin dashboard: %v", err)
	}
	if adminDash.Totals.Participants != 2 || adminDash.Totals.Annexes != 1 {
		t.Errorf("admin totals: %+v", adminDash.Totals)
	}
	if adminDash.PhaseCounts[models.PhaseDiagnostic] != 2 {
		t.Errorf("phase counts: %+v", adminDash.PhaseCounts)
	}
	if len(adminDash.RecentAttendance) != 1 || adminDash.RecentAttendance[0].InstructorName != "Carlos Martinez" {
		t.Errorf("recent attendance: %+v", adminDash.RecentAttendance)
	}

	if _, err := e.services.Dashboards.Admin(e.carlos); apperrors.KindOf(err) != apperrors.KindAccessDenied {
		t.Error("instructor should not read admin dashboard")
	}

	instrDash, err := e.services.Dashboards.Instructor(e.carlos)
	if err != nil {
		t.Fatalf("instructor dashboard: %v", err)
	}
	if instrDash.Totals.Participants != 1 || instrDash.Totals.PendingSignatures != 1 {
		t.Errorf("instructor totals: %+v", instrDash.Totals)
	}

	if _, err := e.services.Signatures.Add(e.carlos, annex.ID, SignInput{}); err != nil {
		t.Fatalf("sign: %v", err)
	}
	instrDash, _ = e.services.Dashboards.Instructor(e.carlos)
	if instrDash.Totals.PendingSignatures != 0 {
		t.Errorf("pending signatures after signing = %d", instrDash.Totals.PendingSignatures)
	}

	partDash, err := e.services.Dashboards.Participant(e.lauraActor)
	if err != nil {
		t.Fatalf("participant dashboard: %v", err)
	}
	if len(partDash.PendingAnnexes) != 1 || len(partDash.SignedAnnexes) != 0 {
		t.Errorf("participant dashboard annexes: %+v", partDash)
	}
}

func TestAuditTrail(t *testing.T) {
	e := newTestEngine(t)

	annex, err := e.services.Annexes.Generate(e.carlos, e.lauraID, models.AnnexType2, false)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := e.services.Signatures.Add(e.carlos, annex.ID, SignInput{}); err != nil {
		t.Fatalf("sign: %v", err)
	}

	page, err := e.services.Audit.List(e.admin, 50, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	actions := map[string]bool{}
	for _, entry := range page.Entries {
		actions[entry.Action] = true
	}
	for _, want := range []string{"participant_created", "annex_generated", "annex_signed"} {
		if !actions[want] {
			t.Errorf("missing audit action %s", want)
		}
	}
	// newest first
	if page.Entries[0].Action != "annex_signed" {
		t.Errorf("first entry = %s, want annex_signed", page.Entries[0].Action)
	}

	if _, err := e.services.Audit.List(e.carlos, 50, 0); apperrors.KindOf(err) != apperrors.KindAccessDenied {
		t.Error("instructor should not read the audit trail")
	}
}

func TestRegisterAndLogin(t *testing.T) {
	e := newTestEngine(t)

	user, err := e.services.Auth.Register(RegisterInput{
		Email:    "Nuevo@Example.com",
		Password: "password123",
		Name:     "Nuevo Usuario",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Role != models.RoleParticipant {
		t.Errorf("default role = %s, want participant", user.Role)
	}
	if user.Email != "nuevo@example.com" {
		t.Errorf("email not normalized: %s", user.Email)
	}

	_, err = e.services.Auth.Register(RegisterInput{Email: "nuevo@example.com", Password: "password123", Name: "Dup"})
	if apperrors.KindOf(err) != apperrors.KindConflict {
		t.Fatalf("duplicate register = %v, want conflict", err)
	}

	result, err := e.services.Auth.Login("nuevo@example.com", "password123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if result.Token == "" {
		t.Error("login should issue a token")
	}

	if _, err := e.services.Auth.Login("nuevo@example.com", "wrong"); apperrors.KindOf(err) != apperrors.KindAccessDenied {
		t.Error("wrong password should be denied")
	}
}
