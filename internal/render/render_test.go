package render

import (
	"bytes"
	"strings"
	"testing"

	"camara-formacion/internal/models"
)

func sampleInput() Input {
	return Input{
		AnnexType: models.AnnexType2,
		Participant: ParticipantInfo{
			FullName: "Laura Rodriguez Mora",
			IDNumber: "54123456W",
			Email:    "participant2@camara-menorca.es",
			Phone:    "+34 622 222 222",
		},
		Course: CourseInfo{
			Name:          "Programa de Emprendimiento Digital 2025",
			DurationHours: 120,
			StartDate:     "2025-01-15",
			EndDate:       "2025-04-30",
		},
		PhaseLabel:        "Diagnostico",
		GeneratedAt:       "2025-02-06",
		AttendanceSummary: "2 sesiones - 8.0 horas",
		InstructorNotes:   "Avance constante en modulo practico.",
	}
}

func TestAnnexDeterminism(t *testing.T) {
	in := sampleInput()
	in.Signatures = []SignatureLine{
		{Role: models.RoleParticipant, Name: "Laura Rodriguez Mora", SignedAt: "2025-02-06"},
		{Role: models.RoleInstructor, Name: "Carlos Martinez Lopez", SignedAt: "2025-02-06"},
	}

	first := Annex(in)
	second := Annex(in)

	if !bytes.Equal(first.PDFBytes, second.PDFBytes) {
		t.Fatal("identical inputs produced different PDF bytes")
	}
	if first.ContentHash != second.ContentHash {
		t.Fatalf("identical inputs produced different hashes: %s vs %s", first.ContentHash, second.ContentHash)
	}
	if len(first.ContentHash) != 64 {
		t.Errorf("content hash length = %d, want 64 hex chars", len(first.ContentHash))
	}
}

func TestAnnexHashChangesWithContent(t *testing.T) {
	in := sampleInput()
	base := Annex(in)

	in.Signatures = []SignatureLine{
		{Role: models.RoleParticipant, Name: "Laura Rodriguez Mora", SignedAt: "2025-02-06"},
	}
	signed := Annex(in)

	if base.ContentHash == signed.ContentHash {
		t.Error("adding a signature did not change the content hash")
	}
}

func TestLinesHeaderAndBody(t *testing.T) {
	lines := Lines(sampleInput())

	if lines[0] != "CAMARA DE COMERCIO DE MENORCA" {
		t.Errorf("header line = %q", lines[0])
	}
	if lines[1] != "Plantilla: camara-template-v1" {
		t.Errorf("template line = %q", lines[1])
	}
	if lines[2] != "Documento: ANNEX_2 (Diagnostico)" {
		t.Errorf("document line = %q", lines[2])
	}

	joined := strings.Join(lines, "\n")
	if !strings.Contains(joined, "ANEXO 2 - FASE DIAGNOSTICO") {
		t.Error("missing annex_2 body section")
	}
	if !strings.Contains(joined, "- Pendiente de firma") {
		t.Error("unsigned annex must show the pending-signature line")
	}
	if lines[len(lines)-1] != "Documento generado para demo Madrid 2026." {
		t.Errorf("footer line = %q", lines[len(lines)-1])
	}
}

func TestLinesPerAnnexType(t *testing.T) {
	in := sampleInput()

	in.AnnexType = models.AnnexType3
	in.PhaseLabel = "Formacion"
	joined := strings.Join(Lines(in), "\n")
	if !strings.Contains(joined, "Resumen asistencia: 2 sesiones - 8.0 horas") {
		t.Error("annex_3 missing attendance summary")
	}
	if !strings.Contains(joined, "Observaciones instructor: Avance constante en modulo practico.") {
		t.Error("annex_3 missing instructor notes")
	}

	in.AttendanceSummary = ""
	in.InstructorNotes = ""
	joined = strings.Join(Lines(in), "\n")
	if !strings.Contains(joined, "Resumen asistencia: Sin sesiones registradas") {
		t.Error("annex_3 missing attendance fallback text")
	}
	if !strings.Contains(joined, "Observaciones instructor: Sin observaciones") {
		t.Error("annex_3 missing notes fallback text")
	}

	in.AnnexType = models.AnnexType5
	in.PhaseLabel = "Finalizacion"
	joined = strings.Join(Lines(in), "\n")
	if !strings.Contains(joined, "ANEXO 5 - CERTIFICADO DE FINALIZACION") {
		t.Error("annex_5 missing certification section")
	}
}

func TestLinesSignatureBlock(t *testing.T) {
	in := sampleInput()
	in.Signatures = []SignatureLine{
		{Role: models.RoleParticipant, Name: "Laura Rodriguez Mora", SignedAt: "2025-02-06"},
		{Role: models.RoleInstructor, Name: "Carlos Martinez Lopez", SignedAt: "2025-02-07"},
	}

	joined := strings.Join(Lines(in), "\n")
	if !strings.Contains(joined, "- PARTICIPANT: Laura Rodriguez Mora (2025-02-06)") {
		t.Error("missing participant signature line")
	}
	if !strings.Contains(joined, "- INSTRUCTOR: Carlos Martinez Lopez (2025-02-07)") {
		t.Error("missing instructor signature line")
	}
	if strings.Contains(joined, "Pendiente de firma") {
		t.Error("signed annex must not show the pending-signature line")
	}
}

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Laura Rodriguez Mora", "Laura-Rodriguez-Mora"},
		{"José García", "Jose-Garcia"},
		{"  spaced   out  ", "spaced-out"},
		{"a--b---c", "a-b-c"},
		{"ñandú", "nandu"},
		{"(weird) chars!", "weird-chars"},
	}

	for _, tt := range tests {
		if got := NormalizeName(tt.in); got != tt.want {
			t.Errorf("NormalizeName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestAnnexFileName(t *testing.T) {
	got := AnnexFileName(models.AnnexType2, "Laura", "Rodriguez Mora")
	if got != "Anexo-2-Laura-Rodriguez-Mora.pdf" {
		t.Errorf("AnnexFileName() = %q", got)
	}
}
