// Package render composes annex document content into the ordered text
// lines consumed by the PDF builder and fingerprints the result.
// Rendering is a pure function of its input: identical inputs always
// produce byte-identical PDFs and identical content hashes.
package render

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"

	"camara-formacion/internal/models"
	"camara-formacion/internal/pdf"
)

// TemplateVersion tags every generated annex document
const TemplateVersion = "camara-template-v1"

// SignatureLine is one registered signature as it appears on the document
type SignatureLine struct {
	Role     models.Role
	Name     string
	SignedAt string // date only, YYYY-MM-DD
}

// ParticipantInfo is the participant block of the document
type ParticipantInfo struct {
	FullName string
	IDNumber string
	Email    string
	Phone    string
}

// CourseInfo is the course block of the document
type CourseInfo struct {
	Name          string
	DurationHours int
	StartDate     string
	EndDate       string
}

// Input carries everything an annex document depends on
type Input struct {
	AnnexType         models.AnnexType
	Participant       ParticipantInfo
	Course            CourseInfo
	PhaseLabel        string
	GeneratedAt       string // date only, YYYY-MM-DD
	AttendanceSummary string
	InstructorNotes   string
	Signatures        []SignatureLine
}

// Result is the rendered document plus its tamper-evidence fingerprint
type Result struct {
	PDFBytes    []byte
	ContentHash string
}

// Annex renders the document for in and hashes the bytes
func Annex(in Input) Result {
	pdfBytes := pdf.Build(Lines(in))
	sum := sha256.Sum256(pdfBytes)
	return Result{
		PDFBytes:    pdfBytes,
		ContentHash: hex.EncodeToString(sum[:]),
	}
}

// Lines builds the ordered text lines of the annex document
func Lines(in Input) []string {
	lines := []string{
		"CAMARA DE COMERCIO DE MENORCA",
		"Plantilla: " + TemplateVersion,
		fmt.Sprintf("Documento: %s (%s)", strings.ToUpper(string(in.AnnexType)), in.PhaseLabel),
		"Fecha emision: " + in.GeneratedAt,
		"",
		"DATOS DEL PARTICIPANTE",
		"Nombre: " + in.Participant.FullName,
		"DNI/NIE: " + in.Participant.IDNumber,
		"Email: " + in.Participant.Email,
		"Telefono: " + in.Participant.Phone,
		"",
		"DATOS DEL PROGRAMA",
		"Programa: " + in.Course.Name,
		fmt.Sprintf("Duracion: %d horas", in.Course.DurationHours),
		fmt.Sprintf("Fechas: %s - %s", in.Course.StartDate, in.Course.EndDate),
		"",
	}

	switch in.AnnexType {
	case models.AnnexType2:
		lines = append(lines,
			"ANEXO 2 - FASE DIAGNOSTICO",
			"Objetivo: Registrar situacion inicial y compromiso de participacion.",
			"Texto demo: El participante autoriza la gestion academica del itinerario.",
			"",
		)
	case models.AnnexType3:
		attendance := in.AttendanceSummary
		if attendance == "" {
			attendance = "Sin sesiones registradas"
		}
		notes := in.InstructorNotes
		if notes == "" {
			notes = "Sin observaciones"
		}
		lines = append(lines,
			"ANEXO 3 - PROGRESO FORMATIVO",
			"Resumen asistencia: "+attendance,
			"Observaciones instructor: "+notes,
			"",
		)
	case models.AnnexType5:
		lines = append(lines,
			"ANEXO 5 - CERTIFICADO DE FINALIZACION",
			"La Camara certifica que el participante ha completado satisfactoriamente",
			"el programa formativo y ha cumplido con los requisitos de seguimiento.",
			"",
		)
	}

	lines = append(lines, "FIRMAS REGISTRADAS")

	if len(in.Signatures) == 0 {
		lines = append(lines, "- Pendiente de firma")
	} else {
		for _, sig := range in.Signatures {
			lines = append(lines, fmt.Sprintf("- %s: %s (%s)", strings.ToUpper(string(sig.Role)), sig.Name, sig.SignedAt))
		}
	}

	lines = append(lines, "", "Documento generado para demo Madrid 2026.")

	return lines
}

var (
	nonWordPattern    = regexp.MustCompile(`[^a-zA-Z0-9_\s-]`)
	whitespacePattern = regexp.MustCompile(`\s+`)
	hyphenRunPattern  = regexp.MustCompile(`-+`)
)

// NormalizeName folds a display name into a deterministic file-name
// fragment: NFD decomposition strips accents, everything outside
// [a-zA-Z0-9_ -] is dropped, whitespace and hyphen runs collapse to a
// single hyphen.
func NormalizeName(value string) string {
	decomposed := norm.NFD.String(value)
	cleaned := nonWordPattern.ReplaceAllString(decomposed, "")
	hyphenated := whitespacePattern.ReplaceAllString(cleaned, "-")
	collapsed := hyphenRunPattern.ReplaceAllString(hyphenated, "-")
	return strings.Trim(collapsed, "-")
}

// AnnexFileName derives the deterministic file name for an annex
func AnnexFileName(annexType models.AnnexType, firstName, lastName string) string {
	title := strings.ReplaceAll(models.AnnexTitle(annexType), " ", "-")
	return fmt.Sprintf("%s-%s.pdf", title, NormalizeName(firstName+"-"+lastName))
}
