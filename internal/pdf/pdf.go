// Package pdf writes minimal single-page PDF documents from ordered
// text lines. Output is byte-reproducible: no timestamps, no random
// identifiers, exact xref offsets. The byte layout is a compatibility
// surface consumed by standard readers and by downstream content
// fingerprinting, so nothing here may vary between invocations.
package pdf

import (
	"fmt"
	"strings"
)

const (
	leftMargin = 40
	topY       = 800
	lineHeight = 14
	fontSize   = 11
)

// Escape applies the PDF string-escaping rule to a text line:
// backslashes first, then parentheses.
func Escape(value string) string {
	value = strings.ReplaceAll(value, `\`, `\\`)
	value = strings.ReplaceAll(value, "(", `\(`)
	value = strings.ReplaceAll(value, ")", `\)`)
	return value
}

// Build renders the given lines into a complete single-page PDF.
// Each line is placed at a fixed left margin, stepping down a fixed
// line height from the top of an A4 media box.
func Build(lines []string) []byte {
	var stream strings.Builder
	stream.WriteString("BT\n")
	fmt.Fprintf(&stream, "/F1 %d Tf", fontSize)

	y := topY
	for _, line := range lines {
		fmt.Fprintf(&stream, "\n1 0 0 1 %d %d Tm (%s) Tj", leftMargin, y, Escape(line))
		y -= lineHeight
	}
	stream.WriteString("\nET")
	streamContent := stream.String()

	objects := []string{
		"1 0 obj << /Type /Catalog /Pages 2 0 R >> endobj",
		"2 0 obj << /Type /Pages /Kids [3 0 R] /Count 1 >> endobj",
		"3 0 obj << /Type /Page /Parent 2 0 R /MediaBox [0 0 595 842] /Resources << /Font << /F1 4 0 R >> >> /Contents 5 0 R >> endobj",
		"4 0 obj << /Type /Font /Subtype /Type1 /BaseFont /Helvetica >> endobj",
		fmt.Sprintf("5 0 obj << /Length %d >> stream\n%s\nendstream endobj", len(streamContent), streamContent),
	}

	var out strings.Builder
	out.WriteString("%PDF-1.4\n")

	offsets := make([]int, 0, len(objects)+1)
	offsets = append(offsets, 0)
	for _, object := range objects {
		offsets = append(offsets, out.Len())
		out.WriteString(object)
		out.WriteByte('\n')
	}

	xrefOffset := out.Len()
	fmt.Fprintf(&out, "xref\n0 %d\n", len(objects)+1)
	out.WriteString("0000000000 65535 f \n")
	for i := 1; i <= len(objects); i++ {
		fmt.Fprintf(&out, "%010d 00000 n \n", offsets[i])
	}

	fmt.Fprintf(&out, "trailer << /Size %d /Root 1 0 R >>\n", len(objects)+1)
	fmt.Fprintf(&out, "startxref\n%d\n%%%%EOF\n", xrefOffset)

	return []byte(out.String())
}
