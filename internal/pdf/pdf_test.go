package pdf

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"testing"
)

func TestEscape(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain text", "plain text"},
		{"with (parens)", `with \(parens\)`},
		{`back\slash`, `back\\slash`},
		{`both \ ( )`, `both \\ \( \)`},
		{"", ""},
	}

	for _, tt := range tests {
		if got := Escape(tt.in); got != tt.want {
			t.Errorf("Escape(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBuildDeterminism(t *testing.T) {
	lines := []string{"CAMARA DE COMERCIO DE MENORCA", "", "Linea (con parentesis)"}

	first := Build(lines)
	second := Build(lines)

	if !bytes.Equal(first, second) {
		t.Fatal("two builds from identical lines differ")
	}
}

func TestBuildStructure(t *testing.T) {
	out := string(Build([]string{"Hola", "Adios"}))

	if !strings.HasPrefix(out, "%PDF-1.4\n") {
		t.Error("missing PDF header")
	}
	if !strings.HasSuffix(out, "%%EOF\n") {
		t.Error("missing EOF marker")
	}
	if !strings.Contains(out, "/BaseFont /Helvetica") {
		t.Error("missing Helvetica font object")
	}
	if !strings.Contains(out, "/MediaBox [0 0 595 842]") {
		t.Error("missing A4 media box")
	}
	if !strings.Contains(out, "1 0 0 1 40 800 Tm (Hola) Tj") {
		t.Error("first line not positioned at top margin")
	}
	if !strings.Contains(out, "1 0 0 1 40 786 Tm (Adios) Tj") {
		t.Error("second line not one line height below the first")
	}
	if !strings.Contains(out, "trailer << /Size 6 /Root 1 0 R >>") {
		t.Error("trailer does not point at the catalog")
	}
}

func TestBuildXrefOffsets(t *testing.T) {
	out := string(Build([]string{"a", "b", "c"}))

	// startxref must point at the xref keyword
	idx := strings.LastIndex(out, "startxref\n")
	if idx < 0 {
		t.Fatal("missing startxref")
	}
	rest := out[idx+len("startxref\n"):]
	xrefOffset, err := strconv.Atoi(strings.SplitN(rest, "\n", 2)[0])
	if err != nil {
		t.Fatalf("unparseable startxref value: %v", err)
	}
	if !strings.HasPrefix(out[xrefOffset:], "xref\n") {
		t.Fatalf("startxref %d does not point at the xref table", xrefOffset)
	}

	// each xref entry must point at its object header
	xref := out[xrefOffset:]
	entryStart := strings.Index(xref, "0000000000 65535 f \n")
	if entryStart < 0 {
		t.Fatal("missing free-object entry")
	}
	entries := strings.Split(xref[entryStart+len("0000000000 65535 f \n"):], "\n")
	for i := 0; i < 5; i++ {
		fields := strings.Fields(entries[i])
		if len(fields) != 3 || fields[2] != "n" {
			t.Fatalf("malformed xref entry %d: %q", i+1, entries[i])
		}
		offset, err := strconv.Atoi(fields[0])
		if err != nil {
			t.Fatalf("unparseable offset in entry %d: %v", i+1, err)
		}
		wantHeader := fmt.Sprintf("%d 0 obj", i+1)
		if !strings.HasPrefix(out[offset:], wantHeader) {
			t.Errorf("xref entry %d offset %d does not point at %q", i+1, offset, wantHeader)
		}
	}
}

func TestBuildStreamLength(t *testing.T) {
	out := string(Build([]string{"x"}))

	start := strings.Index(out, "/Length ")
	if start < 0 {
		t.Fatal("missing stream length")
	}
	lengthStr := out[start+len("/Length "):]
	length, err := strconv.Atoi(strings.SplitN(lengthStr, " ", 2)[0])
	if err != nil {
		t.Fatalf("unparseable length: %v", err)
	}

	streamStart := strings.Index(out, "stream\n") + len("stream\n")
	streamEnd := strings.Index(out, "\nendstream")
	if got := streamEnd - streamStart; got != length {
		t.Errorf("declared stream length %d, actual %d", length, got)
	}
}
