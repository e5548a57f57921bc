package archive

import (
	"archive/zip"
	"bytes"
	"hash/crc32"
	"io"
	"testing"
)

func TestChecksumMatchesStdlib(t *testing.T) {
	inputs := [][]byte{
		nil,
		[]byte(""),
		[]byte("a"),
		[]byte("Anexo 2 - Laura Rodriguez Mora"),
		bytes.Repeat([]byte{0x00, 0xff, 0x7f}, 1000),
	}

	for _, input := range inputs {
		want := crc32.ChecksumIEEE(input)
		if got := Checksum(input); got != want {
			t.Errorf("Checksum(%d bytes) = %08x, want %08x", len(input), got, want)
		}
	}
}

func TestBuildRoundTrip(t *testing.T) {
	entries := []Entry{
		{Name: "Anexo-2-Laura-Rodriguez-Mora.pdf", Data: []byte("%PDF-1.4 fake one")},
		{Name: "Anexo-3-Sofia-Lopez-Navarro.pdf", Data: []byte("%PDF-1.4 fake two, longer payload")},
		{Name: "empty.pdf", Data: []byte{}},
	}

	out := Build(entries)

	reader, err := zip.NewReader(bytes.NewReader(out), int64(len(out)))
	if err != nil {
		t.Fatalf("stdlib reader rejected the archive: %v", err)
	}

	if len(reader.File) != len(entries) {
		t.Fatalf("archive has %d entries, want %d", len(reader.File), len(entries))
	}

	for i, file := range reader.File {
		if file.Name != entries[i].Name {
			t.Errorf("entry %d name = %q, want %q (order must match input)", i, file.Name, entries[i].Name)
		}
		if file.Method != zip.Store {
			t.Errorf("entry %d method = %d, want store", i, file.Method)
		}

		rc, err := file.Open()
		if err != nil {
			t.Fatalf("open entry %d: %v", i, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("read entry %d: %v", i, err)
		}
		if !bytes.Equal(data, entries[i].Data) {
			t.Errorf("entry %d data does not round-trip", i)
		}
		if file.CRC32 != crc32.ChecksumIEEE(entries[i].Data) {
			t.Errorf("entry %d stored CRC %08x does not verify", i, file.CRC32)
		}
	}
}

func TestBuildDeterminism(t *testing.T) {
	entries := []Entry{
		{Name: "one.pdf", Data: []byte("first")},
		{Name: "two.pdf", Data: []byte("second")},
	}

	if !bytes.Equal(Build(entries), Build(entries)) {
		t.Fatal("two builds from identical entries differ")
	}
}

func TestBuildNoTimestamps(t *testing.T) {
	out := Build([]Entry{{Name: "a.pdf", Data: []byte("x")}})

	// local header mod time and date fields (offsets 10..14) stay zero
	for i := 10; i < 14; i++ {
		if out[i] != 0 {
			t.Fatalf("local header byte %d = %02x, want zero", i, out[i])
		}
	}
}

func TestBuildEmptyArchive(t *testing.T) {
	out := Build(nil)

	if len(out) != 22 {
		t.Fatalf("empty archive is %d bytes, want bare 22-byte end record", len(out))
	}

	reader, err := zip.NewReader(bytes.NewReader(out), int64(len(out)))
	if err != nil {
		t.Fatalf("stdlib reader rejected empty archive: %v", err)
	}
	if len(reader.File) != 0 {
		t.Errorf("empty archive has %d entries", len(reader.File))
	}
}
