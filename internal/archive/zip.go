// Package archive writes deterministic ZIP files with stored
// (uncompressed) entries only. Entry order in the output matches input
// order exactly, and no timestamps, comments, or platform fields are
// emitted, so the same inputs always produce the same bytes. The
// standard archive/zip writer stamps modification times and version
// fields, which would break that guarantee; this writer is used on the
// write side and archive/zip only ever on the read side (tests).
package archive

import (
	"bytes"
	"encoding/binary"
)

// Entry is one named blob to pack into the archive
type Entry struct {
	Name string
	Data []byte
}

const (
	localHeaderSignature   = 0x04034b50
	centralHeaderSignature = 0x02014b50
	endRecordSignature     = 0x06054b50
	zipVersion             = 20
)

// crcTable is the reflected CRC-32 lookup table for the IEEE polynomial
var crcTable = makeCRCTable()

func makeCRCTable() [256]uint32 {
	var table [256]uint32
	for i := 0; i < 256; i++ {
		crc := uint32(i)
		for bit := 0; bit < 8; bit++ {
			if crc&1 == 1 {
				crc = 0xedb88320 ^ (crc >> 1)
			} else {
				crc >>= 1
			}
		}
		table[i] = crc
	}
	return table
}

// Checksum computes the CRC-32 of data with the standard initial and
// final XOR of 0xFFFFFFFF
func Checksum(data []byte) uint32 {
	crc := uint32(0xffffffff)
	for _, b := range data {
		crc = crcTable[(crc^uint32(b))&0xff] ^ (crc >> 8)
	}
	return crc ^ 0xffffffff
}

// Build packs the entries into a ZIP archive using the stored method
func Build(entries []Entry) []byte {
	var local bytes.Buffer
	var central bytes.Buffer

	for _, entry := range entries {
		name := []byte(entry.Name)
		checksum := Checksum(entry.Data)
		offset := uint32(local.Len())

		localHeader := make([]byte, 30)
		binary.LittleEndian.PutUint32(localHeader[0:], localHeaderSignature)
		binary.LittleEndian.PutUint16(localHeader[4:], zipVersion)
		// flags, method, mod time, mod date all zero
		binary.LittleEndian.PutUint32(localHeader[14:], checksum)
		binary.LittleEndian.PutUint32(localHeader[18:], uint32(len(entry.Data)))
		binary.LittleEndian.PutUint32(localHeader[22:], uint32(len(entry.Data)))
		binary.LittleEndian.PutUint16(localHeader[26:], uint16(len(name)))
		// extra field length zero

		local.Write(localHeader)
		local.Write(name)
		local.Write(entry.Data)

		centralHeader := make([]byte, 46)
		binary.LittleEndian.PutUint32(centralHeader[0:], centralHeaderSignature)
		binary.LittleEndian.PutUint16(centralHeader[4:], zipVersion)
		binary.LittleEndian.PutUint16(centralHeader[6:], zipVersion)
		binary.LittleEndian.PutUint32(centralHeader[16:], checksum)
		binary.LittleEndian.PutUint32(centralHeader[20:], uint32(len(entry.Data)))
		binary.LittleEndian.PutUint32(centralHeader[24:], uint32(len(entry.Data)))
		binary.LittleEndian.PutUint16(centralHeader[28:], uint16(len(name)))
		binary.LittleEndian.PutUint32(centralHeader[42:], offset)

		central.Write(centralHeader)
		central.Write(name)
	}

	endRecord := make([]byte, 22)
	binary.LittleEndian.PutUint32(endRecord[0:], endRecordSignature)
	binary.LittleEndian.PutUint16(endRecord[8:], uint16(len(entries)))
	binary.LittleEndian.PutUint16(endRecord[10:], uint16(len(entries)))
	binary.LittleEndian.PutUint32(endRecord[12:], uint32(central.Len()))
	binary.LittleEndian.PutUint32(endRecord[16:], uint32(local.Len()))

	out := make([]byte, 0, local.Len()+central.Len()+len(endRecord))
	out = append(out, local.Bytes()...)
	out = append(out, central.Bytes()...)
	out = append(out, endRecord...)
	return out
}
