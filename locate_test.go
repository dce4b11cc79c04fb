package zipreader

import (
	"bytes"
	"testing"
)

func TestOpenRejectsTruncatedData(t *testing.T) {
	data := buildFixture(t, []zipFixtureEntry{{name: "a", body: []byte("abc")}})
	truncated := data[:len(data)-5]
	if _, err := Open(bytes.NewReader(truncated)); err == nil {
		t.Fatalf("expected an error opening a truncated archive")
	}
}

func TestOpenRejectsCorruptedCentralDirectoryOffset(t *testing.T) {
	data := buildFixture(t, []zipFixtureEntry{{name: "a", body: []byte("abc")}})
	// Flip a byte inside the EOCD's central-directory-offset field so the
	// recorded offset no longer lines up with where the directory actually
	// starts relative to where the EOCD signature was found.
	idx := bytes.LastIndex(data, []byte{'P', 'K', 0x05, 0x06})
	if idx < 0 {
		t.Fatalf("could not find EOCD signature in fixture")
	}
	corrupted := append([]byte(nil), data...)
	corrupted[idx+16] ^= 0xff
	corrupted[idx+17] ^= 0xff

	if _, err := Open(bytes.NewReader(corrupted)); err == nil {
		t.Fatalf("expected an error for a corrupted central directory offset")
	}
}

func TestLocateDirectoryEndFindsRecord(t *testing.T) {
	data := buildFixture(t, []zipFixtureEntry{{name: "a", body: []byte("x")}})
	end, pos, err := locateDirectoryEnd(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("locateDirectoryEnd: %v", err)
	}
	if pos < 0 || pos >= int64(len(data)) {
		t.Fatalf("position %d out of range", pos)
	}
	if end.filesOnThisDisk != 1 {
		t.Fatalf("expected 1 file on disk, got %d", end.filesOnThisDisk)
	}
}
