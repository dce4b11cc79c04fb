package zipreader

import (
	"archive/zip"
	"bytes"
	"io"
	"io/ioutil"
	"testing"

	"go4.org/readerutil"
)

type zipFixtureEntry struct {
	name string
	body []byte
}

func buildFixture(t *testing.T, entries []zipFixtureEntry) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, e := range entries {
		f, err := w.Create(e.name)
		if err != nil {
			t.Fatalf("creating %q: %v", e.name, err)
		}
		if _, err := f.Write(e.body); err != nil {
			t.Fatalf("writing %q: %v", e.name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("closing writer: %v", err)
	}
	return buf.Bytes()
}

// buildFixtureWithPrefix stitches a junk prefix onto a freshly-built archive
// fixture using the same sized-ReaderAt joining the package's own junk-prefix
// tolerance is meant to survive, rather than a plain byte-slice append.
func buildFixtureWithPrefix(t *testing.T, prefix []byte, entries []zipFixtureEntry) []byte {
	t.Helper()
	archive := buildFixture(t, entries)
	joined := readerutil.NewMultiReaderAt(bytes.NewReader(prefix), bytes.NewReader(archive))
	out, err := ioutil.ReadAll(io.NewSectionReader(joined, 0, joined.Size()))
	if err != nil {
		t.Fatalf("reading joined fixture: %v", err)
	}
	return out
}

func TestOpenEmptyArchive(t *testing.T) {
	data := buildFixture(t, nil)
	a, err := Open(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if !a.IsEmpty() {
		t.Fatalf("expected empty archive, got %d entries", a.Len())
	}
}

func TestOpenAndReadSingleStoredEntry(t *testing.T) {
	want := []byte("hello, zipreader")
	data := buildFixture(t, []zipFixtureEntry{{name: "hello.txt", body: want}})

	a, err := Open(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if a.Len() != 1 {
		t.Fatalf("expected 1 entry, got %d", a.Len())
	}

	er, err := a.ByName("hello.txt")
	if err != nil {
		t.Fatalf("ByName: %v", err)
	}
	got, err := ioutil.ReadAll(er)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if err := er.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("content mismatch: got %q want %q", got, want)
	}
}

func TestByIndexOutOfRange(t *testing.T) {
	data := buildFixture(t, []zipFixtureEntry{{name: "a", body: []byte("a")}})
	a, err := Open(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := a.ByIndex(5); err != ErrFileNotFound {
		t.Fatalf("expected ErrFileNotFound, got %v", err)
	}
	if _, err := a.ByName("missing"); err != ErrFileNotFound {
		t.Fatalf("expected ErrFileNotFound, got %v", err)
	}
}

func TestJunkPrefixTolerance(t *testing.T) {
	entries := []zipFixtureEntry{
		{name: "a.txt", body: []byte("aaaa")},
		{name: "dir/b.txt", body: []byte("bbbbbbbb")},
	}
	prefix := bytes.Repeat([]byte{0xAA}, 137)
	data := buildFixtureWithPrefix(t, prefix, entries)

	a, err := Open(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Open with junk prefix: %v", err)
	}
	if a.Offset() != uint64(len(prefix)) {
		t.Fatalf("Offset() = %d, want %d", a.Offset(), len(prefix))
	}
	for _, e := range entries {
		er, err := a.ByName(e.name)
		if err != nil {
			t.Fatalf("ByName(%q): %v", e.name, err)
		}
		got, err := ioutil.ReadAll(er)
		er.Close()
		if err != nil {
			t.Fatalf("Read(%q): %v", e.name, err)
		}
		if !bytes.Equal(got, e.body) {
			t.Fatalf("content mismatch for %q: got %q want %q", e.name, got, e.body)
		}
	}
}

func TestSingleEntryReaderAtATime(t *testing.T) {
	data := buildFixture(t, []zipFixtureEntry{
		{name: "a", body: []byte("aaa")},
		{name: "b", body: []byte("bbb")},
	})
	a, err := Open(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	first, err := a.ByName("a")
	if err != nil {
		t.Fatalf("ByName(a): %v", err)
	}
	if _, err := a.ByName("b"); err == nil {
		t.Fatalf("expected error opening a second entry while the first is open")
	}
	if err := first.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	second, err := a.ByName("b")
	if err != nil {
		t.Fatalf("ByName(b) after Close: %v", err)
	}
	second.Close()
}

func TestFileNames(t *testing.T) {
	data := buildFixture(t, []zipFixtureEntry{
		{name: "a", body: []byte("a")},
		{name: "b", body: []byte("b")},
	})
	a, err := Open(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	names := a.FileNames()
	if len(names) != 2 {
		t.Fatalf("expected 2 names, got %d", len(names))
	}
}

func TestOpenReaderAt(t *testing.T) {
	data := buildFixture(t, []zipFixtureEntry{{name: "a", body: []byte("content")}})
	a, err := OpenReaderAt(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("OpenReaderAt: %v", err)
	}
	if a.Len() != 1 {
		t.Fatalf("expected 1 entry, got %d", a.Len())
	}
}

func TestInvalidArchiveReturnsError(t *testing.T) {
	if _, err := Open(bytes.NewReader([]byte("not a zip file at all"))); err == nil {
		t.Fatalf("expected error for non-archive input")
	}
}
