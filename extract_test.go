package zipreader

import (
	"bytes"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
)

func TestMangledName(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"plain.txt", "plain.txt"},
		{"dir/sub/file.txt", "dir/sub/file.txt"},
		{"/etc/passwd", "etc/passwd"},
		{"../../escape.txt", "escape.txt"},
		{"a/../../b.txt", "a/b.txt"},
		{"embedded\x00nul.txt", "embedded"},
	}
	for _, c := range cases {
		got := MangledName(c.name)
		if got != c.want {
			t.Errorf("MangledName(%q) = %q, want %q", c.name, got, c.want)
		}
	}
}

func TestEnclosedName(t *testing.T) {
	cases := []struct {
		name  string
		want  string
		valid bool
	}{
		{"plain.txt", "plain.txt", true},
		{"dir/sub/file.txt", "dir/sub/file.txt", true},
		{"a/../b.txt", "b.txt", true},
		{"/etc/passwd", "", false},
		{"../escape.txt", "", false},
		{"a/../../b.txt", "", false},
		{"embedded\x00nul.txt", "", false},
	}
	for _, c := range cases {
		got, ok := EnclosedName(c.name)
		if ok != c.valid {
			t.Errorf("EnclosedName(%q) ok = %v, want %v", c.name, ok, c.valid)
			continue
		}
		if ok && got != c.want {
			t.Errorf("EnclosedName(%q) = %q, want %q", c.name, got, c.want)
		}
	}
}

func TestArchiveExtract(t *testing.T) {
	entries := []zipFixtureEntry{
		{name: "readme.txt", body: []byte("hello")},
		{name: "nested/data.bin", body: bytes.Repeat([]byte{7}, 64)},
	}
	data := buildFixture(t, entries)
	a, err := Open(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	dir, err := ioutil.TempDir("", "zipreader-extract-")
	if err != nil {
		t.Fatalf("TempDir: %v", err)
	}
	defer os.RemoveAll(dir)

	if err := a.Extract(dir); err != nil {
		t.Fatalf("Extract: %v", err)
	}

	for _, e := range entries {
		got, err := ioutil.ReadFile(filepath.Join(dir, e.name))
		if err != nil {
			t.Fatalf("reading extracted %q: %v", e.name, err)
		}
		if !bytes.Equal(got, e.body) {
			t.Fatalf("extracted content mismatch for %q", e.name)
		}
	}
}

func TestArchiveExtractRejectsUnsafePath(t *testing.T) {
	a := &Archive{
		entries: []*Entry{{FileName: "../escape.txt", CompressionMethod: MethodStored}},
		byName:  map[string]int{"../escape.txt": 0},
	}
	dir, err := ioutil.TempDir("", "zipreader-extract-unsafe-")
	if err != nil {
		t.Fatalf("TempDir: %v", err)
	}
	defer os.RemoveAll(dir)

	if err := a.Extract(dir); err == nil {
		t.Fatalf("expected an error extracting a path-traversal entry")
	}
}
