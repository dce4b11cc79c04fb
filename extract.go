package zipreader

import (
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// splitNulTerminated truncates raw zip names at the first embedded NUL
// byte, a defense some archives rely on to smuggle extra bytes past naive
// string handling.
func splitNulTerminated(name string) string {
	if i := strings.IndexByte(name, 0); i >= 0 {
		return name[:i]
	}
	return name
}

func splitComponents(name string) []string {
	name = strings.ReplaceAll(name, "\\", "/")
	parts := strings.Split(name, "/")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// MangledName returns a best-effort, always-safe relative path for an
// on-disk entry name: truncated at the first NUL byte, with any root,
// drive, or parent-directory component simply dropped rather than
// rejecting the whole name. Use this when any plausible destination inside
// an extraction root is acceptable and availability matters more than a
// precise mapping back to the original name.
func MangledName(rawName string) string {
	name := splitNulTerminated(rawName)
	if len(name) >= 2 && name[1] == ':' {
		// Drive-letter prefix (C:...).
		name = name[2:]
	}
	if path.IsAbs(name) {
		name = strings.TrimLeft(name, "/")
	}
	var kept []string
	for _, c := range splitComponents(name) {
		switch c {
		case ".", "..":
			continue
		default:
			kept = append(kept, c)
		}
	}
	return path.Join(kept...)
}

// EnclosedName returns the entry's path only if it is guaranteed to stay
// within any directory it is joined to: it must contain no NUL byte, no
// absolute or drive-style component, and the running depth produced by
// walking its components (".." decrements, a plain component increments)
// must never go negative. On any violation it returns ("", false).
//
// The returned path is not the raw name unchanged: "." components are
// dropped, ".." components are resolved against the components before
// them, and "\" separators become "/".
func EnclosedName(rawName string) (string, bool) {
	if strings.IndexByte(rawName, 0) >= 0 {
		return "", false
	}
	if path.IsAbs(rawName) || strings.HasPrefix(rawName, "\\") {
		return "", false
	}
	if len(rawName) >= 2 && rawName[1] == ':' {
		// Drive-letter prefix (C:...).
		return "", false
	}

	depth := 0
	var kept []string
	for _, c := range splitComponents(rawName) {
		switch c {
		case ".":
			continue
		case "..":
			depth--
			if depth < 0 {
				return "", false
			}
			kept = append(kept, c)
		default:
			depth++
			kept = append(kept, c)
		}
	}
	return path.Join(kept...), true
}

// Extract writes every entry in the archive under dir, creating
// directories as needed. It is not atomic: on the first error it returns
// immediately, leaving whatever was already written in place.
func (a *Archive) Extract(dir string) error {
	for i := range a.entries {
		if err := a.extractOne(dir, i); err != nil {
			return err
		}
	}
	return nil
}

func (a *Archive) extractOne(dir string, i int) error {
	e := a.entries[i]
	rel, ok := EnclosedName(e.FileName)
	if !ok {
		return invalidArchive("invalid file path: " + e.FileName)
	}
	target := filepath.Join(dir, filepath.FromSlash(rel))

	if e.IsDir() {
		return os.MkdirAll(target, 0o777)
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o777); err != nil {
		return ioErr(err)
	}

	er, err := a.ByIndex(i)
	if err != nil {
		return err
	}
	defer er.Close()

	out, err := os.Create(target)
	if err != nil {
		return ioErr(err)
	}
	defer out.Close()

	if _, err := io.Copy(out, er); err != nil {
		return err
	}

	return applyUnixMode(target, e)
}
