package zipreader

import (
	"hash/crc32"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// decodeName decodes raw entry-name or comment bytes according to the
// general-purpose UTF-8 flag: CP-437 if clear, UTF-8 with lossy replacement
// of invalid sequences if set (plain string(raw) would copy invalid bytes
// through unchanged instead of substituting U+FFFD).
func decodeName(raw []byte, utf8Flag bool) string {
	if utf8Flag {
		return utf8Lossy(raw)
	}
	out, err := charmap.CodePage437.NewDecoder().Bytes(raw)
	if err != nil {
		// CP-437 covers all 256 byte values, so this path should not be
		// reachable; fall back to the raw bytes rather than fail the parse.
		return string(raw)
	}
	return string(out)
}

// utf8Lossy decodes raw as UTF-8, substituting U+FFFD for any invalid byte
// sequence, matching String::from_utf8_lossy's behavior.
func utf8Lossy(raw []byte) string {
	if utf8.Valid(raw) {
		return string(raw)
	}
	var b strings.Builder
	b.Grow(len(raw))
	for len(raw) > 0 {
		r, size := utf8.DecodeRune(raw)
		b.WriteRune(r)
		raw = raw[size:]
	}
	return b.String()
}

// applyUTF8PathField overrides the decoded file name with an Info-ZIP
// Unicode Path extra field (0x7075) when its CRC32 matches the raw name and
// its payload is valid UTF-8, per the pack's extra-field tolerance policy.
func applyUTF8PathField(rawName []byte, field []byte) (string, bool) {
	if len(field) < 5 {
		return "", false
	}
	b := readBuf(field)
	_ = b.uint8() // version, always 1
	nameCRC32 := b.uint32()
	if crc32.ChecksumIEEE(rawName) != nameCRC32 {
		return "", false
	}
	rest := []byte(b)
	if !utf8.Valid(rest) {
		return "", false
	}
	return string(rest), true
}
