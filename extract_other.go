//go:build !unix

package zipreader

// applyUnixMode is a no-op on non-Unix platforms; file permission bits from
// a ZIP archive's external attributes have no meaningful mapping there.
func applyUnixMode(path string, e *Entry) error { return nil }
