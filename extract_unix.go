//go:build unix

package zipreader

import "os"

// applyUnixMode sets the extracted file's permissions from the entry's
// stored Unix mode, when one can be derived.
func applyUnixMode(path string, e *Entry) error {
	mode, ok := e.UnixMode()
	if !ok {
		return nil
	}
	if err := os.Chmod(path, os.FileMode(mode&0o777)); err != nil {
		return ioErr(err)
	}
	return nil
}
