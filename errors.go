package zipreader

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a ZipError.
type ErrorKind int

const (
	// KindIO wraps a failure returned by the underlying byte source.
	KindIO ErrorKind = iota
	// KindInvalidArchive means the bytes are structurally or semantically wrong:
	// bad signature, impossible offset, or a path that fails sanitization.
	KindInvalidArchive
	// KindUnsupportedArchive means the archive is well-formed but uses a
	// feature this package does not implement (multi-disk, unknown
	// compression method, encrypted or data-descriptor streaming entries).
	KindUnsupportedArchive
)

// ZipError is the error type returned by this package for anything beyond
// the sentinel errors below. Use errors.As to recover the Kind and Reason.
type ZipError struct {
	Kind   ErrorKind
	Reason string
	Err    error // non-nil only for KindIO
}

func (e *ZipError) Error() string {
	switch e.Kind {
	case KindIO:
		return fmt.Sprintf("zipreader: %v", e.Err)
	case KindUnsupportedArchive:
		return "zipreader: unsupported archive: " + e.Reason
	default:
		return "zipreader: invalid archive: " + e.Reason
	}
}

func (e *ZipError) Unwrap() error { return e.Err }

func ioErr(err error) error {
	if err == nil {
		return nil
	}
	return &ZipError{Kind: KindIO, Err: err}
}

func invalidArchive(reason string) error {
	return &ZipError{Kind: KindInvalidArchive, Reason: reason}
}

func unsupportedArchive(reason string) error {
	return &ZipError{Kind: KindUnsupportedArchive, Reason: reason}
}

// Sentinel errors, usable with errors.Is.
var (
	// ErrFileNotFound is returned by ByIndex/ByName when the index is out
	// of range or the name is not present in the archive.
	ErrFileNotFound = errors.New("zipreader: file not found in archive")

	// ErrInvalidPassword is returned when a supplied password fails the
	// ZipCrypto header check for an encrypted entry.
	ErrInvalidPassword = errors.New("zipreader: invalid password")

	// ErrPasswordRequired is returned when an encrypted entry is opened
	// without a password.
	ErrPasswordRequired = errors.New("zipreader: password required")

	// ErrChecksum is wrapped by the error returned from an EntryReader's
	// Read once the decompressed bytes fail their CRC32 check.
	ErrChecksum = errors.New("zipreader: checksum mismatch")
)
