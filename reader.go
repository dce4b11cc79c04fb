package zipreader

import (
	"io"
)

// EntryReader is a scoped handle onto one archive member's decompressed
// byte stream. An archive-backed EntryReader exclusively borrows its
// Archive's byte source until Close releases it; a streaming EntryReader
// (produced by ReadEntryFromStream) owns no shared state but must still be
// Closed before the next call, so the underlying source can be drained past
// any bytes the caller did not read.
type EntryReader struct {
	entry   *Entry
	archive *Archive // nil for streaming entries
	r       io.Reader
	raw     io.Reader // bounded raw window, kept for drain-on-close (streaming only)
	closed  bool
}

// Read returns the entry's decompressed bytes.
func (er *EntryReader) Read(p []byte) (int, error) {
	return er.r.Read(p)
}

// Close releases the EntryReader. For an archive-backed entry this simply
// frees the archive for the next ByIndex/ByName call. For a streaming entry
// it drains whatever raw compressed bytes remain unread so the source is
// positioned at the next local file header.
func (er *EntryReader) Close() error {
	if er.closed {
		return nil
	}
	er.closed = true

	if er.archive != nil {
		er.archive.release()
		return nil
	}
	if er.raw != nil {
		if _, err := io.Copy(io.Discard, er.raw); err != nil {
			return ioErr(err)
		}
	}
	return nil
}

// Name returns the entry's decoded file name.
func (er *EntryReader) Name() string { return er.entry.FileName }

// NameRaw returns the entry's on-disk name bytes, undecoded.
func (er *EntryReader) NameRaw() []byte { return er.entry.FileNameRaw }

// Comment returns the entry's decoded comment.
func (er *EntryReader) Comment() string { return er.entry.FileComment }

// Compression returns the entry's compression method.
func (er *EntryReader) Compression() CompressionMethod { return er.entry.CompressionMethod }

// CompressedSize returns the size of the entry's data as stored on disk.
func (er *EntryReader) CompressedSize() uint64 { return er.entry.CompressedSize }

// Size returns the entry's uncompressed size.
func (er *EntryReader) Size() uint64 { return er.entry.UncompressedSize }

// LastModified returns the entry's MS-DOS modification time, decoded.
func (er *EntryReader) LastModified() DateTime { return er.entry.LastModified }

// CRC32 returns the entry's recorded checksum of the uncompressed data.
func (er *EntryReader) CRC32() uint32 { return er.entry.CRC32 }

// DataStart returns the absolute offset of the entry's compressed data.
func (er *EntryReader) DataStart() uint64 { return er.entry.DataStart }

// HeaderStart returns the absolute offset of the entry's local file header.
func (er *EntryReader) HeaderStart() uint64 { return er.entry.HeaderStart }

// CentralHeaderStart returns the absolute offset of the entry's central
// directory file header, or 0 for a streaming entry.
func (er *EntryReader) CentralHeaderStart() uint64 { return er.entry.CentralHeaderStart }

// VersionMadeBy returns the (major, minor) version that wrote the entry.
func (er *EntryReader) VersionMadeBy() (major, minor uint8) {
	v := er.entry.VersionMadeBy
	return v / 10, v % 10
}

// IsDir reports whether the entry is a directory.
func (er *EntryReader) IsDir() bool { return er.entry.IsDir() }

// IsFile reports whether the entry is a regular file.
func (er *EntryReader) IsFile() bool { return er.entry.IsFile() }

// UnixMode derives a Unix mode word for the entry; see Entry.UnixMode.
func (er *EntryReader) UnixMode() (uint32, bool) { return er.entry.UnixMode() }

// MangledName returns a best-effort, always-safe relative path for the
// entry: truncated at the first NUL byte, with root/prefix/parent-dir
// components dropped rather than rejected.
func (er *EntryReader) MangledName() string { return MangledName(er.entry.FileName) }

// EnclosedName returns the entry's path, cleaned as the package-level
// EnclosedName cleans it, if, and only if, it is guaranteed
// to stay within a directory it is joined to: no NUL byte, no absolute or
// drive-prefixed component, and the running depth from parent-dir
// components never goes negative.
func (er *EntryReader) EnclosedName() (string, bool) { return EnclosedName(er.entry.FileName) }
