// Copyright 2010 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package zipreader

import (
	"io"
	"sync"
)

// Archive is an opened ZIP archive: an ordered table of entry metadata plus
// exclusive ownership of the byte source they were read from. At most one
// EntryReader may be open against an Archive at a time; see Close on
// EntryReader. When several entries share a file name, ByName and
// ByNameDecrypt open the last of them; ByIndex still reaches the others.
type Archive struct {
	source  io.ReadSeeker
	entries []*Entry
	byName  map[string]int
	offset  uint64
	comment []byte

	mu         sync.Mutex
	checkedOut bool
}

// Open parses the central directory of a seekable ZIP archive and returns
// an Archive ready to serve entries.
func Open(source io.ReadSeeker) (*Archive, error) {
	end, cdeStartPos, err := locateDirectoryEnd(source)
	if err != nil {
		return nil, err
	}
	if end.diskNumber != end.diskWithCentralDir {
		return nil, unsupportedArchive("multi-disk archives are not supported")
	}

	counts, err := resolveDirectoryCounts(source, end, cdeStartPos)
	if err != nil {
		return nil, err
	}
	if counts.entryCount > uint64(^uint(0)>>1) {
		return nil, unsupportedArchive("too many entries for this platform")
	}

	if _, err := source.Seek(int64(counts.directoryStart), io.SeekStart); err != nil {
		return nil, invalidArchive("could not seek to start of central directory")
	}

	a := &Archive{
		source:  source,
		entries: make([]*Entry, 0, counts.entryCount),
		byName:  make(map[string]int, counts.entryCount),
		offset:  counts.archiveOffset,
		comment: end.comment,
	}

	for i := uint64(0); i < counts.entryCount; i++ {
		pos, err := source.Seek(0, io.SeekCurrent)
		if err != nil {
			return nil, ioErr(err)
		}
		e, err := readCentralEntry(source, counts.archiveOffset)
		if err != nil {
			return nil, err
		}
		e.CentralHeaderStart = uint64(pos)
		a.byName[e.FileName] = len(a.entries)
		a.entries = append(a.entries, e)
	}

	return a, nil
}

// OpenReaderAt opens an archive from a random-access source of known size,
// the common entry point for callers already holding a size-bounded view
// (a memory-mapped file, an HTTP range cache, an asset bundle) rather than
// an os.File they can Seek directly.
func OpenReaderAt(source io.ReaderAt, size int64) (*Archive, error) {
	return Open(io.NewSectionReader(source, 0, size))
}

func readCentralEntry(source io.ReadSeeker, archiveOffset uint64) (*Entry, error) {
	var fixed [directoryHeaderLen]byte
	if _, err := io.ReadFull(source, fixed[:]); err != nil {
		return nil, ioErr(err)
	}
	h, err := parseCentralHeader(fixed[:])
	if err != nil {
		return nil, err
	}

	rawName := make([]byte, h.nameLen)
	if _, err := io.ReadFull(source, rawName); err != nil {
		return nil, ioErr(err)
	}
	extra := make([]byte, h.extraLen)
	if _, err := io.ReadFull(source, extra); err != nil {
		return nil, ioErr(err)
	}
	comment := make([]byte, h.commentLen)
	if _, err := io.ReadFull(source, comment); err != nil {
		return nil, ioErr(err)
	}

	utf8Flag := h.flags&flagUTF8 != 0
	e := &Entry{
		System:             systemFromVersionMadeBy(h.versionMadeBy),
		VersionMadeBy:      uint8(h.versionMadeBy),
		Encrypted:          h.flags&flagEncrypted != 0,
		HasDataDescriptor:  h.flags&flagDataDescriptor != 0,
		CompressionMethod:  CompressionMethod(h.method),
		LastModified:       msDosTimeToDateTime(h.modDate, h.modTime),
		modDosTime:         h.modTime,
		CRC32:              h.crc32,
		CompressedSize:     uint64(h.compressedSize),
		UncompressedSize:   uint64(h.uncompressedSize),
		FileName:           decodeName(rawName, utf8Flag),
		FileNameRaw:        rawName,
		FileComment:        decodeName(comment, utf8Flag),
		HeaderStart:        uint64(h.headerOffset),
		CentralHeaderStart: 0,
		ExternalAttributes: h.externalAttrs,
	}

	parseExtraField(e, rawName, extra,
		h.uncompressedSize == uint32max,
		h.compressedSize == uint32max,
		h.headerOffset == uint32max,
	)

	e.HeaderStart += archiveOffset

	return e, nil
}

// Len returns the number of entries in the archive.
func (a *Archive) Len() int { return len(a.entries) }

// IsEmpty reports whether the archive has no entries.
func (a *Archive) IsEmpty() bool { return len(a.entries) == 0 }

// Offset returns the junk-prefix adjustment applied to every header offset:
// the number of bytes found before the start of the archive proper.
func (a *Archive) Offset() uint64 { return a.offset }

// Comment returns the raw archive-level comment bytes.
func (a *Archive) Comment() []byte { return a.comment }

// FileNames returns every entry name; iteration order is unspecified.
func (a *Archive) FileNames() []string {
	names := make([]string, len(a.byName))
	i := 0
	for n := range a.byName {
		names[i] = n
		i++
	}
	return names
}

func (a *Archive) indexByName(name string) (int, bool) {
	i, ok := a.byName[name]
	return i, ok
}

func (a *Archive) checkout() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.checkedOut {
		return unsupportedArchive("another entry reader is still open")
	}
	a.checkedOut = true
	return nil
}

func (a *Archive) release() {
	a.mu.Lock()
	a.checkedOut = false
	a.mu.Unlock()
}

// ByIndex opens the entry at position i (0-based, central-directory order).
func (a *Archive) ByIndex(i int) (*EntryReader, error) {
	return a.open(i, nil)
}

// ByName opens the entry with the given file name.
func (a *Archive) ByName(name string) (*EntryReader, error) {
	i, ok := a.indexByName(name)
	if !ok {
		return nil, ErrFileNotFound
	}
	return a.open(i, nil)
}

// ByIndexDecrypt opens an encrypted entry at position i with the given
// password. Passing a password for an unencrypted entry is accepted and
// ignored.
func (a *Archive) ByIndexDecrypt(i int, password []byte) (*EntryReader, error) {
	return a.open(i, password)
}

// ByNameDecrypt is ByIndexDecrypt by file name.
func (a *Archive) ByNameDecrypt(name string, password []byte) (*EntryReader, error) {
	i, ok := a.indexByName(name)
	if !ok {
		return nil, ErrFileNotFound
	}
	return a.open(i, password)
}

// ByIndexRaw opens the entry at position i without decompression or CRC
// verification: Read returns exactly the bytes stored in the archive.
func (a *Archive) ByIndexRaw(i int) (*EntryReader, error) {
	if i < 0 || i >= len(a.entries) {
		return nil, ErrFileNotFound
	}
	if err := a.checkout(); err != nil {
		return nil, err
	}
	e := a.entries[i]
	if err := a.resolveDataStart(e); err != nil {
		a.release()
		return nil, err
	}
	raw, err := a.rawWindow(e)
	if err != nil {
		a.release()
		return nil, err
	}
	return &EntryReader{
		entry:   e,
		archive: a,
		r:       raw,
	}, nil
}

func (a *Archive) open(i int, password []byte) (*EntryReader, error) {
	if i < 0 || i >= len(a.entries) {
		return nil, ErrFileNotFound
	}
	if err := a.checkout(); err != nil {
		return nil, err
	}
	e := a.entries[i]
	if err := a.resolveDataStart(e); err != nil {
		a.release()
		return nil, err
	}

	raw, err := a.rawWindow(e)
	if err != nil {
		a.release()
		return nil, err
	}

	pipe, err := buildPipeline(e, raw, password)
	if err != nil {
		a.release()
		return nil, err
	}

	return &EntryReader{
		entry:   e,
		archive: a,
		r:       pipe,
	}, nil
}

// rawWindow returns an io.Reader bounded to exactly CompressedSize bytes
// starting at the entry's resolved DataStart.
func (a *Archive) rawWindow(e *Entry) (io.Reader, error) {
	if _, err := a.source.Seek(int64(e.DataStart), io.SeekStart); err != nil {
		return nil, invalidArchive("could not seek to entry data")
	}
	return io.LimitReader(a.source, int64(e.CompressedSize)), nil
}

// resolveDataStart computes DataStart by reading the entry's local file
// header and skipping over its variable-length name and extra fields.
func (a *Archive) resolveDataStart(e *Entry) error {
	if e.dataStartKnown {
		return nil
	}
	if _, err := a.source.Seek(int64(e.HeaderStart), io.SeekStart); err != nil {
		return invalidArchive("could not seek to local file header")
	}
	var fixed [fileHeaderLen]byte
	if _, err := io.ReadFull(a.source, fixed[:]); err != nil {
		return ioErr(err)
	}
	lh, err := parseLocalHeader(fixed[:])
	if err != nil {
		return err
	}
	e.DataStart = e.HeaderStart + fileHeaderLen + uint64(lh.nameLen) + uint64(lh.extraLen)
	e.dataStartKnown = true
	return nil
}

// Cloner is implemented by byte sources that can produce an independent
// handle to the same underlying data, allowing Archive.Clone to duplicate
// an archive without sharing the single-entry-reader restriction.
type Cloner interface {
	Clone() (io.ReadSeeker, error)
}

// Clone duplicates the archive's entry table and, if the byte source
// implements Cloner, an independent handle to the underlying data so the
// clone can be used concurrently with the original.
func (a *Archive) Clone() (*Archive, error) {
	var src io.ReadSeeker
	if cl, ok := a.source.(Cloner); ok {
		cloned, err := cl.Clone()
		if err != nil {
			return nil, err
		}
		src = cloned
	} else {
		src = a.source
	}

	entries := make([]*Entry, len(a.entries))
	byName := make(map[string]int, len(a.byName))
	for i, e := range a.entries {
		cp := *e
		entries[i] = &cp
	}
	for n, i := range a.byName {
		byName[n] = i
	}

	return &Archive{
		source:  src,
		entries: entries,
		byName:  byName,
		offset:  a.offset,
		comment: a.comment,
	}, nil
}
