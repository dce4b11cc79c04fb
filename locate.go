package zipreader

import (
	"io"
)

// maxEOCDSearch bounds the tail of the source searched for the
// end-of-central-directory signature: the record itself is 22 bytes plus up
// to a 64KiB comment.
const maxEOCDSearch = directoryEndLen + uint16max

// locateDirectoryEnd scans the last maxEOCDSearch bytes of source for the
// EOCD signature and returns the parsed record along with the absolute offset at
// which its signature was found. When more than one candidate signature
// appears in the search window (a crafted or coincidental comment), the
// last one is used, matching the common tolerant-reader behavior.
func locateDirectoryEnd(source io.ReadSeeker) (*directoryEnd, int64, error) {
	size, err := source.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, 0, ioErr(err)
	}

	searchLen := int64(maxEOCDSearch)
	if searchLen > size {
		searchLen = size
	}
	searchStart := size - searchLen

	buf := make([]byte, searchLen)
	if _, err := source.Seek(searchStart, io.SeekStart); err != nil {
		return nil, 0, ioErr(err)
	}
	if _, err := io.ReadFull(source, buf); err != nil {
		return nil, 0, ioErr(err)
	}

	foundAt := -1
	for i := 0; i+directoryEndLen <= len(buf); i++ {
		if buf[i] == 'P' && buf[i+1] == 'K' && buf[i+2] == 0x05 && buf[i+3] == 0x06 {
			commentLen := int(buf[i+20]) | int(buf[i+21])<<8
			if i+directoryEndLen+commentLen <= len(buf) {
				foundAt = i
			}
		}
	}
	if foundAt < 0 {
		return nil, 0, invalidArchive("could not find central directory end")
	}

	fixed := buf[foundAt : foundAt+directoryEndLen]
	commentLen := int(fixed[20]) | int(fixed[21])<<8
	comment := buf[foundAt+directoryEndLen : foundAt+directoryEndLen+commentLen]

	end, err := parseDirectoryEnd(fixed, comment)
	if err != nil {
		return nil, 0, err
	}
	return end, searchStart + int64(foundAt), nil
}

// directoryCounts is the resolved, ZIP64-aware location of the central
// directory: where it starts in the underlying source, how many entries it
// holds, and the junk-prefix adjustment (archiveOffset) to apply to every
// header-relative offset recorded inside it.
type directoryCounts struct {
	archiveOffset uint64
	directoryStart uint64
	entryCount     uint64
}

// resolveDirectoryCounts implements the locator's ZIP64 dance: look for a
// ZIP64 locator immediately before the EOCD record; if present, trust the
// ZIP64 EOCD record instead of the 32-bit fields, and compute archiveOffset
// from wherever its signature is actually found (tolerating a junk prefix)
// rather than trusting the recorded offset verbatim.
func resolveDirectoryCounts(source io.ReadSeeker, end *directoryEnd, cdeStartPos int64) (directoryCounts, error) {
	locPos := cdeStartPos - directory64LocLen
	if locPos >= 0 {
		locBuf := make([]byte, directory64LocLen)
		if _, err := source.Seek(locPos, io.SeekStart); err != nil {
			return directoryCounts{}, ioErr(err)
		}
		if _, err := io.ReadFull(source, locBuf); err != nil {
			return directoryCounts{}, ioErr(err)
		}
		if loc, err := parseDirectory64Loc(locBuf); err == nil {
			return resolveZip64Counts(source, end, loc, cdeStartPos)
		}
	}

	archiveOffset, ok := checkedSub(uint64(cdeStartPos), uint64(end.centralDirectorySize), uint64(end.centralDirectoryStart))
	if !ok {
		return directoryCounts{}, invalidArchive("invalid central directory offset")
	}
	return directoryCounts{
		archiveOffset:  archiveOffset,
		directoryStart: archiveOffset + uint64(end.centralDirectoryStart),
		entryCount:     uint64(end.filesOnThisDisk),
	}, nil
}

func resolveZip64Counts(source io.ReadSeeker, end *directoryEnd, loc *directory64Loc, cdeStartPos int64) (directoryCounts, error) {
	if uint32(end.diskNumber) != loc.diskWithCentralDir {
		return directoryCounts{}, unsupportedArchive("multi-disk archives are not supported")
	}

	// The ZIP64 end record is only searched for at offsets no later than 60
	// bytes before the EOCD record.
	searchUpperBound := cdeStartPos - 60
	start := int64(loc.eocd64Offset)
	if searchUpperBound < start {
		return directoryCounts{}, invalidArchive("file cannot contain zip64 end of central directory")
	}

	// The recorded eocd64Offset is relative to the start of the archive as
	// the writer believed it to be; a junk prefix shifts the true position.
	// Scan forward from the recorded offset looking for the signature, never
	// considering a match starting past searchUpperBound, mirroring the
	// tolerant EOCD search above.
	scanLen := searchUpperBound - start + 4
	scanBuf := make([]byte, scanLen)
	if _, err := source.Seek(start, io.SeekStart); err != nil {
		return directoryCounts{}, ioErr(err)
	}
	n, err := io.ReadFull(source, scanBuf)
	if err != nil && err != io.ErrUnexpectedEOF {
		return directoryCounts{}, ioErr(err)
	}
	scanBuf = scanBuf[:n]

	foundAt := -1
	for i := 0; i+4 <= len(scanBuf); i++ {
		if scanBuf[i] == 'P' && scanBuf[i+1] == 'K' && scanBuf[i+2] == 0x06 && scanBuf[i+3] == 0x06 {
			foundAt = i
		}
	}
	if foundAt < 0 {
		return directoryCounts{}, invalidArchive("could not find zip64 end of central directory record")
	}

	actualOffset := uint64(start) + uint64(foundAt)
	archiveOffset := actualOffset - loc.eocd64Offset

	fixed := make([]byte, directory64EndLen)
	if _, err := source.Seek(int64(actualOffset), io.SeekStart); err != nil {
		return directoryCounts{}, ioErr(err)
	}
	if _, err := io.ReadFull(source, fixed); err != nil {
		return directoryCounts{}, ioErr(err)
	}
	end64, err := parseDirectory64End(fixed)
	if err != nil {
		return directoryCounts{}, err
	}
	if end64.diskNumber != end64.diskWithCentralDir {
		return directoryCounts{}, unsupportedArchive("multi-disk archives are not supported")
	}

	directoryStart, ok := checkedAdd(end64.centralDirectoryStart, archiveOffset)
	if !ok {
		return directoryCounts{}, invalidArchive("invalid zip64 central directory offset")
	}

	return directoryCounts{
		archiveOffset:  archiveOffset,
		directoryStart: directoryStart,
		entryCount:     end64.totalFiles,
	}, nil
}

func checkedSub(a, b, c uint64) (uint64, bool) {
	if b > a {
		return 0, false
	}
	r := a - b
	if c > r {
		return 0, false
	}
	return r - c, true
}

func checkedAdd(a, b uint64) (uint64, bool) {
	r := a + b
	return r, r >= a
}
