package zipreader

import (
	"encoding/binary"
	"io"
)

// ReadEntryFromStream reads one entry's local file header and returns an
// EntryReader for it, for archives consumed as a one-pass, non-seekable
// stream. A nil EntryReader and nil error together signal that a central
// directory signature was encountered instead of another local file
// header: there are no more entries.
//
// The returned EntryReader must be Closed before the next call to
// ReadEntryFromStream on the same source, so any bytes the caller did not
// read are drained and the source is left positioned at the next header.
//
// Streaming entries with the encrypted flag or a trailing data descriptor
// (general-purpose flag bits 0 and 3) are rejected, since neither can be
// resolved without seeking.
func ReadEntryFromStream(source io.Reader) (*EntryReader, error) {
	var fixed [fileHeaderLen]byte
	if _, err := io.ReadFull(source, fixed[:4]); err != nil {
		return nil, ioErr(err)
	}

	switch binary.LittleEndian.Uint32(fixed[:4]) {
	case directoryHeaderSignature:
		return nil, nil
	case fileHeaderSignature:
		// continue below
	default:
		return nil, invalidArchive("invalid local file header")
	}

	if _, err := io.ReadFull(source, fixed[4:]); err != nil {
		return nil, ioErr(err)
	}
	lh, err := parseLocalHeader(fixed[:])
	if err != nil {
		return nil, err
	}

	if lh.flags&flagEncrypted != 0 {
		return nil, unsupportedArchive("encrypted files are not supported")
	}
	if lh.flags&flagDataDescriptor != 0 {
		return nil, unsupportedArchive("the file length is not available in the local header")
	}

	rawName := make([]byte, lh.nameLen)
	if _, err := io.ReadFull(source, rawName); err != nil {
		return nil, ioErr(err)
	}
	extra := make([]byte, lh.extraLen)
	if _, err := io.ReadFull(source, extra); err != nil {
		return nil, ioErr(err)
	}

	utf8Flag := lh.flags&flagUTF8 != 0
	e := &Entry{
		HasDataDescriptor: false,
		CompressionMethod: CompressionMethod(lh.method),
		LastModified:      msDosTimeToDateTime(lh.modDate, lh.modTime),
		modDosTime:        lh.modTime,
		CRC32:             lh.crc32,
		CompressedSize:    uint64(lh.compressedSize),
		UncompressedSize:  uint64(lh.uncompressedSize),
		FileName:          decodeName(rawName, utf8Flag),
		FileNameRaw:       rawName,
		dataStartKnown:    true,
	}
	parseExtraField(e, rawName, extra,
		lh.uncompressedSize == uint32max,
		lh.compressedSize == uint32max,
		false,
	)

	raw := io.LimitReader(source, int64(e.CompressedSize))
	pipe, err := buildPipeline(e, raw, nil)
	if err != nil {
		return nil, err
	}

	return &EntryReader{
		entry: e,
		r:     pipe,
		raw:   raw,
	}, nil
}
