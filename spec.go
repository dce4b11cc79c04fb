// Copyright 2010 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package zipreader

import "encoding/binary"

// Compression methods.
const (
	Store   uint16 = 0  // no compression
	Deflate uint16 = 8  // DEFLATE compressed
	Bzip2   uint16 = 12 // BZIP2 compressed
)

const (
	fileHeaderSignature      = 0x04034b50
	directoryHeaderSignature = 0x02014b50
	directoryEndSignature    = 0x06054b50
	directory64LocSignature  = 0x07064b50
	directory64EndSignature  = 0x06064b50
	dataDescriptorSignature  = 0x08074b50 // de-facto standard; required by OS X Finder

	fileHeaderLen      = 30 // + filename + extra
	directoryHeaderLen = 46 // + filename + extra + comment
	directoryEndLen    = 22 // + comment
	directory64LocLen  = 20
	directory64EndLen  = 56 // + extra

	// Limits for non zip64 files.
	uint16max = (1 << 16) - 1
	uint32max = (1 << 32) - 1

	// Extra header IDs.
	zip64ExtraID = 0x0001 // Zip64 extended information
	utf8PathID   = 0x7075 // Info-ZIP Unicode Path Extra Field

	// Constants for the first byte of version-made-by.
	madeByDos  = 0
	madeByUnix = 3

	// General purpose bit flags.
	flagEncrypted      = 0x1
	flagDataDescriptor = 0x8
	flagUTF8           = 0x800
)

// readBuf is the decode-direction counterpart to the classic writeBuf: a
// byte slice that is consumed from the front as fields are read off it.
type readBuf []byte

func (b *readBuf) uint8() uint8 {
	v := (*b)[0]
	*b = (*b)[1:]
	return v
}

func (b *readBuf) uint16() uint16 {
	v := binary.LittleEndian.Uint16(*b)
	*b = (*b)[2:]
	return v
}

func (b *readBuf) uint32() uint32 {
	v := binary.LittleEndian.Uint32(*b)
	*b = (*b)[4:]
	return v
}

func (b *readBuf) uint64() uint64 {
	v := binary.LittleEndian.Uint64(*b)
	*b = (*b)[8:]
	return v
}

func (b *readBuf) sub(n int) readBuf {
	v := (*b)[:n]
	*b = (*b)[n:]
	return v
}

// directoryEnd mirrors the End-Of-Central-Directory record (22 + comment bytes).
type directoryEnd struct {
	diskNumber            uint16
	diskWithCentralDir    uint16
	filesOnThisDisk       uint16
	totalFiles            uint16
	centralDirectorySize  uint32
	centralDirectoryStart uint32
	commentLen            uint16
	comment               []byte
}

// parseDirectoryEnd decodes a directoryEnd from exactly 22 fixed bytes plus
// the trailing comment bytes, which must already be sliced to commentLen.
func parseDirectoryEnd(fixed []byte, comment []byte) (*directoryEnd, error) {
	if len(fixed) != directoryEndLen {
		return nil, invalidArchive("short end of central directory record")
	}
	b := readBuf(fixed)
	if sig := b.uint32(); sig != directoryEndSignature {
		return nil, invalidArchive("bad end of central directory signature")
	}
	d := &directoryEnd{}
	d.diskNumber = b.uint16()
	d.diskWithCentralDir = b.uint16()
	d.filesOnThisDisk = b.uint16()
	d.totalFiles = b.uint16()
	d.centralDirectorySize = b.uint32()
	d.centralDirectoryStart = b.uint32()
	d.commentLen = b.uint16()
	d.comment = comment
	return d, nil
}

// directory64Loc mirrors the ZIP64 end of central directory locator (20 bytes).
type directory64Loc struct {
	diskWithCentralDir uint32
	eocd64Offset       uint64
	totalDisks         uint32
}

func parseDirectory64Loc(buf []byte) (*directory64Loc, error) {
	if len(buf) != directory64LocLen {
		return nil, invalidArchive("short zip64 end of central directory locator")
	}
	b := readBuf(buf)
	if sig := b.uint32(); sig != directory64LocSignature {
		return nil, invalidArchive("bad zip64 locator signature")
	}
	d := &directory64Loc{}
	d.diskWithCentralDir = b.uint32()
	d.eocd64Offset = b.uint64()
	d.totalDisks = b.uint32()
	return d, nil
}

// directory64End mirrors the fixed-size prefix of the ZIP64 end of central
// directory record (56 bytes; any trailing extensible data is ignored).
type directory64End struct {
	versionMadeBy         uint16
	versionNeeded         uint16
	diskNumber            uint32
	diskWithCentralDir    uint32
	filesOnThisDisk       uint64
	totalFiles            uint64
	centralDirectorySize  uint64
	centralDirectoryStart uint64
}

func parseDirectory64End(buf []byte) (*directory64End, error) {
	if len(buf) < directory64EndLen {
		return nil, invalidArchive("short zip64 end of central directory record")
	}
	b := readBuf(buf[:directory64EndLen])
	if sig := b.uint32(); sig != directory64EndSignature {
		return nil, invalidArchive("bad zip64 end of central directory signature")
	}
	_ = b.uint64() // size of record, excluding signature and this field
	d := &directory64End{}
	d.versionMadeBy = b.uint16()
	d.versionNeeded = b.uint16()
	d.diskNumber = b.uint32()
	d.diskWithCentralDir = b.uint32()
	d.filesOnThisDisk = b.uint64()
	d.totalFiles = b.uint64()
	d.centralDirectorySize = b.uint64()
	d.centralDirectoryStart = b.uint64()
	return d, nil
}

// centralHeader mirrors the fixed-size prefix of a central directory file
// header (46 bytes; name/extra/comment are read separately by the caller).
type centralHeader struct {
	versionMadeBy      uint16
	versionNeeded      uint16
	flags              uint16
	method             uint16
	modTime            uint16
	modDate            uint16
	crc32              uint32
	compressedSize     uint32
	uncompressedSize   uint32
	nameLen            uint16
	extraLen           uint16
	commentLen         uint16
	diskNumberStart    uint16
	internalAttrs      uint16
	externalAttrs      uint32
	headerOffset       uint32
}

func parseCentralHeader(buf []byte) (*centralHeader, error) {
	if len(buf) != directoryHeaderLen {
		return nil, invalidArchive("short central directory file header")
	}
	b := readBuf(buf)
	if sig := b.uint32(); sig != directoryHeaderSignature {
		return nil, invalidArchive("bad central directory file header signature")
	}
	h := &centralHeader{}
	h.versionMadeBy = b.uint16()
	h.versionNeeded = b.uint16()
	h.flags = b.uint16()
	h.method = b.uint16()
	h.modTime = b.uint16()
	h.modDate = b.uint16()
	h.crc32 = b.uint32()
	h.compressedSize = b.uint32()
	h.uncompressedSize = b.uint32()
	h.nameLen = b.uint16()
	h.extraLen = b.uint16()
	h.commentLen = b.uint16()
	h.diskNumberStart = b.uint16()
	h.internalAttrs = b.uint16()
	h.externalAttrs = b.uint32()
	h.headerOffset = b.uint32()
	return h, nil
}

// localHeader mirrors the fixed-size prefix of a local file header (30 bytes).
type localHeader struct {
	versionNeeded    uint16
	flags            uint16
	method           uint16
	modTime          uint16
	modDate          uint16
	crc32            uint32
	compressedSize   uint32
	uncompressedSize uint32
	nameLen          uint16
	extraLen         uint16
}

func parseLocalHeader(buf []byte) (*localHeader, error) {
	if len(buf) != fileHeaderLen {
		return nil, invalidArchive("short local file header")
	}
	b := readBuf(buf)
	if sig := b.uint32(); sig != fileHeaderSignature {
		return nil, invalidArchive("bad local file header signature")
	}
	h := &localHeader{}
	h.versionNeeded = b.uint16()
	h.flags = b.uint16()
	h.method = b.uint16()
	h.modTime = b.uint16()
	h.modDate = b.uint16()
	h.crc32 = b.uint32()
	h.compressedSize = b.uint32()
	h.uncompressedSize = b.uint32()
	h.nameLen = b.uint16()
	h.extraLen = b.uint16()
	return h, nil
}
