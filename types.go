package zipreader

import "fmt"

// System identifies the operating system that produced an entry's external
// attributes, taken from the high byte of version-made-by.
type System uint8

const (
	SystemDos System = iota
	SystemUnix
	SystemOther
)

func systemFromVersionMadeBy(v uint16) System {
	switch v >> 8 {
	case madeByDos:
		return SystemDos
	case madeByUnix:
		return SystemUnix
	default:
		return SystemOther
	}
}

// CompressionMethod identifies how an entry's bytes are stored on disk.
type CompressionMethod uint16

const (
	MethodStored   CompressionMethod = Store
	MethodDeflated CompressionMethod = Deflate
	MethodBzip2    CompressionMethod = Bzip2
)

// IsSupported reports whether this package can decompress the method.
func (m CompressionMethod) IsSupported() bool {
	switch uint16(m) {
	case Store, Deflate, Bzip2:
		return true
	default:
		return false
	}
}

func (m CompressionMethod) String() string {
	switch uint16(m) {
	case Store:
		return "stored"
	case Deflate:
		return "deflated"
	case Bzip2:
		return "bzip2"
	default:
		return fmt.Sprintf("unsupported(%d)", uint16(m))
	}
}

// DateTime is a decoded MS-DOS date/time pair, 2-second resolution.
type DateTime struct {
	Year, Month, Day      int
	Hour, Minute, Second int
}

// msDosTimeToDateTime decodes the packed MS-DOS date and time fields found
// in local and central file headers.
func msDosTimeToDateTime(dosDate, dosTime uint16) DateTime {
	return DateTime{
		Year:   int(dosDate>>9) + 1980,
		Month:  int(dosDate>>5) & 0xf,
		Day:    int(dosDate) & 0x1f,
		Hour:   int(dosTime>>11) & 0x1f,
		Minute: int(dosTime>>5) & 0x3f,
		Second: (int(dosTime) & 0x1f) * 2,
	}
}

// Entry is the metadata record for one archive member. It is populated once
// during Open/central-directory parsing (or, for streaming entries, once
// from the local header) and is immutable afterward except for the lazily
// resolved DataStart field.
type Entry struct {
	System             System
	VersionMadeBy      uint8
	Encrypted          bool
	HasDataDescriptor  bool
	CompressionMethod  CompressionMethod
	LastModified       DateTime
	modDosTime         uint16
	CRC32              uint32
	CompressedSize     uint64
	UncompressedSize   uint64
	FileName           string
	FileNameRaw        []byte
	FileComment        string
	HeaderStart        uint64
	CentralHeaderStart uint64
	DataStart          uint64
	dataStartKnown     bool
	ExternalAttributes uint32
}

// IsDir reports whether the entry represents a directory, per the ZIP
// convention of a trailing slash in the name.
func (e *Entry) IsDir() bool {
	if e.FileName == "" {
		return false
	}
	last := e.FileName[len(e.FileName)-1]
	return last == '/' || last == '\\'
}

// IsFile is the complement of IsDir.
func (e *Entry) IsFile() bool { return !e.IsDir() }

// Unix mode bits, agreed on by tools though not part of the format spec.
const (
	unixIFMT  = 0xf000
	unixIFDIR = 0x4000
	unixIFREG = 0x8000

	dosDirAttr      = 0x10
	dosReadOnlyAttr = 0x01
)

// UnixMode derives a Unix permission/type word for the entry from
// ExternalAttributes: the high 16 bits for a Unix-made entry, or a
// directory/regular-file mode built from the DOS attribute bits for a
// DOS-made entry.
// The second return value is false when no meaningful mode can be derived.
func (e *Entry) UnixMode() (mode uint32, ok bool) {
	if e.ExternalAttributes == 0 {
		return 0, false
	}
	switch e.System {
	case SystemUnix:
		return e.ExternalAttributes >> 16, true
	case SystemDos:
		if e.ExternalAttributes&dosDirAttr != 0 {
			mode = unixIFDIR | 0o775
		} else {
			mode = unixIFREG | 0o664
		}
		if e.ExternalAttributes&dosReadOnlyAttr != 0 {
			// Matches the upstream quirk this is ported from: the mask is
			// applied to the whole mode word, so it also clears the type
			// bits set above.
			mode &= 0o555
		}
		return mode, true
	default:
		return 0, false
	}
}
