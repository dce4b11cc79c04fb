package zipreader

import (
	"hash"
	"hash/crc32"
	"io"

	"github.com/dsnet/compress/bzip2"
	"github.com/klauspost/compress/flate"
)

// buildPipeline composes the stacked reader for one entry: an optional
// ZipCrypto decryption stage over the raw bounded window, a decompressor for
// the entry's method, and an outermost CRC32-verifying wrapper. raw must
// already be limited to exactly the entry's CompressedSize bytes.
func buildPipeline(e *Entry, raw io.Reader, password []byte) (io.Reader, error) {
	stage := raw

	if e.Encrypted {
		if password == nil {
			return nil, ErrPasswordRequired
		}
		checkByte := byte(e.CRC32 >> 24)
		if e.HasDataDescriptor {
			checkByte = byte(e.modDosTime >> 8)
		}
		cr, err := newZipCryptoReader(stage, password, checkByte)
		if err != nil {
			return nil, err
		}
		stage = cr
	}
	// A password supplied for an unencrypted entry is silently ignored.

	decompressed, err := newDecompressor(e.CompressionMethod, stage)
	if err != nil {
		return nil, err
	}

	return &crcReader{r: decompressed, hash: crc32.NewIEEE(), want: e.CRC32}, nil
}

func newDecompressor(method CompressionMethod, r io.Reader) (io.Reader, error) {
	switch uint16(method) {
	case Store:
		return r, nil
	case Deflate:
		return flate.NewReader(r), nil
	case Bzip2:
		br, err := bzip2.NewReader(r, nil)
		if err != nil {
			return nil, ioErr(err)
		}
		return br, nil
	default:
		return nil, unsupportedArchive("compression method not supported")
	}
}

// crcReader verifies the decompressed byte stream's CRC32 against the
// entry's recorded checksum once the stream is exhausted.
type crcReader struct {
	r      io.Reader
	hash   hash.Hash32
	want   uint32
	done   bool
}

func (c *crcReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	if n > 0 {
		c.hash.Write(p[:n])
	}
	if err == io.EOF && !c.done {
		c.done = true
		if c.hash.Sum32() != c.want {
			return n, ioErr(ErrChecksum)
		}
	}
	return n, err
}
