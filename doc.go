// Package zipreader reads ZIP archives: locating and parsing the central
// directory (with ZIP64 and leading-junk tolerance), resolving each
// entry's compressed data window from its local file header, and
// decompressing/decrypting/checksumming that window on demand.
//
// Open (or OpenReaderAt) a seekable source to get random access to entries
// by index or name. ReadEntryFromStream supports a one-pass, non-seekable
// walk over entries instead, at the cost of rejecting encrypted entries and
// entries whose size is only known from a trailing data descriptor.
package zipreader
