package zipreader

// parseExtraField walks the TLV records inside a central (or local) header's
// extra field, patching the entry's ZIP64-widened size/offset sentinels and
// applying an Info-ZIP UTF-8 path override when present.
//
// wantUncompressed, wantCompressed and wantHeaderStart select which of
// uncompressedSize/compressedSize/headerStart were encoded as 0xFFFFFFFF in the fixed-size header and must
// therefore be consumed from the ZIP64 record, in that fixed order.
func parseExtraField(e *Entry, rawName []byte, extra []byte, wantUncompressed, wantCompressed, wantHeaderStart bool) {
	b := readBuf(extra)
	for len(b) >= 4 {
		kind := b.uint16()
		size := int(b.uint16())
		if size > len(b) {
			// Truncated record; nothing more can be parsed reliably.
			return
		}
		field := b.sub(size)

		switch kind {
		case zip64ExtraID:
			fb := readBuf(field)
			if wantUncompressed && len(fb) >= 8 {
				e.UncompressedSize = fb.uint64()
			}
			if wantCompressed && len(fb) >= 8 {
				e.CompressedSize = fb.uint64()
			}
			if wantHeaderStart && len(fb) >= 8 {
				e.HeaderStart = fb.uint64()
			}
			// A trailing disk-start uint32 may follow; it is not used.
		case utf8PathID:
			if name, ok := applyUTF8PathField(rawName, field); ok {
				e.FileName = name
			}
		default:
			// Unknown extra record; skip its body (already consumed above).
		}
	}
}
