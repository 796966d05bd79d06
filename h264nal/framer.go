package h264nal

// NaluIndex locates one NAL unit within a caller-owned buffer. StartOffset
// points at the first byte of the start-code sequence (Annex-B mode) or at
// the first byte of the length prefix (length-prefixed mode).
// PayloadStartOffset is the first byte after the start code / length
// prefix (the NAL header byte). PayloadSize is the number of NAL bytes
// following, before the next start code (or end of stream).
type NaluIndex struct {
	StartOffset        int
	PayloadStartOffset int
	PayloadSize        int
}

// FindNaluIndices scans an Annex-B byte stream for NAL unit start codes
// (0x000001 and 0x00000001) and returns one NaluIndex per unit found.
// Returns nil if buf is shorter than 3 bytes or no start code is found.
//
// Ported from the scan loop in h264_bitstream_parser.cc's
// FindNaluIndices: a 3-byte start code is detected directly; a preceding
// 0x00 byte widens it to the 4-byte form by backing the start offset up by
// one. Overlapping start codes therefore yield adjacent NAL units whose
// "payload" between them has size 0.
func FindNaluIndices(buf []byte) []NaluIndex {
	length := len(buf)
	if length < 3 {
		return nil
	}

	var indices []NaluIndex
	end := length - 3
	i := 0
	for i <= end {
		if buf[i+2] > 1 {
			i += 3
			continue
		}
		if buf[i] == 0 && buf[i+1] == 0 && buf[i+2] == 1 {
			start := i
			if i > 0 && buf[i-1] == 0x00 {
				start--
			}
			if n := len(indices); n > 0 {
				prev := &indices[n-1]
				prev.PayloadSize = start - prev.PayloadStartOffset
			}
			indices = append(indices, NaluIndex{
				StartOffset:        start,
				PayloadStartOffset: i + 3,
				PayloadSize:        0,
			})
			i += 3
			continue
		}
		i++
	}

	if n := len(indices); n > 0 {
		last := &indices[n-1]
		last.PayloadSize = length - last.PayloadStartOffset
	}
	return indices
}

// FindNaluIndicesLength scans a length-prefixed byte stream (each NAL unit
// preceded by an n-byte big-endian length, typical n=4 for ISO-BMFF mdat
// records) and returns one NaluIndex per record. Stops at end of buffer; a
// truncated final length prefix is simply dropped. A length prefix that
// claims more bytes than remain in buf is clamped to what's actually
// present, so PayloadStartOffset+PayloadSize never exceeds len(buf) and
// callers can slice buf with it directly without a bounds check.
func FindNaluIndicesLength(buf []byte, n int) []NaluIndex {
	var indices []NaluIndex
	i := 0
	for i+n <= len(buf) {
		var length int
		for k := 0; k < n; k++ {
			length = (length << 8) | int(buf[i+k])
		}
		payloadStart := i + n
		if remaining := len(buf) - payloadStart; length > remaining {
			length = remaining
		}
		indices = append(indices, NaluIndex{
			StartOffset:        i,
			PayloadStartOffset: payloadStart,
			PayloadSize:        length,
		})
		i = payloadStart + length
	}
	return indices
}
