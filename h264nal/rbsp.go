package h264nal

// Unescape strips emulation-prevention bytes from a NAL payload: every
// 0x00 0x00 0x03 triple is rewritten as 0x00 0x00, dropping the 0x03. It is
// a pure function, preserves element order, and the returned slice is
// never longer than src. Applied exactly once per NAL payload before
// bit-level parsing.
func Unescape(src []byte) []byte {
	dst := make([]byte, 0, len(src))
	zeros := 0
	for _, b := range src {
		if zeros >= 2 && b == 0x03 {
			// Drop the emulation-prevention byte; do not count it
			// towards a further zero run.
			zeros = 0
			continue
		}
		dst = append(dst, b)
		if b == 0x00 {
			zeros++
		} else {
			zeros = 0
		}
	}
	return dst
}
