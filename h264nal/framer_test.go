package h264nal

import "testing"

func TestFindNaluIndicesScenarioA(t *testing.T) {
	// Scenario A — SPS+PPS round-trip (file "601.264").
	buf := []byte{
		0x00, 0x00, 0x00, 0x01, 0x67, 0x42, 0xc0, 0x16, 0xa6, 0x11, 0x05, 0x07, 0xe9, 0xb2,
		0x00, 0x00, 0x03, 0x00, 0x02, 0x00, 0x00, 0x03, 0x00, 0x64, 0x1e, 0x2c, 0x5c, 0x23,
		0x00, 0x00, 0x00, 0x01, 0x68, 0xc8, 0x42, 0x02, 0x32, 0xc8,
	}
	indices := FindNaluIndices(buf)
	if len(indices) != 2 {
		t.Fatalf("got %d NAL units, want 2", len(indices))
	}

	first := indices[0]
	if first.StartOffset != 0 {
		t.Errorf("first.StartOffset = %d, want 0", first.StartOffset)
	}
	if first.PayloadStartOffset != 4 {
		t.Errorf("first.PayloadStartOffset = %d, want 4", first.PayloadStartOffset)
	}
	wantFirstPayloadSize := 28 - 4
	if first.PayloadSize != wantFirstPayloadSize {
		t.Errorf("first.PayloadSize = %d, want %d", first.PayloadSize, wantFirstPayloadSize)
	}

	second := indices[1]
	if second.StartOffset != 28 {
		t.Errorf("second.StartOffset = %d, want 28", second.StartOffset)
	}
	if second.PayloadStartOffset != 32 {
		t.Errorf("second.PayloadStartOffset = %d, want 32", second.PayloadStartOffset)
	}
	wantSecondPayloadSize := len(buf) - 32
	if second.PayloadSize != wantSecondPayloadSize {
		t.Errorf("second.PayloadSize = %d, want %d", second.PayloadSize, wantSecondPayloadSize)
	}
}

func TestFindNaluIndicesTooShort(t *testing.T) {
	if got := FindNaluIndices([]byte{0x00, 0x00}); got != nil {
		t.Errorf("got %v, want nil", got)
	}
}

func TestFindNaluIndicesLength(t *testing.T) {
	// Two NAL units of length 2 and 3, 4-byte big-endian length prefixes.
	buf := []byte{
		0x00, 0x00, 0x00, 0x02, 0xAA, 0xBB,
		0x00, 0x00, 0x00, 0x03, 0xCC, 0xDD, 0xEE,
	}
	indices := FindNaluIndicesLength(buf, 4)
	if len(indices) != 2 {
		t.Fatalf("got %d entries, want 2", len(indices))
	}
	if indices[0].PayloadStartOffset != 4 || indices[0].PayloadSize != 2 {
		t.Errorf("indices[0] = %+v, want PayloadStartOffset=4 PayloadSize=2", indices[0])
	}
	if indices[1].PayloadStartOffset != 10 || indices[1].PayloadSize != 3 {
		t.Errorf("indices[1] = %+v, want PayloadStartOffset=10 PayloadSize=3", indices[1])
	}
}

func TestFindNaluIndicesLengthTruncated(t *testing.T) {
	buf := []byte{0x00, 0x00, 0x00, 0x05, 0x01, 0x02} // claims 5 bytes, only 2 present
	indices := FindNaluIndicesLength(buf, 4)
	if len(indices) != 1 {
		t.Fatalf("got %d entries, want 1 (length prefix still parsed even if payload truncated)", len(indices))
	}
	if indices[0].PayloadSize != 2 {
		t.Errorf("PayloadSize = %d, want 2 (clamped to what remains in buf)", indices[0].PayloadSize)
	}
	if indices[0].PayloadStartOffset+indices[0].PayloadSize != len(buf) {
		t.Errorf("PayloadStartOffset+PayloadSize = %d, want %d (must never exceed len(buf))",
			indices[0].PayloadStartOffset+indices[0].PayloadSize, len(buf))
	}
}
