package h264nal

import "testing"

func TestComputeNaluChecksumMultipleOfFour(t *testing.T) {
	data := []byte{0x00, 0x00, 0x00, 0x01, 0xFF, 0xFF, 0xFF, 0xFE}
	// Two 32-bit words: 0x00000001 and 0xFFFFFFFE. Sum = 0xFFFFFFFF.
	// Fold: high 0 + low 0xFFFFFFFF = 0xFFFFFFFF, carry fold adds 0.
	// One's complement of 0xFFFFFFFF = 0x00000000.
	want := NaluChecksum(0x00000000)
	if got := ComputeNaluChecksum(data); got != want {
		t.Errorf("got %#x, want %#x", uint32(got), uint32(want))
	}
}

func TestComputeNaluChecksumTrailingFragment(t *testing.T) {
	// A single trailing byte 0x01 is folded in as a left-aligned 32-bit
	// word: 0x01000000.
	data := []byte{0x01}
	want := NaluChecksum(^uint32(0x01000000))
	if got := ComputeNaluChecksum(data); got != want {
		t.Errorf("got %#x, want %#x", uint32(got), uint32(want))
	}
}

func TestNaluChecksumString(t *testing.T) {
	c := NaluChecksum(0x0a0b0c0d)
	if got, want := c.String(), "0a0b0c0d"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
