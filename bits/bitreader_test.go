package bits

import (
	"errors"
	"testing"
)

func TestReadBitsUnaligned(t *testing.T) {
	// 0xB5 = 1011 0101, 0x3C = 0011 1100
	r := NewBitReader([]byte{0xB5, 0x3C})

	tests := []struct {
		n    int
		want uint32
	}{
		{3, 0x5}, // 101
		{5, 0x15}, // 10101
		{4, 0x3},  // 0011
		{4, 0xC},  // 1100
	}
	for i, test := range tests {
		got, err := r.ReadBits(test.n)
		if err != nil {
			t.Fatalf("test %d: unexpected error: %v", i, err)
		}
		if got != test.want {
			t.Errorf("test %d: got %#x, want %#x", i, got, test.want)
		}
	}
	if r.RemainingBits() != 0 {
		t.Errorf("expected 0 remaining bits, got %d", r.RemainingBits())
	}
}

func TestReadBitsOutOfData(t *testing.T) {
	r := NewBitReader([]byte{0xFF})
	if _, err := r.ReadBits(9); !errors.Is(err, ErrOutOfData) {
		t.Errorf("got err %v, want ErrOutOfData", err)
	}
}

func TestPeekBitsDoesNotAdvance(t *testing.T) {
	r := NewBitReader([]byte{0xAB, 0xCD})
	peeked, err := r.PeekBits(8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if peeked != 0xAB {
		t.Fatalf("got %#x, want 0xAB", peeked)
	}
	read, err := r.ReadBits(8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if read != peeked {
		t.Errorf("PeekBits and subsequent ReadBits disagree: %#x vs %#x", peeked, read)
	}
}

func TestSeekRoundTrip(t *testing.T) {
	r := NewBitReader([]byte{0x12, 0x34, 0x56})
	if _, err := r.ReadBits(12); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	byteOffset, bitOffset := r.Offset()

	if _, err := r.ReadBits(12); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := r.Seek(byteOffset, bitOffset); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := r.ReadBits(12)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := uint32(0x456); got != want {
		t.Errorf("got %#x, want %#x", got, want)
	}
}

func TestReadExpGolombUnsigned(t *testing.T) {
	// Individual codeNum values per Table 9-2 of ITU-T H.264.
	tests := []struct {
		bits []byte
		n    int
		want uint32
	}{
		{[]byte{0b1_0000000}, 1, 0}, // "1"
		{[]byte{0b010_00000}, 3, 1}, // "010"
		{[]byte{0b011_00000}, 3, 2}, // "011"
		{[]byte{0b00100_000}, 5, 3}, // "00100"
		{[]byte{0b00101_000}, 5, 4}, // "00101"
	}
	for i, test := range tests {
		r := NewBitReader(test.bits)
		got, err := r.ReadExpGolombUnsigned()
		if err != nil {
			t.Fatalf("test %d: unexpected error: %v", i, err)
		}
		if got != test.want {
			t.Errorf("test %d: got %d, want %d", i, got, test.want)
		}
		byteOffset, bitOffset := r.Offset()
		if byteOffset*8+bitOffset != test.n {
			t.Errorf("test %d: consumed %d bits, want %d", i, byteOffset*8+bitOffset, test.n)
		}
	}
}

func TestReadExpGolombSigned(t *testing.T) {
	tests := []struct {
		bits []byte
		want int32
	}{
		{[]byte{0b1_0000000}, 0},   // codeNum 0
		{[]byte{0b010_00000}, 1},   // codeNum 1 -> se = 1
		{[]byte{0b011_00000}, -1},  // codeNum 2 -> se = -1
		{[]byte{0b00100_000}, 2},   // codeNum 3 -> se = 2
		{[]byte{0b00101_000}, -2},  // codeNum 4 -> se = -2
	}
	for i, test := range tests {
		r := NewBitReader(test.bits)
		got, err := r.ReadExpGolombSigned()
		if err != nil {
			t.Fatalf("test %d: unexpected error: %v", i, err)
		}
		if got != test.want {
			t.Errorf("test %d: got %d, want %d", i, got, test.want)
		}
	}
}

func TestReadExpGolombUnsignedRangeCap(t *testing.T) {
	// 40 zero bits and no stop bit: the 32nd leading zero (one more than the
	// cap of 31) is rejected before the buffer runs out.
	data := make([]byte, 5)
	r := NewBitReader(data)
	if _, err := r.ReadExpGolombUnsigned(); !errors.Is(err, ErrExpGolombRange) {
		t.Errorf("got err %v, want ErrExpGolombRange", err)
	}
}

func TestLastBitOffset(t *testing.T) {
	// 0x01 = 0000 0001: last 1-bit is at absolute bit offset 7.
	r := NewBitReader([]byte{0x01})
	pos, err := r.LastBitOffset(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pos != 7 {
		t.Errorf("got %d, want 7", pos)
	}
}

func TestRemainingBytes(t *testing.T) {
	r := NewBitReader([]byte{0x11, 0x22, 0x33})
	if _, err := r.ReadBits(4); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := r.RemainingBytes()
	want := []byte{0x11, 0x22, 0x33}
	if len(got) != len(want) {
		t.Fatalf("got %d bytes, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("byte %d: got %#x, want %#x", i, got[i], want[i])
		}
	}
	if r.RemainingBits() != 0 {
		t.Errorf("expected reader exhausted after RemainingBytes, got %d bits left", r.RemainingBits())
	}
}
