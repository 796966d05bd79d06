package h264nal

import (
	"errors"
	"testing"

	"github.com/ausocean/h264nal/bits"
)

// TestMoreRbspDataScenarioE covers the more_rbsp_data boundary: 0xc8's low
// nibble (1000) is exactly the rbsp_stop_one_bit pattern for a 4-bit
// remainder. When 0xc8 is the last byte in the buffer, those 4 bits are
// the trailing bits and no more RBSP data follows. When another byte
// follows, there is unambiguously more data regardless of its value.
func TestMoreRbspDataScenarioE(t *testing.T) {
	t.Run("more data follows", func(t *testing.T) {
		buf := []byte{0x00, 0x00, 0x00, 0x00, 0xc8, 0xb0}
		br := bits.NewBitReader(buf)
		if err := br.Seek(4, 4); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !moreRbspData(br) {
			t.Errorf("got false, want true")
		}
	})

	t.Run("stop bit is the last bit in the buffer", func(t *testing.T) {
		buf := []byte{0x00, 0x00, 0x00, 0x00, 0xc8}
		br := bits.NewBitReader(buf)
		if err := br.Seek(4, 4); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if moreRbspData(br) {
			t.Errorf("got true, want false")
		}
	})
}

func TestRbspTrailingBitsTolerant(t *testing.T) {
	// An exhausted reader is tolerated, not an error, since real streams
	// sometimes truncate the final NAL unit's trailing bits.
	br := bits.NewBitReader([]byte{})
	if err := rbspTrailingBits(br); err != nil {
		t.Errorf("unexpected error on empty buffer: %v", err)
	}
}

func TestRbspTrailingBitsMalformed(t *testing.T) {
	// Stop bit must be 1; a buffer whose next bit is 0 is malformed.
	br := bits.NewBitReader([]byte{0x00})
	err := rbspTrailingBits(br)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	var malformed *MalformedRbspError
	if !errors.As(err, &malformed) {
		t.Errorf("got %v (%T), want *MalformedRbspError", err, err)
	}
}

func TestCeilLog2(t *testing.T) {
	tests := []struct {
		n    uint32
		want uint
	}{
		{0, 0},
		{1, 0},
		{2, 1},
		{3, 2},
		{4, 2},
		{5, 3},
		{8, 3},
		{9, 4},
	}
	for _, test := range tests {
		if got := ceilLog2(test.n); got != test.want {
			t.Errorf("ceilLog2(%d) = %d, want %d", test.n, got, test.want)
		}
	}
}
