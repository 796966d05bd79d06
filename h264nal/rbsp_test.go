package h264nal

import (
	"bytes"
	"testing"
)

func TestUnescape(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want []byte
	}{
		{"no escapes", []byte{0x01, 0x02, 0x03}, []byte{0x01, 0x02, 0x03}},
		{"single escape", []byte{0x00, 0x00, 0x03, 0x01}, []byte{0x00, 0x00, 0x01}},
		{
			"from scenario A SPS",
			[]byte{0xa6, 0x11, 0x05, 0x07, 0xe9, 0xb2, 0x00, 0x00, 0x03, 0x00, 0x02, 0x00, 0x00, 0x03, 0x00, 0x64, 0x1e, 0x2c, 0x5c, 0x23},
			[]byte{0xa6, 0x11, 0x05, 0x07, 0xe9, 0xb2, 0x00, 0x00, 0x00, 0x02, 0x00, 0x00, 0x00, 0x64, 0x1e, 0x2c, 0x5c, 0x23},
		},
		{
			"0x03 not preceded by two zeros is kept",
			[]byte{0x00, 0x03, 0x03},
			[]byte{0x00, 0x03, 0x03},
		},
		{
			"three zeros followed by 0x03 drops only the emulation byte",
			[]byte{0x00, 0x00, 0x00, 0x03, 0x01},
			[]byte{0x00, 0x00, 0x00, 0x01},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := Unescape(test.in)
			if !bytes.Equal(got, test.want) {
				t.Errorf("got %x, want %x", got, test.want)
			}
		})
	}
}
