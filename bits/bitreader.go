// Package bits provides a bit-level reader over a fixed, read-only byte
// slice, supporting unaligned reads, Exp-Golomb decoding, peeking, and
// position save/restore. It backs the H.264 syntax parsers in the h264nal
// package.
package bits

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrOutOfData is returned when a read would consume more bits than remain
// in the underlying buffer.
var ErrOutOfData = errors.New("bits: out of data")

// ErrExpGolombRange is returned by ReadExpGolombUnsigned/ReadExpGolombSigned
// when the leading-zero prefix of an Exp-Golomb code exceeds 31 bits. The
// standard does not bound this prefix; a malicious input can otherwise ask
// for an unbounded number of leading zeros.
var ErrExpGolombRange = errors.New("bits: exp-golomb leading zero count exceeds 31")

// maxExpGolombLeadingZeros is the cap enforced by ReadExpGolombUnsigned.
const maxExpGolombLeadingZeros = 31

// BitReader reads bits MSB-first from a fixed byte slice. The zero value is
// not usable; construct with NewBitReader.
type BitReader struct {
	data       []byte
	byteOffset int
	bitOffset  int // 0..7, 0 = most significant bit of data[byteOffset]
}

// NewBitReader returns a BitReader positioned at the start of data. The
// returned reader does not copy data and does not retain it past the
// lifetime the caller controls; data must not be mutated while in use.
func NewBitReader(data []byte) *BitReader {
	return &BitReader{data: data}
}

// RemainingBits returns the number of unread bits left in the buffer.
func (r *BitReader) RemainingBits() int {
	total := len(r.data) * 8
	pos := r.byteOffset*8 + r.bitOffset
	if pos >= total {
		return 0
	}
	return total - pos
}

// ByteAligned reports whether the current position is at the start of a
// byte.
func (r *BitReader) ByteAligned() bool {
	return r.bitOffset == 0
}

// Offset returns the current (byte, bit) position.
func (r *BitReader) Offset() (byteOffset, bitOffset int) {
	return r.byteOffset, r.bitOffset
}

// Seek repositions the reader. bitOffset must be in [0,7]; byteOffset must
// not exceed len(data), and if it equals len(data), bitOffset must be 0.
func (r *BitReader) Seek(byteOffset, bitOffset int) error {
	if bitOffset < 0 || bitOffset > 7 {
		return fmt.Errorf("bits: Seek: bitOffset %d out of range [0,7]", bitOffset)
	}
	if byteOffset < 0 || byteOffset > len(r.data) || (byteOffset == len(r.data) && bitOffset != 0) {
		return fmt.Errorf("bits: Seek: position %d.%d out of range", byteOffset, bitOffset)
	}
	r.byteOffset, r.bitOffset = byteOffset, bitOffset
	return nil
}

// ReadBits consumes n bits (n in [0,32]) MSB-first and returns them in the
// least-significant bits of the result, advancing the position. It fails
// with ErrOutOfData if fewer than n bits remain.
func (r *BitReader) ReadBits(n int) (uint32, error) {
	if n < 0 || n > 32 {
		return 0, fmt.Errorf("bits: ReadBits: n=%d out of range [0,32]", n)
	}
	if n == 0 {
		return 0, nil
	}
	if r.RemainingBits() < n {
		return 0, ErrOutOfData
	}

	var result uint32
	remaining := n
	for remaining > 0 {
		curByte := r.data[r.byteOffset]
		bitsLeftInByte := 8 - r.bitOffset
		take := remaining
		if take > bitsLeftInByte {
			take = bitsLeftInByte
		}
		shift := bitsLeftInByte - take
		mask := byte((1 << uint(take)) - 1)
		chunk := (curByte >> uint(shift)) & mask
		result = (result << uint(take)) | uint32(chunk)

		r.bitOffset += take
		if r.bitOffset == 8 {
			r.bitOffset = 0
			r.byteOffset++
		}
		remaining -= take
	}
	return result, nil
}

// PeekBits behaves like ReadBits but does not advance the position.
func (r *BitReader) PeekBits(n int) (uint32, error) {
	byteOffset, bitOffset := r.byteOffset, r.bitOffset
	v, err := r.ReadBits(n)
	r.byteOffset, r.bitOffset = byteOffset, bitOffset
	return v, err
}

// ReadU8 is a byte-aligned convenience wrapper around ReadBits(8).
func (r *BitReader) ReadU8() (uint8, error) {
	v, err := r.ReadBits(8)
	return uint8(v), err
}

// ReadU32 is a byte-aligned convenience wrapper around ReadBits(32).
func (r *BitReader) ReadU32() (uint32, error) {
	return r.ReadBits(32)
}

// ReadExpGolombUnsigned parses an unsigned Exp-Golomb code (ue(v)) as
// specified in section 9.1 of ITU-T H.264: count leading zero bits k, then
// read k more bits to form codeNum = (1<<k) - 1 + suffix. Fails with
// ErrExpGolombRange if k would exceed 31.
func (r *BitReader) ReadExpGolombUnsigned() (uint32, error) {
	leadingZeros := 0
	for {
		b, err := r.ReadBits(1)
		if err != nil {
			return 0, err
		}
		if b == 1 {
			break
		}
		leadingZeros++
		if leadingZeros > maxExpGolombLeadingZeros {
			return 0, ErrExpGolombRange
		}
	}
	if leadingZeros == 0 {
		return 0, nil
	}
	suffix, err := r.ReadBits(leadingZeros)
	if err != nil {
		return 0, err
	}
	return (uint32(1)<<uint(leadingZeros) - 1) + suffix, nil
}

// ReadExpGolombSigned parses a signed Exp-Golomb code (se(v)) per section
// 9.1.1: codeNum even maps to -(codeNum/2), odd maps to (codeNum+1)/2.
func (r *BitReader) ReadExpGolombSigned() (int32, error) {
	codeNum, err := r.ReadExpGolombUnsigned()
	if err != nil {
		return 0, err
	}
	if codeNum%2 == 0 {
		return -int32(codeNum / 2), nil
	}
	return int32((codeNum + 1) / 2), nil
}

// LastBitOffset locates the absolute bit offset (from the start of the
// buffer) of the last bit equal to value within the remaining (unread)
// stream, without consuming any bits. It is used by more_rbsp_data to find
// the rbsp_stop_one_bit. Returns an error if no such bit exists.
func (r *BitReader) LastBitOffset(value uint32) (int, error) {
	want := byte(value & 1)
	total := len(r.data) * 8
	start := r.byteOffset*8 + r.bitOffset
	if start >= total {
		return 0, ErrOutOfData
	}
	for pos := total - 1; pos >= start; pos-- {
		byteIdx := pos / 8
		bitIdx := pos % 8
		bit := (r.data[byteIdx] >> uint(7-bitIdx)) & 1
		if bit == want {
			return pos, nil
		}
	}
	return 0, errors.New("bits: no matching bit found in remaining stream")
}

// AbsoluteBitOffset returns the current position as a single bit count from
// the start of the buffer.
func (r *BitReader) AbsoluteBitOffset() int {
	return r.byteOffset*8 + r.bitOffset
}

// Len returns the total number of bytes in the underlying buffer.
func (r *BitReader) Len() int {
	return len(r.data)
}

// RemainingBytes returns the unread tail of the buffer starting at the
// current byte (a partially consumed byte is returned whole), and
// advances the reader to the end. Used to capture raw payload bytes for
// NAL unit types this package recognizes but does not parse.
func (r *BitReader) RemainingBytes() []byte {
	b := r.data[r.byteOffset:]
	r.byteOffset = len(r.data)
	r.bitOffset = 0
	return b
}
