package h264nal

import (
	"github.com/pkg/errors"

	"github.com/ausocean/h264nal/bits"
)

// fieldReader wraps a *bits.BitReader with sticky-error semantics: once a
// read fails, every subsequent read becomes a no-op returning the zero
// value, and the first failure is retained for a single check at the end
// of a syntax function via err(). This mirrors the fieldReader type in
// ausocean-av's h264dec/parse.go, extended to translate BitReader sentinel
// errors into the tagged error kinds callers can branch on with errors.As.
type fieldReader struct {
	br  *bits.BitReader
	ctx string
	e   error
}

func newFieldReader(br *bits.BitReader, ctx string) *fieldReader {
	return &fieldReader{br: br, ctx: ctx}
}

func (f *fieldReader) err() error { return f.e }

func (f *fieldReader) fail(field string, err error) {
	if f.e != nil {
		return
	}
	switch {
	case errors.Is(err, bits.ErrOutOfData):
		err = &OutOfDataError{Context: f.ctx + "." + field}
	case errors.Is(err, bits.ErrExpGolombRange):
		err = &OutOfRangeError{Field: f.ctx + "." + field, Value: -1, Min: 0, Max: 31}
	}
	f.e = errors.Wrapf(err, "%s.%s", f.ctx, field)
}

// bits reads an n-bit unsigned field.
func (f *fieldReader) bits(field string, n int) uint32 {
	if f.e != nil {
		return 0
	}
	v, err := f.br.ReadBits(n)
	if err != nil {
		f.fail(field, err)
		return 0
	}
	return v
}

// flag reads a 1-bit boolean field.
func (f *fieldReader) flag(field string) bool {
	return f.bits(field, 1) != 0
}

// ue reads an unsigned Exp-Golomb field.
func (f *fieldReader) ue(field string) uint32 {
	if f.e != nil {
		return 0
	}
	v, err := f.br.ReadExpGolombUnsigned()
	if err != nil {
		f.fail(field, err)
		return 0
	}
	return v
}

// se reads a signed Exp-Golomb field.
func (f *fieldReader) se(field string) int32 {
	if f.e != nil {
		return 0
	}
	v, err := f.br.ReadExpGolombSigned()
	if err != nil {
		f.fail(field, err)
		return 0
	}
	return v
}

// ueRange reads an unsigned Exp-Golomb field and validates it against
// [min,max], failing with OutOfRangeError on violation.
func (f *fieldReader) ueRange(field string, min, max uint32) uint32 {
	v := f.ue(field)
	if f.e == nil && (v < min || v > max) {
		f.fail(field, &OutOfRangeError{Field: field, Value: int64(v), Min: int64(min), Max: int64(max)})
	}
	return v
}

// seRange reads a signed Exp-Golomb field and validates it against
// [min,max], failing with OutOfRangeError on violation.
func (f *fieldReader) seRange(field string, min, max int32) int32 {
	v := f.se(field)
	if f.e == nil && (v < min || v > max) {
		f.fail(field, &OutOfRangeError{Field: field, Value: int64(v), Min: int64(min), Max: int64(max)})
	}
	return v
}

// bitsRange reads an n-bit unsigned field and validates it against
// [min,max].
func (f *fieldReader) bitsRange(field string, n int, min, max uint32) uint32 {
	v := f.bits(field, n)
	if f.e == nil && (v < min || v > max) {
		f.fail(field, &OutOfRangeError{Field: field, Value: int64(v), Min: int64(min), Max: int64(max)})
	}
	return v
}

// moreRbspData implements the standard's more_rbsp_data() without the
// PPS/slice stop-bit lookahead ambiguity some real streams exhibit: if
// more than 8 bits remain there must be more data; otherwise the remaining
// k bits are compared against the rbsp_stop_one_bit pattern 1<<(k-1) — a
// match means those are the trailing bits and there is no more RBSP data.
func moreRbspData(br *bits.BitReader) bool {
	remaining := br.RemainingBits()
	if remaining <= 0 {
		return false
	}
	if remaining > 8 {
		return true
	}
	v, err := br.PeekBits(remaining)
	if err != nil {
		return false
	}
	stopPattern := uint32(1) << uint(remaining-1)
	return v != stopPattern
}

// rbspTrailingBits consumes the stop bit (must be 1) followed by zero
// padding bits up to byte alignment, per section 7.3.2.11. If the reader
// is already exhausted, it is treated as a tolerated truncation rather
// than a failure, since real-world bitstreams sometimes truncate the
// final NAL unit's trailing bits.
func rbspTrailingBits(br *bits.BitReader) error {
	if br.RemainingBits() == 0 {
		return nil
	}
	stop, err := br.ReadBits(1)
	if err != nil {
		return nil
	}
	if stop != 1 {
		return &MalformedRbspError{Context: "rbsp_trailing_bits: stop bit not set"}
	}
	for !br.ByteAligned() {
		b, err := br.ReadBits(1)
		if err != nil {
			return nil
		}
		if b != 0 {
			return &MalformedRbspError{Context: "rbsp_trailing_bits: non-zero alignment padding"}
		}
	}
	return nil
}

// ceilLog2 returns ceil(log2(n)) for n >= 1.
func ceilLog2(n uint32) uint {
	if n <= 1 {
		return 0
	}
	var bitsNeeded uint
	v := n - 1
	for v > 0 {
		bitsNeeded++
		v >>= 1
	}
	return bitsNeeded
}
