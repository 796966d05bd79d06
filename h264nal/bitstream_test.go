package h264nal

import (
	"context"
	"testing"
)

func TestParseAVCC(t *testing.T) {
	sps := []byte{0x67, 0x42, 0xc0, 0x16, 0xa6, 0x11, 0x05, 0x07, 0xe9, 0xb2,
		0x00, 0x00, 0x03, 0x00, 0x02, 0x00, 0x00, 0x03, 0x00, 0x64, 0x1e, 0x2c, 0x5c, 0x23}
	pps := []byte{0x68, 0xc8, 0x42, 0x02, 0x32, 0xc8}

	buf := make([]byte, 0, 4+len(sps)+4+len(pps))
	buf = append(buf, 0, 0, 0, byte(len(sps)))
	buf = append(buf, sps...)
	buf = append(buf, 0, 0, 0, byte(len(pps)))
	buf = append(buf, pps...)

	bs, err := ParseAVCC(buf, 4, NewParamSetStore(), DefaultParsingOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bs.NalUnits) != 2 {
		t.Fatalf("got %d NAL units, want 2", len(bs.NalUnits))
	}
	if bs.NalUnits[0].Payload.Sps == nil {
		t.Error("expected first NAL unit to carry an SPS payload")
	}
	if bs.NalUnits[1].Payload.Pps == nil {
		t.Error("expected second NAL unit to carry a PPS payload")
	}
}

// TestParseAVCCTruncatedLengthDoesNotPanic covers a length prefix claiming
// more bytes than remain in buf — FindNaluIndicesLength clamps PayloadSize,
// and ParseAVCC's sliceNalu backstop would otherwise skip it if it didn't.
func TestParseAVCCTruncatedLengthDoesNotPanic(t *testing.T) {
	buf := []byte{0x00, 0x00, 0x00, 0x05, 0x01, 0x02}
	bs, err := ParseAVCC(buf, 4, NewParamSetStore(), DefaultParsingOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_ = bs
}

func TestParseMany(t *testing.T) {
	good := []byte{
		0x00, 0x00, 0x00, 0x01, 0x67, 0x42, 0xc0, 0x16, 0xa6, 0x11, 0x05, 0x07, 0xe9, 0xb2,
		0x00, 0x00, 0x03, 0x00, 0x02, 0x00, 0x00, 0x03, 0x00, 0x64, 0x1e, 0x2c, 0x5c, 0x23,
	}
	jobs := []BitstreamJob{
		{Name: "a", Buf: good},
		{Name: "b", Buf: good},
	}

	results, err := ParseMany(context.Background(), jobs, DefaultParsingOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	for _, r := range results {
		if r.Err != nil {
			t.Errorf("job %q: unexpected error: %v", r.Name, r.Err)
		}
		if r.State == nil || len(r.State.NalUnits) != 1 {
			t.Errorf("job %q: expected 1 NAL unit, got %+v", r.Name, r.State)
		}
	}
	// Each job gets its own ParamSetStore.
	if results[0].State.Store == results[1].State.Store {
		t.Error("expected independent ParamSetStore per job")
	}
}
