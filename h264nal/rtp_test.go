package h264nal

import "testing"

// TestParseRtpSingle checks that a single RTP payload carrying one NAL unit
// (no STAP-A/FU-A reassembly) parses the same way ParseNalUnit does.
func TestParseRtpSingle(t *testing.T) {
	sps := []byte{0x67, 0x42, 0xc0, 0x16, 0xa6, 0x11, 0x05, 0x07, 0xe9, 0xb2,
		0x00, 0x00, 0x03, 0x00, 0x02, 0x00, 0x00, 0x03, 0x00, 0x64, 0x1e, 0x2c, 0x5c, 0x23}

	nu, err := ParseRtpSingle(sps, NewParamSetStore(), DefaultParsingOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if nu.Payload.Sps == nil {
		t.Fatal("expected Sps payload")
	}
	if nu.Payload.Sps.ProfileIDC != 66 {
		t.Errorf("ProfileIDC = %d, want 66", nu.Payload.Sps.ProfileIDC)
	}
}
