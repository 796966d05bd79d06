package h264nal

import "testing"

// TestParseSpsScenarioBResolutionWithCropping is the regression test named
// in spec.md's design notes: an implementation that defaults
// chroma_format_idc to 0 instead of 1 computes (320, 236) instead of the
// correct (320, 232).
func TestParseSpsScenarioBResolutionWithCropping(t *testing.T) {
	rbsp := []byte{
		0x42, 0xc0, 0x0d, 0xd9, 0x01, 0x41, 0xff, 0x96, 0x6c, 0x80, 0x00, 0x00,
		0x03, 0x00, 0x80, 0x00, 0x00, 0x19, 0x07, 0x8a, 0x15, 0x24, 0x00,
	}
	sps, err := ParseSps(Unescape(rbsp))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if sps.ProfileIDC != 66 {
		t.Errorf("ProfileIDC = %d, want 66", sps.ProfileIDC)
	}
	if !sps.Constraint[1] {
		t.Errorf("Constraint[1] (cs1) = false, want true")
	}
	if sps.LevelIDC != 13 {
		t.Errorf("LevelIDC = %d, want 13", sps.LevelIDC)
	}
	if got := sps.Profile(); got != ProfileConstrainedBaseline {
		t.Errorf("Profile() = %v, want ProfileConstrainedBaseline", got)
	}
	if sps.ChromaFormatIDC != 1 {
		t.Fatalf("ChromaFormatIDC = %d, want 1 (defaulted, not read from bitstream)", sps.ChromaFormatIDC)
	}
	if sps.PicWidthInMbsMinus1 != 19 {
		t.Errorf("PicWidthInMbsMinus1 = %d, want 19", sps.PicWidthInMbsMinus1)
	}
	if sps.PicHeightInMapUnitsMinus1 != 14 {
		t.Errorf("PicHeightInMapUnitsMinus1 = %d, want 14", sps.PicHeightInMapUnitsMinus1)
	}
	if !sps.FrameCroppingFlag {
		t.Fatalf("FrameCroppingFlag = false, want true")
	}
	if sps.FrameCropBottomOffset != 4 {
		t.Errorf("FrameCropBottomOffset = %d, want 4", sps.FrameCropBottomOffset)
	}

	width, height := sps.Resolution()
	if width != 320 || height != 232 {
		t.Errorf("Resolution() = (%d, %d), want (320, 232) — an implementation "+
			"defaulting chroma_format_idc to 0 would wrongly compute (320, 236)", width, height)
	}
}

func TestParseSpsScenarioA(t *testing.T) {
	rbsp := Unescape([]byte{
		0x42, 0xc0, 0x16, 0xa6, 0x11, 0x05, 0x07, 0xe9, 0xb2,
		0x00, 0x00, 0x03, 0x00, 0x02, 0x00, 0x00, 0x03, 0x00, 0x64, 0x1e, 0x2c, 0x5c, 0x23,
	})
	sps, err := ParseSps(rbsp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sps.ProfileIDC != 66 {
		t.Errorf("ProfileIDC = %d, want 66", sps.ProfileIDC)
	}
	if sps.LevelIDC != 22 {
		t.Errorf("LevelIDC = %d, want 22", sps.LevelIDC)
	}
	if sps.SeqParameterSetID != 0 {
		t.Errorf("SeqParameterSetID = %d, want 0", sps.SeqParameterSetID)
	}
	if sps.ChromaFormatIDC != 1 {
		t.Errorf("ChromaFormatIDC = %d, want 1 (defaulted)", sps.ChromaFormatIDC)
	}
	if sps.PicWidthInMbsMinus1 != 19 {
		t.Errorf("PicWidthInMbsMinus1 = %d, want 19", sps.PicWidthInMbsMinus1)
	}
	if sps.PicHeightInMapUnitsMinus1 != 14 {
		t.Errorf("PicHeightInMapUnitsMinus1 = %d, want 14", sps.PicHeightInMapUnitsMinus1)
	}
	if sps.FrameCroppingFlag {
		t.Errorf("FrameCroppingFlag = true, want false")
	}
	if sps.VuiParametersPresentFlag && sps.Vui == nil {
		t.Errorf("VuiParametersPresentFlag set but Vui is nil")
	}
}

func TestParseSpsRejectsTruncatedInput(t *testing.T) {
	if _, err := ParseSps(nil); err == nil {
		t.Fatal("expected error for empty input, got nil")
	}
}
