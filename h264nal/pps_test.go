package h264nal

import "testing"

// TestParsePpsScenarioF mirrors spec.md's Scenario F: the PPS from the
// 601.264 round-trip (Scenario A).
func TestParsePpsScenarioF(t *testing.T) {
	sps := &SpsState{SeqParameterSetID: 0, ChromaFormatIDC: 1}
	lookup := func(id uint32) *SpsState {
		if id == 0 {
			return sps
		}
		return nil
	}

	rbsp := Unescape([]byte{0xc8, 0x42, 0x02, 0x32, 0xc8})
	pps, err := ParsePps(rbsp, lookup)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if pps.PicParameterSetID != 0 {
		t.Errorf("PicParameterSetID = %d, want 0", pps.PicParameterSetID)
	}
	if pps.SeqParameterSetID != 0 {
		t.Errorf("SeqParameterSetID = %d, want 0", pps.SeqParameterSetID)
	}
	if pps.EntropyCodingModeFlag {
		t.Errorf("EntropyCodingModeFlag = true, want false")
	}
	if pps.NumSliceGroupsMinus1 != 0 {
		t.Errorf("NumSliceGroupsMinus1 = %d, want 0", pps.NumSliceGroupsMinus1)
	}
	if pps.NumRefIdxL0DefaultActiveMinus1 != 15 {
		t.Errorf("NumRefIdxL0DefaultActiveMinus1 = %d, want 15", pps.NumRefIdxL0DefaultActiveMinus1)
	}
	if pps.WeightedPredFlag {
		t.Errorf("WeightedPredFlag = true, want false")
	}
	if pps.WeightedBipredIDC != 0 {
		t.Errorf("WeightedBipredIDC = %d, want 0", pps.WeightedBipredIDC)
	}
	if pps.PicInitQpMinus26 != -8 {
		t.Errorf("PicInitQpMinus26 = %d, want -8", pps.PicInitQpMinus26)
	}
	if pps.PicInitQsMinus26 != 0 {
		t.Errorf("PicInitQsMinus26 = %d, want 0", pps.PicInitQsMinus26)
	}
	if pps.ChromaQpIndexOffset != -2 {
		t.Errorf("ChromaQpIndexOffset = %d, want -2", pps.ChromaQpIndexOffset)
	}
	if !pps.DeblockingFilterControlPresentFlag {
		t.Errorf("DeblockingFilterControlPresentFlag = false, want true")
	}
	if pps.ConstrainedIntraPredFlag {
		t.Errorf("ConstrainedIntraPredFlag = true, want false")
	}
	if pps.RedundantPicCntPresentFlag {
		t.Errorf("RedundantPicCntPresentFlag = true, want false")
	}
}

func TestParsePpsMissingSps(t *testing.T) {
	rbsp := Unescape([]byte{0xc8, 0x42, 0x02, 0x32, 0xc8})
	_, err := ParsePps(rbsp, func(uint32) *SpsState { return nil })
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}
