package h264nal

import "testing"

// TestParseSpsExtensionScenarioC mirrors spec.md's Scenario C.
func TestParseSpsExtensionScenarioC(t *testing.T) {
	rbsp := Unescape([]byte{0xa2, 0x3c, 0x3c, 0x3c, 0x00})
	ext, err := ParseSpsExtension(rbsp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ext.SeqParameterSetID != 0 {
		t.Errorf("SeqParameterSetID = %d, want 0", ext.SeqParameterSetID)
	}
	if ext.AuxFormatIDC != 1 {
		t.Errorf("AuxFormatIDC = %d, want 1", ext.AuxFormatIDC)
	}
	if ext.BitDepthAuxMinus8 != 3 {
		t.Errorf("BitDepthAuxMinus8 = %d, want 3", ext.BitDepthAuxMinus8)
	}
	if ext.AlphaIncrFlag {
		t.Errorf("AlphaIncrFlag = true, want false")
	}
	if ext.AlphaOpaqueValue != 0xf0f {
		t.Errorf("AlphaOpaqueValue = %#x, want 0xf0f", ext.AlphaOpaqueValue)
	}
	if ext.AlphaTransparentValue != 0x0f0 {
		t.Errorf("AlphaTransparentValue = %#x, want 0x0f0", ext.AlphaTransparentValue)
	}
	if ext.AdditionalExtensionFlag {
		t.Errorf("AdditionalExtensionFlag = true, want false")
	}
}
