package h264nal

import "github.com/ausocean/h264nal/bits"

// SpsExtensionState is a parsed SPS extension (nal_unit_type 13), per
// section 7.3.2.1.2.
type SpsExtensionState struct {
	SeqParameterSetID    uint32
	AuxFormatIDC         uint32
	BitDepthAuxMinus8    uint32
	AlphaIncrFlag        bool
	AlphaOpaqueValue     uint32
	AlphaTransparentValue uint32
	AdditionalExtensionFlag bool
}

// ParseSpsExtension parses an SPS extension RBSP (already unescaped).
func ParseSpsExtension(rbsp []byte) (*SpsExtensionState, error) {
	br := bits.NewBitReader(rbsp)
	return parseSpsExtension(br)
}

// parseSpsExtension parses an SPS extension from a BitReader already
// positioned at the start of its RBSP.
func parseSpsExtension(br *bits.BitReader) (*SpsExtensionState, error) {
	f := newFieldReader(br, "sps_extension")
	e := &SpsExtensionState{}

	e.SeqParameterSetID = f.ueRange("seq_parameter_set_id", 0, 31)
	e.AuxFormatIDC = f.ue("aux_format_idc")

	if e.AuxFormatIDC != 0 && f.err() == nil {
		e.BitDepthAuxMinus8 = f.ueRange("bit_depth_aux_minus8", 0, 4)
		e.AlphaIncrFlag = f.flag("alpha_incr_flag")
		if f.err() == nil {
			width := int(e.BitDepthAuxMinus8) + 9
			e.AlphaOpaqueValue = f.bits("alpha_opaque_value", width)
			e.AlphaTransparentValue = f.bits("alpha_transparent_value", width)
		}
	}

	e.AdditionalExtensionFlag = f.flag("additional_extension_flag")

	if err := f.err(); err != nil {
		return nil, err
	}
	// When only zero bits remain up to the end of the buffer,
	// rbsp_trailing_bits() is absent and that is tolerated.
	if _, err := br.LastBitOffset(1); err != nil {
		return e, nil
	}
	if err := rbspTrailingBits(br); err != nil {
		return nil, err
	}
	return e, nil
}
