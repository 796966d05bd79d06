package h264nal

import "github.com/ausocean/h264nal/bits"

// SpsSvcExtensionState is the parsed seq_parameter_set_svc_extension,
// Annex G.7.3.2.1.4. Unlike the base SPS, it takes an externally supplied
// ChromaArrayType (from the SPS this extension is attached to) rather than
// deriving one of its own.
type SpsSvcExtensionState struct {
	InterLayerDeblockingFilterControlPresentFlag bool
	ExtendedSpatialScalabilityIDC                 uint32

	ChromaPhaseXPlus1Flag bool
	ChromaPhaseYPlus1     uint32

	SeqRefLayerChromaPhaseXPlus1Flag bool
	SeqRefLayerChromaPhaseYPlus1     uint32

	SeqScaledRefLayerLeftOffset   int32
	SeqScaledRefLayerTopOffset    int32
	SeqScaledRefLayerRightOffset  int32
	SeqScaledRefLayerBottomOffset int32

	SeqTcoeffLevelPredictionFlag      bool
	AdaptiveTcoeffLevelPredictionFlag bool

	SliceHeaderRestrictionFlag bool
}

// ParseSpsSvcExtension parses the SVC extension fields from br, which must
// be positioned immediately after the base SPS fields in a NAL unit of
// type 15 (subset SPS). chromaArrayType is the value derived from the base
// SPS this extension belongs to.
func ParseSpsSvcExtension(br *bits.BitReader, chromaArrayType uint32) (*SpsSvcExtensionState, error) {
	f := newFieldReader(br, "sps_svc_extension")
	e := &SpsSvcExtensionState{}

	e.InterLayerDeblockingFilterControlPresentFlag = f.flag("inter_layer_deblocking_filter_control_present_flag")
	e.ExtendedSpatialScalabilityIDC = f.bitsRange("extended_spatial_scalability_idc", 2, 0, 2)

	if (chromaArrayType == 1 || chromaArrayType == 2) && f.err() == nil {
		e.ChromaPhaseXPlus1Flag = f.flag("chroma_phase_x_plus1_flag")
	}
	if chromaArrayType == 1 && f.err() == nil {
		e.ChromaPhaseYPlus1 = f.bitsRange("chroma_phase_y_plus1", 2, 0, 2)
	}

	if e.ExtendedSpatialScalabilityIDC == 1 && f.err() == nil {
		if chromaArrayType > 0 && f.err() == nil {
			e.SeqRefLayerChromaPhaseXPlus1Flag = f.flag("seq_ref_layer_chroma_phase_x_plus1_flag")
			e.SeqRefLayerChromaPhaseYPlus1 = f.bitsRange("seq_ref_layer_chroma_phase_y_plus1", 2, 0, 2)
		}
		e.SeqScaledRefLayerLeftOffset = f.se("seq_scaled_ref_layer_left_offset")
		e.SeqScaledRefLayerTopOffset = f.se("seq_scaled_ref_layer_top_offset")
		e.SeqScaledRefLayerRightOffset = f.se("seq_scaled_ref_layer_right_offset")
		e.SeqScaledRefLayerBottomOffset = f.se("seq_scaled_ref_layer_bottom_offset")
	}

	e.SeqTcoeffLevelPredictionFlag = f.flag("seq_tcoeff_level_prediction_flag")
	if e.SeqTcoeffLevelPredictionFlag && f.err() == nil {
		e.AdaptiveTcoeffLevelPredictionFlag = f.flag("adaptive_tcoeff_level_prediction_flag")
	}

	e.SliceHeaderRestrictionFlag = f.flag("slice_header_restriction_flag")

	if err := f.err(); err != nil {
		return nil, err
	}
	return e, nil
}
