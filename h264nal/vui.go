package h264nal

import "github.com/ausocean/h264nal/bits"

// HrdState is the Hypothetical Reference Decoder parameters sub-structure
// of VuiState, per Annex E.1.2.
type HrdState struct {
	CpbCntMinus1   uint32 // range 0..31
	BitRateScale   uint32
	CpbSizeScale   uint32
	BitRateValueMinus1 []uint32
	CpbSizeValueMinus1 []uint32
	CbrFlag            []bool

	InitialCpbRemovalDelayLengthMinus1 uint32
	CpbRemovalDelayLengthMinus1        uint32
	DpbOutputDelayLengthMinus1         uint32
	TimeOffsetLength                   uint32
}

func parseHrdParameters(br *bits.BitReader) (*HrdState, error) {
	f := newFieldReader(br, "hrd_parameters")
	h := &HrdState{}

	h.CpbCntMinus1 = f.ueRange("cpb_cnt_minus1", 0, 31)
	h.BitRateScale = f.bits("bit_rate_scale", 4)
	h.CpbSizeScale = f.bits("cpb_size_scale", 4)

	if f.err() == nil {
		n := int(h.CpbCntMinus1) + 1
		h.BitRateValueMinus1 = make([]uint32, n)
		h.CpbSizeValueMinus1 = make([]uint32, n)
		h.CbrFlag = make([]bool, n)
		for i := 0; i < n && f.err() == nil; i++ {
			h.BitRateValueMinus1[i] = f.ue("bit_rate_value_minus1")
			h.CpbSizeValueMinus1[i] = f.ue("cpb_size_value_minus1")
			h.CbrFlag[i] = f.flag("cbr_flag")
		}
	}

	// Read once, after the per-SchedSelIdx loop — unlike ausocean-av's
	// NewHRDParameters, which re-reads these four fields on every loop
	// iteration.
	h.InitialCpbRemovalDelayLengthMinus1 = f.bits("initial_cpb_removal_delay_length_minus1", 5)
	h.CpbRemovalDelayLengthMinus1 = f.bits("cpb_removal_delay_length_minus1", 5)
	h.DpbOutputDelayLengthMinus1 = f.bits("dpb_output_delay_length_minus1", 5)
	h.TimeOffsetLength = f.bits("time_offset_length", 5)

	if err := f.err(); err != nil {
		return nil, err
	}
	return h, nil
}

// VuiState is the Video Usability Information sub-structure of SpsState,
// per Annex E.1.1.
type VuiState struct {
	AspectRatioInfoPresentFlag bool
	AspectRatioIdc             uint32
	SarWidth                   uint32
	SarHeight                  uint32

	OverscanInfoPresentFlag    bool
	OverscanAppropriateFlag    bool

	VideoSignalTypePresentFlag  bool
	VideoFormat                 uint32
	VideoFullRangeFlag          bool
	ColourDescriptionPresentFlag bool
	ColourPrimaries              uint32
	TransferCharacteristics      uint32
	MatrixCoefficients           uint32

	ChromaLocInfoPresentFlag        bool
	ChromaSampleLocTypeTopField     uint32
	ChromaSampleLocTypeBottomField  uint32

	TimingInfoPresentFlag bool
	NumUnitsInTick        uint32
	TimeScale             uint32
	FixedFrameRateFlag    bool

	NalHrdParametersPresentFlag bool
	NalHrdParameters            *HrdState
	VclHrdParametersPresentFlag bool
	VclHrdParameters            *HrdState
	LowDelayHrdFlag             bool

	PicStructPresentFlag bool

	BitstreamRestrictionFlag          bool
	MotionVectorsOverPicBoundariesFlag bool
	MaxBytesPerPicDenom                uint32
	MaxBitsPerMbDenom                  uint32
	Log2MaxMvLengthHorizontal          uint32
	Log2MaxMvLengthVertical            uint32
	MaxNumReorderFrames                uint32
	MaxDecFrameBuffering                uint32
}

const aspectRatioIdcExtendedSAR = 255

func parseVuiParameters(br *bits.BitReader) (*VuiState, error) {
	f := newFieldReader(br, "vui_parameters")
	v := &VuiState{}

	v.AspectRatioInfoPresentFlag = f.flag("aspect_ratio_info_present_flag")
	if v.AspectRatioInfoPresentFlag && f.err() == nil {
		v.AspectRatioIdc = f.bits("aspect_ratio_idc", 8)
		if v.AspectRatioIdc == aspectRatioIdcExtendedSAR && f.err() == nil {
			v.SarWidth = f.bits("sar_width", 16)
			v.SarHeight = f.bits("sar_height", 16)
		}
	}

	v.OverscanInfoPresentFlag = f.flag("overscan_info_present_flag")
	if v.OverscanInfoPresentFlag && f.err() == nil {
		v.OverscanAppropriateFlag = f.flag("overscan_appropriate_flag")
	}

	v.VideoSignalTypePresentFlag = f.flag("video_signal_type_present_flag")
	if v.VideoSignalTypePresentFlag && f.err() == nil {
		v.VideoFormat = f.bits("video_format", 3)
		v.VideoFullRangeFlag = f.flag("video_full_range_flag")
		v.ColourDescriptionPresentFlag = f.flag("colour_description_present_flag")
		if v.ColourDescriptionPresentFlag && f.err() == nil {
			v.ColourPrimaries = f.bits("colour_primaries", 8)
			v.TransferCharacteristics = f.bits("transfer_characteristics", 8)
			v.MatrixCoefficients = f.bits("matrix_coefficients", 8)
		}
	}

	v.ChromaLocInfoPresentFlag = f.flag("chroma_loc_info_present_flag")
	if v.ChromaLocInfoPresentFlag && f.err() == nil {
		v.ChromaSampleLocTypeTopField = f.ue("chroma_sample_loc_type_top_field")
		v.ChromaSampleLocTypeBottomField = f.ue("chroma_sample_loc_type_bottom_field")
	}

	v.TimingInfoPresentFlag = f.flag("timing_info_present_flag")
	if v.TimingInfoPresentFlag && f.err() == nil {
		v.NumUnitsInTick = f.bits("num_units_in_tick", 32)
		v.TimeScale = f.bits("time_scale", 32)
		v.FixedFrameRateFlag = f.flag("fixed_frame_rate_flag")
	}

	v.NalHrdParametersPresentFlag = f.flag("nal_hrd_parameters_present_flag")
	if v.NalHrdParametersPresentFlag && f.err() == nil {
		hrd, err := parseHrdParameters(br)
		if err != nil {
			f.fail("nal_hrd_parameters", err)
		} else {
			v.NalHrdParameters = hrd
		}
	}

	v.VclHrdParametersPresentFlag = f.flag("vcl_hrd_parameters_present_flag")
	if v.VclHrdParametersPresentFlag && f.err() == nil {
		hrd, err := parseHrdParameters(br)
		if err != nil {
			f.fail("vcl_hrd_parameters", err)
		} else {
			v.VclHrdParameters = hrd
		}
	}

	if (v.NalHrdParametersPresentFlag || v.VclHrdParametersPresentFlag) && f.err() == nil {
		v.LowDelayHrdFlag = f.flag("low_delay_hrd_flag")
	}

	v.PicStructPresentFlag = f.flag("pic_struct_present_flag")

	v.BitstreamRestrictionFlag = f.flag("bitstream_restriction_flag")
	if v.BitstreamRestrictionFlag && f.err() == nil {
		v.MotionVectorsOverPicBoundariesFlag = f.flag("motion_vectors_over_pic_boundaries_flag")
		v.MaxBytesPerPicDenom = f.ue("max_bytes_per_pic_denom")
		v.MaxBitsPerMbDenom = f.ue("max_bits_per_mb_denom")
		v.Log2MaxMvLengthHorizontal = f.ue("log2_max_mv_length_horizontal")
		v.Log2MaxMvLengthVertical = f.ue("log2_max_mv_length_vertical")
		v.MaxNumReorderFrames = f.ue("max_num_reorder_frames")
		v.MaxDecFrameBuffering = f.ue("max_dec_frame_buffering")
	}

	if err := f.err(); err != nil {
		return nil, err
	}
	return v, nil
}
