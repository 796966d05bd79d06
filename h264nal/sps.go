package h264nal

import "github.com/ausocean/h264nal/bits"

// Default scaling matrices from Tables 7-3/7-4, substituted whenever
// useDefaultScalingMatrixFlag is set for a given list.
var (
	default4x4Intra = []int{6, 13, 13, 20, 20, 20, 28, 28, 28, 28, 32, 32, 32, 37, 37, 42}
	default4x4Inter = []int{10, 14, 14, 20, 20, 20, 24, 24, 24, 24, 27, 27, 27, 30, 30, 34}
	default8x8Intra = []int{
		6, 10, 10, 13, 11, 13, 16, 16, 16, 16, 18, 18, 18, 18, 18, 23,
		23, 23, 23, 23, 23, 25, 25, 25, 25, 25, 25, 25, 27, 27, 27, 27,
		27, 27, 27, 27, 29, 29, 29, 29, 29, 29, 29, 31, 31, 31, 31, 31,
		31, 33, 33, 33, 33, 33, 36, 36, 36, 36, 38, 38, 38, 40, 40, 42,
	}
	default8x8Inter = []int{
		9, 13, 13, 15, 13, 15, 17, 17, 17, 17, 19, 19, 19, 19, 19, 21,
		21, 21, 21, 21, 21, 22, 22, 22, 22, 22, 22, 22, 24, 24, 24, 24,
		24, 24, 24, 24, 25, 25, 25, 25, 25, 25, 25, 27, 27, 27, 27, 27,
		27, 28, 28, 28, 28, 28, 30, 30, 30, 30, 32, 32, 32, 33, 33, 35,
	}
)

// defaultScalingList4x4 returns the default list for 4x4 scaling list
// index i (0-2 intra, 3-5 inter).
func defaultScalingList4x4(i int) []int {
	if i < 3 {
		return default4x4Intra
	}
	return default4x4Inter
}

// defaultScalingList8x8 returns the default list for 8x8 scaling list
// index i (even indices intra, odd indices inter).
func defaultScalingList8x8(i int) []int {
	if i%2 == 0 {
		return default8x8Intra
	}
	return default8x8Inter
}

// scalingList parses one scaling list of sizeOfScalingList entries per the
// recurrence in section 7.3.2.1.1.1, substituting defaultMatrix whenever
// useDefaultScalingMatrixFlag is triggered (j==0 && nextScale==0) — unlike
// ausocean-av's scalingList helper, which parses defaultScalingMatrix as a
// parameter but discards it via `_ = defaultScalingMatrix`, this actually
// copies it into the result.
func scalingList(br *bits.BitReader, sizeOfScalingList int, defaultMatrix []int) ([]int, bool, error) {
	list := make([]int, sizeOfScalingList)
	lastScale := 8
	nextScale := 8
	useDefault := false
	for j := 0; j < sizeOfScalingList; j++ {
		if nextScale != 0 {
			deltaScale, err := br.ReadExpGolombSigned()
			if err != nil {
				return nil, false, err
			}
			if deltaScale < -128 || deltaScale > 127 {
				return nil, false, &OutOfRangeError{Field: "delta_scale", Value: int64(deltaScale), Min: -128, Max: 127}
			}
			nextScale = (lastScale + int(deltaScale) + 256) % 256
			if j == 0 && nextScale == 0 {
				useDefault = true
			}
		}
		if nextScale == 0 {
			list[j] = lastScale
		} else {
			list[j] = nextScale
		}
		lastScale = list[j]
	}
	if useDefault {
		copy(list, defaultMatrix)
	}
	return list, useDefault, nil
}

// SpsState is a parsed Sequence Parameter Set, per section 7.3.2.1.1.
type SpsState struct {
	ProfileIDC uint8
	Constraint [6]bool // constraint_set0_flag .. constraint_set5_flag
	ReservedZero2Bits uint32
	LevelIDC   uint8

	SeqParameterSetID uint32

	// ChromaFormatIDC defaults to 1 (4:2:0) when profile_idc does not
	// signal it in the bitstream — see profileSignalsChromaFormat.
	ChromaFormatIDC          uint32
	SeparateColourPlaneFlag  bool
	BitDepthLumaMinus8       uint32
	BitDepthChromaMinus8     uint32
	QpprimeYZeroTransformBypassFlag bool

	SeqScalingMatrixPresentFlag bool
	SeqScalingListPresentFlag   []bool
	ScalingList4x4              [][]int
	ScalingList8x8               [][]int
	UseDefaultScalingMatrix4x4Flag []bool
	UseDefaultScalingMatrix8x8Flag []bool

	Log2MaxFrameNumMinus4 uint32

	PicOrderCntType              uint32
	Log2MaxPicOrderCntLsbMinus4  uint32
	DeltaPicOrderAlwaysZeroFlag  bool
	OffsetForNonRefPic           int32
	OffsetForTopToBottomField    int32
	NumRefFramesInPicOrderCntCycle uint32
	OffsetForRefFrame             []int32

	MaxNumRefFrames             uint32
	GapsInFrameNumValueAllowedFlag bool
	PicWidthInMbsMinus1          uint32
	PicHeightInMapUnitsMinus1    uint32
	FrameMbsOnlyFlag             bool
	MbAdaptiveFrameFieldFlag     bool
	Direct8x8InferenceFlag       bool

	FrameCroppingFlag      bool
	FrameCropLeftOffset    uint32
	FrameCropRightOffset   uint32
	FrameCropTopOffset     uint32
	FrameCropBottomOffset  uint32

	VuiParametersPresentFlag bool
	Vui                      *VuiState
}

// ParseSps parses a Sequence Parameter Set RBSP (already unescaped).
func ParseSps(rbsp []byte) (*SpsState, error) {
	br := bits.NewBitReader(rbsp)
	s, err := parseSps(br)
	return s, err
}

// parseSps parses a Sequence Parameter Set from a BitReader already
// positioned at the start of its RBSP, so a shared reader (e.g. one that
// has just consumed a NAL unit header) can be threaded straight through.
// Plain SPS NAL units end here; subset SPS NAL units (type 15) continue
// past seq_parameter_set_data() with an SVC/MVC extension, so
// NalUnitParser calls parseSpsData directly for those instead.
func parseSps(br *bits.BitReader) (*SpsState, error) {
	s, err := parseSpsData(br)
	if err != nil {
		return nil, err
	}
	if err := rbspTrailingBits(br); err != nil {
		return nil, err
	}
	return s, nil
}

// parseSpsData parses seq_parameter_set_data() (everything in an SPS up
// to, but not including, rbsp_trailing_bits()) from a BitReader already
// positioned at its start.
func parseSpsData(br *bits.BitReader) (*SpsState, error) {
	f := newFieldReader(br, "sps")
	s := &SpsState{}

	s.ProfileIDC = uint8(f.bits("profile_idc", 8))
	for i := 0; i < 6; i++ {
		s.Constraint[i] = f.flag("constraint_set_flag")
	}
	s.ReservedZero2Bits = f.bits("reserved_zero_2bits", 2)
	s.LevelIDC = uint8(f.bits("level_idc", 8))
	s.SeqParameterSetID = f.ueRange("seq_parameter_set_id", 0, 31)

	if f.err() != nil {
		return nil, f.err()
	}

	if profileSignalsChromaFormat(s.ProfileIDC) {
		s.ChromaFormatIDC = f.ueRange("chroma_format_idc", 0, 3)
		if s.ChromaFormatIDC == 3 && f.err() == nil {
			s.SeparateColourPlaneFlag = f.flag("separate_colour_plane_flag")
		}
		s.BitDepthLumaMinus8 = f.ueRange("bit_depth_luma_minus8", 0, 6)
		s.BitDepthChromaMinus8 = f.ueRange("bit_depth_chroma_minus8", 0, 6)
		s.QpprimeYZeroTransformBypassFlag = f.flag("qpprime_y_zero_transform_bypass_flag")
		s.SeqScalingMatrixPresentFlag = f.flag("seq_scaling_matrix_present_flag")
		if s.SeqScalingMatrixPresentFlag && f.err() == nil {
			count := 8
			if s.ChromaFormatIDC == 3 {
				count = 12
			}
			s.SeqScalingListPresentFlag = make([]bool, count)
			s.ScalingList4x4 = make([][]int, 6)
			s.UseDefaultScalingMatrix4x4Flag = make([]bool, 6)
			s.ScalingList8x8 = make([][]int, count-6)
			s.UseDefaultScalingMatrix8x8Flag = make([]bool, count-6)
			for i := 0; i < count && f.err() == nil; i++ {
				s.SeqScalingListPresentFlag[i] = f.flag("seq_scaling_list_present_flag")
				if !s.SeqScalingListPresentFlag[i] || f.err() != nil {
					continue
				}
				if i < 6 {
					size := 16
					list, useDefault, err := scalingList(br, size, defaultScalingList4x4(i))
					if err != nil {
						f.fail("scaling_list_4x4", err)
						break
					}
					s.ScalingList4x4[i] = list
					s.UseDefaultScalingMatrix4x4Flag[i] = useDefault
				} else {
					size := 64
					list, useDefault, err := scalingList(br, size, defaultScalingList8x8(i-6))
					if err != nil {
						f.fail("scaling_list_8x8", err)
						break
					}
					s.ScalingList8x8[i-6] = list
					s.UseDefaultScalingMatrix8x8Flag[i-6] = useDefault
				}
			}
		}
	} else {
		// chroma_format_idc is not present in the bitstream for this
		// profile; it defaults to 1 (4:2:0). Getting this wrong silently
		// corrupts cropping math for every Baseline/Main/Extended stream.
		s.ChromaFormatIDC = 1
	}

	s.Log2MaxFrameNumMinus4 = f.ueRange("log2_max_frame_num_minus4", 0, 12)
	s.PicOrderCntType = f.ueRange("pic_order_cnt_type", 0, 2)

	if f.err() == nil {
		switch s.PicOrderCntType {
		case 0:
			s.Log2MaxPicOrderCntLsbMinus4 = f.ueRange("log2_max_pic_order_cnt_lsb_minus4", 0, 12)
		case 1:
			s.DeltaPicOrderAlwaysZeroFlag = f.flag("delta_pic_order_always_zero_flag")
			s.OffsetForNonRefPic = f.se("offset_for_non_ref_pic")
			s.OffsetForTopToBottomField = f.se("offset_for_top_to_bottom_field")
			s.NumRefFramesInPicOrderCntCycle = f.ueRange("num_ref_frames_in_pic_order_cnt_cycle", 0, 255)
			if f.err() == nil {
				s.OffsetForRefFrame = make([]int32, s.NumRefFramesInPicOrderCntCycle)
				for i := range s.OffsetForRefFrame {
					s.OffsetForRefFrame[i] = f.se("offset_for_ref_frame")
				}
			}
		}
	}

	s.MaxNumRefFrames = f.ueRange("max_num_ref_frames", 0, 16)
	s.GapsInFrameNumValueAllowedFlag = f.flag("gaps_in_frame_num_value_allowed_flag")
	s.PicWidthInMbsMinus1 = f.ueRange("pic_width_in_mbs_minus1", 0, MaxMbWidth)
	s.PicHeightInMapUnitsMinus1 = f.ueRange("pic_height_in_map_units_minus1", 0, MaxMbHeight)
	s.FrameMbsOnlyFlag = f.flag("frame_mbs_only_flag")
	if !s.FrameMbsOnlyFlag && f.err() == nil {
		s.MbAdaptiveFrameFieldFlag = f.flag("mb_adaptive_frame_field_flag")
	}
	s.Direct8x8InferenceFlag = f.flag("direct_8x8_inference_flag")

	s.FrameCroppingFlag = f.flag("frame_cropping_flag")
	if s.FrameCroppingFlag && f.err() == nil {
		s.FrameCropLeftOffset = f.ueRange("frame_crop_left_offset", 0, MaxWidth)
		s.FrameCropRightOffset = f.ueRange("frame_crop_right_offset", 0, MaxWidth)
		s.FrameCropTopOffset = f.ueRange("frame_crop_top_offset", 0, MaxHeight)
		s.FrameCropBottomOffset = f.ueRange("frame_crop_bottom_offset", 0, MaxHeight)
	}

	s.VuiParametersPresentFlag = f.flag("vui_parameters_present_flag")
	if err := f.err(); err != nil {
		return nil, err
	}

	if s.VuiParametersPresentFlag {
		// Unlike ausocean-av's NewSPS, whose
		// `if sps.VUIParametersPresentFlag { }` branch is empty and never
		// actually parses VUI, this calls the VUI parser.
		vui, err := parseVuiParameters(br)
		if err != nil {
			return nil, err
		}
		s.Vui = vui
	}

	return s, nil
}

// ChromaArrayType is the derived value used throughout the geometry and
// residual-coding equations: 0 when separate_colour_plane_flag is set,
// else chroma_format_idc.
func (s *SpsState) ChromaArrayType() uint32 {
	if s.SeparateColourPlaneFlag {
		return 0
	}
	return s.ChromaFormatIDC
}

// SubWidthC and SubHeightC are derived per Table 6-1. Monochrome
// (ChromaArrayType==0) has no meaningful subsampling factor; both return 0.
func (s *SpsState) SubWidthC() int {
	switch s.ChromaArrayType() {
	case 1, 2:
		return 2
	case 3:
		return 1
	default:
		return 0
	}
}

func (s *SpsState) SubHeightC() int {
	switch s.ChromaArrayType() {
	case 1:
		return 2
	case 2, 3:
		return 1
	default:
		return 0
	}
}

// cropUnits returns (CropUnitX, CropUnitY) per the equations preceding
// 7-19..7-22.
func (s *SpsState) cropUnits() (int, int) {
	chromaArrayType := s.ChromaArrayType()
	cropUnitX := 1
	cropUnitY := 1
	if chromaArrayType != 0 {
		cropUnitX = s.SubWidthC()
		cropUnitY = s.SubHeightC()
	}
	frameMbsOnly := 0
	if s.FrameMbsOnlyFlag {
		frameMbsOnly = 1
	}
	cropUnitY *= 2 - frameMbsOnly
	return cropUnitX, cropUnitY
}

// Resolution returns the cropped (width, height) in luma samples per
// equations 7-19..7-22.
func (s *SpsState) Resolution() (width, height int) {
	width = 16 * (int(s.PicWidthInMbsMinus1) + 1)
	frameMbsOnly := 0
	if s.FrameMbsOnlyFlag {
		frameMbsOnly = 1
	}
	height = 16 * (2 - frameMbsOnly) * (int(s.PicHeightInMapUnitsMinus1) + 1)

	if s.FrameCroppingFlag {
		cropUnitX, cropUnitY := s.cropUnits()
		width -= cropUnitX * (int(s.FrameCropLeftOffset) + int(s.FrameCropRightOffset))
		height -= cropUnitY * (int(s.FrameCropTopOffset) + int(s.FrameCropBottomOffset))
	}
	return width, height
}

// Profile derives the ProfileType for this SPS from profile_idc and its
// constraint_set flags.
func (s *SpsState) Profile() ProfileType {
	return ProfileFromIDC(s.ProfileIDC, s.Constraint[0], s.Constraint[1], s.Constraint[2], s.Constraint[3], s.Constraint[4], s.Constraint[5])
}
