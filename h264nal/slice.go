package h264nal

import "github.com/ausocean/h264nal/bits"

// RefPicListModification is the parsed ref_pic_list_modification()
// sub-structure, section 7.3.3.1: a list, per reference picture list, of
// (modification_of_pic_nums_idc, operand) pairs terminated by an idc of 3.
type RefPicListModification struct {
	FlagL0 bool
	IdcL0  []uint32
	ArgL0  []uint32 // abs_diff_pic_num_minus1 or long_term_pic_num, by idc

	FlagL1 bool
	IdcL1  []uint32
	ArgL1  []uint32
}

func parseModificationLoop(f *fieldReader) (idcs, args []uint32) {
	for f.err() == nil {
		idc := f.ue("modification_of_pic_nums_idc")
		if f.err() != nil {
			return idcs, args
		}
		idcs = append(idcs, idc)
		if idc == 3 {
			break
		}
		var arg uint32
		switch idc {
		case 0, 1:
			arg = f.ue("abs_diff_pic_num_minus1")
		case 2:
			arg = f.ue("long_term_pic_num")
		}
		args = append(args, arg)
	}
	return idcs, args
}

func parseRefPicListModification(br *bits.BitReader, sliceType SliceType) (*RefPicListModification, error) {
	f := newFieldReader(br, "ref_pic_list_modification")
	m := &RefPicListModification{}

	m.FlagL0 = f.flag("ref_pic_list_modification_flag_l0")
	if m.FlagL0 && f.err() == nil {
		m.IdcL0, m.ArgL0 = parseModificationLoop(f)
	}
	if sliceType.Base() == SliceTypeB && f.err() == nil {
		m.FlagL1 = f.flag("ref_pic_list_modification_flag_l1")
		if m.FlagL1 && f.err() == nil {
			m.IdcL1, m.ArgL1 = parseModificationLoop(f)
		}
	}

	if err := f.err(); err != nil {
		return nil, err
	}
	return m, nil
}

// PredWeightTable is the parsed pred_weight_table() sub-structure, section
// 7.3.3.2.
type PredWeightTable struct {
	LumaLog2WeightDenom   uint32
	ChromaLog2WeightDenom uint32

	LumaWeightL0Flag []bool
	LumaWeightL0     []int32
	LumaOffsetL0     []int32
	ChromaWeightL0Flag []bool
	ChromaWeightL0     [][2]int32
	ChromaOffsetL0     [][2]int32

	LumaWeightL1Flag []bool
	LumaWeightL1     []int32
	LumaOffsetL1     []int32
	ChromaWeightL1Flag []bool
	ChromaWeightL1     [][2]int32
	ChromaOffsetL1     [][2]int32
}

func parsePredWeightTable(br *bits.BitReader, sliceType SliceType, chromaArrayType uint32, numRefIdxL0ActiveMinus1, numRefIdxL1ActiveMinus1 uint32) (*PredWeightTable, error) {
	f := newFieldReader(br, "pred_weight_table")
	w := &PredWeightTable{}

	w.LumaLog2WeightDenom = f.ueRange("luma_log2_weight_denom", 0, 7)
	if chromaArrayType != 0 && f.err() == nil {
		w.ChromaLog2WeightDenom = f.ueRange("chroma_log2_weight_denom", 0, 7)
	}

	parseList := func(n uint32) (lumaFlag []bool, lumaW, lumaO []int32, chromaFlag []bool, chromaW, chromaO [][2]int32) {
		count := int(n) + 1
		lumaFlag = make([]bool, count)
		lumaW = make([]int32, count)
		lumaO = make([]int32, count)
		if chromaArrayType != 0 {
			chromaFlag = make([]bool, count)
			chromaW = make([][2]int32, count)
			chromaO = make([][2]int32, count)
		}
		for i := 0; i < count && f.err() == nil; i++ {
			lumaFlag[i] = f.flag("luma_weight_flag")
			if lumaFlag[i] && f.err() == nil {
				lumaW[i] = f.se("luma_weight")
				lumaO[i] = f.se("luma_offset")
			}
			if chromaArrayType != 0 && f.err() == nil {
				chromaFlag[i] = f.flag("chroma_weight_flag")
				if chromaFlag[i] && f.err() == nil {
					for j := 0; j < 2 && f.err() == nil; j++ {
						chromaW[i][j] = f.se("chroma_weight")
						chromaO[i][j] = f.se("chroma_offset")
					}
				}
			}
		}
		return
	}

	w.LumaWeightL0Flag, w.LumaWeightL0, w.LumaOffsetL0, w.ChromaWeightL0Flag, w.ChromaWeightL0, w.ChromaOffsetL0 = parseList(numRefIdxL0ActiveMinus1)

	if sliceType.Base() == SliceTypeB && f.err() == nil {
		w.LumaWeightL1Flag, w.LumaWeightL1, w.LumaOffsetL1, w.ChromaWeightL1Flag, w.ChromaWeightL1, w.ChromaOffsetL1 = parseList(numRefIdxL1ActiveMinus1)
	}

	if err := f.err(); err != nil {
		return nil, err
	}
	return w, nil
}

// drpmElement is one memory_management_control_operation tuple within an
// adaptive dec_ref_pic_marking() loop.
type drpmElement struct {
	MemoryManagementControlOperation uint32
	DifferenceOfPicNumsMinus1        uint32
	LongTermPicNum                   uint32
	LongTermFrameIdx                 uint32
	MaxLongTermFrameIdxPlus1         uint32
}

// DecRefPicMarking is the parsed dec_ref_pic_marking() sub-structure,
// section 7.3.3.3.
type DecRefPicMarking struct {
	NoOutputOfPriorPicsFlag       bool
	LongTermReferenceFlag         bool
	AdaptiveRefPicMarkingModeFlag bool
	Elements                      []drpmElement
}

func parseDecRefPicMarking(br *bits.BitReader, idrPic bool) (*DecRefPicMarking, error) {
	f := newFieldReader(br, "dec_ref_pic_marking")
	d := &DecRefPicMarking{}

	if idrPic {
		d.NoOutputOfPriorPicsFlag = f.flag("no_output_of_prior_pics_flag")
		d.LongTermReferenceFlag = f.flag("long_term_reference_flag")
	} else {
		d.AdaptiveRefPicMarkingModeFlag = f.flag("adaptive_ref_pic_marking_mode_flag")
		if d.AdaptiveRefPicMarkingModeFlag {
			for f.err() == nil {
				var e drpmElement
				e.MemoryManagementControlOperation = f.ue("memory_management_control_operation")
				if f.err() != nil {
					break
				}
				switch e.MemoryManagementControlOperation {
				case 1, 3:
					e.DifferenceOfPicNumsMinus1 = f.ue("difference_of_pic_nums_minus1")
				}
				if e.MemoryManagementControlOperation == 2 {
					e.LongTermPicNum = f.ue("long_term_pic_num")
				}
				switch e.MemoryManagementControlOperation {
				case 3, 6:
					e.LongTermFrameIdx = f.ue("long_term_frame_idx")
				}
				if e.MemoryManagementControlOperation == 4 {
					e.MaxLongTermFrameIdxPlus1 = f.ue("max_long_term_frame_idx_plus1")
				}
				d.Elements = append(d.Elements, e)
				if e.MemoryManagementControlOperation == 0 {
					break
				}
			}
		}
	}

	if err := f.err(); err != nil {
		return nil, err
	}
	return d, nil
}

// SliceHeaderState is a parsed slice header, section 7.3.3. Its bit widths
// and field presence depend on the active SPS and PPS (threaded in by the
// caller, which must resolve pic_parameter_set_id → PPS → seq_parameter_set_id
// → SPS before calling ParseSliceHeader).
type SliceHeaderState struct {
	FirstMbInSlice    uint32
	SliceType         SliceType
	PicParameterSetID uint32
	ColourPlaneID     uint32
	FrameNum          uint32
	FieldPicFlag      bool
	BottomFieldFlag   bool
	IdrPicID          uint32
	PicOrderCntLsb    uint32
	DeltaPicOrderCntBottom int32
	DeltaPicOrderCnt       [2]int32
	RedundantPicCnt        uint32

	DirectSpatialMvPredFlag bool

	NumRefIdxActiveOverrideFlag bool
	NumRefIdxL0ActiveMinus1     uint32
	NumRefIdxL1ActiveMinus1     uint32

	RefPicListModification *RefPicListModification
	PredWeightTable        *PredWeightTable
	DecRefPicMarking       *DecRefPicMarking

	CabacInitIDC uint32
	SliceQpDelta int32

	SpForSwitchFlag bool
	SliceQsDelta    int32

	DisableDeblockingFilterIDC uint32
	SliceAlphaC0OffsetDiv2     int32
	SliceBetaOffsetDiv2        int32

	SliceGroupChangeCycle uint32
}

// ceilDiv returns ceil(a/b) for b > 0.
func ceilDiv(a, b uint32) uint32 {
	if b == 0 {
		return 0
	}
	return (a + b - 1) / b
}

// ParseSliceHeader parses a slice header RBSP (already unescaped) for a
// NAL unit with the given nal_ref_idc and nal_unit_type, against the PPS
// and SPS it depends on. Returns MissingParameterSetError if either is
// nil — callers are expected to have already resolved them via a
// ParamSetStore.
func ParseSliceHeader(rbsp []byte, nalRefIdc uint8, nalUnitType NalUnitType, pps *PpsState, sps *SpsState) (*SliceHeaderState, error) {
	if pps == nil {
		return nil, &MissingParameterSetError{Kind: ParameterSetPPS}
	}
	if sps == nil {
		return nil, &MissingParameterSetError{Kind: ParameterSetSPS, ID: pps.SeqParameterSetID}
	}

	br := bits.NewBitReader(rbsp)
	return parseSliceHeader(br, nalRefIdc, nalUnitType, pps, sps)
}

// parseSliceHeader parses a slice header from a BitReader already
// positioned at the start of its RBSP. pps and sps must be non-nil.
func parseSliceHeader(br *bits.BitReader, nalRefIdc uint8, nalUnitType NalUnitType, pps *PpsState, sps *SpsState) (*SliceHeaderState, error) {
	f := newFieldReader(br, "slice_header")
	h := &SliceHeaderState{}

	idrPic := nalUnitType == NalUnitTypeCodedSliceIDR

	h.FirstMbInSlice = f.ue("first_mb_in_slice")
	h.SliceType = SliceType(f.ueRange("slice_type", 0, 9))
	h.PicParameterSetID = f.ueRange("pic_parameter_set_id", 0, 255)

	if sps.SeparateColourPlaneFlag && f.err() == nil {
		h.ColourPlaneID = f.bits("colour_plane_id", 2)
	}

	frameNumBits := int(sps.Log2MaxFrameNumMinus4) + 4
	h.FrameNum = f.bits("frame_num", frameNumBits)

	if !sps.FrameMbsOnlyFlag && f.err() == nil {
		h.FieldPicFlag = f.flag("field_pic_flag")
		if h.FieldPicFlag && f.err() == nil {
			h.BottomFieldFlag = f.flag("bottom_field_flag")
		}
	}

	if idrPic && f.err() == nil {
		h.IdrPicID = f.ue("idr_pic_id")
	}

	if sps.PicOrderCntType == 0 && f.err() == nil {
		pocLsbBits := int(sps.Log2MaxPicOrderCntLsbMinus4) + 4
		h.PicOrderCntLsb = f.bits("pic_order_cnt_lsb", pocLsbBits)
		if pps.BottomFieldPicOrderInFramePresentFlag && !h.FieldPicFlag && f.err() == nil {
			h.DeltaPicOrderCntBottom = f.se("delta_pic_order_cnt_bottom")
		}
	}
	if sps.PicOrderCntType == 1 && !sps.DeltaPicOrderAlwaysZeroFlag && f.err() == nil {
		h.DeltaPicOrderCnt[0] = f.se("delta_pic_order_cnt_0")
		if pps.BottomFieldPicOrderInFramePresentFlag && !h.FieldPicFlag && f.err() == nil {
			h.DeltaPicOrderCnt[1] = f.se("delta_pic_order_cnt_1")
		}
	}

	if pps.RedundantPicCntPresentFlag && f.err() == nil {
		h.RedundantPicCnt = f.ueRange("redundant_pic_cnt", 0, 127)
	}

	base := h.SliceType.Base()
	if base == SliceTypeB && f.err() == nil {
		h.DirectSpatialMvPredFlag = f.flag("direct_spatial_mv_pred_flag")
	}

	h.NumRefIdxL0ActiveMinus1 = pps.NumRefIdxL0DefaultActiveMinus1
	h.NumRefIdxL1ActiveMinus1 = pps.NumRefIdxL1DefaultActiveMinus1
	if (base == SliceTypeP || base == SliceTypeSP || base == SliceTypeB) && f.err() == nil {
		h.NumRefIdxActiveOverrideFlag = f.flag("num_ref_idx_active_override_flag")
		if h.NumRefIdxActiveOverrideFlag && f.err() == nil {
			h.NumRefIdxL0ActiveMinus1 = f.ueRange("num_ref_idx_l0_active_minus1", 0, 31)
			if base == SliceTypeB && f.err() == nil {
				h.NumRefIdxL1ActiveMinus1 = f.ueRange("num_ref_idx_l1_active_minus1", 0, 31)
			}
		}
	}

	if f.err() != nil {
		return nil, f.err()
	}

	// Section H.7.3.3/ref_pic_list_mvc_modification for nal_unit_type 20 is
	// not implemented: it has its own MVC-specific syntax (not plain
	// ref_pic_list_modification). This mirrors ausocean-av's
	// NewRefPicListMVCModifiation stub.
	if nalUnitType != NalUnitTypeCodedSliceExtension && base != SliceTypeI && base != SliceTypeSI {
		rplm, err := parseRefPicListModification(br, h.SliceType)
		if err != nil {
			return nil, err
		}
		h.RefPicListModification = rplm
	}

	needsWeightTable := (pps.WeightedPredFlag && (base == SliceTypeP || base == SliceTypeSP)) ||
		(pps.WeightedBipredIDC == 1 && base == SliceTypeB)
	if needsWeightTable {
		pwt, err := parsePredWeightTable(br, h.SliceType, sps.ChromaArrayType(), h.NumRefIdxL0ActiveMinus1, h.NumRefIdxL1ActiveMinus1)
		if err != nil {
			return nil, err
		}
		h.PredWeightTable = pwt
	}

	if nalRefIdc != 0 {
		drpm, err := parseDecRefPicMarking(br, idrPic)
		if err != nil {
			return nil, err
		}
		h.DecRefPicMarking = drpm
	}

	if pps.EntropyCodingModeFlag && base != SliceTypeI && base != SliceTypeSI {
		h.CabacInitIDC = f.ueRange("cabac_init_idc", 0, 2)
	}

	h.SliceQpDelta = f.se("slice_qp_delta")

	if base == SliceTypeSP || base == SliceTypeSI {
		if base == SliceTypeSP {
			h.SpForSwitchFlag = f.flag("sp_for_switch_flag")
		}
		h.SliceQsDelta = f.se("slice_qs_delta")
	}

	if pps.DeblockingFilterControlPresentFlag && f.err() == nil {
		h.DisableDeblockingFilterIDC = f.ueRange("disable_deblocking_filter_idc", 0, 2)
		if h.DisableDeblockingFilterIDC != 1 && f.err() == nil {
			h.SliceAlphaC0OffsetDiv2 = f.seRange("slice_alpha_c0_offset_div2", -6, 6)
			h.SliceBetaOffsetDiv2 = f.seRange("slice_beta_offset_div2", -6, 6)
		}
	}

	if pps.NumSliceGroupsMinus1 > 0 && (pps.SliceGroupMapType == 3 || pps.SliceGroupMapType == 4 || pps.SliceGroupMapType == 5) && f.err() == nil {
		picSizeInMapUnits := (sps.PicWidthInMbsMinus1 + 1) * (sps.PicHeightInMapUnitsMinus1 + 1)
		sliceGroupChangeRate := pps.SliceGroupChangeRateMinus1 + 1
		// ausocean-av's NewSliceContext divides PicSizeInMapUnitsMinus1
		// directly by SliceGroupChangeRateMinus1 here (both off by one
		// versus the standard's ceil(PicSizeInMapUnits /
		// SliceGroupChangeRate) formula); this uses the corrected
		// quantities.
		width := int(ceilLog2(ceilDiv(picSizeInMapUnits, sliceGroupChangeRate) + 1))
		h.SliceGroupChangeCycle = f.bits("slice_group_change_cycle", width)
	}

	if err := f.err(); err != nil {
		return nil, err
	}
	return h, nil
}
