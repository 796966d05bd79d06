package h264nal

import "github.com/ausocean/h264nal/bits"

// PpsState is a parsed Picture Parameter Set, per section 7.3.2.2.
type PpsState struct {
	PicParameterSetID uint32
	SeqParameterSetID uint32

	EntropyCodingModeFlag                     bool
	BottomFieldPicOrderInFramePresentFlag      bool

	NumSliceGroupsMinus1 uint32
	SliceGroupMapType    uint32
	RunLengthMinus1      []uint32
	TopLeft              []uint32
	BottomRight          []uint32
	SliceGroupChangeDirectionFlag bool
	SliceGroupChangeRateMinus1    uint32
	PicSizeInMapUnitsMinus1       uint32
	SliceGroupID                  []uint32

	NumRefIdxL0DefaultActiveMinus1 uint32
	NumRefIdxL1DefaultActiveMinus1 uint32
	WeightedPredFlag               bool
	WeightedBipredIDC              uint32
	PicInitQpMinus26               int32
	PicInitQsMinus26               int32
	ChromaQpIndexOffset            int32
	DeblockingFilterControlPresentFlag bool
	ConstrainedIntraPredFlag       bool
	RedundantPicCntPresentFlag     bool

	Transform8x8ModeFlag    bool
	PicScalingMatrixPresentFlag bool
	PicScalingListPresentFlag   []bool
	ScalingList4x4              [][]int
	ScalingList8x8              [][]int
	SecondChromaQpIndexOffset   int32

	// ChromaFormatIDC is threaded in from the SPS this PPS refers to, so
	// that the 8x8 scaling-list count (6 vs 2 lists) is correct.
	ChromaFormatIDC uint32
}

// ParsePps parses a Picture Parameter Set RBSP (already unescaped).
// Once seq_parameter_set_id has been read, lookupSPS resolves the SPS it
// names, and that SPS's chroma_format_idc sets how many 8x8 scaling lists
// are read. If lookupSPS returns nil, ParsePps fails with
// MissingParameterSetError.
func ParsePps(rbsp []byte, lookupSPS func(id uint32) *SpsState) (*PpsState, error) {
	br := bits.NewBitReader(rbsp)
	return parsePps(br, lookupSPS)
}

// parsePps parses a Picture Parameter Set from a BitReader already
// positioned at the start of its RBSP.
func parsePps(br *bits.BitReader, lookupSPS func(id uint32) *SpsState) (*PpsState, error) {
	f := newFieldReader(br, "pps")
	p := &PpsState{}

	p.PicParameterSetID = f.ueRange("pic_parameter_set_id", 0, 255)
	p.SeqParameterSetID = f.ueRange("seq_parameter_set_id", 0, 31)
	if err := f.err(); err != nil {
		return nil, err
	}

	sps := lookupSPS(p.SeqParameterSetID)
	if sps == nil {
		return nil, &MissingParameterSetError{Kind: ParameterSetSPS, ID: p.SeqParameterSetID}
	}
	p.ChromaFormatIDC = sps.ChromaFormatIDC

	p.EntropyCodingModeFlag = f.flag("entropy_coding_mode_flag")
	p.BottomFieldPicOrderInFramePresentFlag = f.flag("bottom_field_pic_order_in_frame_present_flag")
	p.NumSliceGroupsMinus1 = f.ue("num_slice_groups_minus1")

	if p.NumSliceGroupsMinus1 > 0 && f.err() == nil {
		p.SliceGroupMapType = f.ueRange("slice_group_map_type", 0, 6)
		n := int(p.NumSliceGroupsMinus1) + 1
		switch p.SliceGroupMapType {
		case 0:
			p.RunLengthMinus1 = make([]uint32, n)
			for i := 0; i < n && f.err() == nil; i++ {
				p.RunLengthMinus1[i] = f.ue("run_length_minus1")
			}
		case 2:
			p.TopLeft = make([]uint32, n-1)
			p.BottomRight = make([]uint32, n-1)
			for i := 0; i < n-1 && f.err() == nil; i++ {
				p.TopLeft[i] = f.ue("top_left")
				p.BottomRight[i] = f.ue("bottom_right")
			}
		case 3, 4, 5:
			p.SliceGroupChangeDirectionFlag = f.flag("slice_group_change_direction_flag")
			p.SliceGroupChangeRateMinus1 = f.ue("slice_group_change_rate_minus1")
		case 6:
			p.PicSizeInMapUnitsMinus1 = f.ueRange("pic_size_in_map_units_minus1", 0, MaxMbPicSize-1)
			if f.err() == nil {
				count := int(p.PicSizeInMapUnitsMinus1) + 1
				width := int(ceilLog2(p.NumSliceGroupsMinus1 + 1))
				if width == 0 {
					width = 1
				}
				p.SliceGroupID = make([]uint32, count)
				for i := 0; i < count && f.err() == nil; i++ {
					p.SliceGroupID[i] = f.bits("slice_group_id", width)
				}
			}
		}
	}

	p.NumRefIdxL0DefaultActiveMinus1 = f.ueRange("num_ref_idx_l0_default_active_minus1", 0, 31)
	p.NumRefIdxL1DefaultActiveMinus1 = f.ueRange("num_ref_idx_l1_default_active_minus1", 0, 31)
	p.WeightedPredFlag = f.flag("weighted_pred_flag")
	p.WeightedBipredIDC = f.bitsRange("weighted_bipred_idc", 2, 0, 2)
	p.PicInitQpMinus26 = f.se("pic_init_qp_minus26")
	p.PicInitQsMinus26 = f.se("pic_init_qs_minus26")
	p.ChromaQpIndexOffset = f.seRange("chroma_qp_index_offset", -12, 12)
	p.DeblockingFilterControlPresentFlag = f.flag("deblocking_filter_control_present_flag")
	p.ConstrainedIntraPredFlag = f.flag("constrained_intra_pred_flag")
	p.RedundantPicCntPresentFlag = f.flag("redundant_pic_cnt_present_flag")

	if f.err() != nil {
		return nil, f.err()
	}

	if moreRbspData(br) {
		p.Transform8x8ModeFlag = f.flag("transform_8x8_mode_flag")
		p.PicScalingMatrixPresentFlag = f.flag("pic_scaling_matrix_present_flag")
		if p.PicScalingMatrixPresentFlag && f.err() == nil {
			eightCount := 2
			if p.ChromaFormatIDC == 3 {
				eightCount = 6
			}
			total := 6
			if p.Transform8x8ModeFlag {
				total += eightCount
			}
			p.PicScalingListPresentFlag = make([]bool, total)
			p.ScalingList4x4 = make([][]int, 6)
			p.ScalingList8x8 = make([][]int, total-6)
			for i := 0; i < total && f.err() == nil; i++ {
				p.PicScalingListPresentFlag[i] = f.flag("pic_scaling_list_present_flag")
				if !p.PicScalingListPresentFlag[i] || f.err() != nil {
					continue
				}
				if i < 6 {
					list, _, err := scalingList(br, 16, defaultScalingList4x4(i))
					if err != nil {
						f.fail("pic_scaling_list_4x4", err)
						break
					}
					p.ScalingList4x4[i] = list
				} else {
					list, _, err := scalingList(br, 64, defaultScalingList8x8(i-6))
					if err != nil {
						f.fail("pic_scaling_list_8x8", err)
						break
					}
					p.ScalingList8x8[i-6] = list
				}
			}
		}
		p.SecondChromaQpIndexOffset = f.se("second_chroma_qp_index_offset")
	}

	if err := f.err(); err != nil {
		return nil, err
	}
	if err := rbspTrailingBits(br); err != nil {
		return nil, err
	}
	return p, nil
}
