package h264nal

import "github.com/ausocean/h264nal/bits"

// MVCExtension is nal_unit_header_mvc_extension(), Annex H.7.3.1.1.
type MVCExtension struct {
	NonIdrFlag     bool
	PriorityID     uint32
	ViewID         uint32
	TemporalID     uint32
	AnchorPicFlag  bool
	InterViewFlag  bool
	ReservedOneBit bool
}

func parseMVCExtension(br *bits.BitReader) (*MVCExtension, error) {
	f := newFieldReader(br, "nal_unit_header_mvc_extension")
	e := &MVCExtension{}
	e.NonIdrFlag = f.flag("non_idr_flag")
	e.PriorityID = f.bits("priority_id", 6)
	e.ViewID = f.bits("view_id", 10)
	e.TemporalID = f.bits("temporal_id", 3)
	e.AnchorPicFlag = f.flag("anchor_pic_flag")
	e.InterViewFlag = f.flag("inter_view_flag")
	e.ReservedOneBit = f.flag("reserved_one_bit")
	if err := f.err(); err != nil {
		return nil, err
	}
	return e, nil
}

// ThreeDAVCExtension is nal_unit_header_3davc_extension(), Annex J.7.3.1.1.
type ThreeDAVCExtension struct {
	ViewIdx       uint32
	DepthFlag     bool
	NonIdrFlag    bool
	TemporalID    uint32
	AnchorPicFlag bool
	InterViewFlag bool
}

func parseThreeDAVCExtension(br *bits.BitReader) (*ThreeDAVCExtension, error) {
	f := newFieldReader(br, "nal_unit_header_3davc_extension")
	e := &ThreeDAVCExtension{}
	e.ViewIdx = f.bits("view_idx", 8)
	e.DepthFlag = f.flag("depth_flag")
	e.NonIdrFlag = f.flag("non_idr_flag")
	e.TemporalID = f.bits("temporal_id", 3)
	e.AnchorPicFlag = f.flag("anchor_pic_flag")
	e.InterViewFlag = f.flag("inter_view_flag")
	if err := f.err(); err != nil {
		return nil, err
	}
	return e, nil
}

// SVCExtension is nal_unit_header_svc_extension(), Annex G.7.3.1.1.
type SVCExtension struct {
	IdrFlag              bool
	PriorityID           uint32
	NoInterLayerPredFlag bool
	DependencyID         uint32
	QualityID            uint32
	TemporalID           uint32
	UseRefBasePicFlag    bool
	DiscardableFlag      bool
	OutputFlag           bool
	ReservedThree2Bits   uint32
}

func parseSVCExtension(br *bits.BitReader) (*SVCExtension, error) {
	f := newFieldReader(br, "nal_unit_header_svc_extension")
	e := &SVCExtension{}
	e.IdrFlag = f.flag("idr_flag")
	e.PriorityID = f.bits("priority_id", 6)
	e.NoInterLayerPredFlag = f.flag("no_inter_layer_pred_flag")
	e.DependencyID = f.bits("dependency_id", 3)
	e.QualityID = f.bits("quality_id", 4)
	e.TemporalID = f.bits("temporal_id", 3)
	e.UseRefBasePicFlag = f.flag("use_ref_base_pic_flag")
	e.DiscardableFlag = f.flag("discardable_flag")
	e.OutputFlag = f.flag("output_flag")
	e.ReservedThree2Bits = f.bits("reserved_three_2bits", 2)
	if err := f.err(); err != nil {
		return nil, err
	}
	return e, nil
}

// NalUnitHeader is the parsed nal_unit_header(), section 7.3.1 plus its
// conditional SVC/MVC/3D-AVC extensions.
type NalUnitHeader struct {
	ForbiddenZeroBit bool
	NalRefIdc        uint8
	NalUnitType      NalUnitType

	SvcExtensionFlag    bool
	Avc3DExtensionFlag  bool
	SVCExtension        *SVCExtension
	MVCExtension         *MVCExtension
	ThreeDAVCExtension   *ThreeDAVCExtension
}

// ParseNalUnitHeader parses the NAL unit header (and, for types 14/20/21,
// its extension) from br. br must be positioned at the start of the NAL
// unit (RBSP-unescaped bytes already removed of the start code).
func ParseNalUnitHeader(br *bits.BitReader) (*NalUnitHeader, error) {
	f := newFieldReader(br, "nal_unit_header")
	h := &NalUnitHeader{}

	h.ForbiddenZeroBit = f.flag("forbidden_zero_bit")
	h.NalRefIdc = uint8(f.bits("nal_ref_idc", 2))
	h.NalUnitType = NalUnitType(f.bits("nal_unit_type", 5))
	if err := f.err(); err != nil {
		return nil, err
	}

	switch h.NalUnitType {
	case NalUnitTypePrefix, NalUnitTypeCodedSliceExtension:
		h.SvcExtensionFlag = f.flag("svc_extension_flag")
		if err := f.err(); err != nil {
			return nil, err
		}
		if h.SvcExtensionFlag {
			ext, err := parseSVCExtension(br)
			if err != nil {
				return nil, err
			}
			h.SVCExtension = ext
		} else {
			ext, err := parseMVCExtension(br)
			if err != nil {
				return nil, err
			}
			h.MVCExtension = ext
		}
	case NalUnitTypeCodedSliceExtensionDepthView:
		h.Avc3DExtensionFlag = f.flag("avc_3d_extension_flag")
		if err := f.err(); err != nil {
			return nil, err
		}
		if h.Avc3DExtensionFlag {
			ext, err := parseThreeDAVCExtension(br)
			if err != nil {
				return nil, err
			}
			h.ThreeDAVCExtension = ext
		} else {
			ext, err := parseMVCExtension(br)
			if err != nil {
				return nil, err
			}
			h.MVCExtension = ext
		}
	}

	return h, nil
}

// PeekNalUnitType classifies a buffer's NAL unit type by parsing only the
// header byte, without unescaping or parsing the payload. Grounded on
// H264NalUnitHeaderParser::GetNalUnitType in h264_nal_unit_parser.cc: a
// cheap pre-filter for callers that want to skip full parsing of NAL types
// they don't care about (e.g. SEI).
func PeekNalUnitType(data []byte) (NalUnitType, error) {
	if len(data) < 1 {
		return 0, &OutOfDataError{Context: "PeekNalUnitType"}
	}
	return NalUnitType(data[0] & 0x1f), nil
}
