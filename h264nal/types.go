package h264nal

import "fmt"

// NalUnitType is the nal_unit_type field of a NAL unit header, per Table
// 7-1 of ITU-T H.264.
type NalUnitType uint8

const (
	NalUnitTypeUnspecified0                 NalUnitType = 0
	NalUnitTypeCodedSliceNonIDR              NalUnitType = 1
	NalUnitTypeCodedSliceDataPartitionA       NalUnitType = 2
	NalUnitTypeCodedSliceDataPartitionB       NalUnitType = 3
	NalUnitTypeCodedSliceDataPartitionC       NalUnitType = 4
	NalUnitTypeCodedSliceIDR                 NalUnitType = 5
	NalUnitTypeSEI                           NalUnitType = 6
	NalUnitTypeSPS                           NalUnitType = 7
	NalUnitTypePPS                           NalUnitType = 8
	NalUnitTypeAccessUnitDelimiter           NalUnitType = 9
	NalUnitTypeEndOfSequence                 NalUnitType = 10
	NalUnitTypeEndOfStream                   NalUnitType = 11
	NalUnitTypeFillerData                    NalUnitType = 12
	NalUnitTypeSPSExtension                  NalUnitType = 13
	NalUnitTypePrefix                        NalUnitType = 14
	NalUnitTypeSubsetSPS                     NalUnitType = 15
	NalUnitTypeReserved16                    NalUnitType = 16
	NalUnitTypeReserved17                    NalUnitType = 17
	NalUnitTypeReserved18                    NalUnitType = 18
	NalUnitTypeCodedSliceAux                 NalUnitType = 19
	NalUnitTypeCodedSliceExtension           NalUnitType = 20
	NalUnitTypeCodedSliceExtensionDepthView  NalUnitType = 21
	NalUnitTypeReserved22                    NalUnitType = 22
	NalUnitTypeReserved23                    NalUnitType = 23
	NalUnitTypeUnspecified24                 NalUnitType = 24
	NalUnitTypeUnspecified25                 NalUnitType = 25
	NalUnitTypeUnspecified26                 NalUnitType = 26
	NalUnitTypeUnspecified27                 NalUnitType = 27
	NalUnitTypeUnspecified28                 NalUnitType = 28
	NalUnitTypeUnspecified29                 NalUnitType = 29
	NalUnitTypeUnspecified30                 NalUnitType = 30
	NalUnitTypeUnspecified31                 NalUnitType = 31
)

// Reserved reports whether t falls in one of the standard's reserved
// ranges (16-18, 21-23).
func (t NalUnitType) Reserved() bool {
	return (t >= 16 && t <= 18) || (t >= 21 && t <= 23)
}

// Unspecified reports whether t falls in one of the standard's
// unspecified ranges (0, 24-31).
func (t NalUnitType) Unspecified() bool {
	return t == 0 || (t >= 24 && t <= 31)
}

func (t NalUnitType) String() string {
	switch t {
	case NalUnitTypeCodedSliceNonIDR:
		return "CodedSliceNonIDR"
	case NalUnitTypeCodedSliceDataPartitionA:
		return "CodedSliceDataPartitionA"
	case NalUnitTypeCodedSliceDataPartitionB:
		return "CodedSliceDataPartitionB"
	case NalUnitTypeCodedSliceDataPartitionC:
		return "CodedSliceDataPartitionC"
	case NalUnitTypeCodedSliceIDR:
		return "CodedSliceIDR"
	case NalUnitTypeSEI:
		return "SEI"
	case NalUnitTypeSPS:
		return "SPS"
	case NalUnitTypePPS:
		return "PPS"
	case NalUnitTypeAccessUnitDelimiter:
		return "AccessUnitDelimiter"
	case NalUnitTypeEndOfSequence:
		return "EndOfSequence"
	case NalUnitTypeEndOfStream:
		return "EndOfStream"
	case NalUnitTypeFillerData:
		return "FillerData"
	case NalUnitTypeSPSExtension:
		return "SPSExtension"
	case NalUnitTypePrefix:
		return "Prefix"
	case NalUnitTypeSubsetSPS:
		return "SubsetSPS"
	case NalUnitTypeCodedSliceAux:
		return "CodedSliceAux"
	case NalUnitTypeCodedSliceExtension:
		return "CodedSliceExtension"
	case NalUnitTypeCodedSliceExtensionDepthView:
		return "CodedSliceExtensionDepthView"
	default:
		if t.Reserved() {
			return fmt.Sprintf("Reserved(%d)", uint8(t))
		}
		return fmt.Sprintf("Unspecified(%d)", uint8(t))
	}
}

// SliceType is the slice_type field of a slice header, per Table 7-6.
// Values 5-9 repeat 0-4 with the added meaning "all slices of the picture
// have this type"; callers typically branch on SliceType % 5.
type SliceType uint32

const (
	SliceTypeP  SliceType = 0
	SliceTypeB  SliceType = 1
	SliceTypeI  SliceType = 2
	SliceTypeSP SliceType = 3
	SliceTypeSI SliceType = 4
)

// Base returns t modulo 5, collapsing the "all slices" variants (5-9) onto
// their base meaning (0-4).
func (t SliceType) Base() SliceType {
	return t % 5
}

func (t SliceType) String() string {
	switch t.Base() {
	case SliceTypeP:
		return "P"
	case SliceTypeB:
		return "B"
	case SliceTypeI:
		return "I"
	case SliceTypeSP:
		return "SP"
	case SliceTypeSI:
		return "SI"
	default:
		return fmt.Sprintf("SliceType(%d)", uint32(t))
	}
}

// ProfileType classifies an SPS by profile_idc plus the constraint_set
// flags that disambiguate it, per Annex A.2.
type ProfileType int

const (
	ProfileUnknown ProfileType = iota
	ProfileConstrainedBaseline
	ProfileBaseline
	ProfileMain
	ProfileExtended
	ProfileHigh
	ProfileProgressiveHigh
	ProfileConstrainedHigh
	ProfileHigh10
	ProfileHigh10Intra
	ProfileHigh422
	ProfileHigh422Intra
	ProfileHigh444
	ProfileHigh444Intra
	ProfileCAVLC444Intra
)

func (p ProfileType) String() string {
	switch p {
	case ProfileConstrainedBaseline:
		return "Constrained Baseline"
	case ProfileBaseline:
		return "Baseline"
	case ProfileMain:
		return "Main"
	case ProfileExtended:
		return "Extended"
	case ProfileHigh:
		return "High"
	case ProfileProgressiveHigh:
		return "Progressive High"
	case ProfileConstrainedHigh:
		return "Constrained High"
	case ProfileHigh10:
		return "High 10"
	case ProfileHigh10Intra:
		return "High 10 Intra"
	case ProfileHigh422:
		return "High 4:2:2"
	case ProfileHigh422Intra:
		return "High 4:2:2 Intra"
	case ProfileHigh444:
		return "High 4:4:4 Predictive"
	case ProfileHigh444Intra:
		return "High 4:4:4 Intra"
	case ProfileCAVLC444Intra:
		return "CAVLC 4:4:4 Intra"
	default:
		return "Unknown"
	}
}

// ProfileFromIDC derives a ProfileType from profile_idc and the six
// constraint_set flags, per Annex A.2.
func ProfileFromIDC(profileIDC uint8, cs0, cs1, cs2, cs3, cs4, cs5 bool) ProfileType {
	switch profileIDC {
	case 66:
		if cs1 {
			return ProfileConstrainedBaseline
		}
		return ProfileBaseline
	case 77:
		return ProfileMain
	case 88:
		return ProfileExtended
	case 100:
		switch {
		case cs4:
			return ProfileProgressiveHigh
		case cs5:
			return ProfileConstrainedHigh
		default:
			return ProfileHigh
		}
	case 110:
		if cs3 {
			return ProfileHigh10Intra
		}
		return ProfileHigh10
	case 122:
		if cs3 {
			return ProfileHigh422Intra
		}
		return ProfileHigh422
	case 144:
		if cs3 {
			return ProfileHigh444Intra
		}
		return ProfileHigh444
	case 44:
		return ProfileCAVLC444Intra
	default:
		return ProfileUnknown
	}
}

// Size limits used to bound Exp-Golomb-derived quantities against
// adversarial inputs, per the standard's macroblock dimension limits.
const (
	MaxMbWidth    = 1055
	MaxMbHeight   = 1055
	MaxWidth      = MaxMbWidth * 16
	MaxHeight     = MaxMbHeight * 16
	MaxMbPicSize  = 139264
)

// chromaFormatDefaultProfiles lists the profile_idc values for which
// chroma_format_idc is actually present in the bitstream; for all other
// profiles it must default to 1 (4:2:0).
var chromaFormatDefaultProfiles = map[uint8]bool{
	44:  true,
	83:  true,
	86:  true,
	100: true,
	110: true,
	118: true,
	122: true,
	128: true,
	134: true,
	135: true,
	138: true,
	139: true,
	244: true,
}

// profileSignalsChromaFormat reports whether profileIDC's bitstream
// carries an explicit chroma_format_idc field.
func profileSignalsChromaFormat(profileIDC uint8) bool {
	return chromaFormatDefaultProfiles[profileIDC]
}
