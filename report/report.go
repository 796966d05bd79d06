// Package report renders parsed H.264 bitstream state to JSON for external
// diagnostic tooling, using jsoniter rather than encoding/json to match how
// the rest of this module's parent project serializes its wire types.
package report

import (
	jsoniter "github.com/json-iterator/go"

	"github.com/ausocean/h264nal/h264nal"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// NalUnitReport is the JSON-facing view of an h264nal.NalUnitState. It
// flattens the tagged NalUnitPayload union into a single "type" field plus
// whichever payload key is relevant, since Go's zero-valued nil fields
// would otherwise render as a wall of `null` in the output.
type NalUnitReport struct {
	Type         string `json:"type"`
	NalRefIdc    uint8  `json:"nal_ref_idc"`
	Offset       int    `json:"offset,omitempty"`
	Length       int    `json:"length,omitempty"`
	ParsedLength int    `json:"parsed_length,omitempty"`
	Checksum     string `json:"checksum,omitempty"`

	Slice        *h264nal.SliceHeaderState  `json:"slice,omitempty"`
	Sps          *h264nal.SpsState          `json:"sps,omitempty"`
	Pps          *h264nal.PpsState          `json:"pps,omitempty"`
	SpsExtension *h264nal.SpsExtensionState `json:"sps_extension,omitempty"`
	SubsetSps    *h264nal.SpsState          `json:"subset_sps,omitempty"`
	SvcExtension *h264nal.SpsSvcExtensionState `json:"svc_extension,omitempty"`

	Width  int `json:"width,omitempty"`
	Height int `json:"height,omitempty"`

	UnsupportedBytes int `json:"unsupported_bytes,omitempty"`
}

// BitstreamReport is the JSON-facing view of an h264nal.BitstreamState.
type BitstreamReport struct {
	NalUnits []NalUnitReport `json:"nal_units"`
}

// FromNalUnitState converts a parsed NAL unit into its JSON-facing form.
// When opts requests resolution and the NAL unit is an SPS, Width/Height
// are populated from SpsState.Resolution().
func FromNalUnitState(nu *h264nal.NalUnitState, opts h264nal.ParsingOptions) NalUnitReport {
	r := NalUnitReport{
		Type:         nu.Header.NalUnitType.String(),
		NalRefIdc:    nu.Header.NalRefIdc,
		Offset:       nu.Offset,
		Length:       nu.Length,
		ParsedLength: nu.ParsedLength,
	}
	if nu.HasChecksum {
		r.Checksum = nu.Checksum.String()
	}

	p := nu.Payload
	switch {
	case p.Slice != nil:
		r.Slice = p.Slice
	case p.Sps != nil:
		r.Sps = p.Sps
		if opts.AddResolution {
			r.Width, r.Height = p.Sps.Resolution()
		}
	case p.Pps != nil:
		r.Pps = p.Pps
	case p.SpsExtension != nil:
		r.SpsExtension = p.SpsExtension
	case p.SubsetSps != nil:
		r.SubsetSps = p.SubsetSps
		if p.SvcExtension != nil {
			r.SvcExtension = p.SvcExtension
		}
		if opts.AddResolution {
			r.Width, r.Height = p.SubsetSps.Resolution()
		}
	case p.SliceExtension != nil:
		r.Slice = p.SliceExtension
	default:
		r.UnsupportedBytes = len(p.Unsupported)
	}
	return r
}

// FromBitstreamState converts a full parsed bitstream into its JSON-facing
// form.
func FromBitstreamState(bs *h264nal.BitstreamState) BitstreamReport {
	r := BitstreamReport{NalUnits: make([]NalUnitReport, 0, len(bs.NalUnits))}
	for _, nu := range bs.NalUnits {
		r.NalUnits = append(r.NalUnits, FromNalUnitState(nu, bs.Options))
	}
	return r
}

// Marshal renders a BitstreamState as indented JSON.
func Marshal(bs *h264nal.BitstreamState) ([]byte, error) {
	return json.MarshalIndent(FromBitstreamState(bs), "", "  ")
}
