package h264nal

import "github.com/ausocean/h264nal/bits"

// ParsingOptions controls which bookkeeping fields NalUnitParser and
// BitstreamParser attach to each NalUnitState.
type ParsingOptions struct {
	AddOffset       bool
	AddLength       bool
	AddParsedLength bool
	AddChecksum     bool
	AddResolution   bool
}

// DefaultParsingOptions returns the library defaults: every bookkeeping
// field enabled.
func DefaultParsingOptions() ParsingOptions {
	return ParsingOptions{
		AddOffset:       true,
		AddLength:       true,
		AddParsedLength: true,
		AddChecksum:     true,
		AddResolution:   true,
	}
}

// NalUnitPayload is a tagged variant over the payload types this library
// understands. Exactly one field (plus, for subset SPS, optionally
// SvcExtension alongside SubsetSps) is non-nil for any successfully parsed
// NAL unit; Unsupported carries the raw RBSP bytes for recognized-but-
// unimplemented or reserved/unspecified NAL unit types.
type NalUnitPayload struct {
	Slice          *SliceHeaderState
	Sps            *SpsState
	Pps            *PpsState
	SpsExtension   *SpsExtensionState
	SubsetSps      *SpsState
	SvcExtension   *SpsSvcExtensionState
	SliceExtension *SliceHeaderState
	Unsupported    []byte
}

// NalUnitState is a fully parsed NAL unit: its header, its payload, and
// parse bookkeeping.
type NalUnitState struct {
	Header  *NalUnitHeader
	Payload NalUnitPayload

	Offset       int
	Length       int
	ParsedLength int

	Checksum    NaluChecksum
	HasChecksum bool
}

// ParseNalUnit parses a single NAL unit payload (the bytes after a start
// code / length prefix, not yet RBSP-unescaped) against store, which it
// may update on a successful SPS/PPS/subset-SPS parse. On sub-parser
// failure for a structural payload (slice header, SPS, PPS, SPS
// extension), the error propagates and the whole NAL unit is discarded by
// the caller; a recognized-but-unimplemented payload is not an error — it
// is reported via NalUnitPayload.Unsupported.
func ParseNalUnit(payload []byte, store *ParamSetStore, opts ParsingOptions) (*NalUnitState, error) {
	if len(payload) == 0 {
		return nil, &OutOfDataError{Context: "ParseNalUnit: empty payload"}
	}

	rbsp := Unescape(payload)

	state := &NalUnitState{}
	if opts.AddChecksum {
		state.Checksum = ComputeNaluChecksum(rbsp)
		state.HasChecksum = true
	}

	br := bits.NewBitReader(rbsp)
	header, err := ParseNalUnitHeader(br)
	if err != nil {
		return nil, err
	}
	state.Header = header

	if err := dispatchPayload(br, header, store, state); err != nil {
		return nil, err
	}

	if opts.AddParsedLength {
		byteOffset, bitOffset := br.Offset()
		if bitOffset > 0 {
			byteOffset++
		}
		state.ParsedLength = byteOffset
	}

	return state, nil
}

func dispatchPayload(br *bits.BitReader, header *NalUnitHeader, store *ParamSetStore, state *NalUnitState) error {
	switch header.NalUnitType {
	case NalUnitTypeCodedSliceNonIDR, NalUnitTypeCodedSliceIDR, NalUnitTypeCodedSliceAux:
		sh, err := parseSliceAgainstStore(br, header, store)
		if err != nil {
			return err
		}
		state.Payload.Slice = sh

	case NalUnitTypeCodedSliceDataPartitionA, NalUnitTypeCodedSliceDataPartitionB, NalUnitTypeCodedSliceDataPartitionC:
		state.Payload.Unsupported = remainder(br)

	case NalUnitTypeSEI:
		state.Payload.Unsupported = remainder(br)

	case NalUnitTypeSPS:
		sps, err := parseSps(br)
		if err != nil {
			return err
		}
		state.Payload.Sps = sps
		store.PutSPS(sps)
		logger.Debug().Uint32("sps_id", sps.SeqParameterSetID).Msg("sps inserted")

	case NalUnitTypePPS:
		pps, err := parsePps(br, store.SPS)
		if err != nil {
			return err
		}
		state.Payload.Pps = pps
		store.PutPPS(pps)
		logger.Debug().Uint32("pps_id", pps.PicParameterSetID).Msg("pps inserted")

	case NalUnitTypeAccessUnitDelimiter, NalUnitTypeEndOfSequence, NalUnitTypeEndOfStream, NalUnitTypeFillerData:
		state.Payload.Unsupported = remainder(br)

	case NalUnitTypeSPSExtension:
		ext, err := parseSpsExtension(br)
		if err != nil {
			return err
		}
		state.Payload.SpsExtension = ext

	case NalUnitTypePrefix:
		state.Payload.Unsupported = remainder(br)

	case NalUnitTypeSubsetSPS:
		sps, err := parseSpsData(br)
		if err != nil {
			return err
		}
		if (sps.ProfileIDC == 83 || sps.ProfileIDC == 86) && moreRbspData(br) {
			f := newFieldReader(br, "subset_sps")
			f.flag("bit_equal_to_one")
			if f.err() == nil {
				svcExt, err := ParseSpsSvcExtension(br, sps.ChromaArrayType())
				if err == nil {
					state.Payload.SvcExtension = svcExt
				}
				// A failure to parse the SVC extension here is not fatal
				// to the subset SPS itself — the base SPS data is still
				// usable — so it is not propagated.
			}
		}
		if err := rbspTrailingBits(br); err != nil {
			return err
		}
		state.Payload.SubsetSps = sps
		store.PutSubsetSPS(sps)

	case NalUnitTypeCodedSliceExtension:
		if header.SvcExtensionFlag {
			// slice_header_in_scalable_extension (Annex G.7.3.3.4) is a
			// distinct, much larger syntax structure not modeled by
			// SliceHeaderState; left unparsed like any other
			// recognized-but-unimplemented payload.
			state.Payload.Unsupported = remainder(br)
		} else {
			sh, err := parseSliceAgainstStore(br, header, store)
			if err != nil {
				return err
			}
			state.Payload.SliceExtension = sh
		}

	case NalUnitTypeReserved16, NalUnitTypeReserved17, NalUnitTypeReserved18,
		NalUnitTypeReserved22, NalUnitTypeReserved23:
		state.Payload.Unsupported = remainder(br)

	default:
		// Unspecified (0, 24-31).
		state.Payload.Unsupported = remainder(br)
	}
	return nil
}

// remainder returns the unread tail of br's buffer, for Unsupported
// payloads whose bytes are retained but not parsed.
func remainder(br *bits.BitReader) []byte {
	return br.RemainingBytes()
}

// parseSliceAgainstStore resolves header's implied pic_parameter_set_id by
// first reading the slice header's leading fields against a throwaway
// pass, then reparsing in full once PPS/SPS are known. H.264 slice headers
// read pic_parameter_set_id only after first_mb_in_slice and slice_type,
// so a one-shot peek is needed before the real parse can begin.
func parseSliceAgainstStore(br *bits.BitReader, header *NalUnitHeader, store *ParamSetStore) (*SliceHeaderState, error) {
	byteOffset, bitOffset := br.Offset()

	peek := newFieldReader(br, "slice_header_peek")
	peek.ue("first_mb_in_slice")
	peek.ue("slice_type")
	ppsID := peek.ueRange("pic_parameter_set_id", 0, 255)
	if err := peek.err(); err != nil {
		return nil, err
	}

	if err := br.Seek(byteOffset, bitOffset); err != nil {
		return nil, err
	}

	pps := store.PPS(ppsID)
	if pps == nil {
		return nil, &MissingParameterSetError{Kind: ParameterSetPPS, ID: ppsID}
	}
	sps := store.SPS(pps.SeqParameterSetID)
	if sps == nil {
		return nil, &MissingParameterSetError{Kind: ParameterSetSPS, ID: pps.SeqParameterSetID}
	}

	return parseSliceHeader(br, header.NalRefIdc, header.NalUnitType, pps, sps)
}
