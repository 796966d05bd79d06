package h264nal

// ParseRtpSingle parses the payload of a single RTP packet carrying exactly
// one NAL unit (RFC 6184 "Single NAL Unit Packet" mode): no STAP-A or FU-A
// reassembly, since that is a transport-layer concern outside a bitstream
// inspection library. payload is the RTP payload with the RTP header
// already stripped by the caller.
func ParseRtpSingle(payload []byte, store *ParamSetStore, opts ParsingOptions) (*NalUnitState, error) {
	return ParseNalUnit(payload, store, opts)
}
