package h264nal

import "fmt"

// OutOfDataError indicates the bit reader ran past the end of its buffer.
type OutOfDataError struct {
	// Context names the parser or field that was being read when the
	// underlying buffer was exhausted.
	Context string
}

func (e *OutOfDataError) Error() string {
	if e.Context == "" {
		return "h264nal: out of data"
	}
	return fmt.Sprintf("h264nal: out of data: %s", e.Context)
}

// OutOfRangeError indicates a parsed field violated a standard-defined
// range.
type OutOfRangeError struct {
	Field    string
	Value    int64
	Min, Max int64
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("h264nal: field %s value %d out of range [%d,%d]", e.Field, e.Value, e.Min, e.Max)
}

// ParameterSetKind names which table a MissingParameterSetError refers to.
type ParameterSetKind int

const (
	ParameterSetSPS ParameterSetKind = iota
	ParameterSetPPS
	ParameterSetSubsetSPS
)

func (k ParameterSetKind) String() string {
	switch k {
	case ParameterSetSPS:
		return "SPS"
	case ParameterSetPPS:
		return "PPS"
	case ParameterSetSubsetSPS:
		return "SubsetSPS"
	default:
		return "unknown"
	}
}

// MissingParameterSetError indicates a slice header referenced a parameter
// set id not yet present in the ParamSetStore.
type MissingParameterSetError struct {
	Kind ParameterSetKind
	ID   uint32
}

func (e *MissingParameterSetError) Error() string {
	return fmt.Sprintf("h264nal: missing parameter set %s id=%d", e.Kind, e.ID)
}

// InvalidStartCodeError indicates the framer expected a start code and did
// not find one.
type InvalidStartCodeError struct {
	Offset int
}

func (e *InvalidStartCodeError) Error() string {
	return fmt.Sprintf("h264nal: invalid start code at offset %d", e.Offset)
}

// MalformedRbspError indicates rbsp_trailing_bits() was expected but not
// found.
type MalformedRbspError struct {
	Context string
}

func (e *MalformedRbspError) Error() string {
	return fmt.Sprintf("h264nal: malformed rbsp: %s", e.Context)
}

// UnsupportedError indicates a recognized but unimplemented NAL unit
// payload. Callers may treat this as non-fatal: the NAL unit header still
// parsed and the payload is simply absent.
type UnsupportedError struct {
	NalUnitType NalUnitType
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("h264nal: unsupported nal_unit_type %d", e.NalUnitType)
}
