package h264nal

import "github.com/rs/zerolog"

// logger is the package-level diagnostic logger. It defaults to a disabled
// logger so that consumers of this library pay nothing unless they opt in
// via SetLogger. BitstreamParser uses it to record (at Warn) NAL units
// skipped because their payload failed to parse, and NalUnitParser uses it
// to record (at Debug) SPS and PPS insertions/overwrites in a
// ParamSetStore. No log call sits on a
// per-bit path; only per-NAL-unit events are logged.
var logger zerolog.Logger = zerolog.Nop()

// SetLogger installs l as the package-level diagnostic logger.
func SetLogger(l zerolog.Logger) {
	logger = l
}
