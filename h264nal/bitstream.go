package h264nal

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// BitstreamState is the result of parsing an entire Annex B or length-
// prefixed (AVCC) bitstream: every NAL unit found, in order, sharing one
// ParamSetStore.
type BitstreamState struct {
	NalUnits []*NalUnitState
	Store    *ParamSetStore
	Options  ParsingOptions
}

// ParseAnnexB scans buf for start-code-delimited NAL units and parses each
// one in turn against a shared ParamSetStore. A NAL unit that fails to
// parse is logged and skipped; scanning continues with the next one, so
// one corrupt NAL unit does not abort an entire capture.
func ParseAnnexB(buf []byte, store *ParamSetStore, opts ParsingOptions) (*BitstreamState, error) {
	if store == nil {
		store = NewParamSetStore()
	}
	indices := FindNaluIndices(buf)
	state := &BitstreamState{Store: store, Options: opts}

	for _, idx := range indices {
		payload, ok := sliceNalu(buf, idx)
		if !ok {
			logger.Warn().Int("offset", idx.StartOffset).Msg("skipping nal unit: index out of bounds")
			continue
		}
		nu, err := ParseNalUnit(payload, store, opts)
		if err != nil {
			logger.Warn().Err(err).Int("offset", idx.StartOffset).Msg("skipping nal unit")
			continue
		}
		if opts.AddOffset {
			nu.Offset = idx.StartOffset
		}
		if opts.AddLength {
			nu.Length = idx.PayloadSize
		}
		state.NalUnits = append(state.NalUnits, nu)
	}
	return state, nil
}

// sliceNalu slices buf per idx, reporting false instead of panicking when
// idx names a range outside buf — a defensive backstop for indices built
// from untrusted length prefixes (see FindNaluIndicesLength).
func sliceNalu(buf []byte, idx NaluIndex) ([]byte, bool) {
	if idx.PayloadStartOffset < 0 || idx.PayloadSize < 0 ||
		idx.PayloadStartOffset+idx.PayloadSize > len(buf) {
		return nil, false
	}
	return buf[idx.PayloadStartOffset : idx.PayloadStartOffset+idx.PayloadSize], true
}

// ParseAVCC scans buf for NAL units delimited by big-endian length prefixes
// of lengthSize bytes each (the AVCDecoderConfigurationRecord convention), and
// parses each one against a shared ParamSetStore.
func ParseAVCC(buf []byte, lengthSize int, store *ParamSetStore, opts ParsingOptions) (*BitstreamState, error) {
	if store == nil {
		store = NewParamSetStore()
	}
	indices := FindNaluIndicesLength(buf, lengthSize)
	state := &BitstreamState{Store: store, Options: opts}

	for _, idx := range indices {
		payload, ok := sliceNalu(buf, idx)
		if !ok {
			logger.Warn().Int("offset", idx.StartOffset).Msg("skipping nal unit: index out of bounds")
			continue
		}
		nu, err := ParseNalUnit(payload, store, opts)
		if err != nil {
			logger.Warn().Err(err).Int("offset", idx.StartOffset).Msg("skipping nal unit")
			continue
		}
		if opts.AddOffset {
			nu.Offset = idx.StartOffset
		}
		if opts.AddLength {
			nu.Length = idx.PayloadSize
		}
		state.NalUnits = append(state.NalUnits, nu)
	}
	return state, nil
}

// BitstreamJob names one independent buffer to parse, for ParseMany.
type BitstreamJob struct {
	Name string
	Buf  []byte
}

// BitstreamResult pairs a job's Name with its parse outcome.
type BitstreamResult struct {
	Name  string
	State *BitstreamState
	Err   error
}

// ParseMany runs ParseAnnexB over each job concurrently, each with its own
// ParamSetStore (parameter sets are not shared across independent
// captures). It fans work out across an errgroup-managed goroutine pool;
// a per-job parse error is recorded on that job's BitstreamResult rather
// than aborting the others, since ParseAnnexB itself only returns an error
// for conditions outside any single NAL unit.
func ParseMany(ctx context.Context, jobs []BitstreamJob, opts ParsingOptions) ([]BitstreamResult, error) {
	results := make([]BitstreamResult, len(jobs))
	g, _ := errgroup.WithContext(ctx)

	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			state, err := ParseAnnexB(job.Buf, NewParamSetStore(), opts)
			results[i] = BitstreamResult{Name: job.Name, State: state, Err: err}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}
