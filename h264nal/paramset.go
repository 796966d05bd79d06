package h264nal

// ParamSetStore accumulates the SPS, PPS, and subset-SPS values seen in a
// parsing session, keyed by their id fields. Later parameter sets with the
// same id overwrite earlier ones (last-writer-wins); insertion order is
// not otherwise significant. A ParamSetStore is the only mutable state in
// this library — everything else is immutable once produced by its
// parser.
//
// A ParamSetStore is not safe for concurrent mutation. Independent parsing
// sessions should each use their own store (see ParseMany).
type ParamSetStore struct {
	sps       map[uint32]*SpsState
	pps       map[uint32]*PpsState
	subsetSps map[uint32]*SpsState
}

// NewParamSetStore returns an empty store.
func NewParamSetStore() *ParamSetStore {
	return &ParamSetStore{
		sps:       make(map[uint32]*SpsState),
		pps:       make(map[uint32]*PpsState),
		subsetSps: make(map[uint32]*SpsState),
	}
}

// SPS returns the stored SPS for id, or nil if none has been seen.
func (s *ParamSetStore) SPS(id uint32) *SpsState { return s.sps[id] }

// PPS returns the stored PPS for id, or nil if none has been seen.
func (s *ParamSetStore) PPS(id uint32) *PpsState { return s.pps[id] }

// SubsetSPS returns the stored subset SPS for id, or nil if none has been
// seen.
func (s *ParamSetStore) SubsetSPS(id uint32) *SpsState { return s.subsetSps[id] }

// PutSPS inserts or overwrites the SPS for sps.SeqParameterSetID.
func (s *ParamSetStore) PutSPS(sps *SpsState) {
	s.sps[sps.SeqParameterSetID] = sps
}

// PutPPS inserts or overwrites the PPS for pps.PicParameterSetID.
func (s *ParamSetStore) PutPPS(pps *PpsState) {
	s.pps[pps.PicParameterSetID] = pps
}

// PutSubsetSPS inserts or overwrites the subset SPS for
// sps.SeqParameterSetID.
func (s *ParamSetStore) PutSubsetSPS(sps *SpsState) {
	s.subsetSps[sps.SeqParameterSetID] = sps
}
