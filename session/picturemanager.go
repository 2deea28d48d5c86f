/*
NAME
  picturemanager.go

DESCRIPTION
  picturemanager.go implements the Picture Manager stage (§2, stage 7;
  §3, §5): synthesizes this picture's decoded-reference surrogate from
  its Picture Analysis planes and motion field (actual block
  reconstruction is out of this core's scope), registers it on the
  decoded-reference ring, and releases the picture-analysis references
  this picture held now that Motion Estimation has finished searching
  against them. It also owns managerState, the cross-picture record MDC
  publishes frame-context continuity into and later pictures' MDC stage
  reads back from for primary-reference context copy.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.
*/

package session

import (
	"sync"

	"github.com/ausocean/av1enc-core/internal/refring"
	"github.com/ausocean/av1enc-core/pcs"
)

// refRecord is one finished picture's cross-picture state: Picture
// Manager publishes Ref as soon as it synthesizes the picture's decoded-
// reference surrogate (for later pictures' MFMV projection, §4.3); MDC
// fills in FrameContext/SGFrameEP once it has resolved them, so a later
// picture naming this one as a primary reference can copy its entropy
// context forward instead of starting fresh.
type refRecord struct {
	mu           sync.Mutex
	Ref          *pcs.ReferenceObject
	Handle       refring.Handle
	FrameContext *pcs.FrameContext
	SGFrameEP    [2]int8
}

// managerState is Picture Manager's cross-picture bookkeeping, touched by
// both the single Picture Manager worker and the MDC workers (one per
// logical processor) under its own mutex.
type managerState struct {
	mu      sync.Mutex
	records map[int]*refRecord

	// retireAfter bounds how long a record survives past its picture
	// number before Picture Manager evicts it, set at EncInit from the
	// session's look-ahead distance and mini-GOP size (no picture can
	// still need a primary reference further back than that).
	retireAfter int
}

func newManagerState() *managerState {
	return &managerState{records: make(map[int]*refRecord)}
}

// publishRef records pictureNumber's decoded-reference surrogate and the
// ring handle it lives under, creating its record if this is the first
// publish for that picture.
func (m *managerState) publishRef(pictureNumber int, ref *pcs.ReferenceObject, handle refring.Handle) {
	rec := m.recordFor(pictureNumber)
	rec.mu.Lock()
	rec.Ref = ref
	rec.Handle = handle
	rec.mu.Unlock()
}

// publishFrameContext records pictureNumber's resolved frame context and
// self-guided-filter seed, creating its record if necessary.
func (m *managerState) publishFrameContext(pictureNumber int, fc *pcs.FrameContext, sgep [2]int8) {
	rec := m.recordFor(pictureNumber)
	rec.mu.Lock()
	rec.FrameContext = fc
	rec.SGFrameEP = sgep
	rec.mu.Unlock()
}

func (m *managerState) recordFor(pictureNumber int) *refRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[pictureNumber]
	if !ok {
		rec = &refRecord{}
		m.records[pictureNumber] = rec
	}
	return rec
}

// lookup returns a snapshot of pictureNumber's record, or nil if nothing
// has been published for it yet.
func (m *managerState) lookup(pictureNumber int) (ref *pcs.ReferenceObject, fc *pcs.FrameContext, sgep [2]int8, ok bool) {
	m.mu.Lock()
	rec, found := m.records[pictureNumber]
	m.mu.Unlock()
	if !found {
		return nil, nil, [2]int8{}, false
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()
	return rec.Ref, rec.FrameContext, rec.SGFrameEP, rec.Ref != nil
}

// evictBefore removes every record older than pictureNumber and returns
// the decoded-reference ring handles they held, for the caller to
// release on the ring (releasing under managerState's own lock would
// invert lock order against the ring's, §5's single-writer convention
// notwithstanding -- simplest to keep the two locks disjoint).
func (m *managerState) evictBefore(pictureNumber int) []refring.Handle {
	m.mu.Lock()
	defer m.mu.Unlock()
	var handles []refring.Handle
	for n, rec := range m.records {
		if n < pictureNumber {
			handles = append(handles, rec.Handle)
			delete(m.records, n)
		}
	}
	return handles
}

func (s *Session) pictureManagerWorker(stop <-chan struct{}) {
	for {
		select {
		case <-stop:
			return
		default:
		}

		job := s.managerFifo.Take()

		if job.input.EOS {
			s.mdcFifo.Post(job)
			return
		}

		s.synthesizeReference(job)
		s.releaseConsumedReferences(job)
		for _, h := range s.manager.evictBefore(job.ppcs.PictureNumber - s.manager.retireAfter) {
			s.refRing.Release(h)
		}

		s.mdcFifo.Post(job)
	}
}

// synthesizeReference builds this picture's decoded-reference surrogate
// from Picture Analysis planes plus the motion field Motion Estimation
// populated, and registers it on the decoded-reference ring so later
// pictures' MFMV projection (§4.3) has a MVField to project from.
func (s *Session) synthesizeReference(job *pictureJob) {
	ref := pcs.ReferenceObject{
		Luma:      job.luma,
		Luma4:     job.paRef.Luma4,
		Luma16:    job.paRef.Luma16,
		FrameType: job.ppcs.SliceType,
		OrderHint: job.ppcs.PictureNumber,
		MVField:   job.ppcs.MEResults,
	}
	handle, err := s.refRing.Acquire(ref)
	if err != nil {
		s.log.Error("picture manager: decoded reference ring exhausted", "error", err.Error())
		job.err = err
		return
	}
	job.decoded = ref
	job.decodedHandle = handle
	s.manager.publishRef(job.ppcs.PictureNumber, &job.decoded, handle)
}

// releaseConsumedReferences releases the picture-analysis ring handles
// this picture retained in Picture Decision (§3): Motion Estimation is
// the last stage to read plane data through them, so Picture Manager is
// the correct point to give them back. Order (the referenced picture's
// number) is kept so MDC can still look up that picture's published
// frame context for primary-reference copy.
func (s *Session) releaseConsumedReferences(job *pictureJob) {
	for i := range job.refs {
		if job.refs[i].Handle != refring.Invalid {
			s.paRing.Release(job.refs[i].Handle)
			job.refs[i].Handle = refring.Invalid
			job.refs[i].Luma = pcs.Plane{}
		}
	}
}
