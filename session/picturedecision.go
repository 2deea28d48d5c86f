/*
NAME
  picturedecision.go

DESCRIPTION
  picturedecision.go implements the Picture Decision stage (§2, stage 3):
  groups pictures into mini-GOPs, assigns slice type, temporal layer, and
  decode order via a recursive hierarchical schedule (the last display
  position of a mini-GOP is coded first as the group's anchor, then the
  remaining positions are split in two and scheduled the same way one
  layer deeper; see scheduleMiniGOP), and builds each picture's
  reference list against PA-domain pictures already scheduled.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.
*/

package session

import (
	"sort"

	"github.com/ausocean/av1enc-core/internal/refring"
	"github.com/ausocean/av1enc-core/pcs"
)

// Canonical AV1 reference-slot indices this core populates; LAST2/LAST3/
// BWDREF/ALTREF2 are left unused by the simplified reference-list
// construction below (not every slot needs a distinct picture).
const (
	slotLast   = 0
	slotGolden = 3
	slotAltRef = 6
)

// decisionState is Picture Decision's private look-ahead buffer and
// decode-order counter; touched only by the single Picture Decision
// worker; §5 Picture Decision is documented as the stage that assigns
// decode order, so no lock is needed.
type decisionState struct {
	scs *pcs.SequenceControlSet

	buffer []*pictureJob

	// anchor is the most recently flushed temporal-layer-0 job, kept
	// alive as the LAST/GOLDEN reference seed for the next mini-GOP.
	anchor *pictureJob

	nextDecodeOrder int
	pictureCount    int // Pictures assigned a slice type so far, for intra-period spacing.
	firstPicture    bool
}

func newDecisionState(scs *pcs.SequenceControlSet) *decisionState {
	return &decisionState{scs: scs, firstPicture: true}
}

func (s *Session) pictureDecisionWorker(stop <-chan struct{}) {
	for {
		select {
		case <-stop:
			return
		default:
		}

		job := s.decisionFifo.Take()

		if job.input.EOS {
			s.flushDecisionBuffer()
			s.log.Debug("picture decision: flushing EOS")
			s.meFifo.Post(job)
			return
		}

		s.decision.buffer = append(s.decision.buffer, job)
		if len(s.decision.buffer) >= s.decision.scs.GOPSize {
			s.flushDecisionBuffer()
		}
	}
}

// flushDecisionBuffer schedules and posts every buffered job, in decode
// order, to Motion Estimation.
func (s *Session) flushDecisionBuffer() {
	d := s.decision
	group := d.buffer
	d.buffer = nil
	if len(group) == 0 {
		return
	}

	order, layer := scheduleMiniGOP(len(group))
	for i, job := range group {
		job.ppcs.TemporalLayer = pcs.TemporalLayer(layer[i])
		job.ppcs.DecodeOrder = d.nextDecodeOrder + order[i]
	}
	d.nextDecodeOrder += len(group)

	decodeSeq := append([]*pictureJob(nil), group...)
	sort.Slice(decodeSeq, func(i, j int) bool { return decodeSeq[i].ppcs.DecodeOrder < decodeSeq[j].ppcs.DecodeOrder })

	var decodedSoFar []*pictureJob
	for _, job := range decodeSeq {
		s.assignSliceType(job)
		s.buildReferenceList(job, decodedSoFar)
		if job.ppcs.TemporalLayer == 0 {
			d.anchor = job
		}
		decodedSoFar = append(decodedSoFar, job)

		s.log.Debug("picture decision: scheduled", "picture_number", job.ppcs.PictureNumber,
			"decode_order", job.ppcs.DecodeOrder, "temporal_layer", job.ppcs.TemporalLayer,
			"slice_type", job.ppcs.SliceType)
		s.meFifo.Post(job)
	}
}

// assignSliceType marks job as an intra (key) picture if it is the very
// first picture of the session or falls on an intra-period boundary;
// intra_period_length == 0 makes every picture a key frame (§8 boundary
// behavior).
func (s *Session) assignSliceType(job *pictureJob) {
	d := s.decision
	intraPeriod := s.cfg.TimeBasedIntraPeriod()

	isIntra := d.firstPicture
	if intraPeriod == 0 {
		isIntra = true
	} else if intraPeriod > 0 && job.ppcs.PictureNumber%intraPeriod == 0 {
		isIntra = true
	}

	if isIntra {
		job.ppcs.SliceType = pcs.SliceIntra
	} else {
		job.ppcs.SliceType = pcs.SliceInter
	}
	d.firstPicture = false
}

// buildReferenceList assigns LAST/GOLDEN/ALTREF slots against already-
// scheduled pictures in this flush plus the previous group's anchor:
// LAST is the most recently scheduled picture of any temporal layer, and
// GOLDEN/ALTREF is the most recent picture of a lower layer. Either falls
// back to the anchor when this flush has no such picture.
func (s *Session) buildReferenceList(job *pictureJob, decodedSoFar []*pictureJob) {
	if job.ppcs.SliceType == pcs.SliceIntra {
		return
	}

	var last, golden *pictureJob
	for i := len(decodedSoFar) - 1; i >= 0; i-- {
		cand := decodedSoFar[i]
		if last == nil {
			last = cand
		}
		if golden == nil && cand.ppcs.TemporalLayer < job.ppcs.TemporalLayer {
			golden = cand
		}
	}
	if last == nil {
		last = s.decision.anchor
	}
	if golden == nil {
		golden = s.decision.anchor
	}
	if golden == nil {
		golden = last
	}

	s.attachReference(job, slotLast, last)
	s.attachReference(job, slotGolden, golden)
	s.attachReference(job, slotAltRef, golden)
}

// attachReference retains ref's PA-reference handle on behalf of job and
// records the binding at refList slot idx.
func (s *Session) attachReference(job *pictureJob, idx int, ref *pictureJob) {
	if ref == nil || ref.paHandle == refring.Invalid {
		return
	}
	s.paRing.Retain(ref.paHandle)
	job.refs[idx] = refBinding{Handle: ref.paHandle, Luma: ref.paRef.Luma, Order: ref.ppcs.PictureNumber}
	job.refCount++
	job.ppcs.ReferenceList[idx] = pcs.ReferenceListEntry{}
}

// scheduleMiniGOP returns, for a display-order group of n pictures, each
// picture's (decode-order offset, temporal layer) under a recursive
// schedule: the last position of each range [lo, hi] is coded first at
// the range's layer (layer 0 for the whole group), and the range is split
// at mid = (lo+hi)/2 into [lo, mid] and [mid+1, hi-1], each scheduled one
// layer deeper. For n = 8 the layers by display position are
// 3, 2, 2, 1, 3, 2, 1, 0.
func scheduleMiniGOP(n int) (order, layer []int) {
	order = make([]int, n)
	layer = make([]int, n)
	counter := 0
	var assign func(lo, hi, lvl int)
	assign = func(lo, hi, lvl int) {
		if lo > hi {
			return
		}
		if lo == hi {
			order[lo] = counter
			layer[lo] = lvl
			counter++
			return
		}
		pivot := hi
		order[pivot] = counter
		layer[pivot] = lvl
		counter++
		mid := (lo + hi) / 2
		assign(lo, mid, lvl+1)
		assign(mid+1, hi-1, lvl+1)
	}
	assign(0, n-1, 0)
	return order, layer
}
