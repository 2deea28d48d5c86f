/*
NAME
  mdcstage.go

DESCRIPTION
  mdcstage.go implements the Mode Decision Configuration stage (§2, stage
  8; §4.3): resolves each picture's frame context (copied from its
  primary reference or built fresh), rate-estimation tables, speed-tool
  switches, CDF-update mode, finalized global motion, MFMV projection,
  and (for screen-content I-slices) its intra-BC hash table, assembling
  them into the picture's ChildPictureControlSet and posting the
  finished Packet to the session's output fifo. This is also where
  decode-order admission (§4.1's DecodeOrderGate) is enforced, since MDC
  is the last stage before output and the one whose primary-reference
  context copy genuinely depends on an earlier picture's MDC having run.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.
*/

package session

import (
	"github.com/ausocean/av1enc-core/config"
	"github.com/ausocean/av1enc-core/internal/mdc"
	"github.com/ausocean/av1enc-core/pcs"
)

// encModeToSpeed maps the 0..13 EncMode preset scale onto the 0..5 speed
// scale internal/mdc's feature tables are indexed by, as encMode*5/13:
// EncMode 0-2 map to speed 0 (slowest) and only EncMode 13 maps to speed 5.
func encModeToSpeed(encMode int) int {
	speed := encMode * 5 / 13
	if speed < 0 {
		return 0
	}
	if speed > 5 {
		return 5
	}
	return speed
}

func (s *Session) mdcWorker(stop <-chan struct{}) {
	for {
		select {
		case <-stop:
			return
		default:
		}

		job := s.mdcFifo.Take()

		if job.input.EOS {
			s.outputFifo.Post(Packet{Flags: FlagEOS, PTS: job.input.PTS})
			return
		}

		s.decodeGate.Wait(job.ppcs.DecodeOrder)
		s.configureModeDecision(job)
		s.decodeGate.Advance(job.ppcs.DecodeOrder)

		s.postPacket(job)
	}
}

// configureModeDecision builds job.cpcs from job.ppcs's already-resolved
// slice type, temporal layer, and base q index.
func (s *Session) configureModeDecision(job *pictureJob) {
	speed := encModeToSpeed(s.cfg.EncMode)
	content := mdcContentClass(s.cfg.ContentClass)

	primaryFC, primaryRefFrame := s.resolvePrimaryReference(job)
	fc := mdc.ResolveFrameContext(primaryFC, job.ppcs.BaseQIndex)
	rateTables := mdc.BuildRateTables(fc, job.isFirstPass)
	superresActive := s.cfg.SuperresMode != config.SuperresOff
	speedTools := mdc.ResolveSpeedTools(speed, job.ppcs.SliceType, content, primaryRefFrame,
		s.scs.Width, s.scs.Height, job.ppcs.BaseQIndex, s.cfg.ErrorResilient, superresActive)
	cdfMode := mdc.ResolveCDFUpdateMode(speed, job.ppcs.SliceType)

	job.ppcs.GlobalMotion = mdc.FinalizeGlobalMotion(job.ppcs.GlobalMotion, fullResolutionGM)
	mdc.MarkGlobalMotionReferences(&job.ppcs.ReferenceList, job.ppcs.GlobalMotion)

	if s.scs.EnableMFMV && job.refCount > 0 && !job.isFirstPass {
		s.projectMotionField(job)
	}

	var ibcHash *pcs.IBCHashTable
	if speedTools.IntraBCHashing {
		var err error
		ibcHash, err = mdc.BuildIBCHashTable(job.luma, job.luma.Width, job.luma.Height)
		if err != nil {
			s.log.Error("mode decision configuration: intra-BC hashing skipped", "error", err.Error())
			ibcHash = nil
		}
	}

	cpcs := s.cpcsPool.Acquire()
	cpcs.Parent = job.ppcs
	cpcs.QuantTables = s.quantTables
	cpcs.QualityMatrices = s.qualityMatrices
	cpcs.FrameContext = fc
	cpcs.RateTables = rateTables
	cpcs.CDFUpdateMode = cdfMode
	cpcs.SpeedTools = speedTools
	cpcs.IBCHash = ibcHash
	job.cpcs = cpcs

	s.manager.publishFrameContext(job.ppcs.PictureNumber, fc, fc.SGFrameEP)

	s.log.Debug("mode decision configuration: resolved", "picture_number", job.ppcs.PictureNumber,
		"base_q_index", job.ppcs.BaseQIndex, "cdf_update_mode", cdfMode, "primary_ref_frame", primaryRefFrame)
}

// fullResolutionGM is passed to mdc.FinalizeGlobalMotion's decimation
// parameter: Motion Estimation here runs global-motion correspondence
// gathering directly on full-resolution Picture Analysis luma rather
// than on a decimated variant, with full-resolution SB origins and MVs,
// so no rescale is needed.
const fullResolutionGM = 1

// resolvePrimaryReference looks up the LAST reference slot's published
// frame context, returning nil and -1 if this picture has no active
// reference or that reference hasn't published a context yet (pictures
// within one mini-GOP that reference the previous group's anchor always
// find it, since the anchor's own MDC ran a full mini-GOP of pictures
// earlier).
func (s *Session) resolvePrimaryReference(job *pictureJob) (*pcs.FrameContext, int) {
	if job.ppcs.SliceType == pcs.SliceIntra || job.refCount == 0 {
		return nil, -1
	}
	order := job.refs[slotLast].Order
	_, fc, _, ok := s.manager.lookup(order)
	if !ok || fc == nil {
		return nil, -1
	}
	return fc, slotLast
}

// projectMotionField projects the LAST reference's stored motion field
// into job's TPLMVs grid (§4.3). The scale denominator is fixed at 1
// (rather than a true reference-to-reference distance, which would need
// every reference's own anchor tracked transitively): stored vectors are
// treated as already expressed per unit frame distance, so projection is
// a straight multiply by this picture's distance to that reference.
func (s *Session) projectMotionField(job *pictureJob) {
	order := job.refs[slotLast].Order
	ref, _, _, ok := s.manager.lookup(order)
	if !ok || ref == nil {
		return
	}
	curToRefDist := job.ppcs.PictureNumber - ref.OrderHint
	job.ppcs.TPLMVs = mdc.ProjectMotionField(ref.MVField, s.scs.Grid.Cols, s.scs.Grid.Rows, curToRefDist, 1, slotLast)
}

func mdcContentClass(c config.ContentClass) mdc.ContentClass {
	if c == config.ContentScreen {
		return mdc.ContentScreen
	}
	return mdc.ContentCamera
}

// postPacket acquires an output buffer, fills it from job, and posts it
// onward, releasing the buffer back to its pool immediately afterward
// since the fifo carries Packet by value (§4.1).
func (s *Session) postPacket(job *pictureJob) {
	buf := s.outputPool.Acquire()
	*buf = Packet{
		PTS:           job.input.PTS,
		PictureNumber: job.ppcs.PictureNumber,
		DecodeOrder:   job.ppcs.DecodeOrder,
		PPCS:          job.ppcs,
		CPCS:          job.cpcs,
	}
	if job.err != nil {
		buf.Flags = FlagFatalBit
	}
	s.outputFifo.Post(*buf)
	s.outputPool.Release(buf)
}
