/*
NAME
  motionestimation.go

DESCRIPTION
  motionestimation.go implements the Motion Estimation stage (§2, stage
  4; §4.2): per-SB HME/ME against every reference Picture Decision
  assigned, dispatched across segments with a join barrier before the
  single-worker global-motion step, plus the temporal-filter-ME and
  first-pass-ME passes. No ME lambda is assigned in this stage. Pictures with no active
  references (I-slices) skip straight through with empty MEResults.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.
*/

package session

import (
	"github.com/ausocean/av1enc-core/internal/me"
	"github.com/ausocean/av1enc-core/internal/me/globalmotion"
	"github.com/ausocean/av1enc-core/internal/pipeline"
	"github.com/ausocean/av1enc-core/pcs"
)

func (s *Session) motionEstimationWorker(stop <-chan struct{}) {
	for {
		select {
		case <-stop:
			return
		default:
		}

		job := s.meFifo.Take()

		if job.input.EOS {
			s.ircFifo.Post(job)
			return
		}

		s.runMotionEstimation(job)
		s.ircFifo.Post(job)
	}
}

// runMotionEstimation dispatches the appropriate ME task kind for job
// and, for ordinary picture-ME with at least one active reference, joins
// every segment's result before running global-motion estimation.
func (s *Session) runMotionEstimation(job *pictureJob) {
	if job.ppcs.SliceType == pcs.SliceIntra || job.refCount == 0 {
		job.ppcs.MEResults = nil
		return
	}

	if s.cfg.Pass == 1 {
		s.runFirstPassME(job)
		return
	}
	if job.ppcs.TemporalLayer == 0 && s.cfg.TFLevel != 0 {
		s.runTemporalFilterME(job)
	}

	grid := s.scs.Grid
	total := grid.Total()
	job.ppcs.MEResults = make([]pcs.MEResult, total)
	job.barrier = pipeline.NewSegmentBarrier(total)

	segGrid := pipeline.NewSegmentGrid(grid.Cols, grid.Rows, segmentRows(s.cfg.LogicalProcessors), segmentCols(s.cfg.LogicalProcessors))
	hmeParams := me.DefaultHMEParams()
	fullParams := me.DefaultFullMEParams()

	for seg := 0; seg < segGrid.Total(); seg++ {
		colStart, colEnd, rowStart, rowEnd := segGrid.SBRange(seg)
		s.meSegment(job, colStart, colEnd, rowStart, rowEnd, hmeParams, fullParams)
	}
	job.barrier.Wait()

	s.runGlobalMotion(job)
}

// segmentRows/segmentCols bound the segmentation grid to the configured
// worker count, never exceeding a 4x4 split since a picture's SB grid is
// typically far coarser than that at the resolutions this core targets.
func segmentRows(workers int) int {
	if workers < 1 {
		return 1
	}
	if workers > 4 {
		return 4
	}
	return workers
}

func segmentCols(workers int) int { return segmentRows(workers) }

// meSegment runs HME+full-ME for every SB in [colStart,colEnd) x
// [rowStart,rowEnd) against every reference bound to job, accumulating
// global-motion correspondences before marking the segment done on
// job.barrier.
func (s *Session) meSegment(job *pictureJob, colStart, colEnd, rowStart, rowEnd int, hmeParams me.HMEParams, fullParams me.FullMEParams) {
	grid := s.scs.Grid
	for row := rowStart; row < rowEnd; row++ {
		for col := colStart; col < colEnd; col++ {
			sb := grid.At(col, row)
			idx := row*grid.Cols + col
			result := pcs.NewMEResult(idx, pcs.NumRefFrames)

			for refIdx := 0; refIdx < pcs.NumRefFrames; refIdx++ {
				ref := job.refs[refIdx]
				if ref.Luma.Data == nil {
					continue
				}
				seed := me.PreHMESeed(ref.Luma, job.luma, 0, 32, hmeParams.PreHME)
				mv, sad := me.Search(ref.Luma, job.luma, sb.OriginX, sb.OriginY, sb.Width, sb.Height, seed, fullParams)
				cand := pcs.CandidateMV{Vector: mv, SAD: sad}
				result.Candidates[refIdx] = me.PruneCandidates([]pcs.CandidateMV{cand})
				result.Variance += sad

				s.recordCorrespondence(job, refIdx, sb, mv)
			}
			job.ppcs.MEResults[idx] = result
		}
	}
	job.barrier.Done()
}

func (s *Session) recordCorrespondence(job *pictureJob, refIdx int, sb *pcs.SBParams, mv pcs.MV) {
	job.corrMu.Lock()
	defer job.corrMu.Unlock()
	job.corr[refIdx] = append(job.corr[refIdx], globalmotion.Correspondence{
		CurX: float64(sb.OriginX), CurY: float64(sb.OriginY),
		RefX: float64(sb.OriginX) + float64(mv.Col)/8, RefY: float64(sb.OriginY) + float64(mv.Row)/8,
	})
}

// runGlobalMotion fits a rotzoom model per reference from this picture's
// accumulated correspondences, per §4.2: this runs once per picture,
// after every segment has joined, rather than as a "last worker"
// side-effect (§9's barrier design note).
func (s *Session) runGlobalMotion(job *pictureJob) {
	for refIdx := 0; refIdx < pcs.NumRefFrames; refIdx++ {
		corr := job.corr[refIdx]
		if len(corr) == 0 {
			continue
		}
		job.ppcs.GlobalMotion[refIdx] = globalmotion.Estimate(corr, pcs.GMRotZoom)
	}
}

// runTemporalFilterME runs a lighter HME/full-ME pass over job's base-
// layer neighbours using temporal-filter window sizing, consumed by the
// (out-of-scope) temporal filter itself; this core only derives the
// per-neighbour distance weight and window, matching §4.2's TF task
// kind.
func (s *Session) runTemporalFilterME(job *pictureJob) {
	tf := me.ResolveTFParams(int(s.scs.Width), int(s.scs.Height))
	for refIdx := 0; refIdx < pcs.NumRefFrames; refIdx++ {
		ref := job.refs[refIdx]
		if ref.Luma.Data == nil {
			continue
		}
		weight := me.DistanceWeight(job.ppcs.PictureNumber - ref.Order)
		_, _ = me.Search(ref.Luma, job.luma, 0, 0, tf.FullWindow.Width, tf.FullWindow.Height, pcs.MV{}, me.FullMEParams{Window: tf.HMEWindow, SAD: me.SubSAD})
		s.log.Debug("temporal filter ME", "picture_number", job.ppcs.PictureNumber, "ref_idx", refIdx, "weight", weight)
	}
}

// runFirstPassME replaces full HME/ME with the lightweight first-pass
// search, consumed by the (external) first-pass rate model; only the
// LAST reference is used (§4.2).
func (s *Session) runFirstPassME(job *pictureJob) {
	job.isFirstPass = true
	ref := job.refs[slotLast]
	if ref.Luma.Data == nil {
		return
	}
	stats := me.RunFirstPass(ref.Luma, job.luma)
	job.ppcs.TPLData = make([]float64, len(stats.Blocks))
	for i, b := range stats.Blocks {
		job.ppcs.TPLData[i] = float64(b.BestMotionSSD)
	}
}
