/*
NAME
  job.go

DESCRIPTION
  job.go defines the pictureJob: the message that flows through every
  stage fifo after Resource Coordination. The PPCS and CPCS are the
  pool-allocated, picture-scoped state objects (§3); the remaining fields
  are working state Resource Coordination through Picture Manager attach
  and detach as the job moves (decoded reference handles, accumulated
  global-motion correspondences, the segmentation join barrier) that has
  no business living on a pool-recycled PPCS.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.
*/

package session

import (
	"sync"

	"github.com/ausocean/av1enc-core/internal/analysis"
	"github.com/ausocean/av1enc-core/internal/me/globalmotion"
	"github.com/ausocean/av1enc-core/internal/pipeline"
	"github.com/ausocean/av1enc-core/internal/refring"
	"github.com/ausocean/av1enc-core/pcs"
)

// refBinding pairs one reference-list slot with the decoded-reference
// ring handle and luma plane Motion Estimation searches against.
type refBinding struct {
	Handle refring.Handle
	Luma   pcs.Plane
	Order  int // decoded reference's OrderHint, for MFMV distance scaling.
}

// pictureJob is the per-picture unit of work posted between stages.
type pictureJob struct {
	input InputBuffer
	ppcs  *pcs.ParentPictureControlSet
	cpcs  *pcs.ChildPictureControlSet

	luma    pcs.Plane // Full-resolution 8-bit luma, resolved from input.
	paRef   pcs.PAReferenceObject
	paHandle refring.Handle
	stats   analysis.Stats

	// refs mirrors ppcs.ReferenceList, carrying the plane data and ring
	// handle ME/Picture Manager need that doesn't belong on the
	// pool-recycled PPCS itself.
	refs [pcs.NumRefFrames]refBinding
	refCount int

	// corr accumulates per-reference MV correspondences gathered during
	// per-SB ME, consumed once by the last-segment global-motion step.
	corr [pcs.NumRefFrames][]globalmotion.Correspondence
	corrMu sync.Mutex

	barrier *pipeline.SegmentBarrier

	// decoded holds the finished ReferenceObject this picture becomes
	// once Picture Manager makes it available to later pictures, and the
	// ring handle it was acquired under.
	decoded       pcs.ReferenceObject
	decodedHandle refring.Handle

	// isFirstPass marks a two-pass-mode-1 job, which skips HME/full ME
	// in favour of RunFirstPass and never builds an MV-rate table (§4.2,
	// §4.3).
	isFirstPass bool

	// err carries a worker-local failure out of a segment so the owning
	// stage can decide whether it is fatal.
	err error
}
