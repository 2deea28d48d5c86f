/*
NAME
  ppcs.go

DESCRIPTION
  ppcs.go defines the Parent Picture Control Set: the per-picture envelope
  carrying everything picture-scoped, from picture number through motion-
  estimation results and global-motion parameters (§3).

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.
*/

package pcs

import "github.com/ausocean/av1enc-core/internal/refring"

// SliceType mirrors AV1's frame/slice classification.
type SliceType int

const (
	SliceIntra SliceType = iota
	SliceInter
	SliceSwitch
)

// TemporalLayer is the depth of a picture within its mini-GOP; layer 0 is
// base.
type TemporalLayer int

// ReferenceListEntry names one reference slot used by a picture, by
// handle into the decoded-reference ring.
type ReferenceListEntry struct {
	Ref            refring.Handle
	IsGlobalMotion bool
}

// GlobalMotionParams holds one reference's warp model coefficients, in
// the AV1 WARPEDMODEL_PREC_BITS fixed-point representation.
type GlobalMotionParams struct {
	WMMat [8]int32 // wmmat[2], wmmat[5] are the identity diagonal terms.
	Model GlobalMotionType
}

// GlobalMotionType enumerates the supported global-motion models.
type GlobalMotionType int

const (
	GMIdentity GlobalMotionType = iota
	GMTranslation
	GMRotZoom
	GMAffine
)

// ParentPictureControlSet is the per-picture envelope. It is pool-
// allocated; Reset must be called by the pool's acquirer before reuse so
// a released-and-reacquired PPCS never leaks the previous picture's
// state.
type ParentPictureControlSet struct {
	PictureNumber int
	DecodeOrder   int
	SliceType     SliceType
	TemporalLayer TemporalLayer
	BaseQIndex    int

	SCS *SequenceControlSet

	// ReferenceList holds up to 7 canonical reference slots (AV1's
	// LAST/LAST2/LAST3/GOLDEN/BWDREF/ALTREF2/ALTREF).
	ReferenceList [NumRefFrames]ReferenceListEntry

	// MEResults is one entry per SB; populated by the ME stage.
	MEResults []MEResult

	// GlobalMotion is one entry per reference slot, populated first by ME
	// (raw warp) and then rescaled/clamped by MDC (§4.3).
	GlobalMotion [NumRefFrames]GlobalMotionParams

	// TPLData is a per-SB importance/distortion value produced by the
	// Source-Based Operations / TPL stage, consumed by Initial Rate
	// Control and by MDC's rate-estimation derivation.
	TPLData []float64

	// TPLMVs is the 8x8-grid motion-field projected by MDC's MFMV step
	// (§4.3); nil until MFMV projection runs.
	TPLMVs []TPLMVSlot

	// Segmentation/frame-header-adjacent fields consumed downstream;
	// minimal placeholders since entropy coding/packetization are out of
	// scope.
	AllowWarpedMotion bool
	AllowHighPrecisionMV bool

	// RefFrameSide records, per reference, whether it is temporally
	// later (+1), equal (0 is reserved for "current"), or earlier (-1)
	// than the current picture, per §4.3's get_relative_dist convention.
	RefFrameSide [NumRefFrames]int8
}

// NumRefFrames is the number of canonical AV1 reference slots.
const NumRefFrames = 7

// Reset clears picture-scoped state so a pool-recycled PPCS starts clean.
// SCS and the underlying MEResults/TPLData slices are reused (capacity
// retained) to avoid repeated allocation across the pool's lifetime.
func (p *ParentPictureControlSet) Reset() {
	p.PictureNumber = 0
	p.DecodeOrder = 0
	p.SliceType = SliceIntra
	p.TemporalLayer = 0
	p.BaseQIndex = 0
	for i := range p.ReferenceList {
		p.ReferenceList[i] = ReferenceListEntry{}
	}
	p.MEResults = p.MEResults[:0]
	for i := range p.GlobalMotion {
		p.GlobalMotion[i] = GlobalMotionParams{}
	}
	p.TPLData = p.TPLData[:0]
	p.TPLMVs = p.TPLMVs[:0]
	p.AllowWarpedMotion = false
	p.AllowHighPrecisionMV = false
	for i := range p.RefFrameSide {
		p.RefFrameSide[i] = 0
	}
}

// TPLMVSlot is one entry in the 8x8 temporal-MV grid described in §4.3's
// motion-field projection.
type TPLMVSlot struct {
	Valid          bool
	MVRow, MVCol   int16
	RefFrameOffset int
}

// InvalidMV marks a TPLMVSlot as not yet (or no longer) populated.
const InvalidMV = -32768
