/*
NAME
  cpcs.go

DESCRIPTION
  cpcs.go defines the Child Picture Control Set: block-level encoding
  state that is one-to-one with a PPCS for its encoding lifetime (§3).
  Mode decision / EncDec itself is out of scope; CPCS here carries only
  the fields MDC populates for the block-level encoder to consume.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.
*/

package pcs

// ChildPictureControlSet carries per-tile/per-SB scratch state and the
// rate-estimation tables MDC derives for the (out-of-scope) mode-decision
// stage to consume.
type ChildPictureControlSet struct {
	Parent *ParentPictureControlSet

	// QuantTables holds the per-plane quantizer tables built by MDC for
	// this picture's BaseQIndex.
	QuantTables *QuantTables

	// QualityMatrices points at the shared, read-only QM tables selected
	// for this picture (nil entries mean "off" for that level/size).
	QualityMatrices *QualityMatrixSet

	// FrameContext holds the CDF/entropy context this picture starts
	// from -- either copied from the primary reference or built fresh
	// from AV1 default probabilities (§4.3).
	FrameContext *FrameContext

	// RateTables holds the syntax/MV/coefficient rate-estimation tables
	// derived from FrameContext (§4.3).
	RateTables *RateTables

	CDFUpdateMode CDFUpdateMode

	// SpeedTools holds the resolved boolean/tri-valued speed-tool
	// switches for this picture (§4.3).
	SpeedTools SpeedToolSwitches

	// IBCHash is populated for I-slices with IBC enabled (§4.3); nil
	// otherwise.
	IBCHash *IBCHashTable
}

// NewCPCS returns a ChildPictureControlSet bound to parent. The caller is
// responsible for populating the MDC-derived fields.
func NewCPCS(parent *ParentPictureControlSet) *ChildPictureControlSet {
	return &ChildPictureControlSet{Parent: parent}
}
