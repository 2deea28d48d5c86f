/*
NAME
  framecontext.go

DESCRIPTION
  framecontext.go resolves a picture's starting entropy context: copied
  from its primary reference frame when one exists and context copying
  is permitted, or built fresh from AV1-default probabilities otherwise,
  matching EbModeDecisionConfigurationProcess.c's
  frame_context_setup/av1_default_coef_probs flow.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.
*/

package mdc

import "github.com/ausocean/av1enc-core/pcs"

// defaultCoefProbsSize/defaultModeProbsSize size the opaque
// default-probability tables; entropy coding itself is out of scope, so
// these are placeholder-sized byte buffers rather than modeled
// symbol-by-symbol probabilities.
const (
	defaultCoefProbsSize = 1024
	defaultModeProbsSize = 512
)

// ResolveFrameContext returns the FrameContext a picture starts coding
// from. primaryRef is nil for key frames or when no primary reference is
// assigned, in which case a fresh AV1-default context is built at
// baseQIndex.
func ResolveFrameContext(primaryRef *pcs.FrameContext, baseQIndex int) *pcs.FrameContext {
	if primaryRef != nil {
		copied := *primaryRef
		copied.CopiedFromPrimaryRef = true
		return &copied
	}
	return defaultFrameContext(baseQIndex)
}

func defaultFrameContext(baseQIndex int) *pcs.FrameContext {
	fc := &pcs.FrameContext{
		CoefProbs: make([]byte, defaultCoefProbsSize),
		ModeProbs: make([]byte, defaultModeProbsSize),
	}
	// AV1 seeds coefficient probabilities from one of several base-q
	// buckets; the opaque placeholder table is tagged with the bucket
	// rather than filled symbol-by-symbol, since entropy coding is out
	// of scope.
	bucket := byte(baseQIndex / 64)
	for i := range fc.CoefProbs {
		fc.CoefProbs[i] = bucket
	}
	// I-slices (no primary reference) always run both self-guided-filter
	// passes rather than reusing a reference's seed, per the reference
	// encoder's sg_frame_ep convention.
	fc.SGFrameEP = [2]int8{-1, -1}
	return fc
}
