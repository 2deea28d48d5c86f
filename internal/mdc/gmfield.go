/*
NAME
  gmfield.go

DESCRIPTION
  gmfield.go is MDC's global-motion finishing step: it takes the raw
  per-reference warp models ME produced on decimated luma, rescales them
  back to full resolution, clamps translation terms, and fills every
  reference slot ME did not touch with the identity model, matching
  EbModeDecisionConfigurationProcess.c's global-motion-parameter
  finalization pass.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.
*/

package mdc

import (
	"github.com/ausocean/av1enc-core/internal/me/globalmotion"
	"github.com/ausocean/av1enc-core/pcs"
)

// FinalizeGlobalMotion rescales raw[i] (estimated on a plane decimated
// by decimationFactor) to full resolution for every reference slot ME
// populated (non-identity model), and leaves slots ME left untouched as
// identity.
func FinalizeGlobalMotion(raw [pcs.NumRefFrames]pcs.GlobalMotionParams, decimationFactor int) [pcs.NumRefFrames]pcs.GlobalMotionParams {
	var out [pcs.NumRefFrames]pcs.GlobalMotionParams
	for i, p := range raw {
		if p.Model == pcs.GMIdentity {
			out[i] = identityGM()
			continue
		}
		out[i] = globalmotion.Rescale(p, decimationFactor)
	}
	return out
}

func identityGM() pcs.GlobalMotionParams {
	p := pcs.GlobalMotionParams{Model: pcs.GMIdentity}
	p.WMMat[2] = 1 << 16
	p.WMMat[5] = 1 << 16
	return p
}

// MarkGlobalMotionReferences sets IsGlobalMotion on every reference-list
// entry whose slot's finalized model is eligible for bipred-only warped
// compensation, per the reference encoder's restriction that only
// rotzoom/affine models participate in global-motion compensated
// bi-prediction.
func MarkGlobalMotionReferences(refs *[pcs.NumRefFrames]pcs.ReferenceListEntry, gm [pcs.NumRefFrames]pcs.GlobalMotionParams) {
	for i := range refs {
		refs[i].IsGlobalMotion = globalmotion.BipredOnly(gm[i].Model)
	}
}
