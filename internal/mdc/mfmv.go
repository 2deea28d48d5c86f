/*
NAME
  mfmv.go

DESCRIPTION
  mfmv.go projects a reference's stored motion field into the current
  picture's 8x8 temporal-MV grid, scaling each vector by the ratio of
  frame distances, grounded on av1_get_mv_projection /
  motion_field_projection's get_relative_dist and
  MAX_FRAME_DISTANCE rejection.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.
*/

package mdc

import "github.com/ausocean/av1enc-core/pcs"

// maxFrameDistance bounds the order-hint distance a motion vector may be
// projected across; projections beyond this are rejected as unreliable,
// matching AV1's MAX_FRAME_DISTANCE.
const maxFrameDistance = 31

// GetRelativeDist returns the signed distance from b to a in order-hint
// space, matching get_relative_dist's wraparound-aware subtraction for
// an order-hint field of orderHintBits bits.
func GetRelativeDist(a, b, orderHintBits int) int {
	if orderHintBits == 0 {
		return 0
	}
	diff := a - b
	m := 1 << (orderHintBits - 1)
	diff = (diff & (m - 1)) - (diff & m)
	return diff
}

// ProjectMotionField projects refMVs (one entry per 8x8 block of the
// reference picture, with each candidate's first entry taken as its
// representative vector) into a tpl_mvs grid covering gridCols x
// gridRows blocks, scaling each vector from refToRefDist (the
// reference's own motion distance) to curToRefDist (the current
// picture's distance to that same anchor), matching
// motion_field_projection's per-block scale-and-clip step.
func ProjectMotionField(refMVs []pcs.MEResult, gridCols, gridRows, curToRefDist, refToRefDist int, refFrameOffset int) []pcs.TPLMVSlot {
	grid := make([]pcs.TPLMVSlot, gridCols*gridRows)
	for i := range grid {
		grid[i] = pcs.TPLMVSlot{MVRow: pcs.InvalidMV, MVCol: pcs.InvalidMV}
	}

	if abs(curToRefDist) > maxFrameDistance || abs(refToRefDist) > maxFrameDistance || refToRefDist == 0 {
		return grid
	}

	for _, mer := range refMVs {
		if mer.SBIndex < 0 || mer.SBIndex >= len(grid) || len(mer.Candidates) == 0 || len(mer.Candidates[0]) == 0 {
			continue
		}
		mv := mer.Candidates[0][0].Vector
		scaled := projectMV(mv, curToRefDist, refToRefDist)
		grid[mer.SBIndex] = pcs.TPLMVSlot{
			Valid:          true,
			MVRow:          scaled.Row,
			MVCol:          scaled.Col,
			RefFrameOffset: refFrameOffset,
		}
	}
	return grid
}

// projectMV scales mv by curToRefDist/refToRefDist, clamping to int16
// range, matching get_mv_projection's fixed-point scale-and-clamp.
func projectMV(mv pcs.MV, curToRefDist, refToRefDist int) pcs.MV {
	scaleRow := int(mv.Row) * curToRefDist / refToRefDist
	scaleCol := int(mv.Col) * curToRefDist / refToRefDist
	return pcs.MV{Row: clampInt16(scaleRow), Col: clampInt16(scaleCol)}
}

func clampInt16(v int) int16 {
	const lo, hi = -(1 << 15), (1 << 15) - 1
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return int16(v)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
