/*
NAME
  gm.go

DESCRIPTION
  gm.go estimates a global (camera) motion model per reference from a
  sparse set of block MV correspondences, using gonum's linear-equation
  solver for the rotation-zoom and affine model fits, with an identity
  fast path when the correspondences are already near-stationary.
  Clamp/rescale constants (GM_TRANS_MIN, GM_TRANS_MAX, GM_TRANS_DECODE_FACTOR,
  GM_DOWN, GM_DOWN16) are carried over unchanged from
  EbGlobalMotionEstimationCost.c / global_motion.c.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.
*/

package globalmotion

import (
	"gonum.org/v1/gonum/mat"

	"github.com/ausocean/av1enc-core/pcs"
)

const (
	warpedModelPrecBits = 16
	gmTransOnlyPrecBits = 3

	// gmTransMin/Max/DecodeFactor bound and quantize translation terms,
	// matching global_motion.c's GM_TRANS_MIN/MAX/DECODE_FACTOR.
	gmTransMin          = -(1 << 14)
	gmTransMax          = (1 << 14) - 1
	gmTransDecodeFactor = 1 << (warpedModelPrecBits - gmTransOnlyPrecBits)

	// clampTrans bounds the already-decode-factor-scaled translation
	// value, so the legal range itself must carry the same factor
	// (GM_TRANS_MIN * GM_TRANS_DECODE_FACTOR), not the raw GM_TRANS_MIN/MAX.
	gmTransMinScaled = gmTransMin * gmTransDecodeFactor
	gmTransMaxScaled = gmTransMax * gmTransDecodeFactor

	// gmDown/gmDown16 rescale translation terms estimated on 1/4 or 1/16
	// decimated luma back to full resolution.
	gmDown   = 2
	gmDown16 = 4
)

// Correspondence is one block's (x, y) position in the current picture
// and its matched (x, y) in the reference, at full-resolution scale.
type Correspondence struct {
	CurX, CurY float64
	RefX, RefY float64
}

// stationaryThreshold is the maximum mean absolute displacement, in
// pixels, below which a block set is treated as stationary and the
// identity model is returned without running a solve.
const stationaryThreshold = 0.25

// Estimate fits model to corr and returns the resulting warp
// coefficients in AV1's fixed-point WMMat layout. If corr is empty or
// the mean displacement is below stationaryThreshold, it returns the
// identity model without solving.
func Estimate(corr []Correspondence, model pcs.GlobalMotionType) pcs.GlobalMotionParams {
	if len(corr) == 0 || isStationary(corr) {
		return identity()
	}
	switch model {
	case pcs.GMTranslation:
		return fitTranslation(corr)
	case pcs.GMRotZoom:
		return fitRotZoom(corr)
	case pcs.GMAffine:
		return fitAffine(corr)
	default:
		return identity()
	}
}

func isStationary(corr []Correspondence) bool {
	var sum float64
	for _, c := range corr {
		dx, dy := c.RefX-c.CurX, c.RefY-c.CurY
		sum += abs(dx) + abs(dy)
	}
	mean := sum / float64(2*len(corr))
	return mean < stationaryThreshold
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func identity() pcs.GlobalMotionParams {
	p := pcs.GlobalMotionParams{Model: pcs.GMIdentity}
	p.WMMat[2] = 1 << warpedModelPrecBits
	p.WMMat[5] = 1 << warpedModelPrecBits
	return p
}

// fitTranslation returns the mean displacement as a pure translation
// model, clamped and quantized per gmTransMin/Max/DecodeFactor.
func fitTranslation(corr []Correspondence) pcs.GlobalMotionParams {
	var sx, sy float64
	for _, c := range corr {
		sx += c.RefX - c.CurX
		sy += c.RefY - c.CurY
	}
	n := float64(len(corr))
	p := identity()
	p.Model = pcs.GMTranslation
	p.WMMat[0] = clampTrans(quantizeTrans(sx / n))
	p.WMMat[1] = clampTrans(quantizeTrans(sy / n))
	return p
}

func quantizeTrans(v float64) int32 {
	return int32(v) * gmTransDecodeFactor
}

func clampTrans(v int32) int32 {
	if v < gmTransMinScaled {
		return gmTransMinScaled
	}
	if v > gmTransMaxScaled {
		return gmTransMaxScaled
	}
	return v
}

// fitRotZoom solves the 4-parameter rotation-zoom model
//
//	refX = a*curX - b*curY + tx
//	refY = b*curX + a*curY + ty
//
// by least squares over all correspondences, using gonum/mat's QR
// solver, matching the reference encoder's use of a normal-equations
// solve in EbGlobalMotionEstimationCost.c's RANSAC refinement step
// (here run unconditionally over the full candidate set rather than
// RANSAC-sampled, since outlier rejection happens upstream at
// correspondence-selection time).
func fitRotZoom(corr []Correspondence) pcs.GlobalMotionParams {
	n := len(corr)
	a := mat.NewDense(2*n, 4, nil)
	b := mat.NewDense(2*n, 1, nil)
	for i, c := range corr {
		a.SetRow(2*i, []float64{c.CurX, -c.CurY, 1, 0})
		a.SetRow(2*i+1, []float64{c.CurY, c.CurX, 0, 1})
		b.Set(2*i, 0, c.RefX)
		b.Set(2*i+1, 0, c.RefY)
	}
	var x mat.Dense
	if err := x.Solve(a, b); err != nil {
		return identity()
	}
	p := identity()
	p.Model = pcs.GMRotZoom
	rotScale := toFixedPoint(x.At(0, 0))
	rotate := toFixedPoint(x.At(1, 0))
	p.WMMat[2] = rotScale
	p.WMMat[3] = -rotate
	p.WMMat[4] = rotate
	p.WMMat[5] = rotScale
	p.WMMat[0] = clampTrans(quantizeTrans(x.At(2, 0)))
	p.WMMat[1] = clampTrans(quantizeTrans(x.At(3, 0)))
	return p
}

// fitAffine solves the full 6-parameter affine model by least squares.
func fitAffine(corr []Correspondence) pcs.GlobalMotionParams {
	n := len(corr)
	a := mat.NewDense(2*n, 6, nil)
	b := mat.NewDense(2*n, 1, nil)
	for i, c := range corr {
		a.SetRow(2*i, []float64{c.CurX, c.CurY, 1, 0, 0, 0})
		a.SetRow(2*i+1, []float64{0, 0, 0, c.CurX, c.CurY, 1})
		b.Set(2*i, 0, c.RefX)
		b.Set(2*i+1, 0, c.RefY)
	}
	var x mat.Dense
	if err := x.Solve(a, b); err != nil {
		return identity()
	}
	p := identity()
	p.Model = pcs.GMAffine
	p.WMMat[2] = toFixedPoint(x.At(0, 0))
	p.WMMat[3] = toFixedPoint(x.At(1, 0))
	p.WMMat[4] = toFixedPoint(x.At(3, 0))
	p.WMMat[5] = toFixedPoint(x.At(4, 0))
	p.WMMat[0] = clampTrans(quantizeTrans(x.At(2, 0)))
	p.WMMat[1] = clampTrans(quantizeTrans(x.At(5, 0)))
	return p
}

func toFixedPoint(v float64) int32 {
	return int32(v * float64(int64(1)<<warpedModelPrecBits))
}

// Rescale maps p, estimated on a decimated plane at the given decimation
// factor (gmDown for 1/4 luma, gmDown16 for 1/16 luma), back to full
// resolution by scaling its translation terms.
func Rescale(p pcs.GlobalMotionParams, decimationFactor int) pcs.GlobalMotionParams {
	scale := int32(1)
	switch decimationFactor {
	case gmDown:
		scale = 2
	case gmDown16:
		scale = 4
	}
	p.WMMat[0] = clampTrans(p.WMMat[0] * scale)
	p.WMMat[1] = clampTrans(p.WMMat[1] * scale)
	return p
}

// BipredOnly reports whether model is eligible for global-motion
// compensated bi-prediction only (translation and identity are excluded,
// matching the reference encoder's restriction of warped bi-prediction
// to rotzoom/affine models).
func BipredOnly(model pcs.GlobalMotionType) bool {
	return model == pcs.GMRotZoom || model == pcs.GMAffine
}
