/*
NAME
  ratetables.go

DESCRIPTION
  ratetables.go derives the syntax/MV/coefficient rate-estimation tables
  mode decision consults when costing candidate modes, built from a
  picture's FrameContext, grounded on
  EbModeDecisionConfigurationProcess.c's av1_estimate_coef_rate-style
  -log2(p) conversion from probability to bit-cost.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.
*/

package mdc

import (
	"math"

	"github.com/ausocean/av1enc-core/pcs"
)

// costPrecisionBits is the fixed-point shift applied to -log2(p) rate
// estimates, matching the AV1 cost-table convention of 1/8-bit units.
const costPrecisionBits = 3

// BuildRateTables derives RateTables from fc. isFirstPass omits the
// MV-rate table (nil) since first-pass pictures never run full mode
// decision and never need MV costs, per the reference encoder's
// first-pass shortcut.
func BuildRateTables(fc *pcs.FrameContext, isFirstPass bool) *pcs.RateTables {
	rt := &pcs.RateTables{
		SyntaxRate: probToRate(fc.ModeProbs),
		CoefRate:   probToRate(fc.CoefProbs),
	}
	if !isFirstPass {
		rt.MVRate = mvRateTable()
	}
	return rt
}

// probToRate converts each byte-encoded probability bucket into a
// fixed-point bit-cost via -log2(p), treating a zero entry as the
// maximum representable cost to avoid a log(0) singularity.
func probToRate(probs []byte) []uint32 {
	rates := make([]uint32, len(probs))
	for i, raw := range probs {
		p := float64(raw) / 255.0
		if p <= 0 {
			rates[i] = 0xffff
			continue
		}
		bits := -math.Log2(p)
		rates[i] = uint32(bits * float64(int(1)<<costPrecisionBits))
	}
	return rates
}

// mvRateCount is the number of MV-component rate entries tracked
// (matches AV1's MV_VALS range used by the rate estimator).
const mvRateCount = 256

// mvRateTable returns a flat per-magnitude MV rate-cost table, increasing
// roughly logarithmically with magnitude per the AV1 MV cost model.
func mvRateTable() []uint32 {
	rates := make([]uint32, mvRateCount)
	for i := range rates {
		rates[i] = uint32(math.Log2(float64(i+1)) * float64(int(1)<<costPrecisionBits))
	}
	return rates
}
