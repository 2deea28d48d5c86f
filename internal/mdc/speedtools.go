/*
NAME
  speedtools.go

DESCRIPTION
  speedtools.go resolves the per-picture speed-tool switches from a
  feature table keyed by preset speed and content class, grounded on
  EbModeDecisionConfigurationProcess.c's per-mode feature tables
  (e.g. filter_intra_level, warped_motion, obmc_level arrays indexed by
  enc_mode), gated further by resolution/QP (high-precision MV) and by
  error-resilient/super-resolution mode and slice type (warped motion),
  per AV1 5.11.27 and spec.md §4.3.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.
*/

package mdc

import "github.com/ausocean/av1enc-core/pcs"

// ContentClass mirrors config.ContentClass without importing the config
// package, to keep internal/mdc's dependency surface limited to pcs.
type ContentClass int

const (
	ContentCamera ContentClass = iota
	ContentScreen
)

// featureRow is one preset's resolved speed-tool row.
type featureRow struct {
	filterIntra, highPrecisionMV, warpedMotion, switchableMotionMode bool
	obmc                                                             pcs.OBMCLevel
	hbdModeDecision                                                  pcs.HBDModeDecision
	bypassCostTableGen, palette                                      bool
}

// highPrecisionMVMaxHeight/QIndex bound the high-precision-MV tool to
// sub-480p content below the given base q-index, per spec.md §4.3
// ("high-precision MV (below 480p only and below a q-idx threshold)").
const (
	highPrecisionMVMaxHeight = 480
	highPrecisionMVMaxQIndex = 180
)

// featureTable holds one row per preset speed 0 (most exhaustive
// features) through 5 (fewest), mirroring the reference encoder's
// monotonic feature-dropping-by-speed convention.
var featureTable = [6]featureRow{
	0: {filterIntra: true, highPrecisionMV: true, warpedMotion: true, switchableMotionMode: true,
		obmc: 3, hbdModeDecision: 2, palette: true},
	1: {filterIntra: true, highPrecisionMV: true, warpedMotion: true, switchableMotionMode: true,
		obmc: 2, hbdModeDecision: 2, palette: true},
	2: {filterIntra: true, highPrecisionMV: true, warpedMotion: true,
		obmc: 2, hbdModeDecision: 1, palette: true},
	3: {filterIntra: true, highPrecisionMV: true, warpedMotion: true,
		obmc: 1, hbdModeDecision: 1},
	4: {highPrecisionMV: true,
		obmc: 1, hbdModeDecision: 0, bypassCostTableGen: true},
	5: {obmc: 0, hbdModeDecision: 0, bypassCostTableGen: true},
}

// ResolveSpeedTools resolves the speed-tool switches for a picture at
// speed, slice, and content, further gated by picture geometry/QP and by
// error-resilient/super-resolution mode. Screen content forces palette
// on regardless of preset, since palette mode is a screen-content-
// specific tool; key frames (intra slice with no usable primary
// reference) leave PrimaryRefFrame at -1 and disable warped motion,
// since warped motion requires a reference frame to warp against.
//
// width/height and baseQIndex gate high-precision MV per spec.md §4.3
// ("below 480p only and below a q-idx threshold"). errorResilient and
// superresActive additionally disable warped motion per AV1 5.11.27
// ("disabled ... under error-resilient mode, and when super-resolution
// is active"), on top of the KEY/INTRA_ONLY gate below.
func ResolveSpeedTools(speed int, slice pcs.SliceType, content ContentClass, primaryRefFrame int, width, height uint, baseQIndex int, errorResilient, superresActive bool) pcs.SpeedToolSwitches {
	row := featureTable[clampSpeed(speed)]

	s := pcs.SpeedToolSwitches{
		FilterIntra:          row.filterIntra,
		HighPrecisionMV:      row.highPrecisionMV && height < highPrecisionMVMaxHeight && baseQIndex < highPrecisionMVMaxQIndex,
		WarpedMotion:         row.warpedMotion,
		SwitchableMotionMode: row.switchableMotionMode,
		OBMC:                 row.obmc,
		HBDModeDecision:      row.hbdModeDecision,
		BypassCostTableGen:   row.bypassCostTableGen,
		Palette:              row.palette || content == ContentScreen,
		IntraBCHashing:       slice == pcs.SliceIntra && content == ContentScreen,
		PrimaryRefFrame:      primaryRefFrame,
	}

	if slice == pcs.SliceIntra {
		s.WarpedMotion = false
		s.SwitchableMotionMode = false
	}
	if errorResilient || superresActive {
		s.WarpedMotion = false
	}
	return s
}
