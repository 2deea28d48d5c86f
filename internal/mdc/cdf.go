/*
NAME
  cdf.go

DESCRIPTION
  cdf.go derives a picture's CDF-update mode from its preset speed and
  slice type, grounded on
  EbModeDecisionConfigurationProcess.c's
  signal_derivation_mode_decision_config_kernel_oq cdf_update_mode
  resolution: slow/best-quality presets (low speed) update the most CDF
  classes, faster presets collapse toward fewer updates and the fastest
  presets update none at all, and I-slices never update the MV CDF since
  intra blocks carry no motion vectors.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.
*/

package mdc

import "github.com/ausocean/av1enc-core/pcs"

// ResolveCDFUpdateMode returns the CDF-update mode for a picture at the
// given preset speed (0 slowest/best-quality .. 5 fastest) and slice
// type. Slow presets update the most CDF classes; speed increases
// collapse the update set until the fastest presets update nothing.
func ResolveCDFUpdateMode(speed int, slice pcs.SliceType) pcs.CDFUpdateMode {
	speed = clampSpeed(speed)

	var mode pcs.CDFUpdateMode
	switch {
	case speed <= 1:
		mode = pcs.CDFUpdateMVSyntaxCoef
	case speed <= 3:
		mode = pcs.CDFUpdateSyntaxCoef
	case speed == 4:
		mode = pcs.CDFUpdateSyntaxOnly
	default:
		mode = pcs.CDFUpdateNone
	}

	if slice == pcs.SliceIntra && mode == pcs.CDFUpdateMVSyntaxCoef {
		mode = pcs.CDFUpdateSyntaxCoef
	}
	return mode
}
