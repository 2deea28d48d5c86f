/*
NAME
  mesh.go

DESCRIPTION
  mesh.go carries the fixed exhaustive-mesh-search pattern tables used by
  mode-decision configuration to size the full-pel exhaustive search at
  each of six speed presets, for ordinary inter blocks and for intra-BC.
  Values are transcribed unchanged from
  EbModeDecisionConfigurationProcess.c's mesh_pattern and
  intrabc_mesh_pattern tables (each entry is {search range, search step}
  across up to four refinement stages), since these are fixed constants
  of the reference design rather than anything derivable from the rest of
  this codebase.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.
*/

package mdc

// MeshStage is one refinement stage of an exhaustive mesh search: search
// within Range pixels of the current best, stepping by Step pixels.
type MeshStage struct {
	Range, Step int
}

// meshPatterns holds, per speed preset (0 fastest .. 5 most exhaustive),
// the four-stage mesh pattern used for ordinary inter-block exhaustive
// search.
var meshPatterns = [6][4]MeshStage{
	0: {{0, 0}, {0, 0}, {0, 0}, {0, 0}},
	1: {{64, 4}, {0, 0}, {0, 0}, {0, 0}},
	2: {{64, 2}, {16, 1}, {0, 0}, {0, 0}},
	3: {{128, 4}, {32, 2}, {0, 0}, {0, 0}},
	4: {{192, 4}, {64, 2}, {16, 1}, {0, 0}},
	5: {{256, 4}, {128, 2}, {32, 1}, {8, 1}},
}

// intrabcMeshPatterns holds, per speed preset, the mesh pattern used
// when searching for intra-BC matches; slower presets search a wider
// range than the ordinary-inter table at the same preset.
var intrabcMeshPatterns = [6][4]MeshStage{
	0: {{0, 0}, {0, 0}, {0, 0}, {0, 0}},
	1: {{0, 0}, {0, 0}, {0, 0}, {0, 0}},
	2: {{0, 0}, {0, 0}, {0, 0}, {0, 0}},
	3: {{256, 1}, {256, 1}, {0, 0}, {0, 0}},
	4: {{256, 1}, {256, 1}, {0, 0}, {0, 0}},
	5: {{256, 1}, {256, 1}, {0, 0}, {0, 0}},
}

// maxExhaustivePercent bounds, per speed preset, the fraction (out of
// 100) of blocks in a picture allowed to run exhaustive mesh search
// before falling back to the diamond/full search result, matching the
// reference encoder's per-preset mesh budget.
var maxExhaustivePercent = [6]int{0: 0, 1: 5, 2: 10, 3: 25, 4: 50, 5: 100}

// MeshPattern returns the ordinary-inter mesh pattern for speed, clamping
// out-of-range presets to the nearest defined entry.
func MeshPattern(speed int) [4]MeshStage {
	return meshPatterns[clampSpeed(speed)]
}

// IntraBCMeshPattern returns the intra-BC mesh pattern for speed.
func IntraBCMeshPattern(speed int) [4]MeshStage {
	return intrabcMeshPatterns[clampSpeed(speed)]
}

// MaxExhaustivePercent returns the per-picture exhaustive-search budget,
// in percent, for speed.
func MaxExhaustivePercent(speed int) int {
	return maxExhaustivePercent[clampSpeed(speed)]
}

func clampSpeed(speed int) int {
	if speed < 0 {
		return 0
	}
	if speed > 5 {
		return 5
	}
	return speed
}
