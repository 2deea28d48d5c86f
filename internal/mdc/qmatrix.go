/*
NAME
  qmatrix.go

DESCRIPTION
  qmatrix.go resolves the quality-matrix pointer table: for each (level,
  plane, tx size) it either points at a shared table entry or leaves it
  nil when quality matrices are disabled or the size is "off" at the
  configured strength, matching
  EbModeDecisionConfigurationProcess.c's qm_level-to-table wiring where
  smaller tx sizes that round up to a shared larger size's matrix
  (av1_get_adjusted_tx_size) reuse its pointer rather than duplicating
  the table.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.
*/

package mdc

import "github.com/ausocean/av1enc-core/pcs"

// adjustedTxSize maps a tx-size index to the index whose matrix it
// shares once too-small for an independent matrix to be worth storing
// (the two sizes below index 2, TX_8X8, collapse onto TX_8X8; every
// other index maps to itself).
func adjustedTxSize(tx int) int {
	const tx8x8 = 2
	if tx < tx8x8 {
		return tx8x8
	}
	return tx
}

// qmOffLevel is the NumQMLevels-1 index reserved for "quality matrices
// disabled."
const qmOffLevel = pcs.NumQMLevels - 1

// BuildQualityMatrixSet builds the full quality-matrix table from a flat
// per-(plane, adjusted tx size) source table, copied unchanged into every
// active level; level qmOffLevel is left
// all-nil ("off").
func BuildQualityMatrixSet(source [pcs.NumPlanes][pcs.NumTxSizesAll]pcs.QMatrix) *pcs.QualityMatrixSet {
	s := &pcs.QualityMatrixSet{}
	for level := 0; level < qmOffLevel; level++ {
		for plane := 0; plane < pcs.NumPlanes; plane++ {
			for tx := 0; tx < pcs.NumTxSizesAll; tx++ {
				adj := adjustedTxSize(tx)
				s.Levels[level][plane][tx] = source[plane][adj]
			}
		}
	}
	// Level qmOffLevel keeps its zero value: every GQM/GIQM nil.
	return s
}

// ResolveLevel clamps a configured quality-matrix strength (0..15, 15
// meaning off) to a valid QualityMatrixSet level index.
func ResolveLevel(strength int) int {
	if strength < 0 {
		return 0
	}
	if strength > qmOffLevel {
		return qmOffLevel
	}
	return strength
}
