/*
NAME
  prune.go

DESCRIPTION
  prune.go implements reference-frame pruning (deciding which references
  in a picture's list are worth a full ME search at all, levels 0-6) and
  ME-candidate pruning (keeping only the MaxCandidatesPerRef
  lowest-SAD candidates per reference per block size).

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.
*/

package me

import (
	"sort"

	"github.com/ausocean/av1enc-core/pcs"
)

// RefPruneLevel selects how aggressively references are dropped from
// the per-block search list, 0 (no pruning, search all) through 6 (most
// aggressive).
type RefPruneLevel int

const (
	RefPruneNone RefPruneLevel = iota
	RefPruneLevel1
	RefPruneLevel2
	RefPruneLevel3
	RefPruneLevel4
	RefPruneLevel5
	RefPruneLevel6
)

// refPruneDeviationPercent is the per-level allowed SAD deviation, in
// percent, above the best reference's HME SAD before a candidate
// reference is dropped from full search. Higher levels permit less
// deviation, pruning more aggressively.
var refPruneDeviationPercent = [...]uint32{
	RefPruneNone:   1 << 30, // Effectively unlimited: never prune.
	RefPruneLevel1: 100,
	RefPruneLevel2: 60,
	RefPruneLevel3: 40,
	RefPruneLevel4: 25,
	RefPruneLevel5: 15,
	RefPruneLevel6: 5,
}

// PruneReferences returns the indices into hmeSAD (hme SAD per
// reference) that survive pruning at level, always keeping the
// minimum-SAD reference.
func PruneReferences(hmeSAD []uint32, level RefPruneLevel) []int {
	if len(hmeSAD) == 0 {
		return nil
	}
	best := hmeSAD[0]
	for _, v := range hmeSAD {
		if v < best {
			best = v
		}
	}
	pct := refPruneDeviationPercent[level]
	kept := make([]int, 0, len(hmeSAD))
	for i, v := range hmeSAD {
		if v <= best+best*pct/100 {
			kept = append(kept, i)
		}
	}
	return kept
}

// PruneCandidates sorts candidates by ascending SAD and truncates to
// MaxCandidatesPerRef, the ME-candidate pruning step applied after full
// ME for every reference/block size pair.
func PruneCandidates(candidates []pcs.CandidateMV) []pcs.CandidateMV {
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].SAD < candidates[j].SAD })
	if len(candidates) > pcs.MaxCandidatesPerRef {
		candidates = candidates[:pcs.MaxCandidatesPerRef]
	}
	return candidates
}
