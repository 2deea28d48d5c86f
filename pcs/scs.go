/*
NAME
  scs.go

DESCRIPTION
  scs.go defines the SequenceControlSet: immutable-after-init, session-wide
  configuration derived once from config.Config at EncInit and read freely
  by every stage without locking.

AUTHORS
  AusOcean AV1 Core Contributors

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package pcs provides the shared picture-scoped data model: the sequence
// control set, parent and child picture control sets, reference objects,
// super-block geometry, and motion-estimation results.
package pcs

import "github.com/ausocean/av1enc-core/config"

// SequenceControlSet holds configuration that is constant for the
// lifetime of an encode session.
type SequenceControlSet struct {
	Width, Height      uint
	BitDepth           uint
	Use10BitPacked     bool
	MaxHierarchicalLevels int
	TileRowsLog2, TileColsLog2 int
	EncMode            int
	TargetBitrateKbps  uint
	GOPSize            int // 2^MaxHierarchicalLevels.
	LookAheadDistance  int
	EnableTPL          bool
	EnableMFMV         bool
	DecodeOrderEnforced bool

	// SBSize is 64 or 128; fixed at 64 for this implementation, matching
	// the common-case AV1 SB size used by the ME/MDC subsystems.
	SBSize int

	Grid SBGrid

	PoolCapacity         uint
	PoolStartElementSize uint
}

// NewSCS builds a SequenceControlSet from a validated config.Config.
// config.Config.Validate must have been called already; NewSCS does not
// re-validate.
func NewSCS(c config.Config) *SequenceControlSet {
	gop := 1 << uint(c.HierarchicalLevels)
	s := &SequenceControlSet{
		Width:               c.Width,
		Height:              c.Height,
		BitDepth:            c.BitDepth,
		Use10BitPacked:      c.Use10BitPacked,
		MaxHierarchicalLevels: c.HierarchicalLevels,
		TileRowsLog2:        c.TileRowsLog2,
		TileColsLog2:        c.TileColsLog2,
		EncMode:             c.EncMode,
		TargetBitrateKbps:   c.TargetBitrateKbps,
		GOPSize:             gop,
		LookAheadDistance:   c.LookAheadDistance,
		EnableTPL:           c.EnableTPL,
		EnableMFMV:          c.EnableMFMV,
		DecodeOrderEnforced: c.DecodeOrderEnforced,
		SBSize:              64,
		PoolCapacity:         c.PoolCapacity,
		PoolStartElementSize: c.PoolStartElementSize,
	}
	s.Grid = NewSBGrid(s.Width, s.Height, s.SBSize, s.TileRowsLog2, s.TileColsLog2)
	return s
}
