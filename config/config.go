/*
NAME
  config.go

DESCRIPTION
  config.go defines the Config struct that parameterizes an encoder
  session: resolution, preset, rate-control mode, GOP structure, and the
  pool/fifo sizing inputs described in the system overview.

AUTHORS
  AusOcean AV1 Core Contributors

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package config contains the configuration settings for an av1enc-core
// session.
package config

import (
	"github.com/ausocean/utils/logging"
)

// Rate-control modes.
const (
	RateControlCQP = iota
	RateControlVBR
	RateControlCappedVBR // Remapped to RateControlVBR at Validate time; see Config.Validate.
)

// Super-resolution modes.
const (
	SuperresOff = iota
	SuperresFixed
	SuperresRandom
)

// ContentClass describes the screen-content heuristic fed to MDC's
// speed-tool resolution.
type ContentClass int

const (
	ContentCamera ContentClass = iota
	ContentScreen
)

// Defaults, mirroring the revid convention of one const block per concern.
const (
	defaultEncMode            = 8
	defaultHierarchicalLevels = 3
	defaultIntraPeriodAuto    = -2
	defaultLookAhead          = 17
	defaultTileRowsLog2       = 0
	defaultTileColsLog2       = 0
	defaultTFLevel            = -1 // auto.

	// MaxLAD bounds look_ahead_distance regardless of configured value.
	MaxLAD = 120

	minWidth, minHeight = 64, 64
)

// Config provides parameters relevant to an encoder session. A new config
// must be passed to session.New. Validate replaces out-of-range or "auto"
// values with defaults; a zero EncMode or TFLevel is a valid setting and
// is kept.
type Config struct {
	// Logger must be set; every stage threads it through for structured
	// logging exactly as the pipeline orchestration layer expects.
	Logger   logging.Logger
	LogLevel int8

	// Picture geometry and format.
	Width, Height uint
	BitDepth      uint // 8 or 10.
	Use10BitPacked bool // When BitDepth==10: true = "compressed" 2-bit-packed extension planes, false = 16-bit unpacked planes.
	FrameRate     uint

	// EncMode is 0 (best quality) .. 13 (fastest). Drives every feature-level
	// table in the ME and MDC subsystems.
	EncMode int

	// HierarchicalLevels is 0..5; mini-GOP size is 2^HierarchicalLevels.
	HierarchicalLevels int

	// IntraPeriodLength is -2 (auto ~1s), -1 (auto per RC mode), or an
	// explicit frame count.
	IntraPeriodLength int

	// RateControlMode is one of the RateControl* consts. CappedVBR is
	// remapped to VBR by Validate.
	RateControlMode int
	QP              int // CQP/CRF quantizer index, 0..63.
	TargetBitrateKbps uint

	// LookAheadDistance in frames; clamped to mini-GOP multiples and MaxLAD
	// by Validate.
	LookAheadDistance int

	TileRowsLog2, TileColsLog2 int // <=6 each; product of tile counts <=128.

	// TFLevel is -1 (auto) or 0..6.
	TFLevel int

	SuperresMode int

	ContentClass ContentClass

	// EnableTPL turns on temporal-prediction-lookahead (source-based ops).
	EnableTPL bool

	// EnableMFMV turns on motion-field MV projection in MDC.
	EnableMFMV bool

	// DecodeOrderEnforced forces pictures into MDC strictly in decode
	// order; forced on automatically for LogicalProcessors==1.
	DecodeOrderEnforced bool

	// ErrorResilient disables warped motion (AV1 5.11.27) and other
	// reference-fragile tools regardless of preset.
	ErrorResilient bool

	LogicalProcessors int

	// Pool/fifo sizing inputs (§4.1). When zero, Validate sets
	// PoolStartElementSize to a fixed default and PoolCapacity to twice the
	// mini-GOP size plus the look-ahead distance plus 4.
	PoolStartElementSize uint
	PoolCapacity         uint

	// Two-pass support.
	Pass                  int // 1 or 2; 0 means single-pass.
	FirstPassStatsOut     bool
	IntraRefreshType      int
}

// Validate checks config fields for errors and resolves "auto" (-1/-2)
// values. Defaults applied to BitDepth, EncMode and TFLevel are logged via
// LogInvalidField; the other defaults are applied without logging.
// Rejection here matches §6's validation rules: it is reported before the
// session starts, and the session must not be started on error.
func (c *Config) Validate() error {
	if c.Width < minWidth || c.Width%2 != 0 {
		return errInvalidDimension("Width", c.Width)
	}
	if c.Height < minHeight || c.Height%2 != 0 {
		return errInvalidDimension("Height", c.Height)
	}
	if c.BitDepth != 8 && c.BitDepth != 10 {
		c.LogInvalidField("BitDepth", 8)
		c.BitDepth = 8
	}
	if c.QP < 0 || c.QP > 63 {
		return errOutOfRange("QP", c.QP, 0, 63)
	}
	if c.HierarchicalLevels > 5 {
		return errOutOfRange("HierarchicalLevels", c.HierarchicalLevels, 0, 5)
	}
	if c.EncMode < 0 {
		c.LogInvalidField("EncMode", defaultEncMode)
		c.EncMode = defaultEncMode
	}
	if c.EncMode > 13 {
		return errOutOfRange("EncMode", c.EncMode, 0, 13)
	}
	if c.HierarchicalLevels == 0 && c.EncMode == 0 {
		c.HierarchicalLevels = defaultHierarchicalLevels
	}

	if c.RateControlMode == RateControlCappedVBR {
		// Silently remapped to VBR; see SPEC_FULL.md §10 decision on the
		// dead capped-VBR branch.
		c.RateControlMode = RateControlVBR
	}

	if c.TileRowsLog2 > 6 || c.TileColsLog2 > 6 {
		return errOutOfRange("TileRowsLog2/TileColsLog2", 0, 0, 6)
	}
	if (1<<uint(c.TileRowsLog2))*(1<<uint(c.TileColsLog2)) > 128 {
		return errTileCount
	}

	if c.IntraPeriodLength == 0 {
		c.Logger.Info("intra_period_length is 0; every frame will be a key frame")
	}

	miniGOP := 1 << uint(c.HierarchicalLevels)
	if c.LookAheadDistance <= 0 {
		c.LookAheadDistance = defaultLookAhead
	}
	// Clamp to mini-GOP multiples and the hard MaxLAD.
	c.LookAheadDistance = (c.LookAheadDistance / miniGOP) * miniGOP
	if c.LookAheadDistance > MaxLAD {
		c.LookAheadDistance = MaxLAD
	}
	if c.LookAheadDistance < miniGOP {
		c.LookAheadDistance = miniGOP
	}

	if c.TFLevel < -1 || c.TFLevel > 6 {
		c.LogInvalidField("TFLevel", defaultTFLevel)
		c.TFLevel = defaultTFLevel
	}

	if c.SuperresMode != SuperresOff && c.Pass == 1 {
		return errSuperresTwoPass
	}

	if c.LogicalProcessors == 1 {
		c.DecodeOrderEnforced = true
	}

	if c.PoolStartElementSize == 0 {
		c.PoolStartElementSize = defaultPoolStartElementSize()
	}
	if c.PoolCapacity == 0 {
		c.PoolCapacity = defaultPoolCapacity(miniGOP, uint(c.LookAheadDistance))
	}

	if c.Pass == 1 {
		// Two-pass first pass is forced to the fastest preset with
		// look-ahead/TPL disabled; see spec.md §8 scenario 5.
		c.EncMode = 13
		c.LookAheadDistance = 0
		c.EnableTPL = false
		c.IntraRefreshType = 2
		c.FirstPassStatsOut = true
	}

	return nil
}

func defaultPoolStartElementSize() uint { return 10000 }

// defaultPoolCapacity sizes the PPCS/CPCS/ME-result pool: enough to cover
// one full mini-GOP of in-flight pictures plus the look-ahead distance,
// per §4.1's derivation from hierarchical levels and look-ahead distance.
func defaultPoolCapacity(miniGOP, lookAhead uint) uint {
	return 2*miniGOP + lookAhead + 4
}

// LogInvalidField logs that a field was bad or unset and a default was
// applied, matching the teacher's Config.LogInvalidField convention.
func (c *Config) LogInvalidField(name string, def interface{}) {
	c.Logger.Info(name+" bad or unset, defaulting", name, def)
}

// TimeBasedIntraPeriod resolves IntraPeriodLength == -2 into an explicit
// frame count using FrameRate, approximating a 1-second key-frame interval.
func (c *Config) TimeBasedIntraPeriod() int {
	if c.IntraPeriodLength != defaultIntraPeriodAuto {
		return c.IntraPeriodLength
	}
	if c.FrameRate == 0 {
		return 30
	}
	return int(c.FrameRate)
}
