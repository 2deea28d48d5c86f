/*
DESCRIPTION
  config_test.go provides testing for the Config struct's Validate method.

AUTHORS
  AusOcean AV1 Core Contributors

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package config

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

type dumbLogger struct{}

func (dl *dumbLogger) Log(l int8, m string, a ...interface{})  {}
func (dl *dumbLogger) SetLevel(l int8)                         {}
func (dl *dumbLogger) Debug(msg string, args ...interface{})   {}
func (dl *dumbLogger) Info(msg string, args ...interface{})    {}
func (dl *dumbLogger) Warning(msg string, args ...interface{}) {}
func (dl *dumbLogger) Error(msg string, args ...interface{})   {}
func (dl *dumbLogger) Fatal(msg string, args ...interface{})   {}

func baseConfig() Config {
	return Config{
		Logger: &dumbLogger{},
		Width:  320,
		Height: 240,
		QP:     35,
	}
}

func TestValidateDefaults(t *testing.T) {
	c := baseConfig()
	c.EncMode = -1
	c.TFLevel = -1
	if err := c.Validate(); err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
	if c.EncMode != defaultEncMode {
		t.Errorf("EncMode = %d, want %d", c.EncMode, defaultEncMode)
	}
	if c.TFLevel != defaultTFLevel {
		t.Errorf("TFLevel = %d, want %d", c.TFLevel, defaultTFLevel)
	}
	if c.PoolCapacity == 0 {
		t.Error("PoolCapacity was not derived")
	}
}

func TestValidateRejectsBadDimensions(t *testing.T) {
	for _, tc := range []struct {
		name          string
		width, height uint
	}{
		{"too small", 32, 32},
		{"odd width", 65, 240},
	} {
		t.Run(tc.name, func(t *testing.T) {
			c := baseConfig()
			c.Width, c.Height = tc.width, tc.height
			if err := c.Validate(); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestValidateRejectsBadQP(t *testing.T) {
	c := baseConfig()
	c.QP = 64
	if err := c.Validate(); err == nil {
		t.Error("expected error for out-of-range QP, got nil")
	}
}

func TestValidateRemapsCappedVBR(t *testing.T) {
	c := baseConfig()
	c.RateControlMode = RateControlCappedVBR
	if err := c.Validate(); err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
	if c.RateControlMode != RateControlVBR {
		t.Errorf("RateControlMode = %d, want %d (remapped)", c.RateControlMode, RateControlVBR)
	}
}

func TestValidateLookAheadClampedToMiniGOPAndMaxLAD(t *testing.T) {
	c := baseConfig()
	c.HierarchicalLevels = 3 // mini-GOP = 8.
	c.LookAheadDistance = 1000
	if err := c.Validate(); err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
	if c.LookAheadDistance > MaxLAD {
		t.Errorf("LookAheadDistance = %d, want <= %d", c.LookAheadDistance, MaxLAD)
	}
	if c.LookAheadDistance%(1<<uint(c.HierarchicalLevels)) != 0 {
		t.Errorf("LookAheadDistance %d is not a mini-GOP multiple", c.LookAheadDistance)
	}
}

func TestValidateSingleCoreForcesDecodeOrder(t *testing.T) {
	c := baseConfig()
	c.LogicalProcessors = 1
	if err := c.Validate(); err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
	if !c.DecodeOrderEnforced {
		t.Error("expected DecodeOrderEnforced to be forced on for a single logical processor")
	}
}

func TestValidateFirstPassForcesFastestPreset(t *testing.T) {
	c := baseConfig()
	c.Pass = 1
	if err := c.Validate(); err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
	want := Config{EncMode: 13, LookAheadDistance: 0, EnableTPL: false, IntraRefreshType: 2, FirstPassStatsOut: true}
	got := Config{EncMode: c.EncMode, LookAheadDistance: c.LookAheadDistance, EnableTPL: c.EnableTPL, IntraRefreshType: c.IntraRefreshType, FirstPassStatsOut: c.FirstPassStatsOut}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("first-pass forced fields mismatch (-want +got):\n%s", diff)
	}
}

func TestValidateTileCountLimit(t *testing.T) {
	c := baseConfig()
	c.TileRowsLog2, c.TileColsLog2 = 6, 6
	if err := c.Validate(); err == nil {
		t.Error("expected error for tile count exceeding 128, got nil")
	}
}

func TestValidateSuperresDisallowedInFirstPass(t *testing.T) {
	c := baseConfig()
	c.Pass = 1
	c.SuperresMode = SuperresFixed
	if err := c.Validate(); err == nil {
		t.Error("expected error for superres enabled in first pass, got nil")
	}
}
