/*
NAME
  mdcstage_test.go

DESCRIPTION
  mdcstage_test.go exercises the small pure helpers mode decision
  configuration resolves state from.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.
*/

package session

import (
	"testing"

	"github.com/ausocean/av1enc-core/config"
	"github.com/ausocean/av1enc-core/internal/mdc"
)

func TestEncModeToSpeedClampsAndStaysInRange(t *testing.T) {
	cases := []struct {
		encMode, want int
	}{
		{0, 0},
		{13, 5},
		{-3, 0},
		{20, 5},
	}
	for _, c := range cases {
		if got := encModeToSpeed(c.encMode); got != c.want {
			t.Errorf("encModeToSpeed(%d) = %d, want %d", c.encMode, got, c.want)
		}
	}
}

func TestEncModeToSpeedMonotonic(t *testing.T) {
	prev := -1
	for enc := 0; enc <= 13; enc++ {
		speed := encModeToSpeed(enc)
		if speed < prev {
			t.Fatalf("encModeToSpeed(%d) = %d, not monotonic (prev %d)", enc, speed, prev)
		}
		prev = speed
	}
}

func TestMdcContentClassMapsScreenAndCamera(t *testing.T) {
	if got := mdcContentClass(config.ContentScreen); got != mdc.ContentScreen {
		t.Errorf("mdcContentClass(ContentScreen) = %v, want ContentScreen", got)
	}
	if got := mdcContentClass(config.ContentCamera); got != mdc.ContentCamera {
		t.Errorf("mdcContentClass(ContentCamera) = %v, want ContentCamera", got)
	}
}
