/*
NAME
  ratecontrol_test.go

DESCRIPTION
  ratecontrol_test.go exercises the q-index derivation helpers in
  isolation.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.
*/

package session

import "testing"

func TestClampQIndex(t *testing.T) {
	cases := []struct {
		in, want int
	}{
		{-5, 0},
		{0, 0},
		{200, 200},
		{maxQIndex, maxQIndex},
		{maxQIndex + 50, maxQIndex},
	}
	for _, c := range cases {
		if got := clampQIndex(c.in); got != c.want {
			t.Errorf("clampQIndex(%d) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestQpToQIndexMonotonic(t *testing.T) {
	prev := -1
	for qp := 0; qp <= 63; qp++ {
		q := qpToQIndex(qp)
		if q < prev {
			t.Fatalf("qpToQIndex(%d) = %d, not monotonic (prev %d)", qp, q, prev)
		}
		prev = q
	}
	if got := qpToQIndex(0); got != 0 {
		t.Errorf("qpToQIndex(0) = %d, want 0", got)
	}
	if got := qpToQIndex(63); got != maxQIndex {
		t.Errorf("qpToQIndex(63) = %d, want %d", got, maxQIndex)
	}
}

func TestBitrateToQIndexDecreasesAsBudgetGrows(t *testing.T) {
	low := bitrateToQIndex(500, 1920, 1080, 30)
	high := bitrateToQIndex(20000, 1920, 1080, 30)
	if high >= low {
		t.Errorf("bitrateToQIndex(20000kbps) = %d, want lower than bitrateToQIndex(500kbps) = %d", high, low)
	}
}

func TestBitrateToQIndexHandlesZeroGeometry(t *testing.T) {
	if got := bitrateToQIndex(5000, 0, 1080, 30); got != 96 {
		t.Errorf("bitrateToQIndex with zero width = %d, want 96", got)
	}
}
