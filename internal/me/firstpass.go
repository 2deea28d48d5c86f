/*
NAME
  firstpass.go

DESCRIPTION
  firstpass.go implements first-pass ME: a single coarse search per 16x16
  block producing zero-motion and best-motion sum-of-squared-differences
  statistics, consumed by two-pass rate control. First-pass ME always
  runs on nearest-neighbour-decimated luma and never invokes sub-pel
  refinement, matching the reference encoder's firstpass.c
  accumulate_fp_stats data flow.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.
*/

package me

import "github.com/ausocean/av1enc-core/pcs"

// FirstPassBlockStats is one 16x16 block's first-pass statistics.
type FirstPassBlockStats struct {
	ZeroMotionSSD  uint64
	BestMotionSSD  uint64
	BestMV         pcs.MV
	IntraSAD       uint32
	InterSAD       uint32
}

// FirstPassFrameStats aggregates FirstPassBlockStats over a whole
// picture, the per-picture record accumulated into the stats file the
// second pass reads back.
type FirstPassFrameStats struct {
	Blocks []FirstPassBlockStats

	SumZeroMotionSSD uint64
	SumBestMotionSSD uint64
	IntraSAD         uint64
	InterSAD         uint64
	MVCount          int
}

const firstPassBlockSize = 16

// firstPassSearchWindow bounds the coarse first-pass search, narrower
// than the general full-ME window since first-pass trades precision for
// single-pass-over-the-whole-sequence speed.
var firstPassSearchWindow = SearchArea{Width: 8, Height: 8}

// RunFirstPass computes first-pass statistics for one picture's luma
// plane against its single reference (the previous decoded picture; two
// references are not used in first-pass analysis).
func RunFirstPass(ref, cur pcs.Plane) FirstPassFrameStats {
	cols := (cur.Width + firstPassBlockSize - 1) / firstPassBlockSize
	rows := (cur.Height + firstPassBlockSize - 1) / firstPassBlockSize
	stats := FirstPassFrameStats{Blocks: make([]FirstPassBlockStats, 0, cols*rows)}

	for by := 0; by < rows; by++ {
		for bx := 0; bx < cols; bx++ {
			x, y := bx*firstPassBlockSize, by*firstPassBlockSize
			w := minInt(firstPassBlockSize, cur.Width-x)
			h := minInt(firstPassBlockSize, cur.Height-y)

			zeroSSD := ssd(ref, cur, x, y, w, h, pcs.MV{})
			bestMV, bestSSD := searchBestSSD(ref, cur, x, y, w, h)

			b := FirstPassBlockStats{
				ZeroMotionSSD: zeroSSD,
				BestMotionSSD: bestSSD,
				BestMV:        bestMV,
				IntraSAD:      intraSAD(cur, x, y, w, h),
				InterSAD:      uint32(bestSSD / uint64(maxInt(w*h, 1))),
			}
			stats.Blocks = append(stats.Blocks, b)
			stats.SumZeroMotionSSD += zeroSSD
			stats.SumBestMotionSSD += bestSSD
			stats.IntraSAD += uint64(b.IntraSAD)
			stats.InterSAD += uint64(b.InterSAD)
			if bestMV != (pcs.MV{}) {
				stats.MVCount++
			}
		}
	}
	return stats
}

func searchBestSSD(ref, cur pcs.Plane, x, y, w, h int) (pcs.MV, uint64) {
	bestMV := pcs.MV{}
	bestSSD := ssd(ref, cur, x, y, w, h, bestMV)
	for dy := -firstPassSearchWindow.Height; dy <= firstPassSearchWindow.Height; dy++ {
		for dx := -firstPassSearchWindow.Width; dx <= firstPassSearchWindow.Width; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			mv := pcs.MV{Row: int16(dy * 8), Col: int16(dx * 8)}
			s := ssd(ref, cur, x, y, w, h, mv)
			if s < bestSSD {
				bestSSD = s
				bestMV = mv
			}
		}
	}
	return bestMV, bestSSD
}

func ssd(ref, cur pcs.Plane, x, y, w, h int, mv pcs.MV) uint64 {
	dRow, dCol := int(mv.Row)/8, int(mv.Col)/8
	var sum uint64
	for by := 0; by < h; by++ {
		ry, cy := y+by+dRow, y+by
		if ry < 0 || ry >= ref.Height || cy >= cur.Height {
			continue
		}
		for bx := 0; bx < w; bx++ {
			rx, cx := x+bx+dCol, x+bx
			if rx < 0 || rx >= ref.Width || cx >= cur.Width {
				continue
			}
			d := int(cur.Data[cy*cur.Stride+cx]) - int(ref.Data[ry*ref.Stride+rx])
			sum += uint64(d * d)
		}
	}
	return sum
}

func intraSAD(cur pcs.Plane, x, y, w, h int) uint32 {
	if w < 2 {
		return 0
	}
	var sum uint32
	for by := 0; by < h; by++ {
		cy := y + by
		if cy >= cur.Height {
			continue
		}
		prev := int(cur.Data[cy*cur.Stride+x])
		for bx := 1; bx < w; bx++ {
			cx := x + bx
			if cx >= cur.Width {
				continue
			}
			v := int(cur.Data[cy*cur.Stride+cx])
			sum += uint32(abs(v - prev))
			prev = v
		}
	}
	return sum
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
