/*
NAME
  hme.go

DESCRIPTION
  hme.go implements pre-HME and the three HME levels described in §4.2:
  coarse full-frame search on 1/16-decimated luma split into a region
  grid, refinement on 1/4-decimated luma, and final refinement at full
  resolution. Region/array sizing is grounded on
  EbMotionEstimationProcess.c's number_hme_search_region_in_{width,height}
  and hme_level0_{,max_}search_area_in_{width,height}_array fields.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.
*/

package me

import "github.com/ausocean/av1enc-core/pcs"

// PreHMELevel is the pre-HME aggressiveness, 0 (off) .. 2.
type PreHMELevel int

// SearchArea bounds a 2-D motion search, in pixels either side of the
// seed.
type SearchArea struct{ Width, Height int }

// HMERegion describes one of the number_hme_search_region_in_{w,h} grid
// cells used by HME level 0: its full-resolution pixel bounds, nominal search area,
// and hard maximum.
type HMERegion struct {
	ColStart, ColEnd, RowStart, RowEnd int
	Nominal, Max                       SearchArea
}

// HMEParams holds the per-picture HME configuration resolved from preset
// and content (§4.2).
type HMEParams struct {
	PreHME        PreHMELevel
	PreHMERangeMin, PreHMERangeMax int

	Level0, Level1, Level2 bool

	// RegionsWidth/RegionsHeight default to 2x2 per §4.2.
	RegionsWidth, RegionsHeight int
	Level0Nominal, Level0Max   SearchArea

	Level1Window SearchArea // Typically 16x16 or 8x3.

	Decimation DecimationMode

	// StationaryShrinkDivisor shrinks the level-0 nominal search area for
	// stationary content or low HME-SAD.
	StationaryShrinkDivisor int
}

// DefaultHMEParams returns the §4.2 defaults: a 2x2 region grid, all
// three HME levels enabled, filtered decimation, and an 8x shrink
// divisor for stationary content.
func DefaultHMEParams() HMEParams {
	return HMEParams{
		PreHME: 0,
		Level0: true, Level1: true, Level2: true,
		RegionsWidth: 2, RegionsHeight: 2,
		Level0Nominal: SearchArea{Width: 64, Height: 64},
		Level0Max:     SearchArea{Width: 256, Height: 256},
		Level1Window:  SearchArea{Width: 16, Height: 16},
		Decimation:    DecimationFiltered,
		StationaryShrinkDivisor: 8,
	}
}

// BuildRegions lays out the HME level-0 region grid over a picture of
// pictureWidth x pictureHeight (in full-resolution pixels), per
// RegionsWidth x RegionsHeight. Each region's nominal/max search area is
// the configured Level0Nominal/Level0Max divided evenly across regions
// in that axis, matching
// hme_level0_max_search_area_in_width_array[i] =
// hme_level0_max_total_search_area_width / number_hme_search_region_in_width.
func (p HMEParams) BuildRegions(pictureWidth, pictureHeight int) []HMERegion {
	rw, rh := p.RegionsWidth, p.RegionsHeight
	if rw < 1 {
		rw = 1
	}
	if rh < 1 {
		rh = 1
	}
	regions := make([]HMERegion, 0, rw*rh)
	maxW := p.Level0Max.Width / rw
	maxH := p.Level0Max.Height / rh
	nomW := p.Level0Nominal.Width / rw
	nomH := p.Level0Nominal.Height / rh
	for ry := 0; ry < rh; ry++ {
		rowStart := ry * pictureHeight / rh
		rowEnd := (ry + 1) * pictureHeight / rh
		for rx := 0; rx < rw; rx++ {
			colStart := rx * pictureWidth / rw
			colEnd := (rx + 1) * pictureWidth / rw
			regions = append(regions, HMERegion{
				ColStart: colStart, ColEnd: colEnd, RowStart: rowStart, RowEnd: rowEnd,
				Nominal: SearchArea{Width: nomW, Height: nomH},
				Max:     SearchArea{Width: maxW, Height: maxH},
			})
		}
	}
	return regions
}

// ShrinkForStationary returns the region's nominal search area divided by
// StationaryShrinkDivisor, applied when the content is judged stationary
// or HME-SAD is low (§4.2).
func (p HMEParams) ShrinkForStationary(r HMERegion) SearchArea {
	d := p.StationaryShrinkDivisor
	if d < 1 {
		d = 1
	}
	return SearchArea{Width: r.Nominal.Width / d, Height: r.Nominal.Height / d}
}

// PreHMESeed runs the two orthogonal one-dimensional pre-HME searches
// (vertical- and horizontal-oriented) over 1/16-decimated luma, returning
// a seed MV. off (PreHMELevel 0) returns the zero MV immediately.
func PreHMESeed(ref, cur pcs.Plane, rangeMin, rangeMax int, level PreHMELevel) pcs.MV {
	if level == 0 {
		return pcs.MV{}
	}
	vRow := search1D(ref, cur, rangeMin, rangeMax, true)
	hCol := search1D(ref, cur, rangeMin, rangeMax, false)
	return pcs.MV{Row: int16(vRow), Col: int16(hCol)}
}

// search1D performs a 1-D SAD-minimizing search along one axis (vertical
// if vertical is true, else horizontal) over [rangeMin, rangeMax].
func search1D(ref, cur pcs.Plane, rangeMin, rangeMax int, vertical bool) int {
	bestOffset, bestSAD := 0, uint64(1<<62)
	for off := -rangeMax; off <= rangeMax; off++ {
		if abs(off) < rangeMin {
			continue
		}
		var sad uint64
		if vertical {
			sad = sadRowShift(ref, cur, off)
		} else {
			sad = sadColShift(ref, cur, off)
		}
		if sad < bestSAD {
			bestSAD = sad
			bestOffset = off
		}
	}
	return bestOffset
}

func sadRowShift(ref, cur pcs.Plane, rowOffset int) uint64 {
	var sum uint64
	for y := 0; y < cur.Height; y++ {
		ry := y + rowOffset
		if ry < 0 || ry >= ref.Height {
			continue
		}
		for x := 0; x < cur.Width; x++ {
			d := int(cur.Data[y*cur.Stride+x]) - int(ref.Data[ry*ref.Stride+x])
			sum += uint64(abs(d))
		}
	}
	return sum
}

func sadColShift(ref, cur pcs.Plane, colOffset int) uint64 {
	var sum uint64
	for y := 0; y < cur.Height; y++ {
		for x := 0; x < cur.Width; x++ {
			rx := x + colOffset
			if rx < 0 || rx >= ref.Width {
				continue
			}
			d := int(cur.Data[y*cur.Stride+x]) - int(ref.Data[y*ref.Stride+rx])
			sum += uint64(abs(d))
		}
	}
	return sum
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
