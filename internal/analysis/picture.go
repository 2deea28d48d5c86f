/*
NAME
  picture.go

DESCRIPTION
  picture.go is the Picture Analysis stage: it computes per-picture
  luma statistics (mean, variance, a coarse noise estimate from
  high-frequency energy) used downstream by rate control and MDC's
  content-adaptive speed-tool resolution, and produces the 1/4 and 1/16
  luma downsamples HME and later stages consume. Mean/variance use
  gonum/stat rather than a hand-rolled accumulator, matching the
  retrieval pack's numerical-statistics dependency.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.
*/

package analysis

import (
	"gonum.org/v1/gonum/stat"

	"github.com/ausocean/av1enc-core/pcs"
)

// Stats holds one picture's Picture Analysis output.
type Stats struct {
	Mean      float64
	Variance  float64
	StdDev    float64
	Noise     float64
	Histogram [256]uint32
}

// AnalyzePicture computes Stats over luma and returns it alongside the
// picture's 1/4 and 1/16 luma downsamples, packaged as a
// PAReferenceObject ready for the reference ring.
func AnalyzePicture(luma pcs.Plane, orderHint int) (Stats, pcs.PAReferenceObject) {
	s := computeStats(luma)
	ref := pcs.PAReferenceObject{
		Luma:      luma,
		Luma4:     downsample(luma, 4),
		Luma16:    downsample(luma, 16),
		OrderHint: orderHint,
	}
	return s, ref
}

func computeStats(luma pcs.Plane) Stats {
	samples := make([]float64, 0, luma.Width*luma.Height)
	var hist [256]uint32
	for y := 0; y < luma.Height; y++ {
		row := luma.Data[y*luma.Stride : y*luma.Stride+luma.Width]
		for _, b := range row {
			samples = append(samples, float64(b))
			hist[b]++
		}
	}
	if len(samples) == 0 {
		return Stats{}
	}
	mean, variance := stat.MeanVariance(samples, nil)
	return Stats{
		Mean:      mean,
		Variance:  variance,
		StdDev:    stat.StdDev(samples, nil),
		Noise:     highFrequencyEnergy(luma),
		Histogram: hist,
	}
}

// highFrequencyEnergy estimates sensor/compression noise as the mean
// absolute second difference along rows, a coarse high-pass proxy
// cheaper than a full DCT-domain noise estimate.
func highFrequencyEnergy(luma pcs.Plane) float64 {
	if luma.Width < 3 {
		return 0
	}
	var sum float64
	var count int
	for y := 0; y < luma.Height; y++ {
		row := luma.Data[y*luma.Stride : y*luma.Stride+luma.Width]
		for x := 1; x < len(row)-1; x++ {
			d := int(row[x-1]) - 2*int(row[x]) + int(row[x+1])
			if d < 0 {
				d = -d
			}
			sum += float64(d)
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}
