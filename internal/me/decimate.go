/*
NAME
  decimate.go

DESCRIPTION
  decimate.go implements the two luma decimation modes HME operates on:
  "decimated" (nearest-neighbour drop) and "filtered" (low-pass + drop).
  The nearest-neighbour path mirrors filter/motion.go's
  gocv.Resize(..., gocv.InterpolationNearestNeighbor) downscale before
  motion detection; the filtered path uses golang.org/x/image/draw's
  approximate bilinear scaler as the low-pass step, since it is the
  filtering decimator already in the retrieval pack's image-processing
  dependency surface.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.
*/

package me

import (
	"image"
	"image/draw"

	xdraw "golang.org/x/image/draw"

	"github.com/ausocean/av1enc-core/pcs"
)

// DecimationMode selects how a luma plane is downscaled before HME
// search.
type DecimationMode int

const (
	// DecimationDropped performs a nearest-neighbour drop: always used
	// for first-pass ME (§4.2).
	DecimationDropped DecimationMode = iota
	// DecimationFiltered performs a low-pass filter before dropping
	// samples, selected per preset for non-first-pass pictures.
	DecimationFiltered
)

// Decimate4x downsamples src by 4x in each dimension (the 1/4-luma
// variant).
func Decimate4x(src pcs.Plane, mode DecimationMode) pcs.Plane {
	return decimate(src, 4, mode)
}

// Decimate16x downsamples src by 16x in each dimension (the 1/16-luma
// variant).
func Decimate16x(src pcs.Plane, mode DecimationMode) pcs.Plane {
	return decimate(src, 16, mode)
}

func decimate(src pcs.Plane, factor int, mode DecimationMode) pcs.Plane {
	dstW, dstH := src.Width/factor, src.Height/factor
	if dstW < 1 {
		dstW = 1
	}
	if dstH < 1 {
		dstH = 1
	}

	switch mode {
	case DecimationDropped:
		return nearestNeighborDrop(src, dstW, dstH, factor)
	case DecimationFiltered:
		return filteredDrop(src, dstW, dstH)
	default:
		return nearestNeighborDrop(src, dstW, dstH, factor)
	}
}

// nearestNeighborDrop picks every factor-th sample, equivalent to the
// teacher's gocv.InterpolationNearestNeighbor downscale but operating
// directly on an 8-bit luma buffer rather than through a gocv.Mat.
func nearestNeighborDrop(src pcs.Plane, dstW, dstH, factor int) pcs.Plane {
	dst := pcs.Plane{Data: make([]byte, dstW*dstH), Width: dstW, Height: dstH, Stride: dstW}
	for y := 0; y < dstH; y++ {
		srcY := y * factor
		for x := 0; x < dstW; x++ {
			srcX := x * factor
			dst.Data[y*dstW+x] = src.Data[srcY*src.Stride+srcX]
		}
	}
	return dst
}

// filteredDrop low-pass filters src via x/image/draw's approximate
// bilinear scaler before dropping to dstW x dstH.
func filteredDrop(src pcs.Plane, dstW, dstH int) pcs.Plane {
	srcImg := &image.Gray{Pix: src.Data, Stride: src.Stride, Rect: image.Rect(0, 0, src.Width, src.Height)}
	dstImg := image.NewGray(image.Rect(0, 0, dstW, dstH))
	xdraw.ApproxBiLinear.Scale(dstImg, dstImg.Bounds(), srcImg, srcImg.Bounds(), draw.Src, nil)
	return pcs.Plane{Data: dstImg.Pix, Width: dstW, Height: dstH, Stride: dstImg.Stride}
}
