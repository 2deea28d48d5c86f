//go:build withcv
// +build withcv

/*
NAME
  downsample_cv.go

DESCRIPTION
  downsample_cv.go downsamples luma planes using gocv, mirroring
  filter/motion.go's gocv.Resize(..., gocv.InterpolationNearestNeighbor)
  downscale-before-detection pattern, applied here to produce the 1/4
  and 1/16 luma variants Picture Analysis attaches to a PAReferenceObject.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.
*/

package analysis

import (
	"image"

	"gocv.io/x/gocv"

	"github.com/ausocean/av1enc-core/pcs"
)

func downsample(src pcs.Plane, factor int) pcs.Plane {
	mat, err := gocv.NewMatFromBytes(src.Height, src.Width, gocv.MatTypeCV8UC1, src.Data)
	if err != nil {
		return src
	}
	defer mat.Close()

	dstW, dstH := src.Width/factor, src.Height/factor
	if dstW < 1 {
		dstW = 1
	}
	if dstH < 1 {
		dstH = 1
	}
	var dst gocv.Mat
	dst = gocv.NewMat()
	defer dst.Close()
	gocv.Resize(mat, &dst, image.Point{X: dstW, Y: dstH}, 0, 0, gocv.InterpolationNearestNeighbor)

	return pcs.Plane{Data: dst.ToBytes(), Width: dstW, Height: dstH, Stride: dstW}
}
