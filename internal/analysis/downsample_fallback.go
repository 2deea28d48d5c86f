//go:build !withcv
// +build !withcv

/*
NAME
  downsample_fallback.go

DESCRIPTION
  downsample_fallback.go provides the pure-Go luma downsampler used when
  built without the withcv tag, reusing internal/me's decimation so
  Picture Analysis and HME share one downscaling implementation instead
  of maintaining two.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.
*/

package analysis

import (
	"github.com/ausocean/av1enc-core/internal/me"
	"github.com/ausocean/av1enc-core/pcs"
)

func downsample(src pcs.Plane, factor int) pcs.Plane {
	switch factor {
	case 4:
		return me.Decimate4x(src, me.DecimationFiltered)
	case 16:
		return me.Decimate16x(src, me.DecimationFiltered)
	default:
		return src
	}
}
