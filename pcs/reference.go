/*
NAME
  reference.go

DESCRIPTION
  reference.go defines the decoded reference object and the picture-
  analysis reference object (§3): distinct lifetimes, both reference-
  counted through internal/refring rather than raw pointers.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.
*/

package pcs

// Plane is a single padded image plane: luma or chroma, full resolution
// or a downsampled variant.
type Plane struct {
	Data          []byte
	Width, Height int
	Stride        int
}

// ReferenceObject is a reconstructed reference frame plus its down-
// sampled variants, used by downstream mode decision and by ME for
// cross-checks. Lifetime is governed by its refring.Handle's reference
// counter, mutated only by Picture Manager (§3, §5).
type ReferenceObject struct {
	Luma, Cb, Cr   Plane
	Luma4, Luma16  Plane // 1/4 and 1/16 downscales.
	FrameType      SliceType
	OrderHint      int
	MVField        []MEResult // One entry per 8x8 block, for MFMV projection (§4.3).
	RestorationParams []byte
	SGFrameEP      [2]int8
}

// PAReferenceObject is a padded source-domain picture and its 1/4 and
// 1/16 luma downscales, used by ME. Lifetime is tracked independently
// from ReferenceObject (§3).
type PAReferenceObject struct {
	Luma          Plane
	Luma4, Luma16 Plane
	OrderHint     int
}
