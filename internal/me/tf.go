/*
NAME
  tf.go

DESCRIPTION
  tf.go sizes the HME/full-ME search windows used by temporal-filter ME,
  a lighter pass run only over the handful of neighbour pictures a
  temporal filter alt-ref combines, grounded on
  tf_set_me_hme_params_oq's per-distance-and-resolution window tables.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.
*/

package me

// TFWindowClass buckets the source resolution for temporal-filter window
// selection, matching tf_set_me_hme_params_oq's low/high-resolution
// split.
type TFWindowClass int

const (
	TFWindowLowRes TFWindowClass = iota
	TFWindowHighRes
)

// TFParams configures a temporal-filter ME pass.
type TFParams struct {
	HMEWindow  SearchArea
	FullWindow SearchArea
}

// tfWindowTable holds the HME/full windows per resolution class, per
// tf_set_me_hme_params_oq's oq-indexed tables collapsed to a two-way
// split since quantizer-dependent tuning is out of scope here.
var tfWindowTable = [...]TFParams{
	TFWindowLowRes:  {HMEWindow: SearchArea{Width: 16, Height: 16}, FullWindow: SearchArea{Width: 8, Height: 8}},
	TFWindowHighRes: {HMEWindow: SearchArea{Width: 32, Height: 32}, FullWindow: SearchArea{Width: 16, Height: 16}},
}

// ResolveTFParams returns the window configuration for a source of the
// given pixel count, classifying at the tf_set_me_hme_params_oq 1280x720
// boundary.
func ResolveTFParams(pictureWidth, pictureHeight int) TFParams {
	if pictureWidth*pictureHeight <= 1280*720 {
		return tfWindowTable[TFWindowLowRes]
	}
	return tfWindowTable[TFWindowHighRes]
}

// DistanceWeight returns the temporal filter's per-neighbour blend
// weight for a neighbour frameDistance frames away from the picture
// being filtered, falling off linearly to a floor of 2 out of a 16-step
// normalization, matching the reference filter's distance-decayed
// weighting.
func DistanceWeight(frameDistance int) int {
	const maxWeight, minWeight, falloffPerFrame = 16, 2, 3
	w := maxWeight - abs(frameDistance)*falloffPerFrame
	if w < minWeight {
		return minWeight
	}
	return w
}
