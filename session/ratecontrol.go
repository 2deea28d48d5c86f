/*
NAME
  ratecontrol.go

DESCRIPTION
  ratecontrol.go implements the Initial Rate Control stage (§2, stage 5):
  resolves each picture's BaseQIndex ahead of mode decision. CQP/CRF
  pictures take the configured QP directly; VBR pictures adjust around
  the target bitrate using the picture's Picture Analysis variance as an
  activity proxy and the temporal-layer offsets real encoders apply so
  base-layer pictures, which more later pictures reference, get more
  bits than the layers hung off them.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.
*/

package session

import (
	"github.com/ausocean/av1enc-core/config"
	"github.com/ausocean/av1enc-core/pcs"
)

// maxQIndex bounds BaseQIndex to the AV1 8-bit q-index range.
const maxQIndex = 255

// temporalLayerQPOffset adds a per-layer QP delta on top of the picture's
// base QP, growing as layers get deeper (closer to the GOP's leaves),
// matching the common practice of protecting lower temporal layers that
// more pictures reference.
var temporalLayerQPOffset = [...]int{0: 0, 1: 2, 2: 4, 3: 6, 4: 8}

func (s *Session) initialRateControlWorker(stop <-chan struct{}) {
	for {
		select {
		case <-stop:
			return
		default:
		}

		job := s.ircFifo.Take()

		if job.input.EOS {
			s.tplFifo.Post(job)
			return
		}

		s.resolveBaseQIndex(job)
		s.tplFifo.Post(job)
	}
}

func (s *Session) resolveBaseQIndex(job *pictureJob) {
	qIndex := qpToQIndex(s.cfg.QP)

	if s.cfg.RateControlMode != config.RateControlCQP {
		qIndex = s.vbrQIndex(job)
	}

	layer := int(job.ppcs.TemporalLayer)
	if layer >= len(temporalLayerQPOffset) {
		layer = len(temporalLayerQPOffset) - 1
	}
	qIndex += temporalLayerQPOffset[layer]
	if job.ppcs.SliceType == pcs.SliceIntra {
		qIndex -= 4 // Key frames run a little sharper than the GOP average.
	}

	job.ppcs.BaseQIndex = clampQIndex(qIndex)
}

// vbrQIndex derives a per-picture q-index around the configured target
// bitrate, nudged by this picture's own activity (Picture Analysis
// variance): a busier picture tolerates a coarser quantizer for the same
// perceptual cost, a flatter one needs a finer one.
func (s *Session) vbrQIndex(job *pictureJob) int {
	base := bitrateToQIndex(s.cfg.TargetBitrateKbps, s.scs.Width, s.scs.Height, s.cfg.FrameRate)
	activity := job.stats.Variance
	switch {
	case activity > 900:
		base += 6
	case activity < 100:
		base -= 6
	}
	return base
}

// bitrateToQIndex approximates the inverse of AV1's bits-per-pixel vs.
// q-index relationship: higher bitrate-per-pixel budgets map to a lower
// (finer) q-index.
func bitrateToQIndex(kbps uint, width, height, fps uint) int {
	if width == 0 || height == 0 || fps == 0 {
		return 96
	}
	bitsPerPixel := float64(kbps) * 1000 / float64(width*height*fps)
	switch {
	case bitsPerPixel > 0.20:
		return 48
	case bitsPerPixel > 0.10:
		return 80
	case bitsPerPixel > 0.05:
		return 112
	case bitsPerPixel > 0.02:
		return 144
	default:
		return 176
	}
}

func qpToQIndex(qp int) int {
	// QP is a coarse 0..63 CRF-style index; scale to the wider 0..255
	// q-index space MDC's quantizer tables are built over.
	return clampQIndex(qp * maxQIndex / 63)
}

func clampQIndex(q int) int {
	if q < 0 {
		return 0
	}
	if q > maxQIndex {
		return maxQIndex
	}
	return q
}
