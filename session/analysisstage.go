/*
NAME
  analysisstage.go

DESCRIPTION
  analysisstage.go implements the Picture Analysis stage (§2, stage 2):
  computes per-frame statistics and the 1/4, 1/16 luma downsamples via
  internal/analysis, and registers the resulting PAReferenceObject on the
  picture-analysis reference ring (§3) for Motion Estimation to search
  against once Picture Decision has assigned references.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.
*/

package session

import "github.com/ausocean/av1enc-core/internal/analysis"

func (s *Session) pictureAnalysisWorker(stop <-chan struct{}) {
	for {
		select {
		case <-stop:
			return
		default:
		}

		job := s.analysisFifo.Take()

		if job.input.EOS {
			s.decisionFifo.Post(job)
			return
		}

		stats, paRef := analysis.AnalyzePicture(job.luma, job.ppcs.PictureNumber)
		job.stats = stats
		job.paRef = paRef

		handle, err := s.paRing.Acquire(paRef)
		if err != nil {
			s.log.Error("picture analysis: PA reference ring exhausted", "error", err.Error())
			job.err = err
		} else {
			job.paHandle = handle
		}

		s.log.Debug("picture analysis: stats computed", "picture_number", job.ppcs.PictureNumber,
			"mean", stats.Mean, "variance", stats.Variance, "noise", stats.Noise)
		s.decisionFifo.Post(job)
	}
}
