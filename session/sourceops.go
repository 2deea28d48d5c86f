/*
NAME
  sourceops.go

DESCRIPTION
  sourceops.go implements the Source-Based Operations / TPL stage (§2,
  stage 6): derives a per-SB importance value future rate/mode-decision
  stages weigh blocks by. Two-pass-mode-1 pictures already carry a
  first-pass SSD estimate in TPLData from Motion Estimation and are left
  untouched; every other picture derives importance from its own ME
  variance when temporal-prediction-lookahead is enabled for the
  session.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.
*/

package session

func (s *Session) sourceBasedOpsWorker(stop <-chan struct{}) {
	for {
		select {
		case <-stop:
			return
		default:
		}

		job := s.tplFifo.Take()

		if job.input.EOS {
			s.managerFifo.Post(job)
			return
		}

		s.deriveTPLImportance(job)
		s.managerFifo.Post(job)
	}
}

// deriveTPLImportance fills job.ppcs.TPLData with one importance value
// per SB from its MEResults variance, the proxy Initial Rate Control and
// MDC's rate-estimation derivation both consult when TPL is enabled
// (§4.2, §4.3).
func (s *Session) deriveTPLImportance(job *pictureJob) {
	if job.isFirstPass || !s.scs.EnableTPL {
		return
	}
	if len(job.ppcs.MEResults) == 0 {
		return
	}

	data := make([]float64, len(job.ppcs.MEResults))
	for i, mer := range job.ppcs.MEResults {
		data[i] = float64(mer.Variance)
	}
	job.ppcs.TPLData = data
}
