/*
NAME
  resourcecoordination.go

DESCRIPTION
  resourcecoordination.go implements the Resource Coordination stage
  (§2, stage 1): accepts application input buffers, acquires a PPCS from
  its pool, pairs it with the session's SCS and the input picture's
  resolved luma plane, and hands the resulting job to Picture Analysis.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.
*/

package session

func (s *Session) resourceCoordinationWorker(stop <-chan struct{}) {
	for {
		select {
		case <-stop:
			return
		default:
		}

		in := s.inputFifo.Take()

		ppcs := s.ppcsPool.Acquire()
		ppcs.Reset()
		ppcs.SCS = s.scs
		ppcs.PictureNumber = s.allocatePictureNumber()

		job := &pictureJob{input: in, ppcs: ppcs}

		if in.EOS {
			s.log.Debug("resource coordination: EOS buffer received", "picture_number", ppcs.PictureNumber)
			s.analysisFifo.Post(job)
			return
		}

		luma, err := in.luma8Bit()
		if err != nil {
			s.log.Error("resource coordination: could not resolve luma plane", "error", err.Error())
			s.ppcsPool.Release(ppcs)
			continue
		}
		job.luma = luma

		s.log.Debug("resource coordination: picture acquired", "picture_number", ppcs.PictureNumber)
		s.analysisFifo.Post(job)
	}
}

func (s *Session) allocatePictureNumber() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := s.nextPictureNumber
	s.nextPictureNumber++
	return n
}
