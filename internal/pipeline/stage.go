/*
NAME
  stage.go

DESCRIPTION
  stage.go provides the generic worker-loop scaffolding shared by every
  pipeline stage: N workers looping get-fifo / do-work / post-fifo,
  recovering panics into the session's error channel rather than taking
  down the whole session. This generalizes revid.Revid's single
  processFrom routine (which reports its own errors on r.err and is
  waited on via r.wg) to an arbitrary number of workers per stage.

AUTHORS
  AusOcean AV1 Core Contributors

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package pipeline

import (
	"fmt"
	"sync"

	"github.com/ausocean/utils/logging"
)

// Stage runs a configurable number of workers against a work function
// until Stop is called. Each worker loop is: block for work (the work
// function itself decides how, typically a Fifo.Take), process it, and
// repeat. A worker panic is recovered and forwarded on errs rather than
// terminating the process, matching §4.1's "worker panics are fatal for
// the session" semantics: the session observes the error and tears down
// cooperatively instead of crashing.
type Stage struct {
	name    string
	log     logging.Logger
	wg      sync.WaitGroup
	stop    chan struct{}
	stopped bool
	mu      sync.Mutex
}

// NewStage returns a Stage with the given name, used only for logging.
func NewStage(name string, log logging.Logger) *Stage {
	return &Stage{name: name, log: log, stop: make(chan struct{})}
}

// Start launches n worker goroutines, each calling work once; a worker
// ends when work returns, so any processing loop lives inside work. work
// should itself check the stage's StopCh where it blocks on a fifo, so
// that Stop can interrupt a blocked worker.
func (s *Stage) Start(n int, errs chan<- error, work func(stop <-chan struct{})) {
	s.log.Debug("starting stage workers", "stage", s.name, "workers", n)
	for i := 0; i < n; i++ {
		s.wg.Add(1)
		go func(id int) {
			defer s.wg.Done()
			defer func() {
				if r := recover(); r != nil {
					errs <- fmt.Errorf("stage %s worker %d panicked: %v", s.name, id, r)
				}
			}()
			work(s.stop)
		}(i)
	}
}

// StopCh returns the channel that closes when Stop is called, for use by
// work functions that need to select against it alongside a fifo Take.
func (s *Stage) StopCh() <-chan struct{} { return s.stop }

// Stop signals every worker to exit and waits for them to do so.
func (s *Stage) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	close(s.stop)
	s.mu.Unlock()

	s.log.Debug("stopping stage workers", "stage", s.name)
	s.wg.Wait()
	s.log.Info("stage workers stopped", "stage", s.name)
}
