/*
NAME
  session.go

DESCRIPTION
  session.go implements the external session API (§6): init_handle /
  set_parameter / enc_init / stream_header / send_picture / get_packet /
  release_out_buffer / get_recon / enc_deinit / deinit_handle, realized as
  a Go Session with a New/SetParameter/EncInit/.../EncDeinit lifecycle,
  mirroring the New/Start/Stop shape of revid.Revid but with this
  session's own ordering contract (EncInit must precede SendPicture;
  SendPicture/GetPacket must precede EncDeinit).

AUTHORS
  AusOcean AV1 Core Contributors

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.
*/

// Package session provides the external API for an av1enc-core encode
// session: configuration, lifecycle, and the picture-in/packet-out
// contract that drives the pipeline described in internal/pipeline,
// internal/me, and internal/mdc.
package session

import (
	"fmt"
	"sync"

	"github.com/ausocean/av1enc-core/config"
	"github.com/ausocean/av1enc-core/internal/mdc"
	"github.com/ausocean/av1enc-core/internal/objpool"
	"github.com/ausocean/av1enc-core/internal/pipeline"
	"github.com/ausocean/av1enc-core/internal/refring"
	"github.com/ausocean/av1enc-core/pcs"
	"github.com/ausocean/utils/logging"
)

// fifoDepth is the per-stage-boundary fifo capacity used when the
// session's own PoolCapacity doesn't apply more directly (e.g. the raw
// input and output fifos); small enough to bound latency, large enough
// that a burst of sends doesn't stall the caller on a single-core box.
const fifoDepth = 8

// Session is a single encode session: a fixed pipeline of stages wired
// together at EncInit, fed by SendPicture and drained by GetPacket.
type Session struct {
	cfg config.Config
	scs *pcs.SequenceControlSet
	log logging.Logger

	mu      sync.Mutex
	running bool

	// Object pools, one per typed object per §4.1.
	ppcsPool   *objpool.Pool[pcs.ParentPictureControlSet]
	cpcsPool   *objpool.Pool[pcs.ChildPictureControlSet]
	outputPool *objpool.Pool[Packet]

	// Reference rings: decoded references and picture-analysis
	// references are tracked separately per §3.
	refRing   *refring.Ring
	paRing    *refring.Ring

	// Stage fifos, one per stage boundary (§4.1).
	inputFifo    *pipeline.Fifo[InputBuffer]
	analysisFifo *pipeline.Fifo[*pictureJob]
	decisionFifo *pipeline.Fifo[*pictureJob]
	meFifo       *pipeline.Fifo[*pictureJob]
	ircFifo      *pipeline.Fifo[*pictureJob]
	tplFifo      *pipeline.Fifo[*pictureJob]
	managerFifo  *pipeline.Fifo[*pictureJob]
	mdcFifo      *pipeline.Fifo[*pictureJob]
	outputFifo   *pipeline.Fifo[Packet]

	stages []*pipeline.Stage
	errs   chan error
	fatal  chan error

	decodeGate *pipeline.DecodeOrderGate

	// nextPictureNumber assigns display-order picture numbers as
	// SendPicture is called.
	nextPictureNumber int

	// decision holds Picture Decision's look-ahead buffer state; owned
	// exclusively by the single Picture Decision worker.
	decision *decisionState

	// manager holds Picture Manager's reference-availability bookkeeping;
	// shared by the Picture Manager and MDC workers under its own mutex.
	manager *managerState

	// quantTables and qualityMatrices are session-wide constants built
	// once at EncInit and shared read-only by every CPCS (§4.3): they are
	// built from fixed tables and depend on no input or picture.
	quantTables     *pcs.QuantTables
	qualityMatrices *pcs.QualityMatrixSet

	wg sync.WaitGroup
}

// New validates c and returns a Session ready for EncInit. This matches
// set_parameter's "validated and frozen" contract (§6): c is copied, and
// later mutation of the caller's config.Config has no effect on the
// session.
func New(c config.Config) (*Session, error) {
	if c.Logger == nil {
		return nil, fmt.Errorf("session: config.Logger must be set")
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("session: invalid parameter: %w", err)
	}
	return &Session{cfg: c, log: c.Logger, errs: make(chan error, 1), fatal: make(chan error, 8)}, nil
}

// SetParameter re-validates and replaces the session's configuration. It
// must be called before EncInit; per §6 configuration is frozen once
// EncInit allocates pools and spawns workers.
func (s *Session) SetParameter(c config.Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return fmt.Errorf("session: cannot set_parameter after enc_init")
	}
	if c.Logger == nil {
		c.Logger = s.log
	}
	if err := c.Validate(); err != nil {
		return fmt.Errorf("session: invalid parameter: %w", err)
	}
	s.cfg = c
	s.log = c.Logger
	return nil
}

// EncInit allocates every pool and fifo, builds the immutable
// SequenceControlSet, and spawns the stage workers (§4.1, §6).
func (s *Session) EncInit() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return ErrAlreadyRunning
	}

	s.log.Debug("enc_init: building sequence control set")
	s.scs = pcs.NewSCS(s.cfg)

	s.refRing = refring.New()
	s.paRing = refring.New()

	poolCap := int(s.cfg.PoolCapacity)
	s.ppcsPool = objpool.New(poolCap, func() *pcs.ParentPictureControlSet { return &pcs.ParentPictureControlSet{} })
	s.cpcsPool = objpool.New(poolCap, func() *pcs.ChildPictureControlSet { return &pcs.ChildPictureControlSet{} })
	s.outputPool = objpool.New(poolCap, func() *Packet { return &Packet{} })

	s.inputFifo = pipeline.NewFifo[InputBuffer](fifoDepth)
	s.analysisFifo = pipeline.NewFifo[*pictureJob](poolCap)
	s.decisionFifo = pipeline.NewFifo[*pictureJob](poolCap)
	s.meFifo = pipeline.NewFifo[*pictureJob](poolCap)
	s.ircFifo = pipeline.NewFifo[*pictureJob](poolCap)
	s.tplFifo = pipeline.NewFifo[*pictureJob](poolCap)
	s.managerFifo = pipeline.NewFifo[*pictureJob](poolCap)
	s.mdcFifo = pipeline.NewFifo[*pictureJob](poolCap)
	s.outputFifo = pipeline.NewFifo[Packet](poolCap)

	s.decodeGate = pipeline.NewDecodeOrderGate(s.cfg.DecodeOrderEnforced)
	s.decision = newDecisionState(s.scs)
	s.manager = newManagerState()
	s.manager.retireAfter = 2*s.scs.GOPSize + s.scs.LookAheadDistance

	s.quantTables = mdc.BuildQuantTables()
	s.qualityMatrices = mdc.BuildQualityMatrixSet([pcs.NumPlanes][pcs.NumTxSizesAll]pcs.QMatrix{})

	workers := s.cfg.LogicalProcessors
	if workers < 1 {
		workers = 1
	}

	s.stages = nil
	s.startStage("resource-coordination", 1, s.resourceCoordinationWorker)
	s.startStage("picture-analysis", workers, s.pictureAnalysisWorker)
	s.startStage("picture-decision", 1, s.pictureDecisionWorker)
	s.startStage("motion-estimation", workers, s.motionEstimationWorker)
	s.startStage("initial-rate-control", 1, s.initialRateControlWorker)
	s.startStage("source-based-ops", workers, s.sourceBasedOpsWorker)
	s.startStage("picture-manager", 1, s.pictureManagerWorker)
	s.startStage("mode-decision-configuration", workers, s.mdcWorker)

	s.wg.Add(1)
	go s.handleErrors()

	s.running = true
	s.log.Info("enc_init: pipeline started", "workers", workers, "pool_capacity", poolCap)
	return nil
}

func (s *Session) startStage(name string, n int, work func(stop <-chan struct{})) {
	st := pipeline.NewStage(name, s.log)
	st.Start(n, s.errs, work)
	s.stages = append(s.stages, st)
}

// handleErrors forwards worker panics as fatal errors on the output
// fifo, the same pattern as revid.Revid.err/handleErrors generalized to
// an arbitrary stage count.
func (s *Session) handleErrors() {
	defer s.wg.Done()
	for err := range s.errs {
		s.log.Error("stage worker failed", "error", err.Error())
		select {
		case s.fatal <- err:
		default:
		}
		s.outputFifo.Post(Packet{Flags: FlagFatalBit})
	}
}

// StreamHeader returns the coded-SPS equivalent for this session; it may
// be called any time after EncInit.
func (s *Session) StreamHeader() (StreamHeader, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return StreamHeader{}, ErrNotRunning
	}
	return StreamHeader{SCS: s.scs}, nil
}

// SendPicture submits one input buffer for encoding. It blocks if the
// input fifo is full, applying the backpressure the bounded-fifo design
// guarantees (§4.1).
func (s *Session) SendPicture(in InputBuffer) error {
	s.mu.Lock()
	running := s.running
	s.mu.Unlock()
	if !running {
		return ErrNotRunning
	}
	s.inputFifo.Post(in)
	return nil
}

// GetPacket returns the next finished packet. If blocking is false and
// none is ready, it returns ErrEmptyQueue rather than waiting, matching
// get_packet's EB_NoErrorEmptyQueue contract (§6).
func (s *Session) GetPacket(blocking bool) (Packet, error) {
	s.mu.Lock()
	running := s.running
	s.mu.Unlock()
	if !running {
		return Packet{}, ErrNotRunning
	}
	if blocking {
		return s.outputFifo.Take(), nil
	}
	if p, ok := s.outputFifo.TryTake(); ok {
		return p, nil
	}
	return Packet{}, ErrEmptyQueue
}

// ReleaseOutBuffer returns a packet's backing CPCS/PPCS to their pools.
// Every packet obtained from GetPacket must eventually be released.
func (s *Session) ReleaseOutBuffer(p Packet) {
	if p.CPCS != nil {
		s.cpcsPool.Release(p.CPCS)
	}
	if p.PPCS != nil {
		s.ppcsPool.Release(p.PPCS)
	}
}

// GetRecon is a placeholder hook for the optional reconstructed-picture
// output path, which is external to this core (§1); conformant callers
// that never enabled recon_enabled never call it.
func (s *Session) GetRecon() ([]byte, error) {
	return nil, fmt.Errorf("session: recon output is outside av1enc-core's scope")
}

// EncDeinit tears the pipeline down cooperatively: every stage's stop
// channel is closed and its workers are joined, the same cooperative-
// teardown contract as §5's cancellation model. The caller must have
// already sent an EOS InputBuffer and drained every packet up to and
// including the resulting FlagEOS packet before calling EncDeinit: a
// worker blocked waiting on a fifo that will never receive its EOS job
// has nothing to wake it, the same "flush before deinit" precondition
// real AV1 encoder APIs impose.
func (s *Session) EncDeinit() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return ErrNotRunning
	}
	s.log.Debug("enc_deinit: stopping stages")
	for _, st := range s.stages {
		st.Stop()
	}
	close(s.errs)
	s.wg.Wait()
	s.running = false
	s.log.Info("enc_deinit: pipeline stopped")
	return nil
}
