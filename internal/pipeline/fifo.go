/*
NAME
  fifo.go

DESCRIPTION
  fifo.go implements the bounded, typed fifo that connects pipeline
  stages. Producers block when full, consumers block when empty -- the
  same concurrency-safe-via-channel idiom as codecutil's ringBuffer,
  generalized from a []byte queue to an arbitrary task-message queue.

AUTHORS
  AusOcean AV1 Core Contributors

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package pipeline provides the stage/fifo/pool scaffolding described in
// §4.1: a fixed directed graph of worker stages connected by bounded
// fifos, with segmentation join barriers and an optional decode-order
// gate.
package pipeline

import (
	"errors"
	"time"
)

// ErrTimeout is returned by Fifo's timed operations when neither a post
// nor a take could complete within the deadline.
var ErrTimeout = errors.New("pipeline: fifo operation timed out")

// Fifo is a bounded, typed message queue between two pipeline stages.
// Zero value is not usable; construct with NewFifo.
type Fifo[T any] struct {
	ch chan T
}

// NewFifo returns a Fifo with the given capacity.
func NewFifo[T any](capacity int) *Fifo[T] {
	return &Fifo[T]{ch: make(chan T, capacity)}
}

// Cap returns the fifo's fixed capacity.
func (f *Fifo[T]) Cap() int { return cap(f.ch) }

// Len returns the number of messages currently queued.
func (f *Fifo[T]) Len() int { return len(f.ch) }

// Post enqueues msg, blocking if the fifo is full. This is the publish
// point for cross-stage handoff: whichever stage holds a PPCS exclusively
// releases that exclusivity by posting it here (§5).
func (f *Fifo[T]) Post(msg T) { f.ch <- msg }

// PostTimeout behaves like Post but returns ErrTimeout if the fifo stays
// full for the full duration d.
func (f *Fifo[T]) PostTimeout(msg T, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case f.ch <- msg:
		return nil
	case <-t.C:
		return ErrTimeout
	}
}

// Take dequeues the next message, blocking if the fifo is empty.
func (f *Fifo[T]) Take() T { return <-f.ch }

// TakeTimeout behaves like Take but returns ErrTimeout if the fifo stays
// empty for the full duration d.
func (f *Fifo[T]) TakeTimeout(d time.Duration) (T, error) {
	var zero T
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case msg := <-f.ch:
		return msg, nil
	case <-t.C:
		return zero, ErrTimeout
	}
}

// Close closes the underlying channel, causing any blocked or future Take
// to drain remaining messages and then receive the zero value with ok
// false via TakeOK. Post after Close panics, matching close-channel
// semantics; callers coordinate shutdown via the session's EOS signal so
// this never races against an in-flight Post in practice.
func (f *Fifo[T]) Close() { close(f.ch) }

// TakeOK dequeues the next message, reporting ok=false once the fifo is
// closed and drained -- the mechanism by which EOS propagates through
// every fifo in the graph (§5, §7).
func (f *Fifo[T]) TakeOK() (msg T, ok bool) {
	msg, ok = <-f.ch
	return msg, ok
}

// TryTake dequeues the next message without blocking, reporting
// ok=false if the fifo is currently empty. This backs the session API's
// non-blocking get_packet, which must return EB_NoErrorEmptyQueue rather
// than wait (§6, §7).
func (f *Fifo[T]) TryTake() (msg T, ok bool) {
	select {
	case msg, ok = <-f.ch:
		return msg, ok
	default:
		var zero T
		return zero, false
	}
}
