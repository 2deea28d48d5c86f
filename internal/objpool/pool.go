/*
NAME
  pool.go

DESCRIPTION
  pool.go provides a generic, fixed-capacity, thread-safe object pool used
  to back every typed object pool described in §4.1 (input buffers, PPCS,
  CPCS, ME results, decoded references, PA references, overlay inputs,
  output stream buffers, recon buffers). Acquire/Release require no user
  lock, the same guarantee the teacher's pool.Buffer and codecutil's
  channel-based ringBuffer provide for their respective byte-chunk pools.

AUTHORS
  AusOcean AV1 Core Contributors

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package objpool implements the bounded multi-producer/multi-consumer
// object pools that back every typed pool in the pipeline orchestration
// layer.
package objpool

import (
	"errors"
	"time"
)

// ErrTimeout is returned by Acquire when no object becomes available
// within the given timeout, mirroring pool.ErrTimeout's role in the
// teacher's byte-buffer pool.
var ErrTimeout = errors.New("objpool: acquire timed out")

// Pool is a fixed-capacity pool of *T. All capacity objects are constructed
// up front by the newFn passed to New; when all are out, Acquire blocks
// (or times out) until a Release frees one up. This is what gives the
// pipeline its "pools are sized so the system cannot self-deadlock"
// invariant (§3): capacity is fixed at construction and never grows.
type Pool[T any] struct {
	ch  chan *T
	new func() *T
}

// New returns a Pool with the given capacity. newFn is called capacity
// times, here, to fill the pool; newFn must not return nil.
func New[T any](capacity int, newFn func() *T) *Pool[T] {
	p := &Pool[T]{ch: make(chan *T, capacity), new: newFn}
	for i := 0; i < capacity; i++ {
		p.ch <- newFn()
	}
	return p
}

// Cap returns the pool's fixed capacity.
func (p *Pool[T]) Cap() int { return cap(p.ch) }

// Len returns the number of objects currently idle in the pool.
func (p *Pool[T]) Len() int { return len(p.ch) }

// Acquire blocks until an object is available, returning it. The caller
// becomes the object's exclusive holder (§3's "idle in pool, or held by
// exactly one stage" invariant) until it calls Release.
func (p *Pool[T]) Acquire() *T {
	return <-p.ch
}

// AcquireTimeout behaves like Acquire but returns ErrTimeout if no object
// becomes free within d.
func (p *Pool[T]) AcquireTimeout(d time.Duration) (*T, error) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case v := <-p.ch:
		return v, nil
	case <-t.C:
		return nil, ErrTimeout
	}
}

// Release returns obj to the pool, making it available to the next
// Acquire. Calling Release without a matching prior Acquire (or twice on
// the same acquisition) overfills the pool's backing channel and is a
// programmer error; the pipeline layer never does this because fifo
// handoff is the only way an object changes hands.
func (p *Pool[T]) Release(obj *T) {
	p.ch <- obj
}
