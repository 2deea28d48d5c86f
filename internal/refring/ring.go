/*
NAME
  ring.go

DESCRIPTION
  ring.go implements the arena/index scheme from the cyclic-ownership
  design note: reference objects live in a fixed-size ring indexed by a
  slot, each with a generation counter. PPCS and downstream structures
  hold a Handle (slot + generation) instead of a raw pointer. Reference
  counters are integer fields on the slot; more than one stage may change
  them (in session, Picture Analysis acquires, Picture Decision retains
  and Picture Manager releases), always under the ring's mutex.

AUTHORS
  AusOcean AV1 Core Contributors

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package refring provides a fixed-size generation-counted ring used to
// index reference objects without raw pointers or manual release.
package refring

import (
	"fmt"
	"sync"
)

// MaxSlots bounds the number of live reference objects. AV1 allows up to
// 8 reference frame slots; a 4-bit slot index covers that with headroom
// for picture-analysis references tracked in a parallel ring.
const MaxSlots = 16

// Handle addresses one slot at a point in time. A Handle whose Generation
// does not match the slot's current generation is stale and must not be
// dereferenced.
type Handle struct {
	Slot       uint8
	Generation uint32
}

// Invalid is the zero Handle, used to mark "no reference".
var Invalid = Handle{}

type slot struct {
	gen      uint32
	refCount int
	occupied bool
	value    interface{}
}

// Ring is a fixed-size, generation-counted slot array. All methods are
// safe for concurrent use: the ring arbitrates every reference-count
// change with a mutex, whichever stage makes it.
type Ring struct {
	mu    sync.Mutex
	slots [MaxSlots]slot
}

// New returns an empty Ring.
func New() *Ring { return &Ring{} }

// Acquire finds a free slot, stores value with an initial reference count
// of 1, and returns its Handle. It returns an error if the ring is full,
// which is an allocation failure per §4.1 (reported, never silently
// exhausted since pool capacities are sized to preclude it at steady
// state).
func (r *Ring) Acquire(value interface{}) (Handle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.slots {
		if !r.slots[i].occupied {
			r.slots[i].occupied = true
			r.slots[i].value = value
			r.slots[i].refCount = 1
			r.slots[i].gen++
			return Handle{Slot: uint8(i), Generation: r.slots[i].gen}, nil
		}
	}
	return Invalid, fmt.Errorf("refring: no free slot (max %d)", MaxSlots)
}

// Get returns the value stored at h, or ok=false if h is stale or the
// slot is empty.
func (r *Ring) Get(h Handle) (value interface{}, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := &r.slots[h.Slot]
	if !s.occupied || s.gen != h.Generation {
		return nil, false
	}
	return s.value, true
}

// Retain increments h's reference count. It is a no-op if h is stale.
func (r *Ring) Retain(h Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := &r.slots[h.Slot]
	if s.occupied && s.gen == h.Generation {
		s.refCount++
	}
}

// Release decrements h's reference count, freeing the slot once the count
// reaches zero. A freed slot rejects every Handle until the next Acquire
// reuses it with a bumped generation, which keeps old Handles stale.
// Release on an already-stale Handle is a no-op.
func (r *Ring) Release(h Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := &r.slots[h.Slot]
	if !s.occupied || s.gen != h.Generation {
		return
	}
	s.refCount--
	if s.refCount <= 0 {
		s.occupied = false
		s.value = nil
	}
}

// RefCount returns h's current reference count, or 0 if stale.
func (r *Ring) RefCount(h Handle) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := &r.slots[h.Slot]
	if !s.occupied || s.gen != h.Generation {
		return 0
	}
	return s.refCount
}
