/*
NAME
  barrier.go

DESCRIPTION
  barrier.go implements the per-picture segmentation join used before
  whole-picture steps such as global motion and MFMV/TPL setup. Per §9's
  design note, this expresses the join as "post all segments, await the
  count, then run the whole-picture step on a dedicated goroutine" rather
  than the "last worker to finish does extra work" pattern, avoiding the
  hidden side effect on an otherwise-interchangeable segment worker.

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

import "sync"

// SegmentBarrier counts completed segments of one picture-wide stage and
// releases waiters once every segment has reported in. It is created
// fresh per picture (the total segment count is fixed per picture from
// the SB grid), and is safe for concurrent use by the stage's worker
// goroutines.
type SegmentBarrier struct {
	mu      sync.Mutex
	total   int
	done    int
	release chan struct{}
	closed  bool
}

// NewSegmentBarrier returns a barrier expecting total segment completions.
func NewSegmentBarrier(total int) *SegmentBarrier {
	return &SegmentBarrier{total: total, release: make(chan struct{})}
}

// Done records one segment's completion. The final call to Done closes
// the release channel, unblocking any goroutine waiting in Wait.
func (b *SegmentBarrier) Done() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.done++
	if b.done >= b.total && !b.closed {
		b.closed = true
		close(b.release)
	}
}

// Wait blocks until every segment has called Done.
func (b *SegmentBarrier) Wait() {
	<-b.release
}

// Count returns the number of segments that have reported completion so
// far.
func (b *SegmentBarrier) Count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.done
}
