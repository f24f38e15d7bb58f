// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ringq

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// ring is the coordination state shared by the element-typed queue
// variants: the monotone claim counters, the cached safe bounds, and the
// per-worker position registry. The element slots live in the variant.
//
// head is the next index a producer will claim, tail the next index a
// consumer will claim. Both are claimed by unconditional FAA, so either
// counter may run ahead of the other while its claimants wait: tail
// exceeds head when consumers wait on an empty ring, and head exceeds
// tail + capacity when producers wait on a full one. The ring never holds
// more than capacity elements because a producer waits until its
// reservation is below lastTail + capacity before touching the slot.
type ring struct {
	_        pad
	head     atomix.Uint64 // next producer claim (FAA)
	_        pad
	tail     atomix.Uint64 // next consumer claim (FAA)
	_        pad
	lastHead atomix.Uint64 // lower bound on the minimum live producer reservation
	_        pad
	lastTail atomix.Uint64 // lower bound on the minimum live consumer reservation
	_        pad
	reg       []workerPos
	prodBinds []atomix.Int64
	consBinds []atomix.Int64
	mask      uint64
	capacity  uint64
	producers int
	consumers int
}

func newRing(producers, consumers, capacity int) ring {
	if producers < 1 || consumers < 1 {
		panic("ringq: producers and consumers must be >= 1")
	}
	if capacity < 2 || !isPow2(capacity) {
		panic("ringq: capacity must be a power of two >= 2")
	}

	r := ring{
		reg:       make([]workerPos, max(producers, consumers)),
		prodBinds: make([]atomix.Int64, producers),
		consBinds: make([]atomix.Int64, consumers),
		mask:      uint64(capacity) - 1,
		capacity:  uint64(capacity),
		producers: producers,
		consumers: consumers,
	}
	for i := range r.reg {
		r.reg[i].head.StoreRelaxed(posFree)
		r.reg[i].tail.StoreRelaxed(posFree)
	}
	return r
}

// bindProducer claims producer index id and returns its registry entry.
// An index may be bound once per role.
func (r *ring) bindProducer(id int) *workerPos {
	if id < 0 || id >= r.producers {
		panic("ringq: producer index out of range")
	}
	if r.prodBinds[id].Add(1) != 1 {
		panic("ringq: producer index bound twice")
	}
	return &r.reg[id]
}

// bindConsumer claims consumer index id and returns its registry entry.
func (r *ring) bindConsumer(id int) *workerPos {
	if id < 0 || id >= r.consumers {
		panic("ringq: consumer index out of range")
	}
	if r.consBinds[id].Add(1) != 1 {
		panic("ringq: consumer index bound twice")
	}
	return &r.reg[id]
}

// claimHead reserves the next push position for the producer owning pos.
//
// The reservation publishes in two steps. The first store snapshots the
// current head before the increment makes the claim visible: a consumer
// scanning the registry between the two stores sees either the old head
// or the claim itself, never a value above the true reservation. The
// scan computes a minimum, so under-reporting is safe and over-reporting
// is not. Both stores and the increment are sequentially consistent, so
// the snapshot cannot reorder past the increment.
func (r *ring) claimHead(pos *workerPos) uint64 {
	pos.head.Store(r.head.Load())
	myHead := r.head.Add(1) - 1
	pos.head.Store(myHead)
	return myHead
}

// claimTail reserves the next pop position for the consumer owning pos.
// Two-step publication as in claimHead, mirrored for the tail side.
func (r *ring) claimTail(pos *workerPos) uint64 {
	pos.tail.Store(r.tail.Load())
	myTail := r.tail.Add(1) - 1
	pos.tail.Store(myTail)
	return myTail
}

// waitSlotFree blocks until the slot at reservation myHead may be
// overwritten: every consumer that could still be reading position
// myHead-capacity must have released it. The consumer the slot belonged
// to is either past it (its registry entry exceeds myHead-capacity) or
// idle (posFree), so refreshing lastTail eventually lets us through.
func (r *ring) waitSlotFree(myHead uint64) {
	sw := spin.Wait{}
	for myHead >= r.lastTail.LoadAcquire()+r.capacity {
		sw.Once()
		r.updateLastTail()
	}
}

// waitSlotReady blocks until the slot at reservation myTail has been
// written and released by its producer. Proceeding requires
// myTail < lastHead <= min over live producer reservations: every
// producer at or below myTail has released, and since myTail < head the
// position was claimed, so the payload store is visible through the
// release/acquire pairing on the registry entry.
func (r *ring) waitSlotReady(myTail uint64) {
	sw := spin.Wait{}
	for myTail >= r.lastHead.LoadAcquire() {
		sw.Once()
		r.updateLastHead()
	}
}

// updateLastTail recomputes the consumer-side safe bound as the minimum
// of tail and every live consumer reservation. Idle entries hold posFree
// and never lower the minimum.
func (r *ring) updateLastTail() {
	min := r.tail.Load()
	for i := 0; i < r.consumers; i++ {
		if t := r.reg[i].tail.LoadAcquire(); t < min {
			min = t
		}
	}
	storeMax(&r.lastTail, min)
}

// updateLastHead recomputes the producer-side safe bound as the minimum
// of head and every live producer reservation.
func (r *ring) updateLastHead() {
	min := r.head.Load()
	for i := 0; i < r.producers; i++ {
		if h := r.reg[i].head.LoadAcquire(); h < min {
			min = h
		}
	}
	storeMax(&r.lastHead, min)
}

// full reports whether a push would currently wait, refreshing the
// safe bound once before deciding. Advisory: the answer may be stale by
// the time the caller acts on it.
func (r *ring) full() bool {
	if r.head.Load() < r.lastTail.LoadAcquire()+r.capacity {
		return false
	}
	r.updateLastTail()
	return r.head.Load() >= r.lastTail.LoadAcquire()+r.capacity
}

// empty reports whether a pop would currently wait. Advisory, as full.
func (r *ring) empty() bool {
	if r.tail.Load() < r.lastHead.LoadAcquire() {
		return false
	}
	r.updateLastHead()
	return r.tail.Load() >= r.lastHead.LoadAcquire()
}

// Cap returns the queue capacity.
func (r *ring) Cap() int {
	return int(r.capacity)
}
