// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ringq

import "unsafe"

// MPMCPtr is an MPMC queue for unsafe.Pointer values.
// Useful for zero-copy handle passing: the producer enqueues a pointer
// and the consumer receives the same pointer, with ownership passing at
// the moment Pop returns. Same reservation protocol as MPMC.
type MPMCPtr struct {
	ring
	slots []unsafe.Pointer
}

// NewMPMCPtr creates a lock-free MPMC queue for unsafe.Pointer values.
// Capacity must be a power of two >= 2; producers and consumers must be
// at least 1. Invalid configuration panics.
func NewMPMCPtr(producers, consumers, capacity int) *MPMCPtr {
	return &MPMCPtr{
		ring:  newRing(producers, consumers, capacity),
		slots: make([]unsafe.Pointer, capacity),
	}
}

// Producer binds producer index id and returns the push handle.
func (q *MPMCPtr) Producer(id int) *ProducerPtr {
	return &ProducerPtr{q: q, pos: q.bindProducer(id)}
}

// Consumer binds consumer index id and returns the pop handle.
func (q *MPMCPtr) Consumer(id int) *ConsumerPtr {
	return &ConsumerPtr{q: q, pos: q.bindConsumer(id)}
}

// ProducerPtr pushes pointers on behalf of one bound producer goroutine.
type ProducerPtr struct {
	q   *MPMCPtr
	pos *workerPos
}

// Push adds a pointer to the queue, waiting while the queue is full.
func (p *ProducerPtr) Push(elem unsafe.Pointer) {
	q := p.q
	myHead := q.claimHead(p.pos)
	q.waitSlotFree(myHead)

	// Pointer arithmetic avoids slice bounds checking in the hot path.
	// Equivalent to q.slots[myHead&q.mask] = elem
	*(*unsafe.Pointer)(unsafe.Add(unsafe.Pointer(unsafe.SliceData(q.slots)), int(myHead&q.mask)*ptrSize)) = elem
	p.pos.head.StoreRelease(posFree)
}

// TryPush adds a pointer without waiting. Returns ErrWouldBlock when the
// queue looks full; may fail spuriously.
func (p *ProducerPtr) TryPush(elem unsafe.Pointer) error {
	if p.q.full() {
		return ErrWouldBlock
	}
	p.Push(elem)
	return nil
}

// ConsumerPtr pops pointers on behalf of one bound consumer goroutine.
type ConsumerPtr struct {
	q   *MPMCPtr
	pos *workerPos
}

// Pop removes and returns the next pointer, waiting while the queue is
// empty.
func (c *ConsumerPtr) Pop() unsafe.Pointer {
	q := c.q
	myTail := q.claimTail(c.pos)
	q.waitSlotReady(myTail)

	// Equivalent to elem := q.slots[myTail&q.mask]
	slot := (*unsafe.Pointer)(unsafe.Add(unsafe.Pointer(unsafe.SliceData(q.slots)), int(myTail&q.mask)*ptrSize))
	elem := *slot
	*slot = nil
	c.pos.tail.StoreRelease(posFree)
	return elem
}

// TryPop removes a pointer without waiting. Returns (nil, ErrWouldBlock)
// when the queue looks empty; may fail spuriously.
func (c *ConsumerPtr) TryPop() (unsafe.Pointer, error) {
	if c.q.empty() {
		return nil, ErrWouldBlock
	}
	return c.Pop(), nil
}
