// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package ringq provides a bounded multi-producer multi-consumer FIFO
// queue built on a lock-free ring buffer, together with a serialized
// reference implementation sharing the same contract.
//
// # Quick Start
//
//	q := ringq.NewMPMC[*Request](4, 4, 1024)
//
//	// In each producer goroutine (id unique in [0, producers)):
//	p := q.Producer(id)
//	p.Push(req)
//
//	// In each consumer goroutine (id unique in [0, consumers)):
//	c := q.Consumer(id)
//	req := c.Pop()
//
// # Worker Binding
//
// The lock-free queue coordinates through a per-worker position registry.
// Every producer and consumer goroutine binds a dense index exactly once
// before its first operation; the returned handle carries the index into
// every Push or Pop. Indices must be unique within a role but the two
// roles number independently: producer 0 and consumer 0 may coexist.
//
// [WorkerIDs] hands out dense indices when the caller does not already
// have them:
//
//	ids := ringq.NewWorkerIDs(producers)
//	go func() {
//	    p := q.Producer(ids.Next())
//	    ...
//	}()
//
// Binding an index twice, or binding one outside the dimensioned range,
// is a programming error and panics.
//
// # Blocking Contract
//
// Push returns when the element is in the queue; Pop returns the next
// element. Both wait in a yield-spin loop while the ring is full or
// empty — the goroutine stays runnable, there is no parking. TryPush and
// TryPop return [ErrWouldBlock] when the queue looks full or empty; they
// may fail spuriously under contention. The check is advisory: once it
// passes they proceed through the blocking Push or Pop, which waits if
// other workers claim the remaining room or elements first.
//
// # Reference Queue
//
// [Serial] implements the identical Push/Pop contract with one mutex and
// two condition variables. It is deliberately small and obviously
// correct, and serves as the behavioral oracle in tests and in the
// cmd/qcheck verification driver. Serial needs no worker binding.
//
// # Ordering
//
// Elements pushed by a single producer are observed by a single consumer
// in push order. Across distinct producers or distinct consumers, order
// follows the queue's internal atomic claim order, which callers cannot
// control. A consumer returning an element observes all memory its
// producer wrote before the matching Push.
//
// # Shutdown
//
// The queue has no shutdown signal. Callers terminate workers through
// the surrounding workload (a quota counter, a sentinel element) and
// must quiesce all workers before dropping the queue.
//
// # Length
//
// The lock-free variants intentionally expose no length: an accurate
// count would require cross-core synchronization on every operation.
// Serial, which already holds a lock, provides Len.
//
// # Race Detection
//
// The lock-free path establishes happens-before edges through atomic
// memory orderings on separate variables, which Go's race detector
// cannot observe. Concurrent tests of the lock-free queue are excluded
// from race builds; see [RaceEnabled].
//
// # Dependencies
//
// This package uses [code.hybscloud.com/atomix] for atomic primitives
// with explicit memory ordering, [code.hybscloud.com/spin] for CPU
// pause instructions in wait loops, and [code.hybscloud.com/iox] for
// semantic errors.
package ringq
