// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ringq

import "unsafe"

// Pusher is the producer side of a queue.
//
// Push blocks until the element is in the queue. For the lock-free queue
// a Pusher is a bound producer handle; for Serial the queue itself.
type Pusher[T any] interface {
	// Push adds an element to the queue, waiting while the queue is full.
	Push(elem T)
}

// Popper is the consumer side of a queue.
//
// Pop blocks until an element is available. For the lock-free queue a
// Popper is a bound consumer handle; for Serial the queue itself.
type Popper[T any] interface {
	// Pop removes and returns the next element, waiting while the queue
	// is empty.
	Pop() T
}

// isPow2 reports whether n is a power of two.
func isPow2(n int) bool {
	return n&(n-1) == 0
}

// ptrSize is the size of a pointer in bytes.
const ptrSize = int(unsafe.Sizeof(uintptr(0)))

// pad is cache line padding to prevent false sharing.
type pad [64]byte
