// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ringq

import (
	"math"

	"code.hybscloud.com/atomix"
)

// posFree marks a registry entry whose owner holds no reservation.
// It is the maximum uint64, so an idle worker never lowers the minimum
// the opposite side computes over the registry.
const posFree = math.MaxUint64

// workerPos publishes one worker's in-flight reservation. The head field
// is written only by the producer bound to this entry, the tail field
// only by the consumer bound to it; each is read by all workers of the
// opposite role. Padded to its own cache line.
type workerPos struct {
	head atomix.Uint64
	tail atomix.Uint64
	_    [64 - 16]byte
}

// storeMax publishes v into a unless a already holds a larger value.
// Keeps the cached safe bounds monotonically non-decreasing even when
// several workers publish stale minimums concurrently.
func storeMax(a *atomix.Uint64, v uint64) {
	for {
		cur := a.LoadRelaxed()
		if v <= cur {
			return
		}
		if a.CompareAndSwapAcqRel(cur, v) {
			return
		}
	}
}
