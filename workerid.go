// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ringq

import "code.hybscloud.com/atomix"

// WorkerIDs assigns dense worker indices 0, 1, 2, … up to a limit.
// Lock-free and constant-time; safe to call from any goroutine. Use one
// assigner per role when producers and consumers number independently.
type WorkerIDs struct {
	next  atomix.Int64
	limit int64
}

// NewWorkerIDs creates an assigner handing out indices in [0, limit).
// Panics if limit < 1.
func NewWorkerIDs(limit int) *WorkerIDs {
	if limit < 1 {
		panic("ringq: worker id limit must be >= 1")
	}
	return &WorkerIDs{limit: int64(limit)}
}

// Next returns the next unassigned index. Panics when limit indices have
// already been handed out; more workers than the queue was dimensioned
// for is a configuration error.
func (w *WorkerIDs) Next() int {
	id := w.next.Add(1) - 1
	if id >= w.limit {
		panic("ringq: worker ids exhausted")
	}
	return int(id)
}
