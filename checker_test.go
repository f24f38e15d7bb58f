// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ringq_test

import (
	"fmt"
	"runtime"
	"sync"
	"testing"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/ringq"
	"github.com/stretchr/testify/assert"
	"github.com/valyala/fastrand"
)

// =============================================================================
// Checkerboard Verification
//
// Producer p stamps MISSED into every cell i ≡ p (mod producers) of a
// backing array and pushes the cell's address. Consumers assert MISSED
// and stamp their id. A cell left EMPTY is a lost push, one left MISSED
// a lost pop. The serialized queue runs the identical workload so the
// two variants can be compared as oracles of each other.
// =============================================================================

const (
	cellEmpty  byte = 0
	cellMissed byte = 255
)

func TestCheckerboard(t *testing.T) {
	if ringq.RaceEnabled {
		t.Skip("skip: lock-free algorithm uses cross-variable memory ordering")
	}

	suite := []struct {
		prodNum, consNum int
		capacity         int
	}{
		{1, 1, 64},
		{4, 4, 256},
		{16, 16, 1024},
		{16, 4, 1024},
		{4, 16, 1024},
	}

	for _, tc := range suite {
		name := fmt.Sprintf("P%d-C%d-Q%d", tc.prodNum, tc.consNum, tc.capacity)

		t.Run("lock-free/"+name, func(t *testing.T) {
			q := ringq.NewMPMC[*byte](tc.prodNum, tc.consNum, tc.capacity)
			runCheckerboard(t, tc.prodNum, tc.consNum, 4096,
				func(id int) func(*byte) { return q.Producer(id).Push },
				func(id int) func() *byte { return q.Consumer(id).Pop },
			)
		})

		t.Run("serialized/"+name, func(t *testing.T) {
			q := ringq.NewSerial[*byte](tc.capacity)
			runCheckerboard(t, tc.prodNum, tc.consNum, 4096,
				func(int) func(*byte) { return q.Push },
				func(int) func() *byte { return q.Pop },
			)
		})
	}
}

func runCheckerboard(t *testing.T, prodNum, consNum, perProd int,
	push func(id int) func(*byte), pop func(id int) func() *byte,
) {
	assert := assert.New(t)

	total := prodNum * perProd
	x := make([]byte, total)
	var quota atomix.Int64
	var wrong atomix.Int64

	var wg sync.WaitGroup
	for p := range prodNum {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			pushX := push(id)
			for i := id; i < total; i += prodNum {
				x[i] = cellMissed
				pushX(&x[i])
			}
		}(p)
	}
	for c := range consNum {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			popX := pop(id)
			stamp := byte(id + 1)
			for quota.Add(1) <= int64(total) {
				v := popX()
				if *v != cellMissed {
					wrong.Add(1)
				}
				*v = stamp
			}
		}(c)
	}
	wg.Wait()

	assert.Zero(wrong.Load(), "cells popped in unexpected state")

	empty, missed := 0, 0
	for i := range x {
		switch x[i] {
		case cellEmpty:
			empty++
		case cellMissed:
			missed++
		}
	}
	assert.Zero(empty, "lost pushes")
	assert.Zero(missed, "lost pops")
}

// =============================================================================
// Randomized Conservation Stress
// =============================================================================

// TestRandomizedStress interleaves producers and consumers with random
// yields and checks multiset equality: every value pushed is popped
// exactly once.
func TestRandomizedStress(t *testing.T) {
	if ringq.RaceEnabled {
		t.Skip("skip: lock-free algorithm uses cross-variable memory ordering")
	}

	const (
		prodNum = 4
		consNum = 4
		perProd = 50_000
		total   = prodNum * perProd
	)

	assert := assert.New(t)

	q := ringq.NewMPMC[int](prodNum, consNum, 64)
	seen := make([]atomix.Int32, total)

	var wg sync.WaitGroup
	for p := range prodNum {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			pr := q.Producer(id)
			for i := range perProd {
				pr.Push(id*perProd + i)
				if fastrand.Uint32n(128) == 0 {
					runtime.Gosched()
				}
			}
		}(p)
	}
	for c := range consNum {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			co := q.Consumer(id)
			for range total / consNum {
				seen[co.Pop()].Add(1)
				if fastrand.Uint32n(128) == 0 {
					runtime.Gosched()
				}
			}
		}(c)
	}
	wg.Wait()

	for i := range seen {
		if !assert.EqualValues(1, seen[i].Load(), "element %d", i) {
			break
		}
	}
}
