// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Command qcheck runs the checkerboard verification workload against the
// lock-free MPMC queue and the serialized reference queue.
//
// Each producer p stamps MISSED into every cell i ≡ p (mod producers) of
// a shared backing array and pushes the cell's address. Each consumer
// pops until a shared quota is reached, asserts the cell reads MISSED,
// and stamps its own id. After all workers join, a cell still EMPTY is a
// lost push and a cell still MISSED is a lost pop.
//
// Prints Passed or FAILED with reason; exits non-zero on failure.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"
	"unsafe"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/ringq"
	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
)

const (
	producers   = 16
	consumers   = 16
	queueSize   = 32 * 1024
	perProducer = queueSize * 1024
	totalItems  = perProducer * producers
)

const (
	cellEmpty  byte = 0   // skipped by producers
	cellMissed byte = 255 // skipped by consumers
)

type (
	pushFunc = func(ptr *byte)
	popFunc  = func() *byte
)

func main() {
	w := os.Stderr
	log := slog.New(tint.NewHandler(w, &tint.Options{
		NoColor: !isatty.IsTerminal(w.Fd()),
	}))

	lf := ringq.NewMPMCPtr(producers, consumers, queueSize)
	lfErr := runCheck(log, "lock-free",
		func(id int) pushFunc {
			p := lf.Producer(id)
			return func(ptr *byte) { p.Push(unsafe.Pointer(ptr)) }
		},
		func(id int) popFunc {
			c := lf.Consumer(id)
			return func() *byte { return (*byte)(c.Pop()) }
		},
	)

	sq := ringq.NewSerial[*byte](queueSize)
	sqErr := runCheck(log, "serialized",
		func(int) pushFunc { return sq.Push },
		func(int) popFunc { return sq.Pop },
	)

	if lfErr != nil || sqErr != nil {
		for _, err := range []error{lfErr, sqErr} {
			if err != nil {
				fmt.Println("FAILED:", err)
			}
		}
		os.Exit(1)
	}
	fmt.Println("Passed")
}

// runCheck executes the checkerboard workload on one queue variant.
// push and pop take the worker's dense index and return the bound
// operation, so the lock-free queue can register its workers while the
// serialized queue ignores the index.
func runCheck(log *slog.Logger, name string, push func(id int) pushFunc, pop func(id int) popFunc) error {
	log.Info("starting checkerboard run",
		"queue", name,
		"producers", producers,
		"consumers", consumers,
		"capacity", queueSize,
		"items", totalItems,
	)

	x := make([]byte, totalItems)
	var quota atomix.Int64
	var badCells atomix.Int64
	start := time.Now()

	var wg sync.WaitGroup
	for p := range producers {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			pinWorker(id)
			pushX := push(id)
			for i := id; i < totalItems; i += producers {
				x[i] = cellMissed
				pushX(&x[i])
			}
		}(p)
	}

	// Let the queue fill so consumers start against a saturated ring.
	time.Sleep(10 * time.Millisecond)

	for c := range consumers {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			pinWorker(producers + id)
			popX := pop(id)
			stamp := byte(id + 1) // never zero
			for quota.Add(1) <= totalItems {
				v := popX()
				if *v != cellMissed {
					badCells.Add(1)
				}
				*v = stamp
			}
		}(c)
	}

	wg.Wait()
	log.Info("workers joined",
		"queue", name,
		"elapsed", time.Since(start),
	)

	if n := badCells.Load(); n > 0 {
		return fmt.Errorf("%s: %d cells popped in unexpected state", name, n)
	}
	for i := range totalItems {
		switch x[i] {
		case cellEmpty:
			return fmt.Errorf("%s: cell %d empty (lost push)", name, i)
		case cellMissed:
			return fmt.Errorf("%s: cell %d missed (lost pop)", name, i)
		}
	}
	log.Info("checkerboard verified", "queue", name)
	return nil
}
