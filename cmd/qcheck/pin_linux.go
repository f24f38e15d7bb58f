// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build linux

package main

import (
	"runtime"

	"golang.org/x/sys/unix"
)

// pinWorker locks the calling goroutine to an OS thread and pins that
// thread to a logical CPU, keeping cache behavior predictable across the
// run. Best effort: affinity errors are ignored.
func pinWorker(slot int) {
	runtime.LockOSThread()

	var set unix.CPUSet
	set.Set(slot % runtime.NumCPU())
	_ = unix.SchedSetaffinity(0, &set)
}
