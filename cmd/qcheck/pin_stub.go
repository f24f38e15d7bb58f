// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build !linux

package main

// pinWorker is a no-op where thread affinity is unavailable.
func pinWorker(int) {}
