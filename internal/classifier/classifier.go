// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package classifier adapts an external snap classifier to a start/stop
// score stream.
package classifier

import (
	"errors"
	"time"
)

// ErrClosed is returned by Start and Stop after Close.
var ErrClosed = errors.New("classifier: closed")

// Result is one classifier emission.
type Result struct {
	Score float64   `json:"score"`
	Time  time.Time `json:"time"`
}

// Classifier emits scores on Results while running.
type Classifier interface {
	Start() error
	Stop() error
	Running() bool
	Results() <-chan Result
	Close() error
}

// resultQueue is the capacity of a classifier's result channel.
const resultQueue = 8

// deliver sends r without blocking, discarding the oldest pending result
// when ch is full. Callers must be the only sender on ch.
func deliver(ch chan Result, r Result) {
	for {
		select {
		case ch <- r:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}
