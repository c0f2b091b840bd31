// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package classifier

import (
	"math/rand/v2"
	"sync"
	"time"
)

// MockClassifier emits random scores on a ticker while running. About one
// result in five is a snap-like spike.
type MockClassifier struct {
	mu      sync.Mutex
	running bool
	closed  bool
	rng     *rand.Rand
	results chan Result
	done    chan struct{}
	wg      sync.WaitGroup
}

func NewMock(interval time.Duration, seed uint64) *MockClassifier {
	m := &MockClassifier{
		rng:     rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		results: make(chan Result, resultQueue),
		done:    make(chan struct{}),
	}
	m.wg.Add(1)
	go m.loop(interval)
	return m
}

func (m *MockClassifier) loop(interval time.Duration) {
	defer m.wg.Done()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.done:
			return
		case t := <-ticker.C:
			m.mu.Lock()
			if m.running {
				score := m.rng.Float64() * 0.4
				if m.rng.IntN(5) == 0 {
					score = 0.6 + m.rng.Float64()*0.4
				}
				deliver(m.results, Result{Score: score, Time: t})
			}
			m.mu.Unlock()
		}
	}
}

func (m *MockClassifier) Start() error { return m.set(true) }

func (m *MockClassifier) Stop() error { return m.set(false) }

func (m *MockClassifier) set(running bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	m.running = running
	return nil
}

func (m *MockClassifier) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

func (m *MockClassifier) Results() <-chan Result { return m.results }

func (m *MockClassifier) Close() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	m.mu.Unlock()

	close(m.done)
	m.wg.Wait()
	close(m.results)
	return nil
}
