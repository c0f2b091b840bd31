// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package buffer provides a fixed-capacity FIFO that overwrites its oldest
// element when full.
package buffer

import (
	"errors"
	"sync"
)

// ErrInvalidCapacity is returned by New for a capacity below 1.
var ErrInvalidCapacity = errors.New("buffer: capacity must be at least 1")

// Bounded keeps the most recent Cap() elements added to it, oldest first.
// It is safe for one goroutine to Add while others read.
type Bounded[T any] struct {
	mu   sync.RWMutex
	data []T
	head int // index of the oldest element
	size int
}

// New returns an empty buffer holding at most capacity elements.
func New[T any](capacity int) (*Bounded[T], error) {
	if capacity < 1 {
		return nil, ErrInvalidCapacity
	}
	return &Bounded[T]{data: make([]T, capacity)}, nil
}

// Add appends v, dropping the oldest element first when the buffer is full.
func (b *Bounded[T]) Add(v T) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.size == len(b.data) {
		b.data[b.head] = v
		b.head = (b.head + 1) % len(b.data)
		return
	}
	b.data[(b.head+b.size)%len(b.data)] = v
	b.size++
}

// RemoveFront removes and returns the oldest element. ok is false when the
// buffer is empty.
func (b *Bounded[T]) RemoveFront() (v T, ok bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.size == 0 {
		return v, false
	}
	var zero T
	v = b.data[b.head]
	b.data[b.head] = zero
	b.head = (b.head + 1) % len(b.data)
	b.size--
	return v, true
}

// PeekFront returns the oldest element without removing it.
func (b *Bounded[T]) PeekFront() (v T, ok bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.size == 0 {
		return v, false
	}
	return b.data[b.head], true
}

// Len returns the number of buffered elements.
func (b *Bounded[T]) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.size
}

// Cap returns the fixed capacity.
func (b *Bounded[T]) Cap() int {
	return len(b.data)
}

func (b *Bounded[T]) IsEmpty() bool {
	return b.Len() == 0
}

// Snapshot returns a copy of the buffered elements, oldest first. Later
// calls to Add do not affect the returned slice.
func (b *Bounded[T]) Snapshot() []T {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]T, b.size)
	n := copy(out, b.data[b.head:min(b.head+b.size, len(b.data))])
	copy(out[n:], b.data[:b.size-n])
	return out
}
