// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package buffer

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsInvalidCapacity(t *testing.T) {
	for _, c := range []int{0, -1} {
		b, err := New[int](c)
		require.ErrorIs(t, err, ErrInvalidCapacity)
		assert.Nil(t, b)
	}
}

func TestSizeIsMinOfAddsAndCapacity(t *testing.T) {
	const capacity = 5
	b, err := New[int](capacity)
	require.NoError(t, err)
	assert.True(t, b.IsEmpty())

	for k := 1; k <= 12; k++ {
		b.Add(k)
		assert.Equal(t, min(k, capacity), b.Len(), "after %d adds", k)
		assert.False(t, b.IsEmpty())
	}
	assert.Equal(t, capacity, b.Cap())
}

func TestSnapshotKeepsLastNInOrder(t *testing.T) {
	b, err := New[int](4)
	require.NoError(t, err)

	for k := 1; k <= 10; k++ {
		b.Add(k)
	}
	assert.Equal(t, []int{7, 8, 9, 10}, b.Snapshot())
}

func TestSnapshotDoesNotAlias(t *testing.T) {
	b, err := New[string](2)
	require.NoError(t, err)

	b.Add("a")
	b.Add("b")
	snap := b.Snapshot()

	b.Add("c")
	b.Add("d")
	assert.Equal(t, []string{"a", "b"}, snap)
	assert.Equal(t, []string{"c", "d"}, b.Snapshot())
}

func TestEmptyBufferSignalsAbsence(t *testing.T) {
	b, err := New[int](3)
	require.NoError(t, err)

	assert.Empty(t, b.Snapshot())
	assert.NotNil(t, b.Snapshot())

	_, ok := b.PeekFront()
	assert.False(t, ok)
	_, ok = b.RemoveFront()
	assert.False(t, ok)
}

func TestPeekAndRemoveFront(t *testing.T) {
	b, err := New[int](3)
	require.NoError(t, err)

	for _, v := range []int{1, 2, 3, 4} {
		b.Add(v)
	}

	v, ok := b.PeekFront()
	require.True(t, ok)
	assert.Equal(t, 2, v)
	assert.Equal(t, 3, b.Len())

	v, ok = b.RemoveFront()
	require.True(t, ok)
	assert.Equal(t, 2, v)
	assert.Equal(t, []int{3, 4}, b.Snapshot())

	// Wraps correctly after a removal from a full ring.
	b.Add(5)
	b.Add(6)
	assert.Equal(t, []int{4, 5, 6}, b.Snapshot())

	for _, want := range []int{4, 5, 6} {
		v, ok = b.RemoveFront()
		require.True(t, ok)
		assert.Equal(t, want, v)
	}
	assert.True(t, b.IsEmpty())
}

func TestCapacityOne(t *testing.T) {
	b, err := New[int](1)
	require.NoError(t, err)

	b.Add(1)
	b.Add(2)
	assert.Equal(t, []int{2}, b.Snapshot())
}

func TestConcurrentAddAndSnapshot(t *testing.T) {
	b, err := New[int](100)
	require.NoError(t, err)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 10000; i++ {
			b.Add(i)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			snap := b.Snapshot()
			for j := 1; j < len(snap); j++ {
				if snap[j] != snap[j-1]+1 {
					t.Errorf("snapshot out of order at %d: %v", j, snap[j-1:j+1])
					return
				}
			}
		}
	}()
	wg.Wait()

	assert.Equal(t, 100, b.Len())
	v, ok := b.PeekFront()
	require.True(t, ok)
	assert.Equal(t, 9900, v)
}
