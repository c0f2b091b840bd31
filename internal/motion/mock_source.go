// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package motion

import (
	"math"
	"time"
)

type mockSource struct {
	start time.Time
	burst time.Duration
	now   func() time.Time
}

// NewMockSource creates a mock source that alternates between calm and
// shaking phases, each lasting burst.
func NewMockSource(burst time.Duration) Source {
	return &mockSource{start: time.Now(), burst: burst, now: time.Now}
}

func (m *mockSource) Next() (Sample, Sample, error) {
	elapsed := m.now().Sub(m.start)
	t := elapsed.Seconds()

	// Calm: gravity on Z with a slow wobble. Shaking: fast large swings.
	amp, freq := 0.05, 0.5
	if m.burst > 0 && (elapsed/m.burst)%2 == 1 {
		amp, freq = 1.5, 8
	}

	accel := Sample{
		X: amp * math.Sin(2*math.Pi*freq*t),
		Y: amp * math.Cos(2*math.Pi*freq*t*0.7),
		Z: 1 + amp*0.5*math.Sin(2*math.Pi*freq*t*1.3),
	}
	gyro := Sample{
		X: 40 * amp * math.Cos(2*math.Pi*freq*t),
		Y: 30 * amp * math.Sin(2*math.Pi*freq*t*0.9),
		Z: 20 * amp * math.Sin(2*math.Pi*freq*t*1.1),
	}
	return accel, gyro, nil
}
