// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package motion reduces recent accelerometer and gyroscope samples to a
// hecticness assessment.
package motion

// Sample is one 3-axis sensor reading.
type Sample struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Source is anything that can provide paired accel/gyro samples over time.
type Source interface {
	Next() (accel, gyro Sample, err error)
}
