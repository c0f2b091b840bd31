// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package imu

import "github.com/relabs-tech/hectic_snap/internal/motion"

// IMURaw represents a single raw accel+gyro sample in sensor counts.
type IMURaw struct {
	Source string `json:"source"`
	Ax     int16  `json:"ax"` // accel
	Ay     int16  `json:"ay"`
	Az     int16  `json:"az"`
	Gx     int16  `json:"gx"` // gyro
	Gy     int16  `json:"gy"`
	Gz     int16  `json:"gz"`
}

// IMURawSource is anything that yields raw samples.
type IMURawSource interface {
	ReadRaw() (IMURaw, error)
}

// Sensitivities per full-scale range setting (MPU9250 datasheet).
var (
	accelLSBPerG   = [4]float64{16384, 8192, 4096, 2048}
	gyroLSBPerDegS = [4]float64{131, 65.5, 32.8, 16.4}
)

// Scale converts counts to physical units for a given range configuration.
type Scale struct {
	AccelLSB float64 // counts per g
	GyroLSB  float64 // counts per °/s
}

// NewScale returns the scale for the accel (0-3) and gyro (0-3) range codes.
// Out-of-range codes fall back to the most sensitive setting.
func NewScale(accelRange, gyroRange byte) Scale {
	if accelRange > 3 {
		accelRange = 0
	}
	if gyroRange > 3 {
		gyroRange = 0
	}
	return Scale{AccelLSB: accelLSBPerG[accelRange], GyroLSB: gyroLSBPerDegS[gyroRange]}
}

// Accel returns the acceleration in g.
func (r IMURaw) Accel(s Scale) motion.Sample {
	return motion.Sample{
		X: float64(r.Ax) / s.AccelLSB,
		Y: float64(r.Ay) / s.AccelLSB,
		Z: float64(r.Az) / s.AccelLSB,
	}
}

// Gyro returns the angular rate in °/s.
func (r IMURaw) Gyro(s Scale) motion.Sample {
	return motion.Sample{
		X: float64(r.Gx) / s.GyroLSB,
		Y: float64(r.Gy) / s.GyroLSB,
		Z: float64(r.Gz) / s.GyroLSB,
	}
}
