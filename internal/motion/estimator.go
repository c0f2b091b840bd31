// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package motion

const (
	DefaultGyroWeight  = 0.7
	DefaultAccelWeight = 0.3
)

// Assessment is the hecticness verdict for one pair of sample windows.
type Assessment struct {
	GyroEnergy  float64 `json:"gyro_energy"`
	AccelEnergy float64 `json:"accel_energy"`
	Activity    float64 `json:"activity"`
	Hectic      bool    `json:"hectic"`
}

// Estimator combines gyroscope and accelerometer path energies into a
// weighted activity score. Motion is hectic when the score reaches Threshold.
type Estimator struct {
	Threshold   float64
	GyroWeight  float64
	AccelWeight float64
}

// NewEstimator returns an Estimator with the default 0.7/0.3 weighting.
func NewEstimator(threshold float64) Estimator {
	return Estimator{
		Threshold:   threshold,
		GyroWeight:  DefaultGyroWeight,
		AccelWeight: DefaultAccelWeight,
	}
}

// Activity returns the weighted sum of the two energies.
func (e Estimator) Activity(gyroEnergy, accelEnergy float64) float64 {
	return e.GyroWeight*gyroEnergy + e.AccelWeight*accelEnergy
}

// Assess computes both path energies and the resulting verdict. Both slices
// are expected oldest first.
func (e Estimator) Assess(gyro, accel []Sample) Assessment {
	a := Assessment{
		GyroEnergy:  PathEnergy(gyro),
		AccelEnergy: PathEnergy(accel),
	}
	a.Activity = e.Activity(a.GyroEnergy, a.AccelEnergy)
	a.Hectic = a.Activity >= e.Threshold
	return a
}
