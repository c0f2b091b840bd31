// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package motion

import "math"

// Distance returns the Euclidean distance between p1 and p2.
func Distance(p1, p2 Sample) float64 {
	dx := p2.X - p1.X
	dy := p2.Y - p1.Y
	dz := p2.Z - p1.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// PathEnergy returns the length of the polyline that starts at the origin
// and visits samples in order. An empty sequence has zero energy.
func PathEnergy(samples []Sample) float64 {
	var (
		prev Sample
		sum  float64
	)
	for _, s := range samples {
		sum += Distance(prev, s)
		prev = s
	}
	return sum
}
