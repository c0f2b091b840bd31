// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package imu

import (
	"fmt"
	"time"

	"github.com/relabs-tech/hectic_snap/internal/motion"
)

// Kind identifies which physical sensor produced a reading.
type Kind uint8

const (
	KindAccel Kind = iota + 1
	KindGyro
)

func (k Kind) String() string {
	switch k {
	case KindAccel:
		return "accel"
	case KindGyro:
		return "gyro"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

func (k Kind) MarshalText() ([]byte, error) {
	switch k {
	case KindAccel, KindGyro:
		return []byte(k.String()), nil
	default:
		return nil, fmt.Errorf("imu: invalid kind %d", uint8(k))
	}
}

func (k *Kind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "accel":
		*k = KindAccel
	case "gyro":
		*k = KindGyro
	default:
		return fmt.Errorf("imu: unknown kind %q", b)
	}
	return nil
}

// Reading is one typed sample as carried on the per-kind MQTT topics.
type Reading struct {
	Source string        `json:"source"`
	Kind   Kind          `json:"kind"`
	Sample motion.Sample `json:"sample"`
	Time   time.Time     `json:"time"`
}

// Readings splits a raw sample into its accel and gyro readings.
func Readings(r IMURaw, s Scale, t time.Time) (accel, gyro Reading) {
	accel = Reading{Source: r.Source, Kind: KindAccel, Sample: r.Accel(s), Time: t}
	gyro = Reading{Source: r.Source, Kind: KindGyro, Sample: r.Gyro(s), Time: t}
	return accel, gyro
}
