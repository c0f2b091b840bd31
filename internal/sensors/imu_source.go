// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sensors

import (
	"fmt"
	"log/slog"

	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/devices/v3/mpu9250"
	"periph.io/x/host/v3"

	"github.com/relabs-tech/hectic_snap/internal/imu"
)

// IMUSource reads an MPU9250 over SPI.
type IMUSource struct {
	name string
	imu  *mpu9250.MPU9250
}

// IMUOptions selects the SPI wiring and full-scale ranges of one MPU9250.
type IMUOptions struct {
	Name       string // used in logs and as IMURaw.Source
	SPIDevice  string // e.g. /dev/spidev0.0
	CSPin      string // GPIO name of the chip select line
	AccelRange byte   // 0=±2g, 1=±4g, 2=±8g, 3=±16g
	GyroRange  byte   // 0=±250°/s, 1=±500°/s, 2=±1000°/s, 3=±2000°/s
}

// NewIMUSource initializes the MPU9250. Self-test and calibration failures
// are logged and tolerated.
func NewIMUSource(opts IMUOptions, log *slog.Logger) (*IMUSource, error) {
	if log == nil {
		log = slog.Default()
	}
	log = log.With("component", "imu", "imu", opts.Name)
	name := opts.Name

	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("%s IMU: periph host init: %w", name, err)
	}

	cs := gpioreg.ByName(opts.CSPin)
	if cs == nil {
		return nil, fmt.Errorf("%s IMU: CS pin %q not found", name, opts.CSPin)
	}

	tr, err := mpu9250.NewSpiTransport(opts.SPIDevice, cs)
	if err != nil {
		return nil, fmt.Errorf("%s IMU: SPI transport (%s): %w", name, opts.SPIDevice, err)
	}

	dev, err := mpu9250.New(*tr)
	if err != nil {
		return nil, fmt.Errorf("%s IMU: device creation: %w", name, err)
	}

	if err := dev.Init(); err != nil {
		return nil, fmt.Errorf("%s IMU: initialization: %w", name, err)
	}

	if err := dev.SetAccelRange(opts.AccelRange); err != nil {
		return nil, fmt.Errorf("%s IMU: set accel range: %w", name, err)
	}
	log.Info("imu: accelerometer range set", "code", opts.AccelRange, "g", []int{2, 4, 8, 16}[opts.AccelRange&3])

	if err := dev.SetGyroRange(opts.GyroRange); err != nil {
		return nil, fmt.Errorf("%s IMU: set gyro range: %w", name, err)
	}
	log.Info("imu: gyroscope range set", "code", opts.GyroRange, "dps", []int{250, 500, 1000, 2000}[opts.GyroRange&3])

	if res, err := dev.SelfTest(); err != nil {
		log.Warn("imu: self-test failed", "err", err)
	} else {
		log.Info("imu: self-test passed",
			"accel_dev_x", res.AccelDeviation.X, "accel_dev_y", res.AccelDeviation.Y, "accel_dev_z", res.AccelDeviation.Z,
			"gyro_dev_x", res.GyroDeviation.X, "gyro_dev_y", res.GyroDeviation.Y, "gyro_dev_z", res.GyroDeviation.Z)
	}

	if err := dev.Calibrate(); err != nil {
		log.Warn("imu: calibration failed", "err", err)
	} else {
		log.Info("imu: calibration complete")
	}

	return &IMUSource{name: name, imu: dev}, nil
}

// ReadRaw reads accelerometer and gyroscope counts.
func (s *IMUSource) ReadRaw() (imu.IMURaw, error) {
	ax, err := s.imu.GetAccelerationX()
	if err != nil {
		return imu.IMURaw{}, fmt.Errorf("%s IMU accel X: %w", s.name, err)
	}
	ay, err := s.imu.GetAccelerationY()
	if err != nil {
		return imu.IMURaw{}, fmt.Errorf("%s IMU accel Y: %w", s.name, err)
	}
	az, err := s.imu.GetAccelerationZ()
	if err != nil {
		return imu.IMURaw{}, fmt.Errorf("%s IMU accel Z: %w", s.name, err)
	}

	gx, err := s.imu.GetRotationX()
	if err != nil {
		return imu.IMURaw{}, fmt.Errorf("%s IMU gyro X: %w", s.name, err)
	}
	gy, err := s.imu.GetRotationY()
	if err != nil {
		return imu.IMURaw{}, fmt.Errorf("%s IMU gyro Y: %w", s.name, err)
	}
	gz, err := s.imu.GetRotationZ()
	if err != nil {
		return imu.IMURaw{}, fmt.Errorf("%s IMU gyro Z: %w", s.name, err)
	}

	return imu.IMURaw{
		Source: s.name,
		Ax:     ax,
		Ay:     ay,
		Az:     az,
		Gx:     gx,
		Gy:     gy,
		Gz:     gz,
	}, nil
}
