// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/relabs-tech/hectic_snap/internal/config"
	"github.com/relabs-tech/hectic_snap/internal/imu"
	"github.com/relabs-tech/hectic_snap/internal/motion"
	"github.com/relabs-tech/hectic_snap/internal/sensors"
)

// RunIMUProducer samples the MPU9250 and publishes the raw counts plus one
// reading per sensor kind on every tick.
func RunIMUProducer(ctx context.Context) error {
	cfg := config.Get()
	log := slog.Default()

	src, err := sensors.NewIMUSource(sensors.IMUOptions{
		Name:       "main",
		SPIDevice:  cfg.IMUSPIDevice,
		CSPin:      cfg.IMUCSPin,
		AccelRange: cfg.IMUAccelRange,
		GyroRange:  cfg.IMUGyroRange,
	}, log)
	if err != nil {
		return err
	}
	scale := imu.NewScale(cfg.IMUAccelRange, cfg.IMUGyroRange)

	client, err := connectMQTT(cfg.MQTTBroker, cfg.MQTTClientIDProducer, log)
	if err != nil {
		return err
	}
	defer client.Disconnect(250)

	topics := readingTopics{accel: cfg.TopicAccel, gyro: cfg.TopicGyro}
	interval := time.Duration(cfg.IMUSampleInterval) * time.Millisecond
	log.Info("imu producer: publishing", "interval", interval)

	tick(ctx, interval, func(t time.Time) {
		raw, err := src.ReadRaw()
		if err != nil {
			log.Warn("imu producer: read", "err", err)
			return
		}
		if err := publishJSON(client, cfg.TopicIMURaw, false, raw); err != nil {
			log.Warn("imu producer: raw", "err", err)
		}
		accel, gyro := imu.Readings(raw, scale, t)
		for _, r := range []imu.Reading{accel, gyro} {
			if err := publishReading(client, topics, r); err != nil {
				log.Warn("imu producer: reading", "kind", r.Kind, "err", err)
			}
		}
	})
	return nil
}

// RunMockProducer publishes synthetic motion that alternates between calm
// and shaking phases.
func RunMockProducer(ctx context.Context) error {
	cfg := config.Get()
	log := slog.Default()

	client, err := connectMQTT(cfg.MQTTBroker, cfg.MQTTClientIDProducer, log)
	if err != nil {
		return err
	}
	defer client.Disconnect(250)

	src := motion.NewMockSource(mockBurst)
	topics := readingTopics{accel: cfg.TopicAccel, gyro: cfg.TopicGyro}
	interval := time.Duration(cfg.IMUSampleInterval) * time.Millisecond
	log.Info("mock producer: publishing", "interval", interval, "burst", mockBurst)

	tick(ctx, interval, func(t time.Time) {
		accel, gyro, err := src.Next()
		if err != nil {
			log.Warn("mock producer: source", "err", err)
			return
		}
		for _, r := range []imu.Reading{
			{Source: "mock", Kind: imu.KindAccel, Sample: accel, Time: t},
			{Source: "mock", Kind: imu.KindGyro, Sample: gyro, Time: t},
		} {
			if err := publishReading(client, topics, r); err != nil {
				log.Warn("mock producer: reading", "kind", r.Kind, "err", err)
			}
		}
	})
	return nil
}
