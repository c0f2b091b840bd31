// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/relabs-tech/hectic_snap/internal/config"
	"github.com/relabs-tech/hectic_snap/internal/imu"
	"github.com/relabs-tech/hectic_snap/internal/serialimu"
)

// RunSerialProducer bridges NMEA motion sentences from a serial port to the
// reading topics.
func RunSerialProducer(ctx context.Context) error {
	cfg := config.Get()
	log := slog.Default()

	port, err := serialimu.OpenPort(cfg.SerialPort, cfg.SerialBaudRate)
	if err != nil {
		return err
	}
	// Closing the port unblocks the pending read on shutdown.
	stop := context.AfterFunc(ctx, func() { port.Close() })
	defer func() {
		if stop() {
			port.Close()
		}
	}()

	client, err := connectMQTT(cfg.MQTTBroker, cfg.MQTTClientIDSerial, log)
	if err != nil {
		return err
	}
	defer client.Disconnect(250)

	log.Info("serial producer: reading", "port", cfg.SerialPort, "baud", cfg.SerialBaudRate)
	topics := readingTopics{accel: cfg.TopicAccel, gyro: cfg.TopicGyro}
	return bridgeSerial(ctx, serialimu.NewReader(port, cfg.SerialPort), func(r imu.Reading) error {
		return publishReading(client, topics, r)
	}, log)
}

// bridgeSerial forwards readings until the stream ends or ctx is done.
func bridgeSerial(ctx context.Context, r *serialimu.Reader, publish func(imu.Reading) error, log *slog.Logger) error {
	for {
		reading, err := r.Next()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, io.EOF) {
				log.Info("serial producer: stream closed", "unknown", r.Unknown, "malformed", r.Malformed)
				return nil
			}
			return err
		}
		if err := publish(reading); err != nil {
			log.Warn("serial producer: publish", "kind", reading.Kind, "err", err)
		}
	}
}
