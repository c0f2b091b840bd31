// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/hectic_snap/internal/classifier"
	"github.com/relabs-tech/hectic_snap/internal/config"
	"github.com/relabs-tech/hectic_snap/internal/decision"
	"github.com/relabs-tech/hectic_snap/internal/display"
	"github.com/relabs-tech/hectic_snap/internal/journal"
	"github.com/relabs-tech/hectic_snap/internal/monitor"
	"github.com/relabs-tech/hectic_snap/internal/motion"
)

// wakeInterval is how often a stopped classifier checks for hectic motion.
const wakeInterval = 250 * time.Millisecond

func palette(cfg *config.Config) decision.Palette {
	return decision.Palette{
		Alert:      cfg.PaletteAlert,
		Active:     cfg.PaletteActive,
		Caution:    cfg.PaletteCaution,
		Idle:       cfg.PaletteIdle,
		ActiveText: cfg.PaletteActiveText,
		IdleText:   cfg.PaletteIdleText,
	}
}

func monitorOptions(cfg *config.Config, rec monitor.Recorder, log *slog.Logger) monitor.Options {
	return monitor.Options{
		Capacity:      cfg.BufferCapacity,
		SnapThreshold: cfg.SnapThreshold,
		Estimator: motion.Estimator{
			Threshold:   cfg.HecticThreshold,
			GyroWeight:  cfg.GyroWeight,
			AccelWeight: cfg.AccelWeight,
		},
		Palette:      palette(cfg),
		WakeInterval: wakeInterval,
		Journal:      rec,
		Logger:       log,
	}
}

func newClassifier(cfg *config.Config, client mqtt.Client, log *slog.Logger) (classifier.Classifier, error) {
	switch cfg.ClassifierMode {
	case "mock":
		log.Info("monitor: using mock classifier", "interval_ms", cfg.MockScoreInterval)
		interval := time.Duration(cfg.MockScoreInterval) * time.Millisecond
		return classifier.NewMock(interval, uint64(time.Now().UnixNano())), nil
	case "mqtt":
		return classifier.NewMQTT(client, cfg.TopicSnapScore, cfg.TopicClassifierControl, log)
	default:
		return nil, fmt.Errorf("unknown classifier mode %q", cfg.ClassifierMode)
	}
}

// RunMonitor consumes readings from MQTT, drives the classifier and
// publishes a status for every classifier result.
func RunMonitor(ctx context.Context) error {
	cfg := config.Get()
	log := slog.Default()

	client, err := connectMQTT(cfg.MQTTBroker, cfg.MQTTClientIDMonitor, log)
	if err != nil {
		return err
	}
	defer client.Disconnect(250)

	clf, err := newClassifier(cfg, client, log)
	if err != nil {
		return err
	}
	defer clf.Close()

	var rec monitor.Recorder
	if cfg.JournalPath != "" {
		j, err := journal.Open(ctx, cfg.JournalPath)
		if err != nil {
			return err
		}
		defer j.Close()
		rec = j
		log.Info("monitor: guardian journal", "path", cfg.JournalPath)
	}

	sinks := display.Multi{
		display.NewConsoleSink(os.Stdout, true),
		display.NewMQTTSink(client, cfg.TopicStatus),
	}

	m, err := monitor.New(clf, sinks, monitorOptions(cfg, rec, log))
	if err != nil {
		return err
	}

	topics := readingTopics{accel: cfg.TopicAccel, gyro: cfg.TopicGyro}
	if err := subscribeReadings(client, topics, log, m.AddReading); err != nil {
		return err
	}

	return m.Run(ctx)
}
