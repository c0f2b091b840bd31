// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"sync"
	"time"

	"github.com/relabs-tech/hectic_snap/internal/config"
	"github.com/relabs-tech/hectic_snap/internal/decision"
	"github.com/relabs-tech/hectic_snap/internal/display"
	"github.com/relabs-tech/hectic_snap/internal/sensors"
)

// latestStatus keeps only the newest status between redraws.
type latestStatus struct {
	mu    sync.Mutex
	st    decision.Status
	fresh bool
}

func (l *latestStatus) Show(st decision.Status) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.st, l.fresh = st, true
	return nil
}

// take returns the stored status if it has not been taken yet.
func (l *latestStatus) take() (decision.Status, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.fresh {
		return decision.Status{}, false
	}
	l.fresh = false
	return l.st, true
}

// RunDisplay shows the monitor's status on the SSD1306 OLED.
func RunDisplay(ctx context.Context) error {
	cfg := config.Get()
	log := slog.Default().With("component", "display")

	oled, err := sensors.OpenOLED(cfg.DisplayI2CBus)
	if err != nil {
		return err
	}
	defer oled.Close()

	if err := oled.Draw(oled.Bounds(), display.Waiting(), image.Point{}); err != nil {
		return fmt.Errorf("display: splash: %w", err)
	}

	client, err := connectMQTT(cfg.MQTTBroker, cfg.MQTTClientIDDisplay, log)
	if err != nil {
		return err
	}
	defer client.Disconnect(250)

	latest := &latestStatus{}
	if err := subscribeStatus(client, cfg.TopicStatus, latest, log); err != nil {
		return err
	}

	sink := display.NewOLEDSink(oled)
	interval := time.Duration(cfg.DisplayUpdateInterval) * time.Millisecond
	log.Info("display: running", "interval", interval)

	tick(ctx, interval, func(time.Time) {
		st, ok := latest.take()
		if !ok {
			return
		}
		if err := sink.Show(st); err != nil {
			log.Warn("display: draw", "err", err)
		}
	})
	return nil
}
