// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/relabs-tech/hectic_snap/internal/classifier"
	"github.com/relabs-tech/hectic_snap/internal/config"
	"github.com/relabs-tech/hectic_snap/internal/display"
	"github.com/relabs-tech/hectic_snap/internal/monitor"
	"github.com/relabs-tech/hectic_snap/internal/motion"
)

// mockBurst is the length of each calm and shaking phase of the mock motion.
const mockBurst = 5 * time.Second

// RunMockConsole runs the whole pipeline in-process with mock motion and a
// mock classifier, printing statuses to stdout. No broker is needed.
func RunMockConsole(ctx context.Context) error {
	cfg := config.Get()
	log := slog.Default()

	clf := classifier.NewMock(time.Duration(cfg.MockScoreInterval)*time.Millisecond, uint64(time.Now().UnixNano()))
	defer clf.Close()

	m, err := monitor.New(clf, display.NewConsoleSink(os.Stdout, true), monitorOptions(cfg, nil, log))
	if err != nil {
		return err
	}

	src := motion.NewMockSource(mockBurst)
	go tick(ctx, time.Duration(cfg.IMUSampleInterval)*time.Millisecond, func(time.Time) {
		accel, gyro, err := src.Next()
		if err != nil {
			log.Warn("console: mock source", "err", err)
			return
		}
		m.AddAccel(accel)
		m.AddGyro(gyro)
	})

	log.Info("console: running offline demo", "burst", mockBurst)
	return m.Run(ctx)
}

// tick calls fn on every tick of interval until ctx is done.
func tick(ctx context.Context, interval time.Duration, fn func(time.Time)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case t := <-ticker.C:
			fn(t)
		}
	}
}
