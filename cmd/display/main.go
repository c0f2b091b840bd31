// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/relabs-tech/hectic_snap/internal/app"
	"github.com/relabs-tech/hectic_snap/internal/config"
)

func main() {
	configPath := flag.String("config", "hectic_config.txt", "path to configuration file")
	flag.Parse()

	if err := config.InitGlobal(*configPath); err != nil {
		slog.Error("failed to load config", "path", *configPath, "err", err)
		os.Exit(1)
	}
	slog.SetDefault(app.NewLogger(os.Stdout, config.Get().LogLevel))
	slog.Info("starting hectic-snap OLED display")
	slog.Info("note: I2C access usually requires root (sudo ./display)")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := app.RunDisplay(ctx)
	stop()
	if err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}
