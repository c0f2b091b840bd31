// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/relabs-tech/hectic_snap/internal/config"
	"github.com/relabs-tech/hectic_snap/internal/decision"
	"github.com/relabs-tech/hectic_snap/internal/display"
	"github.com/relabs-tech/hectic_snap/internal/journal"
)

const (
	defaultGuardianLimit = 20
	maxGuardianLimit     = 500
)

type statusSource interface {
	Last() (decision.Status, bool)
}

type guardianLog interface {
	Recent(ctx context.Context, limit int) ([]journal.Entry, error)
}

// newWebHandler serves the latest status, the guardian journal and the
// websocket stream. events may be nil when no journal is configured.
func newWebHandler(status statusSource, events guardianLog, stream http.Handler, log *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/status", func(w http.ResponseWriter, r *http.Request) {
		st, ok := status.Last()
		if !ok {
			http.Error(w, "no data yet", http.StatusServiceUnavailable)
			return
		}
		writeJSON(w, st, log)
	})

	mux.HandleFunc("GET /api/guardian", func(w http.ResponseWriter, r *http.Request) {
		if events == nil {
			http.Error(w, "journal disabled", http.StatusNotFound)
			return
		}
		limit := defaultGuardianLimit
		if s := r.URL.Query().Get("limit"); s != "" {
			n, err := strconv.Atoi(s)
			if err != nil || n < 1 || n > maxGuardianLimit {
				http.Error(w, fmt.Sprintf("limit must be 1..%d", maxGuardianLimit), http.StatusBadRequest)
				return
			}
			limit = n
		}
		entries, err := events.Recent(r.Context(), limit)
		if err != nil {
			log.Error("web: guardian query", "err", err)
			http.Error(w, "journal unavailable", http.StatusInternalServerError)
			return
		}
		writeJSON(w, entries, log)
	})

	mux.Handle("GET /ws/status", stream)
	return mux
}

func writeJSON(w http.ResponseWriter, v any, log *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn("web: json encode", "err", err)
	}
}

// RunWeb serves the monitor's statuses over HTTP and websocket.
func RunWeb(ctx context.Context) error {
	cfg := config.Get()
	log := slog.Default().With("component", "web")

	client, err := connectMQTT(cfg.MQTTBroker, cfg.MQTTClientIDWeb, log)
	if err != nil {
		return err
	}
	defer client.Disconnect(250)

	hub := display.NewHub(log)
	if err := subscribeStatus(client, cfg.TopicStatus, hub, log); err != nil {
		return err
	}

	var events guardianLog
	if cfg.JournalPath != "" {
		j, err := journal.Open(ctx, cfg.JournalPath)
		if err != nil {
			return err
		}
		defer j.Close()
		events = j
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.WebServerPort),
		Handler:           newWebHandler(hub, events, hub, log),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Info("web: listening", "addr", srv.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("web: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("web: shutdown: %w", err)
	}
	return nil
}
