// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image/color"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	nmea "github.com/adrianmo/go-nmea"
	mochi "github.com/mochi-mqtt/server/v2"
	"github.com/mochi-mqtt/server/v2/hooks/auth"
	"github.com/mochi-mqtt/server/v2/listeners"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relabs-tech/hectic_snap/internal/config"
	"github.com/relabs-tech/hectic_snap/internal/decision"
	"github.com/relabs-tech/hectic_snap/internal/display"
	"github.com/relabs-tech/hectic_snap/internal/imu"
	"github.com/relabs-tech/hectic_snap/internal/journal"
	"github.com/relabs-tech/hectic_snap/internal/motion"
	"github.com/relabs-tech/hectic_snap/internal/serialimu"
)

var discard = slog.New(slog.DiscardHandler)

func startBroker(t *testing.T) string {
	t.Helper()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())

	server := mochi.New(nil)
	require.NoError(t, server.AddHook(new(auth.AllowHook), nil))
	require.NoError(t, server.AddListener(listeners.NewTCP(listeners.Config{
		Type:    "tcp",
		ID:      "test",
		Address: addr,
	})))
	require.NoError(t, server.Serve())
	t.Cleanup(func() { server.Close() })

	return "tcp://" + addr
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("debug"))
	assert.Equal(t, slog.LevelInfo, parseLevel("info"))
	assert.Equal(t, slog.LevelWarn, parseLevel("WARN"))
	assert.Equal(t, slog.LevelError, parseLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLevel("verbose"))
}

func TestNewLoggerFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(&buf, "warn")
	log.Info("hidden")
	log.Warn("shown", "k", 1)
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestMonitorOptionsFromConfig(t *testing.T) {
	cfg := config.Defaults()
	cfg.BufferCapacity = 7
	cfg.HecticThreshold = 12
	cfg.PaletteAlert = color.RGBA{R: 1, G: 2, B: 3, A: 0xFF}

	opts := monitorOptions(cfg, nil, discard)
	assert.Equal(t, 7, opts.Capacity)
	assert.Equal(t, cfg.SnapThreshold, opts.SnapThreshold)
	assert.Equal(t, motion.Estimator{Threshold: 12, GyroWeight: cfg.GyroWeight, AccelWeight: cfg.AccelWeight}, opts.Estimator)
	assert.Equal(t, cfg.PaletteAlert, opts.Palette.Alert)
	assert.Equal(t, wakeInterval, opts.WakeInterval)
	assert.Nil(t, opts.Journal)
}

func TestNewClassifierMock(t *testing.T) {
	cfg := config.Defaults()
	cfg.ClassifierMode = "mock"
	clf, err := newClassifier(cfg, nil, discard)
	require.NoError(t, err)
	require.NoError(t, clf.Close())

	cfg.ClassifierMode = "tflite"
	_, err = newClassifier(cfg, nil, discard)
	assert.Error(t, err)
}

func TestReadingsOverMQTT(t *testing.T) {
	broker := startBroker(t)
	topics := readingTopics{accel: "test/accel", gyro: "test/gyro"}

	sub, err := connectMQTT(broker, "sub", discard)
	require.NoError(t, err)
	defer sub.Disconnect(50)
	pub, err := connectMQTT(broker, "pub", discard)
	require.NoError(t, err)
	defer pub.Disconnect(50)

	got := make(chan imu.Reading, 2)
	require.NoError(t, subscribeReadings(sub, topics, discard, func(r imu.Reading) { got <- r }))

	at := time.Date(2026, 4, 2, 10, 0, 0, 0, time.UTC)
	require.NoError(t, publishReading(pub, topics, imu.Reading{Source: "t", Kind: imu.KindGyro, Sample: motion.Sample{X: 9}, Time: at}))
	require.NoError(t, publishReading(pub, topics, imu.Reading{Source: "t", Kind: imu.KindAccel, Sample: motion.Sample{Z: 1}, Time: at}))

	byKind := map[imu.Kind]imu.Reading{}
	for range 2 {
		select {
		case r := <-got:
			byKind[r.Kind] = r
		case <-time.After(5 * time.Second):
			t.Fatal("reading not delivered")
		}
	}
	assert.Equal(t, motion.Sample{X: 9}, byKind[imu.KindGyro].Sample)
	assert.Equal(t, motion.Sample{Z: 1}, byKind[imu.KindAccel].Sample)
	assert.True(t, at.Equal(byKind[imu.KindAccel].Time))
}

type funcSink func(decision.Status) error

func (f funcSink) Show(st decision.Status) error { return f(st) }

func TestRetainedStatusReachesLateSubscriber(t *testing.T) {
	broker := startBroker(t)

	pub, err := connectMQTT(broker, "monitor", discard)
	require.NoError(t, err)
	defer pub.Disconnect(50)
	require.NoError(t, display.NewMQTTSink(pub, "test/status").Show(decision.Status{Text: "SNAP / HECTIC", Score: 0.9}))

	sub, err := connectMQTT(broker, "console", discard)
	require.NoError(t, err)
	defer sub.Disconnect(50)

	got := make(chan decision.Status, 1)
	require.NoError(t, subscribeStatus(sub, "test/status", funcSink(func(st decision.Status) error {
		got <- st
		return nil
	}), discard))

	select {
	case st := <-got:
		assert.Equal(t, "SNAP / HECTIC", st.Text)
		assert.InDelta(t, 0.9, st.Score, 1e-9)
	case <-time.After(5 * time.Second):
		t.Fatal("retained status not delivered")
	}
}

func TestLatestStatus(t *testing.T) {
	var l latestStatus
	_, ok := l.take()
	assert.False(t, ok)

	require.NoError(t, l.Show(decision.Status{Text: "a"}))
	require.NoError(t, l.Show(decision.Status{Text: "b"}))
	st, ok := l.take()
	require.True(t, ok)
	assert.Equal(t, "b", st.Text)

	_, ok = l.take()
	assert.False(t, ok)
}

func TestBridgeSerial(t *testing.T) {
	line := func(body string) string { return "$" + body + "*" + nmea.Checksum(body) + "\r\n" }
	stream := line("PSNPA,0,0,1") + "noise\r\n" + line("PSNPG,4,5,6")

	var got []imu.Reading
	r := serialimu.NewReader(strings.NewReader(stream), "tty")
	err := bridgeSerial(context.Background(), r, func(rd imu.Reading) error {
		got = append(got, rd)
		return errors.New("broker down")
	}, discard)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, imu.KindAccel, got[0].Kind)
	assert.Equal(t, motion.Sample{X: 4, Y: 5, Z: 6}, got[1].Sample)
	assert.Equal(t, 1, r.Malformed)
}

type fixedStatus struct {
	st decision.Status
	ok bool
}

func (f fixedStatus) Last() (decision.Status, bool) { return f.st, f.ok }

func get(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	return resp, buf.Bytes()
}

func TestWebStatus(t *testing.T) {
	stream := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.Write([]byte("stream")) })

	srv := httptest.NewServer(newWebHandler(fixedStatus{}, nil, stream, discard))
	resp, _ := get(t, srv.URL+"/api/status")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	resp, _ = get(t, srv.URL+"/api/guardian")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	_, body := get(t, srv.URL+"/ws/status")
	assert.Equal(t, "stream", string(body))
	srv.Close()

	st := decision.Status{Snap: true, Hectic: true, Text: "SNAP / HECTIC", KeepRunning: true, Guardian: true}
	srv = httptest.NewServer(newWebHandler(fixedStatus{st: st, ok: true}, nil, stream, discard))
	defer srv.Close()
	resp, body = get(t, srv.URL+"/api/status")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	var got decision.Status
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, "SNAP / HECTIC", got.Text)
	assert.True(t, got.Guardian)
}

func TestWebGuardian(t *testing.T) {
	ctx := context.Background()
	j, err := journal.Open(ctx, filepath.Join(t.TempDir(), "guardian.db"))
	require.NoError(t, err)
	defer j.Close()

	srv := httptest.NewServer(newWebHandler(fixedStatus{}, j, http.NotFoundHandler(), discard))
	defer srv.Close()

	resp, body := get(t, srv.URL+"/api/guardian")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, "[]", string(body))

	base := time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)
	for i := range 3 {
		_, err := j.Record(ctx, journal.Entry{Session: "s", At: base.Add(time.Duration(i) * time.Second), Score: 0.6 + 0.1*float64(i)})
		require.NoError(t, err)
	}

	resp, body = get(t, srv.URL+"/api/guardian?limit=2")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var entries []journal.Entry
	require.NoError(t, json.Unmarshal(body, &entries))
	require.Len(t, entries, 2)
	assert.True(t, entries[0].At.After(entries[1].At))

	for _, bad := range []string{"0", "-1", "abc", "501"} {
		resp, _ = get(t, srv.URL+"/api/guardian?limit="+bad)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, bad)
	}
}
