// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package monitor ties the motion buffers, the hecticness estimator and the
// snap classifier together. Each classifier result is assessed against the
// most recent motion windows and turned into a display status.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/relabs-tech/hectic_snap/internal/buffer"
	"github.com/relabs-tech/hectic_snap/internal/classifier"
	"github.com/relabs-tech/hectic_snap/internal/decision"
	"github.com/relabs-tech/hectic_snap/internal/display"
	"github.com/relabs-tech/hectic_snap/internal/imu"
	"github.com/relabs-tech/hectic_snap/internal/journal"
	"github.com/relabs-tech/hectic_snap/internal/motion"
)

// Recorder stores guardian events. *journal.Journal implements it.
type Recorder interface {
	Record(ctx context.Context, e journal.Entry) (int64, error)
}

// Options configures a Monitor.
type Options struct {
	Capacity      int
	SnapThreshold float64
	Estimator     motion.Estimator
	Palette       decision.Palette

	// WakeInterval is how often motion is re-assessed while the classifier
	// is stopped. Zero disables it, leaving the classifier stopped until the
	// next Run.
	WakeInterval time.Duration

	Journal Recorder // optional
	Logger  *slog.Logger
}

// Monitor processes classifier results one at a time.
type Monitor struct {
	accel *buffer.Bounded[motion.Sample]
	gyro  *buffer.Bounded[motion.Sample]

	estimator     motion.Estimator
	snapThreshold float64
	palette       decision.Palette
	wake          time.Duration

	clf     classifier.Classifier
	sink    display.Sink
	journal Recorder
	session string
	log     *slog.Logger
	now     func() time.Time

	mu      sync.RWMutex
	last    decision.Status
	hasLast bool
}

// New creates a monitor with two empty buffers of opts.Capacity.
func New(clf classifier.Classifier, sink display.Sink, opts Options) (*Monitor, error) {
	accel, err := buffer.New[motion.Sample](opts.Capacity)
	if err != nil {
		return nil, fmt.Errorf("monitor: accel buffer: %w", err)
	}
	gyro, err := buffer.New[motion.Sample](opts.Capacity)
	if err != nil {
		return nil, fmt.Errorf("monitor: gyro buffer: %w", err)
	}
	if sink == nil {
		sink = display.Multi{}
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	session := uuid.NewString()

	return &Monitor{
		accel:         accel,
		gyro:          gyro,
		estimator:     opts.Estimator,
		snapThreshold: opts.SnapThreshold,
		palette:       opts.Palette,
		wake:          opts.WakeInterval,
		clf:           clf,
		sink:          sink,
		journal:       opts.Journal,
		session:       session,
		log:           log.With("component", "monitor", "session", session),
		now:           time.Now,
	}, nil
}

// Session identifies this monitor instance in statuses and journal entries.
func (m *Monitor) Session() string { return m.session }

func (m *Monitor) AddAccel(s motion.Sample) { m.accel.Add(s) }

func (m *Monitor) AddGyro(s motion.Sample) { m.gyro.Add(s) }

// AddReading routes r to the buffer matching its kind.
func (m *Monitor) AddReading(r imu.Reading) {
	switch r.Kind {
	case imu.KindAccel:
		m.AddAccel(r.Sample)
	case imu.KindGyro:
		m.AddGyro(r.Sample)
	}
}

// Assess evaluates the current contents of both buffers.
func (m *Monitor) Assess() motion.Assessment {
	return m.estimator.Assess(m.gyro.Snapshot(), m.accel.Snapshot())
}

// Last returns the most recent status, if any.
func (m *Monitor) Last() (decision.Status, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.last, m.hasLast
}

// Run starts the classifier and handles its results until ctx is done or
// the result channel is closed. The classifier is stopped on return.
func (m *Monitor) Run(ctx context.Context) error {
	if err := m.clf.Start(); err != nil {
		return fmt.Errorf("monitor: start classifier: %w", err)
	}
	m.log.Info("monitor: started")
	defer func() {
		if err := m.clf.Stop(); err != nil && !errors.Is(err, classifier.ErrClosed) {
			m.log.Warn("monitor: stop classifier", "err", err)
		}
		m.log.Info("monitor: stopped")
	}()

	var wake <-chan time.Time
	if m.wake > 0 {
		ticker := time.NewTicker(m.wake)
		defer ticker.Stop()
		wake = ticker.C
	}

	results := m.clf.Results()
	for {
		select {
		case <-ctx.Done():
			return nil
		case r, ok := <-results:
			if !ok {
				return nil
			}
			m.handle(ctx, r)
		case <-wake:
			m.wakeOnMotion()
		}
	}
}

func (m *Monitor) handle(ctx context.Context, r classifier.Result) decision.Status {
	a := m.Assess()
	st := decision.Decide(r.Score, a, m.snapThreshold, m.palette)
	st.Session = m.session
	st.Time = r.Time
	if st.Time.IsZero() {
		st.Time = m.now()
	}

	m.setRunning(st.KeepRunning)

	m.mu.Lock()
	m.last, m.hasLast = st, true
	m.mu.Unlock()

	if st.Guardian {
		m.log.Warn("monitor: guardian event", "score", st.Score, "activity", st.Activity)
		m.record(ctx, st)
	} else {
		m.log.Debug("monitor: status", "text", st.Text, "score", st.Score, "activity", st.Activity)
	}

	if err := m.sink.Show(st); err != nil {
		m.log.Warn("monitor: display", "err", err)
	}
	return st
}

func (m *Monitor) setRunning(running bool) {
	if running == m.clf.Running() {
		return
	}
	var err error
	if running {
		err = m.clf.Start()
	} else {
		err = m.clf.Stop()
	}
	if err != nil {
		m.log.Warn("monitor: classifier control", "running", running, "err", err)
		return
	}
	m.log.Info("monitor: classifier", "running", running)
}

// wakeOnMotion restarts a stopped classifier once motion turns hectic.
// Without it a stopped classifier would never produce the result needed to
// start it again.
func (m *Monitor) wakeOnMotion() {
	if m.clf.Running() {
		return
	}
	a := m.Assess()
	if !a.Hectic {
		return
	}
	m.log.Info("monitor: motion turned hectic", "activity", a.Activity)
	m.setRunning(true)
}

func (m *Monitor) record(ctx context.Context, st decision.Status) {
	if m.journal == nil {
		return
	}
	id, err := m.journal.Record(ctx, journal.Entry{
		Session:     st.Session,
		At:          st.Time,
		Score:       st.Score,
		Activity:    st.Activity,
		GyroEnergy:  st.GyroEnergy,
		AccelEnergy: st.AccelEnergy,
	})
	if err != nil {
		m.log.Error("monitor: journal", "err", err)
		return
	}
	m.log.Debug("monitor: journal entry", "id", id)
}
