// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package classifier

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// Control is the retained payload published on the control topic.
type Control struct {
	Running bool      `json:"running"`
	Time    time.Time `json:"time"`
}

// MQTTClassifier receives scores from an external classifier over MQTT and
// tells it to pause or resume through a retained control message.
type MQTTClassifier struct {
	client       mqtt.Client
	scoreTopic   string
	controlTopic string
	log          *slog.Logger

	// ctlMu serializes control publishes. mu guards the state below and is
	// never held across network I/O, since paho delivers scores from the
	// goroutine that also reads the control PUBACK.
	ctlMu   sync.Mutex
	timeout time.Duration

	mu      sync.Mutex
	running bool
	closed  bool
	results chan Result
}

// controlTimeout bounds the wait for the broker to acknowledge a control
// message.
const controlTimeout = 5 * time.Second

// NewMQTT subscribes to scoreTopic on an already connected client. The
// classifier starts stopped.
func NewMQTT(client mqtt.Client, scoreTopic, controlTopic string, log *slog.Logger) (*MQTTClassifier, error) {
	if log == nil {
		log = slog.Default()
	}
	c := &MQTTClassifier{
		client:       client,
		scoreTopic:   scoreTopic,
		controlTopic: controlTopic,
		log:          log.With("component", "classifier"),
		timeout:      controlTimeout,
		results:      make(chan Result, resultQueue),
	}

	token := client.Subscribe(scoreTopic, 0, c.onScore)
	token.Wait()
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("classifier: subscribe %s: %w", scoreTopic, err)
	}
	c.log.Info("classifier: subscribed", "topic", scoreTopic)
	return c, nil
}

func (c *MQTTClassifier) onScore(_ mqtt.Client, msg mqtt.Message) {
	score, err := ParseScore(msg.Payload())
	if err != nil {
		c.log.Warn("classifier: score payload error", "err", err)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || !c.running {
		return
	}
	deliver(c.results, Result{Score: score, Time: time.Now()})
}

func (c *MQTTClassifier) Start() error { return c.setRunning(true) }

func (c *MQTTClassifier) Stop() error { return c.setRunning(false) }

func (c *MQTTClassifier) setRunning(running bool) error {
	c.ctlMu.Lock()
	defer c.ctlMu.Unlock()

	c.mu.Lock()
	closed, current := c.closed, c.running
	c.mu.Unlock()
	if closed {
		return ErrClosed
	}
	if current == running {
		return nil
	}

	if c.controlTopic != "" {
		if err := c.publishControl(running); err != nil {
			return err
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	c.running = running
	c.log.Debug("classifier: inference toggled", "running", running)
	return nil
}

func (c *MQTTClassifier) publishControl(running bool) error {
	payload, err := json.Marshal(Control{Running: running, Time: time.Now()})
	if err != nil {
		return fmt.Errorf("classifier: control marshal: %w", err)
	}
	token := c.client.Publish(c.controlTopic, 1, true, payload)
	if !token.WaitTimeout(c.timeout) {
		return fmt.Errorf("classifier: control publish: no ack after %s", c.timeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("classifier: control publish: %w", err)
	}
	return nil
}

func (c *MQTTClassifier) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

func (c *MQTTClassifier) Results() <-chan Result { return c.results }

// Close unsubscribes and closes the result channel. The MQTT client is left
// connected.
func (c *MQTTClassifier) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	close(c.results)
	c.mu.Unlock()

	token := c.client.Unsubscribe(c.scoreTopic)
	if !token.WaitTimeout(c.timeout) {
		return fmt.Errorf("classifier: unsubscribe %s: no ack after %s", c.scoreTopic, c.timeout)
	}
	return token.Error()
}

// ParseScore accepts {"score": x} or a bare number.
func ParseScore(b []byte) (float64, error) {
	var v struct {
		Score *float64 `json:"score"`
	}
	if err := json.Unmarshal(b, &v); err == nil && v.Score != nil {
		return *v.Score, nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(string(b)), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid score %q", b)
	}
	return f, nil
}
