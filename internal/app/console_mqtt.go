// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/hectic_snap/internal/classifier"
	"github.com/relabs-tech/hectic_snap/internal/config"
	"github.com/relabs-tech/hectic_snap/internal/decision"
	"github.com/relabs-tech/hectic_snap/internal/display"
)

// subscribeStatus decodes every status published on topic and hands it to
// sink. Retained statuses are delivered right after subscribing.
func subscribeStatus(client mqtt.Client, topic string, sink display.Sink, log *slog.Logger) error {
	token := client.Subscribe(topic, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var st decision.Status
		if err := json.Unmarshal(msg.Payload(), &st); err != nil {
			log.Warn("status: unmarshal", "err", err)
			return
		}
		if err := sink.Show(st); err != nil {
			log.Warn("status: show", "err", err)
		}
	})
	if token.Wait() && token.Error() != nil {
		return fmt.Errorf("subscribe %s: %w", topic, token.Error())
	}
	log.Info("status: subscribed", "topic", topic)
	return nil
}

func subscribeControl(client mqtt.Client, topic string, w io.Writer, log *slog.Logger) error {
	token := client.Subscribe(topic, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var c classifier.Control
		if err := json.Unmarshal(msg.Payload(), &c); err != nil {
			log.Warn("control: unmarshal", "err", err)
			return
		}
		fmt.Fprintf(w, "[CTRL]   classifier running=%t\n", c.Running)
	})
	if token.Wait() && token.Error() != nil {
		return fmt.Errorf("subscribe %s: %w", topic, token.Error())
	}
	log.Info("control: subscribed", "topic", topic)
	return nil
}

// RunConsoleMQTT prints statuses and classifier control messages published
// by a running monitor.
func RunConsoleMQTT(ctx context.Context) error {
	cfg := config.Get()
	log := slog.Default()

	client, err := connectMQTT(cfg.MQTTBroker, cfg.MQTTClientIDConsole, log)
	if err != nil {
		return err
	}
	defer client.Disconnect(250)

	if err := subscribeStatus(client, cfg.TopicStatus, display.NewConsoleSink(os.Stdout, true), log); err != nil {
		return err
	}
	if err := subscribeControl(client, cfg.TopicClassifierControl, os.Stdout, log); err != nil {
		return err
	}

	<-ctx.Done()
	log.Info("console: shutting down")
	return nil
}
