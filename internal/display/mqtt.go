// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package display

import (
	"encoding/json"
	"fmt"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/hectic_snap/internal/decision"
)

// MQTTSink publishes each status as retained JSON at QoS 1.
type MQTTSink struct {
	client mqtt.Client
	topic  string
}

func NewMQTTSink(client mqtt.Client, topic string) *MQTTSink {
	return &MQTTSink{client: client, topic: topic}
}

func (m *MQTTSink) Show(st decision.Status) error {
	payload, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("status marshal: %w", err)
	}
	if token := m.client.Publish(m.topic, 1, true, payload); token.Wait() && token.Error() != nil {
		return fmt.Errorf("MQTT publish error (%s): %w", m.topic, token.Error())
	}
	return nil
}
