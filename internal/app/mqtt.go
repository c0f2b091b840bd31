// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"encoding/json"
	"fmt"
	"log/slog"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"github.com/relabs-tech/hectic_snap/internal/imu"
)

// connectMQTT connects to broker. The client ID gets a short random suffix so
// two instances of the same binary do not kick each other off the broker.
func connectMQTT(broker, clientID string, log *slog.Logger) (mqtt.Client, error) {
	id := clientID + "-" + uuid.NewString()[:8]
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(id).
		SetAutoReconnect(true).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			log.Warn("mqtt: connection lost", "err", err)
		})

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("mqtt connect %s: %w", broker, token.Error())
	}
	log.Info("mqtt: connected", "broker", broker, "client_id", id)
	return client, nil
}

func publishJSON(client mqtt.Client, topic string, retained bool, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", topic, err)
	}
	if token := client.Publish(topic, 0, retained, payload); token.Wait() && token.Error() != nil {
		return fmt.Errorf("publish %s: %w", topic, token.Error())
	}
	return nil
}

// readingTopics maps each reading kind to its topic.
type readingTopics struct {
	accel string
	gyro  string
}

func (t readingTopics) topic(k imu.Kind) string {
	if k == imu.KindGyro {
		return t.gyro
	}
	return t.accel
}

func publishReading(client mqtt.Client, topics readingTopics, r imu.Reading) error {
	return publishJSON(client, topics.topic(r.Kind), false, r)
}

// subscribeReadings delivers every reading published on either topic to fn.
// The kind is taken from the topic, not the payload.
func subscribeReadings(client mqtt.Client, topics readingTopics, log *slog.Logger, fn func(imu.Reading)) error {
	for _, kind := range []imu.Kind{imu.KindAccel, imu.KindGyro} {
		topic := topics.topic(kind)
		token := client.Subscribe(topic, 0, func(_ mqtt.Client, msg mqtt.Message) {
			var r imu.Reading
			if err := json.Unmarshal(msg.Payload(), &r); err != nil {
				log.Warn("readings: unmarshal", "topic", msg.Topic(), "err", err)
				return
			}
			r.Kind = kind
			fn(r)
		})
		if token.Wait() && token.Error() != nil {
			return fmt.Errorf("subscribe %s: %w", topic, token.Error())
		}
		log.Info("readings: subscribed", "topic", topic)
	}
	return nil
}
