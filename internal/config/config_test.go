// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package config

import (
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEmptyKeepsDefaults(t *testing.T) {
	cfg, err := Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
	assert.Equal(t, 100, cfg.BufferCapacity)
	assert.Equal(t, 0.7, cfg.GyroWeight)
	assert.Equal(t, 0.3, cfg.AccelWeight)
}

func TestParseOverrides(t *testing.T) {
	in := `
# broker
MQTT_BROKER=tcp://broker.local:1883
BUFFER_CAPACITY=50
HECTIC_THRESHOLD=12.5
SNAP_THRESHOLD=0.8
IMU_ACCEL_RANGE=2
IMU_GYRO_RANGE=1
CLASSIFIER_MODE=mock
PALETTE_ALERT=#112233
DISPLAY_I2C_BUS=2
LOG_LEVEL=DEBUG
`
	cfg, err := Parse(strings.NewReader(in))
	require.NoError(t, err)

	assert.Equal(t, "tcp://broker.local:1883", cfg.MQTTBroker)
	assert.Equal(t, 50, cfg.BufferCapacity)
	assert.Equal(t, 12.5, cfg.HecticThreshold)
	assert.Equal(t, 0.8, cfg.SnapThreshold)
	assert.Equal(t, byte(2), cfg.IMUAccelRange)
	assert.Equal(t, byte(1), cfg.IMUGyroRange)
	assert.Equal(t, "mock", cfg.ClassifierMode)
	assert.Equal(t, color.RGBA{R: 0x11, G: 0x22, B: 0x33, A: 0xFF}, cfg.PaletteAlert)
	assert.Equal(t, "2", cfg.DisplayI2CBus)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"unknown key", "NOPE=1", "unknown config key"},
		{"accel range", "IMU_ACCEL_RANGE=4", "IMU_ACCEL_RANGE must be 0-3"},
		{"gyro range not a number", "IMU_GYRO_RANGE=x", "invalid IMU_GYRO_RANGE"},
		{"capacity", "BUFFER_CAPACITY=0", "BUFFER_CAPACITY must be at least 1"},
		{"color", "PALETTE_IDLE=#12345", "invalid color"},
		{"color trailing junk", "PALETTE_IDLE=#ff00ffzz", "invalid color"},
		{"color not hex", "PALETTE_IDLE=#gg0000", "invalid color"},
		{"classifier mode", "CLASSIFIER_MODE=tflite", "CLASSIFIER_MODE must be"},
		{"threshold", "HECTIC_THRESHOLD=high", "invalid number"},
		{"empty broker", "MQTT_BROKER=", "MQTT_BROKER is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.in))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestColorWithoutHash(t *testing.T) {
	cfg, err := Parse(strings.NewReader("PALETTE_IDLE=0a0b0c"))
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{R: 0x0A, G: 0x0B, B: 0x0C, A: 0xFF}, cfg.PaletteIdle)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hectic_config.txt")
	require.NoError(t, os.WriteFile(path, []byte("TOPIC_STATUS=test/status\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "test/status", cfg.TopicStatus)

	_, err = Load(filepath.Join(t.TempDir(), "missing.txt"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open config file")
}
