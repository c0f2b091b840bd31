// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package config

import (
	"fmt"
	"image/color"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/joho/godotenv"

	"github.com/relabs-tech/hectic_snap/internal/decision"
)

// Config holds all application configuration values.
type Config struct {
	// MQTT
	MQTTBroker           string
	MQTTClientIDProducer string
	MQTTClientIDSerial   string
	MQTTClientIDMonitor  string
	MQTTClientIDConsole  string
	MQTTClientIDWeb      string
	MQTTClientIDDisplay  string

	// Topics
	TopicAccel             string
	TopicGyro              string
	TopicIMURaw            string
	TopicSnapScore         string
	TopicClassifierControl string
	TopicStatus            string

	// IMU Hardware
	IMUSPIDevice string
	IMUCSPin     string

	// IMU Sensor Ranges
	// Accelerometer: 0=±2g, 1=±4g, 2=±8g, 3=±16g
	IMUAccelRange byte
	// Gyroscope: 0=±250°/s, 1=±500°/s, 2=±1000°/s, 3=±2000°/s
	IMUGyroRange byte

	// Serial sensor bridge
	SerialPort     string
	SerialBaudRate int

	// Timing
	IMUSampleInterval int // milliseconds
	MockScoreInterval int // milliseconds

	// Hecticness
	BufferCapacity  int
	SnapThreshold   float64
	HecticThreshold float64
	GyroWeight      float64
	AccelWeight     float64

	// Classifier: "mqtt" or "mock"
	ClassifierMode string

	// Palette
	PaletteAlert      color.RGBA
	PaletteActive     color.RGBA
	PaletteCaution    color.RGBA
	PaletteIdle       color.RGBA
	PaletteActiveText color.RGBA
	PaletteIdleText   color.RGBA

	// Web Server
	WebServerPort int

	// Display
	DisplayI2CBus         string // empty selects the first bus
	DisplayUpdateInterval int    // milliseconds

	// Guardian journal (SQLite file, empty disables)
	JournalPath string

	// Logging: debug, info, warn, error
	LogLevel string
}

var (
	globalConfig *Config
	configOnce   sync.Once
	configMu     sync.RWMutex
)

// Defaults returns a Config populated with the values used when a key is
// absent from the configuration file.
func Defaults() *Config {
	return &Config{
		MQTTBroker:           "tcp://localhost:1883",
		MQTTClientIDProducer: "hectic-producer",
		MQTTClientIDSerial:   "hectic-serial-producer",
		MQTTClientIDMonitor:  "hectic-monitor",
		MQTTClientIDConsole:  "hectic-console",
		MQTTClientIDWeb:      "hectic-web",
		MQTTClientIDDisplay:  "hectic-display",

		TopicAccel:             "hectic/imu/accel",
		TopicGyro:              "hectic/imu/gyro",
		TopicIMURaw:            "hectic/imu/raw",
		TopicSnapScore:         "hectic/snap/score",
		TopicClassifierControl: "hectic/snap/control",
		TopicStatus:            "hectic/status",

		IMUSPIDevice: "/dev/spidev0.0",
		IMUCSPin:     "8",

		SerialPort:     "/dev/ttyUSB0",
		SerialBaudRate: 115200,

		IMUSampleInterval: 20,
		MockScoreInterval: 500,

		BufferCapacity:  100,
		SnapThreshold:   0.5,
		HecticThreshold: 25,
		GyroWeight:      0.7,
		AccelWeight:     0.3,

		ClassifierMode: "mqtt",

		PaletteAlert:      color.RGBA{R: 0x00, G: 0xFF, B: 0x00, A: 0xFF},
		PaletteActive:     color.RGBA{R: 0xEF, G: 0x53, B: 0x50, A: 0xFF},
		PaletteCaution:    color.RGBA{R: 0x00, G: 0x00, B: 0xFF, A: 0xFF},
		PaletteIdle:       color.RGBA{R: 0x42, G: 0x42, B: 0x42, A: 0xFF},
		PaletteActiveText: color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF},
		PaletteIdleText:   color.RGBA{R: 0xBD, G: 0xBD, B: 0xBD, A: 0xFF},

		WebServerPort: 8080,

		DisplayUpdateInterval: 200,

		LogLevel: "info",
	}
}

// Load reads the configuration file and returns a Config struct.
// Keys missing from the file keep their Defaults value.
func Load(configPath string) (*Config, error) {
	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	return Parse(file)
}

// Parse reads KEY=VALUE lines (blank lines and # comments ignored).
func Parse(r io.Reader) (*Config, error) {
	values, err := godotenv.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("error reading config: %w", err)
	}

	// Apply in key order so the first reported error is stable.
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	cfg := Defaults()
	for _, key := range keys {
		if err := cfg.setValue(key, strings.TrimSpace(values[key])); err != nil {
			return nil, fmt.Errorf("config key %s: %w", key, err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// setValue sets a config value based on the key.
func (c *Config) setValue(key, value string) error {
	switch key {
	// MQTT
	case "MQTT_BROKER":
		c.MQTTBroker = value
	case "MQTT_CLIENT_ID_PRODUCER":
		c.MQTTClientIDProducer = value
	case "MQTT_CLIENT_ID_SERIAL":
		c.MQTTClientIDSerial = value
	case "MQTT_CLIENT_ID_MONITOR":
		c.MQTTClientIDMonitor = value
	case "MQTT_CLIENT_ID_CONSOLE":
		c.MQTTClientIDConsole = value
	case "MQTT_CLIENT_ID_WEB":
		c.MQTTClientIDWeb = value
	case "MQTT_CLIENT_ID_DISPLAY":
		c.MQTTClientIDDisplay = value

	// Topics
	case "TOPIC_ACCEL":
		c.TopicAccel = value
	case "TOPIC_GYRO":
		c.TopicGyro = value
	case "TOPIC_IMU_RAW":
		c.TopicIMURaw = value
	case "TOPIC_SNAP_SCORE":
		c.TopicSnapScore = value
	case "TOPIC_CLASSIFIER_CONTROL":
		c.TopicClassifierControl = value
	case "TOPIC_STATUS":
		c.TopicStatus = value

	// IMU Hardware
	case "IMU_SPI_DEVICE":
		c.IMUSPIDevice = value
	case "IMU_CS_PIN":
		c.IMUCSPin = value

	// IMU Sensor Ranges
	case "IMU_ACCEL_RANGE":
		rangeVal, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid IMU_ACCEL_RANGE %q: %w", value, err)
		}
		if rangeVal < 0 || rangeVal > 3 {
			return fmt.Errorf("IMU_ACCEL_RANGE must be 0-3 (0=±2g, 1=±4g, 2=±8g, 3=±16g), got %d", rangeVal)
		}
		c.IMUAccelRange = byte(rangeVal)
	case "IMU_GYRO_RANGE":
		rangeVal, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid IMU_GYRO_RANGE %q: %w", value, err)
		}
		if rangeVal < 0 || rangeVal > 3 {
			return fmt.Errorf("IMU_GYRO_RANGE must be 0-3 (0=±250°/s, 1=±500°/s, 2=±1000°/s, 3=±2000°/s), got %d", rangeVal)
		}
		c.IMUGyroRange = byte(rangeVal)

	// Serial
	case "SERIAL_PORT":
		c.SerialPort = value
	case "SERIAL_BAUD_RATE":
		rate, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid SERIAL_BAUD_RATE %q: %w", value, err)
		}
		c.SerialBaudRate = rate

	// Timing
	case "IMU_SAMPLE_INTERVAL":
		interval, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid IMU_SAMPLE_INTERVAL %q: %w", value, err)
		}
		c.IMUSampleInterval = interval
	case "MOCK_SCORE_INTERVAL":
		interval, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid MOCK_SCORE_INTERVAL %q: %w", value, err)
		}
		c.MockScoreInterval = interval

	// Hecticness
	case "BUFFER_CAPACITY":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid BUFFER_CAPACITY %q: %w", value, err)
		}
		c.BufferCapacity = n
	case "SNAP_THRESHOLD":
		return parseFloat(value, &c.SnapThreshold)
	case "HECTIC_THRESHOLD":
		return parseFloat(value, &c.HecticThreshold)
	case "GYRO_WEIGHT":
		return parseFloat(value, &c.GyroWeight)
	case "ACCEL_WEIGHT":
		return parseFloat(value, &c.AccelWeight)

	case "CLASSIFIER_MODE":
		switch value {
		case "mqtt", "mock":
			c.ClassifierMode = value
		default:
			return fmt.Errorf("CLASSIFIER_MODE must be mqtt or mock, got %q", value)
		}

	// Palette
	case "PALETTE_ALERT":
		return parseColor(value, &c.PaletteAlert)
	case "PALETTE_ACTIVE":
		return parseColor(value, &c.PaletteActive)
	case "PALETTE_CAUTION":
		return parseColor(value, &c.PaletteCaution)
	case "PALETTE_IDLE":
		return parseColor(value, &c.PaletteIdle)
	case "PALETTE_ACTIVE_TEXT":
		return parseColor(value, &c.PaletteActiveText)
	case "PALETTE_IDLE_TEXT":
		return parseColor(value, &c.PaletteIdleText)

	// Web Server
	case "WEB_SERVER_PORT":
		port, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid WEB_SERVER_PORT %q: %w", value, err)
		}
		c.WebServerPort = port

	// Display
	case "DISPLAY_I2C_BUS":
		c.DisplayI2CBus = value
	case "DISPLAY_UPDATE_INTERVAL":
		interval, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid DISPLAY_UPDATE_INTERVAL %q: %w", value, err)
		}
		c.DisplayUpdateInterval = interval

	case "JOURNAL_PATH":
		c.JournalPath = value

	case "LOG_LEVEL":
		switch strings.ToLower(value) {
		case "debug", "info", "warn", "error":
			c.LogLevel = strings.ToLower(value)
		default:
			return fmt.Errorf("LOG_LEVEL must be debug, info, warn or error, got %q", value)
		}

	default:
		return fmt.Errorf("unknown config key: %q", key)
	}

	return nil
}

func parseFloat(value string, dst *float64) error {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fmt.Errorf("invalid number %q: %w", value, err)
	}
	*dst = f
	return nil
}

// parseColor accepts #rrggbb (the leading # is optional).
func parseColor(value string, dst *color.RGBA) error {
	var c decision.Color
	if err := c.UnmarshalText([]byte("#" + strings.TrimPrefix(value, "#"))); err != nil {
		return fmt.Errorf("invalid color %q: %w", value, err)
	}
	*dst = color.RGBA(c)
	return nil
}

// validate checks that all required fields are set.
func (c *Config) validate() error {
	if c.MQTTBroker == "" {
		return fmt.Errorf("MQTT_BROKER is required")
	}
	if c.BufferCapacity < 1 {
		return fmt.Errorf("BUFFER_CAPACITY must be at least 1, got %d", c.BufferCapacity)
	}
	if c.IMUSampleInterval <= 0 {
		return fmt.Errorf("IMU_SAMPLE_INTERVAL must be positive")
	}
	if c.MockScoreInterval <= 0 {
		return fmt.Errorf("MOCK_SCORE_INTERVAL must be positive")
	}
	if c.DisplayUpdateInterval <= 0 {
		return fmt.Errorf("DISPLAY_UPDATE_INTERVAL must be positive")
	}
	if c.SerialBaudRate <= 0 {
		return fmt.Errorf("SERIAL_BAUD_RATE must be positive")
	}
	if c.TopicAccel == "" || c.TopicGyro == "" || c.TopicSnapScore == "" || c.TopicStatus == "" {
		return fmt.Errorf("TOPIC_ACCEL, TOPIC_GYRO, TOPIC_SNAP_SCORE and TOPIC_STATUS are required")
	}
	return nil
}

// InitGlobal initializes the global configuration from file.
// Only the first call loads; later calls are no-ops.
func InitGlobal(configPath string) error {
	var err error
	configOnce.Do(func() {
		configMu.Lock()
		defer configMu.Unlock()
		globalConfig, err = Load(configPath)
	})
	return err
}

// Get returns the global configuration instance.
// InitGlobal must be called first, or this will return nil.
func Get() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return globalConfig
}
