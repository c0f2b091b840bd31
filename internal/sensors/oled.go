// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sensors

import (
	"fmt"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/host/v3"
)

// OLED is an SSD1306 panel together with the I²C bus it was opened on.
type OLED struct {
	*ssd1306.Dev
	bus i2c.BusCloser
}

// OpenOLED opens the named I²C bus ("" for the first one) and initializes a
// 128x64 SSD1306 at its default address.
func OpenOLED(busName string) (*OLED, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize periph: %w", err)
	}

	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, fmt.Errorf("failed to open I2C bus %q: %w", busName, err)
	}

	dev, err := ssd1306.NewI2C(bus, &ssd1306.DefaultOpts)
	if err != nil {
		bus.Close()
		return nil, fmt.Errorf("failed to initialize display: %w", err)
	}
	return &OLED{Dev: dev, bus: bus}, nil
}

// Close blanks the panel and releases the bus.
func (o *OLED) Close() error {
	haltErr := o.Dev.Halt()
	if err := o.bus.Close(); err != nil {
		return err
	}
	return haltErr
}
