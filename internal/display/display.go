// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package display renders decision statuses to consoles, MQTT, an SSD1306
// OLED and websocket clients.
package display

import (
	"errors"

	"github.com/relabs-tech/hectic_snap/internal/decision"
)

// Surface is a text view with a background and a text color.
type Surface interface {
	SetText(text string)
	SetBackground(c decision.Color)
	SetTextColor(c decision.Color)
}

// Apply pushes a status onto a surface.
func Apply(s Surface, st decision.Status) {
	s.SetBackground(st.Background)
	s.SetText(st.Text)
	s.SetTextColor(st.TextColor)
}

// Sink consumes statuses.
type Sink interface {
	Show(st decision.Status) error
}

// Multi fans a status out to every sink and joins their errors.
type Multi []Sink

func (m Multi) Show(st decision.Status) error {
	var errs []error
	for _, s := range m {
		if err := s.Show(st); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
