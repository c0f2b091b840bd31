// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package decision maps a classifier score and a motion assessment to a
// display state and a classifier action.
package decision

import (
	"fmt"
	"image/color"
	"strconv"
	"time"

	"github.com/relabs-tech/hectic_snap/internal/motion"
)

// Palette holds the colors used for each display state.
type Palette struct {
	Alert      color.RGBA // snap while hectic
	Active     color.RGBA // snap while calm
	Caution    color.RGBA // no snap while hectic
	Idle       color.RGBA // no snap while calm
	ActiveText color.RGBA
	IdleText   color.RGBA
}

// Status is the outcome of one classifier result.
type Status struct {
	Snap        bool      `json:"snap"`
	Hectic      bool      `json:"hectic"`
	Text        string    `json:"text"`
	Background  Color     `json:"background"`
	TextColor   Color     `json:"text_color"`
	KeepRunning bool      `json:"keep_running"`
	Guardian    bool      `json:"guardian"`
	Score       float64   `json:"score"`
	Activity    float64   `json:"activity"`
	GyroEnergy  float64   `json:"gyro_energy"`
	AccelEnergy float64   `json:"accel_energy"`
	Session     string    `json:"session,omitempty"`
	Time        time.Time `json:"time"`
}

// Decide applies the four-way snap/hectic mapping. A score strictly above
// snapThreshold is a snap. The classifier keeps running only while motion is
// hectic, whatever the score.
func Decide(score float64, a motion.Assessment, snapThreshold float64, p Palette) Status {
	s := Status{
		Snap:        score > snapThreshold,
		Hectic:      a.Hectic,
		KeepRunning: a.Hectic,
		Score:       score,
		Activity:    a.Activity,
		GyroEnergy:  a.GyroEnergy,
		AccelEnergy: a.AccelEnergy,
	}
	s.Guardian = s.Snap && s.Hectic

	switch {
	case s.Snap && s.Hectic:
		s.Background = Color(p.Alert)
	case s.Snap:
		s.Background = Color(p.Active)
	case s.Hectic:
		s.Background = Color(p.Caution)
	default:
		s.Background = Color(p.Idle)
	}
	if s.Snap {
		s.TextColor = Color(p.ActiveText)
	} else {
		s.TextColor = Color(p.IdleText)
	}
	s.Text = Label(s.Snap, s.Hectic)
	return s
}

// Label returns the display text for a snap/hectic combination.
func Label(snap, hectic bool) string {
	l, r := "NO SNAP", "NO HECTIC"
	if snap {
		l = "SNAP"
	}
	if hectic {
		r = "HECTIC"
	}
	return l + " / " + r
}

// Color is an opaque RGB color that marshals as #rrggbb.
type Color color.RGBA

func (c Color) String() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	return color.RGBA(c).RGBA()
}

func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText accepts exactly #rrggbb.
func (c *Color) UnmarshalText(b []byte) error {
	if len(b) != 7 || b[0] != '#' {
		return fmt.Errorf("decision: invalid color %q: want #rrggbb", b)
	}
	v, err := strconv.ParseUint(string(b[1:]), 16, 32)
	if err != nil {
		return fmt.Errorf("decision: invalid color %q: %w", b, err)
	}
	*c = Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xFF}
	return nil
}

// Luminance returns the relative brightness in [0,1].
func (c Color) Luminance() float64 {
	return (0.2126*float64(c.R) + 0.7152*float64(c.G) + 0.0722*float64(c.B)) / 255
}
