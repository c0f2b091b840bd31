// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package display

import (
	"fmt"
	"io"
	"sync"

	"github.com/relabs-tech/hectic_snap/internal/decision"
)

// ConsoleSink prints one line per status. With ANSI set, the label is drawn
// in the status colors using 24-bit escape codes.
type ConsoleSink struct {
	mu   sync.Mutex
	w    io.Writer
	ansi bool

	text string
	bg   decision.Color
	fg   decision.Color
}

func NewConsoleSink(w io.Writer, ansi bool) *ConsoleSink {
	return &ConsoleSink{w: w, ansi: ansi}
}

func (c *ConsoleSink) SetText(text string)            { c.text = text }
func (c *ConsoleSink) SetBackground(bg decision.Color) { c.bg = bg }
func (c *ConsoleSink) SetTextColor(fg decision.Color)  { c.fg = fg }

func (c *ConsoleSink) Show(st decision.Status) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	Apply(c, st)

	label := fmt.Sprintf("%-20s", c.text)
	if c.ansi {
		label = fmt.Sprintf("\x1b[48;2;%d;%d;%dm\x1b[38;2;%d;%d;%dm %s \x1b[0m",
			c.bg.R, c.bg.G, c.bg.B, c.fg.R, c.fg.G, c.fg.B, label)
	}

	_, err := fmt.Fprintf(c.w, "[STATUS] %s bg=%s fg=%s score=%.3f activity=%7.2f (gyro=%7.2f accel=%6.2f)\n",
		label, c.bg, c.fg, st.Score, st.Activity, st.GyroEnergy, st.AccelEnergy)
	return err
}
