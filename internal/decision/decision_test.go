// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package decision

import (
	"encoding/json"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relabs-tech/hectic_snap/internal/motion"
)

var testPalette = Palette{
	Alert:      color.RGBA{G: 0xFF, A: 0xFF},
	Active:     color.RGBA{R: 0xFF, A: 0xFF},
	Caution:    color.RGBA{B: 0xFF, A: 0xFF},
	Idle:       color.RGBA{R: 0x10, G: 0x10, B: 0x10, A: 0xFF},
	ActiveText: color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF},
	IdleText:   color.RGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xFF},
}

func TestDecideTable(t *testing.T) {
	tests := []struct {
		score       float64
		hectic      bool
		text        string
		background  color.RGBA
		textColor   color.RGBA
		keepRunning bool
		guardian    bool
	}{
		{0.9, true, "SNAP / HECTIC", testPalette.Alert, testPalette.ActiveText, true, true},
		{0.9, false, "SNAP / NO HECTIC", testPalette.Active, testPalette.ActiveText, false, false},
		{0.1, true, "NO SNAP / HECTIC", testPalette.Caution, testPalette.IdleText, true, false},
		{0.1, false, "NO SNAP / NO HECTIC", testPalette.Idle, testPalette.IdleText, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			s := Decide(tt.score, motion.Assessment{Hectic: tt.hectic, Activity: 4}, 0.5, testPalette)
			assert.Equal(t, tt.text, s.Text)
			assert.Equal(t, Color(tt.background), s.Background)
			assert.Equal(t, Color(tt.textColor), s.TextColor)
			assert.Equal(t, tt.keepRunning, s.KeepRunning)
			assert.Equal(t, tt.guardian, s.Guardian)
			assert.Equal(t, tt.score, s.Score)
			assert.Equal(t, 4.0, s.Activity)
		})
	}
}

func TestDecideThresholdIsStrict(t *testing.T) {
	s := Decide(0.5, motion.Assessment{}, 0.5, testPalette)
	assert.False(t, s.Snap)
	assert.Equal(t, "NO SNAP / NO HECTIC", s.Text)
}

func TestStatusJSONColors(t *testing.T) {
	s := Decide(1, motion.Assessment{Hectic: true}, 0.5, testPalette)
	b, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"background":"#00ff00"`)
	assert.Contains(t, string(b), `"text_color":"#ffffff"`)

	var back Status
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, s.Background, back.Background)
	assert.Equal(t, s.TextColor, back.TextColor)
	assert.Equal(t, s.Text, back.Text)
}

func TestColorUnmarshalRejectsGarbage(t *testing.T) {
	for _, bad := range []string{"green", "#ff00ffzz", "#ff00f", "ff00ff0", "#-f00ff", "#ff 0ff"} {
		var c Color
		assert.Error(t, c.UnmarshalText([]byte(bad)), bad)
	}

	var c Color
	require.NoError(t, c.UnmarshalText([]byte("#Ff8000")))
	assert.Equal(t, Color{R: 0xFF, G: 0x80, A: 0xFF}, c)
}

func TestLuminance(t *testing.T) {
	assert.InDelta(t, 1.0, Color{R: 0xFF, G: 0xFF, B: 0xFF}.Luminance(), 1e-9)
	assert.Equal(t, 0.0, Color{}.Luminance())
}
