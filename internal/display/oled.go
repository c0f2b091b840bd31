// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package display

import (
	"fmt"
	"image"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"periph.io/x/devices/v3/ssd1306/image1bit"

	"github.com/relabs-tech/hectic_snap/internal/decision"
)

const (
	oledWidth  = 128
	oledHeight = 64
)

// Drawer is the part of *ssd1306.Dev the OLED sink needs.
type Drawer interface {
	Bounds() image.Rectangle
	Draw(r image.Rectangle, src image.Image, sp image.Point) error
}

// OLEDSink renders statuses on a 128x64 monochrome panel. A bright
// background color is shown as an inverted (lit) panel.
type OLEDSink struct {
	dev Drawer
}

func NewOLEDSink(dev Drawer) *OLEDSink {
	return &OLEDSink{dev: dev}
}

func (o *OLEDSink) Show(st decision.Status) error {
	img := Render(st)
	return o.dev.Draw(o.dev.Bounds(), img, image.Point{})
}

// oledFrame collects surface calls before rasterizing.
type oledFrame struct {
	text     string
	inverted bool
}

func (f *oledFrame) SetText(text string)            { f.text = text }
func (f *oledFrame) SetBackground(bg decision.Color) { f.inverted = bg.Luminance() > 0.5 }
func (f *oledFrame) SetTextColor(decision.Color)     {}

// Render draws a status into a panel-sized 1-bit image.
func Render(st decision.Status) *image1bit.VerticalLSB {
	var f oledFrame
	Apply(&f, st)

	img := image1bit.NewVerticalLSB(image.Rect(0, 0, oledWidth, oledHeight))
	fg := image1bit.On
	if f.inverted {
		for i := range img.Pix {
			img.Pix[i] = 0xFF
		}
		fg = image1bit.Off
	}

	drawer := &font.Drawer{
		Dst:  img,
		Src:  &image.Uniform{fg},
		Face: basicfont.Face7x13,
	}

	for i, line := range oledLines(f.text, st) {
		drawer.Dot = fixed.P(0, 13*(i+1))
		drawer.DrawString(line)
	}

	return img
}

// oledLines splits the status text into its snap and motion halves, which do
// not fit on one 128 px line, followed by the score and activity.
func oledLines(text string, st decision.Status) []string {
	snap, motion, _ := strings.Cut(text, " / ")
	return []string{
		snap,
		motion,
		fmt.Sprintf("S:%5.2f", st.Score),
		fmt.Sprintf("A:%7.1f", st.Activity),
	}
}

// Waiting draws the idle screen shown before the first status.
func Waiting() *image1bit.VerticalLSB {
	img := image1bit.NewVerticalLSB(image.Rect(0, 0, oledWidth, oledHeight))
	drawer := &font.Drawer{
		Dst:  img,
		Src:  &image.Uniform{image1bit.On},
		Face: basicfont.Face7x13,
	}
	drawer.Dot = fixed.P(0, 26)
	drawer.DrawString("Hectic Snap")
	drawer.Dot = fixed.P(0, 39)
	drawer.DrawString("Waiting...")
	return img
}
