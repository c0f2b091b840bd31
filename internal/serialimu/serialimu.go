// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package serialimu reads accelerometer and gyroscope vectors streamed over a
// serial line as proprietary NMEA-0183 sentences:
//
//	$PSNPA,<x>,<y>,<z>*hh   accelerometer
//	$PSNPG,<x>,<y>,<z>*hh   gyroscope
package serialimu

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	nmea "github.com/adrianmo/go-nmea"
	serial "github.com/jacobsa/go-serial/serial"

	"github.com/relabs-tech/hectic_snap/internal/imu"
	"github.com/relabs-tech/hectic_snap/internal/motion"
)

// Sentence types (after the proprietary "P" prefix).
const (
	TypeAccel = "SNPA"
	TypeGyro  = "SNPG"
)

// ErrUnknownSentence is returned by ParseLine for valid NMEA sentences that
// do not carry a motion vector.
var ErrUnknownSentence = errors.New("serialimu: not a motion sentence")

// Vector is a parsed $PSNPA or $PSNPG sentence.
type Vector struct {
	nmea.BaseSentence
	Kind   imu.Kind
	Sample motion.Sample
}

func vectorParser(kind imu.Kind) nmea.ParserFunc {
	return func(s nmea.BaseSentence) (nmea.Sentence, error) {
		p := nmea.NewParser(s)
		v := Vector{
			BaseSentence: s,
			Kind:         kind,
			Sample: motion.Sample{
				X: p.Float64(0, "x"),
				Y: p.Float64(1, "y"),
				Z: p.Float64(2, "z"),
			},
		}
		return v, p.Err()
	}
}

// NewSentenceParser returns a go-nmea parser that understands the motion
// sentences alongside the standard ones.
func NewSentenceParser() *nmea.SentenceParser {
	return &nmea.SentenceParser{
		CustomParsers: map[string]nmea.ParserFunc{
			TypeAccel: vectorParser(imu.KindAccel),
			TypeGyro:  vectorParser(imu.KindGyro),
		},
	}
}

// ParseLine parses one line into a Vector.
func ParseLine(p *nmea.SentenceParser, line string) (Vector, error) {
	sentence, err := p.Parse(strings.TrimSpace(line))
	if err != nil {
		return Vector{}, err
	}
	v, ok := sentence.(Vector)
	if !ok {
		return Vector{}, ErrUnknownSentence
	}
	return v, nil
}

// Reader turns a byte stream into readings.
type Reader struct {
	r      *bufio.Reader
	parser *nmea.SentenceParser
	source string
	now    func() time.Time

	// Counters for lines that were skipped.
	Unknown   int
	Malformed int
}

func NewReader(r io.Reader, source string) *Reader {
	return &Reader{
		r:      bufio.NewReader(r),
		parser: NewSentenceParser(),
		source: source,
		now:    time.Now,
	}
}

// Next returns the next motion reading. Non-motion and malformed lines are
// skipped and counted. It returns the underlying read error (io.EOF at end
// of stream).
func (r *Reader) Next() (imu.Reading, error) {
	for {
		line, err := r.r.ReadString('\n')
		if line = strings.TrimSpace(line); strings.HasPrefix(line, "$") {
			v, perr := ParseLine(r.parser, line)
			switch {
			case perr == nil:
				return imu.Reading{Source: r.source, Kind: v.Kind, Sample: v.Sample, Time: r.now()}, nil
			case errors.Is(perr, ErrUnknownSentence):
				r.Unknown++
			default:
				r.Malformed++
			}
		} else if line != "" {
			r.Malformed++
		}
		if err != nil {
			return imu.Reading{}, err
		}
	}
}

// OpenPort opens a serial port in 8N1 mode.
func OpenPort(name string, baud int) (io.ReadWriteCloser, error) {
	port, err := serial.Open(serial.OpenOptions{
		PortName:              name,
		BaudRate:              uint(baud),
		DataBits:              8,
		StopBits:              1,
		MinimumReadSize:       1,
		ParityMode:            serial.PARITY_NONE,
		InterCharacterTimeout: 0,
	})
	if err != nil {
		return nil, fmt.Errorf("serial open %s: %w", name, err)
	}
	return port, nil
}
