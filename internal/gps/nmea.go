// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package gps

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	nmea "github.com/adrianmo/go-nmea"
	serial "github.com/jacobsa/go-serial/serial"
)

// ErrNoFix is returned when an NMEA stream ends before a valid RMC arrives.
var ErrNoFix = errors.New("no valid GPS fix received")

// FixFromRMC fills a Fix from RMC data.
func FixFromRMC(m nmea.RMC) Fix {
	return Fix{
		Time:       m.Time.String(),
		Date:       m.Date.String(),
		Latitude:   m.Latitude,
		Longitude:  m.Longitude,
		SpeedKnots: m.Speed,
		CourseDeg:  m.Course,
		Validity:   string(m.Validity),
		Source:     "nmea",
	}
}

// ParseLine parses one NMEA line. ok is false for blank lines, partial
// sentences and sentence types other than RMC.
func ParseLine(line string) (fix Fix, ok bool) {
	line = strings.TrimSpace(line)
	if line == "" || !strings.HasPrefix(line, "$") {
		return Fix{}, false
	}

	sentence, err := nmea.Parse(line)
	if err != nil {
		// noisy GPS or partial sentences
		return Fix{}, false
	}

	if sentence.DataType() != nmea.TypeRMC {
		return Fix{}, false
	}
	return FixFromRMC(sentence.(nmea.RMC)), true
}

// ReadFix scans r until it finds an RMC sentence flagged valid.
func ReadFix(r io.Reader) (Fix, error) {
	reader := bufio.NewReader(r)
	for {
		line, err := reader.ReadString('\n')
		if fix, ok := ParseLine(line); ok && fix.Valid() {
			return fix, nil
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return Fix{}, ErrNoFix
			}
			return Fix{}, fmt.Errorf("GPS read error: %w", err)
		}
	}
}

// SerialOptions returns the port settings of a typical NMEA receiver.
func SerialOptions(portName string, baudRate int) serial.OpenOptions {
	return serial.OpenOptions{
		PortName:              portName,
		BaudRate:              uint(baudRate),
		DataBits:              8,
		StopBits:              1,
		MinimumReadSize:       1,
		ParityMode:            serial.PARITY_NONE,
		InterCharacterTimeout: 0,
	}
}

// NMEALocator reads a single fix from a receiver on a serial port.
// The port is opened per request and closed once a fix is read.
type NMEALocator struct {
	PortName string
	BaudRate int

	open func(serial.OpenOptions) (io.ReadWriteCloser, error)
}

// NewNMEALocator returns a locator for the receiver on portName.
func NewNMEALocator(portName string, baudRate int) *NMEALocator {
	return &NMEALocator{
		PortName: portName,
		BaudRate: baudRate,
		open:     serial.Open,
	}
}

func (l *NMEALocator) Locate(ctx context.Context) (Fix, error) {
	port, err := l.open(SerialOptions(l.PortName, l.BaudRate))
	if err != nil {
		return Fix{}, fmt.Errorf("open GPS serial port %s: %w", l.PortName, err)
	}

	type result struct {
		fix Fix
		err error
	}
	done := make(chan result, 1)
	go func() {
		fix, err := ReadFix(port)
		done <- result{fix: fix, err: err}
	}()

	select {
	case r := <-done:
		port.Close()
		return r.fix, r.err
	case <-ctx.Done():
		// closing the port unblocks the reader goroutine
		port.Close()
		return Fix{}, fmt.Errorf("waiting for GPS fix on %s: %w", l.PortName, ctx.Err())
	}
}
