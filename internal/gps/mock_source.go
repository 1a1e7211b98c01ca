// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package gps

import (
	"math"
	"time"
)

// MockSource generates fixes that wander slowly around a centre point.
type MockSource struct {
	start     time.Time
	latitude  float64
	longitude float64
}

// NewMockSource creates a mock fix source centred on lat/lon.
func NewMockSource(lat, lon float64) *MockSource {
	return &MockSource{start: time.Now(), latitude: lat, longitude: lon}
}

func (m *MockSource) Next() (Fix, error) {
	elapsed := time.Since(m.start).Seconds()
	now := time.Now().UTC()

	// roughly a 100 m circle
	return Fix{
		Time:       now.Format("15:04:05"),
		Date:       now.Format("02/01/06"),
		Latitude:   m.latitude + 0.0009*math.Sin(elapsed/60),
		Longitude:  m.longitude + 0.0009*math.Cos(elapsed/60),
		SpeedKnots: 0.1,
		CourseDeg:  math.Mod(elapsed*6, 360),
		Validity:   "A",
		Source:     "mock",
	}, nil
}
