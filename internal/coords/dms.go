// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package coords derives the textual coordinate forms shown on the visit
// form from a single position fix.
package coords

import (
	"fmt"
	"math"
)

// ToDMS renders decimal degrees as `D° M' S"`.
//
// Degrees are floored, so negative input keeps its sign on the degree part
// and carries a positive remainder: -12.5 becomes -13° 30' 0". Seconds are
// rounded and may reach 60.
func ToDMS(deg float64) string {
	d := math.Floor(deg)
	minFloat := (deg - d) * 60
	m := math.Floor(minFloat)
	secFloat := (minFloat - m) * 60
	s := math.Round(secFloat)
	return fmt.Sprintf("%d° %d' %d\"", int64(d), int64(m), int64(s))
}

// FormatDMS joins both axes as "<lat> N, <lon> E". Hemisphere letters are
// fixed; the sign stays on the degree value.
func FormatDMS(lat, lon float64) string {
	return ToDMS(lat) + " N, " + ToDMS(lon) + " E"
}
