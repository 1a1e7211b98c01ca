// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package coords

import (
	"github.com/golang/geo/s2"
)

// EarthRadiusMeters is the mean Earth radius used for distances.
const EarthRadiusMeters = 6371008.8

const mapQueryURL = "https://www.google.com/maps?q="

// Display holds every string derived from one position fix.
type Display struct {
	DMS       string    `json:"dms"`
	Projected string    `json:"projected"`
	MapURL    string    `json:"mapUrl"`
	Grid      Projected `json:"grid"`
}

// NewDisplay derives all display strings from lat/lon.
func NewDisplay(lat, lon float64) Display {
	dms := FormatDMS(lat, lon)
	grid := ToProjected(lat, lon)
	return Display{
		DMS:       dms,
		Projected: grid.String(),
		MapURL:    MapURL(dms),
		Grid:      grid,
	}
}

// MapURL embeds the DMS string verbatim into a map query URL.
func MapURL(dms string) string {
	return mapQueryURL + dms
}

// Distance returns the great-circle distance between two points in meters.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	p1 := s2.LatLngFromDegrees(lat1, lon1)
	p2 := s2.LatLngFromDegrees(lat2, lon2)
	return p1.Distance(p2).Radians() * EarthRadiusMeters
}
