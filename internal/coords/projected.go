// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package coords

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
)

const (
	falseEasting     = 500000.0
	falseNorthing    = 10000000.0
	metresPerDegLon  = 111320.0
	metresPerDegLat  = 110574.0
	projectedPattern = "زون %d, مختصات شرقی %s, مختصات شمالی %s"
)

// Projected is a linear zone/easting/northing approximation. It is not a
// transverse Mercator projection; easting ignores the zone meridian.
type Projected struct {
	Zone     int     `json:"zone"`
	Easting  float64 `json:"easting"`
	Northing float64 `json:"northing"`
}

// ToProjected converts a position to the approximate projected form.
func ToProjected(lat, lon float64) Projected {
	zone := int(math.Floor((lon+180)/6)) + 1

	// Explicit conversions keep the products rounded before the addition,
	// so no platform fuses them into a multiply-add.
	easting := falseEasting + float64(lon*metresPerDegLon)
	var northing float64
	if lat >= 0 {
		northing = lat * metresPerDegLat
	} else {
		northing = float64(lat*metresPerDegLat) + falseNorthing
	}

	return Projected{Zone: zone, Easting: easting, Northing: northing}
}

// String renders the projected form with the labels of the visit form.
func (p Projected) String() string {
	return fmt.Sprintf(projectedPattern, p.Zone, fixed2(p.Easting), fixed2(p.Northing))
}

// fixed2 renders v with two decimals. Values exactly halfway between two
// cents round away from zero; everything else rounds to the nearest cent of
// the exact binary value. Negative zero prints as "0.00".
func fixed2(v float64) string {
	if v == 0 {
		return "0.00"
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', 2, 64)
	}

	cents := new(big.Float).SetPrec(128).SetFloat64(math.Abs(v))
	cents.Mul(cents, big.NewFloat(100))
	whole, _ := cents.Int(nil)
	frac := new(big.Float).Sub(cents, new(big.Float).SetInt(whole))
	if frac.Cmp(big.NewFloat(0.5)) != 0 {
		return strconv.FormatFloat(v, 'f', 2, 64)
	}

	whole.Add(whole, big.NewInt(1))
	digits := whole.String()
	if len(digits) < 3 {
		digits = strings.Repeat("0", 3-len(digits)) + digits
	}
	sign := ""
	if v < 0 {
		sign = "-"
	}
	return sign + digits[:len(digits)-2] + "." + digits[len(digits)-2:]
}
