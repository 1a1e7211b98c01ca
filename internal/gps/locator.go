// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package gps

import (
	"context"
	"errors"
	"time"
)

// ErrUnsupported is returned by a locator when the device has no
// geolocation capability at all.
var ErrUnsupported = errors.New("geolocation is not supported on this device")

// Locator produces a single current position fix per request.
// Implementations must be safe for concurrent Locate calls.
type Locator interface {
	Locate(ctx context.Context) (Fix, error)
}

// LocatorFunc adapts a function to the Locator interface.
type LocatorFunc func(ctx context.Context) (Fix, error)

func (f LocatorFunc) Locate(ctx context.Context) (Fix, error) {
	return f(ctx)
}

// Unsupported returns a locator that always reports ErrUnsupported.
func Unsupported() Locator {
	return LocatorFunc(func(context.Context) (Fix, error) {
		return Fix{}, ErrUnsupported
	})
}

// StaticLocator always reports the same configured point.
type StaticLocator struct {
	Latitude  float64
	Longitude float64
}

func (l StaticLocator) Locate(ctx context.Context) (Fix, error) {
	if err := ctx.Err(); err != nil {
		return Fix{}, err
	}
	now := time.Now().UTC()
	return Fix{
		Time:      now.Format("15:04:05"),
		Date:      now.Format("02/01/06"),
		Latitude:  l.Latitude,
		Longitude: l.Longitude,
		Validity:  "A",
		Source:    "static",
	}, nil
}
