// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package camera

import (
	"context"
	"image"
	"image/color"
	"time"
)

// MockCamera produces a moving test pattern at a fixed size.
type MockCamera struct {
	Width    int
	Height   int
	Interval time.Duration
}

// NewMockCamera creates a synthetic camera.
func NewMockCamera(width, height int, interval time.Duration) *MockCamera {
	return &MockCamera{Width: width, Height: height, Interval: interval}
}

func (m *MockCamera) Open(ctx context.Context) (Stream, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	grab := func(context.Context) (image.Image, error) {
		return ColourBars(m.Width, m.Height, time.Since(start)), nil
	}
	return startStream("mock", ColourBars(m.Width, m.Height, 0), m.Interval, grab), nil
}

// ColourBars draws vertical colour bars with a white bar sweeping across
// once every four seconds.
func ColourBars(width, height int, elapsed time.Duration) *image.RGBA {
	bars := []color.RGBA{
		{192, 192, 192, 255},
		{192, 192, 0, 255},
		{0, 192, 192, 255},
		{0, 192, 0, 255},
		{192, 0, 192, 255},
		{192, 0, 0, 255},
		{0, 0, 192, 255},
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	if width <= 0 || height <= 0 {
		return img
	}

	sweep := int(elapsed.Milliseconds()%4000) * width / 4000
	for x := 0; x < width; x++ {
		c := bars[x*len(bars)/width]
		if x >= sweep && x < sweep+width/32+1 {
			c = color.RGBA{255, 255, 255, 255}
		}
		for y := 0; y < height; y++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}
