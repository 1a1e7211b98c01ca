// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package snapshot

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// DataURIPrefix starts every encoded capture.
const DataURIPrefix = "data:image/png;base64,"

// ErrEmptyFrame is returned for frames with no pixels.
var ErrEmptyFrame = errors.New("frame has no pixels")

// Image is one captured still with its label burned in.
type Image struct {
	ID         string    `json:"id"`
	DataURI    string    `json:"dataUri"`
	Label      string    `json:"label"`
	Width      int       `json:"width"`
	Height     int       `json:"height"`
	CapturedAt time.Time `json:"capturedAt"`
}

// Options configure the overlay label.
type Options struct {
	FontSize float64 // pixels
	X, Y     int     // baseline origin
}

// DefaultOptions matches the 20px label at (10, 30).
var DefaultOptions = Options{FontSize: 20, X: 10, Y: 30}

// Composer burns a text label into video frames.
type Composer struct {
	mu     sync.Mutex // font.Face is not safe for concurrent use
	face   font.Face
	ink    image.Image
	origin fixed.Point26_6
}

// NewComposer loads the overlay font.
func NewComposer(opts Options) (*Composer, error) {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse overlay font: %w", err)
	}

	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    opts.FontSize,
		DPI:     72, // 1pt == 1px
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("create overlay face: %w", err)
	}

	return &Composer{
		face:   face,
		ink:    image.NewUniform(color.Black),
		origin: fixed.P(opts.X, opts.Y),
	}, nil
}

// Compose draws frame at its native size, writes label over it and encodes
// the result as a PNG data URI.
func (c *Composer) Compose(frame image.Image, label string) (Image, error) {
	if frame == nil || frame.Bounds().Empty() {
		return Image{}, ErrEmptyFrame
	}

	size := frame.Bounds().Size()
	canvas := image.NewRGBA(image.Rect(0, 0, size.X, size.Y))
	draw.Draw(canvas, canvas.Bounds(), frame, frame.Bounds().Min, draw.Src)

	c.mu.Lock()
	drawer := &font.Drawer{
		Dst:  canvas,
		Src:  c.ink,
		Face: c.face,
		Dot:  c.origin,
	}
	drawer.DrawString(label)
	c.mu.Unlock()

	var buf bytes.Buffer
	if err := png.Encode(&buf, canvas); err != nil {
		return Image{}, fmt.Errorf("encode capture: %w", err)
	}

	return Image{
		ID:         uuid.NewString(),
		DataURI:    DataURIPrefix + base64.StdEncoding.EncodeToString(buf.Bytes()),
		Label:      label,
		Width:      size.X,
		Height:     size.Y,
		CapturedAt: time.Now(),
	}, nil
}
