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
	"strings"
	"testing"
)

func decodeDataURI(dataURI string) (image.Image, error) {
	if !strings.HasPrefix(dataURI, DataURIPrefix) {
		return nil, fmt.Errorf("not a PNG data URI")
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(dataURI, DataURIPrefix))
	if err != nil {
		return nil, fmt.Errorf("decode base64: %w", err)
	}
	return png.Decode(bytes.NewReader(raw))
}

func whiteFrame(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	return img
}

func darkPixels(img image.Image, r image.Rectangle) int {
	n := 0
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			cr, cg, cb, _ := img.At(x, y).RGBA()
			if cr < 0x8000 && cg < 0x8000 && cb < 0x8000 {
				n++
			}
		}
	}
	return n
}

func TestComposeBurnsLabel(t *testing.T) {
	c, err := NewComposer(DefaultOptions)
	if err != nil {
		t.Fatalf("NewComposer failed: %v", err)
	}

	label := `35° 41' 22" N, 51° 23' 20" E`
	shot, err := c.Compose(whiteFrame(400, 120), label)
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}

	if !strings.HasPrefix(shot.DataURI, DataURIPrefix) {
		t.Errorf("Expected PNG data URI, got prefix %q", shot.DataURI[:30])
	}
	if shot.Label != label {
		t.Errorf("Expected label %q, got %q", label, shot.Label)
	}
	if shot.Width != 400 || shot.Height != 120 {
		t.Errorf("Expected 400x120, got %dx%d", shot.Width, shot.Height)
	}
	if shot.ID == "" {
		t.Error("Expected an ID")
	}

	img, err := decodeDataURI(shot.DataURI)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if img.Bounds() != image.Rect(0, 0, 400, 120) {
		t.Errorf("Expected native size preserved, got %v", img.Bounds())
	}

	// text sits on the baseline at y=30, starting at x=10
	if n := darkPixels(img, image.Rect(10, 10, 400, 36)); n == 0 {
		t.Error("Expected dark label pixels near the top-left")
	}
	if n := darkPixels(img, image.Rect(0, 60, 400, 120)); n != 0 {
		t.Errorf("Expected no ink below the label, found %d pixels", n)
	}
	if n := darkPixels(img, image.Rect(0, 0, 8, 120)); n != 0 {
		t.Errorf("Expected no ink left of the origin, found %d pixels", n)
	}
}

func TestComposeEmptyLabelKeepsFrame(t *testing.T) {
	c, err := NewComposer(DefaultOptions)
	if err != nil {
		t.Fatalf("NewComposer failed: %v", err)
	}

	shot, err := c.Compose(whiteFrame(50, 50), "")
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	img, err := decodeDataURI(shot.DataURI)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if n := darkPixels(img, img.Bounds()); n != 0 {
		t.Errorf("Expected untouched frame, found %d dark pixels", n)
	}
}

func TestComposeOffsetFrame(t *testing.T) {
	c, err := NewComposer(DefaultOptions)
	if err != nil {
		t.Fatalf("NewComposer failed: %v", err)
	}

	// sub-images keep their parent's coordinates
	frame := whiteFrame(200, 200).SubImage(image.Rect(50, 50, 150, 100))
	shot, err := c.Compose(frame, "x")
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	if shot.Width != 100 || shot.Height != 50 {
		t.Errorf("Expected 100x50, got %dx%d", shot.Width, shot.Height)
	}
}

func TestComposeEmptyFrame(t *testing.T) {
	c, err := NewComposer(DefaultOptions)
	if err != nil {
		t.Fatalf("NewComposer failed: %v", err)
	}

	if _, err := c.Compose(nil, "x"); !errors.Is(err, ErrEmptyFrame) {
		t.Errorf("Expected ErrEmptyFrame for nil frame, got %v", err)
	}
	if _, err := c.Compose(image.NewRGBA(image.Rect(0, 0, 0, 0)), "x"); !errors.Is(err, ErrEmptyFrame) {
		t.Errorf("Expected ErrEmptyFrame for 0x0 frame, got %v", err)
	}
}

func TestDecodeDataURIRejectsOtherURIs(t *testing.T) {
	for _, uri := range []string{"", "data:,", "data:image/jpeg;base64,AAAA", DataURIPrefix + "!!!"} {
		if _, err := decodeDataURI(uri); err == nil {
			t.Errorf("Expected error for %q", uri)
		}
	}
}
