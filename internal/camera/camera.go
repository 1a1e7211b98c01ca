// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package camera provides live frame streams for the visit form preview.
package camera

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"log"
	"sync"
	"time"
)

// ErrUnsupported is returned when the device has no camera configured.
var ErrUnsupported = errors.New("camera is not supported on this device")

// ErrNoFrame is returned when a stream has not produced a frame yet.
var ErrNoFrame = errors.New("camera has not produced a frame yet")

// Device opens live video streams.
type Device interface {
	Open(ctx context.Context) (Stream, error)
}

// Stream is an attached live video stream. Frame never blocks; it returns
// the most recent frame, like reading a playing video element.
type Stream interface {
	Frame() (image.Image, bool)
	Size() image.Point
	Close() error
}

// DeviceFunc adapts a function to the Device interface.
type DeviceFunc func(ctx context.Context) (Stream, error)

func (f DeviceFunc) Open(ctx context.Context) (Stream, error) {
	return f(ctx)
}

// Unsupported returns a device whose Open always fails with ErrUnsupported.
func Unsupported() Device {
	return DeviceFunc(func(context.Context) (Stream, error) {
		return nil, ErrUnsupported
	})
}

// grabFunc fetches one frame.
type grabFunc func(ctx context.Context) (image.Image, error)

// liveStream keeps the latest frame of a polled source.
type liveStream struct {
	mu    sync.RWMutex
	frame image.Image

	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// startStream publishes first immediately and then polls grab every
// interval until Close.
func startStream(name string, first image.Image, interval time.Duration, grab grabFunc) *liveStream {
	ctx, cancel := context.WithCancel(context.Background())
	s := &liveStream{
		frame:  first,
		cancel: cancel,
		done:   make(chan struct{}),
	}

	go func() {
		defer close(s.done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}

			frame, err := grab(ctx)
			if err != nil {
				if ctx.Err() == nil {
					log.Printf("camera: %s frame error: %v", name, err)
				}
				continue
			}

			s.mu.Lock()
			s.frame = frame
			s.mu.Unlock()
		}
	}()

	return s
}

func (s *liveStream) Frame() (image.Image, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.frame, s.frame != nil
}

func (s *liveStream) Size() image.Point {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.frame == nil {
		return image.Point{}
	}
	return s.frame.Bounds().Size()
}

func (s *liveStream) Close() error {
	s.once.Do(func() {
		s.cancel()
		<-s.done
	})
	return nil
}

// EncodePreview encodes the latest frame of s as JPEG.
func EncodePreview(s Stream) ([]byte, error) {
	frame, ok := s.Frame()
	if !ok {
		return nil, ErrNoFrame
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, frame, &jpeg.Options{Quality: 80}); err != nil {
		return nil, fmt.Errorf("encode preview: %w", err)
	}
	return buf.Bytes(), nil
}
