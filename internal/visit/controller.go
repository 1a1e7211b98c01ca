// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package visit holds the state of one field visit form and the handlers
// that change it.
package visit

import (
	"context"
	"errors"
	"image"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/relabs-tech/minevisit/internal/camera"
	"github.com/relabs-tech/minevisit/internal/coords"
	"github.com/relabs-tech/minevisit/internal/gps"
	"github.com/relabs-tech/minevisit/internal/snapshot"
)

// ErrStopped is returned by handlers once Run has returned.
var ErrStopped = errors.New("visit controller stopped")

// Notifier shows a blocking message to the user.
type Notifier interface {
	Notify(message string)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(message string)

func (f NotifierFunc) Notify(message string) { f(message) }

// Composer burns a label into a frame.
type Composer interface {
	Compose(frame image.Image, label string) (snapshot.Image, error)
}

// State is a copy of everything the page renders.
type State struct {
	HaveFix      bool             `json:"haveFix"`
	Fix          gps.Fix          `json:"fix"`
	Coordinates  coords.Display   `json:"coordinates"`
	CameraActive bool             `json:"cameraActive"`
	Images       []snapshot.Image `json:"images"`
	Record       *Record          `json:"record"`
}

// session is the mutable state. Only the Run goroutine touches it.
type session struct {
	fix     gps.Fix
	haveFix bool
	display coords.Display
	images  []snapshot.Image
	stream  camera.Stream
	record  *Record

	changed bool
}

type event func(ctx context.Context, s *session)

// Controller serialises every state change through one event loop, the
// way a page's UI thread does. Device requests run in their own goroutines
// and post their outcome back as events.
type Controller struct {
	locator       gps.Locator
	camera        camera.Device
	composer      Composer
	notifier      Notifier
	locateTimeout time.Duration

	events chan event
	done   chan struct{}

	subMu   sync.Mutex
	subs    map[int]chan State
	nextSub int
}

// Options wire the capability adapters into a controller.
type Options struct {
	Locator       gps.Locator
	Camera        camera.Device
	Composer      Composer
	Notifier      Notifier
	LocateTimeout time.Duration // 0 = wait for the locator
}

// NewController creates a controller. Missing adapters are treated as
// unsupported capabilities.
func NewController(opts Options) *Controller {
	if opts.Locator == nil {
		opts.Locator = gps.Unsupported()
	}
	if opts.Camera == nil {
		opts.Camera = camera.Unsupported()
	}
	if opts.Notifier == nil {
		opts.Notifier = NotifierFunc(func(msg string) { log.Printf("visit: notification: %s", msg) })
	}

	return &Controller{
		locator:       opts.Locator,
		camera:        opts.Camera,
		composer:      opts.Composer,
		notifier:      opts.Notifier,
		locateTimeout: opts.LocateTimeout,
		events:        make(chan event, 16),
		done:          make(chan struct{}),
		subs:          make(map[int]chan State),
	}
}

// Run processes events until ctx is cancelled. The attached camera stream
// is closed on return. Run must be called exactly once.
func (c *Controller) Run(ctx context.Context) error {
	s := &session{}
	defer func() {
		close(c.done)
		if s.stream != nil {
			s.stream.Close()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-c.events:
			ev(ctx, s)
			if s.changed {
				s.changed = false
				c.publish(s.snapshot())
			}
		}
	}
}

// post queues ev on the loop.
func (c *Controller) post(ev event) error {
	select {
	case <-c.done:
		return ErrStopped
	default:
	}

	select {
	case c.events <- ev:
		return nil
	case <-c.done:
		return ErrStopped
	}
}

// call runs ev on the loop and waits for it to finish.
func (c *Controller) call(ev event) error {
	finished := make(chan struct{})
	err := c.post(func(ctx context.Context, s *session) {
		defer close(finished)
		ev(ctx, s)
	})
	if err != nil {
		return err
	}

	select {
	case <-finished:
		return nil
	case <-c.done:
		// the loop may have run ev right before stopping
		select {
		case <-finished:
			return nil
		default:
			return ErrStopped
		}
	}
}

// RequestLocation asks the locator for a fix without waiting for it.
// Each call issues an independent request; when several are in flight the
// last one to complete wins.
func (c *Controller) RequestLocation() error {
	return c.post(func(ctx context.Context, _ *session) {
		go c.locate(ctx)
	})
}

func (c *Controller) locate(ctx context.Context) {
	lctx := ctx
	if c.locateTimeout > 0 {
		var cancel context.CancelFunc
		lctx, cancel = context.WithTimeout(ctx, c.locateTimeout)
		defer cancel()
	}

	fix, err := c.locator.Locate(lctx)
	_ = c.post(func(_ context.Context, s *session) {
		if err != nil {
			log.Printf("visit: location request failed: %v", err)
			c.notifier.Notify(locationMessage(err))
			return
		}
		s.applyFix(fix)
	})
}

// StartCamera opens a stream without waiting for it. On success the new
// stream replaces the attached one; on failure the attached one is kept.
func (c *Controller) StartCamera() error {
	return c.post(func(ctx context.Context, _ *session) {
		go c.openCamera(ctx)
	})
}

func (c *Controller) openCamera(ctx context.Context) {
	stream, err := c.camera.Open(ctx)
	perr := c.post(func(_ context.Context, s *session) {
		if err != nil {
			log.Printf("visit: camera request failed: %v", err)
			c.notifier.Notify(cameraMessage(err))
			return
		}
		if s.stream != nil {
			s.stream.Close()
		}
		s.stream = stream
		s.changed = true
		log.Printf("visit: camera attached (%v)", stream.Size())
	})
	if perr != nil && stream != nil {
		stream.Close()
	}
}

// Capture composes the current frame with the current DMS label and
// appends it to the gallery. Without an attached stream, or before the
// stream has a frame, nothing happens. It returns the gallery size.
func (c *Controller) Capture() (int, error) {
	var n int
	err := c.call(func(_ context.Context, s *session) {
		s.capture(c.composer)
		n = len(s.images)
	})
	return n, err
}

// Submit builds a new record from form and the current gallery, replacing
// any previous record.
func (c *Controller) Submit(form Form) (Record, error) {
	var rec Record
	err := c.call(func(_ context.Context, s *session) {
		rec = newRecord(form, s.images)
		s.record = &rec
		s.changed = true
		log.Printf("visit: record %s submitted with %d images", rec.ID, len(rec.Images))
	})
	return rec, err
}

// State returns a copy of the current state.
func (c *Controller) State() (State, error) {
	var st State
	err := c.call(func(_ context.Context, s *session) {
		st = s.snapshot()
	})
	return st, err
}

// Stream returns the attached camera stream, if any.
func (c *Controller) Stream() (camera.Stream, bool, error) {
	var stream camera.Stream
	err := c.call(func(_ context.Context, s *session) {
		stream = s.stream
	})
	return stream, stream != nil, err
}

// Subscribe returns a channel receiving the state after every event. Slow
// readers only see the latest state. Call cancel to unsubscribe.
func (c *Controller) Subscribe() (<-chan State, func()) {
	ch := make(chan State, 1)

	c.subMu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = ch
	c.subMu.Unlock()

	cancel := func() {
		c.subMu.Lock()
		delete(c.subs, id)
		c.subMu.Unlock()
	}
	return ch, cancel
}

func (c *Controller) publish(st State) {
	c.subMu.Lock()
	defer c.subMu.Unlock()

	for _, ch := range c.subs {
		select {
		case <-ch:
		default:
		}
		ch <- st
	}
}

func (s *session) applyFix(fix gps.Fix) {
	if s.haveFix {
		moved := coords.Distance(s.fix.Latitude, s.fix.Longitude, fix.Latitude, fix.Longitude)
		log.Printf("visit: new fix %.6f,%.6f (moved %.1f m)", fix.Latitude, fix.Longitude, moved)
	} else {
		log.Printf("visit: first fix %.6f,%.6f", fix.Latitude, fix.Longitude)
	}

	s.fix = fix
	s.haveFix = true
	s.display = coords.NewDisplay(fix.Latitude, fix.Longitude)
	s.changed = true
}

func (s *session) capture(composer Composer) {
	if s.stream == nil || composer == nil {
		return
	}
	frame, ok := s.stream.Frame()
	if !ok {
		return
	}

	shot, err := composer.Compose(frame, s.display.DMS)
	if err != nil {
		log.Printf("visit: capture failed: %v", err)
		return
	}
	s.images = append(s.images, shot)
	s.changed = true
}

func (s *session) snapshot() State {
	st := State{
		HaveFix:      s.haveFix,
		Fix:          s.fix,
		Coordinates:  s.display,
		CameraActive: s.stream != nil,
		Images:       append([]snapshot.Image(nil), s.images...),
	}
	if s.record != nil {
		rec := *s.record
		st.Record = &rec
	}
	return st
}

func newRecord(form Form, images []snapshot.Image) Record {
	uris := make([]string, len(images))
	for i, img := range images {
		uris[i] = img.DataURI
	}
	return Record{
		Form:        form,
		Images:      uris,
		ID:          uuid.NewString(),
		SubmittedAt: time.Now(),
	}
}
