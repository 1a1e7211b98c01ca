// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package camera

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"net/url"
	"time"
)

// maxSnapshotBytes bounds a single snapshot download.
const maxSnapshotBytes = 10 * 1024 * 1024

// HTTPCamera polls the still-image endpoint of an IP camera. Credentials
// may be embedded in the URL user info.
type HTTPCamera struct {
	URL      string
	Interval time.Duration
	Client   *http.Client
}

// NewHTTPCamera creates a camera for the snapshot endpoint at rawURL.
func NewHTTPCamera(rawURL string, interval time.Duration) *HTTPCamera {
	return &HTTPCamera{
		URL:      rawURL,
		Interval: interval,
		Client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Open fetches a first frame and starts polling. A camera that cannot
// deliver the first frame is reported as an error.
func (c *HTTPCamera) Open(ctx context.Context) (Stream, error) {
	first, err := c.grab(ctx)
	if err != nil {
		return nil, err
	}
	return startStream(redact(c.URL), first, c.Interval, c.grab), nil
}

func (c *HTTPCamera) grab(ctx context.Context) (image.Image, error) {
	u, err := url.Parse(c.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid camera URL: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	if u.User != nil {
		password, _ := u.User.Password()
		req.SetBasicAuth(u.User.Username(), password)
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch snapshot from %s: %w", redact(c.URL), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch snapshot from %s: HTTP %d", redact(c.URL), resp.StatusCode)
	}

	img, _, err := image.Decode(io.LimitReader(resp.Body, maxSnapshotBytes))
	if err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return img, nil
}

// redact strips credentials so URLs can be logged.
func redact(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "camera"
	}
	return u.Redacted()
}
