// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"time"

	"github.com/relabs-tech/minevisit/internal/camera"
	"github.com/relabs-tech/minevisit/internal/config"
	"github.com/relabs-tech/minevisit/internal/gps"
	"github.com/relabs-tech/minevisit/internal/snapshot"
)

// NewLocator builds the geolocation adapter selected by GPS_SOURCE.
func NewLocator(cfg *config.Config) gps.Locator {
	switch cfg.GPSSource {
	case config.GPSSourceNMEA:
		return gps.NewNMEALocator(cfg.GPSSerialPort, cfg.GPSBaudRate)
	case config.GPSSourceMQTT:
		return &gps.MQTTLocator{
			Broker:   cfg.MQTTBroker,
			ClientID: cfg.MQTTClientIDWeb,
			Topic:    cfg.TopicGPS,
		}
	case config.GPSSourceStatic:
		return gps.StaticLocator{Latitude: cfg.GPSStaticLat, Longitude: cfg.GPSStaticLon}
	default:
		return gps.Unsupported()
	}
}

// NewCamera builds the camera adapter selected by CAMERA_SOURCE.
func NewCamera(cfg *config.Config) camera.Device {
	interval := time.Duration(cfg.CameraFrameInterval) * time.Millisecond

	switch cfg.CameraSource {
	case config.CameraSourceHTTP:
		return camera.NewHTTPCamera(cfg.CameraSnapshotURL, interval)
	case config.CameraSourceMock:
		return camera.NewMockCamera(cfg.CameraWidth, cfg.CameraHeight, interval)
	default:
		return camera.Unsupported()
	}
}

// NewComposer builds the snapshot composer from the overlay settings.
func NewComposer(cfg *config.Config) (*snapshot.Composer, error) {
	return snapshot.NewComposer(snapshot.Options{
		FontSize: cfg.OverlayFontSize,
		X:        cfg.OverlayX,
		Y:        cfg.OverlayY,
	})
}
