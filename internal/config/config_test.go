// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse(strings.NewReader("# only comments\n\n"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if cfg.GPSSource != GPSSourceNone {
		t.Errorf("Expected GPSSource=%s, got %s", GPSSourceNone, cfg.GPSSource)
	}
	if cfg.CameraSource != CameraSourceNone {
		t.Errorf("Expected CameraSource=%s, got %s", CameraSourceNone, cfg.CameraSource)
	}
	if cfg.OverlayFontSize != 20 || cfg.OverlayX != 10 || cfg.OverlayY != 30 {
		t.Errorf("Expected overlay 20px at (10,30), got %gpx at (%d,%d)", cfg.OverlayFontSize, cfg.OverlayX, cfg.OverlayY)
	}
	if cfg.WebServerPort != 8080 {
		t.Errorf("Expected WebServerPort=8080, got %d", cfg.WebServerPort)
	}
}

func TestParseValues(t *testing.T) {
	input := `
MQTT_BROKER = tcp://broker:1883
TOPIC_GPS=site/gps
GPS_SOURCE=static
GPS_STATIC_LAT=35.6895
GPS_STATIC_LON=51.389
GPS_TIMEOUT_MS=5000
CAMERA_SOURCE=mock
CAMERA_WIDTH=320
CAMERA_HEIGHT=240
WEB_SERVER_PORT=9090
`
	cfg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if cfg.MQTTBroker != "tcp://broker:1883" {
		t.Errorf("Expected trimmed broker, got %q", cfg.MQTTBroker)
	}
	if cfg.TopicGPS != "site/gps" {
		t.Errorf("Expected TopicGPS=site/gps, got %q", cfg.TopicGPS)
	}
	if cfg.GPSStaticLat != 35.6895 || cfg.GPSStaticLon != 51.389 {
		t.Errorf("Unexpected static position %v,%v", cfg.GPSStaticLat, cfg.GPSStaticLon)
	}
	if cfg.GPSTimeout != 5000 {
		t.Errorf("Expected GPSTimeout=5000, got %d", cfg.GPSTimeout)
	}
	if cfg.CameraWidth != 320 || cfg.CameraHeight != 240 {
		t.Errorf("Expected 320x240, got %dx%d", cfg.CameraWidth, cfg.CameraHeight)
	}
	if cfg.WebServerPort != 9090 {
		t.Errorf("Expected WebServerPort=9090, got %d", cfg.WebServerPort)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{
			name:    "missing equals",
			input:   "GPS_SOURCE\n",
			wantErr: "invalid config line 1",
		},
		{
			name:    "unknown key",
			input:   "NOPE=1\n",
			wantErr: "unknown config key",
		},
		{
			name:    "bad gps source",
			input:   "GPS_SOURCE=glonass\n",
			wantErr: "GPS_SOURCE must be one of",
		},
		{
			name:    "nmea without port",
			input:   "GPS_SOURCE=nmea\n",
			wantErr: "GPS_SERIAL_PORT is required",
		},
		{
			name:    "http camera without url",
			input:   "CAMERA_SOURCE=http\n",
			wantErr: "CAMERA_SNAPSHOT_URL is required",
		},
		{
			name:    "bad number",
			input:   "\nGPS_BAUD_RATE=fast\n",
			wantErr: "config line 2",
		},
		{
			name:    "negative timeout",
			input:   "GPS_TIMEOUT_MS=-1\n",
			wantErr: "must not be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input))
			if err == nil {
				t.Fatalf("Expected error containing %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got %q", tt.wantErr, err.Error())
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "minevisit_config.txt")
	if err := os.WriteFile(path, []byte("CAMERA_SOURCE=mock\n"), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.CameraSource != CameraSourceMock {
		t.Errorf("Expected CameraSource=mock, got %s", cfg.CameraSource)
	}

	if _, err := Load(filepath.Join(dir, "missing.txt")); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestResolvePath(t *testing.T) {
	t.Setenv(EnvConfigPath, "")
	if got := ResolvePath("", false); got != DefaultPath {
		t.Errorf("Expected %s, got %s", DefaultPath, got)
	}

	t.Setenv(EnvConfigPath, "/etc/minevisit.txt")
	if got := ResolvePath("local.txt", false); got != "/etc/minevisit.txt" {
		t.Errorf("Expected env path, got %s", got)
	}
	if got := ResolvePath("local.txt", true); got != "local.txt" {
		t.Errorf("Expected flag path, got %s", got)
	}
}
