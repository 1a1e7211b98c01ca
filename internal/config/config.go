// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
)

// Geolocation sources.
const (
	GPSSourceNone   = "none"
	GPSSourceNMEA   = "nmea"
	GPSSourceMQTT   = "mqtt"
	GPSSourceStatic = "static"
)

// Camera sources.
const (
	CameraSourceNone = "none"
	CameraSourceHTTP = "http"
	CameraSourceMock = "mock"
)

// EnvConfigPath names the environment variable that overrides the default
// config file location.
const EnvConfigPath = "MINEVISIT_CONFIG"

// DefaultPath is used when neither the --config flag nor EnvConfigPath is set.
const DefaultPath = "minevisit_config.txt"

// Config holds all application configuration values.
type Config struct {
	// MQTT
	MQTTBroker           string
	MQTTClientIDGPS      string
	MQTTClientIDConsole  string
	MQTTClientIDWeb      string
	MQTTClientIDProducer string

	// Topics
	TopicGPS string

	// Geolocation
	GPSSource     string // "none", "nmea", "mqtt", "static"
	GPSSerialPort string
	GPSBaudRate   int
	GPSTimeout    int // milliseconds, 0 = no timeout
	GPSStaticLat  float64
	GPSStaticLon  float64

	// Camera
	CameraSource        string // "none", "http", "mock"
	CameraSnapshotURL   string
	CameraFrameInterval int // milliseconds
	CameraWidth         int
	CameraHeight        int

	// Snapshot overlay
	OverlayFontSize float64
	OverlayX        int
	OverlayY        int

	// Timing
	ProducerInterval int // milliseconds

	// Web Server
	WebServerPort int
	WebStaticDir  string
}

var (
	globalConfig *Config
	configOnce   sync.Once
	configMu     sync.RWMutex
)

// Default returns a configuration with every optional value filled in.
// The overlay values draw a 20px label with its baseline at (10, 30).
func Default() *Config {
	return &Config{
		MQTTBroker:           "tcp://localhost:1883",
		MQTTClientIDGPS:      "minevisit-gps-producer",
		MQTTClientIDConsole:  "minevisit-console-subscriber",
		MQTTClientIDWeb:      "minevisit-web-locator",
		MQTTClientIDProducer: "minevisit-producer-mock",
		TopicGPS:             "minevisit/gps",

		GPSSource:   GPSSourceNone,
		GPSBaudRate: 9600,
		GPSTimeout:  30000,

		CameraSource:        CameraSourceNone,
		CameraFrameInterval: 200,
		CameraWidth:         640,
		CameraHeight:        480,

		OverlayFontSize: 20,
		OverlayX:        10,
		OverlayY:        30,

		ProducerInterval: 1000,

		WebServerPort: 8080,
		WebStaticDir:  "web",
	}
}

// Load reads the configuration file and returns a Config struct.
func Load(configPath string) (*Config, error) {
	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	return Parse(file)
}

// Parse reads KEY=VALUE lines on top of Default and validates the result.
func Parse(r io.Reader) (*Config, error) {
	cfg := Default()
	scanner := bufio.NewScanner(r)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid config line %d: %q", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		if err := cfg.setValue(key, value); err != nil {
			return nil, fmt.Errorf("config line %d: %w", lineNum, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// setValue sets a config value based on the key.
func (c *Config) setValue(key, value string) error {
	switch key {
	// MQTT
	case "MQTT_BROKER":
		c.MQTTBroker = value
	case "MQTT_CLIENT_ID_GPS":
		c.MQTTClientIDGPS = value
	case "MQTT_CLIENT_ID_CONSOLE":
		c.MQTTClientIDConsole = value
	case "MQTT_CLIENT_ID_WEB":
		c.MQTTClientIDWeb = value
	case "MQTT_CLIENT_ID_PRODUCER":
		c.MQTTClientIDProducer = value

	// Topics
	case "TOPIC_GPS":
		c.TopicGPS = value

	// Geolocation
	case "GPS_SOURCE":
		switch value {
		case GPSSourceNone, GPSSourceNMEA, GPSSourceMQTT, GPSSourceStatic:
			c.GPSSource = value
		default:
			return fmt.Errorf("GPS_SOURCE must be one of none, nmea, mqtt, static, got %q", value)
		}
	case "GPS_SERIAL_PORT":
		c.GPSSerialPort = value
	case "GPS_BAUD_RATE":
		rate, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid GPS_BAUD_RATE %q: %w", value, err)
		}
		c.GPSBaudRate = rate
	case "GPS_TIMEOUT_MS":
		timeout, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid GPS_TIMEOUT_MS %q: %w", value, err)
		}
		if timeout < 0 {
			return fmt.Errorf("GPS_TIMEOUT_MS must not be negative, got %d", timeout)
		}
		c.GPSTimeout = timeout
	case "GPS_STATIC_LAT":
		lat, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid GPS_STATIC_LAT %q: %w", value, err)
		}
		c.GPSStaticLat = lat
	case "GPS_STATIC_LON":
		lon, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid GPS_STATIC_LON %q: %w", value, err)
		}
		c.GPSStaticLon = lon

	// Camera
	case "CAMERA_SOURCE":
		switch value {
		case CameraSourceNone, CameraSourceHTTP, CameraSourceMock:
			c.CameraSource = value
		default:
			return fmt.Errorf("CAMERA_SOURCE must be one of none, http, mock, got %q", value)
		}
	case "CAMERA_SNAPSHOT_URL":
		c.CameraSnapshotURL = value
	case "CAMERA_FRAME_INTERVAL":
		interval, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid CAMERA_FRAME_INTERVAL %q: %w", value, err)
		}
		c.CameraFrameInterval = interval
	case "CAMERA_WIDTH":
		width, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid CAMERA_WIDTH %q: %w", value, err)
		}
		c.CameraWidth = width
	case "CAMERA_HEIGHT":
		height, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid CAMERA_HEIGHT %q: %w", value, err)
		}
		c.CameraHeight = height

	// Snapshot overlay
	case "OVERLAY_FONT_SIZE":
		size, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid OVERLAY_FONT_SIZE %q: %w", value, err)
		}
		c.OverlayFontSize = size
	case "OVERLAY_X":
		x, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid OVERLAY_X %q: %w", value, err)
		}
		c.OverlayX = x
	case "OVERLAY_Y":
		y, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid OVERLAY_Y %q: %w", value, err)
		}
		c.OverlayY = y

	// Timing
	case "PRODUCER_INTERVAL":
		interval, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid PRODUCER_INTERVAL %q: %w", value, err)
		}
		c.ProducerInterval = interval

	// Web Server
	case "WEB_SERVER_PORT":
		port, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid WEB_SERVER_PORT %q: %w", value, err)
		}
		c.WebServerPort = port
	case "WEB_STATIC_DIR":
		c.WebStaticDir = value

	default:
		return fmt.Errorf("unknown config key: %q", key)
	}

	return nil
}

// validate checks that the fields required by the selected sources are set.
func (c *Config) validate() error {
	switch c.GPSSource {
	case GPSSourceNMEA:
		if c.GPSSerialPort == "" {
			return fmt.Errorf("GPS_SERIAL_PORT is required when GPS_SOURCE=nmea")
		}
		if c.GPSBaudRate <= 0 {
			return fmt.Errorf("GPS_BAUD_RATE is required when GPS_SOURCE=nmea")
		}
	case GPSSourceMQTT:
		if c.MQTTBroker == "" {
			return fmt.Errorf("MQTT_BROKER is required when GPS_SOURCE=mqtt")
		}
		if c.TopicGPS == "" {
			return fmt.Errorf("TOPIC_GPS is required when GPS_SOURCE=mqtt")
		}
	}

	switch c.CameraSource {
	case CameraSourceHTTP:
		if c.CameraSnapshotURL == "" {
			return fmt.Errorf("CAMERA_SNAPSHOT_URL is required when CAMERA_SOURCE=http")
		}
	case CameraSourceMock:
		if c.CameraWidth <= 0 || c.CameraHeight <= 0 {
			return fmt.Errorf("CAMERA_WIDTH and CAMERA_HEIGHT must be positive, got %dx%d", c.CameraWidth, c.CameraHeight)
		}
	}

	if c.CameraFrameInterval <= 0 {
		return fmt.Errorf("CAMERA_FRAME_INTERVAL must be positive, got %d", c.CameraFrameInterval)
	}
	if c.ProducerInterval <= 0 {
		return fmt.Errorf("PRODUCER_INTERVAL must be positive, got %d", c.ProducerInterval)
	}
	if c.OverlayFontSize <= 0 {
		return fmt.Errorf("OVERLAY_FONT_SIZE must be positive, got %g", c.OverlayFontSize)
	}
	if c.WebServerPort <= 0 || c.WebServerPort > 65535 {
		return fmt.Errorf("WEB_SERVER_PORT must be 1-65535, got %d", c.WebServerPort)
	}
	return nil
}

// ResolvePath picks the config file location: an explicit flag wins, then
// EnvConfigPath, then DefaultPath.
func ResolvePath(flagValue string, flagSet bool) string {
	if flagSet && flagValue != "" {
		return flagValue
	}
	if env := os.Getenv(EnvConfigPath); env != "" {
		return env
	}
	if flagValue != "" {
		return flagValue
	}
	return DefaultPath
}

// InitGlobal initializes the global configuration from file.
// Only the first call loads the file.
func InitGlobal(configPath string) error {
	var err error
	configOnce.Do(func() {
		configMu.Lock()
		defer configMu.Unlock()
		globalConfig, err = Load(configPath)
	})
	return err
}

// Get returns the global configuration instance.
// InitGlobal must be called first, or this will return nil.
func Get() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return globalConfig
}
