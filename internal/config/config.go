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
	"time"

	"github.com/relabs-tech/bubble_level/internal/orientation"
)

// Motion source kinds accepted by MOTION_SOURCE.
const (
	SourceMock   = "mock"
	SourceIMU    = "imu"
	SourceSerial = "serial"
)

// Config holds all application configuration values.
type Config struct {
	// Sampling
	SampleInterval     int // milliseconds
	MotionSource       string
	InitialOrientation orientation.Device

	// IMU Hardware
	IMUSPIDevice    string
	IMUCSPin        string
	IMUAccelLSBPerG float64

	// Serial AHRS
	SerialPort     string
	SerialBaudRate int

	// MQTT
	MQTTBroker           string
	MQTTClientIDProducer string
	MQTTClientIDWeb      string
	MQTTClientIDConsole  string

	// Topics
	TopicLevel       string
	TopicOrientation string

	// Timing
	PublishInterval    int // milliseconds
	ConsoleLogInterval int // milliseconds

	// Web Server
	WebServerPort int
}

// Default returns a Config with every optional value filled in.
func Default() *Config {
	return &Config{
		SampleInterval:       10,
		MotionSource:         SourceMock,
		InitialOrientation:   orientation.LandscapeLeft,
		IMUSPIDevice:         "/dev/spidev0.0",
		IMUCSPin:             "8",
		IMUAccelLSBPerG:      orientation.DefaultAccelLSBPerG,
		SerialBaudRate:       115200,
		MQTTClientIDProducer: "bubble-level-producer",
		MQTTClientIDWeb:      "bubble-level-web",
		MQTTClientIDConsole:  "bubble-level-console",
		TopicLevel:           "level/state",
		TopicOrientation:     "level/orientation",
		PublishInterval:      100,
		ConsoleLogInterval:   500,
		WebServerPort:        8080,
	}
}

// Package-level unexported variables for the singleton: globalConfig is set
// once by InitGlobal and read through Get under configMu.
var (
	globalConfig *Config
	configOnce   sync.Once
	configMu     sync.RWMutex
)

// Load reads the configuration file and returns a Config struct.
func Load(configPath string) (*Config, error) {
	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	return Parse(file)
}

// Parse reads KEY=VALUE lines from r on top of Default().
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

		// Parse KEY=VALUE
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
	// Sampling
	case "SAMPLE_INTERVAL_MS":
		interval, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid SAMPLE_INTERVAL_MS %q: %w", value, err)
		}
		c.SampleInterval = interval
	case "MOTION_SOURCE":
		c.MotionSource = strings.ToLower(value)
	case "INITIAL_ORIENTATION":
		d, err := orientation.ParseDevice(value)
		if err != nil {
			return fmt.Errorf("invalid INITIAL_ORIENTATION: %w", err)
		}
		c.InitialOrientation = d

	// IMU Hardware
	case "IMU_SPI_DEVICE":
		c.IMUSPIDevice = value
	case "IMU_CS_PIN":
		c.IMUCSPin = value
	case "IMU_ACCEL_LSB_PER_G":
		lsb, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid IMU_ACCEL_LSB_PER_G %q: %w", value, err)
		}
		c.IMUAccelLSBPerG = lsb

	// Serial AHRS
	case "SERIAL_PORT":
		c.SerialPort = value
	case "SERIAL_BAUD_RATE":
		rate, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid SERIAL_BAUD_RATE %q: %w", value, err)
		}
		c.SerialBaudRate = rate

	// MQTT
	case "MQTT_BROKER":
		c.MQTTBroker = value
	case "MQTT_CLIENT_ID_PRODUCER":
		c.MQTTClientIDProducer = value
	case "MQTT_CLIENT_ID_WEB":
		c.MQTTClientIDWeb = value
	case "MQTT_CLIENT_ID_CONSOLE":
		c.MQTTClientIDConsole = value

	// Topics
	case "TOPIC_LEVEL":
		c.TopicLevel = value
	case "TOPIC_ORIENTATION":
		c.TopicOrientation = value

	// Timing
	case "PUBLISH_INTERVAL_MS":
		interval, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid PUBLISH_INTERVAL_MS %q: %w", value, err)
		}
		c.PublishInterval = interval
	case "CONSOLE_LOG_INTERVAL":
		interval, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid CONSOLE_LOG_INTERVAL %q: %w", value, err)
		}
		c.ConsoleLogInterval = interval

	// Web Server
	case "WEB_SERVER_PORT":
		port, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid WEB_SERVER_PORT %q: %w", value, err)
		}
		c.WebServerPort = port

	default:
		return fmt.Errorf("unknown config key: %q", key)
	}

	return nil
}

// validate checks ranges and the fields required by the chosen source.
func (c *Config) validate() error {
	if c.SampleInterval <= 0 {
		return fmt.Errorf("SAMPLE_INTERVAL_MS must be positive, got %d", c.SampleInterval)
	}
	if c.PublishInterval <= 0 {
		return fmt.Errorf("PUBLISH_INTERVAL_MS must be positive, got %d", c.PublishInterval)
	}
	if c.ConsoleLogInterval <= 0 {
		return fmt.Errorf("CONSOLE_LOG_INTERVAL must be positive, got %d", c.ConsoleLogInterval)
	}
	if c.WebServerPort <= 0 || c.WebServerPort > 65535 {
		return fmt.Errorf("WEB_SERVER_PORT must be 1-65535, got %d", c.WebServerPort)
	}

	switch c.MotionSource {
	case SourceMock:
	case SourceIMU:
		if c.IMUSPIDevice == "" {
			return fmt.Errorf("IMU_SPI_DEVICE is required when MOTION_SOURCE=imu")
		}
		if c.IMUAccelLSBPerG <= 0 {
			return fmt.Errorf("IMU_ACCEL_LSB_PER_G must be positive, got %g", c.IMUAccelLSBPerG)
		}
	case SourceSerial:
		if c.SerialPort == "" {
			return fmt.Errorf("SERIAL_PORT is required when MOTION_SOURCE=serial")
		}
		if c.SerialBaudRate <= 0 {
			return fmt.Errorf("SERIAL_BAUD_RATE must be positive, got %d", c.SerialBaudRate)
		}
	default:
		return fmt.Errorf("MOTION_SOURCE must be one of mock, imu, serial, got %q", c.MotionSource)
	}
	return nil
}

// SampleEvery returns the sampling interval as a duration.
func (c *Config) SampleEvery() time.Duration {
	return time.Duration(c.SampleInterval) * time.Millisecond
}

// InitGlobal initializes the global configuration from file.
// Only the first call loads; later calls are no-ops.
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
