// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"fmt"
	"log"

	"github.com/relabs-tech/bubble_level/internal/config"
	"github.com/relabs-tech/bubble_level/internal/imu"
	"github.com/relabs-tech/bubble_level/internal/orientation"
	"github.com/relabs-tech/bubble_level/internal/sensors"
)

// newIMUReader is replaced in tests.
var newIMUReader = sensors.NewIMUSource

// NewMotionSource builds the motion source selected by cfg. IMU
// orientation changes are published to hub.
//
// A missing IMU is not an error: the returned source reports itself
// unavailable and the detector logs it at start.
func NewMotionSource(cfg *config.Config, hub *orientation.Hub) (orientation.Source, error) {
	switch cfg.MotionSource {
	case config.SourceMock:
		log.Println("using mock motion source")
		return orientation.NewMockSource(), nil
	case config.SourceIMU:
		var reader imu.RawReader
		r, err := newIMUReader(cfg.IMUSPIDevice, cfg.IMUCSPin)
		if err != nil {
			log.Printf("WARNING: IMU not available: %v", err)
		} else {
			log.Printf("using IMU on %s for motion", cfg.IMUSPIDevice)
			reader = r
		}
		return orientation.NewIMUSource(reader, cfg.IMUAccelLSBPerG, hub), nil
	case config.SourceSerial:
		log.Printf("using serial AHRS on %s for motion", cfg.SerialPort)
		return orientation.NewSerialSource(cfg.SerialPort, uint(cfg.SerialBaudRate)), nil
	default:
		return nil, fmt.Errorf("unknown motion source %q", cfg.MotionSource)
	}
}
