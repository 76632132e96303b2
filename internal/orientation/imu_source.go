// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package orientation

import (
	"fmt"
	"sync"

	"github.com/relabs-tech/bubble_level/internal/imu"
)

// gravityAlpha is the weight of a new sample in the gravity low-pass filter.
const gravityAlpha = 0.1

// DefaultAccelLSBPerG is the MPU9250 accelerometer sensitivity at ±2g.
const DefaultAccelLSBPerG = 16384.0

type imuSource struct {
	reader  imu.RawReader
	lsbPerG float64
	hub     *Hub

	mu          sync.Mutex
	gravity     [3]float64
	haveGravity bool
	device      Device
}

// NewIMUSource turns raw IMU samples into attitudes. Roll/pitch come from
// the accelerometer only; vertical acceleration is the z axis minus a
// low-pass gravity estimate. When hub is non-nil, orientation changes
// derived from the gravity vector are published to it.
//
// A nil reader yields a source that reports itself unavailable.
func NewIMUSource(reader imu.RawReader, lsbPerG float64, hub *Hub) Source {
	if lsbPerG <= 0 {
		lsbPerG = DefaultAccelLSBPerG
	}
	return &imuSource{reader: reader, lsbPerG: lsbPerG, hub: hub}
}

func (s *imuSource) Available() bool { return s.reader != nil }

func (s *imuSource) Next() (Attitude, error) {
	if s.reader == nil {
		return Attitude{}, ErrNoData
	}
	raw, err := s.reader.ReadRaw()
	if err != nil {
		return Attitude{}, fmt.Errorf("%s IMU read: %w", raw.Source, err)
	}

	ax := float64(raw.Ax) / s.lsbPerG
	ay := float64(raw.Ay) / s.lsbPerG
	az := float64(raw.Az) / s.lsbPerG

	s.mu.Lock()
	if !s.haveGravity {
		s.gravity = [3]float64{ax, ay, az}
		s.haveGravity = true
	} else {
		s.gravity[0] += gravityAlpha * (ax - s.gravity[0])
		s.gravity[1] += gravityAlpha * (ay - s.gravity[1])
		s.gravity[2] += gravityAlpha * (az - s.gravity[2])
	}
	g := s.gravity
	device := Classify(g[0], g[1], g[2])
	changed := device != s.device
	s.device = device
	s.mu.Unlock()

	if changed && s.hub != nil {
		s.hub.Publish(device)
	}

	att := ComputeAttitudeFromAccel(ax, ay, az)
	// Specific force along z drops when the device accelerates downward,
	// so the sign flip makes downward positive.
	att.ZAcceleration = -(az - g[2])
	return att, nil
}
