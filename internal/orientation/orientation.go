// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package orientation

import (
	"errors"
	"fmt"
	"math"
)

// ErrNoData is returned by a Source when no sample is ready yet.
// Callers skip the tick instead of treating it as a failure.
var ErrNoData = errors.New("orientation: no motion data")

// Attitude is a single motion sample as reported by a source.
// Roll, Pitch and Yaw are in radians, ZAcceleration in g with gravity removed
// (downward positive).
type Attitude struct {
	Roll          float64 `json:"roll"`
	Pitch         float64 `json:"pitch"`
	Yaw           float64 `json:"yaw"`
	ZAcceleration float64 `json:"z_acceleration"`
}

// Source is anything that can provide attitude samples on demand.
type Source interface {
	// Available reports whether device motion can be read at all.
	Available() bool
	// Next returns the latest sample, or ErrNoData if none is ready.
	Next() (Attitude, error)
}

// Updater is implemented by sources that need to be started before Next
// returns data (e.g. a serial reader goroutine).
type Updater interface {
	Start() error
	Stop()
}

// Device is the physical orientation of the device as reported by the host.
type Device int

const (
	Unknown Device = iota
	Portrait
	PortraitUpsideDown
	LandscapeLeft
	LandscapeRight
	FaceUp
	FaceDown
)

var deviceNames = map[Device]string{
	Unknown:            "unknown",
	Portrait:           "portrait",
	PortraitUpsideDown: "portrait-upside-down",
	LandscapeLeft:      "landscape-left",
	LandscapeRight:     "landscape-right",
	FaceUp:             "face-up",
	FaceDown:           "face-down",
}

func (d Device) String() string {
	if name, ok := deviceNames[d]; ok {
		return name
	}
	return fmt.Sprintf("device(%d)", int(d))
}

// ParseDevice converts a name such as "landscape-left" into a Device.
func ParseDevice(s string) (Device, error) {
	for d, name := range deviceNames {
		if name == s {
			return d, nil
		}
	}
	return Unknown, fmt.Errorf("unknown device orientation %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (d Device) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Device) UnmarshalText(b []byte) error {
	v, err := ParseDevice(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// Usable reports whether d can be used to remap axes. Flat and unknown
// orientations say nothing about how the screen is rotated.
func (d Device) Usable() bool {
	switch d {
	case Portrait, PortraitUpsideDown, LandscapeLeft, LandscapeRight:
		return true
	}
	return false
}

// Adjust remaps raw roll/pitch into screen-relative roll/pitch so that
// tilting left decreases roll and tilting forward decreases pitch no matter
// how the device is held.
func Adjust(d Device, roll, pitch float64) (float64, float64) {
	switch d {
	case Unknown, FaceUp, FaceDown:
		return roll, -pitch
	case LandscapeLeft:
		return pitch, -roll
	case Portrait:
		return roll, pitch
	case PortraitUpsideDown:
		return -roll, -pitch
	case LandscapeRight:
		return -pitch, roll
	default:
		return roll, pitch
	}
}

// ComputeAttitudeFromAccel computes roll and pitch (radians) from
// accelerometer data only, in any unit. Yaw is left at 0.
//
// Uses simple tilt formulas:
//
//	roll  = atan2(ay, az)
//	pitch = atan2(-ax, sqrt(ay² + az²))
func ComputeAttitudeFromAccel(ax, ay, az float64) Attitude {
	return Attitude{
		Roll:  math.Atan2(ay, az),
		Pitch: math.Atan2(-ax, math.Sqrt(ay*ay+az*az)),
	}
}
