// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package imu

// IMURaw represents a single raw accelerometer+gyro sample in sensor counts.
type IMURaw struct {
	Source string `json:"source"` // SPI device the sample came from

	Ax int16 `json:"ax"` // accel
	Ay int16 `json:"ay"`
	Az int16 `json:"az"`

	Gx int16 `json:"gx"` // gyro
	Gy int16 `json:"gy"`
	Gz int16 `json:"gz"`
}

// RawReader reads one raw sample from an IMU.
type RawReader interface {
	ReadRaw() (IMURaw, error)
}
