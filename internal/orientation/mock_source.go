// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package orientation

import (
	"math"
	"time"
)

type mockSource struct {
	start time.Time
	now   func() time.Time
}

// NewMockSource creates a mock motion source that generates a device
// slowly rocking around both axes.
func NewMockSource() Source {
	return &mockSource{start: time.Now(), now: time.Now}
}

func (m *mockSource) Available() bool { return true }

func (m *mockSource) Next() (Attitude, error) {
	elapsed := m.now().Sub(m.start).Seconds()

	return Attitude{
		Roll:          0.35 * math.Sin(elapsed),
		Pitch:         0.25 * math.Cos(elapsed*0.7),
		ZAcceleration: 0.02 * math.Sin(elapsed*3),
	}, nil
}
