// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package level

import "math"

// tiltRange is the span of roll/pitch mapped across the level face.
const tiltRange = math.Pi

// BubblePosition places the bubble inside a square level face of the given
// size: full tilt left/forward at 0, flat at size/2, full tilt right/back
// at size.
func BubblePosition(roll, pitch, size float64) (x, y float64) {
	x = (roll + tiltRange/2) / tiltRange * size
	y = (pitch + tiltRange/2) / tiltRange * size
	return x, y
}
