// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package orientation

import "math"

// dominanceMin is the fraction of |g| the dominant axis must carry before
// we commit to an orientation (about 37° away from the axis).
const dominanceMin = 0.8

// Classify maps an accelerometer reading at rest (specific force, so it
// points away from the ground) to a device orientation. Device axes: x to
// the right of the screen, y to the top edge, z out of the screen.
func Classify(ax, ay, az float64) Device {
	norm := math.Sqrt(ax*ax + ay*ay + az*az)
	if norm == 0 || math.IsNaN(norm) {
		return Unknown
	}

	axis, v := 0, ax
	if math.Abs(ay) > math.Abs(v) {
		axis, v = 1, ay
	}
	if math.Abs(az) > math.Abs(v) {
		axis, v = 2, az
	}
	if math.Abs(v)/norm < dominanceMin {
		return Unknown
	}

	switch axis {
	case 0:
		if v > 0 {
			return LandscapeLeft
		}
		return LandscapeRight
	case 1:
		if v > 0 {
			return Portrait
		}
		return PortraitUpsideDown
	default:
		if v > 0 {
			return FaceUp
		}
		return FaceDown
	}
}
