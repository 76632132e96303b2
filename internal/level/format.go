// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package level

import (
	"math"
	"strings"

	humanize "github.com/dustin/go-humanize"
)

// maxFractionDigits is the most precision humanize.FormatFloat supports.
const maxFractionDigits = 9

// FixedLengthString formats v with an explicit sign, exactly fractionDigits
// decimals and at most integerDigits integer digits (higher digits are
// dropped, so the width stays fixed for |v| < 10^integerDigits). Values
// that round to zero are shown as positive. integerDigits <= 0 means no
// limit.
func FixedLengthString(v float64, integerDigits, fractionDigits int) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	if fractionDigits < 0 {
		fractionDigits = 0
	}
	if fractionDigits > maxFractionDigits {
		fractionDigits = maxFractionDigits
	}

	scale := math.Pow10(fractionDigits)
	abs := math.Round(math.Abs(v)*scale) / scale
	sign := "+"
	if v < 0 && abs > 0 {
		sign = "-"
	}
	if math.IsInf(abs, 0) {
		return sign + "Inf"
	}
	if integerDigits > 0 {
		abs = math.Mod(abs, math.Pow10(integerDigits))
	}

	return sign + humanize.FormatFloat("#."+strings.Repeat("#", fractionDigits), abs)
}

// Describe renders a reading the way the level's text readout shows it.
func Describe(r Reading) string {
	return "Horizontal: " + FixedLengthString(r.Roll, 2, 2) +
		"  Vertical: " + FixedLengthString(r.Pitch, 2, 2)
}
