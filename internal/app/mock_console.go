// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"fmt"
	"time"

	"github.com/relabs-tech/bubble_level/internal/level"
	"github.com/relabs-tech/bubble_level/internal/orientation"
)

// RunMockConsole runs a detector on the mock source and prints the
// readout and bubble position every 100ms.
func RunMockConsole(ctx context.Context) error {
	detector := level.New(orientation.NewMockSource(), level.NewState(), level.Options{}).Started()
	defer detector.Close()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		r, ok := detector.State().Snapshot()
		if !ok {
			continue
		}
		x, y := level.BubblePosition(r.Roll, r.Pitch, 300)
		fmt.Printf("%s  bubble=(%5.1f, %5.1f)\n", level.Describe(r), x, y)
	}
}
