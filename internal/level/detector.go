// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package level

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/relabs-tech/bubble_level/internal/orientation"
)

// DefaultInterval is the sampling period used when none is configured.
const DefaultInterval = 10 * time.Millisecond

// Scheduler runs fn every interval until the returned stop function is
// called. stop must be safe to call more than once.
type Scheduler interface {
	Every(interval time.Duration, fn func()) (stop func())
}

// TickerScheduler runs callbacks from a time.Ticker on its own goroutine.
type TickerScheduler struct{}

func (TickerScheduler) Every(interval time.Duration, fn func()) func() {
	ticker := time.NewTicker(interval)
	done := make(chan struct{})

	go func() {
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				fn()
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			ticker.Stop()
			close(done)
		})
	}
}

// Options configures a Detector.
type Options struct {
	// Interval between samples. Defaults to DefaultInterval.
	Interval time.Duration
	// InitialOrientation is used until a usable orientation is reported.
	// Anything other than portrait/landscape means landscape-left.
	InitialOrientation orientation.Device
	// Notifier delivers device orientation changes. Optional.
	Notifier orientation.Notifier
	// Scheduler drives the sampling loop. Defaults to TickerScheduler.
	Scheduler Scheduler
}

// Detector samples a motion source at a fixed interval, remaps the
// attitude for the current device orientation and publishes it to a State.
//
// A Detector is stopped until Start is called. Stop (or Close) must run
// before it is discarded so that no tick keeps firing.
type Detector struct {
	source    orientation.Source
	state     *State
	notifier  orientation.Notifier
	scheduler Scheduler
	interval  time.Duration

	// OnUpdate, if set, runs after every published reading on the sampling
	// goroutine. Set it before Start.
	OnUpdate func(Reading)

	// lifeMu serializes Start and Stop.
	lifeMu      sync.Mutex
	cancel      func()
	unsubscribe func()
	updater     orientation.Updater

	mu          sync.Mutex
	running     bool
	orientation orientation.Device
}

// New returns a stopped Detector publishing into state.
func New(source orientation.Source, state *State, opts Options) *Detector {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Scheduler == nil {
		opts.Scheduler = TickerScheduler{}
	}
	if !opts.InitialOrientation.Usable() {
		opts.InitialOrientation = orientation.LandscapeLeft
	}
	return &Detector{
		source:      source,
		state:       state,
		notifier:    opts.Notifier,
		scheduler:   opts.Scheduler,
		interval:    opts.Interval,
		orientation: opts.InitialOrientation,
	}
}

// State returns the state the detector publishes to.
func (d *Detector) State() *State { return d.state }

// Start begins listening for orientation changes and, if the source has
// motion data, sampling it. Starting a running detector does nothing.
func (d *Detector) Start() {
	d.lifeMu.Lock()
	defer d.lifeMu.Unlock()

	d.mu.Lock()
	if d.running {
		d.mu.Unlock()
		return
	}
	d.running = true
	d.mu.Unlock()

	if d.notifier != nil {
		d.unsubscribe = d.notifier.Subscribe(d.setOrientation)
	}

	if !d.source.Available() {
		log.Println("level: motion data isn't available on this device")
		return
	}

	if u, ok := d.source.(orientation.Updater); ok {
		if err := u.Start(); err != nil {
			log.Printf("level: motion data isn't available: %v", err)
			return
		}
		d.updater = u
	}

	d.cancel = d.scheduler.Every(d.interval, d.update)
}

// Started starts the detector and returns it.
func (d *Detector) Started() *Detector {
	d.Start()
	return d
}

// Stop cancels sampling and the orientation subscription. It is safe to
// call on a stopped detector. Once Stop returns no tick mutates the state.
func (d *Detector) Stop() {
	d.lifeMu.Lock()
	defer d.lifeMu.Unlock()

	d.mu.Lock()
	d.running = false
	d.mu.Unlock()

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	if d.updater != nil {
		d.updater.Stop()
		d.updater = nil
	}
	if d.unsubscribe != nil {
		d.unsubscribe()
		d.unsubscribe = nil
	}
}

// Close stops the detector. It implements io.Closer so owners can defer it.
func (d *Detector) Close() error {
	d.Stop()
	return nil
}

// Run starts the detector and stops it when ctx is done.
func (d *Detector) Run(ctx context.Context) error {
	d.Start()
	defer d.Stop()
	<-ctx.Done()
	return ctx.Err()
}

// Running reports whether Start has been called without a matching Stop.
func (d *Detector) Running() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.running
}

// Orientation returns the last usable device orientation.
func (d *Detector) Orientation() orientation.Device {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.orientation
}

// setOrientation is the notification handler. Flat and unknown
// orientations keep the last usable one.
func (d *Detector) setOrientation(dev orientation.Device) {
	if !dev.Usable() {
		return
	}
	d.mu.Lock()
	d.orientation = dev
	d.mu.Unlock()
}

// update is one sampling tick.
func (d *Detector) update() {
	if !d.Running() {
		return
	}

	att, err := d.source.Next()
	if err != nil {
		if !errors.Is(err, orientation.ErrNoData) {
			log.Printf("level: error reading motion data: %v", err)
		}
		return
	}

	d.mu.Lock()
	if !d.running {
		d.mu.Unlock()
		return
	}
	roll, pitch := orientation.Adjust(d.orientation, att.Roll, att.Pitch)
	r := Reading{
		Roll:          roll,
		Pitch:         pitch,
		ZAcceleration: att.ZAcceleration,
		Orientation:   d.orientation,
		Time:          time.Now(),
	}
	d.state.Set(r)
	d.mu.Unlock()

	if d.OnUpdate != nil {
		d.OnUpdate(r)
	}
}
