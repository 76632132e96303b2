// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package level

import (
	"sync"
	"time"

	"github.com/relabs-tech/bubble_level/internal/orientation"
)

// Reading is the published level state after orientation remapping.
type Reading struct {
	Roll          float64            `json:"roll"`
	Pitch         float64            `json:"pitch"`
	ZAcceleration float64            `json:"z_acceleration"`
	Orientation   orientation.Device `json:"orientation"`
	Time          time.Time          `json:"time"`
}

// State holds the latest Reading and fans it out to subscribers. It starts
// zeroed and is shared by reference with whatever displays it.
type State struct {
	mu      sync.RWMutex
	last    Reading
	updates uint64
	subs    map[int]chan Reading
	nextID  int
}

func NewState() *State {
	return &State{subs: make(map[int]chan Reading)}
}

func (s *State) Roll() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last.Roll
}

func (s *State) Pitch() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last.Pitch
}

func (s *State) ZAcceleration() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last.ZAcceleration
}

// Snapshot returns the latest reading and whether one was ever set.
func (s *State) Snapshot() (Reading, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last, s.updates > 0
}

// Updates is the number of readings set so far.
func (s *State) Updates() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.updates
}

// Set overwrites the state and notifies subscribers. Subscribers that are
// not keeping up miss the reading.
func (s *State) Set(r Reading) {
	s.mu.Lock()
	s.last = r
	s.updates++
	for _, ch := range s.subs {
		select {
		case ch <- r:
		default:
		}
	}
	s.mu.Unlock()
}

// Subscribe registers a listener. If a reading exists it is delivered
// immediately.
func (s *State) Subscribe(buffer int) (int, <-chan Reading) {
	if buffer <= 0 {
		buffer = 2
	}
	ch := make(chan Reading, buffer)

	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = ch
	if s.updates > 0 {
		ch <- s.last
	}
	s.mu.Unlock()
	return id, ch
}

// Unsubscribe removes a listener and closes its channel.
func (s *State) Unsubscribe(id int) {
	s.mu.Lock()
	ch, ok := s.subs[id]
	delete(s.subs, id)
	s.mu.Unlock()
	if ok {
		close(ch)
	}
}
