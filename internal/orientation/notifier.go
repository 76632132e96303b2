// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package orientation

import "sync"

// Handler receives device orientation changes.
type Handler func(Device)

// Notifier is a source of device orientation change notifications.
// Subscribe returns a function that unregisters the handler; calling it
// more than once is safe.
type Notifier interface {
	Subscribe(h Handler) (unsubscribe func())
}

// Hub is an in-process Notifier. Whoever knows about orientation changes
// (the IMU source, an MQTT subscriber, a test) calls Publish.
type Hub struct {
	mu       sync.Mutex
	handlers map[int]Handler
	nextID   int
}

func NewHub() *Hub {
	return &Hub{handlers: make(map[int]Handler)}
}

func (h *Hub) Subscribe(fn Handler) func() {
	h.mu.Lock()
	id := h.nextID
	h.nextID++
	h.handlers[id] = fn
	h.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.handlers, id)
			h.mu.Unlock()
		})
	}
}

// Publish delivers d to every registered handler. Handlers run on the
// caller's goroutine, outside the hub lock.
func (h *Hub) Publish(d Device) {
	h.mu.Lock()
	handlers := make([]Handler, 0, len(h.handlers))
	for _, fn := range h.handlers {
		handlers = append(handlers, fn)
	}
	h.mu.Unlock()

	for _, fn := range handlers {
		fn(d)
	}
}

// Len returns the number of registered handlers.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.handlers)
}
