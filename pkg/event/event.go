// Package event provides an in-process event dispatcher.
//
// Listeners subscribe to an exact name ("fabric.created") or to a prefix
// wildcard ("fabric.*").
package event

import (
	"strings"
	"sync"
)

// Event is what listeners receive.
type Event struct {
	Name    string
	Payload interface{}
}

// Handler is a function that receives an event.
type Handler func(e Event)

// Bus holds listeners. The zero value is ready to use.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
}

// Listen registers a handler for name. A trailing ".*" matches every event
// sharing the prefix.
func (b *Bus) Listen(name string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.handlers == nil {
		b.handlers = map[string][]Handler{}
	}
	b.handlers[name] = append(b.handlers[name], h)
}

func (b *Bus) matching(name string) []Handler {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var hs []Handler
	hs = append(hs, b.handlers[name]...)
	for pattern, list := range b.handlers {
		prefix, ok := strings.CutSuffix(pattern, "*")
		if ok && pattern != name && strings.HasPrefix(name, prefix) {
			hs = append(hs, list...)
		}
	}
	return hs
}

// Fire dispatches synchronously to all matching listeners.
func (b *Bus) Fire(name string, payload interface{}) {
	e := Event{Name: name, Payload: payload}
	for _, h := range b.matching(name) {
		h(e)
	}
}

// FireAsync dispatches to each matching listener in its own goroutine.
func (b *Bus) FireAsync(name string, payload interface{}) {
	e := Event{Name: name, Payload: payload}
	for _, h := range b.matching(name) {
		go h(e)
	}
}

// Flush removes all listeners.
func (b *Bus) Flush() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = nil
}

// ─── Package-level default bus ───────────────────────────────────────────────

var defaultBus Bus

// Default returns the process-wide bus the package-level helpers use.
func Default() *Bus { return &defaultBus }

// Listen registers h on the default bus.
func Listen(name string, h Handler) { defaultBus.Listen(name, h) }

// Fire dispatches synchronously on the default bus.
func Fire(name string, payload interface{}) { defaultBus.Fire(name, payload) }

// FireAsync dispatches asynchronously on the default bus.
func FireAsync(name string, payload interface{}) { defaultBus.FireAsync(name, payload) }

// Flush removes all listeners from the default bus (useful in tests).
func Flush() { defaultBus.Flush() }
