// Package event provides a simple in-process event dispatcher.
package event

import (
	"fmt"
	"sync"

	"github.com/shashiranjanraj/bloodbank/pkg/logger"
)

// Handler is a function that receives an event payload.
type Handler func(payload interface{})

var (
	mu       sync.RWMutex
	handlers = map[string][]Handler{}
)

// Listen registers a handler for the given event name.
func Listen(event string, handler Handler) {
	mu.Lock()
	defer mu.Unlock()
	handlers[event] = append(handlers[event], handler)
}

func snapshot(event string) []Handler {
	mu.RLock()
	defer mu.RUnlock()
	hs := make([]Handler, len(handlers[event]))
	copy(hs, handlers[event])
	return hs
}

// Fire dispatches an event synchronously to all registered listeners. Events
// are fired after the change is committed, so a panicking listener is logged
// and skipped rather than failing the caller.
func Fire(event string, payload interface{}) {
	for _, h := range snapshot(event) {
		call(event, h, payload)
	}
}

func call(event string, h Handler, payload interface{}) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("event listener panicked", "event", event, "panic", fmt.Sprint(r))
		}
	}()
	h(payload)
}

// Flush removes all listeners (useful in tests).
func Flush() {
	mu.Lock()
	defer mu.Unlock()
	handlers = map[string][]Handler{}
}
