// Package watch turns a directory into a transcript inbox: files dropped in
// it are debounced, decoded and handed to ingestion.
package watch

import (
	"sync"
	"time"
)

// Debouncer coalesces rapid triggers per key into a single callback
// invocation for that key.
type Debouncer struct {
	window   time.Duration
	mu       sync.Mutex
	timers   map[string]*time.Timer
	callback func(key string)
}

// NewDebouncer creates a debouncer with the given window duration.
func NewDebouncer(window time.Duration, callback func(key string)) *Debouncer {
	return &Debouncer{
		window:   window,
		timers:   make(map[string]*time.Timer),
		callback: callback,
	}
}

// Trigger resets the timer of key. The callback fires once the window
// elapses with no further triggers for the same key.
func (d *Debouncer) Trigger(key string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if t, ok := d.timers[key]; ok {
		t.Stop()
	}
	var t *time.Timer
	t = time.AfterFunc(d.window, func() {
		d.mu.Lock()
		if d.timers[key] != t {
			// Replaced by a later trigger.
			d.mu.Unlock()
			return
		}
		delete(d.timers, key)
		d.mu.Unlock()
		d.callback(key)
	})
	d.timers[key] = t
}

// Pending returns the number of keys waiting for their window to elapse.
func (d *Debouncer) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.timers)
}

// Stop cancels every pending callback.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	for key, t := range d.timers {
		t.Stop()
		delete(d.timers, key)
	}
}
