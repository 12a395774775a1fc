package board

import "github.com/aretw0/muralis/pkg/core"

// Subscribe registers a listener for board changes. The returned func
// detaches it and closes the channel. Slow listeners miss events rather than
// blocking mutations.
func (e *Engine) Subscribe() (<-chan core.Event, func()) {
	e.mu.Lock()
	defer e.mu.Unlock()

	id := e.nextSub
	e.nextSub++
	ch := make(chan core.Event, e.eventBuffer)
	e.subs[id] = ch

	return ch, func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		if c, ok := e.subs[id]; ok {
			delete(e.subs, id)
			close(c)
		}
	}
}

// publish fans an event out to subscribers. Must hold e.mu.
func (e *Engine) publish(ev core.Event) {
	for _, ch := range e.subs {
		select {
		case ch <- ev:
		default:
			e.logger.Debug("subscriber lagging, event dropped", "event", ev.String())
		}
	}
}
