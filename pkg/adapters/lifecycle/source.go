// Package lifecycle bridges board and store change streams to
// github.com/aretw0/lifecycle sources.
package lifecycle

import (
	"context"
	"fmt"
	"sync"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/muralis/pkg/core"
)

// Origin names the stream an event came from.
type Origin string

const (
	OriginBoard Origin = "board"
	OriginStore Origin = "store"
)

// Event is a change tagged with its origin. It implements lifecycle.Event.
type Event struct {
	core.Event
	Origin Origin
}

func (e Event) String() string {
	return fmt.Sprintf("%s: %s", e.Origin, e.Event.String())
}

type boardSource struct {
	inputs map[Origin]<-chan core.Event
	out    chan lifecycle.Event
}

// NewSource creates a lifecycle.Source that merges change streams.
// Nil channels are skipped. Events() closes once every input is closed
// or the context passed to Start is done.
func NewSource(inputs map[Origin]<-chan core.Event) lifecycle.Source {
	live := make(map[Origin]<-chan core.Event, len(inputs))
	for origin, ch := range inputs {
		if ch != nil {
			live[origin] = ch
		}
	}
	return &boardSource{
		inputs: live,
		out:    make(chan lifecycle.Event),
	}
}

func (s *boardSource) Events() <-chan lifecycle.Event {
	return s.out
}

func (s *boardSource) Start(ctx context.Context) error {
	var wg sync.WaitGroup
	for origin, ch := range s.inputs {
		wg.Add(1)
		lifecycle.Go(ctx, func(ctx context.Context) error {
			defer wg.Done()
			return s.forward(ctx, origin, ch)
		})
	}

	lifecycle.Go(ctx, func(ctx context.Context) error {
		wg.Wait()
		close(s.out)
		return nil
	})
	return nil
}

func (s *boardSource) forward(ctx context.Context, origin Origin, events <-chan core.Event) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case e, ok := <-events:
			if !ok {
				return nil
			}
			select {
			case s.out <- Event{Event: e, Origin: origin}:
			case <-ctx.Done():
				return nil
			}
		}
	}
}
