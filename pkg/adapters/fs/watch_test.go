package fs

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/lifecycle/pkg/core/supervisor"
	"github.com/aretw0/lifecycle/pkg/core/worker"

	"github.com/aretw0/muralis/pkg/core"
)

func TestWatch_ExternalChanges(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := newTestStore(t, "board.json")
	events, err := s.Watch(ctx)
	if err != nil {
		t.Fatalf("Watch failed: %v", err)
	}
	waitForWatcher(t, s, true)

	// Our own save is not echoed.
	if err := s.Save(ctx, []byte(`[]`)); err != nil {
		t.Fatal(err)
	}
	expectNoEvent(t, events, 200*time.Millisecond)

	// Another process edits the file.
	if err := os.WriteFile(s.Path, []byte(`[{"id":"x"}]`), 0644); err != nil {
		t.Fatal(err)
	}
	e := expectEvent(t, events)
	if e.Type != core.EventModify && e.Type != core.EventCreate {
		t.Errorf("Expected MODIFY or CREATE, got %s", e.Type)
	}

	if err := os.Remove(s.Path); err != nil {
		t.Fatal(err)
	}
	if e := expectEvent(t, events); e.Type != core.EventDelete {
		t.Errorf("Expected DELETE, got %s", e.Type)
	}

	cancel()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case _, ok := <-events:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("events channel not closed after cancel")
		}
	}
}

func TestWatch_IgnoresOtherFiles(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := newTestStore(t, "board.json")
	events, err := s.Watch(ctx)
	if err != nil {
		t.Fatalf("Watch failed: %v", err)
	}
	waitForWatcher(t, s, true)

	if err := os.WriteFile(s.Path+".bak", []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	expectNoEvent(t, events, 200*time.Millisecond)
}

func TestWatcherSupervisorRestarts(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := newTestStore(t, "board.json")
	events := make(chan core.Event)
	created := make(chan *watchWorker, 2)

	spec := supervisor.Spec{
		Name: "fs-watcher",
		Type: string(worker.TypeGoroutine),
		Factory: func() (worker.Worker, error) {
			w := newWatchWorker(s, events)
			created <- w
			return w, nil
		},
		Backoff: supervisor.Backoff{
			InitialInterval: 10 * time.Millisecond,
			MaxInterval:     50 * time.Millisecond,
			Multiplier:      1,
			ResetDuration:   50 * time.Millisecond,
			MaxRestarts:     2,
			MaxDuration:     200 * time.Millisecond,
		},
		RestartPolicy: supervisor.RestartOnFailure,
	}

	sup := supervisor.New("test-watcher", supervisor.StrategyOneForOne, spec)
	if err := sup.Start(ctx); err != nil {
		t.Fatalf("failed to start supervisor: %v", err)
	}

	first := waitForWorker(t, created, "first")
	waitForWatcher(t, s, true)

	waitForWatcherInit(t, first)
	_ = first.watcher.Close()

	second := waitForWorker(t, created, "second")
	if first == second {
		t.Fatalf("expected supervisor to restart watcher with a new instance")
	}
	waitForWatcher(t, s, true)

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer stopCancel()
	if err := sup.Stop(stopCtx); err != nil {
		t.Fatalf("failed to stop supervisor: %v", err)
	}
}

func TestDebouncer(t *testing.T) {
	d := newDebouncer(20 * time.Millisecond)

	var mu sync.Mutex
	var fired []core.Event
	fire := func(e core.Event) {
		mu.Lock()
		defer mu.Unlock()
		fired = append(fired, e)
	}

	d.add(core.Event{Type: core.EventCreate}, fire)
	d.add(core.Event{Type: core.EventModify}, fire)
	d.add(core.Event{Type: core.EventModify}, fire)
	time.Sleep(100 * time.Millisecond)

	mu.Lock()
	if len(fired) != 1 || fired[0].Type != core.EventCreate {
		t.Errorf("Expected one coalesced CREATE, got %+v", fired)
	}
	mu.Unlock()

	d.add(core.Event{Type: core.EventModify}, fire)
	if !d.stopAndWait(time.Second) {
		t.Fatal("stopAndWait timed out")
	}
	d.add(core.Event{Type: core.EventModify}, fire)
	time.Sleep(60 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if len(fired) != 1 {
		t.Errorf("Expected pending and late events to be dropped, got %+v", fired)
	}
}

func TestReconcile(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, "board.json")

	if _, changed := s.reconcile(); changed {
		t.Error("Nothing changed yet")
	}

	if err := s.Save(ctx, []byte(`[]`)); err != nil {
		t.Fatal(err)
	}
	if _, changed := s.reconcile(); changed {
		t.Error("Own save should not be reported")
	}

	if err := os.WriteFile(s.Path, []byte(`[{"id":"external"}]`), 0644); err != nil {
		t.Fatal(err)
	}
	e, changed := s.reconcile()
	if !changed || e.Type != core.EventModify {
		t.Errorf("Expected MODIFY, got %v %v", e, changed)
	}

	if err := os.Remove(s.Path); err != nil {
		t.Fatal(err)
	}
	if e, _ := s.reconcile(); e.Type != core.EventDelete {
		t.Errorf("Expected DELETE, got %v", e)
	}

	state := s.State().(StoreState)
	if state.LastReconcile == nil {
		t.Error("LastReconcile not recorded")
	}
}

func expectEvent(t *testing.T, ch <-chan core.Event) core.Event {
	t.Helper()
	select {
	case e, ok := <-ch:
		if !ok {
			t.Fatal("events channel closed")
		}
		return e
	case <-time.After(3 * time.Second):
		t.Fatal("timeout waiting for event")
		return core.Event{}
	}
}

func expectNoEvent(t *testing.T, ch <-chan core.Event, wait time.Duration) {
	t.Helper()
	select {
	case e := <-ch:
		t.Fatalf("unexpected event %v", e)
	case <-time.After(wait):
	}
}

func waitForWorker(t *testing.T, ch <-chan *watchWorker, label string) *watchWorker {
	t.Helper()

	select {
	case w := <-ch:
		return w
	case <-time.After(2 * time.Second):
		t.Fatalf("timeout waiting for %s worker", label)
		return nil
	}
}

func waitForWatcherInit(t *testing.T, w *watchWorker) {
	t.Helper()

	deadline := time.After(2 * time.Second)
	for {
		if w.watcher != nil {
			return
		}
		select {
		case <-deadline:
			t.Fatalf("timeout waiting for watcher initialization")
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func waitForWatcher(t *testing.T, s *Store, expected bool) {
	t.Helper()

	deadline := time.After(2 * time.Second)
	for {
		state, ok := s.State().(StoreState)
		if ok && state.WatcherActive == expected {
			return
		}
		select {
		case <-deadline:
			t.Fatalf("timeout waiting for watcher state = %v", expected)
		case <-time.After(10 * time.Millisecond):
		}
	}
}
