package recorder

import (
	"sync"
	"time"

	"github.com/clipforge/clipforge/internal/event"
)

// trackerInterval is how often duration updates are published.
const trackerInterval = time.Second

// tracker publishes duration-update events roughly once per second while a
// session is active. It reads state through a snapshot function so it never
// touches orchestrator internals or its lock ordering.
type tracker struct {
	snapshot func() (Snapshot, bool)
	bus      *event.Bus

	stop chan struct{}
	once sync.Once
	wg   sync.WaitGroup
}

// newTracker starts the publishing goroutine.
func newTracker(snapshot func() (Snapshot, bool), bus *event.Bus) *tracker {
	t := &tracker{
		snapshot: snapshot,
		bus:      bus,
		stop:     make(chan struct{}),
	}
	t.wg.Add(1)
	go t.run()
	return t
}

func (t *tracker) run() {
	defer t.wg.Done()

	ticker := time.NewTicker(trackerInterval)
	defer ticker.Stop()

	for {
		select {
		case <-t.stop:
			return
		case <-ticker.C:
			snap, active := t.snapshot()
			if !active {
				// Session ended without Stop being called on the tracker;
				// self-terminate rather than ticking forever.
				return
			}
			t.bus.Publish(event.NewDurationUpdateEvent(
				snap.RecordingID, string(snap.Status), snap.DurationSeconds))
		}
	}
}

// Stop halts the tracker and waits for the goroutine to exit.
func (t *tracker) Stop() {
	t.once.Do(func() {
		close(t.stop)
	})
	t.wg.Wait()
}
