// Package capture moves frames from a capture backend to the encoder. The
// backend pushes frames as fast as the platform delivers them; the queue
// absorbs encoder stalls by dropping the oldest frame rather than blocking
// the capture callback.
package capture

import (
	"sync"
	"sync/atomic"
)

// Frame is one captured video frame.
type Frame struct {
	// Data is raw RGBA pixel data, Width*Height*4 bytes.
	Data []byte
	// TimestampMicros is the capture time in microseconds since session start.
	TimestampMicros int64
}

// FrameQueue is a bounded frame buffer with drop-oldest overflow behavior.
// Pushing never blocks; when the queue is full the oldest frame is discarded
// to make room, keeping latency bounded under encoder backpressure.
type FrameQueue struct {
	frames  chan Frame
	done    chan struct{}
	once    sync.Once
	dropped atomic.Uint64
}

// NewFrameQueue creates a queue holding up to capacity frames.
func NewFrameQueue(capacity int) *FrameQueue {
	if capacity <= 0 {
		capacity = 1
	}
	return &FrameQueue{
		frames: make(chan Frame, capacity),
		done:   make(chan struct{}),
	}
}

// Push adds a frame, evicting the oldest if the queue is full.
// Returns false once the queue is closed.
func (q *FrameQueue) Push(f Frame) bool {
	select {
	case <-q.done:
		return false
	default:
	}

	select {
	case q.frames <- f:
		return true
	default:
	}

	// Full: evict one and retry. A concurrent consumer may win the race for
	// the slot, in which case the frame is dropped instead.
	select {
	case <-q.frames:
		q.dropped.Add(1)
	default:
	}

	select {
	case q.frames <- f:
	default:
		q.dropped.Add(1)
	}
	return true
}

// Pop removes the oldest frame, blocking until one is available or the
// queue is closed. The second return is false when the queue is closed and
// drained.
func (q *FrameQueue) Pop() (Frame, bool) {
	select {
	case f := <-q.frames:
		return f, true
	case <-q.done:
		// Drain anything pushed before close
		select {
		case f := <-q.frames:
			return f, true
		default:
			return Frame{}, false
		}
	}
}

// Len returns the number of buffered frames.
func (q *FrameQueue) Len() int {
	return len(q.frames)
}

// Dropped returns the total number of frames discarded due to overflow.
func (q *FrameQueue) Dropped() uint64 {
	return q.dropped.Load()
}

// Close stops the queue. Pending frames can still be popped; further pushes
// are rejected. Safe to call more than once.
func (q *FrameQueue) Close() {
	q.once.Do(func() {
		close(q.done)
	})
}
