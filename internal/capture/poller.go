package capture

import (
	"sync"
	"sync/atomic"

	"github.com/clipforge/clipforge/internal/logging"
)

// Poller pulls frames off a queue and hands them to a processor on its own
// goroutine. Pausing is cooperative: paused frames are popped and discarded
// so the queue never backs up while the recording is paused.
type Poller struct {
	queue     *FrameQueue
	processor FrameProcessor
	logger    *logging.Logger

	paused  atomic.Bool
	stopped atomic.Bool
	wg      sync.WaitGroup

	mu      sync.Mutex
	procErr error
}

// NewPoller creates a poller; call Start to begin draining the queue.
func NewPoller(queue *FrameQueue, processor FrameProcessor, logger *logging.Logger) *Poller {
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Poller{
		queue:     queue,
		processor: processor,
		logger:    logger.WithComponent("capture"),
	}
}

// Start launches the polling goroutine.
func (p *Poller) Start() {
	p.wg.Add(1)
	go p.run()
}

func (p *Poller) run() {
	defer p.wg.Done()

	for {
		frame, ok := p.queue.Pop()
		if !ok {
			return
		}
		if p.stopped.Load() {
			return
		}
		if p.paused.Load() {
			continue
		}

		if err := p.processor.ProcessFrame(frame); err != nil {
			p.logger.Error("frame processing failed, poller stopping", "error", err)
			p.mu.Lock()
			p.procErr = err
			p.mu.Unlock()
			p.stopped.Store(true)
			return
		}
	}
}

// Pause discards frames instead of processing them.
func (p *Poller) Pause() {
	p.paused.Store(true)
}

// Resume restores frame processing.
func (p *Poller) Resume() {
	p.paused.Store(false)
}

// Err returns the processing error that stopped the poller, if any.
func (p *Poller) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.procErr
}

// Stop halts the poller and waits for the goroutine to exit. The queue is
// closed as part of stopping.
func (p *Poller) Stop() {
	p.stopped.Store(true)
	p.queue.Close()
	p.wg.Wait()
}
