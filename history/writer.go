package history

import (
	"sync"
	"time"
)

// writeChannelCapacity is the buffer for queued history writes.
const writeChannelCapacity = 100

// drainTimeout is the maximum wait for pending writes during shutdown.
const drainTimeout = 30 * time.Second

// asyncWriter decouples rename-pipeline latency from SQLite write latency.
// One background goroutine owns all writes, preserving record order without
// locking in the hot path.
type asyncWriter struct {
	ch      chan Entry
	handler func(Entry)

	wg      sync.WaitGroup
	mu      sync.Mutex
	stopped bool
}

func newAsyncWriter(handler func(Entry)) *asyncWriter {
	w := &asyncWriter{
		ch:      make(chan Entry, writeChannelCapacity),
		handler: handler,
	}
	w.wg.Add(1)
	go w.run()
	return w
}

func (w *asyncWriter) run() {
	defer w.wg.Done()
	for e := range w.ch {
		w.handler(e)
	}
}

// enqueue hands an entry to the writer goroutine. It reports false when the
// queue is full or the writer is stopped, in which case the caller should
// write synchronously instead of dropping the entry.
func (w *asyncWriter) enqueue(e Entry) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return false
	}
	select {
	case w.ch <- e:
		return true
	default:
		return false
	}
}

// stop closes the queue and waits for pending writes to drain.
func (w *asyncWriter) stop() {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return
	}
	w.stopped = true
	close(w.ch)
	w.mu.Unlock()

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(drainTimeout):
	}
}
