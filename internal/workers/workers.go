// Package workers tracks background goroutines so they can be drained on
// shutdown and in tests.
package workers

import (
	"sync"
	"time"
)

// Global runs event handlers and server goroutines.
var Global = NewWorker()

type Worker struct {
	wg *sync.WaitGroup
}

func NewWorker() *Worker {
	return &Worker{
		wg: &sync.WaitGroup{},
	}
}

// Go runs fn in a tracked goroutine.
func (w *Worker) Go(fn func()) {
	w.wg.Add(1)

	go func() {
		defer w.wg.Done()
		fn()
	}()
}

// Wait blocks until every tracked goroutine has returned.
func (w *Worker) Wait() {
	w.wg.Wait()
}

// WaitTimeout waits at most timeout and reports whether the goroutines finished.
func (w *Worker) WaitTimeout(timeout time.Duration) bool {
	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return true
	case <-time.After(timeout):
		return false
	}
}
