// Package async runs blocking fetches off the UI thread and hands their
// results back to it exactly once.
package async

import (
	"context"
	"fmt"
	"log"
	"sync"
)

// PostFunc schedules fn on the UI thread. fyne.Do satisfies it.
type PostFunc func(fn func())

// Request describes one fetch. Fetch runs on a worker goroutine; OnComplete
// runs on the UI thread with Fetch's result. Lane is optional.
type Request[T any] struct {
	Key        string
	Fetch      func(ctx context.Context, key string) (T, error)
	OnComplete func(T)
	Lane       *Lane
}

type Runner struct {
	ctx    context.Context
	cancel context.CancelFunc
	post   PostFunc
	wg     sync.WaitGroup
	debug  bool
}

func NewRunner(ctx context.Context, post PostFunc, debug bool) *Runner {
	ctx, cancel := context.WithCancel(ctx)
	return &Runner{
		ctx:    ctx,
		cancel: cancel,
		post:   post,
		debug:  debug,
	}
}

func (r *Runner) debugLog(format string, args ...interface{}) {
	if r.debug {
		log.Printf("[ASYNC] "+format, args...)
	}
}

// Wait blocks until every fetch worker has returned. Deliveries may still be
// pending on the UI thread.
func (r *Runner) Wait() {
	r.wg.Wait()
}

// Close cancels in-flight fetches and waits for their workers to exit.
func (r *Runner) Close() {
	r.cancel()
	r.wg.Wait()
}

// Submit starts req.Fetch immediately on a new goroutine. Failures are
// logged and never reach OnComplete.
func Submit[T any](r *Runner, req Request[T]) *Handle {
	ctx, cancel := context.WithCancel(r.ctx)
	h := &Handle{
		key:    req.Key,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	if req.Lane != nil {
		req.Lane.issue(h)
	}

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer cancel()

		value, err := runFetch(ctx, req)
		if err != nil {
			if h.Cancelled() {
				r.debugLog("Fetch %q cancelled: %v", req.Key, err)
			} else {
				log.Printf("[ASYNC] Fetch %q failed: %v", req.Key, err)
			}
			h.settle()
			return
		}

		r.post(func() {
			defer h.settle()
			if h.Cancelled() {
				r.debugLog("Dropping result for %q: cancelled", req.Key)
				return
			}
			if req.Lane != nil && !req.Lane.accepts(h) {
				r.debugLog("Dropping stale result for %q on lane %s (seq %d)", req.Key, req.Lane.name, h.seq)
				return
			}
			if req.OnComplete != nil {
				req.OnComplete(value)
			}
			h.delivered = true
		})
	}()

	return h
}

func runFetch[T any](ctx context.Context, req Request[T]) (value T, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("fetch panicked: %v", p)
		}
	}()
	if req.Fetch == nil {
		return value, fmt.Errorf("no fetch function for %q", req.Key)
	}
	return req.Fetch(ctx, req.Key)
}

// Handle tracks one submitted task.
type Handle struct {
	key       string
	seq       uint64
	cancel    context.CancelFunc
	done      chan struct{}
	settleOne sync.Once

	mu        sync.Mutex
	cancelled bool

	// written on the UI thread before done is closed
	delivered bool
}

// Cancel aborts the fetch and suppresses delivery if it has not happened yet.
func (h *Handle) Cancel() {
	h.mu.Lock()
	h.cancelled = true
	h.mu.Unlock()
	h.cancel()
}

func (h *Handle) Cancelled() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.cancelled
}

// Done is closed once the task has been delivered, discarded or has failed.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Delivered reports whether OnComplete ran. Only meaningful after Done.
func (h *Handle) Delivered() bool {
	<-h.done
	return h.delivered
}

func (h *Handle) Key() string {
	return h.key
}

func (h *Handle) Seq() uint64 {
	return h.seq
}

func (h *Handle) settle() {
	h.settleOne.Do(func() {
		close(h.done)
	})
}
