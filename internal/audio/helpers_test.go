package audio

import (
	"sync"
	"testing"
	"time"
)

// uiLoop runs posted closures one at a time on a single goroutine.
type uiLoop struct {
	fns  chan func()
	stop chan struct{}
	done chan struct{}
}

func newUILoop(t *testing.T) *uiLoop {
	t.Helper()
	l := &uiLoop{
		fns:  make(chan func(), 1024),
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	go func() {
		defer close(l.done)
		for {
			select {
			case fn := <-l.fns:
				fn()
			case <-l.stop:
				return
			}
		}
	}()
	t.Cleanup(func() {
		close(l.stop)
		<-l.done
	})
	return l
}

func (l *uiLoop) post(fn func()) {
	l.fns <- fn
}

// sync waits until everything posted so far has run.
func (l *uiLoop) sync(t *testing.T) {
	t.Helper()
	ch := make(chan struct{})
	l.post(func() { close(ch) })
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatal("ui loop stalled")
	}
}

type recorder struct {
	mu      sync.Mutex
	updates []Progress
}

func (r *recorder) publish(p Progress) {
	r.mu.Lock()
	r.updates = append(r.updates, p)
	r.mu.Unlock()
}

func (r *recorder) snapshot() []Progress {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Progress(nil), r.updates...)
}
