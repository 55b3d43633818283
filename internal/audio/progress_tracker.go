package audio

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/spatail/vbdplayer/internal/async"
	"github.com/spatail/vbdplayer/pkg/types"
)

// ProgressView is the progress display. All calls arrive on the UI thread.
type ProgressView interface {
	SetLength(d time.Duration)
	SetProgress(d time.Duration)
	SetRemaining(display string)
}

// ProgressTracker feeds engine time events through a SampleQueue and a
// Coalescer into a ProgressView. Each Started event opens a new session.
type ProgressTracker struct {
	ctx      context.Context
	post     async.PostFunc
	view     ProgressView
	capacity int
	interval time.Duration
	debug    bool

	mu      sync.Mutex
	gen     uint64
	current *progressSession
	wg      sync.WaitGroup

	// UI thread only
	uiGen  uint64
	length time.Duration
}

type progressSession struct {
	gen       uint64
	queue     *SampleQueue
	coalescer *Coalescer
}

func NewProgressTracker(ctx context.Context, post async.PostFunc, view ProgressView, capacity int, interval time.Duration, debug bool) *ProgressTracker {
	return &ProgressTracker{
		ctx:       ctx,
		post:      post,
		view:      view,
		capacity:  capacity,
		interval:  interval,
		debug:     debug,
	}
}

// Attach subscribes the tracker to engine events.
func (pt *ProgressTracker) Attach(engine types.PlaybackEngine) (detach func()) {
	return engine.Subscribe(pt.HandleEvent)
}

// HandleEvent runs on the engine's callback goroutine and never blocks.
func (pt *ProgressTracker) HandleEvent(ev types.PlaybackEvent) {
	switch {
	case ev.Kind == types.EventStarted:
		pt.startSession(ev.Length)
	case ev.Kind == types.EventTimeChanged:
		pt.mu.Lock()
		sess := pt.current
		pt.mu.Unlock()
		if sess != nil {
			sess.queue.Offer(SampleAt(ev.Time))
		}
	case ev.Ends():
		pt.mu.Lock()
		sess := pt.current
		pt.current = nil
		pt.mu.Unlock()
		if sess != nil {
			sess.queue.Offer(EndOfStream)
		}
	}
}

func (pt *ProgressTracker) startSession(length time.Duration) {
	pt.mu.Lock()
	if pt.current != nil {
		pt.current.queue.Offer(EndOfStream)
	}
	pt.gen++
	gen := pt.gen
	queue := NewSampleQueue(pt.capacity)
	sess := &progressSession{
		gen:   gen,
		queue: queue,
		coalescer: NewCoalescer(queue, pt.interval, pt.post, func(p Progress) {
			pt.apply(gen, p)
		}, pt.debug),
	}
	pt.current = sess
	pt.mu.Unlock()

	if pt.debug {
		log.Printf("[PROGRESS] Session %d started, length %v", gen, length)
	}

	pt.post(func() {
		pt.uiGen = gen
		pt.length = length
		pt.view.SetLength(length)
		pt.view.SetProgress(0)
		pt.view.SetRemaining(TrackLength(length))
	})

	pt.wg.Add(1)
	go func() {
		defer pt.wg.Done()
		if err := sess.coalescer.Run(pt.ctx); err != nil && pt.debug {
			log.Printf("[PROGRESS] Session %d stopped: %v", gen, err)
		}
	}()
}

// apply runs on the UI thread. Updates from superseded sessions are ignored.
func (pt *ProgressTracker) apply(gen uint64, p Progress) {
	if gen != pt.uiGen {
		return
	}
	if p.Reset {
		pt.view.SetProgress(0)
		pt.view.SetRemaining(ZeroDisplay)
		return
	}

	// always from the track length, the display only holds whole seconds
	remaining, err := Countdown(TrackLength(pt.length), p.Elapsed)
	if err != nil {
		log.Printf("[PROGRESS] Failed to update countdown: %v", err)
	} else {
		pt.view.SetRemaining(remaining)
	}
	pt.view.SetProgress(p.Elapsed)
}

// Close ends the active session and waits for its coalescer to exit.
func (pt *ProgressTracker) Close() {
	pt.mu.Lock()
	sess := pt.current
	pt.current = nil
	pt.mu.Unlock()
	if sess != nil {
		sess.queue.Offer(EndOfStream)
	}
	pt.wg.Wait()
}
