package audio

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/spatail/vbdplayer/internal/async"
)

const DefaultThrottleInterval = time.Second

type State int

const (
	StateIdle State = iota
	StateStreaming
	StateDraining
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateStreaming:
		return "Streaming"
	case StateDraining:
		return "Draining"
	default:
		return "Unknown"
	}
}

// Progress is one coalesced update. Reset is set for the terminal update
// published when the stream ends.
type Progress struct {
	Elapsed time.Duration
	Reset   bool
}

// Coalescer drains a SampleQueue and publishes at most one position per
// throttle interval onto the UI thread.
type Coalescer struct {
	queue    *SampleQueue
	interval time.Duration
	post     async.PostFunc
	publish  func(Progress)
	debug    bool

	mu            sync.RWMutex
	state         State
	lastPublished time.Duration
	published     int
	discarded     int
}

func NewCoalescer(queue *SampleQueue, interval time.Duration, post async.PostFunc, publish func(Progress), debug bool) *Coalescer {
	if interval <= 0 {
		interval = DefaultThrottleInterval
	}
	return &Coalescer{
		queue:    queue,
		interval: interval,
		post:     post,
		publish:  publish,
		debug:    debug,
	}
}

func (c *Coalescer) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Stats returns how many positions were published and discarded.
func (c *Coalescer) Stats() (published, discarded int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.published, c.discarded
}

// Run consumes samples until EndOfStream or ctx is done. Either way the
// terminal reset is published before Run returns.
func (c *Coalescer) Run(ctx context.Context) error {
	c.mu.Lock()
	if c.state != StateIdle {
		c.mu.Unlock()
		return fmt.Errorf("coalescer already %s", c.state)
	}
	c.state = StateStreaming
	c.lastPublished = 0
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.state = StateIdle
		c.mu.Unlock()
	}()

	for {
		sample, err := c.queue.Take(ctx)
		if err != nil {
			c.drain()
			return err
		}
		if sample.IsEnd() {
			c.drain()
			return nil
		}
		c.consider(sample.Elapsed())
	}
}

func (c *Coalescer) consider(elapsed time.Duration) {
	c.mu.Lock()
	delta := elapsed - c.lastPublished
	if delta < 0 {
		delta = -delta
	}
	if delta < c.interval {
		c.discarded++
		c.mu.Unlock()
		return
	}
	c.lastPublished = elapsed
	c.published++
	c.mu.Unlock()

	c.emit(Progress{Elapsed: elapsed})
}

func (c *Coalescer) drain() {
	c.mu.Lock()
	c.state = StateDraining
	published, discarded := c.published, c.discarded
	c.mu.Unlock()

	if c.debug {
		log.Printf("[PROGRESS] Stream ended - published: %d, discarded: %d, dropped: %d",
			published, discarded, c.queue.Dropped())
	}
	c.emit(Progress{Reset: true})
}

func (c *Coalescer) emit(p Progress) {
	if c.publish == nil {
		return
	}
	c.post(func() {
		c.publish(p)
	})
}
