package audio

import (
	"context"
	"sync"
	"time"
)

// PositionSample is either an elapsed playback time or the end-of-stream
// marker that stops the consumer.
type PositionSample struct {
	ms  int32
	end bool
}

func Sample(ms int32) PositionSample {
	return PositionSample{ms: ms}
}

func SampleAt(d time.Duration) PositionSample {
	return PositionSample{ms: int32(d / time.Millisecond)}
}

var EndOfStream = PositionSample{end: true}

func (s PositionSample) IsEnd() bool {
	return s.end
}

func (s PositionSample) Millis() int32 {
	return s.ms
}

func (s PositionSample) Elapsed() time.Duration {
	return time.Duration(s.ms) * time.Millisecond
}

const DefaultQueueCapacity = 30

// SampleQueue is a fixed-capacity FIFO between the engine's callback
// goroutine and the coalescer. Offer never blocks: when the buffer is full
// the oldest entry is evicted, so EndOfStream is always accepted. Once
// EndOfStream is queued further offers are ignored until Reset.
type SampleQueue struct {
	mu      sync.Mutex
	buf     []PositionSample
	head    int
	size    int
	dropped uint64
	ended   bool
	wake    chan struct{}
}

func NewSampleQueue(capacity int) *SampleQueue {
	if capacity <= 0 {
		capacity = DefaultQueueCapacity
	}
	return &SampleQueue{
		buf:  make([]PositionSample, capacity),
		wake: make(chan struct{}, 1),
	}
}

// Offer enqueues s and reports whether an older entry had to be dropped.
func (q *SampleQueue) Offer(s PositionSample) (dropped bool) {
	q.mu.Lock()
	if q.ended {
		q.mu.Unlock()
		return false
	}
	q.ended = s.end
	if q.size == len(q.buf) {
		q.head = (q.head + 1) % len(q.buf)
		q.size--
		q.dropped++
		dropped = true
	}
	q.buf[(q.head+q.size)%len(q.buf)] = s
	q.size++
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
	return dropped
}

// Take blocks until a sample is available or ctx is done.
func (q *SampleQueue) Take(ctx context.Context) (PositionSample, error) {
	for {
		if s, ok := q.poll(); ok {
			return s, nil
		}
		select {
		case <-q.wake:
		case <-ctx.Done():
			return PositionSample{}, ctx.Err()
		}
	}
}

func (q *SampleQueue) poll() (PositionSample, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.size == 0 {
		return PositionSample{}, false
	}
	s := q.buf[q.head]
	q.head = (q.head + 1) % len(q.buf)
	q.size--
	return s, true
}

// Reset empties the queue and accepts samples again.
func (q *SampleQueue) Reset() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.head = 0
	q.size = 0
	q.ended = false
	select {
	case <-q.wake:
	default:
	}
}

// Ended reports whether EndOfStream has been offered since the last Reset.
func (q *SampleQueue) Ended() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.ended
}

func (q *SampleQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.size
}

func (q *SampleQueue) Cap() int {
	return len(q.buf)
}

// Dropped returns how many samples were evicted to make room.
func (q *SampleQueue) Dropped() uint64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.dropped
}
