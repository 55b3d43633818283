package audio

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSampleQueueFIFO(t *testing.T) {
	q := NewSampleQueue(4)
	q.Offer(Sample(100))
	q.Offer(Sample(200))
	q.Offer(EndOfStream)

	ctx := context.Background()
	s, err := q.Take(ctx)
	require.NoError(t, err)
	require.Equal(t, int32(100), s.Millis())

	s, err = q.Take(ctx)
	require.NoError(t, err)
	require.Equal(t, 200*time.Millisecond, s.Elapsed())

	s, err = q.Take(ctx)
	require.NoError(t, err)
	require.True(t, s.IsEnd())
}

func TestSampleQueueOfferNeverBlocks(t *testing.T) {
	q := NewSampleQueue(DefaultQueueCapacity)

	done := make(chan struct{})
	go func() {
		defer close(done)
		// no consumer at all
		for i := 0; i < 10*DefaultQueueCapacity; i++ {
			q.Offer(Sample(int32(i * 100)))
		}
		q.Offer(EndOfStream)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Offer blocked on a full queue")
	}

	require.Equal(t, DefaultQueueCapacity, q.Len())
	require.Equal(t, uint64(9*DefaultQueueCapacity+1), q.Dropped())
}

func TestSampleQueueDropsOldestAndKeepsEndOfStream(t *testing.T) {
	q := NewSampleQueue(3)
	for i := 1; i <= 5; i++ {
		q.Offer(Sample(int32(i)))
	}
	require.True(t, q.Offer(EndOfStream), "a full queue evicts to admit the end marker")
	require.False(t, q.Offer(Sample(99)), "offers after the end marker are ignored")

	var got []PositionSample
	for q.Len() > 0 {
		s, err := q.Take(context.Background())
		require.NoError(t, err)
		got = append(got, s)
	}
	require.Equal(t, []PositionSample{Sample(4), Sample(5), EndOfStream}, got)
}

func TestSampleQueueTakeHonorsContext(t *testing.T) {
	q := NewSampleQueue(2)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := q.Take(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestSampleQueueTakeWakesOnOffer(t *testing.T) {
	q := NewSampleQueue(2)
	got := make(chan PositionSample, 1)
	go func() {
		s, err := q.Take(context.Background())
		if err == nil {
			got <- s
		}
	}()

	time.Sleep(10 * time.Millisecond)
	q.Offer(Sample(1500))

	select {
	case s := <-got:
		require.Equal(t, int32(1500), s.Millis())
	case <-time.After(time.Second):
		t.Fatal("Take did not wake up")
	}
}

func TestSampleQueueReset(t *testing.T) {
	q := NewSampleQueue(2)
	q.Offer(Sample(1))
	q.Offer(EndOfStream)
	require.True(t, q.Ended())

	q.Reset()
	require.False(t, q.Ended())
	require.Zero(t, q.Len())

	q.Offer(Sample(7))
	s, err := q.Take(context.Background())
	require.NoError(t, err)
	require.Equal(t, int32(7), s.Millis())
}
