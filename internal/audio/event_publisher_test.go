package audio

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/spatail/vbdplayer/internal/handlers"
	"github.com/spatail/vbdplayer/pkg/types"
)

type kindRecorder struct {
	mu    sync.Mutex
	kinds []types.EventKind
}

func (r *kindRecorder) record(ev types.PlaybackEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.kinds = append(r.kinds, ev.Kind)
}

func (r *kindRecorder) get() []types.EventKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]types.EventKind(nil), r.kinds...)
}

func newRecordedPublisher() (*eventPublisher, *kindRecorder) {
	bus := handlers.NewEventBus()
	rec := &kindRecorder{}
	bus.Subscribe(rec.record)
	return &eventPublisher{bus: bus}, rec
}

func TestPublishIfDropsStalePosition(t *testing.T) {
	events, rec := newRecordedPublisher()

	ok := events.publishIf(types.PlaybackEvent{Kind: types.EventTimeChanged, Time: time.Second}, func() bool { return false })
	require.False(t, ok)
	require.Empty(t, rec.get())

	ok = events.publishIf(types.PlaybackEvent{Kind: types.EventTimeChanged, Time: time.Second}, func() bool { return true })
	require.True(t, ok)
	require.Equal(t, []types.EventKind{types.EventTimeChanged}, rec.get())
}

func TestStopCannotOvertakePositionCheck(t *testing.T) {
	events, rec := newRecordedPublisher()

	stopped := make(chan struct{})
	events.publishIf(types.PlaybackEvent{Kind: types.EventTimeChanged}, func() bool {
		// the track is stopped between the check and the publish
		go func() {
			defer close(stopped)
			events.publish(types.PlaybackEvent{Kind: types.EventStopped})
		}()
		time.Sleep(20 * time.Millisecond)
		return true
	})
	<-stopped

	require.Equal(t, []types.EventKind{types.EventTimeChanged, types.EventStopped}, rec.get())
}

func TestLockedPublishesBeforeWaitingEvents(t *testing.T) {
	events, rec := newRecordedPublisher()

	positioned := make(chan struct{})
	events.locked(func(publish func(types.PlaybackEvent)) {
		go func() {
			defer close(positioned)
			events.publishIf(types.PlaybackEvent{Kind: types.EventTimeChanged}, func() bool { return true })
		}()
		time.Sleep(20 * time.Millisecond)
		publish(types.PlaybackEvent{Kind: types.EventStarted})
	})
	<-positioned

	require.Equal(t, []types.EventKind{types.EventStarted, types.EventTimeChanged}, rec.get())
}
