package audio

import (
	"sync"

	"github.com/spatail/vbdplayer/internal/handlers"
	"github.com/spatail/vbdplayer/pkg/types"
)

// eventPublisher serializes engine events so a check of the player's state
// and the publish that depends on it cannot be split by another event.
// Subscribers must not call back into the player synchronously.
type eventPublisher struct {
	mu  sync.Mutex
	bus *handlers.EventBus
}

func (e *eventPublisher) publish(ev types.PlaybackEvent) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.bus.Publish(ev)
}

// publishIf publishes ev only when current still reports true.
func (e *eventPublisher) publishIf(ev types.PlaybackEvent, current func() bool) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !current() {
		return false
	}
	e.bus.Publish(ev)
	return true
}

// locked runs fn with other events blocked. fn publishes through the
// function it is given.
func (e *eventPublisher) locked(fn func(publish func(types.PlaybackEvent))) {
	e.mu.Lock()
	defer e.mu.Unlock()
	fn(e.bus.Publish)
}
