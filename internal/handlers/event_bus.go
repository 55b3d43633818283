package handlers

import (
	"sync"

	"github.com/spatail/vbdplayer/pkg/types"
)

// EventBus fans playback events out to subscribers. Publish runs handlers
// synchronously on the caller's goroutine, in subscription order, so
// TimeChanged events are observed in the order the engine produced them.
type EventBus struct {
	subscribers map[uint64]EventHandler
	order       []uint64
	nextID      uint64
	mutex       sync.RWMutex
}

type EventHandler func(ev types.PlaybackEvent)

func NewEventBus() *EventBus {
	return &EventBus{
		subscribers: make(map[uint64]EventHandler),
	}
}

func (bus *EventBus) Subscribe(handler EventHandler) (unsubscribe func()) {
	bus.mutex.Lock()
	defer bus.mutex.Unlock()

	bus.nextID++
	id := bus.nextID
	bus.subscribers[id] = handler
	bus.order = append(bus.order, id)

	var once sync.Once
	return func() {
		once.Do(func() { bus.unsubscribe(id) })
	}
}

func (bus *EventBus) unsubscribe(id uint64) {
	bus.mutex.Lock()
	defer bus.mutex.Unlock()

	delete(bus.subscribers, id)
	for i, cur := range bus.order {
		if cur == id {
			bus.order = append(bus.order[:i:i], bus.order[i+1:]...)
			break
		}
	}
}

func (bus *EventBus) Publish(ev types.PlaybackEvent) {
	bus.mutex.RLock()
	handlers := make([]EventHandler, 0, len(bus.order))
	for _, id := range bus.order {
		handlers = append(handlers, bus.subscribers[id])
	}
	bus.mutex.RUnlock()

	for _, handler := range handlers {
		handler(ev)
	}
}

func (bus *EventBus) Len() int {
	bus.mutex.RLock()
	defer bus.mutex.RUnlock()
	return len(bus.order)
}
