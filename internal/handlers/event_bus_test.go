package handlers

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spatail/vbdplayer/pkg/types"
)

func TestEventBusPublishesInSubscriptionOrder(t *testing.T) {
	bus := NewEventBus()
	var got []string

	bus.Subscribe(func(ev types.PlaybackEvent) { got = append(got, "first:"+ev.Kind.String()) })
	unsub := bus.Subscribe(func(ev types.PlaybackEvent) { got = append(got, "second:"+ev.Kind.String()) })
	bus.Subscribe(func(ev types.PlaybackEvent) { got = append(got, "third:"+ev.Kind.String()) })
	require.Equal(t, 3, bus.Len())

	bus.Publish(types.PlaybackEvent{Kind: types.EventStarted})
	unsub()
	unsub()
	bus.Publish(types.PlaybackEvent{Kind: types.EventFinished})

	require.Equal(t, 2, bus.Len())
	require.Equal(t, []string{
		"first:Started", "second:Started", "third:Started",
		"first:Finished", "third:Finished",
	}, got)
}

func TestEventBusHandlerMayUnsubscribeItself(t *testing.T) {
	bus := NewEventBus()
	calls := 0
	var unsub func()
	unsub = bus.Subscribe(func(types.PlaybackEvent) {
		calls++
		unsub()
	})

	bus.Publish(types.PlaybackEvent{Kind: types.EventTimeChanged})
	bus.Publish(types.PlaybackEvent{Kind: types.EventTimeChanged})
	require.Equal(t, 1, calls)
	require.Zero(t, bus.Len())
}
