package components

import (
	"testing"
	"time"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/require"

	"github.com/spatail/vbdplayer/internal/audio"
)

func TestPlayerBarShowsCountdown(t *testing.T) {
	test.NewApp()

	stopped := 0
	pb := NewPlayerBar(func() { stopped++ })
	require.Equal(t, audio.ZeroDisplay, pb.timeline.TextFormatter())

	pb.SetLength(3 * time.Minute)
	pb.SetProgress(30 * time.Second)
	pb.SetRemaining("-02:30")

	require.Equal(t, 180.0, pb.timeline.Max)
	require.Equal(t, 30.0, pb.timeline.Value)
	require.Equal(t, "-02:30", pb.timeline.TextFormatter())

	test.Tap(pb.stopBtn)
	require.Equal(t, 1, stopped)
}

func TestPlayerBarZeroLength(t *testing.T) {
	test.NewApp()

	pb := NewPlayerBar(func() {})
	pb.SetLength(0)
	require.Equal(t, 1.0, pb.timeline.Max)
}
