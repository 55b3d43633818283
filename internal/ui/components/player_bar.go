package components

import (
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/spatail/vbdplayer/internal/audio"
)

// PlayerBar holds the Stop button and the timeline. The timeline paints the
// remaining-time countdown as its text.
type PlayerBar struct {
	container *fyne.Container
	stopBtn   *widget.Button
	timeline  *widget.ProgressBar

	remaining string
}

var _ audio.ProgressView = (*PlayerBar)(nil)

func NewPlayerBar(onStop func()) *PlayerBar {
	pb := &PlayerBar{remaining: audio.ZeroDisplay}

	pb.stopBtn = widget.NewButtonWithIcon("Stop", theme.MediaStopIcon(), onStop)

	pb.timeline = widget.NewProgressBar()
	pb.timeline.Min = 0
	pb.timeline.Max = 1
	pb.timeline.TextFormatter = func() string {
		return pb.remaining
	}

	pb.container = container.NewBorder(nil, nil, pb.stopBtn, nil, pb.timeline)
	return pb
}

func (pb *PlayerBar) Container() *fyne.Container {
	return pb.container
}

func (pb *PlayerBar) SetLength(d time.Duration) {
	max := d.Seconds()
	if max <= 0 {
		max = 1
	}
	pb.timeline.Max = max
	pb.timeline.Refresh()
}

func (pb *PlayerBar) SetProgress(d time.Duration) {
	pb.timeline.SetValue(d.Seconds())
}

func (pb *PlayerBar) SetRemaining(display string) {
	pb.remaining = display
	pb.timeline.Refresh()
}

// Remaining returns the countdown text currently shown.
func (pb *PlayerBar) Remaining() string {
	return pb.remaining
}
