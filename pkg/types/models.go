package types

import (
	"errors"
	"fmt"
	"time"
)

// MediaItem is an album or song link scraped from the site.
type MediaItem struct {
	DisplayName string `json:"name"`
	ResourceURL string `json:"url"`
}

func NewMediaItem(name, url string) MediaItem {
	return MediaItem{DisplayName: name, ResourceURL: url}
}

func (m MediaItem) String() string {
	return m.DisplayName
}

// Image holds raw cover art bytes as downloaded.
type Image struct {
	Name string
	Data []byte
}

var ErrNoCover = errors.New("no cover art found")

// FetchError wraps a network or parse failure of a page fetch.
type FetchError struct {
	Op  string
	Key string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Key, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// PlaybackError is reported when the engine cannot open or decode a resource.
type PlaybackError struct {
	URL string
	Err error
}

func (e *PlaybackError) Error() string {
	return fmt.Sprintf("playback %s: %v", e.URL, e.Err)
}

func (e *PlaybackError) Unwrap() error {
	return e.Err
}

type EventKind int

const (
	EventStarted EventKind = iota
	EventTimeChanged
	EventStopped
	EventFinished
	EventError
)

func (k EventKind) String() string {
	switch k {
	case EventStarted:
		return "Started"
	case EventTimeChanged:
		return "TimeChanged"
	case EventStopped:
		return "Stopped"
	case EventFinished:
		return "Finished"
	case EventError:
		return "Error"
	default:
		return "Unknown"
	}
}

// PlaybackEvent is emitted by a PlaybackEngine on its own goroutine.
// Time is set for TimeChanged, Length for Started, Err for Error.
type PlaybackEvent struct {
	Kind   EventKind
	URL    string
	Time   time.Duration
	Length time.Duration
	Err    error
}

// Ends reports whether the event terminates the current stream.
func (e PlaybackEvent) Ends() bool {
	return e.Kind == EventStopped || e.Kind == EventFinished || e.Kind == EventError
}
