package types

import (
	"context"
)

// PageFetcher turns site pages into media metadata. Implementations perform
// network I/O and never touch UI state.
type PageFetcher interface {
	Albums(ctx context.Context, page string) ([]MediaItem, error)
	Songs(ctx context.Context, albumURL string) ([]MediaItem, error)
	Cover(ctx context.Context, albumURL string) (*Image, error)
	ResolveStream(ctx context.Context, songURL string) (string, error)
}

// PlaybackEngine is the native player backend. Events are delivered on a
// goroutine owned by the engine.
type PlaybackEngine interface {
	Play(ctx context.Context, url string) error
	Stop() error
	IsPlaying() bool
	Subscribe(handler func(PlaybackEvent)) (unsubscribe func())
}
