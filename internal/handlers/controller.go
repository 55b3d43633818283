package handlers

import (
	"context"
	"errors"
	"log"

	"github.com/spatail/vbdplayer/internal/async"
	"github.com/spatail/vbdplayer/internal/config"
	"github.com/spatail/vbdplayer/internal/listmodel"
	"github.com/spatail/vbdplayer/internal/search"
	"github.com/spatail/vbdplayer/internal/site"
	"github.com/spatail/vbdplayer/pkg/types"
)

// CoverView shows album art. A nil image means the album has none.
type CoverView interface {
	ShowCover(img *types.Image)
}

// Controller connects the letter bar, the album and song lists and the
// playback engine. Every exported method must be called on the UI thread.
type Controller struct {
	ctx     context.Context
	runner  *async.Runner
	post    async.PostFunc
	fetcher types.PageFetcher
	engine  types.PlaybackEngine
	filter  *search.Engine
	debug   bool

	Albums *listmodel.Model[types.MediaItem]
	Songs  *listmodel.Model[types.MediaItem]

	albumLane  *async.Lane
	songLane   *async.Lane
	coverLane  *async.Lane
	streamLane *async.Lane

	populateAlbums func([]types.MediaItem)
	populateSongs  func([]types.MediaItem)

	cover           CoverView
	onPlaybackError func(error)
	unsubscribe     func()

	allAlbums []types.MediaItem
	query     string
}

func NewController(ctx context.Context, cfg *config.Config, runner *async.Runner, post async.PostFunc,
	fetcher types.PageFetcher, engine types.PlaybackEngine) *Controller {

	policy := async.LastCompletedWins
	if cfg.Fetch.DiscardStale {
		policy = async.LatestIssuedWins
	}
	var opts []async.LaneOption
	if cfg.Fetch.CancelSuperseded {
		opts = append(opts, async.CancelSuperseded())
	}

	c := &Controller{
		ctx:        ctx,
		runner:     runner,
		post:       post,
		fetcher:    fetcher,
		engine:     engine,
		filter:     search.NewEngine(cfg),
		debug:      cfg.Debug,
		Albums:     listmodel.New[types.MediaItem](),
		Songs:      listmodel.New[types.MediaItem](),
		albumLane:  async.NewLane("albums", policy, opts...),
		songLane:   async.NewLane("songs", policy, opts...),
		coverLane:  async.NewLane("cover", policy, opts...),
		streamLane: async.NewLane("stream", policy, opts...),
	}

	c.populateAlbums = listmodel.Protect(c.Albums, nil)
	c.populateSongs = listmodel.Protect(c.Songs, nil)

	c.Albums.AddListener(listmodel.NewListener("populateSongs", c.albumSelected))
	c.Songs.AddListener(listmodel.NewListener("playSelectedSong", c.songSelected))

	c.unsubscribe = engine.Subscribe(c.handlePlaybackEvent)

	c.debugLog("Controller ready - stale policy: %s", policy)
	return c
}

func (c *Controller) debugLog(format string, args ...interface{}) {
	if c.debug {
		log.Printf("[CONTROLLER] "+format, args...)
	}
}

func (c *Controller) SetCoverView(v CoverView) {
	c.cover = v
}

// SetOnPlaybackError registers fn to be called on the UI thread when the
// engine cannot play a track.
func (c *Controller) SetOnPlaybackError(fn func(error)) {
	c.onPlaybackError = fn
}

// PressLetter loads the album index page for letter.
func (c *Controller) PressLetter(letter string) *async.Handle {
	page := site.PageForLetter(letter)
	c.debugLog("Pressed %s, loading %s", letter, page)

	return async.Submit(c.runner, async.Request[[]types.MediaItem]{
		Key:   page,
		Fetch: c.fetcher.Albums,
		OnComplete: func(albums []types.MediaItem) {
			c.allAlbums = albums
			c.populateAlbums(c.filter.Filter(albums, c.query))
		},
		Lane: c.albumLane,
	})
}

// Filter narrows the album list to names matching query. The selection is
// cleared without loading songs.
func (c *Controller) Filter(query string) {
	if query == c.query {
		return
	}
	c.query = query
	c.populateAlbums(c.filter.Filter(c.allAlbums, query))
}

// Stop halts playback if a track is playing.
func (c *Controller) Stop() {
	if !c.engine.IsPlaying() {
		return
	}
	if err := c.engine.Stop(); err != nil {
		log.Printf("[CONTROLLER] Failed to stop playback: %v", err)
	}
}

// Close detaches from the engine. Pending fetches are owned by the runner.
func (c *Controller) Close() {
	if c.unsubscribe != nil {
		c.unsubscribe()
		c.unsubscribe = nil
	}
}

func (c *Controller) albumSelected(ev listmodel.SelectionEvent[types.MediaItem]) {
	if !ev.Selected() {
		return
	}
	album := ev.Item
	c.debugLog("Selected album: %s", album)

	async.Submit(c.runner, async.Request[[]types.MediaItem]{
		Key:        album.ResourceURL,
		Fetch:      c.fetcher.Songs,
		OnComplete: c.populateSongs,
		Lane:       c.songLane,
	})

	async.Submit(c.runner, async.Request[*types.Image]{
		Key:   album.ResourceURL,
		Fetch: c.fetchCover,
		OnComplete: func(img *types.Image) {
			if c.cover != nil {
				c.cover.ShowCover(img)
			}
		},
		Lane: c.coverLane,
	})
}

func (c *Controller) fetchCover(ctx context.Context, albumURL string) (*types.Image, error) {
	img, err := c.fetcher.Cover(ctx, albumURL)
	if errors.Is(err, types.ErrNoCover) {
		c.debugLog("No cover for %s", albumURL)
		return nil, nil
	}
	return img, err
}

func (c *Controller) songSelected(ev listmodel.SelectionEvent[types.MediaItem]) {
	if !ev.Selected() {
		return
	}
	song := ev.Item
	c.debugLog("Selected song: %s", song)

	c.Stop()

	async.Submit(c.runner, async.Request[string]{
		Key:   song.ResourceURL,
		Fetch: c.fetcher.ResolveStream,
		OnComplete: func(stream string) {
			if err := c.engine.Play(c.ctx, stream); err != nil {
				log.Printf("[CONTROLLER] Could not play song %s: %v", song.ResourceURL, err)
				c.reportPlaybackError(&types.PlaybackError{URL: stream, Err: err})
			}
		},
		Lane: c.streamLane,
	})
}

// handlePlaybackEvent runs on the engine's goroutine.
func (c *Controller) handlePlaybackEvent(ev types.PlaybackEvent) {
	if ev.Kind != types.EventError {
		return
	}
	log.Printf("[CONTROLLER] Playback failed: %v", ev.Err)
	err := ev.Err
	c.post(func() {
		c.reportPlaybackError(err)
	})
}

func (c *Controller) reportPlaybackError(err error) {
	if c.onPlaybackError != nil {
		c.onPlaybackError(err)
	}
}
