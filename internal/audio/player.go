package audio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/mp3"
	"github.com/gopxl/beep/speaker"
	"github.com/gopxl/beep/wav"
	"github.com/hashicorp/go-retryablehttp"

	"github.com/spatail/vbdplayer/internal/config"
	"github.com/spatail/vbdplayer/internal/handlers"
	"github.com/spatail/vbdplayer/pkg/types"
)

var speakerInitialized = false
var speakerMutex sync.Mutex

var ErrUnsupportedFormat = errors.New("unsupported audio format")

// Player is the beep-backed PlaybackEngine. Events are published from its
// position ticker goroutine and from the end-of-track callback.
type Player struct {
	mu sync.Mutex

	cfg        *config.Config
	bus        *handlers.EventBus
	events     *eventPublisher
	httpClient *retryablehttp.Client
	sampleRate beep.SampleRate
	debug      bool

	currentURL string
	session    uint64
	streamer   beep.StreamSeekCloser
	format     beep.Format
	ctrl       *beep.Ctrl
	volume     *effects.Volume
	playing    bool

	ticker *time.Ticker
	done   chan struct{}
	closed sync.Once
}

var _ types.PlaybackEngine = (*Player)(nil)

func NewPlayer(cfg *config.Config, bus *handlers.EventBus) (*Player, error) {
	client := retryablehttp.NewClient()
	client.RetryMax = cfg.Site.Retries
	client.Logger = nil
	if cfg.Debug {
		client.Logger = &debugLogger{prefix: "[AUDIO_HTTP] "}
	}

	p := &Player{
		cfg:        cfg,
		bus:        bus,
		events:     &eventPublisher{bus: bus},
		httpClient: client,
		sampleRate: beep.SampleRate(cfg.Audio.SampleRate),
		debug:      cfg.Debug,
		done:       make(chan struct{}),
	}

	if err := p.initializeSpeaker(); err != nil {
		return nil, fmt.Errorf("failed to initialize speaker: %w", err)
	}

	p.ticker = time.NewTicker(cfg.PositionInterval())
	go p.positionUpdater()

	p.debugLog("Player initialized with sample rate %d", p.sampleRate)
	return p, nil
}

type debugLogger struct {
	prefix string
}

func (d *debugLogger) Printf(format string, args ...interface{}) {
	log.Printf(d.prefix+format, args...)
}

func (p *Player) debugLog(format string, args ...interface{}) {
	if p.debug {
		log.Printf("[AUDIO] "+format, args...)
	}
}

func (p *Player) initializeSpeaker() error {
	speakerMutex.Lock()
	defer speakerMutex.Unlock()

	if speakerInitialized {
		return nil
	}

	bufferSize := p.sampleRate.N(time.Second / 10)
	if err := speaker.Init(p.sampleRate, bufferSize); err != nil {
		return fmt.Errorf("speaker initialization failed: %w", err)
	}

	speakerInitialized = true
	return nil
}

func (p *Player) Subscribe(handler func(types.PlaybackEvent)) func() {
	return p.bus.Subscribe(handler)
}

// Play stops the current track and starts loading url in the background.
// Load failures are reported as an Error event.
func (p *Player) Play(ctx context.Context, url string) error {
	if url == "" {
		return fmt.Errorf("url cannot be empty")
	}

	p.mu.Lock()
	wasPlaying := p.stopInternal()
	p.session++
	session := p.session
	p.currentURL = url
	p.mu.Unlock()

	if wasPlaying {
		p.events.publish(types.PlaybackEvent{Kind: types.EventStopped})
	}

	go p.loadAndPlay(ctx, url, session)
	return nil
}

func (p *Player) loadAndPlay(ctx context.Context, url string, session uint64) {
	p.debugLog("Loading audio: %s", url)

	streamer, format, err := p.open(ctx, url)
	if err != nil {
		perr := &types.PlaybackError{URL: url, Err: err}
		log.Printf("[AUDIO] %v", perr)
		p.events.publish(types.PlaybackEvent{Kind: types.EventError, URL: url, Err: perr})
		return
	}

	// Started goes out before any position of the new track.
	p.events.locked(func(publish func(types.PlaybackEvent)) {
		if length, ok := p.start(url, session, streamer, format); ok {
			publish(types.PlaybackEvent{Kind: types.EventStarted, URL: url, Length: length})
		}
	})
}

func (p *Player) start(url string, session uint64, streamer beep.StreamSeekCloser, format beep.Format) (time.Duration, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.session != session {
		p.debugLog("Track changed during loading, aborting %s", url)
		streamer.Close()
		return 0, false
	}

	length := time.Duration(0)
	if n := streamer.Len(); n > 0 {
		length = format.SampleRate.D(n)
	}

	p.streamer = streamer
	p.format = format
	resampled := beep.Resample(4, format.SampleRate, p.sampleRate, streamer)
	p.ctrl = &beep.Ctrl{Streamer: resampled}
	p.volume = &effects.Volume{
		Streamer: p.ctrl,
		Base:     2,
		Volume:   (p.cfg.Audio.DefaultVolume - 1) * 5,
		Silent:   p.cfg.Audio.DefaultVolume == 0,
	}

	speaker.Clear()
	speaker.Play(beep.Seq(p.volume, beep.Callback(func() {
		// runs under the speaker lock
		go p.finished(session)
	})))
	p.playing = true

	p.debugLog("Started playback of %s, length %v", url, length)
	return length, true
}

func (p *Player) open(ctx context.Context, url string) (beep.StreamSeekCloser, beep.Format, error) {
	var reader io.ReadCloser
	var err error

	if strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://") {
		reader, err = downloadTrack(ctx, p.httpClient, url, p.cfg.Site.UserAgent, maxTrackSize)
	} else {
		reader, err = os.Open(strings.TrimPrefix(url, "file://"))
	}
	if err != nil {
		return nil, beep.Format{}, err
	}

	switch strings.ToLower(path.Ext(strings.SplitN(url, "?", 2)[0])) {
	case ".wav":
		streamer, format, err := wav.Decode(reader)
		if err != nil {
			reader.Close()
			return nil, beep.Format{}, fmt.Errorf("decode wav: %w", err)
		}
		return streamer, format, nil
	case ".mp3", "":
		streamer, format, err := mp3.Decode(reader)
		if err != nil {
			reader.Close()
			return nil, beep.Format{}, fmt.Errorf("decode mp3: %w", err)
		}
		return streamer, format, nil
	default:
		reader.Close()
		return nil, beep.Format{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path.Ext(url))
	}
}

func (p *Player) finished(session uint64) {
	p.mu.Lock()
	if p.session != session || !p.playing {
		p.mu.Unlock()
		return
	}
	url := p.currentURL
	p.stopInternal()
	p.mu.Unlock()

	p.debugLog("Playback finished: %s", url)
	p.events.publish(types.PlaybackEvent{Kind: types.EventFinished, URL: url})
}

// stopInternal must be called with p.mu held. It reports whether a track was
// playing.
func (p *Player) stopInternal() bool {
	wasPlaying := p.playing
	if p.playing {
		speaker.Clear()
	}

	if p.streamer != nil {
		if err := p.streamer.Close(); err != nil {
			p.debugLog("Error closing streamer: %v", err)
		}
		p.streamer = nil
	}

	p.ctrl = nil
	p.volume = nil
	p.playing = false
	return wasPlaying
}

func (p *Player) IsPlaying() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playing
}

func (p *Player) Stop() error {
	p.mu.Lock()
	wasPlaying := p.stopInternal()
	p.session++
	url := p.currentURL
	p.currentURL = ""
	p.mu.Unlock()

	if wasPlaying {
		p.debugLog("Stopped playback: %s", url)
		p.events.publish(types.PlaybackEvent{Kind: types.EventStopped, URL: url})
	}
	return nil
}

func (p *Player) Close() error {
	p.closed.Do(func() {
		close(p.done)
		p.ticker.Stop()
	})
	return p.Stop()
}

func (p *Player) positionUpdater() {
	for {
		select {
		case <-p.ticker.C:
			p.updatePosition()
		case <-p.done:
			return
		}
	}
}

func (p *Player) updatePosition() {
	p.mu.Lock()
	if !p.playing || p.streamer == nil {
		p.mu.Unlock()
		return
	}
	speaker.Lock()
	pos := p.format.SampleRate.D(p.streamer.Position())
	speaker.Unlock()
	url := p.currentURL
	session := p.session
	p.mu.Unlock()

	// drop the position if the track was stopped or replaced meanwhile
	p.events.publishIf(types.PlaybackEvent{Kind: types.EventTimeChanged, URL: url, Time: pos}, func() bool {
		p.mu.Lock()
		defer p.mu.Unlock()
		return p.playing && p.session == session
	})
}
