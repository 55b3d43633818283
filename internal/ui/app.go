package ui

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/spatail/vbdplayer/internal/async"
	"github.com/spatail/vbdplayer/internal/audio"
	"github.com/spatail/vbdplayer/internal/config"
	"github.com/spatail/vbdplayer/internal/handlers"
	"github.com/spatail/vbdplayer/internal/media"
	"github.com/spatail/vbdplayer/internal/site"
	"github.com/spatail/vbdplayer/internal/ui/components"
	"github.com/spatail/vbdplayer/internal/ui/themes"
)

type App struct {
	fyneApp fyne.App
	window  fyne.Window
	ctx     context.Context
	cfg     *config.Config

	site       *site.Client
	covers     *media.CoverCache
	bus        *handlers.EventBus
	player     *audio.Player
	runner     *async.Runner
	controller *handlers.Controller
	tracker    *audio.ProgressTracker
	detach     func()

	albumList   *components.MediaList
	songList    *components.MediaList
	cover       *components.CoverImage
	playerBar   *components.PlayerBar
	filterEntry *widget.Entry
	statusBar   *widget.Label

	statusTimer *time.Timer
	closeOnce   sync.Once
}

func NewApp(ctx context.Context, fyneApp fyne.App, cfg *config.Config) (*App, error) {
	fyneApp.Settings().SetTheme(themes.NewTheme(cfg.UI.Theme))

	siteClient := site.NewClient(cfg)
	covers := media.NewCoverCache(siteClient, cfg.Cache.CoverEntries, cfg.Debug)

	bus := handlers.NewEventBus()
	player, err := audio.NewPlayer(cfg, bus)
	if err != nil {
		return nil, fmt.Errorf("initialize audio player: %w", err)
	}

	runner := async.NewRunner(ctx, fyne.Do, cfg.Debug)

	window := fyneApp.NewWindow("VBD Player")
	window.Resize(fyne.NewSize(float32(cfg.UI.WindowWidth), float32(cfg.UI.WindowHeight)))
	window.CenterOnScreen()

	app := &App{
		fyneApp: fyneApp,
		window:  window,
		ctx:     ctx,
		cfg:     cfg,
		site:    siteClient,
		covers:  covers,
		bus:     bus,
		player:  player,
		runner:  runner,
	}

	app.debugLog("VBD Player initializing...")

	app.controller = handlers.NewController(ctx, cfg, runner, fyne.Do, covers, player)
	app.setupUI()

	app.tracker = audio.NewProgressTracker(ctx, fyne.Do, app.playerBar,
		cfg.Progress.QueueCapacity, cfg.ThrottleInterval(), cfg.Debug)
	app.detach = app.tracker.Attach(player)

	app.controller.SetCoverView(app.cover)
	app.controller.SetOnPlaybackError(func(err error) {
		app.updateStatus(fmt.Sprintf("Could not play: %v", err))
	})

	app.setupKeyboardShortcuts()

	app.debugLog("VBD Player initialized successfully")
	return app, nil
}

func (a *App) debugLog(format string, args ...interface{}) {
	if a.cfg.Debug {
		log.Printf("[APP] "+format, args...)
	}
}

func (a *App) setupUI() {
	a.debugLog("Setting up UI components...")

	letters := components.NewLetterBar(a.cfg.UI.Letters, a.pressLetter)

	a.albumList = components.NewMediaList(a.controller.Albums, "No albums")
	a.songList = components.NewMediaList(a.controller.Songs, "No songs")
	a.cover = components.NewCoverImage(fyne.NewSize(200, 200), a.cfg.Debug)
	a.playerBar = components.NewPlayerBar(a.controller.Stop)

	a.filterEntry = widget.NewEntry()
	a.filterEntry.SetPlaceHolder("Filter albums...")
	a.filterEntry.OnChanged = a.controller.Filter

	a.statusBar = widget.NewLabel("Ready")

	albums := container.NewBorder(a.filterEntry, nil, nil, nil, a.albumList.Widget())
	details := container.NewBorder(a.cover.Widget(), nil, nil, nil, a.songList.Widget())
	lists := container.NewHSplit(albums, details)
	lists.SetOffset(0.55)

	bottom := container.NewVBox(a.playerBar.Container(), a.statusBar)

	a.window.SetContent(container.NewBorder(letters, bottom, nil, nil, lists))
	a.window.SetOnClosed(a.Close)

	a.debugLog("UI components setup complete")
}

func (a *App) setupKeyboardShortcuts() {
	a.window.Canvas().SetOnTypedKey(func(key *fyne.KeyEvent) {
		switch key.Name {
		case fyne.KeyEscape:
			a.controller.Stop()
			a.debugLog("Playback stopped via escape")
		case fyne.KeyF11:
			a.window.SetFullScreen(!a.window.FullScreen())
		}
	})
}

func (a *App) pressLetter(letter string) {
	a.filterEntry.SetText("")
	a.controller.PressLetter(letter)
	a.updateStatus(fmt.Sprintf("Loading %s...", site.PageForLetter(letter)))
}

// updateStatus must be called on the UI thread.
func (a *App) updateStatus(message string) {
	a.statusBar.SetText(message)

	if a.statusTimer != nil {
		a.statusTimer.Stop()
	}
	a.statusTimer = time.AfterFunc(5*time.Second, func() {
		fyne.Do(func() {
			a.statusBar.SetText("Ready")
		})
	})
}

func (a *App) ShowAndRun() {
	a.debugLog("Starting VBD Player window...")
	a.window.ShowAndRun()
}

// Close stops playback and releases the engine. It is safe to call more
// than once.
func (a *App) Close() {
	a.closeOnce.Do(func() {
		a.debugLog("Shutting down VBD Player...")

		if a.statusTimer != nil {
			a.statusTimer.Stop()
		}

		a.controller.Close()

		if err := a.player.Close(); err != nil {
			a.debugLog("Error closing audio player: %v", err)
		}

		a.runner.Close()
		if a.detach != nil {
			a.detach()
		}
		a.tracker.Close()

		requests, failures := a.site.Stats()
		a.debugLog("Site requests: %d, failures: %d, cached covers: %d", requests, failures, a.covers.Len())
		a.debugLog("VBD Player shutdown complete")
	})
}
