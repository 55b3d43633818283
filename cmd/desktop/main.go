package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"

	"github.com/spatail/vbdplayer/internal/config"
	"github.com/spatail/vbdplayer/internal/ui"
)

var (
	configPath = flag.String("config", "", "Path to configuration file")
	debug      = flag.Bool("debug", false, "Enable debug mode - shows detailed logging for all components")
	Version    = "dev"
)

func main() {
	flag.Parse()

	if *debug {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
		log.Println("[MAIN] Debug mode enabled - all components will log detailed information")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("[MAIN] Failed to load config: %v", err)
	}

	if *debug {
		cfg.Debug = true
	}
	if cfg.Debug {
		log.Printf("[MAIN] VBD Player %s", Version)
		log.Printf("[MAIN] - Site Base URL: %s", cfg.Site.BaseURL)
		log.Printf("[MAIN] - Theme: %s", cfg.UI.Theme)
		log.Printf("[MAIN] - Window Size: %dx%d", cfg.UI.WindowWidth, cfg.UI.WindowHeight)
		log.Printf("[MAIN] - Progress: queue %d, throttle %v", cfg.Progress.QueueCapacity, cfg.ThrottleInterval())
		log.Printf("[MAIN] - Stale results: discard=%v, cancel=%v", cfg.Fetch.DiscardStale, cfg.Fetch.CancelSuperseded)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fyneApp := app.NewWithID("com.spatail.vbdplayer")

	vbdApp, err := ui.NewApp(ctx, fyneApp, cfg)
	if err != nil {
		log.Fatalf("[MAIN] Failed to create app: %v", err)
	}

	setupGracefulShutdown(cancel, fyneApp)
	vbdApp.ShowAndRun()
	vbdApp.Close()
}

// setupGracefulShutdown quits the UI loop on SIGINT or SIGTERM; main then
// releases the player.
func setupGracefulShutdown(cancel context.CancelFunc, fyneApp fyne.App) {
	go func() {
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)

		sig := <-c
		log.Printf("[MAIN] Received signal: %v", sig)
		log.Printf("[MAIN] Initiating graceful shutdown...")

		cancel()
		fyne.Do(fyneApp.Quit)
	}()
}
