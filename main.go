// framekit-demo drives the framekit application core from a terminal.
//
// It shows a slider, a click counter and a button that runs background
// work, all wired through the callback dispatcher, timer registry, task
// queue and resource cache.
//
// Usage:
//
//	framekit-demo [flags]
//
// Flags:
//
//	-config string    Path to configuration file (TOML, or YAML by extension)
//	-preset string    Frame rate preset (smooth|balanced|lowpower)
//	-headless         Run the frame loop without a terminal UI
//	-frames int       Frames to run in headless mode (0 = until interrupted)
//	-verbose          Enable verbose logging
//	-version          Print version and exit
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"

	"gitlab.com/tinyland/lab/framekit/pkg/app"
	"gitlab.com/tinyland/lab/framekit/pkg/clipboard"
	"gitlab.com/tinyland/lab/framekit/pkg/config"
	"gitlab.com/tinyland/lab/framekit/pkg/term"
)

var (
	version = "0.1.0"
	commit  = "dev"
	date    = "unknown"
)

func main() {
	var (
		configPath  = flag.String("config", "", "Path to configuration file")
		preset      = flag.String("preset", "", "Frame rate preset (smooth|balanced|lowpower)")
		headless    = flag.Bool("headless", false, "Run the frame loop without a terminal UI")
		frames      = flag.Int("frames", 0, "Frames to run in headless mode (0 = until interrupted)")
		verbose     = flag.Bool("verbose", false, "Enable verbose logging")
		showVersion = flag.Bool("version", false, "Print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("framekit-demo %s (%s) built %s\n", version, commit, date)
		os.Exit(0)
	}

	var (
		cfg *config.Config
		err error
	)
	if *configPath != "" {
		cfg, err = config.LoadFromFile(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *preset != "" {
		cfg.Frame = config.FramePreset(*preset)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	// Without a terminal there is nothing to draw on.
	interactive := !*headless && (isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()))

	logLevel := cfg.LogLevel()
	if *verbose {
		logLevel = slog.LevelDebug
	}

	// The TUI owns the screen, so it only logs to the file.
	var sinks []io.Writer
	if !interactive {
		sinks = append(sinks, os.Stderr)
	}
	if cfg.Log.File != "" {
		logFile, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to open log file: %v\n", err)
			os.Exit(1)
		}
		defer logFile.Close()
		sinks = append(sinks, logFile)
	}
	out := io.Discard
	if len(sinks) > 0 {
		out = io.MultiWriter(sinks...)
	}
	logger := slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{
		Level: logLevel,
	}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("received shutdown signal")
		cancel()
	}()

	var notifier term.Notifier
	appOpts := []app.Option{
		app.WithLogger(logger),
		app.WithNotify(notifier.Notify),
	}
	if interactive {
		// stdout belongs to the renderer; stderr reaches the same terminal.
		appOpts = append(appOpts, app.WithClipboard(clipboard.Detect(os.Stderr)))
	}
	a, err := app.New(newDemo(), cfg, appOpts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	defer a.Close()
	setupDemo(a, logger)

	if !interactive {
		logger.Info("running headless", "tick", cfg.Frame.TickInterval.Duration, "frames", *frames)
		err := term.Headless(ctx, a, renderPlain, os.Stdout, cfg.Frame.TickInterval.Duration, *frames)
		if err != nil && err != context.Canceled {
			logger.Error("headless run failed", "error", err)
			os.Exit(1)
		}
		return
	}

	model := term.New(a, renderDemo,
		term.WithTickInterval(cfg.Frame.TickInterval.Duration),
		term.WithLogger(logger),
		term.WithTitle("framekit"),
		term.WithQuitKeys("q", "esc"),
	)
	defer model.Close()

	p := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
		tea.WithContext(ctx),
	)
	notifier.Attach(p)
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		logger.Error("TUI error", "error", err)
		os.Exit(1)
	}
}
