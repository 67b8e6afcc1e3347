// SPDX-License-Identifier: MIT
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"visualizer/cmd"
	"visualizer/internal/app"
	"visualizer/internal/audio"
	"visualizer/internal/build"
	"visualizer/internal/config"
	applog "visualizer/internal/log"
	"visualizer/internal/render"
	"visualizer/internal/transport"
	"visualizer/internal/transport/udp"
	"visualizer/internal/tui"
)

// main is the entry point of the visualizer.
// The program flow is divided into three distinct phases:
//
// 1. Startup Phase (Cold Path):
//   - Initialize build information
//   - Parse command line arguments and load the configuration
//   - Execute one-off commands if requested
//
// 2. Concurrent Phase (Hot Path):
//   - Acquire the audio input
//   - Run the frame loop: analyse, animate, draw, publish
//
// 3. Shutdown Phase (Cold Path):
//   - Handle termination signals or the quit key
//   - Close sinks, renderer and audio input
func main() {
	// ==================== STARTUP PHASE (Cold Path) ====================

	if err := build.Initialize(); err != nil {
		log.Fatal(err)
	}

	// One thread for the audio callback, one for the frame loop and I/O.
	runtime.GOMAXPROCS(2)

	options, err := cmd.ParseArgs(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}
	if options.Command == "" {
		// help or version was printed
		return
	}

	cfg, err := config.LoadConfig(options.ConfigPath)
	if err != nil {
		log.Fatal(err)
	}
	options.Apply(cfg)
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}
	applog.SetLevel(cfg.Level())

	switch options.Command {
	case cmd.CommandList:
		if err := listDevices(); err != nil {
			log.Fatal(err)
		}
		return

	case cmd.CommandDevices:
		sel, ok, err := tui.PickDevice()
		if err != nil {
			log.Fatal(err)
		}
		if !ok {
			return
		}
		cfg.Audio.InputDevice = sel.DeviceID
		cfg.Audio.SampleRate = sel.SampleRate
		cfg.Audio.InputFile = ""
	}

	// ==================== CONCURRENT PHASE (Hot Path) ====================

	if err := run(cfg); err != nil {
		log.Fatal(err)
	}
}

func listDevices() error {
	if err := audio.Initialize(); err != nil {
		return err
	}
	defer audio.Terminate()
	return audio.ListDevices(os.Stdout)
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	source, err := audio.NewSource(cfg.Audio)
	if err != nil {
		return err
	}

	renderer, restoreLog, err := newRenderer(cfg)
	if err != nil {
		source.Close()
		return err
	}
	defer restoreLog()

	sinks, err := newSinks(cfg)
	if err != nil {
		closeAll(source, renderer, nil)
		return err
	}

	visualizer, err := app.New(cfg, source, renderer, sinks...)
	if err != nil {
		closeAll(source, renderer, sinks)
		return err
	}

	runErr := visualizer.Run(ctx)

	// ==================== SHUTDOWN PHASE (Cold Path) ====================

	if err := visualizer.Close(); err != nil {
		applog.Errorf("shutdown: %v", err)
	}
	return runErr
}

// newRenderer opens the terminal renderer unless running headless. The
// terminal owns the screen, so logging moves to the log file until the
// returned restore func runs.
func newRenderer(cfg *config.Config) (render.Renderer, func(), error) {
	if cfg.Render.Headless {
		return render.NewHeadless(), func() {}, nil
	}

	var out io.WriteCloser = nopCloser{io.Discard}
	if cfg.LogFile != "" {
		logFile, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		out = logFile
	}

	terminal, err := render.NewTerminal()
	if err != nil {
		out.Close()
		return nil, nil, err
	}

	applog.SetOutput(out)
	restore := func() {
		applog.SetOutput(os.Stderr)
		out.Close()
	}
	return terminal, restore, nil
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

func newSinks(cfg *config.Config) ([]transport.Transport, error) {
	var sinks []transport.Transport

	if cfg.Debug {
		sinks = append(sinks, transport.NewLoggingTransport())
	}

	if cfg.Transport.WebSocketEnabled {
		sinks = append(sinks, transport.NewWebSocketTransport(cfg.Transport.WebSocketAddress))
	}

	if cfg.Transport.UDPEnabled {
		sender, err := udp.NewUDPSender(cfg.Transport.UDPTargetAddress)
		if err != nil {
			closeSinks(sinks)
			return nil, err
		}
		publisher, err := udp.NewUDPPublisher(cfg.Transport.UDPSendInterval, sender)
		if err != nil {
			sender.Close()
			closeSinks(sinks)
			return nil, err
		}
		sinks = append(sinks, publisher)
	}

	return sinks, nil
}

func closeSinks(sinks []transport.Transport) {
	for _, s := range sinks {
		s.Close()
	}
}

// closeAll releases what run built before the app took ownership, sinks
// first and the source last.
func closeAll(source audio.Source, renderer render.Renderer, sinks []transport.Transport) {
	closeSinks(sinks)
	if renderer != nil {
		renderer.Close()
	}
	if source != nil {
		source.Close()
	}
}
