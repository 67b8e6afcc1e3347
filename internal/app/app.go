// SPDX-License-Identifier: MIT

// Package app owns the frame loop: one audio source, one renderer and any
// number of transport sinks, advanced together one frame at a time.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"visualizer/internal/analysis"
	"visualizer/internal/audio"
	"visualizer/internal/config"
	"visualizer/internal/log"
	"visualizer/internal/render"
	"visualizer/internal/scene"
	"visualizer/internal/transport"
)

// App is the single context object of a visualizer run.
type App struct {
	cfg      *config.Config
	source   audio.Source
	renderer render.Renderer
	sinks    []transport.Transport

	objects *scene.Set
	camera  scene.Camera
	light   scene.Light

	seq  uint64
	last render.Frame

	startOnce sync.Once
	startErr  error
	closeOnce sync.Once
	log       *log.Logger
}

// New builds the context. Nothing is started until Start or Run.
func New(cfg *config.Config, source audio.Source, renderer render.Renderer, sinks ...transport.Transport) (*App, error) {
	if cfg == nil {
		return nil, errors.New("app: config is required")
	}
	if source == nil {
		return nil, errors.New("app: audio source is required")
	}
	if renderer == nil {
		return nil, errors.New("app: renderer is required")
	}

	return &App{
		cfg:      cfg,
		source:   source,
		renderer: renderer,
		sinks:    sinks,
		objects:  scene.NewSet(),
		camera:   scene.DefaultCamera(),
		light:    scene.DefaultLight(),
		log:      log.Named("app"),
	}, nil
}

// Start acquires the audio input once and starts sinks that need to bind.
// A failing sink start is returned; a failing audio input is not.
func (a *App) Start(ctx context.Context) error {
	a.startOnce.Do(func() {
		if err := a.source.Start(ctx); err != nil {
			a.startErr = fmt.Errorf("failed to start audio source: %w", err)
			return
		}
		for _, sink := range a.sinks {
			if s, ok := sink.(transport.Starter); ok {
				if err := s.Start(); err != nil {
					a.startErr = fmt.Errorf("failed to start %T: %w", sink, err)
					return
				}
			}
		}
	})
	return a.startErr
}

// Frame advances the scene by one fixed step: read the frequency frame,
// extract bands, update the objects, draw, then publish to every sink.
// Sink errors are logged; a draw error is returned.
func (a *App) Frame() error {
	bands := analysis.Extract(a.source.FrequencyFrame())
	states := a.objects.Update(bands)

	a.seq++
	a.last = render.Frame{
		Seq:     a.seq,
		Bands:   bands,
		Objects: states,
		Camera:  a.camera,
		Light:   a.light,
	}

	if err := a.renderer.Draw(a.last); err != nil {
		return err
	}

	for _, sink := range a.sinks {
		if err := sink.Send(a.last); err != nil {
			a.log.Warnf("sink %T: %v", sink, err)
		}
	}
	return nil
}

// Last returns the most recent frame. Its Objects slice is reused by the
// next call to Frame.
func (a *App) Last() render.Frame { return a.last }

// Objects returns the animated object set.
func (a *App) Objects() *scene.Set { return a.objects }

// interval is the wall-clock tick length. The animation step stays fixed
// whatever the tick.
func (a *App) interval() time.Duration {
	hz := a.cfg.Render.RefreshHz
	if hz <= 0 {
		hz = config.DefaultRefreshHz
	}
	return time.Second / time.Duration(hz)
}

// Run starts the app if needed and produces frames until ctx is done or
// the renderer asks to quit. Other draw errors are returned.
func (a *App) Run(ctx context.Context) error {
	if err := a.Start(ctx); err != nil {
		return err
	}

	ticker := time.NewTicker(a.interval())
	defer ticker.Stop()

	a.log.Infof("frame loop running every %s", a.interval())
	for {
		if err := a.Frame(); err != nil {
			if errors.Is(err, render.ErrQuit) {
				a.log.Infof("quit requested after %d frames", a.seq)
				return nil
			}
			return fmt.Errorf("frame %d: %w", a.seq, err)
		}

		select {
		case <-ctx.Done():
			a.log.Infof("stopping after %d frames", a.seq)
			return nil
		case <-ticker.C:
		}
	}
}

// Close tears down sinks, renderer and source, in reverse order of
// construction.
func (a *App) Close() error {
	var errs []error
	a.closeOnce.Do(func() {
		for i := len(a.sinks) - 1; i >= 0; i-- {
			if err := a.sinks[i].Close(); err != nil {
				errs = append(errs, fmt.Errorf("close %T: %w", a.sinks[i], err))
			}
		}
		if err := a.renderer.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close renderer: %w", err))
		}
		if err := a.source.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close audio source: %w", err))
		}
	})
	return errors.Join(errs...)
}
