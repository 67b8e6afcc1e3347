// SPDX-License-Identifier: MIT

// Package config loads the host wiring of the visualizer: which audio input
// to open, how to render and where to publish frames. The animation itself
// (object sizes, speeds, band ranges, camera) is fixed in code and is not
// configurable.
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	applog "visualizer/internal/log"

	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigFile      = "config.yaml"
	DefaultLogLevel        = "info"
	DefaultLogFile         = "visualizer.log"
	DefaultDeviceID        = MinDeviceID // System default input device
	DefaultSampleRate      = 44100
	DefaultFramesPerBuffer = 256
	DefaultFFTWindow       = "blackman"
	DefaultRefreshHz       = 60
	DefaultWebSocketAddr   = ":8080"
	DefaultUDPTargetAddr   = "127.0.0.1:9090"
	DefaultUDPSendInterval = 16 * time.Millisecond

	MinDeviceID     = -1 // -1 represents the system default device
	MinSampleRate   = 8000
	MaxSampleRate   = 192000
	MaxBufferFrames = 8192
	MaxRefreshHz    = 240
)

// Config represents the application configuration, loaded from YAML.
type Config struct {
	Debug     bool            `yaml:"debug"`     // Forces the DEBUG log level.
	LogLevel  string          `yaml:"log_level"` // "debug", "info", "warn" or "error".
	LogFile   string          `yaml:"log_file"`  // Log destination while the terminal renderer runs.
	Audio     AudioConfig     `yaml:"audio"`
	Render    RenderConfig    `yaml:"render"`
	Transport TransportConfig `yaml:"transport"`
}

// AudioConfig selects and tunes the audio input.
type AudioConfig struct {
	InputDevice     int     `yaml:"input_device"`      // PortAudio device index (-1 for default).
	InputFile       string  `yaml:"input_file"`        // Decode this file instead of opening the microphone.
	SampleRate      float64 `yaml:"sample_rate"`       // Capture rate in Hz.
	FramesPerBuffer int     `yaml:"frames_per_buffer"` // Samples per PortAudio callback.
	LowLatency      bool    `yaml:"low_latency"`       // Request the device's low input latency.
	FFTWindow       string  `yaml:"fft_window"`        // Window function name, e.g. "blackman".
	GateThreshold   float64 `yaml:"gate_threshold"`    // Noise gate in [0,1]; 0 disables.
}

// RenderConfig controls the display side of the frame loop.
type RenderConfig struct {
	Headless  bool `yaml:"headless"`   // Skip the terminal renderer.
	RefreshHz int  `yaml:"refresh_hz"` // Frame loop rate.
}

// TransportConfig holds settings for publishing frames over the network.
type TransportConfig struct {
	WebSocketEnabled bool          `yaml:"websocket_enabled"`
	WebSocketAddress string        `yaml:"websocket_address"`
	UDPEnabled       bool          `yaml:"udp_enabled"`
	UDPTargetAddress string        `yaml:"udp_target_address"`
	UDPSendInterval  time.Duration `yaml:"udp_send_interval"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		LogLevel: DefaultLogLevel,
		LogFile:  DefaultLogFile,
		Audio: AudioConfig{
			InputDevice:     DefaultDeviceID,
			SampleRate:      DefaultSampleRate,
			FramesPerBuffer: DefaultFramesPerBuffer,
			FFTWindow:       DefaultFFTWindow,
		},
		Render: RenderConfig{
			RefreshHz: DefaultRefreshHz,
		},
		Transport: TransportConfig{
			WebSocketAddress: DefaultWebSocketAddr,
			UDPTargetAddress: DefaultUDPTargetAddr,
			UDPSendInterval:  DefaultUDPSendInterval,
		},
	}
}

// LoadConfig loads configuration from the YAML file at path. An empty path
// looks for DefaultConfigFile in the working directory and falls back to
// the built-in defaults when it is absent. Environment overrides are applied
// after the file, then the result is validated.
func LoadConfig(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		if _, err := os.Stat(DefaultConfigFile); err == nil {
			path = DefaultConfigFile
		}
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks ranges and addresses.
func (c *Config) Validate() error {
	var errs []error

	if _, ok := applog.ParseLevel(c.LogLevel); !ok {
		errs = append(errs, fmt.Errorf("log_level %q is not a known level", c.LogLevel))
	}
	if c.Audio.InputDevice < MinDeviceID {
		errs = append(errs, fmt.Errorf("audio.input_device must be >= %d, got %d", MinDeviceID, c.Audio.InputDevice))
	}
	if c.Audio.SampleRate < MinSampleRate || c.Audio.SampleRate > MaxSampleRate {
		errs = append(errs, fmt.Errorf("audio.sample_rate must be within [%d, %d], got %.0f", MinSampleRate, MaxSampleRate, c.Audio.SampleRate))
	}
	if c.Audio.FramesPerBuffer <= 0 || c.Audio.FramesPerBuffer > MaxBufferFrames {
		errs = append(errs, fmt.Errorf("audio.frames_per_buffer must be within [1, %d], got %d", MaxBufferFrames, c.Audio.FramesPerBuffer))
	}
	if c.Audio.GateThreshold < 0 || c.Audio.GateThreshold > 1 {
		errs = append(errs, fmt.Errorf("audio.gate_threshold must be within [0, 1], got %g", c.Audio.GateThreshold))
	}
	if c.Render.RefreshHz <= 0 || c.Render.RefreshHz > MaxRefreshHz {
		errs = append(errs, fmt.Errorf("render.refresh_hz must be within [1, %d], got %d", MaxRefreshHz, c.Render.RefreshHz))
	}
	if c.Transport.WebSocketEnabled {
		if _, _, err := net.SplitHostPort(c.Transport.WebSocketAddress); err != nil {
			errs = append(errs, fmt.Errorf("transport.websocket_address %q: %w", c.Transport.WebSocketAddress, err))
		}
	}
	if c.Transport.UDPEnabled {
		if _, _, err := net.SplitHostPort(c.Transport.UDPTargetAddress); err != nil {
			errs = append(errs, fmt.Errorf("transport.udp_target_address %q: %w", c.Transport.UDPTargetAddress, err))
		}
		if c.Transport.UDPSendInterval <= 0 {
			errs = append(errs, fmt.Errorf("transport.udp_send_interval must be positive when UDP is enabled"))
		}
	}

	return errors.Join(errs...)
}

// Level returns the effective log level; Debug wins over LogLevel.
func (c *Config) Level() applog.LogLevel {
	if c.Debug {
		return applog.LevelDebug
	}
	level, _ := applog.ParseLevel(c.LogLevel)
	return level
}

// applyEnvOverrides applies the ENV_* variables on top of the file values.
// Unparseable values are ignored with a warning.
func (c *Config) applyEnvOverrides() {
	if val, ok := os.LookupEnv("ENV_DEBUG"); ok {
		if b, err := strconv.ParseBool(val); err == nil {
			c.Debug = b
		} else {
			applog.Warnf("config: ignoring ENV_DEBUG=%q: %v", val, err)
		}
	}
	if val, ok := os.LookupEnv("ENV_LOG_LEVEL"); ok {
		c.LogLevel = val
	}
	if val, ok := os.LookupEnv("ENV_WS_ADDRESS"); ok {
		c.Transport.WebSocketEnabled = true
		c.Transport.WebSocketAddress = val
	}
	if val, ok := os.LookupEnv("ENV_UDP_ENABLED"); ok {
		if b, err := strconv.ParseBool(val); err == nil {
			c.Transport.UDPEnabled = b
		} else {
			applog.Warnf("config: ignoring ENV_UDP_ENABLED=%q: %v", val, err)
		}
	}
	if val, ok := os.LookupEnv("ENV_UDP_TARGET_ADDRESS"); ok {
		c.Transport.UDPTargetAddress = val
	}
	if val, ok := os.LookupEnv("ENV_UDP_SEND_INTERVAL"); ok {
		if d, err := time.ParseDuration(val); err == nil {
			c.Transport.UDPSendInterval = d
		} else {
			applog.Warnf("config: ignoring ENV_UDP_SEND_INTERVAL=%q: %v", val, err)
		}
	}
}
