// SPDX-License-Identifier: MIT
package cmd

import (
	"bytes"
	"strings"
	"testing"

	"visualizer/internal/config"
)

func TestParseArgsCommands(t *testing.T) {
	tests := []struct {
		args     []string
		expected string
	}{
		{nil, CommandRun},
		{[]string{"list"}, CommandList},
		{[]string{"devices"}, CommandDevices},
		{[]string{"--headless"}, CommandRun},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			opts, err := ParseArgs(tt.args)
			if err != nil {
				t.Fatalf("ParseArgs(%v) error: %v", tt.args, err)
			}
			if opts.Command != tt.expected {
				t.Errorf("Command = %q, want %q", opts.Command, tt.expected)
			}
		})
	}
}

func TestParseArgsHelpAndVersion(t *testing.T) {
	for _, args := range [][]string{{"--help"}, {"--version"}} {
		var out bytes.Buffer
		opts, err := parse(args, &out)
		if err != nil {
			t.Fatalf("parse(%v) error: %v", args, err)
		}
		if opts.Command != "" {
			t.Errorf("parse(%v) selected %q, want no command", args, opts.Command)
		}
		if out.Len() == 0 {
			t.Errorf("parse(%v) printed nothing", args)
		}
	}
}

func TestParseArgsErrors(t *testing.T) {
	for _, args := range [][]string{
		{"--no-such-flag"},
		{"--device", "abc"},
		{"unknown-command"},
	} {
		if _, err := parse(args, &bytes.Buffer{}); err == nil {
			t.Errorf("parse(%v) succeeded, want an error", args)
		}
	}
}

func TestApplyOnlyChangedFlags(t *testing.T) {
	cfg := config.Default()
	cfg.Audio.InputDevice = 4
	cfg.Transport.WebSocketEnabled = true
	cfg.Transport.WebSocketAddress = ":7000"

	opts, err := ParseArgs([]string{"--input", "song.mp3"})
	if err != nil {
		t.Fatalf("ParseArgs error: %v", err)
	}
	opts.Apply(cfg)

	if cfg.Audio.InputFile != "song.mp3" {
		t.Errorf("InputFile = %q", cfg.Audio.InputFile)
	}
	if cfg.Audio.InputDevice != 4 {
		t.Errorf("InputDevice = %d, an unset flag must keep the file value", cfg.Audio.InputDevice)
	}
	if !cfg.Transport.WebSocketEnabled || cfg.Transport.WebSocketAddress != ":7000" {
		t.Errorf("websocket settings changed without --ws: %+v", cfg.Transport)
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		check func(t *testing.T, cfg *config.Config)
	}{
		{"device", []string{"-d", "2"}, func(t *testing.T, cfg *config.Config) {
			if cfg.Audio.InputDevice != 2 {
				t.Errorf("InputDevice = %d", cfg.Audio.InputDevice)
			}
		}},
		{"headless", []string{"--headless"}, func(t *testing.T, cfg *config.Config) {
			if !cfg.Render.Headless {
				t.Error("expected headless")
			}
		}},
		{"ws default address", []string{"--ws"}, func(t *testing.T, cfg *config.Config) {
			if !cfg.Transport.WebSocketEnabled || cfg.Transport.WebSocketAddress != config.DefaultWebSocketAddr {
				t.Errorf("transport = %+v", cfg.Transport)
			}
		}},
		{"ws address", []string{"--ws=127.0.0.1:9000"}, func(t *testing.T, cfg *config.Config) {
			if cfg.Transport.WebSocketAddress != "127.0.0.1:9000" {
				t.Errorf("WebSocketAddress = %q", cfg.Transport.WebSocketAddress)
			}
		}},
		{"udp default target", []string{"--udp"}, func(t *testing.T, cfg *config.Config) {
			if !cfg.Transport.UDPEnabled || cfg.Transport.UDPTargetAddress != config.DefaultUDPTargetAddr {
				t.Errorf("transport = %+v", cfg.Transport)
			}
		}},
		{"log level", []string{"--log-level", "warn"}, func(t *testing.T, cfg *config.Config) {
			if cfg.LogLevel != "warn" {
				t.Errorf("LogLevel = %q", cfg.LogLevel)
			}
		}},
		{"verbose", []string{"-v"}, func(t *testing.T, cfg *config.Config) {
			if !cfg.Debug {
				t.Error("expected debug")
			}
		}},
		{"flags after subcommand", []string{"devices", "--headless"}, func(t *testing.T, cfg *config.Config) {
			if !cfg.Render.Headless {
				t.Error("expected persistent flags to reach the subcommand")
			}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, err := ParseArgs(tt.args)
			if err != nil {
				t.Fatalf("ParseArgs(%v) error: %v", tt.args, err)
			}
			cfg := config.Default()
			opts.Apply(cfg)
			tt.check(t, cfg)
			if err := cfg.Validate(); err != nil {
				t.Errorf("Validate() error: %v", err)
			}
		})
	}
}
