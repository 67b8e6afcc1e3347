// SPDX-License-Identifier: MIT

// Package cmd parses the command line into Options.
package cmd

import (
	"io"

	"visualizer/internal/build"
	"visualizer/internal/config"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Commands selected on the command line.
const (
	CommandRun     = "run"
	CommandList    = "list"
	CommandDevices = "devices"
)

// Options holds the parsed command line. Flags override the config file
// only when they were given.
type Options struct {
	Command    string // empty when only help or version was printed
	ConfigPath string

	DeviceID  int
	InputFile string
	Headless  bool
	WSAddress string
	UDPTarget string
	LogLevel  string
	Verbose   bool

	changed map[string]bool
}

// ParseArgs parses args (without the program name).
func ParseArgs(args []string) (*Options, error) {
	return parse(args, nil)
}

func parse(args []string, out io.Writer) (*Options, error) {
	buildInfo := build.GetBuildFlags()
	options := &Options{changed: make(map[string]bool)}

	rootCmd := &cobra.Command{
		Use:           buildInfo.Name,
		Short:         buildInfo.Description,
		Version:       buildInfo.Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd:   true,
			DisableDescriptions: true,
			DisableNoDescFlag:   true,
			HiddenDefaultCmd:    true,
		},
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			options.Command = CommandRun
			return nil
		},
	}
	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})
	if out != nil {
		rootCmd.SetOut(out)
		rootCmd.SetErr(out)
	}

	rootCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List available audio devices",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			options.Command = CommandList
		},
	})
	rootCmd.AddCommand(&cobra.Command{
		Use:   "devices",
		Short: "Pick an input device interactively, then visualize it",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			options.Command = CommandDevices
		},
	})

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&options.ConfigPath, "config", "",
		"Path to the YAML configuration file (default ./"+config.DefaultConfigFile+" when present)")

	// Audio input
	flags.IntVarP(&options.DeviceID, "device", "d", config.DefaultDeviceID,
		"Specify input device ID. Use 'list' command to see available devices.")
	flags.StringVarP(&options.InputFile, "input", "i", "",
		"Visualize a WAV, MP3 or Ogg Vorbis file instead of the microphone")

	// Output
	flags.BoolVar(&options.Headless, "headless", false,
		"Run without the terminal renderer")
	flags.StringVar(&options.WSAddress, "ws", "",
		"Broadcast frames over WebSocket on this address")
	flags.Lookup("ws").NoOptDefVal = config.DefaultWebSocketAddr
	flags.StringVar(&options.UDPTarget, "udp", "",
		"Send band energies over UDP to this address")
	flags.Lookup("udp").NoOptDefVal = config.DefaultUDPTargetAddr

	// Debug Configuration
	flags.StringVar(&options.LogLevel, "log-level", "",
		"Log level: debug, info, warn or error")
	flags.BoolVarP(&options.Verbose, "verbose", "v", false,
		"Show verbose output (same as --log-level=debug)")

	if args == nil {
		args = []string{} // nil makes cobra fall back to os.Args
	}
	rootCmd.SetArgs(args)
	executed, err := rootCmd.ExecuteC()
	if err != nil {
		return nil, err
	}

	executed.Flags().Visit(func(f *pflag.Flag) {
		options.changed[f.Name] = true
	})
	return options, nil
}

// Changed reports whether the named flag was given.
func (o *Options) Changed(name string) bool {
	return o.changed[name]
}

// Apply copies the given flags onto cfg.
func (o *Options) Apply(cfg *config.Config) {
	if o.Changed("device") {
		cfg.Audio.InputDevice = o.DeviceID
	}
	if o.Changed("input") {
		cfg.Audio.InputFile = o.InputFile
	}
	if o.Changed("headless") {
		cfg.Render.Headless = o.Headless
	}
	if o.Changed("ws") {
		cfg.Transport.WebSocketEnabled = o.WSAddress != ""
		cfg.Transport.WebSocketAddress = o.WSAddress
	}
	if o.Changed("udp") {
		cfg.Transport.UDPEnabled = o.UDPTarget != ""
		cfg.Transport.UDPTargetAddress = o.UDPTarget
	}
	if o.Changed("log-level") {
		cfg.LogLevel = o.LogLevel
	}
	if o.Verbose {
		cfg.Debug = true
	}
}
