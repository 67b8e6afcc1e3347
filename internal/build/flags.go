// SPDX-License-Identifier: MIT

// Package build exposes the version metadata injected at link time:
//
//	go build -ldflags "-X visualizer/internal/build.buildName=visualizer \
//	  -X visualizer/internal/build.buildVersion=0.2.0 ..."
//
// A plain `go build` sets none of the flags; the binary then reports
// development values taken from the module build info.
package build

import (
	"fmt"
	"runtime/debug"
)

// Flags holds build-time information.
type Flags struct {
	Name        string
	Description string
	Time        string
	Commit      string
	Version     string
}

const (
	defaultName        = "visualizer"
	defaultDescription = "Audio-reactive wireframe visualizer"
)

var (
	buildName    string
	buildTime    string
	buildCommit  string
	buildVersion string
	buildFlags   = &Flags{
		Name:        defaultName,
		Description: defaultDescription,
		Time:        "unknown",
		Commit:      "unknown",
		Version:     "dev",
	}
)

// readBuildInfo is swapped in tests.
var readBuildInfo = debug.ReadBuildInfo

// Initialize copies the ldflags values into the build information. If no
// flag was set at all the development defaults are kept. A partial set is
// an error, since it means the release tooling dropped a flag.
func Initialize() error {
	if buildName == "" && buildTime == "" && buildCommit == "" && buildVersion == "" {
		if info, ok := readBuildInfo(); ok && info.Main.Version != "" {
			buildFlags.Version = info.Main.Version
		}
		return nil
	}

	if buildName == "" {
		return fmt.Errorf("BuildName is required")
	}
	if buildTime == "" {
		return fmt.Errorf("BuildTime is required")
	}
	if buildCommit == "" {
		return fmt.Errorf("BuildCommit is required")
	}
	if buildVersion == "" {
		return fmt.Errorf("BuildVersion is required")
	}

	buildFlags.Name = buildName
	buildFlags.Time = buildTime
	buildFlags.Commit = buildCommit
	buildFlags.Version = buildVersion

	return nil
}

// GetBuildFlags returns the current build information.
func GetBuildFlags() *Flags {
	return buildFlags
}
