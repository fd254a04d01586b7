// ============================================================================
// modlevel - per-module log level filtering
// ============================================================================
//
// Package:     version
// Description: Build version information for the modlevel binaries
// Author:      msto63
// Created:     2025-12-06
// License:     MIT
// ============================================================================

package version

import (
	"fmt"
	"runtime"
)

// Version of the modlevel module
const Version = "0.1.0"

// Set at build time via -ldflags "-X ..."
var (
	GitCommit = "development"
	BuildDate = "unknown"
)

// Info describes the running binary
type Info struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// Get returns the build information for the named binary
func Get(name string) Info {
	return Info{
		Name:      name,
		Version:   Version,
		GitCommit: GitCommit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// String renders the multi-line form printed by the version command
func (i Info) String() string {
	return fmt.Sprintf("%s v%s\n  Git Commit: %s\n  Build Date: %s\n  Go Version: %s\n  OS/Arch:    %s\n",
		i.Name, i.Version, i.GitCommit, i.BuildDate, i.GoVersion, i.Platform)
}
