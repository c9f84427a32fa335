package app

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
)

// Set with -ldflags "-X github.com/tejashwikalptaru/skinamp/internal/app.Version=v1.0.0 ...".
// Commit and Date fall back to the VCS stamp the Go toolchain embeds.
var (
	Version = "dev"
	Commit  = ""
	Date    = ""
)

// VersionInfo describes the running skinamp binary.
type VersionInfo struct {
	Version   string
	Commit    string
	Date      string
	Modified  bool
	GoVersion string
}

// GetVersionInfo combines ldflags values with the embedded build info.
func GetVersionInfo() VersionInfo {
	info := VersionInfo{
		Version:   Version,
		Commit:    Commit,
		Date:      Date,
		GoVersion: runtime.Version(),
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		info = info.withBuildSettings(bi.Settings)
	}
	return info
}

func (v VersionInfo) withBuildSettings(settings []debug.BuildSetting) VersionInfo {
	for _, s := range settings {
		switch s.Key {
		case "vcs.revision":
			if v.Commit == "" {
				v.Commit = s.Value
			}
		case "vcs.time":
			if v.Date == "" {
				v.Date = s.Value
			}
		case "vcs.modified":
			v.Modified = s.Value == "true"
		}
	}
	return v
}

// ShortCommit returns the first 7 characters of the commit, or "unknown".
func (v VersionInfo) ShortCommit() string {
	switch {
	case v.Commit == "":
		return "unknown"
	case len(v.Commit) > 7:
		return v.Commit[:7]
	default:
		return v.Commit
	}
}

// FullString renders e.g. "skinamp v1.2.0 (a1b2c3d-dirty, 2026-01-02T15:04:05Z, go1.25.0)".
func (v VersionInfo) FullString() string {
	commit := v.ShortCommit()
	if v.Modified {
		commit += "-dirty"
	}
	parts := []string{commit}
	if v.Date != "" {
		parts = append(parts, v.Date)
	}
	parts = append(parts, v.GoVersion)
	return fmt.Sprintf("skinamp %s (%s)", v.Version, strings.Join(parts, ", "))
}
