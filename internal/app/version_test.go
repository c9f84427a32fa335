package app

import (
	"runtime"
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetVersionInfo(t *testing.T) {
	info := GetVersionInfo()
	assert.Equal(t, Version, info.Version)
	assert.Equal(t, runtime.Version(), info.GoVersion)
	assert.Contains(t, info.FullString(), "skinamp "+Version+" (")
}

func TestVersionInfo_BuildSettings(t *testing.T) {
	settings := []debug.BuildSetting{
		{Key: "vcs.revision", Value: "0123456789abcdef"},
		{Key: "vcs.time", Value: "2026-01-02T15:04:05Z"},
		{Key: "vcs.modified", Value: "true"},
	}

	info := VersionInfo{Version: "v1.2.0", GoVersion: "go1.25.0"}.withBuildSettings(settings)
	assert.Equal(t, "0123456", info.ShortCommit())
	assert.True(t, info.Modified)
	assert.Equal(t, "skinamp v1.2.0 (0123456-dirty, 2026-01-02T15:04:05Z, go1.25.0)", info.FullString())

	// ldflags values win over the embedded stamp
	pinned := VersionInfo{Version: "v1.2.0", Commit: "feedbee", Date: "yesterday", GoVersion: "go1.25.0"}.withBuildSettings(settings)
	assert.Equal(t, "feedbee", pinned.ShortCommit())
	assert.Equal(t, "yesterday", pinned.Date)
}

func TestVersionInfo_Unknown(t *testing.T) {
	info := VersionInfo{Version: "dev", GoVersion: "go1.25.0"}
	assert.Equal(t, "unknown", info.ShortCommit())
	assert.Equal(t, "skinamp dev (unknown, go1.25.0)", info.FullString())
}
