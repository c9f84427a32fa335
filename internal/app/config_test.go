package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tejashwikalptaru/skinamp/internal/adapter/cache"
	"github.com/tejashwikalptaru/skinamp/internal/domain"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, "com.skinamp.app", config.AppID)
	assert.Equal(t, "Skinamp", config.AppName)
	assert.Equal(t, int64(cache.DefaultBudgetBytes), config.CacheBudgetBytes)
	assert.Equal(t, "#FF00FF", config.ColorKey)
	assert.True(t, config.AllowPalettedBitmaps)
	assert.False(t, config.WatchSkins)
	assert.Equal(t, 250*time.Millisecond, config.WatchDebounce)
	assert.Equal(t, "skins", filepath.Base(config.SkinDirectory))
	assert.Equal(t, ConfigName, filepath.Base(filepath.Dir(config.SkinDirectory)))
	assert.NoError(t, config.Validate())
}

func TestLoadConfig_File(t *testing.T) {
	file := filepath.Join(t.TempDir(), "skinamp.yaml")
	content := `cache_budget_bytes: 1048576
color_key: "#00FF00"
allow_paletted_bitmaps: false
watch_skins: true
watch_debounce: 1s
log_level: debug
log_format: json
skin_directory: ~/my-skins
`
	require.NoError(t, os.WriteFile(file, []byte(content), 0o644))

	config, err := LoadConfig(file)
	require.NoError(t, err)

	assert.Equal(t, int64(1<<20), config.CacheBudgetBytes)
	assert.Equal(t, "#00FF00", config.ColorKey)
	assert.False(t, config.AllowPalettedBitmaps)
	assert.True(t, config.WatchSkins)
	assert.Equal(t, time.Second, config.WatchDebounce)
	assert.Equal(t, "json", config.LoggerConfig().Format)

	home, err := homedir.Dir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "my-skins"), config.SkinDirectory)

	// Untouched keys keep their defaults
	assert.Equal(t, "com.skinamp.app", config.AppID)
	assert.Equal(t, DefaultConfig().MaxEntries, config.MaxEntries)
}

func TestLoadConfig_Environment(t *testing.T) {
	file := filepath.Join(t.TempDir(), "skinamp.yaml")
	require.NoError(t, os.WriteFile(file, []byte("cache_budget_bytes: 1048576\n"), 0o644))

	t.Setenv("SKINAMP_CACHE_BUDGET_BYTES", "2097152")
	t.Setenv("SKINAMP_COLOR_KEY", "teal")
	t.Setenv("SKINAMP_WATCH_DEBOUNCE", "500ms")

	config, err := LoadConfig(file)
	require.NoError(t, err)

	assert.Equal(t, int64(2<<20), config.CacheBudgetBytes)
	assert.Equal(t, "teal", config.ColorKey)
	assert.Equal(t, 500*time.Millisecond, config.WatchDebounce)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadConfig_Invalid(t *testing.T) {
	file := filepath.Join(t.TempDir(), "skinamp.yaml")
	require.NoError(t, os.WriteFile(file, []byte("color_key: chartreuse-ish\nlog_level: loud\nmax_entries: 0\n"), 0o644))

	_, err := LoadConfig(file)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "color_key")
	assert.Contains(t, err.Error(), "log_level")
	assert.Contains(t, err.Error(), "max_entries")
}

func TestConfig_ColorKeyNRGBA(t *testing.T) {
	config := DefaultConfig()
	assert.Equal(t, domain.DefaultColorKey, config.ColorKeyNRGBA())

	config.ColorKey = "#102030"
	key := config.ColorKeyNRGBA()
	assert.Equal(t, uint8(0x10), key.R)
	assert.Equal(t, uint8(0x20), key.G)
	assert.Equal(t, uint8(0x30), key.B)

	config.ColorKey = "bogus"
	assert.Equal(t, domain.DefaultColorKey, config.ColorKeyNRGBA())
}

func TestConfig_ArchiveOptions(t *testing.T) {
	config := DefaultConfig()
	config.MaxEntries = 7
	config.MaxEntryBytes = 99

	opts := config.ArchiveOptions()
	assert.Equal(t, 7, opts.MaxEntries)
	assert.Equal(t, int64(99), opts.MaxEntryBytes)
}
