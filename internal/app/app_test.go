package app

import (
	"context"
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tejashwikalptaru/skinamp/internal/domain"
	"github.com/tejashwikalptaru/skinamp/internal/testutil"
)

func testConfig(t *testing.T) Config {
	t.Helper()
	config := DefaultConfig()
	config.TestFyneApp = test.NewApp()
	config.LogLevel = "error"
	config.SkinDirectory = t.TempDir()
	return config
}

func TestNewApplication(t *testing.T) {
	app, err := NewApplication(testConfig(t))
	require.NoError(t, err)
	require.NotNil(t, app)

	assert.NotNil(t, app.GetManager())
	assert.NotNil(t, app.GetEventBus())
	assert.NotNil(t, app.GetFyneApp())
	assert.NotNil(t, app.GetWindow())
	assert.False(t, app.Watching())
	assert.True(t, app.GetManager().Current().IsDefault())

	// Cleanup
	assert.NoError(t, app.Shutdown())
}

func TestNewApplication_InvalidConfig(t *testing.T) {
	config := testConfig(t)
	config.ColorKey = "not-a-color"

	_, err := NewApplication(config)
	assert.Error(t, err)
}

func TestApplicationLifecycle(t *testing.T) {
	app, err := NewApplication(testConfig(t))
	require.NoError(t, err)

	// Run would normally block, but we're not calling it in test

	assert.NoError(t, app.Shutdown())

	// Shutdown again should not panic
	assert.NoError(t, app.Shutdown())
}

func TestApplication_SeedsSkinDirectory(t *testing.T) {
	config := testConfig(t)
	app, err := NewApplication(config)
	require.NoError(t, err)
	defer app.Shutdown()

	dir, err := app.GetPreferences().LoadSkinDirectory()
	require.NoError(t, err)
	assert.Equal(t, filepath.Clean(config.SkinDirectory), dir)
}

func TestApplication_OpenAndRestoreSkin(t *testing.T) {
	config := testConfig(t)
	app, err := NewApplication(config)
	require.NoError(t, err)

	path := testutil.WriteSkin(t, "green.wsz", testutil.RequiredSheetFiles(color.NRGBA{G: 200, A: 255}))
	require.NoError(t, app.OpenSkin(path))
	assert.Eventually(t, func() bool {
		return app.GetManager().Current().Path() == path
	}, 2*time.Second, 10*time.Millisecond)
	require.NoError(t, app.Shutdown())
	assert.Equal(t, "green", app.GetWindow().SkinName())

	// A second instance over the same preferences restores the skin.
	config.TestFyneApp = app.GetFyneApp()
	again, err := NewApplication(config)
	require.NoError(t, err)
	defer again.Shutdown()

	again.RestoreLastSkin()
	assert.Eventually(t, func() bool {
		return again.GetManager().Current().Path() == path
	}, 2*time.Second, 10*time.Millisecond)
}

func TestApplication_CacheEvictionEvents(t *testing.T) {
	config := testConfig(t)
	// Room for one skin built from RequiredSheetFiles, not two.
	config.CacheBudgetBytes = 200 << 10

	app, err := NewApplication(config)
	require.NoError(t, err)
	defer app.Shutdown()

	var evicted []domain.CacheEvictedEvent
	app.GetEventBus().Subscribe(domain.EventCacheEvicted, func(event domain.Event) {
		evicted = append(evicted, event.(domain.CacheEvictedEvent))
	})

	ctx := context.Background()
	first := testutil.WriteSkin(t, "first.wsz", testutil.RequiredSheetFiles(color.NRGBA{R: 200, A: 255}))
	second := testutil.WriteSkin(t, "second.wsz", testutil.RequiredSheetFiles(color.NRGBA{B: 200, A: 255}))

	require.NoError(t, app.GetManager().LoadSkin(ctx, first))
	firstKey := app.GetManager().Current().Key()
	require.NoError(t, app.GetManager().LoadSkin(ctx, second))

	require.Len(t, evicted, 1)
	assert.Equal(t, firstKey, evicted[0].Key)
	assert.Positive(t, evicted[0].FreedBytes)
}

func TestApplication_WatchReloadsSkin(t *testing.T) {
	config := testConfig(t)
	config.WatchSkins = true
	config.WatchDebounce = 20 * time.Millisecond

	app, err := NewApplication(config)
	require.NoError(t, err)
	defer app.Shutdown()
	require.True(t, app.Watching())

	var changes int
	app.GetEventBus().Subscribe(domain.EventSkinFileChanged, func(domain.Event) { changes++ })

	path := testutil.WriteSkin(t, "live.wsz", testutil.RequiredSheetFiles(color.NRGBA{R: 100, A: 255}))
	require.NoError(t, app.GetManager().LoadSkin(context.Background(), path))
	oldKey := app.GetManager().Current().Key()

	updated := testutil.ZipBytes(t, testutil.RequiredSheetFiles(color.NRGBA{G: 100, A: 255}))
	require.NoError(t, os.WriteFile(path, updated, 0o644))

	assert.Eventually(t, func() bool {
		return app.GetManager().Current().Key() != oldKey
	}, 3*time.Second, 20*time.Millisecond)
}
