package watcher

import (
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tejashwikalptaru/skinamp/internal/adapter/eventbus"
	"github.com/tejashwikalptaru/skinamp/internal/domain"
	"github.com/tejashwikalptaru/skinamp/internal/logger"
	"github.com/tejashwikalptaru/skinamp/internal/testutil"
)

const testDebounce = 50 * time.Millisecond

type recorder struct {
	mu    sync.Mutex
	paths []string
}

func (r *recorder) record(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paths = append(r.paths, path)
}

func (r *recorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.paths...)
}

func newTestWatcher(t *testing.T, rec *recorder) (*Watcher, *eventbus.SyncEventBus) {
	t.Helper()
	bus := eventbus.NewSyncEventBus()
	w, err := New(logger.NewTestLogger(), bus, rec.record, Options{Debounce: testDebounce})
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })
	return w, bus
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestWatcher_DebouncesWrites(t *testing.T) {
	defer testutil.VerifyNoLeaks(t)

	dir := t.TempDir()
	skin := filepath.Join(dir, "bento.wsz")
	writeFile(t, skin, "v1")

	rec := &recorder{}
	w, bus := newTestWatcher(t, rec)

	var published atomic.Int32
	bus.Subscribe(domain.EventSkinFileChanged, func(e domain.Event) {
		ev := e.(domain.SkinFileChangedEvent)
		assert.Equal(t, skin, ev.Path)
		published.Add(1)
	})

	require.NoError(t, w.Watch(skin))
	for i := 0; i < 5; i++ {
		writeFile(t, skin, "v2")
	}

	require.Eventually(t, func() bool { return len(rec.snapshot()) == 1 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(4 * testDebounce)

	assert.Equal(t, []string{skin}, rec.snapshot())
	assert.Equal(t, int32(1), published.Load())

	require.NoError(t, w.Close())
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	defer testutil.VerifyNoLeaks(t)

	dir := t.TempDir()
	skin := filepath.Join(dir, "bento.wsz")
	writeFile(t, skin, "v1")

	rec := &recorder{}
	w, _ := newTestWatcher(t, rec)
	require.NoError(t, w.Watch(skin))

	writeFile(t, filepath.Join(dir, "other.wsz"), "x")
	time.Sleep(4 * testDebounce)
	assert.Empty(t, rec.snapshot())

	require.NoError(t, w.Close())
}

func TestWatcher_ReplacedByRename(t *testing.T) {
	defer testutil.VerifyNoLeaks(t)

	dir := t.TempDir()
	skin := filepath.Join(dir, "bento.wsz")
	writeFile(t, skin, "v1")

	rec := &recorder{}
	w, _ := newTestWatcher(t, rec)
	require.NoError(t, w.Watch(skin))

	tmp := filepath.Join(dir, ".bento.wsz.tmp")
	writeFile(t, tmp, "v2")
	require.NoError(t, os.Rename(tmp, skin))

	require.Eventually(t, func() bool { return len(rec.snapshot()) >= 1 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, skin, rec.snapshot()[0])

	require.NoError(t, w.Close())
}

func TestWatcher_SwitchAndUnwatch(t *testing.T) {
	defer testutil.VerifyNoLeaks(t)

	first := filepath.Join(t.TempDir(), "a.wsz")
	second := filepath.Join(t.TempDir(), "b.wsz")
	writeFile(t, first, "a")
	writeFile(t, second, "b")

	rec := &recorder{}
	w, _ := newTestWatcher(t, rec)

	require.NoError(t, w.Watch(first))
	require.NoError(t, w.Watch(second))
	assert.Equal(t, second, w.Path())

	writeFile(t, first, "a2")
	time.Sleep(4 * testDebounce)
	assert.Empty(t, rec.snapshot())

	writeFile(t, second, "b2")
	require.Eventually(t, func() bool { return len(rec.snapshot()) == 1 }, 2*time.Second, 10*time.Millisecond)

	w.Unwatch()
	assert.Empty(t, w.Path())
	writeFile(t, second, "b3")
	time.Sleep(4 * testDebounce)
	assert.Len(t, rec.snapshot(), 1)

	require.NoError(t, w.Close())
}

func TestWatcher_WatchMissingDirectory(t *testing.T) {
	rec := &recorder{}
	w, _ := newTestWatcher(t, rec)

	err := w.Watch(filepath.Join(t.TempDir(), "nope", "skin.wsz"))
	assert.Error(t, err)
	assert.Empty(t, w.Path())
}

func TestWatcher_CloseIsIdempotent(t *testing.T) {
	defer testutil.VerifyNoLeaks(t)

	w, err := New(logger.NewTestLogger(), nil, nil, Options{})
	require.NoError(t, err)
	assert.Equal(t, DefaultDebounce, w.debounce)

	require.NoError(t, w.Close())
	require.NoError(t, w.Close())
}
