package service

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tejashwikalptaru/skinamp/internal/adapter/archive"
	"github.com/tejashwikalptaru/skinamp/internal/adapter/eventbus"
	"github.com/tejashwikalptaru/skinamp/internal/domain"
	"github.com/tejashwikalptaru/skinamp/internal/logger"
	"github.com/tejashwikalptaru/skinamp/internal/testutil"
)

// Helper to create a test skin library backed by the real archive prober
func newTestSkinLibrary() (*SkinLibrary, *eventLog) {
	log := logger.NewTestLogger()
	bus := eventbus.NewSyncEventBus()
	events := &eventLog{}
	bus.SubscribeAll(events.record)
	return NewSkinLibrary(log, archive.NewLoader(log, archive.DefaultOptions()), bus), events
}

// createTestSkinFolder lays out real skins, an impostor and unrelated files.
func createTestSkinFolder(t *testing.T) string {
	dir := t.TempDir()
	zipped := testutil.ZipBytes(t, map[string][]byte{"main.bmp": []byte("BM")})

	files := map[string][]byte{
		"Zeta.wsz":                zipped,
		"alpha.WSZ":               zipped,
		"Bento.zip":               zipped,
		"fake.wsz":                []byte("not really a zip"),
		"readme.txt":              []byte("hello"),
		"nested/Classic.wsz":      zipped,
		"nested/deeper/cover.bmp": []byte("BM"),
	}
	for name, body := range files {
		p := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, body, 0o644))
	}
	return dir
}

func entryNames(skins []domain.SkinEntry) []string {
	names := make([]string, len(skins))
	for i, s := range skins {
		names[i] = s.Name
	}
	return names
}

func TestIsSkinFile(t *testing.T) {
	assert.True(t, IsSkinFile("base.wsz"))
	assert.True(t, IsSkinFile("/skins/Base.WSZ"))
	assert.True(t, IsSkinFile("base.zip"))
	assert.False(t, IsSkinFile("readme.txt"))
	assert.False(t, IsSkinFile("wsz"))
	assert.False(t, IsSkinFile(""))
}

func TestSkinLibrary_ScanFolder(t *testing.T) {
	lib, events := newTestSkinLibrary()
	defer lib.Shutdown()

	dir := createTestSkinFolder(t)
	skins, err := lib.ScanFolder(dir)
	require.NoError(t, err)

	assert.Equal(t, []string{"alpha", "Bento", "Classic", "Zeta"}, entryNames(skins))
	for _, s := range skins {
		assert.True(t, filepath.IsAbs(s.Path))
		assert.Positive(t, s.SizeBytes)
	}

	assert.Len(t, events.ofType(domain.EventSkinScanStarted), 1)
	progress := events.ofType(domain.EventSkinScanProgress)
	require.Len(t, progress, 5)
	last := progress[len(progress)-1].(domain.SkinScanProgressEvent).Progress
	assert.Equal(t, 5, last.FilesScanned)
	assert.Equal(t, 5, last.TotalFiles)
	assert.Equal(t, 4, last.SkinsFound)

	completed := events.ofType(domain.EventSkinScanCompleted)
	require.Len(t, completed, 1)
	assert.Len(t, completed[0].(domain.SkinScanCompletedEvent).Skins, 4)
	assert.False(t, lib.IsScanning())
}

func TestSkinLibrary_ScanFolder_Empty(t *testing.T) {
	lib, _ := newTestSkinLibrary()
	defer lib.Shutdown()

	skins, err := lib.ScanFolder(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, skins)
}

func TestSkinLibrary_ScanFolder_NonExistentFolder(t *testing.T) {
	lib, events := newTestSkinLibrary()
	defer lib.Shutdown()

	_, err := lib.ScanFolder(filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	var svcErr *domain.ServiceError
	assert.ErrorAs(t, err, &svcErr)
	assert.Empty(t, events.ofType(domain.EventSkinScanCompleted))
}

func TestSkinLibrary_ScanFiles(t *testing.T) {
	lib, _ := newTestSkinLibrary()
	defer lib.Shutdown()

	dir := createTestSkinFolder(t)
	skins, err := lib.ScanFiles([]string{
		filepath.Join(dir, "Zeta.wsz"),
		filepath.Join(dir, "fake.wsz"),
		filepath.Join(dir, "readme.txt"),
		filepath.Join(dir, "nested", "Classic.wsz"),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Classic", "Zeta"}, entryNames(skins))
}

func TestSkinLibrary_CancelScan_NoScanInProgress(t *testing.T) {
	lib, _ := newTestSkinLibrary()
	defer lib.Shutdown()

	err := lib.CancelScan()
	var svcErr *domain.ServiceError
	assert.ErrorAs(t, err, &svcErr)
}

// blockingProber holds the first Probe until released.
type blockingProber struct {
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func (p *blockingProber) Probe(path string) (domain.SkinEntry, error) {
	p.once.Do(func() {
		close(p.entered)
		<-p.release
	})
	return domain.SkinEntry{Path: path, Name: filepath.Base(path)}, nil
}

func TestSkinLibrary_CancelScan(t *testing.T) {
	defer testutil.VerifyNoLeaks(t)

	prober := &blockingProber{entered: make(chan struct{}), release: make(chan struct{})}
	bus := eventbus.NewSyncEventBus()
	events := &eventLog{}
	bus.SubscribeAll(events.record)
	lib := NewSkinLibrary(logger.NewTestLogger(), prober, bus)

	dir := createTestSkinFolder(t)

	type result struct {
		skins []domain.SkinEntry
		err   error
	}
	done := make(chan result, 1)
	go func() {
		skins, err := lib.ScanFolder(dir)
		done <- result{skins, err}
	}()

	<-prober.entered
	assert.True(t, lib.IsScanning())

	// A second scan is rejected while the first runs
	_, err := lib.ScanFolder(dir)
	var svcErr *domain.ServiceError
	require.ErrorAs(t, err, &svcErr)

	require.NoError(t, lib.CancelScan())
	close(prober.release)

	select {
	case r := <-done:
		assert.ErrorIs(t, r.err, domain.ErrScanCancelled)
		assert.Len(t, r.skins, 1)
	case <-time.After(5 * time.Second):
		t.Fatal("scan did not stop")
	}

	assert.False(t, lib.IsScanning())
	assert.Len(t, events.ofType(domain.EventSkinScanCancelled), 1)
	assert.Empty(t, events.ofType(domain.EventSkinScanCompleted))
	require.NoError(t, bus.Close())
}
