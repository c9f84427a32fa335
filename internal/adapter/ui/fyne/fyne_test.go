package fyne

import (
	"image/color"
	"sync"
	"testing"

	"fyne.io/fyne/v2/test"
	"github.com/tejashwikalptaru/skinamp/internal/adapter/archive"
	"github.com/tejashwikalptaru/skinamp/internal/adapter/bitmap"
	"github.com/tejashwikalptaru/skinamp/internal/adapter/cache"
	"github.com/tejashwikalptaru/skinamp/internal/adapter/eventbus"
	"github.com/tejashwikalptaru/skinamp/internal/adapter/repository/memory"
	"github.com/tejashwikalptaru/skinamp/internal/adapter/skinconfig"
	"github.com/tejashwikalptaru/skinamp/internal/domain"
	"github.com/tejashwikalptaru/skinamp/internal/logger"
	"github.com/tejashwikalptaru/skinamp/internal/service"
	"github.com/tejashwikalptaru/skinamp/internal/testutil"
)

var (
	red  = color.NRGBA{R: 200, G: 10, B: 10, A: 255}
	blue = color.NRGBA{R: 10, G: 10, B: 200, A: 255}
)

type fixture struct {
	manager *service.SkinManager
	library *service.SkinLibrary
	bus     *eventbus.SyncEventBus
	prefs   *memory.PreferencesRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	app := test.NewApp()
	t.Cleanup(app.Quit)

	log := logger.NewTestLogger()
	bus := eventbus.NewSyncEventBus()
	prefs := memory.NewPreferencesRepository(app.Preferences())
	loader := archive.NewLoader(log, archive.DefaultOptions())
	m := service.NewSkinManager(
		log,
		loader,
		bitmap.NewDecoder(bitmap.Options{}),
		skinconfig.NewParser(log),
		cache.New(log, cache.Options{}),
		bus,
		prefs,
	)
	t.Cleanup(func() { _ = m.Shutdown() })

	return &fixture{manager: m, library: service.NewSkinLibrary(log, loader, bus), bus: bus, prefs: prefs}
}

func writeSolidSkin(t *testing.T, name string, fill color.NRGBA) string {
	t.Helper()
	return testutil.WriteSkin(t, name, testutil.RequiredSheetFiles(fill))
}

// fakeView records presenter calls.
type fakeView struct {
	mu            sync.Mutex
	name          string
	scale         int
	notifications []string
	skins         []domain.SkinEntry
}

func (v *fakeView) SetSkinName(name string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.name = name
}

func (v *fakeView) SetScale(factor int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.scale = factor
}

func (v *fakeView) ShowNotification(_, message string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.notifications = append(v.notifications, message)
}

func (v *fakeView) SetSkinList(skins []domain.SkinEntry) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.skins = skins
}

func (v *fakeView) skinNames() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	names := make([]string, len(v.skins))
	for i, s := range v.skins {
		names[i] = s.Name
	}
	return names
}

func (v *fakeView) snapshot() (string, int, []string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.name, v.scale, append([]string(nil), v.notifications...)
}
