// Package fyne provides Fyne UI adapter implementations.
// This package renders the current skin with the Fyne toolkit.
package fyne

import (
	"errors"
	"log/slog"
	"strings"
	"sync"

	fyneapp "fyne.io/fyne/v2"
	"github.com/tejashwikalptaru/skinamp/internal/domain"
	"github.com/tejashwikalptaru/skinamp/internal/ports"
	"github.com/tejashwikalptaru/skinamp/internal/service"
)

// SkinView defines the interface for UI updates.
// The actual UI implementation (SkinWindow) must implement this interface.
type SkinView interface {
	// SetSkinName shows the name of the current skin.
	SetSkinName(name string)

	// SetScale switches between normal and double-size rendering.
	SetScale(factor int)

	// ShowNotification displays a user-facing message.
	ShowNotification(title, message string)

	// SetSkinList shows the skins found in the skin folder.
	SetSkinList(skins []domain.SkinEntry)
}

// Presenter coordinates the skin manager and the skinned window (MVP).
//
// Responsibilities:
// - Map skin events to view updates on the Fyne thread
// - Translate menu commands to skin manager calls
// - Persist view preferences
//
// Thread-safety: All operations are thread-safe via sync.Mutex.
type Presenter struct {
	// Dependencies
	logger  *slog.Logger
	manager *service.SkinManager
	library *service.SkinLibrary
	prefs   ports.PreferencesRepository
	bus     ports.EventBus
	view    SkinView

	// Presentation state
	scale  int
	subIDs []domain.SubscriptionID

	// Concurrency control
	mu           sync.Mutex
	scanMu       sync.Mutex // serializes folder scans
	scans        sync.WaitGroup
	shutdownOnce sync.Once
}

// NewPresenter creates a new presenter and syncs the view with the current skin.
// library may be nil, in which case no skin list is offered.
func NewPresenter(
	logger *slog.Logger,
	manager *service.SkinManager,
	library *service.SkinLibrary,
	prefs ports.PreferencesRepository,
	bus ports.EventBus,
	view SkinView,
) *Presenter {
	p := &Presenter{
		logger:  logger,
		manager: manager,
		library: library,
		prefs:   prefs,
		bus:     bus,
		view:    view,
		scale:   1,
	}

	p.subscribeToEvents()
	p.syncInitialState()

	return p
}

func (p *Presenter) subscribeToEvents() {
	subscriptions := map[domain.EventType]domain.EventHandler{
		domain.EventSkinChanged:       p.onSkinChanged,
		domain.EventSkinLoadFailed:    p.onSkinLoadFailed,
		domain.EventSkinScanCompleted: p.onSkinScanCompleted,
	}

	for eventType, handler := range subscriptions {
		p.subIDs = append(p.subIDs, p.bus.Subscribe(eventType, handler))
	}
}

func (p *Presenter) syncInitialState() {
	p.view.SetSkinName(p.manager.Current().Name())
	p.RefreshSkinList()

	if p.prefs == nil {
		return
	}
	double, err := p.prefs.LoadDoubleSize()
	if err != nil {
		p.logger.Warn("failed to load double size", slog.Any("error", err))
		return
	}
	if double {
		p.mu.Lock()
		p.scale = 2
		p.mu.Unlock()
		p.view.SetScale(2)
	}
}

// Event handlers

func (p *Presenter) onSkinChanged(event domain.Event) {
	e, ok := event.(domain.SkinChangedEvent)
	if !ok {
		return
	}
	name := e.Name
	if name == "" {
		name = p.manager.Current().Name()
	}
	fyneapp.Do(func() {
		p.view.SetSkinName(name)
	})
}

func (p *Presenter) onSkinLoadFailed(event domain.Event) {
	e, ok := event.(domain.SkinLoadFailedEvent)
	if !ok {
		return
	}
	fyneapp.Do(func() {
		p.view.ShowNotification("Skin not loaded", e.Message)
	})
}

func (p *Presenter) onSkinScanCompleted(event domain.Event) {
	e, ok := event.(domain.SkinScanCompletedEvent)
	if !ok {
		return
	}
	if e.Folder != p.SkinDirectory() {
		return
	}
	skins := e.Skins
	fyneapp.Do(func() {
		p.view.SetSkinList(skins)
	})
}

// User commands

// OnSkinOpened starts loading the chosen file. The result arrives as an event.
func (p *Presenter) OnSkinOpened(path string) error {
	if strings.TrimSpace(path) == "" {
		return domain.NewValidationError("path", path, "must not be empty")
	}
	if !service.IsSkinFile(path) {
		return domain.NewValidationError("path", path, "not a skin archive")
	}

	p.logger.Info("skin chosen", slog.String("path", path))
	p.manager.RequestSkin(path)
	return nil
}

// OnReloadClicked re-reads the current skin from disk.
func (p *Presenter) OnReloadClicked() {
	cur := p.manager.Current()
	if cur.IsDefault() {
		return
	}
	p.manager.RequestSkin(cur.Path())
}

// OnDoubleSizeToggled flips double-size mode and saves it. It may be called from
// any goroutine; the view is updated on the Fyne thread.
func (p *Presenter) OnDoubleSizeToggled() {
	p.mu.Lock()
	if p.scale == 1 {
		p.scale = 2
	} else {
		p.scale = 1
	}
	scale := p.scale
	p.mu.Unlock()

	fyneapp.Do(func() {
		p.view.SetScale(scale)
	})
	if p.prefs != nil {
		if err := p.prefs.SaveDoubleSize(scale == 2); err != nil {
			p.logger.Warn("failed to save double size", slog.Any("error", err))
		}
	}
}

// OnSkinDirectorySelected remembers the folder skins are browsed from and
// rescans it.
func (p *Presenter) OnSkinDirectorySelected(dir string) error {
	if p.prefs == nil {
		return nil
	}
	if err := p.prefs.SaveSkinDirectory(dir); err != nil {
		return err
	}
	p.RefreshSkinList()
	return nil
}

// RefreshSkinList scans the skin folder in the background. The view is updated
// when the scan completes.
func (p *Presenter) RefreshSkinList() {
	if p.library == nil {
		return
	}
	dir := p.SkinDirectory()
	if dir == "" {
		return
	}

	p.scans.Add(1)
	go func() {
		defer p.scans.Done()
		p.scanMu.Lock()
		defer p.scanMu.Unlock()
		if _, err := p.library.ScanFolder(dir); err != nil && !errors.Is(err, domain.ErrScanCancelled) {
			p.logger.Debug("skin folder not scanned", slog.String("dir", dir), slog.Any("error", err))
		}
	}()
}

// SkinDirectory returns the remembered skin folder, or "".
func (p *Presenter) SkinDirectory() string {
	if p.prefs == nil {
		return ""
	}
	dir, err := p.prefs.LoadSkinDirectory()
	if err != nil {
		p.logger.Warn("failed to load skin directory", slog.Any("error", err))
		return ""
	}
	return dir
}

// Scale returns the current render scale.
func (p *Presenter) Scale() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.scale
}

// Shutdown removes the event subscriptions and stops any folder scan.
// It's safe to call multiple times (idempotent).
func (p *Presenter) Shutdown() {
	p.shutdownOnce.Do(func() {
		for _, id := range p.subIDs {
			p.bus.Unsubscribe(id)
		}
		if p.library != nil && p.library.IsScanning() {
			_ = p.library.CancelScan()
		}
		p.scans.Wait()
	})
}
