// Package service provides the skin manager for the Skinamp skin engine.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tejashwikalptaru/skinamp/internal/adapter/archive"
	"github.com/tejashwikalptaru/skinamp/internal/domain"
	"github.com/tejashwikalptaru/skinamp/internal/ports"
)

// SkinManager owns the process-wide current skin.
//
// Each load runs Idle -> Loading -> Applied|Failed. Every request takes a
// sequence number; a new request cancels the one in flight, and a result whose
// number is no longer the latest is discarded without touching the cache or the
// current skin. Change events are published synchronously, in request order,
// right after the swap.
//
// Event handlers must not call LoadSkin synchronously; use RequestSkin.
type SkinManager struct {
	// Dependencies (injected)
	logger  *slog.Logger
	loader  ports.ArchiveLoader
	decoder ports.BitmapDecoder
	parser  ports.ConfigParser
	cache   ports.AssetCache
	bus     ports.EventBus
	prefs   ports.PreferencesRepository

	defaultSkin *Skin
	current     atomic.Pointer[Skin]

	// Request bookkeeping
	mu     sync.Mutex
	seq    uint64
	cancel context.CancelFunc
	closed bool
	wg     sync.WaitGroup

	// publishMu orders the latest-check, cache insert, swap and notification.
	publishMu sync.Mutex
}

// NewSkinManager creates a skin manager with the synthesized default skin
// already current. prefs may be nil.
func NewSkinManager(
	logger *slog.Logger,
	loader ports.ArchiveLoader,
	decoder ports.BitmapDecoder,
	parser ports.ConfigParser,
	cache ports.AssetCache,
	bus ports.EventBus,
	prefs ports.PreferencesRepository,
) *SkinManager {
	for _, err := range domain.ValidateSpriteMap() {
		logger.Error("sprite map self-check failed", slog.Any("error", err))
	}

	model := buildDefaultSkin()
	def := newSkin(logger, model, newPinnedStore(logger, model), nil)

	m := &SkinManager{
		logger:      logger,
		loader:      loader,
		decoder:     decoder,
		parser:      parser,
		cache:       cache,
		bus:         bus,
		prefs:       prefs,
		defaultSkin: def,
	}
	m.current.Store(def)

	logger.Debug("skin manager initialized")
	return m
}

// Current returns the skin in effect. It is never nil.
func (m *SkinManager) Current() *Skin {
	return m.current.Load()
}

// Default returns the built-in skin.
func (m *SkinManager) Default() *Skin {
	return m.defaultSkin
}

// OnSkinChanged subscribes fn to skin changes. fn receives the new current skin
// on the publishing goroutine.
func (m *SkinManager) OnSkinChanged(fn func(skin *Skin)) domain.SubscriptionID {
	return m.bus.Subscribe(domain.EventSkinChanged, func(domain.Event) {
		fn(m.Current())
	})
}

// RemoveSkinChanged cancels a subscription made with OnSkinChanged.
func (m *SkinManager) RemoveSkinChanged(id domain.SubscriptionID) {
	m.bus.Unsubscribe(id)
}

// RequestSkin starts LoadSkin on a tracked goroutine and returns immediately.
// The outcome is reported through the event bus.
func (m *SkinManager) RequestSkin(path string) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		m.logger.Debug("skin request after shutdown ignored", slog.String("path", path))
		return
	}
	m.wg.Add(1)
	m.mu.Unlock()

	go func() {
		defer m.wg.Done()
		_ = m.LoadSkin(context.Background(), path)
	}()
}

// Reload re-applies the current skin's archive, picking up changes on disk.
// It is a no-op while the default skin is current.
func (m *SkinManager) Reload(ctx context.Context) error {
	cur := m.Current()
	if cur.IsDefault() {
		return nil
	}
	return m.LoadSkin(ctx, cur.Path())
}

// RestoreLastSkin loads the skin saved by the last successful load, if any.
func (m *SkinManager) RestoreLastSkin(ctx context.Context) error {
	if m.prefs == nil {
		return nil
	}
	path, err := m.prefs.LoadLastSkin()
	if err != nil {
		return fmt.Errorf("read last skin: %w", err)
	}
	if path == "" {
		return nil
	}
	m.logger.Info("restoring last skin", slog.String("path", path))
	return m.LoadSkin(ctx, path)
}

// LoadSkin runs the whole pipeline in the caller's goroutine and, on success,
// makes the skin current. On failure the current skin is left untouched and a
// *domain.SkinLoadError is returned.
func (m *SkinManager) LoadSkin(ctx context.Context, path string) error {
	loadCtx, seq, err := m.begin(ctx)
	if err != nil {
		return err
	}
	defer m.finish(seq)

	start := time.Now()
	log := m.logger.With(slog.String("path", path), slog.Uint64("seq", seq))
	log.Debug("skin load started")
	m.bus.Publish(domain.NewSkinLoadStartedEvent(path, seq))

	model, err := m.build(loadCtx, path)
	if err != nil {
		return m.fail(log, path, seq, err)
	}

	m.publishMu.Lock()
	if latest := m.latest(); latest != seq {
		m.publishMu.Unlock()
		return m.supersede(log, path, seq, latest)
	}
	if err := loadCtx.Err(); err != nil {
		m.publishMu.Unlock()
		return m.fail(log, path, seq, err)
	}
	if resident, ok := m.cache.Lookup(model.Key); !ok || resident != model {
		if err := m.cache.Put(model); err != nil {
			m.publishMu.Unlock()
			return m.fail(log, path, seq, domain.NewSkinLoadError(domain.SkinLoadCache, path, seq, err))
		}
	}

	skin := newSkin(m.logger, model, m.cache, m.defaultSkin)
	previous := m.current.Swap(skin)
	duration := time.Since(start)
	m.bus.Publish(domain.NewSkinChangedEvent(model, previous.Key(), seq, duration))
	m.publishMu.Unlock()

	log.Info("skin applied",
		slog.String("key", model.Key),
		slog.Int("warnings", len(model.Warnings)),
		slog.Duration("duration", duration))

	if m.prefs != nil {
		if err := m.prefs.SaveLastSkin(path); err != nil {
			log.Warn("failed to save last skin", slog.Any("error", err))
		}
	}
	return nil
}

// begin registers a new request, cancelling the one in flight.
func (m *SkinManager) begin(ctx context.Context) (context.Context, uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, 0, domain.ErrManagerClosed
	}
	if m.cancel != nil {
		m.cancel()
	}
	m.seq++
	loadCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.wg.Add(1)
	return loadCtx, m.seq, nil
}

func (m *SkinManager) finish(seq uint64) {
	m.mu.Lock()
	if m.seq == seq && m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	m.mu.Unlock()
	m.wg.Done()
}

func (m *SkinManager) latest() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.seq
}

// build opens the archive and produces the skin model, reusing cached sheets
// when the same archive contents are already resident.
func (m *SkinManager) build(ctx context.Context, path string) (*domain.Skin, error) {
	arc, err := m.loader.Load(ctx, path)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, domain.NewSkinLoadError(domain.SkinLoadArchive, path, 0, err)
	}

	if cached, ok := m.cache.Lookup(arc.Key); ok {
		m.logger.Debug("skin served from cache", slog.String("key", arc.Key))
		if cached.Path == path {
			return cached, nil
		}
		// Same bytes under another name: share the sheets, not the identity fields.
		clone := *cached
		clone.Path = path
		clone.Name = archive.DisplayName(path)
		return &clone, nil
	}

	skin := &domain.Skin{
		Key:    arc.Key,
		Path:   path,
		Name:   archive.DisplayName(path),
		Sheets: make(map[string]*domain.Bitmap),
	}

	for _, sheet := range domain.AllSheets() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		data, ok := arc.File(sheet)
		if !ok {
			if domain.IsRequiredSheet(sheet) {
				skin.Warnings = append(skin.Warnings, fmt.Errorf("%w: %s", domain.ErrSheetMissing, sheet))
			}
			continue
		}

		bm, err := m.decoder.Decode(data)
		if err != nil {
			var bmErr *domain.BitmapError
			if errors.As(err, &bmErr) {
				bmErr.Sheet = sheet
			}
			m.logger.Warn("sheet skipped", slog.String("sheet", sheet), slog.Any("error", err))
			skin.Warnings = append(skin.Warnings, err)
			continue
		}
		if w := undersized(sheet, bm); w != nil {
			skin.Warnings = append(skin.Warnings, w)
		}
		skin.Sheets[sheet] = bm
	}

	if !hasRequiredSheet(skin) {
		return nil, domain.NewSkinLoadError(domain.SkinLoadMissingBitmaps, path, 0,
			fmt.Errorf("%w: %v", domain.ErrMissingRequiredBitmaps, errors.Join(skin.Warnings...)))
	}

	cfg, warnings := m.parser.Parse(arc.Files)
	skin.Config = cfg
	skin.Warnings = append(skin.Warnings, warnings...)
	return skin, nil
}

func hasRequiredSheet(skin *domain.Skin) bool {
	for _, sheet := range domain.RequiredSheets {
		if _, ok := skin.Sheets[sheet]; ok {
			return true
		}
	}
	return false
}

// undersized reports sprites that will not fit a sheet smaller than nominal.
func undersized(sheet string, bm *domain.Bitmap) error {
	n := 0
	for _, r := range domain.SpritesOnSheet(sheet) {
		if !r.Rect.In(bm.Bounds()) {
			n++
		}
	}
	if n == 0 {
		return nil
	}
	return fmt.Errorf("%s is %dx%d, %d sprites use the default skin: %w",
		sheet, bm.Width(), bm.Height(), n, domain.ErrExtractionOutOfBounds)
}

// fail classifies err, publishes the failure and returns a *domain.SkinLoadError.
func (m *SkinManager) fail(log *slog.Logger, path string, seq uint64, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		if latest := m.latest(); latest != seq {
			return m.supersede(log, path, seq, latest)
		}
		err = domain.NewSkinLoadError(domain.SkinLoadCancelled, path, seq, errors.Join(domain.ErrLoadCancelled, err))
	}

	var loadErr *domain.SkinLoadError
	if !errors.As(err, &loadErr) {
		loadErr = domain.NewSkinLoadError(domain.SkinLoadArchive, path, seq, err)
	}
	loadErr.Seq = seq

	log.Warn("skin load failed", slog.String("kind", string(loadErr.Kind)), slog.Any("error", loadErr.Err))
	m.bus.Publish(domain.NewSkinLoadFailedEvent(loadErr))
	return loadErr
}

func (m *SkinManager) supersede(log *slog.Logger, path string, seq, latest uint64) error {
	log.Debug("skin load superseded", slog.Uint64("latest", latest))
	m.bus.Publish(domain.NewSkinLoadSupersededEvent(path, seq, latest))
	return domain.NewSkinLoadError(domain.SkinLoadSuperseded, path, seq, domain.ErrLoadSuperseded)
}

// Shutdown cancels any load in flight and waits for tracked loads to return.
func (m *SkinManager) Shutdown() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	m.mu.Unlock()

	m.wg.Wait()
	m.logger.Debug("skin manager shut down")
	return nil
}
