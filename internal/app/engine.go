package app

import (
	"fmt"
	"log/slog"

	"github.com/tejashwikalptaru/skinamp/internal/adapter/archive"
	"github.com/tejashwikalptaru/skinamp/internal/adapter/bitmap"
	"github.com/tejashwikalptaru/skinamp/internal/adapter/cache"
	"github.com/tejashwikalptaru/skinamp/internal/adapter/eventbus"
	"github.com/tejashwikalptaru/skinamp/internal/adapter/skinconfig"
	"github.com/tejashwikalptaru/skinamp/internal/domain"
	"github.com/tejashwikalptaru/skinamp/internal/ports"
	"github.com/tejashwikalptaru/skinamp/internal/service"
)

// Engine is the headless skin pipeline: event bus, cache and skin manager.
// The GUI and the CLI both build on it.
type Engine struct {
	Logger  *slog.Logger
	Bus     *eventbus.SyncEventBus
	Cache   *cache.AssetCache
	Manager *service.SkinManager
	Library *service.SkinLibrary
}

// NewEngine wires the skin pipeline. prefs may be nil.
func NewEngine(config Config, log *slog.Logger, prefs ports.PreferencesRepository) *Engine {
	e := &Engine{Logger: log}

	// Step 1: Create an event bus
	e.Bus = eventbus.NewSyncEventBus()
	e.Bus.SetLogger(log.With(slog.String("component", "eventbus")))

	// Step 2: Create the asset cache; evictions are announced on the bus
	e.Cache = cache.New(log.With(slog.String("component", "cache")), cache.Options{
		BudgetBytes: config.CacheBudgetBytes,
		OnEvict: func(key string, freed, used int64) {
			e.Bus.Publish(domain.NewCacheEvictedEvent(key, freed, used))
		},
	})

	// Step 3: Create the pipeline adapters
	loader := archive.NewLoader(log.With(slog.String("component", "archive")), config.ArchiveOptions())
	decoder := bitmap.NewDecoder(bitmap.Options{
		ColorKey:      config.ColorKeyNRGBA(),
		AllowPaletted: config.AllowPalettedBitmaps,
	})
	parser := skinconfig.NewParser(log.With(slog.String("component", "skinconfig")))

	// Step 4: Create the skin manager
	e.Manager = service.NewSkinManager(
		log.With(slog.String("service", "skin")),
		loader,
		decoder,
		parser,
		e.Cache,
		e.Bus,
		prefs,
	)

	// Step 5: Create the skin library; it checks files with the same archive loader
	e.Library = service.NewSkinLibrary(log.With(slog.String("service", "library")), loader, e.Bus)

	return e
}

// Shutdown stops the library and the manager, then closes the bus.
func (e *Engine) Shutdown() error {
	if err := e.Library.Shutdown(); err != nil {
		e.Logger.Debug("skin library shutdown", slog.Any("error", err))
	}
	if err := e.Manager.Shutdown(); err != nil {
		return fmt.Errorf("failed to shutdown skin manager: %w", err)
	}
	if err := e.Bus.Close(); err != nil {
		e.Logger.Debug("event bus close", slog.Any("error", err))
	}
	return nil
}
