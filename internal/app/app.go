// Package app provides application-level orchestration and dependency injection.
// This package wires together all components and manages the application lifecycle.
package app

import (
	"fmt"
	"log/slog"
	"sync"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"
	"github.com/tejashwikalptaru/skinamp/internal/adapter/repository/memory"
	fyneui "github.com/tejashwikalptaru/skinamp/internal/adapter/ui/fyne"
	"github.com/tejashwikalptaru/skinamp/internal/adapter/watcher"
	"github.com/tejashwikalptaru/skinamp/internal/domain"
	"github.com/tejashwikalptaru/skinamp/internal/logger"
	"github.com/tejashwikalptaru/skinamp/internal/ports"
	"github.com/tejashwikalptaru/skinamp/internal/service"
)

// Application is the root application structure that holds all dependencies.
// It follows the Dependency Injection pattern with constructor-based injection.
//
// The Application struct is responsible for:
// - Creating and wiring all dependencies
// - Managing the application lifecycle (startup, shutdown)
// - Providing a clean entry point for the CLI
type Application struct {
	// Core dependencies
	logger  *slog.Logger
	fyneApp fyne.App
	config  Config

	// Skin pipeline
	engine *Engine

	// Repositories
	preferencesRepo ports.PreferencesRepository

	// Optional hot reload
	watcher *watcher.Watcher

	// UI
	binder     *fyneui.SpriteBinder
	presenter  *fyneui.Presenter
	mainWindow *fyneui.SkinWindow

	shutdownOnce sync.Once
}

// NewApplication creates a new application with all dependencies wired.
// This is the main dependency injection function.
func NewApplication(config Config) (*Application, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	app := &Application{config: config}

	// Step 1: Create Fyne application
	if config.TestFyneApp != nil {
		app.fyneApp = config.TestFyneApp
	} else {
		app.fyneApp = fyneapp.NewWithID(config.AppID)
	}

	// Step 2: Create logger
	app.logger = logger.NewLogger(config.LoggerConfig())
	app.logger.Info("initializing application",
		slog.String("app_id", config.AppID),
		slog.String("version", GetVersionInfo().FullString()))

	// Step 3: Create repositories
	app.preferencesRepo = memory.NewPreferencesRepository(app.fyneApp.Preferences())
	app.seedSkinDirectory()

	// Step 4: Create the skin pipeline
	app.engine = NewEngine(config, app.logger, app.preferencesRepo)
	app.engine.Bus.Subscribe(domain.EventCacheEvicted, func(event domain.Event) {
		if e, ok := event.(domain.CacheEvictedEvent); ok {
			app.logger.Debug("skin evicted",
				slog.String("key", e.Key),
				slog.Int64("freed", e.FreedBytes),
				slog.Int64("used", e.UsedBytes))
		}
	})

	// Step 5: Hot reload of the current skin file
	if config.WatchSkins {
		if err := app.startWatcher(); err != nil {
			// Non-fatal - skins still load, they just won't reload on change
			app.logger.Warn("skin watcher disabled", slog.Any("error", err))
		}
	}

	// Step 6: Create UI
	app.binder = fyneui.NewSpriteBinder(app.logger.With(slog.String("component", "binder")), app.engine.Manager)
	app.mainWindow = fyneui.NewSkinWindow(app.fyneApp, app.binder, app.logger.With(slog.String("component", "window")))

	// Step 7: Create Presenter and wire with UI
	app.presenter = fyneui.NewPresenter(
		app.logger.With(slog.String("component", "presenter")),
		app.engine.Manager,
		app.engine.Library,
		app.preferencesRepo,
		app.engine.Bus,
		app.mainWindow,
	)
	app.mainWindow.SetPresenter(app.presenter)

	return app, nil
}

// seedSkinDirectory stores the configured skin folder on first run.
func (a *Application) seedSkinDirectory() {
	dir, err := a.preferencesRepo.LoadSkinDirectory()
	if err != nil || dir != "" || a.config.SkinDirectory == "" {
		return
	}
	if err := a.preferencesRepo.SaveSkinDirectory(a.config.SkinDirectory); err != nil {
		a.logger.Warn("failed to save skin directory", slog.Any("error", err))
	}
}

func (a *Application) startWatcher() error {
	manager := a.engine.Manager
	w, err := watcher.New(
		a.logger.With(slog.String("component", "watcher")),
		a.engine.Bus,
		manager.RequestSkin,
		watcher.Options{Debounce: a.config.WatchDebounce},
	)
	if err != nil {
		return err
	}
	a.watcher = w

	manager.OnSkinChanged(func(skin *service.Skin) {
		if skin.IsDefault() {
			w.Unwatch()
			return
		}
		if err := w.Watch(skin.Path()); err != nil {
			a.logger.Warn("failed to watch skin", slog.String("path", skin.Path()), slog.Any("error", err))
		}
	})
	return nil
}

// RestoreLastSkin requests the skin used in the previous session, if any.
// The load runs in the background.
func (a *Application) RestoreLastSkin() {
	path, err := a.preferencesRepo.LoadLastSkin()
	if err != nil {
		a.logger.Warn("failed to read last skin", slog.Any("error", err))
		return
	}
	if path == "" {
		return
	}
	a.engine.Manager.RequestSkin(path)
}

// OpenSkin requests path as the current skin.
func (a *Application) OpenSkin(path string) error {
	return a.presenter.OnSkinOpened(path)
}

// Run starts the application.
// It blocks until the window is closed.
func (a *Application) Run() {
	a.logger.Info("Skinamp started")
	a.mainWindow.ShowAndRun()
}

// Shutdown gracefully shuts down the application.
// It's safe to call multiple times (idempotent).
func (a *Application) Shutdown() error {
	var err error
	a.shutdownOnce.Do(func() {
		a.logger.Info("shutting down application")

		if a.presenter != nil {
			a.presenter.Shutdown()
		}
		if a.binder != nil {
			a.binder.Close()
		}

		if a.watcher != nil {
			if werr := a.watcher.Close(); werr != nil {
				a.logger.Warn("failed to close skin watcher", slog.Any("error", werr))
			}
		}

		err = a.engine.Shutdown()

		a.logger.Info("application shutdown complete")
	})
	return err
}

// GetManager returns the skin manager.
func (a *Application) GetManager() *service.SkinManager {
	return a.engine.Manager
}

// GetEngine returns the skin pipeline.
func (a *Application) GetEngine() *Engine {
	return a.engine
}

// GetEventBus returns the event bus.
func (a *Application) GetEventBus() ports.EventBus {
	return a.engine.Bus
}

// GetFyneApp returns the Fyne application.
func (a *Application) GetFyneApp() fyne.App {
	return a.fyneApp
}

// GetWindow returns the skinned main window.
func (a *Application) GetWindow() *fyneui.SkinWindow {
	return a.mainWindow
}

// GetPreferences returns the preferences repository.
func (a *Application) GetPreferences() ports.PreferencesRepository {
	return a.preferencesRepo
}

// Watching reports whether hot reload is active.
func (a *Application) Watching() bool {
	return a.watcher != nil
}
