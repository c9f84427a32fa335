// Package memory provides preference storage backed by Fyne's preferences API.
package memory

import (
	"path/filepath"
	"strings"
	"sync"

	"fyne.io/fyne/v2"
	"github.com/tejashwikalptaru/skinamp/internal/domain"
	"github.com/tejashwikalptaru/skinamp/internal/ports"
)

const (
	keyLastSkin   = "skins.last"
	keyDoubleSize = "skins.double_size"
	keySkinDir    = "skins.directory"
)

// PreferencesRepository implements ports.PreferencesRepository using Fyne preferences.
//
// Thread-safe: All operations protected by sync.RWMutex.
type PreferencesRepository struct {
	prefs fyne.Preferences
	mu    sync.RWMutex
}

// NewPreferencesRepository creates a new preferences' repository.
// The preferences parameter should be obtained from fyne.CurrentApp().Preferences().
func NewPreferencesRepository(prefs fyne.Preferences) *PreferencesRepository {
	return &PreferencesRepository{
		prefs: prefs,
	}
}

// SaveLastSkin persists the path of the last applied skin. An empty path clears it.
func (r *PreferencesRepository) SaveLastSkin(path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	path = strings.TrimSpace(path)
	if path == "" {
		r.prefs.RemoveValue(keyLastSkin)
		return nil
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return domain.NewServiceError("PreferencesRepository", "SaveLastSkin", "failed to resolve path", err)
	}

	r.prefs.SetString(keyLastSkin, abs)
	return nil
}

// LoadLastSkin retrieves the last applied skin path, or "" if none was saved.
func (r *PreferencesRepository) LoadLastSkin() (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.prefs.String(keyLastSkin), nil
}

// SaveDoubleSize persists the double-size rendering flag.
func (r *PreferencesRepository) SaveDoubleSize(enabled bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.prefs.SetBool(keyDoubleSize, enabled)
	return nil
}

// LoadDoubleSize retrieves the double-size flag.
func (r *PreferencesRepository) LoadDoubleSize() (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.prefs.BoolWithFallback(keyDoubleSize, false), nil
}

// SaveSkinDirectory persists the folder skins are browsed from.
func (r *PreferencesRepository) SaveSkinDirectory(dir string) error {
	if strings.TrimSpace(dir) == "" {
		return domain.NewValidationError("directory", dir, "must not be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.prefs.SetString(keySkinDir, filepath.Clean(dir))
	return nil
}

// LoadSkinDirectory retrieves the saved skin folder, or "" if none was saved.
func (r *PreferencesRepository) LoadSkinDirectory() (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.prefs.String(keySkinDir), nil
}

// Clear removes all saved preferences.
func (r *PreferencesRepository) Clear() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.prefs.RemoveValue(keyLastSkin)
	r.prefs.RemoveValue(keyDoubleSize)
	r.prefs.RemoveValue(keySkinDir)

	return nil
}

// Verify interface implementation
var _ ports.PreferencesRepository = (*PreferencesRepository)(nil)
