package ports

import (
	"context"

	"github.com/tejashwikalptaru/skinamp/internal/domain"
)

// ArchiveLoader opens a .wsz file and returns its entries.
type ArchiveLoader interface {
	// Load reads the archive at path. Errors are *domain.ArchiveError unless ctx
	// was cancelled, in which case ctx.Err() is returned.
	// Implementations must not leave open handles or temp files behind.
	Load(ctx context.Context, path string) (*domain.SkinArchive, error)
}

// SkinProber identifies skin archives without inflating them.
type SkinProber interface {
	// Probe reads the file header. Errors are *domain.ArchiveError.
	Probe(path string) (domain.SkinEntry, error)
}

// BitmapDecoder turns BMP bytes into an RGBA raster with color-key transparency.
type BitmapDecoder interface {
	// Decode validates the header before touching pixels.
	// Errors are *domain.BitmapError.
	Decode(data []byte) (*domain.Bitmap, error)
}

// ConfigParser builds a SkinConfig from the text files of an archive.
type ConfigParser interface {
	// Parse never fails: malformed or missing files fall back to defaults and are
	// reported in the returned warnings.
	Parse(files map[string][]byte) (domain.SkinConfig, []error)
}

// SpriteStore hands out sprites for a skin key, extracting them on first use.
type SpriteStore interface {
	// Sprite returns the cached sprite or extracts it from the skin's sheet.
	// Returns domain.ErrSkinNotCached, domain.ErrSpriteNotFound, domain.ErrSheetMissing
	// or a *domain.ExtractionError.
	Sprite(skinKey, name string) (*domain.Sprite, error)
}

// AssetCache is the bounded, process-wide store of loaded skins.
//
// Thread-safety: reads may run concurrently with a load inserting a new skin.
type AssetCache interface {
	SpriteStore

	// Put inserts a skin, evicting least recently used skins to fit the budget.
	// Returns domain.ErrCacheEntryTooLarge when the skin alone exceeds the budget.
	Put(skin *domain.Skin) error

	// Lookup returns a resident skin and marks it as recently used.
	Lookup(skinKey string) (*domain.Skin, bool)

	// Remove drops a skin. Unknown keys are ignored.
	Remove(skinKey string)

	// UsedBytes returns the estimated resident size.
	UsedBytes() int64

	// Budget returns the configured byte budget.
	Budget() int64
}

// PreferencesRepository persists skin related user preferences.
//
// Thread-safety: Implementations must be thread-safe.
type PreferencesRepository interface {
	// SaveLastSkin persists the path of the last applied skin.
	SaveLastSkin(path string) error

	// LoadLastSkin returns the last applied skin path, or "" if none was saved.
	LoadLastSkin() (string, error)

	// SaveDoubleSize persists the double-size rendering flag.
	SaveDoubleSize(enabled bool) error

	// LoadDoubleSize returns the double-size flag, false by default.
	LoadDoubleSize() (bool, error)

	// SaveSkinDirectory persists the folder skins are browsed from.
	SaveSkinDirectory(dir string) error

	// LoadSkinDirectory returns the saved skin folder, or "" if none was saved.
	LoadSkinDirectory() (string, error)

	// Clear removes all saved preferences.
	Clear() error
}
