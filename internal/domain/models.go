// Package domain contains core skin models and logic with no external dependencies.
// This package defines the fundamental entities of the Skinamp classic skin engine.
package domain

import (
	"image"
	"image/color"
	"time"
)

// DefaultColorKey is the magenta color treated as fully transparent in skin bitmaps.
var DefaultColorKey = color.NRGBA{R: 255, G: 0, B: 255, A: 255}

// SkinArchive is an opened skin package: file names mapped to raw bytes.
// It is owned by one load operation and discarded once the bitmaps are decoded.
type SkinArchive struct {
	// Key identifies the archive contents (truncated SHA-256 of the archive bytes)
	Key string

	// Path is the archive location on disk
	Path string

	// Files maps lowercased base file names to their raw bytes
	Files map[string][]byte
}

// File returns the bytes stored under the normalized name.
func (a *SkinArchive) File(name string) ([]byte, bool) {
	if a == nil {
		return nil, false
	}
	data, ok := a.Files[name]
	return data, ok
}

// Bitmap is a decoded RGBA raster. Pixels matching the color key have alpha 0.
type Bitmap struct {
	// Image holds the pixels in non-premultiplied RGBA
	Image *image.NRGBA

	// SourceDepth is the bit depth of the BMP the raster was decoded from
	SourceDepth int
}

// Width returns the raster width in pixels.
func (b *Bitmap) Width() int {
	return b.Image.Rect.Dx()
}

// Height returns the raster height in pixels.
func (b *Bitmap) Height() int {
	return b.Image.Rect.Dy()
}

// Bounds returns the raster bounds.
func (b *Bitmap) Bounds() image.Rectangle {
	return b.Image.Rect
}

// SizeBytes is the cache estimate for the raster: width*height*4.
func (b *Bitmap) SizeBytes() int64 {
	return int64(b.Width()) * int64(b.Height()) * 4
}

// ButtonState is the visual state variant of a sprite.
type ButtonState string

// Button states used by the sprite map.
const (
	StateNone            ButtonState = ""
	StateNormal          ButtonState = "normal"
	StatePressed         ButtonState = "pressed"
	StateSelected        ButtonState = "selected"
	StateSelectedPressed ButtonState = "selectedPressed"
	StateHover           ButtonState = "hover"
	StateDisabled        ButtonState = "disabled"
)

// SpriteRegion is a named rectangle on a specific sheet.
// Width and height are always positive.
type SpriteRegion struct {
	Name  string
	Sheet string
	Rect  image.Rectangle
	State ButtonState
}

// Sprite is the cropped raster for one SpriteRegion.
// Sprites are owned by the cache; callers must treat Image as read-only.
type Sprite struct {
	Region SpriteRegion
	Image  *image.NRGBA
}

// SizeBytes is the cache estimate for the sprite: width*height*4.
func (s *Sprite) SizeBytes() int64 {
	b := s.Image.Rect
	return int64(b.Dx()) * int64(b.Dy()) * 4
}

// RegionMask is the per-pixel shape of the main window.
// Bits is row-major; true means the pixel is part of the visible window.
type RegionMask struct {
	Width  int
	Height int
	Bits   []bool
}

// At reports whether pixel (x, y) is inside the window shape.
// Coordinates outside the mask are reported as outside.
func (m RegionMask) At(x, y int) bool {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return false
	}
	return m.Bits[y*m.Width+x]
}

// Count returns the number of visible pixels.
func (m RegionMask) Count() int {
	n := 0
	for _, b := range m.Bits {
		if b {
			n++
		}
	}
	return n
}

// Standard WinAmp main window dimensions.
const (
	MainWindowWidth  = 275
	MainWindowHeight = 116
)

// DefaultRegionMask returns a fully opaque mask of the standard main window size.
func DefaultRegionMask() RegionMask {
	bits := make([]bool, MainWindowWidth*MainWindowHeight)
	for i := range bits {
		bits[i] = true
	}
	return RegionMask{Width: MainWindowWidth, Height: MainWindowHeight, Bits: bits}
}

// PlaylistColors is the [Text] section of pledit.txt.
type PlaylistColors struct {
	Normal     color.NRGBA
	Current    color.NRGBA
	NormalBG   color.NRGBA
	SelectedBG color.NRGBA
	MbBG       color.NRGBA
	MbFG       color.NRGBA
	Font       string
}

// DefaultPlaylistColors returns the classic green-on-black playlist colors.
func DefaultPlaylistColors() PlaylistColors {
	return PlaylistColors{
		Normal:     color.NRGBA{R: 0x00, G: 0xFF, B: 0x00, A: 0xFF},
		Current:    color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF},
		NormalBG:   color.NRGBA{R: 0x00, G: 0x00, B: 0x00, A: 0xFF},
		SelectedBG: color.NRGBA{R: 0x00, G: 0x00, B: 0xFF, A: 0xFF},
		MbBG:       color.NRGBA{R: 0x00, G: 0x00, B: 0x00, A: 0xFF},
		MbFG:       color.NRGBA{R: 0x00, G: 0xFF, B: 0x00, A: 0xFF},
		Font:       "Arial",
	}
}

// VisColorCount is the number of entries in viscolor.txt.
const VisColorCount = 24

// Semantic indices into VisColors.
const (
	VisBackground    = 0
	VisDots          = 1
	VisSpectrumTop   = 2
	VisSpectrumBase  = 17
	VisOscilloscope1 = 18
	VisOscilloscope5 = 22
	VisPeakDots      = 23
)

// VisColors is the ordered visualization palette.
type VisColors [VisColorCount]color.NRGBA

// DefaultVisColors returns the base skin visualization palette.
func DefaultVisColors() VisColors {
	triples := [VisColorCount][3]uint8{
		{0, 0, 0},
		{24, 33, 41},
		{239, 49, 16},
		{206, 41, 16},
		{214, 90, 0},
		{214, 102, 0},
		{214, 115, 0},
		{198, 123, 8},
		{222, 165, 24},
		{214, 181, 33},
		{189, 222, 41},
		{148, 222, 33},
		{41, 206, 16},
		{50, 190, 16},
		{57, 181, 16},
		{49, 156, 8},
		{41, 148, 0},
		{24, 132, 8},
		{255, 255, 255},
		{214, 214, 222},
		{181, 189, 189},
		{160, 170, 175},
		{148, 156, 165},
		{150, 150, 150},
	}
	var v VisColors
	for i, t := range triples {
		v[i] = color.NRGBA{R: t[0], G: t[1], B: t[2], A: 0xFF}
	}
	return v
}

// SkinConfig groups the parsed auxiliary text files. Immutable after parse.
type SkinConfig struct {
	Region   RegionMask
	Playlist PlaylistColors
	Vis      VisColors
}

// DefaultSkinConfig returns the documented defaults for every config file.
func DefaultSkinConfig() SkinConfig {
	return SkinConfig{
		Region:   DefaultRegionMask(),
		Playlist: DefaultPlaylistColors(),
		Vis:      DefaultVisColors(),
	}
}

// Skin is one loaded skin: decoded sheets plus config.
type Skin struct {
	// Key is the stable identity used by the asset cache
	Key string

	// Path is the archive the skin was loaded from (empty for the default skin)
	Path string

	// Name is a display name derived from the archive file name
	Name string

	// Sheets maps sheet file names (e.g. "main.bmp") to decoded rasters
	Sheets map[string]*Bitmap

	// Config holds the parsed text configs
	Config SkinConfig

	// Warnings lists recoverable problems met while loading
	Warnings []error
}

// Sheet returns the decoded raster for a sheet file name.
func (s *Skin) Sheet(name string) (*Bitmap, bool) {
	b, ok := s.Sheets[name]
	return b, ok
}

// MissingSheets returns the known sheets this skin does not carry.
func (s *Skin) MissingSheets() []string {
	var missing []string
	for _, name := range AllSheets() {
		if _, ok := s.Sheets[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}

// SizeBytes sums the cache estimate of every decoded sheet.
func (s *Skin) SizeBytes() int64 {
	var total int64
	for _, b := range s.Sheets {
		total += b.SizeBytes()
	}
	return total
}

// SkinEntry describes a skin archive found on disk. It is cheap to build:
// only the file header is read.
type SkinEntry struct {
	Path      string
	Name      string
	SizeBytes int64
	ModTime   time.Time
}

// ScanProgress reports how far a skin folder scan has got.
type ScanProgress struct {
	CurrentFile  string
	FilesScanned int
	TotalFiles   int
	SkinsFound   int
}
