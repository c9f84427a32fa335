package service

import (
	"errors"
	"image"
	"log/slog"

	"github.com/tejashwikalptaru/skinamp/internal/adapter/bitmap"
	"github.com/tejashwikalptaru/skinamp/internal/domain"
	"github.com/tejashwikalptaru/skinamp/internal/ports"
)

// Skin is the render-facing handle of a loaded skin. Sprites are served from the
// asset cache; anything the skin cannot provide comes from the default skin.
//
// Returned sprites are shared with the cache and must not be modified.
type Skin struct {
	logger   *slog.Logger
	model    *domain.Skin
	store    ports.SpriteStore
	fallback *Skin
}

func newSkin(logger *slog.Logger, model *domain.Skin, store ports.SpriteStore, fallback *Skin) *Skin {
	return &Skin{logger: logger, model: model, store: store, fallback: fallback}
}

// Key returns the cache identity of the skin.
func (s *Skin) Key() string { return s.model.Key }

// Name returns the display name.
func (s *Skin) Name() string { return s.model.Name }

// Path returns the archive path, empty for the default skin.
func (s *Skin) Path() string { return s.model.Path }

// Config returns the parsed text configs.
func (s *Skin) Config() domain.SkinConfig { return s.model.Config }

// Warnings returns the recoverable problems met while loading.
func (s *Skin) Warnings() []error { return s.model.Warnings }

// IsDefault reports whether this is the built-in skin.
func (s *Skin) IsDefault() bool { return s.fallback == nil }

// Source exposes the decoded sheets. Callers must treat it as read-only.
func (s *Skin) Source() *domain.Skin { return s.model }

// Sprite returns the named sprite. When this skin lacks the sheet, the sheet is
// too small or the skin has been evicted, the default skin's sprite is returned.
// ok is false only for names that are not in the sprite map.
func (s *Skin) Sprite(name string) (*domain.Sprite, bool) {
	sprite, err := s.store.Sprite(s.model.Key, name)
	if err == nil {
		return sprite, true
	}
	if errors.Is(err, domain.ErrSpriteNotFound) || s.fallback == nil {
		return nil, false
	}

	s.logger.Debug("sprite falls back to default skin",
		slog.String("skin", s.model.Key),
		slog.String("sprite", name),
		slog.String("reason", err.Error()))
	return s.fallback.Sprite(name)
}

// Scaled returns the sprite enlarged by factor with nearest-neighbour sampling.
func (s *Skin) Scaled(name string, factor int) (*domain.Sprite, bool) {
	sprite, ok := s.Sprite(name)
	if !ok {
		return nil, false
	}
	return bitmap.Scale(sprite, factor), true
}

// Text renders str with the skin's 5x6 bitmap font. Characters without a glyph
// are drawn as a space.
func (s *Skin) Text(str string) *image.NRGBA {
	runes := []rune(str)
	img := image.NewNRGBA(image.Rect(0, 0, len(runes)*domain.GlyphWidth, domain.GlyphHeight))

	space, _ := s.Sprite(domain.GlyphSpriteName(' '))
	for i, r := range runes {
		glyph := space
		if region, ok := domain.GlyphFor(r); ok {
			if g, ok := s.Sprite(region.Name); ok {
				glyph = g
			}
		}
		if glyph == nil {
			continue
		}
		x := i * domain.GlyphWidth
		for y := 0; y < domain.GlyphHeight; y++ {
			from := glyph.Image.PixOffset(0, y)
			to := img.PixOffset(x, y)
			copy(img.Pix[to:to+domain.GlyphWidth*4], glyph.Image.Pix[from:from+domain.GlyphWidth*4])
		}
	}
	return img
}
