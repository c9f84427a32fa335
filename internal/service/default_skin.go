package service

import (
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"sort"

	"github.com/tejashwikalptaru/skinamp/internal/adapter/bitmap"
	"github.com/tejashwikalptaru/skinamp/internal/domain"
	"github.com/tejashwikalptaru/skinamp/internal/ports"
	xdraw "golang.org/x/image/draw"
)

// DefaultSkinKey identifies the built-in skin. Archive keys are hex digests, so
// they can never collide with it.
const DefaultSkinKey = "default"

// defaultBase is the fill color of each synthesized sheet.
var defaultBase = map[string]color.NRGBA{
	domain.SheetMain:     {R: 0x21, G: 0x21, B: 0x31, A: 0xFF},
	domain.SheetCButtons: {R: 0x5A, G: 0x5E, B: 0x73, A: 0xFF},
	domain.SheetPlayPaus: {R: 0x00, G: 0x00, B: 0x00, A: 0xFF},
	domain.SheetNumbers:  {R: 0x00, G: 0x00, B: 0x00, A: 0xFF},
	domain.SheetNumsEx:   {R: 0x00, G: 0x00, B: 0x00, A: 0xFF},
	domain.SheetText:     {R: 0x00, G: 0x00, B: 0x00, A: 0xFF},
	domain.SheetTitleBar: {R: 0x31, G: 0x31, B: 0x4A, A: 0xFF},
	domain.SheetVolume:   {R: 0x10, G: 0x3A, B: 0x10, A: 0xFF},
	domain.SheetBalance:  {R: 0x10, G: 0x3A, B: 0x10, A: 0xFF},
	domain.SheetPosBar:   {R: 0x29, G: 0x29, B: 0x39, A: 0xFF},
	domain.SheetShufRep:  {R: 0x5A, G: 0x5E, B: 0x73, A: 0xFF},
	domain.SheetMonoSter: {R: 0x18, G: 0x18, B: 0x21, A: 0xFF},
	domain.SheetEqMain:   {R: 0x21, G: 0x21, B: 0x31, A: 0xFF},
	domain.SheetPlEdit:   {R: 0x31, G: 0x31, B: 0x4A, A: 0xFF},
}

var defaultFallbackBase = color.NRGBA{R: 0x40, G: 0x40, B: 0x40, A: 0xFF}

// buildDefaultSkin synthesizes every known sheet at its nominal size and draws
// each sprite region as a bevelled rectangle, so every sprite name extracts.
func buildDefaultSkin() *domain.Skin {
	sheets := make(map[string]*domain.Bitmap, len(domain.AllSheets()))
	for _, name := range domain.AllSheets() {
		size, _ := domain.SheetSize(name)
		base, ok := defaultBase[name]
		if !ok {
			base = defaultFallbackBase
		}

		img := image.NewNRGBA(image.Rect(0, 0, size.X, size.Y))
		xdraw.Draw(img, img.Bounds(), image.NewUniform(base), image.Point{}, xdraw.Src)

		regions := domain.SpritesOnSheet(name)
		// Large regions first so buttons stay visible on top of backgrounds.
		sort.SliceStable(regions, func(i, j int) bool {
			return area(regions[i].Rect) > area(regions[j].Rect)
		})
		for _, r := range regions {
			bevel(img, r.Rect, base, r.State == domain.StatePressed || r.State == domain.StateSelectedPressed)
		}

		sheets[name] = &domain.Bitmap{Image: img, SourceDepth: 32}
	}

	return &domain.Skin{
		Key:    DefaultSkinKey,
		Name:   "Default",
		Sheets: sheets,
		Config: domain.DefaultSkinConfig(),
	}
}

func area(r image.Rectangle) int {
	return r.Dx() * r.Dy()
}

func shade(c color.NRGBA, delta int) color.NRGBA {
	clamp := func(v int) uint8 {
		return uint8(min(255, max(0, v)))
	}
	return color.NRGBA{R: clamp(int(c.R) + delta), G: clamp(int(c.G) + delta), B: clamp(int(c.B) + delta), A: 0xFF}
}

// bevel draws r with a light top-left edge and dark bottom-right edge, or the
// reverse when sunken.
func bevel(img *image.NRGBA, r image.Rectangle, base color.NRGBA, sunken bool) {
	face, light, dark := shade(base, 24), shade(base, 72), shade(base, -40)
	if sunken {
		face = shade(base, -16)
		light, dark = dark, light
	}

	xdraw.Draw(img, r, image.NewUniform(face), image.Point{}, xdraw.Src)
	if r.Dx() < 2 || r.Dy() < 2 {
		return
	}
	xdraw.Draw(img, image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+1), image.NewUniform(light), image.Point{}, xdraw.Src)
	xdraw.Draw(img, image.Rect(r.Min.X, r.Min.Y, r.Min.X+1, r.Max.Y), image.NewUniform(light), image.Point{}, xdraw.Src)
	xdraw.Draw(img, image.Rect(r.Min.X, r.Max.Y-1, r.Max.X, r.Max.Y), image.NewUniform(dark), image.Point{}, xdraw.Src)
	xdraw.Draw(img, image.Rect(r.Max.X-1, r.Min.Y, r.Max.X, r.Max.Y), image.NewUniform(dark), image.Point{}, xdraw.Src)
}

// pinnedStore holds every sprite of the default skin. It lives outside the
// bounded cache and is read-only after construction.
type pinnedStore struct {
	key     string
	sprites map[string]*domain.Sprite
}

func newPinnedStore(logger *slog.Logger, skin *domain.Skin) *pinnedStore {
	store := &pinnedStore{key: skin.Key, sprites: make(map[string]*domain.Sprite)}
	for _, name := range domain.SpriteNames() {
		region, _ := domain.LookupSprite(name)
		sheet, ok := skin.Sheet(region.Sheet)
		if !ok {
			continue
		}
		sprite, err := bitmap.Extract(sheet, region)
		if err != nil {
			logger.Error("default skin sprite does not fit its sheet", slog.String("sprite", name), slog.Any("error", err))
			continue
		}
		store.sprites[name] = sprite
	}
	return store
}

func (p *pinnedStore) Sprite(key, name string) (*domain.Sprite, error) {
	if key != p.key {
		return nil, fmt.Errorf("%w: %s", domain.ErrSkinNotCached, key)
	}
	s, ok := p.sprites[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrSpriteNotFound, name)
	}
	return s, nil
}

var _ ports.SpriteStore = (*pinnedStore)(nil)
