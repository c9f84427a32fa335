package fyne

import (
	"image"
	"log/slog"
	"sync"

	fyneapp "fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"github.com/tejashwikalptaru/skinamp/internal/adapter/bitmap"
	"github.com/tejashwikalptaru/skinamp/internal/domain"
	"github.com/tejashwikalptaru/skinamp/internal/service"
)

// SkinSource is the part of the skin manager the UI depends on.
type SkinSource interface {
	Current() *service.Skin
	OnSkinChanged(fn func(skin *service.Skin)) domain.SubscriptionID
	RemoveSkinChanged(id domain.SubscriptionID)
}

// binding ties a canvas image to a sprite name or a line of skin text.
type binding struct {
	img    *canvas.Image
	sprite string
	text   string
	isText bool
}

// SpriteBinder keeps canvas images in sync with the current skin.
//
// Images are created with pixel scaling and original fill so sprites are never
// smoothed. When the skin changes, every bound image is updated on the Fyne
// thread via fyne.Do.
//
// Thread-safety: All operations are thread-safe. renderMu serializes every write to a
// bound image, so a skin change and a new binding never render the same image at
// once. Once images are on a canvas, call SetText and SetScale from the Fyne thread;
// skin changes are already handed to it with fyne.Do.
type SpriteBinder struct {
	// Dependencies (injected)
	logger *slog.Logger
	source SkinSource

	subID    domain.SubscriptionID
	bindings []*binding
	scale    int

	// Concurrency control
	mu        sync.Mutex // guards bindings and scale
	renderMu  sync.Mutex // held while writing bound images
	closeOnce sync.Once
}

// NewSpriteBinder subscribes to skin changes on source.
func NewSpriteBinder(logger *slog.Logger, source SkinSource) *SpriteBinder {
	b := &SpriteBinder{
		logger: logger,
		source: source,
		scale:  1,
	}
	b.subID = source.OnSkinChanged(func(skin *service.Skin) {
		fyneapp.Do(func() {
			b.apply(skin)
		})
	})
	return b
}

// Image returns a new canvas image showing the named sprite.
func (b *SpriteBinder) Image(sprite string) *canvas.Image {
	return b.bind(&binding{sprite: sprite})
}

// TextImage returns a new canvas image rendering text in the skin font.
func (b *SpriteBinder) TextImage(text string) *canvas.Image {
	return b.bind(&binding{text: text, isText: true})
}

func (b *SpriteBinder) bind(bd *binding) *canvas.Image {
	bd.img = canvas.NewImageFromImage(nil)
	bd.img.ScaleMode = canvas.ImageScalePixels
	bd.img.FillMode = canvas.ImageFillOriginal

	b.renderMu.Lock()
	defer b.renderMu.Unlock()

	// The manager swaps Current before announcing a change, so under renderMu
	// either this render sees the new skin or the pending apply sees bd.
	b.mu.Lock()
	b.bindings = append(b.bindings, bd)
	scale := b.scale
	b.mu.Unlock()

	b.render(b.source.Current(), bd, scale)
	return bd.img
}

// SetText changes the text shown by an image created with TextImage.
func (b *SpriteBinder) SetText(img *canvas.Image, text string) {
	b.renderMu.Lock()
	defer b.renderMu.Unlock()

	b.mu.Lock()
	var target *binding
	for _, bd := range b.bindings {
		if bd.img == img && bd.isText {
			target = bd
			bd.text = text
			break
		}
	}
	scale := b.scale
	b.mu.Unlock()

	if target != nil {
		b.render(b.source.Current(), target, scale)
		target.img.Refresh()
	}
}

// SetScale switches between normal (1) and double-size (2) rendering.
func (b *SpriteBinder) SetScale(factor int) {
	if factor < 1 {
		factor = 1
	}
	b.renderMu.Lock()
	defer b.renderMu.Unlock()

	b.mu.Lock()
	b.scale = factor
	b.mu.Unlock()

	b.applyLocked(b.source.Current())
}

// Scale returns the current scale factor.
func (b *SpriteBinder) Scale() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.scale
}

// Len returns the number of bound images.
func (b *SpriteBinder) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.bindings)
}

// Close stops following skin changes. Bound images keep their last content.
func (b *SpriteBinder) Close() {
	b.closeOnce.Do(func() {
		b.source.RemoveSkinChanged(b.subID)
	})
}

// apply re-renders every bound image from skin. It runs on the Fyne thread via
// fyne.Do.
func (b *SpriteBinder) apply(skin *service.Skin) {
	b.renderMu.Lock()
	defer b.renderMu.Unlock()
	b.applyLocked(skin)
}

// applyLocked is apply with renderMu held.
func (b *SpriteBinder) applyLocked(skin *service.Skin) {
	b.mu.Lock()
	bindings := append([]*binding(nil), b.bindings...)
	scale := b.scale
	b.mu.Unlock()

	for _, bd := range bindings {
		b.render(skin, bd, scale)
		bd.img.Refresh()
	}
	b.logger.Debug("sprites rebound",
		slog.String("skin", skin.Key()),
		slog.Int("images", len(bindings)))
}

func (b *SpriteBinder) render(skin *service.Skin, bd *binding, scale int) {
	var img *image.NRGBA
	if bd.isText {
		img = skin.Text(bd.text)
		if scale > 1 {
			img = bitmap.Scale(&domain.Sprite{Image: img}, scale).Image
		}
	} else {
		var (
			sprite *domain.Sprite
			ok     bool
		)
		if scale > 1 {
			sprite, ok = skin.Scaled(bd.sprite, scale)
		} else {
			sprite, ok = skin.Sprite(bd.sprite)
		}
		if !ok {
			b.logger.Warn("unknown sprite bound", slog.String("sprite", bd.sprite))
			return
		}
		img = sprite.Image
	}

	bd.img.Image = img
	size := img.Bounds().Size()
	bd.img.SetMinSize(fyneapp.NewSize(float32(size.X), float32(size.Y)))
}
