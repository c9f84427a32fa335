package service

import (
	"context"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tejashwikalptaru/skinamp/internal/domain"
	"github.com/tejashwikalptaru/skinamp/internal/logger"
	"github.com/tejashwikalptaru/skinamp/internal/testutil"
)

func TestDefaultSkin_CoversEverySheet(t *testing.T) {
	skin := buildDefaultSkin()

	assert.Empty(t, skin.MissingSheets())
	for _, name := range domain.AllSheets() {
		size, _ := domain.SheetSize(name)
		bm, ok := skin.Sheet(name)
		require.True(t, ok, name)
		assert.Equal(t, size.X, bm.Width(), name)
		assert.Equal(t, size.Y, bm.Height(), name)
	}
}

func TestDefaultSkin_PressedDiffersFromNormal(t *testing.T) {
	model := buildDefaultSkin()
	store := newPinnedStore(logger.NewTestLogger(), model)

	normal, err := store.Sprite(DefaultSkinKey, "playButton.normal")
	require.NoError(t, err)
	pressed, err := store.Sprite(DefaultSkinKey, "playButton.pressed")
	require.NoError(t, err)

	assert.NotEqual(t, normal.Image.NRGBAAt(0, 0), pressed.Image.NRGBAAt(0, 0))
	assert.Equal(t, uint8(255), normal.Image.NRGBAAt(5, 5).A)

	_, err = store.Sprite("other", "playButton.normal")
	assert.ErrorIs(t, err, domain.ErrSkinNotCached)
	_, err = store.Sprite(DefaultSkinKey, "missing")
	assert.ErrorIs(t, err, domain.ErrSpriteNotFound)
}

func TestSkin_Text(t *testing.T) {
	h := newHarness(t, nil, 0)
	def := h.manager.Default()

	img := def.Text("Ab 1?")
	assert.Equal(t, image.Rect(0, 0, 5*domain.GlyphWidth, domain.GlyphHeight), img.Bounds())

	a, ok := def.Sprite("text.a")
	require.True(t, ok)
	for y := 0; y < domain.GlyphHeight; y++ {
		for x := 0; x < domain.GlyphWidth; x++ {
			assert.Equal(t, a.Image.NRGBAAt(x, y), img.NRGBAAt(x, y))
		}
	}

	space, ok := def.Sprite(domain.GlyphSpriteName(' '))
	require.True(t, ok)
	unknown := def.Text("€")
	assert.Equal(t, space.Image.NRGBAAt(2, 2), unknown.NRGBAAt(2, 2))

	assert.Equal(t, image.Rect(0, 0, 0, domain.GlyphHeight), def.Text("").Bounds())
}

func TestSkin_Scaled(t *testing.T) {
	h := newHarness(t, nil, 0)
	path := testutil.WriteSkin(t, "scaled.wsz", skinFiles(red, nil))
	require.NoError(t, h.manager.LoadSkin(context.Background(), path))

	s, ok := h.manager.Current().Scaled("playButton.normal", 2)
	require.True(t, ok)
	assert.Equal(t, image.Rect(0, 0, 46, 36), s.Image.Bounds())
	assert.Equal(t, red, s.Image.NRGBAAt(45, 35))

	_, ok = h.manager.Current().Scaled("nope", 2)
	assert.False(t, ok)
}
