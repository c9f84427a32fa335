package domain

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSpriteMap(t *testing.T) {
	assert.Empty(t, ValidateSpriteMap())
}

func TestLookupSprite(t *testing.T) {
	r, ok := LookupSprite("playButton.normal")
	require.True(t, ok)
	assert.Equal(t, SheetCButtons, r.Sheet)
	assert.Equal(t, image.Rect(23, 0, 46, 18), r.Rect)

	_, ok = LookupSprite("noSuchSprite")
	assert.False(t, ok)
}

func TestSpriteNamesSortedAndUnique(t *testing.T) {
	names := SpriteNames()
	require.NotEmpty(t, names)
	for i := 1; i < len(names); i++ {
		assert.Less(t, names[i-1], names[i])
	}
}

func TestSpritesOnSheet(t *testing.T) {
	regions := SpritesOnSheet(SheetText)
	require.NotEmpty(t, regions)
	for _, r := range regions {
		assert.Equal(t, SheetText, r.Sheet)
	}
	assert.Empty(t, SpritesOnSheet("nope.bmp"))
}

func TestAllSheets(t *testing.T) {
	sheets := AllSheets()
	assert.Len(t, sheets, len(RequiredSheets)+len(OptionalSheets))
	assert.Equal(t, SheetMain, sheets[0])
}

func TestGlyphFor(t *testing.T) {
	tests := []struct {
		name string
		r    rune
		want string
		ok   bool
	}{
		{"lower", 'a', "text.a", true},
		{"upper folds", 'A', "text.a", true},
		{"digit", '7', "text.7", true},
		{"space", ' ', "text. ", true},
		{"alias", '<', "text.(", true},
		{"alias pipe", '|', "text./", true},
		{"nordic", 'Ö', "text.ö", true},
		{"unknown", '€', "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, ok := GlyphFor(tt.r)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, r.Name)
				assert.Equal(t, GlyphWidth, r.Rect.Dx())
				assert.Equal(t, GlyphHeight, r.Rect.Dy())
			}
		})
	}
}

func TestGlyphGrid(t *testing.T) {
	r, ok := GlyphFor('0')
	require.True(t, ok)
	assert.Equal(t, image.Rect(0, GlyphHeight, GlyphWidth, 2*GlyphHeight), r.Rect)

	r, ok = GlyphFor('c')
	require.True(t, ok)
	assert.Equal(t, image.Rect(2*GlyphWidth, 0, 3*GlyphWidth, GlyphHeight), r.Rect)
}
