package bitmap

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tejashwikalptaru/skinamp/internal/domain"
	"github.com/tejashwikalptaru/skinamp/internal/testutil"
)

func patternBitmap(w, h int) *domain.Bitmap {
	return &domain.Bitmap{Image: testutil.PatternImage(w, h), SourceDepth: 24}
}

func TestExtract_CopiesRegion(t *testing.T) {
	bm := patternBitmap(136, 36)
	region, ok := domain.LookupSprite("playButton.pressed")
	require.True(t, ok)

	sprite, err := Extract(bm, region)
	require.NoError(t, err)
	assert.Equal(t, region, sprite.Region)
	assert.Equal(t, image.Rect(0, 0, 23, 18), sprite.Image.Bounds())

	for y := 0; y < 18; y++ {
		for x := 0; x < 23; x++ {
			require.Equal(t, testutil.PatternColor(23+x, 18+y), sprite.Image.NRGBAAt(x, y))
		}
	}
	assert.Equal(t, int64(23*18*4), sprite.SizeBytes())
}

func TestExtract_PreservesAlpha(t *testing.T) {
	bm := patternBitmap(10, 10)
	bm.Image.SetNRGBA(3, 3, color.NRGBA{R: 255, G: 0, B: 255, A: 0})

	sprite, err := Extract(bm, domain.SpriteRegion{Name: "probe", Rect: image.Rect(2, 2, 5, 5)})
	require.NoError(t, err)
	assert.Equal(t, uint8(0), sprite.Image.NRGBAAt(1, 1).A)
	assert.Equal(t, uint8(255), sprite.Image.NRGBAAt(0, 0).A)
}

func TestExtract_DoesNotAliasSheet(t *testing.T) {
	bm := patternBitmap(4, 4)

	sprite, err := Extract(bm, domain.SpriteRegion{Name: "probe", Rect: image.Rect(0, 0, 2, 2)})
	require.NoError(t, err)

	bm.Image.SetNRGBA(0, 0, color.NRGBA{A: 255})
	assert.Equal(t, testutil.PatternColor(0, 0), sprite.Image.NRGBAAt(0, 0))
}

func TestExtract_OutOfBounds(t *testing.T) {
	// A custom skin whose cbuttons.bmp is smaller than the base skin.
	bm := patternBitmap(40, 18)
	region, ok := domain.LookupSprite("playButton.pressed")
	require.True(t, ok)

	sprite, err := Extract(bm, region)
	assert.Nil(t, sprite)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrExtractionOutOfBounds)

	var extErr *domain.ExtractionError
	require.ErrorAs(t, err, &extErr)
	assert.Equal(t, "playButton.pressed", extErr.Sprite)
	assert.Equal(t, domain.SheetCButtons, extErr.Sheet)

	_, err = Extract(bm, domain.SpriteRegion{Name: "empty", Rect: image.Rect(1, 1, 1, 4)})
	assert.ErrorIs(t, err, domain.ErrExtractionOutOfBounds)

	_, err = Extract(nil, region)
	assert.ErrorIs(t, err, domain.ErrExtractionOutOfBounds)
}

func TestScale(t *testing.T) {
	bm := patternBitmap(3, 2)
	sprite, err := Extract(bm, domain.SpriteRegion{Name: "probe", Rect: image.Rect(0, 0, 3, 2)})
	require.NoError(t, err)

	doubled := Scale(sprite, 2)
	require.Equal(t, image.Rect(0, 0, 6, 4), doubled.Image.Bounds())
	for y := 0; y < 4; y++ {
		for x := 0; x < 6; x++ {
			assert.Equal(t, testutil.PatternColor(x/2, y/2), doubled.Image.NRGBAAt(x, y))
		}
	}

	assert.Same(t, sprite, Scale(sprite, 1))
	assert.Nil(t, Scale(nil, 2))
}
