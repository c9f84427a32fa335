package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStructErrorsMatchSentinels(t *testing.T) {
	cause := errors.New("boom")

	tests := []struct {
		name     string
		err      error
		sentinel error
	}{
		{"archive unreadable", NewArchiveError(ArchiveUnreadable, "a.wsz", "bad zip", cause), ErrArchiveUnreadable},
		{"archive empty", NewArchiveError(ArchiveEmpty, "a.wsz", "no entries", nil), ErrArchiveEmpty},
		{"bitmap header", NewBitmapError(BitmapInvalidHeader, "bad magic", nil), ErrBitmapInvalidHeader},
		{"bitmap depth", NewBitmapError(BitmapUnsupportedDepth, "2 bpp", nil), ErrBitmapUnsupportedDepth},
		{"bitmap truncated", NewBitmapError(BitmapTruncated, "short", nil), ErrBitmapTruncated},
		{"extraction", &ExtractionError{Sprite: "playButton.normal", Sheet: SheetCButtons}, ErrExtractionOutOfBounds},
		{"config", NewConfigParseError(ConfigVisColor, 3, "bad triple", nil), ErrConfigMalformed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.err, tt.sentinel)
			wrapped := fmt.Errorf("load: %w", tt.err)
			assert.ErrorIs(t, wrapped, tt.sentinel)
		})
	}

	assert.ErrorIs(t, NewArchiveError(ArchiveUnreadable, "a.wsz", "bad zip", cause), cause)
	assert.NotErrorIs(t, NewArchiveError(ArchiveEmpty, "a.wsz", "", nil), ErrArchiveUnreadable)
}

func TestSkinLoadError(t *testing.T) {
	inner := NewArchiveError(ArchiveUnreadable, "broken.wsz", "bad zip", nil)
	err := NewSkinLoadError(SkinLoadArchive, "broken.wsz", 7, inner)

	assert.ErrorIs(t, err, ErrArchiveUnreadable)
	assert.Contains(t, err.Error(), "broken.wsz")
	assert.Equal(t, "could not load skin: corrupt or incomplete file", err.UserMessage())

	var archiveErr *ArchiveError
	assert.ErrorAs(t, err, &archiveErr)

	assert.Equal(t, "could not load skin: skin is too large",
		NewSkinLoadError(SkinLoadCache, "big.wsz", 1, ErrCacheEntryTooLarge).UserMessage())
	assert.Equal(t, "skin change was cancelled",
		NewSkinLoadError(SkinLoadSuperseded, "a.wsz", 1, ErrLoadSuperseded).UserMessage())
}

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, "bitmap truncated (main.bmp): short",
		(&BitmapError{Kind: BitmapTruncated, Sheet: SheetMain, Message: "short"}).Error())
	assert.Equal(t, "config viscolor.txt:3 malformed: bad triple",
		NewConfigParseError(ConfigVisColor, 3, "bad triple", nil).Error())
	assert.Equal(t, "config region.txt malformed: no points",
		NewConfigParseError(ConfigRegion, 0, "no points", nil).Error())
}
