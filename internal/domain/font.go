package domain

import (
	"image"
	"unicode"
)

// Font glyph cell size on text.bmp.
const (
	GlyphWidth  = 5
	GlyphHeight = 6
)

// glyphRows lists text.bmp characters by row; each rune occupies one 5x6 cell.
// A zero rune marks an unused cell.
var glyphRows = [3][]rune{
	{'a', 'b', 'c', 'd', 'e', 'f', 'g', 'h', 'i', 'j', 'k', 'l', 'm', 'n', 'o', 'p', 'q', 'r', 's', 't', 'u', 'v', 'w', 'x', 'y', 'z', '"', '@', 0, 0, ' '},
	{'0', '1', '2', '3', '4', '5', '6', '7', '8', '9', '…', '.', ':', '(', ')', '-', '\'', '!', '_', '+', '\\', '/', '[', ']', '^', '&', '%', ',', '=', '$', '#'},
	{'å', 'ö', 'ä', '?', '*'},
}

// glyphAliases maps characters WinAmp draws with a neighbouring glyph.
var glyphAliases = map[rune]rune{
	'<': '(',
	'>': ')',
	'{': '(',
	'}': ')',
	'`': '\'',
	'~': '-',
	'|': '/',
	';': ':',
}

// GlyphSpriteName returns the sprite name for a font character.
func GlyphSpriteName(r rune) string {
	return "text." + string(r)
}

func fontRegions() []SpriteRegion {
	var out []SpriteRegion
	for row, runes := range glyphRows {
		for col, r := range runes {
			if r == 0 {
				continue
			}
			x, y := col*GlyphWidth, row*GlyphHeight
			out = append(out, SpriteRegion{
				Name:  GlyphSpriteName(r),
				Sheet: SheetText,
				Rect:  image.Rect(x, y, x+GlyphWidth, y+GlyphHeight),
			})
		}
	}
	return out
}

// GlyphFor resolves the font sprite for a character. Letters are case-folded;
// characters without a glyph report ok == false and are drawn as a space.
func GlyphFor(r rune) (SpriteRegion, bool) {
	r = unicode.ToLower(r)
	if alias, ok := glyphAliases[r]; ok {
		r = alias
	}
	return LookupSprite(GlyphSpriteName(r))
}
