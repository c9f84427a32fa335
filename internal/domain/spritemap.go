package domain

import (
	"fmt"
	"image"
	"sort"
)

// Sheet file names as they appear (lowercased) inside a .wsz archive.
const (
	SheetMain     = "main.bmp"
	SheetCButtons = "cbuttons.bmp"
	SheetPlayPaus = "playpaus.bmp"
	SheetNumbers  = "numbers.bmp"
	SheetText     = "text.bmp"
	SheetTitleBar = "titlebar.bmp"
	SheetVolume   = "volume.bmp"
	SheetBalance  = "balance.bmp"
	SheetPosBar   = "posbar.bmp"
	SheetShufRep  = "shufrep.bmp"
	SheetMonoSter = "monoster.bmp"
	SheetEqMain   = "eqmain.bmp"
	SheetPlEdit   = "pledit.bmp"
	SheetNumsEx   = "nums_ex.bmp"
)

// Text config file names.
const (
	ConfigRegion   = "region.txt"
	ConfigPlEdit   = "pledit.txt"
	ConfigVisColor = "viscolor.txt"
)

// RequiredSheets must be present for a skin to load at all (at least one of them).
var RequiredSheets = []string{SheetMain, SheetCButtons, SheetPlayPaus, SheetNumbers, SheetText}

// OptionalSheets fall back to the default skin when missing.
var OptionalSheets = []string{
	SheetTitleBar, SheetVolume, SheetBalance, SheetPosBar, SheetShufRep,
	SheetMonoSter, SheetEqMain, SheetPlEdit, SheetNumsEx,
}

// sheetSizes are the nominal WinAmp 2.x base skin sheet dimensions.
var sheetSizes = map[string]image.Point{
	SheetMain:     {X: 275, Y: 116},
	SheetCButtons: {X: 136, Y: 36},
	SheetPlayPaus: {X: 42, Y: 9},
	SheetNumbers:  {X: 99, Y: 13},
	SheetText:     {X: 155, Y: 18},
	SheetTitleBar: {X: 344, Y: 87},
	SheetVolume:   {X: 68, Y: 433},
	SheetBalance:  {X: 47, Y: 433},
	SheetPosBar:   {X: 307, Y: 10},
	SheetShufRep:  {X: 92, Y: 85},
	SheetMonoSter: {X: 58, Y: 24},
	SheetEqMain:   {X: 275, Y: 315},
	SheetPlEdit:   {X: 280, Y: 186},
	SheetNumsEx:   {X: 108, Y: 13},
}

// AllSheets returns required then optional sheet names.
func AllSheets() []string {
	all := make([]string, 0, len(RequiredSheets)+len(OptionalSheets))
	all = append(all, RequiredSheets...)
	return append(all, OptionalSheets...)
}

// SheetSize returns the nominal dimensions of a sheet.
func SheetSize(sheet string) (image.Point, bool) {
	p, ok := sheetSizes[sheet]
	return p, ok
}

// IsRequiredSheet reports whether sheet is one of the mandatory sprite sheets.
func IsRequiredSheet(sheet string) bool {
	for _, s := range RequiredSheets {
		if s == sheet {
			return true
		}
	}
	return false
}

type spriteDef struct {
	name  string
	state ButtonState
	x, y  int
	w, h  int
}

func defs(sheet string, entries ...spriteDef) []SpriteRegion {
	out := make([]SpriteRegion, 0, len(entries))
	for _, e := range entries {
		out = append(out, SpriteRegion{
			Name:  e.name,
			Sheet: sheet,
			Rect:  image.Rect(e.x, e.y, e.x+e.w, e.y+e.h),
			State: e.state,
		})
	}
	return out
}

// spriteTable holds the WinAmp 2.x layout. Third-party skins are drawn against these
// exact offsets, so they must not drift.
var spriteTable = buildSpriteTable()

func buildSpriteTable() map[string]SpriteRegion {
	var all []SpriteRegion

	all = append(all, defs(SheetMain,
		spriteDef{"main.background", StateNone, 0, 0, 275, 116},
	)...)

	all = append(all, defs(SheetCButtons,
		spriteDef{"previousButton.normal", StateNormal, 0, 0, 23, 18},
		spriteDef{"previousButton.pressed", StatePressed, 0, 18, 23, 18},
		spriteDef{"playButton.normal", StateNormal, 23, 0, 23, 18},
		spriteDef{"playButton.pressed", StatePressed, 23, 18, 23, 18},
		spriteDef{"pauseButton.normal", StateNormal, 46, 0, 23, 18},
		spriteDef{"pauseButton.pressed", StatePressed, 46, 18, 23, 18},
		spriteDef{"stopButton.normal", StateNormal, 69, 0, 23, 18},
		spriteDef{"stopButton.pressed", StatePressed, 69, 18, 23, 18},
		spriteDef{"nextButton.normal", StateNormal, 92, 0, 22, 18},
		spriteDef{"nextButton.pressed", StatePressed, 92, 18, 22, 18},
		spriteDef{"ejectButton.normal", StateNormal, 114, 0, 22, 16},
		spriteDef{"ejectButton.pressed", StatePressed, 114, 16, 22, 16},
	)...)

	all = append(all, defs(SheetPlayPaus,
		spriteDef{"status.playing", StateNone, 0, 0, 9, 9},
		spriteDef{"status.paused", StateNone, 9, 0, 9, 9},
		spriteDef{"status.stopped", StateNone, 18, 0, 9, 9},
		spriteDef{"status.notWorking", StateNone, 36, 0, 3, 9},
		spriteDef{"status.working", StateNone, 39, 0, 3, 9},
	)...)

	numbers := []spriteDef{
		{"digit.noMinus", StateNone, 9, 6, 5, 1},
		{"digit.minus", StateNone, 20, 6, 5, 1},
	}
	numbersEx := []spriteDef{
		{"digitEx.noMinus", StateNone, 90, 0, 9, 13},
		{"digitEx.minus", StateNone, 99, 0, 9, 13},
	}
	for d := 0; d <= 9; d++ {
		numbers = append(numbers, spriteDef{fmt.Sprintf("digit.%d", d), StateNone, d * 9, 0, 9, 13})
		numbersEx = append(numbersEx, spriteDef{fmt.Sprintf("digitEx.%d", d), StateNone, d * 9, 0, 9, 13})
	}
	all = append(all, defs(SheetNumbers, numbers...)...)
	all = append(all, defs(SheetNumsEx, numbersEx...)...)

	all = append(all, fontRegions()...)

	all = append(all, defs(SheetTitleBar,
		spriteDef{"titleBar.normal", StateNormal, 27, 15, 275, 14},
		spriteDef{"titleBar.selected", StateSelected, 27, 0, 275, 14},
		spriteDef{"titleBar.easterEgg", StateNormal, 27, 72, 275, 14},
		spriteDef{"titleBar.easterEggSelected", StateSelected, 27, 57, 275, 14},
		spriteDef{"optionsButton.normal", StateNormal, 0, 0, 9, 9},
		spriteDef{"optionsButton.pressed", StatePressed, 0, 9, 9, 9},
		spriteDef{"minimizeButton.normal", StateNormal, 9, 0, 9, 9},
		spriteDef{"minimizeButton.pressed", StatePressed, 9, 9, 9, 9},
		spriteDef{"shadeButton.normal", StateNormal, 0, 18, 9, 9},
		spriteDef{"shadeButton.pressed", StatePressed, 9, 18, 9, 9},
		spriteDef{"closeButton.normal", StateNormal, 18, 0, 9, 9},
		spriteDef{"closeButton.pressed", StatePressed, 18, 9, 9, 9},
		spriteDef{"clutterBar.normal", StateNormal, 304, 0, 8, 43},
		spriteDef{"clutterBar.disabled", StateDisabled, 312, 0, 8, 43},
		spriteDef{"shadeBar.normal", StateNormal, 27, 42, 275, 14},
		spriteDef{"shadeBar.selected", StateSelected, 27, 29, 275, 14},
		spriteDef{"unshadeButton.normal", StateNormal, 0, 27, 9, 9},
		spriteDef{"unshadeButton.pressed", StatePressed, 9, 27, 9, 9},
	)...)

	all = append(all, defs(SheetVolume,
		spriteDef{"volumeSlider.background", StateNone, 0, 0, 68, 420},
		spriteDef{"volumeSlider.thumb", StateNormal, 15, 422, 14, 11},
		spriteDef{"volumeSlider.thumbPressed", StatePressed, 0, 422, 14, 11},
	)...)

	all = append(all, defs(SheetBalance,
		spriteDef{"balanceSlider.background", StateNone, 9, 0, 38, 420},
		spriteDef{"balanceSlider.thumb", StateNormal, 15, 422, 14, 11},
		spriteDef{"balanceSlider.thumbPressed", StatePressed, 0, 422, 14, 11},
	)...)

	all = append(all, defs(SheetPosBar,
		spriteDef{"positionSlider.background", StateNone, 0, 0, 248, 10},
		spriteDef{"positionSlider.thumb", StateNormal, 248, 0, 29, 10},
		spriteDef{"positionSlider.thumbPressed", StatePressed, 278, 0, 29, 10},
	)...)

	all = append(all, defs(SheetShufRep,
		spriteDef{"shuffleButton.normal", StateNormal, 28, 0, 47, 15},
		spriteDef{"shuffleButton.pressed", StatePressed, 28, 15, 47, 15},
		spriteDef{"shuffleButton.selected", StateSelected, 28, 30, 47, 15},
		spriteDef{"shuffleButton.selectedPressed", StateSelectedPressed, 28, 45, 47, 15},
		spriteDef{"repeatButton.normal", StateNormal, 0, 0, 28, 15},
		spriteDef{"repeatButton.pressed", StatePressed, 0, 15, 28, 15},
		spriteDef{"repeatButton.selected", StateSelected, 0, 30, 28, 15},
		spriteDef{"repeatButton.selectedPressed", StateSelectedPressed, 0, 45, 28, 15},
		spriteDef{"eqButton.normal", StateNormal, 0, 61, 23, 12},
		spriteDef{"eqButton.selected", StateSelected, 0, 73, 23, 12},
		spriteDef{"eqButton.pressed", StatePressed, 46, 61, 23, 12},
		spriteDef{"eqButton.selectedPressed", StateSelectedPressed, 46, 73, 23, 12},
		spriteDef{"playlistButton.normal", StateNormal, 23, 61, 23, 12},
		spriteDef{"playlistButton.selected", StateSelected, 23, 73, 23, 12},
		spriteDef{"playlistButton.pressed", StatePressed, 69, 61, 23, 12},
		spriteDef{"playlistButton.selectedPressed", StateSelectedPressed, 69, 73, 23, 12},
	)...)

	all = append(all, defs(SheetMonoSter,
		spriteDef{"stereo.normal", StateNormal, 0, 12, 29, 12},
		spriteDef{"stereo.selected", StateSelected, 0, 0, 29, 12},
		spriteDef{"mono.normal", StateNormal, 29, 12, 27, 12},
		spriteDef{"mono.selected", StateSelected, 29, 0, 27, 12},
	)...)

	all = append(all, defs(SheetEqMain,
		spriteDef{"eq.background", StateNone, 0, 0, 275, 116},
		spriteDef{"eq.titleBar", StateNormal, 0, 149, 275, 14},
		spriteDef{"eq.titleBarSelected", StateSelected, 0, 134, 275, 14},
		spriteDef{"eq.sliderBackground", StateNone, 13, 164, 209, 129},
		spriteDef{"eq.sliderThumb", StateNormal, 0, 164, 11, 11},
		spriteDef{"eq.sliderThumbSelected", StateSelected, 0, 176, 11, 11},
		spriteDef{"eq.onButton.normal", StateNormal, 10, 119, 26, 12},
		spriteDef{"eq.onButton.pressed", StatePressed, 128, 119, 26, 12},
		spriteDef{"eq.onButton.selected", StateSelected, 69, 119, 26, 12},
		spriteDef{"eq.onButton.selectedPressed", StateSelectedPressed, 187, 119, 26, 12},
		spriteDef{"eq.autoButton.normal", StateNormal, 36, 119, 32, 12},
		spriteDef{"eq.autoButton.pressed", StatePressed, 154, 119, 32, 12},
		spriteDef{"eq.autoButton.selected", StateSelected, 95, 119, 32, 12},
		spriteDef{"eq.autoButton.selectedPressed", StateSelectedPressed, 213, 119, 32, 12},
		spriteDef{"eq.graphBackground", StateNone, 0, 294, 113, 19},
		spriteDef{"eq.graphLineColors", StateNone, 115, 294, 1, 19},
		spriteDef{"eq.presetsButton.normal", StateNormal, 224, 164, 44, 12},
		spriteDef{"eq.presetsButton.pressed", StatePressed, 224, 176, 44, 12},
		spriteDef{"eq.preampLine", StateNone, 0, 314, 113, 1},
		spriteDef{"eq.closeButton.normal", StateNormal, 0, 116, 9, 9},
		spriteDef{"eq.closeButton.pressed", StatePressed, 0, 125, 9, 9},
	)...)

	all = append(all, defs(SheetPlEdit,
		spriteDef{"playlist.topTile", StateNormal, 127, 21, 25, 20},
		spriteDef{"playlist.topTileSelected", StateSelected, 127, 0, 25, 20},
		spriteDef{"playlist.topLeftCorner", StateNormal, 0, 21, 25, 20},
		spriteDef{"playlist.topLeftCornerSelected", StateSelected, 0, 0, 25, 20},
		spriteDef{"playlist.titleBar", StateNormal, 26, 21, 100, 20},
		spriteDef{"playlist.titleBarSelected", StateSelected, 26, 0, 100, 20},
		spriteDef{"playlist.topRightCorner", StateNormal, 153, 21, 25, 20},
		spriteDef{"playlist.topRightCornerSelected", StateSelected, 153, 0, 25, 20},
		spriteDef{"playlist.leftTile", StateNone, 0, 42, 12, 29},
		spriteDef{"playlist.rightTile", StateNone, 31, 42, 20, 29},
		spriteDef{"playlist.bottomTile", StateNone, 179, 0, 25, 38},
		spriteDef{"playlist.bottomLeftCorner", StateNone, 0, 72, 125, 38},
		spriteDef{"playlist.bottomRightCorner", StateNone, 126, 72, 150, 38},
		spriteDef{"playlist.scrollHandle", StateNormal, 52, 53, 8, 18},
		spriteDef{"playlist.scrollHandleSelected", StateSelected, 61, 53, 8, 18},
		spriteDef{"playlist.closeSelected", StateSelected, 52, 42, 9, 9},
		spriteDef{"playlist.collapseSelected", StateSelected, 62, 42, 9, 9},
	)...)

	table := make(map[string]SpriteRegion, len(all))
	for _, r := range all {
		table[r.Name] = r
	}
	return table
}

// LookupSprite returns the region registered under name.
// Missing names are reported with ok == false; callers fall back to the default skin.
func LookupSprite(name string) (SpriteRegion, bool) {
	r, ok := spriteTable[name]
	return r, ok
}

// SpriteNames returns every sprite name in sorted order.
func SpriteNames() []string {
	names := make([]string, 0, len(spriteTable))
	for name := range spriteTable {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SpritesOnSheet returns the regions that live on the given sheet, sorted by name.
func SpritesOnSheet(sheet string) []SpriteRegion {
	var out []SpriteRegion
	for _, r := range spriteTable {
		if r.Sheet == sheet {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// ValidateSpriteMap checks every region against the nominal size of its sheet.
// An empty result means the table is self-consistent.
func ValidateSpriteMap() []error {
	var errs []error
	for _, name := range SpriteNames() {
		r := spriteTable[name]
		size, ok := sheetSizes[r.Sheet]
		if !ok {
			errs = append(errs, NewValidationError(name, r.Sheet, "unknown sheet"))
			continue
		}
		if r.Rect.Dx() <= 0 || r.Rect.Dy() <= 0 {
			errs = append(errs, NewValidationError(name, r.Rect, "region must have positive size"))
			continue
		}
		if !r.Rect.In(image.Rect(0, 0, size.X, size.Y)) {
			errs = append(errs, NewValidationError(name, r.Rect, fmt.Sprintf("region outside %dx%d sheet", size.X, size.Y)))
		}
	}
	return errs
}
