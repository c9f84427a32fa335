package skinconfig

import (
	"encoding/hex"
	"errors"
	"fmt"
	"image/color"
	"strings"

	"github.com/tejashwikalptaru/skinamp/internal/domain"
	"golang.org/x/image/colornames"
	"gopkg.in/ini.v1"
)

func iniOptions() ini.LoadOptions {
	return ini.LoadOptions{
		Insensitive:              true,
		SkipUnrecognizableLines:  true,
		SpaceBeforeInlineComment: true,
		AllowShadows:             false,
	}
}

// ParsePlaylistColors parses the [Text] section of pledit.txt. Missing keys keep
// their defaults. Values that are not colors also keep their defaults and are
// reported together in the returned *domain.ConfigParseError.
func ParsePlaylistColors(data []byte) (domain.PlaylistColors, error) {
	colors := domain.DefaultPlaylistColors()

	cfg, err := ini.LoadSources(iniOptions(), data)
	if err != nil {
		return colors, domain.NewConfigParseError(domain.ConfigPlEdit, 0, "not an ini file", err)
	}
	sec, err := cfg.GetSection("text")
	if err != nil {
		return colors, domain.NewConfigParseError(domain.ConfigPlEdit, 0, "no [Text] section", err)
	}

	fields := []struct {
		key string
		dst *color.NRGBA
	}{
		{"normal", &colors.Normal},
		{"current", &colors.Current},
		{"normalbg", &colors.NormalBG},
		{"selectedbg", &colors.SelectedBG},
		{"mbbg", &colors.MbBG},
		{"mbfg", &colors.MbFG},
	}

	var bad []error
	for _, f := range fields {
		if !sec.HasKey(f.key) {
			continue
		}
		raw := sec.Key(f.key).String()
		c, err := ParseColor(raw)
		if err != nil {
			bad = append(bad, fmt.Errorf("%s=%q: %w", f.key, raw, err))
			continue
		}
		*f.dst = c
	}
	if sec.HasKey("font") {
		if font := strings.TrimSpace(sec.Key("font").String()); font != "" {
			colors.Font = font
		}
	}

	if len(bad) > 0 {
		return colors, domain.NewConfigParseError(domain.ConfigPlEdit, 0,
			fmt.Sprintf("%d invalid color value(s)", len(bad)), errors.Join(bad...))
	}
	return colors, nil
}

// ParseColor accepts #RRGGBB, RRGGBB, #RGB or an SVG color name such as "navy".
func ParseColor(s string) (color.NRGBA, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return color.NRGBA{}, errors.New("empty color")
	}

	if named, ok := colornames.Map[strings.ToLower(s)]; ok {
		return color.NRGBA{R: named.R, G: named.G, B: named.B, A: 0xFF}, nil
	}

	h := strings.TrimPrefix(s, "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return color.NRGBA{}, fmt.Errorf("want 6 hex digits, got %q", s)
	}
	b, err := hex.DecodeString(h)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("bad hex color %q", s)
	}
	return color.NRGBA{R: b[0], G: b[1], B: b[2], A: 0xFF}, nil
}

// FormatColor renders c as #RRGGBB.
func FormatColor(c color.NRGBA) string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}
