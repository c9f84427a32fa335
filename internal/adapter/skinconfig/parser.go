// Package skinconfig parses the optional text files of a classic skin:
// region.txt, pledit.txt and viscolor.txt.
//
// Every parser fails softly. A malformed file yields the documented defaults
// together with a *domain.ConfigParseError, and a missing file yields the
// defaults with no error.
package skinconfig

import (
	"log/slog"

	"github.com/tejashwikalptaru/skinamp/internal/domain"
	"github.com/tejashwikalptaru/skinamp/internal/ports"
)

// Parser assembles a SkinConfig from archive files.
type Parser struct {
	logger *slog.Logger
}

// NewParser creates a config parser.
func NewParser(logger *slog.Logger) *Parser {
	return &Parser{logger: logger}
}

// Parse implements ports.ConfigParser.
func (p *Parser) Parse(files map[string][]byte) (domain.SkinConfig, []error) {
	cfg := domain.DefaultSkinConfig()
	var warnings []error

	if data, ok := files[domain.ConfigRegion]; ok {
		mask, err := ParseRegion(data)
		cfg.Region = mask
		warnings = p.note(warnings, err)
	}
	if data, ok := files[domain.ConfigPlEdit]; ok {
		colors, err := ParsePlaylistColors(data)
		cfg.Playlist = colors
		warnings = p.note(warnings, err)
	}
	if data, ok := files[domain.ConfigVisColor]; ok {
		vis, err := ParseVisColors(data)
		cfg.Vis = vis
		warnings = p.note(warnings, err)
	}

	return cfg, warnings
}

func (p *Parser) note(warnings []error, err error) []error {
	if err == nil {
		return warnings
	}
	p.logger.Warn("skin config fell back to defaults", slog.String("error", err.Error()))
	return append(warnings, err)
}

var _ ports.ConfigParser = (*Parser)(nil)
