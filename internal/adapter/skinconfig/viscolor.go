package skinconfig

import (
	"bufio"
	"bytes"
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/tejashwikalptaru/skinamp/internal/domain"
)

// ParseVisColors parses viscolor.txt: one "r,g,b" triple per line, with "//"
// comments and trailing text after the third number ignored. Missing trailing
// entries keep the base skin palette.
//
// A line that does not start with three components in 0..255 makes the whole
// file fall back to the defaults.
func ParseVisColors(data []byte) (domain.VisColors, error) {
	vis := domain.DefaultVisColors()
	parsed := domain.DefaultVisColors()

	sc := bufio.NewScanner(bytes.NewReader(data))
	lineNo, idx := 0, 0
	for sc.Scan() && idx < domain.VisColorCount {
		lineNo++
		line := sc.Text()
		if i := strings.Index(line, "//"); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		c, err := parseTriple(line)
		if err != nil {
			return vis, domain.NewConfigParseError(domain.ConfigVisColor, lineNo, err.Error(), err)
		}
		parsed[idx] = c
		idx++
	}
	if err := sc.Err(); err != nil {
		return vis, domain.NewConfigParseError(domain.ConfigVisColor, lineNo, "read failed", err)
	}
	if idx == 0 {
		return vis, domain.NewConfigParseError(domain.ConfigVisColor, 0, "no colors found", nil)
	}
	return parsed, nil
}

func parseTriple(line string) (color.NRGBA, error) {
	parts := strings.FieldsFunc(line, func(r rune) bool { return r == ',' || r == ' ' || r == '\t' })
	if len(parts) < 3 {
		return color.NRGBA{}, fmt.Errorf("want 3 components, got %d", len(parts))
	}
	var rgb [3]uint8
	for i := 0; i < 3; i++ {
		n, err := strconv.Atoi(parts[i])
		if err != nil || n < 0 || n > 255 {
			return color.NRGBA{}, fmt.Errorf("component %q is not in 0..255", parts[i])
		}
		rgb[i] = uint8(n)
	}
	return color.NRGBA{R: rgb[0], G: rgb[1], B: rgb[2], A: 0xFF}, nil
}
