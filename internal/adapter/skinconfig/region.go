package skinconfig

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/tejashwikalptaru/skinamp/internal/domain"
	"gopkg.in/ini.v1"
)

// ParseRegion parses region.txt. Two layouts are understood: a grid of '0'/'1'
// rows whose size is implied by the line count and length, and the legacy
// [Normal] NumPoints/PointList polygon list rasterized into the 275x116 main window.
//
// On failure the fully opaque default mask is returned with a *domain.ConfigParseError.
func ParseRegion(data []byte) (domain.RegionMask, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return domain.DefaultRegionMask(), domain.NewConfigParseError(domain.ConfigRegion, 0, "file is empty", nil)
	}
	if trimmed[0] == '[' || bytes.Contains(bytes.ToLower(trimmed), []byte("numpoints")) {
		return parsePolygonRegion(data)
	}
	return parseGridRegion(data)
}

func parseGridRegion(data []byte) (domain.RegionMask, error) {
	var (
		rows  []string
		width int
		ended bool
	)

	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 4096), 1<<20)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		row := strings.TrimRightFunc(sc.Text(), isSpace)
		if row == "" {
			// Blank lines are only allowed after the grid.
			ended = len(rows) > 0
			continue
		}
		if ended {
			return domain.DefaultRegionMask(), domain.NewConfigParseError(domain.ConfigRegion, lineNo, "blank line inside grid", nil)
		}
		if i := strings.IndexFunc(row, func(r rune) bool { return r != '0' && r != '1' }); i >= 0 {
			return domain.DefaultRegionMask(), domain.NewConfigParseError(domain.ConfigRegion, lineNo,
				fmt.Sprintf("unexpected character %q at column %d", row[i], i+1), nil)
		}
		if len(rows) == 0 {
			width = len(row)
		} else if len(row) != width {
			return domain.DefaultRegionMask(), domain.NewConfigParseError(domain.ConfigRegion, lineNo,
				fmt.Sprintf("row has %d cells, expected %d", len(row), width), nil)
		}
		rows = append(rows, row)
	}
	if err := sc.Err(); err != nil {
		return domain.DefaultRegionMask(), domain.NewConfigParseError(domain.ConfigRegion, lineNo, "read failed", err)
	}

	mask := domain.RegionMask{Width: width, Height: len(rows), Bits: make([]bool, width*len(rows))}
	for y, row := range rows {
		for x := 0; x < width; x++ {
			mask.Bits[y*width+x] = row[x] == '1'
		}
	}
	return mask, nil
}

type point struct{ x, y float64 }

func parsePolygonRegion(data []byte) (domain.RegionMask, error) {
	cfg, err := ini.LoadSources(iniOptions(), data)
	if err != nil {
		return domain.DefaultRegionMask(), domain.NewConfigParseError(domain.ConfigRegion, 0, "not a polygon list", err)
	}

	sec, err := cfg.GetSection("normal")
	if err != nil {
		return domain.DefaultRegionMask(), domain.NewConfigParseError(domain.ConfigRegion, 0, "no [Normal] section", err)
	}

	counts, err := parseInts(sec.Key("numpoints").String())
	if err != nil || len(counts) == 0 {
		return domain.DefaultRegionMask(), domain.NewConfigParseError(domain.ConfigRegion, 0, "NumPoints is not a number list", err)
	}
	coords, err := parseInts(sec.Key("pointlist").String())
	if err != nil {
		return domain.DefaultRegionMask(), domain.NewConfigParseError(domain.ConfigRegion, 0, "PointList is not a number list", err)
	}

	// total never exceeds limit, so the sum cannot overflow
	limit := len(coords) / 2
	total := 0
	for _, n := range counts {
		if n < 3 {
			return domain.DefaultRegionMask(), domain.NewConfigParseError(domain.ConfigRegion, 0,
				fmt.Sprintf("polygon with %d points", n), nil)
		}
		if n > limit-total {
			return domain.DefaultRegionMask(), domain.NewConfigParseError(domain.ConfigRegion, 0,
				fmt.Sprintf("NumPoints declares more points than the %d in PointList", limit), nil)
		}
		total += n
	}
	if len(coords) != total*2 {
		return domain.DefaultRegionMask(), domain.NewConfigParseError(domain.ConfigRegion, 0,
			fmt.Sprintf("NumPoints declares %d points, PointList has %d coordinates", total, len(coords)), nil)
	}

	polys := make([][]point, 0, len(counts))
	i := 0
	for _, n := range counts {
		poly := make([]point, n)
		for j := range poly {
			poly[j] = point{float64(coords[i]), float64(coords[i+1])}
			i += 2
		}
		polys = append(polys, poly)
	}

	return rasterize(polys, domain.MainWindowWidth, domain.MainWindowHeight), nil
}

// rasterize samples pixel centres against all polygons with the even-odd rule.
func rasterize(polys [][]point, w, h int) domain.RegionMask {
	mask := domain.RegionMask{Width: w, Height: h, Bits: make([]bool, w*h)}
	for y := 0; y < h; y++ {
		py := float64(y) + 0.5
		for x := 0; x < w; x++ {
			px := float64(x) + 0.5
			inside := false
			for _, poly := range polys {
				for a, b := 0, len(poly)-1; a < len(poly); b, a = a, a+1 {
					pa, pb := poly[a], poly[b]
					if (pa.y > py) != (pb.y > py) &&
						px < (pb.x-pa.x)*(py-pa.y)/(pb.y-pa.y)+pa.x {
						inside = !inside
					}
				}
			}
			mask.Bits[y*w+x] = inside
		}
	}
	return mask
}

// parseInts splits on commas and whitespace.
func parseInts(s string) ([]int, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || isSpace(r) })
	out := make([]int, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\r' || r == '\n'
}
