package testutil

import (
	"archive/zip"
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"sort"
	"testing"
)

// EncodeBMP writes img as an uncompressed BITMAPINFOHEADER BMP.
// bpp must be 24 (BGR, alpha dropped) or 32 (BGRA).
// topDown writes a negative height and rows in top-to-bottom order.
func EncodeBMP(img *image.NRGBA, bpp int, topDown bool) []byte {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	stride := ((w*bpp + 31) / 32) * 4
	const offset = 14 + 40
	size := offset + stride*h

	buf := make([]byte, size)
	buf[0], buf[1] = 'B', 'M'
	binary.LittleEndian.PutUint32(buf[2:], uint32(size))
	binary.LittleEndian.PutUint32(buf[10:], offset)

	binary.LittleEndian.PutUint32(buf[14:], 40)
	binary.LittleEndian.PutUint32(buf[18:], uint32(int32(w)))
	height := int32(h)
	if topDown {
		height = -height
	}
	binary.LittleEndian.PutUint32(buf[22:], uint32(height))
	binary.LittleEndian.PutUint16(buf[26:], 1)
	binary.LittleEndian.PutUint16(buf[28:], uint16(bpp))
	binary.LittleEndian.PutUint32(buf[34:], uint32(stride*h))
	binary.LittleEndian.PutUint32(buf[38:], 2835)
	binary.LittleEndian.PutUint32(buf[42:], 2835)

	bytesPerPixel := bpp / 8
	for y := 0; y < h; y++ {
		row := h - 1 - y
		if topDown {
			row = y
		}
		p := offset + row*stride
		for x := 0; x < w; x++ {
			c := img.NRGBAAt(img.Rect.Min.X+x, img.Rect.Min.Y+y)
			o := p + x*bytesPerPixel
			buf[o], buf[o+1], buf[o+2] = c.B, c.G, c.R
			if bpp == 32 {
				buf[o+3] = c.A
			}
		}
	}
	return buf
}

// SolidImage returns a w*h image filled with c.
func SolidImage(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

// PatternImage returns a w*h opaque image whose pixels encode their coordinates,
// so crops can be checked pixel by pixel.
func PatternImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, PatternColor(x, y))
		}
	}
	return img
}

// PatternColor is the pixel PatternImage stores at (x, y). It never equals magenta.
func PatternColor(x, y int) color.NRGBA {
	return color.NRGBA{R: uint8(x), G: uint8(y), B: uint8((x + y) % 200), A: 255}
}

// ZipBytes builds an in-memory ZIP archive holding files.
func ZipBytes(t *testing.T, files map[string][]byte) []byte {
	t.Helper()

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range names {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("zip create %s: %v", name, err)
		}
		if _, err := w.Write(files[name]); err != nil {
			t.Fatalf("zip write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	return buf.Bytes()
}

// WriteSkin writes files as a .wsz archive under t.TempDir and returns its path.
func WriteSkin(t *testing.T, name string, files map[string][]byte) string {
	t.Helper()

	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, ZipBytes(t, files), 0o644); err != nil {
		t.Fatalf("write skin: %v", err)
	}
	return p
}

// RequiredSheetFiles returns BMPs for the five mandatory sheets at their nominal
// sizes, filled with fill.
func RequiredSheetFiles(fill color.NRGBA) map[string][]byte {
	sizes := map[string][2]int{
		"main.bmp":     {275, 116},
		"cbuttons.bmp": {136, 36},
		"playpaus.bmp": {42, 9},
		"numbers.bmp":  {99, 13},
		"text.bmp":     {155, 18},
	}
	files := make(map[string][]byte, len(sizes))
	for name, s := range sizes {
		files[name] = EncodeBMP(SolidImage(s[0], s[1], fill), 24, false)
	}
	return files
}
