// Package bitmap decodes skin sprite sheets and cuts sprites out of them.
//
// Classic skins ship Windows BMP files. The decoder validates every header field
// against the buffer length before reading a single pixel, so malformed input
// produces a *domain.BitmapError instead of a panic.
package bitmap

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"image/color"
	"math/bits"

	"github.com/tejashwikalptaru/skinamp/internal/domain"
	"github.com/tejashwikalptaru/skinamp/internal/ports"
	"golang.org/x/image/bmp"
)

const (
	fileHeaderLen = 14
	maxDimension  = 1 << 15

	compressionRGB       = 0
	compressionBitfields = 3
)

// Options configure decoding.
type Options struct {
	// ColorKey is the RGB value made fully transparent. The zero value means magenta.
	ColorKey color.NRGBA

	// NoColorKey disables color-key transparency entirely.
	NoColorKey bool

	// AllowPaletted decodes 1, 4 and 8 bit BMPs through golang.org/x/image/bmp
	// instead of rejecting them as unsupported.
	AllowPaletted bool
}

// Decoder turns BMP bytes into domain.Bitmap rasters. It is stateless and safe
// for concurrent use.
type Decoder struct {
	key      color.NRGBA
	keyed    bool
	paletted bool
}

// NewDecoder creates a decoder.
func NewDecoder(opts Options) *Decoder {
	key := opts.ColorKey
	if key == (color.NRGBA{}) {
		key = domain.DefaultColorKey
	}
	return &Decoder{key: key, keyed: !opts.NoColorKey, paletted: opts.AllowPaletted}
}

// header holds the validated fields of a BMP file.
type header struct {
	width, height int
	topDown       bool
	bpp           int
	compression   uint32
	pixelOffset   int
	stride        int
	masks         channelMasks
}

// channelMasks records which byte of a 32-bit pixel carries each channel.
// A negative index means the channel is absent.
type channelMasks struct {
	r, g, b, a int
}

var defaultMasks = channelMasks{r: 2, g: 1, b: 0, a: 3}

// Decode validates and decodes one BMP.
func (d *Decoder) Decode(data []byte) (*domain.Bitmap, error) {
	h, err := parseHeader(data)
	if err != nil {
		return nil, err
	}

	switch h.bpp {
	case 24, 32:
		img := d.decodeDirect(data, h)
		return &domain.Bitmap{Image: img, SourceDepth: h.bpp}, nil
	case 1, 4, 8:
		if !d.paletted {
			return nil, domain.NewBitmapError(domain.BitmapUnsupportedDepth,
				fmt.Sprintf("%d-bit paletted bitmaps are not enabled", h.bpp), nil)
		}
		return d.decodePaletted(data, h)
	}
	return nil, domain.NewBitmapError(domain.BitmapUnsupportedDepth,
		fmt.Sprintf("%d-bit bitmaps are not supported", h.bpp), nil)
}

func parseHeader(data []byte) (header, error) {
	var h header

	if len(data) < 2 || data[0] != 'B' || data[1] != 'M' {
		return h, domain.NewBitmapError(domain.BitmapInvalidHeader, "missing BM signature", nil)
	}
	if len(data) < fileHeaderLen+4 {
		return h, domain.NewBitmapError(domain.BitmapTruncated,
			fmt.Sprintf("file header needs %d bytes, have %d", fileHeaderLen+4, len(data)), nil)
	}

	dibLen := int(binary.LittleEndian.Uint32(data[14:]))
	switch dibLen {
	case 40, 52, 56, 108, 124:
	default:
		return h, domain.NewBitmapError(domain.BitmapInvalidHeader,
			fmt.Sprintf("unsupported info header size %d", dibLen), nil)
	}
	if len(data) < fileHeaderLen+dibLen {
		return h, domain.NewBitmapError(domain.BitmapTruncated,
			fmt.Sprintf("info header needs %d bytes, have %d", fileHeaderLen+dibLen, len(data)), nil)
	}

	width := int32(binary.LittleEndian.Uint32(data[18:]))
	height := int32(binary.LittleEndian.Uint32(data[22:]))
	planes := binary.LittleEndian.Uint16(data[26:])
	h.bpp = int(binary.LittleEndian.Uint16(data[28:]))
	h.compression = binary.LittleEndian.Uint32(data[30:])

	if planes != 1 {
		return h, domain.NewBitmapError(domain.BitmapInvalidHeader, fmt.Sprintf("planes must be 1, got %d", planes), nil)
	}
	if width <= 0 || height == 0 || width > maxDimension || height > maxDimension || height < -maxDimension {
		return h, domain.NewBitmapError(domain.BitmapInvalidHeader,
			fmt.Sprintf("invalid dimensions %dx%d", width, height), nil)
	}
	h.width = int(width)
	if height < 0 {
		h.topDown = true
		h.height = int(-height)
	} else {
		h.height = int(height)
	}

	switch h.bpp {
	case 1, 4, 8, 16, 24, 32:
	default:
		return h, domain.NewBitmapError(domain.BitmapUnsupportedDepth, fmt.Sprintf("bit depth %d", h.bpp), nil)
	}

	h.masks = defaultMasks
	headerEnd := fileHeaderLen + dibLen
	switch h.compression {
	case compressionRGB:
	case compressionBitfields:
		if h.bpp != 32 {
			return h, domain.NewBitmapError(domain.BitmapUnsupportedDepth,
				fmt.Sprintf("bitfields at %d bits", h.bpp), nil)
		}
		// A plain info header is followed by three mask words; larger headers embed them.
		maskAt := fileHeaderLen + 40
		if dibLen == 40 {
			headerEnd += 12
		}
		if len(data) < maskAt+12 {
			return h, domain.NewBitmapError(domain.BitmapTruncated, "channel masks cut off", nil)
		}
		var alphaMask uint32
		if dibLen >= 56 {
			alphaMask = binary.LittleEndian.Uint32(data[maskAt+12:])
		}
		m, err := parseMasks(
			binary.LittleEndian.Uint32(data[maskAt:]),
			binary.LittleEndian.Uint32(data[maskAt+4:]),
			binary.LittleEndian.Uint32(data[maskAt+8:]),
			alphaMask,
		)
		if err != nil {
			return h, err
		}
		h.masks = m
	default:
		return h, domain.NewBitmapError(domain.BitmapInvalidHeader,
			fmt.Sprintf("unsupported compression %d", h.compression), nil)
	}

	h.pixelOffset = int(binary.LittleEndian.Uint32(data[10:]))
	if h.pixelOffset < headerEnd {
		return h, domain.NewBitmapError(domain.BitmapInvalidHeader,
			fmt.Sprintf("pixel data offset %d overlaps header", h.pixelOffset), nil)
	}

	// Dimensions are capped above, so these products cannot overflow an int.
	h.stride = ((h.width*h.bpp + 31) / 32) * 4
	need := int64(h.pixelOffset) + int64(h.stride)*int64(h.height)
	if int64(len(data)) < need {
		return h, domain.NewBitmapError(domain.BitmapTruncated,
			fmt.Sprintf("header declares %d bytes of pixel data, buffer provides %d",
				int64(h.stride)*int64(h.height), max(0, len(data)-h.pixelOffset)), nil)
	}

	return h, nil
}

// parseMasks accepts masks that each select one whole byte of the pixel.
func parseMasks(r, g, b, a uint32) (channelMasks, error) {
	index := func(mask uint32) (int, bool) {
		if mask == 0 {
			return -1, true
		}
		shift := bits.TrailingZeros32(mask)
		if shift%8 != 0 || mask>>shift != 0xFF {
			return 0, false
		}
		return shift / 8, true
	}

	var m channelMasks
	var ok [4]bool
	m.r, ok[0] = index(r)
	m.g, ok[1] = index(g)
	m.b, ok[2] = index(b)
	m.a, ok[3] = index(a)
	for _, v := range ok {
		if !v {
			return m, domain.NewBitmapError(domain.BitmapUnsupportedDepth,
				fmt.Sprintf("channel masks %08x/%08x/%08x/%08x", r, g, b, a), nil)
		}
	}
	if m.r < 0 || m.g < 0 || m.b < 0 || m.r == m.g || m.g == m.b || m.r == m.b {
		return m, domain.NewBitmapError(domain.BitmapInvalidHeader, "color masks overlap or are missing", nil)
	}
	return m, nil
}

func (d *Decoder) decodeDirect(data []byte, h header) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, h.width, h.height))
	bytesPerPixel := h.bpp / 8
	anyAlpha := false

	for y := 0; y < h.height; y++ {
		srcRow := h.height - 1 - y
		if h.topDown {
			srcRow = y
		}
		src := data[h.pixelOffset+srcRow*h.stride:]
		dst := img.Pix[y*img.Stride:]

		for x := 0; x < h.width; x++ {
			p := src[x*bytesPerPixel:]
			o := dst[x*4:]
			if bytesPerPixel == 3 {
				o[0], o[1], o[2], o[3] = p[2], p[1], p[0], 0xFF
				continue
			}
			o[0], o[1], o[2] = p[h.masks.r], p[h.masks.g], p[h.masks.b]
			if h.masks.a >= 0 {
				o[3] = p[h.masks.a]
				anyAlpha = anyAlpha || o[3] != 0
			} else {
				o[3] = 0xFF
			}
		}
	}

	// Most 32-bit skin sheets leave the fourth byte zeroed; that means "no alpha".
	if bytesPerPixel == 4 && h.masks.a >= 0 && !anyAlpha {
		for i := 3; i < len(img.Pix); i += 4 {
			img.Pix[i] = 0xFF
		}
	}

	d.applyColorKey(img)
	return img
}

func (d *Decoder) decodePaletted(data []byte, h header) (*domain.Bitmap, error) {
	src, err := bmp.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, domain.NewBitmapError(domain.BitmapInvalidHeader, "paletted decode failed", err)
	}

	b := src.Bounds()
	img := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			c := color.NRGBAModel.Convert(src.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			c.A = 0xFF
			img.SetNRGBA(x, y, c)
		}
	}
	d.applyColorKey(img)
	return &domain.Bitmap{Image: img, SourceDepth: h.bpp}, nil
}

func (d *Decoder) applyColorKey(img *image.NRGBA) {
	if !d.keyed {
		return
	}
	for i := 0; i+3 < len(img.Pix); i += 4 {
		if img.Pix[i] == d.key.R && img.Pix[i+1] == d.key.G && img.Pix[i+2] == d.key.B {
			img.Pix[i+3] = 0
		}
	}
}

var _ ports.BitmapDecoder = (*Decoder)(nil)
