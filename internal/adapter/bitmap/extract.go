package bitmap

import (
	"image"

	"github.com/tejashwikalptaru/skinamp/internal/domain"
	xdraw "golang.org/x/image/draw"
)

// Extract copies region out of bm into a freshly allocated sprite. Alpha is
// preserved per pixel. The returned image never aliases the sheet.
func Extract(bm *domain.Bitmap, region domain.SpriteRegion) (*domain.Sprite, error) {
	if bm == nil || bm.Image == nil {
		return nil, &domain.ExtractionError{
			Sprite: region.Name,
			Sheet:  region.Sheet,
			Region: region.Rect.String(),
			Bounds: image.Rectangle{}.String(),
		}
	}

	r := region.Rect
	if r.Empty() || !r.In(bm.Bounds()) {
		return nil, &domain.ExtractionError{
			Sprite: region.Name,
			Sheet:  region.Sheet,
			Region: r.String(),
			Bounds: bm.Bounds().String(),
		}
	}

	src := bm.Image
	dst := image.NewNRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	rowBytes := r.Dx() * 4
	for y := 0; y < r.Dy(); y++ {
		from := src.PixOffset(r.Min.X, r.Min.Y+y)
		copy(dst.Pix[y*dst.Stride:y*dst.Stride+rowBytes], src.Pix[from:from+rowBytes])
	}

	return &domain.Sprite{Region: region, Image: dst}, nil
}

// Scale returns a copy of s enlarged by an integer factor with nearest-neighbour
// sampling, as used by double-size mode. A factor below 2 returns s unchanged.
func Scale(s *domain.Sprite, factor int) *domain.Sprite {
	if s == nil || factor < 2 {
		return s
	}
	b := s.Image.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), s.Image, b, xdraw.Src, nil)
	return &domain.Sprite{Region: s.Region, Image: dst}
}
