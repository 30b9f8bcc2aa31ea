package media

import (
	"fmt"
	"image"
	"os"

	"github.com/disintegration/imaging"
)

const (
	defaultLogoScale = 0.20
	defaultMargin    = 0.03
	defaultOpacity   = 0.85
)

// Watermarker stamps the agency logo onto listing photos. The logo is sized
// and positioned relative to each photo so small and large images look alike.
type Watermarker struct {
	logo    image.Image
	scale   float64
	margin  float64
	opacity float64
}

func NewWatermarker(logo image.Image) *Watermarker {
	return &Watermarker{
		logo:    logo,
		scale:   defaultLogoScale,
		margin:  defaultMargin,
		opacity: defaultOpacity,
	}
}

// LoadWatermarker reads the logo from disk. A missing or unreadable logo is
// a startup error.
func LoadWatermarker(path string) (*Watermarker, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("watermark logo %s: %w", path, err)
	}
	logo, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to decode watermark logo %s: %w", path, err)
	}
	return NewWatermarker(logo), nil
}

// Apply returns a copy of src with the logo composited in the bottom-right
// corner. The output has the same dimensions as src.
func (w *Watermarker) Apply(src image.Image) image.Image {
	bounds := src.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	logoWidth := int(float64(width) * w.scale)
	if logoWidth < 1 {
		logoWidth = 1
	}
	logo := imaging.Resize(w.logo, logoWidth, 0, imaging.Lanczos)
	if lb := logo.Bounds(); lb.Dy() > height {
		logo = imaging.Resize(w.logo, 0, height, imaging.Lanczos)
	}

	short := width
	if height < short {
		short = height
	}
	margin := int(float64(short) * w.margin)

	lb := logo.Bounds()
	x := width - lb.Dx() - margin
	y := height - lb.Dy() - margin
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}

	base := imaging.Clone(src)
	return imaging.Overlay(base, logo, image.Pt(x, y), w.opacity)
}
