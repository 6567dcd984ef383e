package globe

import "github.com/hajimehoshi/ebiten/v2"

// BillboardOptions configures NewBillboard.
type BillboardOptions struct {
	// Region is the atlas region drawn when Image is nil.
	Region TextureRegion
	// Image, when non-nil, is drawn instead of Region.
	Image *ebiten.Image
	// Width and Height are the on-screen size in pixels. Zero uses the
	// source size.
	Width, Height float64
	// Color tints the icon; nil means white.
	Color *Color
	// Offset shifts the icon in screen pixels from the projected position.
	Offset    Vec2
	BlendMode BlendMode
}

// Billboard is a screen-aligned icon anchored at its entity's position.
type Billboard struct {
	featureBase

	Region    TextureRegion
	Image     *ebiten.Image
	Width     float64
	Height    float64
	Color     Color
	Offset    Vec2
	BlendMode BlendMode
}

// NewBillboard creates a detached billboard.
func NewBillboard(opts BillboardOptions) *Billboard {
	b := &Billboard{
		Region:    opts.Region,
		Image:     opts.Image,
		Width:     opts.Width,
		Height:    opts.Height,
		Color:     ColorWhite,
		Offset:    opts.Offset,
		BlendMode: opts.BlendMode,
	}
	if opts.Color != nil {
		b.Color = *opts.Color
	}
	b.init(FeatureBillboard)
	return b
}

// sourceSize returns the pixel size of the image or region drawn.
func (b *Billboard) sourceSize() (w, h float64) {
	if b.Image != nil {
		r := b.Image.Bounds()
		return float64(r.Dx()), float64(r.Dy())
	}
	return float64(b.Region.OriginalW), float64(b.Region.OriginalH)
}

// Size returns the on-screen size in pixels.
func (b *Billboard) Size() (w, h float64) {
	w, h = b.Width, b.Height
	if w == 0 || h == 0 {
		sw, sh := b.sourceSize()
		if w == 0 {
			w = sw
		}
		if h == 0 {
			h = sh
		}
	}
	return w, h
}
