package globe

import (
	"bytes"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

// Font wraps Ebitengine's text/v2 for TrueType label rendering.
type Font struct {
	face *text.GoTextFace
	lh   float64 // cached line height
}

// LoadFont loads a TrueType font from raw TTF/OTF data at the given size.
func LoadFont(ttfData []byte, size float64) (*Font, error) {
	source, err := text.NewGoTextFaceSource(bytes.NewReader(ttfData))
	if err != nil {
		return nil, fmt.Errorf("globe: failed to parse TTF data: %w", err)
	}
	face := &text.GoTextFace{
		Source: source,
		Size:   size,
	}
	m := face.Metrics()
	return &Font{face: face, lh: m.HAscent + m.HDescent + m.HLineGap}, nil
}

// MeasureString returns the width and height of the rendered text.
func (f *Font) MeasureString(s string) (width, height float64) {
	return text.Measure(s, f.face, f.lh)
}

// LineHeight returns the vertical distance between baselines.
func (f *Font) LineHeight() float64 {
	return f.lh
}

// Face returns the underlying GoTextFace for direct text/v2 rendering.
func (f *Font) Face() *text.GoTextFace {
	return f.face
}

// Outline defines a text stroke rendered behind the fill.
type Outline struct {
	Color     Color
	Thickness float64
}

// LabelOptions configures NewLabel.
type LabelOptions struct {
	Text string
	Font *Font
	// Color is the fill color; nil means white.
	Color   *Color
	Outline *Outline
	// Offset shifts the text in screen pixels from the projected position.
	// The text's left edge is anchored there, vertically centered.
	Offset Vec2
}

// Label is screen-aligned text anchored at its entity's position.
type Label struct {
	featureBase

	text    string
	font    *Font
	color   Color
	outline *Outline
	Offset  Vec2

	image *ebiten.Image // cached rendering
	dirty bool
}

// NewLabel creates a detached label.
func NewLabel(opts LabelOptions) *Label {
	l := &Label{
		text:    opts.Text,
		font:    opts.Font,
		color:   ColorWhite,
		outline: opts.Outline,
		Offset:  opts.Offset,
		dirty:   true,
	}
	if opts.Color != nil {
		l.color = *opts.Color
	}
	l.init(FeatureLabel)
	return l
}

// Text returns the label text.
func (l *Label) Text() string { return l.text }

// SetText changes the label text.
func (l *Label) SetText(s string) {
	if s == l.text {
		return
	}
	l.text = s
	l.dirty = true
}

// Font returns the label font, or nil.
func (l *Label) Font() *Font { return l.font }

// SetFont changes the label font.
func (l *Label) SetFont(f *Font) {
	l.font = f
	l.dirty = true
}

// Color returns the fill color.
func (l *Label) Color() Color { return l.color }

// SetColor changes the fill color.
func (l *Label) SetColor(c Color) {
	l.color = c
	l.dirty = true
}

// SetOutline changes the outline; nil disables it.
func (l *Label) SetOutline(o *Outline) {
	l.outline = o
	l.dirty = true
}

// Size returns the measured text size in pixels, zero without a font.
func (l *Label) Size() (w, h float64) {
	if l.font == nil || l.text == "" {
		return 0, 0
	}
	w, h = l.font.MeasureString(l.text)
	if l.outline != nil {
		w += 2 * l.outline.Thickness
		h += 2 * l.outline.Thickness
	}
	return w, h
}

// render re-renders the cached text image when dirty and returns it.
// Returns nil when there is nothing to draw.
func (l *Label) render() *ebiten.Image {
	if !l.dirty {
		return l.image
	}
	l.dirty = false

	mw, mh := l.Size()
	if mw == 0 || mh == 0 {
		if l.image != nil {
			l.image.Deallocate()
			l.image = nil
		}
		return nil
	}
	w, h := int(mw)+1, int(mh)+1
	if l.image != nil {
		b := l.image.Bounds()
		if b.Dx() != w || b.Dy() != h {
			l.image.Deallocate()
			l.image = ebiten.NewImage(w, h)
		} else {
			l.image.Clear()
		}
	} else {
		l.image = ebiten.NewImage(w, h)
	}

	var pad float64
	if o := l.outline; o != nil && o.Thickness > 0 {
		pad = o.Thickness
		for _, d := range outlineDirections {
			op := &text.DrawOptions{}
			op.GeoM.Translate(pad+d.X*pad, pad+d.Y*pad)
			op.ColorScale.ScaleWithColor(o.Color.toRGBA())
			op.LineSpacing = l.font.lh
			text.Draw(l.image, l.text, l.font.face, op)
		}
	}
	op := &text.DrawOptions{}
	op.GeoM.Translate(pad, pad)
	op.ColorScale.ScaleWithColor(l.color.toRGBA())
	op.LineSpacing = l.font.lh
	text.Draw(l.image, l.text, l.font.face, op)
	return l.image
}

var outlineDirections = [8]Vec2{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}
