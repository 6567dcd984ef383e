package globe

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"
)

// maxPickColor is the largest 24-bit picking color value.
const maxPickColor = 1<<24 - 1

// pickColorAllocator hands out unique picking colors. Colors are issued
// monotonically from 0x000001; once the 24-bit space is exhausted, colors
// released by removed attachment units are reused in release order. A color
// is only released after every entity carrying it has been reset to null.
type pickColorAllocator struct {
	last uint32
	// free[head:] is the FIFO of released colors.
	free   []PickColor
	head   int
	owners map[PickColor]*Entity
}

func (a *pickColorAllocator) allocate() PickColor {
	if a.last < maxPickColor {
		a.last++
		return PickColorFromUint32(a.last)
	}
	if a.head == len(a.free) {
		panic("globe: picking color space exhausted")
	}
	c := a.free[a.head]
	a.head++
	if a.head == len(a.free) {
		a.free = a.free[:0]
		a.head = 0
	} else if a.head > len(a.free)/2 {
		n := copy(a.free, a.free[a.head:])
		a.free = a.free[:n]
		a.head = 0
	}
	return c
}

func (a *pickColorAllocator) bind(c PickColor, e *Entity) {
	if a.owners == nil {
		a.owners = make(map[PickColor]*Entity)
	}
	a.owners[c] = e
}

func (a *pickColorAllocator) release(c PickColor) {
	if c.IsNull() {
		return
	}
	delete(a.owners, c)
	a.free = append(a.free, c)
}

// released returns the number of colors waiting for reuse.
func (a *pickColorAllocator) released() int { return len(a.free) - a.head }

// owner returns the attachment unit root for c, or nil.
func (a *pickColorAllocator) owner(c PickColor) *Entity {
	if c.IsNull() {
		return nil
	}
	return a.owners[c]
}

// PickBuffer resolves a screen pixel to the picking color rendered there.
// The default implementation is an offscreen ebiten image filled by the
// picking pass during Scene.Draw.
type PickBuffer interface {
	ColorAt(x, y int) PickColor
}

// pickingPass renders every visible live feature as a solid rectangle in
// its picking color into an offscreen image.
type pickingPass struct {
	img *ebiten.Image
}

// render redraws the picking image from the already-sorted command list.
func (p *pickingPass) render(commands []RenderCommand, w, h int) {
	if w <= 0 || h <= 0 {
		return
	}
	if p.img != nil {
		b := p.img.Bounds()
		if b.Dx() != w || b.Dy() != h {
			p.img.Deallocate()
			p.img = nil
		}
	}
	if p.img == nil {
		p.img = ebiten.NewImageWithOptions(image.Rect(0, 0, w, h), &ebiten.NewImageOptions{Unmanaged: true})
	} else {
		p.img.Clear()
	}

	var op ebiten.DrawImageOptions
	for i := range commands {
		cmd := &commands[i]
		if cmd.Pick.IsNull() || cmd.Width <= 0 || cmd.Height <= 0 {
			continue
		}
		op.GeoM.Reset()
		op.GeoM.Scale(cmd.Width, cmd.Height)
		op.GeoM.Translate(cmd.X, cmd.Y)
		op.ColorScale.Reset()
		op.ColorScale.Scale(
			float32(cmd.Pick.R)/255,
			float32(cmd.Pick.G)/255,
			float32(cmd.Pick.B)/255,
			1,
		)
		op.Blend = ebiten.BlendCopy
		p.img.DrawImage(WhitePixel, &op)
	}
}

// ColorAt reads back the picking color at (x, y).
func (p *pickingPass) ColorAt(x, y int) PickColor {
	if p.img == nil || !image.Pt(x, y).In(p.img.Bounds()) {
		return NullPickColor
	}
	var px [4]byte
	p.img.SubImage(image.Rect(x, y, x+1, y+1)).(*ebiten.Image).ReadPixels(px[:])
	if px[3] == 0 {
		return NullPickColor
	}
	return PickColor{R: px[0], G: px[1], B: px[2]}
}

// SetPickBuffer replaces the picking pass with a custom buffer. nil restores
// the built-in offscreen pass.
func (s *Scene) SetPickBuffer(buf PickBuffer) {
	s.pickBuffer = buf
}

func (s *Scene) activePickBuffer() PickBuffer {
	if s.pickBuffer != nil {
		return s.pickBuffer
	}
	return &s.pickPass
}

// PickAt returns the attachment unit rendered at screen pixel (x, y), or
// nil. With the built-in pass this reflects the most recent Draw.
func (s *Scene) PickAt(x, y float64) *Entity {
	c := s.activePickBuffer().ColorAt(int(x), int(y))
	return s.EntityByColor(c)
}

// EntityByColor returns the attachment unit root that owns c, or nil.
func (s *Scene) EntityByColor(c PickColor) *Entity {
	return s.picking.owner(c)
}
