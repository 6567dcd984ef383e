package globe

import "github.com/hajimehoshi/ebiten/v2"

// color32 is a compact RGBA color using float32, for render commands only.
type color32 struct {
	R, G, B, A float32
}

func toColor32(c Color) color32 {
	return color32{float32(c.R), float32(c.G), float32(c.B), float32(c.A)}
}

// RenderCommand is a single screen-space draw instruction emitted from a
// handler's live features.
type RenderCommand struct {
	Kind FeatureKind
	// X, Y is the top-left corner in screen pixels; Width, Height the
	// on-screen size.
	X, Y          float64
	Width, Height float64
	Region        TextureRegion
	Color         color32
	BlendMode     BlendMode
	Pick          PickColor
	// Depth is the feature's world Z; larger depths draw on top.
	Depth float64
	order int // emission order for stable sort

	// directImage, when non-nil, is drawn instead of looking up an atlas page.
	directImage *ebiten.Image
}

// emitCommands walks every visible collection and appends one command per
// visible live feature that lands inside the viewport.
func (s *Scene) emitCommands(cam *Camera, viewport Rect) {
	order := 0
	for _, c := range s.collections {
		if !c.Visible {
			continue
		}
		for _, b := range c.billboards.items {
			s.emitBillboard(b.(*Billboard), cam, viewport, &order)
		}
		for _, l := range c.labels.items {
			s.emitLabel(l.(*Label), cam, viewport, &order)
		}
	}
}

func (s *Scene) emitBillboard(b *Billboard, cam *Camera, viewport Rect, order *int) {
	if !b.visible {
		return
	}
	w, h := b.Size()
	if w <= 0 || h <= 0 {
		return
	}
	sx, sy := project(cam, b.position)
	cmd := RenderCommand{
		Kind:      FeatureBillboard,
		X:         sx + b.Offset.X - w/2,
		Y:         sy + b.Offset.Y - h/2,
		Width:     w,
		Height:    h,
		Region:    b.Region,
		Color:     toColor32(b.Color),
		BlendMode: b.BlendMode,
		Pick:      b.pickingColor,
		Depth:     b.position.Z,
	}
	cmd.directImage = b.Image
	s.appendCommand(cmd, viewport, order)
}

func (s *Scene) emitLabel(l *Label, cam *Camera, viewport Rect, order *int) {
	if !l.visible {
		return
	}
	img := l.render()
	if img == nil {
		return
	}
	r := img.Bounds()
	w, h := float64(r.Dx()), float64(r.Dy())
	sx, sy := project(cam, l.position)
	s.appendCommand(RenderCommand{
		Kind:        FeatureLabel,
		X:           sx + l.Offset.X,
		Y:           sy + l.Offset.Y - h/2,
		Width:       w,
		Height:      h,
		Color:       color32{1, 1, 1, 1},
		Pick:        l.pickingColor,
		Depth:       l.position.Z,
		directImage: img,
	}, viewport, order)
}

func (s *Scene) appendCommand(cmd RenderCommand, viewport Rect, order *int) {
	if !viewport.Intersects(Rect{X: cmd.X, Y: cmd.Y, Width: cmd.Width, Height: cmd.Height}) {
		return
	}
	*order++
	cmd.order = *order
	s.commands = append(s.commands, cmd)
}

// project maps a world position to screen pixels. A nil camera is the
// identity view on the XY plane.
func project(cam *Camera, p Vec3) (float64, float64) {
	if cam == nil {
		return p.X, p.Y
	}
	return cam.WorldToScreen(p.X, p.Y)
}

// --- Merge sort ---

// commandLessOrEqual returns true if a should sort before or at the same position as b.
// Labels draw above billboards at equal depth. Using <= for order ensures stability.
func commandLessOrEqual(a, b *RenderCommand) bool {
	if a.Depth != b.Depth {
		return a.Depth < b.Depth
	}
	if a.Kind != b.Kind {
		return a.Kind < b.Kind
	}
	return a.order <= b.order
}

// sortCommands sorts s.commands in-place using s.sortBuf as scratch space.
// Bottom-up merge sort: zero allocations after the sort buffer reaches high-water mark.
func (s *Scene) sortCommands() {
	n := len(s.commands)
	if n <= 1 {
		return
	}
	if cap(s.sortBuf) < n {
		s.sortBuf = make([]RenderCommand, n)
	}
	s.sortBuf = s.sortBuf[:n]

	a := s.commands
	b := s.sortBuf
	swapped := false

	for width := 1; width < n; width *= 2 {
		for i := 0; i < n; i += 2 * width {
			mid := min(i+width, n)
			hi := min(i+2*width, n)
			mergeRun(a, b, i, mid, hi)
		}
		a, b = b, a
		swapped = !swapped
	}

	if swapped {
		copy(s.commands, s.sortBuf)
	}
}

// mergeRun merges two sorted runs [lo, mid) and [mid, hi) from src into dst.
func mergeRun(src, dst []RenderCommand, lo, mid, hi int) {
	i, j, k := lo, mid, lo
	for i < mid && j < hi {
		if commandLessOrEqual(&src[i], &src[j]) {
			dst[k] = src[i]
			i++
		} else {
			dst[k] = src[j]
			j++
		}
		k++
	}
	k += copy(dst[k:], src[i:mid])
	copy(dst[k:], src[j:hi])
}
