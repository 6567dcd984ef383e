package globe

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"
)

// batchKey groups render commands that can be submitted in a single draw call.
type batchKey struct {
	kind   FeatureKind
	blend  BlendMode
	page   uint16
	direct *ebiten.Image
}

func commandBatchKey(cmd *RenderCommand) batchKey {
	k := batchKey{kind: cmd.Kind, blend: cmd.BlendMode, direct: cmd.directImage}
	if cmd.directImage == nil {
		k.page = cmd.Region.Page
	}
	return k
}

// submitBatches draws the sorted commands to the target image.
func (s *Scene) submitBatches(target *ebiten.Image) {
	if len(s.commands) == 0 {
		return
	}
	var op ebiten.DrawImageOptions
	for i := range s.commands {
		s.submitCommand(target, &s.commands[i], &op)
	}
}

// submitCommand draws one billboard or label quad using DrawImage.
func (s *Scene) submitCommand(target *ebiten.Image, cmd *RenderCommand, op *ebiten.DrawImageOptions) {
	src, srcW, srcH := s.commandSource(cmd)
	if src == nil || srcW == 0 || srcH == 0 {
		return
	}

	op.GeoM.Reset()
	r := &cmd.Region
	if cmd.directImage == nil && r.Rotated {
		// Rotated regions in atlas are stored rotated 90° CW.
		op.GeoM.Rotate(-1.5707963267948966) // -π/2
		op.GeoM.Translate(0, float64(r.Width))
	}
	if cmd.directImage == nil && (r.OffsetX != 0 || r.OffsetY != 0) {
		op.GeoM.Translate(float64(r.OffsetX), float64(r.OffsetY))
	}
	op.GeoM.Scale(cmd.Width/srcW, cmd.Height/srcH)
	op.GeoM.Translate(cmd.X, cmd.Y)

	// Apply premultiplied color scale
	op.ColorScale.Reset()
	a := cmd.Color.A
	op.ColorScale.Scale(cmd.Color.R*a, cmd.Color.G*a, cmd.Color.B*a, a)
	op.Blend = cmd.BlendMode.EbitenBlend()

	target.DrawImage(src, op)
}

// commandSource resolves the image a command draws and its untrimmed size.
func (s *Scene) commandSource(cmd *RenderCommand) (*ebiten.Image, float64, float64) {
	if cmd.directImage != nil {
		b := cmd.directImage.Bounds()
		return cmd.directImage, float64(b.Dx()), float64(b.Dy())
	}

	r := &cmd.Region
	var page *ebiten.Image
	switch {
	case r.Page == magentaPlaceholderPage:
		page = ensureMagentaImage()
	case r.Width == 0 && r.Height == 0:
		// Zero region: solid tinted quad.
		return WhitePixel, 1, 1
	case int(r.Page) < len(s.pages):
		page = s.pages[r.Page]
	}
	if page == nil {
		return nil, 0, 0
	}

	var subRect image.Rectangle
	if r.Rotated {
		subRect = image.Rect(int(r.X), int(r.Y), int(r.X)+int(r.Height), int(r.Y)+int(r.Width))
	} else {
		subRect = image.Rect(int(r.X), int(r.Y), int(r.X)+int(r.Width), int(r.Y)+int(r.Height))
	}
	return page.SubImage(subRect).(*ebiten.Image), float64(r.OriginalW), float64(r.OriginalH)
}

// countBatches counts contiguous groups of commands sharing the same batchKey.
// This reports how many draw calls a true batching implementation would produce.
func countBatches(commands []RenderCommand) int {
	if len(commands) == 0 {
		return 0
	}
	count := 1
	prev := commandBatchKey(&commands[0])
	for i := 1; i < len(commands); i++ {
		cur := commandBatchKey(&commands[i])
		if cur != prev {
			count++
			prev = cur
		}
	}
	return count
}
