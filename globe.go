package globe

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

// Vec3 is a 3D position. Fields are mutable; entities hand out a pointer to
// their own Vec3 so external holders observe in-place updates.
type Vec3 struct {
	X, Y, Z float64
}

// Set assigns all three components in place.
func (v *Vec3) Set(x, y, z float64) {
	v.X, v.Y, v.Z = x, y, z
}

// Vec2 is a 2D vector used for screen-space offsets.
type Vec2 struct {
	X, Y float64
}

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default tint (no color modification).
var ColorWhite = Color{1, 1, 1, 1}

// toRGBA converts to a premultiplied color.RGBA for image.Fill.
func (c Color) toRGBA() color.RGBA {
	return color.RGBA{
		R: uint8(clamp01(c.R*c.A) * 255),
		G: uint8(clamp01(c.G*c.A) * 255),
		B: uint8(clamp01(c.B*c.A) * 255),
		A: uint8(clamp01(c.A) * 255),
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// PickColor is the 24-bit color identity an entity renders with in the
// picking pass. The zero value is the null color and never identifies an
// entity.
type PickColor struct {
	R, G, B uint8
}

// NullPickColor is the reserved color of unattached entities.
var NullPickColor = PickColor{}

// IsNull reports whether c is the reserved null color.
func (c PickColor) IsNull() bool {
	return c == NullPickColor
}

// Uint32 packs the color as 0xRRGGBB.
func (c PickColor) Uint32() uint32 {
	return uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

// PickColorFromUint32 unpacks a 0xRRGGBB value. Bits above 24 are ignored.
func PickColorFromUint32(v uint32) PickColor {
	return PickColor{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}
}

// WhitePixel is a 1x1 white image used for solid billboards and the picking pass.
var WhitePixel *ebiten.Image

func init() {
	WhitePixel = ebiten.NewImage(1, 1)
	WhitePixel.Fill(ColorWhite.toRGBA())
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Intersects reports whether r and other overlap.
func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.Width &&
		r.X+r.Width >= other.X &&
		r.Y <= other.Y+other.Height &&
		r.Y+r.Height >= other.Y
}

// BlendMode selects a compositing operation for billboards and labels.
type BlendMode uint8

const (
	BlendNormal BlendMode = iota // source-over (standard alpha blending)
	BlendAdd                     // additive / lighter
	BlendNone                    // opaque copy (skip blending)
)

// EbitenBlend returns the ebiten.Blend value corresponding to this BlendMode.
func (b BlendMode) EbitenBlend() ebiten.Blend {
	switch b {
	case BlendAdd:
		return ebiten.BlendLighter
	case BlendNone:
		return ebiten.BlendCopy
	default:
		return ebiten.BlendSourceOver
	}
}

// EventType identifies a kind of pick interaction event.
type EventType uint8

const (
	EventPointerDown EventType = iota // a pointer button was pressed over an entity
	EventPointerUp                    // a pointer button was released
	EventClick                        // press then release over the same attachment unit
)

// MouseButton identifies a mouse button.
type MouseButton uint8

const (
	MouseButtonLeft   MouseButton = iota // primary (left) mouse button
	MouseButtonRight                     // secondary (right) mouse button
	MouseButtonMiddle                    // middle mouse button (scroll wheel click)
)

// KeyModifiers is a bitmask of keyboard modifier keys.
type KeyModifiers uint8

const (
	ModShift KeyModifiers = 1 << iota // Shift key
	ModCtrl                           // Control key
	ModAlt                            // Alt / Option key
	ModMeta                           // Meta / Command / Windows key
)
