package globe

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// scrollAnim holds active fly-to tweens for camera X, Y and zoom.
type scrollAnim struct {
	tweens [3]*gween.Tween
	done   [3]bool
}

// Camera is a planar view onto the scene's XY plane: world X/Y map to screen
// pixels through pan, zoom and rotation. World Z only orders drawing.
type Camera struct {
	// X and Y are the world position the camera centers on.
	X, Y float64
	// Zoom is pixels per world unit.
	Zoom float64
	// Rotation is the camera rotation in radians (clockwise).
	Rotation float64
	// Viewport is the screen-space rectangle this camera renders into.
	Viewport Rect

	followTarget *Entity
	followOffset Vec2
	followLerp   float64

	viewMatrix    [6]float64
	invViewMatrix [6]float64
	dirty         bool

	fly *scrollAnim
}

// newCamera creates a Camera with default values and the given viewport.
func newCamera(viewport Rect) *Camera {
	return &Camera{Zoom: 1, Viewport: viewport, dirty: true}
}

// Follow makes the camera track an entity's position with the given offset
// and lerp factor. A lerp of 1 snaps immediately.
func (c *Camera) Follow(e *Entity, offset Vec2, lerp float64) {
	c.followTarget = e
	c.followOffset = offset
	c.followLerp = lerp
}

// Unfollow stops tracking the current target.
func (c *Camera) Unfollow() {
	c.followTarget = nil
}

// FlyTo animates the camera center and zoom over duration seconds.
func (c *Camera) FlyTo(x, y, zoom float64, duration float32, easeFn ease.TweenFunc) {
	c.fly = &scrollAnim{tweens: [3]*gween.Tween{
		gween.New(float32(c.X), float32(x), duration, easeFn),
		gween.New(float32(c.Y), float32(y), duration, easeFn),
		gween.New(float32(c.Zoom), float32(zoom), duration, easeFn),
	}}
}

// FlyToEntity animates the camera onto an entity's current position,
// keeping the zoom.
func (c *Camera) FlyToEntity(e *Entity, duration float32, easeFn ease.TweenFunc) {
	p := e.Position()
	c.FlyTo(p.X, p.Y, c.Zoom, duration, easeFn)
}

// Flying reports whether a FlyTo animation is in progress.
func (c *Camera) Flying() bool { return c.fly != nil }

// update advances follow and fly-to animation. Called from Scene.Update.
func (c *Camera) update(dt float32) {
	prevX, prevY, prevZoom, prevRot := c.X, c.Y, c.Zoom, c.Rotation

	if t := c.followTarget; t != nil {
		p := t.Position()
		c.X += (p.X + c.followOffset.X - c.X) * c.followLerp
		c.Y += (p.Y + c.followOffset.Y - c.Y) * c.followLerp
	}

	if c.fly != nil {
		fields := [3]*float64{&c.X, &c.Y, &c.Zoom}
		finished := true
		for i, tw := range c.fly.tweens {
			if c.fly.done[i] {
				continue
			}
			val, done := tw.Update(dt)
			*fields[i] = float64(val)
			c.fly.done[i] = done
			finished = finished && done
		}
		if finished {
			c.fly = nil
		}
	}

	if c.X != prevX || c.Y != prevY || c.Zoom != prevZoom || c.Rotation != prevRot {
		c.dirty = true
	}
}

// computeViewMatrix recomputes the cached view matrix if dirty.
//
// viewMatrix = Translate(cx, cy) * Scale(zoom) * Rotate(-rotation) * Translate(-X, -Y)
// where cx, cy = viewport center.
func (c *Camera) computeViewMatrix() [6]float64 {
	if !c.dirty {
		return c.viewMatrix
	}
	c.dirty = false

	cx := c.Viewport.X + c.Viewport.Width/2
	cy := c.Viewport.Y + c.Viewport.Height/2

	sin, cos := math.Sincos(-c.Rotation)
	z := c.Zoom

	a := z * cos
	b := -z * sin
	cc := z * sin
	d := z * cos
	tx := cx + z*(-cos*c.X+sin*c.Y)
	ty := cy + z*(-sin*c.X-cos*c.Y)

	c.viewMatrix = [6]float64{a, cc, b, d, tx, ty}
	c.invViewMatrix = invertAffine(c.viewMatrix)
	return c.viewMatrix
}

// WorldToScreen converts world coordinates to screen coordinates.
func (c *Camera) WorldToScreen(wx, wy float64) (sx, sy float64) {
	c.computeViewMatrix()
	return transformPoint(c.viewMatrix, wx, wy)
}

// ScreenToWorld converts screen coordinates to world coordinates.
func (c *Camera) ScreenToWorld(sx, sy float64) (wx, wy float64) {
	c.computeViewMatrix()
	return transformPoint(c.invViewMatrix, sx, sy)
}

// MarkDirty forces a recomputation of the view matrix.
func (c *Camera) MarkDirty() {
	c.dirty = true
}

// invertAffine inverts [a, b, c, d, tx, ty]. Singular matrices yield identity.
func invertAffine(m [6]float64) [6]float64 {
	a, b, c, d, tx, ty := m[0], m[1], m[2], m[3], m[4], m[5]
	det := a*d - b*c
	if det == 0 {
		return [6]float64{1, 0, 0, 1, 0, 0}
	}
	inv := 1 / det
	return [6]float64{
		d * inv,
		-b * inv,
		-c * inv,
		a * inv,
		(c*ty - d*tx) * inv,
		(b*tx - a*ty) * inv,
	}
}

// transformPoint applies an affine matrix to a point.
func transformPoint(m [6]float64, x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}
