package globe

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenGroup animates up to 4 float64 values simultaneously and hands them
// to an apply function every step. Create one via the convenience
// constructors (TweenPosition, TweenBillboardColor, TweenLabelColor) and
// either call Update(dt) yourself or register it with Scene.AddTween.
type TweenGroup struct {
	tweens [4]*gween.Tween
	count  int
	values [4]float64
	apply  func(v [4]float64)
	Done   bool
}

// Update advances all tweens by dt seconds and applies the current values.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}
	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		g.values[i] = float64(val)
		if !finished {
			allDone = false
		}
	}
	g.Done = allDone
	g.apply(g.values)
}

// Stop ends the group without applying further values.
func (g *TweenGroup) Stop() { g.Done = true }

func newTweenGroup(from, to []float64, duration float32, fn ease.TweenFunc, apply func([4]float64)) *TweenGroup {
	g := &TweenGroup{count: len(from), apply: apply}
	for i := range from {
		g.tweens[i] = gween.New(float32(from[i]), float32(to[i]), duration, fn)
		g.values[i] = from[i]
	}
	return g
}

// TweenPosition creates a TweenGroup that moves e to the given position.
// Every step goes through Entity.SetPosition, so features and descendants
// follow.
func TweenPosition(e *Entity, to Vec3, duration float32, fn ease.TweenFunc) *TweenGroup {
	p := e.Position()
	return newTweenGroup(
		[]float64{p.X, p.Y, p.Z},
		[]float64{to.X, to.Y, to.Z},
		duration, fn,
		func(v [4]float64) { e.SetPosition(v[0], v[1], v[2]) },
	)
}

// TweenBillboardColor creates a TweenGroup that animates all four components
// of b.Color to the target color.
func TweenBillboardColor(b *Billboard, to Color, duration float32, fn ease.TweenFunc) *TweenGroup {
	c := b.Color
	return newTweenGroup(
		[]float64{c.R, c.G, c.B, c.A},
		[]float64{to.R, to.G, to.B, to.A},
		duration, fn,
		func(v [4]float64) { b.Color = Color{v[0], v[1], v[2], v[3]} },
	)
}

// TweenLabelColor creates a TweenGroup that animates a label's fill color.
func TweenLabelColor(l *Label, to Color, duration float32, fn ease.TweenFunc) *TweenGroup {
	c := l.Color()
	return newTweenGroup(
		[]float64{c.R, c.G, c.B, c.A},
		[]float64{to.R, to.G, to.B, to.A},
		duration, fn,
		func(v [4]float64) { l.SetColor(Color{v[0], v[1], v[2], v[3]}) },
	)
}

// AddTween registers g to be advanced by every Scene.Update until it is done.
func (s *Scene) AddTween(g *TweenGroup) {
	s.tweens = append(s.tweens, g)
}

// updateTweens advances registered tweens and drops finished ones.
func (s *Scene) updateTweens(dt float32) {
	n := 0
	for _, g := range s.tweens {
		g.Update(dt)
		if !g.Done {
			s.tweens[n] = g
			n++
		}
	}
	clear(s.tweens[n:])
	s.tweens = s.tweens[:n]
}
