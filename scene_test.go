package globe

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

func newTestScreen() *ebiten.Image {
	return ebiten.NewImage(64, 64)
}

func TestNewSceneEmpty(t *testing.T) {
	s := NewScene()
	if len(s.Collections()) != 0 || s.Camera() != nil || s.EntityByID(1) != nil {
		t.Error("new scene not empty")
	}
}

func TestSceneCollectionsInOrder(t *testing.T) {
	s := NewScene()
	a := s.NewCollection("a")
	b := s.NewCollection("b")
	if cs := s.Collections(); len(cs) != 2 || cs[0] != a || cs[1] != b {
		t.Error("collections not in creation order")
	}
	if s.Collection("b") != b || s.Collection("zz") != nil {
		t.Error("Collection lookup wrong")
	}
}

func TestSceneEntityByID(t *testing.T) {
	s := NewScene()
	c := s.NewCollection("c")
	e := newTestEntity(s, "e")
	if s.EntityByID(e.ID()) != nil {
		t.Error("unattached entity indexed")
	}
	e.AddTo(c)
	if s.EntityByID(e.ID()) != e {
		t.Error("attached entity not indexed")
	}
}

func TestSceneDrawWithCamera(t *testing.T) {
	s := NewScene()
	c := s.NewCollection("c")
	withBillboard(s, "e").AddTo(c).SetPosition(0, 0, 0)
	s.SetCamera(Rect{X: 8, Y: 8, Width: 32, Height: 32})

	s.Draw(newTestScreen())
	if len(s.commands) != 1 {
		t.Fatalf("commands = %d, want 1", len(s.commands))
	}
	// World origin projects to the viewport center.
	if cmd := s.commands[0]; cmd.X != 20 || cmd.Y != 20 {
		t.Errorf("cmd at (%f,%f), want (20,20)", cmd.X, cmd.Y)
	}
}

func TestSceneDrawSkipsPickPassWithoutInput(t *testing.T) {
	s := NewScene()
	c := s.NewCollection("c")
	withBillboard(s, "e").AddTo(c)
	s.Draw(newTestScreen())
	if s.pickPass.img != nil {
		t.Error("picking pass rendered with no pending input")
	}
}

func TestRunRejectsInvalidSize(t *testing.T) {
	if err := Run(NewScene(), RunConfig{Title: "x"}); err == nil {
		t.Error("expected error for zero window size")
	}
}

func TestRectContainsIntersects(t *testing.T) {
	r := Rect{X: 0, Y: 0, Width: 10, Height: 10}
	if !r.Contains(10, 10) || r.Contains(11, 5) {
		t.Error("Contains wrong")
	}
	if !r.Intersects(Rect{X: 10, Y: 10, Width: 5, Height: 5}) || r.Intersects(Rect{X: 11, Y: 0, Width: 1, Height: 1}) {
		t.Error("Intersects wrong")
	}
}

func TestColorToRGBAPremultiplied(t *testing.T) {
	c := Color{R: 1, G: 0.5, B: 2, A: 0.5}.toRGBA()
	if c.R != 127 || c.G != 63 || c.B != 255 || c.A != 127 {
		t.Errorf("toRGBA = %+v", c)
	}
}
