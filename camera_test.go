package globe

import (
	"math"
	"testing"

	"github.com/tanema/gween/ease"
)

const epsilon = 1e-6

func approxEqual(a, b, eps float64) bool {
	return math.Abs(a-b) < eps
}

func TestCameraDefaults(t *testing.T) {
	cam := newCamera(Rect{X: 0, Y: 0, Width: 800, Height: 600})
	if cam.Zoom != 1.0 {
		t.Errorf("Zoom = %f, want 1.0", cam.Zoom)
	}
	if cam.Viewport.Width != 800 || cam.Viewport.Height != 600 {
		t.Errorf("Viewport = %v, want 800x600", cam.Viewport)
	}
}

func TestCameraIdentityViewMatrix(t *testing.T) {
	cam := newCamera(Rect{X: 0, Y: 0, Width: 800, Height: 600})
	vm := cam.computeViewMatrix()
	// At (0,0), zoom 1, no rotation the origin maps to the viewport center.
	sx, sy := transformPoint(vm, 0, 0)
	if !approxEqual(sx, 400, epsilon) || !approxEqual(sy, 300, epsilon) {
		t.Errorf("WorldToScreen(0,0) = (%f,%f), want (400,300)", sx, sy)
	}
}

func TestCameraTranslation(t *testing.T) {
	cam := newCamera(Rect{X: 0, Y: 0, Width: 800, Height: 600})
	cam.X = 100
	cam.Y = 50
	cam.MarkDirty()
	sx, sy := cam.WorldToScreen(100, 50)
	if !approxEqual(sx, 400, epsilon) || !approxEqual(sy, 300, epsilon) {
		t.Errorf("WorldToScreen(100,50) with cam at (100,50) = (%f,%f), want (400,300)", sx, sy)
	}
}

func TestCameraZoom(t *testing.T) {
	cam := newCamera(Rect{X: 0, Y: 0, Width: 800, Height: 600})
	cam.Zoom = 2.0
	cam.MarkDirty()

	sx1, _ := cam.WorldToScreen(1, 0)
	sx0, _ := cam.WorldToScreen(0, 0)
	if !approxEqual(sx1-sx0, 2.0, epsilon) {
		t.Errorf("screen distance = %f, want 2.0", sx1-sx0)
	}
}

func TestCameraRotation90(t *testing.T) {
	cam := newCamera(Rect{X: 0, Y: 0, Width: 800, Height: 600})
	cam.Rotation = math.Pi / 2
	cam.MarkDirty()
	sx, sy := cam.WorldToScreen(1, 0)
	if !approxEqual(sx, 400, epsilon) || !approxEqual(sy, 299, epsilon) {
		t.Errorf("WorldToScreen(1,0) rotated = (%f,%f), want (400,299)", sx, sy)
	}
}

func TestScreenToWorldRoundtrip(t *testing.T) {
	cam := newCamera(Rect{X: 10, Y: 20, Width: 640, Height: 480})
	cam.X, cam.Y, cam.Zoom, cam.Rotation = 37, -12, 1.7, 0.4
	cam.MarkDirty()
	for _, p := range [][2]float64{{0, 0}, {100, -50}, {-3.5, 8.25}} {
		sx, sy := cam.WorldToScreen(p[0], p[1])
		wx, wy := cam.ScreenToWorld(sx, sy)
		if !approxEqual(wx, p[0], 1e-9) || !approxEqual(wy, p[1], 1e-9) {
			t.Errorf("roundtrip %v = (%f,%f)", p, wx, wy)
		}
	}
}

func TestInvertAffineSingular(t *testing.T) {
	if got := invertAffine([6]float64{0, 0, 0, 0, 5, 5}); got != [6]float64{1, 0, 0, 1, 0, 0} {
		t.Errorf("singular inverse = %v, want identity", got)
	}
}

func TestCameraFollow(t *testing.T) {
	s := NewScene()
	e := newTestEntity(s, "target")
	e.SetPosition(100, 200, 0)

	cam := newCamera(Rect{Width: 800, Height: 600})
	cam.Follow(e, Vec2{}, 1.0)
	cam.update(1.0 / 60)

	if !approxEqual(cam.X, 100, 0.01) || !approxEqual(cam.Y, 200, 0.01) {
		t.Errorf("camera = (%f,%f), want (100,200)", cam.X, cam.Y)
	}
}

func TestCameraFollowLerpAndOffset(t *testing.T) {
	s := NewScene()
	e := newTestEntity(s, "target")
	e.SetPosition(100, 0, 0)

	cam := newCamera(Rect{Width: 800, Height: 600})
	cam.Follow(e, Vec2{X: 0, Y: 10}, 0.5)
	cam.update(1.0 / 60)

	if !approxEqual(cam.X, 50, 0.01) || !approxEqual(cam.Y, 5, 0.01) {
		t.Errorf("camera = (%f,%f), want (50,5)", cam.X, cam.Y)
	}

	cam.Unfollow()
	cam.update(1.0 / 60)
	if !approxEqual(cam.X, 50, 0.01) {
		t.Errorf("camera moved after Unfollow: %f", cam.X)
	}
}

func TestCameraFlyTo(t *testing.T) {
	cam := newCamera(Rect{Width: 800, Height: 600})
	cam.FlyTo(500, 300, 2, 1.0, ease.Linear)
	if !cam.Flying() {
		t.Fatal("Flying = false after FlyTo")
	}

	cam.update(0.5)
	if !approxEqual(cam.X, 250, 1) || !approxEqual(cam.Zoom, 1.5, 0.01) {
		t.Errorf("halfway = (%f, zoom %f), want (250, 1.5)", cam.X, cam.Zoom)
	}
	cam.update(0.5)

	if cam.Flying() {
		t.Error("Flying = true after duration")
	}
	if !approxEqual(cam.X, 500, 0.5) || !approxEqual(cam.Y, 300, 0.5) || !approxEqual(cam.Zoom, 2, 0.01) {
		t.Errorf("final = (%f,%f, zoom %f)", cam.X, cam.Y, cam.Zoom)
	}
}

func TestCameraFlyToEntity(t *testing.T) {
	s := NewScene()
	e := newTestEntity(s, "e")
	e.SetPosition(-40, 80, 3)
	cam := s.SetCamera(Rect{Width: 100, Height: 100})
	cam.FlyToEntity(e, 0.2, ease.Linear)
	cam.update(0.1)
	cam.update(0.1)
	if !approxEqual(cam.X, -40, 0.5) || !approxEqual(cam.Y, 80, 0.5) || cam.Zoom != 1 {
		t.Errorf("camera = (%f,%f, zoom %f)", cam.X, cam.Y, cam.Zoom)
	}
	if s.Camera() != cam {
		t.Error("Scene.Camera did not return the camera")
	}
}

func TestCameraUpdateMarksDirty(t *testing.T) {
	cam := newCamera(Rect{Width: 100, Height: 100})
	cam.computeViewMatrix()
	cam.update(0.1)
	if cam.dirty {
		t.Error("idle update marked the camera dirty")
	}
	cam.FlyTo(10, 0, 1, 0.1, ease.Linear)
	cam.update(0.1)
	if !cam.dirty {
		t.Error("moving update did not mark the camera dirty")
	}
}
