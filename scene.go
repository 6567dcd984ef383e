package globe

import (
	"image"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// EntityStore is the interface for optional ECS integration.
// When set on a Scene, pick interaction events are forwarded to the ECS.
type EntityStore interface {
	EmitEvent(event InteractionEvent)
}

// InteractionEvent carries pick interaction data for the ECS bridge.
type InteractionEvent struct {
	Type EventType
	// EntityID is the id of the attachment unit root that was picked.
	EntityID  uint64
	Color     PickColor
	ScreenX   float64
	ScreenY   float64
	WorldX    float64
	WorldY    float64
	Button    MouseButton
	Modifiers KeyModifiers
}

const defaultCommandCap = 1024

// Scene is the top-level session object. It allocates entity ids and
// picking colors, owns the entity collections and the camera, and renders
// and picks every visible collection.
type Scene struct {
	// ClearColor fills the screen before drawing when its alpha is non-zero.
	ClearColor Color

	ids         idAllocator
	picking     pickColorAllocator
	collections []*EntityCollection
	byID        map[uint64]*Entity

	store EntityStore
	debug bool

	camera *Camera
	tweens []*TweenGroup

	// Render state
	commands []RenderCommand
	sortBuf  []RenderCommand
	pages    []*ebiten.Image

	// Picking and input state
	pickBuffer  PickBuffer
	pickPass    pickingPass
	handlers    handlerRegistry
	pointer     pointerState
	pending     []pointerSample
	injectQueue []pointerSample
}

// NewScene creates an empty scene.
func NewScene() *Scene {
	return &Scene{
		byID:     make(map[uint64]*Entity),
		commands: make([]RenderCommand, 0, defaultCommandCap),
		sortBuf:  make([]RenderCommand, 0, defaultCommandCap),
	}
}

// Collections returns the scene's collections in creation order.
// The returned slice MUST NOT be mutated.
func (s *Scene) Collections() []*EntityCollection {
	return s.collections
}

// Collection returns the first collection with the given name, or nil.
func (s *Scene) Collection(name string) *EntityCollection {
	for _, c := range s.collections {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// RemoveCollection clears c and stops rendering it.
func (s *Scene) RemoveCollection(c *EntityCollection) {
	for i, cc := range s.collections {
		if cc == c {
			c.Clear()
			s.collections = append(s.collections[:i], s.collections[i+1:]...)
			return
		}
	}
}

// EntityByID returns the attached entity with the given id, or nil.
func (s *Scene) EntityByID(id uint64) *Entity {
	return s.byID[id]
}

// SetCamera creates the scene camera with the given viewport, replacing any
// previous one, and returns it.
func (s *Scene) SetCamera(viewport Rect) *Camera {
	s.camera = newCamera(viewport)
	return s.camera
}

// Camera returns the scene camera, or nil for the identity view.
func (s *Scene) Camera() *Camera {
	return s.camera
}

// SetEntityStore sets the optional ECS bridge.
func (s *Scene) SetEntityStore(store EntityStore) {
	s.store = store
}

// SetDebugMode enables or disables debug mode. When enabled, collection
// invariants are checked after every structural mutation, tree depth and
// child count warnings are printed, and per-frame stats are logged to stderr.
func (s *Scene) SetDebugMode(enabled bool) {
	s.debug = enabled
	globalDebug = enabled
}

// globalDebug mirrors the most recently set Scene debug flag so that entity
// operations (which lack a Scene pointer) can check it cheaply.
var globalDebug bool

// Update advances the camera and registered tweens, then collects pointer
// input for picking.
func (s *Scene) Update() {
	s.update(float32(1.0 / float64(ebiten.TPS())))
}

func (s *Scene) update(dt float32) {
	if s.camera != nil {
		s.camera.update(dt)
	}
	s.updateTweens(dt)
	s.processInput()
}

// Draw renders every visible collection to screen, then refreshes the
// picking buffer and resolves pointer input collected since the last frame.
func (s *Scene) Draw(screen *ebiten.Image) {
	if s.ClearColor.A > 0 {
		screen.Fill(s.ClearColor.toRGBA())
	}

	var stats debugStats
	var t0 time.Time
	if s.debug {
		t0 = time.Now()
	}

	b := screen.Bounds()
	viewport := Rect{X: 0, Y: 0, Width: float64(b.Dx()), Height: float64(b.Dy())}
	if s.camera != nil {
		viewport = s.camera.Viewport
		screen = screen.SubImage(image.Rect(
			int(viewport.X), int(viewport.Y),
			int(viewport.X+viewport.Width), int(viewport.Y+viewport.Height),
		)).(*ebiten.Image)
	}

	s.commands = s.commands[:0]
	s.emitCommands(s.camera, viewport)
	s.sortCommands()

	if s.debug {
		stats.emitTime = time.Since(t0)
		t0 = time.Now()
	}

	s.submitBatches(screen)

	if s.debug {
		stats.submitTime = time.Since(t0)
		t0 = time.Now()
	}

	if len(s.pending) > 0 {
		if s.pickBuffer == nil {
			s.pickPass.render(s.commands, b.Dx(), b.Dy())
		}
		s.resolvePointers()
	}

	if s.debug {
		stats.pickTime = time.Since(t0)
		stats.commandCount = len(s.commands)
		stats.batchCount = countBatches(s.commands)
		s.debugLog(stats)
	}
}
