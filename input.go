package globe

import "github.com/hajimehoshi/ebiten/v2"

// PickContext carries the data of a pick interaction.
type PickContext struct {
	// Entity is the attachment unit root under the pointer, or nil.
	Entity    *Entity
	Color     PickColor
	ScreenX   float64
	ScreenY   float64
	WorldX    float64
	WorldY    float64
	Button    MouseButton
	Modifiers KeyModifiers
}

// pointerSample is one pointer observation waiting for the picking buffer.
type pointerSample struct {
	x, y    float64
	pressed bool
	button  MouseButton
	mods    KeyModifiers
}

type pointerState struct {
	sampled bool // button state last queued by processInput
	down    bool // button state last resolved against the pick buffer
	button  MouseButton
	hitUnit *Entity
}

// --- Handler registry ---

type pickHandler struct {
	id uint32
	fn func(PickContext)
}

type handlerRegistry struct {
	pointerDown []pickHandler
	pointerUp   []pickHandler
	click       []pickHandler
	nextID      uint32
}

// CallbackHandle allows removing a registered scene-level callback.
type CallbackHandle struct {
	id    uint32
	reg   *handlerRegistry
	event EventType
}

// Remove unregisters this callback so it no longer fires.
func (h CallbackHandle) Remove() {
	if h.reg == nil {
		return
	}
	switch h.event {
	case EventPointerDown:
		h.reg.pointerDown = removePickHandler(h.reg.pointerDown, h.id)
	case EventPointerUp:
		h.reg.pointerUp = removePickHandler(h.reg.pointerUp, h.id)
	case EventClick:
		h.reg.click = removePickHandler(h.reg.click, h.id)
	}
}

func removePickHandler(s []pickHandler, id uint32) []pickHandler {
	for i, h := range s {
		if h.id == id {
			return append(s[:i], s[i+1:]...)
		}
	}
	return s
}

func (s *Scene) register(event EventType, list *[]pickHandler, fn func(PickContext)) CallbackHandle {
	s.handlers.nextID++
	id := s.handlers.nextID
	*list = append(*list, pickHandler{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &s.handlers, event: event}
}

// OnPointerDown registers a callback fired when a button is pressed. The
// context's Entity is nil when nothing is under the pointer.
func (s *Scene) OnPointerDown(fn func(PickContext)) CallbackHandle {
	return s.register(EventPointerDown, &s.handlers.pointerDown, fn)
}

// OnPointerUp registers a callback fired when a button is released.
func (s *Scene) OnPointerUp(fn func(PickContext)) CallbackHandle {
	return s.register(EventPointerUp, &s.handlers.pointerUp, fn)
}

// OnClick registers a callback fired when a press and the following release
// pick the same attachment unit.
func (s *Scene) OnClick(fn func(PickContext)) CallbackHandle {
	return s.register(EventClick, &s.handlers.click, fn)
}

// --- Input processing ---

func readModifiers() KeyModifiers {
	var m KeyModifiers
	if ebiten.IsKeyPressed(ebiten.KeyShift) {
		m |= ModShift
	}
	if ebiten.IsKeyPressed(ebiten.KeyControl) {
		m |= ModCtrl
	}
	if ebiten.IsKeyPressed(ebiten.KeyAlt) {
		m |= ModAlt
	}
	if ebiten.IsKeyPressed(ebiten.KeyMeta) {
		m |= ModMeta
	}
	return m
}

// processInput queues this frame's pointer sample when the button state
// changed. Injected events take priority over the real mouse.
func (s *Scene) processInput() {
	if len(s.injectQueue) > 0 {
		s.pending = append(s.pending, s.injectQueue[0])
		copy(s.injectQueue, s.injectQueue[1:])
		s.injectQueue = s.injectQueue[:len(s.injectQueue)-1]
		return
	}

	button := MouseButtonLeft
	pressed := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	if !pressed && ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight) {
		button, pressed = MouseButtonRight, true
	}
	if pressed == s.pointer.sampled {
		return
	}
	s.pointer.sampled = pressed
	x, y := ebiten.CursorPosition()
	s.pending = append(s.pending, pointerSample{
		x: float64(x), y: float64(y),
		pressed: pressed,
		button:  button,
		mods:    readModifiers(),
	})
}

// resolvePointers picks every pending sample against the current buffer.
func (s *Scene) resolvePointers() {
	for _, p := range s.pending {
		s.processPointer(p)
	}
	s.pending = s.pending[:0]
}

// processPointer runs the press/release state machine for one sample.
func (s *Scene) processPointer(p pointerSample) {
	ps := &s.pointer
	ctx := s.pickContext(p)

	switch {
	case p.pressed && !ps.down:
		ps.down = true
		ps.button = p.button
		ps.hitUnit = ctx.Entity
		s.fire(EventPointerDown, s.handlers.pointerDown, ctx)
	case !p.pressed && ps.down:
		ctx.Button = ps.button
		if ps.hitUnit != nil && ps.hitUnit == ctx.Entity {
			s.fire(EventClick, s.handlers.click, ctx)
		}
		s.fire(EventPointerUp, s.handlers.pointerUp, ctx)
		ps.down = false
		ps.hitUnit = nil
	}
}

func (s *Scene) pickContext(p pointerSample) PickContext {
	c := s.activePickBuffer().ColorAt(int(p.x), int(p.y))
	wx, wy := p.x, p.y
	if s.camera != nil {
		wx, wy = s.camera.ScreenToWorld(p.x, p.y)
	}
	return PickContext{
		Entity:    s.EntityByColor(c),
		Color:     c,
		ScreenX:   p.x,
		ScreenY:   p.y,
		WorldX:    wx,
		WorldY:    wy,
		Button:    p.button,
		Modifiers: p.mods,
	}
}

func (s *Scene) fire(event EventType, handlers []pickHandler, ctx PickContext) {
	for _, h := range handlers {
		h.fn(ctx)
	}
	s.emitInteractionEvent(event, ctx)
}

// --- ECS bridge ---

func (s *Scene) emitInteractionEvent(event EventType, ctx PickContext) {
	if s.store == nil || ctx.Entity == nil {
		return
	}
	s.store.EmitEvent(InteractionEvent{
		Type:      event,
		EntityID:  ctx.Entity.id,
		Color:     ctx.Color,
		ScreenX:   ctx.ScreenX,
		ScreenY:   ctx.ScreenY,
		WorldX:    ctx.WorldX,
		WorldY:    ctx.WorldY,
		Button:    ctx.Button,
		Modifiers: ctx.Modifiers,
	})
}
