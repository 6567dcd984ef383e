package globe

// InjectPress queues a left-button press at the given screen coordinates.
// The event is consumed by the next Update and picked during the next Draw.
func (s *Scene) InjectPress(x, y float64) {
	s.injectQueue = append(s.injectQueue, pointerSample{
		x: x, y: y,
		pressed: true,
		button:  MouseButtonLeft,
	})
}

// InjectRelease queues a left-button release at the given screen coordinates.
func (s *Scene) InjectRelease(x, y float64) {
	s.injectQueue = append(s.injectQueue, pointerSample{
		x: x, y: y,
		button: MouseButtonLeft,
	})
}

// InjectClick queues a press followed by a release at the same screen
// coordinates. Consumes two frames.
func (s *Scene) InjectClick(x, y float64) {
	s.InjectPress(x, y)
	s.InjectRelease(x, y)
}
