package globe

import "testing"

type stubPickBuffer map[[2]int]PickColor

func (b stubPickBuffer) ColorAt(x, y int) PickColor { return b[[2]int{x, y}] }

func TestPickColorAllocatorSkipsNull(t *testing.T) {
	var a pickColorAllocator
	c := a.allocate()
	if c.IsNull() || c.Uint32() != 1 {
		t.Errorf("first color = %v, want 0x000001", c)
	}
	if a.allocate().Uint32() != 2 {
		t.Error("allocation not monotonic")
	}
}

func TestPickColorAllocatorReusesOnlyAfterExhaustion(t *testing.T) {
	var a pickColorAllocator
	first := a.allocate()
	a.release(first)
	if a.allocate() == first {
		t.Error("released color reused before the space was exhausted")
	}

	a.last = maxPickColor - 1
	last := a.allocate()
	if last.Uint32() != maxPickColor {
		t.Errorf("last fresh color = %06x", last.Uint32())
	}
	// Released in order first, then last: reuse is FIFO.
	a.release(last)
	if got := a.allocate(); got != first {
		t.Errorf("reused = %v, want %v", got, first)
	}
	if got := a.allocate(); got != last {
		t.Errorf("reused = %v, want %v", got, last)
	}
	expectPanic(t, "exhausted", func() { a.allocate() })
}

func TestPickColorAllocatorReuseStaysFIFO(t *testing.T) {
	var a pickColorAllocator
	a.last = maxPickColor
	var want []PickColor
	for i := uint32(1); i <= 10; i++ {
		c := PickColorFromUint32(i)
		a.release(c)
		want = append(want, c)
	}
	// Interleave reuse with further releases across free-list compactions.
	for i := 0; i < 30; i++ {
		got := a.allocate()
		if got != want[0] {
			t.Fatalf("step %d: reused %v, want %v", i, got, want[0])
		}
		want = want[1:]
		a.release(got)
		want = append(want, got)
		if a.released() != len(want) {
			t.Fatalf("step %d: released() = %d, want %d", i, a.released(), len(want))
		}
	}
}

func TestPickColorAllocatorReleaseNullIgnored(t *testing.T) {
	var a pickColorAllocator
	a.release(NullPickColor)
	if a.released() != 0 {
		t.Error("null color entered the free list")
	}
}

func TestPickColorRoundTrip(t *testing.T) {
	c := PickColor{R: 0x12, G: 0x34, B: 0x56}
	if c.Uint32() != 0x123456 || PickColorFromUint32(0xFF123456) != c {
		t.Errorf("packing wrong: %06x", c.Uint32())
	}
}

func TestEntityByColor(t *testing.T) {
	s := NewScene()
	c := s.NewCollection("c")
	a := newTestEntity(s, "a")
	b := newTestEntity(s, "b")
	a.AppendChild(b)
	a.AddTo(c)

	if s.EntityByColor(b.PickingColor()) != a {
		t.Error("descendant color does not resolve to the unit root")
	}
	if s.EntityByColor(NullPickColor) != nil {
		t.Error("null color resolved")
	}
	if s.EntityByColor(PickColor{B: 200}) != nil {
		t.Error("unallocated color resolved")
	}
}

func TestPickAtUsesPickBuffer(t *testing.T) {
	s := NewScene()
	c := s.NewCollection("c")
	a := withBillboard(s, "a").AddTo(c)
	s.SetPickBuffer(stubPickBuffer{{3, 4}: a.PickingColor()})

	if s.PickAt(3, 4) != a {
		t.Error("PickAt(3,4) did not return a")
	}
	if s.PickAt(0, 0) != nil {
		t.Error("PickAt on empty pixel returned an entity")
	}

	a.Remove()
	if s.PickAt(3, 4) != nil {
		t.Error("stale color resolved after removal")
	}
}

func TestPickingPassEmptyReturnsNull(t *testing.T) {
	var p pickingPass
	if !p.ColorAt(0, 0).IsNull() {
		t.Error("unrendered pass returned a color")
	}
	p.render(nil, 0, 0)
	if p.img != nil {
		t.Error("zero-size render allocated an image")
	}
}
