package globe

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"testing"
)

// captureStderr runs fn with os.Stderr redirected and returns what it wrote.
func captureStderr(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stderr
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	os.Stderr = w
	done := make(chan string)
	go func() {
		var buf bytes.Buffer
		_, _ = buf.ReadFrom(r)
		done <- buf.String()
	}()
	fn()
	_ = w.Close()
	os.Stderr = old
	return <-done
}

func TestDebugMode_TreeDepthWarning(t *testing.T) {
	s := NewScene()
	s.SetDebugMode(true)
	defer s.SetDebugMode(false)

	out := captureStderr(t, func() {
		current := newTestEntity(s, "root")
		for i := 0; i < debugMaxTreeDepth+5; i++ {
			child := newTestEntity(s, fmt.Sprintf("depth_%d", i))
			current.AppendChild(child)
			current = child
		}
	})
	if !strings.Contains(out, "warning: tree depth") {
		t.Errorf("expected tree depth warning, got: %q", out)
	}
}

func TestDebugMode_ChildCountWarning(t *testing.T) {
	s := NewScene()
	s.SetDebugMode(true)
	defer s.SetDebugMode(false)

	out := captureStderr(t, func() {
		parent := newTestEntity(s, "many")
		for i := 0; i < debugMaxChildCount+2; i++ {
			parent.AppendChild(newTestEntity(s, "c"))
		}
	})
	if !strings.Contains(out, `entity 1 "many" has`) || !strings.Contains(out, "children") {
		t.Errorf("expected child count warning, got: %q", out)
	}
}

func TestDebugMode_ValidOpsDoNotPanic(t *testing.T) {
	s := NewScene()
	s.SetDebugMode(true)
	defer s.SetDebugMode(false)

	c := s.NewCollection("c")
	a := withBoth(s, "a")
	a.AppendChild(withBillboard(s, "b"))
	a.AddTo(c)
	a.AppendChild(withBoth(s, "late"))
	a.ChildAt(0).Remove()
	a.Remove()
}

func TestDebugMode_CorruptionPanics(t *testing.T) {
	s := NewScene()
	s.SetDebugMode(true)
	defer s.SetDebugMode(false)

	c := s.NewCollection("c")
	a := newTestEntity(s, "a").AddTo(c)
	a.collectionIndex = 7

	expectPanic(t, "globe debug: entity", func() {
		newTestEntity(s, "b").AddTo(c)
	})
}

func TestCheckCollectionDetectsViolations(t *testing.T) {
	tests := []struct {
		name    string
		corrupt func(c *EntityCollection, e *Entity)
		want    string
	}{
		{"index", func(c *EntityCollection, e *Entity) { e.collectionIndex = 3 }, "collectionIndex"},
		{"backref", func(c *EntityCollection, e *Entity) { e.collection = nil }, "has collection"},
		{"color", func(c *EntityCollection, e *Entity) { e.ChildAt(0).pickingColor = PickColor{R: 9} }, "picking color"},
		{"feature color", func(c *EntityCollection, e *Entity) { e.Billboard().pickingColor = NullPickColor }, "picking color"},
		{"unregistered", func(c *EntityCollection, e *Entity) { c.billboards.remove(e.Billboard().base()) }, "not registered"},
		{"stray handler item", func(c *EntityCollection, e *Entity) {
			c.billboards.add(NewBillboard(BillboardOptions{}))
		}, "not live"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewScene()
			c := s.NewCollection("c")
			e := withBillboard(s, "e")
			e.AppendChild(newTestEntity(s, "child"))
			e.AddTo(c)
			if err := checkCollection(c); err != nil {
				t.Fatalf("healthy collection: %v", err)
			}
			tt.corrupt(c, e)
			err := checkCollection(c)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestDebugStatsLogged(t *testing.T) {
	s := NewScene()
	c := s.NewCollection("c")
	withBillboard(s, "a").AddTo(c).SetPosition(10, 10, 0)
	s.SetDebugMode(true)
	defer s.SetDebugMode(false)

	screen := newTestScreen()
	out := captureStderr(t, func() { s.Draw(screen) })
	if !strings.Contains(out, "[globe] emit:") || !strings.Contains(out, "commands: 1 | batches: 1") {
		t.Errorf("stats output = %q", out)
	}
}
