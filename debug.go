package globe

import (
	"fmt"
	"os"
	"time"
)

// debugStats holds per-frame timing and draw-call metrics.
// Only populated when Scene.debug is true.
type debugStats struct {
	emitTime     time.Duration
	submitTime   time.Duration
	pickTime     time.Duration
	commandCount int
	batchCount   int
}

// debugLog prints timing and draw-call stats to stderr.
func (s *Scene) debugLog(stats debugStats) {
	if !s.debug {
		return
	}
	total := stats.emitTime + stats.submitTime + stats.pickTime
	_, _ = fmt.Fprintf(os.Stderr,
		"[globe] emit: %v | submit: %v | pick: %v | total: %v\n",
		stats.emitTime, stats.submitTime, stats.pickTime, total)
	_, _ = fmt.Fprintf(os.Stderr,
		"[globe] collections: %d | entities: %d | commands: %d | batches: %d\n",
		len(s.collections), len(s.byID), stats.commandCount, stats.batchCount)
}

// debugCheckTreeDepth warns on stderr if tree depth exceeds the threshold.
const debugMaxTreeDepth = 32

func debugCheckTreeDepth(e *Entity) {
	depth := 0
	for p := e; p != nil; p = p.parent {
		depth++
	}
	if depth > debugMaxTreeDepth {
		_, _ = fmt.Fprintf(os.Stderr, "[globe] warning: tree depth %d exceeds %d (entity %d %q)\n",
			depth, debugMaxTreeDepth, e.id, e.Name())
	}
}

// debugCheckChildCount warns on stderr if an entity has more than 1000 children.
const debugMaxChildCount = 1000

func debugCheckChildCount(e *Entity) {
	if len(e.children) > debugMaxChildCount {
		_, _ = fmt.Fprintf(os.Stderr, "[globe] warning: entity %d %q has %d children (threshold %d)\n",
			e.id, e.Name(), len(e.children), debugMaxChildCount)
	}
}

// debugCheckCollection panics if c violates any structural invariant.
func debugCheckCollection(c *EntityCollection) {
	if err := checkCollection(c); err != nil {
		panic("globe debug: " + err.Error())
	}
}

// checkCollection verifies the index, back-reference, handler and picking
// color invariants of c and returns the first violation found.
func checkCollection(c *EntityCollection) error {
	for i, e := range c.entities {
		if e.collection != c {
			return fmt.Errorf("entity %d at index %d has collection %p, want %p", e.id, i, e.collection, c)
		}
		if e.collectionIndex != i {
			return fmt.Errorf("entity %d at index %d has collectionIndex %d", e.id, i, e.collectionIndex)
		}
		if e.parent != nil && e.parent.collection != c {
			return fmt.Errorf("entity %d is attached but its parent %d is not", e.id, e.parent.id)
		}
		root := e.Root()
		if e.pickingColor != root.pickingColor || e.pickingColor.IsNull() {
			return fmt.Errorf("entity %d has picking color %v, unit root %d has %v", e.id, e.pickingColor, root.id, root.pickingColor)
		}
		for _, ch := range e.children {
			if ch.collection != c || ch.parent != e {
				return fmt.Errorf("child %d of entity %d is not attached to the same collection", ch.id, e.id)
			}
		}
		for k, f := range e.features {
			if f == nil {
				continue
			}
			b := f.base()
			if b.entity != e {
				return fmt.Errorf("%s of entity %d is owned by another entity", FeatureKind(k), e.id)
			}
			h := c.handlers[k]
			if b.handlerIndex < 0 || b.handlerIndex >= len(h.items) || h.items[b.handlerIndex] != f {
				return fmt.Errorf("%s of entity %d is not registered with its handler", FeatureKind(k), e.id)
			}
			if b.pickingColor != e.pickingColor {
				return fmt.Errorf("%s of entity %d has picking color %v, want %v", FeatureKind(k), e.id, b.pickingColor, e.pickingColor)
			}
		}
	}
	for k, h := range c.handlers {
		for i, f := range h.items {
			b := f.base()
			if b.handlerIndex != i {
				return fmt.Errorf("%s handler slot %d holds a feature with handlerIndex %d", FeatureKind(k), i, b.handlerIndex)
			}
			if b.entity == nil || b.entity.collection != c || b.entity.features[k] != f {
				return fmt.Errorf("%s handler slot %d holds a feature not live in this collection", FeatureKind(k), i)
			}
		}
	}
	return nil
}
