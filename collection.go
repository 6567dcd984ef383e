package globe

import "fmt"

// EntityCollection is a flat, index-addressable set of attached entities
// (roots and their descendants) plus one handler per FeatureKind that
// aggregates the live features of every member.
//
// Removal compacts the index with an order-preserving shift: after any
// mutation entities[i].CollectionIndex() == i for every member.
type EntityCollection struct {
	// Name identifies the collection in scene descriptions and debug output.
	Name string
	// Visible toggles rendering and picking of the whole collection.
	Visible bool

	scene    *Scene
	entities []*Entity

	billboards BillboardHandler
	labels     LabelHandler
	handlers   [numFeatureKinds]*featureHandler
}

// NewCollection creates an empty collection rendered by s.
func (s *Scene) NewCollection(name string) *EntityCollection {
	c := &EntityCollection{Name: name, Visible: true, scene: s}
	c.billboards.kind = FeatureBillboard
	c.labels.kind = FeatureLabel
	c.handlers[FeatureBillboard] = &c.billboards.featureHandler
	c.handlers[FeatureLabel] = &c.labels.featureHandler
	s.collections = append(s.collections, c)
	return c
}

// Scene returns the scene that owns the collection.
func (c *EntityCollection) Scene() *Scene { return c.scene }

// Billboards returns the billboard handler.
func (c *EntityCollection) Billboards() *BillboardHandler { return &c.billboards }

// Labels returns the label handler.
func (c *EntityCollection) Labels() *LabelHandler { return &c.labels }

// Entities returns the member list in index order. The returned slice MUST
// NOT be mutated by the caller.
func (c *EntityCollection) Entities() []*Entity { return c.entities }

// Len returns the number of member entities, descendants included.
func (c *EntityCollection) Len() int { return len(c.entities) }

// At returns the entity at index i.
func (c *EntityCollection) At(i int) *Entity { return c.entities[i] }

// Add attaches a root entity and its whole subtree. The entity receives a
// fresh picking color that the subtree shares.
//
// Panics if e is already attached to any collection or has a parent; use
// AppendChild to attach descendants.
func (c *EntityCollection) Add(e *Entity) {
	if e == nil {
		panic("globe: cannot add nil entity")
	}
	if e.collection != nil {
		panic(fmt.Sprintf("globe: entity %d is already attached to collection %q", e.id, e.collection.Name))
	}
	if e.parent != nil {
		panic(fmt.Sprintf("globe: entity %d has a parent; only roots can be added", e.id))
	}
	color := c.scene.picking.allocate()
	c.attachSubtree(e)
	e.pickingColor = color
	c.scene.picking.bind(color, e)
	e.SetPickingColor()
	if globalDebug {
		debugCheckCollection(c)
	}
}

// attachSubtree indexes e and its descendants and registers their features.
func (c *EntityCollection) attachSubtree(e *Entity) {
	e.walk(func(n *Entity) {
		n.collection = c
		n.collectionIndex = len(c.entities)
		c.entities = append(c.entities, n)
		c.scene.byID[n.id] = n
		for k, f := range n.features {
			if f != nil {
				c.handlers[k].add(f)
			}
		}
	})
}

// RemoveEntity detaches e and its subtree: features leave their handlers,
// back-references and indexes are cleared and picking colors reset to null.
// A removed descendant is also unlinked from its parent. No-op if e is not
// a member of c.
func (c *EntityCollection) RemoveEntity(e *Entity) {
	if e == nil || e.collection != c {
		return
	}
	unit := e.parent == nil
	color := e.pickingColor
	if e.parent != nil {
		e.parent.removeChildByPtr(e)
		e.parent = nil
	}

	first := len(c.entities)
	e.walk(func(n *Entity) {
		if n.collectionIndex < first {
			first = n.collectionIndex
		}
		for _, f := range n.features {
			if f != nil {
				c.handlers[f.Kind()].remove(f.base())
			}
		}
		delete(c.scene.byID, n.id)
		n.collection = nil
		n.collectionIndex = -1
	})
	e.pickingColor = NullPickColor
	e.SetPickingColor()
	c.compact(first)

	if unit {
		c.scene.picking.release(color)
	}
	if globalDebug {
		debugCheckCollection(c)
	}
}

// compact drops detached entities from index first onward, shifting the
// survivors down and rewriting their indexes.
func (c *EntityCollection) compact(first int) {
	n := first
	for _, e := range c.entities[first:] {
		if e.collection != c {
			continue
		}
		e.collectionIndex = n
		c.entities[n] = e
		n++
	}
	clear(c.entities[n:])
	c.entities = c.entities[:n]
}

// Clear removes every entity in a single pass over the index. Each unit's
// picking color is released after the whole collection has been reset.
func (c *EntityCollection) Clear() {
	var released []PickColor
	for _, e := range c.entities {
		if e.parent == nil {
			released = append(released, e.pickingColor)
		}
		for _, f := range e.features {
			if f != nil {
				f.base().handlerIndex = -1
				f.SetPickingColor3v(NullPickColor)
			}
		}
		delete(c.scene.byID, e.id)
		e.collection = nil
		e.collectionIndex = -1
		e.pickingColor = NullPickColor
	}
	for _, h := range c.handlers {
		clear(h.items)
		h.items = h.items[:0]
	}
	clear(c.entities)
	c.entities = c.entities[:0]
	for _, color := range released {
		c.scene.picking.release(color)
	}
	if globalDebug {
		debugCheckCollection(c)
	}
}
