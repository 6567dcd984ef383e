package globe

import (
	"fmt"
	"maps"
)

// DefaultEntityName is the "name" property of entities created without one.
const DefaultEntityName = "noname"

// Properties is the application-defined property bag of an Entity.
type Properties map[string]any

// EntityOptions configures Scene.NewEntity. Nil fields keep defaults.
type EntityOptions struct {
	Position   *Vec3
	Visibility *bool
	Billboard  *BillboardOptions
	Label      *LabelOptions
}

// Entity is a scene graph node. It owns at most one feature per FeatureKind
// and any number of children, and propagates its position, visibility and
// picking color into both.
//
// Entities are created by Scene.NewEntity and become renderable once added
// to an EntityCollection, directly or through an attached ancestor.
type Entity struct {
	id         uint64
	Properties Properties

	position     Vec3
	visible      bool
	pickingColor PickColor

	parent   *Entity
	children []*Entity
	features [numFeatureKinds]Feature

	collection      *EntityCollection
	collectionIndex int
}

// NewEntity creates an unattached entity. Features named in opts are
// constructed and installed through the same setters used afterwards.
func (s *Scene) NewEntity(opts EntityOptions, props Properties) *Entity {
	e := &Entity{
		id:              s.ids.next(),
		Properties:      maps.Clone(props),
		visible:         true,
		collectionIndex: -1,
	}
	if e.Properties == nil {
		e.Properties = make(Properties, 1)
	}
	if _, ok := e.Properties["name"]; !ok {
		e.Properties["name"] = DefaultEntityName
	}
	if opts.Position != nil {
		e.position = *opts.Position
	}
	if opts.Visibility != nil {
		e.visible = *opts.Visibility
	}
	for k := range featureKinds {
		if f := featureKinds[k].construct(&opts); f != nil {
			e.setFeature(FeatureKind(k), f)
		}
	}
	return e
}

// ID returns the entity's scene-unique id.
func (e *Entity) ID() uint64 { return e.id }

// Name returns the "name" property as a string.
func (e *Entity) Name() string {
	if s, ok := e.Properties["name"].(string); ok {
		return s
	}
	return fmt.Sprint(e.Properties["name"])
}

// SetName sets the "name" property, allocating Properties if it was set to nil.
func (e *Entity) SetName(name string) {
	if e.Properties == nil {
		e.Properties = make(Properties, 1)
	}
	e.Properties["name"] = name
}

// --- Collection membership ---

// AddTo adds the entity to c and returns the entity.
func (e *Entity) AddTo(c *EntityCollection) *Entity {
	c.Add(e)
	return e
}

// Remove detaches the entity and its subtree from its collection.
// No-op if the entity is not attached.
func (e *Entity) Remove() {
	if e.collection == nil {
		return
	}
	e.collection.RemoveEntity(e)
}

// Collection returns the owning collection, or nil.
func (e *Entity) Collection() *EntityCollection { return e.collection }

// CollectionIndex returns the entity's slot in its collection, or -1.
func (e *Entity) CollectionIndex() int { return e.collectionIndex }

// IsAttached reports whether the entity belongs to a collection.
func (e *Entity) IsAttached() bool { return e.collection != nil }

// --- Visibility and position ---

// SetVisibility sets visibility on the entity, its billboard, its label and
// every descendant, in that order.
func (e *Entity) SetVisibility(visible bool) {
	e.visible = visible
	for _, f := range e.features {
		if f != nil {
			f.SetVisibility(visible)
		}
	}
	for _, c := range e.children {
		c.SetVisibility(visible)
	}
}

// Visibility returns the entity's own visibility.
func (e *Entity) Visibility() bool { return e.visible }

// SetPosition updates the owned position in place and propagates it to the
// features and, as an absolute position, to every descendant.
func (e *Entity) SetPosition(x, y, z float64) {
	e.position.Set(x, y, z)
	for _, f := range e.features {
		if f != nil {
			f.SetPosition3v(e.position)
		}
	}
	for _, c := range e.children {
		c.SetPosition(x, y, z)
	}
}

// SetPosition3v is SetPosition taking a vector. p is copied.
func (e *Entity) SetPosition3v(p Vec3) {
	e.SetPosition(p.X, p.Y, p.Z)
}

// Position returns the entity's own position. The pointer stays valid for
// the entity's lifetime and observes every later SetPosition.
func (e *Entity) Position() *Vec3 { return &e.position }

// --- Features ---

// SetBillboard installs b in the billboard slot, replacing any previous
// billboard. A nil b clears the slot. Returns b.
func (e *Entity) SetBillboard(b *Billboard) *Billboard {
	if b == nil {
		e.setFeature(FeatureBillboard, nil)
		return nil
	}
	e.setFeature(FeatureBillboard, b)
	return b
}

// Billboard returns the installed billboard, or nil.
func (e *Entity) Billboard() *Billboard {
	b, _ := e.features[FeatureBillboard].(*Billboard)
	return b
}

// SetLabel installs l in the label slot, replacing any previous label.
// A nil l clears the slot. Returns l.
func (e *Entity) SetLabel(l *Label) *Label {
	if l == nil {
		e.setFeature(FeatureLabel, nil)
		return nil
	}
	e.setFeature(FeatureLabel, l)
	return l
}

// Label returns the installed label, or nil.
func (e *Entity) Label() *Label {
	l, _ := e.features[FeatureLabel].(*Label)
	return l
}

// Feature returns the feature in the given slot, or nil.
func (e *Entity) Feature(kind FeatureKind) Feature {
	return e.features[kind]
}

// setFeature is the single install path for every feature kind. Panics if f
// is owned by a different entity.
func (e *Entity) setFeature(kind FeatureKind, f Feature) {
	if f != nil {
		if f.Kind() != kind {
			panic(fmt.Sprintf("globe: cannot install %s feature in %s slot", f.Kind(), kind))
		}
		b := f.base()
		if b.entity == e && e.features[kind] == f {
			return
		}
		if b.entity != nil {
			panic(fmt.Sprintf("globe: %s feature is owned by entity %d; remove it first", kind, b.entity.id))
		}
	}
	if old := e.features[kind]; old != nil {
		old.Remove()
	}
	if f == nil {
		return
	}
	f.base().entity = e
	e.features[kind] = f
	f.SetPosition3v(e.position)
	f.SetVisibility(e.visible)
	f.SetPickingColor3v(e.pickingColor)
	if e.collection != nil {
		e.collection.handlers[kind].add(f)
	}
}

// --- Hierarchy ---

// AppendChild appends child to this entity's children. The child takes this
// entity's collection and picking color; if this entity is attached, the
// child's subtree is indexed and its features registered.
//
// Panics if child is nil, is this entity or one of its ancestors, or is
// attached to a collection. An unattached child with another parent is
// unlinked from it first.
func (e *Entity) AppendChild(child *Entity) {
	if child == nil {
		panic("globe: cannot append nil child")
	}
	if isAncestor(child, e) {
		panic("globe: appending child would create a cycle")
	}
	if child.collection != nil {
		panic(fmt.Sprintf("globe: entity %d is attached to a collection; remove it first", child.id))
	}
	if globalDebug {
		debugCheckTreeDepth(e)
		debugCheckChildCount(e)
	}
	if child.parent != nil {
		child.parent.removeChildByPtr(child)
	}
	child.pickingColor = e.pickingColor
	child.SetPickingColor()
	child.parent = e
	e.children = append(e.children, child)
	if e.collection != nil {
		e.collection.attachSubtree(child)
		if globalDebug {
			debugCheckCollection(e.collection)
		}
	}
}

// RemoveFromParent unlinks an unattached entity from its parent. Attached
// entities are removed from their collection as well.
func (e *Entity) RemoveFromParent() {
	if e.collection != nil {
		e.collection.RemoveEntity(e)
		return
	}
	if e.parent != nil {
		e.parent.removeChildByPtr(e)
		e.parent = nil
	}
}

// Parent returns the parent entity, or nil for a root.
func (e *Entity) Parent() *Entity { return e.parent }

// Root returns the topmost ancestor, which is the attachment unit whose
// picking color the whole subtree shares.
func (e *Entity) Root() *Entity {
	r := e
	for r.parent != nil {
		r = r.parent
	}
	return r
}

// Children returns the child list. The returned slice MUST NOT be mutated by the caller.
func (e *Entity) Children() []*Entity { return e.children }

// NumChildren returns the number of children.
func (e *Entity) NumChildren() int { return len(e.children) }

// ChildAt returns the child at the given index.
func (e *Entity) ChildAt(index int) *Entity { return e.children[index] }

// --- Picking ---

// PickingColor returns the entity's picking color.
func (e *Entity) PickingColor() PickColor { return e.pickingColor }

// SetPickingColor re-applies the entity's picking color to its features and
// its whole subtree.
func (e *Entity) SetPickingColor() {
	for _, f := range e.features {
		if f != nil {
			f.SetPickingColor3v(e.pickingColor)
		}
	}
	for _, c := range e.children {
		c.pickingColor = e.pickingColor
		c.SetPickingColor()
	}
}

// --- Helpers ---

// isAncestor reports whether candidate is e or an ancestor of e.
func isAncestor(candidate, e *Entity) bool {
	for p := e; p != nil; p = p.parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// removeChildByPtr removes child from e.children without clearing child.parent.
func (e *Entity) removeChildByPtr(child *Entity) {
	for i, c := range e.children {
		if c == child {
			copy(e.children[i:], e.children[i+1:])
			e.children[len(e.children)-1] = nil
			e.children = e.children[:len(e.children)-1]
			return
		}
	}
}

// walk calls fn for e and every descendant, depth-first in child order.
func (e *Entity) walk(fn func(*Entity)) {
	fn(e)
	for _, c := range e.children {
		c.walk(fn)
	}
}
