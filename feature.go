package globe

// FeatureKind enumerates the renderable feature slots an Entity has.
// The set is closed; each kind has one entry in featureKinds.
type FeatureKind uint8

const (
	FeatureBillboard FeatureKind = iota // screen-aligned icon
	FeatureLabel                        // screen-aligned text

	numFeatureKinds
)

// String returns the kind's option/config key.
func (k FeatureKind) String() string {
	if k < numFeatureKinds {
		return featureKinds[k].name
	}
	return "unknown"
}

// featureKindEntry is the static per-kind table entry: the option key used by
// scene descriptions and the constructor used by NewEntity.
type featureKindEntry struct {
	name      string
	construct func(opts *EntityOptions) Feature
}

var featureKinds = [numFeatureKinds]featureKindEntry{
	FeatureBillboard: {
		name: "billboard",
		construct: func(opts *EntityOptions) Feature {
			if opts.Billboard == nil {
				return nil
			}
			return NewBillboard(*opts.Billboard)
		},
	},
	FeatureLabel: {
		name: "label",
		construct: func(opts *EntityOptions) Feature {
			if opts.Label == nil {
				return nil
			}
			return NewLabel(*opts.Label)
		},
	},
}

// featureKindByName looks up a kind by its option key.
func featureKindByName(name string) (FeatureKind, bool) {
	for k := range featureKinds {
		if featureKinds[k].name == name {
			return FeatureKind(k), true
		}
	}
	return 0, false
}

// Feature is a single renderable owned by at most one Entity. Features mirror
// the owner's position, visibility and picking color; the owning Entity's
// setters drive them.
type Feature interface {
	Kind() FeatureKind
	Entity() *Entity
	Position() Vec3
	Visibility() bool
	PickingColor() PickColor
	SetPosition3v(p Vec3)
	SetVisibility(visible bool)
	SetPickingColor3v(c PickColor)
	// Remove detaches the feature from its owner and from the owning
	// collection's handler. No-op if unowned.
	Remove()

	base() *featureBase
}

// featureBase holds the state shared by every feature kind.
type featureBase struct {
	kind         FeatureKind
	entity       *Entity
	position     Vec3
	visible      bool
	pickingColor PickColor

	// handlerIndex is the slot in the owning handler's item list, or -1.
	handlerIndex int
}

func (f *featureBase) init(kind FeatureKind) {
	f.kind = kind
	f.visible = true
	f.handlerIndex = -1
}

func (f *featureBase) base() *featureBase { return f }

// Kind returns the feature kind.
func (f *featureBase) Kind() FeatureKind { return f.kind }

// Entity returns the owning entity, or nil.
func (f *featureBase) Entity() *Entity { return f.entity }

// Position returns the mirrored position.
func (f *featureBase) Position() Vec3 { return f.position }

// Visibility returns the mirrored visibility.
func (f *featureBase) Visibility() bool { return f.visible }

// PickingColor returns the mirrored picking color.
func (f *featureBase) PickingColor() PickColor { return f.pickingColor }

func (f *featureBase) SetPosition3v(p Vec3) { f.position = p }

func (f *featureBase) SetVisibility(visible bool) { f.visible = visible }

func (f *featureBase) SetPickingColor3v(c PickColor) { f.pickingColor = c }

// IsLive reports whether the feature is registered with a collection handler.
func (f *featureBase) IsLive() bool { return f.handlerIndex >= 0 }

func (f *featureBase) Remove() {
	e := f.entity
	if e == nil {
		return
	}
	if e.features[f.kind] != nil && e.features[f.kind].base() == f {
		e.features[f.kind] = nil
	}
	if e.collection != nil {
		e.collection.handlers[f.kind].remove(f)
	}
	f.entity = nil
}
