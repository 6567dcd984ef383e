package globe

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

// ErrNoEntities is returned by LoadSceneConfig when a description declares
// no entities at all.
var ErrNoEntities = errors.New("globe: scene description has no entities")

// SceneConfig is the YAML scene description format.
//
//	collections:
//	  - name: cities
//	    entities:
//	      - properties: {name: Paris}
//	        position: [2.35, 48.85, 0]
//	        features:
//	          billboard: {region: pin, width: 16, height: 16}
//	          label: {text: Paris, offset: [10, 0]}
//	        children: [...]
type SceneConfig struct {
	Collections []CollectionConfig `yaml:"collections"`
}

// CollectionConfig describes one EntityCollection.
type CollectionConfig struct {
	Name string `yaml:"name"`
	// Visible defaults to true.
	Visible  *bool          `yaml:"visible"`
	Entities []EntityConfig `yaml:"entities"`
}

// EntityConfig describes one entity and its subtree. Feature entries are
// keyed by FeatureKind name; keys naming no known kind are ignored.
type EntityConfig struct {
	Properties map[string]any       `yaml:"properties"`
	Position   []float64            `yaml:"position"`
	Visible    *bool                `yaml:"visible"`
	Features   map[string]yaml.Node `yaml:"features"`
	Children   []EntityConfig       `yaml:"children"`
}

type billboardConfig struct {
	Region string    `yaml:"region"`
	Width  float64   `yaml:"width"`
	Height float64   `yaml:"height"`
	Color  []float64 `yaml:"color"`
	Offset []float64 `yaml:"offset"`
	Blend  string    `yaml:"blend"`
}

type labelConfig struct {
	Text    string    `yaml:"text"`
	Font    string    `yaml:"font"`
	Color   []float64 `yaml:"color"`
	Offset  []float64 `yaml:"offset"`
	Outline *struct {
		Color     []float64 `yaml:"color"`
		Thickness float64   `yaml:"thickness"`
	} `yaml:"outline"`
}

// LoadOptions supplies the assets a scene description refers to by name.
type LoadOptions struct {
	// Atlas resolves billboard region names. Unknown names get the magenta
	// placeholder.
	Atlas *Atlas
	// Font is used by labels that name no font.
	Font *Font
	// Fonts resolves label font names.
	Fonts map[string]*Font
}

// featureDecoders turns one feature entry into EntityOptions, indexed by kind.
var featureDecoders = [numFeatureKinds]func(n *yaml.Node, opts *EntityOptions, lo *LoadOptions) error{
	FeatureBillboard: decodeBillboard,
	FeatureLabel:     decodeLabel,
}

// ParseSceneConfig decodes a YAML scene description.
func ParseSceneConfig(data []byte) (*SceneConfig, error) {
	var cfg SceneConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("globe: parse scene description: %w", err)
	}
	return &cfg, nil
}

// LoadSceneConfig parses a YAML scene description and builds its
// collections and entities in s. Every top-level entity is added to its
// collection, so all of them are attached and pickable on return.
func (s *Scene) LoadSceneConfig(data []byte, lo LoadOptions) ([]*EntityCollection, error) {
	cfg, err := ParseSceneConfig(data)
	if err != nil {
		return nil, err
	}
	return s.BuildSceneConfig(cfg, lo)
}

// BuildSceneConfig builds the collections described by cfg. When an error is
// returned no collection is created and nothing is attached, although entity
// ids handed out to the discarded entities are not reclaimed.
func (s *Scene) BuildSceneConfig(cfg *SceneConfig, lo LoadOptions) ([]*EntityCollection, error) {
	total := 0
	for _, cc := range cfg.Collections {
		total += len(cc.Entities)
	}
	if total == 0 {
		return nil, ErrNoEntities
	}

	// Build every root first so a bad entry leaves the scene untouched.
	roots := make([][]*Entity, len(cfg.Collections))
	for i, cc := range cfg.Collections {
		for j := range cc.Entities {
			e, err := s.buildEntity(&cc.Entities[j], &lo)
			if err != nil {
				return nil, fmt.Errorf("globe: collection %q entity %d: %w", cc.Name, j, err)
			}
			roots[i] = append(roots[i], e)
		}
	}

	out := make([]*EntityCollection, len(cfg.Collections))
	for i, cc := range cfg.Collections {
		c := s.NewCollection(cc.Name)
		if cc.Visible != nil {
			c.Visible = *cc.Visible
		}
		for _, e := range roots[i] {
			c.Add(e)
		}
		out[i] = c
	}
	return out, nil
}

func (s *Scene) buildEntity(ec *EntityConfig, lo *LoadOptions) (*Entity, error) {
	var opts EntityOptions
	if ec.Position != nil {
		p, err := vec3From(ec.Position)
		if err != nil {
			return nil, err
		}
		opts.Position = &p
	}
	opts.Visibility = ec.Visible

	for k := range featureKinds {
		n, ok := ec.Features[featureKinds[k].name]
		if !ok {
			continue
		}
		if err := featureDecoders[k](&n, &opts, lo); err != nil {
			return nil, fmt.Errorf("%s: %w", FeatureKind(k), err)
		}
	}
	if globalDebug {
		for _, key := range slices.Sorted(maps.Keys(ec.Features)) {
			if _, ok := featureKindByName(key); !ok {
				_, _ = fmt.Fprintf(os.Stderr, "[globe] scene description: ignoring unknown feature %q\n", key)
			}
		}
	}

	e := s.NewEntity(opts, ec.Properties)
	for i := range ec.Children {
		child, err := s.buildEntity(&ec.Children[i], lo)
		if err != nil {
			return nil, fmt.Errorf("child %d: %w", i, err)
		}
		e.AppendChild(child)
	}
	return e, nil
}

func decodeBillboard(n *yaml.Node, opts *EntityOptions, lo *LoadOptions) error {
	var bc billboardConfig
	if err := n.Decode(&bc); err != nil {
		return err
	}
	bo := &BillboardOptions{Width: bc.Width, Height: bc.Height}
	if bc.Region != "" {
		if lo.Atlas == nil {
			return fmt.Errorf("region %q requires an atlas", bc.Region)
		}
		bo.Region = lo.Atlas.Region(bc.Region)
	}
	if bc.Color != nil {
		c, err := colorFrom(bc.Color)
		if err != nil {
			return err
		}
		bo.Color = &c
	}
	if bc.Offset != nil {
		v, err := vec2From(bc.Offset)
		if err != nil {
			return err
		}
		bo.Offset = v
	}
	switch bc.Blend {
	case "", "normal":
		bo.BlendMode = BlendNormal
	case "add":
		bo.BlendMode = BlendAdd
	case "none":
		bo.BlendMode = BlendNone
	default:
		return fmt.Errorf("unknown blend mode %q", bc.Blend)
	}
	opts.Billboard = bo
	return nil
}

func decodeLabel(n *yaml.Node, opts *EntityOptions, lo *LoadOptions) error {
	var lc labelConfig
	if err := n.Decode(&lc); err != nil {
		return err
	}
	l := &LabelOptions{Text: lc.Text, Font: lo.Font}
	if lc.Font != "" {
		f, ok := lo.Fonts[lc.Font]
		if !ok {
			return fmt.Errorf("unknown font %q", lc.Font)
		}
		l.Font = f
	}
	if lc.Color != nil {
		c, err := colorFrom(lc.Color)
		if err != nil {
			return err
		}
		l.Color = &c
	}
	if lc.Offset != nil {
		v, err := vec2From(lc.Offset)
		if err != nil {
			return err
		}
		l.Offset = v
	}
	if o := lc.Outline; o != nil {
		l.Outline = &Outline{Color: Color{0, 0, 0, 1}, Thickness: o.Thickness}
		if o.Color != nil {
			c, err := colorFrom(o.Color)
			if err != nil {
				return err
			}
			l.Outline.Color = c
		}
	}
	opts.Label = l
	return nil
}

func vec3From(v []float64) (Vec3, error) {
	switch len(v) {
	case 2:
		return Vec3{v[0], v[1], 0}, nil
	case 3:
		return Vec3{v[0], v[1], v[2]}, nil
	}
	return Vec3{}, fmt.Errorf("position needs 2 or 3 components, got %d", len(v))
}

func vec2From(v []float64) (Vec2, error) {
	if len(v) != 2 {
		return Vec2{}, fmt.Errorf("offset needs 2 components, got %d", len(v))
	}
	return Vec2{v[0], v[1]}, nil
}

func colorFrom(v []float64) (Color, error) {
	switch len(v) {
	case 3:
		return Color{v[0], v[1], v[2], 1}, nil
	case 4:
		return Color{v[0], v[1], v[2], v[3]}, nil
	}
	return Color{}, fmt.Errorf("color needs 3 or 4 components, got %d", len(v))
}
