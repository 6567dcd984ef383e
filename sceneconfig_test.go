package globe

import (
	"errors"
	"strings"
	"testing"
)

const citiesYAML = `
collections:
  - name: cities
    entities:
      - properties: {name: Paris, population: 2100000}
        position: [2.35, 48.85, 1]
        features:
          billboard: {region: pin.png, width: 16, height: 16, color: [1, 0, 0]}
          label: {text: Paris, offset: [10, 0], outline: {thickness: 2}}
          model: {uri: paris.glb}
        children:
          - properties: {name: Louvre}
            position: [2.33, 48.86]
            visible: false
            features:
              billboard: {region: airport.png, blend: add}
      - properties: {name: Lyon}
        position: [4.83, 45.76]
  - name: borders
    visible: false
    entities:
      - properties: {name: frontier}
`

func TestLoadSceneConfig(t *testing.T) {
	s := NewScene()
	atlas := loadIconAtlas(t)
	font := testFont(t)

	colls, err := s.LoadSceneConfig([]byte(citiesYAML), LoadOptions{Atlas: atlas, Font: font})
	if err != nil {
		t.Fatalf("LoadSceneConfig: %v", err)
	}
	if len(colls) != 2 || colls[0].Name != "cities" || !colls[0].Visible || colls[1].Visible {
		t.Fatalf("collections = %+v", colls)
	}
	cities := colls[0]
	if cities.Len() != 3 {
		t.Fatalf("cities Len = %d, want 3", cities.Len())
	}

	paris, louvre, lyon := cities.At(0), cities.At(1), cities.At(2)
	if paris.Name() != "Paris" || paris.Properties["population"] != 2100000 {
		t.Errorf("paris properties = %v", paris.Properties)
	}
	if *paris.Position() != (Vec3{2.35, 48.85, 1}) {
		t.Errorf("paris position = %v", *paris.Position())
	}
	if b := paris.Billboard(); b == nil || b.Region != atlas.Region("pin.png") || b.Color != (Color{1, 0, 0, 1}) {
		t.Errorf("paris billboard = %+v", b)
	}
	if l := paris.Label(); l == nil || l.Text() != "Paris" || l.Font() != font || l.Offset != (Vec2{10, 0}) {
		t.Errorf("paris label = %+v", l)
	}
	if louvre.Parent() != paris || louvre.PickingColor() != paris.PickingColor() {
		t.Error("louvre not attached under paris")
	}
	if louvre.Visibility() || louvre.Billboard().BlendMode != BlendAdd {
		t.Error("louvre options not applied")
	}
	if lyon.Billboard() != nil || lyon.Label() != nil {
		t.Error("lyon has unexpected features")
	}
	if cities.Billboards().Len() != 2 || cities.Labels().Len() != 1 {
		t.Errorf("handler lens = %d, %d", cities.Billboards().Len(), cities.Labels().Len())
	}
	if err := checkCollection(cities); err != nil {
		t.Error(err)
	}
}

func TestLoadSceneConfigNoEntities(t *testing.T) {
	s := NewScene()
	_, err := s.LoadSceneConfig([]byte("collections:\n  - name: empty\n"), LoadOptions{})
	if !errors.Is(err, ErrNoEntities) {
		t.Errorf("err = %v, want ErrNoEntities", err)
	}
}

func TestLoadSceneConfigParseError(t *testing.T) {
	s := NewScene()
	_, err := s.LoadSceneConfig([]byte("collections: [unclosed"), LoadOptions{})
	if err == nil || !strings.Contains(err.Error(), "parse scene description") {
		t.Errorf("err = %v", err)
	}
}

func TestLoadSceneConfigBadEntryLeavesSceneUntouched(t *testing.T) {
	cases := map[string]string{
		"position": "position: [1]",
		"color":    "features: {billboard: {color: [1, 2]}}",
		"offset":   "features: {label: {offset: [1, 2, 3]}}",
		"blend":    "features: {billboard: {blend: screen}}",
		"font":     "features: {label: {font: serif}}",
		"region":   "features: {billboard: {region: pin.png}}",
	}
	for name, entry := range cases {
		t.Run(name, func(t *testing.T) {
			s := NewScene()
			doc := "collections:\n  - name: c\n    entities:\n      - properties: {name: ok}\n      - " + entry + "\n"
			_, err := s.LoadSceneConfig([]byte(doc), LoadOptions{})
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), `collection "c" entity 1`) {
				t.Errorf("err = %v, want entry location", err)
			}
			if len(s.Collections()) != 0 || len(s.byID) != 0 || len(s.picking.owners) != 0 {
				t.Error("failed load created collections or attachments")
			}
			// Ids handed to the discarded entities are not reclaimed.
			if id := newTestEntity(s, "after").ID(); id < 2 {
				t.Errorf("id after failed load = %d, want ids to stay consumed", id)
			}
		})
	}
}

func TestLoadSceneConfigNamedFont(t *testing.T) {
	s := NewScene()
	serif := testFont(t)
	doc := "collections:\n  - name: c\n    entities:\n      - features: {label: {text: hi, font: serif}}\n"
	colls, err := s.LoadSceneConfig([]byte(doc), LoadOptions{Fonts: map[string]*Font{"serif": serif}})
	if err != nil {
		t.Fatalf("LoadSceneConfig: %v", err)
	}
	e := colls[0].At(0)
	if e.Label().Font() != serif || e.Name() != DefaultEntityName {
		t.Errorf("label font = %p, name = %q", e.Label().Font(), e.Name())
	}
}

func TestLoadSceneConfigUnknownFeatureIgnored(t *testing.T) {
	s := NewScene()
	doc := "collections:\n  - name: c\n    entities:\n      - features: {model: {uri: a.glb}, polyline: [1, 2]}\n"
	colls, err := s.LoadSceneConfig([]byte(doc), LoadOptions{})
	if err != nil {
		t.Fatalf("LoadSceneConfig: %v", err)
	}
	e := colls[0].At(0)
	for k := range numFeatureKinds {
		if e.Feature(k) != nil {
			t.Errorf("unknown feature installed a %s", k)
		}
	}
}
