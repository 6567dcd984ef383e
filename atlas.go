package globe

import (
	"encoding/json"
	"fmt"
	"image/color"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
)

// TextureRegion describes a billboard icon's sub-rectangle within an atlas page.
type TextureRegion struct {
	Page      uint16 // atlas page index (references Scene pages)
	X, Y      uint16 // top-left corner of the sub-image rect within the atlas page
	Width     uint16 // width of the sub-image rect (may differ from OriginalW if trimmed)
	Height    uint16 // height of the sub-image rect (may differ from OriginalH if trimmed)
	OriginalW uint16 // untrimmed icon width as authored
	OriginalH uint16 // untrimmed icon height as authored
	OffsetX   int16  // horizontal trim offset from TexturePacker
	OffsetY   int16  // vertical trim offset from TexturePacker
	Rotated   bool   // true if the region is stored 90 degrees clockwise in the atlas
}

// Atlas maps icon names to regions on one or more pages.
type Atlas struct {
	Pages   []*ebiten.Image
	regions map[string]TextureRegion
}

// Region returns the named region. Unknown names resolve to a 1x1 magenta
// placeholder so missing icons stay visible.
func (a *Atlas) Region(name string) TextureRegion {
	if r, ok := a.lookup(name); ok {
		return r
	}
	if globalDebug {
		log.Printf("globe: atlas region %q not found, using magenta placeholder", name)
	}
	return magentaRegion()
}

func (a *Atlas) lookup(name string) (TextureRegion, bool) {
	if a == nil {
		return TextureRegion{}, false
	}
	r, ok := a.regions[name]
	return r, ok
}

var magentaImage *ebiten.Image

func ensureMagentaImage() *ebiten.Image {
	if magentaImage == nil {
		magentaImage = ebiten.NewImage(1, 1)
		magentaImage.Fill(color.RGBA{R: 255, G: 0, B: 255, A: 255})
	}
	return magentaImage
}

// magentaPlaceholderPage is a sentinel page index that never collides with
// a registered page.
const magentaPlaceholderPage = 0xFFFF

func magentaRegion() TextureRegion {
	return TextureRegion{Page: magentaPlaceholderPage, Width: 1, Height: 1, OriginalW: 1, OriginalH: 1}
}

type atlasRect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

type atlasFrame struct {
	Frame            atlasRect `json:"frame"`
	Rotated          bool      `json:"rotated"`
	SpriteSourceSize atlasRect `json:"spriteSourceSize"`
	SourceSize       atlasRect `json:"sourceSize"`
}

type atlasDoc struct {
	Frames   map[string]atlasFrame `json:"frames"`
	Textures []struct {
		Frames map[string]atlasFrame `json:"frames"`
	} `json:"textures"`
}

// LoadAtlas parses TexturePacker JSON in either the single-page hash format
// ("frames") or the multi-page format ("textures").
func LoadAtlas(jsonData []byte, pages []*ebiten.Image) (*Atlas, error) {
	var doc atlasDoc
	if err := json.Unmarshal(jsonData, &doc); err != nil {
		return nil, fmt.Errorf("globe: failed to parse atlas JSON: %w", err)
	}
	a := &Atlas{Pages: pages, regions: make(map[string]TextureRegion)}
	switch {
	case doc.Textures != nil:
		for i, tex := range doc.Textures {
			for name, f := range tex.Frames {
				a.regions[name] = f.region(uint16(i))
			}
		}
	case doc.Frames != nil:
		for name, f := range doc.Frames {
			a.regions[name] = f.region(0)
		}
	default:
		return nil, fmt.Errorf("globe: atlas JSON has neither \"frames\" nor \"textures\" key")
	}
	return a, nil
}

func (f atlasFrame) region(page uint16) TextureRegion {
	return TextureRegion{
		Page:      page,
		X:         uint16(f.Frame.X),
		Y:         uint16(f.Frame.Y),
		Width:     uint16(f.Frame.W),
		Height:    uint16(f.Frame.H),
		OriginalW: uint16(f.SourceSize.W),
		OriginalH: uint16(f.SourceSize.H),
		OffsetX:   int16(f.SpriteSourceSize.X),
		OffsetY:   int16(f.SpriteSourceSize.Y),
		Rotated:   f.Rotated,
	}
}

// RegisterPage stores an atlas page image at the given index.
func (s *Scene) RegisterPage(index int, img *ebiten.Image) {
	for len(s.pages) <= index {
		s.pages = append(s.pages, nil)
	}
	s.pages[index] = img
}

// LoadAtlas parses TexturePacker JSON, registers its pages after the pages
// already loaded, and returns the Atlas with page indexes remapped.
func (s *Scene) LoadAtlas(jsonData []byte, pages []*ebiten.Image) (*Atlas, error) {
	atlas, err := LoadAtlas(jsonData, pages)
	if err != nil {
		return nil, err
	}
	start := len(s.pages)
	for i, page := range pages {
		s.RegisterPage(start+i, page)
	}
	if start > 0 {
		for name, r := range atlas.regions {
			r.Page += uint16(start)
			atlas.regions[name] = r
		}
	}
	return atlas, nil
}
