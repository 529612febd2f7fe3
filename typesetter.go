package img2ascii

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"os"
	"sync"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/gomonobolditalic"
	"golang.org/x/image/font/gofont/gomonoitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/text/cases"
)

// Typesetter measures and draws text. The renderer consumes this
// capability; a renderer owns its Typesetter for the duration of a render.
type Typesetter interface {
	// Measure returns the pixel width and height of s set in f.
	Measure(f Font, s string) (w, h int, err error)
	// GlyphWidths returns the advance widths of the font's first 256
	// characters.
	GlyphWidths(f Font) ([]int, error)
	// FontHeight returns the line height of f.
	FontHeight(f Font) (int, error)
	// DrawString draws s in color c with its baseline starting at (x, y).
	DrawString(dst draw.Image, f Font, c color.Color, x, y int, s string) error
}

// MonospacedFamily is the family unknown names fall back to.
const MonospacedFamily = "Monospaced"

// builtinFamilies maps the logical family names to the Go fonts, indexed
// by FontStyle.
var builtinFamilies = map[string][4][]byte{
	MonospacedFamily: {gomono.TTF, gomonobold.TTF, gomonoitalic.TTF, gomonobolditalic.TTF},
	"SansSerif":      {goregular.TTF, gobold.TTF, goitalic.TTF, gobolditalic.TTF},
	"Dialog":         {goregular.TTF, gobold.TTF, goitalic.TTF, gobolditalic.TTF},
}

var (
	builtinMu     sync.Mutex
	builtinParsed = map[string]*truetype.Font{}
)

// parseBuiltin parses a built-in font once per process. Parsed fonts are
// immutable and shared between typesetters.
func parseBuiltin(family string, style FontStyle) (*truetype.Font, error) {
	key := fmt.Sprintf("%s/%d", family, style)
	builtinMu.Lock()
	defer builtinMu.Unlock()
	if f, ok := builtinParsed[key]; ok {
		return f, nil
	}
	f, err := freetype.ParseFont(builtinFamilies[family][style])
	if err != nil {
		return nil, err
	}
	builtinParsed[key] = f
	return f, nil
}

// FaceTypesetter is a Typesetter backed by TrueType fonts rendered with
// freetype. The Monospaced, SansSerif and Dialog families are built in;
// more can be added with RegisterFamily. A FaceTypesetter is safe for
// concurrent use but serializes all calls.
type FaceTypesetter struct {
	mu       sync.Mutex
	families map[string]*[4]*truetype.Font
	faces    map[Font]font.Face
	fold     cases.Caser
}

// NewFaceTypesetter creates a typesetter with only the built-in families.
func NewFaceTypesetter() *FaceTypesetter {
	return &FaceTypesetter{
		families: make(map[string]*[4]*truetype.Font),
		faces:    make(map[Font]font.Face),
		fold:     cases.Fold(),
	}
}

// RegisterFamily parses TrueType data and makes it available as the given
// family and style. Family names are matched case-insensitively.
func (t *FaceTypesetter) RegisterFamily(family string, style FontStyle, ttf []byte) error {
	if !style.Valid() {
		return fmt.Errorf("%w: unknown font style %d", ErrBadInput, style)
	}
	f, err := freetype.ParseFont(ttf)
	if err != nil {
		return fmt.Errorf("%w: parsing font %s: %w", ErrHostCapability, family, err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	key := t.fold.String(family)
	styles, ok := t.families[key]
	if !ok {
		styles = &[4]*truetype.Font{}
		t.families[key] = styles
	}
	styles[style] = f
	for k := range t.faces {
		if t.fold.String(k.Family) == key {
			delete(t.faces, k)
		}
	}
	return nil
}

// LoadFontFile reads a TrueType file and registers it like RegisterFamily.
func (t *FaceTypesetter) LoadFontFile(family string, style FontStyle, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	return t.RegisterFamily(family, style, data)
}

// lookup resolves a family and style to a parsed font. Caller holds t.mu.
func (t *FaceTypesetter) lookup(family string, style FontStyle) (*truetype.Font, error) {
	if !style.Valid() {
		style = StylePlain
	}
	key := t.fold.String(family)
	if styles, ok := t.families[key]; ok {
		if styles[style] != nil {
			return styles[style], nil
		}
		if styles[StylePlain] != nil {
			return styles[StylePlain], nil
		}
	}
	for name := range builtinFamilies {
		if t.fold.String(name) == key {
			return parseBuiltin(name, style)
		}
	}
	Logger().Warn("unknown font family, using fallback",
		"family", family, "fallback", MonospacedFamily)
	return parseBuiltin(MonospacedFamily, style)
}

// face returns the cached face for f. Caller holds t.mu.
func (t *FaceTypesetter) face(f Font) (font.Face, error) {
	if face, ok := t.faces[f]; ok {
		return face, nil
	}
	if f.Size <= 0 {
		return nil, fmt.Errorf("%w: font size %d", ErrHostCapability, f.Size)
	}
	ttf, err := t.lookup(f.Family, f.Style)
	if err != nil {
		return nil, fmt.Errorf("%w: loading font %s: %w", ErrHostCapability, f, err)
	}
	face := truetype.NewFace(ttf, &truetype.Options{
		Size:    float64(f.Size),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	t.faces[f] = face
	Logger().Debug("created font face", "font", f.String())
	return face, nil
}

// Measure implements Typesetter.
func (t *FaceTypesetter) Measure(f Font, s string) (int, int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	face, err := t.face(f)
	if err != nil {
		return 0, 0, err
	}
	m := face.Metrics()
	return font.MeasureString(face, s).Ceil(), (m.Ascent + m.Descent).Ceil(), nil
}

// GlyphWidths implements Typesetter.
func (t *FaceTypesetter) GlyphWidths(f Font) ([]int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	face, err := t.face(f)
	if err != nil {
		return nil, err
	}
	widths := make([]int, 0, 256)
	for r := rune(0); r < 256; r++ {
		if adv, ok := face.GlyphAdvance(r); ok {
			widths = append(widths, adv.Round())
		}
	}
	return widths, nil
}

// FontHeight implements Typesetter.
func (t *FaceTypesetter) FontHeight(f Font) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	face, err := t.face(f)
	if err != nil {
		return 0, err
	}
	m := face.Metrics()
	return (m.Ascent + m.Descent).Ceil(), nil
}

// DrawString implements Typesetter.
func (t *FaceTypesetter) DrawString(dst draw.Image, f Font, c color.Color, x, y int, s string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	face, err := t.face(f)
	if err != nil {
		return err
	}
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  freetype.Pt(x, y),
	}
	d.DrawString(s)
	return nil
}

// IsMonospaced reports whether f draws 'i' and 'm' with the same advance.
// Renders assume a monospaced font; other fonts give uneven columns.
func (t *FaceTypesetter) IsMonospaced(f Font) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	face, err := t.face(f)
	if err != nil {
		return false, err
	}
	i, _ := face.GlyphAdvance('i')
	m, _ := face.GlyphAdvance('m')
	return i == m, nil
}
