package img2ascii

import (
	"fmt"
	"image/color"
	"io"
	"reflect"
	"strconv"
	"strings"

	"github.com/wbrown/img2ascii/imageutil"
	"github.com/wbrown/img2ascii/propfile"
)

// PaletteExt is the file extension of exported palettes.
const PaletteExt = "ascp"

// ColorCodec stores colors as "R,G,B,A" with decimal channels.
var ColorCodec = &propfile.TypeCodec[color.RGBA]{
	SerializeFunc: func(c color.RGBA) (string, error) {
		return FormatColor(c), nil
	},
	ParseFunc: ParseColor,
}

// FontCodec stores fonts as "family,style,size".
var FontCodec = &propfile.TypeCodec[Font]{
	SerializeFunc: func(f Font) (string, error) {
		return f.String(), nil
	},
	ParseFunc: ParseFont,
}

// FormatColor renders c as "R,G,B,A".
func FormatColor(c color.RGBA) string {
	return fmt.Sprintf("%d,%d,%d,%d", c.R, c.G, c.B, c.A)
}

// ParseColor parses "R,G,B,A". The alpha channel may be omitted and then
// defaults to 255.
func ParseColor(s string) (color.RGBA, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 && len(parts) != 4 {
		return color.RGBA{}, fmt.Errorf("%w: color %q: want R,G,B,A", ErrBadInput, s)
	}
	ch := [4]uint8{0, 0, 0, 255}
	for i, part := range parts {
		v, err := strconv.ParseUint(strings.TrimSpace(part), 10, 8)
		if err != nil {
			return color.RGBA{}, fmt.Errorf("%w: color %q: %w", ErrBadInput, s, err)
		}
		ch[i] = uint8(v)
	}
	return color.RGBA{R: ch[0], G: ch[1], B: ch[2], A: ch[3]}, nil
}

// PropertyTypeName names the palette in exported files.
func (p *Palette) PropertyTypeName() string { return "Palette" }

// Properties lists the persisted palette settings in file order.
func (p *Palette) Properties() []propfile.Property {
	return []propfile.Property{
		{
			Name: "background_color",
			Type: reflect.TypeFor[color.RGBA](),
			Get:  func() any { return p.BackgroundColor },
			Set:  func(v any) error { p.BackgroundColor = v.(color.RGBA); return nil },
		},
		{
			Name: "font_color",
			Type: reflect.TypeFor[color.RGBA](),
			Get:  func() any { return p.FontColor },
			Set:  func(v any) error { p.FontColor = v.(color.RGBA); return nil },
		},
		{
			Name: "font",
			Type: reflect.TypeFor[Font](),
			Get:  func() any { return p.Font },
			Set:  func(v any) error { p.Font = v.(Font); return nil },
		},
		{
			Name: "using_phrase",
			Type: reflect.TypeFor[bool](),
			Get:  func() any { return p.UsingPhrase },
			Set:  func(v any) error { p.UsingPhrase = v.(bool); return nil },
		},
		{
			Name: "overriding_image_colors",
			Type: reflect.TypeFor[bool](),
			Get:  func() any { return p.OverrideImageColors },
			Set:  func(v any) error { p.OverrideImageColors = v.(bool); return nil },
		},
		{
			Name: "weights",
			Type: reflect.TypeFor[string](),
			Get:  func() any { return p.WeightsString() },
			Set:  func(v any) error { p.SetWeightsString(v.(string)); return nil },
		},
	}
}

// NewPaletteSerializer returns a serializer that knows the palette's
// color and font types. Further options are applied after the codecs.
func NewPaletteSerializer(opts ...propfile.Option) *propfile.Serializer {
	return propfile.New(append([]propfile.Option{propfile.WithCodecs(ColorCodec, FontCodec)}, opts...)...)
}

// Encode writes p in the palette file format.
func (p *Palette) Encode(w io.Writer) error {
	return classify(NewPaletteSerializer().Encode(p, w), ErrSerialization)
}

// Decode reads every palette setting from r. Missing settings are an
// error.
func (p *Palette) Decode(r io.Reader) error {
	return classify(NewPaletteSerializer().Decode(p, r), ErrSerialization)
}

// Export writes p to path. The file appears only once fully written.
func (p *Palette) Export(path string) error {
	err := imageutil.WriteFileAtomic(path, func(w io.Writer) error {
		return NewPaletteSerializer().Encode(p, w)
	})
	if err != nil {
		return classify(err, ErrIO)
	}
	Logger().Info("exported palette", "path", path)
	return nil
}

// Import reads a palette file into p. Settings missing from the file keep
// their current values.
func (p *Palette) Import(path string) error {
	err := NewPaletteSerializer(propfile.IgnoreMissingValues(true)).Read(p, path)
	if err != nil {
		return classify(err, ErrSerialization)
	}
	Logger().Debug("imported palette", "path", path, "weights", len(p.Weights))
	return nil
}

// LoadPalette returns the defaults overlaid with the settings in path.
func LoadPalette(path string) (*Palette, error) {
	p := NewPalette()
	if err := p.Import(path); err != nil {
		return nil, err
	}
	return p, nil
}
