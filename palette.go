package img2ascii

import (
	"fmt"
	"image/color"
	"slices"
)

// Palette holds the settings of a render: the glyph ramp, the font and
// the colors. Copies made with Clone are independent.
type Palette struct {
	// Weights is the glyph ramp, darkest first.
	Weights []string
	// UsingPhrase lays glyphs down in ramp order regardless of pixel
	// luminance.
	UsingPhrase bool
	// OverrideImageColors draws every glyph in FontColor instead of the
	// source pixel color.
	OverrideImageColors bool
	// BackgroundColor fills rendered images.
	BackgroundColor color.RGBA
	// FontColor is the glyph color when overriding image colors.
	FontColor color.RGBA
	// Font is the face glyphs are measured and drawn with.
	Font Font
}

// NewPalette returns a palette with the default settings: standard dark
// weights, monospaced bold 12 point font, white glyphs on black, phrase
// and color override off.
func NewPalette() *Palette {
	return &Palette{
		Weights:         SplitWeights(StandardDarkWeights),
		BackgroundColor: color.RGBA{0, 0, 0, 255},
		FontColor:       color.RGBA{255, 255, 255, 255},
		Font:            DefaultFont,
	}
}

// Clone returns a deep copy of p.
func (p *Palette) Clone() *Palette {
	c := *p
	c.Weights = slices.Clone(p.Weights)
	return &c
}

// Reset restores the default settings in place.
func (p *Palette) Reset() {
	*p = *NewPalette()
}

// Equal reports whether p and o have the same settings.
func (p *Palette) Equal(o *Palette) bool {
	if p == nil || o == nil {
		return p == o
	}
	return slices.Equal(p.Weights, o.Weights) &&
		p.UsingPhrase == o.UsingPhrase &&
		p.OverrideImageColors == o.OverrideImageColors &&
		p.BackgroundColor == o.BackgroundColor &&
		p.FontColor == o.FontColor &&
		p.Font == o.Font
}

// WeightsString returns the weights joined into one string.
func (p *Palette) WeightsString() string {
	return JoinWeights(p.Weights)
}

// SetWeightsString splits s into glyphs and uses them as the weights.
func (p *Palette) SetWeightsString(s string) {
	p.Weights = SplitWeights(s)
}

// WeightCount returns the number of glyphs in the ramp.
func (p *Palette) WeightCount() int {
	return len(p.Weights)
}

// Weight returns glyph i of the ramp.
func (p *Palette) Weight(i int) string {
	return p.Weights[i]
}

// Invert reverses the glyph ramp so light and dark swap.
func (p *Palette) Invert() {
	p.SetWeightsString(ReverseWeights(p.WeightsString()))
}

// FontRatio returns the font height divided by its widest glyph, at
// least 1. The renderer emits one text row per FontRatio sampled rows.
func (p *Palette) FontRatio(ts Typesetter) (int, error) {
	height, err := ts.FontHeight(p.Font)
	if err != nil {
		return 0, hostError(err)
	}
	widths, err := ts.GlyphWidths(p.Font)
	if err != nil {
		return 0, hostError(err)
	}
	maxWidth := 0
	for _, w := range widths {
		maxWidth = max(maxWidth, w)
	}
	if maxWidth <= 0 {
		return 1, nil
	}
	return max(1, height/maxWidth), nil
}

// StringDimensions measures s set in the palette font.
func (p *Palette) StringDimensions(ts Typesetter, s string) (w, h int, err error) {
	w, h, err = ts.Measure(p.Font, s)
	if err != nil {
		return 0, 0, hostError(err)
	}
	return w, h, nil
}

// StringWidth returns the width of s set in the palette font.
func (p *Palette) StringWidth(ts Typesetter, s string) (int, error) {
	w, _, err := p.StringDimensions(ts, s)
	return w, err
}

// StringHeight returns the height of s set in the palette font.
func (p *Palette) StringHeight(ts Typesetter, s string) (int, error) {
	_, h, err := p.StringDimensions(ts, s)
	return h, err
}

// SamplingParams measures the whole ramp as one string, derives the
// per-glyph cell size from it and returns sampling parameters for an
// image of the given size.
func (p *Palette) SamplingParams(ts Typesetter, width, height int) (*SamplingParams, error) {
	if len(p.Weights) == 0 {
		return nil, fmt.Errorf("%w: palette has no weights", ErrBadInput)
	}
	w, h, err := p.StringDimensions(ts, p.WeightsString())
	if err != nil {
		return nil, err
	}
	return NewSamplingParams(width, height, float64(w)/float64(len(p.Weights)), float64(h)), nil
}

// hostError marks a typesetter failure as ErrHostCapability.
func hostError(err error) error {
	return classify(err, ErrHostCapability)
}
