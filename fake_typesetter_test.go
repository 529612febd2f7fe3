package img2ascii

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"unicode/utf8"
)

// drawCall records one DrawString call.
type drawCall struct {
	glyph string
	x, y  int
	color color.RGBA
}

// fakeTypesetter measures every rune as a fixed cell and paints each
// non-blank glyph as a solid block filling its cell.
type fakeTypesetter struct {
	cellW, cellH int
	draws        []drawCall
	measures     int
	fail         error
}

func newFakeTypesetter(w, h int) *fakeTypesetter {
	return &fakeTypesetter{cellW: w, cellH: h}
}

func (f *fakeTypesetter) Measure(_ Font, s string) (int, int, error) {
	if f.fail != nil {
		return 0, 0, f.fail
	}
	f.measures++
	return f.cellW * utf8.RuneCountInString(s), f.cellH, nil
}

func (f *fakeTypesetter) GlyphWidths(Font) ([]int, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	widths := make([]int, 256)
	for i := range widths {
		widths[i] = f.cellW
	}
	return widths, nil
}

func (f *fakeTypesetter) FontHeight(Font) (int, error) {
	if f.fail != nil {
		return 0, f.fail
	}
	return f.cellH, nil
}

func (f *fakeTypesetter) DrawString(dst draw.Image, _ Font, c color.Color, x, y int, s string) error {
	if f.fail != nil {
		return f.fail
	}
	rgba := color.RGBAModel.Convert(c).(color.RGBA)
	f.draws = append(f.draws, drawCall{glyph: s, x: x, y: y, color: rgba})
	if s == " " {
		return nil
	}
	top := y + baselineShift - f.cellH
	cell := image.Rect(x, top, x+f.cellW*utf8.RuneCountInString(s), top+f.cellH)
	draw.Draw(dst, cell.Intersect(dst.Bounds()), image.NewUniform(rgba), image.Point{}, draw.Src)
	return nil
}

func (f *fakeTypesetter) glyphs() []string {
	out := make([]string, len(f.draws))
	for i, d := range f.draws {
		out[i] = d.glyph
	}
	return out
}

var errFakeFont = errors.New("fake font failure")
