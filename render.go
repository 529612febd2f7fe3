package img2ascii

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/wbrown/img2ascii/gifcodec"
	"github.com/wbrown/img2ascii/imageutil"
)

// baselineShift moves the first row up from its measured height so that
// glyph baselines land where historical renders put them.
const baselineShift = 3

// lineEnd terminates every text row.
const lineEnd = "\r\n"

// grid is a sampled source ready for glyph selection.
type grid struct {
	img   *imageutil.RGBAImage
	rows  []int
	width int
}

// prepare validates the palette and samples src onto the glyph grid.
func (r *Renderer) prepare(src image.Image) (*grid, error) {
	if src == nil {
		return nil, fmt.Errorf("%w: no source image", ErrBadInput)
	}
	if len(r.palette.Weights) == 0 {
		return nil, fmt.Errorf("%w: palette has no weights", ErrBadInput)
	}
	b := src.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("%w: source image is empty", ErrBadInput)
	}

	params := r.params
	if r.autoSample {
		p, err := r.palette.SamplingParams(r.typesetter, b.Dx(), b.Dy())
		if err != nil {
			return nil, err
		}
		if r.autoRatio > 0 {
			p.SamplingRatio = r.autoRatio
		}
		params = p
	}

	var img *imageutil.RGBAImage
	if params != nil {
		w, h := params.SampleWidth(), params.SampleHeight()
		Logger().Debug("resampling source",
			"from", fmt.Sprintf("%dx%d", b.Dx(), b.Dy()),
			"to", fmt.Sprintf("%dx%d", w, h))
		img = imageutil.ResizeWith(src, w, h, r.interpolation)
	} else {
		// Alpha is ignored: pixels keep their straight color.
		img = imageutil.OpaqueRGBAImage(src)
	}

	ratio, err := r.palette.FontRatio(r.typesetter)
	if err != nil {
		return nil, err
	}
	g := &grid{img: img, width: img.Width()}
	for y := 0; y < img.Height(); y += ratio {
		g.rows = append(g.rows, y)
	}
	return g, nil
}

// glyphAt picks the glyph for one output cell. In phrase mode it consumes
// one phrase position.
func (r *Renderer) glyphAt(g *grid, x, y int) string {
	weights := r.palette.Weights
	if r.palette.UsingPhrase {
		if r.phrasePos >= len(weights) {
			r.phrasePos = 0
		}
		glyph := weights[r.phrasePos]
		r.phrasePos++
		if r.phrasePos >= len(weights) {
			r.phrasePos = 0
		}
		return glyph
	}
	c := g.img.RGBAAt(x, y)
	return weights[luminanceIndex(c.R, c.G, c.B, len(weights)-1)]
}

func (r *Renderer) rowText(g *grid, y int) string {
	var b strings.Builder
	for x := 0; x < g.width; x++ {
		b.WriteString(r.glyphAt(g, x, y))
	}
	return b.String()
}

// RenderText renders src as lines of glyphs, each ending in CR-LF.
func (r *Renderer) RenderText(ctx context.Context, src image.Image) (string, error) {
	g, err := r.prepare(src)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for i, y := range g.rows {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		b.WriteString(r.rowText(g, y))
		b.WriteString(lineEnd)
		r.report(i+1, len(g.rows))
	}
	return b.String(), nil
}

// RenderImage renders src as a new raster of drawn glyphs on the palette
// background.
func (r *Renderer) RenderImage(ctx context.Context, src image.Image) (*image.RGBA, error) {
	g, err := r.prepare(src)
	if err != nil {
		return nil, err
	}
	return r.draw(ctx, g)
}

// draw measures every row, sizes the canvas to fit and draws the glyphs.
func (r *Renderer) draw(ctx context.Context, g *grid) (*image.RGBA, error) {
	p := r.palette

	// Measuring renders each row's text, which must not use up phrase
	// positions needed by the drawing pass.
	start := r.phrasePos
	heights := make([]int, len(g.rows))
	width, height := 0, 0
	for i, y := range g.rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		w, h, err := p.StringDimensions(r.typesetter, r.rowText(g, y))
		if err != nil {
			return nil, err
		}
		heights[i] = h
		width = max(width, w)
		height += h
	}
	r.phrasePos = start

	canvas := image.NewRGBA(image.Rect(0, 0, max(width, 1), max(height, 1)))
	imageutil.FillRect(canvas, canvas.Bounds(), p.BackgroundColor)
	if len(g.rows) == 0 {
		return canvas, nil
	}

	widths := make(map[string]int)
	cy := heights[0] - baselineShift
	for i, y := range g.rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		cx := 0
		for x := 0; x < g.width; x++ {
			glyph := r.glyphAt(g, x, y)
			var c color.Color = p.FontColor
			if !p.OverrideImageColors {
				c = g.img.RGBAAt(x, y)
			}
			if err := r.typesetter.DrawString(canvas, p.Font, c, cx, cy, glyph); err != nil {
				return nil, hostError(err)
			}
			w, ok := widths[glyph]
			if !ok {
				var err error
				if w, err = p.StringWidth(r.typesetter, glyph); err != nil {
					return nil, err
				}
				widths[glyph] = w
			}
			cx += w
		}
		cy += heights[i]
		r.report(i+1, len(g.rows))
	}
	return canvas, nil
}

// RenderAnimation renders every frame of src. The result has the same
// frame count, delays and disposal methods as src. Phrase positions
// restart with each frame.
func (r *Renderer) RenderAnimation(ctx context.Context, src *gifcodec.Animation) (*gifcodec.Animation, error) {
	if src == nil || src.Len() == 0 {
		return nil, fmt.Errorf("%w: animation has no frames", ErrBadInput)
	}
	frames := make([]*gifcodec.Frame, src.Len())
	for f, in := range src.Frames() {
		r.phrasePos = 0
		r.framePos = f
		g, err := r.prepare(in.Image)
		if err != nil {
			return nil, err
		}
		img, err := r.draw(ctx, g)
		if err != nil {
			return nil, err
		}
		frames[f] = &gifcodec.Frame{
			Image:    img,
			Delay:    in.Delay,
			Disposal: in.Disposal,
			Bounds:   img.Bounds(),
		}
	}
	r.framePos = 0
	return gifcodec.FromFrames(frames)
}
