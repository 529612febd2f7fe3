package img2ascii

import (
	"github.com/wbrown/img2ascii/imageutil"
)

// Progress reports how far a render has got. Row counts completed text
// rows within the current frame; Frame is the index of that frame, 0 for
// still images.
type Progress struct {
	Row   int
	Rows  int
	Frame int
}

// ProgressFunc receives progress after each completed row. It is called
// on the rendering goroutine and must return quickly.
type ProgressFunc func(Progress)

// Renderer converts images to ASCII art with one palette. A Renderer is
// not safe for concurrent use; run parallel renders with separate
// renderers.
type Renderer struct {
	palette       *Palette
	params        *SamplingParams
	autoSample    bool
	autoRatio     float64
	typesetter    Typesetter
	progress      ProgressFunc
	interpolation imageutil.Interpolation

	phrasePos int
	framePos  int
}

// RendererOption is a functional option for configuring a Renderer.
type RendererOption func(*Renderer)

// NewRenderer creates a Renderer for a copy of palette. A nil palette
// means the defaults. Without sampling options the source pixels are used
// one glyph per pixel.
func NewRenderer(palette *Palette, opts ...RendererOption) *Renderer {
	if palette == nil {
		palette = NewPalette()
	}
	r := &Renderer{
		palette:       palette.Clone(),
		interpolation: imageutil.InterpolationLinear,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.typesetter == nil {
		r.typesetter = NewFaceTypesetter()
	}
	return r
}

// WithSamplingParams resamples every source to the grid described by p.
func WithSamplingParams(p *SamplingParams) RendererOption {
	return func(r *Renderer) {
		r.params = p
		r.autoSample = false
	}
}

// WithAutoSampling derives sampling parameters from the palette font and
// each source's size. A positive ratio replaces the default sampling
// ratio.
func WithAutoSampling(ratio float64) RendererOption {
	return func(r *Renderer) {
		r.params = nil
		r.autoSample = true
		r.autoRatio = ratio
	}
}

// WithTypesetter sets the measuring and drawing capability. The default is
// a new FaceTypesetter.
func WithTypesetter(ts Typesetter) RendererOption {
	return func(r *Renderer) {
		r.typesetter = ts
	}
}

// WithProgress sets a progress callback.
func WithProgress(fn ProgressFunc) RendererOption {
	return func(r *Renderer) {
		r.progress = fn
	}
}

// WithInterpolation sets the resampling method. Bilinear is the default.
func WithInterpolation(i imageutil.Interpolation) RendererOption {
	return func(r *Renderer) {
		r.interpolation = i
	}
}

// Palette returns the renderer's palette. It must not be modified while a
// render is running.
func (r *Renderer) Palette() *Palette { return r.palette }

// Typesetter returns the renderer's typesetter.
func (r *Renderer) Typesetter() Typesetter { return r.typesetter }

// SamplingParams returns the fixed sampling parameters, or nil.
func (r *Renderer) SamplingParams() *SamplingParams { return r.params }

// PhrasePos returns the next phrase position.
func (r *Renderer) PhrasePos() int { return r.phrasePos }

// FramePos returns the index of the frame being rendered.
func (r *Renderer) FramePos() int { return r.framePos }

func (r *Renderer) report(row, rows int) {
	if r.progress != nil {
		r.progress(Progress{Row: row, Rows: rows, Frame: r.framePos})
	}
}
