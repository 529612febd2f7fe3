package main

import (
	"fmt"
	"math"
	"time"

	"github.com/wbrown/img2ascii"
	"github.com/wbrown/img2ascii/gifcodec"
	"github.com/wbrown/img2ascii/imageutil"
)

// LogFlags configure logging.
type LogFlags struct {
	Level string `help:"Log level: trace, debug, info, warn, error" default:"info" enum:"trace,debug,info,warn,error" env:"ASCIIFY_LOG_LEVEL"`
	File  string `help:"Log file path (default: none; logs only to the console)" env:"ASCIIFY_LOG_FILE"`
	Quiet bool   `help:"Only log errors to the console" short:"q"`
}

// CLI is the root command structure for kong.
type CLI struct {
	Config string   `help:"Configuration file (JSON, YAML or TOML)" placeholder:"FILE"`
	Log    LogFlags `embed:"" prefix:"log."`

	Text    TextCmd    `cmd:"" help:"Render an image as lines of text"`
	Image   ImageCmd   `cmd:"" help:"Render an image as a picture of drawn glyphs"`
	Gif     GifCmd     `cmd:"" help:"Render every frame of an animated GIF"`
	Preview PreviewCmd `cmd:"" help:"Print a text rendering sized to the terminal"`
	Palette PaletteCmd `cmd:"" help:"Write or print palette files"`
	Presets PresetsCmd `cmd:"" help:"List the built-in weight lists"`
}

// PaletteFlags build the palette used by a command. A palette file is
// loaded first and the other flags are applied on top of it.
type PaletteFlags struct {
	Palette    string `help:"Palette file (.ascp) to start from" type:"existingfile" placeholder:"FILE"`
	Weights    string `help:"Built-in weight list (${presets})" placeholder:"NAME"`
	Glyphs     string `help:"Weight glyphs, darkest first" placeholder:"GLYPHS"`
	Invert     bool   `help:"Reverse the weight order"`
	Font       string `help:"Font as family,style,size (style: 0 plain, 1 bold, 2 italic, 3 bold+italic)" placeholder:"FONT"`
	FontFile   string `help:"TrueType file to register for the font family and style" type:"existingfile" placeholder:"FILE"`
	Background string `help:"Background color as R,G,B[,A]" name:"bg" placeholder:"RGB"`
	Foreground string `help:"Font color as R,G,B[,A]" name:"fg" placeholder:"RGB"`
	Phrase     bool   `help:"Repeat the weights in order instead of mapping brightness"`
	Override   bool   `help:"Draw every glyph in the font color"`
}

// build returns the palette described by the flags.
func (f *PaletteFlags) build() (*img2ascii.Palette, error) {
	p := img2ascii.NewPalette()
	if f.Palette != "" {
		var err error
		if p, err = img2ascii.LoadPalette(f.Palette); err != nil {
			return nil, err
		}
	}
	if f.Weights != "" {
		glyphs, ok := img2ascii.WeightPresets[f.Weights]
		if !ok {
			return nil, fmt.Errorf("%w: unknown weight list %q", img2ascii.ErrBadInput, f.Weights)
		}
		p.SetWeightsString(glyphs)
	}
	if f.Glyphs != "" {
		p.SetWeightsString(f.Glyphs)
	}
	if f.Invert {
		p.Invert()
	}
	if f.Font != "" {
		font, err := img2ascii.ParseFont(f.Font)
		if err != nil {
			return nil, err
		}
		p.Font = font
	}
	if f.Background != "" {
		c, err := img2ascii.ParseColor(f.Background)
		if err != nil {
			return nil, err
		}
		p.BackgroundColor = c
	}
	if f.Foreground != "" {
		c, err := img2ascii.ParseColor(f.Foreground)
		if err != nil {
			return nil, err
		}
		p.FontColor = c
	}
	if f.Phrase {
		p.UsingPhrase = true
	}
	if f.Override {
		p.OverrideImageColors = true
	}
	return p, nil
}

// typesetter returns the font backend for p, with the font file
// registered when one was given.
func (f *PaletteFlags) typesetter(p *img2ascii.Palette) (*img2ascii.FaceTypesetter, error) {
	ts := img2ascii.NewFaceTypesetter()
	if f.FontFile != "" {
		if err := ts.LoadFontFile(p.Font.Family, p.Font.Style, f.FontFile); err != nil {
			return nil, err
		}
	}
	return ts, nil
}

// SamplingFlags control how the source is sampled onto the glyph grid.
type SamplingFlags struct {
	Ratio         float64 `help:"Source pixels per glyph; 0 uses the font cell size" default:"0"`
	Interpolation string  `help:"Resampling method: linear, area, nearest" default:"linear" enum:"linear,area,nearest"`
}

func (s *SamplingFlags) options() ([]img2ascii.RendererOption, error) {
	if s.Ratio < 0 || math.IsNaN(s.Ratio) || math.IsInf(s.Ratio, 0) {
		return nil, fmt.Errorf("%w: sampling ratio %v", img2ascii.ErrBadInput, s.Ratio)
	}
	interp := imageutil.InterpolationLinear
	switch s.Interpolation {
	case "area":
		interp = imageutil.InterpolationArea
	case "nearest":
		interp = imageutil.InterpolationNearest
	}
	return []img2ascii.RendererOption{
		img2ascii.WithAutoSampling(s.Ratio),
		img2ascii.WithInterpolation(interp),
	}, nil
}

// EncodeFlags control GIF output.
type EncodeFlags struct {
	Delay         time.Duration `help:"Delay between frames; 0 uses the source's average delay" default:"0s"`
	PerFrameDelay bool          `help:"Keep each source frame's own delay"`
	PlayOnce      bool          `help:"Play the animation once instead of looping"`
	Comment       string        `help:"Comment stored in the GIF" default:"${comment}"`
}

func (e *EncodeFlags) options() gifcodec.EncodeOptions {
	return gifcodec.EncodeOptions{
		Delay:         e.Delay,
		PerFrameDelay: e.PerFrameDelay,
		PlayOnce:      e.PlayOnce,
		Comment:       e.Comment,
	}
}

// renderSetup resolves the palette and renderer options shared by the
// render commands.
func renderSetup(pf *PaletteFlags, sf *SamplingFlags) (*img2ascii.Palette, []img2ascii.RendererOption, error) {
	p, err := pf.build()
	if err != nil {
		return nil, nil, err
	}
	ts, err := pf.typesetter(p)
	if err != nil {
		return nil, nil, err
	}
	opts, err := sf.options()
	if err != nil {
		return nil, nil, err
	}
	return p, append(opts, img2ascii.WithTypesetter(ts)), nil
}
