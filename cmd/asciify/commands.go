package main

import (
	"fmt"
	"io"
	"math"

	"github.com/wbrown/img2ascii"
	"github.com/wbrown/img2ascii/background"
	"github.com/wbrown/img2ascii/imageutil"
)

// defaultColumns is the preview width when stdout is not a terminal.
const defaultColumns = 80

// runJob runs job on the background driver and waits for it.
func (a *app) runJob(job background.Job) (*background.Result, error) {
	view := newProgressView(a.out.stderr, a.out.tty)
	d := background.New(background.WithHost(view), background.WithBuffer(64))
	events, err := d.Start(a.ctx, job)
	if err != nil {
		return nil, err
	}
	final := background.Wait(events, view.update)
	view.finish()
	if final.Err != nil {
		return nil, fmt.Errorf("%s: %w", final.Message, final.Err)
	}
	return final.Result, nil
}

// TextCmd renders an image as text.
type TextCmd struct {
	PaletteFlags  `embed:""`
	SamplingFlags `embed:""`

	Input  string `arg:"" type:"existingfile" help:"Source image"`
	Output string `arg:"" optional:"" help:"Text file to write; omit or '-' for stdout"`
}

// Run is called by kong when the text command is executed.
func (c *TextCmd) Run(a *app) error {
	p, opts, err := renderSetup(&c.PaletteFlags, &c.SamplingFlags)
	if err != nil {
		return err
	}
	src, err := img2ascii.OpenImage(c.Input)
	if err != nil {
		return err
	}
	if c.Output == "" || c.Output == "-" {
		text, err := img2ascii.NewRenderer(p, opts...).RenderText(a.ctx, src)
		if err != nil {
			return err
		}
		_, err = io.WriteString(a.out.stdout, text)
		return err
	}
	res, err := a.runJob(background.Job{
		Type:            background.Text,
		Palette:         p,
		Source:          src,
		OutputPath:      c.Output,
		RendererOptions: opts,
	})
	if err != nil {
		return err
	}
	a.log.Info("Saved text", "path", res.Path, "elapsed", res.Elapsed)
	return nil
}

// ImageCmd renders an image as a raster of drawn glyphs.
type ImageCmd struct {
	PaletteFlags  `embed:""`
	SamplingFlags `embed:""`

	Input  string `arg:"" type:"existingfile" help:"Source image"`
	Output string `arg:"" help:"Image file to write; the extension picks the format (png, jpg, gif, bmp, tiff)"`
}

// Run is called by kong when the image command is executed.
func (c *ImageCmd) Run(a *app) error {
	p, opts, err := renderSetup(&c.PaletteFlags, &c.SamplingFlags)
	if err != nil {
		return err
	}
	src, err := img2ascii.OpenImage(c.Input)
	if err != nil {
		return err
	}
	res, err := a.runJob(background.Job{
		Type:            background.StillImage,
		Palette:         p,
		Source:          src,
		OutputPath:      c.Output,
		RendererOptions: opts,
	})
	if err != nil {
		return err
	}
	b := res.Image.Bounds()
	a.log.Info("Saved image", "path", res.Path, "size", fmt.Sprintf("%dx%d", b.Dx(), b.Dy()), "elapsed", res.Elapsed)
	return nil
}

// GifCmd renders every frame of an animated GIF.
type GifCmd struct {
	PaletteFlags  `embed:""`
	SamplingFlags `embed:""`
	EncodeFlags   `embed:""`

	Input  string `arg:"" type:"existingfile" help:"Source GIF"`
	Output string `arg:"" help:"GIF file to write"`
}

// Run is called by kong when the gif command is executed.
func (c *GifCmd) Run(a *app) error {
	p, opts, err := renderSetup(&c.PaletteFlags, &c.SamplingFlags)
	if err != nil {
		return err
	}
	anim, err := img2ascii.OpenAnimation(c.Input)
	if err != nil {
		return err
	}
	res, err := a.runJob(background.Job{
		Type:            background.Animated,
		Palette:         p,
		Animation:       anim,
		OutputPath:      c.Output,
		RendererOptions: opts,
		Encode:          c.EncodeFlags.options(),
	})
	if err != nil {
		return err
	}
	a.log.Info("Saved animation", "path", res.Path, "frames", res.Animation.Len(), "elapsed", res.Elapsed)
	return nil
}

// PreviewCmd prints a text rendering that fits the terminal width.
type PreviewCmd struct {
	PaletteFlags `embed:""`

	Input string `arg:"" type:"existingfile" help:"Source image"`
	Width int    `help:"Columns to fill; 0 uses the terminal width" default:"0"`
}

// Run is called by kong when the preview command is executed.
func (c *PreviewCmd) Run(a *app) error {
	if c.Width < 0 {
		return fmt.Errorf("%w: width %d", img2ascii.ErrBadInput, c.Width)
	}
	p, err := c.build()
	if err != nil {
		return err
	}
	ts, err := c.typesetter(p)
	if err != nil {
		return err
	}
	src, err := img2ascii.OpenImage(c.Input)
	if err != nil {
		return err
	}

	cols := c.Width
	if cols == 0 {
		cols = defaultColumns
		if w, _, ok := a.layout(); ok {
			cols = w
		}
	}
	ratio := math.Max(1, math.Ceil(float64(src.Bounds().Dx())/float64(cols)))
	a.log.Debug("preview", "columns", cols, "ratio", ratio)

	r := img2ascii.NewRenderer(p, img2ascii.WithTypesetter(ts), img2ascii.WithAutoSampling(ratio))
	text, err := r.RenderText(a.ctx, src)
	if err != nil {
		return err
	}
	_, err = io.WriteString(a.out.stdout, text)
	return err
}

// PaletteCmd groups the palette file commands.
type PaletteCmd struct {
	Export PaletteExportCmd `cmd:"" help:"Write the palette built from flags to a file"`
	Show   PaletteShowCmd   `cmd:"" help:"Print a palette file"`
}

// PaletteExportCmd writes a palette file.
type PaletteExportCmd struct {
	PaletteFlags `embed:""`

	Output string `arg:"" help:"Palette file to write; .ascp is added when there is no extension"`
}

// Run is called by kong when the palette export command is executed.
func (c *PaletteExportCmd) Run(a *app) error {
	p, err := c.build()
	if err != nil {
		return err
	}
	path := c.Output
	if imageutil.Ext(path, "") == "" {
		path += "." + img2ascii.PaletteExt
	}
	if err := p.Export(path); err != nil {
		return err
	}
	fmt.Fprintln(a.out.stdout, path)
	return nil
}

// PaletteShowCmd prints a palette file.
type PaletteShowCmd struct {
	Input  string `arg:"" type:"existingfile" help:"Palette file"`
	Format string `help:"Output format: properties, yaml, toml" default:"properties" enum:"properties,yaml,toml"`
}

// Run is called by kong when the palette show command is executed.
func (c *PaletteShowCmd) Run(a *app) error {
	p, err := img2ascii.LoadPalette(c.Input)
	if err != nil {
		return err
	}
	return writePalette(a.out.stdout, p, c.Format)
}

// PresetsCmd lists the built-in weight lists.
type PresetsCmd struct{}

// Run is called by kong when the presets command is executed.
func (c *PresetsCmd) Run(a *app) error {
	for _, name := range img2ascii.PresetNames() {
		if _, err := fmt.Fprintf(a.out.stdout, "%-14s %s\n", name, img2ascii.WeightPresets[name]); err != nil {
			return err
		}
	}
	return nil
}
