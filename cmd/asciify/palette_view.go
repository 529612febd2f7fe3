package main

import (
	"fmt"
	"io"

	"github.com/pelletier/go-toml"
	"gopkg.in/yaml.v3"

	"github.com/wbrown/img2ascii"
)

// paletteView is the palette as printed by palette show in the yaml and
// toml formats.
type paletteView struct {
	BackgroundColor string `yaml:"background_color" toml:"background_color"`
	FontColor       string `yaml:"font_color" toml:"font_color"`
	Font            string `yaml:"font" toml:"font"`
	UsingPhrase     bool   `yaml:"using_phrase" toml:"using_phrase"`
	OverrideColors  bool   `yaml:"overriding_image_colors" toml:"overriding_image_colors"`
	Weights         string `yaml:"weights" toml:"weights"`
	GlyphCount      int    `yaml:"glyph_count" toml:"glyph_count"`
}

func newPaletteView(p *img2ascii.Palette) paletteView {
	return paletteView{
		BackgroundColor: img2ascii.FormatColor(p.BackgroundColor),
		FontColor:       img2ascii.FormatColor(p.FontColor),
		Font:            p.Font.String(),
		UsingPhrase:     p.UsingPhrase,
		OverrideColors:  p.OverrideImageColors,
		Weights:         p.WeightsString(),
		GlyphCount:      p.WeightCount(),
	}
}

// writePalette prints p in format: properties, yaml or toml.
func writePalette(w io.Writer, p *img2ascii.Palette, format string) error {
	var (
		data []byte
		err  error
	)
	switch format {
	case "", "properties":
		return p.Encode(w)
	case "yaml":
		data, err = yaml.Marshal(newPaletteView(p))
	case "toml":
		data, err = toml.Marshal(newPaletteView(p))
	default:
		return fmt.Errorf("%w: unknown palette format %q", img2ascii.ErrBadInput, format)
	}
	if err != nil {
		return fmt.Errorf("%w: %w", img2ascii.ErrSerialization, err)
	}
	_, err = w.Write(data)
	return err
}
