package img2ascii

import (
	"slices"
	"strings"

	"github.com/go-text/typesetting/segmenter"
)

// Preset weight strings. Index 0 is the darkest glyph (most ink); the last
// glyph is the lightest. The LIGHT variants are the reversals.
var (
	StandardDarkWeights  = "$@B%8&WM#*oahkbdpqwmZO0QLCJUYXzcvunxrjft/\\|()1{}[]?-_+~<>i!lI;:,\"^`'. "
	StandardLightWeights = ReverseWeights(StandardDarkWeights)
	BlocksDarkWeights    = "█▓▒░"
	BlocksLightWeights   = ReverseWeights(BlocksDarkWeights)
	SymbolsDarkWeights   = "@#&%^*."
	SymbolsLightWeights  = ReverseWeights(SymbolsDarkWeights)
)

// WeightPresets maps preset names to weight strings.
var WeightPresets = map[string]string{
	"standard-dark":  StandardDarkWeights,
	"standard-light": StandardLightWeights,
	"blocks-dark":    BlocksDarkWeights,
	"blocks-light":   BlocksLightWeights,
	"symbols-dark":   SymbolsDarkWeights,
	"symbols-light":  SymbolsLightWeights,
}

// PresetNames returns the preset names in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(WeightPresets))
	for name := range WeightPresets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// SplitWeights splits s into single grapheme glyphs. Joining the result
// gives back s.
func SplitWeights(s string) []string {
	if s == "" {
		return nil
	}
	var seg segmenter.Segmenter
	seg.Init([]rune(s))
	it := seg.GraphemeIterator()
	var glyphs []string
	for it.Next() {
		glyphs = append(glyphs, string(it.Grapheme().Text))
	}
	return glyphs
}

// JoinWeights concatenates glyphs.
func JoinWeights(glyphs []string) string {
	return strings.Join(glyphs, "")
}

// ReverseWeights reverses the glyph order of a weight string. Glyphs made
// of several runes stay intact.
func ReverseWeights(s string) string {
	glyphs := SplitWeights(s)
	slices.Reverse(glyphs)
	return JoinWeights(glyphs)
}
