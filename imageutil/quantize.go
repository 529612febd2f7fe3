package imageutil

import (
	"image"
	"image/color"
	"image/color/palette"
	"image/draw"
)

// maxPaletteSize is the largest color table a GIF frame can carry.
const maxPaletteSize = 256

// ExactPalette returns the distinct opaque colors of img when there are at
// most 256 of them. The second result is false when the image needs more
// colors than a GIF palette can hold.
func ExactPalette(img image.Image) (color.Palette, bool) {
	b := img.Bounds()
	seen := make(map[color.RGBA]struct{}, maxPaletteSize)
	pal := make(color.Palette, 0, maxPaletteSize)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
			c.A = 255
			if _, ok := seen[c]; ok {
				continue
			}
			if len(pal) == maxPaletteSize {
				return nil, false
			}
			seen[c] = struct{}{}
			pal = append(pal, c)
		}
	}
	if len(pal) == 0 {
		pal = append(pal, color.RGBA{A: 255})
	}
	return pal, true
}

// Quantize converts img to a paletted image suitable for GIF encoding.
// Images with at most 256 colors keep them exactly; anything richer is
// mapped onto the Plan 9 palette with Floyd-Steinberg error diffusion and
// exact is false.
func Quantize(img image.Image) (p *image.Paletted, exact bool) {
	if p, ok := img.(*image.Paletted); ok {
		return p, true
	}
	b := img.Bounds()
	if pal, ok := ExactPalette(img); ok {
		dst := image.NewPaletted(b, pal)
		draw.Draw(dst, b, img, b.Min, draw.Src)
		return dst, true
	}
	dst := image.NewPaletted(b, palette.Plan9)
	draw.FloydSteinberg.Draw(dst, b, img, b.Min)
	return dst, false
}
