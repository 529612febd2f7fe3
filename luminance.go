package img2ascii

import "image/color"

// Rec. 709 luma coefficients.
const (
	lumaR float32 = 0.2126
	lumaG float32 = 0.7152
	lumaB float32 = 0.0722
)

// Luminance maps c onto a glyph index in [0, maxIndex]. Darker colors give
// lower indices. Alpha is ignored.
//
// Arithmetic is done in float32 with every product rounded separately so
// that results match single-precision renders exactly; pure white lands on
// maxIndex.
func Luminance(c color.Color, maxIndex int) int {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return luminanceIndex(n.R, n.G, n.B, maxIndex)
}

func luminanceIndex(r, g, b uint8, maxIndex int) int {
	if maxIndex <= 0 {
		return 0
	}
	sum := float32(float32(r)*lumaR) + float32(float32(g)*lumaG) + float32(float32(b)*lumaB)
	l := float32(sum / 255)
	idx := int(float32(float32(maxIndex) * l))
	return min(max(idx, 0), maxIndex)
}
