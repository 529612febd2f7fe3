package imageutil

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// Interpolation specifies the interpolation method for resizing.
type Interpolation int

const (
	// InterpolationLinear uses bilinear interpolation. It is the method
	// used for ASCII sampling.
	InterpolationLinear Interpolation = iota

	// InterpolationArea uses Catmull-Rom for high-quality downscaling.
	InterpolationArea

	// InterpolationNearest uses nearest-neighbor interpolation.
	InterpolationNearest
)

func (i Interpolation) scaler() draw.Scaler {
	switch i {
	case InterpolationArea:
		return draw.CatmullRom
	case InterpolationNearest:
		return draw.NearestNeighbor
	default:
		return draw.BiLinear
	}
}

// Resize resamples src to width x height with bilinear interpolation. The
// source is composited over an opaque black canvas, so the result carries
// no transparency. Sampling outside the source clamps to the nearest edge
// pixel. Non-positive sizes are raised to 1.
func Resize(src image.Image, width, height int) *RGBAImage {
	return ResizeWith(src, width, height, InterpolationLinear)
}

// ResizeWith is Resize with a caller-selected interpolation method.
func ResizeWith(src image.Image, width, height int, interp Interpolation) *RGBAImage {
	width = max(width, 1)
	height = max(height, 1)

	dst := NewRGBAImage(width, height)
	dst.Fill(color.Black)
	interp.scaler().Scale(dst.RGBA, dst.Bounds(), src, src.Bounds(), draw.Over, nil)

	// draw.Over onto an opaque canvas keeps alpha at 255 already; force it
	// anyway so rounding in the kernels never leaks translucency.
	for i := 3; i < len(dst.Pix); i += 4 {
		dst.Pix[i] = 0xff
	}
	return dst
}
