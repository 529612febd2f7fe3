package img2ascii

import (
	"math"

	"github.com/wbrown/img2ascii/internal/platform"
)

// SamplingParams maps an original image size onto the glyph grid. The
// sample size is derived on every call so that changing SamplingRatio
// takes effect immediately.
type SamplingParams struct {
	OriginalWidth  float64
	OriginalHeight float64
	FontWidth      float64
	FontHeight     float64
	// SamplingRatio divides the original size to give the grid size.
	// Defaults to the larger font dimension, rounded up.
	SamplingRatio float64

	// osName is the host OS name used for the height ratio.
	osName string
}

// NewSamplingParams returns parameters for an image of the given size
// drawn with glyph cells of fontWidth x fontHeight pixels.
func NewSamplingParams(originalWidth, originalHeight int, fontWidth, fontHeight float64) *SamplingParams {
	return &SamplingParams{
		OriginalWidth:  float64(originalWidth),
		OriginalHeight: float64(originalHeight),
		FontWidth:      fontWidth,
		FontHeight:     fontHeight,
		SamplingRatio:  math.Ceil(max(fontWidth, fontHeight)),
		osName:         platform.OSName(),
	}
}

// ratio returns a usable sampling ratio.
func (s *SamplingParams) ratio() float64 {
	if s.SamplingRatio > 0 && !math.IsInf(s.SamplingRatio, 0) {
		return s.SamplingRatio
	}
	return 1
}

// HeightRatio is 1 on Windows hosts and otherwise the font height over
// width rounded half up, at least 1. Windows reports glyph metrics that
// already account for the cell aspect.
func (s *SamplingParams) HeightRatio() int {
	if platform.IsWindowsName(s.osName) || s.FontWidth <= 0 {
		return 1
	}
	return max(1, int(math.Floor(s.FontHeight/s.FontWidth+0.5)))
}

// SampleWidth returns the grid width.
func (s *SamplingParams) SampleWidth() int {
	return int(math.Ceil(s.OriginalWidth / s.ratio()))
}

// SampleHeight returns the grid height.
func (s *SamplingParams) SampleHeight() int {
	return int(math.Ceil(s.OriginalHeight / s.ratio() / float64(s.HeightRatio())))
}

// ForHost returns a copy of s that computes the height ratio as on the
// host named osName, for example "Windows 10" or "Linux".
func (s *SamplingParams) ForHost(osName string) *SamplingParams {
	c := *s
	c.osName = osName
	return &c
}
