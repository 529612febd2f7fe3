package gifcodec

import (
	"image"
	"time"

	"github.com/wbrown/img2ascii/imageutil"
)

// Disposal says how a frame's area is treated before the next frame is
// drawn.
type Disposal byte

const (
	// DisposalUnspecified leaves the choice to the viewer; treated like
	// DisposalNone.
	DisposalUnspecified Disposal = iota
	// DisposalNone keeps the frame's pixels under the next frame.
	DisposalNone
	// DisposalBackground clears the frame's area to the background color.
	DisposalBackground
	// DisposalPrevious restores what was shown before the frame was drawn.
	DisposalPrevious
)

// String returns the disposal method name used in GIF metadata.
func (d Disposal) String() string {
	switch d {
	case DisposalNone:
		return "doNotDispose"
	case DisposalBackground:
		return "restoreToBackgroundColor"
	case DisposalPrevious:
		return "restoreToPrevious"
	default:
		return "none"
	}
}

// Frame is one fully composited frame of an animation.
type Frame struct {
	// Image holds the whole canvas as it looks while the frame is shown.
	Image image.Image
	// Delay is how long the frame stays on screen.
	Delay time.Duration
	// Disposal is the frame's disposal method as stored in the file.
	Disposal Disposal
	// Bounds is the area of the canvas the frame's own pixel data covered.
	// For frames built from plain images it is the image bounds.
	Bounds image.Rectangle
}

// Width is the width of the frame's own pixel data.
func (f *Frame) Width() int { return f.Bounds.Dx() }

// Height is the height of the frame's own pixel data.
func (f *Frame) Height() int { return f.Bounds.Dy() }

// SetImage replaces the frame image. Bounds follow the new image.
func (f *Frame) SetImage(img image.Image) {
	f.Image = img
	f.Bounds = img.Bounds()
}

func (f *Frame) clone() *Frame {
	c := *f
	if f.Image != nil {
		c.Image = imageutil.CloneImage(f.Image)
	}
	return &c
}
