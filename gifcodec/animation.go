// Package gifcodec reads animated GIFs into fully composited frames and
// writes frame sequences back out with loop and delay metadata.
package gifcodec

import (
	"errors"
	"fmt"
	"image"
	"time"
)

var (
	// ErrBadInput is returned for files that are not valid GIFs and for
	// empty frame sequences.
	ErrBadInput = errors.New("bad animation input")

	// ErrIO wraps failures to read or write the underlying file.
	ErrIO = errors.New("animation i/o error")
)

// Animation is an ordered list of frames. Frames may be modified in place.
type Animation struct {
	frames []*Frame

	avgDelay time.Duration
	avgValid bool
}

// New builds an animation from images that all share delay.
func New(images []image.Image, delay time.Duration) (*Animation, error) {
	if len(images) == 0 {
		return nil, fmt.Errorf("%w: no frames", ErrBadInput)
	}
	frames := make([]*Frame, len(images))
	for i, img := range images {
		if img == nil {
			return nil, fmt.Errorf("%w: frame %d has no image", ErrBadInput, i)
		}
		frames[i] = &Frame{
			Image:    img,
			Delay:    delay,
			Disposal: DisposalNone,
			Bounds:   img.Bounds(),
		}
	}
	return &Animation{frames: frames, avgDelay: delay, avgValid: true}, nil
}

// FromFrames wraps existing frames.
func FromFrames(frames []*Frame) (*Animation, error) {
	if len(frames) == 0 {
		return nil, fmt.Errorf("%w: no frames", ErrBadInput)
	}
	return &Animation{frames: frames}, nil
}

// Len returns the number of frames.
func (a *Animation) Len() int { return len(a.frames) }

// Frame returns frame i.
func (a *Animation) Frame(i int) *Frame { return a.frames[i] }

// Frames returns the frames in display order. The slice is shared.
func (a *Animation) Frames() []*Frame { return a.frames }

// SetImage replaces the image of frame i.
func (a *Animation) SetImage(i int, img image.Image) {
	a.frames[i].SetImage(img)
}

// Bounds returns the canvas bounds, taken from the first frame.
func (a *Animation) Bounds() image.Rectangle {
	return a.frames[0].Image.Bounds()
}

// AverageDelay returns the mean frame delay. It is computed on first use.
func (a *Animation) AverageDelay() time.Duration {
	if !a.avgValid {
		var total time.Duration
		for _, f := range a.frames {
			total += f.Delay
		}
		a.avgDelay = total / time.Duration(len(a.frames))
		a.avgValid = true
	}
	return a.avgDelay
}

// Clone returns a deep copy with the same frame count, delays and
// disposal methods.
func (a *Animation) Clone() *Animation {
	frames := make([]*Frame, len(a.frames))
	for i, f := range a.frames {
		frames[i] = f.clone()
	}
	return &Animation{frames: frames, avgDelay: a.avgDelay, avgValid: a.avgValid}
}
