// Package background runs renders on a worker goroutine and reports their
// progress to a host as a stream of events.
package background

import (
	"fmt"
	"image"
	"strings"

	"github.com/wbrown/img2ascii"
	"github.com/wbrown/img2ascii/gifcodec"
	"github.com/wbrown/img2ascii/imageutil"
)

// RenderType selects what a job produces.
type RenderType int

const (
	// Preview renders an image and returns it without saving.
	Preview RenderType = iota
	// Text renders text and saves it.
	Text
	// StillImage renders an image and saves it.
	StillImage
	// Animated renders every frame of an animation and saves it as a GIF.
	Animated
)

var renderTypeNames = [...]string{
	Preview:    "preview",
	Text:       "text",
	StillImage: "image",
	Animated:   "animation",
}

// String returns the lower-case name used in stage labels.
func (t RenderType) String() string {
	if t >= 0 && int(t) < len(renderTypeNames) {
		return renderTypeNames[t]
	}
	return fmt.Sprintf("RenderType(%d)", int(t))
}

// ParseRenderType accepts the names returned by String.
func ParseRenderType(s string) (RenderType, error) {
	for i, name := range renderTypeNames {
		if strings.EqualFold(s, name) {
			return RenderType(i), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown render type %q", img2ascii.ErrBadInput, s)
}

// Job describes one render.
type Job struct {
	Type RenderType
	// Palette is copied when the job starts. Nil means the defaults.
	Palette *img2ascii.Palette
	// Source is the still image for Preview, Text and StillImage jobs.
	Source image.Image
	// Animation is the source for Animated jobs.
	Animation *gifcodec.Animation
	// OutputPath is where non-preview results are written.
	OutputPath string
	// RendererOptions are applied after the driver's own options, so they
	// may replace the typesetter or sampling.
	RendererOptions []img2ascii.RendererOption
	// Encode controls how animations are written. Its Progress callback is
	// replaced by the driver.
	Encode gifcodec.EncodeOptions
}

// ErrInvalidJob is returned by Start for jobs that cannot run.
var ErrInvalidJob = fmt.Errorf("%w: invalid job", img2ascii.ErrBadInput)

func (j *Job) validate() error {
	switch j.Type {
	case Preview, Text, StillImage:
		if j.Source == nil {
			return fmt.Errorf("%w: %s job needs a source image", ErrInvalidJob, j.Type)
		}
	case Animated:
		if j.Animation == nil || j.Animation.Len() == 0 {
			return fmt.Errorf("%w: animation job needs frames", ErrInvalidJob)
		}
	default:
		return fmt.Errorf("%w: %s", ErrInvalidJob, j.Type)
	}
	if j.Type != Preview && j.OutputPath == "" {
		return fmt.Errorf("%w: %s job needs an output path", ErrInvalidJob, j.Type)
	}
	if j.Type == StillImage {
		if err := imageutil.CheckEncodable(imageutil.Ext(j.OutputPath, "png")); err != nil {
			return fmt.Errorf("%w: %w", img2ascii.ErrFormatUnsupported, err)
		}
	}
	return nil
}
