package gifcodec

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"io"
	"time"

	"github.com/wbrown/img2ascii/imageutil"
)

// DefaultComment is written into the comment extension when none is given.
const DefaultComment = "Created by img2ascii"

// EncodeOptions controls how an animation is written.
type EncodeOptions struct {
	// Delay is used for every frame. Zero means the animation's average
	// delay.
	Delay time.Duration
	// PerFrameDelay writes each frame's own delay instead of a single
	// shared one.
	PerFrameDelay bool
	// PlayOnce sets the loop count to one instead of looping forever.
	PlayOnce bool
	// Comment is stored in a comment extension. Empty means
	// DefaultComment.
	Comment string
	// Progress, if set, is called after each frame is prepared with the
	// number of frames done and the total.
	Progress func(done, total int)
}

// Save encodes a to path. The file only appears once fully written.
func Save(path string, a *Animation, opts *EncodeOptions) error {
	err := imageutil.WriteFileAtomic(path, func(w io.Writer) error {
		return Encode(w, a, opts)
	})
	if err != nil {
		if errors.Is(err, ErrBadInput) || errors.Is(err, ErrIO) {
			return err
		}
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	Logger().Info("saved animation", "path", path, "frames", a.Len())
	return nil
}

// Encode writes a as a GIF. By default every frame uses one shared delay,
// disposal "none", no transparency, and the animation loops forever.
func Encode(w io.Writer, a *Animation, opts *EncodeOptions) error {
	if a == nil || a.Len() == 0 {
		return fmt.Errorf("%w: no frames", ErrBadInput)
	}
	if opts == nil {
		opts = &EncodeOptions{}
	}
	delay := opts.Delay
	if delay <= 0 {
		delay = a.AverageDelay()
	}
	comment := opts.Comment
	if comment == "" {
		comment = DefaultComment
	}

	n := a.Len()
	g := &gif.GIF{
		Image:     make([]*image.Paletted, n),
		Delay:     make([]int, n),
		Disposal:  make([]byte, n),
		LoopCount: 0,
	}
	if opts.PlayOnce {
		g.LoopCount = 1
	}
	for i, f := range a.Frames() {
		var exact bool
		g.Image[i], exact = imageutil.Quantize(f.Image)
		if !exact {
			Logger().Warn("frame has more than 256 colors, quantized with dithering", "frame", i)
		}
		d := delay
		if opts.PerFrameDelay {
			d = f.Delay
		}
		g.Delay[i] = int(d / centisecond)
		g.Disposal[i] = gif.DisposalNone
		if opts.Progress != nil {
			opts.Progress(i+1, n)
		}
	}

	var buf bytes.Buffer
	if err := gif.EncodeAll(&buf, g); err != nil {
		return fmt.Errorf("%w: %w", ErrBadInput, err)
	}
	out, err := insertComment(buf.Bytes(), comment)
	if err != nil {
		return err
	}
	if _, err := w.Write(out); err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	return nil
}

// insertComment places a comment extension right after the header, the
// logical screen descriptor and the global color table.
func insertComment(data []byte, comment string) ([]byte, error) {
	const headerLen = 6 + 7
	if len(data) < headerLen {
		return nil, fmt.Errorf("%w: encoded gif too short", ErrBadInput)
	}
	at := headerLen
	if packed := data[10]; packed&0x80 != 0 {
		at += 3 << ((packed & 0x07) + 1)
	}
	if at > len(data) {
		return nil, fmt.Errorf("%w: encoded gif too short", ErrBadInput)
	}

	ext := []byte{0x21, 0xFE}
	rest := []byte(comment)
	for len(rest) > 0 {
		n := min(len(rest), 255)
		ext = append(ext, byte(n))
		ext = append(ext, rest[:n]...)
		rest = rest[n:]
	}
	ext = append(ext, 0x00)

	out := make([]byte, 0, len(data)+len(ext))
	out = append(out, data[:at]...)
	out = append(out, ext...)
	out = append(out, data[at:]...)
	return out, nil
}

// ReadComment returns the text of the first comment extension in a GIF
// stream, or "" if there is none.
func ReadComment(data []byte) string {
	const headerLen = 6 + 7
	if len(data) < headerLen {
		return ""
	}
	i := headerLen
	if packed := data[10]; packed&0x80 != 0 {
		i += 3 << ((packed & 0x07) + 1)
	}
	for i+1 < len(data) && data[i] == 0x21 {
		label := data[i+1]
		i += 2
		var text []byte
		for i < len(data) && data[i] != 0 {
			n := int(data[i])
			if i+1+n > len(data) {
				return ""
			}
			text = append(text, data[i+1:i+1+n]...)
			i += 1 + n
		}
		i++
		if label == 0xFE {
			return string(text)
		}
	}
	return ""
}
