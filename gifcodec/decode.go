package gifcodec

import (
	"bufio"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"io"
	"os"
	"time"

	"github.com/wbrown/img2ascii/imageutil"
)

// centisecond is the unit of GIF frame delays.
const centisecond = 10 * time.Millisecond

// Open decodes the animated GIF at path.
func Open(path string) (*Animation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	defer f.Close()

	a, err := Decode(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return a, nil
}

// Decode reads every frame of a GIF and composites it onto the logical
// screen, honoring each frame's placement and the disposal method of the
// frame before it. Each returned frame holds a full-canvas snapshot.
func Decode(r io.Reader) (*Animation, error) {
	g, err := gif.DecodeAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadInput, err)
	}
	if len(g.Image) == 0 {
		return nil, fmt.Errorf("%w: no frames", ErrBadInput)
	}

	c := newCompositor(g)
	frames := make([]*Frame, 0, len(g.Image))
	for i, src := range g.Image {
		disposal := DisposalUnspecified
		if i < len(g.Disposal) {
			disposal = Disposal(g.Disposal[i])
		}
		delay := 0
		if i < len(g.Delay) {
			delay = g.Delay[i]
		}

		c.dispose(frames)
		c.draw(src)
		frames = append(frames, &Frame{
			Image:    imageutil.CloneImage(c.master),
			Delay:    time.Duration(delay) * centisecond,
			Disposal: disposal,
			Bounds:   src.Bounds(),
		})
	}

	Logger().Debug("decoded gif",
		"frames", len(frames),
		"width", c.master.Bounds().Dx(),
		"height", c.master.Bounds().Dy(),
		"background", c.hasBgColor)
	return &Animation{frames: frames}, nil
}

// compositor carries the logical screen between frames.
type compositor struct {
	master     *image.RGBA
	blank      *image.RGBA
	background color.Color
	hasBgColor bool
	// fullFirst is set when the first frame covers the whole canvas.
	fullFirst bool
	// last is the area drawn by the previous frame.
	last image.Rectangle
	index int
}

func newCompositor(g *gif.GIF) *compositor {
	w, h := g.Config.Width, g.Config.Height
	first := g.Image[0].Bounds()
	if w <= 0 || h <= 0 {
		w, h = first.Dx(), first.Dy()
	}
	canvas := image.Rect(0, 0, w, h)

	c := &compositor{background: color.Transparent}
	if pal, ok := g.Config.ColorModel.(color.Palette); ok && int(g.BackgroundIndex) < len(pal) {
		c.background = pal[g.BackgroundIndex]
		c.hasBgColor = true
	}

	c.blank = image.NewRGBA(canvas)
	imageutil.FillRect(c.blank, canvas, c.background)
	c.master = imageutil.CloneImage(c.blank)
	c.fullFirst = first.Dx() == w && first.Dy() == h
	return c
}

// dispose applies the previous frame's disposal method to the master
// canvas. frames holds the snapshots produced so far.
func (c *compositor) dispose(frames []*Frame) {
	if c.index == 0 {
		return
	}
	prev := frames[c.index-1]
	switch prev.Disposal {
	case DisposalPrevious:
		from := c.blank
		for i := c.index - 1; i >= 0; i-- {
			if frames[i].Disposal != DisposalPrevious {
				from = frames[i].Image.(*image.RGBA)
				break
			}
		}
		c.master = imageutil.CloneImage(from)
	case DisposalBackground:
		if !c.hasBgColor {
			return
		}
		if !(c.fullFirst && c.index <= 1) {
			imageutil.FillRect(c.master, c.last, c.background)
		}
	}
}

// draw composites src over the master canvas at its own offset.
func (c *compositor) draw(src *image.Paletted) {
	r := src.Bounds()
	draw.Draw(c.master, r, src, r.Min, draw.Over)
	c.last = r
	c.index++
}
