package img2ascii

import (
	"context"
	"fmt"
	"image"
	"io"

	"github.com/wbrown/img2ascii/gifcodec"
	"github.com/wbrown/img2ascii/imageutil"
)

// OpenImage loads a still image. GIFs yield their first frame.
func OpenImage(path string) (image.Image, error) {
	img, err := imageutil.LoadImage(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadInput, err)
	}
	return img, nil
}

// OpenAnimation decodes an animated GIF into composited frames.
func OpenAnimation(path string) (*gifcodec.Animation, error) {
	a, err := gifcodec.Open(path)
	if err != nil {
		return nil, classify(err, ErrBadInput)
	}
	return a, nil
}

// WriteText writes rendered text to path as UTF-8. The file appears only
// once fully written.
func WriteText(path, text string) error {
	err := imageutil.WriteFileAtomic(path, func(w io.Writer) error {
		_, err := io.WriteString(w, text)
		return err
	})
	if err != nil {
		return classify(err, ErrIO)
	}
	Logger().Info("saved text", "path", path, "bytes", len(text))
	return nil
}

// WriteImage encodes img by the extension of path, falling back to PNG.
func WriteImage(path string, img image.Image) error {
	if err := imageutil.SaveImage(img, path); err != nil {
		return classify(err, ErrIO)
	}
	Logger().Info("saved image", "path", path,
		"width", img.Bounds().Dx(), "height", img.Bounds().Dy())
	return nil
}

// WriteAnimation encodes a as a GIF. opts may be nil for the defaults: one
// shared delay, looping forever.
func WriteAnimation(path string, a *gifcodec.Animation, opts *gifcodec.EncodeOptions) error {
	if err := gifcodec.Save(path, a, opts); err != nil {
		return classify(err, ErrIO)
	}
	return nil
}

// SaveText renders src as text and writes it to path. Nothing is written
// unless the render completes.
func (r *Renderer) SaveText(ctx context.Context, path string, src image.Image) error {
	text, err := r.RenderText(ctx, src)
	if err != nil {
		return err
	}
	return WriteText(path, text)
}

// SaveImage renders src and encodes the result by the extension of path,
// falling back to PNG. Nothing is written unless the render completes.
func (r *Renderer) SaveImage(ctx context.Context, path string, src image.Image) error {
	if err := imageutil.CheckEncodable(imageutil.Ext(path, "png")); err != nil {
		return classify(err, ErrFormatUnsupported)
	}
	img, err := r.RenderImage(ctx, src)
	if err != nil {
		return err
	}
	return WriteImage(path, img)
}

// SaveAnimation renders every frame of src and writes the result as a GIF.
func (r *Renderer) SaveAnimation(ctx context.Context, path string, src *gifcodec.Animation, opts *gifcodec.EncodeOptions) error {
	out, err := r.RenderAnimation(ctx, src)
	if err != nil {
		return err
	}
	return WriteAnimation(path, out, opts)
}
