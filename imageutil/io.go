package imageutil

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp" // Register WebP decoder
)

// ErrFormatUnsupported is returned when an image is to be encoded in a
// format that can be decoded but not produced.
var ErrFormatUnsupported = errors.New("unsupported output format")

// decodeOnly lists extensions the loader understands but no encoder exists
// for.
var decodeOnly = map[string]bool{
	"webp": true,
}

// LoadImage loads an image from the specified path.
// Supports PNG, JPEG, GIF (first frame), BMP, TIFF and WebP.
func LoadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}
	return img, nil
}

// Ext returns the lower-cased extension of path without the dot, or
// defaultExt if path has none.
func Ext(path, defaultExt string) string {
	ext := filepath.Ext(path)
	if ext == "" || ext == "." {
		return defaultExt
	}
	return strings.ToLower(ext[1:])
}

// TrimExt returns path without its extension.
func TrimExt(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path))
}

// Encode writes img to w in the named format (an extension such as "png"
// or "jpg"). Unknown formats fall back to PNG; formats that can only be
// decoded yield ErrFormatUnsupported.
func Encode(w io.Writer, img image.Image, format string) error {
	switch strings.ToLower(format) {
	case "jpg", "jpeg":
		return jpeg.Encode(w, img, &jpeg.Options{Quality: 95})
	case "gif":
		p, _ := Quantize(img)
		return gif.Encode(w, p, nil)
	case "bmp":
		return bmp.Encode(w, img)
	case "tif", "tiff":
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	case "png":
		return png.Encode(w, img)
	default:
		if decodeOnly[strings.ToLower(format)] {
			return fmt.Errorf("%w: %s", ErrFormatUnsupported, format)
		}
		return png.Encode(w, img)
	}
}

// CheckEncodable returns ErrFormatUnsupported for formats that can be
// read but not written.
func CheckEncodable(format string) error {
	if decodeOnly[strings.ToLower(format)] {
		return fmt.Errorf("%w: %s", ErrFormatUnsupported, format)
	}
	return nil
}

// SaveImage saves an image to the specified path. The format is chosen by
// file extension with PNG as the fallback. The file only appears once it
// has been completely written.
func SaveImage(img image.Image, path string) error {
	format := Ext(path, "png")
	if err := CheckEncodable(format); err != nil {
		return err
	}
	return WriteFileAtomic(path, func(w io.Writer) error {
		return Encode(w, img, format)
	})
}

// WriteFileAtomic writes the output of write to a temporary file next to
// path and renames it into place on success. On failure the temporary file
// is removed and path is left untouched.
func WriteFileAtomic(path string, write func(w io.Writer) error) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	bw := bufio.NewWriter(tmp)
	if err = write(bw); err != nil {
		return err
	}
	if err = bw.Flush(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to move output into place: %w", err)
	}
	return nil
}
