package img2ascii

import (
	"errors"
	"fmt"

	"github.com/wbrown/img2ascii/gifcodec"
	"github.com/wbrown/img2ascii/imageutil"
	"github.com/wbrown/img2ascii/propfile"
)

// Error kinds. Every error returned by this package and its sub-packages
// matches one of these with errors.Is.
var (
	// ErrBadInput covers unreadable source images, truncated animations
	// and empty weight lists.
	ErrBadInput = errors.New("bad input")
	// ErrFormatUnsupported is returned when an output format cannot be
	// encoded.
	ErrFormatUnsupported = errors.New("format unsupported")
	// ErrIO covers read and write failures at file boundaries.
	ErrIO = errors.New("i/o failure")
	// ErrSerialization covers missing keys and unknown property types in
	// palette files.
	ErrSerialization = errors.New("serialization error")
	// ErrHostCapability is returned when font measurement or glyph
	// drawing fails.
	ErrHostCapability = errors.New("font capability failure")
)

// classify wraps err with the root error kind matching it. Errors that
// already carry a root kind are returned unchanged.
func classify(err error, fallback error) error {
	if err == nil {
		return nil
	}
	for _, kind := range []error{ErrBadInput, ErrFormatUnsupported, ErrIO, ErrSerialization, ErrHostCapability} {
		if errors.Is(err, kind) {
			return err
		}
	}
	switch {
	case errors.Is(err, gifcodec.ErrBadInput):
		return fmt.Errorf("%w: %w", ErrBadInput, err)
	case errors.Is(err, gifcodec.ErrIO), errors.Is(err, propfile.ErrIO):
		return fmt.Errorf("%w: %w", ErrIO, err)
	case errors.Is(err, imageutil.ErrFormatUnsupported):
		return fmt.Errorf("%w: %w", ErrFormatUnsupported, err)
	case errors.Is(err, propfile.ErrSerialization):
		return fmt.Errorf("%w: %w", ErrSerialization, err)
	}
	return fmt.Errorf("%w: %w", fallback, err)
}
