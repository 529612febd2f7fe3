package img2ascii

import (
	"fmt"
	"strconv"
	"strings"
)

// FontStyle is a bitmask of style flags.
type FontStyle int

const (
	StylePlain      FontStyle = 0
	StyleBold       FontStyle = 1
	StyleItalic     FontStyle = 2
	StyleBoldItalic FontStyle = StyleBold | StyleItalic
)

// String returns the style name.
func (s FontStyle) String() string {
	switch s {
	case StylePlain:
		return "plain"
	case StyleBold:
		return "bold"
	case StyleItalic:
		return "italic"
	case StyleBoldItalic:
		return "bold+italic"
	}
	return "style(" + strconv.Itoa(int(s)) + ")"
}

// Valid reports whether s is one of the four known styles.
func (s FontStyle) Valid() bool {
	return s >= StylePlain && s <= StyleBoldItalic
}

// Font describes the face glyphs are drawn with. Size is in points; the
// typesetter renders at 72 DPI so one point is one pixel.
type Font struct {
	Family string
	Style  FontStyle
	Size   int
}

// DefaultFont is the monospaced bold 12 point font of a new palette.
var DefaultFont = Font{Family: "Monospaced", Style: StyleBold, Size: 12}

// String renders f as "family,style,size".
func (f Font) String() string {
	return fmt.Sprintf("%s,%d,%d", f.Family, int(f.Style), f.Size)
}

// ParseFont parses the "family,style,size" form produced by Font.String.
func ParseFont(s string) (Font, error) {
	// Family names may contain commas; style and size are the last two fields.
	i := strings.LastIndex(s, ",")
	if i < 0 {
		return Font{}, fmt.Errorf("%w: font %q: want family,style,size", ErrBadInput, s)
	}
	j := strings.LastIndex(s[:i], ",")
	if j < 0 {
		return Font{}, fmt.Errorf("%w: font %q: want family,style,size", ErrBadInput, s)
	}
	style, err := strconv.Atoi(strings.TrimSpace(s[j+1 : i]))
	if err != nil {
		return Font{}, fmt.Errorf("%w: font %q: style: %w", ErrBadInput, s, err)
	}
	size, err := strconv.Atoi(strings.TrimSpace(s[i+1:]))
	if err != nil {
		return Font{}, fmt.Errorf("%w: font %q: size: %w", ErrBadInput, s, err)
	}
	f := Font{Family: s[:j], Style: FontStyle(style), Size: size}
	if !f.Style.Valid() {
		return Font{}, fmt.Errorf("%w: font %q: unknown style %d", ErrBadInput, s, style)
	}
	if f.Size <= 0 {
		return Font{}, fmt.Errorf("%w: font %q: size must be positive", ErrBadInput, s)
	}
	return f, nil
}
