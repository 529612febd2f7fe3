package img2ascii

import (
	"errors"
	"testing"
)

func TestFontStringRoundTrip(t *testing.T) {
	fonts := []Font{
		DefaultFont,
		{Family: "SansSerif", Style: StylePlain, Size: 9},
		{Family: "Odd, Family", Style: StyleItalic, Size: 40},
	}
	for _, f := range fonts {
		got, err := ParseFont(f.String())
		if err != nil {
			t.Fatalf("ParseFont(%q) failed: %v", f.String(), err)
		}
		if got != f {
			t.Errorf("Expected %+v, got %+v", f, got)
		}
	}
	if DefaultFont.String() != "Monospaced,1,12" {
		t.Errorf("Expected 'Monospaced,1,12', got %q", DefaultFont.String())
	}
}

func TestParseFontErrors(t *testing.T) {
	for _, s := range []string{"", "Mono", "Mono,1", "Mono,x,12", "Mono,1,y", "Mono,7,12", "Mono,1,0"} {
		if _, err := ParseFont(s); !errors.Is(err, ErrBadInput) {
			t.Errorf("ParseFont(%q): expected ErrBadInput, got %v", s, err)
		}
	}
}

func TestFontStyleString(t *testing.T) {
	want := map[FontStyle]string{
		StylePlain:      "plain",
		StyleBold:       "bold",
		StyleItalic:     "italic",
		StyleBoldItalic: "bold+italic",
		FontStyle(9):    "style(9)",
	}
	for s, name := range want {
		if s.String() != name {
			t.Errorf("Expected %q, got %q", name, s.String())
		}
	}
}
