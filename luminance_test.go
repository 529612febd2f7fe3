package img2ascii

import (
	"image/color"
	"testing"
)

func TestLuminanceGradient(t *testing.T) {
	for i, v := range []uint8{0, 85, 170, 255} {
		got := Luminance(color.Gray{Y: v}, 3)
		if got != i {
			t.Errorf("Expected index %d for gray %d, got %d", i, v, got)
		}
	}
}

func TestLuminanceExtremes(t *testing.T) {
	for _, m := range []int{1, 3, 6, 69, 255} {
		if got := Luminance(color.Black, m); got != 0 {
			t.Errorf("Expected black to map to 0 with max %d, got %d", m, got)
		}
		if got := Luminance(color.White, m); got != m {
			t.Errorf("Expected white to map to %d, got %d", m, got)
		}
	}
	if got := Luminance(color.White, 0); got != 0 {
		t.Errorf("Expected single-glyph ramp to map to 0, got %d", got)
	}
}

func TestLuminanceIgnoresAlpha(t *testing.T) {
	opaque := Luminance(color.NRGBA{200, 100, 50, 255}, 69)
	transparent := Luminance(color.NRGBA{200, 100, 50, 0}, 69)
	if opaque != transparent {
		t.Errorf("Expected alpha to be ignored, got %d and %d", opaque, transparent)
	}
}

func TestLuminanceMonotone(t *testing.T) {
	const m = 69
	steps := []uint8{0, 1, 37, 64, 100, 127, 128, 180, 200, 254, 255}
	for _, r1 := range steps {
		for _, g1 := range steps {
			for _, b1 := range steps {
				i1 := luminanceIndex(r1, g1, b1, m)
				// Raising any single channel must not give a darker glyph.
				for _, d := range []uint8{1, 20, 90} {
					if int(r1)+int(d) <= 255 && luminanceIndex(r1+d, g1, b1, m) < i1 {
						t.Fatalf("Index fell when raising red from (%d,%d,%d)", r1, g1, b1)
					}
					if int(g1)+int(d) <= 255 && luminanceIndex(r1, g1+d, b1, m) < i1 {
						t.Fatalf("Index fell when raising green from (%d,%d,%d)", r1, g1, b1)
					}
					if int(b1)+int(d) <= 255 && luminanceIndex(r1, g1, b1+d, m) < i1 {
						t.Fatalf("Index fell when raising blue from (%d,%d,%d)", r1, g1, b1)
					}
				}
			}
		}
	}
}
