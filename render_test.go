package img2ascii

import (
	"context"
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/wbrown/img2ascii/gifcodec"
	"github.com/wbrown/img2ascii/imageutil"
)

var (
	black = imageutil.RGB{R: 0, G: 0, B: 0}
	white = imageutil.RGB{R: 255, G: 255, B: 255}
)

func testRenderer(p *Palette, ts *fakeTypesetter, opts ...RendererOption) *Renderer {
	return NewRenderer(p, append([]RendererOption{WithTypesetter(ts)}, opts...)...)
}

func phrasePalette(weights string) *Palette {
	p := NewPalette()
	p.SetWeightsString(weights)
	p.UsingPhrase = true
	return p
}

func TestRenderTextAllBlack(t *testing.T) {
	r := testRenderer(nil, newFakeTypesetter(4, 6))
	got, err := r.RenderText(context.Background(), imageutil.CreateSolidImage(2, 2, black))
	if err != nil {
		t.Fatalf("RenderText failed: %v", err)
	}
	if want := "$$\r\n$$\r\n"; got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestRenderTextAllWhite(t *testing.T) {
	r := testRenderer(nil, newFakeTypesetter(4, 6))
	got, err := r.RenderText(context.Background(), imageutil.CreateSolidImage(2, 2, white))
	if err != nil {
		t.Fatalf("RenderText failed: %v", err)
	}
	if want := "  \r\n  \r\n"; got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestRenderTextGradient(t *testing.T) {
	p := NewPalette()
	p.SetWeightsString("ABCD")
	r := testRenderer(p, newFakeTypesetter(4, 6))
	got, err := r.RenderText(context.Background(), imageutil.CreateGrayRowImage(0, 85, 170, 255))
	if err != nil {
		t.Fatalf("RenderText failed: %v", err)
	}
	if want := "ABCD\r\n"; got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestRenderTextPhraseContinuesAcrossRows(t *testing.T) {
	r := testRenderer(phrasePalette("ABC"), newFakeTypesetter(4, 6))
	got, err := r.RenderText(context.Background(), imageutil.CreateGradientImage(2, 2))
	if err != nil {
		t.Fatalf("RenderText failed: %v", err)
	}
	if want := "AB\r\nCA\r\n"; got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
	if r.PhrasePos() != 1 {
		t.Errorf("Expected phrase position 1, got %d", r.PhrasePos())
	}
}

func TestRenderTextPhraseIgnoresColors(t *testing.T) {
	sources := []image.Image{
		imageutil.CreateSolidImage(5, 4, black),
		imageutil.CreateSolidImage(5, 4, white),
		imageutil.CreateCheckerboardImage(5, 4, 1),
		imageutil.CreateColorBarsImage(5, 4),
	}
	var first string
	for i, src := range sources {
		r := testRenderer(phrasePalette("xyz"), newFakeTypesetter(4, 6))
		got, err := r.RenderText(context.Background(), src)
		if err != nil {
			t.Fatalf("RenderText failed: %v", err)
		}
		if i == 0 {
			first = got
			continue
		}
		if got != first {
			t.Errorf("Expected phrase output %q for source %d, got %q", first, i, got)
		}
	}
}

func TestRenderTextRowStride(t *testing.T) {
	// A 4x8 cell gives a font ratio of 2: every other sampled row is used.
	r := testRenderer(nil, newFakeTypesetter(4, 8))
	got, err := r.RenderText(context.Background(), imageutil.CreateSolidImage(3, 5, black))
	if err != nil {
		t.Fatalf("RenderText failed: %v", err)
	}
	if want := "$$$\r\n$$$\r\n$$$\r\n"; got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestRenderTextWithSamplingParams(t *testing.T) {
	sp := NewSamplingParams(8, 8, 2, 2).ForHost("Linux")
	sp.SamplingRatio = 4
	r := testRenderer(phrasePalette("ABC"), newFakeTypesetter(4, 6), WithSamplingParams(sp))
	got, err := r.RenderText(context.Background(), imageutil.CreateGradientImage(8, 8))
	if err != nil {
		t.Fatalf("RenderText failed: %v", err)
	}
	if want := "AB\r\nCA\r\n"; got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
	if r.SamplingParams() != sp {
		t.Error("Expected renderer to keep the sampling parameters")
	}
}

func TestRenderTextAutoSampling(t *testing.T) {
	r := testRenderer(nil, newFakeTypesetter(4, 6), WithAutoSampling(3))
	got, err := r.RenderText(context.Background(), imageutil.CreateSolidImage(12, 12, black))
	if err != nil {
		t.Fatalf("RenderText failed: %v", err)
	}
	first, _, _ := strings.Cut(got, "\r\n")
	if first != "$$$$" {
		t.Errorf("Expected 4 glyphs per row, got %q", first)
	}
}

func TestRenderProgress(t *testing.T) {
	var events []Progress
	r := testRenderer(nil, newFakeTypesetter(4, 6), WithProgress(func(p Progress) {
		events = append(events, p)
	}))
	if _, err := r.RenderText(context.Background(), imageutil.CreateSolidImage(2, 2, black)); err != nil {
		t.Fatalf("RenderText failed: %v", err)
	}
	want := []Progress{{Row: 1, Rows: 2}, {Row: 2, Rows: 2}}
	if !slices.Equal(events, want) {
		t.Errorf("Expected %v, got %v", want, events)
	}

	events = nil
	if _, err := r.RenderImage(context.Background(), imageutil.CreateSolidImage(2, 3, black)); err != nil {
		t.Fatalf("RenderImage failed: %v", err)
	}
	if len(events) != 3 || events[2] != (Progress{Row: 3, Rows: 3}) {
		t.Errorf("Expected 3 image row events, got %v", events)
	}
}

func TestRenderImageGeometry(t *testing.T) {
	p := NewPalette()
	p.OverrideImageColors = true
	p.FontColor = color.RGBA{10, 200, 30, 255}
	ts := newFakeTypesetter(4, 6)
	r := testRenderer(p, ts)

	img, err := r.RenderImage(context.Background(), imageutil.CreateSolidImage(3, 2, black))
	if err != nil {
		t.Fatalf("RenderImage failed: %v", err)
	}
	if img.Bounds() != image.Rect(0, 0, 12, 12) {
		t.Errorf("Expected 12x12 canvas, got %v", img.Bounds())
	}

	want := []drawCall{
		{"$", 0, 3, p.FontColor}, {"$", 4, 3, p.FontColor}, {"$", 8, 3, p.FontColor},
		{"$", 0, 9, p.FontColor}, {"$", 4, 9, p.FontColor}, {"$", 8, 9, p.FontColor},
	}
	if !slices.Equal(ts.draws, want) {
		t.Errorf("Expected draws %v, got %v", want, ts.draws)
	}
	if got := img.RGBAAt(5, 7); got != p.FontColor {
		t.Errorf("Expected glyph color %v, got %v", p.FontColor, got)
	}
}

func TestRenderImageUsesPixelColors(t *testing.T) {
	p := NewPalette()
	ts := newFakeTypesetter(4, 6)
	r := testRenderer(p, ts)

	src := imageutil.CreateColorBarsImage(2, 1)
	if _, err := r.RenderImage(context.Background(), src); err != nil {
		t.Fatalf("RenderImage failed: %v", err)
	}
	for i, d := range ts.draws {
		want := color.RGBAModel.Convert(src.At(i, 0)).(color.RGBA)
		if d.color != want {
			t.Errorf("Draw %d: expected pixel color %v, got %v", i, want, d.color)
		}
	}
}

func TestRenderIgnoresAlpha(t *testing.T) {
	p := NewPalette()
	p.SetWeightsString("#.")

	clearWhite := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	clearWhite.SetNRGBA(0, 0, color.NRGBA{R: 255, G: 255, B: 255, A: 0})
	got, err := testRenderer(p, newFakeTypesetter(4, 6)).RenderText(context.Background(), clearWhite)
	if err != nil {
		t.Fatalf("RenderText failed: %v", err)
	}
	if want := ".\r\n"; got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
	if want := Luminance(clearWhite.At(0, 0), 1); want != 1 {
		t.Errorf("Expected Luminance to pick index 1, got %d", want)
	}

	halfRed := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	halfRed.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 128})
	ts := newFakeTypesetter(4, 6)
	if _, err := testRenderer(p, ts).RenderImage(context.Background(), halfRed); err != nil {
		t.Fatalf("RenderImage failed: %v", err)
	}
	want := color.RGBA{R: 255, A: 255}
	if len(ts.draws) != 1 || ts.draws[0].color != want {
		t.Errorf("Expected one draw in %v, got %v", want, ts.draws)
	}
}

func TestRenderImageBackgroundFill(t *testing.T) {
	p := NewPalette()
	p.BackgroundColor = color.RGBA{200, 0, 0, 255}
	r := testRenderer(p, newFakeTypesetter(4, 6))

	// Black draws '$' in black; white maps to the space, which paints
	// nothing.
	img, err := r.RenderImage(context.Background(), imageutil.CreateGrayRowImage(0, 255))
	if err != nil {
		t.Fatalf("RenderImage failed: %v", err)
	}
	for y := 0; y < 6; y++ {
		for x := 0; x < 8; x++ {
			want := p.BackgroundColor
			if x < 4 {
				want = color.RGBA{0, 0, 0, 255}
			}
			if got := img.RGBAAt(x, y); got != want {
				t.Fatalf("Pixel (%d,%d): expected %v, got %v", x, y, want, got)
			}
		}
	}
}

func TestRenderImagePhraseMeasureDoesNotConsume(t *testing.T) {
	ts := newFakeTypesetter(4, 6)
	r := testRenderer(phrasePalette("ABC"), ts)
	if _, err := r.RenderImage(context.Background(), imageutil.CreateSolidImage(2, 2, black)); err != nil {
		t.Fatalf("RenderImage failed: %v", err)
	}
	if want := []string{"A", "B", "C", "A"}; !slices.Equal(ts.glyphs(), want) {
		t.Errorf("Expected %v, got %v", want, ts.glyphs())
	}
}

func TestRenderAnimationPhraseResetsPerFrame(t *testing.T) {
	frames := []image.Image{
		imageutil.CreateSolidImage(1, 1, black),
		imageutil.CreateSolidImage(1, 1, white),
		imageutil.CreateSolidImage(1, 1, black),
	}
	src, err := gifcodec.New(frames, 70*time.Millisecond)
	if err != nil {
		t.Fatalf("gifcodec.New failed: %v", err)
	}
	src.Frame(1).Delay = 20 * time.Millisecond

	var seen []int
	ts := newFakeTypesetter(4, 6)
	r := testRenderer(phrasePalette("AB"), ts, WithProgress(func(p Progress) {
		seen = append(seen, p.Frame)
	}))
	out, err := r.RenderAnimation(context.Background(), src)
	if err != nil {
		t.Fatalf("RenderAnimation failed: %v", err)
	}
	if want := []string{"A", "A", "A"}; !slices.Equal(ts.glyphs(), want) {
		t.Errorf("Expected %v, got %v", want, ts.glyphs())
	}
	if out.Len() != src.Len() {
		t.Fatalf("Expected %d frames, got %d", src.Len(), out.Len())
	}
	for i := range out.Len() {
		if out.Frame(i).Delay != src.Frame(i).Delay {
			t.Errorf("Frame %d: expected delay %v, got %v", i, src.Frame(i).Delay, out.Frame(i).Delay)
		}
		if out.Frame(i).Image.Bounds() != image.Rect(0, 0, 4, 6) {
			t.Errorf("Frame %d: expected 4x6 image, got %v", i, out.Frame(i).Image.Bounds())
		}
	}
	if want := []int{0, 1, 2}; !slices.Equal(seen, want) {
		t.Errorf("Expected progress for frames %v, got %v", want, seen)
	}
}

func TestRenderAnimationKeepsFrameCount(t *testing.T) {
	for _, n := range []int{1, 2, 5} {
		frames := make([]image.Image, n)
		for i := range frames {
			frames[i] = imageutil.CreateGradientImage(3, 2)
		}
		src, err := gifcodec.New(frames, 50*time.Millisecond)
		if err != nil {
			t.Fatal(err)
		}
		out, err := testRenderer(nil, newFakeTypesetter(4, 6)).RenderAnimation(context.Background(), src)
		if err != nil {
			t.Fatalf("RenderAnimation failed: %v", err)
		}
		if out.Len() != n {
			t.Errorf("Expected %d frames, got %d", n, out.Len())
		}
	}
}

func TestRenderCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := testRenderer(nil, newFakeTypesetter(4, 6))
	src := imageutil.CreateSolidImage(2, 2, black)

	if _, err := r.RenderText(ctx, src); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled from RenderText, got %v", err)
	}
	if _, err := r.RenderImage(ctx, src); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled from RenderImage, got %v", err)
	}
	anim, _ := gifcodec.New([]image.Image{src}, 0)
	if _, err := r.RenderAnimation(ctx, anim); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled from RenderAnimation, got %v", err)
	}
}

func TestRenderCancelledBetweenRows(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	rows := 0
	r := testRenderer(nil, newFakeTypesetter(4, 6), WithProgress(func(Progress) {
		rows++
		cancel()
	}))
	if _, err := r.RenderText(ctx, imageutil.CreateSolidImage(2, 5, black)); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if rows != 1 {
		t.Errorf("Expected render to stop after 1 row, got %d", rows)
	}
}

func TestRenderBadInput(t *testing.T) {
	p := NewPalette()
	p.Weights = nil
	r := testRenderer(p, newFakeTypesetter(4, 6))
	if _, err := r.RenderText(context.Background(), imageutil.CreateSolidImage(1, 1, black)); !errors.Is(err, ErrBadInput) {
		t.Errorf("Expected ErrBadInput for empty weights, got %v", err)
	}

	r = testRenderer(nil, newFakeTypesetter(4, 6))
	if _, err := r.RenderImage(context.Background(), nil); !errors.Is(err, ErrBadInput) {
		t.Errorf("Expected ErrBadInput for nil image, got %v", err)
	}
	if _, err := r.RenderAnimation(context.Background(), nil); !errors.Is(err, ErrBadInput) {
		t.Errorf("Expected ErrBadInput for nil animation, got %v", err)
	}
}

func TestRenderHostFailure(t *testing.T) {
	ts := newFakeTypesetter(4, 6)
	ts.fail = errFakeFont
	r := testRenderer(nil, ts)
	if _, err := r.RenderImage(context.Background(), imageutil.CreateSolidImage(1, 1, black)); !errors.Is(err, ErrHostCapability) {
		t.Errorf("Expected ErrHostCapability, got %v", err)
	}
}

func TestRendererCopiesPalette(t *testing.T) {
	p := NewPalette()
	r := testRenderer(p, newFakeTypesetter(4, 6))
	p.SetWeightsString("Z")
	if r.Palette().WeightsString() != StandardDarkWeights {
		t.Errorf("Expected renderer palette to be unaffected, got %q", r.Palette().WeightsString())
	}
}

func TestSaveText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	r := testRenderer(nil, newFakeTypesetter(4, 6))
	if err := r.SaveText(context.Background(), path, imageutil.CreateSolidImage(2, 1, black)); err != nil {
		t.Fatalf("SaveText failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "$$\r\n" {
		t.Errorf("Expected %q, got %q", "$$\r\n", string(data))
	}
}

func TestSaveCancelledWritesNothing(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := testRenderer(nil, newFakeTypesetter(4, 6))
	src := imageutil.CreateSolidImage(2, 2, black)

	if err := r.SaveText(ctx, filepath.Join(dir, "a.txt"), src); err == nil {
		t.Error("Expected SaveText to fail")
	}
	if err := r.SaveImage(ctx, filepath.Join(dir, "a.png"), src); err == nil {
		t.Error("Expected SaveImage to fail")
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("Expected no files after cancelled saves, got %d", len(entries))
	}
}

func TestSaveImage(t *testing.T) {
	dir := t.TempDir()
	ts := newFakeTypesetter(4, 6)
	r := testRenderer(nil, ts)
	src := imageutil.CreateSolidImage(2, 2, black)

	path := filepath.Join(dir, "out.png")
	if err := r.SaveImage(context.Background(), path, src); err != nil {
		t.Fatalf("SaveImage failed: %v", err)
	}
	img, err := OpenImage(path)
	if err != nil {
		t.Fatalf("OpenImage failed: %v", err)
	}
	if img.Bounds() != image.Rect(0, 0, 8, 12) {
		t.Errorf("Expected 8x12 image, got %v", img.Bounds())
	}

	ts.draws = nil
	err = r.SaveImage(context.Background(), filepath.Join(dir, "out.webp"), src)
	if !errors.Is(err, ErrFormatUnsupported) {
		t.Errorf("Expected ErrFormatUnsupported, got %v", err)
	}
	if len(ts.draws) != 0 {
		t.Error("Expected no rendering for an unsupported format")
	}
}

func TestSaveAnimation(t *testing.T) {
	frames := []image.Image{
		imageutil.CreateSolidImage(2, 2, black),
		imageutil.CreateSolidImage(2, 2, white),
	}
	src, err := gifcodec.New(frames, 100*time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "out.gif")
	r := testRenderer(nil, newFakeTypesetter(4, 6))
	if err := r.SaveAnimation(context.Background(), path, src, nil); err != nil {
		t.Fatalf("SaveAnimation failed: %v", err)
	}
	back, err := OpenAnimation(path)
	if err != nil {
		t.Fatalf("OpenAnimation failed: %v", err)
	}
	if back.Len() != 2 {
		t.Errorf("Expected 2 frames, got %d", back.Len())
	}
	if back.Frame(0).Delay != 100*time.Millisecond {
		t.Errorf("Expected 100ms delay, got %v", back.Frame(0).Delay)
	}
}

func TestOpenErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := OpenImage(filepath.Join(dir, "none.png")); !errors.Is(err, ErrBadInput) {
		t.Errorf("Expected ErrBadInput, got %v", err)
	}
	if _, err := OpenAnimation(filepath.Join(dir, "none.gif")); !errors.Is(err, ErrIO) {
		t.Errorf("Expected ErrIO, got %v", err)
	}
	bad := filepath.Join(dir, "bad.gif")
	if err := os.WriteFile(bad, []byte("GIF89a"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := OpenAnimation(bad); !errors.Is(err, ErrBadInput) {
		t.Errorf("Expected ErrBadInput, got %v", err)
	}
}
