package background

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wbrown/img2ascii"
	"github.com/wbrown/img2ascii/gifcodec"
	"github.com/wbrown/img2ascii/imageutil"
)

// cellTypesetter measures each rune as a 4x6 cell and fills drawn cells.
type cellTypesetter struct {
	fail error
}

func (c *cellTypesetter) Measure(_ img2ascii.Font, s string) (int, int, error) {
	return 4 * utf8.RuneCountInString(s), 6, c.fail
}

func (c *cellTypesetter) GlyphWidths(img2ascii.Font) ([]int, error) {
	return []int{4}, c.fail
}

func (c *cellTypesetter) FontHeight(img2ascii.Font) (int, error) {
	return 6, c.fail
}

func (c *cellTypesetter) DrawString(dst draw.Image, _ img2ascii.Font, col color.Color, x, y int, _ string) error {
	draw.Draw(dst, image.Rect(x, y-3, x+4, y+3), image.NewUniform(col), image.Point{}, draw.Src)
	return c.fail
}

type recordingHost struct {
	mu    sync.Mutex
	calls []bool
}

func (h *recordingHost) SetEditing(enabled bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.calls = append(h.calls, enabled)
}

func (h *recordingHost) Calls() []bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]bool(nil), h.calls...)
}

func withCells(ts *cellTypesetter) []img2ascii.RendererOption {
	return []img2ascii.RendererOption{img2ascii.WithTypesetter(ts)}
}

func source(w, h int) image.Image {
	return imageutil.CreateGradientImage(w, h)
}

func TestPreviewJob(t *testing.T) {
	host := &recordingHost{}
	d := New(WithHost(host), WithBuffer(64))

	events, err := d.Start(context.Background(), Job{
		Type:            Preview,
		Source:          source(3, 4),
		RendererOptions: withCells(&cellTypesetter{}),
	})
	require.NoError(t, err)

	var seen []Event
	final := Wait(events, func(ev Event) { seen = append(seen, ev) })
	require.True(t, final.Done)
	require.NoError(t, final.Err)
	require.NotNil(t, final.Result)
	assert.Equal(t, image.Rect(0, 0, 12, 24), final.Result.Image.Bounds())
	assert.Empty(t, final.Result.Path)
	assert.Equal(t, []bool{false, true}, host.Calls())

	require.NotEmpty(t, seen)
	last := 0
	for _, ev := range seen {
		assert.Equal(t, "Rendering preview", ev.Stage)
		assert.Equal(t, 4, ev.Max)
		assert.GreaterOrEqual(t, ev.Progress, last)
		last = ev.Progress
	}
}

func TestTextJobSaves(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	p := img2ascii.NewPalette()
	p.SetWeightsString("AB")
	p.UsingPhrase = true

	var stages []string
	events, err := New(WithBuffer(64)).Start(context.Background(), Job{
		Type:            Text,
		Palette:         p,
		Source:          source(3, 1),
		OutputPath:      path,
		RendererOptions: withCells(&cellTypesetter{}),
	})
	require.NoError(t, err)
	final := Wait(events, func(ev Event) {
		if len(stages) == 0 || stages[len(stages)-1] != ev.Stage {
			stages = append(stages, ev.Stage)
		}
	})
	require.NoError(t, final.Err)
	assert.Equal(t, "ABA\r\n", final.Result.Text)
	assert.Equal(t, path, final.Result.Path)
	assert.Equal(t, []string{"Rendering text", "Saving '" + path + "'"}, stages)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "ABA\r\n", string(data))
}

func TestStartCopiesPalette(t *testing.T) {
	p := img2ascii.NewPalette()
	p.SetWeightsString("#.")
	host := &recordingHost{}
	path := filepath.Join(t.TempDir(), "out.txt")

	events, err := New(WithHost(host)).Start(context.Background(), Job{
		Type:            Text,
		Palette:         p,
		Source:          imageutil.CreateSolidImage(2, 2, imageutil.RGB{}),
		OutputPath:      path,
		RendererOptions: withCells(&cellTypesetter{}),
	})
	require.NoError(t, err)
	assert.Equal(t, []bool{false}, host.Calls(), "editing must be disabled before Start returns")

	// Host edits after Start must not reach the running job.
	p.SetWeightsString("XY")
	p.UsingPhrase = true

	final := Wait(events, nil)
	require.NoError(t, final.Err)
	assert.Equal(t, "##\r\n##\r\n", final.Result.Text)
	assert.Equal(t, []bool{false, true}, host.Calls())
}

func TestStillImageJob(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.png")
	res, err := New().Run(context.Background(), Job{
		Type:            StillImage,
		Source:          source(2, 2),
		OutputPath:      path,
		RendererOptions: withCells(&cellTypesetter{}),
	})
	require.NoError(t, err)
	assert.NotNil(t, res.Image)

	img, err := img2ascii.OpenImage(path)
	require.NoError(t, err)
	assert.Equal(t, res.Image.Bounds(), img.Bounds())
}

func TestAnimatedJob(t *testing.T) {
	frames := []image.Image{source(2, 2), source(2, 2), source(2, 2)}
	anim, err := gifcodec.New(frames, 40*time.Millisecond)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "out.gif")

	var renderMax, saveMax []int
	events, err := New(WithBuffer(128)).Start(context.Background(), Job{
		Type:            Animated,
		Animation:       anim,
		OutputPath:      path,
		RendererOptions: withCells(&cellTypesetter{}),
		Encode:          gifcodec.EncodeOptions{Comment: "test"},
	})
	require.NoError(t, err)
	final := Wait(events, func(ev Event) {
		if ev.Stage == "Rendering animation" {
			renderMax = append(renderMax, ev.Max)
		} else {
			saveMax = append(saveMax, ev.Max)
		}
	})
	require.NoError(t, final.Err)
	assert.Equal(t, 3, final.Result.Animation.Len())

	require.NotEmpty(t, renderMax)
	for _, m := range renderMax {
		assert.Equal(t, 6, m)
	}
	require.NotEmpty(t, saveMax)
	for _, m := range saveMax {
		assert.Equal(t, 3, m)
	}

	back, err := img2ascii.OpenAnimation(path)
	require.NoError(t, err)
	assert.Equal(t, 3, back.Len())
	assert.Equal(t, 40*time.Millisecond, back.Frame(0).Delay)
}

func TestInvalidJobs(t *testing.T) {
	d := New()
	dir := t.TempDir()
	cases := []Job{
		{Type: Preview},
		{Type: Text, Source: source(1, 1)},
		{Type: Animated, OutputPath: filepath.Join(dir, "a.gif")},
		{Type: RenderType(42), Source: source(1, 1), OutputPath: "x"},
	}
	for _, job := range cases {
		_, err := d.Start(context.Background(), job)
		assert.ErrorIs(t, err, ErrInvalidJob, job.Type.String())
		assert.ErrorIs(t, err, img2ascii.ErrBadInput)
	}

	_, err := d.Start(context.Background(), Job{Type: StillImage, Source: source(1, 1), OutputPath: filepath.Join(dir, "a.webp")})
	assert.ErrorIs(t, err, img2ascii.ErrFormatUnsupported)
}

func TestCancelledJobSavesNothing(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	host := &recordingHost{}
	events, err := New(WithHost(host)).Start(ctx, Job{
		Type:            Text,
		Source:          source(4, 4),
		OutputPath:      filepath.Join(dir, "out.txt"),
		RendererOptions: withCells(&cellTypesetter{}),
	})
	require.NoError(t, err)
	final := Wait(events, nil)
	assert.ErrorIs(t, final.Err, context.Canceled)
	assert.Equal(t, "Cancelled text", final.Message)
	assert.Nil(t, final.Result)
	assert.Equal(t, []bool{false, true}, host.Calls())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRenderFailureMessage(t *testing.T) {
	host := &recordingHost{}
	fail := errors.New("no fonts")
	events, err := New(WithHost(host)).Start(context.Background(), Job{
		Type:            StillImage,
		Source:          source(2, 2),
		OutputPath:      filepath.Join(t.TempDir(), "out.png"),
		RendererOptions: withCells(&cellTypesetter{fail: fail}),
	})
	require.NoError(t, err)
	final := Wait(events, nil)
	assert.ErrorIs(t, final.Err, img2ascii.ErrHostCapability)
	assert.ErrorIs(t, final.Err, fail)
	assert.Equal(t, "Error rendering image", final.Message)
	assert.Equal(t, []bool{false, true}, host.Calls())
}

func TestSaveFailureMessage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "out.txt")
	events, err := New().Start(context.Background(), Job{
		Type:            Text,
		Source:          source(2, 2),
		OutputPath:      path,
		RendererOptions: withCells(&cellTypesetter{}),
	})
	require.NoError(t, err)
	final := Wait(events, nil)
	assert.ErrorIs(t, final.Err, img2ascii.ErrIO)
	assert.Equal(t, "Error saving '"+path+"'", final.Message)
	assert.Equal(t, "Saving '"+path+"'", final.Stage)
}

func TestProgressNeverBlocks(t *testing.T) {
	// With a one-slot buffer and no reader until the end, the worker must
	// still finish.
	events, err := New(WithBuffer(1)).Start(context.Background(), Job{
		Type:            Preview,
		Source:          source(4, 30),
		RendererOptions: withCells(&cellTypesetter{}),
	})
	require.NoError(t, err)

	time.Sleep(50 * time.Millisecond)
	final := Wait(events, nil)
	assert.True(t, final.Done)
	assert.NoError(t, final.Err)
}

func TestParseRenderType(t *testing.T) {
	for _, rt := range []RenderType{Preview, Text, StillImage, Animated} {
		got, err := ParseRenderType(rt.String())
		require.NoError(t, err)
		assert.Equal(t, rt, got)
	}
	_, err := ParseRenderType("video")
	assert.ErrorIs(t, err, img2ascii.ErrBadInput)
	assert.Equal(t, "RenderType(9)", RenderType(9).String())
}
