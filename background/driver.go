package background

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/wbrown/img2ascii"
	"github.com/wbrown/img2ascii/gifcodec"
)

// Event is one progress report or the final outcome of a job. The last
// event on a channel has Done set.
type Event struct {
	// Stage labels the current step, such as "Rendering text" or
	// "Saving 'out.gif'".
	Stage string
	// Progress counts completed units out of Max.
	Progress int
	Max      int

	// Done marks the final event. Err and Message are set when the job
	// failed; Result when it succeeded.
	Done    bool
	Err     error
	Message string
	Result  *Result
}

// Result holds what a successful job produced. Only the field matching
// the job type is set; Path is set for saved outputs.
type Result struct {
	Text      string
	Image     *image.RGBA
	Animation *gifcodec.Animation
	Path      string
	Elapsed   time.Duration
}

// Host is notified when editing should be blocked while a job runs.
type Host interface {
	SetEditing(enabled bool)
}

// Driver starts jobs.
type Driver struct {
	host   Host
	buffer int
}

// Option configures a Driver.
type Option func(*Driver)

// WithHost sets the host whose editing is disabled while jobs run.
func WithHost(h Host) Option {
	return func(d *Driver) {
		d.host = h
	}
}

// WithBuffer sets the event channel capacity. Progress events that do not
// fit are dropped; the final event is always delivered.
func WithBuffer(n int) Option {
	return func(d *Driver) {
		d.buffer = max(n, 1)
	}
}

// New creates a Driver.
func New(opts ...Option) *Driver {
	d := &Driver{buffer: 16}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Start validates job and runs it on a new goroutine. The palette is
// copied and host editing disabled before Start returns, so the host may
// edit its palette straight away. The returned channel carries progress
// events and is closed after the final event. Cancelling ctx stops the
// render at the next row; nothing is saved.
func (d *Driver) Start(ctx context.Context, job Job) (<-chan Event, error) {
	if err := job.validate(); err != nil {
		return nil, err
	}
	if job.Palette != nil {
		job.Palette = job.Palette.Clone()
	} else {
		job.Palette = img2ascii.NewPalette()
	}
	if d.host != nil {
		d.host.SetEditing(false)
	}
	events := make(chan Event, d.buffer)
	go d.run(ctx, job, events)
	return events, nil
}

// Run starts job and waits for its final event.
func (d *Driver) Run(ctx context.Context, job Job) (*Result, error) {
	events, err := d.Start(ctx, job)
	if err != nil {
		return nil, err
	}
	final := Wait(events, nil)
	return final.Result, final.Err
}

// Wait drains events, passing each progress event to fn if it is not nil,
// and returns the final event.
func Wait(events <-chan Event, fn func(Event)) Event {
	var final Event
	for ev := range events {
		if ev.Done {
			final = ev
			continue
		}
		if fn != nil {
			fn(ev)
		}
	}
	return final
}

// run executes job, re-enables host editing and always sends one final
// event.
func (d *Driver) run(ctx context.Context, job Job, events chan<- Event) {
	defer close(events)
	log := img2ascii.Logger().With("job", job.Type.String())

	start := time.Now()
	res, stage, err := d.execute(ctx, job, events)
	if d.host != nil {
		d.host.SetEditing(true)
	}

	final := Event{Stage: stage, Done: true}
	switch {
	case err == nil:
		res.Elapsed = time.Since(start)
		final.Result = res
		log.Info("job finished", "elapsed", res.Elapsed, "path", res.Path)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		final.Err = err
		final.Message = "Cancelled " + job.Type.String()
		log.Debug("job cancelled", "stage", stage)
	default:
		final.Err = err
		final.Message = failureMessage(job, stage)
		log.Error("job failed", "stage", stage, "error", err)
	}
	events <- final
}

func renderStage(t RenderType) string { return "Rendering " + t.String() }

func saveStage(path string) string { return fmt.Sprintf("Saving '%s'", path) }

func failureMessage(job Job, stage string) string {
	if stage == saveStage(job.OutputPath) {
		return fmt.Sprintf("Error saving '%s'", job.OutputPath)
	}
	return "Error rendering " + job.Type.String()
}

// progress publishes a progress event without blocking the worker.
func progress(events chan<- Event, stage string, done, total int) {
	select {
	case events <- Event{Stage: stage, Progress: done, Max: total}:
	default:
	}
}

// execute renders and saves. It returns the stage that was running when
// it stopped.
func (d *Driver) execute(ctx context.Context, job Job, events chan<- Event) (*Result, string, error) {
	stage := renderStage(job.Type)
	frames := 1
	if job.Type == Animated {
		frames = job.Animation.Len()
	}

	opts := []img2ascii.RendererOption{
		img2ascii.WithProgress(func(p img2ascii.Progress) {
			progress(events, stage, p.Frame*p.Rows+p.Row, p.Rows*frames)
		}),
	}
	r := img2ascii.NewRenderer(job.Palette, append(opts, job.RendererOptions...)...)

	res := &Result{}
	var err error
	switch job.Type {
	case Preview, StillImage:
		res.Image, err = r.RenderImage(ctx, job.Source)
	case Text:
		res.Text, err = r.RenderText(ctx, job.Source)
	case Animated:
		res.Animation, err = r.RenderAnimation(ctx, job.Animation)
	}
	if err != nil {
		return nil, stage, err
	}
	if job.Type == Preview {
		return res, stage, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, stage, err
	}

	stage = saveStage(job.OutputPath)
	res.Path = job.OutputPath
	progress(events, stage, 0, frames)
	switch job.Type {
	case Text:
		err = img2ascii.WriteText(job.OutputPath, res.Text)
	case StillImage:
		err = img2ascii.WriteImage(job.OutputPath, res.Image)
	case Animated:
		enc := job.Encode
		enc.Progress = func(done, total int) {
			progress(events, stage, done, total)
		}
		err = img2ascii.WriteAnimation(job.OutputPath, res.Animation, &enc)
	}
	if err != nil {
		return nil, stage, err
	}
	progress(events, stage, frames, frames)
	return res, stage, nil
}
