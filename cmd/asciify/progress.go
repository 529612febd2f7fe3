package main

import (
	"fmt"
	"io"
	"sync"

	"github.com/wbrown/img2ascii/background"
)

// progressView shows job progress on a terminal. It is also the driver's
// host: the cursor is hidden while a job runs.
type progressView struct {
	mu    sync.Mutex
	w     io.Writer
	tty   bool
	shown bool
	last  string
}

func newProgressView(w io.Writer, tty bool) *progressView {
	return &progressView{w: w, tty: tty}
}

func (v *progressView) SetEditing(enabled bool) {
	if !v.tty {
		return
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	if enabled {
		fmt.Fprint(v.w, "\033[?25h")
	} else {
		fmt.Fprint(v.w, "\033[?25l")
	}
}

func (v *progressView) update(ev background.Event) {
	if !v.tty || ev.Max <= 0 {
		return
	}
	line := fmt.Sprintf("%s %3d%%", ev.Stage, ev.Progress*100/ev.Max)
	v.mu.Lock()
	defer v.mu.Unlock()
	if line == v.last {
		return
	}
	v.last = line
	v.shown = true
	fmt.Fprintf(v.w, "\r\033[K%s", line)
}

// finish ends the progress line.
func (v *progressView) finish() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.shown {
		fmt.Fprint(v.w, "\r\033[K")
		v.shown = false
	}
}
