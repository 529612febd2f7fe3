package img2ascii

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/wbrown/img2ascii/gifcodec"
)

// nopHandler is a slog.Handler that discards all records.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(slog.New(nopHandler{}))
}

// SetLogger configures the logger for img2ascii and its sub-packages.
// By default nothing is logged. Pass nil to restore silence.
//
// Log levels used:
//   - [slog.LevelDebug]: font fallback, resample sizes, frame decoding
//   - [slog.LevelInfo]: saved outputs
//   - [slog.LevelWarn]: recoverable problems such as unknown font families
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(nopHandler{})
	}
	loggerPtr.Store(l)
	gifcodec.SetLogger(l)
}

// Logger returns the current logger. Sub-packages that import img2ascii
// (background, cmd/asciify) log through it.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
