// Command asciify renders images and animated GIFs as ASCII art.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	kongtoml "github.com/alecthomas/kong-toml"
	kongyaml "github.com/alecthomas/kong-yaml"
	"golang.org/x/term"

	"github.com/wbrown/img2ascii"
	"github.com/wbrown/img2ascii/gifcodec"
	"github.com/wbrown/img2ascii/internal/log"
)

const description = `Render images and animated GIFs as ASCII art.

Flags may also be set in a JSON, YAML or TOML configuration file passed
with --config or found in the user configuration directory.`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], console{
		stdout: os.Stdout,
		stderr: os.Stderr,
		tty:    term.IsTerminal(int(os.Stderr.Fd())),
	})
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "asciify:", err)
		os.Exit(1)
	}
}

// console is where commands write their output.
type console struct {
	stdout io.Writer
	stderr io.Writer
	// tty reports whether stderr is a terminal that can show progress.
	tty bool
}

// app is bound into every command's Run method.
type app struct {
	ctx    context.Context
	log    *slog.Logger
	out    console
	layout layoutFunc
}

// layoutFunc reports the terminal size used by the preview command.
type layoutFunc func() (cols, rows int, ok bool)

func terminalLayout() (int, int, bool) {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return 0, 0, false
	}
	cols, rows, err := term.GetSize(fd)
	if err != nil || cols <= 0 {
		return 0, 0, false
	}
	return cols, rows, true
}

func run(ctx context.Context, args []string, out console) error {
	return runWith(ctx, args, out, terminalLayout)
}

func runWith(ctx context.Context, args []string, out console, layout layoutFunc) error {
	jsonPaths, yamlPaths, tomlPaths := configCandidatePaths(findUserConfig(args))

	var cli CLI
	parser, err := kong.New(&cli,
		kong.Name("asciify"),
		kong.Description(description),
		kong.UsageOnError(),
		kong.Writers(out.stdout, out.stderr),
		kong.Vars{
			"presets": strings.Join(img2ascii.PresetNames(), ", "),
			"comment": gifcodec.DefaultComment,
		},
		// Flags and environment override configuration values.
		kong.Configuration(kong.JSON, jsonPaths...),
		kong.Configuration(kongyaml.Loader, yamlPaths...),
		kong.Configuration(kongtoml.Loader, tomlPaths...),
	)
	if err != nil {
		return err
	}
	kctx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	logger, closeFiles, err := log.Setup(log.Config{
		Level:   cli.Log.Level,
		File:    cli.Log.File,
		Console: out.stderr,
		Color:   out.tty,
		Quiet:   cli.Log.Quiet,
	})
	if err != nil {
		return fmt.Errorf("failed to setup logger: %w", err)
	}
	defer func() {
		for _, c := range closeFiles {
			_ = c.Close()
		}
	}()
	img2ascii.SetLogger(logger)
	defer img2ascii.SetLogger(nil)

	return kctx.Run(&app{ctx: ctx, log: logger, out: out, layout: layout})
}
