// Package raster drives the external converter and cursor compiler that turn
// a source image plus a frame description into an Xcursor binary.
package raster

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/JPM1118/cmredux/internal/theme"
	"github.com/JPM1118/cmredux/internal/xcursor"
	"github.com/rs/zerolog"
)

// Tools names the external binaries.
type Tools struct {
	// Convert splits the source image into one PNG per frame (ImageMagick).
	Convert string
	// Compile builds the Xcursor file from the PNGs (xcursorgen).
	Compile string
}

// DefaultTools returns the ImageMagick/xcursorgen pair.
func DefaultTools() Tools {
	return Tools{Convert: "convert", Compile: "xcursorgen"}
}

// ExternalToolError reports a missing tool or a tool that exited non-zero.
type ExternalToolError struct {
	Tool   string
	Err    error
	Stderr string
}

func (e *ExternalToolError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("%s: %s", e.Tool, e.Stderr)
	}
	return fmt.Sprintf("%s: %v", e.Tool, e.Err)
}

func (e *ExternalToolError) Unwrap() error {
	return e.Err
}

// Runner runs one external command to completion.
// ExecRunner implements this interface. Tests can provide mock implementations.
type Runner interface {
	Run(ctx context.Context, name string, args []string, stdin io.Reader) error
}

// ExecRunner runs commands with os/exec and waits for them to exit.
type ExecRunner struct{}

var _ Runner = ExecRunner{}

// Run starts name with args, feeding stdin if non-nil. Any failure to start
// or a non-zero exit becomes an *ExternalToolError.
func (ExecRunner) Run(ctx context.Context, name string, args []string, stdin io.Reader) error {
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr bytes.Buffer
	cmd.Stdin = stdin
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return &ExternalToolError{
			Tool:   name,
			Err:    err,
			Stderr: strings.TrimSpace(stderr.String()),
		}
	}
	return nil
}

// Invoker turns a source image into a compiled cursor.
type Invoker struct {
	Tools  Tools
	Runner Runner
	Log    zerolog.Logger
}

// NewInvoker returns an Invoker running tools through os/exec.
func NewInvoker(tools Tools, log zerolog.Logger) *Invoker {
	return &Invoker{Tools: tools, Runner: ExecRunner{}, Log: log}
}

// Rasterize converts source into per-frame PNGs under workDir, checks the
// converter produced frameCount of them, then pipes cfg into the compiler
// to write output. The compiled file is written next to output and renamed
// into place only once the compiler succeeded.
func (inv *Invoker) Rasterize(ctx context.Context, source, workDir, cfg string, frameCount int, output string) error {
	if err := inv.convert(ctx, source, workDir, frameCount); err != nil {
		return err
	}
	return inv.compile(ctx, workDir, cfg, output)
}

func (inv *Invoker) convert(ctx context.Context, source, workDir string, frameCount int) error {
	args := []string{source, filepath.Join(workDir, xcursor.FrameFile(0))}
	inv.Log.Debug().Str("tool", inv.Tools.Convert).Strs("args", args).Msg("converting source")

	if err := inv.run(ctx, inv.Tools.Convert, args, nil); err != nil {
		return err
	}

	if err := normalizeFirstFrame(workDir); err != nil {
		return &ExternalToolError{Tool: inv.Tools.Convert, Err: err}
	}

	got, err := CountFrames(workDir)
	if err != nil {
		return &ExternalToolError{Tool: inv.Tools.Convert, Err: err}
	}
	if got != frameCount {
		return &ExternalToolError{
			Tool: inv.Tools.Convert,
			Err:  fmt.Errorf("emitted %d frames, decoder counted %d", got, frameCount),
		}
	}
	for i := 0; i < frameCount; i++ {
		if _, err := os.Stat(filepath.Join(workDir, xcursor.FrameFile(i))); err != nil {
			return &ExternalToolError{
				Tool: inv.Tools.Convert,
				Err:  fmt.Errorf("missing frame %s: %w", xcursor.FrameFile(i), err),
			}
		}
	}
	return nil
}

func (inv *Invoker) compile(ctx context.Context, workDir, cfg, output string) error {
	tmp := output + theme.PendingSuffix
	args := []string{"-p", workDir, "-", tmp}
	inv.Log.Debug().Str("tool", inv.Tools.Compile).Strs("args", args).Msg("compiling cursor")

	if err := inv.run(ctx, inv.Tools.Compile, args, strings.NewReader(cfg)); err != nil {
		os.Remove(tmp)
		return err
	}

	if _, err := os.Stat(tmp); err != nil {
		return &ExternalToolError{
			Tool: inv.Tools.Compile,
			Err:  fmt.Errorf("no output written: %w", err),
		}
	}
	if err := os.Rename(tmp, output); err != nil {
		os.Remove(tmp)
		return &theme.FilesystemError{Op: "rename", Path: output, Err: err}
	}
	return nil
}

func (inv *Invoker) run(ctx context.Context, name string, args []string, stdin io.Reader) error {
	err := inv.Runner.Run(ctx, name, args, stdin)
	if err == nil {
		return nil
	}
	var tErr *ExternalToolError
	if errors.As(err, &tErr) {
		return err
	}
	return &ExternalToolError{Tool: name, Err: err}
}

var frameFilePattern = regexp.MustCompile(`^cursor(-[0-9]+)?\.png$`)

// CountFrames returns the number of frame PNGs directly under dir.
func CountFrames(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, e := range entries {
		if !e.IsDir() && frameFilePattern.MatchString(e.Name()) {
			n++
		}
	}
	return n, nil
}

// normalizeFirstFrame renames ImageMagick's cursor-0.png to cursor.png so
// frame 0 follows the same naming as a still image.
func normalizeFirstFrame(dir string) error {
	first := filepath.Join(dir, xcursor.FrameFile(0))
	zero := filepath.Join(dir, "cursor-0.png")

	if _, err := os.Stat(zero); err != nil {
		return nil
	}
	if _, err := os.Stat(first); err == nil {
		return fmt.Errorf("both %s and cursor-0.png present", xcursor.FrameFile(0))
	}
	return os.Rename(zero, first)
}

// CheckTools verifies both rasterizer binaries are on PATH.
func CheckTools(tools Tools) error {
	var missing []string
	for _, name := range []string{tools.Convert, tools.Compile} {
		if _, err := exec.LookPath(name); err != nil {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return &ExternalToolError{
			Tool: strings.Join(missing, ", "),
			Err:  fmt.Errorf("not found in PATH; cursors will not be applicable (install ImageMagick and xcursorgen)"),
		}
	}
	return nil
}
