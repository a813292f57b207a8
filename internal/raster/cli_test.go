package raster

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/JPM1118/cmredux/internal/testutil"
	"github.com/JPM1118/cmredux/internal/theme"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTools simulates ImageMagick emitting n frames (cursor-0.png ...
// cursor-(n-1).png for animations) and xcursorgen writing its output.
func fakeTools(t *testing.T, n int) *testutil.MockRunner {
	t.Helper()
	return &testutil.MockRunner{
		OnRun: func(c testutil.Call) error {
			switch c.Name {
			case "convert":
				dst := c.Args[1]
				if n == 1 {
					return os.WriteFile(dst, []byte("png"), 0644)
				}
				dir := filepath.Dir(dst)
				for i := 0; i < n; i++ {
					name := filepath.Join(dir, fmt.Sprintf("cursor-%d.png", i))
					if err := os.WriteFile(name, []byte("png"), 0644); err != nil {
						return err
					}
				}
			case "xcursorgen":
				return os.WriteFile(c.Args[3], []byte("Xcur:"+c.Stdin), 0644)
			}
			return nil
		},
	}
}

func newInvoker(r Runner) *Invoker {
	return &Invoker{Tools: DefaultTools(), Runner: r, Log: zerolog.Nop()}
}

func workspace(t *testing.T) (workDir, output string) {
	t.Helper()
	workDir = t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(workDir, "cursors"), 0755))
	return workDir, filepath.Join(workDir, "cursors", "pointer")
}

func TestRasterize_Animated(t *testing.T) {
	workDir, output := workspace(t)
	runner := fakeTools(t, 3)
	cfg := "32 0 0 cursor.png 100\n32 0 0 cursor-1.png 200\n32 0 0 cursor-2.png 50\n"

	err := newInvoker(runner).Rasterize(context.Background(), "/lib/spin.gif", workDir, cfg, 3, output)
	require.NoError(t, err)

	calls := runner.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, "convert", calls[0].Name)
	assert.Equal(t, []string{"/lib/spin.gif", filepath.Join(workDir, "cursor.png")}, calls[0].Args)
	assert.Equal(t, "xcursorgen", calls[1].Name)
	assert.Equal(t, []string{"-p", workDir, "-", output + ".new"}, calls[1].Args)
	assert.Equal(t, cfg, calls[1].Stdin)

	// cursor-0.png was normalized to cursor.png.
	assert.FileExists(t, filepath.Join(workDir, "cursor.png"))
	assert.NoFileExists(t, filepath.Join(workDir, "cursor-0.png"))

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, "Xcur:"+cfg, string(data))
	assert.NoFileExists(t, output+".new")
}

func TestRasterize_Static(t *testing.T) {
	workDir, output := workspace(t)
	runner := fakeTools(t, 1)

	err := newInvoker(runner).Rasterize(context.Background(), "/lib/arrow.png", workDir, "32 0 0 cursor.png", 1, output)
	require.NoError(t, err)
	assert.FileExists(t, output)
}

func TestRasterize_FrameCountMismatch(t *testing.T) {
	workDir, output := workspace(t)
	runner := fakeTools(t, 2)

	err := newInvoker(runner).Rasterize(context.Background(), "/lib/spin.gif", workDir, "", 3, output)
	var tErr *ExternalToolError
	require.ErrorAs(t, err, &tErr)
	assert.Equal(t, "convert", tErr.Tool)
	assert.Contains(t, err.Error(), "emitted 2 frames, decoder counted 3")

	// The compiler never ran.
	assert.Empty(t, runner.CallsTo("xcursorgen"))
	assert.NoFileExists(t, output)
}

func TestRasterize_ConvertFails(t *testing.T) {
	workDir, output := workspace(t)
	runner := fakeTools(t, 1)
	runner.Errs = map[string]error{"convert": errors.New("exit status 1")}

	err := newInvoker(runner).Rasterize(context.Background(), "/lib/bad.gif", workDir, "", 1, output)
	var tErr *ExternalToolError
	require.ErrorAs(t, err, &tErr)
	assert.Equal(t, "convert", tErr.Tool)
	assert.Empty(t, runner.CallsTo("xcursorgen"))
}

func TestRasterize_CompileFailsKeepsPreviousCursor(t *testing.T) {
	workDir, output := workspace(t)
	require.NoError(t, os.WriteFile(output, []byte("previous"), 0644))

	runner := fakeTools(t, 1)
	runner.OnRun = func(c testutil.Call) error {
		switch c.Name {
		case "convert":
			return os.WriteFile(c.Args[1], []byte("png"), 0644)
		case "xcursorgen":
			// Partial output before dying.
			if err := os.WriteFile(c.Args[3], []byte("trunc"), 0644); err != nil {
				return err
			}
			return &ExternalToolError{Tool: "xcursorgen", Err: errors.New("exit status 1"), Stderr: "bad config"}
		}
		return nil
	}

	err := newInvoker(runner).Rasterize(context.Background(), "/lib/a.gif", workDir, "32 0 0 cursor.png", 1, output)
	var tErr *ExternalToolError
	require.ErrorAs(t, err, &tErr)
	assert.Equal(t, "xcursorgen", tErr.Tool)
	assert.Equal(t, "xcursorgen: bad config", err.Error())

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, "previous", string(data))
	assert.NoFileExists(t, output+".new")
}

func TestRasterize_CompileWritesNothing(t *testing.T) {
	workDir, output := workspace(t)
	runner := fakeTools(t, 1)
	runner.OnRun = func(c testutil.Call) error {
		if c.Name == "convert" {
			return os.WriteFile(c.Args[1], []byte("png"), 0644)
		}
		return nil
	}

	err := newInvoker(runner).Rasterize(context.Background(), "/lib/a.gif", workDir, "32 0 0 cursor.png", 1, output)
	var tErr *ExternalToolError
	require.ErrorAs(t, err, &tErr)
	assert.Equal(t, "xcursorgen", tErr.Tool)
}

func TestRasterize_WrapsPlainRunnerErrors(t *testing.T) {
	workDir, output := workspace(t)
	boom := errors.New("boom")
	runner := &testutil.MockRunner{Errs: map[string]error{"convert": boom}}

	err := newInvoker(runner).Rasterize(context.Background(), "/lib/a.gif", workDir, "", 1, output)
	var tErr *ExternalToolError
	require.ErrorAs(t, err, &tErr)
	assert.ErrorIs(t, err, boom)
}

func TestRasterize_InstallFailureIsFilesystemError(t *testing.T) {
	workDir, output := workspace(t)
	// A non-empty directory at the canonical path cannot be replaced by a file.
	require.NoError(t, os.MkdirAll(filepath.Join(output, "blocker"), 0755))
	runner := fakeTools(t, 1)

	err := newInvoker(runner).Rasterize(context.Background(), "/lib/a.gif", workDir, "32 0 0 cursor.png", 1, output)
	var fsErr *theme.FilesystemError
	require.ErrorAs(t, err, &fsErr)
	assert.Equal(t, "rename", fsErr.Op)
	assert.Equal(t, output, fsErr.Path)

	var tErr *ExternalToolError
	assert.False(t, errors.As(err, &tErr))
	assert.NoFileExists(t, output+theme.PendingSuffix)
}

func TestCountFrames(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"cursor.png", "cursor-1.png", "cursor-12.png", "other.png", "cursor-x.png", "cursor.gif"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0644))
	}
	n, err := CountFrames(dir)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestNormalizeFirstFrame_Conflict(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cursor.png"), nil, 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cursor-0.png"), nil, 0644))
	assert.Error(t, normalizeFirstFrame(dir))
}

func TestExternalToolError_Message(t *testing.T) {
	err := &ExternalToolError{Tool: "convert", Err: errors.New("exit status 1")}
	assert.Equal(t, "convert: exit status 1", err.Error())
}
