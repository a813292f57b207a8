// Package xcursor renders the frame description read by xcursorgen.
package xcursor

import (
	"errors"
	"fmt"
	"strings"

	"github.com/JPM1118/cmredux/internal/frames"
)

// Options holds the nominal cursor size and hotspot written on every line.
type Options struct {
	Size int
	HotX int
	HotY int
}

// DefaultOptions returns a 32px cursor with its hotspot at the top-left.
func DefaultOptions() Options {
	return Options{Size: 32}
}

// ErrNoFrames is returned when there is nothing to describe.
var ErrNoFrames = errors.New("no frames to describe")

// FrameFile returns the raster file name for frame i.
func FrameFile(i int) string {
	if i == 0 {
		return "cursor.png"
	}
	return fmt.Sprintf("cursor-%d.png", i)
}

// Generate returns the config text for the given frames, one line per
// frame: "<size> <hot_x> <hot_y> <file> <delay>".
//
// A single frame collapses to "<size> <hot_x> <hot_y> cursor.png" with no
// delay field and no line terminator; xcursorgen's static mode rejects a
// timing field.
func Generate(fs []frames.Frame, opts Options) (string, error) {
	if len(fs) == 0 {
		return "", ErrNoFrames
	}

	if len(fs) == 1 {
		return fmt.Sprintf("%d %d %d %s", opts.Size, opts.HotX, opts.HotY, FrameFile(0)), nil
	}

	var b strings.Builder
	for i, f := range fs {
		fmt.Fprintf(&b, "%d %d %d %s %d\n", opts.Size, opts.HotX, opts.HotY, FrameFile(i), f.Delay)
	}
	return b.String(), nil
}
