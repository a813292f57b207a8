// Package frames decodes a source cursor image into per-frame geometry and
// timing.
package frames

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
)

// DelayMultiplier converts the GIF delay unit (1/100 s) into the millisecond
// value xcursorgen expects.
const DelayMultiplier = 10

// Frame is one decoded animation frame.
type Frame struct {
	Width  uint
	Height uint
	Delay  uint
}

// Animated reports whether a frame sequence needs per-frame timing.
func Animated(frames []Frame) bool {
	return len(frames) > 1
}

// DecodeError is returned when the source image cannot be opened or parsed.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Extract opens path and returns its frames in display order.
// A still image, or a GIF with a single frame, yields exactly one frame
// with zero delay.
func Extract(path string) ([]Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}
	defer f.Close()

	frames, err := Decode(f)
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}
	return frames, nil
}

// Decode reads frames from r. GIF streams are decoded frame by frame; any
// other registered image format is treated as a single still frame.
func Decode(r io.Reader) ([]Frame, error) {
	br := bufio.NewReader(r)
	magic, err := br.Peek(6)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	if isGIF(magic) {
		return decodeGIF(br)
	}

	cfg, _, err := image.DecodeConfig(br)
	if err != nil {
		return nil, err
	}
	return []Frame{{Width: uint(cfg.Width), Height: uint(cfg.Height)}}, nil
}

func isGIF(magic []byte) bool {
	return len(magic) >= 6 && (string(magic) == "GIF87a" || string(magic) == "GIF89a")
}

func decodeGIF(r io.Reader) ([]Frame, error) {
	g, err := gif.DecodeAll(r)
	if err != nil {
		return nil, err
	}
	if len(g.Image) == 0 {
		return nil, errors.New("gif has no frames")
	}

	if len(g.Image) == 1 {
		b := g.Image[0].Bounds()
		return []Frame{{Width: uint(b.Dx()), Height: uint(b.Dy())}}, nil
	}

	frames := make([]Frame, len(g.Image))
	for i, img := range g.Image {
		b := img.Bounds()
		var delay int
		if i < len(g.Delay) {
			delay = g.Delay[i]
		}
		if delay < 0 {
			delay = 0
		}
		frames[i] = Frame{
			Width:  uint(b.Dx()),
			Height: uint(b.Dy()),
			Delay:  uint(delay) * DelayMultiplier,
		}
	}
	return frames, nil
}
