package asciify

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

// ThresholdUnset marks an absent threshold: no --threshold flag is emitted
// and the converter's own default applies.
const ThresholdUnset = -1

// Options is the configuration record for one conversion.
// The zero value is not useful because Threshold 0 is a valid explicit
// value; start from DefaultOptions instead.
type Options struct {
	Color     bool // emit ANSI color
	Negative  bool // invert brightness
	Grayscale bool // gray glyph ramp
	Complex   bool // extended glyph set
	Braille   bool // Braille glyphs instead of ASCII
	Dither    bool // dithering; inert unless Braille is set

	// Threshold selects the Braille luminance cutoff. Must be ThresholdUnset
	// or within [0,255]; validated before any side effect occurs.
	Threshold int

	Width  int // target columns; 0 leaves it to the converter
	Height int // target rows; 0 leaves it to the converter

	// SaveTo persists the decoded plain text to this path. Persisted output
	// drops color information.
	SaveTo string

	// NoDisplay skips delivery to the display surface.
	NoDisplay bool
}

// DefaultOptions returns an Options with nothing enabled and no threshold.
func DefaultOptions() Options {
	return Options{Threshold: ThresholdUnset}
}

// Validate rejects out-of-range option values. It runs before any file is
// written or process spawned.
func (o Options) Validate() error {
	if o.Threshold != ThresholdUnset && (o.Threshold < 0 || o.Threshold > 255) {
		return &OptionError{Name: "threshold", Value: o.Threshold}
	}
	if o.Width < 0 {
		return &OptionError{Name: "width", Value: o.Width}
	}
	if o.Height < 0 {
		return &OptionError{Name: "height", Value: o.Height}
	}
	return nil
}

// buildArgs constructs the converter's argument vector: the image path
// followed by the flat flag list. Boolean options emit a single flag token,
// value options a flag token followed by its value token, and false/absent
// options emit nothing. No shell is involved anywhere, so paths and values
// containing spaces or metacharacters pass through unaltered.
func buildArgs(path string, o Options) []string {
	args := []string{path}
	if o.Color {
		args = append(args, "--color")
	}
	if o.Negative {
		args = append(args, "--negative")
	}
	if o.Grayscale {
		args = append(args, "--grayscale")
	}
	if o.Complex {
		args = append(args, "--complex")
	}
	if o.Width > 0 {
		args = append(args, "--width", strconv.Itoa(o.Width))
	}
	if o.Height > 0 {
		args = append(args, "--height", strconv.Itoa(o.Height))
	}
	if o.Threshold != ThresholdUnset {
		args = append(args, "--threshold", strconv.Itoa(o.Threshold))
	}
	if o.Braille {
		args = append(args, "--braille")
	}
	if o.Dither {
		args = append(args, "--dither")
	}
	return args
}

// invoke spawns the converter against a materialized file and captures its
// raw output. The environment forces true-color terminal capability so color
// output is emitted even when the host has no real terminal.
func (c *Converter) invoke(ctx context.Context, binPath, imagePath string, opts Options) ([]byte, error) {
	args := buildArgs(imagePath, opts)
	env := append(os.Environ(), c.env...)
	env = append(env, "COLORTERM=truecolor")

	c.log.Debug().Str("binary", binPath).Strs("args", args).Msg("invoking converter")

	out, err := c.run(ctx, binPath, args, env)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConversionFailed, err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: converter produced no output", ErrConversionFailed)
	}
	return out, nil
}

// defaultRun executes the binary with os/exec and returns captured stdout.
func defaultRun(ctx context.Context, binary string, args []string, env []string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Env = env

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return nil, fmt.Errorf("%v: %s", err, msg)
		}
		return nil, err
	}
	return stdout.Bytes(), nil
}
