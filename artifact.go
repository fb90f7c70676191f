package asciify

import (
	"strings"
	"time"
)

// Style is the set of display attributes shared by one styled run.
// Colors are hex strings like "#ff8800"; an empty string means the terminal
// default.
type Style struct {
	Foreground string
	Background string
	Bold       bool
	Faint      bool
	Italic     bool
	Underline  bool
	Reverse    bool
}

// IsZero reports whether the style carries no attributes at all.
func (s Style) IsZero() bool {
	return s == Style{}
}

// StyledRun is a contiguous text span sharing one style. An ordered sequence
// of runs reconstructs the full display output when concatenated in order.
type StyledRun struct {
	Text  string
	Style Style
}

// Artifact is the decoded result of one conversion: the styled runs produced
// by the converter, tagged with the cache key they were stored under.
type Artifact struct {
	Key       string
	Runs      []StyledRun
	CreatedAt time.Time
}

// Plain returns the concatenated text of all runs with styling dropped.
// This is exactly the content written when a save path is requested.
func (a *Artifact) Plain() string {
	var buf strings.Builder
	for _, run := range a.Runs {
		buf.WriteString(run.Text)
	}
	return buf.String()
}

// ANSI re-encodes the runs as terminal output with SGR escape sequences.
// Styling round-trips through Decode up to parameter ordering.
func (a *Artifact) ANSI() string {
	var buf strings.Builder
	for _, run := range a.Runs {
		buf.WriteString(sgrSequence(run.Style))
		buf.WriteString(run.Text)
	}
	if len(a.Runs) > 0 {
		buf.WriteString("\x1b[0m")
	}
	return buf.String()
}

// Lines splits the plain text into display rows.
// A trailing newline does not produce an empty final row.
func (a *Artifact) Lines() []string {
	plain := strings.TrimSuffix(a.Plain(), "\n")
	if plain == "" {
		return nil
	}
	return strings.Split(plain, "\n")
}
