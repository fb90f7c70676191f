package asciify

import "io"

// Display is the host text surface that receives freshly decoded artifacts.
// The pipeline only ever calls Clear, then InsertStyled, then RefreshStyling.
type Display interface {
	// Clear empties the surface.
	Clear()

	// InsertStyled replaces the surface content with the given runs.
	InsertStyled(runs []StyledRun)

	// RefreshStyling reapplies any host-side styling after an insert.
	RefreshStyling()
}

// WriterDisplay renders artifacts to an io.Writer with ANSI escape
// sequences. Clear and RefreshStyling are no-ops; the writer is treated as
// append-only terminal output.
type WriterDisplay struct {
	W io.Writer
}

func (d *WriterDisplay) Clear() {}

func (d *WriterDisplay) InsertStyled(runs []StyledRun) {
	art := Artifact{Runs: runs}
	io.WriteString(d.W, art.ANSI())
}

func (d *WriterDisplay) RefreshStyling() {}
