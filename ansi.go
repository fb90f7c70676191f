package asciify

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/spf13/afero"
)

// transportNoisePatterns is the explicit list of transport progress/log
// artifacts scrubbed out of raw converter output before decoding. The
// patterns cover the progress meters curl and wget interleave when a fetch
// backend leaks them into captured output.
var transportNoisePatterns = []*regexp.Regexp{
	// curl progress table header
	regexp.MustCompile(`(?m)^\s*%\s+Total\s+%\s+Received\s+%\s+Xferd.*\r?\n?`),
	// curl progress table columns header
	regexp.MustCompile(`(?m)^\s*Dload\s+Upload\s+Total\s+Spent\s+Left\s+Speed\s*\r?\n?`),
	// curl progress rows ("  0     0    0 ... --:--:-- ...")
	regexp.MustCompile(`(?m)^\s*\d+\s+\d+k?\s+\d+\s+\d+.*--:--:--.*\r?\n?`),
	// curl error lines
	regexp.MustCompile(`(?m)^curl: \(\d+\).*\r?\n?`),
	// wget progress bars ("file.png   100%[=====>]  12.3K  --.-KB/s")
	regexp.MustCompile(`(?m)^.*\d+%\[=*>?\s*\].*/s.*\r?\n?`),
}

// scrubTransportNoise removes known transport log artifacts from raw output.
func scrubTransportNoise(data []byte) []byte {
	for _, pattern := range transportNoisePatterns {
		data = pattern.ReplaceAll(data, nil)
	}
	return data
}

// Decode parses raw converter output into an ordered sequence of styled runs.
// Embedded SGR escape sequences become style changes, every other escape
// sequence is dropped, and the concatenated text of the returned runs equals
// the visually intended output with all escape sequences removed.
func Decode(data []byte) []StyledRun {
	data = scrubTransportNoise(data)

	var (
		runs    []StyledRun
		text    strings.Builder
		current Style
	)

	flush := func() {
		if text.Len() > 0 {
			runs = append(runs, StyledRun{Text: text.String(), Style: current})
			text.Reset()
		}
	}

	for i := 0; i < len(data); i++ {
		b := data[i]
		if b == '\r' {
			continue
		}
		if b != 0x1b {
			text.WriteByte(b)
			continue
		}
		if i+1 >= len(data) {
			break
		}
		switch data[i+1] {
		case '[':
			// CSI: parameters, then one final byte in 0x40-0x7e
			j := i + 2
			for j < len(data) && (data[j] < 0x40 || data[j] > 0x7e) {
				j++
			}
			if j >= len(data) {
				i = len(data)
				break
			}
			if data[j] == 'm' {
				next := applySGR(current, string(data[i+2:j]))
				if next != current {
					flush()
					current = next
				}
			}
			i = j
		case ']':
			// OSC: skip until BEL or ST
			j := i + 2
			for j < len(data) && data[j] != 0x07 {
				if data[j] == 0x1b && j+1 < len(data) && data[j+1] == '\\' {
					j++
					break
				}
				j++
			}
			i = j
		default:
			// Two-byte escape, drop it
			i++
		}
	}
	flush()

	return runs
}

// applySGR applies one SGR parameter string to a style and returns the result.
// Unknown parameters are ignored, matching terminal behavior.
func applySGR(style Style, raw string) Style {
	parts := strings.Split(raw, ";")
	params := make([]int, 0, len(parts))
	for _, part := range parts {
		if part == "" {
			params = append(params, 0)
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return style
		}
		params = append(params, n)
	}

	for i := 0; i < len(params); i++ {
		p := params[i]
		switch {
		case p == 0:
			style = Style{}
		case p == 1:
			style.Bold = true
		case p == 2:
			style.Faint = true
		case p == 3:
			style.Italic = true
		case p == 4:
			style.Underline = true
		case p == 7:
			style.Reverse = true
		case p == 22:
			style.Bold, style.Faint = false, false
		case p == 23:
			style.Italic = false
		case p == 24:
			style.Underline = false
		case p == 27:
			style.Reverse = false
		case p >= 30 && p <= 37:
			style.Foreground = basicPalette[p-30]
		case p == 39:
			style.Foreground = ""
		case p >= 40 && p <= 47:
			style.Background = basicPalette[p-40]
		case p == 49:
			style.Background = ""
		case p >= 90 && p <= 97:
			style.Foreground = basicPalette[p-90+8]
		case p >= 100 && p <= 107:
			style.Background = basicPalette[p-100+8]
		case p == 38 || p == 48:
			color, consumed := extendedColor(params[i+1:])
			if consumed == 0 {
				return style
			}
			if p == 38 {
				style.Foreground = color
			} else {
				style.Background = color
			}
			i += consumed
		}
	}
	return style
}

// extendedColor resolves the parameters following an SGR 38/48 introducer:
// "2;r;g;b" for 24-bit color or "5;n" for a 256-color palette index.
// It returns the resolved color and how many parameters were consumed, or
// 0 when the parameters are malformed.
func extendedColor(params []int) (string, int) {
	if len(params) >= 4 && params[0] == 2 {
		return rgbHex(clampChannel(params[1]), clampChannel(params[2]), clampChannel(params[3])), 4
	}
	if len(params) >= 2 && params[0] == 5 {
		return ansi256Hex(params[1]), 2
	}
	return "", 0
}

func clampChannel(v int) int {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}

// WritePlain persists the decoded textual content of runs to path on fs.
// Persisted output is always plain: color information is knowingly dropped.
func WritePlain(fs afero.Fs, path string, runs []StyledRun) error {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	art := Artifact{Runs: runs}
	if err := afero.WriteFile(fs, path, []byte(art.Plain()), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
