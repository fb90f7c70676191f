package asciify

import (
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// basicPalette holds the 16 standard terminal colors used by SGR parameters
// 30-37/90-97 (and their background forms), in xterm's default values.
var basicPalette = [16]string{
	"#000000", "#800000", "#008000", "#808000",
	"#000080", "#800080", "#008080", "#c0c0c0",
	"#808080", "#ff0000", "#00ff00", "#ffff00",
	"#0000ff", "#ff00ff", "#00ffff", "#ffffff",
}

// rgbHex renders 8-bit channel values as a hex color string.
func rgbHex(r, g, b int) string {
	c := colorful.Color{R: float64(r) / 255.0, G: float64(g) / 255.0, B: float64(b) / 255.0}
	return c.Hex()
}

// ansi256Hex resolves an xterm 256-color palette index to a hex color.
// Indexes 0-15 are the basic palette, 16-231 the 6x6x6 color cube and
// 232-255 the grayscale ramp.
func ansi256Hex(n int) string {
	switch {
	case n < 0 || n > 255:
		return ""
	case n < 16:
		return basicPalette[n]
	case n < 232:
		n -= 16
		levels := [6]int{0, 95, 135, 175, 215, 255}
		r := levels[n/36]
		g := levels[(n/6)%6]
		b := levels[n%6]
		return rgbHex(r, g, b)
	default:
		v := 8 + 10*(n-232)
		return rgbHex(v, v, v)
	}
}

// sgrSequence renders a style as one SGR escape sequence, starting from a
// full reset so runs are independent of each other.
func sgrSequence(s Style) string {
	params := []string{"0"}
	if s.Bold {
		params = append(params, "1")
	}
	if s.Faint {
		params = append(params, "2")
	}
	if s.Italic {
		params = append(params, "3")
	}
	if s.Underline {
		params = append(params, "4")
	}
	if s.Reverse {
		params = append(params, "7")
	}
	if p, ok := truecolorParams(38, s.Foreground); ok {
		params = append(params, p)
	}
	if p, ok := truecolorParams(48, s.Background); ok {
		params = append(params, p)
	}
	return "\x1b[" + strings.Join(params, ";") + "m"
}

// truecolorParams renders a hex color as 24-bit SGR parameters under the
// given ground (38 foreground, 48 background).
func truecolorParams(ground int, hex string) (string, bool) {
	if hex == "" {
		return "", false
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return "", false
	}
	r, g, b := c.RGB255()
	return fmt.Sprintf("%d;2;%d;%d;%d", ground, r, g, b), true
}
