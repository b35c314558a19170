package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ppiankov/gonogo/internal/model"
)

// Color is an sRGB color
type Color struct {
	R, G, B uint8
}

// Hex parses "#rrggbb" (the leading # is optional). Malformed input yields black.
func Hex(s string) Color {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return Color{}
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return Color{}
	}
	return Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}
}

// String returns the color as "#rrggbb"
func (c Color) String() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

var (
	ColorPrimary   = Hex("#1e3a5f")
	ColorAccent    = Hex("#2563eb")
	ColorMuted     = Hex("#6b7280")
	ColorBorder    = Hex("#e5e7eb")
	ColorRowAlt    = Hex("#f9fafb")
	ColorTotals    = Hex("#e0e7ff")
	ColorText      = Hex("#111827")
	ColorWhite     = Hex("#ffffff")
	ColorNoteBg    = Hex("#f5f3ff")
	ColorNoteEdge  = Hex("#7c3aed")
	ColorBarTrack  = Hex("#e5e7eb")
	colorGoFg      = Hex("#16a34a")
	colorGoBg      = Hex("#dcfce7")
	colorCautionFg = Hex("#d97706")
	colorCautionBg = Hex("#fef3c7")
	colorNoGoFg    = Hex("#dc2626")
	colorNoGoBg    = Hex("#fee2e2")
)

// VerdictColors returns the foreground and background used for a verdict
func VerdictColors(v model.Verdict) (fg, bg Color) {
	switch v {
	case model.VerdictGo:
		return colorGoFg, colorGoBg
	case model.VerdictCaution:
		return colorCautionFg, colorCautionBg
	default:
		return colorNoGoFg, colorNoGoBg
	}
}

