// Package palette maps statistics onto the dashboard's fixed colour scales.
// The breakpoints (0/50/100% win rate, 1500s/3000s duration) are the ones the
// dashboard has always used and must not drift.
package palette

import (
	"fmt"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is an 8-bit sRGB triple.
type Color struct {
	R, G, B uint8
}

// String renders the colour as a CSS rgb() value without spaces.
func (c Color) String() string {
	return fmt.Sprintf("rgb(%d,%d,%d)", c.R, c.G, c.B)
}

// Hex renders the colour as #rrggbb.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func mustHex(s string) Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(fmt.Sprintf("palette: bad anchor %q: %v", s, err))
	}
	r, g, b := c.RGB255()
	return Color{R: r, G: g, B: b}
}

var (
	red    = mustHex("#e74c3c")
	orange = mustHex("#e67e22")
	yellow = mustHex("#f1c40f")
	green  = mustHex("#2ecc71")
	blue   = mustHex("#3498db")

	durationShort = mustHex("#43b581")
	durationLong  = mustHex("#f04747")
)

const (
	durationShortSec = 1500
	durationLongSec  = 3000
)

// lerp interpolates each channel and rounds half up.
func lerp(from, to Color, t float64) Color {
	ch := func(a, b uint8) uint8 {
		v := float64(a) + (float64(b)-float64(a))*t
		return uint8(math.Floor(v + 0.5))
	}
	return Color{R: ch(from.R, to.R), G: ch(from.G, to.G), B: ch(from.B, to.B)}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// ForWinRate grades a win percentage red (0) through yellow (50) to green (100).
// Values outside [0,100] are clamped.
func ForWinRate(pct float64) Color {
	pct = clamp(pct, 0, 100)
	if pct < 50 {
		return lerp(red, yellow, pct/50)
	}
	return lerp(yellow, green, (pct-50)/50)
}

// ForDuration grades match length green (<=1500s) to red (>=3000s).
func ForDuration(durationSec int) Color {
	if durationSec <= durationShortSec {
		return durationShort
	}
	if durationSec >= durationLongSec {
		return durationLong
	}
	t := float64(durationSec-durationShortSec) / float64(durationLongSec-durationShortSec)
	return lerp(durationShort, durationLong, t)
}

// ForKDA buckets a (kills+assists)/deaths ratio into four bands.
// Zero deaths count as one.
func ForKDA(kills, deaths, assists float64) Color {
	if deaths == 0 {
		deaths = 1
	}
	ratio := (kills + assists) / deaths
	switch {
	case ratio < 2:
		return red
	case ratio < 3:
		return orange
	case ratio < 4:
		return yellow
	default:
		return green
	}
}

// ForActivity grades a 0..1 share of the busiest day from yellow to blue.
func ForActivity(ratio float64) Color {
	return lerp(yellow, blue, clamp(ratio, 0, 1))
}
