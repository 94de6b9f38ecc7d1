// Package ui owns the tracker's screen state machine: which screen is
// active, where the menu cursor sits, and what each 16-pixel display row
// currently shows.
//
// Rendering is diff-based. Every screen keeps an explicit cache of what it
// last drew; a tick that changes nothing issues no draw calls at all. A
// full clear happens only on screen changes, on an explicit force flag, or
// on a screen's first render.
package ui

import (
	"trailtracker/internal/nav"
)

// rowPitch is the height of one text row in pixels.
const rowPitch = 16

// colorBlack in RGB565. The panel is monochrome but the display contract
// speaks 16-bit color so other panels can sit behind it.
const colorBlack uint16 = 0x0000

// Display is the drawing surface. Implementations draw text rows opaquely
// so a rewritten row fully replaces the previous one.
type Display interface {
	Fill(rgb uint16)
	WriteText(x, y int, text string)
}

// Power suspends the device. Both calls block until wake; DeepSleep may
// never return on platforms where it halts the process.
type Power interface {
	LightSleep() error
	DeepSleep() error
}

// Fix is the receiver readiness the press handlers need when committing a
// waypoint.
type Fix struct {
	HaveFix     bool
	HasPosition bool
	Position    nav.Point
}

// View is the per-tick snapshot the renderers draw from.
type View struct {
	HaveFix     bool
	TotalInView int
	HDOP        float64

	HasPosition bool
	Position    nav.Point

	HomeSet bool
	Home    nav.Point

	SpeedValid bool
	SpeedKmh   float64

	BatteryPct int
}
