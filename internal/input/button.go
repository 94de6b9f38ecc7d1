// Package input turns raw button levels into debounced short-press and
// long-press events.
package input

import "time"

const (
	// debounce is the minimum spacing between accepted presses, anchored at
	// the previous accepted short-press release.
	debounce = 200 * time.Millisecond
	// longPress is the hold duration past which the long event fires.
	longPress = 1000 * time.Millisecond
)

// Event is what one poll of the button produced.
type Event int

const (
	None Event = iota
	ShortPress
	LongPress
)

func (e Event) String() string {
	switch e {
	case ShortPress:
		return "short"
	case LongPress:
		return "long"
	default:
		return "none"
	}
}

// LevelReader samples the instantaneous line level. True means released
// (the line is pulled up), false means pressed.
type LevelReader interface {
	Level() (bool, error)
}

// Button debounces a polled active-low momentary switch.
//
// A press edge is accepted only after the debounce interval. Holding past
// longPress fires LongPress exactly once; releasing earlier fires
// ShortPress. The release that follows a long press produces no event, and
// any release resets the press tracking.
type Button struct {
	lastLevel   bool
	pressStart  time.Time
	longFired   bool
	lastRelease time.Time
}

// NewButton returns a Button that assumes the switch starts released.
func NewButton() *Button {
	return &Button{lastLevel: true}
}

// Poll folds one level sample into the state machine and returns the event
// it completed, if any.
func (b *Button) Poll(now time.Time, level bool) Event {
	ev := None
	switch {
	case b.lastLevel && !level:
		// Press edge. A rejected edge leaves pressStart zero so the hold
		// branch stays inert until the next accepted press.
		if now.Sub(b.lastRelease) > debounce {
			b.pressStart = now
			b.longFired = false
		}
	case !level:
		// Held down.
		if !b.pressStart.IsZero() && !b.longFired && now.Sub(b.pressStart) > longPress {
			b.longFired = true
			ev = LongPress
		}
	case !b.lastLevel && level:
		// Release edge.
		if !b.pressStart.IsZero() && !b.longFired && now.Sub(b.pressStart) < longPress {
			b.lastRelease = now
			ev = ShortPress
		}
		b.pressStart = time.Time{}
	}
	b.lastLevel = level
	return ev
}
